package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/JWehbe/tikshop_backend/models"
	"github.com/JWehbe/tikshop_backend/utils"
)

// WalletService handles interactions with the USDT wallet gateway used for
// seller payouts and wallet-funded bulk payments.
type WalletService struct {
	baseURL   string
	channel   string
	secret    string
	isTesting bool
}

// NewWalletService creates a new wallet gateway client from environment config
func NewWalletService() *WalletService {
	walletEnv := os.Getenv("WALLET_ENV")
	isTesting := walletEnv == "testing"

	baseURL := os.Getenv("WALLET_BASE_URL")
	if baseURL == "" {
		if isTesting {
			baseURL = "https://api.sandbox.wallet-gw.io/v1/"
		} else {
			baseURL = "https://api.wallet-gw.io/v1/"
		}
	}

	channel := os.Getenv("WALLET_CHANNEL")
	secret := os.Getenv("WALLET_SECRET")

	if channel == "" || secret == "" {
		log.Printf("WARNING: wallet gateway credentials not fully configured:")
		if channel == "" {
			log.Printf("  - WALLET_CHANNEL is missing")
		}
		if secret == "" {
			log.Printf("  - WALLET_SECRET is missing")
		}
		log.Printf("Set WALLET_ENV=testing to use the sandbox, or leave unset for production")
	}

	return &WalletService{
		baseURL:   baseURL,
		channel:   channel,
		secret:    secret,
		isTesting: isTesting,
	}
}

func (s *WalletService) getHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"channel":      s.channel,
		"secret":       s.secret,
	}
}

// makeRequest performs an HTTP request to the wallet gateway
func (s *WalletService) makeRequest(method, endpoint string, payload interface{}) (*models.WalletResponse, error) {
	url := s.baseURL + endpoint

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if s.channel == "" || s.secret == "" {
		return nil, fmt.Errorf("missing wallet gateway credentials. Please set WALLET_CHANNEL and WALLET_SECRET environment variables")
	}

	for key, value := range s.getHeaders() {
		req.Header.Set(key, value)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if s.isTesting || os.Getenv("WALLET_DEBUG") == "true" {
		log.Printf("Wallet gateway response: %s", string(respBody))
	}

	var walletResp models.WalletResponse
	if err := json.Unmarshal(respBody, &walletResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w\nResponse body: %s", err, string(respBody))
	}

	if !walletResp.Status {
		code := "unknown"
		if walletResp.Code != nil {
			code = fmt.Sprintf("%v", walletResp.Code)
		}

		var errorMsg string
		if walletResp.Dialog != nil {
			if dialogMap, ok := walletResp.Dialog.(map[string]interface{}); ok {
				if msg, ok := dialogMap["message"].(string); ok {
					errorMsg = fmt.Sprintf("wallet gateway error: %s - %s", code, msg)
				}
			}
		}
		if errorMsg == "" {
			errorMsg = fmt.Sprintf("wallet gateway error: %s", code)
		}

		log.Printf("Wallet gateway error details: Code=%s, Dialog=%v", code, walletResp.Dialog)

		return &walletResp, fmt.Errorf("%s", errorMsg)
	}

	return &walletResp, nil
}

// GetBalance retrieves the platform account balance at the gateway
func (s *WalletService) GetBalance() (float64, error) {
	resp, err := s.makeRequest("GET", "account/balance", nil)
	if err != nil {
		return 0, err
	}

	if balanceDetails, ok := resp.Data["balanceDetails"].(map[string]interface{}); ok {
		switch balance := balanceDetails["balance"].(type) {
		case float64:
			return balance, nil
		case string:
			// Some gateway environments serialize money as strings
			return utils.ParseFloat(balance)
		}
	}

	return 0, fmt.Errorf("failed to parse balance from response")
}

// Payout sends a withdrawal payout to a seller's USDT wallet and returns the
// gateway reference for the transaction
func (s *WalletService) Payout(usdtID string, amount float64, externalID int64) (string, error) {
	payload := models.WalletRequest{
		Amount:     &amount,
		Currency:   "USDT",
		UsdtID:     usdtID,
		ExternalID: &externalID,
	}

	resp, err := s.makeRequest("POST", "payout", payload)
	if err != nil {
		return "", err
	}

	if ref, ok := resp.Data["reference"].(string); ok {
		return ref, nil
	}

	return "", fmt.Errorf("failed to parse payout reference from response")
}

// GetPayoutStatus returns the status of a previously created payout
func (s *WalletService) GetPayoutStatus(externalID int64) (string, string, error) {
	payload := models.WalletRequest{
		Currency:   "USDT",
		ExternalID: &externalID,
	}

	resp, err := s.makeRequest("POST", "payout/status", payload)
	if err != nil {
		return "", "", err
	}

	var status, reference string
	if st, ok := resp.Data["payoutStatus"].(string); ok {
		status = st
	}
	if ref, ok := resp.Data["reference"].(string); ok {
		reference = ref
	}

	return status, reference, nil
}
