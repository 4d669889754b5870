package models

// WalletRequest represents the standard request structure for the wallet
// gateway API
type WalletRequest struct {
	Amount             *float64 `json:"amount,omitempty"`
	Currency           string   `json:"currency,omitempty"`
	UsdtID             string   `json:"usdtId,omitempty"`
	Invoice            string   `json:"invoice,omitempty"`
	ExternalID         *int64   `json:"externalId,omitempty"`
	SuccessCallbackURL string   `json:"successCallbackUrl,omitempty"`
	FailureCallbackURL string   `json:"failureCallbackUrl,omitempty"`
}

// WalletResponse represents the standard response structure from the wallet
// gateway API
type WalletResponse struct {
	Status bool                   `json:"status"`
	Code   interface{}            `json:"code"`   // Can be string or null
	Dialog interface{}            `json:"dialog"` // Can be string, object, or null
	Extra  interface{}            `json:"extra"`
	Data   map[string]interface{} `json:"data"`
}

// PayoutStatusData represents the payout status information
type PayoutStatusData struct {
	PayoutStatus string `json:"payoutStatus"`
	Reference    string `json:"reference"`
}
