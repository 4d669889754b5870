package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Define notification types
const (
	NotificationTypeReceiptSubmitted  = "receipt_submitted"
	NotificationTypeBulkPaymentResult = "bulk_payment_result"
	NotificationTypeWithdrawalRequest = "withdrawal_request"
	NotificationTypeWithdrawalResult  = "withdrawal_result"
	NotificationTypeSellerMigrated    = "seller_migrated"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type         string      `json:"type"`
	Message      string      `json:"message"`
	Data         interface{} `json:"data,omitempty"`
	UserID       string      `json:"userID,omitempty"`
	RequiresAuth bool        `json:"requiresAuth,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID        primitive.ObjectID
	Conn          *websocket.Conn
	Authenticated bool
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients                map[primitive.ObjectID]*Client
	unauthenticatedClients map[*Client]bool
	register               chan *Client
	unregister             chan *Client
	mu                     sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:                make(map[primitive.ObjectID]*Client),
		unauthenticatedClients: make(map[*Client]bool),
		register:               make(chan *Client),
		unregister:             make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if client.Authenticated && client.UserID != primitive.NilObjectID {
				h.clients[client.UserID] = client
			} else {
				h.unauthenticatedClients[client] = true
			}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if client.Authenticated && client.UserID != primitive.NilObjectID {
				if _, ok := h.clients[client.UserID]; ok {
					delete(h.clients, client.UserID)
				}
			} else {
				delete(h.unauthenticatedClients, client)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.Conn.WriteJSON(notification)
}

// AuthenticateClient moves a client from unauthenticated to authenticated state
func (h *Hub) AuthenticateClient(client *Client, userID primitive.ObjectID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.unauthenticatedClients[client]; ok {
		delete(h.unauthenticatedClients, client)
	}

	client.Authenticated = true
	client.UserID = userID

	h.clients[userID] = client

	return nil
}

// NotifyReceiptSubmitted tells an admin a seller attached a payment receipt.
func (h *Hub) NotifyReceiptSubmitted(adminID primitive.ObjectID, receiptData interface{}) error {
	return h.SendToUser(adminID, Notification{
		Type:    NotificationTypeReceiptSubmitted,
		Message: "New payment receipt awaiting review",
		Data:    receiptData,
	})
}

// NotifyBulkPaymentResult tells a seller their payment batch was processed.
func (h *Hub) NotifyBulkPaymentResult(sellerID primitive.ObjectID, batchData interface{}) error {
	return h.SendToUser(sellerID, Notification{
		Type:    NotificationTypeBulkPaymentResult,
		Message: "Your bulk payment has been processed",
		Data:    batchData,
	})
}

// NotifyWithdrawalRequest tells an admin a seller requested a withdrawal.
func (h *Hub) NotifyWithdrawalRequest(adminID primitive.ObjectID, withdrawalData interface{}) error {
	return h.SendToUser(adminID, Notification{
		Type:    NotificationTypeWithdrawalRequest,
		Message: "New withdrawal request received",
		Data:    withdrawalData,
	})
}

// NotifyWithdrawalResult tells a seller their withdrawal was processed.
func (h *Hub) NotifyWithdrawalResult(sellerID primitive.ObjectID, withdrawalData interface{}) error {
	return h.SendToUser(sellerID, Notification{
		Type:    NotificationTypeWithdrawalResult,
		Message: "Your withdrawal request has been processed",
		Data:    withdrawalData,
	})
}

// NotifySellerMigrated tells a seller they were reassigned to a new admin.
func (h *Hub) NotifySellerMigrated(sellerID primitive.ObjectID, migrationData interface{}) error {
	return h.SendToUser(sellerID, Notification{
		Type:    NotificationTypeSellerMigrated,
		Message: "Your account has been assigned to a new admin",
		Data:    migrationData,
	})
}
