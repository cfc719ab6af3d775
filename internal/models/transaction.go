package models

import "time"

// Transaction statuses
const (
	TransactionStatusCompleted = "completed"
	TransactionStatusVoided    = "voided"
)

// Transaction is a point-of-sale ticket: a set of line items rung up at a
// branch. Consumable line items (products) decrement stock on creation and
// restore it on void, each movement recorded in the usage ledger.
type Transaction struct {
	ID               int                `json:"id"`
	BranchID         int                `json:"branch_id"`
	ClientID         *int               `json:"client_id"`
	CashierAccountID *int               `json:"cashier_account_id"`
	TotalAmount      float64            `json:"total_amount"`
	PaymentMethod    string             `json:"payment_method"`
	Status           string             `json:"status"`
	VoidedAt         *time.Time         `json:"voided_at,omitempty"`
	VoidReason       string             `json:"void_reason,omitempty"`
	Items            []*TransactionItem `json:"items,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// TransactionItem is one line on the ticket
type TransactionItem struct {
	ID            int     `json:"id"`
	TransactionID int     `json:"transaction_id"`
	ItemID        int     `json:"item_id"`
	ItemType      string  `json:"item_type"` // service, otc_product, services_product
	ItemName      string  `json:"item_name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	LineTotal     float64 `json:"line_total"`
}

// ItemTypeService marks a non-stock line item (a performed treatment)
const ItemTypeService = "service"

// Consumable reports whether the line item draws down tracked stock
func (i *TransactionItem) Consumable() bool {
	return i.ItemType == ItemTypeOTCProduct || i.ItemType == ItemTypeServicesProduct
}

// CreateTransactionRequest is the body of POST /api/transactions
type CreateTransactionRequest struct {
	BranchID         int                          `json:"branch_id"`
	ClientID         *int                         `json:"client_id"`
	CashierAccountID *int                         `json:"cashier_account_id"`
	PaymentMethod    string                       `json:"payment_method"`
	Items            []CreateTransactionItemInput `json:"items"`
}

// CreateTransactionItemInput is one requested line item
type CreateTransactionItemInput struct {
	ItemID   int    `json:"item_id"`
	ItemType string `json:"item_type"`
	Quantity int    `json:"quantity"`
}

// VoidTransactionRequest is the body of POST /api/transactions/{id}/void
type VoidTransactionRequest struct {
	Reason string `json:"reason"`
}
