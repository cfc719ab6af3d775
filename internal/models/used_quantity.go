package models

import "time"

// Direction of a ledger entry
const (
	ChangeTypeIncrease = "increase"
	ChangeTypeDecrease = "decrease"
)

// UpdateReason is the closed set of causes for a quantity change. Manual and
// transactional changes share one ledger schema and one query surface.
type UpdateReason string

const (
	ReasonManualUpdate    UpdateReason = "manual_update"
	ReasonQuantityUpdate  UpdateReason = "quantity_update"
	ReasonTransaction     UpdateReason = "transaction"
	ReasonTransactionVoid UpdateReason = "transaction_void"
	ReasonManualUsage     UpdateReason = "manual_usage"
)

// UsedQuantity is one immutable delta in the inventory usage ledger. Exactly
// one of QuantityUsed / QuantityAdded is non-zero, matching ChangeType.
type UsedQuantity struct {
	ID            int          `json:"id"`
	TransactionID *int         `json:"transaction_id"`
	BranchID      *int         `json:"branch_id"`
	ItemID        int          `json:"item_id"`
	ItemName      string       `json:"item_name"`
	ItemType      string       `json:"item_type"`
	QuantityUsed  int          `json:"quantity_used"`
	QuantityAdded int          `json:"quantity_added"`
	OldQuantity   int          `json:"old_quantity"`
	NewQuantity   int          `json:"new_quantity"`
	ChangeType    string       `json:"change_type"`
	UpdateReason  UpdateReason `json:"update_reason"`
	DateCreated   time.Time    `json:"date_created"`
}

// DailyUsage is a per-day aggregate of ledger movement for export
type DailyUsage struct {
	Day           string `json:"day"` // YYYY-MM-DD
	ItemID        int    `json:"item_id"`
	ItemName      string `json:"item_name"`
	ItemType      string `json:"item_type"`
	TotalUsed     int    `json:"total_used"`
	TotalAdded    int    `json:"total_added"`
	EntryCount    int    `json:"entry_count"`
	FinalQuantity int    `json:"final_quantity"`
}
