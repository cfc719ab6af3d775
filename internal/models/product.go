package models

import "time"

// Inventory item types (the two stock-carrying product tables)
const (
	ItemTypeOTCProduct      = "otc_product"
	ItemTypeServicesProduct = "services_product"
)

// InventoryItem is a stock-carrying product row, either an over-the-counter
// retail product or a back-bar services product. Quantity is a live counter
// derived from the used_quantities ledger; the ledger is the source of truth
// for consumption history.
type InventoryItem struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	BranchID    *int      `json:"branch_id"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	UnitValue   float64   `json:"unit_value"`
	TotalValue  float64   `json:"total_value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LowStock reports whether the item has fallen to or below its floor
func (i *InventoryItem) LowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// CreateProductRequest is used when adding a product
type CreateProductRequest struct {
	Name        string  `json:"name"`
	BranchID    *int    `json:"branch_id"`
	Quantity    int     `json:"quantity"`
	MinQuantity int     `json:"min_quantity"`
	UnitValue   float64 `json:"unit_value"`
}

// UpdateProductRequest is used for product edits, including direct quantity
// changes which are routed through the inventory ledger
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Quantity    *int     `json:"quantity"`
	MinQuantity *int     `json:"min_quantity"`
	UnitValue   *float64 `json:"unit_value"`
}

/// UpdateUsedQuantityRequest is the body of POST .../{id}/used-quantity:
// consume quantity_used units of stock for a stated reason.
type UpdateUsedQuantityRequest struct {
	QuantityUsed int    `json:"quantity_used"`
	Reason       string `json:"reason"`
}

// UsedQuantityResponse reports the counter movement of a manual usage update
type UsedQuantityResponse struct {
	ItemID       int    `json:"item_id"`
	ItemName     string `json:"item_name"`
	OldQuantity  int    `json:"old_quantity"`
	NewQuantity  int    `json:"new_quantity"`
	QuantityUsed int    `json:"quantity_used"`
}
