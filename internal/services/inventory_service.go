package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"salon-backend/internal/metrics"
	"salon-backend/internal/models"
)

var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnknownItemType   = errors.New("unknown item type")
	ErrInvalidReason     = errors.New("unknown update reason")
)

// LedgerStore is the append-only ledger persistence surface
type LedgerStore interface {
	Create(ctx context.Context, u *models.UsedQuantity) error
	ListByItem(ctx context.Context, itemType string, itemID, limit int) ([]*models.UsedQuantity, error)
	ListByTransaction(ctx context.Context, transactionID int) ([]*models.UsedQuantity, error)
	DailyAggregate(ctx context.Context, day string) ([]*models.DailyUsage, error)
	NetMovement(ctx context.Context, itemType string, itemID int) (used, added int, err error)
}

// InventoryStore is the stock-carrying product surface, one per item type
type InventoryStore interface {
	ItemType() string
	Get(ctx context.Context, id int) (*models.InventoryItem, error)
	SetQuantity(ctx context.Context, id, quantity int) error
	ListLowStock(ctx context.Context, branchID *int) ([]*models.InventoryItem, error)
}

// QuantityChange describes one observed counter movement to be recorded
type QuantityChange struct {
	ItemID        int
	ItemType      string
	ItemName      string
	BranchID      *int
	OldQuantity   int
	NewQuantity   int
	Reason        models.UpdateReason
	TransactionID *int
}

// InventoryService owns the usage ledger: every quantity movement on a
// stock-carrying item flows through here, whatever caused it.
type InventoryService struct {
	ledger LedgerStore
	stores map[string]InventoryStore
}

func NewInventoryService(ledger LedgerStore, stores ...InventoryStore) *InventoryService {
	byType := make(map[string]InventoryStore, len(stores))
	for _, s := range stores {
		byType[s.ItemType()] = s
	}
	return &InventoryService{ledger: ledger, stores: byType}
}

func validReason(r models.UpdateReason) bool {
	switch r {
	case models.ReasonManualUpdate, models.ReasonQuantityUpdate,
		models.ReasonTransaction, models.ReasonTransactionVoid,
		models.ReasonManualUsage:
		return true
	}
	return false
}

// ApplyQuantityChange appends one ledger entry describing a counter move
// that has already happened. Equal old/new quantities are a no-op. A ledger
// write failure is logged and swallowed: the item counter was already
// updated by the caller and usage history is observability, not a
// transactional dependency of the stock operation.
func (s *InventoryService) ApplyQuantityChange(ctx context.Context, change QuantityChange) {
	delta := change.OldQuantity - change.NewQuantity
	if delta == 0 {
		return
	}
	if !validReason(change.Reason) {
		log.Printf("[Inventory] Dropping ledger entry for item %d: %v %q", change.ItemID, ErrInvalidReason, change.Reason)
		return
	}

	entry := &models.UsedQuantity{
		TransactionID: change.TransactionID,
		BranchID:      change.BranchID,
		ItemID:        change.ItemID,
		ItemName:      change.ItemName,
		ItemType:      change.ItemType,
		OldQuantity:   change.OldQuantity,
		NewQuantity:   change.NewQuantity,
		UpdateReason:  change.Reason,
	}
	if delta > 0 {
		entry.ChangeType = models.ChangeTypeDecrease
		entry.QuantityUsed = delta
	} else {
		entry.ChangeType = models.ChangeTypeIncrease
		entry.QuantityAdded = -delta
	}

	if err := s.ledger.Create(ctx, entry); err != nil {
		metrics.LedgerWriteErrorsTotal.Inc()
		log.Printf("[Inventory] Ledger write failed for item %d (%s %d->%d): %v",
			change.ItemID, change.ItemType, change.OldQuantity, change.NewQuantity, err)
		return
	}
	metrics.LedgerEntriesTotal.WithLabelValues(entry.ChangeType).Inc()
}

// UpdateUsedQuantity consumes stock from an item: decrements the counter and
// records a manual_usage ledger entry. Fails when the item lacks the stock.
func (s *InventoryService) UpdateUsedQuantity(ctx context.Context, itemType string, itemID int, req *models.UpdateUsedQuantityRequest) (*models.UsedQuantityResponse, error) {
	store, ok := s.stores[itemType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, itemType)
	}
	if req.QuantityUsed <= 0 {
		return nil, fmt.Errorf("quantity_used must be positive, got %d", req.QuantityUsed)
	}

	item, err := store.Get(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.Quantity < req.QuantityUsed {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientStock, item.Quantity, req.QuantityUsed)
	}

	// Snapshot before the write: the store may hand back a live row
	oldQty := item.Quantity
	newQty := oldQty - req.QuantityUsed
	if err := store.SetQuantity(ctx, itemID, newQty); err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	s.ApplyQuantityChange(ctx, QuantityChange{
		ItemID:      itemID,
		ItemType:    itemType,
		ItemName:    item.Name,
		BranchID:    item.BranchID,
		OldQuantity: oldQty,
		NewQuantity: newQty,
		Reason:      models.ReasonManualUsage,
	})

	return &models.UsedQuantityResponse{
		ItemID:       itemID,
		ItemName:     item.Name,
		OldQuantity:  oldQty,
		NewQuantity:  newQty,
		QuantityUsed: req.QuantityUsed,
	}, nil
}

// SetQuantity moves an item counter to an absolute value (stock correction
// or restock) and records the movement as a quantity_update.
func (s *InventoryService) SetQuantity(ctx context.Context, itemType string, itemID, quantity int) (*models.InventoryItem, error) {
	store, ok := s.stores[itemType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, itemType)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative, got %d", quantity)
	}

	item, err := store.Get(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	oldQty := item.Quantity
	if err := store.SetQuantity(ctx, itemID, quantity); err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	s.ApplyQuantityChange(ctx, QuantityChange{
		ItemID:      itemID,
		ItemType:    itemType,
		ItemName:    item.Name,
		BranchID:    item.BranchID,
		OldQuantity: oldQty,
		NewQuantity: quantity,
		Reason:      models.ReasonQuantityUpdate,
	})

	item.Quantity = quantity
	return item, nil
}

// History returns the most recent ledger entries for an item
func (s *InventoryService) History(ctx context.Context, itemType string, itemID, limit int) ([]*models.UsedQuantity, error) {
	if _, ok := s.stores[itemType]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, itemType)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.ledger.ListByItem(ctx, itemType, itemID, limit)
}

// NetMovement totals an item's ledger movement across the whole log, for
// auditing the live counter against its history
func (s *InventoryService) NetMovement(ctx context.Context, itemType string, itemID int) (used, added int, err error) {
	if _, ok := s.stores[itemType]; !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownItemType, itemType)
	}
	return s.ledger.NetMovement(ctx, itemType, itemID)
}

// TransactionEntries returns the ledger entries written for a transaction,
// including the reversal entries of a void
func (s *InventoryService) TransactionEntries(ctx context.Context, transactionID int) ([]*models.UsedQuantity, error) {
	return s.ledger.ListByTransaction(ctx, transactionID)
}

// DailyUsage aggregates ledger movement for one day (YYYY-MM-DD)
func (s *InventoryService) DailyUsage(ctx context.Context, day string) ([]*models.DailyUsage, error) {
	return s.ledger.DailyAggregate(ctx, day)
}

// LowStock lists items at or below their minimum across both item types
func (s *InventoryService) LowStock(ctx context.Context, branchID *int) ([]*models.InventoryItem, error) {
	var out []*models.InventoryItem
	for _, itemType := range []string{models.ItemTypeOTCProduct, models.ItemTypeServicesProduct} {
		store, ok := s.stores[itemType]
		if !ok {
			continue
		}
		items, err := store.ListLowStock(ctx, branchID)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}
