package services

import (
	"context"
	"errors"
	"testing"

	"salon-backend/internal/models"
)

type fakeLedger struct {
	entries []*models.UsedQuantity
	failErr error
}

func (f *fakeLedger) Create(ctx context.Context, u *models.UsedQuantity) error {
	if f.failErr != nil {
		return f.failErr
	}
	u.ID = len(f.entries) + 1
	copied := *u
	f.entries = append(f.entries, &copied)
	return nil
}

func (f *fakeLedger) ListByItem(ctx context.Context, itemType string, itemID, limit int) ([]*models.UsedQuantity, error) {
	var out []*models.UsedQuantity
	for _, e := range f.entries {
		if e.ItemType == itemType && e.ItemID == itemID {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLedger) ListByTransaction(ctx context.Context, transactionID int) ([]*models.UsedQuantity, error) {
	var out []*models.UsedQuantity
	for _, e := range f.entries {
		if e.TransactionID != nil && *e.TransactionID == transactionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedger) NetMovement(ctx context.Context, itemType string, itemID int) (used, added int, err error) {
	for _, e := range f.entries {
		if e.ItemType == itemType && e.ItemID == itemID {
			used += e.QuantityUsed
			added += e.QuantityAdded
		}
	}
	return used, added, nil
}

func (f *fakeLedger) DailyAggregate(ctx context.Context, day string) ([]*models.DailyUsage, error) {
	byItem := map[int]*models.DailyUsage{}
	for _, e := range f.entries {
		agg, ok := byItem[e.ItemID]
		if !ok {
			agg = &models.DailyUsage{Day: day, ItemID: e.ItemID, ItemName: e.ItemName, ItemType: e.ItemType}
			byItem[e.ItemID] = agg
		}
		agg.TotalUsed += e.QuantityUsed
		agg.TotalAdded += e.QuantityAdded
		agg.EntryCount++
		agg.FinalQuantity = e.NewQuantity
	}
	var out []*models.DailyUsage
	for _, agg := range byItem {
		out = append(out, agg)
	}
	return out, nil
}

type fakeInventoryStore struct {
	itemType string
	items    map[int]*models.InventoryItem
}

func (f *fakeInventoryStore) ItemType() string { return f.itemType }

func (f *fakeInventoryStore) Get(ctx context.Context, id int) (*models.InventoryItem, error) {
	return f.items[id], nil
}

func (f *fakeInventoryStore) SetQuantity(ctx context.Context, id, quantity int) error {
	item, ok := f.items[id]
	if !ok {
		return errors.New("no such item")
	}
	item.Quantity = quantity
	return nil
}

func (f *fakeInventoryStore) ListLowStock(ctx context.Context, branchID *int) ([]*models.InventoryItem, error) {
	var out []*models.InventoryItem
	for _, item := range f.items {
		if item.Quantity <= item.MinQuantity {
			out = append(out, item)
		}
	}
	return out, nil
}

func newInventoryFixture() (*InventoryService, *fakeLedger, *fakeInventoryStore) {
	ledger := &fakeLedger{}
	otc := &fakeInventoryStore{
		itemType: models.ItemTypeOTCProduct,
		items: map[int]*models.InventoryItem{
			1: {ID: 1, Name: "Shampoo 500ml", Quantity: 20, MinQuantity: 5},
		},
	}
	svc := NewInventoryService(ledger, otc)
	return svc, ledger, otc
}

func TestUpdateUsedQuantity_DecrementsAndRecords(t *testing.T) {
	svc, ledger, otc := newInventoryFixture()

	resp, err := svc.UpdateUsedQuantity(context.Background(), models.ItemTypeOTCProduct, 1,
		&models.UpdateUsedQuantityRequest{QuantityUsed: 3})
	if err != nil {
		t.Fatalf("UpdateUsedQuantity failed: %v", err)
	}
	if resp.OldQuantity != 20 || resp.NewQuantity != 17 {
		t.Errorf("quantities = %d -> %d, want 20 -> 17", resp.OldQuantity, resp.NewQuantity)
	}
	if otc.items[1].Quantity != 17 {
		t.Errorf("counter = %d, want 17", otc.items[1].Quantity)
	}

	if len(ledger.entries) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(ledger.entries))
	}
	e := ledger.entries[0]
	if e.ChangeType != models.ChangeTypeDecrease {
		t.Errorf("change_type = %q, want decrease", e.ChangeType)
	}
	if e.QuantityUsed != 3 || e.QuantityAdded != 0 {
		t.Errorf("used/added = %d/%d, want 3/0", e.QuantityUsed, e.QuantityAdded)
	}
	if e.UpdateReason != models.ReasonManualUsage {
		t.Errorf("reason = %q, want manual_usage", e.UpdateReason)
	}
}

func TestUpdateUsedQuantity_InsufficientStock(t *testing.T) {
	svc, ledger, otc := newInventoryFixture()

	_, err := svc.UpdateUsedQuantity(context.Background(), models.ItemTypeOTCProduct, 1,
		&models.UpdateUsedQuantityRequest{QuantityUsed: 25})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if otc.items[1].Quantity != 20 {
		t.Errorf("counter moved to %d on a failed consume", otc.items[1].Quantity)
	}
	if len(ledger.entries) != 0 {
		t.Errorf("ledger recorded %d entries on a failed consume", len(ledger.entries))
	}
}

func TestUpdateUsedQuantity_UnknownItemType(t *testing.T) {
	svc, _, _ := newInventoryFixture()
	_, err := svc.UpdateUsedQuantity(context.Background(), "furniture", 1,
		&models.UpdateUsedQuantityRequest{QuantityUsed: 1})
	if !errors.Is(err, ErrUnknownItemType) {
		t.Errorf("expected ErrUnknownItemType, got %v", err)
	}
}

func TestUpdateUsedQuantity_MissingItem(t *testing.T) {
	svc, _, _ := newInventoryFixture()
	_, err := svc.UpdateUsedQuantity(context.Background(), models.ItemTypeOTCProduct, 42,
		&models.UpdateUsedQuantityRequest{QuantityUsed: 1})
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestSetQuantity_RecordsRestock(t *testing.T) {
	svc, ledger, _ := newInventoryFixture()

	item, err := svc.SetQuantity(context.Background(), models.ItemTypeOTCProduct, 1, 50)
	if err != nil {
		t.Fatalf("SetQuantity failed: %v", err)
	}
	if item.Quantity != 50 {
		t.Errorf("quantity = %d, want 50", item.Quantity)
	}

	if len(ledger.entries) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(ledger.entries))
	}
	e := ledger.entries[0]
	if e.ChangeType != models.ChangeTypeIncrease {
		t.Errorf("change_type = %q, want increase", e.ChangeType)
	}
	if e.QuantityAdded != 30 || e.QuantityUsed != 0 {
		t.Errorf("added/used = %d/%d, want 30/0", e.QuantityAdded, e.QuantityUsed)
	}
	if e.UpdateReason != models.ReasonQuantityUpdate {
		t.Errorf("reason = %q, want quantity_update", e.UpdateReason)
	}
}

func TestApplyQuantityChange_ZeroDeltaIsNoOp(t *testing.T) {
	svc, ledger, _ := newInventoryFixture()

	svc.ApplyQuantityChange(context.Background(), QuantityChange{
		ItemID:      1,
		ItemType:    models.ItemTypeOTCProduct,
		OldQuantity: 20,
		NewQuantity: 20,
		Reason:      models.ReasonManualUpdate,
	})
	if len(ledger.entries) != 0 {
		t.Errorf("zero delta wrote %d entries", len(ledger.entries))
	}
}

func TestApplyQuantityChange_DropsUnknownReason(t *testing.T) {
	svc, ledger, _ := newInventoryFixture()

	svc.ApplyQuantityChange(context.Background(), QuantityChange{
		ItemID:      1,
		ItemType:    models.ItemTypeOTCProduct,
		OldQuantity: 20,
		NewQuantity: 15,
		Reason:      models.UpdateReason("shrinkage"),
	})
	if len(ledger.entries) != 0 {
		t.Errorf("unknown reason wrote %d entries", len(ledger.entries))
	}
}

func TestApplyQuantityChange_SwallowsWriteFailure(t *testing.T) {
	svc, ledger, _ := newInventoryFixture()
	ledger.failErr = errors.New("connection reset")

	// must not panic or surface the error; the counter move already happened
	svc.ApplyQuantityChange(context.Background(), QuantityChange{
		ItemID:      1,
		ItemType:    models.ItemTypeOTCProduct,
		OldQuantity: 20,
		NewQuantity: 15,
		Reason:      models.ReasonManualUpdate,
	})
	if len(ledger.entries) != 0 {
		t.Errorf("failed write still stored %d entries", len(ledger.entries))
	}
}

func TestLedgerConsistency_CounterMatchesNetDeltas(t *testing.T) {
	svc, ledger, otc := newInventoryFixture()
	ctx := context.Background()

	if _, err := svc.UpdateUsedQuantity(ctx, models.ItemTypeOTCProduct, 1,
		&models.UpdateUsedQuantityRequest{QuantityUsed: 4}); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if _, err := svc.SetQuantity(ctx, models.ItemTypeOTCProduct, 1, 30); err != nil {
		t.Fatalf("restock failed: %v", err)
	}
	if _, err := svc.UpdateUsedQuantity(ctx, models.ItemTypeOTCProduct, 1,
		&models.UpdateUsedQuantityRequest{QuantityUsed: 7}); err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	net := 0
	for _, e := range ledger.entries {
		if e.QuantityUsed != 0 && e.QuantityAdded != 0 {
			t.Errorf("entry %d sets both quantity_used and quantity_added", e.ID)
		}
		switch e.ChangeType {
		case models.ChangeTypeDecrease:
			if e.QuantityUsed != e.OldQuantity-e.NewQuantity {
				t.Errorf("entry %d: quantity_used %d != delta %d", e.ID, e.QuantityUsed, e.OldQuantity-e.NewQuantity)
			}
			net -= e.QuantityUsed
		case models.ChangeTypeIncrease:
			if e.QuantityAdded != e.NewQuantity-e.OldQuantity {
				t.Errorf("entry %d: quantity_added %d != delta %d", e.ID, e.QuantityAdded, e.NewQuantity-e.OldQuantity)
			}
			net += e.QuantityAdded
		default:
			t.Errorf("entry %d: unknown change_type %q", e.ID, e.ChangeType)
		}
	}
	if got := 20 + net; otc.items[1].Quantity != got {
		t.Errorf("counter = %d, ledger nets to %d", otc.items[1].Quantity, got)
	}
}

func TestHistory_ClampsLimit(t *testing.T) {
	svc, ledger, _ := newInventoryFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ledger.entries = append(ledger.entries, &models.UsedQuantity{
			ID: i + 1, ItemID: 1, ItemType: models.ItemTypeOTCProduct,
			ChangeType: models.ChangeTypeDecrease, QuantityUsed: 1,
		})
	}

	entries, err := svc.History(ctx, models.ItemTypeOTCProduct, 1, 2)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}

	if _, err := svc.History(ctx, "furniture", 1, 10); !errors.Is(err, ErrUnknownItemType) {
		t.Errorf("expected ErrUnknownItemType, got %v", err)
	}
}
