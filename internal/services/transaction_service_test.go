package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"salon-backend/internal/models"
)

// fakeTx satisfies pgx.Tx via embedding; only Commit/Rollback are exercised.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeTxBeginner struct{ last *fakeTx }

func (f *fakeTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	f.last = &fakeTx{}
	return f.last, nil
}

type fakeTransactionStore struct {
	tickets map[int]*models.Transaction
	nextID  int
}

func (f *fakeTransactionStore) CreateTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	f.nextID++
	t.ID = f.nextID
	f.tickets[t.ID] = t
	return nil
}

func (f *fakeTransactionStore) Get(ctx context.Context, id int) (*models.Transaction, error) {
	return f.tickets[id], nil
}

func (f *fakeTransactionStore) List(ctx context.Context, branchID *int, limit int) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, t := range f.tickets {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTransactionStore) MarkVoidedTx(ctx context.Context, tx pgx.Tx, id int, reason string) error {
	t, ok := f.tickets[id]
	if !ok {
		return errors.New("no such transaction")
	}
	t.Status = models.TransactionStatusVoided
	t.VoidReason = reason
	return nil
}

type fakeTxStock struct {
	itemType string
	items    map[int]*models.InventoryItem
}

func (f *fakeTxStock) ItemType() string { return f.itemType }

func (f *fakeTxStock) GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*models.InventoryItem, error) {
	return f.items[id], nil
}

func (f *fakeTxStock) SetQuantityTx(ctx context.Context, tx pgx.Tx, id, quantity int) error {
	item, ok := f.items[id]
	if !ok {
		return errors.New("no such item")
	}
	item.Quantity = quantity
	return nil
}

type fakeServicePricer struct{ services map[int]*models.Service }

func (f *fakeServicePricer) Get(ctx context.Context, id int) (*models.Service, error) {
	return f.services[id], nil
}

type txFixture struct {
	svc    *TransactionService
	db     *fakeTxBeginner
	store  *fakeTransactionStore
	otc    *fakeTxStock
	ledger *fakeLedger
}

func newTransactionFixture() *txFixture {
	db := &fakeTxBeginner{}
	store := &fakeTransactionStore{tickets: map[int]*models.Transaction{}}
	otc := &fakeTxStock{
		itemType: models.ItemTypeOTCProduct,
		items: map[int]*models.InventoryItem{
			1: {ID: 1, Name: "Hair Wax", Quantity: 10, UnitValue: 350},
		},
	}
	pricer := &fakeServicePricer{services: map[int]*models.Service{
		100: {ID: 100, Name: "Haircut", Price: 500},
	}}
	ledger := &fakeLedger{}
	inv := NewInventoryService(ledger)
	svc := NewTransactionService(db, store, pricer, inv, nil, otc)
	return &txFixture{svc: svc, db: db, store: store, otc: otc, ledger: ledger}
}

func saleRequest() *models.CreateTransactionRequest {
	return &models.CreateTransactionRequest{
		BranchID:      1,
		PaymentMethod: "cash",
		Items: []models.CreateTransactionItemInput{
			{ItemID: 100, ItemType: models.ItemTypeService, Quantity: 1},
			{ItemID: 1, ItemType: models.ItemTypeOTCProduct, Quantity: 2},
		},
	}
}

func TestCreateTransaction_DecrementsStockAndRecordsLedger(t *testing.T) {
	f := newTransactionFixture()

	ticket, err := f.svc.Create(context.Background(), saleRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ticket.TotalAmount != 500+2*350 {
		t.Errorf("total = %v, want 1200", ticket.TotalAmount)
	}
	if f.otc.items[1].Quantity != 8 {
		t.Errorf("stock = %d, want 8", f.otc.items[1].Quantity)
	}
	if !f.db.last.committed {
		t.Error("transaction was not committed")
	}

	// one ledger entry for the consumable line, none for the service
	if len(f.ledger.entries) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(f.ledger.entries))
	}
	e := f.ledger.entries[0]
	if e.UpdateReason != models.ReasonTransaction {
		t.Errorf("reason = %q, want transaction", e.UpdateReason)
	}
	if e.TransactionID == nil || *e.TransactionID != ticket.ID {
		t.Error("ledger entry not tagged with the ticket id")
	}
	if e.QuantityUsed != 2 || e.ChangeType != models.ChangeTypeDecrease {
		t.Errorf("entry = %s/%d, want decrease/2", e.ChangeType, e.QuantityUsed)
	}
	// the pre-write quantity must survive even when the store hands back a
	// live row that SetQuantityTx mutates in place
	if e.OldQuantity != 10 || e.NewQuantity != 8 {
		t.Errorf("entry quantities = %d -> %d, want 10 -> 8", e.OldQuantity, e.NewQuantity)
	}
}

func TestCreateTransaction_InsufficientStockRollsBack(t *testing.T) {
	f := newTransactionFixture()
	req := saleRequest()
	req.Items[1].Quantity = 99

	_, err := f.svc.Create(context.Background(), req)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if !f.db.last.rolledBack {
		t.Error("transaction was not rolled back")
	}
	if len(f.store.tickets) != 0 {
		t.Errorf("stored %d tickets on a failed sale", len(f.store.tickets))
	}
	if len(f.ledger.entries) != 0 {
		t.Errorf("ledger recorded %d entries on a failed sale", len(f.ledger.entries))
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	f := newTransactionFixture()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*models.CreateTransactionRequest)
	}{
		{"missing branch", func(r *models.CreateTransactionRequest) { r.BranchID = 0 }},
		{"no items", func(r *models.CreateTransactionRequest) { r.Items = nil }},
		{"zero quantity", func(r *models.CreateTransactionRequest) { r.Items[0].Quantity = 0 }},
	}
	for _, c := range cases {
		req := saleRequest()
		c.mutate(req)
		if _, err := f.svc.Create(ctx, req); !errors.Is(err, ErrInvalidTransaction) {
			t.Errorf("%s: expected ErrInvalidTransaction, got %v", c.name, err)
		}
	}

	req := saleRequest()
	req.Items[1].ItemType = "furniture"
	if _, err := f.svc.Create(ctx, req); !errors.Is(err, ErrUnknownItemType) {
		t.Errorf("expected ErrUnknownItemType, got %v", err)
	}
}

func TestVoidTransaction_RestoresStockWithReversalEntries(t *testing.T) {
	f := newTransactionFixture()
	ctx := context.Background()

	ticket, err := f.svc.Create(ctx, saleRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	voided, err := f.svc.Void(ctx, ticket.ID, "customer changed mind")
	if err != nil {
		t.Fatalf("Void failed: %v", err)
	}
	if voided.Status != models.TransactionStatusVoided {
		t.Errorf("status = %q, want voided", voided.Status)
	}
	if f.otc.items[1].Quantity != 10 {
		t.Errorf("stock = %d, want restored to 10", f.otc.items[1].Quantity)
	}

	// sale entry plus its reversal, both tagged with the same ticket id
	entries, err := f.svc.inventory.TransactionEntries(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("TransactionEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ledger has %d entries for the ticket, want 2", len(entries))
	}
	sale, reversal := entries[0], entries[1]
	if sale.ChangeType != models.ChangeTypeDecrease || reversal.ChangeType != models.ChangeTypeIncrease {
		t.Errorf("change types = %s, %s; want decrease then increase", sale.ChangeType, reversal.ChangeType)
	}
	if reversal.UpdateReason != models.ReasonTransactionVoid {
		t.Errorf("reversal reason = %q, want transaction_void", reversal.UpdateReason)
	}
	if reversal.QuantityAdded != sale.QuantityUsed {
		t.Errorf("reversal adds %d, sale used %d", reversal.QuantityAdded, sale.QuantityUsed)
	}
}

func TestVoidTransaction_AlreadyVoided(t *testing.T) {
	f := newTransactionFixture()
	ctx := context.Background()

	ticket, err := f.svc.Create(ctx, saleRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := f.svc.Void(ctx, ticket.ID, "first"); err != nil {
		t.Fatalf("first void failed: %v", err)
	}
	if _, err := f.svc.Void(ctx, ticket.ID, "second"); !errors.Is(err, ErrAlreadyVoided) {
		t.Errorf("expected ErrAlreadyVoided, got %v", err)
	}
	if f.otc.items[1].Quantity != 10 {
		t.Errorf("stock = %d after double void, want 10", f.otc.items[1].Quantity)
	}
}

func TestVoidTransaction_NotFound(t *testing.T) {
	f := newTransactionFixture()
	if _, err := f.svc.Void(context.Background(), 404, "gone"); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}
