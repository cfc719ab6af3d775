package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"salon-backend/internal/models"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyVoided       = errors.New("transaction already voided")
	ErrInvalidTransaction  = errors.New("invalid transaction request")
)

// TxBeginner starts a database transaction; satisfied by *pgxpool.Pool
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TransactionStore persists tickets. The *Tx methods run inside a
// caller-held pgx transaction so ticket rows and stock counters commit
// together.
type TransactionStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
	Get(ctx context.Context, id int) (*models.Transaction, error)
	List(ctx context.Context, branchID *int, limit int) ([]*models.Transaction, error)
	MarkVoidedTx(ctx context.Context, tx pgx.Tx, id int, reason string) error
}

// TxInventoryStore is the in-transaction stock surface, one per item type
type TxInventoryStore interface {
	ItemType() string
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*models.InventoryItem, error)
	SetQuantityTx(ctx context.Context, tx pgx.Tx, id, quantity int) error
}

// ServicePricer resolves service line items to names and prices
type ServicePricer interface {
	Get(ctx context.Context, id int) (*models.Service, error)
}

// TransactionService rings up and voids POS tickets. Stock counters move
// atomically with the ticket inside one database transaction; the usage
// ledger entries are written best-effort after commit.
type TransactionService struct {
	db           TxBeginner
	transactions TransactionStore
	servicePrice ServicePricer
	stock        map[string]TxInventoryStore
	inventory    *InventoryService
	monitor      Broadcaster
}

func NewTransactionService(
	db TxBeginner,
	transactions TransactionStore,
	servicePrice ServicePricer,
	inventory *InventoryService,
	monitor Broadcaster,
	stock ...TxInventoryStore,
) *TransactionService {
	byType := make(map[string]TxInventoryStore, len(stock))
	for _, s := range stock {
		byType[s.ItemType()] = s
	}
	return &TransactionService{
		db:           db,
		transactions: transactions,
		servicePrice: servicePrice,
		stock:        byType,
		inventory:    inventory,
		monitor:      monitor,
	}
}

// Create rings up a ticket. Consumable line items are decremented with
// row locks inside the same transaction as the ticket insert, so a
// concurrent sale of the last unit fails cleanly instead of going negative.
func (s *TransactionService) Create(ctx context.Context, req *models.CreateTransactionRequest) (*models.Transaction, error) {
	if req.BranchID <= 0 {
		return nil, fmt.Errorf("%w: branch_id is required", ErrInvalidTransaction)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", ErrInvalidTransaction)
	}
	for _, in := range req.Items {
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidTransaction, in.ItemID)
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ticket := &models.Transaction{
		BranchID:         req.BranchID,
		ClientID:         req.ClientID,
		CashierAccountID: req.CashierAccountID,
		PaymentMethod:    req.PaymentMethod,
		Status:           models.TransactionStatusCompleted,
	}

	// Ledger entries are recorded after commit; collect the moves here
	var moves []QuantityChange

	for _, in := range req.Items {
		line := &models.TransactionItem{
			ItemID:   in.ItemID,
			ItemType: in.ItemType,
			Quantity: in.Quantity,
		}

		switch in.ItemType {
		case models.ItemTypeService:
			svc, err := s.servicePrice.Get(ctx, in.ItemID)
			if err != nil {
				return nil, fmt.Errorf("failed to load service %d: %w", in.ItemID, err)
			}
			if svc == nil {
				return nil, fmt.Errorf("%w: service %d", ErrItemNotFound, in.ItemID)
			}
			line.ItemName = svc.Name
			line.UnitPrice = svc.Price

		case models.ItemTypeOTCProduct, models.ItemTypeServicesProduct:
			store := s.stock[in.ItemType]
			if store == nil {
				return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, in.ItemType)
			}
			item, err := store.GetForUpdate(ctx, tx, in.ItemID)
			if err != nil {
				return nil, fmt.Errorf("failed to load item %d: %w", in.ItemID, err)
			}
			if item == nil {
				return nil, fmt.Errorf("%w: %s %d", ErrItemNotFound, in.ItemType, in.ItemID)
			}
			if item.Quantity < in.Quantity {
				return nil, fmt.Errorf("%w: %s has %d, need %d", ErrInsufficientStock, item.Name, item.Quantity, in.Quantity)
			}

			// Snapshot before the write: the store may hand back a live row
			oldQty := item.Quantity
			newQty := oldQty - in.Quantity
			if err := store.SetQuantityTx(ctx, tx, in.ItemID, newQty); err != nil {
				return nil, fmt.Errorf("failed to decrement stock for item %d: %w", in.ItemID, err)
			}
			line.ItemName = item.Name
			line.UnitPrice = item.UnitValue
			moves = append(moves, QuantityChange{
				ItemID:      in.ItemID,
				ItemType:    in.ItemType,
				ItemName:    item.Name,
				BranchID:    item.BranchID,
				OldQuantity: oldQty,
				NewQuantity: newQty,
				Reason:      models.ReasonTransaction,
			})

		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, in.ItemType)
		}

		line.LineTotal = line.UnitPrice * float64(line.Quantity)
		ticket.TotalAmount += line.LineTotal
		ticket.Items = append(ticket.Items, line)
	}

	if err := s.transactions.CreateTx(ctx, tx, ticket); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for i := range moves {
		moves[i].TransactionID = &ticket.ID
		s.inventory.ApplyQuantityChange(ctx, moves[i])
	}

	if s.monitor != nil {
		s.monitor.Broadcast("transaction_created", map[string]interface{}{
			"transaction_id": ticket.ID,
			"branch_id":      ticket.BranchID,
			"total_amount":   ticket.TotalAmount,
		})
	}
	return ticket, nil
}

// Void reverses a ticket: restores the stock its consumable lines drew down
// and records inverse ledger entries tagged with the same transaction id.
func (s *TransactionService) Void(ctx context.Context, id int, reason string) (*models.Transaction, error) {
	ticket, err := s.transactions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTransactionNotFound
	}
	if ticket.Status == models.TransactionStatusVoided {
		return nil, ErrAlreadyVoided
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var moves []QuantityChange
	for _, line := range ticket.Items {
		if !line.Consumable() {
			continue
		}
		store := s.stock[line.ItemType]
		if store == nil {
			log.Printf("[Transaction] No stock store for %s; skipping restore of item %d", line.ItemType, line.ItemID)
			continue
		}
		item, err := store.GetForUpdate(ctx, tx, line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to load item %d: %w", line.ItemID, err)
		}
		if item == nil {
			// Item deleted since the sale; nothing to restore
			log.Printf("[Transaction] Item %s %d gone; skipping stock restore", line.ItemType, line.ItemID)
			continue
		}
		oldQty := item.Quantity
		newQty := oldQty + line.Quantity
		if err := store.SetQuantityTx(ctx, tx, line.ItemID, newQty); err != nil {
			return nil, fmt.Errorf("failed to restore stock for item %d: %w", line.ItemID, err)
		}
		moves = append(moves, QuantityChange{
			ItemID:        line.ItemID,
			ItemType:      line.ItemType,
			ItemName:      item.Name,
			BranchID:      item.BranchID,
			OldQuantity:   oldQty,
			NewQuantity:   newQty,
			Reason:        models.ReasonTransactionVoid,
			TransactionID: &ticket.ID,
		})
	}

	if err := s.transactions.MarkVoidedTx(ctx, tx, id, reason); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit void: %w", err)
	}

	for _, m := range moves {
		s.inventory.ApplyQuantityChange(ctx, m)
	}

	if s.monitor != nil {
		s.monitor.Broadcast("transaction_voided", map[string]interface{}{
			"transaction_id": id,
			"branch_id":      ticket.BranchID,
			"reason":         reason,
		})
	}
	return s.transactions.Get(ctx, id)
}

// Get returns one ticket with its line items, nil when absent
func (s *TransactionService) Get(ctx context.Context, id int) (*models.Transaction, error) {
	return s.transactions.Get(ctx, id)
}

// List returns recent tickets, optionally scoped to a branch
func (s *TransactionService) List(ctx context.Context, branchID *int, limit int) ([]*models.Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.transactions.List(ctx, branchID, limit)
}
