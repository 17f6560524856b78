// Package checkout converts an in-memory cart into durable transaction
// records while keeping recorded inventory consistent with what was sold.
package checkout

import (
	"context"
	"fmt"
	"time"

	"go-tindahan-pos/internal/models"

	"github.com/rs/zerolog"
)

// Store is the slice of the storage layer the orchestrator needs. All
// operations are scoped to the acting user's id.
type Store interface {
	CashierName(ctx context.Context, userID uint) (string, error)
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	CreateItem(ctx context.Context, item *models.TransactionItem) error
	// DecrementStock clamps the product's stock at zero and returns the
	// pre-decrement quantity so a failed checkout can restore it.
	DecrementStock(ctx context.Context, userID, productID uint, quantity int) (prevStock int, err error)
	RestoreStock(ctx context.Context, userID, productID uint, stock int) error
	DeleteItems(ctx context.Context, userID, transactionID uint) error
	DeleteTransaction(ctx context.Context, userID, transactionID uint) error
}

// Result is what a successful checkout hands back to the UI.
type Result struct {
	Transaction   *models.Transaction `json:"transaction"`
	ReceiptNumber string              `json:"receipt_number"`
}

type Orchestrator struct {
	store Store
	log   zerolog.Logger
}

func NewOrchestrator(store Store, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{store: store, log: log}
}

type stockUndo struct {
	productID uint
	prevStock int
}

// Process runs the checkout write sequence: create the transaction header,
// then per cart line insert the line item and decrement stock. If a line-item
// insert fails, everything written so far is compensated (items deleted,
// stocks restored, header deleted) before the error is returned.
//
// The compensation is a best-effort sequence of independent writes, not an
// atomic rollback; a compensating step that fails is logged and skipped
// rather than retried.
func (o *Orchestrator) Process(ctx context.Context, userID uint, lines []CartLine, method models.PaymentMethod, subtotal, tax, total float64) (*Result, error) {
	if err := ValidateCart(lines); err != nil {
		return nil, err
	}

	cashier, err := o.store.CashierName(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve cashier: %w", err)
	}

	receipt := NewReceiptNumber()

	txn := &models.Transaction{
		UserID:        userID,
		ReceiptNumber: receipt,
		Subtotal:      subtotal,
		TaxAmount:     tax,
		TotalAmount:   total,
		PaymentMethod: method,
		Status:        models.StatusCompleted,
		CashierName:   cashier,
		CreatedAt:     time.Now(),
	}
	if err := o.store.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	var undo []stockUndo
	for i, line := range lines {
		item := &models.TransactionItem{
			TransactionID: txn.ID,
			UserID:        userID,
			ProductID:     line.ProductID,
			ProductName:   line.ProductName,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			Subtotal:      line.Subtotal(),
		}
		if err := o.store.CreateItem(ctx, item); err != nil {
			o.compensate(ctx, userID, txn.ID, receipt, undo)
			return nil, fmt.Errorf("save line item %d (%s): %w", i+1, line.ProductName, err)
		}
		txn.Items = append(txn.Items, *item)

		prev, err := o.store.DecrementStock(ctx, userID, line.ProductID, line.Quantity)
		if err != nil {
			// The line item is already on the receipt; losing the stock
			// write is better than losing the sale. Surface it loudly.
			o.log.Error().
				Err(err).
				Uint("product_id", line.ProductID).
				Str("receipt", receipt).
				Msg("stock decrement failed, sale kept")
			continue
		}
		undo = append(undo, stockUndo{productID: line.ProductID, prevStock: prev})
	}

	return &Result{Transaction: txn, ReceiptNumber: receipt}, nil
}

// compensate undoes a partially-written checkout: delete the inserted line
// items, restore every stock decremented in this attempt, then delete the
// transaction header. Each step failing is logged but never re-raised.
func (o *Orchestrator) compensate(ctx context.Context, userID, transactionID uint, receipt string, undo []stockUndo) {
	if err := o.store.DeleteItems(ctx, userID, transactionID); err != nil {
		o.log.Error().
			Err(err).
			Uint("transaction_id", transactionID).
			Str("receipt", receipt).
			Msg("rollback: failed to delete line items, residual rows may remain")
	}

	for _, u := range undo {
		if err := o.store.RestoreStock(ctx, userID, u.productID, u.prevStock); err != nil {
			o.log.Error().
				Err(err).
				Uint("product_id", u.productID).
				Int("stock", u.prevStock).
				Str("receipt", receipt).
				Msg("rollback: failed to restore stock")
		}
	}

	if err := o.store.DeleteTransaction(ctx, userID, transactionID); err != nil {
		o.log.Error().
			Err(err).
			Uint("transaction_id", transactionID).
			Str("receipt", receipt).
			Msg("rollback: failed to delete transaction header")
	}
}
