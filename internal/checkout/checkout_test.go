package checkout

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"

	"go-tindahan-pos/internal/inventory"
	"go-tindahan-pos/internal/logger"
	"go-tindahan-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store with injectable failures.
type fakeStore struct {
	cashier    string
	cashierErr error

	nextTxnID    uint
	nextItemID   uint
	transactions map[uint]*models.Transaction
	items        map[uint]*models.TransactionItem
	stock        map[uint]int

	failItemAt   int // 1-based CreateItem call that fails, 0 = never
	itemCalls    int
	decrementErr map[uint]error

	deleteItemsErr error
	deleteTxnErr   error
	restoreErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cashier:      "Maria Santos",
		transactions: map[uint]*models.Transaction{},
		items:        map[uint]*models.TransactionItem{},
		stock:        map[uint]int{},
		decrementErr: map[uint]error{},
	}
}

func (f *fakeStore) CashierName(ctx context.Context, userID uint) (string, error) {
	return f.cashier, f.cashierErr
}

func (f *fakeStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	f.nextTxnID++
	txn.ID = f.nextTxnID
	cp := *txn
	f.transactions[txn.ID] = &cp
	return nil
}

func (f *fakeStore) CreateItem(ctx context.Context, item *models.TransactionItem) error {
	f.itemCalls++
	if f.failItemAt != 0 && f.itemCalls == f.failItemAt {
		return errors.New("insert rejected")
	}
	f.nextItemID++
	item.ID = f.nextItemID
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeStore) DecrementStock(ctx context.Context, userID, productID uint, quantity int) (int, error) {
	if err := f.decrementErr[productID]; err != nil {
		return 0, err
	}
	prev := f.stock[productID]
	next := prev - quantity
	if next < 0 {
		next = 0
	}
	f.stock[productID] = next
	return prev, nil
}

func (f *fakeStore) RestoreStock(ctx context.Context, userID, productID uint, stock int) error {
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.stock[productID] = stock
	return nil
}

func (f *fakeStore) DeleteItems(ctx context.Context, userID, transactionID uint) error {
	if f.deleteItemsErr != nil {
		return f.deleteItemsErr
	}
	for id, item := range f.items {
		if item.TransactionID == transactionID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeStore) DeleteTransaction(ctx context.Context, userID, transactionID uint) error {
	if f.deleteTxnErr != nil {
		return f.deleteTxnErr
	}
	delete(f.transactions, transactionID)
	return nil
}

func (f *fakeStore) itemsFor(transactionID uint) []*models.TransactionItem {
	var out []*models.TransactionItem
	for _, item := range f.items {
		if item.TransactionID == transactionID {
			out = append(out, item)
		}
	}
	return out
}

func newOrchestrator(store Store) *Orchestrator {
	return NewOrchestrator(store, logger.NewWithWriter(io.Discard))
}

func sampleCart() []CartLine {
	return []CartLine{
		{ProductID: 1, ProductName: "Bread", Quantity: 2, UnitPrice: 10},
		{ProductID: 2, ProductName: "Coke Mismo", Quantity: 1, UnitPrice: 25},
	}
}

func TestProcessSuccess(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 5
	store.stock[2] = 1
	o := newOrchestrator(store)

	cart := sampleCart()
	subtotal := CartSubtotal(cart)
	require.Equal(t, 45.0, subtotal)

	res, err := o.Process(context.Background(), 7, cart, models.PaymentCash, subtotal, 0, subtotal)
	require.NoError(t, err)
	require.NotNil(t, res.Transaction)

	// Exactly one header and one line item per cart line.
	require.Len(t, store.transactions, 1)
	items := store.itemsFor(res.Transaction.ID)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, float64(item.Quantity)*item.UnitPrice, item.Subtotal)
		assert.Equal(t, uint(7), item.UserID)
	}

	stored := store.transactions[res.Transaction.ID]
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.Equal(t, models.PaymentCash, stored.PaymentMethod)
	assert.Equal(t, "Maria Santos", stored.CashierName)
	assert.Equal(t, 45.0, stored.TotalAmount)
	assert.Equal(t, 0.0, stored.TaxAmount)
	assert.Equal(t, res.ReceiptNumber, stored.ReceiptNumber)

	// Stock decremented by sold quantity, Coke now out of stock.
	assert.Equal(t, 3, store.stock[1])
	assert.Equal(t, 0, store.stock[2])
	assert.Equal(t, inventory.StatusOut, inventory.Classify(store.stock[2], 5))

	// Cash 50 tendered on a 45 total leaves 5 change.
	assert.Equal(t, 5.0, ChangeDue(45, 50))
}

func TestProcessStockClampedAtZero(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 1
	o := newOrchestrator(store)

	cart := []CartLine{{ProductID: 1, ProductName: "Egg", Quantity: 3, UnitPrice: 11}}
	_, err := o.Process(context.Background(), 1, cart, models.PaymentGCash, 33, 0, 33)
	require.NoError(t, err)

	// Selling past a stale stock read is not an error; the floor is zero.
	assert.Equal(t, 0, store.stock[1])
}

func TestProcessLineItemFailureCompensates(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 5
	store.stock[2] = 1
	store.failItemAt = 2 // second cart line's insert fails
	o := newOrchestrator(store)

	_, err := o.Process(context.Background(), 7, sampleCart(), models.PaymentCash, 45, 0, 45)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Coke Mismo")

	// No orphaned header, no orphaned items.
	assert.Empty(t, store.transactions)
	assert.Empty(t, store.items)

	// Bread's decrement was undone, Coke was never touched.
	assert.Equal(t, 5, store.stock[1])
	assert.Equal(t, 1, store.stock[2])
}

func TestProcessFirstLineFailureDeletesHeaderOnly(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 5
	store.failItemAt = 1
	o := newOrchestrator(store)

	_, err := o.Process(context.Background(), 7, sampleCart(), models.PaymentCash, 45, 0, 45)
	require.Error(t, err)
	assert.Empty(t, store.transactions)
	assert.Empty(t, store.items)
	assert.Equal(t, 5, store.stock[1])
}

func TestProcessCompensationFailureIsNotReraised(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 5
	store.failItemAt = 2
	store.deleteItemsErr = errors.New("network down")
	store.deleteTxnErr = errors.New("network down")
	store.restoreErr = errors.New("network down")
	o := newOrchestrator(store)

	// The caller sees the original insert failure, not the rollback failures.
	_, err := o.Process(context.Background(), 7, sampleCart(), models.PaymentCash, 45, 0, 45)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert rejected")
}

func TestProcessDecrementFailureKeepsSale(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 5
	store.decrementErr[1] = errors.New("timeout")
	o := newOrchestrator(store)

	cart := []CartLine{{ProductID: 1, ProductName: "Bread", Quantity: 2, UnitPrice: 10}}
	res, err := o.Process(context.Background(), 7, cart, models.PaymentCash, 20, 0, 20)
	require.NoError(t, err)

	// The receipt exists even though the stock write was lost.
	assert.Len(t, store.itemsFor(res.Transaction.ID), 1)
	assert.Equal(t, 5, store.stock[1])
}

func TestProcessEmptyCartRejected(t *testing.T) {
	o := newOrchestrator(newFakeStore())
	_, err := o.Process(context.Background(), 7, nil, models.PaymentCash, 0, 0, 0)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestProcessCashierLookupFailure(t *testing.T) {
	store := newFakeStore()
	store.cashierErr = errors.New("not authenticated")
	o := newOrchestrator(store)

	_, err := o.Process(context.Background(), 7, sampleCart(), models.PaymentCash, 45, 0, 45)
	require.Error(t, err)
	assert.Empty(t, store.transactions)
}

func TestProcessTwiceIsCumulative(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 5
	store.stock[2] = 5
	o := newOrchestrator(store)

	first, err := o.Process(context.Background(), 7, sampleCart(), models.PaymentCash, 45, 0, 45)
	require.NoError(t, err)
	second, err := o.Process(context.Background(), 7, sampleCart(), models.PaymentCash, 45, 0, 45)
	require.NoError(t, err)

	// Two structurally identical carts make two distinct sales.
	assert.NotEqual(t, first.Transaction.ID, second.Transaction.ID)
	assert.NotEqual(t, first.ReceiptNumber, second.ReceiptNumber)
	assert.Len(t, store.transactions, 2)
	assert.Equal(t, 1, store.stock[1]) // 5 - 2 - 2
	assert.Equal(t, 3, store.stock[2]) // 5 - 1 - 1
}

var receiptPattern = regexp.MustCompile(`^RCP-\d+-[A-Z0-9]{9}$`)

func TestReceiptNumberFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		r := NewReceiptNumber()
		assert.Regexp(t, receiptPattern, r)
		assert.False(t, seen[r], "receipt %s repeated", r)
		seen[r] = true
	}
}

func TestValidateCart(t *testing.T) {
	assert.ErrorIs(t, ValidateCart(nil), ErrEmptyCart)
	assert.Error(t, ValidateCart([]CartLine{{ProductID: 1, ProductName: "Bread", Quantity: 0, UnitPrice: 10}}))
	assert.Error(t, ValidateCart([]CartLine{{ProductID: 1, ProductName: "Bread", Quantity: 1, UnitPrice: -1}}))
	assert.NoError(t, ValidateCart(sampleCart()))
}

func TestChangeDue(t *testing.T) {
	assert.Equal(t, 5.0, ChangeDue(45, 50))
	assert.Equal(t, 0.0, ChangeDue(45, 45))
	assert.Equal(t, 0.0, ChangeDue(45, 40))
}
