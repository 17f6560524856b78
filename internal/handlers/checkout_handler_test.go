package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-tindahan-pos/internal/checkout"
	"go-tindahan-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheckout struct {
	called   bool
	method   models.PaymentMethod
	subtotal float64
	tax      float64
	total    float64
	err      error
}

func (s *stubCheckout) Process(ctx context.Context, userID uint, lines []checkout.CartLine, method models.PaymentMethod, subtotal, tax, total float64) (*checkout.Result, error) {
	s.called = true
	s.method = method
	s.subtotal = subtotal
	s.tax = tax
	s.total = total
	if s.err != nil {
		return nil, s.err
	}
	txn := &models.Transaction{ID: 1, ReceiptNumber: "RCP-1756300000000-ABCDEF123"}
	return &checkout.Result{Transaction: txn, ReceiptNumber: txn.ReceiptNumber}, nil
}

func checkoutRouter(svc CheckoutService, taxRate float64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", uint(7)) })
	r.POST("/checkout", Checkout(svc, taxRate))
	return r
}

func postCheckout(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"items": []checkout.CartLine{
			{ProductID: 1, ProductName: "Bread", Quantity: 2, UnitPrice: 10},
			{ProductID: 2, ProductName: "Coke Mismo", Quantity: 1, UnitPrice: 25},
		},
		"payment_method":  "Cash",
		"amount_tendered": 50.0,
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	svc := &stubCheckout{}
	w := postCheckout(t, checkoutRouter(svc, 0), validBody())

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, svc.called)
	assert.Equal(t, models.PaymentCash, svc.method)
	assert.Equal(t, 45.0, svc.subtotal)
	assert.Equal(t, 0.0, svc.tax)
	assert.Equal(t, 45.0, svc.total)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, 5.0, resp["change"])
	assert.Equal(t, "RCP-1756300000000-ABCDEF123", resp["receipt_number"])
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	svc := &stubCheckout{}
	body := validBody()
	body["items"] = []checkout.CartLine{}
	w := postCheckout(t, checkoutRouter(svc, 0), body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.called)
}

func TestCheckoutUnknownPaymentMethod(t *testing.T) {
	svc := &stubCheckout{}
	body := validBody()
	body["payment_method"] = "Maya"
	w := postCheckout(t, checkoutRouter(svc, 0), body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.called)
}

func TestCheckoutInsufficientCash(t *testing.T) {
	svc := &stubCheckout{}
	body := validBody()
	body["amount_tendered"] = 40.0
	w := postCheckout(t, checkoutRouter(svc, 0), body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.called)
}

func TestCheckoutGCashIgnoresTendered(t *testing.T) {
	svc := &stubCheckout{}
	body := validBody()
	body["payment_method"] = "GCash"
	body["amount_tendered"] = 0.0
	w := postCheckout(t, checkoutRouter(svc, 0), body)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.0, resp["change"])
}

func TestCheckoutTaxRateApplied(t *testing.T) {
	svc := &stubCheckout{}
	body := validBody()
	// Tax pushes the total to 50.4, so tender enough to clear it.
	body["amount_tendered"] = 60.0
	w := postCheckout(t, checkoutRouter(svc, 0.12), body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 45.0, svc.subtotal)
	assert.InDelta(t, 5.4, svc.tax, 1e-9)
	assert.InDelta(t, 50.4, svc.total, 1e-9)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 9.6, resp["change"].(float64), 1e-9)
}

func TestCheckoutTaxedTotalStillNeedsFullTender(t *testing.T) {
	svc := &stubCheckout{}
	// 50 covers the subtotal but not the 50.4 taxed total.
	w := postCheckout(t, checkoutRouter(svc, 0.12), validBody())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.called)
	assert.Contains(t, w.Body.String(), "Insufficient cash tendered")
}

func TestCheckoutServiceFailureSurfaces(t *testing.T) {
	svc := &stubCheckout{err: assert.AnError}
	w := postCheckout(t, checkoutRouter(svc, 0), validBody())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Checkout failed")
}
