package handlers

import (
	"context"
	"math"
	"net/http"

	"go-tindahan-pos/internal/checkout"
	"go-tindahan-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// CheckoutService is what the handler needs from the orchestrator.
type CheckoutService interface {
	Process(ctx context.Context, userID uint, lines []checkout.CartLine, method models.PaymentMethod, subtotal, tax, total float64) (*checkout.Result, error)
}

type CheckoutRequest struct {
	Items          []checkout.CartLine `json:"items"`
	PaymentMethod  string              `json:"payment_method" binding:"required"`
	AmountTendered float64             `json:"amount_tendered"`
}

// Checkout validates the cart and payment, computes the totals, and runs the
// write sequence. On failure the client keeps its cart so the sale can be
// retried.
func Checkout(svc CheckoutService, taxRate float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uint)

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		method, err := models.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment method must be Cash or GCash"})
			return
		}

		if err := checkout.ValidateCart(req.Items); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		subtotal := checkout.CartSubtotal(req.Items)
		tax := round2(subtotal * taxRate)
		total := subtotal + tax

		// GCash settles exactly; only cash needs a tendered check.
		if method == models.PaymentCash && req.AmountTendered < total {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient cash tendered"})
			return
		}

		res, err := svc.Process(c.Request.Context(), userID, req.Items, method, subtotal, tax, total)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed: " + err.Error()})
			return
		}

		change := 0.0
		if method == models.PaymentCash {
			change = checkout.ChangeDue(total, req.AmountTendered)
		}

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"transaction":    res.Transaction,
			"receipt_number": res.ReceiptNumber,
			"subtotal":       subtotal,
			"tax_amount":     tax,
			"total_amount":   total,
			"change":         change,
		})
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
