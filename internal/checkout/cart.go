package checkout

import (
	"errors"
	"fmt"
)

// CartLine is one product-quantity-price entry in the transient pre-checkout
// cart. Name and unit price are captured at add-time and not re-read here.
type CartLine struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Subtotal is quantity times the captured unit price.
func (l CartLine) Subtotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

var ErrEmptyCart = errors.New("cart is empty")

// ValidateCart rejects carts the orchestrator must never see.
func ValidateCart(lines []CartLine) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	for i, l := range lines {
		if l.Quantity < 1 {
			return fmt.Errorf("line %d (%s): quantity must be at least 1", i+1, l.ProductName)
		}
		if l.UnitPrice < 0 {
			return fmt.Errorf("line %d (%s): unit price cannot be negative", i+1, l.ProductName)
		}
	}
	return nil
}

// CartSubtotal sums the line subtotals.
func CartSubtotal(lines []CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Subtotal()
	}
	return sum
}

// ChangeDue is what the cashier hands back on a cash sale.
func ChangeDue(total, tendered float64) float64 {
	if tendered <= total {
		return 0
	}
	return tendered - total
}
