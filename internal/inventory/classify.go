// Package inventory holds the stock-level classification shared by the
// inventory table and the POS product grid.
package inventory

// StockStatus is the tier a product's stock level falls into.
type StockStatus string

const (
	StatusOut StockStatus = "out"
	StatusLow StockStatus = "low"
	StatusIn  StockStatus = "in"
)

// Classify maps a stock quantity and reorder threshold to a status tier.
// Anything at or below zero is out of stock regardless of the threshold;
// a reorder level of zero means a product can never be "low".
func Classify(stockQuantity, reorderLevel int) StockStatus {
	if stockQuantity <= 0 {
		return StatusOut
	}
	if stockQuantity < reorderLevel {
		return StatusLow
	}
	return StatusIn
}

// CanAddToCart is the POS grid gate: adding is blocked once the quantity
// already in the cart reaches the available stock.
func CanAddToCart(quantityInCart, stockQuantity int) bool {
	return quantityInCart < stockQuantity
}
