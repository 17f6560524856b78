package models

import (
	"fmt"
	"time"
)

// User - The store operator. Every other row is owned by one of these.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:120" json:"email"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	FullName     string    `json:"full_name"`
	StoreName    string    `json:"store_name"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"` // 'admin', 'cashier'
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Category - Flat product grouping (Groceries, Beverages, Snacks, ...)
type Category struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"index" json:"user_id"`
	Name   string `json:"name"`
}

// Product - The Inventory
type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	Name          string    `json:"name"`
	SKU           string    `gorm:"size:64" json:"sku"`
	Price         float64   `json:"price"`
	CategoryID    uint      `gorm:"index" json:"category_id"`
	Category      Category  `json:"category"`
	StockQuantity int       `json:"stock_quantity"`
	ReorderLevel  int       `json:"reorder_level"`
	Icon          string    `json:"icon"` // emoji or image URL, frontend decides
	IsActive      bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PaymentMethod is the closed set of ways a sale can be settled.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "Cash"
	PaymentGCash PaymentMethod = "GCash"
)

// ParsePaymentMethod validates a raw string at the boundary.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentGCash:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// TransactionStatus - only 'completed' is produced today; the column exists so
// held or voided sales can be added without a migration.
type TransactionStatus string

const StatusCompleted TransactionStatus = "completed"

// Transaction - The sale header. Immutable after creation except for
// administrative deletion.
type Transaction struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	UserID        uint              `gorm:"index" json:"user_id"`
	ReceiptNumber string            `gorm:"index;size:40" json:"receipt_number"`
	Subtotal      float64           `json:"subtotal"`
	TaxAmount     float64           `json:"tax_amount"`
	TotalAmount   float64           `json:"total_amount"`
	PaymentMethod PaymentMethod     `gorm:"size:16" json:"payment_method"`
	Status        TransactionStatus `gorm:"size:16" json:"status"`
	CashierName   string            `json:"cashier_name"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
}

// TransactionItem - One cart line frozen at checkout time. Product name and
// unit price are denormalized so receipts survive product edits and soft deletes.
type TransactionItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID uint      `gorm:"index" json:"transaction_id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	ProductID     uint      `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	Subtotal      float64   `json:"subtotal"` // Quantity * UnitPrice
	CreatedAt     time.Time `json:"created_at"`
}
