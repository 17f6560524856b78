package database

import (
	"sort"
	"time"

	"go-tindahan-pos/internal/models"
)

// SalesMetrics is one period's worth of headline numbers.
type SalesMetrics struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TransactionCount int64   `json:"transaction_count"`
	AvgSale          float64 `json:"avg_sale"`
	UniqueCustomers  int64   `json:"unique_customers"`
}

// GetSalesMetrics calculates revenue, order count and average sale for the
// owner's transactions within [start, end].
func GetSalesMetrics(userID uint, start, end time.Time) (*SalesMetrics, error) {
	var m SalesMetrics

	// COALESCE ensures we get 0 instead of NULL if no sales exist
	err := DB.Model(&models.Transaction{}).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&m.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Transaction{}).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, start, end).
		Count(&m.TransactionCount).Error
	if err != nil {
		return nil, err
	}
	if m.TransactionCount > 0 {
		m.AvgSale = m.TotalRevenue / float64(m.TransactionCount)
	}

	// A single-operator store sees one distinct customer id; fall back to the
	// order count so the dashboard tile still moves.
	err = DB.Model(&models.Transaction{}).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, start, end).
		Select("COUNT(DISTINCT user_id)").
		Scan(&m.UniqueCustomers).Error
	if err != nil {
		return nil, err
	}
	if m.UniqueCustomers == 0 {
		m.UniqueCustomers = m.TransactionCount
	}

	return &m, nil
}

// RevenueRow is one transaction's contribution to the revenue chart.
type RevenueRow struct {
	CreatedAt   time.Time
	TotalAmount float64
}

// GetRevenueRows returns the raw (timestamp, amount) pairs for a range, oldest
// first. Bucketing by hour/day/month happens in the handler.
func GetRevenueRows(userID uint, start, end time.Time) ([]RevenueRow, error) {
	var rows []RevenueRow
	err := DB.Model(&models.Transaction{}).
		Select("created_at, total_amount").
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, start, end).
		Order("created_at").
		Scan(&rows).Error
	return rows, err
}

// TopSellingProduct is one row of the best-sellers table.
type TopSellingProduct struct {
	ProductName  string  `json:"product_name"`
	Icon         string  `json:"icon"`
	CategoryName string  `json:"category_name"`
	TotalSold    int     `json:"total_sold"`
	TotalRevenue float64 `json:"total_revenue"`
}

// GetTopSellingProducts ranks products by units sold within a range.
func GetTopSellingProducts(userID uint, start, end time.Time, limit int) ([]TopSellingProduct, error) {
	var rows []TopSellingProduct
	err := DB.Table("transaction_items").
		Select(`transaction_items.product_name,
			COALESCE(MAX(products.icon), '') as icon,
			COALESCE(MAX(categories.name), 'Uncategorized') as category_name,
			SUM(transaction_items.quantity) as total_sold,
			SUM(transaction_items.subtotal) as total_revenue`).
		Joins("LEFT JOIN products ON products.id = transaction_items.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("transaction_items.user_id = ? AND transaction_items.created_at BETWEEN ? AND ?", userID, start, end).
		Group("transaction_items.product_name").
		Order("total_sold desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// SlowMovingItem is an active product with no sales since the cutoff.
type SlowMovingItem struct {
	ProductName      string `json:"product_name"`
	StockQuantity    int    `json:"stock_quantity"`
	DaysWithoutSales int    `json:"days_without_sales"`
}

// GetSlowMovingItems lists active products that have not appeared on any
// receipt since the cutoff, staleness measured from the product's last update.
func GetSlowMovingItems(userID uint, cutoff time.Time, limit int) ([]SlowMovingItem, error) {
	var products []models.Product
	if err := DB.Where("user_id = ? AND is_active = ?", userID, true).Find(&products).Error; err != nil {
		return nil, err
	}

	var recentIDs []uint
	err := DB.Model(&models.TransactionItem{}).
		Distinct("product_id").
		Where("user_id = ? AND created_at >= ?", userID, cutoff).
		Pluck("product_id", &recentIDs).Error
	if err != nil {
		return nil, err
	}

	sold := make(map[uint]bool, len(recentIDs))
	for _, id := range recentIDs {
		sold[id] = true
	}

	now := time.Now()
	var items []SlowMovingItem
	for _, p := range products {
		if sold[p.ID] {
			continue
		}
		items = append(items, SlowMovingItem{
			ProductName:      p.Name,
			StockQuantity:    p.StockQuantity,
			DaysWithoutSales: int(now.Sub(p.UpdatedAt).Hours() / 24),
		})
	}

	// Stalest first
	sort.Slice(items, func(i, j int) bool {
		return items[i].DaysWithoutSales > items[j].DaysWithoutSales
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
