package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go-tindahan-pos/internal/database"
	"go-tindahan-pos/internal/inventory"
	"go-tindahan-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// periodRange maps a dashboard period to [start, end]. offset 0 is the
// current period, offset 1 the one before it (for trend comparison).
func periodRange(period string, offset int) (time.Time, time.Time, bool) {
	now := time.Now()
	var start time.Time

	switch period {
	case "today":
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		start = day.AddDate(0, 0, -offset)
		if offset == 0 {
			return start, now, true
		}
		return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond), true
	case "week":
		// Weeks start Monday.
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := day.AddDate(0, 0, -(weekday - 1))
		start = monday.AddDate(0, 0, -7*offset)
		if offset == 0 {
			return start, now, true
		}
		return start, start.AddDate(0, 0, 7).Add(-time.Nanosecond), true
	case "month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
		start = first.AddDate(0, -offset, 0)
		if offset == 0 {
			return start, now, true
		}
		return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond), true
	case "year":
		first := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.Local)
		start = first.AddDate(-offset, 0, 0)
		if offset == 0 {
			return start, now, true
		}
		return start, start.AddDate(1, 0, 0).Add(-time.Nanosecond), true
	}
	return time.Time{}, time.Time{}, false
}

// GetSalesReport returns the headline metrics for the requested period and
// the period before it.
func GetSalesReport(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	period := c.DefaultQuery("period", "today")

	curStart, curEnd, ok := periodRange(period, 0)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be today, week, month or year"})
		return
	}
	prevStart, prevEnd, _ := periodRange(period, 1)

	current, err := database.GetSalesMetrics(userID, curStart, curEnd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate metrics"})
		return
	}
	previous, err := database.GetSalesMetrics(userID, prevStart, prevEnd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"current": current, "previous": previous})
}

// RevenueChartPoint is one bar of the dashboard revenue chart.
type RevenueChartPoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
var dayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func bucketLabel(period string, t time.Time) string {
	switch period {
	case "today":
		hour := t.Hour()
		suffix := "AM"
		if hour >= 12 {
			suffix = "PM"
		}
		display := hour % 12
		if display == 0 {
			display = 12
		}
		return strconv.Itoa(display) + " " + suffix
	case "week":
		return dayNames[int(t.Weekday())]
	case "month":
		return strconv.Itoa(t.Day())
	default: // year
		return monthNames[int(t.Month())-1]
	}
}

// GetRevenueChart buckets the period's revenue by hour, weekday, day of
// month, or month. Buckets appear in first-sale order (the rows are sorted).
func GetRevenueChart(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	period := c.DefaultQuery("period", "today")

	start, end, ok := periodRange(period, 0)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be today, week, month or year"})
		return
	}

	rows, err := database.GetRevenueRows(userID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch revenue data"})
		return
	}

	totals := map[string]float64{}
	var order []string
	for _, row := range rows {
		key := bucketLabel(period, row.CreatedAt)
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += row.TotalAmount
	}

	points := make([]RevenueChartPoint, 0, len(order))
	for _, key := range order {
		points = append(points, RevenueChartPoint{Period: key, Revenue: totals[key]})
	}

	c.JSON(http.StatusOK, points)
}

// GetTopProducts returns the period's 5 best sellers by units sold.
func GetTopProducts(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	period := c.DefaultQuery("period", "today")

	start, end, ok := periodRange(period, 0)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be today, week, month or year"})
		return
	}

	rows, err := database.GetTopSellingProducts(userID, start, end, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetSlowMovingItems lists up to 5 active products with no sales in 30 days.
func GetSlowMovingItems(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	cutoff := time.Now().AddDate(0, 0, -30)
	items, err := database.GetSlowMovingItems(userID, cutoff, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch slow moving items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// InventorySummary counts the owner's active products per stock tier.
type InventorySummary struct {
	TotalProducts int     `json:"total_products"`
	InStock       int     `json:"in_stock"`
	LowStock      int     `json:"low_stock"`
	OutOfStock    int     `json:"out_of_stock"`
	StockValue    float64 `json:"stock_value"`
}

func GetInventorySummary(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var products []models.Product
	err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).Find(&products).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	var summary InventorySummary
	summary.TotalProducts = len(products)
	for _, p := range products {
		switch inventory.Classify(p.StockQuantity, p.ReorderLevel) {
		case inventory.StatusOut:
			summary.OutOfStock++
		case inventory.StatusLow:
			summary.LowStock++
		default:
			summary.InStock++
		}
		summary.StockValue += float64(p.StockQuantity) * p.Price
	}

	c.JSON(http.StatusOK, summary)
}
