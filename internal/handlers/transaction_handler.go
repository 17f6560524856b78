package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-tindahan-pos/internal/database"
	"go-tindahan-pos/internal/models"
	"go-tindahan-pos/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// parseDateRange reads optional ?from= / ?to= query params (YYYY-MM-DD).
// Defaults to the last 30 days.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return start, end, fmt.Errorf("invalid from date %q", v)
		}
		start = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return start, end, fmt.Errorf("invalid to date %q", v)
		}
		end = t.Add(24*time.Hour - time.Nanosecond)
	}
	if start.After(end) {
		return start, end, fmt.Errorf("from date is after to date")
	}
	return start, end, nil
}

// GetTransactions lists the owner's sales newest first, with optional
// date-range, payment-method and receipt-number filters.
func GetTransactions(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	start, end, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := database.DB.
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, start, end).
		Order("created_at desc")

	if method := c.Query("payment_method"); method != "" {
		if _, err := models.ParsePaymentMethod(method); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment method must be Cash or GCash"})
			return
		}
		query = query.Where("payment_method = ?", method)
	}
	if receipt := c.Query("receipt"); receipt != "" {
		query = query.Where("receipt_number LIKE ?", "%"+receipt+"%")
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetTransaction returns one sale with its line items.
func GetTransaction(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	var txn models.Transaction
	err = database.DB.Preload("Items").
		Where("user_id = ?", userID).
		First(&txn, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	c.JSON(http.StatusOK, txn)
}

// DeleteTransaction removes a sale and its line items. Stock is not restored;
// this is an administrative cleanup, not a refund.
func DeleteTransaction(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	var txn models.Transaction
	if err := database.DB.Where("user_id = ?", userID).First(&txn, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ? AND user_id = ?", txn.ID, userID).
			Delete(&models.TransactionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&txn).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// ExportTransactions streams the filtered sales as an .xlsx workbook.
func ExportTransactions(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	start, end, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var transactions []models.Transaction
	err = database.DB.Preload("Items").
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, start, end).
		Order("created_at").
		Find(&transactions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Receipt #", "Date", "Cashier", "Payment", "Items", "Subtotal", "Tax", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, txn := range transactions {
		values := []interface{}{
			txn.ReceiptNumber,
			txn.CreatedAt.Format("2006-01-02 15:04"),
			txn.CashierName,
			string(txn.PaymentMethod),
			len(txn.Items),
			utils.FormatPeso(txn.Subtotal),
			utils.FormatPeso(txn.TaxAmount),
			utils.FormatPeso(txn.TotalAmount),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("transactions_%s_%s.xlsx",
		start.Format("20060102"), end.Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export"})
	}
}
