package handlers

import (
	"net/http"
	"strconv"

	"go-tindahan-pos/internal/database"
	"go-tindahan-pos/internal/inventory"
	"go-tindahan-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// ProductView is a product row plus the derived fields the POS grid and the
// inventory table both need.
type ProductView struct {
	models.Product
	CategoryName string                `json:"category_name"`
	StockStatus  inventory.StockStatus `json:"stock_status"`
}

// GetProducts lists the owner's active products in name order, with
// optional ?q= substring search and ?category_id= filter.
func GetProducts(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	query := database.DB.Preload("Category").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("name")

	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}
	if catID := c.Query("category_id"); catID != "" {
		query = query.Where("category_id = ?", catID)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		name := p.Category.Name
		if name == "" {
			name = "Uncategorized"
		}
		views = append(views, ProductView{
			Product:      p,
			CategoryName: name,
			StockStatus:  inventory.Classify(p.StockQuantity, p.ReorderLevel),
		})
	}

	c.JSON(http.StatusOK, views)
}

type ProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	SKU           string  `json:"sku"`
	Price         float64 `json:"price" binding:"min=0"`
	CategoryID    uint    `json:"category_id"`
	StockQuantity int     `json:"stock_quantity" binding:"min=0"`
	ReorderLevel  int     `json:"reorder_level" binding:"min=0"`
	Icon          string  `json:"icon"`
}

func AddProduct(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input ProductRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product := models.Product{
		UserID:        userID,
		Name:          input.Name,
		SKU:           input.SKU,
		Price:         input.Price,
		CategoryID:    input.CategoryID,
		StockQuantity: input.StockQuantity,
		ReorderLevel:  input.ReorderLevel,
		Icon:          input.Icon,
		IsActive:      true,
	}

	if err := database.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

func UpdateProduct(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var product models.Product
	if err := database.DB.Where("user_id = ?", userID).First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	// Partial update: only the fields that were sent.
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	// Ownership and identity are not editable.
	delete(updateData, "id")
	delete(updateData, "user_id")

	if err := database.DB.Model(&product).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// DeleteProduct flips is_active off. Rows are never hard-deleted so past
// receipts keep their product references.
func DeleteProduct(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	result := database.DB.Model(&models.Product{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove product"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}

// GetCategories lists the owner's categories by name.
func GetCategories(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var categories []models.Category
	if err := database.DB.Where("user_id = ?", userID).Order("name").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func AddCategory(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input CategoryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	category := models.Category{UserID: userID, Name: input.Name}
	if err := database.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}
