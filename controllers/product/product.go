package productcontroller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Appyouz/ecommerce-backend/cache"
	"github.com/Appyouz/ecommerce-backend/middleware"
	"github.com/Appyouz/ecommerce-backend/models"
	"github.com/Appyouz/ecommerce-backend/permissions"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock"`
	Image       string          `json:"image"`
	CategoryID  *uint           `json:"category_id"`
}

// ProductPatch carries a partial update. Absent fields leave the stored
// value alone; category_id keeps raw JSON so an explicit null (detach)
// can be told apart from an omitted key.
type ProductPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Image       *string          `json:"image"`
	CategoryID  json.RawMessage  `json:"category_id"`
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err == nil
}

// resolveCategory looks up an optional category id. A bad id degrades
// to no category rather than failing the request.
func resolveCategory(db *gorm.DB, categoryID *uint) *uint {
	if categoryID == nil {
		return nil
	}
	var category models.Category
	if err := db.First(&category, *categoryID).Error; err != nil {
		return nil
	}
	return &category.ID
}

// GET /api/products/  (?category= equality, ?search= substring)
func ListProducts(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.Query("category")
		search := c.Query("search")
		unfiltered := category == "" && search == ""

		if unfiltered {
			if products, ok := pc.GetProducts(c.Request.Context()); ok {
				c.JSON(http.StatusOK, products)
				return
			}
		}

		query := db.Order("name")
		if category != "" {
			query = query.Where("category_id = ?", category)
		}
		if search != "" {
			pattern := "%" + search + "%"
			query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch products"})
			return
		}

		if unfiltered {
			pc.SetProducts(c.Request.Context(), products)
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /api/products/:id/
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
			return
		}
		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// POST /api/products/  (sellers only)
func CreateProduct(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if !permissions.IsSeller(c.Request.Method, user) {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Only sellers can create products."})
			return
		}

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid input: " + err.Error()})
			return
		}
		if !input.Price.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"price": "Price must be positive."})
			return
		}

		product := models.Product{
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			Image:       input.Image,
			CategoryID:  resolveCategory(db, input.CategoryID),
			SellerID:    user.ID,
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"stock": "Stock cannot be negative."})
				return
			}
			product.Stock = *input.Stock
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create product"})
			return
		}

		pc.Invalidate(c.Request.Context())
		c.JSON(http.StatusCreated, product)
	}
}

// PATCH /api/products/:id/  (owner only)
func UpdateProduct(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		id, ok := parseID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
			return
		}
		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch product"})
			return
		}

		gate := permissions.And(permissions.IsSeller, permissions.IsOwnerOrReadOnly(product.SellerID))
		if !gate(c.Request.Method, user) {
			c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to modify this product."})
			return
		}

		var input ProductPatch
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid input: " + err.Error()})
			return
		}

		if input.Name != nil {
			if *input.Name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"name": "Name cannot be blank."})
				return
			}
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Price != nil {
			if !input.Price.IsPositive() {
				c.JSON(http.StatusBadRequest, gin.H{"price": "Price must be positive."})
				return
			}
			product.Price = *input.Price
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"stock": "Stock cannot be negative."})
				return
			}
			product.Stock = *input.Stock
		}
		if input.Image != nil {
			product.Image = *input.Image
		}
		// Only an explicit null detaches the category; an omitted key
		// leaves it untouched.
		if len(input.CategoryID) > 0 {
			if string(input.CategoryID) == "null" {
				product.CategoryID = nil
			} else {
				var id uint
				if err := json.Unmarshal(input.CategoryID, &id); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"category_id": "Invalid category id."})
					return
				}
				product.CategoryID = resolveCategory(db, &id)
			}
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update product"})
			return
		}

		pc.Invalidate(c.Request.Context())
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /api/products/:id/  (owner only)
func DeleteProduct(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		id, ok := parseID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
			return
		}
		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch product"})
			return
		}

		gate := permissions.And(permissions.IsSeller, permissions.IsOwnerOrReadOnly(product.SellerID))
		if !gate(c.Request.Method, user) {
			c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to delete this product."})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			// Order lines keep their snapshot; only the live link is cut.
			if err := tx.Model(&models.OrderItem{}).
				Where("product_id = ?", product.ID).
				Update("product_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", product.ID).
				Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete product"})
			return
		}

		pc.Invalidate(c.Request.Context())
		c.Status(http.StatusNoContent)
	}
}
