package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Appyouz/ecommerce-backend/middleware"
	"github.com/Appyouz/ecommerce-backend/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type UpdateItemInput struct {
	Quantity int `json:"quantity" binding:"required"`
}

type cartResponse struct {
	models.Cart
	TotalPrice string `json:"total_price"`
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err == nil
}

// GetOrCreateCart returns the user's cart, creating an empty one on
// first access. The conditional insert plus the unique index on user_id
// makes concurrent first access safe: the loser of the race reads the
// winner's row.
func GetOrCreateCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Where(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	if cart.ID == 0 {
		// Lost the insert race; fetch the existing row.
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return nil, err
		}
	}
	return &cart, nil
}

// GET /api/cart/
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		cart, err := GetOrCreateCart(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch cart"})
			return
		}
		if err := db.Preload("Items.Product").First(cart, cart.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, cartResponse{Cart: *cart, TotalPrice: cart.TotalPrice().StringFixed(2)})
	}
}

// POST /api/cart/items/
//
// Adding a product that is already in the cart merges quantities and
// answers 202; a new line answers 201.
func AddItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid input: " + err.Error()})
			return
		}
		if input.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"quantity": "Quantity must be at least 1."})
			return
		}

		var product models.Product
		if err := db.First(&product, input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to validate product"})
			return
		}

		cart, err := GetOrCreateCart(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch cart"})
			return
		}

		// One atomic upsert against the (cart_id, product_id) unique
		// index: a concurrent add of the same product lands as a
		// quantity bump instead of a unique-constraint failure.
		item := models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  input.Quantity,
		}
		err = db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("quantity + ?", input.Quantity),
				"updated_at": time.Now(),
			}),
		}).Create(&item).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to add item to cart"})
			return
		}

		var line models.CartItem
		if err := db.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).
			First(&line).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to add item to cart"})
			return
		}

		// A fresh line carries exactly the requested quantity; anything
		// larger means it merged into an existing one.
		status := http.StatusCreated
		if line.Quantity != input.Quantity {
			status = http.StatusAccepted
		}
		line.Product = product
		c.JSON(status, line)
	}
}

// findOwnItem scopes the lookup to the requesting user's own cart, so a
// foreign item id comes back as not-found rather than leaking.
func findOwnItem(db *gorm.DB, userID uint, itemID string) (*models.CartItem, error) {
	id, ok := parseID(itemID)
	if !ok {
		return nil, models.ErrNotFound
	}
	cart, err := GetOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}
	var item models.CartItem
	if err := db.Preload("Product").
		Where("cart_id = ?", cart.ID).
		First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GET /api/cart/items/:id/
func GetItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		item, err := findOwnItem(db, user.ID, c.Param("id"))
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// PATCH /api/cart/items/:id/
func UpdateItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid input: " + err.Error()})
			return
		}
		if input.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"quantity": "Quantity must be at least 1."})
			return
		}

		item, err := findOwnItem(db, user.ID, c.Param("id"))
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch cart item"})
			return
		}

		item.Quantity = input.Quantity
		if err := db.Save(item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /api/cart/items/:id/
func DeleteItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		id, ok := parseID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Cart item not found"})
			return
		}
		cart, err := GetOrCreateCart(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch cart"})
			return
		}

		result := db.Where("cart_id = ? AND id = ?", cart.ID, id).
			Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete cart item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Cart item not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
