package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Appyouz/ecommerce-backend/middleware"
	"github.com/Appyouz/ecommerce-backend/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err == nil
}

// CreateFromCart converts the user's cart into an order as one
// transaction: snapshot every line's product name and price, compute
// the total from those snapshots, persist the order and its items, then
// empty the cart (the cart row itself survives). A failure at any step
// rolls everything back.
//
// The cart row is locked FOR UPDATE for the duration so two concurrent
// checkouts of the same cart cannot both read the lines before either
// clears them.
func CreateFromCart(db *gorm.DB, userID uint) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		query := tx.Where("user_id = ?", userID)
		if tx.Dialector.Name() != "sqlite" {
			// sqlite rejects FOR UPDATE and serializes writers anyway
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNoCart
			}
			return err
		}

		var items []models.CartItem
		if err := tx.Preload("Product").
			Where("cart_id = ?", cart.ID).
			Order("created_at").
			Find(&items).Error; err != nil {
			return err
		}

		total := decimal.Zero
		var orderItems []models.OrderItem
		for _, item := range items {
			if item.Product.ID == 0 {
				// Dangling line; nothing to snapshot.
				continue
			}
			productID := item.ProductID
			orderItem := models.OrderItem{
				ProductID:    &productID,
				ProductName:  item.Product.Name,
				ProductPrice: item.Product.Price,
				Quantity:     item.Quantity,
			}
			total = total.Add(orderItem.ItemTotal())
			orderItems = append(orderItems, orderItem)
		}
		if len(orderItems) == 0 {
			return models.ErrEmptyCart
		}

		order = models.Order{
			Reference:   generateOrderRef(),
			UserID:      userID,
			Status:      models.OrderStatusPending,
			TotalAmount: total.Round(2),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := tx.CreateInBatches(&orderItems, len(orderItems)).Error; err != nil {
			return err
		}
		order.Items = orderItems

		if err := tx.Where("cart_id = ?", cart.ID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /api/orders/
func CreateOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		order, err := CreateFromCart(db, user.ID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNoCart):
				c.JSON(http.StatusBadRequest, gin.H{"detail": "User does not have a cart."})
			case errors.Is(err, models.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Your cart is empty. Add items before creating an order."})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create order"})
			}
			return
		}

		c.JSON(http.StatusCreated, order)
	}
}

// GET /api/orders/
func ListOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var orders []models.Order
		if err := db.Preload("Items").
			Where("user_id = ?", user.ID).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/orders/:id/
func GetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		id, ok := parseID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
			return
		}
		var order models.Order
		if err := db.Preload("Items").
			Where("user_id = ?", user.ID).
			First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PATCH /api/orders/:id/status/ (staff only; routed behind the staff gate)
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid input: " + err.Error()})
			return
		}
		status, ok := models.ParseOrderStatus(input.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"status": "Invalid order status."})
			return
		}

		id, ok := parseID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
			return
		}
		var order models.Order
		if err := db.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch order"})
			return
		}

		if err := db.Model(&order).Update("status", status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
