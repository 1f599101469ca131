package routes

import (
	"net/http"

	orderControllers "github.com/Appyouz/ecommerce-backend/controllers/order"
	"github.com/Appyouz/ecommerce-backend/middleware"
	"github.com/Appyouz/ecommerce-backend/permissions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB) {
	orders := api.Group("/orders")
	orders.Use(middleware.RequireAuth(db))
	{
		orders.POST("/", orderControllers.CreateOrder(db))
		orders.GET("/", orderControllers.ListOrders(db))
		orders.GET("/:id/", orderControllers.GetOrder(db))
		orders.PATCH("/:id/status/", requireStaff(), orderControllers.UpdateOrderStatus(db))
	}
}

func requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if !permissions.IsStaff(c.Request.Method, user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Staff access required"})
			return
		}
		c.Next()
	}
}
