package routes

import (
	cartControllers "github.com/Appyouz/ecommerce-backend/controllers/cart"
	"github.com/Appyouz/ecommerce-backend/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB) {
	cart := api.Group("/cart")
	cart.Use(middleware.RequireAuth(db))
	{
		cart.GET("/", cartControllers.GetCart(db))
		cart.POST("/items/", cartControllers.AddItem(db))
		cart.GET("/items/:id/", cartControllers.GetItem(db))
		cart.PATCH("/items/:id/", cartControllers.UpdateItem(db))
		cart.DELETE("/items/:id/", cartControllers.DeleteItem(db))
	}
}
