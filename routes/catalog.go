package routes

import (
	"github.com/Appyouz/ecommerce-backend/cache"
	productcontroller "github.com/Appyouz/ecommerce-backend/controllers/product"
	"github.com/Appyouz/ecommerce-backend/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupCatalogRoutes registers the category and product endpoints.
// Reads are open; writes resolve the user via OptionalAuth and are
// gated inside the handlers (seller role, ownership).
func SetupCatalogRoutes(api *gin.RouterGroup, db *gorm.DB, pc *cache.ProductCache) {
	categories := api.Group("/categories")
	categories.Use(middleware.OptionalAuth(db))
	{
		categories.GET("/", productcontroller.ListCategories(db))
		categories.POST("/", productcontroller.CreateCategory(db))
		categories.GET("/:id/", productcontroller.GetCategory(db))
		categories.PUT("/:id/", productcontroller.UpdateCategory(db))
		categories.DELETE("/:id/", productcontroller.DeleteCategory(db))
	}

	products := api.Group("/products")
	products.Use(middleware.OptionalAuth(db))
	{
		products.GET("/", productcontroller.ListProducts(db, pc))
		products.POST("/", productcontroller.CreateProduct(db, pc))
		products.GET("/:id/", productcontroller.GetProduct(db))
		products.PATCH("/:id/", productcontroller.UpdateProduct(db, pc))
		products.DELETE("/:id/", productcontroller.DeleteProduct(db, pc))
	}
}
