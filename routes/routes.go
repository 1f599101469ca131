package routes

import (
	"github.com/Appyouz/ecommerce-backend/cache"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up all route groups
// under /api.
func SetupRoutes(r *gin.Engine, db *gorm.DB, pc *cache.ProductCache) {
	api := r.Group("/api")

	SetupAuthRoutes(api, db)
	SetupCatalogRoutes(api, db, pc)
	SetupCartRoutes(api, db)
	SetupOrderRoutes(api, db)
}
