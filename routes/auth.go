package routes

import (
	"github.com/Appyouz/ecommerce-backend/auth"
	"github.com/Appyouz/ecommerce-backend/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register/", auth.Register(db))
		authGroup.POST("/login/", auth.Login(db))
		authGroup.GET("/me/", middleware.RequireAuth(db), auth.Me())
	}
}
