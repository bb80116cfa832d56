package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/devneill/dinnernotonyourown/config"
	"github.com/devneill/dinnernotonyourown/controllers"
	"github.com/devneill/dinnernotonyourown/middleware"
	"github.com/devneill/dinnernotonyourown/services"
	"github.com/devneill/dinnernotonyourown/utils"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/health", controllers.HealthCheck)

	// Wiring service: cache catalog 24h, tối đa 128 key (lat,lng,radius)
	places := services.NewPlacesClient(config.PlacesAPIKey)
	catalog := services.NewCatalogService(config.DB, places, utils.NewTTLCache(128, 24*time.Hour))
	members := services.NewMembershipService(config.DB)
	dinner := services.NewDinnerService(catalog, members)

	restCtrl := controllers.NewRestaurantController(dinner)
	photoCtrl := controllers.NewPhotoController(places)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthJWT())
		{
			protected.GET("/me", controllers.Me)
		}

		restaurants := api.Group("/restaurants")
		restaurants.Use(middleware.AuthJWT())
		{
			restaurants.GET("", restCtrl.List)
			restaurants.POST("/:id/join", middleware.RateLimitJoin(), restCtrl.Join)
			restaurants.DELETE("/leave", restCtrl.Leave)
			restaurants.GET("/me/group", restCtrl.MyGroup)
		}

		// ảnh đi qua proxy, không cần auth - reference đã là opaque
		api.GET("/photos/:ref", photoCtrl.Proxy)
	}
}
