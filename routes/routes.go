package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/debasish218/pg-manager/auth"
	"github.com/debasish218/pg-manager/controllers"
	"github.com/debasish218/pg-manager/middleware"
)

type Controllers struct {
	Rooms    *controllers.RoomController
	Tenants  *controllers.TenantController
	Accounts *controllers.AccountController
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRouter wires the controllers under /api behind bearer-token auth.
func SetupRouter(ctrl Controllers, jwtManager *auth.JWTManager, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(corsOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", middleware.RequireAccount(jwtManager, ctrl.Accounts.AccountSvc))
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctrl.Rooms.GetRooms)
			rooms.POST("", ctrl.Rooms.CreateRoom)
			// static segments before /:id
			rooms.GET("/audit", ctrl.Rooms.AuditOccupancy)
			rooms.GET("/available/:sharingType", ctrl.Rooms.GetAvailableRooms)
			rooms.GET("/:id", ctrl.Rooms.GetRoom)
			rooms.PUT("/:id", ctrl.Rooms.UpdateRoom)
			rooms.DELETE("/:id", ctrl.Rooms.DeleteRoom)
		}

		tenants := api.Group("/tenants")
		{
			tenants.GET("", ctrl.Tenants.GetTenants)
			tenants.POST("", ctrl.Tenants.CreateTenant)
			tenants.GET("/overdue", ctrl.Tenants.GetOverdueTenants)
			tenants.GET("/:id", ctrl.Tenants.GetTenant)
			tenants.PUT("/:id", ctrl.Tenants.UpdateTenant)
			tenants.PUT("/:id/payment", ctrl.Tenants.RecordPayment)
			tenants.DELETE("/:id", ctrl.Tenants.DeleteTenant)
		}

		account := api.Group("/account")
		{
			account.GET("", ctrl.Accounts.GetAccount)
			account.PUT("", ctrl.Accounts.UpdateProfile)
			account.DELETE("", ctrl.Accounts.DeleteAccount)
		}
	}

	return r
}
