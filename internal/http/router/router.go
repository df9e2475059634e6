package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/lostfound-backend/internal/config"
	"github.com/ignatzorin/lostfound-backend/internal/http/handlers"
	"github.com/ignatzorin/lostfound-backend/internal/http/middleware"
	"github.com/ignatzorin/lostfound-backend/internal/service"
)

// SetupRouter собирает полную таблицу маршрутов приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	itemHandler *handlers.ItemHandler,
	dashboardHandler *handlers.DashboardHandler,
	adminHandler *handlers.AdminHandler,
	notificationHandler *handlers.NotificationHandler,
	recognitionHandler *handlers.RecognitionHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		auth.POST("/register", authHandler.Register)
		// Старое имя маршрута, которое всё ещё использует фронтенд.
		auth.POST("/signup", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/me", authHandler.Me)
		protectedAuth.PUT("/profile", authHandler.UpdateProfile)
	}

	items := api.Group("/items")
	{
		// Поиск и просмотр доступны без авторизации.
		items.GET("/search", itemHandler.Search)
		items.GET("/:id", middleware.UUIDValidator("id"), itemHandler.GetByID)

		protected := items.Group("")
		protected.Use(middleware.AuthMiddleware(tokenManager))
		{
			protected.POST("", itemHandler.Create)
			protected.POST("/multi", itemHandler.CreateMulti)
			protected.POST("/report-lost", itemHandler.ReportLost)
			protected.POST("/report-found", itemHandler.ReportFound)
			protected.PATCH("/:id/status", middleware.UUIDValidator("id"), itemHandler.UpdateStatus)
		}
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/summary", dashboardHandler.Summary)
		dashboard.GET("/recent", dashboardHandler.Recent)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager))
	{
		// Сводка по своим заявкам доступна любому авторизованному.
		admin.GET("/user-dashboard", adminHandler.UserDashboard)

		adminOnly := admin.Group("")
		adminOnly.Use(middleware.AdminOnly())
		{
			adminOnly.GET("/dashboard", adminHandler.Dashboard)
			adminOnly.GET("/reports", adminHandler.Reports)
		}
	}

	notifications := api.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(tokenManager))
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
		notifications.PUT("/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		notifications.DELETE("/:id", middleware.UUIDValidator("id"), notificationHandler.Delete)
	}

	// Распознавание открыто: фронтенд вызывает его ещё до регистрации.
	api.POST("/image-recognition", recognitionHandler.Recognize)

	api.GET("/ws", wsHandler.Handle)

	return r
}
