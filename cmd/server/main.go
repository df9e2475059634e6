package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/lostfound-backend/internal/config"
	"github.com/ignatzorin/lostfound-backend/internal/db"
	httpHandlers "github.com/ignatzorin/lostfound-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/lostfound-backend/internal/http/router"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/recognition"
	"github.com/ignatzorin/lostfound-backend/internal/repository"
	"github.com/ignatzorin/lostfound-backend/internal/service"
	"github.com/ignatzorin/lostfound-backend/internal/storage"
	"github.com/ignatzorin/lostfound-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Объектное хранилище опционально: без него заявки
	// создаются без изображений.
	var objectStorage service.ObjectStorage
	if cfg.MinioEndpoint != "" {
		minioStorage, err := storage.NewMinioStorage(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicEndpoint,
		})
		if err != nil {
			log.Fatalf("main: не удалось подготовить объектное хранилище: %v", err)
		}
		objectStorage = minioStorage
	} else {
		log.Printf("main: MINIO_ENDPOINT не задан, загрузка изображений отключена")
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	itemRepo := repository.NewItemRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Сервисы.
	notificationService := service.NewNotificationService(notificationRepo)
	authService := service.NewAuthService(userRepo, tokenManager, notificationService)
	itemService := service.NewItemService(itemRepo, objectStorage, service.NewItemStatusNotifier(notificationService))
	searchService := service.NewSearchService(itemRepo)
	dashboardService := service.NewDashboardService(itemRepo, userRepo)
	adminService := service.NewAdminService(itemRepo)
	recognizer := recognition.NewMockRecognizer()

	// Вебсокеты.
	hub := ws.NewHub()
	notificationService.SetPusher(hub)
	go hub.Run(ctx)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	itemHandler := httpHandlers.NewItemHandler(itemService, searchService)
	dashboardHandler := httpHandlers.NewDashboardHandler(dashboardService)
	adminHandler := httpHandlers.NewAdminHandler(dashboardService, adminService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	recognitionHandler := httpHandlers.NewRecognitionHandler(recognizer)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		itemHandler,
		dashboardHandler,
		adminHandler,
		notificationHandler,
		recognitionHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
