package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/autolavado-service/internal/api"
	"github.com/hypernova-labs/autolavado-service/internal/config"
	"github.com/hypernova-labs/autolavado-service/internal/culqi"
	"github.com/hypernova-labs/autolavado-service/internal/database"
	"github.com/hypernova-labs/autolavado-service/internal/email"
	"github.com/hypernova-labs/autolavado-service/internal/services"
	"github.com/hypernova-labs/autolavado-service/internal/workflows"
	"github.com/sirupsen/logrus"
)

func main() {
	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Configurar logging
	logger := setupLogger(cfg)
	logger.Info("Starting Autolavado Service...")

	// Configurar modo de Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Conectar a la base de datos
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, logger); err != nil {
			logger.Fatalf("Error running migrations: %v", err)
		}
	}

	// Conectar a Redis (cache de tokens y rate limiting)
	var (
		tokenCache services.TokenCache
		limiter    api.RateLimiter
	)
	redisClient, err := database.ConnectRedis(cfg)
	if err != nil {
		logger.Warnf("Error connecting to Redis, token cache and rate limiting disabled: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		tokenCache = redisClient
		limiter = redisClient
	}

	// Inicializar storage de fotos
	var photos services.PhotoStore
	var photoStorage *database.PhotoStorage
	if cfg.HasStorage() {
		photoStorage, err = database.NewPhotoStorage(context.Background(), cfg.Storage, logger)
		if err != nil {
			logger.Warnf("Error initializing photo storage: %v", err)
		} else {
			photos = photoStorage
			logger.Info("Photo storage initialized successfully")
		}
	} else {
		logger.Warn("Storage credentials not provided, carro photo upload will not be available")
	}

	// Inicializar servicio de Resend
	var notifier services.ReclamoNotifier
	if cfg.Email.ResendAPIKey != "" {
		notifier = email.NewResendService(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, logger)
		logger.Info("Resend service initialized successfully")
	} else {
		logger.Warn("Resend API key not provided, reclamo emails will not be sent")
	}

	// Inicializar cliente de Inngest
	var events services.EventPublisher
	inngestClient, err := workflows.NewInngestClient(cfg, logger)
	if err != nil {
		logger.Warnf("Inngest not available, domain events will not be published: %v", err)
	} else {
		events = inngestClient
	}

	// Repositorios
	userRepo := database.NewUserRepository(db, logger)
	tokenRepo := database.NewTokenRepository(db, logger)
	customerRepo := database.NewCustomerRepository(db, logger)
	cardRepo := database.NewCardRepository(db, logger)
	subscriptionRepo := database.NewSubscriptionRepository(db, logger)
	empresaRepo := database.NewEmpresaRepository(db, logger)
	carroRepo := database.NewCarroRepository(db, logger)
	reclamoRepo := database.NewReclamoRepository(db, logger)

	// Servicios
	gateway := culqi.NewClient(cfg.Culqi, logger)
	apiHandler := api.NewAPI(api.Services{
		Auth:          services.NewAuthService(userRepo, tokenRepo, tokenCache, cfg.Auth.TokenCacheTTL, logger),
		Customers:     services.NewCustomerService(gateway, customerRepo, events, logger),
		Cards:         services.NewCardService(gateway, cardRepo, events, logger),
		Subscriptions: services.NewSubscriptionService(gateway, customerRepo, subscriptionRepo, events, logger),
		Plans:         services.NewPlanService(gateway, logger),
		Empresas:      services.NewEmpresaService(empresaRepo, logger),
		Carros:        services.NewCarroService(carroRepo, empresaRepo, photos, logger),
		Reclamos:      services.NewReclamoService(reclamoRepo, userRepo, notifier, events, logger),
	}, limiter, cfg.RateLimit, logger)

	apiHandler.AddHealthCheck("database", db)
	if redisClient != nil {
		apiHandler.AddHealthCheck("redis", redisClient)
	}
	if photoStorage != nil {
		apiHandler.AddHealthCheck("storage", photoStorage)
	}

	// Configurar router
	router, err := api.NewRouter(apiHandler, cfg.IsDevelopment())
	if err != nil {
		logger.Fatalf("Error configuring router: %v", err)
	}

	// Crear servidor HTTP
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Culqi.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Canal para señales de terminación
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Iniciar servidor en goroutine
	go func() {
		logger.Infof("Server starting on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	// Esperar señal de terminación
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	db.LogStats(logger)
	if redisClient != nil {
		redisClient.LogStats(ctx, logger)
	}
	logger.Info("Server exited")
}

// setupLogger configura el logger según la configuración
func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
