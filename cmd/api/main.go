package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"resortbooking/internal/config"
	"resortbooking/internal/database"
	"resortbooking/internal/events"
	"resortbooking/internal/middleware"
	"resortbooking/internal/modules/admin"
	"resortbooking/internal/modules/auth"
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/modules/cart"
	"resortbooking/internal/modules/catalog"
	"resortbooking/internal/modules/partner"
	"resortbooking/internal/modules/payment"
	jwtsvc "resortbooking/internal/pkg/jwt"
	"resortbooking/internal/pkg/logger"
	"resortbooking/internal/pkg/mailer"
	"resortbooking/internal/pkg/redisclient"
	"resortbooking/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger.Init(cfg.AppEnv)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Log.WithError(err).Fatal("database connection failed")
	}
	if err := repository.AutoMigrate(db); err != nil {
		logger.Log.WithError(err).Fatal("migration failed")
	}

	redisClient, err := redisclient.Get(context.Background(), cfg.RedisURL)
	if err != nil {
		logger.Log.WithError(err).Warn("redis unavailable, cache and rate limits degrade to in-process")
		redisClient = nil
	}
	defer redisclient.Close()

	accountRepo := repository.NewAccountRepository(db)
	resortRepo := repository.NewResortRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	slotRepo := repository.NewTimeSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	withdrawRepo := repository.NewWithdrawRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	publisher := events.NewPublisher(cfg.RabbitMQURL)
	cache := catalog.NewRedisCache(redisClient)

	ledger := availability.NewService(db, slotRepo)

	authService := auth.NewService(accountRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(resortRepo, roomRepo, ledger, cache)
	catalogHandler := catalog.NewHandler(catalogService)

	cartService := cart.NewService(db, bookingRepo, roomRepo, ledger)
	cartHandler := cart.NewHandler(cartService)

	paymentService := payment.NewService(
		db, bookingRepo, roomRepo, invoiceRepo,
		ledger, accountRepo, accountRepo,
		mail, publisher,
	)
	gateway := payment.NewZaloPayClient(
		cfg.ZaloPayAppID, cfg.ZaloPayKey1, cfg.ZaloPayKey2,
		cfg.ZaloPayEndpoint, cfg.ZaloPayCallbackURL,
	)
	paymentHandler := payment.NewHandler(paymentService, gateway)

	partnerService := partner.NewService(db, accountRepo, resortRepo, roomRepo, slotRepo, invoiceRepo, withdrawRepo, cache)
	partnerHandler := partner.NewHandler(partnerService)

	adminService := admin.NewService(db, accountRepo, withdrawRepo)
	adminHandler := admin.NewHandler(adminService)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.Default())
	r.Use(middleware.RateLimit("100-M", redisClient))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j, authService))
		{
			authHandler.RegisterProtectedRoutes(protected)

			customer := protected.Group("/")
			customer.Use(middleware.CustomerOnly())
			{
				cartHandler.RegisterRoutes(customer)
				paymentHandler.RegisterProtectedRoutes(customer)
			}

			partnerGroup := protected.Group("/")
			partnerGroup.Use(middleware.PartnerOnly())
			{
				partnerHandler.RegisterRoutes(partnerGroup)
			}

			adminGroup := protected.Group("/")
			adminGroup.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterRoutes(adminGroup)
			}
		}
	}

	logger.Log.WithField("port", cfg.Port).Info("starting api server")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.WithError(err).Fatal("server stopped")
	}
}
