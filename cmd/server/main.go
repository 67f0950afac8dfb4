package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"consignparts/docs"
	"consignparts/internal/auth"
	"consignparts/internal/cache"
	"consignparts/internal/config"
	"consignparts/internal/db"
	"consignparts/internal/handler"
	"consignparts/internal/importer"
	"consignparts/internal/mail"
	"consignparts/internal/model"
	"consignparts/internal/pdf"
	"consignparts/internal/repository"
	"consignparts/internal/router"
	"consignparts/internal/service"
)

// @title Consignment Parts API
// @version 1.0
// @description Consignment-shop management API: consigner accounts, part inventory, invoicing and CSV imports.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// @BasePath /api
func main() {
	cfg := config.Load()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Part{},
		&model.InvoiceInfo{},
	); err != nil {
		logger.Fatalw("failed to run migrations", "error", err)
	}

	redisCache := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	partRepo := repository.NewPartRepository(gormDB)
	billingRepo := repository.NewInvoiceInfoRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(redisCache)

	mailer := mail.NewSMTPMailer(
		cfg.SMTPHost, cfg.SMTPPort,
		cfg.SMTPUsername, cfg.SMTPPassword,
		cfg.MailSender, cfg.SalesNotifyAddr, cfg.BaseURL,
	)

	renderer := pdf.NewInvoiceRenderer()
	imp := importer.New(logger)

	authService := service.NewAuthService(userRepo, jwtService, tokenStore, mailer, cfg.BaseURL, logger)
	consignerService := service.NewConsignerService(userRepo, redisCache, mailer, logger)
	partService := service.NewPartService(partRepo, userRepo, redisCache, mailer, logger)
	invoiceService := service.NewInvoiceService(partRepo, userRepo, billingRepo, redisCache)
	importService := service.NewImportService(imp, partRepo, userRepo, billingRepo, logger)

	authHandler := handler.NewAuthHandler(authService)
	consignerHandler := handler.NewConsignerHandler(consignerService)
	partHandler := handler.NewPartHandler(partService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, renderer)
	importHandler := handler.NewImportHandler(importService)

	e := echo.New()
	router.Register(e, cfg, authHandler, consignerHandler, partHandler, invoiceHandler, importHandler)

	logger.Infow("starting server", "port", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}
