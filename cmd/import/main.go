package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"consignparts/internal/config"
	"consignparts/internal/db"
	"consignparts/internal/importer"
	"consignparts/internal/model"
	"consignparts/internal/repository"
	"consignparts/internal/service"
)

func main() {
	mode := flag.String("mode", "parts", "what to import: parts, users, or invoice-info")
	file := flag.String("file", "", "path to the CSV file")
	flag.Parse()

	if *file == "" {
		log.Fatal("missing -file: path to the CSV file to import")
	}
	if *mode != "parts" && *mode != "users" && *mode != "invoice-info" {
		log.Fatalf("unknown -mode %q: expected parts, users, or invoice-info", *mode)
	}

	log.Println("Starting import...")

	// Load configuration
	cfg := config.Load()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}, &model.Part{}, &model.InvoiceInfo{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	userRepo := repository.NewUserRepository(gormDB)
	partRepo := repository.NewPartRepository(gormDB)
	billingRepo := repository.NewInvoiceInfoRepository(gormDB)
	importService := service.NewImportService(importer.New(logger), partRepo, userRepo, billingRepo, logger)

	ctx := context.Background()

	if *mode == "invoice-info" {
		info, err := importService.ImportInvoiceInfo(ctx, f)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Import completed: billing entity set to %s", info.Company)
		return
	}

	var res *service.ImportResult
	switch *mode {
	case "parts":
		res, err = importService.ImportParts(ctx, f)
	case "users":
		res, err = importService.ImportUsers(ctx, f)
	}
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import completed: %d imported, %d skipped", res.Imported, res.Skipped)
}
