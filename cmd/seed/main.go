package main

import (
	"context"
	"flag"
	"fmt"

	"rekraft-backend/internal/config"
	"rekraft-backend/internal/database"
	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/logger"
	"rekraft-backend/internal/repository"
	"rekraft-backend/internal/service"

	"go.uber.org/zap"
)

var sampleCatalog = []domain.Product{
	{
		Name:        "MacBook Air M1",
		Price:       64999,
		Image:       "https://m.media-amazon.com/images/I/71TPda7cwUL._SL1500_.jpg",
		Condition:   "Excellent",
		Category:    "apple",
		Brand:       "Apple",
		Description: "Apple MacBook Air with M1 chip",
	},
	{
		Name:        "Dell XPS 13",
		Price:       57499,
		Image:       "https://m.media-amazon.com/images/I/71v2jVhGSZL._SL1500_.jpg",
		Condition:   "Like New",
		Category:    "dell",
		Brand:       "Dell",
		Description: "Dell XPS 13 laptop",
	},
	{
		Name:        "HP EliteBook 840 G6",
		Price:       41999,
		Image:       "https://m.media-amazon.com/images/I/61oIuBFLq-L._SL1500_.jpg",
		Condition:   "Very Good",
		Category:    "hp",
		Brand:       "HP",
		Description: "HP EliteBook 840 G6 business laptop",
	},
	{
		Name:        "MacBook Pro M2",
		Price:       89999,
		Image:       "https://m.media-amazon.com/images/I/81jB6e+kY2L._SL1500_.jpg",
		Condition:   "Excellent",
		Category:    "apple",
		Brand:       "Apple",
		Description: "MacBook Pro with M2 chip",
	},
	{
		Name:        "Lenovo ThinkPad X1 Carbon",
		Price:       68999,
		Image:       "https://m.media-amazon.com/images/I/71L2V2eRfLL._SL1500_.jpg",
		Condition:   "Like New",
		Category:    "lenovo",
		Brand:       "Lenovo",
		Description: "Lenovo ThinkPad X1 Carbon business laptop",
	},
	{
		Name:        "Acer Aspire 3",
		Price:       8000,
		Image:       "https://m.media-amazon.com/images/I/71WtK6pUZaL._SL1500_.jpg",
		Condition:   "Good",
		Category:    "acer",
		Brand:       "Acer",
		Description: "Acer Aspire 3 budget laptop for everyday use",
	},
	{
		Name:        "Dell Latitude E5450",
		Price:       1000,
		Image:       "https://m.media-amazon.com/images/I/71Y1H9p7v+L._SL1500_.jpg",
		Condition:   "Fair",
		Category:    "dell",
		Brand:       "Dell",
		Description: "Refurbished Dell Latitude E5450 basic laptop for essential computing",
	},
}

func main() {
	stock := flag.Int("stock", 5, "units of stock given to each seeded product")
	force := flag.Bool("force", false, "seed even when the catalog already has products")
	flag.Parse()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx := context.Background()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := database.GetMigrationStatus(db.DB); err != nil {
		log.Warn("Failed to report migration status", zap.Error(err))
	}

	catalog := service.NewCatalogService(repository.NewProductRepository(db, cfg.Database.QueryTimeout), log)

	existing, err := catalog.List(ctx, domain.ProductFilter{Limit: 1})
	if err != nil {
		log.Fatal("Failed to inspect catalog", zap.Error(err))
	}
	if len(existing) > 0 && !*force {
		log.Info("Catalog already populated, nothing to do (use -force to add anyway)")
		return
	}

	for i := range sampleCatalog {
		product := sampleCatalog[i]
		product.Quantity = *stock
		created, err := catalog.Create(ctx, &product)
		if err != nil {
			log.Fatal("Failed to seed product", zap.String("name", product.Name), zap.Error(err))
		}
		log.Info("Seeded product", zap.String("id", created.ID.String()), zap.String("name", created.Name))
	}

	log.Info("Catalog seeded", zap.Int("count", len(sampleCatalog)))
}
