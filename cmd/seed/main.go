package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sickfits/backend/internal/infrastructure/config"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"github.com/sickfits/backend/internal/infrastructure/persistence"
	"github.com/sickfits/backend/internal/infrastructure/seed"
	"go.uber.org/zap"
)

func main() {
	var (
		users        int
		itemsPerUser int
		fakerSeed    uint64
		logLevel     string
	)

	flag.IntVar(&users, "users", 5, "Number of shoppers to create besides the admin")
	flag.IntVar(&itemsPerUser, "items", 4, "Items listed by each shopper")
	flag.Uint64Var(&fakerSeed, "seed", 0, "Faker seed; 0 picks a random one")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.App.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if db.Driver() == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	seeder := seed.NewSeeder(seed.NewGenerator(fakerSeed), seed.Repositories{
		Users: persistence.NewGormUserRepository(db.DB),
		Items: persistence.NewGormItemRepository(db.DB),
	}, log)

	res, err := seeder.Run(context.Background(), users, itemsPerUser)
	if err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}

	log.Info("Database seeded",
		zap.Int("users", res.Users),
		zap.Int("items", res.Items),
		zap.String("admin_email", res.Admin.Email),
		zap.String("password", seed.DefaultPassword),
	)
}
