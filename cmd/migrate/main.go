package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"paperplane/database/migrations"
	"paperplane/internal/config"
	"paperplane/internal/database"
	"paperplane/internal/logger"
)

func main() {
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer l.Sync()

	ctx := context.Background()
	client, err := database.Open(ctx, cfg.MongoDB, l)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(ctx, client, l)

	dir := database.Up
	if *down {
		dir = database.Down
	}
	if err := database.RunMigrations(client, cfg.MongoDB.Database, migrations.FS, dir, l); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
}
