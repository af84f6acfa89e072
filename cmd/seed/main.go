// Command seed loads a JSON array of questions and stores them through the
// same path as POST /api/questions/upload-batch. Indexes are created first.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"paperplane/internal/app"
	"paperplane/internal/config"
	"paperplane/internal/domain"
	"paperplane/internal/logger"
)

const defaultSeedFile = "configs/seed_data/sample_questions.json"

func main() {
	seedFile := flag.String("file", defaultSeedFile, "path to a JSON array of questions")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	questions, err := loadQuestions(*seedFile)
	if err != nil {
		log.Fatal("Failed to load seed data", zap.String("path", *seedFile), zap.Error(err))
	}
	log.Info("Loaded seed data", zap.String("path", *seedFile), zap.Int("questions", len(questions)))

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close(context.Background())

	indexes, err := application.Questions.CreateIndexes(ctx)
	if err != nil {
		log.Fatal("Failed to create indexes", zap.Error(err))
	}
	log.Info("Indexes ready", zap.Strings("indexes", indexes))

	resp := application.Questions.UploadBatch(ctx, questions)
	for i, r := range resp.Results {
		if !r.Success {
			log.Error("Question not seeded",
				zap.Int("position", i+1),
				zap.String("id", questions[i].ID),
				zap.String("reason", r.Message))
		}
	}
	log.Info("Seeding completed", zap.Int("successful", resp.Successful), zap.Int("failed", resp.Failed))
	if resp.Failed > 0 {
		os.Exit(1)
	}
}

func loadQuestions(path string) ([]*domain.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var questions []*domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%s contains no questions", path)
	}
	return questions, nil
}
