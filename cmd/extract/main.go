// Command extract runs the extraction pipeline over a markdown file and prints
// the questions as JSON. With -upload the extracted questions are also stored
// the same way POST /api/questions/upload-batch stores them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"paperplane/internal/adapter/llm"
	"paperplane/internal/app"
	"paperplane/internal/config"
	"paperplane/internal/domain"
	"paperplane/internal/extraction"
	"paperplane/internal/logger"
)

func main() {
	qtype := flag.String("type", string(extraction.SelectorAuto), "question type: single, multiple, integer, matrix, comprehension or auto")
	out := flag.String("out", "", "write JSON to this file instead of stdout")
	upload := flag.Bool("upload", false, "store the extracted questions in MongoDB after extraction")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: extract [flags] <file.md | ->\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	// Logs go to stdout; keep them quiet unless asked so the JSON stays clean.
	if os.Getenv("LOGGER_LEVEL") == "" {
		cfg.Logger.Level = "error"
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	selector, err := extraction.ParseSelector(*qtype)
	if err != nil {
		l.Fatal("Invalid -type", zap.Error(err))
	}
	markdown, err := readInput(flag.Arg(0))
	if err != nil {
		l.Fatal("Failed to read markdown", zap.Error(err))
	}

	completer, err := llm.New(cfg.LLM, l)
	if err != nil {
		l.Fatal("Failed to create LLM client", zap.Error(err))
	}
	pipeline := extraction.NewPipeline(completer, l,
		extraction.WithTemperature(cfg.LLM.Temperature),
		extraction.WithMaxTokens(cfg.LLM.MaxTokens),
	)

	questions, err := pipeline.Extract(ctx, markdown, selector)
	if err != nil {
		l.Fatal("Extraction failed", zap.Error(err))
	}
	if err := writeJSON(*out, questions); err != nil {
		l.Fatal("Failed to write output", zap.Error(err))
	}

	if *upload {
		if err := store(ctx, cfg, questions, l); err != nil {
			l.Fatal("Upload failed", zap.Error(err))
		}
	}
}

func readInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func writeJSON(path string, questions []domain.Question) error {
	w := io.Writer(os.Stdout)
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(questions)
}

func store(ctx context.Context, cfg *config.Config, questions []domain.Question, l *zap.Logger) error {
	application, err := app.New(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer application.Close(context.Background())

	batch := make([]*domain.Question, len(questions))
	for i := range questions {
		batch[i] = &questions[i]
	}
	resp := application.Questions.UploadBatch(ctx, batch)
	for i, r := range resp.Results {
		if !r.Success {
			fmt.Fprintf(os.Stderr, "question %d (%s): %s\n", i+1, questions[i].ID, r.Message)
		}
	}
	fmt.Fprintf(os.Stderr, "uploaded %d, failed %d\n", resp.Successful, resp.Failed)
	return nil
}
