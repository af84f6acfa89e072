// Package app wires configuration into the full service graph shared by the
// HTTP server and the command line tools.
package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"paperplane/internal/adapter"
	"paperplane/internal/adapter/llm"
	"paperplane/internal/adapter/storage"
	"paperplane/internal/cache"
	"paperplane/internal/config"
	"paperplane/internal/database"
	"paperplane/internal/domain"
	"paperplane/internal/extraction"
	"paperplane/internal/handler"
	"paperplane/internal/middleware"
	"paperplane/internal/repository"
	"paperplane/internal/service"
)

// App owns every long-lived client. Close releases them in reverse order.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Mongo *mongo.Client
	Redis *redis.Client
	Cache domain.Cache
	Store domain.ObjectStore

	Questions  service.QuestionService
	Extraction service.ExtractionService
	Auth       service.AuthService

	closers []func(context.Context) error
}

// New connects to MongoDB, Redis and the object store and builds the services.
// A missing LLM configuration is tolerated: extraction requests then fail with
// CONFIGURATION_ERROR while storage endpoints keep working.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: log}
	if err := a.init(ctx); err != nil {
		a.Close(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg, log := a.Config, a.Logger

	var err error
	a.Mongo, err = database.Open(ctx, cfg.MongoDB, log)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func(ctx context.Context) error {
		database.Close(ctx, a.Mongo, log)
		return nil
	})

	a.Redis, err = cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func(context.Context) error { return a.Redis.Close() })
	a.Cache = adapter.NewRedisCacheAdapter(a.Redis)
	log.Info("Successfully connected to Redis")

	a.Store, err = storage.New(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	if closer, ok := a.Store.(io.Closer); ok {
		a.closers = append(a.closers, func(context.Context) error { return closer.Close() })
	}

	var completer domain.Completer
	model := cfg.LLM.Model
	if c, llmErr := llm.New(cfg.LLM, log); llmErr == nil {
		completer = c
		model = c.Model()
	} else if errors.Is(llmErr, domain.ErrConfiguration) {
		log.Warn("LLM not configured, extraction is disabled", zap.Error(llmErr))
	} else {
		return llmErr
	}
	pipeline := extraction.NewPipeline(completer, log,
		extraction.WithTemperature(cfg.LLM.Temperature),
		extraction.WithMaxTokens(cfg.LLM.MaxTokens),
	)

	repo := repository.NewQuestionMongoAdapter(
		a.Mongo.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection), log)
	images := service.NewImageService(a.Store, cfg.Storage, &http.Client{Timeout: cfg.ImageProxy.Timeout}, log)

	a.Questions = service.NewQuestionService(repo, images, a.Cache, cfg, log)
	a.Extraction = service.NewExtractionService(pipeline, model, log)
	a.Auth, err = service.NewAuthService(cfg.Auth, service.NewSessionStore(a.Cache), a.Cache, log)
	if err != nil {
		return err
	}

	log.Info("Services initialized", zap.String("llm_model", model))
	return nil
}

// Routes returns the API handlers bound to this App's services.
func (a *App) Routes() *handler.Routes {
	return &handler.Routes{
		Auth:       handler.NewAuthHandler(a.Auth),
		Questions:  handler.NewQuestionHandler(a.Questions, a.Logger),
		Extraction: handler.NewExtractionHandler(a.Extraction, a.bodyLimit(), a.Logger),
		System: handler.NewSystemHandler(a.Config,
			func(ctx context.Context) error { return a.Mongo.Ping(ctx, readpref.Primary()) },
			a.Cache.Ping,
		),
		Tokens: a.Auth,
	}
}

func (a *App) bodyLimit() int64 {
	return int64(a.Config.Server.BodyLimitMB) * 1024 * 1024
}

// NewServer builds the fiber app with the middleware chain and API routes.
func (a *App) NewServer() *fiber.App {
	srv := fiber.New(fiber.Config{
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    int(a.bodyLimit()),
		ErrorHandler: middleware.ErrorHandler(),
	})

	srv.Use(recover.New())
	srv.Use(middleware.Tracing())
	srv.Use(middleware.RequestLogger(a.Logger))
	srv.Use(cors.New(cors.Config{
		AllowOrigins: a.Config.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	a.Routes().Register(srv)
	return srv
}

// Close releases clients; failures are logged.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Logger.Warn("Failed to close client", zap.Error(err))
		}
	}
	a.closers = nil
}
