package llm

import (
	"fmt"

	"go.uber.org/zap"

	"paperplane/internal/config"
	"paperplane/internal/domain"
)

// New returns the completer selected by cfg.Provider.
func New(cfg config.LLMConfig, logger *zap.Logger) (domain.Completer, error) {
	var (
		c   domain.Completer
		err error
	)
	switch cfg.Provider {
	case "", "openai":
		c, err = NewOpenAICompleter(cfg, logger)
	case "ollama":
		c, err = NewOllamaCompleter(cfg, logger)
	default:
		return nil, domain.NewConfigurationError(fmt.Sprintf("unknown llm provider %q", cfg.Provider))
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
