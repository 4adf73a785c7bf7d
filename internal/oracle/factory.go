package oracle

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/comparia/comparia/internal/model"
)

// NewProvider creates an oracle provider from configuration. An empty
// provider name disables the oracle and returns nil without error.
func NewProvider(cfg model.OracleConfig, log zerolog.Logger) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg, log)

	case "ollama":
		return NewOllamaProvider(cfg, log)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown oracle provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}
