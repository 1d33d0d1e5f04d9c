package ai

import "fmt"

// Config selects and configures a provider
type Config struct {
	Provider  string // "openai", "local", or "" to disable
	APIKey    string
	CacheSize int
}

// NewProvider creates a provider from config. An empty provider name returns
// (nil, nil): the search core treats a nil provider as "AI disabled" and
// serves base results only.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, NewCache(cfg.CacheSize))
	case ProviderLocal:
		return NewLocalProvider(NewCache(cfg.CacheSize))
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNoProviderEnabled, cfg.Provider)
	}
}
