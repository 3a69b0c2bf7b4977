// Package config resolves termchat's startup configuration: the API
// credential, the model version mapping, and the per-turn generation
// settings. All state lives under ~/.termchat.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/termchat/termchat/llm"
)

const (
	// DefaultModelKey selects the model when -v is not given.
	DefaultModelKey = "4"

	// DefaultMaxTokens caps generated tokens per request.
	DefaultMaxTokens = 1000

	credentialFile = "api_key"
	historyFile    = "history"
)

// modelVersions maps short CLI keys to provider model identifiers.
var modelVersions = map[string]string{
	"3":  "gpt-3.5-turbo",
	"4":  "gpt-4",
	"4o": "gpt-4o",
}

// Config is the resolved startup configuration. Immutable for the process
// lifetime.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Critique    bool
	HistoryPath string
}

// Load resolves the startup configuration. versionKey selects the model;
// critique=false suppresses the reflect/extend pass. It fails before any
// network call is possible: unknown model keys and bad token budgets are
// Configuration errors, a missing or empty credential file is an
// Authentication error.
func Load(versionKey string, maxTokens int, critique bool) (*Config, error) {
	model, err := ResolveModel(versionKey)
	if err != nil {
		return nil, err
	}
	if maxTokens <= 0 {
		return nil, &llm.Error{
			Kind: llm.KindConfiguration,
			Op:   "config",
			Err:  fmt.Errorf("max_tokens must be positive, got %d", maxTokens),
		}
	}
	apiKey, err := loadAPIKey()
	if err != nil {
		return nil, err
	}
	return &Config{
		APIKey:      apiKey,
		Model:       model,
		MaxTokens:   maxTokens,
		Critique:    critique,
		HistoryPath: filepath.Join(dataDir(), historyFile),
	}, nil
}

// ResolveModel maps a short version key ("3", "4", "4o") to a provider
// model identifier.
func ResolveModel(key string) (string, error) {
	if model, ok := modelVersions[key]; ok {
		return model, nil
	}
	return "", &llm.Error{
		Kind: llm.KindConfiguration,
		Op:   "config",
		Err:  fmt.Errorf("unknown model version %q", key),
	}
}

// EnsureDataDir creates ~/.termchat so the prompt history file can be
// written there.
func EnsureDataDir() error {
	if err := os.MkdirAll(dataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// loadAPIKey reads the whole-file, trimmed bearer credential from
// ~/.termchat/api_key.
func loadAPIKey() (string, error) {
	path := filepath.Join(dataDir(), credentialFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &llm.Error{
			Kind: llm.KindAuthentication,
			Op:   "config",
			Err:  fmt.Errorf("reading credential: %w", err),
		}
	}
	apiKey := strings.TrimSpace(string(data))
	if apiKey == "" {
		return "", &llm.Error{
			Kind: llm.KindAuthentication,
			Op:   "config",
			Err:  fmt.Errorf("credential file %s is empty", path),
		}
	}
	return apiKey, nil
}

// dataDir returns ~/.termchat, falling back to a relative directory when
// the home directory cannot be resolved.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".termchat"
	}
	return filepath.Join(home, ".termchat")
}
