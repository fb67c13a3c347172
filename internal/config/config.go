// Package config resolves settings from defaults, an optional config file, CATALOG_*
// environment variables and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"catalog-cli/internal/model"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	KeyBaseURL        = "base_url"
	KeyAddr           = "addr"
	KeyPageSize       = "page_size"
	KeyItemCount      = "item_count"
	KeySearchDebounce = "search_debounce"
	KeyStateBackend   = "state.backend"
	KeyStateDir       = "state.dir"
	KeyStateDSN       = "state.dsn"
	KeyStateKey       = "state.key"

	envPrefix = "CATALOG"
)

type Config struct {
	BaseURL        string        `json:"baseUrl"`
	Addr           string        `json:"addr"`
	PageSize       int           `json:"pageSize"`
	ItemCount      int           `json:"itemCount"`
	SearchDebounce time.Duration `json:"searchDebounce"`
	State          StateConfig   `json:"state"`

	// File is the config file that was read, if any.
	File string `json:"file,omitempty"`
}

type StateConfig struct {
	Backend string `json:"backend"`
	Dir     string `json:"dir"`
	DSN     string `json:"dsn,omitempty"`
	Key     string `json:"key"`
}

// Dir returns the directory holding config.yaml and default on-disk state.
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.catalog).
	if v := strings.TrimSpace(os.Getenv("CATALOG_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".catalog"), nil
}

// New returns a viper instance with defaults, env binding and the config file search path.
// Callers bind flags onto it before calling Load.
func New() (*viper.Viper, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(KeyBaseURL, "http://localhost:3001")
	v.SetDefault(KeyAddr, ":3001")
	v.SetDefault(KeyPageSize, model.DefaultPageSize)
	v.SetDefault(KeyItemCount, model.DefaultItemCount)
	v.SetDefault(KeySearchDebounce, 300*time.Millisecond)
	v.SetDefault(KeyStateBackend, "sqlite")
	v.SetDefault(KeyStateDir, filepath.Join(dir, "state"))
	v.SetDefault(KeyStateDSN, "")
	v.SetDefault(KeyStateKey, "default")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// Load reads the config file (a missing file is fine) and materializes a Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	stateDir, err := homedir.Expand(strings.TrimSpace(v.GetString(KeyStateDir)))
	if err != nil {
		return nil, err
	}
	dsn := strings.TrimSpace(v.GetString(KeyStateDSN))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	cfg := &Config{
		BaseURL:        strings.TrimRight(strings.TrimSpace(v.GetString(KeyBaseURL)), "/"),
		Addr:           strings.TrimSpace(v.GetString(KeyAddr)),
		PageSize:       v.GetInt(KeyPageSize),
		ItemCount:      v.GetInt(KeyItemCount),
		SearchDebounce: v.GetDuration(KeySearchDebounce),
		State: StateConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(KeyStateBackend))),
			Dir:     stateDir,
			DSN:     dsn,
			Key:     strings.TrimSpace(v.GetString(KeyStateKey)),
		},
		File: v.ConfigFileUsed(),
	}
	if cfg.PageSize <= 0 {
		return nil, errors.New("config: page_size must be positive")
	}
	if cfg.ItemCount < 0 {
		return nil, errors.New("config: item_count must not be negative")
	}
	return cfg, nil
}
