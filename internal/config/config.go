// File: internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

const (
	DefaultPort                  = "8080"
	DefaultBackendTimeoutSeconds = 30
	DefaultBackendRateLimitRPS   = 5.0
	DefaultBackendRateLimitBurst = 3
	DefaultSessionStorePath      = "wizard_sessions.db"
	// DefaultSystemAPIKeyPlaceholder is used when no key is configured; main
	// logs a loud warning when it is still in effect.
	DefaultSystemAPIKeyPlaceholder = "SET_A_REAL_KEY_IN_CONFIG_OR_ENV_7a1c44b2e0"
)

// ServerConfig configures the wizard API server itself.
type ServerConfig struct {
	Port             string `json:"port"`
	APIKey           string `json:"apiKey"`
	SessionStorePath string `json:"sessionStorePath,omitempty"`
}

// BackendConfig configures the remote generation backend the wizard calls for
// field descriptors, query generation, and audience/cost computation.
type BackendConfig struct {
	BaseURL               string  `json:"baseUrl"`
	APIKey                string  `json:"apiKey,omitempty"`
	RequestTimeoutSeconds int     `json:"requestTimeoutSeconds"`
	RateLimitRPS          float64 `json:"rateLimitRps,omitempty"`
	RateLimitBurst        int     `json:"rateLimitBurst,omitempty"`

	// RequestTimeout is derived from RequestTimeoutSeconds at load time.
	RequestTimeout time.Duration `json:"-"`
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Level string `json:"level"`
}

// AppConfig is the full application configuration.
type AppConfig struct {
	Server  ServerConfig  `json:"server"`
	Backend BackendConfig `json:"backend"`
	Logging LoggingConfig `json:"logging"`

	loadedFromPath string
}

func (ac *AppConfig) GetLoadedFromPath() string { return ac.loadedFromPath }

// DefaultConfig returns the configuration used when config.json is missing or
// partially filled in.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:             DefaultPort,
			APIKey:           DefaultSystemAPIKeyPlaceholder,
			SessionStorePath: DefaultSessionStorePath,
		},
		Backend: BackendConfig{
			BaseURL:               "http://localhost:9000",
			RequestTimeoutSeconds: DefaultBackendTimeoutSeconds,
			RateLimitRPS:          DefaultBackendRateLimitRPS,
			RateLimitBurst:        DefaultBackendRateLimitBurst,
			RequestTimeout:        DefaultBackendTimeoutSeconds * time.Second,
		},
		Logging: LoggingConfig{Level: "INFO"},
	}
}

// Load reads the main configuration file. A missing file is not fatal: the
// defaults are returned (and written back so operators have a template), and
// the original read error is returned as a notice for main to log.
func Load(mainConfigPath string) (*AppConfig, error) {
	if mainConfigPath == "" {
		mainConfigPath = "config.json"
		log.Printf("Config: Main config path empty, using default: %s", mainConfigPath)
	}
	log.Printf("Config: Attempting to load main config from: %s", mainConfigPath)

	appConfig := DefaultConfig()
	var originalLoadError error

	data, err := os.ReadFile(mainConfigPath)
	if err != nil {
		originalLoadError = err
		if os.IsNotExist(err) {
			log.Printf("Config: Main config file '%s' not found. Using defaults and attempting to save.", mainConfigPath)
			appConfig.loadedFromPath = mainConfigPath
			if saveErr := Save(appConfig, mainConfigPath); saveErr != nil {
				log.Printf("Config: Failed to save default config file '%s': %v", mainConfigPath, saveErr)
			} else {
				log.Printf("Config: Saved default config to '%s'", mainConfigPath)
			}
		} else {
			log.Printf("Config: Error reading main config '%s': %v. Using defaults.", mainConfigPath, err)
		}
	} else {
		if errUnmarshal := json.Unmarshal(data, appConfig); errUnmarshal != nil {
			log.Printf("Config: Error unmarshalling main config '%s': %v. Using defaults for unparsed fields.", mainConfigPath, errUnmarshal)
			originalLoadError = errUnmarshal
		}
	}
	appConfig.loadedFromPath = mainConfigPath
	applyDefaults(appConfig)
	return appConfig, originalLoadError
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.SessionStorePath == "" {
		cfg.Server.SessionStorePath = DefaultSessionStorePath
	}
	if cfg.Backend.RequestTimeoutSeconds <= 0 {
		log.Printf("Config: backend requestTimeoutSeconds is %d (invalid or not set), defaulting to %d.",
			cfg.Backend.RequestTimeoutSeconds, DefaultBackendTimeoutSeconds)
		cfg.Backend.RequestTimeoutSeconds = DefaultBackendTimeoutSeconds
	}
	cfg.Backend.RequestTimeout = time.Duration(cfg.Backend.RequestTimeoutSeconds) * time.Second
	if cfg.Backend.RateLimitRPS <= 0 {
		cfg.Backend.RateLimitRPS = DefaultBackendRateLimitRPS
	}
	if cfg.Backend.RateLimitBurst <= 0 {
		cfg.Backend.RateLimitBurst = DefaultBackendRateLimitBurst
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
}

// Save writes the configuration back to disk.
func Save(cfg *AppConfig, filePath string) error {
	if filePath == "" {
		return fmt.Errorf("cannot save config, file path is empty")
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal app config to JSON: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write app config to file '%s': %w", filePath, err)
	}
	log.Printf("Config: Successfully saved main configuration to '%s'", filePath)
	return nil
}
