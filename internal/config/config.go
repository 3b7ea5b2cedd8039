package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName        = "vacancyctl"
	ConfigFileName = "config.json"
	TokenFileName  = "token"
)

// Config contains connection and display settings.
type Config struct {
	APIURL         string   `json:"api_url"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	Proxy          string   `json:"proxy,omitempty"`
	Locale         string   `json:"locale"`
	SearchFields   []string `json:"search_fields"`
}

func DefaultConfig() Config {
	return Config{
		APIURL:         envString("VACANCYCTL_API_URL", "http://localhost:8000"),
		TimeoutSeconds: envInt("VACANCYCTL_TIMEOUT", 30),
		Proxy:          envString("VACANCYCTL_PROXY", ""),
		Locale:         envString("VACANCYCTL_LOCALE", "ru"),
		SearchFields:   []string{"title", "company_name"},
	}
}

// Timeout is the per-request HTTP timeout. Zero disables it.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func ConfigDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("VACANCYCTL_CONFIG_DIR")); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func TokenPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TokenFileName), nil
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFile(path)
}

// LoadFile reads a JSON5 config file over the defaults. A missing or empty
// file yields the defaults. Environment variables win over the file.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	if len(cfg.SearchFields) == 0 {
		cfg.SearchFields = DefaultConfig().SearchFields
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.APIURL = envString("VACANCYCTL_API_URL", cfg.APIURL)
	cfg.TimeoutSeconds = envInt("VACANCYCTL_TIMEOUT", cfg.TimeoutSeconds)
	cfg.Proxy = envString("VACANCYCTL_PROXY", cfg.Proxy)
	cfg.Locale = envString("VACANCYCTL_LOCALE", cfg.Locale)
}

// Init writes a default config.json if it doesn't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
