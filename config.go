package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// appConfig holds the non-secret runtime configuration. Credentials and
// quick actions live in the settings store instead.
type appConfig struct {
	BaseURL        string `yaml:"base_url" validate:"required,url"`
	Model          string `yaml:"model" validate:"required"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=0,lte=600"`
	Theme          string `yaml:"theme" validate:"oneof=auto light dark"`
	LogLevel       string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

func (c *appConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func defaultConfig() *appConfig {
	return &appConfig{
		BaseURL:        "https://api.sambanova.ai/v1",
		Model:          "Meta-Llama-3.3-70B-Instruct",
		TimeoutSeconds: 35,
		Theme:          "auto",
		LogLevel:       "info",
	}
}

// loadConfig reads config.yaml from the config dir, writing defaults on
// first run. The returned path is where the config lives (or should live).
func loadConfig() (*appConfig, string, error) {
	dir := resolveConfigDir()
	path := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := defaultConfig()
		// Defaults still work when the config dir is not writable.
		_ = saveConfig(cfg, path)
		return cfg, path, nil
	}
	if err != nil {
		return nil, path, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func validateConfig(cfg *appConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("config field %s is invalid (%s rule)", first.Field(), first.Tag())
		}
		return err
	}
	return nil
}

func saveConfig(cfg *appConfig, path string) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func resolveConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "redline")
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
