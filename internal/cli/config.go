package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration
type Config struct {
	DefaultEnv   string               `yaml:"default_env"`
	Environments map[string]EnvConfig `yaml:"environments"`
}

// EnvConfig represents configuration for a specific environment
type EnvConfig struct {
	BaseURL string `yaml:"base_url"`
}

const (
	configPathEnv = "FILTERCTL_CONFIG"
	baseURLEnv    = "FILTERCTL_BASE_URL"
)

// GetConfigPath returns the path to the config file.
// FILTERCTL_CONFIG overrides the default ~/.filterctl/config.yaml.
func GetConfigPath() (string, error) {
	if p := os.Getenv(configPathEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".filterctl", "config.yaml"), nil
}

// LoadConfig loads the configuration from file
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{
				DefaultEnv:   "dev",
				Environments: make(map[string]EnvConfig),
			}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Environments == nil {
		cfg.Environments = make(map[string]EnvConfig)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to file
func SaveConfig(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveBaseURL returns the server URL to use.
// Priority: command flag > FILTERCTL_BASE_URL > config file entry for envName
// (or the configured default environment when envName is empty).
func ResolveBaseURL(envName, baseURLFlag string) (string, error) {
	if baseURLFlag != "" {
		return baseURLFlag, nil
	}
	if u := os.Getenv(baseURLEnv); u != "" {
		return u, nil
	}

	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	if envName == "" {
		envName = cfg.DefaultEnv
	}
	envCfg, ok := cfg.Environments[envName]
	if !ok {
		return "", fmt.Errorf("environment '%s' not found in config", envName)
	}
	if envCfg.BaseURL == "" {
		return "", fmt.Errorf("base_url must be configured for environment '%s'", envName)
	}
	return envCfg.BaseURL, nil
}

// InitConfig creates a default config file
func InitConfig() error {
	cfg := &Config{
		DefaultEnv: "dev",
		Environments: map[string]EnvConfig{
			"dev":  {BaseURL: "http://localhost:8080"},
			"prod": {BaseURL: "https://filter.example.com"},
		},
	}

	return SaveConfig(cfg)
}
