package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable checked after the custom path.
const EnvConfigPath = "STACK_CONFIG"

const configFile = "stack.yaml"

// LoadStack loads the stack configuration.
// Search order: customPath -> $STACK_CONFIG -> ~/.stack/configs/stack.yaml ->
// ./configs/stack.yaml -> embedded default -> hardcoded default.
//
// An explicit path (custom or from the environment) must exist and parse;
// the implicit locations are skipped when missing or broken.
func LoadStack(customPath string) (StackConfig, error) {
	if customPath == "" {
		customPath = GetEnv(EnvConfigPath, "")
	}

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return StackConfig{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := ParseStack(data)
		if err != nil {
			return StackConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseStack(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if cfg, err := ParseStack(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := ParseStack(defaultStackYAML)
	if err != nil {
		return DefaultStackConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseStack decodes YAML on top of the hardcoded defaults, so partial
// files only override the keys they set.
func ParseStack(data []byte) (StackConfig, error) {
	cfg := DefaultStackConfig()
	cfg.Palettes = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return StackConfig{}, fmt.Errorf("parse: %w", err)
	}
	if len(cfg.Palettes) == 0 {
		cfg.Palettes = DefaultStackConfig().Palettes
	}
	return cfg, nil
}

// MarshalStack encodes cfg as YAML.
func MarshalStack(cfg StackConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}

// UserDir returns ~/.stack, or "" if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".stack")
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
