package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdidvp/flooring/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".flooring.yaml"

const header = "# Flooring order ledger configuration\n# Relative paths resolve against this file's directory.\n\n"

// YAMLLoader implements domain.ConfigLoader by reading .flooring.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .flooring.yaml from dir. A missing file yields DefaultConfig.
// Empty keys fall back to defaults and every path comes back absolute.
func (l *YAMLLoader) Load(dir string) (domain.Config, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return domain.Config{}, fmt.Errorf("resolving %s: %w", dir, err)
	}

	data, err := os.ReadFile(filepath.Join(base, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig().Resolve(base), nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg.Resolve(base), nil
}

// Encode renders cfg as the commented YAML written by `flooring init`.
func Encode(cfg domain.Config) ([]byte, error) {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", FileName, err)
	}
	return append([]byte(header), body...), nil
}

// Write stores cfg as dir/.flooring.yaml. An existing file is only
// replaced when force is set.
func Write(dir string, cfg domain.Config, force bool) (string, error) {
	dest := filepath.Join(dir, FileName)
	if !force {
		if _, err := os.Stat(dest); err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", FileName)
		}
	}
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("invalid config: %w", err)
	}
	data, err := Encode(cfg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return dest, nil
}
