package domain

import (
	"fmt"
	"path/filepath"
)

// ValidLogLevels enumerates the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds settings loaded from .flooring.yaml. Relative paths are
// resolved against the directory the file lives in.
type Config struct {
	OrdersDir    string `yaml:"orders_dir"    json:"orders_dir"`
	ExportFile   string `yaml:"export_file"   json:"export_file"`
	TaxesFile    string `yaml:"taxes_file"    json:"taxes_file"`
	ProductsFile string `yaml:"products_file" json:"products_file"`
	LogLevel     string `yaml:"log_level"     json:"log_level"`
}

// DefaultConfig mirrors the original on-disk layout.
func DefaultConfig() Config {
	return Config{
		OrdersDir:    "Orders",
		ExportFile:   filepath.Join("Backup", "DataExport.txt"),
		TaxesFile:    filepath.Join("Data", "Taxes.txt"),
		ProductsFile: filepath.Join("Data", "Products.txt"),
		LogLevel:     "info",
	}
}

// WithDefaults fills every empty field from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.OrdersDir == "" {
		c.OrdersDir = d.OrdersDir
	}
	if c.ExportFile == "" {
		c.ExportFile = d.ExportFile
	}
	if c.TaxesFile == "" {
		c.TaxesFile = d.TaxesFile
	}
	if c.ProductsFile == "" {
		c.ProductsFile = d.ProductsFile
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	return c
}

// Resolve makes every relative path absolute against base.
func (c Config) Resolve(base string) Config {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.OrdersDir = abs(c.OrdersDir)
	c.ExportFile = abs(c.ExportFile)
	c.TaxesFile = abs(c.TaxesFile)
	c.ProductsFile = abs(c.ProductsFile)
	return c
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	paths := []struct{ key, value string }{
		{"orders_dir", c.OrdersDir},
		{"export_file", c.ExportFile},
		{"taxes_file", c.TaxesFile},
		{"products_file", c.ProductsFile},
	}
	for _, p := range paths {
		if p.value == "" {
			return fmt.Errorf("%s must not be empty", p.key)
		}
	}

	if c.LogLevel != "" {
		valid := false
		for _, l := range ValidLogLevels {
			if c.LogLevel == l {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel)
		}
	}
	return nil
}
