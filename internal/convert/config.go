package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultPalette = "palettes/wool_concrete.json"
	defaultOut     = "data/out/scan.litematic"
)

// Config is one conversion run. Flag values overlay a loaded config, so
// validation happens after the overlay, not inside LoadConfig.
type Config struct {
	Mesh         string `yaml:"mesh"`
	Palette      string `yaml:"palette"`
	Height       int    `yaml:"height"`
	MinComponent int    `yaml:"min_component"`
	Out          string `yaml:"out"`

	Name        string `yaml:"name,omitempty"`
	Author      string `yaml:"author,omitempty"`
	Description string `yaml:"description,omitempty"`

	IndexDB string `yaml:"index_db,omitempty"`
}

// LoadConfig reads a run config. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

func Defaults() Config {
	return Config{
		Palette:      defaultPalette,
		Height:       64,
		MinComponent: 50,
		Out:          defaultOut,
	}
}

func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.Mesh = strings.TrimSpace(c.Mesh)
	c.Palette = strings.TrimSpace(c.Palette)
	c.Out = strings.TrimSpace(c.Out)
	c.Name = strings.TrimSpace(c.Name)
	c.IndexDB = strings.TrimSpace(c.IndexDB)
	if c.Palette == "" {
		c.Palette = defaultPalette
	}
	if c.Out == "" {
		c.Out = defaultOut
	}
	if c.Name == "" {
		base := filepath.Base(c.Out)
		c.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Mesh) == "" {
		return fmt.Errorf("mesh path must not be empty")
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be > 0")
	}
	if c.MinComponent < 1 {
		return fmt.Errorf("min_component must be >= 1")
	}
	if strings.TrimSpace(c.Palette) == "" {
		return fmt.Errorf("palette path must not be empty")
	}
	if strings.TrimSpace(c.Out) == "" {
		return fmt.Errorf("out path must not be empty")
	}
	return nil
}
