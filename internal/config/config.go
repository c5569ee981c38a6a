// Package config provides configuration loading and management for the
// heart area tools. It handles loading configuration from YAML files and
// provides default values for the batch, chart and server settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/heart-area-tools/internal/area"
	"github.com/ironsheep/heart-area-tools/internal/imaging"
	"github.com/ironsheep/heart-area-tools/internal/report"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Labels is the ordered label set. Output rows follow this order.
	Labels []string `yaml:"labels"`

	// Chart parameters
	Chart struct {
		// Title is drawn above the pie chart
		Title string `yaml:"title"`

		// SizeInches is the edge length of the square PNG chart
		SizeInches float64 `yaml:"sizeInches"`
	} `yaml:"chart"`

	// Batch input and output paths used by area-report
	Batch struct {
		Annotation     string `yaml:"annotation"`
		Image          string `yaml:"image"`
		AreasCSV       string `yaml:"areasCsv"`
		PercentagesCSV string `yaml:"percentagesCsv"`
		Chart          string `yaml:"chart"`
		HTML           string `yaml:"html"`
		Overlay        string `yaml:"overlay"`
	} `yaml:"batch"`

	// Overlay rendering parameters
	Overlay struct {
		// Opacity of the label tint, 0..1; 0 draws no tint
		Opacity float64 `yaml:"opacity"`

		// Outline draws each mask boundary fully opaque
		Outline bool `yaml:"outline"`

		// MaxSize bounds the longer edge of the overlay, 0 keeps full size
		MaxSize int `yaml:"maxSize"`
	} `yaml:"overlay"`

	// HTTP server parameters
	Server struct {
		Addr           string        `yaml:"addr"`
		MaxUploadBytes int64         `yaml:"maxUploadBytes"`
		RequestTimeout time.Duration `yaml:"requestTimeout"`

		// StaticDir, when set, serves index.html from disk instead of the
		// embedded landing page
		StaticDir    string   `yaml:"staticDir"`
		AllowOrigins []string `yaml:"allowOrigins"`
	} `yaml:"server"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Labels = append([]string(nil), area.DefaultLabels...)

	cfg.Chart.Title = report.DefaultTitle
	cfg.Chart.SizeInches = 6

	cfg.Batch.Annotation = "pt_3.json"
	cfg.Batch.Image = "pt_3.png"
	cfg.Batch.AreasCSV = "areas.csv"
	cfg.Batch.PercentagesCSV = "percentages.csv"
	cfg.Batch.Chart = "heart_area_breakdown.png"

	cfg.Overlay.Opacity = imaging.DefaultOpacity
	cfg.Overlay.Outline = true

	cfg.Server.Addr = ":5000"
	cfg.Server.MaxUploadBytes = 32 << 20
	cfg.Server.RequestTimeout = 30 * time.Second
	cfg.Server.AllowOrigins = []string{"*"}

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if len(c.Labels) == 0 {
		return fmt.Errorf("labels: at least one label is required")
	}
	seen := make(map[string]bool, len(c.Labels))
	for _, l := range c.Labels {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("labels: blank label")
		}
		if seen[l] {
			return fmt.Errorf("labels: duplicate label %q", l)
		}
		seen[l] = true
	}
	if c.Chart.SizeInches <= 0 {
		return fmt.Errorf("chart.sizeInches must be positive, got %v", c.Chart.SizeInches)
	}
	if !(c.Overlay.Opacity >= 0 && c.Overlay.Opacity <= 1) {
		return fmt.Errorf("overlay.opacity must be within 0..1, got %v", c.Overlay.Opacity)
	}
	if c.Overlay.MaxSize < 0 {
		return fmt.Errorf("overlay.maxSize must not be negative")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.maxUploadBytes must be positive")
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("server.requestTimeout must not be negative")
	}
	return nil
}

// ApplyEnv overrides settings from the environment. PORT sets the listen
// port the way hosting platforms expect.
func (c *Config) ApplyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
}

// ChartOptions converts the chart section for the report package.
func (c *Config) ChartOptions() report.ChartOptions {
	return report.ChartOptions{
		Title: c.Chart.Title,
		Size:  vg.Length(c.Chart.SizeInches) * vg.Inch,
	}
}

// OverlayOptions converts the overlay section for the imaging package.
func (c *Config) OverlayOptions() imaging.OverlayOptions {
	return imaging.OverlayOptions{
		Opacity: c.Overlay.Opacity,
		Outline: c.Overlay.Outline,
		MaxSize: c.Overlay.MaxSize,
	}
}

// Output returns the batch output paths.
func (c *Config) Output() report.Output {
	return report.Output{
		AreasCSV:       c.Batch.AreasCSV,
		PercentagesCSV: c.Batch.PercentagesCSV,
		Chart:          c.Batch.Chart,
		HTML:           c.Batch.HTML,
		Overlay:        c.Batch.Overlay,
	}
}
