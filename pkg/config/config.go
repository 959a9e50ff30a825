// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for livematte.
type Config struct {
	// Input/Output
	InputDir  string `yaml:"input"`
	OutputDir string `yaml:"output"`

	// Pipeline
	Period      int     `yaml:"period"`
	ScaleFactor float64 `yaml:"scale_factor"`
	BlurRadius  float64 `yaml:"blur_radius"`

	// Chroma key demo segmenter
	KeyColor  string  `yaml:"key_color"`
	Tolerance float64 `yaml:"tolerance"`

	// Presentation
	ShowFPS bool `yaml:"show_fps"`

	// Logging
	LogLevel string `yaml:"log_level"`
	Quiet    bool   `yaml:"quiet"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		OutputDir: "./out",

		Period:      2,
		ScaleFactor: 1.0,
		BlurRadius:  8.0,

		KeyColor:  "#00ff00",
		Tolerance: 96.0,

		ShowFPS: false,

		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ParseHexColor parses "#rgb" or "#rrggbb" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}
