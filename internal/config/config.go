package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Defaults applied when an asset config omits the optional fields.
const (
	DefaultWidth              = 256
	DefaultHeight             = 256
	DefaultPosterizationLevel = 32
)

// Config represents the global configuration file structure
type Config struct {
	ArtPath string `json:"art_path"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Load loads configuration from config.json file
func Load() (*Config, error) {
	configPath := "config.json"

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Return default config if file doesn't exist
		return &Config{Width: DefaultWidth, Height: DefaultHeight}, nil
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}
	if config.Width <= 0 {
		config.Width = DefaultWidth
	}
	if config.Height <= 0 {
		config.Height = DefaultHeight
	}

	return &config, nil
}

// Asset is the per-asset encode configuration, normally stored as a JSON
// sidecar next to the source image. Optional fields are pointers so that an
// omitted field can be told apart from an explicit zero.
type Asset struct {
	Transparency        bool  `json:"transparency"`
	Width               int   `json:"width"`
	Height              int   `json:"height"`
	FlagByte1           *int  `json:"flagByte1,omitempty"`
	FlagByte2           *int  `json:"flagByte2,omitempty"`
	EnableDithering     *bool `json:"enableDithering,omitempty"`
	EnablePosterization *bool `json:"enablePosterization,omitempty"`
	PosterizationLevel  *int  `json:"posterizationLevel,omitempty"`
}

// LoadAsset reads an asset sidecar config from path.
func LoadAsset(path string) (*Asset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var asset Asset
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&asset); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &asset, nil
}

// DefaultAsset returns an asset config carrying only the global defaults.
func DefaultAsset(cfg *Config) *Asset {
	a := &Asset{Width: DefaultWidth, Height: DefaultHeight}
	if cfg != nil {
		if cfg.Width > 0 {
			a.Width = cfg.Width
		}
		if cfg.Height > 0 {
			a.Height = cfg.Height
		}
	}
	return a
}

// Dithering reports the dithering toggle with its default (enabled).
func (a *Asset) Dithering() bool {
	if a.EnableDithering == nil {
		return true
	}
	return *a.EnableDithering
}

// Posterization reports the posterization toggle with its default (disabled).
func (a *Asset) Posterization() bool {
	if a.EnablePosterization == nil {
		return false
	}
	return *a.EnablePosterization
}

// PosterizeLevel reports the posterization level with its default.
func (a *Asset) PosterizeLevel() int {
	if a.PosterizationLevel == nil {
		return DefaultPosterizationLevel
	}
	return *a.PosterizationLevel
}

// Flag1 returns the classification category override, or -1 when unset.
func (a *Asset) Flag1() int {
	if a.FlagByte1 == nil {
		return -1
	}
	return *a.FlagByte1
}

// Flag2 returns the classification type override, or -1 when unset.
func (a *Asset) Flag2() int {
	if a.FlagByte2 == nil {
		return -1
	}
	return *a.FlagByte2
}
