package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Save current directory
	originalDir, _ := os.Getwd()

	tempDir := t.TempDir()

	// Change to temp directory
	os.Chdir(tempDir)
	defer os.Chdir(originalDir)

	// Create config.json in temp directory
	configContent := `{"art_path": "test_path", "width": 128, "height": 96}`
	err := os.WriteFile("config.json", []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config.json: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ArtPath != "test_path" {
		t.Errorf("Expected art_path to be 'test_path', got '%s'", cfg.ArtPath)
	}
	if cfg.Width != 128 || cfg.Height != 96 {
		t.Errorf("Expected 128x96, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestLoadConfigNoFile(t *testing.T) {
	originalDir, _ := os.Getwd()

	tempDir := t.TempDir()

	// Change to temp directory (no config.json)
	os.Chdir(tempDir)
	defer os.Chdir(originalDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ArtPath != "" {
		t.Errorf("Expected empty art_path for missing config, got '%s'", cfg.ArtPath)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("Expected default bounding box, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestLoadAsset(t *testing.T) {
	tempDir := t.TempDir()
	sidecar := filepath.Join(tempDir, "icon.png.json")
	content := `{"transparency": true, "width": 64, "height": 48, "flagByte1": 129, "enableDithering": false}`
	if err := os.WriteFile(sidecar, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write sidecar: %v", err)
	}

	a, err := LoadAsset(sidecar)
	if err != nil {
		t.Fatalf("LoadAsset failed: %v", err)
	}
	if !a.Transparency {
		t.Errorf("Expected transparency true")
	}
	if a.Width != 64 || a.Height != 48 {
		t.Errorf("Expected 64x48, got %dx%d", a.Width, a.Height)
	}
	if a.Flag1() != 129 {
		t.Errorf("Expected flagByte1 129, got %d", a.Flag1())
	}
	if a.Flag2() != -1 {
		t.Errorf("Expected flagByte2 unset, got %d", a.Flag2())
	}
	if a.Dithering() {
		t.Errorf("Expected dithering disabled")
	}
}

func TestAssetDefaults(t *testing.T) {
	a := &Asset{Width: 100, Height: 100}
	if !a.Dithering() {
		t.Errorf("Expected dithering enabled by default")
	}
	if a.Posterization() {
		t.Errorf("Expected posterization disabled by default")
	}
	if a.PosterizeLevel() != DefaultPosterizationLevel {
		t.Errorf("Expected default level %d, got %d", DefaultPosterizationLevel, a.PosterizeLevel())
	}
	if a.Flag1() != -1 || a.Flag2() != -1 {
		t.Errorf("Expected flag overrides unset")
	}
}

func TestLoadAssetMalformed(t *testing.T) {
	tempDir := t.TempDir()
	sidecar := filepath.Join(tempDir, "bad.json")
	if err := os.WriteFile(sidecar, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write sidecar: %v", err)
	}
	if _, err := LoadAsset(sidecar); err == nil {
		t.Errorf("Expected error for malformed sidecar")
	}
}
