package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/iconidentify/dialtone-sub002/internal/art"
	"github.com/iconidentify/dialtone-sub002/internal/config"
	"github.com/iconidentify/dialtone-sub002/internal/logging"
)

// imageExtensions maps the source extensions the walker picks up. GIF, BMP
// and native-art sources skip the pipeline and get wrapped as-is; the rest
// go through the full encode.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".art":  true,
}

// passThroughKinds maps extensions to their legacy container kind.
var passThroughKinds = map[string]art.ContainerKind{
	".gif": art.ContainerGIF,
	".bmp": art.ContainerBMP,
	".art": art.ContainerNativeArt,
}

// findImageFiles finds all supported image files in a directory
func findImageFiles(dir string, recursive bool) ([]string, error) {
	var imageFiles []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && imageExtensions[strings.ToLower(filepath.Ext(path))] {
				imageFiles = append(imageFiles, path)
			}
			return nil
		})
		return imageFiles, err
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				imageFiles = append(imageFiles, filepath.Join(dir, entry.Name()))
			}
		}
		return imageFiles, nil
	}
}

func main() {
	in := flag.String("in", "", "input directory containing image files (uses art_path from config.json if blank)")
	outDir := flag.String("out-dir", "", "output directory for all generated .art payloads")
	logLevel := flag.String("log-level", "info", "logging level: debug, info, warn, error")
	numWorkers := flag.Int("workers", 8, "number of parallel workers for processing images")
	flag.Parse()

	logging.SetLevel(*logLevel)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// If no input directory specified, use art_path from config
	resolvedInput := *in
	if resolvedInput == "" {
		if cfg.ArtPath == "" {
			log.Fatal("art_path not configured in config.json and no input directory provided")
		}
		resolvedInput = cfg.ArtPath
	}

	// Check that the input directory exists
	if _, err := os.Stat(resolvedInput); err != nil {
		log.Fatal(err)
	}

	// Always process recursively
	imageFiles, err := findImageFiles(resolvedInput, true)
	if err != nil {
		log.Fatalf("failed to find image files in directory: %v", err)
	}
	if len(imageFiles) == 0 {
		log.Fatalf("no image files found in directory: %s", resolvedInput)
	}
	logging.Info("Found %d image file(s) in directory", len(imageFiles))

	// Parallel worker pool
	jobs := make(chan string, *numWorkers)
	results := make(chan error, len(imageFiles))

	// Worker function
	worker := func(id int) {
		for imageFile := range jobs {
			logging.Info("Worker %d processing: %s", id, filepath.Base(imageFile))
			err := processImageFile(imageFile, *outDir, cfg)
			if err != nil {
				logging.Error("failed to process %s: %v", imageFile, err)
			}
			results <- err
		}
	}

	// Start workers
	for w := 0; w < *numWorkers; w++ {
		go worker(w)
	}

	// Send jobs
	for _, imageFile := range imageFiles {
		jobs <- imageFile
	}
	close(jobs)

	// Wait for all results
	for i := 0; i < len(imageFiles); i++ {
		<-results
	}
}

// processImageFile converts a single source image into a protocol payload.
// Legacy containers without a sidecar config are wrapped without re-encoding.
func processImageFile(inputPath string, outDir string, cfg *config.Config) error {
	asset, hasSidecar, err := loadSidecar(inputPath, cfg)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	var payload []byte
	if kind, ok := passThroughKinds[ext]; ok && !hasSidecar {
		raw, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %v", inputPath, err)
		}
		payload, err = art.PassThrough(raw, kind)
		if err != nil {
			return fmt.Errorf("failed to wrap %s: %w", inputPath, err)
		}
	} else {
		img, err := imaging.Open(inputPath)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %v", inputPath, err)
		}
		payload, err = art.EncodeWithSizeLimit(img, metadataFromAsset(asset))
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", inputPath, err)
		}
	}

	outputPath := outputPathFor(inputPath, outDir)
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(outputPath, payload, 0644); err != nil {
		return fmt.Errorf("failed to save %s: %v", outputPath, err)
	}
	logging.Info("wrote %s (%d bytes)", outputPath, len(payload))
	return nil
}

// loadSidecar reads the per-asset JSON config stored next to the source
// image, falling back to the global defaults when no sidecar exists.
func loadSidecar(inputPath string, cfg *config.Config) (*config.Asset, bool, error) {
	sidecarPath := inputPath + ".json"
	if _, err := os.Stat(sidecarPath); os.IsNotExist(err) {
		return config.DefaultAsset(cfg), false, nil
	}
	asset, err := config.LoadAsset(sidecarPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load sidecar for %s: %w", inputPath, err)
	}
	if asset.Width <= 0 {
		asset.Width = cfg.Width
	}
	if asset.Height <= 0 {
		asset.Height = cfg.Height
	}
	return asset, true, nil
}

// metadataFromAsset translates a sidecar config into encode metadata.
func metadataFromAsset(a *config.Asset) art.Metadata {
	meta := art.DefaultMetadata(a.Width, a.Height)
	meta.Transparency = a.Transparency
	meta.Dithering = a.Dithering()
	meta.Posterization = a.Posterization()
	meta.PosterizationLevel = a.PosterizeLevel()
	meta.Flag1 = a.Flag1()
	meta.Flag2 = a.Flag2()
	return meta
}

// outputPathFor derives the .art output path for a source image. A native
// .art source written next to itself gets a _wrapped suffix so the original
// is never clobbered.
func outputPathFor(inputPath string, outDir string) string {
	baseName := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outName := baseName + ".art"
	if outDir != "" {
		return filepath.Join(outDir, outName)
	}
	outputPath := filepath.Join(filepath.Dir(inputPath), outName)
	if outputPath == inputPath {
		outputPath = filepath.Join(filepath.Dir(inputPath), baseName+"_wrapped.art")
	}
	return outputPath
}
