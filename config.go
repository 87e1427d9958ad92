package textextract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jpfrost94/universal-text-extractor/imageprep"
)

// Config holds all configuration for the extraction service.
type Config struct {
	// OCR settings applied when a request does not override them.
	OCR OCRConfig `json:"ocr" yaml:"ocr"`

	// Preprocessing defaults for scanned images.
	Preprocessing imageprep.Params `json:"preprocessing" yaml:"preprocessing"`

	// AnalyticsDBPath is the full path to the SQLite analytics
	// database. If empty, defaults to <AnalyticsDBName>.db inside the
	// storage directory.
	AnalyticsDBPath string `json:"analytics_db_path" yaml:"analytics_db_path"`

	// AnalyticsDBName names the database when AnalyticsDBPath is not
	// set. Defaults to "textextract".
	AnalyticsDBName string `json:"analytics_db_name" yaml:"analytics_db_name"`

	// StorageDir controls where the database is created when
	// AnalyticsDBPath is not explicitly set. Options: "home" (default)
	// uses ~/.textextract/, "local" uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// DisableAnalytics turns off extraction history entirely.
	DisableAnalytics bool `json:"disable_analytics" yaml:"disable_analytics"`
}

// OCRConfig configures the OCR defaults.
type OCRConfig struct {
	// Enabled turns OCR on for image files and scanned PDFs unless the
	// request says otherwise.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Language is the default OCR language, ISO-639-1 or Tesseract
	// vocabulary.
	Language string `json:"language" yaml:"language"`

	// Handwriting selects recognition settings tuned for handwritten
	// text blocks.
	Handwriting bool `json:"handwriting" yaml:"handwriting"`
}

// DefaultConfig returns a Config with sensible defaults. OCR is on with
// English, preprocessing uses the standard scan-cleanup settings, and
// analytics lands in ~/.textextract/textextract.db.
func DefaultConfig() Config {
	return Config{
		OCR: OCRConfig{
			Enabled:  true,
			Language: "en",
		},
		Preprocessing:   imageprep.DefaultParams(),
		AnalyticsDBName: "textextract",
		StorageDir:      "home",
	}
}

// LoadConfig reads a config file, YAML or JSON by extension, on top of
// the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// resolveDBPath computes the final analytics database path.
func (c *Config) resolveDBPath() string {
	if c.AnalyticsDBPath != "" {
		return c.AnalyticsDBPath
	}

	name := c.AnalyticsDBName
	if name == "" {
		name = "textextract"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db" // fallback to cwd
		}
		return filepath.Join(home, ".textextract", name+".db")
	}
}
