// Package config loads the sculptor command settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Operation names accepted in SCULPTOR_OPERATION.
const (
	OpCull              = "cull"
	OpResize            = "resize"
	OpConvert           = "convert"
	OpGrayscale         = "grayscale"
	OpSubstring         = "substring"
	OpDedupe            = "dedupe"
	OpCaptionToMetadata = "caption-to-metadata"
	OpMetadataToCaption = "metadata-to-caption"
)

var operations = map[string]bool{
	OpCull: true, OpResize: true, OpConvert: true, OpGrayscale: true,
	OpSubstring: true, OpDedupe: true, OpCaptionToMetadata: true, OpMetadataToCaption: true,
}

// ErrNotConfirmed is returned when a run was not confirmed with SCULPTOR_CONFIRM.
var ErrNotConfirmed = errors.New("config: SCULPTOR_CONFIRM=yes is required to modify files")

// Config represents the command configuration loaded from environment variables.
type Config struct {
	AppEnv    string
	Operation string
	Confirm   bool

	InputDir   string
	OutputDir  string
	Recursive  bool
	Extensions []string
	Workers    int

	MinEdgeLength      int
	KeepOrphanCaptions bool
	MaxEdgeLength      int
	PreserveOriginals  bool
	TargetExtension    string

	MSECutoff             float64
	ThumbnailSize         int
	DisableBiasCorrection bool
	LabelFilename         bool
	FilenameLabel         string
	LabelPosition         string
	CaptionLabel          string
	CaptionLabelPosition  string
	Transfer              string

	SearchString   string
	DedupThreshold int
	SaveToOutput   bool
	ExifToolPath   string
}

// Load reads .env and .env.local when present, then SCULPTOR_* variables,
// applying defaults where needed.
func Load() (*Config, error) {
	_ = godotenv.Load(".env", ".env.local")

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "production"),
		Operation: strings.ToLower(getEnv("SCULPTOR_OPERATION", "")),
		Confirm:   getEnvBool("SCULPTOR_CONFIRM", false),

		InputDir:   os.Getenv("SCULPTOR_INPUT_DIR"),
		OutputDir:  os.Getenv("SCULPTOR_OUTPUT_DIR"),
		Recursive:  getEnvBool("SCULPTOR_RECURSIVE", false),
		Extensions: getEnvList("SCULPTOR_EXTENSIONS"),
		Workers:    getEnvInt("SCULPTOR_WORKERS", 0),

		MinEdgeLength:      getEnvInt("SCULPTOR_MIN_EDGE", 512),
		KeepOrphanCaptions: getEnvBool("SCULPTOR_KEEP_ORPHAN_CAPTIONS", false),
		MaxEdgeLength:      getEnvInt("SCULPTOR_MAX_EDGE", 2048),
		PreserveOriginals:  getEnvBool("SCULPTOR_PRESERVE_ORIGINALS", false),
		TargetExtension:    getEnv("SCULPTOR_TARGET_EXT", ".png"),

		MSECutoff:             getEnvFloat("SCULPTOR_MSE_CUTOFF", 22),
		ThumbnailSize:         getEnvInt("SCULPTOR_THUMBNAIL_SIZE", 40),
		DisableBiasCorrection: getEnvBool("SCULPTOR_DISABLE_BIAS_CORRECTION", false),
		LabelFilename:         getEnvBool("SCULPTOR_LABEL_FILENAME", false),
		FilenameLabel:         getEnv("SCULPTOR_FILENAME_LABEL", "_BW"),
		LabelPosition:         getEnv("SCULPTOR_LABEL_POSITION", "end"),
		CaptionLabel:          os.Getenv("SCULPTOR_CAPTION_LABEL"),
		CaptionLabelPosition:  getEnv("SCULPTOR_CAPTION_LABEL_POSITION", "end"),
		Transfer:              getEnv("SCULPTOR_TRANSFER", "none"),

		SearchString:   os.Getenv("SCULPTOR_SEARCH"),
		DedupThreshold: getEnvInt("SCULPTOR_DEDUP_THRESHOLD", 10),
		SaveToOutput:   getEnvBool("SCULPTOR_SAVE_TO_OUTPUT", false),
		ExifToolPath:   getEnv("SCULPTOR_EXIFTOOL", "exiftool"),
	}

	if cfg.Operation == "" {
		return nil, fmt.Errorf("config: SCULPTOR_OPERATION is required")
	}
	if !operations[cfg.Operation] {
		return nil, fmt.Errorf("config: unknown operation %q", cfg.Operation)
	}
	if cfg.InputDir == "" {
		return nil, fmt.Errorf("config: SCULPTOR_INPUT_DIR is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "y", "yes", "true", "on":
		return true
	case "0", "n", "no", "false", "off":
		return false
	}
	return fallback
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
