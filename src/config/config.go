package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvPathEnvVar           = "ROI_OVERLAY_ENV"
	DefaultOverlayID        = "ghost_rect"
	DefaultCancelKey        = "Esc"
	DefaultMinSelectionSpan = 5.0
	DefaultViewZoom         = 1.0
	DefaultSelectionButton  = 1
	DefaultCanvasWidth      = 1920.0
	DefaultCanvasHeight     = 1080.0
)

type LoadOptions struct {
	EnvPathOverride   string
	OverlayIDOverride string
	SVGOutputOverride string
}

type Config struct {
	OverlayID         string
	CancelKey         string
	EnableFileLogging bool
	MinSelectionSpan  float64
	SelectionButton   uint16
	ViewZoom          float64
	ViewPanX          float64
	ViewPanY          float64
	CopyToClipboard   bool
	SVGOutput         string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) an explicit override path
	// 2) .env in the application (executable) directory
	// 3) if not found, ROI_OVERLAY_ENV as a path to a config file
	envPath := resolveEnvPath(opts)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		OverlayID:         firstNonEmpty(opts.OverlayIDOverride, os.Getenv("OVERLAY_ID"), DefaultOverlayID),
		CancelKey:         getEnvWithDefault("CANCEL_KEY", DefaultCancelKey),
		EnableFileLogging: getEnvBool("ENABLE_FILE_LOGGING"),
		MinSelectionSpan:  getEnvFloat("MIN_SELECTION_SPAN", DefaultMinSelectionSpan, func(v float64) bool { return v >= 0 }),
		SelectionButton:   uint16(getEnvFloat("SELECTION_BUTTON", DefaultSelectionButton, func(v float64) bool { return v >= 1 && v <= 5 && v == float64(int(v)) })),
		ViewZoom:          getEnvFloat("VIEW_ZOOM", DefaultViewZoom, func(v float64) bool { return v > 0 }),
		ViewPanX:          getEnvFloat("VIEW_PAN_X", 0, nil),
		ViewPanY:          getEnvFloat("VIEW_PAN_Y", 0, nil),
		CopyToClipboard:   getEnvBool("COPY_TO_CLIPBOARD"),
		SVGOutput:         firstNonEmpty(opts.SVGOutputOverride, os.Getenv("SVG_OUTPUT")),
	}

	return cfg, nil
}

func resolveEnvPath(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.EnvPathOverride); override != "" {
		return override
	}

	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	return strings.ToLower(strings.TrimSpace(os.Getenv(key))) == "true"
}

// getEnvFloat parses key, falling back to def when unset, malformed or
// rejected by valid.
func getEnvFloat(key string, def float64, valid func(float64) bool) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	if valid != nil && !valid(n) {
		return def
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
