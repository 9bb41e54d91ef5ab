package config

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvPathVar names an alternative .env file when none sits next to the binary.
	EnvPathVar = "TFTSIGHT_ENV"

	ModeWatch  = "watch"
	ModeHotkey = "hotkey"

	DefaultCDragonURL  = "https://raw.communitydragon.org/latest/cdragon/tft/en_us.json"
	DefaultCDragonBase = "https://raw.communitydragon.org/latest"
	DefaultScrapeURL   = "https://www.metatft.com/comps"
)

// Config holds every tunable of the overlay and its companion commands.
type Config struct {
	// Detector
	ModelPath    string
	ClassesPath  string
	MetaPath     string
	CompsPath    string
	ConfThresh   float32
	IoUThresh    float32
	InputSize    int
	PoolSizes    string
	TopN         int
	Smoothing    float64
	ShowPreview  bool
	OverlayAlpha float64
	ScreenScale  float64

	// Capture
	Backend       string
	Display       int
	Region        image.Rectangle
	Interval      time.Duration
	BurstShots    int
	BurstDelay    time.Duration
	Mode          string
	Hotkey        string
	ExitKey       string
	CaptureOnBoot bool

	// Companion commands
	AssetsDir     string
	CDragonURL    string
	CDragonBase   string
	IconSize      int
	ScrapeURL     string
	ScrapeTimeout time.Duration
	ChromePath    string

	// Logging
	EnableFileLogging bool
	LogLevel          string
}

// Load reads configuration from the first .env found (working directory,
// executable directory, then $TFTSIGHT_ENV) and the process environment.
func Load() (*Config, error) {
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	region, err := ParseRegion(getEnvWithDefault("CAPTURE_REGION", "560,0,1440,720"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ModelPath:    getEnvWithDefault("MODEL_PATH", filepath.Join("weights", "DEPLOY.onnx")),
		ClassesPath:  getEnvWithDefault("CLASSES_PATH", filepath.Join("training-files", "classes.txt")),
		MetaPath:     getEnvWithDefault("META_PATH", filepath.Join("training-files", "champ_meta.json")),
		CompsPath:    getEnvWithDefault("COMPS_PATH", filepath.Join("assets", "comps.json")),
		ConfThresh:   float32(getFloat("CONF_THRESHOLD", 0.25)),
		IoUThresh:    float32(getFloat("IOU_THRESHOLD", 0.45)),
		InputSize:    getInt("IMG_SIZE", 800),
		PoolSizes:    getEnvWithDefault("POOL_SIZES", "1:30,2:25,3:18,4:10,5:9"),
		TopN:         getInt("TOP_N", 3),
		Smoothing:    getFloat("SMOOTHING", 0),
		ShowPreview:  getBool("SHOW_PREVIEW", false),
		OverlayAlpha: getFloat("OVERLAY_OPACITY", 1),
		ScreenScale:  getFloat("SCREEN_SCALING", 1),

		Backend:       getEnvWithDefault("CAPTURE_BACKEND", "screenshot"),
		Display:       getInt("CAPTURE_DISPLAY", 0),
		Region:        region,
		Interval:      time.Duration(getInt("CAPTURE_INTERVAL_MS", 1000)) * time.Millisecond,
		BurstShots:    getInt("BURST_SHOTS", 1),
		BurstDelay:    time.Duration(getInt("BURST_DELAY_MS", 500)) * time.Millisecond,
		Mode:          strings.ToLower(getEnvWithDefault("MODE", ModeWatch)),
		Hotkey:        getEnvWithDefault("HOTKEY", "Ctrl+Shift+D"),
		ExitKey:       getEnvWithDefault("EXIT_KEY", "esc"),
		CaptureOnBoot: getBool("CAPTURE_ON_START", true),

		AssetsDir:     getEnvWithDefault("ASSETS_DIR", "assets"),
		CDragonURL:    getEnvWithDefault("CDRAGON_URL", DefaultCDragonURL),
		CDragonBase:   getEnvWithDefault("CDRAGON_BASE", DefaultCDragonBase),
		IconSize:      getInt("ICON_SIZE", 64),
		ScrapeURL:     getEnvWithDefault("SCRAPE_URL", DefaultScrapeURL),
		ScrapeTimeout: time.Duration(getInt("SCRAPE_TIMEOUT_SEC", 30)) * time.Second,
		ChromePath:    os.Getenv("PATH_TO_CHROME"),

		EnableFileLogging: getBool("ENABLE_FILE_LOGGING", false),
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
	}

	return cfg, cfg.Validate()
}

// Validate rejects detector settings no command can run with.
func (c *Config) Validate() error {
	if c.ConfThresh <= 0 || c.ConfThresh > 1 {
		return fmt.Errorf("confidence threshold %.2f out of range (0,1]", c.ConfThresh)
	}
	if c.IoUThresh <= 0 || c.IoUThresh > 1 {
		return fmt.Errorf("iou threshold %.2f out of range (0,1]", c.IoUThresh)
	}
	if c.InputSize <= 0 || c.InputSize%32 != 0 {
		return fmt.Errorf("image size %d must be a positive multiple of 32", c.InputSize)
	}
	return nil
}

// ValidateOverlay adds the checks only the live overlay needs.
func (c *Config) ValidateOverlay() error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch c.Mode {
	case ModeWatch, ModeHotkey:
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", c.Mode, ModeWatch, ModeHotkey)
	}
	if c.BurstShots < 1 {
		return fmt.Errorf("burst shots must be at least 1, got %d", c.BurstShots)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("capture interval must be positive, got %s", c.Interval)
	}
	if c.Smoothing < 0 || c.Smoothing > 1 {
		return fmt.Errorf("smoothing %.2f out of range [0,1]", c.Smoothing)
	}
	return nil
}

func resolveEnvPath() string {
	candidates := []string{".env"}

	// If running as executable, also try the executable's directory
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), ".env"))
	}
	if alt := os.Getenv(EnvPathVar); alt != "" {
		candidates = append(candidates, alt)
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// ParseRegion reads "x,y,w,h". An empty string or "full" means the whole display.
func ParseRegion(s string) (image.Rectangle, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "full") {
		return image.Rectangle{}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("capture region %q: want x,y,w,h", s)
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("capture region %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("capture region %q: width and height must be positive", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return defaultValue
}
