package ctdcore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agiangrant/ctdcore/internal/fontcache"
	"github.com/agiangrant/ctdcore/retained"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFile is the file name looked up by FindConfig.
const ConfigFile = "ctd.toml"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the ctd.toml configuration file
type Config struct {
	Text      TextConfig      `toml:"text"`
	Slider    SliderConfig    `toml:"slider"`
	Font      FontConfig      `toml:"font"`
	Clipboard ClipboardConfig `toml:"clipboard"`
	Log       LogConfig       `toml:"log"`
}

// TextConfig tunes text box geometry and scrolling.
type TextConfig struct {
	// Padding between a text box's rect and its content
	Padding float32 `toml:"padding"`
	// Height of the horizontal scrollbar track
	ScrollbarThickness float32 `toml:"scrollbar_thickness"`
	MinThumbWidth      float32 `toml:"min_thumb_width"`
	// Multiplier applied to the font size
	LineHeight      float32 `toml:"line_height"`
	DefaultFontSize float32 `toml:"default_font_size"`
	// Multiplier applied to wheel deltas
	WheelSpeed float32 `toml:"wheel_speed"`
}

type SliderConfig struct {
	// Smallest value change reported as a change
	Epsilon float32 `toml:"epsilon"`
}

type FontConfig struct {
	// Bundled face: goregular or gomono
	Face string `toml:"face"`
	// TrueType/OpenType file overriding Face
	Path          string  `toml:"path"`
	DPI           float64 `toml:"dpi"`
	CacheCapacity int     `toml:"cache_capacity"`
}

type ClipboardConfig struct {
	// Use the operating system clipboard when available
	System bool `toml:"system"`
}

type LogConfig struct {
	// debug, info, warn or error
	Level string `toml:"level"`
	// text or json
	Format string `toml:"format"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	s := retained.DefaultSettings()
	return Config{
		Text: TextConfig{
			Padding:            s.TextPadding,
			ScrollbarThickness: s.ScrollbarThickness,
			MinThumbWidth:      s.MinThumbWidth,
			LineHeight:         s.LineHeight,
			DefaultFontSize:    s.DefaultFontSize,
			WheelSpeed:         s.WheelSpeed,
		},
		Slider: SliderConfig{
			Epsilon: s.SliderEpsilon,
		},
		Font: FontConfig{
			Face:          fontcache.FaceRegular,
			DPI:           fontcache.DefaultDPI,
			CacheCapacity: fontcache.DefaultCapacity,
		},
		Clipboard: ClipboardConfig{
			System: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads the configuration from path.
// If the file doesn't exist, returns default config
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to read %s: %w", path, err)
	}

	config, err = ParseConfig(data)
	if err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return config, nil
}

// ParseConfig decodes TOML on top of the defaults and validates the result.
// Keys missing from data keep their default values.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return config, err
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// SaveConfig writes the configuration to path.
func SaveConfig(path string, config Config) error {
	data, err := config.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Marshal renders the configuration as TOML.
func (c Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate reports every out-of-range value. The returned error wraps
// ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Text.Padding >= 0, "text.padding must not be negative, got %v", c.Text.Padding)
	check(c.Text.ScrollbarThickness > 0, "text.scrollbar_thickness must be positive, got %v", c.Text.ScrollbarThickness)
	check(c.Text.MinThumbWidth > 0, "text.min_thumb_width must be positive, got %v", c.Text.MinThumbWidth)
	check(c.Text.LineHeight > 0, "text.line_height must be positive, got %v", c.Text.LineHeight)
	check(c.Text.DefaultFontSize > 0, "text.default_font_size must be positive, got %v", c.Text.DefaultFontSize)
	check(c.Text.WheelSpeed > 0, "text.wheel_speed must be positive, got %v", c.Text.WheelSpeed)
	check(c.Slider.Epsilon >= 0, "slider.epsilon must not be negative, got %v", c.Slider.Epsilon)
	check(c.Font.DPI > 0, "font.dpi must be positive, got %v", c.Font.DPI)
	check(c.Font.CacheCapacity > 0, "font.cache_capacity must be positive, got %d", c.Font.CacheCapacity)
	if c.Font.Path == "" {
		check(c.Font.Face == fontcache.FaceRegular || c.Font.Face == fontcache.FaceMono,
			"font.face must be %q or %q, got %q", fontcache.FaceRegular, fontcache.FaceMono, c.Font.Face)
	}
	_, levelErr := parseLevel(c.Log.Level)
	check(levelErr == nil, "log.level must be debug, info, warn or error, got %q", c.Log.Level)
	check(c.Log.Format == "text" || c.Log.Format == "json", "log.format must be text or json, got %q", c.Log.Format)

	return errors.Join(errs...)
}

// Settings converts the text and slider sections to engine settings.
func (c Config) Settings() retained.Settings {
	return retained.Settings{
		TextPadding:        c.Text.Padding,
		ScrollbarThickness: c.Text.ScrollbarThickness,
		MinThumbWidth:      c.Text.MinThumbWidth,
		LineHeight:         c.Text.LineHeight,
		DefaultFontSize:    c.Text.DefaultFontSize,
		WheelSpeed:         c.Text.WheelSpeed,
		SliderEpsilon:      c.Slider.Epsilon,
	}
}

// FindConfig walks up from dir looking for ctd.toml and returns its path.
// It returns "" when no directory up to the root has one.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
