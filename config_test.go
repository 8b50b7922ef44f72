package ctdcore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	s := cfg.Settings()
	if s.TextPadding != 4 || s.ScrollbarThickness != 6 || s.DefaultFontSize != 14 {
		t.Errorf("Settings() = %+v", s)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	data := `
[text]
padding = 2
wheel_speed = 3.5

[font]
face = "gomono"

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Text.Padding != 2 || cfg.Text.WheelSpeed != 3.5 {
		t.Errorf("Text = %+v", cfg.Text)
	}
	if cfg.Text.ScrollbarThickness != DefaultConfig().Text.ScrollbarThickness {
		t.Errorf("unset key lost its default: %+v", cfg.Text)
	}
	if cfg.Font.Face != "gomono" || cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
	}{
		{name: "malformed", data: "[text\npadding = 1"},
		{name: "wrong type", data: "[text]\npadding = \"wide\""},
		{name: "negative padding", data: "[text]\npadding = -1", invalid: true},
		{name: "zero line height", data: "[text]\nline_height = 0", invalid: true},
		{name: "unknown face", data: "[font]\nface = \"comic\"", invalid: true},
		{name: "unknown level", data: "[log]\nlevel = \"loud\"", invalid: true},
		{name: "unknown format", data: "[log]\nformat = \"xml\"", invalid: true},
		{name: "zero capacity", data: "[font]\ncache_capacity = 0", invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if err == nil {
				t.Fatal("ParseConfig() succeeded")
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalidConfig) = %v, want %v (err: %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Text.LineHeight = 0
	cfg.Font.DPI = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil")
	}
	for _, want := range []string{"text.line_height", "font.dpi"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %q, missing %s", err, want)
		}
	}
}

func TestCustomFontPathSkipsFaceCheck(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Font.Face = ""
	cfg.Font.Path = "/fonts/custom.ttf"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	cfg := DefaultConfig()
	cfg.Clipboard.System = false
	cfg.Slider.Epsilon = 0.5
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if got != cfg {
		t.Errorf("LoadConfig() = %+v, want %+v", got, cfg)
	}
}

func TestMarshalSections(t *testing.T) {
	data, err := DefaultConfig().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	for _, section := range []string{"[text]", "[slider]", "[font]", "[clipboard]", "[log]"} {
		if !bytes.Contains(data, []byte(section)) {
			t.Errorf("Marshal() output missing %s:\n%s", section, data)
		}
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if path, err := FindConfig(nested); err != nil || path != "" {
		t.Fatalf("FindConfig() = %q, %v, want none", path, err)
	}

	want := filepath.Join(root, "a", ConfigFile)
	if err := os.WriteFile(want, nil, 0644); err != nil {
		t.Fatal(err)
	}
	path, err := FindConfig(nested)
	if err != nil || path != want {
		t.Errorf("FindConfig() = %q, %v, want %q", path, err, want)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("json output = %q", out)
	}

	if _, err := NewLogger(LogConfig{Level: "loud"}, &buf); err == nil {
		t.Error("NewLogger() accepted an unknown level")
	}
}
