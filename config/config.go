// Package config loads the ddcanvas TOML configuration.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ha1tch/ddcanvas/paint"
)

// DefaultPath is the config file read when no -config flag is given.
const DefaultPath = "ddcanvas.toml"

type CanvasConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

type HistoryConfig struct {
	Limit int `toml:"limit"`
}

type ViewConfig struct {
	MinZoom  float64 `toml:"min_zoom"`
	MaxZoom  float64 `toml:"max_zoom"`
	ZoomStep float64 `toml:"zoom_step"`
	Grid     bool    `toml:"grid"`
}

type ToolsConfig struct {
	Tool       string `toml:"tool"`
	BrushColor string `toml:"brush_color"`
	BrushSize  int    `toml:"brush_size"`
	EraserSize int    `toml:"eraser_size"`
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

type Config struct {
	Canvas  CanvasConfig  `toml:"canvas"`
	History HistoryConfig `toml:"history"`
	View    ViewConfig    `toml:"view"`
	Tools   ToolsConfig   `toml:"tools"`
	Palette []string      `toml:"palette"`
	Log     LogConfig     `toml:"log"`
}

// DefaultPalette is the swatch list shown when the config has none.
var DefaultPalette = []string{
	"#000000", "#ffffff", "#e62937", "#00e430", "#0079f1",
	"#fdf900", "#ffa100", "#c87aff", "#ff6dc2", "#7f6a4f",
	"#828282", "#505050", "#c8c8c8", "#66bfff", "#ff00ff",
	"#ff0080", "#80ff00", "#0080ff",
}

func defaultConfig() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:      800,
			Height:     600,
			Background: "#ffffff",
		},
		History: HistoryConfig{Limit: 50},
		View: ViewConfig{
			MinZoom:  paint.DefaultMinZoom,
			MaxZoom:  paint.DefaultMaxZoom,
			ZoomStep: paint.DefaultZoomStep,
		},
		Tools: ToolsConfig{
			Tool:       "brush",
			BrushColor: "#000000",
			BrushSize:  paint.DefaultBrushSize,
			EraserSize: paint.DefaultEraserSize,
		},
		Palette: slices.Clone(DefaultPalette),
		Log:     LogConfig{Level: "warn"},
	}
}

// Default returns the built-in configuration.
func Default() *Config { return defaultConfig() }

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults.
func Parse(text string) (*Config, error) {
	cfg := defaultConfig()
	if _, err := toml.Decode(text, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Canvas.Width < 1 || c.Canvas.Height < 1 {
		return fmt.Errorf("canvas size %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := paint.ParseHexColor(c.Canvas.Background); err != nil {
		return fmt.Errorf("canvas background: %w", err)
	}
	if _, ok := paint.ParseTool(c.Tools.Tool); !ok {
		return fmt.Errorf("unknown tool %q", c.Tools.Tool)
	}
	if _, err := paint.ParseHexColor(c.Tools.BrushColor); err != nil {
		return fmt.Errorf("brush colour: %w", err)
	}
	if _, err := c.Colors(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// SessionOptions maps the config onto paint.Options. The config must have
// been validated, which LoadConfig and Parse do.
func (c *Config) SessionOptions() paint.Options {
	bg, _ := paint.ParseHexColor(c.Canvas.Background)
	brush, _ := paint.ParseHexColor(c.Tools.BrushColor)
	tool, _ := paint.ParseTool(c.Tools.Tool)

	return paint.Options{
		Width:        c.Canvas.Width,
		Height:       c.Canvas.Height,
		Background:   bg,
		HistoryLimit: c.History.Limit,
		MinZoom:      c.View.MinZoom,
		MaxZoom:      c.View.MaxZoom,
		ZoomStep:     c.View.ZoomStep,
		Grid:         c.View.Grid,
		Tools: paint.ToolSettings{
			Tool:       tool,
			BrushColor: brush,
			BrushSize:  c.Tools.BrushSize,
			EraserSize: c.Tools.EraserSize,
		},
	}
}

// Colors parses the palette.
func (c *Config) Colors() ([]color.NRGBA, error) {
	out := make([]color.NRGBA, 0, len(c.Palette))
	for i, h := range c.Palette {
		col, err := paint.ParseHexColor(h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		out = append(out, col)
	}
	return out, nil
}

// LogLevel parses the log level. Empty means warn.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("unknown log level %q", c.Log.Level)
}
