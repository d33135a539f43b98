// Package config loads eyesim settings from EYESIM_* environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/taigrr/eyesim/pkg/render"
)

// Prefix is prepended to every variable name, e.g. EYESIM_FPS.
const Prefix = "EYESIM"

type Config struct {
	Width             int     `envconfig:"WIDTH" default:"0"`
	Height            int     `envconfig:"HEIGHT" default:"0"`
	CellSize          int     `envconfig:"CELL_SIZE" default:"1"`
	FOVDegrees        float64 `envconfig:"FOV_DEGREES" default:"90"`
	ObservingDistance float64 `envconfig:"OBSERVING_DISTANCE" default:"0"`
	Speed             float64 `envconfig:"SPEED" default:"20"`
	VerticalMovement  bool    `envconfig:"VERTICAL_MOVEMENT" default:"true"`
	RotateScale       float64 `envconfig:"ROTATE_SCALE" default:"100"`
	FPS               int     `envconfig:"FPS" default:"30"`
	Scene             string  `envconfig:"SCENE"`
	Triangles         int     `envconfig:"TRIANGLES" default:"0"`
	Seed              uint64  `envconfig:"SEED" default:"1"`
	LogLevel          string  `envconfig:"LOG_LEVEL" default:"info"`
	LogFile           string  `envconfig:"LOG_FILE"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that do not depend on the output size.
func (c *Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("config: negative size %dx%d", c.Width, c.Height)
	case c.CellSize <= 0:
		return fmt.Errorf("config: cell size must be positive, got %d", c.CellSize)
	case c.FPS <= 0:
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	case c.Triangles < 0:
		return fmt.Errorf("config: negative triangle count %d", c.Triangles)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Render builds a render.Config. A zero Width or Height in the environment
// leaves that dimension to the frontend, which passes its own size here.
func (c *Config) Render(width, height int) render.Config {
	if c.Width > 0 {
		width = c.Width
	}
	if c.Height > 0 {
		height = c.Height
	}
	return render.Config{
		Width:             width,
		Height:            height,
		CellSize:          c.CellSize,
		FOV:               c.FOVDegrees * math.Pi / 180,
		ObservingDistance: c.ObservingDistance,
		Camera: render.CameraConfig{
			Speed:            c.Speed,
			VerticalMovement: c.VerticalMovement,
			RotateScale:      c.RotateScale,
		},
	}
}

// Level parses LogLevel (debug, info, warn, error).
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return level, nil
}

// Logger returns a text logger at the configured level. It writes to LogFile
// when set and to fallback otherwise; a nil fallback discards output. The
// returned closer releases the log file.
func (c *Config) Logger(fallback io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := c.Level()
	if err != nil {
		return nil, nil, err
	}

	w := fallback
	var closer io.Closer = nopCloser{}
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}
	if w == nil {
		w = io.Discard
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
