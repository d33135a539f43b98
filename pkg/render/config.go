package render

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid render config")

// MinObservingDistance is the smallest distance between the eye and the
// view plane that AdjustFOV allows.
const MinObservingDistance = 1.0

// CameraConfig holds the movement parameters of a Camera.
type CameraConfig struct {
	Speed            float64 // World units per Move step
	VerticalMovement bool    // Forward/backward follow the vertical angle too
	RotateScale      float64 // Drag units per radian of rotation
}

// Config describes the output grid and projection of a Renderer.
type Config struct {
	Width    int // Output width in pixels
	Height   int // Output height in pixels
	CellSize int // Side of one square paint cell in pixels

	// FOV is the horizontal field of view in radians. It is only used to
	// derive ObservingDistance when that is zero.
	FOV float64

	// ObservingDistance is the distance from the eye to the view plane, in
	// pixels. Zero means Width / (2·tan(FOV/2)).
	ObservingDistance float64

	Camera CameraConfig
}

// DefaultCameraConfig returns the movement settings used by the demo.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Speed:            20,
		VerticalMovement: true,
		RotateScale:      100,
	}
}

// DefaultConfig returns a 320x200 grid with a 90° field of view.
func DefaultConfig() Config {
	return Config{
		Width:    320,
		Height:   200,
		CellSize: 1,
		FOV:      math.Pi / 2,
		Camera:   DefaultCameraConfig(),
	}
}

// Validate checks that the config describes a drawable grid.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.CellSize <= 0:
		return fmt.Errorf("%w: cell size %d", ErrInvalidConfig, c.CellSize)
	case c.ObservingDistance < 0:
		return fmt.Errorf("%w: observing distance %v", ErrInvalidConfig, c.ObservingDistance)
	case c.ObservingDistance == 0 && (c.FOV <= 0 || c.FOV >= math.Pi):
		return fmt.Errorf("%w: field of view %v rad outside (0, π)", ErrInvalidConfig, c.FOV)
	case c.Camera.RotateScale < 0:
		return fmt.Errorf("%w: rotate scale %v", ErrInvalidConfig, c.Camera.RotateScale)
	}
	return nil
}

// observingDistance resolves the configured or FOV-derived view distance.
func (c Config) observingDistance() float64 {
	d := c.ObservingDistance
	if d == 0 {
		d = float64(c.Width) / (2 * math.Tan(c.FOV/2))
	}
	return math.Max(d, MinObservingDistance)
}
