// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrNoObjects       = errors.New("at least one object is required")
	ErrInvalidWindow   = errors.New("window size must be positive")
	ErrEmptyModelPath  = errors.New("object model path is empty")
	ErrInvalidBounds   = errors.New("projection bounds are degenerate")
	ErrInvalidControls = errors.New("control steps must be positive")
)

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Projection ProjectionConfig `yaml:"projection"`
	Lighting   LightingConfig   `yaml:"lighting"`
	Texture    TextureConfig    `yaml:"texture"`
	Objects    []ObjectConfig   `yaml:"objects"`
	Controls   ControlsConfig   `yaml:"controls"`
	Watch      bool             `yaml:"watch"` // Reload models when their files change
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// ProjectionConfig holds the orthographic view volume.
type ProjectionConfig struct {
	Left   float32 `yaml:"left"`
	Right  float32 `yaml:"right"`
	Bottom float32 `yaml:"bottom"`
	Top    float32 `yaml:"top"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

// LightingConfig holds the Phong shading coefficients.
type LightingConfig struct {
	Ambient   float32    `yaml:"ka"`
	Diffuse   float32    `yaml:"kd"`
	Specular  float32    `yaml:"ks"`
	Shininess float32    `yaml:"q"`
	LightPos  [3]float32 `yaml:"light_pos"`
	CameraPos [3]float32 `yaml:"cam_pos"`
}

// TextureConfig holds the texture bound while drawing.
type TextureConfig struct {
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"` // Sample the texture instead of vertex color
}

// ObjectConfig describes one on-screen instance of a model.
type ObjectConfig struct {
	Name   string     `yaml:"name"`
	Model  string     `yaml:"model"`
	Color  [3]float32 `yaml:"color"`
	Offset [3]float32 `yaml:"offset"`
	Scale  float32    `yaml:"scale"`
}

// ScreenshotConfig controls where F12 captures are written.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// ControlsConfig holds keyboard step sizes.
type ControlsConfig struct {
	MoveStep  float32 `yaml:"move_step"`
	ScaleStep float32 `yaml:"scale_step"`
	MinScale  float32 `yaml:"min_scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DefaultModel is the mesh shown when no objects are configured.
const DefaultModel = "assets/models/cube.obj"

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "OBJ Viewer",
			Width:  1000,
			Height: 1000,
			VSync:  true,
		},
		Projection: ProjectionConfig{
			Left: -1, Right: 1,
			Bottom: -1, Top: 1,
			Near: -3, Far: 3,
		},
		Lighting: LightingConfig{
			Ambient:   0.1,
			Diffuse:   0.5,
			Specular:  0.5,
			Shininess: 10,
			LightPos:  [3]float32{0.6, 1.2, -0.5},
			CameraPos: [3]float32{1.5, 0, 10},
		},
		Texture: TextureConfig{
			Path: "assets/tex/pixelWall.png",
		},
		Objects: []ObjectConfig{
			{Name: "left", Model: DefaultModel, Color: [3]float32{1, 0, 0}, Scale: 1},
			{Name: "right", Model: DefaultModel, Color: [3]float32{1, 1, 0}, Offset: [3]float32{3, 0, 0}, Scale: 1},
		},
		Controls: ControlsConfig{
			MoveStep:  0.5,
			ScaleStep: 0.25,
			MinScale:  0.25,
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Prefix: "objview",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks that the config can drive the viewer.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidWindow, c.Window.Width, c.Window.Height)
	}
	p := c.Projection
	if p.Left == p.Right || p.Bottom == p.Top || p.Near == p.Far {
		return fmt.Errorf("%w: %+v", ErrInvalidBounds, p)
	}
	if c.Controls.MoveStep <= 0 || c.Controls.ScaleStep <= 0 {
		return fmt.Errorf("%w: move %v, scale %v", ErrInvalidControls, c.Controls.MoveStep, c.Controls.ScaleStep)
	}
	if len(c.Objects) == 0 {
		return ErrNoObjects
	}
	for i, obj := range c.Objects {
		if obj.Model == "" {
			return fmt.Errorf("object %d (%s): %w", i, obj.Name, ErrEmptyModelPath)
		}
	}
	return nil
}

// ModelPaths returns the distinct model files referenced by Objects.
func (c *Config) ModelPaths() []string {
	seen := make(map[string]bool, len(c.Objects))
	var paths []string
	for _, obj := range c.Objects {
		if !seen[obj.Model] {
			seen[obj.Model] = true
			paths = append(paths, obj.Model)
		}
	}
	return paths
}
