// Package viewer runs the interactive OBJ viewer main loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/assetwatch"
	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/engine/screenshot"
	"github.com/Faultbox/objview/internal/engine/texture"
	"github.com/Faultbox/objview/internal/engine/window"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/internal/scene"
	"github.com/Faultbox/objview/pkg/formats"
)

// Viewer owns the window, GPU resources and scene state.
type Viewer struct {
	cfg      *config.Config
	log      *zap.Logger
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	watcher  *assetwatch.Watcher
	shots    *screenshot.Capturer

	state   *scene.State
	meshes  []*renderer.Mesh // parallel to state.Instances
	running bool
	start   time.Time
}

// New creates the window and renderer and loads every configured object.
// A model that fails to load at startup is fatal.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:   cfg,
		log:   logger.Named("viewer"),
		state: scene.New(cfg),
		input: input.New(),
		shots: screenshot.New(cfg.Screenshot.Dir, cfg.Screenshot.Prefix),
	}

	v.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("objects", len(v.state.Instances)),
	)

	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	fbWidth, fbHeight := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{Width: fbWidth, Height: fbHeight})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	p := cfg.Projection
	v.renderer.SetProjection(mgl32.Ortho(p.Left, p.Right, p.Bottom, p.Top, p.Near, p.Far))

	l := cfg.Lighting
	v.renderer.SetLighting(renderer.Lighting{
		Ambient:   l.Ambient,
		Diffuse:   l.Diffuse,
		Specular:  l.Specular,
		Shininess: l.Shininess,
		LightPos:  mgl32.Vec3(l.LightPos),
		CameraPos: mgl32.Vec3(l.CameraPos),
	})

	v.meshes = make([]*renderer.Mesh, len(v.state.Instances))
	for i := range v.state.Instances {
		if err := v.loadInstance(i); err != nil {
			v.Close()
			return nil, err
		}
	}

	v.loadTexture()
	v.updateTitle()

	if cfg.Watch {
		v.watcher, err = assetwatch.New(cfg.ModelPaths(), logger.Named("assetwatch"))
		if err != nil {
			v.log.Warn("model hot reload disabled", zap.Error(err))
		}
	}

	v.log.Info("viewer initialized")
	return v, nil
}

// loadInstance parses the instance's model with its color and replaces the
// instance's GPU mesh. On error the previous mesh is left in place.
func (v *Viewer) loadInstance(i int) error {
	inst := v.state.Instances[i]

	started := time.Now()
	src, err := formats.LoadOBJ(inst.ModelPath, inst.Color)
	if err != nil {
		return fmt.Errorf("loading %s for %s: %w", inst.ModelPath, inst.Name, err)
	}

	mesh, err := v.renderer.UploadMesh(src)
	if err != nil {
		return fmt.Errorf("uploading %s for %s: %w", inst.ModelPath, inst.Name, err)
	}

	if old := v.meshes[i]; old != nil {
		if err := v.renderer.DeleteMesh(old); err != nil {
			v.log.Warn("failed to free previous mesh", zap.String("object", inst.Name), zap.Error(err))
		}
	}
	v.meshes[i] = mesh

	v.log.Info("model loaded",
		zap.String("object", inst.Name),
		zap.String("path", inst.ModelPath),
		zap.Int("vertices", src.VertexCount),
		zap.Int("faces", src.Stats.Faces),
		zap.Duration("took", time.Since(started)),
	)
	return nil
}

// loadTexture binds the configured texture. Failures only disable texturing.
func (v *Viewer) loadTexture() {
	tc := v.cfg.Texture
	if tc.Path == "" {
		return
	}

	img, err := texture.Load(tc.Path)
	if err != nil {
		v.log.Warn("failed to load texture", zap.String("path", tc.Path), zap.Error(err))
		return
	}
	tex, err := v.renderer.UploadTexture(img)
	if err != nil {
		v.log.Warn("failed to upload texture", zap.String("path", tc.Path), zap.Error(err))
		return
	}
	v.renderer.SetTexture(tex, tc.Enabled)
}

// Run drives the main loop until the window closes or Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true
	v.start = time.Now()

	lastTime := v.start
	frameCount := 0
	fpsTimer := v.start

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		captureRequested := v.handleEvents()
		if !v.running {
			break
		}
		v.reloadChanged()

		v.render(float32(now.Sub(v.start).Seconds()))
		if captureRequested {
			v.capture()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents applies pending input and reports whether a screenshot was
// requested this frame.
func (v *Viewer) handleEvents() bool {
	capture := false

	for _, event := range v.input.Events() {
		if event.Type == input.EventWindowResize {
			v.renderer.Resize(v.window.DrawableSize())
		}
	}

	for _, key := range v.input.Pressed() {
		cmd, ok := input.CommandForKey(key)
		if !ok {
			continue
		}
		switch cmd.Action {
		case scene.ActionQuit:
			v.running = false
			return false
		case scene.ActionScreenshot:
			capture = true
			continue
		}
		if v.state.Apply(cmd) {
			v.updateTitle()
			inst := v.state.Current()
			v.log.Debug("state changed",
				zap.Stringer("action", cmd.Action),
				zap.Int("selected", v.state.Selected),
				zap.Stringer("axis", v.state.Rotation),
				zap.Float32s("offset", inst.Offset[:]),
				zap.Float32("scale", inst.Scale),
			)
		}
	}
	return capture
}

// updateTitle shows the selected instance and rotation in the title bar.
func (v *Viewer) updateTitle() {
	v.window.SetTitle(v.cfg.Window.Title + " - " + v.state.Status())
}

// capture saves the back buffer before it is swapped.
func (v *Viewer) capture() {
	pixels, w, h, err := v.renderer.ReadPixels()
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	path, err := v.shots.SavePixels(pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// reloadChanged reparses every instance whose model changed on disk.
func (v *Viewer) reloadChanged() {
	if v.watcher == nil {
		return
	}

	changed := make(map[string]bool)
	for {
		select {
		case path := <-v.watcher.Changes():
			changed[path] = true
			continue
		default:
		}
		break
	}

	for path := range changed {
		for _, i := range v.state.InstancesUsing(path) {
			if err := v.loadInstance(i); err != nil {
				v.log.Error("reload failed, keeping previous mesh", zap.Error(err))
			}
		}
	}
}

func (v *Viewer) render(t float32) {
	v.renderer.Begin()
	for i, mesh := range v.meshes {
		if mesh == nil {
			continue
		}
		v.renderer.Draw(mesh, v.state.ModelMatrix(i, t))
	}
	v.renderer.End()
}

// Close releases all resources in reverse order of creation.
func (v *Viewer) Close() error {
	v.log.Info("closing viewer")

	var err error
	if v.watcher != nil {
		err = multierr.Append(err, v.watcher.Close())
	}
	if v.renderer != nil {
		err = multierr.Append(err, v.renderer.Close())
	}
	if v.window != nil {
		v.window.Close()
	}
	return err
}
