// Package scene holds the viewer's mutable state: the instances on screen,
// which one is selected, and the active rotation axis.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/objview/internal/config"
)

// Axis selects the rotation applied to the selected instance.
type Axis int

// Rotation axes.
const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisNone:
		return "none"
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Vector returns the unit vector of the axis, or zero for AxisNone.
func (a Axis) Vector() mgl32.Vec3 {
	switch a {
	case AxisX:
		return mgl32.Vec3{1, 0, 0}
	case AxisY:
		return mgl32.Vec3{0, 1, 0}
	case AxisZ:
		return mgl32.Vec3{0, 0, 1}
	default:
		return mgl32.Vec3{}
	}
}

// Instance is one placement of a model on screen.
type Instance struct {
	Name      string
	ModelPath string
	Color     [3]float32
	Offset    mgl32.Vec3
	Scale     float32
}

// Controls holds the step sizes applied by keyboard actions.
type Controls struct {
	MoveStep  float32
	ScaleStep float32
	MinScale  float32
}

// State is the viewer state mutated by input and read by the renderer.
type State struct {
	Instances []Instance
	Selected  int
	Rotation  Axis
	Controls  Controls
}

// New builds the initial state from configuration.
func New(cfg *config.Config) *State {
	s := &State{
		Instances: make([]Instance, 0, len(cfg.Objects)),
		Controls: Controls{
			MoveStep:  cfg.Controls.MoveStep,
			ScaleStep: cfg.Controls.ScaleStep,
			MinScale:  cfg.Controls.MinScale,
		},
	}
	for i, obj := range cfg.Objects {
		name := obj.Name
		if name == "" {
			name = fmt.Sprintf("object%d", i+1)
		}
		scale := obj.Scale
		if scale == 0 {
			scale = 1
		}
		s.Instances = append(s.Instances, Instance{
			Name:      name,
			ModelPath: obj.Model,
			Color:     obj.Color,
			Offset:    mgl32.Vec3(obj.Offset),
			Scale:     scale,
		})
	}
	return s
}

// Current returns the selected instance, or nil when the scene is empty.
func (s *State) Current() *Instance {
	if s.Selected < 0 || s.Selected >= len(s.Instances) {
		return nil
	}
	return &s.Instances[s.Selected]
}

// Select makes instance i current. Out-of-range indices are ignored.
func (s *State) Select(i int) bool {
	if i < 0 || i >= len(s.Instances) {
		return false
	}
	s.Selected = i
	return true
}

// Move translates the selected instance by delta.
func (s *State) Move(delta mgl32.Vec3) {
	if inst := s.Current(); inst != nil {
		inst.Offset = inst.Offset.Add(delta)
	}
}

// Resize adds delta to the selected instance's scale, clamped to MinScale.
func (s *State) Resize(delta float32) {
	inst := s.Current()
	if inst == nil {
		return
	}
	inst.Scale += delta
	if inst.Scale < s.Controls.MinScale {
		inst.Scale = s.Controls.MinScale
	}
}

// ModelMatrix returns the model transform of instance i at t seconds.
// Only the selected instance rotates, by t radians around the active axis.
func (s *State) ModelMatrix(i int, t float32) mgl32.Mat4 {
	inst := s.Instances[i]

	model := mgl32.Scale3D(inst.Scale, inst.Scale, inst.Scale).
		Mul4(mgl32.Translate3D(inst.Offset.X(), inst.Offset.Y(), inst.Offset.Z()))

	if i == s.Selected && s.Rotation != AxisNone {
		model = model.Mul4(mgl32.HomogRotate3D(t, s.Rotation.Vector()))
	}
	return model
}

// Status summarises the selection for display, e.g. "left (1/2) rotate x scale 1.00".
func (s *State) Status() string {
	inst := s.Current()
	if inst == nil {
		return "no objects"
	}
	return fmt.Sprintf("%s (%d/%d) rotate %s scale %.2f",
		inst.Name, s.Selected+1, len(s.Instances), s.Rotation, inst.Scale)
}

// InstancesUsing returns the indices of instances drawn from path.
func (s *State) InstancesUsing(path string) []int {
	var idx []int
	for i, inst := range s.Instances {
		if inst.ModelPath == path {
			idx = append(idx, i)
		}
	}
	return idx
}
