package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Action is a discrete user command produced by input handling.
type Action int

// Actions understood by Apply.
const (
	ActionNone Action = iota
	ActionQuit
	ActionRotateX
	ActionRotateY
	ActionRotateZ
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMoveNear
	ActionMoveFar
	ActionScaleDown
	ActionScaleUp
	ActionSelect
	ActionScreenshot
)

var actionNames = map[Action]string{
	ActionNone:       "none",
	ActionQuit:       "quit",
	ActionRotateX:    "rotate-x",
	ActionRotateY:    "rotate-y",
	ActionRotateZ:    "rotate-z",
	ActionMoveUp:     "move-up",
	ActionMoveDown:   "move-down",
	ActionMoveLeft:   "move-left",
	ActionMoveRight:  "move-right",
	ActionMoveNear:   "move-near",
	ActionMoveFar:    "move-far",
	ActionScaleDown:  "scale-down",
	ActionScaleUp:    "scale-up",
	ActionSelect:     "select",
	ActionScreenshot: "screenshot",
}

// String returns the action name.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Command pairs an action with its argument (the instance index for
// ActionSelect).
type Command struct {
	Action Action
	Index  int
}

// Apply executes cmd against the state. It reports whether the state
// changed. ActionQuit, ActionScreenshot and ActionNone are handled by the
// caller and never change state.
func (s *State) Apply(cmd Command) bool {
	step := s.Controls.MoveStep

	switch cmd.Action {
	case ActionRotateX:
		return s.setRotation(AxisX)
	case ActionRotateY:
		return s.setRotation(AxisY)
	case ActionRotateZ:
		return s.setRotation(AxisZ)
	case ActionMoveUp:
		s.Move(mgl32.Vec3{0, step, 0})
	case ActionMoveDown:
		s.Move(mgl32.Vec3{0, -step, 0})
	case ActionMoveLeft:
		s.Move(mgl32.Vec3{-step, 0, 0})
	case ActionMoveRight:
		s.Move(mgl32.Vec3{step, 0, 0})
	case ActionMoveNear:
		s.Move(mgl32.Vec3{0, 0, -step})
	case ActionMoveFar:
		s.Move(mgl32.Vec3{0, 0, step})
	case ActionScaleDown:
		s.Resize(-s.Controls.ScaleStep)
	case ActionScaleUp:
		s.Resize(s.Controls.ScaleStep)
	case ActionSelect:
		return s.Select(cmd.Index)
	default:
		return false
	}
	return s.Current() != nil
}

func (s *State) setRotation(axis Axis) bool {
	changed := s.Rotation != axis
	s.Rotation = axis
	return changed
}
