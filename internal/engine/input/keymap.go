package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/objview/internal/scene"
)

var keyActions = map[sdl.Scancode]scene.Action{
	sdl.SCANCODE_ESCAPE: scene.ActionQuit,

	sdl.SCANCODE_X: scene.ActionRotateX,
	sdl.SCANCODE_Y: scene.ActionRotateY,
	sdl.SCANCODE_Z: scene.ActionRotateZ,

	sdl.SCANCODE_W:     scene.ActionMoveUp,
	sdl.SCANCODE_UP:    scene.ActionMoveUp,
	sdl.SCANCODE_S:     scene.ActionMoveDown,
	sdl.SCANCODE_DOWN:  scene.ActionMoveDown,
	sdl.SCANCODE_A:     scene.ActionMoveLeft,
	sdl.SCANCODE_LEFT:  scene.ActionMoveLeft,
	sdl.SCANCODE_D:     scene.ActionMoveRight,
	sdl.SCANCODE_RIGHT: scene.ActionMoveRight,
	sdl.SCANCODE_Q:     scene.ActionMoveNear,
	sdl.SCANCODE_E:     scene.ActionMoveFar,

	sdl.SCANCODE_F: scene.ActionScaleDown,
	sdl.SCANCODE_G: scene.ActionScaleUp,

	sdl.SCANCODE_F12: scene.ActionScreenshot,
}

// CommandForKey maps a physical key to a scene command. Number keys 1-9
// select instances 0-8.
func CommandForKey(key sdl.Scancode) (scene.Command, bool) {
	if key >= sdl.SCANCODE_1 && key <= sdl.SCANCODE_9 {
		return scene.Command{Action: scene.ActionSelect, Index: int(key - sdl.SCANCODE_1)}, true
	}
	if action, ok := keyActions[key]; ok {
		return scene.Command{Action: action}, true
	}
	return scene.Command{}, false
}
