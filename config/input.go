package config

import "github.com/hajimehoshi/ebiten/v2"

// ActionID represents a logical game action
type ActionID int

const (
	ActionNone ActionID = iota
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionPickup
	ActionActivate
	ActionDetach
	ActionTogglePanel
	ActionCount // Must be last - used for array sizing
)

// InputConfig holds all input mappings
type InputConfig struct {
	Bindings map[ActionID][]ebiten.Key
}

// Input is the global input configuration
var Input InputConfig

func init() {
	Input = InputConfig{
		Bindings: map[ActionID][]ebiten.Key{
			ActionMoveLeft:    {ebiten.KeyLeft, ebiten.KeyA},
			ActionMoveRight:   {ebiten.KeyRight, ebiten.KeyD},
			ActionMoveUp:      {ebiten.KeyUp, ebiten.KeyW},
			ActionMoveDown:    {ebiten.KeyDown, ebiten.KeyS},
			ActionPickup:      {ebiten.KeySpace},
			ActionActivate:    {ebiten.KeyE},
			ActionDetach:      {ebiten.KeyQ},
			ActionTogglePanel: {ebiten.KeyTab},
		},
	}
}
