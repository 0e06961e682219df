package systems

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi/ecs"

	"github.com/pawline/tether-mp/components"
	cfg "github.com/pawline/tether-mp/config"
	"github.com/pawline/tether-mp/shared/messages"
)

const resendInterval = 50 * time.Millisecond

type netInputState struct {
	seq          uint32
	lastDirX     float64
	lastDirZ     float64
	lastSendTime time.Time
}

// NewNetworkInputSystem returns an ECS system that polls the keyboard and
// sends inputs to the server: held movement as OperatorInput, the discrete
// tether actions as their own messages on key press edges.
func NewNetworkInputSystem(sendFn func(any) error) func(*ecs.ECS) {
	state := &netInputState{}
	bindings := cfg.Input.Bindings

	return func(e *ecs.ECS) {
		var dirX, dirZ float64
		if anyKeyPressed(bindings[cfg.ActionMoveLeft]) {
			dirX -= 1
		}
		if anyKeyPressed(bindings[cfg.ActionMoveRight]) {
			dirX += 1
		}
		if anyKeyPressed(bindings[cfg.ActionMoveUp]) {
			dirZ -= 1
		}
		if anyKeyPressed(bindings[cfg.ActionMoveDown]) {
			dirZ += 1
		}

		// Discrete actions are edge-triggered and sent immediately.
		if anyKeyJustPressed(bindings[cfg.ActionPickup]) {
			if err := sendFn(messages.PickupRequest{}); err != nil {
				log.Printf("[netinput] send pickup: %v", err)
			}
		}
		if anyKeyJustPressed(bindings[cfg.ActionActivate]) {
			if err := sendFn(messages.ActivateRequest{}); err != nil {
				log.Printf("[netinput] send activate: %v", err)
			}
		}
		if anyKeyJustPressed(bindings[cfg.ActionDetach]) {
			if err := sendFn(messages.DetachRequest{}); err != nil {
				log.Printf("[netinput] send detach: %v", err)
			}
		}
		if anyKeyJustPressed(bindings[cfg.ActionTogglePanel]) {
			if entry, ok := components.Panel.First(e.World); ok {
				panel := components.Panel.Get(entry)
				panel.Visible = !panel.Visible
			}
		}

		// Movement is resent on change or on the keepalive interval.
		changed := dirX != state.lastDirX || dirZ != state.lastDirZ
		now := time.Now()
		if !changed && now.Sub(state.lastSendTime) < resendInterval {
			return
		}

		state.seq++
		input := messages.OperatorInput{
			Sequence:  state.seq,
			DirX:      dirX,
			DirZ:      dirZ,
			Timestamp: now.UnixMilli(),
		}
		if err := sendFn(input); err != nil {
			log.Printf("[netinput] send error: %v", err)
		}

		state.lastDirX = dirX
		state.lastDirZ = dirZ
		state.lastSendTime = now
	}
}

func anyKeyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyKeyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
