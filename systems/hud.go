package systems

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/pawline/tether-mp/components"
	cfg "github.com/pawline/tether-mp/config"
	"github.com/pawline/tether-mp/fonts"
	"github.com/pawline/tether-mp/shared/netcomponents"
)

// NewHUDDrawer renders connection and leash status plus the controls hint.
func NewHUDDrawer(serverName func() string) func(*ecs.ECS, *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		smallFont := fonts.Small.Get()

		participants := 0
		netcomponents.NetParticipant.Each(e.World, func(_ *donburi.Entry) {
			participants++
		})
		info := fmt.Sprintf("%s - %d online", serverName(), participants)
		text.Draw(screen, info, smallFont, 6, 14, cfg.LightGreen)

		viewEntry, ok := components.LeashView.First(e.World)
		if !ok {
			return
		}
		view := components.LeashView.Get(viewEntry)

		status := "leash: detached"
		statusColor := cfg.White
		if view.Attached {
			status = fmt.Sprintf("leash: attached to %s (owner %d)",
				participantName(e.World, view.WearerID), view.OwnerID)
			statusColor = cfg.Orange
		}
		text.Draw(screen, status, smallFont, 6, 28, statusColor)

		if view.AttachFlash > 0 {
			text.Draw(screen, "LEASH ATTACHED", fonts.Bold.Get(),
				cfg.C.Width/2-70, 40, cfg.Yellow)
		}
		if view.DetachFlash > 0 {
			text.Draw(screen, "LEASH DETACHED", fonts.Bold.Get(),
				cfg.C.Width/2-70, 40, cfg.Red)
		}

		hint := "WASD move | Space pickup/drop | E attach | Q detach | Tab tuning"
		text.Draw(screen, hint, smallFont, 6, cfg.C.Height-8, cfg.DarkBlue)
	}
}

func participantName(world donburi.World, id uint) string {
	name := fmt.Sprintf("#%d", id)
	netcomponents.NetParticipant.Each(world, func(entry *donburi.Entry) {
		p := netcomponents.NetParticipant.Get(entry)
		if p.ID == id && p.Name != "" {
			name = p.Name
		}
	})
	return name
}
