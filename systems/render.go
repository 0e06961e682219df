package systems

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/pawline/tether-mp/components"
	cfg "github.com/pawline/tether-mp/config"
	"github.com/pawline/tether-mp/fonts"
	"github.com/pawline/tether-mp/shared/netcomponents"
	"github.com/pawline/tether-mp/shared/netconfig"
)

// View renders the 3D arena top-down with an oblique height shift: a world
// point (x, y, z) lands at screen (x*s, (z - y*shear)*s) relative to the
// camera, so lifted points (carried items, the leash droop) read as height.

func project(camera *components.CameraData, p mgl64.Vec3) (float32, float32) {
	s := cfg.View.Scale
	sx := (p.X()-camera.X)*s + float64(cfg.C.Width)/2
	sy := ((p.Z()-camera.Z)-p.Y()*cfg.View.HeightShear)*s + float64(cfg.C.Height)/2
	return float32(sx), float32(sy)
}

func cameraOf(world donburi.World) *components.CameraData {
	if entry, ok := components.Camera.First(world); ok {
		return components.Camera.Get(entry)
	}
	return &components.CameraData{}
}

// NewArenaDrawer returns a renderer for the floor and boundary walls.
func NewArenaDrawer(arenaSize func() (w, d float64)) func(*ecs.ECS, *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		w, d := arenaSize()
		if w <= 0 || d <= 0 {
			return
		}
		camera := cameraOf(e.World)

		x0, y0 := project(camera, mgl64.Vec3{0, 0, 0})
		x1, y1 := project(camera, mgl64.Vec3{w, 0, d})
		vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, cfg.ArenaFloor, false)

		// Boundary walls as a stroked border.
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, float32(cfg.View.Scale), cfg.ArenaWall, false)
	}
}

// NewParticipantDrawer returns a renderer for all participant avatars.
func NewParticipantDrawer(localNetID func() esync.NetworkId) func(*ecs.ECS, *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		camera := cameraOf(e.World)
		smallFont := fonts.Small.Get()

		var wearerID uint
		var attached bool
		if viewEntry, ok := components.LeashView.First(e.World); ok {
			view := components.LeashView.Get(viewEntry)
			attached = view.Attached
			wearerID = view.WearerID
		}

		local := localNetID()
		radius := float32(cfg.Avatar.BodyRadius * cfg.View.Scale)

		netcomponents.NetParticipant.Each(e.World, func(entry *donburi.Entry) {
			if !entry.HasComponent(netcomponents.NetTransform) {
				return
			}
			tr := netcomponents.NetTransform.Get(entry)
			part := netcomponents.NetParticipant.Get(entry)

			pos := mgl64.Vec3{tr.X, tr.Y, tr.Z}
			sx, sy := project(camera, pos)

			bodyColor := cfg.Avatar.RemoteColor
			nid := esync.GetNetworkId(entry)
			if nid != nil && *nid == local {
				bodyColor = cfg.Avatar.LocalColor
			}
			if attached && part.ID == wearerID {
				bodyColor = cfg.Avatar.WearerColor
			}

			vector.DrawFilledCircle(screen, sx, sy, radius, bodyColor, true)

			// Facing tick from the avatar's yaw.
			rot := mgl64.Quat{W: tr.RW, V: mgl64.Vec3{tr.RX, tr.RY, tr.RZ}}
			forward := rot.Rotate(mgl64.Vec3{0, 0, 1}).Mul(cfg.Avatar.FacingLength)
			fx, fy := project(camera, pos.Add(forward))
			vector.StrokeLine(screen, sx, sy, fx, fy, 2, cfg.White, true)

			name := part.Name
			if name == "" && nid != nil {
				name = "P" + strconv.Itoa(int(*nid))
			}
			text.Draw(screen, name, smallFont,
				int(sx)-len(name)*3, int(sy)-int(cfg.Avatar.NameOffsetY), cfg.White)
		})
	}
}

// DrawItems renders the collar and handle.
func DrawItems(e *ecs.ECS, screen *ebiten.Image) {
	camera := cameraOf(e.World)

	scale := 1.0
	var attachFlash int
	if viewEntry, ok := components.LeashView.First(e.World); ok {
		view := components.LeashView.Get(viewEntry)
		scale = view.Replica.Params().Scale
		if scale <= 0 {
			scale = 1.0
		}
		attachFlash = view.AttachFlash
	}

	netcomponents.NetItem.Each(e.World, func(entry *donburi.Entry) {
		if !entry.HasComponent(netcomponents.NetTransform) {
			return
		}
		tr := netcomponents.NetTransform.Get(entry)
		item := netcomponents.NetItem.Get(entry)
		sx, sy := project(camera, mgl64.Vec3{tr.X, tr.Y, tr.Z})

		switch netconfig.ItemKind(item.Kind) {
		case netconfig.ItemCollar:
			r := float32(0.3 * scale * cfg.View.Scale)
			c := cfg.Yellow
			if attachFlash > 0 {
				c = cfg.White
			} else if !item.Pickupable {
				c = cfg.Orange
			}
			vector.StrokeCircle(screen, sx, sy, r, 3, c, true)
		case netconfig.ItemHandle:
			half := float32(0.25 * cfg.View.Scale)
			vector.DrawFilledRect(screen, sx-half, sy-half, half*2, half*2, cfg.LightBlue, false)
		}
	})
}

// DrawLeash renders the sagging polyline between collar and handle while the
// leash is attached.
func DrawLeash(e *ecs.ECS, screen *ebiten.Image) {
	viewEntry, ok := components.LeashView.First(e.World)
	if !ok {
		return
	}
	view := components.LeashView.Get(viewEntry)
	if !view.Attached {
		return
	}

	points := view.Feed.Points()
	if len(points) < 2 {
		return
	}

	camera := cameraOf(e.World)

	// Taut leash renders in the warning color.
	lineColor := cfg.LeashView.SlackColor
	span := points[len(points)-1].Sub(points[0]).Len()
	if span >= view.Replica.Params().LeashLength {
		lineColor = cfg.LeashView.TautColor
	}

	px, py := project(camera, points[0])
	for _, p := range points[1:] {
		nx, ny := project(camera, p)
		vector.StrokeLine(screen, px, py, nx, ny, cfg.LeashView.LineWidth, lineColor, true)
		px, py = nx, ny
	}
}
