package systems

import (
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi/ecs"

	"github.com/pawline/tether-mp/components"
	cfg "github.com/pawline/tether-mp/config"
	"github.com/pawline/tether-mp/shared/netcomponents"
)

// NewCameraSystem returns an update system that pans the view to the local
// avatar's ground position with smoothing.
func NewCameraSystem(localNetID func() esync.NetworkId) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		cameraEntry, ok := components.Camera.First(e.World)
		if !ok {
			return
		}
		camera := components.Camera.Get(cameraEntry)

		entity := esync.FindByNetworkId(e.World, localNetID())
		if !e.World.Valid(entity) {
			return
		}
		entry := e.World.Entry(entity)
		if !entry.HasComponent(netcomponents.NetTransform) {
			return
		}
		tr := netcomponents.NetTransform.Get(entry)

		if !camera.Initialized {
			camera.X = tr.X
			camera.Z = tr.Z
			camera.Initialized = true
			return
		}

		camera.X += (tr.X - camera.X) * cfg.View.CameraSmoothing
		camera.Z += (tr.Z - camera.Z) * cfg.View.CameraSmoothing
	}
}
