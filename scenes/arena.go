package scenes

import (
	"image/color"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/pawline/tether-mp/components"
	cfg "github.com/pawline/tether-mp/config"
	"github.com/pawline/tether-mp/network"
	"github.com/pawline/tether-mp/shared/messages"
	"github.com/pawline/tether-mp/shared/netcomponents"
	"github.com/pawline/tether-mp/systems"
	"github.com/pawline/tether-mp/ui"
)

// ArenaScene runs the networked session: it applies world snapshots, drives
// the presentation systems, and forwards input to the server.
type ArenaScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	netClient    *network.Client
	paramsUI     *ui.ParamsUI
	panel        *components.PanelData
	once         sync.Once
	presentIDs   map[esync.NetworkId]bool
}

func NewArenaScene(sc SceneChanger, client *network.Client) *ArenaScene {
	return &ArenaScene{
		sceneChanger: sc,
		netClient:    client,
		presentIDs:   make(map[esync.NetworkId]bool),
	}
}

func (as *ArenaScene) Update() {
	as.once.Do(as.configure)

	state := as.netClient.State()
	if state == network.StateDisconnected || state == network.StateError {
		log.Println("[arena] disconnected, returning to menu")
		as.netClient.Disconnect()
		as.sceneChanger.ChangeScene(NewMenuScene(as.sceneChanger))
		return
	}

	if snap := as.netClient.LatestSnapshot(); snap != nil {
		as.applySnapshot(*snap)
	}

	as.drainLeashEvents()

	as.ecsWorld.Update()

	if as.panel.Visible {
		// Seed the edit state from the replicated params the first frame
		// the panel opens so it always starts from the live values.
		if !as.panel.Dirty {
			as.seedPanel()
		}
		as.paramsUI.UI.Update()
	}
}

func (as *ArenaScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if as.ecsWorld == nil {
		return
	}

	as.ecsWorld.Draw(screen)

	if as.panel.Visible {
		as.paramsUI.UI.Draw(screen)
	}
}

func (as *ArenaScene) configure() {
	as.ecsWorld = ecs.NewECS(donburi.NewWorld())
	world := as.ecsWorld.World

	systems.NewLeashViewEntity(world)
	if saved, err := systems.LoadSettings(); err == nil && saved != nil && saved.CurveSamples >= 2 {
		if entry, ok := components.LeashView.First(world); ok {
			components.LeashView.Get(entry).Feed.SetSampleCount(saved.CurveSamples)
		}
	}

	cameraEntity := world.Create(components.Camera)
	components.Camera.Set(world.Entry(cameraEntity), &components.CameraData{})

	panelEntity := world.Create(components.Panel)
	as.panel = components.Panel.Get(world.Entry(panelEntity))

	sendFn := func(msg any) error {
		if as.netClient.State() != network.StateJoinedGame {
			return nil
		}
		return as.netClient.SendMessage(msg)
	}
	localNetID := func() esync.NetworkId {
		return as.netClient.NetworkID()
	}

	as.paramsUI = ui.NewParamsUI(as.panel, func(msg messages.SetLeashParams) {
		if err := sendFn(msg); err != nil {
			log.Println("[arena] failed to send leash params:", err)
		}
	})

	as.ecsWorld.AddSystem(systems.NewNetworkInputSystem(sendFn))
	as.ecsWorld.AddSystem(systems.NewNetInterpSystem(as.netClient.TickRate))
	as.ecsWorld.AddSystem(systems.UpdateLeashView)
	as.ecsWorld.AddSystem(systems.NewCameraSystem(localNetID))

	as.ecsWorld.AddRenderer(cfg.Default, systems.NewArenaDrawer(as.netClient.ArenaSize))
	as.ecsWorld.AddRenderer(cfg.Default, systems.DrawLeash)
	as.ecsWorld.AddRenderer(cfg.Default, systems.DrawItems)
	as.ecsWorld.AddRenderer(cfg.Default, systems.NewParticipantDrawer(localNetID))
	as.ecsWorld.AddRenderer(cfg.Default, systems.NewHUDDrawer(as.netClient.ServerName))
}

// seedPanel copies the replicated leash tuning into the panel edit state.
func (as *ArenaScene) seedPanel() {
	viewEntry, ok := components.LeashView.First(as.ecsWorld.World)
	if !ok {
		return
	}
	view := components.LeashView.Get(viewEntry)
	params := view.Replica.Params()

	as.panel.LeashLength = params.LeashLength
	as.panel.MaxCaptureDistance = params.MaxCaptureDistance
	as.panel.MinPullStrength = params.MinPullStrength
	as.panel.VelocityMultiplier = params.VelocityMultiplier
	as.panel.VariablePullStrength = params.VariablePullStrength
	as.panel.SnapToAnchor = params.SnapToAnchor
	as.panel.Scale = params.Scale
	as.panel.CanPickupWhenAttached = params.CanPickupWhenAttached
	as.paramsUI.UpdateUI()
}

// drainLeashEvents turns attach/detach broadcasts into HUD flashes.
func (as *ArenaScene) drainLeashEvents() {
	attached := as.netClient.DrainAttachEvents()
	detached := as.netClient.DrainDetachEvents()
	if len(attached) == 0 && len(detached) == 0 {
		return
	}

	viewEntry, ok := components.LeashView.First(as.ecsWorld.World)
	if !ok {
		return
	}
	view := components.LeashView.Get(viewEntry)
	if len(attached) > 0 {
		view.AttachFlash = cfg.LeashView.FlashFrames
	}
	if len(detached) > 0 {
		view.DetachFlash = cfg.LeashView.FlashFrames
	}
}

func (as *ArenaScene) applySnapshot(snapshot esync.WorldSnapshot) {
	world := as.ecsWorld.World
	myNetID := as.netClient.NetworkID()

	clear(as.presentIDs)

	for _, ent := range snapshot {
		as.presentIDs[ent.Id] = true

		var compData []any
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				continue
			}
			compData = append(compData, instance)
		}

		entity := esync.FindByNetworkId(world, ent.Id)
		if !world.Valid(entity) {
			ctypes := componentTypesFromInstances(compData)
			entity = world.Create(ctypes...)

			entry := world.Entry(entity)
			entry.AddComponent(esync.NetworkIdComponent)
			esync.NetworkIdComponent.SetValue(entry, ent.Id)
			entry.AddComponent(components.NetInterp)
		}

		entry := world.Entry(entity)

		// Extract velocity first so transform interpolation can extrapolate.
		var vel *netcomponents.NetVelocityData
		for _, data := range compData {
			if v, ok := data.(netcomponents.NetVelocityData); ok {
				vel = &v
				break
			}
		}

		for _, data := range compData {
			if t, ok := data.(netcomponents.NetTransformData); ok && entry.HasComponent(components.NetInterp) {
				applyTransformSnapshot(entry, t, vel)
			} else {
				applyComponentToEntry(entry, data)
			}
		}

		if ent.Id == myNetID && entry.HasComponent(netcomponents.NetParticipant) {
			netcomponents.NetParticipant.Get(entry).IsLocal = true
		}
	}

	esync.NetworkEntityQuery.Each(world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil {
			return
		}
		if !as.presentIDs[*id] {
			entry.Remove()
		}
	})
}

// applyTransformSnapshot routes a replicated transform into the interpolation
// component instead of overwriting the rendered transform directly.
func applyTransformSnapshot(entry *donburi.Entry, t netcomponents.NetTransformData, vel *netcomponents.NetVelocityData) {
	interp := components.NetInterp.Get(entry)

	if !interp.Initialized {
		// First snapshot, set the transform directly with no interpolation.
		applyComponentToEntry(entry, t)
		interp.PrevX, interp.PrevY, interp.PrevZ = t.X, t.Y, t.Z
		interp.TargetX, interp.TargetY, interp.TargetZ = t.X, t.Y, t.Z
		interp.T = 1.0
		interp.Initialized = true
	} else {
		cur := netcomponents.NetTransform.Get(entry)
		interp.PrevX, interp.PrevY, interp.PrevZ = cur.X, cur.Y, cur.Z
		interp.TargetX, interp.TargetY, interp.TargetZ = t.X, t.Y, t.Z
		interp.T = 0
	}

	interp.RotW, interp.RotX, interp.RotY, interp.RotZ = t.RW, t.RX, t.RY, t.RZ
	if vel != nil {
		interp.VelX, interp.VelY, interp.VelZ = vel.VX, vel.VY, vel.VZ
	}
}

func componentTypesFromInstances(compData []any) []donburi.IComponentType {
	var ctypes []donburi.IComponentType
	for _, data := range compData {
		switch data.(type) {
		case netcomponents.NetTransformData:
			ctypes = append(ctypes, netcomponents.NetTransform)
		case netcomponents.NetVelocityData:
			ctypes = append(ctypes, netcomponents.NetVelocity)
		case netcomponents.NetParticipantData:
			ctypes = append(ctypes, netcomponents.NetParticipant)
		case netcomponents.NetItemData:
			ctypes = append(ctypes, netcomponents.NetItem)
		case netcomponents.NetCollarData:
			ctypes = append(ctypes, netcomponents.NetCollar)
		case netcomponents.NetLeashParamsData:
			ctypes = append(ctypes, netcomponents.NetLeashParams)
		}
	}
	return ctypes
}

func applyComponentToEntry(entry *donburi.Entry, data any) {
	switch v := data.(type) {
	case netcomponents.NetTransformData:
		if !entry.HasComponent(netcomponents.NetTransform) {
			entry.AddComponent(netcomponents.NetTransform)
		}
		netcomponents.NetTransform.SetValue(entry, v)
	case netcomponents.NetVelocityData:
		if !entry.HasComponent(netcomponents.NetVelocity) {
			entry.AddComponent(netcomponents.NetVelocity)
		}
		netcomponents.NetVelocity.SetValue(entry, v)
	case netcomponents.NetParticipantData:
		if !entry.HasComponent(netcomponents.NetParticipant) {
			entry.AddComponent(netcomponents.NetParticipant)
		}
		// IsLocal is client-side state, keep it across snapshots.
		isLocal := false
		if entry.HasComponent(netcomponents.NetParticipant) {
			isLocal = netcomponents.NetParticipant.Get(entry).IsLocal
		}
		v.IsLocal = isLocal
		netcomponents.NetParticipant.SetValue(entry, v)
	case netcomponents.NetItemData:
		if !entry.HasComponent(netcomponents.NetItem) {
			entry.AddComponent(netcomponents.NetItem)
		}
		netcomponents.NetItem.SetValue(entry, v)
	case netcomponents.NetCollarData:
		if !entry.HasComponent(netcomponents.NetCollar) {
			entry.AddComponent(netcomponents.NetCollar)
		}
		netcomponents.NetCollar.SetValue(entry, v)
	case netcomponents.NetLeashParamsData:
		if !entry.HasComponent(netcomponents.NetLeashParams) {
			entry.AddComponent(netcomponents.NetLeashParams)
		}
		netcomponents.NetLeashParams.SetValue(entry, v)
	}
}
