package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/pawline/tether-mp/components"
	cfg "github.com/pawline/tether-mp/config"
	"github.com/pawline/tether-mp/shared/netcomponents"
	"github.com/pawline/tether-mp/shared/netconfig"
	"github.com/pawline/tether-mp/shared/tethermath"
	"github.com/pawline/tether-mp/tether"
)

// replicaSession is the read-only ownership view on an observing client.
// The enforcer never runs here.
type replicaSession struct {
	owner netconfig.ParticipantID
}

func (s *replicaSession) CurrentOwner() netconfig.ParticipantID { return s.owner }
func (s *replicaSession) SetOwner(id netconfig.ParticipantID)   { s.owner = id }
func (s *replicaSession) IsLocalOwner() bool                    { return false }
func (s *replicaSession) DefaultOwner() netconfig.ParticipantID { return netconfig.NoParticipant }

// replicaAnchors satisfies the anchor seam on replicas; poses arrive through
// the transform sync instead, so nothing is ever looked up.
type replicaAnchors struct{}

func (replicaAnchors) Anchor(netconfig.ParticipantID) (tether.Pose, bool) { return tether.Pose{}, false }
func (replicaAnchors) Candidates() []tethermath.Candidate                 { return nil }

// NewLeashViewEntity creates the singleton holding the client's leash
// presentation state.
func NewLeashViewEntity(world donburi.World) {
	entity := world.Create(components.LeashView)
	entry := world.Entry(entity)
	components.LeashView.Set(entry, &components.LeashViewData{
		Replica: tether.NewCollar(tether.DefaultParams(), &replicaSession{}, replicaAnchors{}),
		Feed:    tether.NewRenderFeed(cfg.LeashView.SampleCount, mgl64.Vec3{0, -1, 0}),
	})
}

// UpdateLeashView rebuilds the replica collar and sag polyline from the
// latest replicated state.
func UpdateLeashView(e *ecs.ECS) {
	viewEntry, ok := components.LeashView.First(e.World)
	if !ok {
		return
	}
	view := components.LeashView.Get(viewEntry)

	collarEntry := findItemEntry(e.World, netconfig.ItemCollar)
	handleEntry := findItemEntry(e.World, netconfig.ItemHandle)
	if collarEntry == nil || handleEntry == nil {
		return
	}

	var held bool
	if entry := collarEntry; entry.HasComponent(netcomponents.NetCollar) {
		data := netcomponents.NetCollar.Get(entry)
		view.Replica.ApplyReplica(tether.ReplicaState{
			Attached: data.Attached,
			WearerID: netconfig.ParticipantID(data.WearerID),
			HeldBy:   netconfig.ParticipantID(netcomponents.NetItem.Get(entry).HeldBy),
			PositionOffset: mgl64.Vec3{data.OffX, data.OffY, data.OffZ},
			RotationOffset: mgl64.Quat{
				W: data.RotOffW,
				V: mgl64.Vec3{data.RotOffX, data.RotOffY, data.RotOffZ},
			},
			Scale:                 data.Scale,
			CanPickupWhenAttached: data.CanPickupWhenAttached,
		})
		view.Attached = data.Attached
		view.WearerID = data.WearerID
		view.OwnerID = data.OwnerID
	}
	if entry := collarEntry; entry.HasComponent(netcomponents.NetLeashParams) {
		p := netcomponents.NetLeashParams.Get(entry)
		params := view.Replica.Params()
		if p.LeashLength != params.LeashLength ||
			p.MaxCaptureDistance != params.MaxCaptureDistance ||
			p.MinPullStrength != params.MinPullStrength ||
			p.VelocityMultiplier != params.VelocityMultiplier ||
			p.VariablePullStrength != params.VariablePullStrength ||
			p.SnapToAnchor != params.SnapToAnchor {
			// A parameter edit must show up even while the leash lies
			// static, so force the next polyline rebuild.
			view.Feed.Invalidate()
		}
		params.LeashLength = p.LeashLength
		params.MaxCaptureDistance = p.MaxCaptureDistance
		params.MinPullStrength = p.MinPullStrength
		params.VelocityMultiplier = p.VelocityMultiplier
		params.VariablePullStrength = p.VariablePullStrength
		params.SnapToAnchor = p.SnapToAnchor
		view.Replica.ApplyReplicaParams(params)
	}

	follower := transformVec(collarEntry)
	puller := transformVec(handleEntry)
	held = netcomponents.NetItem.Get(collarEntry).HeldBy != 0 ||
		netcomponents.NetItem.Get(handleEntry).HeldBy != 0

	// Ease the droop toward the analytic height instead of snapping, so
	// tautness changes read as the rope being drawn out.
	target := tethermath.SagHeight(view.Replica.Params().LeashLength, puller.Sub(follower).Len())
	if view.SagTween == nil || target != view.SagTarget {
		view.SagTween = gween.New(float32(view.SagHeight), float32(target), cfg.LeashView.SagEaseSeconds, ease.OutQuad)
		view.SagTarget = target
	}
	h, _ := view.SagTween.Update(1.0 / 60.0)
	if float64(h) != view.SagHeight {
		// The droop is still easing, keep redrawing until it lands.
		view.Feed.Invalidate()
	}
	view.SagHeight = float64(h)

	active := view.Attached || held
	view.Feed.UpdateWithHeight(follower, puller, view.SagHeight, active)

	if view.AttachFlash > 0 {
		view.AttachFlash--
	}
	if view.DetachFlash > 0 {
		view.DetachFlash--
	}
}

func findItemEntry(world donburi.World, kind netconfig.ItemKind) *donburi.Entry {
	var found *donburi.Entry
	netcomponents.NetItem.Each(world, func(entry *donburi.Entry) {
		if found != nil {
			return
		}
		if netcomponents.NetItem.Get(entry).Kind == int(kind) {
			found = entry
		}
	})
	return found
}

func transformVec(entry *donburi.Entry) mgl64.Vec3 {
	if !entry.HasComponent(netcomponents.NetTransform) {
		return mgl64.Vec3{}
	}
	tr := netcomponents.NetTransform.Get(entry)
	return mgl64.Vec3{tr.X, tr.Y, tr.Z}
}
