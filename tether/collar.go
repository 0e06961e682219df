package tether

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pawline/tether-mp/shared/netconfig"
	"github.com/pawline/tether-mp/shared/tethermath"
)

// Collar is the follower entity of the leash: a wearable that attaches to a
// participant's neck anchor and is then constrained to stay within
// LeashLength of the handle. One instance models exactly one follower/puller
// pair.
type Collar struct {
	params  Params
	session Session
	anchors AnchorProvider

	attached  bool
	wearerID  netconfig.ParticipantID
	posOffset mgl64.Vec3
	rotOffset mgl64.Quat

	heldBy netconfig.ParticipantID
	pose   Pose

	prev      MotionSample
	prevValid bool
}

// NewCollar builds a detached collar at the origin.
func NewCollar(params Params, session Session, anchors AnchorProvider) *Collar {
	return &Collar{
		params:    params,
		session:   session,
		anchors:   anchors,
		rotOffset: mgl64.QuatIdent(),
		pose:      Pose{Rot: mgl64.QuatIdent()},
	}
}

func (c *Collar) Attached() bool                    { return c.attached }
func (c *Collar) WearerID() netconfig.ParticipantID { return c.wearerID }
func (c *Collar) HeldBy() netconfig.ParticipantID   { return c.heldBy }
func (c *Collar) Pose() Pose                        { return c.pose }
func (c *Collar) Params() Params                    { return c.params }
func (c *Collar) PositionOffset() mgl64.Vec3        { return c.posOffset }
func (c *Collar) RotationOffset() mgl64.Quat        { return c.rotOffset }

// SetPose places the collar directly. Used for ground placement and while a
// holder carries it around; ignored by the follow logic while attached.
func (c *Collar) SetPose(p Pose) {
	if c.attached {
		return
	}
	c.pose = p
}

// SetParams replaces the tuning values. Callers gate this on ownership; the
// collar itself only stores.
func (c *Collar) SetParams(p Params) {
	c.params = p
}

// Pickupable reports whether the collar may currently be grabbed. While
// attached with CanPickupWhenAttached disabled the collar refuses pickup;
// it reverts as soon as either condition changes.
func (c *Collar) Pickupable() bool {
	return !c.attached || c.params.CanPickupWhenAttached
}

// Activate runs the attach search on behalf of the given holder. It is a
// no-op unless that participant is currently holding the detached collar and
// a qualifying anchor is found. On success the collar is forced out of the
// holder's hand, offsets are captured, and ownership transfers to the
// captured wearer.
func (c *Collar) Activate(by netconfig.ParticipantID) bool {
	if c.attached || by == netconfig.NoParticipant || by != c.heldBy {
		return false
	}

	target, ok := tethermath.NearestWithin(c.anchors.Candidates(), c.pose.Pos, c.params.MaxCaptureDistance)
	if !ok {
		return false
	}

	if c.params.SnapToAnchor {
		c.posOffset = mgl64.Vec3{}
		c.rotOffset = mgl64.QuatIdent()
	} else {
		c.posOffset, c.rotOffset = tethermath.CaptureOffset(c.pose.Pos, c.pose.Rot, target.Position, target.Rotation)
	}

	c.heldBy = netconfig.NoParticipant
	c.attached = true
	c.wearerID = target.ID
	c.prevValid = false
	c.session.SetOwner(target.ID)

	c.pose.Pos, c.pose.Rot = tethermath.ApplyOffset(target.Position, target.Rotation, c.posOffset, c.rotOffset)

	log.Printf("[collar] attached to participant %d (held by %d)", target.ID, by)
	return true
}

// Detach clears the attachment. Offsets keep their stale values; they are
// meaningless while detached and recomputed on the next attach. Only an
// owner-departure detach resets the authority handle.
func (c *Collar) Detach(reason netconfig.DetachReason) {
	if !c.attached {
		return
	}
	c.attached = false
	c.wearerID = netconfig.NoParticipant
	c.prevValid = false

	if reason == netconfig.DetachByOwnerLeft {
		c.session.SetOwner(c.session.DefaultOwner())
	}
	log.Printf("[collar] detached (%s)", reason)
}

// OnPickupStarted records a new holder. Picking the collar up directly while
// attached is one of the detach triggers.
func (c *Collar) OnPickupStarted(by netconfig.ParticipantID) {
	if c.attached {
		c.Detach(netconfig.DetachByPickup)
	}
	c.heldBy = by
}

// OnPickupStopped drops the collar if the given participant was holding it.
func (c *Collar) OnPickupStopped(by netconfig.ParticipantID) {
	if c.heldBy == by {
		c.heldBy = netconfig.NoParticipant
	}
}

// OnParticipantLeft handles a departure notification from the session layer.
func (c *Collar) OnParticipantLeft(id netconfig.ParticipantID) {
	if c.heldBy == id {
		c.heldBy = netconfig.NoParticipant
	}
	if c.attached && id == c.session.CurrentOwner() {
		c.Detach(netconfig.DetachByOwnerLeft)
	}
}

// Tick advances the collar by one fixed simulation step. While attached the
// pose is re-derived from the wearer's current anchor, and on the
// authoritative simulation the range constraint runs against the puller.
// rig may be nil and hasPuller false; the dependent features simply skip.
func (c *Collar) Tick(rig OperatorRig, puller mgl64.Vec3, hasPuller bool, dt float64) {
	if c.attached {
		if anchor, ok := c.anchors.Anchor(c.wearerID); ok {
			c.pose.Pos, c.pose.Rot = tethermath.ApplyOffset(anchor.Pos, anchor.Rot, c.posOffset, c.rotOffset)
		}
		if c.session.IsLocalOwner() && rig != nil && hasPuller && dt > 0 {
			c.enforce(rig, puller, dt)
		}
	}

	sample := MotionSample{Follower: c.pose.Pos, Puller: puller}
	if rig != nil {
		sample.Wearer = rig.Position()
	}
	c.prev = sample
	c.prevValid = c.attached && hasPuller && rig != nil
}

// enforce runs the three ordered constraint checks for the current tick. All
// three act on the owner's local simulation only; replicas see the result
// through the ordinary transform sync.
func (c *Collar) enforce(rig OperatorRig, pullerNow mgl64.Vec3, dt float64) {
	if !c.prevValid {
		return
	}

	currDist := pullerNow.Sub(c.pose.Pos).Len()
	prevDist := pullerNow.Sub(c.prev.Follower).Len()
	leash := c.params.LeashLength

	if tethermath.CheckRange(prevDist, currDist, leash) == tethermath.RangeRollback {
		rig.TeleportTo(c.prev.Wearer, rig.Rotation())
	}

	if currDist > leash {
		handleSpeed := pullerNow.Sub(c.prev.Puller).Len() / dt
		if v, ok := tethermath.PullVelocity(c.pose.Pos, pullerNow, rig.Velocity(), handleSpeed, c.params.Pull()); ok {
			rig.SetVelocity(v)
		}
	}
}

// ReplicaState is the received snapshot a non-authoritative observer applies.
type ReplicaState struct {
	Attached              bool
	WearerID              netconfig.ParticipantID
	HeldBy                netconfig.ParticipantID
	PositionOffset        mgl64.Vec3
	RotationOffset        mgl64.Quat
	Scale                 float64
	CanPickupWhenAttached bool
}

// ApplyReplica overwrites the canonical fields from a received snapshot.
// This is the only mutation path on replicas; they re-derive presentation
// state (pose, pickupable flag, render feed) and never write back.
func (c *Collar) ApplyReplica(s ReplicaState) {
	c.attached = s.Attached
	c.wearerID = s.WearerID
	c.heldBy = s.HeldBy
	c.posOffset = s.PositionOffset
	c.rotOffset = s.RotationOffset
	c.params.Scale = s.Scale
	c.params.CanPickupWhenAttached = s.CanPickupWhenAttached
}

// ApplyReplicaParams applies received leash tuning on a replica.
func (c *Collar) ApplyReplicaParams(p Params) {
	scale := c.params.Scale
	canPickup := c.params.CanPickupWhenAttached
	c.params = p
	c.params.Scale = scale
	c.params.CanPickupWhenAttached = canPickup
}
