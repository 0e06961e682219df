package tether

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pawline/tether-mp/shared/netconfig"
	"github.com/pawline/tether-mp/shared/tethermath"
)

type fakeSession struct {
	owner      netconfig.ParticipantID
	defOwner   netconfig.ParticipantID
	localOwner bool
}

func (s *fakeSession) CurrentOwner() netconfig.ParticipantID { return s.owner }
func (s *fakeSession) SetOwner(id netconfig.ParticipantID)   { s.owner = id }
func (s *fakeSession) IsLocalOwner() bool                    { return s.localOwner }
func (s *fakeSession) DefaultOwner() netconfig.ParticipantID { return s.defOwner }

type fakeAnchors struct {
	anchors    map[netconfig.ParticipantID]Pose
	candidates []tethermath.Candidate
}

func (a *fakeAnchors) Anchor(id netconfig.ParticipantID) (Pose, bool) {
	p, ok := a.anchors[id]
	return p, ok
}

func (a *fakeAnchors) Candidates() []tethermath.Candidate { return a.candidates }

type fakeRig struct {
	pos mgl64.Vec3
	rot mgl64.Quat
	vel mgl64.Vec3

	teleported  bool
	teleportPos mgl64.Vec3
	velocitySet bool
}

func (r *fakeRig) Position() mgl64.Vec3 { return r.pos }
func (r *fakeRig) Rotation() mgl64.Quat { return r.rot }
func (r *fakeRig) Velocity() mgl64.Vec3 { return r.vel }

func (r *fakeRig) SetVelocity(v mgl64.Vec3) {
	r.vel = v
	r.velocitySet = true
}

func (r *fakeRig) TeleportTo(pos mgl64.Vec3, rot mgl64.Quat) {
	r.pos = pos
	r.rot = rot
	r.teleported = true
	r.teleportPos = pos
}

func testAnchors() *fakeAnchors {
	return &fakeAnchors{
		anchors: map[netconfig.ParticipantID]Pose{
			5: {Pos: mgl64.Vec3{1, 1.6, 0}, Rot: mgl64.QuatIdent()},
		},
		candidates: []tethermath.Candidate{
			{ID: 5, Position: mgl64.Vec3{1, 1.6, 0}, Rotation: mgl64.QuatIdent(), Valid: true},
		},
	}
}

func newTestCollar(session *fakeSession, anchors *fakeAnchors) *Collar {
	c := NewCollar(DefaultParams(), session, anchors)
	c.SetPose(Pose{Pos: mgl64.Vec3{1.2, 1.5, 0}, Rot: mgl64.QuatIdent()})
	return c
}

func TestActivateAttachesAndTransfersOwnership(t *testing.T) {
	session := &fakeSession{}
	anchors := testAnchors()
	c := newTestCollar(session, anchors)

	c.OnPickupStarted(9)
	if !c.Activate(9) {
		t.Fatal("expected attach to succeed")
	}

	if !c.Attached() || c.WearerID() != 5 {
		t.Fatalf("attached=%v wearer=%v", c.Attached(), c.WearerID())
	}
	if session.owner != 5 {
		t.Fatalf("ownership should transfer to the captured wearer, got %v", session.owner)
	}
	if c.HeldBy() != netconfig.NoParticipant {
		t.Fatal("collar must be forced out of the holder's hand on attach")
	}

	// Offset round-trip: re-deriving from the capture anchor reproduces the
	// captured position.
	anchor := anchors.anchors[5]
	got, _ := tethermath.ApplyOffset(anchor.Pos, anchor.Rot, c.PositionOffset(), c.RotationOffset())
	want := mgl64.Vec3{1.2, 1.5, 0}
	if got.Sub(want).Len() > 1e-12 {
		t.Fatalf("offset round-trip: got %v want %v", got, want)
	}
}

func TestActivateRequiresHolder(t *testing.T) {
	c := newTestCollar(&fakeSession{}, testAnchors())

	if c.Activate(9) {
		t.Fatal("activate without holding the collar must be a no-op")
	}
	c.OnPickupStarted(9)
	if c.Activate(4) {
		t.Fatal("activate by a non-holder must be a no-op")
	}
}

func TestActivateNoCandidateStaysDetached(t *testing.T) {
	anchors := &fakeAnchors{
		candidates: []tethermath.Candidate{
			{ID: 5, Position: mgl64.Vec3{100, 0, 0}, Valid: true},
			{ID: 6, Position: mgl64.Vec3{0.5, 0, 0}, Valid: false},
		},
	}
	c := newTestCollar(&fakeSession{}, anchors)
	c.OnPickupStarted(9)

	if c.Activate(9) {
		t.Fatal("expected no qualifying candidate")
	}
	if c.Attached() {
		t.Fatal("collar must stay detached")
	}
	if c.HeldBy() != 9 {
		t.Fatal("failed attach must not force a release")
	}
}

func TestSnapToAnchorVariant(t *testing.T) {
	session := &fakeSession{}
	anchors := testAnchors()
	c := newTestCollar(session, anchors)
	p := c.Params()
	p.SnapToAnchor = true
	c.SetParams(p)

	c.OnPickupStarted(9)
	if !c.Activate(9) {
		t.Fatal("expected attach to succeed")
	}
	anchor := anchors.anchors[5]
	if c.Pose().Pos.Sub(anchor.Pos).Len() > 1e-12 {
		t.Fatalf("snap variant should pin the collar to the anchor, got %v", c.Pose().Pos)
	}
}

func TestFollowTracksMovingAnchor(t *testing.T) {
	session := &fakeSession{localOwner: true}
	anchors := testAnchors()
	c := newTestCollar(session, anchors)
	c.OnPickupStarted(9)
	c.Activate(9)

	offset := c.PositionOffset()
	anchors.anchors[5] = Pose{Pos: mgl64.Vec3{4, 1.6, -2}, Rot: mgl64.QuatIdent()}
	c.Tick(nil, mgl64.Vec3{}, false, 1.0/30)

	want := anchors.anchors[5].Pos.Add(offset)
	if c.Pose().Pos.Sub(want).Len() > 1e-12 {
		t.Fatalf("collar should track the anchor continuously: got %v want %v", c.Pose().Pos, want)
	}
}

func TestDetachTriggers(t *testing.T) {
	t.Run("direct pickup", func(t *testing.T) {
		session := &fakeSession{}
		c := newTestCollar(session, testAnchors())
		c.OnPickupStarted(9)
		c.Activate(9)

		c.OnPickupStarted(7)
		if c.Attached() {
			t.Fatal("direct pickup must detach")
		}
		if c.HeldBy() != 7 {
			t.Fatalf("picker should now hold the collar, heldBy=%v", c.HeldBy())
		}
		if session.owner != 5 {
			t.Fatal("pickup detach must not reset the authority handle")
		}
	})

	t.Run("manual input", func(t *testing.T) {
		c := newTestCollar(&fakeSession{}, testAnchors())
		c.OnPickupStarted(9)
		c.Activate(9)

		c.Detach(netconfig.DetachByInput)
		if c.Attached() {
			t.Fatal("manual detach must clear Attached")
		}
	})

	t.Run("owner departure resets authority", func(t *testing.T) {
		session := &fakeSession{defOwner: 0}
		c := newTestCollar(session, testAnchors())
		c.OnPickupStarted(9)
		c.Activate(9)

		c.OnParticipantLeft(5)
		if c.Attached() {
			t.Fatal("owner departure must detach")
		}
		if session.owner != session.defOwner {
			t.Fatalf("authority handle should reset to the session default, got %v", session.owner)
		}
	})

	t.Run("unrelated departure is ignored", func(t *testing.T) {
		c := newTestCollar(&fakeSession{}, testAnchors())
		c.OnPickupStarted(9)
		c.Activate(9)

		c.OnParticipantLeft(42)
		if !c.Attached() {
			t.Fatal("departure of a bystander must not detach")
		}
	})
}

func TestPickupableGating(t *testing.T) {
	c := newTestCollar(&fakeSession{}, testAnchors())
	if !c.Pickupable() {
		t.Fatal("detached collar must be pickupable")
	}

	c.OnPickupStarted(9)
	c.Activate(9)
	if c.Pickupable() {
		t.Fatal("attached collar with CanPickupWhenAttached=false must refuse pickup")
	}

	p := c.Params()
	p.CanPickupWhenAttached = true
	c.SetParams(p)
	if !c.Pickupable() {
		t.Fatal("toggling the flag must revert the gate")
	}

	p.CanPickupWhenAttached = false
	c.SetParams(p)
	c.Detach(netconfig.DetachByInput)
	if !c.Pickupable() {
		t.Fatal("detaching must revert the gate")
	}
}

func attachForEnforcement(t *testing.T, rigPos mgl64.Vec3) (*Collar, *fakeAnchors, *fakeRig) {
	t.Helper()
	session := &fakeSession{localOwner: true}
	anchors := testAnchors()
	c := newTestCollar(session, anchors)
	p := c.Params()
	p.LeashLength = 1.5
	p.SnapToAnchor = true
	c.SetParams(p)
	c.OnPickupStarted(9)
	if !c.Activate(9) {
		t.Fatal("attach failed")
	}
	rig := &fakeRig{pos: rigPos, rot: mgl64.QuatIdent()}
	return c, anchors, rig
}

func TestEnforceRollbackOnBoundaryCrossing(t *testing.T) {
	// Anchor (and thus collar) starts 1.0 from the puller: inside the leash.
	c, anchors, rig := attachForEnforcement(t, mgl64.Vec3{1, 0, 0})
	anchors.anchors[5] = Pose{Pos: mgl64.Vec3{1, 0, 0}, Rot: mgl64.QuatIdent()}
	puller := mgl64.Vec3{}
	dt := 1.0 / 30

	c.Tick(rig, puller, true, dt) // primes the previous-tick sample

	// Wearer dashes to distance 2.0 this tick.
	anchors.anchors[5] = Pose{Pos: mgl64.Vec3{2, 0, 0}, Rot: mgl64.QuatIdent()}
	rig.pos = mgl64.Vec3{2, 0, 0}
	c.Tick(rig, puller, true, dt)

	if !rig.teleported {
		t.Fatal("boundary crossing must roll the wearer back")
	}
	if rig.teleportPos.Sub(mgl64.Vec3{1, 0, 0}).Len() > 1e-12 {
		t.Fatalf("rollback target: got %v want previous position", rig.teleportPos)
	}
}

func TestEnforceSustainedViolation(t *testing.T) {
	t.Run("moving away is rolled back", func(t *testing.T) {
		c, anchors, rig := attachForEnforcement(t, mgl64.Vec3{2, 0, 0})
		anchors.anchors[5] = Pose{Pos: mgl64.Vec3{2, 0, 0}, Rot: mgl64.QuatIdent()}
		puller := mgl64.Vec3{}
		dt := 1.0 / 30

		c.Tick(rig, puller, true, dt)

		anchors.anchors[5] = Pose{Pos: mgl64.Vec3{2.5, 0, 0}, Rot: mgl64.QuatIdent()}
		rig.pos = mgl64.Vec3{2.5, 0, 0}
		c.Tick(rig, puller, true, dt)

		if !rig.teleported {
			t.Fatal("walking further away while out of range must be rolled back")
		}
	})

	t.Run("approaching is allowed", func(t *testing.T) {
		c, anchors, rig := attachForEnforcement(t, mgl64.Vec3{2, 0, 0})
		anchors.anchors[5] = Pose{Pos: mgl64.Vec3{2, 0, 0}, Rot: mgl64.QuatIdent()}
		puller := mgl64.Vec3{}
		dt := 1.0 / 30

		c.Tick(rig, puller, true, dt)

		anchors.anchors[5] = Pose{Pos: mgl64.Vec3{1.8, 0, 0}, Rot: mgl64.QuatIdent()}
		rig.pos = mgl64.Vec3{1.8, 0, 0}
		c.Tick(rig, puller, true, dt)

		if rig.teleported {
			t.Fatal("retreating toward the puller must always be allowed")
		}
	})
}

func TestEnforcePullImpulse(t *testing.T) {
	c, anchors, rig := attachForEnforcement(t, mgl64.Vec3{2, 0, 0})
	anchors.anchors[5] = Pose{Pos: mgl64.Vec3{2, 0, 0}, Rot: mgl64.QuatIdent()}
	puller := mgl64.Vec3{}
	dt := 1.0 / 30

	c.Tick(rig, puller, true, dt)

	// Holding still at distance 2.0 > 1.5: rolled back in place (distance
	// unchanged counts as not strictly decreasing) and pulled at exactly
	// MinPullStrength toward the puller.
	c.Tick(rig, puller, true, dt)

	if !rig.velocitySet {
		t.Fatal("expected a pull impulse")
	}
	if math.Abs(rig.vel.Len()-4.0) > 1e-12 {
		t.Fatalf("pull magnitude = %v, want exactly 4.0", rig.vel.Len())
	}
	if rig.vel.Normalize().Sub(mgl64.Vec3{-1, 0, 0}).Len() > 1e-12 {
		t.Fatalf("pull direction = %v, want toward the puller", rig.vel.Normalize())
	}
}

func TestEnforceSkipsWithoutPuller(t *testing.T) {
	c, anchors, rig := attachForEnforcement(t, mgl64.Vec3{2, 0, 0})
	anchors.anchors[5] = Pose{Pos: mgl64.Vec3{2, 0, 0}, Rot: mgl64.QuatIdent()}
	dt := 1.0 / 30

	c.Tick(rig, mgl64.Vec3{}, false, dt)
	c.Tick(rig, mgl64.Vec3{}, false, dt)

	if rig.teleported || rig.velocitySet {
		t.Fatal("missing puller must skip the constraint tick entirely")
	}
}

func TestEnforceGatedOnAuthority(t *testing.T) {
	session := &fakeSession{localOwner: false}
	anchors := testAnchors()
	c := newTestCollar(session, anchors)
	p := c.Params()
	p.LeashLength = 1.5
	p.SnapToAnchor = true
	c.SetParams(p)
	c.OnPickupStarted(9)
	c.Activate(9)
	anchors.anchors[5] = Pose{Pos: mgl64.Vec3{2, 0, 0}, Rot: mgl64.QuatIdent()}
	rig := &fakeRig{pos: mgl64.Vec3{2, 0, 0}, rot: mgl64.QuatIdent()}
	dt := 1.0 / 30

	c.Tick(rig, mgl64.Vec3{}, true, dt)
	c.Tick(rig, mgl64.Vec3{}, true, dt)

	if rig.teleported || rig.velocitySet {
		t.Fatal("a non-authoritative replica must never drive the rig")
	}
}

func TestApplyReplica(t *testing.T) {
	c := NewCollar(DefaultParams(), &fakeSession{}, &fakeAnchors{})

	c.ApplyReplica(ReplicaState{
		Attached:              true,
		WearerID:              5,
		PositionOffset:        mgl64.Vec3{0.2, -0.1, 0},
		RotationOffset:        mgl64.QuatIdent(),
		Scale:                 1.5,
		CanPickupWhenAttached: false,
	})

	if !c.Attached() || c.WearerID() != 5 {
		t.Fatal("replica must mirror the received attachment state")
	}
	if c.Pickupable() {
		t.Fatal("pickupable gate must be re-derived on replication receipt")
	}

	c.ApplyReplica(ReplicaState{Attached: false, Scale: 1.5})
	if c.Attached() || !c.Pickupable() {
		t.Fatal("replica must mirror the detach and revert the gate")
	}
}
