// Package tether implements the collar/handle leash behavior: the attachment
// state machine, the per-tick distance constraint on the wearer, and the
// sagging-curve render feed. It is transport-agnostic; the session, anchor,
// and wearer-rig collaborators are injected so the whole behavior can run
// against the live server or against fakes in tests.
package tether

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pawline/tether-mp/shared/netconfig"
	"github.com/pawline/tether-mp/shared/tethermath"
)

// Pose is a world-space position and rotation.
type Pose struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

// MotionSample retains the follower, puller, and wearer positions from the
// previous tick. It exists to make the enforcer's one-step-history velocity
// estimate explicit; it is overwritten every tick and holds no deeper history.
type MotionSample struct {
	Follower mgl64.Vec3
	Puller   mgl64.Vec3
	Wearer   mgl64.Vec3
}

// Session is the ownership seam to the external session layer. Exactly one
// participant is authoritative for the collar at any time; everyone else
// holds read-only replicas.
type Session interface {
	CurrentOwner() netconfig.ParticipantID
	SetOwner(netconfig.ParticipantID)
	// IsLocalOwner reports whether this process hosts the authoritative
	// simulation for the current owner. The constraint enforcer runs only
	// where this is true.
	IsLocalOwner() bool
	// DefaultOwner is whatever the session layer assigns when the current
	// owner departs.
	DefaultOwner() netconfig.ParticipantID
}

// AnchorProvider supplies neck anchors. Anchor is refreshed every tick for
// the attached wearer; Candidates is a snapshot taken only on the discrete
// activate input.
type AnchorProvider interface {
	Anchor(id netconfig.ParticipantID) (Pose, bool)
	Candidates() []tethermath.Candidate
}

// OperatorRig is the locally simulated avatar of the collar's wearer. All
// constraint actions go through it: rollbacks teleport, pulls set velocity.
type OperatorRig interface {
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	TeleportTo(pos mgl64.Vec3, rot mgl64.Quat)
}
