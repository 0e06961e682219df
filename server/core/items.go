package core

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"

	"github.com/pawline/tether-mp/shared/netconfig"
	"github.com/pawline/tether-mp/shared/tethermath"
	"github.com/pawline/tether-mp/tether"
)

// Carry offsets relative to the holder: items ride slightly in front of the
// avatar at hand height.
var (
	carryForward = mgl64.Vec3{0, 0, 0.6}
	carryLift    = mgl64.Vec3{0, 1.0, 0}
)

// Item is the server-side state of one holdable tether entity. The handle
// keeps its pose here; the collar's pose is canonical inside tether.Collar
// and this struct only mirrors holder bookkeeping for it.
type Item struct {
	entity donburi.Entity
	kind   netconfig.ItemKind
	pos    mgl64.Vec3
	rot    mgl64.Quat
	heldBy netconfig.ParticipantID
}

func newItem(entity donburi.Entity, kind netconfig.ItemKind, pos mgl64.Vec3) *Item {
	return &Item{
		entity: entity,
		kind:   kind,
		pos:    pos,
		rot:    mgl64.QuatIdent(),
	}
}

// carryPose derives where a held item sits for the given holder.
func carryPose(holder *Participant) (mgl64.Vec3, mgl64.Quat) {
	pos := holder.Position().Add(holder.rot.Rotate(carryForward)).Add(carryLift)
	return pos, holder.rot
}

// hostSession realizes the ownership seam for the server process. The server
// hosts the authoritative simulation on behalf of whichever participant owns
// the collar, so IsLocalOwner is always true here; replicas on clients never
// construct one of these.
type hostSession struct {
	owner netconfig.ParticipantID
}

func (s *hostSession) CurrentOwner() netconfig.ParticipantID { return s.owner }
func (s *hostSession) SetOwner(id netconfig.ParticipantID)   { s.owner = id }
func (s *hostSession) IsLocalOwner() bool                    { return true }
func (s *hostSession) DefaultOwner() netconfig.ParticipantID { return netconfig.NoParticipant }

var _ tether.Session = (*hostSession)(nil)

// serverAnchors exposes connected participants' neck anchors to the collar.
// Calls happen on the tick goroutine while the server lock is held.
type serverAnchors struct {
	server *Server
}

func (a *serverAnchors) Anchor(id netconfig.ParticipantID) (tether.Pose, bool) {
	p, ok := a.server.participants[id]
	if !ok {
		return tether.Pose{}, false
	}
	return tether.Pose{Pos: a.server.neckAnchor(p), Rot: p.rot}, true
}

func (a *serverAnchors) Candidates() []tethermath.Candidate {
	out := make([]tethermath.Candidate, 0, len(a.server.participants))
	for id, p := range a.server.participants {
		out = append(out, tethermath.Candidate{
			ID:       id,
			Position: a.server.neckAnchor(p),
			Rotation: p.rot,
			Valid:    true,
		})
	}
	return out
}

var _ tether.AnchorProvider = (*serverAnchors)(nil)
