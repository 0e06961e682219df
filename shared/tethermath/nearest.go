package tethermath

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pawline/tether-mp/shared/netconfig"
)

// Candidate is one attachable anchor in a snapshot of the session. Valid is
// false when the participant disconnected between snapshot and use; such
// entries are skipped, not treated as errors.
type Candidate struct {
	ID       netconfig.ParticipantID
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Valid    bool
}

// NearestWithin returns the candidate whose anchor is closest to from,
// restricted to anchors within maxDistance. Ties keep the first candidate
// encountered, which makes the result deterministic for a given snapshot
// order. The second return is false when no candidate qualifies.
func NearestWithin(candidates []Candidate, from mgl64.Vec3, maxDistance float64) (Candidate, bool) {
	best := Candidate{}
	bestDist := maxDistance
	found := false
	for _, c := range candidates {
		if !c.Valid {
			continue
		}
		d := c.Position.Sub(from).Len()
		if d > maxDistance {
			continue
		}
		if !found || d < bestDist {
			best = c
			bestDist = d
			found = true
		}
	}
	return best, found
}
