package tethermath

import "github.com/go-gl/mathgl/mgl64"

// RangeDecision is the outcome of the per-tick range check on the wearer's
// movement.
type RangeDecision int

const (
	// RangeAllow permits the movement as-is.
	RangeAllow RangeDecision = iota
	// RangeRollback teleports the wearer back to the previous-tick position.
	RangeRollback
)

// CheckRange evaluates the two rollback conditions against the distance from
// the puller to the follower on the previous and current tick.
//
// A movement that newly crosses the leash boundary is rolled back outright:
// it means the wearer moved fast enough this tick (dash, teleport) to violate
// the constraint before the pull could act. A movement that starts and ends
// outside the boundary is permitted only while it strictly decreases the
// distance, so a wearer already out of range can always retreat toward the
// puller but never walk further away.
func CheckRange(prevDistance, currDistance, leashLength float64) RangeDecision {
	if prevDistance <= leashLength && currDistance > leashLength {
		return RangeRollback
	}
	if prevDistance > leashLength && currDistance > leashLength && currDistance >= prevDistance {
		return RangeRollback
	}
	return RangeAllow
}

// PullParams are the tuning values for the over-length pull impulse.
type PullParams struct {
	MinPullStrength      float64
	VelocityMultiplier   float64
	VariablePullStrength bool
}

// PullVelocity computes the velocity impulse that drags the wearer toward the
// puller when the leash is over length. handleSpeed is the puller's speed
// estimated from its one-tick position delta. The second return is false when
// no impulse should be applied: either the anchors coincide, or the wearer is
// already moving at sufficient speed in a direction misaligned with the pull
// (dot < 0.95), in which case the wearer's own velocity is left untouched.
func PullVelocity(followerPos, pullerPos, wearerVel mgl64.Vec3, handleSpeed float64, p PullParams) (mgl64.Vec3, bool) {
	delta := pullerPos.Sub(followerPos)
	dist := delta.Len()
	if dist == 0 {
		return mgl64.Vec3{}, false
	}
	dir := delta.Mul(1 / dist)

	strength := p.MinPullStrength * p.VelocityMultiplier
	if p.VariablePullStrength {
		s := handleSpeed
		if s < p.MinPullStrength {
			s = p.MinPullStrength
		}
		strength = s * p.VelocityMultiplier
	}

	speed := wearerVel.Len()
	if speed > 0 {
		dot := wearerVel.Mul(1 / speed).Dot(dir)
		if dot < 0.95 && speed >= strength {
			return mgl64.Vec3{}, false
		}
	}
	return dir.Mul(strength), true
}
