package tethermath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCheckRange(t *testing.T) {
	const leash = 1.5

	cases := []struct {
		name string
		prev float64
		curr float64
		want RangeDecision
	}{
		{"inside to inside", 1.0, 1.2, RangeAllow},
		{"boundary crossing", 1.0, 2.0, RangeRollback},
		{"sustained, moving away", 2.0, 2.5, RangeRollback},
		{"sustained, holding distance", 2.0, 2.0, RangeRollback},
		{"sustained, approaching", 2.0, 1.8, RangeAllow},
		{"returning inside", 2.0, 1.4, RangeAllow},
		{"exactly at length", 1.0, 1.5, RangeAllow},
	}
	for _, c := range cases {
		if got := CheckRange(c.prev, c.curr, leash); got != c.want {
			t.Errorf("%s: CheckRange(%v, %v, %v) = %v, want %v", c.name, c.prev, c.curr, leash, got, c.want)
		}
	}
}

func TestPullVelocityFixedStrength(t *testing.T) {
	p := PullParams{MinPullStrength: 4, VelocityMultiplier: 1, VariablePullStrength: false}

	// Wearer 2.0 from the puller along +X; at rest, so no suppression.
	v, ok := PullVelocity(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{}, 0, p)
	if !ok {
		t.Fatal("expected an impulse")
	}
	if math.Abs(v.Len()-4.0) > 1e-12 {
		t.Fatalf("impulse magnitude = %v, want exactly 4.0", v.Len())
	}
	if v.Normalize().Sub(mgl64.Vec3{1, 0, 0}).Len() > 1e-12 {
		t.Fatalf("impulse direction = %v, want toward the puller (+X)", v.Normalize())
	}
}

func TestPullVelocityVariableStrength(t *testing.T) {
	p := PullParams{MinPullStrength: 4, VelocityMultiplier: 2, VariablePullStrength: true}

	// Handle moving faster than the floor: strength follows the handle.
	v, ok := PullVelocity(mgl64.Vec3{}, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{}, 10, p)
	if !ok || math.Abs(v.Len()-20) > 1e-12 {
		t.Fatalf("variable strength: got %v, want magnitude 20", v.Len())
	}

	// Handle slower than the floor: MinPullStrength wins.
	v, ok = PullVelocity(mgl64.Vec3{}, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{}, 1, p)
	if !ok || math.Abs(v.Len()-8) > 1e-12 {
		t.Fatalf("variable strength floor: got %v, want magnitude 8", v.Len())
	}
}

func TestPullVelocitySuppression(t *testing.T) {
	p := PullParams{MinPullStrength: 4, VelocityMultiplier: 1}
	follower := mgl64.Vec3{0, 0, 0}
	puller := mgl64.Vec3{2, 0, 0}

	// Aligned with the pull at any speed: always overwritten.
	if _, ok := PullVelocity(follower, puller, mgl64.Vec3{50, 0, 0}, 0, p); !ok {
		t.Fatal("aligned velocity must never suppress the impulse")
	}

	// Misaligned and at sufficient speed: suppressed.
	if _, ok := PullVelocity(follower, puller, mgl64.Vec3{0, 0, 6}, 0, p); ok {
		t.Fatal("misaligned fast movement should leave the wearer's velocity alone")
	}

	// Misaligned but below the pull strength: overwritten.
	v, ok := PullVelocity(follower, puller, mgl64.Vec3{0, 0, 1}, 0, p)
	if !ok || math.Abs(v.Len()-4) > 1e-12 {
		t.Fatalf("slow misaligned movement should be overwritten, got %v ok=%v", v, ok)
	}
}

func TestPullVelocityCoincidentAnchors(t *testing.T) {
	p := PullParams{MinPullStrength: 4, VelocityMultiplier: 1}
	if _, ok := PullVelocity(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, 0, p); ok {
		t.Fatal("coincident anchors have no pull direction")
	}
}
