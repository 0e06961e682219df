package tether

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pawline/tether-mp/shared/tethermath"
)

// RenderFeed converts the current follower/puller anchor points into the
// polyline consumed by the external line drawing. It recomputes whenever the
// anchors may have moved and skips the work while the leash is static
// (neither held nor attached), refreshing then only on explicit invalidation.
type RenderFeed struct {
	sampleCount int
	down        mgl64.Vec3
	points      []mgl64.Vec3
	dirty       bool
	valid       bool
}

// NewRenderFeed builds a feed with n sample points (coerced to at least 2)
// bulging against the given down direction.
func NewRenderFeed(n int, down mgl64.Vec3) *RenderFeed {
	if n < 2 {
		n = 2
	}
	return &RenderFeed{sampleCount: n, down: down, dirty: true}
}

// SetSampleCount changes the polyline resolution and forces a refresh.
func (f *RenderFeed) SetSampleCount(n int) {
	if n < 2 {
		n = 2
	}
	if n == f.sampleCount {
		return
	}
	f.sampleCount = n
	f.dirty = true
}

func (f *RenderFeed) SampleCount() int { return f.sampleCount }

// Invalidate forces the next Update to recompute even while static.
func (f *RenderFeed) Invalidate() { f.dirty = true }

// Update recomputes the polyline for the given anchors. active is true when
// the follower or puller may be moving (held or attached); when false the
// previous polyline is kept unless invalidated. Returns whether the points
// were recomputed.
func (f *RenderFeed) Update(follower, puller mgl64.Vec3, leashLength float64, active bool) bool {
	height := tethermath.SagHeight(leashLength, puller.Sub(follower).Len())
	return f.UpdateWithHeight(follower, puller, height, active)
}

// UpdateWithHeight is Update with a caller-supplied sag height, used by
// clients that ease the droop over time instead of snapping it.
func (f *RenderFeed) UpdateWithHeight(follower, puller mgl64.Vec3, height float64, active bool) bool {
	if !active && !f.dirty && f.valid {
		return false
	}
	f.points = tethermath.SamplePolyline(f.points, follower, puller, height, f.down, f.sampleCount)
	f.dirty = false
	f.valid = true
	return true
}

// Points returns the current polyline in world space, ordered from the
// follower anchor to the puller anchor. The slice is reused across updates.
func (f *RenderFeed) Points() []mgl64.Vec3 { return f.points }
