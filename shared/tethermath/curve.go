// Package tethermath contains the pure math behind the tether constraint:
// the sagging-curve sampler, the nearest-anchor search, and the per-tick
// range and pull calculations. Everything here is stateless and operates on
// plain values so it can be exercised without a live session.
package tethermath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SagPoint returns a point along a parabola from start to end. The curve's
// midpoint deviates from the straight segment by height, bulging against the
// down direction. t is clamped to [0, 1]; the endpoints are returned exactly
// so the polyline always terminates on the anchors.
func SagPoint(start, end mgl64.Vec3, height, t float64, down mgl64.Vec3) mgl64.Vec3 {
	if t <= 0 {
		return start
	}
	if t >= 1 {
		return end
	}
	p := start.Add(end.Sub(start).Mul(t))
	// 4t(1-t) is 1 at the midpoint and 0 at both endpoints.
	bulge := 4 * t * (1 - t) * height
	return p.Sub(down.Mul(bulge))
}

// SagHeight returns the droop height for the current anchor separation:
// taller when there is slack, flat when taut or overextended. This is a
// cosmetic effect, not a catenary.
func SagHeight(leashLength, distance float64) float64 {
	return math.Max(math.Sqrt(math.Max(leashLength-distance, 0)), 0)
}

// SamplePolyline fills dst with n points through the sag curve. Point 0 is
// start and point n-1 is end; interior points are evenly spaced in t. dst is
// reused when large enough. n below 2 is coerced to 2.
func SamplePolyline(dst []mgl64.Vec3, start, end mgl64.Vec3, height float64, down mgl64.Vec3, n int) []mgl64.Vec3 {
	if n < 2 {
		n = 2
	}
	if cap(dst) < n {
		dst = make([]mgl64.Vec3, n)
	}
	dst = dst[:n]
	dst[0] = start
	dst[n-1] = end
	for i := 1; i < n-1; i++ {
		t := float64(i) / float64(n-1)
		dst[i] = SagPoint(start, end, height, t, down)
	}
	return dst
}
