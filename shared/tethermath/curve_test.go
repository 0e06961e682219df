package tethermath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var worldDown = mgl64.Vec3{0, -1, 0}

func TestSagPointEndpointsExact(t *testing.T) {
	start := mgl64.Vec3{1.5, 2.25, -3}
	end := mgl64.Vec3{-7, 0.125, 9.5}

	for _, h := range []float64{0, 0.5, 3, 100} {
		if got := SagPoint(start, end, h, 0, worldDown); got != start {
			t.Fatalf("t=0 h=%v: got %v want %v", h, got, start)
		}
		if got := SagPoint(start, end, h, 1, worldDown); got != end {
			t.Fatalf("t=1 h=%v: got %v want %v", h, got, end)
		}
	}
}

func TestSagPointZeroHeightIsLinear(t *testing.T) {
	start := mgl64.Vec3{0, 0, 0}
	end := mgl64.Vec3{4, 8, -2}

	for _, tt := range []float64{0.1, 0.25, 0.5, 0.9} {
		got := SagPoint(start, end, 0, tt, worldDown)
		want := start.Add(end.Sub(start).Mul(tt))
		if got.Sub(want).Len() > 1e-12 {
			t.Fatalf("t=%v: got %v want lerp %v", tt, got, want)
		}
	}
}

func TestSagPointMidpointBulgesAgainstDown(t *testing.T) {
	start := mgl64.Vec3{0, 5, 0}
	end := mgl64.Vec3{10, 5, 0}
	height := 2.0

	mid := SagPoint(start, end, height, 0.5, worldDown)
	// down is -Y, so the bulge moves the midpoint up by exactly height.
	want := mgl64.Vec3{5, 5 + height, 0}
	if mid.Sub(want).Len() > 1e-12 {
		t.Fatalf("midpoint got %v want %v", mid, want)
	}
}

func TestSagHeight(t *testing.T) {
	cases := []struct {
		leash, dist, want float64
	}{
		{4, 0, 2},
		{4, 3, 1},
		{4, 4, 0},
		{4, 6, 0}, // overextended: pinned flat, no NaN
		{1.5, 2.0, 0},
	}
	for _, c := range cases {
		got := SagHeight(c.leash, c.dist)
		if math.IsNaN(got) || math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("SagHeight(%v, %v) = %v, want %v", c.leash, c.dist, got, c.want)
		}
	}
}

func TestSamplePolylineEndpointsAndSpacing(t *testing.T) {
	start := mgl64.Vec3{-1, 0, 2}
	end := mgl64.Vec3{3, 1, -4}

	pts := SamplePolyline(nil, start, end, 1.5, worldDown, 8)
	if len(pts) != 8 {
		t.Fatalf("expected 8 points, got %d", len(pts))
	}
	if pts[0] != start || pts[7] != end {
		t.Fatalf("polyline must terminate on the anchors: %v .. %v", pts[0], pts[7])
	}

	// Interior points match direct sampling at even t.
	for i := 1; i < 7; i++ {
		want := SagPoint(start, end, 1.5, float64(i)/7, worldDown)
		if pts[i].Sub(want).Len() > 1e-12 {
			t.Fatalf("point %d: got %v want %v", i, pts[i], want)
		}
	}
}

func TestSamplePolylineCoercesMinimumCount(t *testing.T) {
	start := mgl64.Vec3{0, 0, 0}
	end := mgl64.Vec3{1, 0, 0}
	pts := SamplePolyline(nil, start, end, 0, worldDown, 1)
	if len(pts) != 2 || pts[0] != start || pts[1] != end {
		t.Fatalf("expected coerced 2-point line, got %v", pts)
	}
}

func TestSamplePolylineReusesBuffer(t *testing.T) {
	buf := make([]mgl64.Vec3, 16)
	pts := SamplePolyline(buf, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 0, worldDown, 10)
	if &pts[0] != &buf[0] {
		t.Fatal("expected the provided buffer to be reused")
	}
}
