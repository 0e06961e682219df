package tether

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var down = mgl64.Vec3{0, -1, 0}

func TestRenderFeedEndpoints(t *testing.T) {
	f := NewRenderFeed(12, down)
	follower := mgl64.Vec3{1, 1.5, 0}
	puller := mgl64.Vec3{4, 1.2, 2}

	if !f.Update(follower, puller, 6.0, true) {
		t.Fatal("active feed must recompute")
	}
	pts := f.Points()
	if len(pts) != 12 {
		t.Fatalf("expected 12 points, got %d", len(pts))
	}
	if pts[0] != follower || pts[11] != puller {
		t.Fatalf("polyline endpoints: %v .. %v", pts[0], pts[11])
	}
}

func TestRenderFeedSkipsWhileStatic(t *testing.T) {
	f := NewRenderFeed(8, down)
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{2, 0, 0}

	if !f.Update(a, b, 6.0, false) {
		t.Fatal("first update must compute even while static")
	}
	if f.Update(a, b, 6.0, false) {
		t.Fatal("static leash must not refresh every frame")
	}

	f.Invalidate()
	if !f.Update(a, b, 6.0, false) {
		t.Fatal("explicit parameter change must refresh a static leash")
	}

	if !f.Update(a, b, 6.0, true) {
		t.Fatal("held or attached leash must refresh every frame")
	}
}

func TestRenderFeedSampleCountChange(t *testing.T) {
	f := NewRenderFeed(4, down)
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{1, 0, 0}
	f.Update(a, b, 2.0, false)

	f.SetSampleCount(9)
	if !f.Update(a, b, 2.0, false) {
		t.Fatal("sample count change must force a refresh")
	}
	if len(f.Points()) != 9 {
		t.Fatalf("expected 9 points, got %d", len(f.Points()))
	}

	f.SetSampleCount(1)
	f.Update(a, b, 2.0, true)
	if len(f.Points()) != 2 {
		t.Fatalf("sample count below 2 must coerce, got %d", len(f.Points()))
	}
}

func TestRenderFeedFlatWhenOverextended(t *testing.T) {
	f := NewRenderFeed(5, down)
	a := mgl64.Vec3{0, 1, 0}
	b := mgl64.Vec3{10, 1, 0}

	f.Update(a, b, 6.0, true) // distance 10 > leash 6: pinned flat
	for i, p := range f.Points() {
		if p.Y() != 1 {
			t.Fatalf("overextended leash must render as a straight line, point %d = %v", i, p)
		}
	}
}
