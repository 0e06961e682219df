package tethermath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCaptureOffsetPositionRoundTrip(t *testing.T) {
	anchorPos := mgl64.Vec3{2, 1.6, -3}
	anchorRot := mgl64.QuatRotate(math.Pi/3, mgl64.Vec3{0, 1, 0})
	followerPos := mgl64.Vec3{2.2, 1.4, -3.1}
	followerRot := mgl64.QuatRotate(-math.Pi/5, mgl64.Vec3{0, 1, 0})

	posOff, rotOff := CaptureOffset(followerPos, followerRot, anchorPos, anchorRot)

	// Re-deriving from the same anchor reproduces the captured position.
	gotPos, gotRot := ApplyOffset(anchorPos, anchorRot, posOff, rotOff)
	if gotPos.Sub(followerPos).Len() > 1e-12 {
		t.Fatalf("position round-trip: got %v want %v", gotPos, followerPos)
	}
	if math.Abs(gotRot.Len()-1) > 1e-9 {
		t.Fatalf("applied rotation must stay normalized, |q|=%v", gotRot.Len())
	}
}

func TestApplyOffsetTracksMovedAnchor(t *testing.T) {
	anchorPos := mgl64.Vec3{0, 1.6, 0}
	anchorRot := mgl64.QuatIdent()
	followerPos := mgl64.Vec3{0.1, 1.5, 0.05}

	posOff, rotOff := CaptureOffset(followerPos, mgl64.QuatIdent(), anchorPos, anchorRot)

	moved := anchorPos.Add(mgl64.Vec3{5, 0, -2})
	gotPos, _ := ApplyOffset(moved, anchorRot, posOff, rotOff)
	want := followerPos.Add(mgl64.Vec3{5, 0, -2})
	if gotPos.Sub(want).Len() > 1e-12 {
		t.Fatalf("follower should track the anchor: got %v want %v", gotPos, want)
	}
}

func TestZeroOffsetSnapsToAnchor(t *testing.T) {
	anchorPos := mgl64.Vec3{4, 1.6, 4}
	anchorRot := mgl64.QuatRotate(0.4, mgl64.Vec3{0, 1, 0})

	gotPos, gotRot := ApplyOffset(anchorPos, anchorRot, mgl64.Vec3{}, mgl64.QuatIdent())
	if gotPos != anchorPos {
		t.Fatalf("snap variant: got pos %v want %v", gotPos, anchorPos)
	}
	if gotRot.Sub(anchorRot.Normalize()).Len() > 1e-12 {
		t.Fatalf("snap variant: got rot %v want %v", gotRot, anchorRot)
	}
}
