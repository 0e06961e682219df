package tethermath

import "github.com/go-gl/mathgl/mgl64"

// CaptureOffset records the follower's pose relative to the target anchor at
// the moment of attachment. The position offset is the world-space delta from
// the anchor to the follower; it is captured once and held fixed until the
// next attach.
func CaptureOffset(followerPos mgl64.Vec3, followerRot mgl64.Quat, anchorPos mgl64.Vec3, anchorRot mgl64.Quat) (mgl64.Vec3, mgl64.Quat) {
	posOffset := followerPos.Sub(anchorPos)
	rotOffset := followerRot.Inverse().Mul(anchorRot)
	return posOffset, rotOffset
}

// ApplyOffset re-derives the follower pose from the current anchor and the
// captured offsets. Called every tick while attached so the follower tracks
// its target continuously.
func ApplyOffset(anchorPos mgl64.Vec3, anchorRot mgl64.Quat, posOffset mgl64.Vec3, rotOffset mgl64.Quat) (mgl64.Vec3, mgl64.Quat) {
	return anchorPos.Add(posOffset), anchorRot.Mul(rotOffset).Normalize()
}
