package netcomponents

import "github.com/yohamta/donburi"

// NetTransformData is the replicated world transform of a participant or
// item: position plus rotation quaternion.
type NetTransformData struct {
	X, Y, Z        float64
	RW, RX, RY, RZ float64
}

var NetTransform = donburi.NewComponentType[NetTransformData]()

// LerpNetTransform interpolates position between two snapshots. Rotation is
// taken from the target snapshot; at our snapshot rates slerp buys nothing
// visible for avatars that mostly yaw.
func LerpNetTransform(from, to NetTransformData, t float64) *NetTransformData {
	return &NetTransformData{
		X:  from.X + (to.X-from.X)*t,
		Y:  from.Y + (to.Y-from.Y)*t,
		Z:  from.Z + (to.Z-from.Z)*t,
		RW: to.RW,
		RX: to.RX,
		RY: to.RY,
		RZ: to.RZ,
	}
}
