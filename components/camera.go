package components

import "github.com/yohamta/donburi"

// CameraData pans the oblique view to keep the local avatar centered. The
// camera tracks a point on the ground plane; height never moves it.
type CameraData struct {
	X, Z        float64
	Initialized bool
}

var Camera = donburi.NewComponentType[CameraData]()
