package netcomponents

import "github.com/yohamta/donburi"

// NetLeashParamsData carries the leash tuning values to every observer so
// replicas can size their render feed and pickup gating identically to the
// authority.
type NetLeashParamsData struct {
	LeashLength          float64
	MaxCaptureDistance   float64
	MinPullStrength      float64
	VelocityMultiplier   float64
	VariablePullStrength bool
	SnapToAnchor         bool
}

var NetLeashParams = donburi.NewComponentType[NetLeashParamsData]()
