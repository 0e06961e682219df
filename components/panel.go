package components

import "github.com/yohamta/donburi"

// PanelData is the leash tuning panel's local edit state. Values start from
// the replicated params and are sent to the server on Apply; the server
// ignores the request unless the sender is the collar's owner.
type PanelData struct {
	Visible bool

	LeashLength           float64
	MaxCaptureDistance    float64
	MinPullStrength       float64
	VelocityMultiplier    float64
	VariablePullStrength  bool
	SnapToAnchor          bool
	CanPickupWhenAttached bool
	Scale                 float64

	Dirty bool // edited since last apply
}

var Panel = donburi.NewComponentType[PanelData]()
