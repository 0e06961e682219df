package tether

import "github.com/pawline/tether-mp/shared/tethermath"

// Params are the runtime leash tuning values. They are mutable only through
// the authoritative owner and replicate to all observers.
type Params struct {
	MaxCaptureDistance   float64 // attach search radius
	LeashLength          float64 // slack distance before pulling engages
	MinPullStrength      float64
	VelocityMultiplier   float64
	VariablePullStrength bool
	// SnapToAnchor fixes the collar exactly to the captured anchor instead
	// of preserving the relative pose at attach time.
	SnapToAnchor          bool
	CanPickupWhenAttached bool
	Scale                 float64 // collar visual scale
}

// DefaultParams returns the tuning used when no server config overrides it.
func DefaultParams() Params {
	return Params{
		MaxCaptureDistance:    3.0,
		LeashLength:           6.0,
		MinPullStrength:       4.0,
		VelocityMultiplier:    1.0,
		VariablePullStrength:  false,
		SnapToAnchor:          false,
		CanPickupWhenAttached: false,
		Scale:                 1.0,
	}
}

// Pull extracts the enforcer's tuning subset.
func (p Params) Pull() tethermath.PullParams {
	return tethermath.PullParams{
		MinPullStrength:      p.MinPullStrength,
		VelocityMultiplier:   p.VelocityMultiplier,
		VariablePullStrength: p.VariablePullStrength,
	}
}
