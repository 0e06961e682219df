package messages

// ActivateRequest asks the server to run the attach search. Only honored when
// the sender is currently holding the collar.
type ActivateRequest struct{}

// DetachRequest is the manual detach fallback for wearers who cannot reach
// the collar entity. Only honored from the collar's current owner.
type DetachRequest struct{}

// PickupRequest toggles carrying the nearest holdable item: picks up the
// closest in-range collar/handle, or drops whatever the sender is holding.
type PickupRequest struct{}

// SetLeashParams updates the leash tuning. Only honored from the collar's
// current owner (or from anyone while no owner is assigned).
type SetLeashParams struct {
	LeashLength           float64
	MaxCaptureDistance    float64
	MinPullStrength       float64
	VelocityMultiplier    float64
	VariablePullStrength  bool
	SnapToAnchor          bool
	CanPickupWhenAttached bool
	Scale                 float64
}

// LeashAttachedEvent is broadcast when the collar captures a wearer.
type LeashAttachedEvent struct {
	WearerID uint // participant whose neck anchor was captured
	HolderID uint // participant who performed the attach
}

// LeashDetachedEvent is broadcast when the collar releases its wearer.
type LeashDetachedEvent struct {
	WearerID uint
	Reason   uint8 // netconfig.DetachReason
}
