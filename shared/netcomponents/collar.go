package netcomponents

import "github.com/yohamta/donburi"

// NetCollarData is the replicated attachment state of the collar. Only the
// authoritative simulation writes it; replicas re-derive presentation state
// (pose, pickupable flag, render feed) from received values and never mutate
// the canonical fields.
type NetCollarData struct {
	Attached bool
	WearerID uint // participant whose anchor was captured
	OwnerID  uint // participant whose simulation is canonical for the collar

	// Offsets captured at the attach transition, meaningless while detached.
	OffX, OffY, OffZ                   float64
	RotOffW, RotOffX, RotOffY, RotOffZ float64

	Scale                 float64
	CanPickupWhenAttached bool
}

var NetCollar = donburi.NewComponentType[NetCollarData]()
