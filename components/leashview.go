package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"

	"github.com/pawline/tether-mp/tether"
)

// LeashViewData is the client-side presentation state of the leash: a replica
// collar rebuilt from snapshots, the sag polyline feed, and the eased droop
// height. Replicas re-derive everything here and never write back to the
// server.
type LeashViewData struct {
	Replica *tether.Collar
	Feed    *tether.RenderFeed

	// Sag height easing. SagTarget is the analytic droop the tween is
	// running toward; SagHeight is the displayed value.
	SagHeight float64
	SagTarget float64
	SagTween  *gween.Tween

	// Frames remaining of the attach/detach flash.
	AttachFlash int
	DetachFlash int

	// Wearer highlight, from the last snapshot.
	Attached bool
	WearerID uint
	OwnerID  uint
}

var LeashView = donburi.NewComponentType[LeashViewData]()
