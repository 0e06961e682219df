package netcomponents

import "github.com/yohamta/donburi"

// NetItemData marks a holdable tether entity (collar or handle) and tracks
// who currently holds it. HeldBy is a ParticipantID; zero means on the ground.
type NetItemData struct {
	Kind       int
	HeldBy     uint
	Pickupable bool
}

var NetItem = donburi.NewComponentType[NetItemData]()
