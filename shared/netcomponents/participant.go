package netcomponents

import "github.com/yohamta/donburi"

type NetParticipantData struct {
	ID           uint // ParticipantID, stable across the session
	Name         string
	LastSequence uint32 // Last input sequence processed by the server
	IsLocal      bool   // Client-side only, not synced
}

var NetParticipant = donburi.NewComponentType[NetParticipantData]()
