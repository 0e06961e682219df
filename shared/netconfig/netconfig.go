// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must have zero dependencies on ebiten or any
// graphics library so the dedicated server binary stays headless.
package netconfig

// ParticipantID identifies a connected participant. It mirrors the necs
// NetworkId assigned to the participant's entity. Zero means "no participant"
// and doubles as the session-default owner (the hosting simulation).
type ParticipantID uint

// NoParticipant is the zero ParticipantID.
const NoParticipant ParticipantID = 0

// ItemKind distinguishes the two holdable tether entities.
type ItemKind int

const (
	ItemCollar ItemKind = iota
	ItemHandle
)

func (k ItemKind) String() string {
	switch k {
	case ItemCollar:
		return "collar"
	case ItemHandle:
		return "handle"
	}
	return "unknown"
}

// DetachReason records why an attached collar was released.
type DetachReason uint8

const (
	DetachByPickup DetachReason = iota
	DetachByInput
	DetachByOwnerLeft
)

func (r DetachReason) String() string {
	switch r {
	case DetachByPickup:
		return "pickup"
	case DetachByInput:
		return "input"
	case DetachByOwnerLeft:
		return "owner-left"
	}
	return "unknown"
}

// DefaultTickRate is the server simulation rate used when no config overrides it.
const DefaultTickRate = 30

// ClientVersion is sent with every join request. Servers configured with a
// required version reject clients that do not match it.
const ClientVersion = "0.3.0"
