package protocol

import (
	"github.com/leap-fish/necs/esync"

	"github.com/pawline/tether-mp/shared/netcomponents"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetTransform   uint = 10
	SyncIDNetVelocity    uint = 11
	SyncIDNetParticipant uint = 12
	SyncIDNetItem        uint = 13
	SyncIDNetCollar      uint = 14
	SyncIDNetLeashParams uint = 15
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetTransform uint8 = 10
	InterpIDNetVelocity  uint8 = 11
)

// RegisterComponents registers all network components with necs for
// serialization. Must be called by both server and client before any network
// operations.
func RegisterComponents() error {
	// Transforms and velocities interpolate for smooth remote rendering.
	if err := esync.RegisterComponent(
		SyncIDNetTransform,
		netcomponents.NetTransformData{},
		netcomponents.NetTransform,
		esync.WithInterpFn(InterpIDNetTransform, netcomponents.LerpNetTransform),
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetVelocity,
		netcomponents.NetVelocityData{},
		netcomponents.NetVelocity,
		esync.WithInterpFn(InterpIDNetVelocity, netcomponents.LerpNetVelocity),
	); err != nil {
		return err
	}

	// Discrete state: no interpolation.
	if err := esync.RegisterComponent(
		SyncIDNetParticipant,
		netcomponents.NetParticipantData{},
		netcomponents.NetParticipant,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetItem,
		netcomponents.NetItemData{},
		netcomponents.NetItem,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetCollar,
		netcomponents.NetCollarData{},
		netcomponents.NetCollar,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetLeashParams,
		netcomponents.NetLeashParamsData{},
		netcomponents.NetLeashParams,
	); err != nil {
		return err
	}

	return nil
}
