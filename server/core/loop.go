package core

import (
	"log"
	"time"

	"github.com/leap-fish/necs/esync/srvsync"

	"github.com/pawline/tether-mp/shared/netcomponents"
	"github.com/pawline/tether-mp/shared/netconfig"
	"github.com/pawline/tether-mp/tether"
)

type GameLoop struct {
	server   *Server
	tickRate int
	stopChan chan struct{}
}

func NewGameLoop(server *Server, tickRate int) *GameLoop {
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		stopChan: make(chan struct{}),
	}
}

func (g *GameLoop) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	dt := 1.0 / float64(g.tickRate)
	log.Printf("Game loop started at %d ticks/second", g.tickRate)

	for {
		select {
		case <-g.stopChan:
			log.Println("Game loop stopped")
			return
		case <-ticker.C:
			g.server.Tick(dt)

			if err := srvsync.DoSync(); err != nil {
				log.Printf("Sync error: %v", err)
			}
		}
	}
}

func (g *GameLoop) Stop() {
	close(g.stopChan)
}

// Tick advances the whole simulation by one fixed step: participant movement,
// carried item poses, the collar constraint, then write-back into the
// replicated components.
func (s *Server) Tick(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.participants {
		stepParticipant(p, dt)
	}

	s.updateItemPoses()

	var rig *Participant
	if s.collar.Attached() {
		if p, ok := s.participants[s.collar.WearerID()]; ok {
			rig = p
		}
	}
	// The handle is the puller whether carried or lying on the ground. The
	// interface value must stay nil when no rig exists, hence the split.
	if rig != nil {
		s.collar.Tick(rig, s.handle.pos, true, dt)
	} else {
		s.collar.Tick(nil, s.handle.pos, true, dt)
	}

	s.writeBack()
}

// updateItemPoses moves carried items with their holders and mirrors the
// collar's canonical pose into the item bookkeeping.
func (s *Server) updateItemPoses() {
	for _, item := range []*Item{s.collarI, s.handle} {
		if holder, ok := s.participants[item.heldBy]; ok {
			item.pos, item.rot = carryPose(holder)
			if item.kind == netconfig.ItemCollar {
				s.collar.SetPose(tether.Pose{Pos: item.pos, Rot: item.rot})
			}
		}
	}
	if s.collarI.heldBy == netconfig.NoParticipant {
		pose := s.collar.Pose()
		s.collarI.pos = pose.Pos
		s.collarI.rot = pose.Rot
	}
}

// writeBack copies the authoritative simulation into the replicated ECS
// components. This is the single writer for every networked field.
func (s *Server) writeBack() {
	for _, p := range s.participants {
		if !s.world.Valid(p.entity) {
			continue
		}
		entry := s.world.Entry(p.entity)

		pos := p.Position()
		netcomponents.NetTransform.Set(entry, &netcomponents.NetTransformData{
			X: pos.X(), Y: pos.Y(), Z: pos.Z(),
			RW: p.rot.W, RX: p.rot.X(), RY: p.rot.Y(), RZ: p.rot.Z(),
		})
		netcomponents.NetVelocity.Set(entry, &netcomponents.NetVelocityData{
			VX: p.vel.X(), VY: p.vel.Y(), VZ: p.vel.Z(),
		})
		netcomponents.NetParticipant.Set(entry, &netcomponents.NetParticipantData{
			ID:           uint(p.id),
			Name:         p.name,
			LastSequence: p.lastSeq,
		})
	}

	for _, item := range []*Item{s.collarI, s.handle} {
		if !s.world.Valid(item.entity) {
			continue
		}
		entry := s.world.Entry(item.entity)

		netcomponents.NetTransform.Set(entry, &netcomponents.NetTransformData{
			X: item.pos.X(), Y: item.pos.Y(), Z: item.pos.Z(),
			RW: item.rot.W, RX: item.rot.X(), RY: item.rot.Y(), RZ: item.rot.Z(),
		})

		pickupable := true
		if item.kind == netconfig.ItemCollar {
			pickupable = s.collar.Pickupable()
		}
		netcomponents.NetItem.Set(entry, &netcomponents.NetItemData{
			Kind:       int(item.kind),
			HeldBy:     uint(item.heldBy),
			Pickupable: pickupable,
		})
	}

	params := s.collar.Params()
	offset := s.collar.PositionOffset()
	rotOff := s.collar.RotationOffset()

	entry := s.world.Entry(s.collarI.entity)
	netcomponents.NetCollar.Set(entry, &netcomponents.NetCollarData{
		Attached: s.collar.Attached(),
		WearerID: uint(s.collar.WearerID()),
		OwnerID:  uint(s.session.CurrentOwner()),
		OffX:     offset.X(), OffY: offset.Y(), OffZ: offset.Z(),
		RotOffW: rotOff.W, RotOffX: rotOff.X(), RotOffY: rotOff.Y(), RotOffZ: rotOff.Z(),
		Scale:                 params.Scale,
		CanPickupWhenAttached: params.CanPickupWhenAttached,
	})
	netcomponents.NetLeashParams.Set(entry, &netcomponents.NetLeashParamsData{
		LeashLength:          params.LeashLength,
		MaxCaptureDistance:   params.MaxCaptureDistance,
		MinPullStrength:      params.MinPullStrength,
		VelocityMultiplier:   params.VelocityMultiplier,
		VariablePullStrength: params.VariablePullStrength,
		SnapToAnchor:         params.SnapToAnchor,
	})
}
