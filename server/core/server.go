package core

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"

	"github.com/pawline/tether-mp/shared/messages"
	"github.com/pawline/tether-mp/shared/netcomponents"
	"github.com/pawline/tether-mp/shared/netconfig"
	"github.com/pawline/tether-mp/tether"
)

// Server hosts the authoritative tether simulation and replicates it to
// connected clients.
type Server struct {
	world     donburi.World
	loop      *GameLoop
	transport *transports.WsServerTransport
	cfg       Config
	arena     *Arena

	mu           sync.RWMutex
	clients      map[*router.NetworkClient]*Participant
	participants map[netconfig.ParticipantID]*Participant
	nextID       netconfig.ParticipantID
	joinCount    int

	session *hostSession
	collar  *tether.Collar
	collarI *Item
	handle  *Item
}

// NewServer creates a server from the given config. Call Start to begin
// accepting connections.
func NewServer(cfg Config) *Server {
	world := donburi.NewWorld()

	s := &Server{
		world:        world,
		cfg:          cfg,
		arena:        NewArena(cfg.Arena),
		clients:      make(map[*router.NetworkClient]*Participant),
		participants: make(map[netconfig.ParticipantID]*Participant),
		session:      &hostSession{},
	}
	s.loop = NewGameLoop(s, cfg.TickRate)
	s.collar = tether.NewCollar(cfg.Leash.Params(), s.session, &serverAnchors{server: s})

	srvsync.UseEsync(world)
	s.setupRouterCallbacks()
	s.spawnItems()

	return s
}

// Start begins the game loop and the WebSocket transport. Blocks until the
// transport shuts down.
func (s *Server) Start(port uint) error {
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	s.loop.Stop()
}

// World returns the ECS world.
func (s *Server) World() donburi.World {
	return s.world
}

// PlayerCount returns the number of joined participants.
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants)
}

// ApplyConfig swaps in hot-reloaded tuning. Only leash parameters take
// effect live; transport settings need a restart. A reload is an admin
// override: it replaces any tuning the owner set at runtime, since the
// config file on disk is treated as the source of truth.
func (s *Server) ApplyConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Leash = cfg.Leash
	s.collar.SetParams(cfg.Leash.Params())
	log.Println("[server] applied reloaded leash config")
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[server] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.onDisconnect(client, err)
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRequest) {
		s.onJoinRequest(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.OperatorInput) {
		s.onOperatorInput(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.PickupRequest) {
		s.onPickupRequest(client)
	})

	router.On(func(client *router.NetworkClient, msg messages.ActivateRequest) {
		s.onActivateRequest(client)
	})

	router.On(func(client *router.NetworkClient, msg messages.DetachRequest) {
		s.onDetachRequest(client)
	})

	router.On(func(client *router.NetworkClient, msg messages.SetLeashParams) {
		s.onSetLeashParams(client, msg)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[server] client error: %v", err)
	})
}

// spawnItems creates the collar and handle entities near the arena center.
// The collar entity additionally carries the attachment and tuning state.
func (s *Server) spawnItems() {
	cx, cz := s.arena.Width/2, s.arena.Depth/2

	collarPos := mgl64.Vec3{cx - 1, 0, cz}
	handlePos := mgl64.Vec3{cx + 1, 0, cz}

	collarEntity := s.world.Create(
		netcomponents.NetTransform,
		netcomponents.NetItem,
		netcomponents.NetCollar,
		netcomponents.NetLeashParams,
	)
	entry := s.world.Entry(collarEntity)
	netcomponents.NetTransform.Set(entry, &netcomponents.NetTransformData{
		X: collarPos.X(), Z: collarPos.Z(), RW: 1,
	})
	netcomponents.NetItem.Set(entry, &netcomponents.NetItemData{
		Kind:       int(netconfig.ItemCollar),
		Pickupable: true,
	})
	netcomponents.NetCollar.Set(entry, &netcomponents.NetCollarData{
		RotOffW: 1,
		Scale:   s.cfg.Leash.Scale,
	})
	netcomponents.NetLeashParams.Set(entry, &netcomponents.NetLeashParamsData{
		LeashLength:          s.cfg.Leash.LeashLength,
		MaxCaptureDistance:   s.cfg.Leash.MaxCaptureDistance,
		MinPullStrength:      s.cfg.Leash.MinPullStrength,
		VelocityMultiplier:   s.cfg.Leash.VelocityMultiplier,
		VariablePullStrength: s.cfg.Leash.VariablePullStrength,
		SnapToAnchor:         s.cfg.Leash.SnapToAnchor,
	})
	if err := srvsync.NetworkSync(s.world, &collarEntity,
		srvsync.WithInterp(netcomponents.NetTransform),
		netcomponents.NetItem,
		netcomponents.NetCollar,
		netcomponents.NetLeashParams,
	); err != nil {
		log.Printf("[server] failed to sync collar entity: %v", err)
	}

	handleEntity := s.world.Create(netcomponents.NetTransform, netcomponents.NetItem)
	entry = s.world.Entry(handleEntity)
	netcomponents.NetTransform.Set(entry, &netcomponents.NetTransformData{
		X: handlePos.X(), Z: handlePos.Z(), RW: 1,
	})
	netcomponents.NetItem.Set(entry, &netcomponents.NetItemData{
		Kind:       int(netconfig.ItemHandle),
		Pickupable: true,
	})
	if err := srvsync.NetworkSync(s.world, &handleEntity,
		srvsync.WithInterp(netcomponents.NetTransform),
		netcomponents.NetItem,
	); err != nil {
		log.Printf("[server] failed to sync handle entity: %v", err)
	}

	s.collarI = newItem(collarEntity, netconfig.ItemCollar, collarPos)
	s.handle = newItem(handleEntity, netconfig.ItemHandle, handlePos)
	s.collar.SetPose(tether.Pose{Pos: collarPos, Rot: mgl64.QuatIdent()})
}

func (s *Server) onJoinRequest(client *router.NetworkClient, msg messages.JoinRequest) {
	if s.cfg.Version != "" && msg.Version != s.cfg.Version {
		s.sendTo(client, messages.JoinRejected{
			Reason: fmt.Sprintf("version mismatch: server wants %q", s.cfg.Version),
		})
		return
	}

	s.mu.Lock()
	if _, joined := s.clients[client]; joined {
		s.mu.Unlock()
		return
	}

	s.nextID++
	id := s.nextID
	spawnX, spawnZ := s.arena.SpawnPoint(s.joinCount)
	s.joinCount++

	entity := s.world.Create(
		netcomponents.NetTransform,
		netcomponents.NetVelocity,
		netcomponents.NetParticipant,
	)
	entry := s.world.Entry(entity)

	netcomponents.NetTransform.Set(entry, &netcomponents.NetTransformData{
		X: spawnX, Z: spawnZ, RW: 1,
	})
	netcomponents.NetVelocity.Set(entry, &netcomponents.NetVelocityData{})
	netcomponents.NetParticipant.Set(entry, &netcomponents.NetParticipantData{
		ID:   uint(id),
		Name: msg.PlayerName,
	})

	if err := srvsync.NetworkSync(s.world, &entity,
		srvsync.WithInterp(netcomponents.NetTransform, netcomponents.NetVelocity),
		netcomponents.NetParticipant,
	); err != nil {
		s.mu.Unlock()
		log.Printf("[server] failed to sync participant entity: %v", err)
		s.sendTo(client, messages.JoinRejected{Reason: "internal error"})
		return
	}

	p := newParticipant(s.arena.Space, entity, id, msg.PlayerName, spawnX, spawnZ)
	s.clients[client] = p
	s.participants[id] = p
	s.mu.Unlock()

	var netID esync.NetworkId
	if nid := esync.GetNetworkId(entry); nid != nil {
		netID = *nid
	}

	s.sendTo(client, messages.JoinAccepted{
		NetworkID:  netID,
		ServerName: s.cfg.Name,
		TickRate:   s.cfg.TickRate,
		ArenaWidth: s.arena.Width,
		ArenaDepth: s.arena.Depth,
	})

	log.Printf("[server] participant %d (%s) joined as network entity %d", id, msg.PlayerName, netID)
}

func (s *Server) onDisconnect(client *router.NetworkClient, err error) {
	if err != nil {
		log.Printf("[server] client %s disconnected: %v", client.Id(), err)
	} else {
		log.Printf("[server] client %s disconnected", client.Id())
	}

	s.mu.Lock()
	p, joined := s.clients[client]
	if joined {
		delete(s.clients, client)
		delete(s.participants, p.id)
	}
	if !joined {
		s.mu.Unlock()
		return
	}

	// Anything the departing participant carried drops where they stood.
	for _, item := range []*Item{s.collarI, s.handle} {
		if item.heldBy == p.id {
			s.dropItem(item, p)
		}
	}

	wearer := s.collar.WearerID()
	wasAttached := s.collar.Attached()
	s.collar.OnParticipantLeft(p.id)
	detached := wasAttached && !s.collar.Attached()

	p.remove(s.arena.Space)
	if s.world.Valid(p.entity) {
		s.world.Remove(p.entity)
	}
	s.mu.Unlock()

	if detached {
		s.broadcastEvent(messages.LeashDetachedEvent{
			WearerID: uint(wearer),
			Reason:   uint8(netconfig.DetachByOwnerLeft),
		})
	}
}

func (s *Server) onOperatorInput(client *router.NetworkClient, input messages.OperatorInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.clients[client]
	if !ok {
		return
	}

	// Inputs can arrive out of order; keep the newest.
	if input.Sequence != 0 && input.Sequence < p.lastSeq {
		return
	}
	p.lastSeq = input.Sequence
	p.dirX = clampAxis(input.DirX)
	p.dirZ = clampAxis(input.DirZ)
}

func (s *Server) onPickupRequest(client *router.NetworkClient) {
	s.mu.Lock()

	p, ok := s.clients[client]
	if !ok {
		s.mu.Unlock()
		return
	}

	// Holding something already: this is a drop.
	for _, item := range []*Item{s.collarI, s.handle} {
		if item.heldBy == p.id {
			s.dropItem(item, p)
			s.mu.Unlock()
			return
		}
	}

	item := s.nearestPickupable(p)
	if item == nil {
		s.mu.Unlock()
		return
	}

	var detachedWearer netconfig.ParticipantID
	detachEvent := false

	item.heldBy = p.id
	if item.kind == netconfig.ItemCollar {
		detachedWearer = s.collar.WearerID()
		wasAttached := s.collar.Attached()
		s.collar.OnPickupStarted(p.id)
		detachEvent = wasAttached && !s.collar.Attached()
	}
	log.Printf("[server] participant %d picked up %s", p.id, item.kind)
	s.mu.Unlock()

	if detachEvent {
		s.broadcastEvent(messages.LeashDetachedEvent{
			WearerID: uint(detachedWearer),
			Reason:   uint8(netconfig.DetachByPickup),
		})
	}
}

// dropItem releases an item at its holder's feet. Caller holds s.mu.
func (s *Server) dropItem(item *Item, holder *Participant) {
	item.heldBy = netconfig.NoParticipant
	ground := holder.Position()
	ground[1] = 0
	item.pos = ground
	item.rot = holder.rot
	if item.kind == netconfig.ItemCollar {
		s.collar.OnPickupStopped(holder.id)
		s.collar.SetPose(tether.Pose{Pos: ground, Rot: holder.rot})
	}
	log.Printf("[server] participant %d dropped %s", holder.id, item.kind)
}

// nearestPickupable finds the closest grabbable item in range of the
// participant. Caller holds s.mu.
func (s *Server) nearestPickupable(p *Participant) *Item {
	var best *Item
	bestDist := math.Inf(1)
	from := p.Position()

	for _, item := range []*Item{s.collarI, s.handle} {
		if item.heldBy != netconfig.NoParticipant {
			continue
		}
		if item.kind == netconfig.ItemCollar && !s.collar.Pickupable() {
			continue
		}
		pos := item.pos
		if item.kind == netconfig.ItemCollar {
			pos = s.collar.Pose().Pos
		}
		d := pos.Sub(from).Len()
		if d <= s.cfg.Arena.PickupRange && d < bestDist {
			best = item
			bestDist = d
		}
	}
	return best
}

func (s *Server) onActivateRequest(client *router.NetworkClient) {
	s.mu.Lock()

	p, ok := s.clients[client]
	if !ok {
		s.mu.Unlock()
		return
	}

	attached := s.collar.Activate(p.id)
	if attached {
		// Activate force-releases the holder inside the collar; mirror that
		// on the item bookkeeping.
		s.collarI.heldBy = netconfig.NoParticipant
	}
	wearer := s.collar.WearerID()
	s.mu.Unlock()

	if attached {
		s.broadcastEvent(messages.LeashAttachedEvent{
			WearerID: uint(wearer),
			HolderID: uint(p.id),
		})
	}
}

func (s *Server) onDetachRequest(client *router.NetworkClient) {
	s.mu.Lock()

	p, ok := s.clients[client]
	if !ok || !s.collar.Attached() || p.id != s.session.CurrentOwner() {
		s.mu.Unlock()
		return
	}

	wearer := s.collar.WearerID()
	s.collar.Detach(netconfig.DetachByInput)
	s.mu.Unlock()

	s.broadcastEvent(messages.LeashDetachedEvent{
		WearerID: uint(wearer),
		Reason:   uint8(netconfig.DetachByInput),
	})
}

func (s *Server) onSetLeashParams(client *router.NetworkClient, msg messages.SetLeashParams) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.clients[client]
	if !ok {
		return
	}
	owner := s.session.CurrentOwner()
	if owner != netconfig.NoParticipant && p.id != owner {
		return
	}

	s.collar.SetParams(tether.Params{
		LeashLength:           msg.LeashLength,
		MaxCaptureDistance:    msg.MaxCaptureDistance,
		MinPullStrength:       msg.MinPullStrength,
		VelocityMultiplier:    msg.VelocityMultiplier,
		VariablePullStrength:  msg.VariablePullStrength,
		SnapToAnchor:          msg.SnapToAnchor,
		CanPickupWhenAttached: msg.CanPickupWhenAttached,
		Scale:                 msg.Scale,
	})
	log.Printf("[server] participant %d updated leash params (length=%.1f)", p.id, msg.LeashLength)
}

// neckAnchor derives the attach point on a participant's avatar.
func (s *Server) neckAnchor(p *Participant) mgl64.Vec3 {
	return p.Position().Add(mgl64.Vec3{0, s.cfg.Arena.NeckHeight, 0})
}

// broadcastEvent sends a discrete event message to every joined client.
func (s *Server) broadcastEvent(msg any) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients {
		if err := client.SendMessage(msg); err != nil {
			log.Printf("[server] failed to send event to %s: %v", client.Id(), err)
		}
	}
}

func (s *Server) sendTo(client *router.NetworkClient, msg any) {
	if err := client.SendMessage(msg); err != nil {
		log.Printf("[server] failed to send to %s: %v", client.Id(), err)
	}
}

func clampAxis(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
