package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"

	"github.com/pawline/tether-mp/shared/netconfig"
)

// Movement constants in world units per second.
const (
	moveAccel    = 40.0
	moveFriction = 20.0
	moveMaxSpeed = 6.0
)

// Participant holds the server-side rig of one connected avatar. The resolv
// object lives on the XZ ground plane (resolv X = world X, resolv Y = world
// Z); the Y axis is only ever non-zero transiently through pull impulses and
// is settled back to the ground each step.
type Participant struct {
	entity donburi.Entity
	id     netconfig.ParticipantID
	name   string

	obj *resolv.Object
	y   float64
	vel mgl64.Vec3
	rot mgl64.Quat

	// Latest input snapshot (written by onOperatorInput, read by the tick)
	dirX, dirZ float64
	lastSeq    uint32
}

func newParticipant(space *resolv.Space, entity donburi.Entity, id netconfig.ParticipantID, name string, spawnX, spawnZ float64) *Participant {
	obj := resolv.NewObject(spawnX, spawnZ, 0.6, 0.6, "participant")
	space.Add(obj)
	return &Participant{
		entity: entity,
		id:     id,
		name:   name,
		obj:    obj,
		rot:    mgl64.QuatIdent(),
	}
}

func (p *Participant) remove(space *resolv.Space) {
	space.Remove(p.obj)
}

// Position implements tether.OperatorRig.
func (p *Participant) Position() mgl64.Vec3 {
	return mgl64.Vec3{p.obj.X, p.y, p.obj.Y}
}

func (p *Participant) Rotation() mgl64.Quat { return p.rot }
func (p *Participant) Velocity() mgl64.Vec3 { return p.vel }

func (p *Participant) SetVelocity(v mgl64.Vec3) { p.vel = v }

func (p *Participant) TeleportTo(pos mgl64.Vec3, rot mgl64.Quat) {
	p.obj.X = pos.X()
	p.obj.Y = pos.Z()
	p.y = pos.Y()
	p.rot = rot
	p.obj.Update()
}

// stepParticipant advances one avatar by dt seconds: input acceleration,
// friction, speed clamp, then wall-resolved movement on the ground plane.
func stepParticipant(p *Participant, dt float64) {
	mag := math.Hypot(p.dirX, p.dirZ)
	if mag > 0 {
		nx := p.dirX / mag
		nz := p.dirZ / mag
		p.vel[0] += nx * moveAccel * dt
		p.vel[2] += nz * moveAccel * dt
		// Face the movement direction.
		p.rot = mgl64.QuatRotate(math.Atan2(nx, nz), mgl64.Vec3{0, 1, 0})
	} else {
		p.vel[0] = applyFriction(p.vel[0], moveFriction*dt)
		p.vel[2] = applyFriction(p.vel[2], moveFriction*dt)
	}

	speed := math.Hypot(p.vel[0], p.vel[2])
	if speed > moveMaxSpeed {
		scale := moveMaxSpeed / speed
		p.vel[0] *= scale
		p.vel[2] *= scale
	}

	// Pull impulses can leave a vertical component; bleed it off and keep
	// the avatar on the ground.
	p.vel[1] = applyFriction(p.vel[1], moveFriction*dt)
	p.y = 0

	dx := p.vel[0] * dt
	if dx != 0 {
		if check := p.obj.Check(dx, 0, "solid"); check != nil {
			if solids := check.ObjectsByTags("solid"); len(solids) > 0 {
				contact := check.ContactWithObject(solids[0])
				dx = contact.X()
				p.vel[0] = 0
			}
		}
		p.obj.X += dx
	}

	dz := p.vel[2] * dt
	if dz != 0 {
		if check := p.obj.Check(0, dz, "solid"); check != nil {
			if solids := check.ObjectsByTags("solid"); len(solids) > 0 {
				contact := check.ContactWithObject(solids[0])
				dz = contact.Y()
				p.vel[2] = 0
			}
		}
		p.obj.Y += dz
	}

	p.obj.Update()
}

// applyFriction reduces speed toward zero by the friction amount.
func applyFriction(speed, friction float64) float64 {
	if speed > friction {
		return speed - friction
	}
	if speed < -friction {
		return speed + friction
	}
	return 0
}
