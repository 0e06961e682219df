package systems

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/pawline/tether-mp/components"
	"github.com/pawline/tether-mp/shared/netcomponents"
)

// NewNetInterpSystem smooths remote entities between server snapshots. Each
// snapshot sets Prev/Target in NetInterpData; this system advances T at the
// snapshot cadence and writes the blended position back into NetTransform,
// extrapolating along the last known velocity once T passes 1.
func NewNetInterpSystem(tickRate func() int) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		rate := tickRate()
		if rate <= 0 {
			return
		}
		// T advances from 0 to 1 over one server tick, at 60 render fps.
		step := float64(rate) / 60.0
		snapshotDt := 1.0 / float64(rate)

		components.NetInterp.Each(e.World, func(entry *donburi.Entry) {
			interp := components.NetInterp.Get(entry)
			if !interp.Initialized || !entry.HasComponent(netcomponents.NetTransform) {
				return
			}

			interp.T += step
			tr := netcomponents.NetTransform.Get(entry)

			if interp.T >= 1 {
				// Past the latest snapshot: extrapolate, capped at one
				// extra tick to avoid runaway drift on packet loss.
				over := interp.T - 1
				if over > 1 {
					over = 1
				}
				tr.X = interp.TargetX + interp.VelX*over*snapshotDt
				tr.Y = interp.TargetY + interp.VelY*over*snapshotDt
				tr.Z = interp.TargetZ + interp.VelZ*over*snapshotDt
			} else {
				t := interp.T
				tr.X = interp.PrevX + (interp.TargetX-interp.PrevX)*t
				tr.Y = interp.PrevY + (interp.TargetY-interp.PrevY)*t
				tr.Z = interp.PrevZ + (interp.TargetZ-interp.PrevZ)*t
			}

			tr.RW = interp.RotW
			tr.RX = interp.RotX
			tr.RY = interp.RotY
			tr.RZ = interp.RotZ
		})
	}
}
