package netcomponents

import "github.com/yohamta/donburi"

type NetVelocityData struct {
	VX, VY, VZ float64
}

var NetVelocity = donburi.NewComponentType[NetVelocityData]()

// LerpNetVelocity interpolates between two velocities
func LerpNetVelocity(from, to NetVelocityData, t float64) *NetVelocityData {
	return &NetVelocityData{
		VX: from.VX + (to.VX-from.VX)*t,
		VY: from.VY + (to.VY-from.VY)*t,
		VZ: from.VZ + (to.VZ-from.VZ)*t,
	}
}
