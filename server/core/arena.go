package core

import (
	"log"

	"github.com/solarlune/resolv"
)

const wallThickness = 1.0

// Arena holds the server's collision space: a flat rectangular ground plane
// ringed by solid walls. World X maps to resolv X and world Z to resolv Y;
// all arena coordinates are positive, with the origin at the north-west
// corner.
type Arena struct {
	Space *resolv.Space
	Width float64
	Depth float64
}

// NewArena builds the collision space from the configured dimensions.
func NewArena(cfg ArenaConfig) *Arena {
	space := resolv.NewSpace(int(cfg.Width), int(cfg.Depth), 4, 4)

	walls := []struct{ x, y, w, h float64 }{
		{0, 0, cfg.Width, wallThickness},
		{0, cfg.Depth - wallThickness, cfg.Width, wallThickness},
		{0, 0, wallThickness, cfg.Depth},
		{cfg.Width - wallThickness, 0, wallThickness, cfg.Depth},
	}
	for _, r := range walls {
		obj := resolv.NewObject(r.x, r.y, r.w, r.h, "solid")
		obj.SetShape(resolv.NewRectangle(0, 0, r.w, r.h))
		space.Add(obj)
	}

	log.Printf("[arena] built %gx%g collision space", cfg.Width, cfg.Depth)

	return &Arena{
		Space: space,
		Width: cfg.Width,
		Depth: cfg.Depth,
	}
}

// SpawnPoint returns a deterministic spawn position for the nth joiner,
// spread around the arena center.
func (a *Arena) SpawnPoint(n int) (x, z float64) {
	offsets := []struct{ dx, dz float64 }{
		{-3, -3}, {3, -3}, {-3, 3}, {3, 3},
		{0, -5}, {0, 5}, {-5, 0}, {5, 0},
	}
	o := offsets[n%len(offsets)]
	return a.Width/2 + o.dx, a.Depth/2 + o.dz
}
