package config

import (
	"image/color"

	"github.com/yohamta/donburi/ecs"
)

// Config holds general window configuration
type Config struct {
	Width  int
	Height int
}

// Default is the render layer every drawer registers on.
const Default = ecs.LayerDefault

// ViewConfig controls how the 3D arena is projected onto the screen. The
// world is drawn top-down with an oblique height shift: a point (x, y, z)
// lands at (x*Scale, (z - y*HeightShear)*Scale) relative to the camera.
type ViewConfig struct {
	Scale       float64 // pixels per world unit
	HeightShear float64 // how far one unit of height shifts a point up-screen

	CameraSmoothing float64 // follow lerp factor per frame (0..1)
}

// AvatarConfig controls how participants are drawn.
type AvatarConfig struct {
	BodyRadius   float64 // world units
	NameOffsetY  float64 // pixels above the avatar
	LocalColor   color.RGBA
	RemoteColor  color.RGBA
	WearerColor  color.RGBA
	FacingLength float64 // world units for the facing tick mark
}

// LeashViewConfig controls the sag-curve presentation.
type LeashViewConfig struct {
	SampleCount    int     // polyline vertices
	LineWidth      float32 // pixels
	SlackColor     color.RGBA
	TautColor      color.RGBA
	SagEaseSeconds float32 // tween duration when sag height changes regime
	FlashFrames    int     // attach/detach event flash duration
}

// Global configuration instances
var C *Config
var View ViewConfig
var Avatar AvatarConfig
var LeashView LeashViewConfig

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow       = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Orange       = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	Red          = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	LightGreen   = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	LightBlue    = color.RGBA{R: 100, G: 180, B: 255, A: 255}
	DarkBlue     = color.RGBA{R: 60, G: 100, B: 160, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
	ArenaFloor   = color.RGBA{R: 28, G: 32, B: 38, A: 255}
	ArenaWall    = color.RGBA{R: 70, G: 76, B: 88, A: 255}
)

func init() {
	C = &Config{
		Width:  960,
		Height: 540,
	}

	View = ViewConfig{
		Scale:           16.0,
		HeightShear:     0.6,
		CameraSmoothing: 0.1,
	}

	Avatar = AvatarConfig{
		BodyRadius:   0.45,
		NameOffsetY:  28,
		LocalColor:   LightGreen,
		RemoteColor:  LightBlue,
		WearerColor:  Orange,
		FacingLength: 0.7,
	}

	LeashView = LeashViewConfig{
		SampleCount:    24,
		LineWidth:      2,
		SlackColor:     color.RGBA{R: 200, G: 180, B: 120, A: 255},
		TautColor:      Red,
		SagEaseSeconds: 0.25,
		FlashFrames:    20,
	}
}
