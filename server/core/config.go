package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/pawline/tether-mp/shared/netconfig"
	"github.com/pawline/tether-mp/tether"
)

// Config is the server configuration file. Leash values double as the
// runtime defaults and can be hot-reloaded while the server runs.
type Config struct {
	Port     uint   `yaml:"port"`
	TickRate int    `yaml:"tick_rate"`
	Name     string `yaml:"name"`
	Version  string `yaml:"version"` // required client version, empty accepts any

	Arena ArenaConfig `yaml:"arena"`
	Leash LeashConfig `yaml:"leash"`
}

// ArenaConfig describes the walkable ground plane.
type ArenaConfig struct {
	Width       float64 `yaml:"width"` // extent along world X
	Depth       float64 `yaml:"depth"` // extent along world Z
	NeckHeight  float64 `yaml:"neck_height"`
	PickupRange float64 `yaml:"pickup_range"`
}

// LeashConfig mirrors tether.Params in YAML form.
type LeashConfig struct {
	MaxCaptureDistance    float64 `yaml:"max_capture_distance"`
	LeashLength           float64 `yaml:"leash_length"`
	MinPullStrength       float64 `yaml:"min_pull_strength"`
	VelocityMultiplier    float64 `yaml:"velocity_multiplier"`
	VariablePullStrength  bool    `yaml:"variable_pull_strength"`
	SnapToAnchor          bool    `yaml:"snap_to_anchor"`
	CanPickupWhenAttached bool    `yaml:"can_pickup_when_attached"`
	Scale                 float64 `yaml:"scale"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	p := tether.DefaultParams()
	return Config{
		Port:     7373,
		TickRate: netconfig.DefaultTickRate,
		Name:     "Tether Server",
		Arena: ArenaConfig{
			Width:       40,
			Depth:       30,
			NeckHeight:  1.45,
			PickupRange: 1.5,
		},
		Leash: LeashConfig{
			MaxCaptureDistance:    p.MaxCaptureDistance,
			LeashLength:           p.LeashLength,
			MinPullStrength:       p.MinPullStrength,
			VelocityMultiplier:    p.VelocityMultiplier,
			VariablePullStrength:  p.VariablePullStrength,
			SnapToAnchor:          p.SnapToAnchor,
			CanPickupWhenAttached: p.CanPickupWhenAttached,
			Scale:                 p.Scale,
		},
	}
}

// Params converts the leash section to runtime tuning values.
func (l LeashConfig) Params() tether.Params {
	return tether.Params{
		MaxCaptureDistance:    l.MaxCaptureDistance,
		LeashLength:           l.LeashLength,
		MinPullStrength:       l.MinPullStrength,
		VelocityMultiplier:    l.VelocityMultiplier,
		VariablePullStrength:  l.VariablePullStrength,
		SnapToAnchor:          l.SnapToAnchor,
		CanPickupWhenAttached: l.CanPickupWhenAttached,
		Scale:                 l.Scale,
	}
}

// LoadConfig reads a YAML config file over the defaults. Missing keys keep
// their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// WatchConfig re-reads the file on every write and delivers the parsed result
// to onChange. It returns a stop function. Used to hot-reload leash tuning
// without restarting the server.
func WatchConfig(path string, onChange func(Config)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	// Watch the directory: editors replace files on save, which drops the
	// watch when pointed at the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("config watcher: %w", err)
	}

	base := filepath.Base(path)
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					log.Printf("[config] reload failed: %v", err)
					continue
				}
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[config] watcher error: %v", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
