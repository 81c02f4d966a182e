package config

import "sort"

var Presets = map[string]*Config{
	// 30 zeros, 2000 particles.
	"genesis": DefaultConfig(),
	"pair": {
		Name: "pair", Integrator: "euler",
		Field: FieldConfig{Wavenumbers: []float64{14.1347, 21.0220}, Scale: 1, RadiusFloor: 1e-4, Singularity: "floor"},
		Sim:   SimConfig{Dt: 0.005, Friction: 0.90, Steps: 200, Bound: 1, Particles: 500, Seed: 42, SnapshotStride: 50, Order: "kick-damp"},
	},
	"chord": {
		Name: "chord", Integrator: "euler",
		Field: FieldConfig{Zeros: 10, Scale: 1, RadiusFloor: 1e-4, Singularity: "floor"},
		Sim:   SimConfig{Dt: 0.005, Friction: 0.95, Steps: 600, Bound: 1, Particles: 3000, Seed: 7, SnapshotStride: 100, Order: "kick-damp"},
	},
	"quiet": {
		Name: "quiet", Integrator: "euler",
		Field: FieldConfig{Zeros: 30, Scale: 1, RadiusFloor: 1e-4, Singularity: "floor"},
		Sim:   SimConfig{Dt: 0.005, Friction: 0.80, Steps: 2000, Bound: 1, Particles: 1000, Seed: 42, SnapshotStride: 250, SettleTolerance: 1e-4, Order: "kick-damp"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
