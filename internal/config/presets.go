package config

import "sort"

var Presets = map[string]*Config{
	"pair": {
		Scenario: "pair", Integrator: "euler", Dt: 0.05, Duration: 30.0,
		Grid: GridConfig{BucketSize: DefaultBucketSize},
		Cells: CellsConfig{
			Count: 2, Radius: 40.0, Mass: 1.0, Stiffness: 45.0, DampRatio: 1.0,
			AngularStiffness: 1.0, Adhesion: 0.6, Spacing: 1.8,
			VolumeConserve: true,
		},
	},
	"aggregate": {
		Scenario: "aggregate", Integrator: "euler", Dt: 0.05, Duration: 80.0,
		Grid: GridConfig{BucketSize: DefaultBucketSize},
		Cells: CellsConfig{
			Count: 27, Radius: 40.0, Mass: 1.0, Stiffness: 45.0, DampRatio: 1.0,
			AngularStiffness: 1.0, Adhesion: 0.5, Spacing: 1.9, Jitter: 0.05,
			VolumeConserve: true,
		},
	},
	"loose": {
		Scenario: "aggregate", Integrator: "euler", Dt: 0.05, Duration: 60.0,
		Grid: GridConfig{BucketSize: DefaultBucketSize},
		Cells: CellsConfig{
			Count: 27, Radius: 40.0, Mass: 1.0, Stiffness: 45.0, DampRatio: 1.0,
			AngularStiffness: 1.0, Adhesion: 0.05, Spacing: 2.2, Jitter: 0.1,
			VolumeConserve: true,
		},
	},
	"settle": {
		Scenario: "settle", Integrator: "euler", Dt: 0.02, Duration: 40.0,
		Grid: GridConfig{BucketSize: DefaultBucketSize},
		Cells: CellsConfig{
			Count: 8, Radius: 40.0, Mass: 1.0, Stiffness: 45.0, DampRatio: 1.0,
			AngularStiffness: 1.0, Adhesion: 0.4, Spacing: 2.1, Jitter: 0.05,
			VolumeConserve: true,
		},
		Plane: &PlaneConfig{Y: -60.0, HalfSize: 600.0, Adhesion: 0.7},
	},
	"rigid": {
		Scenario: "aggregate", Integrator: "verlet", Dt: 0.02, Duration: 60.0,
		Grid: GridConfig{BucketSize: DefaultBucketSize},
		Cells: CellsConfig{
			Count: 8, Radius: 40.0, Mass: 1.0, Stiffness: 90.0, DampRatio: 0.7,
			AngularStiffness: 3.0, Adhesion: 0.8, Spacing: 1.7,
			VolumeConserve: true,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil. Callers may mutate
// the result freely; the preset table itself stays untouched.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	if p.Plane != nil {
		plane := *p.Plane
		cfg.Plane = &plane
	}
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
