package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 0.05
	DefaultDuration   = 50.0
	DefaultCells      = 27
	DefaultSpacing    = 1.9
	DefaultBucketSize = 120.0
)

type Config struct {
	Scenario   string       `yaml:"scenario"`
	Integrator string       `yaml:"integrator"`
	Dt         float64      `yaml:"dt"`
	Duration   float64      `yaml:"duration"`
	Seed       int64        `yaml:"seed"`
	Grid       GridConfig   `yaml:"grid"`
	Cells      CellsConfig  `yaml:"cells"`
	Plane      *PlaneConfig `yaml:"plane,omitempty"`
}

type GridConfig struct {
	BucketSize float64 `yaml:"bucket_size"`
}

// CellsConfig describes the initial population: a cubic lattice of Count
// cells, Spacing given in radii, with a uniform positional jitter.
type CellsConfig struct {
	Count            int     `yaml:"count"`
	Radius           float64 `yaml:"radius"`
	Mass             float64 `yaml:"mass"`
	Stiffness        float64 `yaml:"stiffness"`
	DampRatio        float64 `yaml:"damp_ratio"`
	AngularStiffness float64 `yaml:"angular_stiffness"`
	Adhesion         float64 `yaml:"adhesion"`
	Spacing          float64 `yaml:"spacing"`
	Jitter           float64 `yaml:"jitter"`
	VolumeConserve   bool    `yaml:"volume_conserve"`
}

// PlaneConfig places a static two-triangle floor under the population.
type PlaneConfig struct {
	Y        float64 `yaml:"y"`
	HalfSize float64 `yaml:"half_size"`
	Adhesion float64 `yaml:"adhesion"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:   "aggregate",
		Integrator: "euler",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Grid:       GridConfig{BucketSize: DefaultBucketSize},
		Cells: CellsConfig{
			Count:            DefaultCells,
			Radius:           40.0,
			Mass:             1.0,
			Stiffness:        45.0,
			DampRatio:        1.0,
			AngularStiffness: 1.0,
			Adhesion:         0.5,
			Spacing:          DefaultSpacing,
			Jitter:           0.05,
			VolumeConserve:   true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
