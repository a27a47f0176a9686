package simulation

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"wildfireevac/gridstate"
)

// Config is the on-disk form of the spec §6 construction-parameter table,
// plus Horizon and Seed. It is loaded via viper (the teacher's config
// library), generalized from the teacher's reinforcement.TrainingConfig.
type Config struct {
	NumRows int `yaml:"numRows"`
	NumCols int `yaml:"numCols"`

	PopulatedAreas [][2]int   `yaml:"populatedAreas"`
	Paths          [][][2]int `yaml:"paths"`
	// PathsToPops maps a path index (as a string key, since YAML maps require
	// string/scalar keys) to the list of populated cells permitted to take it.
	PathsToPops map[string][][2]int `yaml:"pathsToPops"`

	NumFireCells        int        `yaml:"numFireCells"`
	CustomFireLocations [][2]int   `yaml:"customFireLocations"`
	WindSpeed           *float64   `yaml:"windSpeed"`
	WindAngle           *float64   `yaml:"windAngle"`

	FuelMean            float64 `yaml:"fuelMean"`
	FuelStdev           float64 `yaml:"fuelStdev"`
	FirePropagationRate float64 `yaml:"firePropagationRate"`
	EvacuationDuration  int     `yaml:"evacuationDuration"`

	Horizon int   `yaml:"horizon"`
	Seed    int64 `yaml:"seed"`
}

// DefaultConfig returns the spec §6 default column, with no grid/populated
// data filled in yet.
func DefaultConfig() Config {
	gs := gridstate.DefaultConfig()
	return Config{
		NumFireCells:        gs.NumFireCells,
		FuelMean:            gs.FuelMean,
		FuelStdev:           gs.FuelStdev,
		FirePropagationRate: gs.FirePropagationRate,
		EvacuationDuration:  gs.EvacuationDuration,
		Horizon:             100,
	}
}

// LoadConfig reads a Config from a YAML file at path via viper, the same
// viper-read-then-yaml.Unmarshal shape as the teacher's
// reinforcement.FromYaml, minus the outer kind/def envelope (not needed
// here: this file holds exactly one Config, not a selector over algorithms).
func LoadConfig(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}

	// viper lowercases the keys it reports through AllSettings, which would
	// not match Config's camelCase yaml tags, so the file viper read is
	// decoded directly.
	raw, err := os.ReadFile(vp.ConfigFileUsed())
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func toCells(pairs [][2]int) []gridstate.Cell {
	cells := make([]gridstate.Cell, len(pairs))
	for i, p := range pairs {
		cells[i] = gridstate.Cell{Row: p[0], Col: p[1]}
	}
	return cells
}

func toPaths(raw [][][2]int) [][]gridstate.Cell {
	paths := make([][]gridstate.Cell, len(raw))
	for i, p := range raw {
		paths[i] = toCells(p)
	}
	return paths
}

// ToGridstateConfig converts the YAML-friendly Config into the
// gridstate.Config the core constructor expects.
func (c Config) ToGridstateConfig() (gridstate.Config, error) {
	pathsToPops := map[int][]gridstate.Cell{}
	for k, v := range c.PathsToPops {
		p, err := parsePathIndex(k)
		if err != nil {
			return gridstate.Config{}, err
		}
		pathsToPops[p] = toCells(v)
	}

	return gridstate.Config{
		NumRows:             c.NumRows,
		NumCols:             c.NumCols,
		PopulatedAreas:      toCells(c.PopulatedAreas),
		Paths:               toPaths(c.Paths),
		PathsToPops:         pathsToPops,
		NumFireCells:        c.NumFireCells,
		CustomFireLocations: toCells(c.CustomFireLocations),
		WindSpeed:           c.WindSpeed,
		WindAngle:           c.WindAngle,
		FuelMean:            c.FuelMean,
		FuelStdev:           c.FuelStdev,
		FirePropagationRate: c.FirePropagationRate,
		EvacuationDuration:  c.EvacuationDuration,
		Seed:                c.Seed,
	}, nil
}

func parsePathIndex(s string) (int, error) {
	var n int
	_, err := fmt.Sscan(s, &n)
	return n, err
}
