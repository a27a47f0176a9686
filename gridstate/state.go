// Package gridstate owns the five-channel grid tensor and its evacuation
// bookkeeping (spec §3, §4.2). It is mutated only by SetAction and the
// fire/evac/reward packages acting on it during a step.
package gridstate

import (
	"math"
	"math/rand"
	"sort"

	"wildfireevac/kernel"
	"wildfireevac/simerr"
)

// Channel identifies one of the five tensor planes.
type Channel int

const (
	Fire Channel = iota
	Fuel
	Populated
	Evacuating
	Paths
	numChannels
)

// Cell is a (row, col) grid coordinate.
type Cell struct {
	Row, Col int
}

// Infinity is the evacuation-timestamp sentinel meaning "not evacuating".
const Infinity = math.MaxInt32

// PathRecord is one declared evacuation path: its ordered cells, whether it
// is still live, and a precomputed membership mask over the grid.
type PathRecord struct {
	Cells []Cell
	Live  bool
	mask  []bool // len NumRows*NumCols, row-major
}

// ActionEntry is one (populated cell, path index) pair in the action table.
type ActionEntry struct {
	Cell      Cell
	PathIndex int
}

// Config holds the construction parameters of spec §6.
type Config struct {
	NumRows, NumCols int
	PopulatedAreas   []Cell
	Paths            [][]Cell
	PathsToPops      map[int][]Cell

	NumFireCells         int
	CustomFireLocations  []Cell
	WindSpeed, WindAngle *float64

	FuelMean, FuelStdev float64
	FirePropagationRate float64
	EvacuationDuration  int

	// Seed seeds the state's private PRNG (spec §5: "implementations must
	// expose a seed for reproducibility"). Zero means "derive one from
	// crypto-quality entropy at construction time" is NOT performed here;
	// callers wanting nondeterminism should seed from time themselves.
	Seed int64
}

// DefaultConfig returns a Config populated with the spec §6 default column,
// with dimensions and populated/path data left for the caller to fill in.
func DefaultConfig() Config {
	return Config{
		NumFireCells:        2,
		FuelMean:            8.5,
		FuelStdev:           3.0,
		FirePropagationRate: kernel.DefaultPropagationRate,
		EvacuationDuration:  10,
	}
}

// State is the mutable simulation state: the five-channel tensor, the
// declared paths, the action table, and evacuation bookkeeping.
type State struct {
	NumRows, NumCols int

	channels [numChannels][]float64 // each len NumRows*NumCols, row-major

	Populated map[Cell]bool

	PathRecords []PathRecord // index is the path index
	PathsToPops map[int][]Cell
	pathOrder   []int // ascending path indices, fixed at construction

	ActionTable []ActionEntry // last entry implicit: NoopAction == len(ActionTable)

	EvacuatingPaths      map[int][]Cell // path index -> ordered populated cells currently evacuating
	EvacuatingTimestamps []int          // len NumRows*NumCols, row-major; Infinity sentinel
	FinishedEvacuating   []Cell

	EvacuationDuration  int
	FirePropagationRate float64
	Kernel              kernel.Mask

	Rand *rand.Rand
}

// NoopAction returns the action identifier that is always a no-op: one past
// the last valid (cell, path) pair.
func (s *State) NoopAction() int {
	return len(s.ActionTable)
}

func idx(numCols, row, col int) int {
	return row*numCols + col
}

// At reads channel ch at (row, col).
func (s *State) At(ch Channel, row, col int) float64 {
	return s.channels[ch][idx(s.NumCols, row, col)]
}

func (s *State) set(ch Channel, row, col int, v float64) {
	s.channels[ch][idx(s.NumCols, row, col)] = v
}

// Channel returns the raw backing slice for a channel, row-major. Callers in
// this module's own packages (fire, evac, reward) may mutate it directly;
// external callers should prefer Observe().
func (s *State) Channel(ch Channel) []float64 {
	return s.channels[ch]
}

func (c Cell) inBounds(numRows, numCols int) bool {
	return c.Row >= 0 && c.Row < numRows && c.Col >= 0 && c.Col < numCols
}

// New validates cfg and constructs a State. All validation completes before
// any channel is written; a failed constructor yields no partial object
// (spec §7).
func New(cfg Config) (*State, error) {
	if cfg.NumRows <= 0 || cfg.NumCols <= 0 {
		return nil, simerr.New(simerr.InvalidDimension, "num_rows and num_cols must be positive")
	}
	if cfg.NumFireCells <= 0 && len(cfg.CustomFireLocations) == 0 {
		return nil, simerr.New(simerr.InvalidDimension, "num_fire_cells must be positive when no custom fire locations are given")
	}

	for _, c := range cfg.PopulatedAreas {
		if !c.inBounds(cfg.NumRows, cfg.NumCols) {
			return nil, simerr.New(simerr.OutOfBounds, "populated area out of bounds")
		}
	}
	for _, p := range cfg.Paths {
		for _, c := range p {
			if !c.inBounds(cfg.NumRows, cfg.NumCols) {
				return nil, simerr.New(simerr.OutOfBounds, "path cell out of bounds")
			}
		}
	}
	for _, c := range cfg.CustomFireLocations {
		if !c.inBounds(cfg.NumRows, cfg.NumCols) {
			return nil, simerr.New(simerr.OutOfBounds, "custom fire location out of bounds")
		}
	}

	populatedSet := make(map[Cell]bool, len(cfg.PopulatedAreas))
	for _, c := range cfg.PopulatedAreas {
		populatedSet[c] = true
	}

	for pathIdx, cells := range cfg.PathsToPops {
		if pathIdx < 0 || pathIdx >= len(cfg.Paths) {
			return nil, simerr.New(simerr.InvalidPathMap, "path index not a valid path")
		}
		for _, c := range cells {
			if !populatedSet[c] {
				return nil, simerr.New(simerr.InvalidPathMap, "populated cell in paths_to_pops is not declared populated")
			}
		}
	}

	wind, err := kernel.NewWind(cfg.WindSpeed, cfg.WindAngle)
	if err != nil {
		return nil, err
	}

	alpha := cfg.FirePropagationRate
	if alpha <= 0 {
		alpha = kernel.DefaultPropagationRate
	}
	evacDuration := cfg.EvacuationDuration
	if evacDuration <= 0 {
		evacDuration = 10
	}
	fuelMean, fuelStdev := cfg.FuelMean, cfg.FuelStdev
	if fuelMean == 0 && fuelStdev == 0 {
		fuelMean, fuelStdev = 8.5, 3.0
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	n := cfg.NumRows * cfg.NumCols
	s := &State{
		NumRows:              cfg.NumRows,
		NumCols:              cfg.NumCols,
		Populated:            populatedSet,
		PathsToPops:          cfg.PathsToPops,
		EvacuatingPaths:      map[int][]Cell{},
		EvacuatingTimestamps: make([]int, n),
		EvacuationDuration:   evacDuration,
		FirePropagationRate:  alpha,
		Kernel:               kernel.Build(alpha, wind),
		Rand:                 rng,
	}
	for ch := Channel(0); ch < numChannels; ch++ {
		s.channels[ch] = make([]float64, n)
	}
	for i := range s.EvacuatingTimestamps {
		s.EvacuatingTimestamps[i] = Infinity
	}

	// Fire seeds: custom locations take precedence over random sampling;
	// duplicates collapse via the set.
	fireSet := map[Cell]bool{}
	if len(cfg.CustomFireLocations) > 0 {
		for _, c := range cfg.CustomFireLocations {
			fireSet[c] = true
		}
	} else {
		for len(fireSet) < cfg.NumFireCells {
			c := Cell{Row: rng.Intn(cfg.NumRows), Col: rng.Intn(cfg.NumCols)}
			fireSet[c] = true
		}
	}
	for c := range fireSet {
		s.set(Fire, c.Row, c.Col, 1)
	}

	// Fuel: independent Gaussian samples, negative values retained (spec §4.2,
	// §9 design note: an intentional model property, not a bug).
	for row := 0; row < cfg.NumRows; row++ {
		for col := 0; col < cfg.NumCols; col++ {
			fuel := rng.NormFloat64()*fuelStdev + fuelMean
			s.set(Fuel, row, col, fuel)
		}
	}

	for _, c := range cfg.PopulatedAreas {
		s.set(Populated, c.Row, c.Col, 1)
	}

	s.PathRecords = make([]PathRecord, len(cfg.Paths))
	for i, cells := range cfg.Paths {
		mask := make([]bool, n)
		for _, c := range cells {
			mask[idx(cfg.NumCols, c.Row, c.Col)] = true
		}
		s.PathRecords[i] = PathRecord{Cells: append([]Cell(nil), cells...), Live: true, mask: mask}
		for _, c := range cells {
			s.set(Paths, c.Row, c.Col, s.At(Paths, c.Row, c.Col)+1)
		}
	}

	for p := range cfg.PathsToPops {
		s.pathOrder = append(s.pathOrder, p)
	}
	sort.Ints(s.pathOrder)

	s.buildActionTable()

	return s, nil
}

// buildActionTable enumerates every (populated_cell, path_index) pair in
// deterministic order: ascending path index, then declared order of that
// path's populated-cell list (spec §3, §9).
func (s *State) buildActionTable() {
	for _, p := range s.pathOrder {
		for _, c := range s.PathsToPops[p] {
			s.ActionTable = append(s.ActionTable, ActionEntry{Cell: c, PathIndex: p})
		}
	}
}

// PathOrder returns the ascending path indices declared in paths_to_pops.
func (s *State) PathOrder() []int {
	return s.pathOrder
}

// Covers reports whether path p's membership mask includes (row, col).
func (p *PathRecord) Covers(numCols, row, col int) bool {
	return p.mask[idx(numCols, row, col)]
}
