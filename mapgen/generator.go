// Package mapgen generates random populated-area and evacuation-path layouts
// (spec §4.7 "map generator"), grounded on original_source's
// pyrorl/map_helpers/create_map_info.py generate_map_info algorithm.
package mapgen

import (
	"math/rand"

	"github.com/rs/zerolog/log"

	"wildfireevac/gridstate"
	"wildfireevac/metrics"
	"wildfireevac/simerr"
)

type direction int

const (
	dirStraight direction = iota
	dirRight
	dirLeft
)

type orientation int

const (
	north orientation = iota
	south
	east
	west
)

type turn struct {
	dRow, dCol int
	next       orientation
}

// turnTable mirrors original_source's ORIENTATONS dict: for each orientation,
// where a straight/left/right step goes and which orientation it becomes.
var turnTable = map[orientation]map[direction]turn{
	north: {
		dirLeft:     {0, -1, west},
		dirRight:    {0, 1, east},
		dirStraight: {-1, 0, north},
	},
	south: {
		dirLeft:     {0, 1, east},
		dirRight:    {0, -1, west},
		dirStraight: {1, 0, south},
	},
	east: {
		dirLeft:     {-1, 0, north},
		dirRight:    {1, 0, south},
		dirStraight: {0, 1, east},
	},
	west: {
		dirLeft:     {1, 0, south},
		dirRight:    {-1, 0, north},
		dirStraight: {0, -1, west},
	},
}

// Params configures one call to Generate, mirroring generate_map_info's
// keyword arguments.
type Params struct {
	NumRows, NumCols  int
	NumPopulatedAreas int
	StepsLowerBound   int
	StepsUpperBound   int
	PercentGoStraight int
	NumPathsMean      float64
	NumPathsStdev     float64
	Seed              int64
}

// DefaultParams mirrors generate_map_info's default keyword values.
func DefaultParams() Params {
	return Params{
		StepsLowerBound:   2,
		StepsUpperBound:   4,
		PercentGoStraight: 50,
		NumPathsMean:      3,
		NumPathsStdev:     1,
	}
}

// Map is one generated layout: populated areas, the ragged path array, and
// the paths-to-populated-cells map, ready to feed gridstate.Config.
type Map struct {
	NumRows, NumCols  int
	NumPopulatedAreas int
	PopulatedAreas    []gridstate.Cell
	Paths             [][]gridstate.Cell
	PathsToPops       map[int][]gridstate.Cell

	// PercentPopulated is NumPopulatedAreas/(NumRows*NumCols), mirroring
	// original_source's map_size_and_percent_populated_list bookkeeping.
	PercentPopulated float64
}

func validate(p Params) error {
	if p.NumRows <= 0 {
		return simerr.New(simerr.InvalidGeneratorParam, "number of rows must be a positive value")
	}
	if p.NumCols <= 0 {
		return simerr.New(simerr.InvalidGeneratorParam, "number of columns must be a positive value")
	}
	if p.NumRows < 3 || p.NumCols < 3 {
		return simerr.New(simerr.InvalidGeneratorParam, "grid must be at least 3x3 to leave an interior for populated areas")
	}
	interior := p.NumRows*p.NumCols - (2*p.NumRows + 2*p.NumCols - 4)
	if p.NumPopulatedAreas > interior {
		return simerr.New(simerr.InvalidGeneratorParam, "cannot have more than 100 percent of the map be populated")
	}
	if p.PercentGoStraight > 99 {
		return simerr.New(simerr.InvalidGeneratorParam, "percent chance of going straight cannot exceed 99")
	}
	if p.NumPathsMean < 1 {
		return simerr.New(simerr.InvalidGeneratorParam, "mean number of paths cannot be less than 1")
	}
	if p.StepsLowerBound > p.StepsUpperBound {
		return simerr.New(simerr.InvalidGeneratorParam, "steps lower bound cannot exceed the upper bound")
	}
	if p.StepsLowerBound < 1 || p.StepsUpperBound < 1 {
		return simerr.New(simerr.InvalidGeneratorParam, "step bounds cannot be less than 1")
	}
	return nil
}

// Generate produces a random Map per Params. retries, if non-nil, is
// incremented once per rejected path candidate (one that passes back through
// its origin cell or duplicates an earlier path), feeding
// metrics.Collector.MapGenRetries.
func Generate(p Params, retries *metrics.Collector) (*Map, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(p.Seed))

	populated := generatePopLocations(rng, p.NumRows, p.NumCols, p.NumPopulatedAreas)

	numPathsPerArea := make([]int, p.NumPopulatedAreas)
	for i := range numPathsPerArea {
		n := int(rng.NormFloat64()*p.NumPathsStdev + p.NumPathsMean)
		if n < 1 {
			n = 1
		}
		numPathsPerArea[i] = n
	}

	m := &Map{
		NumRows:           p.NumRows,
		NumCols:           p.NumCols,
		NumPopulatedAreas: p.NumPopulatedAreas,
		PopulatedAreas:    populated,
		PathsToPops:       map[int][]gridstate.Cell{},
		PercentPopulated:  float64(p.NumPopulatedAreas) / float64(p.NumRows*p.NumCols),
	}

	pathNum := 0
	for i, pop := range populated {
		created := 0
		for created < numPathsPerArea[i] {
			path, accepted := generateOnePath(rng, p, pop, m.Paths)
			if !accepted {
				if retries != nil {
					retries.MapGenRetries.Inc()
				}
				continue
			}
			m.Paths = append(m.Paths, path)
			m.PathsToPops[pathNum] = []gridstate.Cell{pop}
			pathNum++
			created++
		}
	}

	log.Info().
		Int("num_rows", m.NumRows).
		Int("num_cols", m.NumCols).
		Int("num_populated_areas", m.NumPopulatedAreas).
		Float64("percent_populated", m.PercentPopulated).
		Int("num_paths", len(m.Paths)).
		Msg("map generated")

	return m, nil
}

// generatePopLocations draws NumPopulatedAreas distinct interior cells
// (never on the grid edge), matching generate_pop_locations.
func generatePopLocations(rng *rand.Rand, numRows, numCols, numPopulatedAreas int) []gridstate.Cell {
	seen := map[gridstate.Cell]bool{}
	areas := make([]gridstate.Cell, 0, numPopulatedAreas)
	for len(areas) < numPopulatedAreas {
		c := gridstate.Cell{Row: 1 + rng.Intn(numRows-2), Col: 1 + rng.Intn(numCols-2)}
		if seen[c] {
			continue
		}
		seen[c] = true
		areas = append(areas, c)
	}
	return areas
}

// generateOnePath walks a single self-avoiding path from pop to the grid
// boundary, returning (nil, false) if it must be discarded because it
// duplicates an existing path or re-enters its own origin cell.
func generateOnePath(rng *rand.Rand, p Params, pop gridstate.Cell, existing [][]gridstate.Cell) ([]gridstate.Cell, bool) {
	cur := pop
	xMin, xMax := p.NumRows, -1
	yMin, yMax := p.NumCols, -1

	orient := orientation(rng.Intn(4))

	var path []gridstate.Cell
	for {
		numSteps := p.StepsLowerBound + rng.Intn(p.StepsUpperBound-p.StepsLowerBound+1)

		dir := chooseDirection(rng, p.PercentGoStraight, orient, cur, xMin, xMax, yMin, yMax)
		t := turnTable[orient][dir]

		done := false
		for step := 0; step < numSteps; step++ {
			cur.Row += t.dRow
			cur.Col += t.dCol

			if cur.Row > xMax {
				xMax = cur.Row
			}
			if cur.Row < xMin {
				xMin = cur.Row
			}
			if cur.Col > yMax {
				yMax = cur.Col
			}
			if cur.Col < yMin {
				yMin = cur.Col
			}

			path = append(path, cur)

			if cur.Row == 0 || cur.Row == p.NumRows-1 || cur.Col == 0 || cur.Col == p.NumCols-1 {
				done = true
				if pathEquals(path, existing) || containsCell(path, pop) {
					return nil, false
				}
				break
			}
		}

		orient = t.next
		if done {
			break
		}
	}

	return path, true
}

// chooseDirection draws directions until one is accepted: straight is always
// accepted; a turn is only accepted once the walk sits at the running
// boundary extreme consistent with its current orientation (the heuristic
// original_source uses to keep a path from folding back over itself).
func chooseDirection(rng *rand.Rand, percentGoStraight int, orient orientation, cur gridstate.Cell, xMin, xMax, yMin, yMax int) direction {
	for {
		dir := dirStraight
		percentValue := rng.Intn(101)
		if percentValue > percentGoStraight {
			dir = direction(1 + rng.Intn(2)) // dirRight or dirLeft, equal probability
		}

		if dir == dirStraight {
			return dir
		}
		switch orient {
		case north:
			if cur.Row == xMin {
				return dir
			}
		case south:
			if cur.Row == xMax {
				return dir
			}
		case east:
			if cur.Col == yMax {
				return dir
			}
		case west:
			if cur.Col == yMin {
				return dir
			}
		}
	}
}

func pathEquals(path []gridstate.Cell, existing [][]gridstate.Cell) bool {
	for _, other := range existing {
		if len(other) != len(path) {
			continue
		}
		match := true
		for i := range path {
			if path[i] != other[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func containsCell(path []gridstate.Cell, c gridstate.Cell) bool {
	for _, p := range path {
		if p == c {
			return true
		}
	}
	return false
}
