// Package mapio persists and loads map layouts generated by mapgen, in the
// timestamped-directory format of spec §4.8, grounded on original_source's
// pyrorl/map_helpers/create_map_info.py save_map_info/load_map_info (Python
// pickle there; here gopkg.in/yaml.v3, already the project's config-file
// dependency, instead of introducing a new serialization format).
package mapio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"wildfireevac/gridstate"
	"wildfireevac/mapgen"
	"wildfireevac/simerr"
)

// MapDirectory is the root directory, relative to the caller's working
// directory, under which timestamped map snapshots are written.
const MapDirectory = "pyrorl_map_info"

// document is the YAML-serialized form of a mapgen.Map.
type document struct {
	NumRows           int                 `yaml:"numRows"`
	NumCols           int                 `yaml:"numCols"`
	NumPopulatedAreas int                 `yaml:"numPopulatedAreas"`
	PercentPopulated  float64             `yaml:"percentPopulated"`
	PopulatedAreas    [][2]int            `yaml:"populatedAreas"`
	Paths             [][][2]int          `yaml:"paths"`
	PathsToPops       map[string][][2]int `yaml:"pathsToPops"`
}

func toPairs(cells []gridstate.Cell) [][2]int {
	out := make([][2]int, len(cells))
	for i, c := range cells {
		out[i] = [2]int{c.Row, c.Col}
	}
	return out
}

func fromPairs(pairs [][2]int) []gridstate.Cell {
	out := make([]gridstate.Cell, len(pairs))
	for i, p := range pairs {
		out[i] = gridstate.Cell{Row: p[0], Col: p[1]}
	}
	return out
}

func toDocument(m *mapgen.Map) document {
	doc := document{
		NumRows:           m.NumRows,
		NumCols:           m.NumCols,
		NumPopulatedAreas: m.NumPopulatedAreas,
		PercentPopulated:  m.PercentPopulated,
		PopulatedAreas:    toPairs(m.PopulatedAreas),
		PathsToPops:       map[string][][2]int{},
	}
	doc.Paths = make([][][2]int, len(m.Paths))
	for i, p := range m.Paths {
		doc.Paths[i] = toPairs(p)
	}
	for idx, cells := range m.PathsToPops {
		doc.PathsToPops[fmt.Sprint(idx)] = toPairs(cells)
	}
	return doc
}

func (doc document) toMap() (*mapgen.Map, error) {
	m := &mapgen.Map{
		NumRows:           doc.NumRows,
		NumCols:           doc.NumCols,
		NumPopulatedAreas: doc.NumPopulatedAreas,
		PercentPopulated:  doc.PercentPopulated,
		PopulatedAreas:    fromPairs(doc.PopulatedAreas),
		PathsToPops:       map[int][]gridstate.Cell{},
	}
	m.Paths = make([][]gridstate.Cell, len(doc.Paths))
	for i, p := range doc.Paths {
		m.Paths[i] = fromPairs(p)
	}
	for k, v := range doc.PathsToPops {
		var idx int
		if _, err := fmt.Sscan(k, &idx); err != nil {
			return nil, simerr.New(simerr.PersistenceError, "malformed path index in pathsToPops: "+k)
		}
		m.PathsToPops[idx] = fromPairs(v)
	}
	return m, nil
}

// Save writes m to a new timestamped subdirectory of MapDirectory (under
// baseDir, typically the process's working directory), producing:
//   - map_info.txt: a plain-text summary (rows, columns, populated count)
//   - map.yaml: the full populated-areas/paths/pathsToPops document
//
// It returns the directory path written. All I/O failures are wrapped as
// simerr.PersistenceError.
func Save(baseDir string, m *mapgen.Map, now time.Time) (string, error) {
	root := filepath.Join(baseDir, MapDirectory)
	dir := filepath.Join(root, now.Format("2006-01-02T15-04-05"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", simerr.New(simerr.PersistenceError, "create map directory: "+err.Error())
	}

	infoPath := filepath.Join(dir, "map_info.txt")
	f, err := os.Create(infoPath)
	if err != nil {
		return "", simerr.New(simerr.PersistenceError, "create map_info.txt: "+err.Error())
	}
	_, werr := fmt.Fprintf(f, "num_rows: %d\nnum_cols: %d\nnum_populated_areas: %d\n", m.NumRows, m.NumCols, m.NumPopulatedAreas)
	cerr := f.Close()
	if werr != nil {
		return "", simerr.New(simerr.PersistenceError, "write map_info.txt: "+werr.Error())
	}
	if cerr != nil {
		return "", simerr.New(simerr.PersistenceError, "close map_info.txt: "+cerr.Error())
	}

	yamlPath := filepath.Join(dir, "map.yaml")
	raw, err := yaml.Marshal(toDocument(m))
	if err != nil {
		return "", simerr.New(simerr.PersistenceError, "marshal map.yaml: "+err.Error())
	}
	if err := os.WriteFile(yamlPath, raw, 0o644); err != nil {
		return "", simerr.New(simerr.PersistenceError, "write map.yaml: "+err.Error())
	}

	log.Info().Str("dir", dir).Int("num_paths", len(m.Paths)).Msg("map saved")

	return dir, nil
}

// Load reads back a map directory previously written by Save.
func Load(dir string) (*mapgen.Map, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "map.yaml"))
	if err != nil {
		return nil, simerr.New(simerr.PersistenceError, "read map.yaml: "+err.Error())
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, simerr.New(simerr.PersistenceError, "unmarshal map.yaml: "+err.Error())
	}
	m, err := doc.toMap()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("dir", dir).Msg("map loaded")
	return m, nil
}
