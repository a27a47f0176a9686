package simulation

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const testYAML = `
numRows: 8
numCols: 8
populatedAreas:
  - [4, 4]
paths:
  - [[4, 3], [4, 2]]
pathsToPops:
  "0": [[4, 4]]
numFireCells: 2
fuelMean: 8.5
fuelStdev: 3.0
firePropagationRate: 0.12
evacuationDuration: 5
horizon: 50
seed: 9
`

func TestLoadConfig(t *testing.T) {
	Convey("Given a config YAML file on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		So(os.WriteFile(path, []byte(testYAML), 0o644), ShouldBeNil)

		cfg, err := LoadConfig(path)
		So(err, ShouldBeNil)

		Convey("Scalar fields load correctly", func() {
			So(cfg.NumRows, ShouldEqual, 8)
			So(cfg.NumCols, ShouldEqual, 8)
			So(cfg.Horizon, ShouldEqual, 50)
			So(cfg.Seed, ShouldEqual, int64(9))
		})

		Convey("It converts into a valid gridstate.Config", func() {
			gsCfg, err := cfg.ToGridstateConfig()
			So(err, ShouldBeNil)
			So(len(gsCfg.PopulatedAreas), ShouldEqual, 1)
			So(gsCfg.PathsToPops[0], ShouldResemble, gsCfg.PopulatedAreas)
		})
	})

	Convey("Given a nonexistent file", t, func() {
		_, err := LoadConfig("/nonexistent/config.yaml")
		So(err, ShouldNotBeNil)
	})
}
