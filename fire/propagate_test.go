package fire

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"wildfireevac/gridstate"
)

func TestPropagate(t *testing.T) {
	Convey("Given a cell on fire with 1 unit of fuel remaining and no neighbors burning", t, func() {
		cfg := gridstate.Config{
			NumRows:             3,
			NumCols:             3,
			CustomFireLocations: []gridstate.Cell{{Row: 1, Col: 1}},
			FuelMean:            1,
			FuelStdev:           0,
			FirePropagationRate: 0.1,
			Seed:                42,
		}
		s, err := gridstate.New(cfg)
		So(err, ShouldBeNil)
		So(s.At(gridstate.Fuel, 1, 1), ShouldEqual, 1.0)

		Convey("After one propagation step, fuel is burned to 0 and the cell extinguishes", func() {
			Propagate(s)
			So(s.At(gridstate.Fuel, 1, 1), ShouldEqual, 0.0)
			So(s.At(gridstate.Fire, 1, 1), ShouldEqual, 0.0)
		})
	})

	Convey("Given a cell with ample fuel that stays on fire", t, func() {
		cfg := gridstate.Config{
			NumRows:             3,
			NumCols:             3,
			CustomFireLocations: []gridstate.Cell{{Row: 1, Col: 1}},
			FuelMean:            100,
			FuelStdev:           0,
			FirePropagationRate: 0.1,
			Seed:                7,
		}
		s, err := gridstate.New(cfg)
		So(err, ShouldBeNil)

		Convey("After one step it burns down by 1 but remains on fire", func() {
			Propagate(s)
			So(s.At(gridstate.Fuel, 1, 1), ShouldEqual, 99.0)
			So(s.At(gridstate.Fire, 1, 1), ShouldEqual, 1.0)
		})
	})

	Convey("Given a state seeded identically twice", t, func() {
		newState := func() *gridstate.State {
			cfg := gridstate.Config{
				NumRows:             10,
				NumCols:             10,
				NumFireCells:        3,
				FuelMean:            8.5,
				FuelStdev:           3,
				FirePropagationRate: 0.25,
				Seed:                99,
			}
			s, err := gridstate.New(cfg)
			So(err, ShouldBeNil)
			return s
		}

		Convey("Propagation is deterministic across repeated runs from the same seed", func() {
			a := newState()
			b := newState()
			for step := 0; step < 5; step++ {
				Propagate(a)
				Propagate(b)
			}
			for i := range a.Channel(gridstate.Fire) {
				So(a.Channel(gridstate.Fire)[i], ShouldEqual, b.Channel(gridstate.Fire)[i])
			}
			for i := range a.Channel(gridstate.Fuel) {
				So(a.Channel(gridstate.Fuel)[i], ShouldEqual, b.Channel(gridstate.Fuel)[i])
			}
		})
	})

	Convey("Given an isolated fire with no burning neighbors anywhere on the grid", t, func() {
		cfg := gridstate.Config{
			NumRows:             9,
			NumCols:             9,
			CustomFireLocations: []gridstate.Cell{{Row: 2, Col: 2}},
			FuelMean:            100,
			FuelStdev:           0,
			FirePropagationRate: 0.1,
			Seed:                1,
		}
		s, err := gridstate.New(cfg)
		So(err, ShouldBeNil)

		Convey("Propagate never turns a cell's survival probability into ignition without a burning neighbor", func() {
			Propagate(s)
			for row := 0; row < s.NumRows; row++ {
				for col := 0; col < s.NumCols; col++ {
					if row == 2 && col == 2 {
						continue
					}
					// No other cell has a burning neighbor within the kernel's
					// radius at step 1, so ignitionProb is 0 everywhere except
					// the immediate neighborhood of (2,2); cells outside that
					// 5x5 neighborhood must remain unburned.
					dr, dc := row-2, col-2
					if dr < -2 || dr > 2 || dc < -2 || dc > 2 {
						So(s.At(gridstate.Fire, row, col), ShouldEqual, 0.0)
					}
				}
			}
		})
	})
}
