package evac

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"wildfireevac/gridstate"
)

func newTestState(t *testing.T) *gridstate.State {
	cfg := gridstate.Config{
		NumRows:             5,
		NumCols:             5,
		PopulatedAreas:      []gridstate.Cell{{Row: 2, Col: 2}},
		Paths:               [][]gridstate.Cell{{{Row: 2, Col: 1}, {Row: 2, Col: 0}}},
		PathsToPops:         map[int][]gridstate.Cell{0: {{Row: 2, Col: 2}}},
		CustomFireLocations: []gridstate.Cell{{Row: 0, Col: 0}},
		FuelMean:            8.5,
		FuelStdev:           3.0,
		FirePropagationRate: 0.1,
		EvacuationDuration:  2,
		Seed:                5,
	}
	s, err := gridstate.New(cfg)
	if err != nil {
		t.Fatalf("gridstate.New: %v", err)
	}
	return s
}

func TestSetAction(t *testing.T) {
	Convey("Given a populated cell with one live path", t, func() {
		s := newTestState(t)
		m := NewManager(s)

		Convey("Applying its valid action marks it evacuating with a live countdown", func() {
			m.SetAction(0)
			So(s.At(gridstate.Evacuating, 2, 2), ShouldEqual, 1.0)
			So(s.EvacuatingTimestamps[2*s.NumCols+2], ShouldEqual, 2)
		})

		Convey("Applying the same action twice is a no-op the second time", func() {
			m.SetAction(0)
			m.SetAction(0)
			So(len(s.EvacuatingPaths[0]), ShouldEqual, 1)
		})

		Convey("Applying an out-of-range action id is a silent no-op", func() {
			m.SetAction(999)
			So(s.At(gridstate.Evacuating, 2, 2), ShouldEqual, 0.0)
		})

		Convey("Applying the NoopAction id is a silent no-op", func() {
			m.SetAction(s.NoopAction())
			So(s.At(gridstate.Evacuating, 2, 2), ShouldEqual, 0.0)
		})
	})
}

func TestUpdate(t *testing.T) {
	Convey("Given a cell mid-evacuation with a 2-step countdown", t, func() {
		s := newTestState(t)
		m := NewManager(s)
		m.SetAction(0)

		Convey("One Update decrements the countdown without completing evacuation", func() {
			m.Update()
			So(s.EvacuatingTimestamps[2*s.NumCols+2], ShouldEqual, 1)
			So(s.At(gridstate.Populated, 2, 2), ShouldEqual, 1.0)
		})

		Convey("A second Update completes the evacuation", func() {
			m.Update()
			m.Update()
			So(s.At(gridstate.Evacuating, 2, 2), ShouldEqual, 0.0)
			So(s.At(gridstate.Populated, 2, 2), ShouldEqual, 0.0)
			So(s.Populated[gridstate.Cell{Row: 2, Col: 2}], ShouldBeFalse)
			So(s.EvacuatingTimestamps[2*s.NumCols+2], ShouldEqual, gridstate.Infinity)
		})
	})

	Convey("Given a path that catches fire while a cell is evacuating on it", t, func() {
		s := newTestState(t)
		m := NewManager(s)
		m.SetAction(0)

		// Force the path to burn.
		pathCell := s.PathRecords[0].Cells[0]
		s.Channel(gridstate.Fire)[pathCell.Row*s.NumCols+pathCell.Col] = 1

		Convey("Update destroys the path and evicts the evacuating cell", func() {
			m.Update()
			So(s.PathRecords[0].Live, ShouldBeFalse)
			So(s.At(gridstate.Evacuating, 2, 2), ShouldEqual, 0.0)
			So(s.At(gridstate.Paths, pathCell.Row, pathCell.Col), ShouldEqual, 0.0)
			_, stillEvacuating := s.EvacuatingPaths[0]
			So(stillEvacuating, ShouldBeFalse)
		})
	})
}
