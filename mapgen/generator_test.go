package mapgen

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given valid params for a modest grid", t, func() {
		p := DefaultParams()
		p.NumRows = 15
		p.NumCols = 15
		p.NumPopulatedAreas = 3
		p.Seed = 42

		m, err := Generate(p, nil)
		So(err, ShouldBeNil)

		Convey("It produces exactly NumPopulatedAreas populated cells, none on the edge", func() {
			So(len(m.PopulatedAreas), ShouldEqual, 3)
			for _, c := range m.PopulatedAreas {
				So(c.Row, ShouldBeBetweenOrEqual, 1, p.NumRows-2)
				So(c.Col, ShouldBeBetweenOrEqual, 1, p.NumCols-2)
			}
		})

		Convey("Every populated cell has at least one path", func() {
			for _, pop := range m.PopulatedAreas {
				count := 0
				for _, cells := range m.PathsToPops {
					for _, c := range cells {
						if c == pop {
							count++
						}
					}
				}
				So(count, ShouldBeGreaterThanOrEqualTo, 1)
			}
		})

		Convey("Every path terminates on the grid boundary", func() {
			for _, path := range m.Paths {
				last := path[len(path)-1]
				onEdge := last.Row == 0 || last.Row == p.NumRows-1 || last.Col == 0 || last.Col == p.NumCols-1
				So(onEdge, ShouldBeTrue)
			}
		})

		Convey("No path revisits its own origin cell", func() {
			for pathIdx, path := range m.Paths {
				pops := m.PathsToPops[pathIdx]
				for _, pop := range pops {
					for _, c := range path {
						So(c, ShouldNotResemble, pop)
					}
				}
			}
		})

		Convey("PercentPopulated is NumPopulatedAreas over grid area", func() {
			So(m.PercentPopulated, ShouldEqual, float64(p.NumPopulatedAreas)/float64(p.NumRows*p.NumCols))
		})

		Convey("Generation is deterministic for a fixed seed", func() {
			m2, err := Generate(p, nil)
			So(err, ShouldBeNil)
			So(m2.PopulatedAreas, ShouldResemble, m.PopulatedAreas)
			So(m2.Paths, ShouldResemble, m.Paths)
		})
	})

	Convey("Given invalid params", t, func() {
		Convey("Zero rows is rejected", func() {
			p := DefaultParams()
			p.NumCols = 10
			_, err := Generate(p, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("Too many populated areas for the interior is rejected", func() {
			p := DefaultParams()
			p.NumRows, p.NumCols = 3, 3
			p.NumPopulatedAreas = 5
			_, err := Generate(p, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("percent_go_straight over 99 is rejected", func() {
			p := DefaultParams()
			p.NumRows, p.NumCols, p.NumPopulatedAreas = 10, 10, 1
			p.PercentGoStraight = 100
			_, err := Generate(p, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("An inverted step bound range is rejected", func() {
			p := DefaultParams()
			p.NumRows, p.NumCols, p.NumPopulatedAreas = 10, 10, 1
			p.StepsLowerBound, p.StepsUpperBound = 5, 2
			_, err := Generate(p, nil)
			So(err, ShouldNotBeNil)
		})
	})
}
