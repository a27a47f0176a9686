package kernel

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Given no wind", t, func() {
		m := Build(0.1, Wind{})

		Convey("The center entry is 1", func() {
			So(m[center*Size+center], ShouldEqual, 1.0)
		})

		Convey("Entries increase monotonically with distance from center", func() {
			closeEntry := m[center*Size+(center+1)]
			farEntry := m[center*Size+(center+2)]
			So(closeEntry, ShouldBeLessThan, 1.0)
			So(farEntry, ShouldBeGreaterThan, closeEntry)
		})
	})

	Convey("Given wind blowing due west (angle=pi) at nonzero speed", t, func() {
		base := Build(0.1, Wind{})
		windy := Build(0.1, Wind{Enabled: true, Speed: 20, Angle: math.Pi})

		Convey("West column entries are strictly larger than the unwinded mask", func() {
			for _, row := range []int{0, 1, 3, 4} {
				idx := row*Size + 0
				So(windy[idx], ShouldBeGreaterThan, base[idx])
			}
		})

		Convey("East column entries are strictly smaller than the unwinded mask", func() {
			for _, row := range []int{0, 1, 3, 4} {
				idx := row*Size + (Size - 1)
				So(windy[idx], ShouldBeLessThan, base[idx])
			}
		})

		Convey("Center column entries are unaffected", func() {
			for _, row := range []int{0, 1, 3, 4} {
				idx := row*Size + center
				So(windy[idx], ShouldEqual, base[idx])
			}
		})

		Convey("Center cell remains 1", func() {
			So(windy[center*Size+center], ShouldEqual, 1.0)
		})
	})

	Convey("Given an extreme wind speed, entries are clamped into [0, 1]", t, func() {
		windy := Build(0.5, Wind{Enabled: true, Speed: 10000, Angle: 0})
		for _, v := range windy {
			So(v, ShouldBeBetweenOrEqual, 0.0, 1.0)
		}
	})
}

func TestNewWind(t *testing.T) {
	Convey("Given neither speed nor angle", t, func() {
		w, err := NewWind(nil, nil)
		So(err, ShouldBeNil)
		So(w.Enabled, ShouldBeFalse)
	})

	Convey("Given only one of speed/angle", t, func() {
		speed := 1.0
		_, err := NewWind(&speed, nil)
		So(err, ShouldNotBeNil)
	})

	Convey("Given a negative speed", t, func() {
		speed, angle := -1.0, 0.0
		_, err := NewWind(&speed, &angle)
		So(err, ShouldNotBeNil)
	})

	Convey("Given both speed and angle", t, func() {
		speed, angle := 3.0, 1.2
		w, err := NewWind(&speed, &angle)
		So(err, ShouldBeNil)
		So(w.Enabled, ShouldBeTrue)
		So(w.Speed, ShouldEqual, 3.0)
		So(w.Angle, ShouldEqual, 1.2)
	})
}
