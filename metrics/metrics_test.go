package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func readCounter(c prometheus.Counter) float64 {
	var m dto.Metric
	_ = c.Write(&m)
	return m.GetCounter().GetValue()
}

func TestNewCollector(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		reg := prometheus.NewRegistry()
		c := NewCollector(reg)

		Convey("All counters start at zero", func() {
			So(readCounter(c.StepsTotal), ShouldEqual, 0.0)
			So(readCounter(c.CellsBurnedTotal), ShouldEqual, 0.0)
			So(readCounter(c.MapGenRetries), ShouldEqual, 0.0)
		})

		Convey("StepsTotal increments", func() {
			c.StepsTotal.Inc()
			c.StepsTotal.Inc()
			So(readCounter(c.StepsTotal), ShouldEqual, 2.0)
		})

		Convey("Collectors are registered against reg, not the default registry", func() {
			metricFamilies, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(metricFamilies), ShouldBeGreaterThanOrEqualTo, 5)
		})
	})
}
