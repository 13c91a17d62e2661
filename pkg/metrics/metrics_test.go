package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// sample sums every series of a counter or gauge family.
func sample(g prometheus.Gatherer, name string) float64 {
	families, err := g.Gather()
	if err != nil {
		return -1
	}
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if g := m.GetGauge(); g != nil {
				total += g.GetValue()
			}
		}
	}
	return total
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("planner_test"),
				WithHistogramBuckets([]float64{1, 10}),
				WithPrometheusRegistry(registry),
			)
			manager.mutations.WithLabelValues("classes", "create", "ok").Inc()

			Convey("Then its collectors are registered under the namespace", func() {
				So(sample(registry, "test_planner_test_mutations_total"), ShouldEqual, 1)
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 10})
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults stay", func() {
				So(manager.namespace, ShouldEqual, "weekplan")
				So(manager.subsystem, ShouldEqual, "planner")
				So(manager.histogramBuckets, ShouldResemble, latencyBuckets)
			})
		})

		Convey("When two managers share one registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	reg := GetRegistry()

	Convey("Given the global manager", t, func() {
		Convey("When recording mutation outcomes", func() {
			before := sample(reg, "weekplan_planner_mutations_total")
			RecordMutation("events", "delete", "error")
			So(sample(reg, "weekplan_planner_mutations_total")-before, ShouldEqual, 1)
		})

		Convey("When recording invalidations per view", func() {
			before := sample(reg, "weekplan_planner_invalidations_total")
			RecordInvalidation("today-classes")
			RecordInvalidation("classes")
			So(sample(reg, "weekplan_planner_invalidations_total")-before, ShouldEqual, 2)
		})

		Convey("When setting gauges", func() {
			UpdateSignalQueueSize(7)
			UpdateSignalQueueCapacity(64)
			UpdateDispatchWorkers(3)

			Convey("Then they hold the last value", func() {
				So(sample(reg, "weekplan_planner_signal_queue_size"), ShouldEqual, 7)
				So(sample(reg, "weekplan_planner_signal_queue_capacity"), ShouldEqual, 64)
				So(sample(reg, "weekplan_planner_dispatch_workers"), ShouldEqual, 3)
			})
		})

		Convey("When every helper is called", func() {
			So(func() {
				RecordValidationFailure("classes", "invalid_time")
				RecordSubmissionBlocked()
				RecordProjectionRebuild("classes")
				RecordStaleServe("classes")
				RecordRollover()
				RecordSignalEnqueued()
				RecordSignalDropped("queue_full")
				RecordSignalDelivered("log", "ok")
				RecordStoreLatency("classes", "list", 3.2)
				RecordStoreError("classes", "insert")
				UpdateRecordsTotal("classes", 12)
				RecordHTTPRequest("classes", "GET", "200")
				RecordHTTPRequestDuration("classes", "GET", "200", 1.5)
				RecordHTTPError("classes", "POST", "client_error")
			}, ShouldNotPanic)
		})
	})
}
