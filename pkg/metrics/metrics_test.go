package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})

			Convey("Then its metrics land on that registry", func() {
				manager.sessionsStarted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "courtvision_session_started_total")
			})
		})

		Convey("When a refresh interval is given", func() {
			manager := NewManager(
				WithPrometheusRegistry(prometheus.NewRegistry()),
				WithRefreshInterval(3*time.Second),
				WithRefreshInterval(0),
			)

			Convey("Then positive values apply and others are ignored", func() {
				So(manager.RefreshInterval(), ShouldEqual, 3*time.Second)
			})
		})

		Convey("When the global refresh interval is changed", func() {
			before := RefreshInterval()
			SetRefreshInterval(2 * time.Second)
			after := RefreshInterval()
			SetRefreshInterval(-time.Second)
			unchanged := RefreshInterval()
			SetRefreshInterval(before)

			Convey("Then the refresher period follows it", func() {
				So(after, ShouldEqual, 2*time.Second)
				So(unchanged, ShouldEqual, 2*time.Second)
				So(RefreshInterval(), ShouldEqual, before)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When a session starts and ends with attempts", func() {
			before := testutil.ToFloat64(globalManager.sessionsArchived)
			RecordSessionStarted()
			So(testutil.ToFloat64(globalManager.sessionActive), ShouldEqual, 1)
			RecordSessionEnded(true)

			Convey("Then the archived counter grows and the active gauge resets", func() {
				So(testutil.ToFloat64(globalManager.sessionsArchived), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.sessionActive), ShouldEqual, 0)
			})
		})

		Convey("When an empty session ends", func() {
			before := testutil.ToFloat64(globalManager.sessionsEmpty)
			RecordSessionEnded(false)

			Convey("Then the empty counter grows", func() {
				So(testutil.ToFloat64(globalManager.sessionsEmpty), ShouldEqual, before+1)
			})
		})

		Convey("When shots are recorded", func() {
			c := globalManager.shotsIngested.WithLabelValues("make", "threePoint")
			before := testutil.ToFloat64(c)
			RecordShotIngested("make", "threePoint")
			RecordShotDropped("inactive")

			Convey("Then the labelled counter grows", func() {
				So(testutil.ToFloat64(c), ShouldEqual, before+1)
			})
		})

		Convey("When recording the remaining helpers", func() {
			So(func() {
				RecordSessionRejected("invalid_calibration")
				UpdateHistorySize(3)
				UpdateQueueSize(2)
				UpdateQueueCapacity(16)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueRejected("full")
				RecordIngestLatency(1.5)
				RecordCollaboratorError("detector")
				RecordFrameProduced()
				RecordFrameDropped()
				RecordInsightsLatency(400)
				RecordInsightsError()
				RecordHTTPRequest("session", "POST", "200")
				RecordHTTPRequestDuration("session", "POST", "200", 2)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.historySize), ShouldEqual, 3)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
