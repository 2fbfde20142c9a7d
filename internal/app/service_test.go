package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okian/courtvision/internal/adapters/repository"
	service "github.com/okian/courtvision/internal/app"
	"github.com/okian/courtvision/internal/config"
	"github.com/okian/courtvision/internal/domain/detection"
	"github.com/okian/courtvision/internal/domain/model"
	"github.com/okian/courtvision/internal/session"
	"github.com/okian/courtvision/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type failingProvider struct{}

func (failingProvider) FetchInsights(context.Context, model.SessionStats) (string, error) {
	return "", errors.New("backend down")
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that has not been started", t, func() {
		svc := service.New()

		Convey("Then session operations report ErrNotStarted", func() {
			err := svc.StartSession(context.Background(), model.DefaultCalibration())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Snapshot()
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithMockShots(false), service.WithInsightsLatency(0))
		So(svc.Start(ctx), ShouldBeNil)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it is marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When a session is played with manual shots", func() {
			So(svc.StartSession(ctx, model.DefaultCalibration()), ShouldBeNil)
			_, err := svc.RegisterManualShot(ctx, model.Make, model.DistanceThreePoint)
			So(err, ShouldBeNil)
			_, err = svc.RegisterManualShot(ctx, model.Miss, model.DistanceUnknown)
			So(err, ShouldBeNil)
			rec, err := svc.EndSession(ctx)
			So(err, ShouldBeNil)
			So(rec, ShouldNotBeNil)

			Convey("Then the record appears in history", func() {
				history, err := svc.History(ctx)
				So(err, ShouldBeNil)
				So(len(history), ShouldEqual, 1)
				So(history[0].ID, ShouldEqual, rec.ID)
				So(svc.GetStats()["historySize"], ShouldEqual, 1)
			})

			Convey("Then the summary carries stats and insights", func() {
				sum, err := svc.Summary(ctx, rec.ID)
				So(err, ShouldBeNil)
				So(sum.FieldGoalPercentage, ShouldEqual, 0.5)
				So(sum.ThreePointPercentage, ShouldEqual, 1.0)
				So(sum.Insights, ShouldStartWith, "You attempted 2 shots and made 1. FG%: 50.0%.")
				So(sum.ErrorMessage, ShouldBeEmpty)
				So(len(sum.Record.Events), ShouldEqual, 2)
			})
		})

		Convey("When the summary is requested for an unknown id", func() {
			_, err := svc.Summary(ctx, uuid.New())

			Convey("Then it reports not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When stopping with a session still running", func() {
			So(svc.StartSession(ctx, model.DefaultCalibration()), ShouldBeNil)
			_, _ = svc.RegisterManualShot(ctx, model.Make, model.DistanceFreeThrow)
			svc.Stop()

			Convey("Then the service stops cleanly", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_DetectedShots(t *testing.T) {
	Convey("Given a service with a fast mock pipeline", t, func() {
		ctx := context.Background()
		pipeline := detection.NewMockPipeline(detection.WithInterval(5 * time.Millisecond))
		svc := service.New(service.WithPipeline(pipeline), service.WithFrameRate(100))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a session runs for a while", func() {
			So(svc.StartSession(ctx, model.DefaultCalibration()), ShouldBeNil)

			Convey("Then detected shots reach the session through the pump", func() {
				deadline := time.Now().Add(2 * time.Second)
				var snap session.Snapshot
				for time.Now().Before(deadline) {
					snap, _ = svc.Snapshot()
					if snap.Stats.TotalAttempts >= 3 {
						break
					}
					time.Sleep(5 * time.Millisecond)
				}
				So(snap.Stats.TotalAttempts, ShouldBeGreaterThanOrEqualTo, 3)
				So(len(snap.Events), ShouldEqual, snap.Stats.TotalAttempts)
				So(pipeline.Frames(), ShouldBeGreaterThan, 0)

				rec, err := svc.EndSession(ctx)
				So(err, ShouldBeNil)
				So(rec, ShouldNotBeNil)
				So(rec.Stats.TotalAttempts, ShouldBeGreaterThanOrEqualTo, 3)
			})
		})
	})
}

func TestService_InsightsFailure(t *testing.T) {
	Convey("Given a service whose insights provider fails", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithMockShots(false), service.WithInsightsProvider(failingProvider{}))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		So(svc.StartSession(ctx, model.DefaultCalibration()), ShouldBeNil)
		_, _ = svc.RegisterManualShot(ctx, model.Make, model.DistanceTwoPoint)
		rec, err := svc.EndSession(ctx)
		So(err, ShouldBeNil)

		Convey("When the summary is loaded", func() {
			sum, err := svc.Summary(ctx, rec.ID)

			Convey("Then stats are shown with a friendly message instead of insights", func() {
				So(err, ShouldBeNil)
				So(sum.Insights, ShouldBeEmpty)
				So(sum.ErrorMessage, ShouldEqual, service.InsightsUnavailableMessage)
				So(sum.Record.Stats.TotalAttempts, ShouldEqual, 1)
				history, _ := svc.History(ctx)
				So(len(history), ShouldEqual, 1)
			})
		})
	})
}

func TestService_PersistentHistory(t *testing.T) {
	Convey("Given a service backed by SQLite", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.MockShotsEnabled = false
		cfg.InsightsLatencyMS = 0
		cfg.HistoryDBPath = filepath.Join(t.TempDir(), "history.db")

		svc := service.New(service.FromConfig(cfg)...)
		So(svc.Start(ctx), ShouldBeNil)
		So(svc.StartSession(ctx, model.DefaultCalibration()), ShouldBeNil)
		_, _ = svc.RegisterManualShot(ctx, model.Make, model.DistanceThreePoint)
		rec, err := svc.EndSession(ctx)
		So(err, ShouldBeNil)
		svc.Stop()

		Convey("When a new service opens the same database", func() {
			again := service.New(service.FromConfig(cfg)...)
			So(again.Start(ctx), ShouldBeNil)
			defer again.Stop()

			Convey("Then the earlier session is still in history", func() {
				history, err := again.History(ctx)
				So(err, ShouldBeNil)
				So(len(history), ShouldEqual, 1)
				So(history[0].ID, ShouldEqual, rec.ID)
				So(again.GetStats()["persistentHistory"], ShouldEqual, true)
			})
		})
	})
}

func TestService_BadAPIBaseURL(t *testing.T) {
	Convey("Given a malformed insights backend URL", t, func() {
		svc := service.New(service.WithAPIBaseURL("::not-a-url"))

		Convey("Then Start fails", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}
