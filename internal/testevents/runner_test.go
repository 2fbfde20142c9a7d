package testevents_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/courtvision/internal/adapters/http/api"
	service "github.com/okian/courtvision/internal/app"
	"github.com/okian/courtvision/internal/testevents"
	"github.com/okian/courtvision/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()
	ctx := context.Background()
	svc := service.New(service.WithMockShots(false), service.WithInsightsLatency(0))
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		svc.Stop()
	})
	return srv, svc
}

func TestRun(t *testing.T) {
	Convey("Given a running courtvision server", t, func() {
		srv, svc := newServer(t)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When driving a session of shots", func() {
			out := filepath.Join(t.TempDir(), "out", "record.json")
			stats, err := testevents.Run(ctx, &testevents.Config{
				BaseURL:    srv.URL,
				NumShots:   40,
				Workers:    4,
				Seed:       7,
				OutputFile: out,
			})

			Convey("Then every shot is archived and verified", func() {
				So(err, ShouldBeNil)
				So(stats.ShotsAccepted, ShouldEqual, 40)
				So(stats.ShotsFailed, ShouldEqual, 0)
				So(stats.Record, ShouldNotBeNil)
				So(stats.Record.Stats, ShouldResemble, withID(stats.Expected, stats.Record.Stats))

				history, err := svc.History(ctx)
				So(err, ShouldBeNil)
				So(len(history), ShouldEqual, 1)
				So(history[0].ID, ShouldEqual, stats.Record.ID)

				_, err = os.Stat(out)
				So(err, ShouldBeNil)
			})
		})

		Convey("When driving zero shots", func() {
			stats, err := testevents.Run(ctx, &testevents.Config{BaseURL: srv.URL, NumShots: 0})

			Convey("Then nothing is archived and the run still verifies", func() {
				So(err, ShouldBeNil)
				So(stats.Record, ShouldBeNil)
			})
		})

		Convey("When a session is already active", func() {
			So(svc.StartSession(ctx, defaultCal()), ShouldBeNil)
			_, err := testevents.Run(ctx, &testevents.Config{BaseURL: srv.URL, NumShots: 1})

			Convey("Then the run fails on session start", func() {
				So(errors.Is(err, testevents.ErrUnexpectedStatus), ShouldBeTrue)
			})
		})
	})

	Convey("Given no server", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		Convey("Then the health check fails", func() {
			_, err := testevents.Run(context.Background(), &testevents.Config{
				BaseURL: url,
				Timeout: time.Second,
			})
			So(errors.Is(err, testevents.ErrUnhealthy), ShouldBeTrue)
		})
	})
}
