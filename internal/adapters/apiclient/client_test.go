package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/courtvision/internal/adapters/apiclient"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClientRequest(t *testing.T) {
	Convey("Given a backend", t, func() {
		var hits atomic.Int32
		status := atomic.Int32{}
		status.Store(http.StatusOK)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if r.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.WriteHeader(int(status.Load()))
			_, _ = w.Write([]byte(r.URL.Path + "?" + r.URL.RawQuery))
		}))
		defer srv.Close()

		client, err := apiclient.New(srv.URL+"/v1",
			apiclient.WithMaxTries(3),
			apiclient.WithInitialBackoff(time.Millisecond),
		)
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When the request succeeds", func() {
			body, err := client.Request(ctx, "insights?attempts=3&makes=2")

			Convey("Then the path is joined onto the base URL", func() {
				So(err, ShouldBeNil)
				So(string(body), ShouldEqual, "/v1/insights?attempts=3&makes=2")
				So(hits.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the backend answers 404", func() {
			status.Store(http.StatusNotFound)
			_, err := client.Request(ctx, "insights")

			Convey("Then a status error is returned without retrying", func() {
				var se *apiclient.StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Code, ShouldEqual, http.StatusNotFound)
				So(apiclient.IsStatus(err, http.StatusNotFound), ShouldBeTrue)
				So(hits.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the backend keeps failing with 503", func() {
			status.Store(http.StatusServiceUnavailable)
			_, err := client.Request(ctx, "insights")

			Convey("Then the request is retried up to the limit", func() {
				So(apiclient.IsStatus(err, http.StatusServiceUnavailable), ShouldBeTrue)
				So(hits.Load(), ShouldEqual, 3)
			})
		})
	})
}

func TestClientErrors(t *testing.T) {
	Convey("Given a client without a base URL", t, func() {
		client, err := apiclient.New("")
		So(err, ShouldBeNil)

		Convey("Then every request fails with ErrInvalidURL", func() {
			_, err := client.Request(context.Background(), "insights")
			So(errors.Is(err, apiclient.ErrInvalidURL), ShouldBeTrue)
		})
	})

	Convey("Given a malformed base URL", t, func() {
		_, err := apiclient.New("not a url")

		Convey("Then construction fails", func() {
			So(errors.Is(err, apiclient.ErrInvalidURL), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable backend", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		client, err := apiclient.New(url, apiclient.WithMaxTries(1))
		So(err, ShouldBeNil)

		Convey("Then a transport error is returned", func() {
			_, err := client.Request(context.Background(), "insights")
			So(errors.Is(err, apiclient.ErrTransport), ShouldBeTrue)
		})
	})
}
