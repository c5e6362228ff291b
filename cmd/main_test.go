package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/cricscore/internal/adapters/repository"
	app "github.com/okian/cricscore/internal/app"
	"github.com/okian/cricscore/internal/config"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("CRICSCORE_ADDR", ":8080")
		t.Setenv("CRICSCORE_QUEUE_SIZE", "1000")
		t.Setenv("CRICSCORE_WORKER_COUNT", "4")

		convey.Convey("Then configuration should be loadable", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
		})
	})

	convey.Convey("Given an invalid worker count", t, func() {
		t.Setenv("CRICSCORE_WORKER_COUNT", "0")

		convey.Convey("Then run refuses to start", func() {
			err := run(context.Background())
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a service on a SQLite store", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.StoreDriver = repository.DriverSQLite
		cfg.SQLitePath = filepath.Join(t.TempDir(), "cricscore.db")
		cfg.WorkerCount = 2

		svc, err := newService(ctx, cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		mux := newMux(svc, cfg)

		serve := func(method, path, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		convey.Convey("Then the console, docs and API are all routed", func() {
			convey.So(serve(http.MethodGet, "/", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/api-docs", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/openapi.yaml", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/healthz", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodPost, "/classify/pitch", `{"x":230,"y":230}`).Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("And a delivery committed over HTTP lands in SQLite", func() {
			w := serve(http.MethodPost, "/sessions",
				`{"match_id":"m1","innings":1,"batter":"Rohit Sharma","bowler":"Jasprit Bumrah"}`)
			convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)
			id := strings.TrimPrefix(w.Header().Get("Location"), "/sessions/")
			convey.So(serve(http.MethodPost, "/sessions/"+id+"/commit", "").Code, convey.ShouldEqual, http.StatusCreated)

			ds, err := svc.ListDeliveries(ctx, "m1", 1, 0)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(ds), convey.ShouldEqual, 1)
			convey.So(svc.GetStats(ctx)["storedDeliveries"], convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given a missing roster file", t, func() {
		cfg := config.New()
		cfg.RosterPath = filepath.Join(t.TempDir(), "missing.toml")

		convey.Convey("Then the service cannot be built", func() {
			_, err := newService(context.Background(), cfg, logger.Get())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given an unknown store driver", t, func() {
		cfg := config.New()
		cfg.StoreDriver = "mongo"

		convey.Convey("Then the service cannot be built", func() {
			_, err := newService(context.Background(), cfg, logger.Get())
			convey.So(errors.Is(err, repository.ErrUnknownDriver), convey.ShouldBeTrue)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.Convey("Then the system updater stops with its context", func() {
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
			convey.So(func() { updateSystemMetrics() }, convey.ShouldNotPanic)
		})

		convey.Convey("And the service updater works on a stopped service", func() {
			svc := app.New()
			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(ctx, svc) }, convey.ShouldNotPanic)
		})
	})
}
