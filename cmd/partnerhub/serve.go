package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"partnerhub/internal/adapters/httpapi"
	"partnerhub/internal/core"
	"partnerhub/internal/seed"
)

// newRegistry returns the registry served on /metrics.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, a *app, args []string) error {
	fs := newFlags("serve")
	addr := fs.String("addr", a.cfg.HTTPAddr, "listen address")
	trustHeaders := fs.Bool("trust-session-headers", false, "read the session from X-Session-* proxy headers")
	expireEvery := fs.Duration("expire-interval", time.Hour, "how often open invitations are checked for expiry (0 disables)")
	if err := parse(fs, args); err != nil {
		return err
	}

	if a.cfg.SeedOnStart {
		if err := seedIfEmpty(ctx, a); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           a.router(*trustHeaders),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if *expireEvery > 0 {
		go a.expireLoop(ctx, *expireEvery)
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", zap.String("addr", *addr), zap.String("driver", string(a.store.Driver())))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.log.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (a *app) router(trustHeaders bool) http.Handler {
	api := httpapi.NewHandler(a.svc, httpapi.WithLogger(core.NewZapLogger(a.log)))
	var handler http.Handler = api
	if trustHeaders {
		handler = httpapi.TrustedHeaderSessions(api)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintf(w, "ok driver=%s persist_failures=%d load_fallbacks=%d skipped_writes=%d\n",
			a.store.Driver(), a.store.PersistFailures(), a.store.LoadFallbacks(), a.store.SkippedWrites())
	})
	if a.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	}
	mux.Handle("/api/", handler)
	return mux
}

func (a *app) expireLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.svc.ExpireInvitations(ctx); err != nil {
				a.log.Warn("expire invitations", zap.Error(err))
			}
		}
	}
}

// seedIfEmpty loads the demo dataset into a store that holds no document yet.
// An unreadable document is not empty and is left alone.
func seedIfEmpty(ctx context.Context, a *app) error {
	fallbacks := a.store.LoadFallbacks()
	db := a.store.LoadDatabase(ctx)
	if a.store.LoadFallbacks() != fallbacks {
		a.log.Warn("stored document unreadable, skipping seed on start", zap.String("key", a.store.Key()))
		return nil
	}
	if db.Metadata.SeededAt != nil || len(db.Programs) > 0 {
		return nil
	}
	if err := seed.Apply(ctx, a.store, seed.Demo(), seed.ApplyOptions{}); err != nil {
		return fmt.Errorf("seed on start: %w", err)
	}
	a.log.Info("demo dataset loaded on start", zap.Int("programs", len(seed.Demo().Programs)))
	return nil
}
