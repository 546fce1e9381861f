package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aeopt/advisor/internal/activity"
	"github.com/aeopt/advisor/internal/api"
	"github.com/aeopt/advisor/internal/auth"
	"github.com/aeopt/advisor/internal/heuristic"
	"github.com/aeopt/advisor/internal/httpx"
	"github.com/aeopt/advisor/internal/metrics"
	"github.com/aeopt/advisor/internal/param"
	"github.com/aeopt/advisor/internal/state"
	"github.com/aeopt/advisor/internal/store"
	"github.com/aeopt/advisor/internal/sweeper"
)

func main() {
	dbPath := os.Getenv("ADVISOR_DB_PATH")
	if dbPath == "" {
		dbPath = "advisor.db"
	}
	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	registry := heuristic.NewRegistry()
	config := state.New(registry)

	// Resume the persisted active parameter set, if any.
	if rec, values, ok, err := st.ActiveParamSet(context.Background()); err != nil {
		log.Fatalf("load active param set: %v", err)
	} else if ok {
		config.SetParams(rec.ID, param.Load(values))
		log.Printf("resumed param set %s (%s)", rec.ID, rec.Name)
	}

	activityLog := activity.New(300)
	scores := metrics.NewScoreTracker(0.2)
	authenticator := auth.NewAuthenticator(st)

	// Trial retention (keeps the tuning history bounded).
	sw := &sweeper.Sweeper{
		Store:           st,
		Activity:        activityLog,
		Retention:       time.Duration(envOrInt("TRIAL_RETENTION_HOURS", 24*14)) * time.Hour,
		MaxTrialsPerSet: envOrInt("MAX_TRIALS_PER_SET", 200),
		Interval:        time.Duration(envOrInt("SWEEP_INTERVAL_SECONDS", 60)) * time.Second,
	}
	go sw.Run(context.Background())

	srv := &api.Server{
		Config:   config,
		Registry: registry,
		Store:    st,
		Scores:   scores,
		Activity: activityLog,
		Auth:     authenticator,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	apiMux := http.NewServeMux()
	srv.Register(apiMux)
	mux.Handle("/v1/", authenticator.Middleware(apiMux))

	handler := httpx.CORS{AllowOrigin: "*"}.Wrap(mux)

	addr := os.Getenv("ADVISOR_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("HTTP listening on %s", addr)
	if err := httpSrv.ListenAndServe(); err != nil {
		log.Fatalf("http serve: %v", err)
	}
}

func envOrInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
