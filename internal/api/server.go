package api

import (
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"fleetdispatch/internal/config"
	"fleetdispatch/internal/dispatch"
	"fleetdispatch/internal/jobs"
	"fleetdispatch/internal/store"
)

type Server struct {
	Store  store.Store
	Jobs   *jobs.Runtime
	Broker EventBroker

	orchestrator *dispatch.Orchestrator
	// optLimiter throttles the CPU-bound synchronous optimize endpoint.
	optLimiter *rate.Limiter
}

// NewServer wires the store, event broker, job runtime, and dispatch
// orchestrator. Without a DatabaseURL the in-memory store is used.
func NewServer(cfg config.Config) (*Server, error) {
	var s store.Store
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		// Run migrations (dev helper)
		if cfg.MigrationsDir != "" {
			if err := sp.MigrateDir(cfg.MigrationsDir); err != nil {
				log.Printf("migrate: %v", err)
			}
		}
		s = sp
	}

	var broker EventBroker
	if cfg.RedisURL != "" {
		if rb, err := NewRedisBroker(cfg.RedisURL); err == nil {
			broker = rb
		} else {
			log.Printf("redis broker unavailable, falling back to in-memory: %v", err)
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}

	srv := &Server{
		Store:  s,
		Broker: broker,
		orchestrator: &dispatch.Orchestrator{
			Store: s,
			Seed:  cfg.DispatchSeed,
		},
		optLimiter: rate.NewLimiter(rate.Limit(cfg.Optimize.RatePerSec), cfg.Optimize.Burst),
	}
	srv.Jobs = jobs.NewRuntime(cfg.Jobs.Workers, cfg.Jobs.QueueDepth, func(j jobs.Job) {
		evt := JobEvent{JobID: j.ID, Status: string(j.Status), Error: j.Error, TS: time.Now().UTC().Format(time.RFC3339Nano)}
		broker.Publish(j.ID, evt)
	})
	return srv, nil
}
