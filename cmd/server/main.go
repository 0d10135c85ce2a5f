package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"reggate/internal/gatekeeper/admin"
	"reggate/internal/gatekeeper/checker"
	"reggate/internal/gatekeeper/factory"
	gkhandler "reggate/internal/gatekeeper/handler"
	"reggate/internal/gatekeeper/instances"
	"reggate/internal/gatekeeper/metrics"
	"reggate/internal/gatekeeper/plugins/captcha"
	"reggate/internal/gatekeeper/plugins/disposableemail"
	"reggate/internal/gatekeeper/plugins/honeypot"
	"reggate/internal/gatekeeper/plugins/ratelimit"
	"reggate/internal/gatekeeper/plugins/timegate"
	"reggate/internal/gatekeeper/plugins/useragent"
	"reggate/internal/gatekeeper/registry"
	"reggate/internal/gatekeeper/settings"
	"reggate/internal/gatekeeper/store"
	jwttoken "reggate/internal/jwt_token"
	"reggate/internal/platform/config"
	"reggate/internal/platform/httpserver"
	platformkafka "reggate/internal/platform/kafka"
	"reggate/internal/platform/logger"
	"reggate/internal/platform/middleware"
	"reggate/internal/platform/postgres"
	platformredis "reggate/internal/platform/redis"
	"reggate/internal/signup"
	"reggate/pkg/platform/audit"
	kafkasink "reggate/pkg/platform/audit/sinks/kafka"
	auditmemory "reggate/pkg/platform/audit/store/memory"
	auditpostgres "reggate/pkg/platform/audit/store/postgres"
	"reggate/pkg/platform/audit/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reggate: %v\n", err)
		os.Exit(1)
	}
}

// run wires the dependency graph and drives the server lifecycle. Storage
// backends degrade gracefully: without PostgreSQL everything stays in
// memory, without Kafka audit events stay local, without Redis settings
// lookups skip the cache and the rate limiter falls back.
func run() error {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Shared infrastructure.
	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	producer, err := platformkafka.NewProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("connect kafka: %w", err)
	}
	if producer != nil {
		defer producer.Close()
	}

	// Audit trail.
	var auditStore audit.Store
	if db != nil {
		auditStore = auditpostgres.New(db)
	} else {
		auditStore = auditmemory.New()
	}
	publisher := audit.NewPublisher(auditStore, audit.WithLogger(log))

	// Settings, behind the Redis read-through cache when available.
	var settingsStore settings.Store
	if db != nil {
		settingsStore = settings.NewPostgres(db)
	} else {
		settingsStore = settings.NewMemory(settings.DefaultSite())
	}
	settingsStore = settings.NewCache(settingsStore, redisClient, settings.WithLogger(log))

	// Rule catalog.
	reg := registry.New()
	for _, registration := range []error{
		reg.Register(honeypot.TypeName, honeypot.New),
		reg.Register(timegate.TypeName, timegate.New([]byte(cfg.FormTokenKey))),
		reg.Register(disposableemail.TypeName, disposableemail.New(settingsStore)),
		reg.Register(ratelimit.TypeName, ratelimit.New(redisClient)),
		reg.Register(useragent.TypeName, useragent.New),
		reg.Register(captcha.TypeName, captcha.New(settingsStore)),
	} {
		if registration != nil {
			return fmt.Errorf("register rule type: %w", registration)
		}
	}

	fac, err := factory.New(reg)
	if err != nil {
		return err
	}

	var recordStore store.Store
	if db != nil {
		recordStore = store.NewPostgres(db)
	} else {
		recordStore = store.NewMemory()
	}
	instanceStore, err := instances.New(recordStore, fac, settingsStore,
		instances.WithLogger(log))
	if err != nil {
		return err
	}

	// Evaluation engine.
	manager, err := checker.NewManager(instanceStore, settingsStore,
		checker.WithManagerLogger(log),
		checker.WithManagerMetrics(metrics.New()),
		checker.WithManagerAudit(publisher),
	)
	if err != nil {
		return err
	}

	// Services and handlers.
	adminService, err := admin.New(instanceStore, settingsStore, reg, publisher,
		admin.WithLogger(log))
	if err != nil {
		return err
	}

	signupHandler, err := signup.New(manager, settingsStore, log,
		signup.NewMetrics(prometheus.DefaultRegisterer))
	if err != nil {
		return err
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "reggate", "reggate-admin")

	router := chi.NewRouter()
	router.Use(middleware.RequestMeta)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	signupHandler.Register(router)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(jwtAdapter{jwtService}, log))
		gkhandler.New(adminService, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)

	if producer != nil {
		sinkWorker := worker.New(kafkasink.New(producer), publisher.Queue(), log)
		group.Go(func() error {
			return sinkWorker.Run(ctx)
		})
	}

	group.Go(func() error {
		log.Info("reggate listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		return err
	}
	log.Info("reggate stopped")
	return nil
}

// jwtAdapter narrows the JWT service to the middleware's claims shape.
type jwtAdapter struct {
	service *jwttoken.JWTService
}

func (a jwtAdapter) ValidateToken(token string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{UserID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}
