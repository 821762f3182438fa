package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"vitacare/internal/access"
	accesshandler "vitacare/internal/access/handler"
	"vitacare/internal/appointment"
	"vitacare/internal/audit"
	"vitacare/internal/authz"
	"vitacare/internal/claims"
	claimshandler "vitacare/internal/claims/handler"
	claimsmetrics "vitacare/internal/claims/metrics"
	claimsservice "vitacare/internal/claims/service"
	"vitacare/internal/doctor"
	"vitacare/internal/hospital"
	"vitacare/internal/identity"
	"vitacare/internal/institution"
	"vitacare/internal/insurer"
	"vitacare/internal/jwttoken"
	"vitacare/internal/patient"
	"vitacare/internal/platform/config"
	"vitacare/internal/platform/httpserver"
	"vitacare/internal/platform/logger"
	platformmetrics "vitacare/internal/platform/metrics"
	"vitacare/internal/platform/middleware"
	platformredis "vitacare/internal/platform/redis"
	"vitacare/internal/records"
	recordshandler "vitacare/internal/records/handler"
	"vitacare/pkg/domain"
)

// main wires stores, services and transport together and owns the process
// lifecycle. Business rules live in the internal services packages.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Audit sink: Kafka when brokers are configured, in-memory otherwise.
	var auditPublisher audit.Publisher
	var kafkaPublisher *audit.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := audit.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			return err
		}
		kafkaPublisher = kp
		auditPublisher = kp
		log.Info("audit events publishing to kafka", "topic", cfg.Kafka.AuditTopic)
	} else {
		auditPublisher = audit.NewService(audit.NewInMemoryStore())
	}

	// Role store: Redis keeps role grants durable across restarts; the
	// in-memory store serves local development.
	var roleStore identity.RoleStore
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		roleStore = identity.NewRedisRoleStore(redisClient)
		log.Info("role store backed by redis")
	} else {
		roleStore = identity.NewInMemoryRoleStore()
	}

	identitySvc := identity.NewService(roleStore,
		identity.WithLogger(log),
		identity.WithAuditPublisher(auditPublisher),
	)
	if cfg.Admin.Principal != "" {
		admin, err := domain.ParsePrincipal(cfg.Admin.Principal)
		if err != nil {
			return err
		}
		if err := identitySvc.Bootstrap(ctx, admin); err != nil {
			return err
		}
		log.Info("admin principal bootstrapped", "principal", admin)
	} else {
		log.Warn("no admin principal configured; admin-gated operations will be refused")
	}

	gate := authz.NewGate(identitySvc)

	// Claim store: Postgres when configured, in-memory otherwise.
	var claimStore claims.Store
	if cfg.DB.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.DB.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return err
		}
		claimStore = claims.NewPostgresStore(pool)
		log.Info("claim store backed by postgres")
	} else {
		claimStore = claims.NewInMemoryStore()
	}

	claimsSvc := claimsservice.New(claimStore, gate,
		claimsservice.WithLogger(log),
		claimsservice.WithAuditPublisher(auditPublisher),
		claimsservice.WithMetrics(claimsmetrics.New()),
	)
	accessSvc := access.New(access.NewInMemoryStore(),
		access.WithLogger(log),
		access.WithAuditPublisher(auditPublisher),
	)
	recordsSvc := records.New(records.NewInMemoryStore(), accessSvc,
		records.WithLogger(log),
		records.WithAuditPublisher(auditPublisher),
	)
	patientSvc := patient.New(patient.NewInMemoryStore(),
		patient.WithLogger(log),
		patient.WithAuditPublisher(auditPublisher),
	)
	doctorSvc := doctor.New(doctor.NewInMemoryStore(), gate,
		doctor.WithLogger(log),
		doctor.WithAuditPublisher(auditPublisher),
	)
	hospitalSvc := hospital.New(hospital.NewInMemoryStore(), gate,
		hospital.WithLogger(log),
		hospital.WithAuditPublisher(auditPublisher),
	)
	institutionSvc := institution.New(institution.NewInMemoryStore(), identitySvc,
		institution.WithLogger(log),
		institution.WithAuditPublisher(auditPublisher),
	)
	insurerSvc := insurer.New(insurer.NewInMemoryStore(), identitySvc,
		insurer.WithLogger(log),
		insurer.WithAuditPublisher(auditPublisher),
	)
	appointmentSvc := appointment.New(appointment.NewInMemoryStore(),
		appointment.WithLogger(log),
		appointment.WithAuditPublisher(auditPublisher),
	)

	jwtSvc := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
	httpMetrics := platformmetrics.New()

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Metadata)
	router.Use(middleware.Logger(log))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.ContentTypeJSON)
		r.Use(httpMetrics.Latency)
		r.Use(middleware.RequireAuth(jwtSvc, log))

		patient.NewHandler(patientSvc, log).Register(r)
		doctor.NewHandler(doctorSvc, log).Register(r)
		hospital.NewHandler(hospitalSvc, log).Register(r)
		institution.NewHandler(institutionSvc, log).Register(r)
		insurer.NewHandler(insurerSvc, log).Register(r)
		appointment.NewHandler(appointmentSvc, log).Register(r)
		claimshandler.New(claimsSvc, log).Register(r)
		accesshandler.New(accessSvc, log).Register(r)
		recordshandler.New(recordsSvc, log).Register(r)
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting vitacare server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if kafkaPublisher != nil {
			if err := kafkaPublisher.Close(shutdownCtx); err != nil {
				log.Warn("kafka publisher close failed", "error", err)
			}
		}
		return nil
	})

	return g.Wait()
}
