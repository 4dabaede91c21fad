// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hiring-workers/internal/common/auth"
	"hiring-workers/internal/common/camunda"
	"hiring-workers/internal/common/config"
	"hiring-workers/internal/common/database"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/common/observability"
	"hiring-workers/internal/common/validation"
	"hiring-workers/internal/search"
	"hiring-workers/internal/store"

	// Applicant workers (3)
	gap "hiring-workers/internal/workers/applicant/get-applicant-profile"
	lap "hiring-workers/internal/workers/applicant/list-applicants"
	sap "hiring-workers/internal/workers/applicant/save-applicant-profile"

	// Application workers (4)
	car "hiring-workers/internal/workers/application/create-application-record"
	ga "hiring-workers/internal/workers/application/get-application"
	la "hiring-workers/internal/workers/application/list-applications"
	sn "hiring-workers/internal/workers/application/send-notification"

	// Evaluation workers (4)
	as "hiring-workers/internal/workers/evaluation/assessment-scoring"
	fd "hiring-workers/internal/workers/evaluation/final-deliberation"
	ie "hiring-workers/internal/workers/evaluation/initial-evaluation"
	ra "hiring-workers/internal/workers/evaluation/rank-assessments"

	// Data access and reference workers (3)
	sa "hiring-workers/internal/workers/data-access/search-applications"
	lrd "hiring-workers/internal/workers/reference/list-reference-data"
	mp "hiring-workers/internal/workers/reference/manage-position"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type registration struct {
	taskType string
	handler  camunda.JobHandler
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.FromConfig(cfg.Logging)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ClientConfigFrom(cfg.Camunda))
		if err != nil {
			return err
		}
		return zeebe.HealthCheck(ctx)
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	if err := esClient.EnsureIndex(ctx, cfg.Search.ApplicationsIndex, search.ApplicationsMapping); err != nil {
		zapLog.Fatal("elasticsearch index setup failed", zap.Error(err), zap.String("index", cfg.Search.ApplicationsIndex))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Shared collaborators ---
	db := pg.DB
	sessions := auth.NewSessionStore(redis.Client, cfg.Auth.Session.KeyPrefix, time.Duration(cfg.Auth.Session.TTL)*time.Second)
	reference := store.NewCachedReference(store.New(db), redis.Client, time.Duration(cfg.Cache.ReferenceTTL)*time.Second, log)
	index := search.NewIndex(esClient.Client, cfg.Search.ApplicationsIndex, store.New(db))
	validator := validation.MustDefault()
	opts := []camunda.RunnerOption{camunda.WithValidator(validator), camunda.WithObservability(obs)}

	wc := func(taskType string) config.WorkerConfig {
		return config.GetWorkerConfig(cfg, taskType)
	}

	notifier, err := sn.NewHandler(sn.LoadConfig(wc(sn.TaskType), cfg.Notifications), db, log, opts...)
	if err != nil {
		zapLog.Fatal("failed to create send-notification handler", zap.Error(err))
	}

	registrations := []registration{
		{gap.TaskType, gap.NewHandler(gap.LoadConfig(wc(gap.TaskType)), db, sessions, log, opts...)},
		{lap.TaskType, lap.NewHandler(lap.LoadConfig(wc(lap.TaskType)), db, sessions, log, opts...)},
		{sap.TaskType, sap.NewHandler(sap.LoadConfig(wc(sap.TaskType)), db, sessions, log, opts...)},

		{car.TaskType, car.NewHandler(car.LoadConfig(wc(car.TaskType)), db, reference, sessions, index, log, opts...)},
		{ga.TaskType, ga.NewHandler(ga.LoadConfig(wc(ga.TaskType)), db, sessions, log, opts...)},
		{la.TaskType, la.NewHandler(la.LoadConfig(wc(la.TaskType)), db, sessions, log, opts...)},
		{sn.TaskType, notifier},

		{ie.TaskType, ie.NewHandler(ie.LoadConfig(wc(ie.TaskType)), db, sessions, index, log, opts...)},
		{as.TaskType, as.NewHandler(as.LoadConfig(wc(as.TaskType)), db, reference, sessions, index, log, opts...)},
		{fd.TaskType, fd.NewHandler(fd.LoadConfig(wc(fd.TaskType)), db, sessions, index, log, opts...)},
		{ra.TaskType, ra.NewHandler(ra.LoadConfig(wc(ra.TaskType)), db, reference, sessions, log, opts...)},

		{sa.TaskType, sa.NewHandler(sa.LoadConfig(wc(sa.TaskType)), index, sessions, log, opts...)},
		{lrd.TaskType, lrd.NewHandler(lrd.LoadConfig(wc(lrd.TaskType)), reference, sessions, log, opts...)},
		{mp.TaskType, mp.NewHandler(mp.LoadConfig(wc(mp.TaskType)), db, reference, sessions, log, opts...)},
	}

	var workers []*camunda.CamundaWorker
	for _, r := range registrations {
		if !validator.Has(r.taskType) {
			zapLog.Warn("no input schema registered; jobs are decoded unvalidated", zap.String("taskType", r.taskType))
		}
		if w := camunda.StartWorker(zeebe.GetClient(), r.taskType, wc(r.taskType), r.handler, log); w != nil {
			workers = append(workers, w)
		}
	}
	zapLog.Info("Workers registered", zap.Int("started", len(workers)), zap.Int("known", len(registrations)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		for name, ping := range map[string]func(context.Context) error{
			"postgres":      pg.Ping,
			"redis":         redis.Ping,
			"elasticsearch": esClient.Ping,
			"zeebe":         zeebe.HealthCheck,
		} {
			if err := ping(checkCtx); err != nil {
				checks[name] = err.Error()
				ready = false
				continue
			}
			checks[name] = "ok"
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		writeStatus(w, code, map[string]interface{}{
			"status": status,
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
