// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"agendo/internal/audit"
	auditmemory "agendo/internal/audit/store/memory"
	auditpostgres "agendo/internal/audit/store/postgres"
	"agendo/internal/auth"
	"agendo/internal/authz"
	"agendo/internal/gateway"
	"agendo/internal/platform/config"
	"agendo/internal/platform/httpserver"
	"agendo/internal/platform/logger"
	"agendo/internal/platform/metrics"
	platformredis "agendo/internal/platform/redis"
	"agendo/internal/principal"
	"agendo/internal/scheduling"
	"agendo/internal/token"
	httptransport "agendo/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agendo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auditStore, principalStore, cleanup, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	codec := token.NewCodec(cfg.JWTSigningKey, "agendo", cfg.TokenTTL)

	recorder := audit.NewRecorder(auditStore, log, m, cfg.AuditQueueSize, cfg.AuditWorkers)
	query := audit.NewQuery(auditStore)

	bus := auth.NewBus(recorder)
	authService := auth.NewService(codec, principalStore, bus, cfg.TokenTTL, log)

	gw := gateway.New(codec, principalStore, recorder, m, log)
	gate := authz.NewGate(authz.DefaultRules(), recorder, m, log)

	schedService := scheduling.NewService(scheduling.NewInMemoryStore(), recorder)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		Gateway:  gw,
		Gate:     gate,
		Auth:     httptransport.NewAuthHandler(authService),
		Schedule: httptransport.NewSchedulingHandler(schedService),
		Security: httptransport.NewSecurityHandler(query),
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := recorder.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		log.Info("starting agendo", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildStores selects postgres-backed stores when a DSN is configured and
// falls back to in-memory stores for local runs. The principal lookup gains a
// Redis read-through cache when Redis is configured.
func buildStores(ctx context.Context, cfg config.Server, log *slog.Logger) (audit.Store, principal.Store, func(), error) {
	cleanup := func() {}

	if cfg.PostgresDSN == "" {
		memPrincipals := principal.NewInMemoryStore()
		if err := seedDevPrincipals(ctx, memPrincipals); err != nil {
			return nil, nil, cleanup, err
		}
		log.Info("using in-memory stores")
		return auditmemory.New(), memPrincipals, cleanup, nil
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, nil, cleanup, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, cleanup, fmt.Errorf("ping postgres: %w", err)
	}

	auditStore := auditpostgres.New(db)
	if err := auditStore.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, cleanup, err
	}

	pgPrincipals := principal.NewPostgres(db)
	if err := pgPrincipals.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, cleanup, err
	}

	var principalStore principal.Store = pgPrincipals

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, principal cache disabled", "error", err)
	} else if redisClient != nil {
		principalStore = principal.NewCachedStore(pgPrincipals, redisClient.Client, cfg.Redis.PrincipalTTL, log)
		cleanup = func() {
			redisClient.Close()
			db.Close()
		}
		return auditStore, principalStore, cleanup, nil
	}

	cleanup = func() { db.Close() }
	return auditStore, principalStore, cleanup, nil
}

// seedDevPrincipals provisions well-known accounts for in-memory runs so the
// API is usable out of the box.
func seedDevPrincipals(ctx context.Context, store *principal.InMemoryStore) error {
	seeds := []struct {
		identifier string
		role       string
		password   string
	}{
		{"admin", "admin", "admin123"},
		{"reception", "user", "reception123"},
	}

	for _, seed := range seeds {
		hash, err := auth.HashPassword(seed.password)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		err = store.Create(ctx, &principal.Principal{
			ID:           uuid.New(),
			Identifier:   seed.identifier,
			Role:         seed.role,
			Active:       true,
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("seed principal %s: %w", seed.identifier, err)
		}
	}
	return nil
}
