// @title                       ISET Tozeur Library API
// @version                     1.0
// @description                 Authentication and student management for the ISET Tozeur library.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/iset-tozeur/library-backend/internal/api"
	"github.com/iset-tozeur/library-backend/internal/api/handler"
	"github.com/iset-tozeur/library-backend/internal/core/domain"
	"github.com/iset-tozeur/library-backend/internal/core/ports"
	"github.com/iset-tozeur/library-backend/internal/core/service"
	"github.com/iset-tozeur/library-backend/internal/infrastructure/db/mongo"
	"github.com/iset-tozeur/library-backend/internal/infrastructure/db/postgres"
	"github.com/iset-tozeur/library-backend/internal/infrastructure/db/redis"
	"github.com/iset-tozeur/library-backend/internal/infrastructure/queue"
	"github.com/iset-tozeur/library-backend/internal/pkg/config"
	"github.com/iset-tozeur/library-backend/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// store is the persistence backend selected by STORE_DRIVER.
type store struct {
	credentials ports.CredentialRepository
	students    ports.StudentRepository
	audit       ports.AuditRepository
	ping        handler.HealthCheck
	close       func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "library-backend",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	log.Info().Str("driver", cfg.StoreDriver).Msg("store connected")

	checks := map[string]handler.HealthCheck{cfg.StoreDriver: st.ping}

	var throttle service.LoginThrottle
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login failure throttling disabled")
	} else {
		defer rdb.Close()
		throttle = redis.NewLoginThrottle(rdb, cfg.Login.MaxFailures, cfg.Login.FailureWindow)
		checks["redis"] = redis.Pinger(rdb)
	}

	passwords := service.NewPasswordVerifier(cfg.BcryptCost)
	tokens := service.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)

	if cfg.Seed.Enabled {
		accounts := []service.SeedAccount{
			{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword, Role: domain.RoleAdmin},
			{Email: cfg.Seed.StudentEmail, Password: cfg.Seed.StudentPassword, Role: domain.RoleStudent},
		}
		if err := service.SeedCredentials(ctx, st.credentials, passwords, accounts, log); err != nil {
			return err
		}
	}

	auditCtx, stopAudit := context.WithCancel(context.Background())
	audit := queue.NewDispatcher(cfg.Audit.Workers, st.audit, log)
	audit.Start(auditCtx)
	defer func() {
		stopAudit()
		audit.Wait()
	}()

	authSvc := service.NewAuthService(service.AuthDependencies{
		Credentials: st.credentials,
		Tokens:      tokens,
		Passwords:   passwords,
		Throttle:    throttle,
		Audit:       audit,
		Logger:      log,
	})
	studentSvc := service.NewStudentService(st.students, st.credentials, passwords, log)

	e := api.NewRouter(api.Dependencies{
		AuthService:        authSvc,
		StudentService:     studentSvc,
		Tokens:             tokens,
		HealthChecks:       checks,
		LoginRatePerMinute: cfg.Login.RatePerMinute,
		Logger:             log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, postgres.Config{DSN: cfg.Postgres.DSN, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, err
		}
		return &store{
			credentials: s.Credentials,
			students:    s.Students,
			audit:       s.Audit,
			ping:        s.Ping,
			close:       s.Close,
		}, nil
	default:
		s, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		return &store{
			credentials: s.Credentials,
			students:    s.Students,
			audit:       s.Audit,
			ping:        s.Ping,
			close: func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = s.Close(closeCtx)
			},
		}, nil
	}
}
