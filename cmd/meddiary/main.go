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

	adapthttp "meddiary/internal/adapter/http"
	"meddiary/internal/adapter/cache"
	"meddiary/internal/adapter/memory"
	"meddiary/internal/adapter/postgres"
	"meddiary/internal/adapter/reminderfn"
	"meddiary/internal/app"
	"meddiary/internal/config"
	"meddiary/internal/domain"
	"meddiary/internal/logging"
	"meddiary/internal/metrics"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

type store interface {
	domain.MedicationRepository
	domain.IntakeRepository
	domain.SettingsRepository
	domain.UserRepository
}

func main() {
	if err := run(); err != nil {
		l := logging.New("prod", "info")
		l.Fatal().Err(err).Msg("meddiary exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}
	log := logging.New(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.MustRegister(reg)

	var (
		db       store
		sessions domain.SessionRepository
		limiter  domain.RunLimiter
	)
	if cfg.DatabaseURL != "" {
		pg, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		defer func() { _ = pg.Close() }()
		db, sessions = pg, postgres.NewSessionRepo(pg)
	} else {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store")
		mem := memory.New()
		db, sessions, limiter = mem, mem.NewSessionRepo(), mem
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
		rl := cache.NewRedis(rdb)
		if err := rl.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, reminder runs are not deduplicated until it recovers")
		}
		limiter = rl
	}
	if limiter == nil {
		limiter = memory.New()
	}

	var trigger domain.ReminderTrigger
	if cfg.Reminder.FunctionURL != "" {
		client, err := reminderfn.New(cfg.Reminder.FunctionURL,
			reminderfn.WithAPIKey(cfg.Reminder.APIKey),
			reminderfn.WithTimeout(cfg.Reminder.Timeout),
		)
		if err != nil {
			return fmt.Errorf("reminder client: %w", err)
		}
		trigger = client
	} else {
		log.Info().Msg("REMINDER_FUNCTION_URL not set, reminder cron disabled")
	}

	opts := []adapthttp.Option{
		adapthttp.WithLogger(log),
		adapthttp.WithWebDir(cfg.WebDir),
		adapthttp.WithAllowedOrigins(cfg.AllowedOrigins),
		adapthttp.WithCronSecret(cfg.CronSecret),
		adapthttp.WithForwardAuth(cfg.ForwardAuthEnabled),
		adapthttp.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	}
	if cfg.OIDCEnabled() {
		provider, err := oidc.NewProvider(ctx, cfg.OIDC.Issuer)
		if err != nil {
			return fmt.Errorf("oidc provider discovery for %s: %w", cfg.OIDC.Issuer, err)
		}
		opts = append(opts, adapthttp.WithOIDC(adapthttp.OIDCConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: oauth2.Config{
				ClientID:     cfg.OIDC.ClientID,
				ClientSecret: cfg.OIDC.ClientSecret,
				RedirectURL:  cfg.OIDC.RedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
		}))
	}

	svc := adapthttp.Services{
		Auth:     app.NewAuthService(db, sessions),
		Meds:     app.NewMedicationService(db),
		Intakes:  app.NewIntakeService(db, db),
		Schedule: app.NewScheduleService(db, db),
		History:  app.NewHistoryService(db, db, log),
		Charts:   app.NewChartsService(db, db),
		Settings: app.NewSettingsService(db),
		Reminder: app.NewReminderService(trigger, limiter, log),
	}

	go sweepSessions(ctx, sessions, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           adapthttp.New(svc, opts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.Addr).Bool("postgres", cfg.DatabaseURL != "").Bool("sso", cfg.OIDCEnabled()).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info().Msg("shut down")
	return nil
}

// sweepSessions removes expired sessions once an hour.
func sweepSessions(ctx context.Context, sessions domain.SessionRepository, log zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.DeleteExpired(ctx); err != nil {
				log.Warn().Err(err).Msg("session sweep failed")
			}
		}
	}
}
