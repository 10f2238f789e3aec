package server

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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"gymhub/internal/domain/audit"
	"gymhub/internal/domain/auth"
	"gymhub/internal/domain/booking"
	"gymhub/internal/domain/checkin"
	"gymhub/internal/domain/compensation"
	"gymhub/internal/domain/core"
	"gymhub/internal/domain/navigation"
	"gymhub/internal/domain/notifications"
	"gymhub/internal/domain/roster"
	"gymhub/internal/domain/sessions"
	"gymhub/internal/platform/cache"
	"gymhub/internal/platform/config"
	"gymhub/internal/platform/db"
	"gymhub/internal/platform/logging"
	"gymhub/internal/platform/metrics"
	audithandler "gymhub/internal/transport/http/handlers/audit"
	authhandler "gymhub/internal/transport/http/handlers/auth"
	bookinghandler "gymhub/internal/transport/http/handlers/booking"
	checkinhandler "gymhub/internal/transport/http/handlers/checkin"
	corehandler "gymhub/internal/transport/http/handlers/core"
	navhandler "gymhub/internal/transport/http/handlers/navigation"
	notificationshandler "gymhub/internal/transport/http/handlers/notifications"
	rosterhandler "gymhub/internal/transport/http/handlers/roster"
	salaryhandler "gymhub/internal/transport/http/handlers/salaries"
	sessionhandler "gymhub/internal/transport/http/handlers/sessions"
	"gymhub/internal/transport/http/middleware"
)

const idempotencyTTL = 24 * time.Hour

type App struct {
	Config config.Config
	Log    zerolog.Logger
	DB     *pgxpool.Pool
	Cache  *cache.Redis
	Router http.Handler
}

// stores groups the persistence of every area so memory and Postgres wiring share one shape.
type stores struct {
	users    auth.StoreAPI
	perms    middleware.PermissionStore
	staff    core.StaffStore
	members  core.MemberStore
	plans    booking.PlanStore
	requests booking.RequestStore
	sessions sessions.StoreAPI
	roster   roster.StoreAPI
	salaries compensation.StoreAPI
	notices  notifications.StoreAPI
	audit    audit.StoreAPI
}

func memoryStores() stores {
	return stores{
		users:    auth.NewMemoryStore(),
		perms:    auth.NewStaticPermissions(auth.RolePermissions),
		staff:    core.NewMemoryStaffStore(),
		members:  core.NewMemoryMemberStore(),
		plans:    booking.NewMemoryPlanStore(),
		requests: booking.NewMemoryRequestStore(),
		sessions: sessions.NewMemoryStore(),
		roster:   roster.NewMemoryStore(),
		salaries: compensation.NewMemoryStore(),
		notices:  notifications.NewMemoryStore(),
		audit:    audit.NewMemoryStore(),
	}
}

func dataStores(pool *pgxpool.Pool) stores {
	return stores{
		users:    auth.NewStore(pool),
		perms:    auth.NewPermissionStore(pool),
		staff:    core.NewStaffStore(pool),
		members:  core.NewMemberStore(pool),
		plans:    booking.NewPlanStore(pool),
		requests: booking.NewRequestStore(pool),
		sessions: sessions.NewStore(pool),
		roster:   roster.NewStore(pool),
		salaries: compensation.NewStore(pool),
		notices:  notifications.NewStore(pool),
		audit:    audit.NewStore(pool),
	}
}

// New wires the application. Without DATABASE_URL every area runs on in-memory stores.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	log := logging.New(cfg.Environment, cfg.LogLevel)
	app := &App{Config: cfg, Log: log}

	st := memoryStores()
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		app.DB = pool
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, cfg.MigrationsDir, log); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		st = dataStores(pool)
	} else {
		log.Warn().Msg("DATABASE_URL not set, using in-memory stores")
	}

	redis, err := cache.Connect(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   "gymhub:",
	}, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	app.Cache = redis

	users := auth.NewService(st.users, cfg.JWTSecret, cfg.TokenTTL)
	if cfg.RunSeed {
		if err := seed(ctx, app.DB, users, cfg); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	menus, err := navigation.Load(cfg.MenuConfigPath)
	if err != nil {
		app.Close()
		return nil, err
	}

	coreService := core.NewService(st.staff, st.members)
	rosterService := roster.NewService(st.roster, coreService)
	salaryService := compensation.NewService(st.salaries, coreService, rosterService)
	salaryService.Currency = cfg.Currency
	planService := booking.NewPlanService(st.plans, redis.Scoped("catalog:", cfg.PlanCacheTTL))
	requestService := booking.NewService(st.requests, st.plans, coreService)
	sessionService := sessions.NewService(st.sessions, coreService)
	coreService.GuardStaffRemoval(rosterService, salaryService, sessionService)
	passes := checkin.NewService(coreService, cfg.JWTSecret, cfg.CheckinWindow)
	notices := notifications.New(st.notices)
	auditService := audit.New(st.audit)
	responses := redis.Scoped("idem:", idempotencyTTL)

	if cfg.MetricsEnabled {
		metrics.Register()
	}

	router := chi.NewRouter()
	router.Use(middleware.TrustProxy(cfg.TrustProxy))
	router.Use(middleware.RequestID)
	router.Use(middleware.Instrument(log))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", app.handleReady)
	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(users, coreService, st.perms, auditService).RegisterRoutes(r)
		navhandler.NewHandler(menus).RegisterRoutes(r)
		corehandler.NewHandler(coreService, passes, st.perms, auditService).RegisterRoutes(r)
		checkinhandler.NewHandler(passes, st.perms, auditService).RegisterRoutes(r)
		bookinghandler.NewHandler(planService, requestService, st.perms, auditService, notices, responses).RegisterRoutes(r)
		sessionhandler.NewHandler(sessionService, st.perms, auditService, notices).RegisterRoutes(r)
		rosterhandler.NewHandler(rosterService, st.perms, auditService, notices).RegisterRoutes(r)
		salaryhandler.NewHandler(salaryService, st.perms, auditService, notices, responses).RegisterRoutes(r)
		notificationshandler.NewHandler(notices).RegisterRoutes(r)
		audithandler.NewHandler(auditService, st.perms).RegisterRoutes(r)
	})

	app.Router = router
	return app, nil
}

// seed bootstraps permissions in Postgres and the admin account in either mode.
func seed(ctx context.Context, pool *pgxpool.Pool, users *auth.Service, cfg config.Config) error {
	if pool != nil {
		return db.Seed(ctx, pool, users, cfg)
	}
	return users.EnsureUser(ctx, auth.NewUser{
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
		Role:     auth.RoleAdmin,
	})
}

func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if a.DB != nil {
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
	}
	if err := a.Cache.Ping(ctx); err != nil {
		http.Error(w, "cache not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Log.Warn().Err(err).Msg("redis close failed")
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// Serve listens until ctx is cancelled and then drains in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info().Str("addr", a.Config.Addr).Msg("gymhub server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	a.Log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// Run is the process entry point: load config, build the app and serve until SIGINT or SIGTERM.
func Run() {
	cfg := config.Load()
	log := logging.New(cfg.Environment, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer app.Close()

	if err := app.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
