package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/worldcup-api/apiserver/config"
	"github.com/worldcup-api/apiserver/internal/auth"
	"github.com/worldcup-api/apiserver/internal/db"
	"github.com/worldcup-api/apiserver/internal/handlers"
	"github.com/worldcup-api/apiserver/internal/logging"
	"github.com/worldcup-api/apiserver/internal/metrics"
	"github.com/worldcup-api/apiserver/internal/mq"
	"github.com/worldcup-api/apiserver/internal/services"
	"github.com/worldcup-api/apiserver/internal/storage"
	"github.com/worldcup-api/apiserver/internal/store"
)

// Deps are the collaborators the router is assembled from. Objects and
// Publisher are optional.
type Deps struct {
	Users     services.CredentialStore
	Teams     services.TeamRepository
	Players   services.PlayerRepository
	Objects   services.ObjectStore
	Publisher services.Publisher
	Channel   string
	Codec     *auth.TokenCodec
	Hasher    services.PasswordHasher
	Registry  *prometheus.Registry
	Logger    *slog.Logger
}

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	mq         *mq.MQ
	logger     *slog.Logger
}

// New connects every backend named in cfg and constructs a Server. Missing
// token secrets fail before anything is opened.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := logging.New(os.Stdout, cfg.LogLevel)

	codec, err := auth.NewTokenCodec(
		cfg.Auth.AccessTokenSecret,
		cfg.Auth.RefreshTokenSecret,
		auth.WithAccessTTL(cfg.Auth.AccessTokenTTL),
		auth.WithRefreshTTL(cfg.Auth.RefreshTokenTTL),
	)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	objects, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	broker, err := mq.NewFromConfig(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("init mq: %w", err)
	}

	deps := Deps{
		Users:    store.NewUserRepository(dbConn),
		Teams:    store.NewTeamRepository(dbConn),
		Players:  store.NewPlayerRepository(dbConn),
		Channel:  cfg.MQ.Channel,
		Codec:    codec,
		Hasher:   auth.NewBcryptHasher(auth.DefaultPasswordCost),
		Registry: metrics.NewRegistry(),
		Logger:   logger,
	}
	if objects != nil {
		deps.Objects = objects
		logger.Info("flag storage enabled", "backend", cfg.Storage.Backend, "bucket", objects.Bucket())
	}
	if broker != nil {
		deps.Publisher = broker
		logger.Info("auth events enabled", "backend", cfg.MQ.Backend, "channel", cfg.MQ.Channel)
	}

	router := NewRouter(deps)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		mq:         broker,
		logger:     logger,
	}, nil
}

// NewRouter wires services and handlers onto a chi router.
func NewRouter(deps Deps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	authOpts := []services.AuthOption{
		services.WithAuthMetrics(metrics.NewAuthMetrics(registry)),
		services.WithAuthLogger(logger),
	}
	if deps.Publisher != nil {
		authOpts = append(authOpts, services.WithEvents(services.NewEventEmitter(deps.Publisher, deps.Channel, logger)))
	}

	authService := services.NewAuthService(deps.Users, deps.Hasher, deps.Codec, authOpts...)
	teamService := services.NewTeamService(deps.Teams, deps.Objects, logger)
	playerService := services.NewPlayerService(deps.Players)
	gate := handlers.RequireAuth(deps.Codec)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authService, gate, logger)
	})
	router.Route("/v3", func(r chi.Router) {
		r.Use(gate)
		r.Route("/selecoes", func(r chi.Router) {
			handlers.TeamRouter(r, teamService, logger)
		})
		r.Route("/jogadores", func(r chi.Router) {
			handlers.PlayerRouter(r, playerService, logger)
		})
	})

	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases the backends.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.mq != nil {
		if closeErr := s.mq.Close(); closeErr != nil {
			s.logger.Warn("close mq", "error", closeErr)
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
