package handler

import (
	"net/http"
	"time"

	"expvote/internal/middleware"
	"expvote/internal/service"
	"expvote/pkg/errors"
	"expvote/pkg/logger"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries everything the HTTP surface needs
type RouterConfig struct {
	Voting         service.VotingEngine
	Accounts       service.AccountManager
	Tokens         middleware.TokenValidator
	HealthChecks   map[string]HealthCheck
	Metrics        http.Handler
	AllowedOrigins []string
	Logger         *logger.Logger
}

// NewRouter builds the chi router with middleware and all routes
func NewRouter(cfg RouterConfig) *chi.Mux {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(corsConfig, log))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	healthHandler := NewHealthHandler(cfg.HealthChecks, log)
	votingHandler := NewVotingHandler(cfg.Voting, cfg.Accounts, log)
	accountHandler := NewAccountHandler(cfg.Accounts, log)
	requireAuth := middleware.Auth(cfg.Tokens, log)

	r.Get("/health", healthHandler.Check)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/votes", func(r chi.Router) {
			r.With(requireAuth).Post("/", votingHandler.CreateVote)

			r.Route("/{voteId}", func(r chi.Router) {
				r.Get("/", votingHandler.GetVote)
				r.Get("/ballots", votingHandler.ListBallots)
				r.With(requireAuth).Post("/ballots", votingHandler.CastVote)
				r.Post("/end", votingHandler.EndVote)
			})
		})

		r.Get("/accounts/{account}/balance", accountHandler.GetBalance)

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/accounts/{account}/credit", accountHandler.Credit)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, errors.NewNotFoundError("Endpoint not found"), log)
	})

	return r
}
