// Package api wires the HTTP surface: routing, middleware, problem
// responses, and the thin handler layer over the domain services.
package api

import (
	"net/http"

	"github.com/gatherly/server/internal/api/handlers"
	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/config"
	"github.com/gatherly/server/internal/domain/categories"
	"github.com/gatherly/server/internal/domain/comments"
	"github.com/gatherly/server/internal/domain/compilations"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/requests"
	"github.com/gatherly/server/internal/domain/users"
	"github.com/gatherly/server/internal/metrics"
	"github.com/gatherly/server/internal/stats"
	"github.com/gatherly/server/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter builds the full API surface on top of the repository bundle.
// The view counter is remote when STATS_URL is set, in-process otherwise.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool, repo storage.Repository) http.Handler {
	usersService := users.NewService(repo.Users())
	categoriesService := categories.NewService(repo.Categories(), repo.Events())
	eventsService := events.NewService(repo.Events(), categoriesService, usersService)
	requestsService := requests.NewService(repo.Requests(), repo.Events(), usersService)
	commentsService := comments.NewService(repo.Comments(), repo.Events(), usersService)
	compilationsService := compilations.NewService(repo.Compilations())

	var viewCounter stats.ViewCounter
	if cfg.Stats.URL != "" {
		viewCounter = stats.NewClient(cfg.Stats.URL,
			stats.WithRateLimit(float64(cfg.RateLimit.StatsPerSecond)))
	} else {
		viewCounter = stats.NewService(repo.Stats())
	}
	queryService := events.NewQueryService(repo.Events(), viewCounter, repo.Requests(), cfg.Stats.AppName)

	env := cfg.Environment
	eventsHandler := handlers.NewEventsHandler(queryService, env)
	ownerEventsHandler := handlers.NewOwnerEventsHandler(eventsService, requestsService, env)
	adminEventsHandler := handlers.NewAdminEventsHandler(eventsService, queryService, env)
	requestsHandler := handlers.NewRequestsHandler(requestsService, env)
	usersHandler := handlers.NewUsersHandler(usersService, env)
	categoriesHandler := handlers.NewCategoriesHandler(categoriesService, env)
	compilationsHandler := handlers.NewCompilationsHandler(compilationsService, env)
	commentsHandler := handlers.NewCommentsHandler(commentsService, env)

	mux := http.NewServeMux()

	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(pool))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /events", eventsHandler.List)
	mux.HandleFunc("GET /events/{id}", eventsHandler.Get)
	mux.HandleFunc("GET /events/{eventId}/comments", commentsHandler.ListForEvent)
	mux.HandleFunc("GET /categories", categoriesHandler.List)
	mux.HandleFunc("GET /categories/{catId}", categoriesHandler.Get)
	mux.HandleFunc("GET /compilations", compilationsHandler.List)
	mux.HandleFunc("GET /compilations/{compId}", compilationsHandler.Get)

	mux.HandleFunc("POST /users/{userId}/events", ownerEventsHandler.Create)
	mux.HandleFunc("GET /users/{userId}/events", ownerEventsHandler.List)
	mux.HandleFunc("GET /users/{userId}/events/{eventId}", ownerEventsHandler.Get)
	mux.HandleFunc("PATCH /users/{userId}/events/{eventId}", ownerEventsHandler.Update)
	mux.HandleFunc("GET /users/{userId}/events/{eventId}/requests", ownerEventsHandler.ListRequests)
	mux.HandleFunc("PATCH /users/{userId}/events/{eventId}/requests", ownerEventsHandler.DecideRequests)

	mux.HandleFunc("GET /users/{userId}/requests", requestsHandler.List)
	mux.HandleFunc("POST /users/{userId}/requests", requestsHandler.Create)
	mux.HandleFunc("PATCH /users/{userId}/requests/{requestId}/cancel", requestsHandler.Cancel)

	mux.HandleFunc("POST /users/{userId}/comments", commentsHandler.Create)
	mux.HandleFunc("GET /users/{userId}/comments", commentsHandler.ListOwn)
	mux.HandleFunc("PATCH /users/{userId}/comments/{commentId}", commentsHandler.Update)
	mux.HandleFunc("DELETE /users/{userId}/comments/{commentId}", commentsHandler.Delete)

	mux.HandleFunc("GET /admin/events", adminEventsHandler.List)
	mux.HandleFunc("PATCH /admin/events/{eventId}", adminEventsHandler.Update)
	mux.HandleFunc("POST /admin/users", usersHandler.Create)
	mux.HandleFunc("GET /admin/users", usersHandler.List)
	mux.HandleFunc("DELETE /admin/users/{userId}", usersHandler.Delete)
	mux.HandleFunc("POST /admin/categories", categoriesHandler.Create)
	mux.HandleFunc("PATCH /admin/categories/{catId}", categoriesHandler.Update)
	mux.HandleFunc("DELETE /admin/categories/{catId}", categoriesHandler.Delete)
	mux.HandleFunc("POST /admin/compilations", compilationsHandler.Create)
	mux.HandleFunc("PATCH /admin/compilations/{compId}", compilationsHandler.Update)
	mux.HandleFunc("DELETE /admin/compilations/{compId}", compilationsHandler.Delete)
	mux.HandleFunc("GET /admin/comments", commentsHandler.Search)
	mux.HandleFunc("DELETE /admin/comments/{commentId}", commentsHandler.DeleteByAdmin)

	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}
