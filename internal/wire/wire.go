// internal/wire/wire.go
package wire

import (
	"net/http"

	"media-catalog/internal/adaptor"
	"media-catalog/internal/data/repository"
	"media-catalog/internal/usecase"
	"media-catalog/pkg/middleware"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependency graph.
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and routes.
func Wiring(repo *repository.Repository, locker usecase.SubmitLocker, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, locker, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireReview(r, handler.Review, repo, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
