package wire

import (
	"media-catalog/internal/adaptor"
	"media-catalog/internal/data/repository"
	"media-catalog/pkg/middleware"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Anyone may read reviews; a valid token additionally surfaces the
	// caller's own review in the listing.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalSession(repo.Session, repo.User, log))

		// GET /api/items/{id}/reviews - reviews for a catalog item
		r.Get("/api/items/{id}/reviews", reviewHandler.GetItemReviews)
	})

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/reviews - submit a new review (user role)
		r.Post("/api/reviews", reviewHandler.SubmitReview)

		// GET /api/user/reviews - the caller's reviews across items
		r.Get("/api/user/reviews", reviewHandler.GetUserReviews)

		// PUT /api/reviews/{id} - edit rating/body (owner only)
		r.Put("/api/reviews/{id}", reviewHandler.EditReview)

		// POST /api/reviews/{id}/reply - write/overwrite admin reply
		r.Post("/api/reviews/{id}/reply", reviewHandler.ReplyReview)

		// DELETE /api/reviews/{id} - delete review (owner or admin)
		r.Delete("/api/reviews/{id}", reviewHandler.DeleteReview)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/reviews", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/reviews - moderation listing of every review
		r.Get("/", reviewHandler.AdminListReviews)
	})
}
