package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"media-catalog/internal/dto/request"
	"media-catalog/internal/usecase"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// GetItemReviews handles GET /api/items/{id}/reviews (public; a logged-in
// caller also gets their own review back)
func (h *ReviewHandler) GetItemReviews(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		utils.ResponseBadRequest(w, "Item ID is required", nil)
		return
	}

	session := sessionFromContext(r.Context())

	reviews, err := h.service.ListByItem(r.Context(), session, itemID)
	if err != nil {
		h.handleServiceError(w, err, "get item reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// SubmitReview handles POST /api/reviews (protected)
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	var req request.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, err := h.service.Submit(r.Context(), session, &req)
	if err != nil {
		h.handleServiceError(w, err, "submit review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// EditReview handles PUT /api/reviews/{id} (protected, owner only)
func (h *ReviewHandler) EditReview(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	reviewID := chi.URLParam(r, "id")
	if reviewID == "" {
		utils.ResponseBadRequest(w, "Review ID is required", nil)
		return
	}

	var req request.EditReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, err := h.service.Edit(r.Context(), session, reviewID, &req)
	if err != nil {
		h.handleServiceError(w, err, "edit review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// ReplyReview handles POST /api/reviews/{id}/reply (protected, admin only)
func (h *ReviewHandler) ReplyReview(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	reviewID := chi.URLParam(r, "id")
	if reviewID == "" {
		utils.ResponseBadRequest(w, "Review ID is required", nil)
		return
	}

	var req request.ReplyReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, err := h.service.Reply(r.Context(), session, reviewID, &req)
	if err != nil {
		h.handleServiceError(w, err, "reply to review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// DeleteReview handles DELETE /api/reviews/{id} (protected, owner or admin)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	reviewID := chi.URLParam(r, "id")
	if reviewID == "" {
		utils.ResponseBadRequest(w, "Review ID is required", nil)
		return
	}

	if err := h.service.Remove(r.Context(), session, reviewID); err != nil {
		h.handleServiceError(w, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetUserReviews handles GET /api/user/reviews (protected)
func (h *ReviewHandler) GetUserReviews(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	reviews, err := h.service.ListByAuthor(r.Context(), session)
	if err != nil {
		h.handleServiceError(w, err, "get user reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// AdminListReviews handles GET /api/admin/reviews (admin)
func (h *ReviewHandler) AdminListReviews(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	reviews, err := h.service.ListAll(r.Context(), session, req)
	if err != nil {
		h.handleServiceError(w, err, "list all reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// handleServiceError maps the ledger error taxonomy onto HTTP statuses. Each
// kind keeps its identity so the client can react precisely.
func (h *ReviewHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrDuplicateReview):
		h.log.Warn(operation+" failed - duplicate review", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidRating),
		errors.Is(err, usecase.ErrEmptyBody),
		errors.Is(err, usecase.ErrEmptyReply):
		h.log.Warn(operation+" failed - validation", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrUnauthorized):
		h.log.Warn(operation+" failed - not permitted", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrStoreUnavailable):
		h.log.Error(operation+" failed - store unavailable", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Review store unavailable, retry later")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
