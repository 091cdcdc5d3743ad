package adaptor

import (
	"context"

	"media-catalog/internal/data/entity"
	"media-catalog/internal/usecase"
	"media-catalog/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Review *ReviewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Review: NewReviewHandler(service.Review, log),
	}
}

// sessionFromContext rebuilds the Session the auth middleware resolved.
// Requests that skipped the middleware are anonymous.
func sessionFromContext(ctx context.Context) entity.Session {
	userID, username, role, ok := utils.GetSessionContext(ctx)
	if !ok {
		return entity.AnonymousSession()
	}
	return entity.Session{
		UserID:   userID,
		Username: username,
		Role:     entity.NormalizeRole(role),
	}
}
