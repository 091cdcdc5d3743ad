package usecase

import (
	"media-catalog/internal/data/repository"

	"go.uber.org/zap"
)

type Service struct {
	Review ReviewService
}

func NewService(repo *repository.Repository, locker SubmitLocker, log *zap.Logger) *Service {
	return &Service{
		Review: NewReviewService(repo, locker, log),
	}
}
