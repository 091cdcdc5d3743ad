package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"media-catalog/internal/access"
	"media-catalog/internal/data/entity"
	"media-catalog/internal/data/repository"
	"media-catalog/internal/dto/request"
	"media-catalog/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitLocker serializes the check-then-write window of review submission
// per (author, item) key across service instances.
type SubmitLocker interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// ReviewService is the review ledger: the only component that mutates review
// state. Every mutation is gated by the access decision point, validated
// before any remote call, written to the remote store first and applied to
// the in-memory projection only after the store confirms.
type ReviewService interface {
	ListByItem(ctx context.Context, session entity.Session, itemID string) (*response.ItemReviewsResponse, error)
	Submit(ctx context.Context, session entity.Session, req *request.SubmitReviewRequest) (*response.ReviewResponse, error)
	Edit(ctx context.Context, session entity.Session, reviewID string, req *request.EditReviewRequest) (*response.ReviewResponse, error)
	Reply(ctx context.Context, session entity.Session, reviewID string, req *request.ReplyReviewRequest) (*response.ReviewResponse, error)
	Remove(ctx context.Context, session entity.Session, reviewID string) error

	ListByAuthor(ctx context.Context, session entity.Session) ([]response.ReviewResponse, error)
	ListAll(ctx context.Context, session entity.Session, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
}

type reviewService struct {
	store  repository.ReviewStore
	locker SubmitLocker
	proj   *projection
	log    *zap.Logger
}

func NewReviewService(repo *repository.Repository, locker SubmitLocker, log *zap.Logger) ReviewService {
	return &reviewService{
		store:  repo.Review,
		locker: locker,
		proj:   newProjection(),
		log:    log.With(zap.String("service", "review")),
	}
}

// refresh fetches a store snapshot, applies it to the projection unless a
// local write landed mid-fetch, and returns it. Callers that need the
// authoritative remote state (uniqueness checks, id resolution) read the
// returned snapshot rather than the projection, so a skipped rebuild never
// hides a remote write from them.
func (s *reviewService) refresh(ctx context.Context) ([]entity.Review, error) {
	gen := s.proj.generation()
	reviews, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, s.mapStoreErr("refresh projection", err)
	}
	if !s.proj.replaceAllIfUnchanged(reviews, gen) {
		s.log.Debug("Skipped projection rebuild, snapshot predates a local write")
	}
	return reviews, nil
}

// refreshBestEffort serves read paths: a stale projection beats no answer
// when the store is down.
func (s *reviewService) refreshBestEffort(ctx context.Context) {
	if _, err := s.refresh(ctx); err != nil {
		s.log.Warn("Serving stale projection, store refresh failed", zap.Error(err))
	}
}

func (s *reviewService) ListByItem(ctx context.Context, session entity.Session, itemID string) (*response.ItemReviewsResponse, error) {
	s.refreshBestEffort(ctx)

	reviews := s.proj.listByItem(itemID)
	resp := &response.ItemReviewsResponse{
		Reviews: response.ReviewsToResponse(reviews),
	}

	// Own review is derived from the same snapshot as the listing, so the
	// two can never disagree and the client never renders both "write your
	// review" and "edit your review".
	if session.IsAuthenticated() {
		for i := range resp.Reviews {
			if resp.Reviews[i].AuthorID == session.UserID {
				resp.OwnReview = &resp.Reviews[i]
				break
			}
		}
	}

	return resp, nil
}

func (s *reviewService) Submit(ctx context.Context, session entity.Session, req *request.SubmitReviewRequest) (*response.ReviewResponse, error) {
	if dec := access.Check(session, access.ActionSubmitReview, ""); !dec.Allowed {
		return nil, fmt.Errorf("submit review: %s: %w", dec.Reason, ErrUnauthorized)
	}

	if err := validateRatingAndBody(req.Rating, req.Body); err != nil {
		return nil, err
	}

	// Fast path: a pair already present in the projection is a confirmed
	// write, so reject before taking the lock or touching the store.
	if _, exists := s.proj.ownReview(session.UserID, req.ItemID); exists {
		return nil, fmt.Errorf("item %s: %w", req.ItemID, ErrDuplicateReview)
	}

	// Close the check-then-write window: whoever loses the lock race is a
	// concurrent duplicate for the same (author, item) pair.
	lockKey := session.UserID + ":" + req.ItemID
	acquired, err := s.locker.Acquire(ctx, lockKey)
	if err != nil {
		return nil, fmt.Errorf("acquire submit lock: %w", ErrStoreUnavailable)
	}
	if !acquired {
		return nil, fmt.Errorf("concurrent submission for item %s: %w", req.ItemID, ErrDuplicateReview)
	}
	defer func() {
		if err := s.locker.Release(ctx, lockKey); err != nil {
			s.log.Warn("Failed to release submit lock, TTL will reclaim it",
				zap.Error(err),
				zap.String("key", lockKey),
			)
		}
	}()

	// The uniqueness check must see writes committed by other instances,
	// so it runs against the fresh snapshot itself.
	snapshot, err := s.refresh(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snapshot {
		if snapshot[i].AuthorID == session.UserID && snapshot[i].ItemID == req.ItemID {
			return nil, fmt.Errorf("item %s: %w", req.ItemID, ErrDuplicateReview)
		}
	}

	review := entity.Review{
		ID:         uuid.New().String(),
		ItemID:     req.ItemID,
		AuthorID:   session.UserID,
		AuthorName: session.Username,
		Rating:     req.Rating,
		Body:       req.Body,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.Create(ctx, &review); err != nil {
		return nil, s.mapStoreErr("create review", err)
	}

	// The store confirmed; apply to the projection even if the caller has
	// gone away. A committed write is real state and must not be lost.
	s.proj.upsert(review)

	s.log.Info("Review submitted",
		zap.String("review_id", review.ID),
		zap.String("item_id", review.ItemID),
		zap.String("author_id", review.AuthorID),
		zap.Int("rating", review.Rating),
	)

	resp := response.ReviewToResponse(&review)
	return &resp, nil
}

func (s *reviewService) Edit(ctx context.Context, session entity.Session, reviewID string, req *request.EditReviewRequest) (*response.ReviewResponse, error) {
	current, err := s.find(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if dec := access.Check(session, access.ActionEditReview, current.AuthorID); !dec.Allowed {
		return nil, fmt.Errorf("edit review %s: %s: %w", reviewID, dec.Reason, ErrUnauthorized)
	}

	if err := validateRatingAndBody(req.Rating, req.Body); err != nil {
		return nil, err
	}

	patch := repository.ReviewPatch{
		Rating: &req.Rating,
		Body:   &req.Body,
	}

	// The store re-validates existence: a 404 here means the review was
	// removed out from under us and the projection entry is a phantom.
	updated, err := s.store.Patch(ctx, reviewID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			s.proj.remove(reviewID)
		}
		return nil, s.mapStoreErr("edit review", err)
	}

	// The echoed record carries any adminReply written concurrently.
	s.proj.upsert(*updated)

	s.log.Info("Review edited",
		zap.String("review_id", reviewID),
		zap.String("author_id", session.UserID),
		zap.Int("rating", req.Rating),
	)

	resp := response.ReviewToResponse(updated)
	return &resp, nil
}

func (s *reviewService) Reply(ctx context.Context, session entity.Session, reviewID string, req *request.ReplyReviewRequest) (*response.ReviewResponse, error) {
	current, err := s.find(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if dec := access.Check(session, access.ActionReplyReview, current.AuthorID); !dec.Allowed {
		return nil, fmt.Errorf("reply to review %s: %s: %w", reviewID, dec.Reason, ErrUnauthorized)
	}

	if strings.TrimSpace(req.Reply) == "" {
		return nil, ErrEmptyReply
	}

	patch := repository.ReviewPatch{AdminReply: &req.Reply}

	updated, err := s.store.Patch(ctx, reviewID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			s.proj.remove(reviewID)
		}
		return nil, s.mapStoreErr("reply to review", err)
	}

	s.proj.upsert(*updated)

	s.log.Info("Admin reply written",
		zap.String("review_id", reviewID),
		zap.String("admin_id", session.UserID),
	)

	resp := response.ReviewToResponse(updated)
	return &resp, nil
}

func (s *reviewService) Remove(ctx context.Context, session entity.Session, reviewID string) error {
	current, err := s.find(ctx, reviewID)
	if err != nil {
		return err
	}

	if dec := access.Check(session, access.ActionDeleteReview, current.AuthorID); !dec.Allowed {
		return fmt.Errorf("delete review %s: %s: %w", reviewID, dec.Reason, ErrUnauthorized)
	}

	if err := s.store.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			// Already gone remotely; a second remove surfaces NotFound so
			// callers can detect stale references.
			s.proj.remove(reviewID)
		}
		return s.mapStoreErr("delete review", err)
	}

	s.proj.remove(reviewID)

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("item_id", current.ItemID),
		zap.String("deleted_by", session.UserID),
		zap.String("role", string(session.Role)),
	)

	return nil
}

func (s *reviewService) ListByAuthor(ctx context.Context, session entity.Session) ([]response.ReviewResponse, error) {
	if !session.IsAuthenticated() {
		return nil, fmt.Errorf("list own reviews: %w", ErrUnauthorized)
	}

	s.refreshBestEffort(ctx)

	return response.ReviewsToResponse(s.proj.listByAuthor(session.UserID)), nil
}

func (s *reviewService) ListAll(ctx context.Context, session entity.Session, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if !session.IsAdmin() {
		return nil, fmt.Errorf("list all reviews: %w", ErrUnauthorized)
	}

	s.refreshBestEffort(ctx)

	all := s.proj.listAll()
	total := int64(len(all))

	offset := req.Offset()
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + req.Limit()
	if end > len(all) {
		end = len(all)
	}

	page := response.ReviewsToResponse(all[offset:end])
	return response.NewPaginatedResponse(page, req.Page, req.Limit(), total), nil
}

// find resolves a review id against the projection, falling back to one
// store refresh for ids this instance has not seen yet.
func (s *reviewService) find(ctx context.Context, reviewID string) (entity.Review, error) {
	if r, ok := s.proj.get(reviewID); ok {
		return r, nil
	}

	snapshot, err := s.refresh(ctx)
	if err != nil {
		return entity.Review{}, err
	}
	for i := range snapshot {
		if snapshot[i].ID == reviewID {
			return snapshot[i], nil
		}
	}

	return entity.Review{}, fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
}

func (s *reviewService) mapStoreErr(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrReviewNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, repository.ErrStoreUnavailable):
		s.log.Error("Review store call failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func validateRatingAndBody(rating int, body string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating %d: %w", rating, ErrInvalidRating)
	}
	if strings.TrimSpace(body) == "" {
		return ErrEmptyBody
	}
	return nil
}
