package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"media-catalog/internal/data/entity"

	"go.uber.org/zap"
)

// Store-level failures. ErrStoreUnavailable covers transport errors and 5xx
// responses; ErrReviewNotFound is the store's authoritative answer for a
// mutation against an id that no longer exists.
var (
	ErrReviewNotFound   = errors.New("review not found in store")
	ErrStoreUnavailable = errors.New("review store unavailable")
)

// ReviewPatch is a partial update; nil fields are left untouched by the store.
type ReviewPatch struct {
	Rating     *int    `json:"rating,omitempty"`
	Body       *string `json:"body,omitempty"`
	AdminReply *string `json:"adminReply,omitempty"`
}

// ReviewStore is the remote collection holding review documents. The store
// has no business logic; every invariant is enforced by the ledger before a
// call reaches it.
type ReviewStore interface {
	FetchAll(ctx context.Context) ([]entity.Review, error)
	Create(ctx context.Context, review *entity.Review) error
	Patch(ctx context.Context, id string, patch ReviewPatch) (*entity.Review, error)
	Delete(ctx context.Context, id string) error
}

type httpReviewStore struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewHTTPReviewStore(baseURL string, timeout time.Duration, log *zap.Logger) ReviewStore {
	return &httpReviewStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log.With(zap.String("repository", "review_store")),
	}
}

func (s *httpReviewStore) FetchAll(ctx context.Context) ([]entity.Review, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/reviews", nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("Failed to fetch reviews", zap.Error(err))
		return nil, fmt.Errorf("%w: fetch reviews: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("Unexpected status fetching reviews", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: fetch reviews: status %d", ErrStoreUnavailable, resp.StatusCode)
	}

	var reviews []entity.Review
	if err := json.NewDecoder(resp.Body).Decode(&reviews); err != nil {
		return nil, fmt.Errorf("%w: decode reviews: %v", ErrStoreUnavailable, err)
	}

	return reviews, nil
}

func (s *httpReviewStore) Create(ctx context.Context, review *entity.Review) error {
	body, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("marshal review %s: %w", review.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/reviews", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("review_id", review.ID),
		)
		return fmt.Errorf("%w: create review %s: %v", ErrStoreUnavailable, review.ID, err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		s.log.Error("Unexpected status creating review",
			zap.Int("status", resp.StatusCode),
			zap.String("review_id", review.ID),
		)
		return fmt.Errorf("%w: create review %s: status %d", ErrStoreUnavailable, review.ID, resp.StatusCode)
	}

	return nil
}

func (s *httpReviewStore) Patch(ctx context.Context, id string, patch ReviewPatch) (*entity.Review, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal patch for review %s: %w", id, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.baseURL+"/reviews/"+id, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build patch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("Failed to patch review",
			zap.Error(err),
			zap.String("review_id", id),
		)
		return nil, fmt.Errorf("%w: patch review %s: %v", ErrStoreUnavailable, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("patch review %s: %w", id, ErrReviewNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		s.log.Error("Unexpected status patching review",
			zap.Int("status", resp.StatusCode),
			zap.String("review_id", id),
		)
		return nil, fmt.Errorf("%w: patch review %s: status %d", ErrStoreUnavailable, id, resp.StatusCode)
	}

	var updated entity.Review
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("%w: decode patched review %s: %v", ErrStoreUnavailable, id, err)
	}

	return &updated, nil
}

func (s *httpReviewStore) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.baseURL+"/reviews/"+id, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id),
		)
		return fmt.Errorf("%w: delete review %s: %v", ErrStoreUnavailable, id, err)
	}
	defer drain(resp)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("delete review %s: %w", id, ErrReviewNotFound)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		s.log.Error("Unexpected status deleting review",
			zap.Int("status", resp.StatusCode),
			zap.String("review_id", id),
		)
		return fmt.Errorf("%w: delete review %s: status %d", ErrStoreUnavailable, id, resp.StatusCode)
	}

	return nil
}

// drain empties the body so the transport can reuse the connection.
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
