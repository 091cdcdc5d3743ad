package response

import (
	"time"

	"media-catalog/internal/data/entity"
)

type ReviewResponse struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Body       string    `json:"body"`
	AdminReply *string   `json:"admin_reply,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ItemReviewsResponse pairs the full item listing with the caller's own
// review so the two views the client renders always come from the same
// snapshot.
type ItemReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	OwnReview *ReviewResponse  `json:"own_review,omitempty"`
}

// Helper converter
func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID,
		ItemID:     review.ItemID,
		AuthorID:   review.AuthorID,
		AuthorName: review.AuthorName,
		Rating:     review.Rating,
		Body:       review.Body,
		AdminReply: review.AdminReply,
		CreatedAt:  review.CreatedAt,
	}
}

func ReviewsToResponse(reviews []entity.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = ReviewToResponse(&reviews[i])
	}
	return out
}
