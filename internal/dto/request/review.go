package request

type SubmitReviewRequest struct {
	ItemID string `json:"item_id" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Body   string `json:"body" validate:"required,max=2000"`
}

type EditReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Body   string `json:"body" validate:"required,max=2000"`
}

type ReplyReviewRequest struct {
	Reply string `json:"reply" validate:"required,max=2000"`
}
