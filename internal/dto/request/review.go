package request

type CreateReviewRequest struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required,min=1,max=10"`
}

type UpdateReviewRequest struct {
	Text  *string `json:"text,omitempty" validate:"omitempty,min=1"`
	Score *int    `json:"score,omitempty" validate:"omitempty,min=1,max=10"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

type UpdateCommentRequest struct {
	Text *string `json:"text,omitempty" validate:"omitempty,min=1"`
}
