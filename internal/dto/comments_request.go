package dto

type CreateCommentRequest struct {
	Text string `form:"text" json:"text"`
}
