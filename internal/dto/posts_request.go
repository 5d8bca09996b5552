package dto

type CreatePostRequest struct {
	Text    string `form:"text" json:"text"`
	GroupID *int64 `form:"group_id" json:"group_id"`
}

type EditPostRequest struct {
	Text    *string `form:"text" json:"text"`
	GroupID *int64  `form:"group_id" json:"group_id"`
}
