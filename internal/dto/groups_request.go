package dto

type CreateGroupRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Slug        string `json:"slug" binding:"required,min=1,max=75"`
	Description string `json:"description" binding:"max=400"`
}
