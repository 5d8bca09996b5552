package dto

import (
	"time"

	"github.com/google/uuid"
)

type MQPostCreatedMsg struct {
	PostID   int64     `json:"post_id"`
	AuthorID uuid.UUID `json:"author_id"`
	PubDate  time.Time `json:"pub_date"`
}

type MQUserCreatedMsg struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
}

type MQUserUpdatedMsg struct {
	ID      uuid.UUID              `json:"id"`
	Updates map[string]interface{} `json:"updates"`
}
