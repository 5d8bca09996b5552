package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        int64     `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	GroupID   *int64    `json:"group_id"`
	Text      string    `json:"text"`
	ImagePath *string   `json:"image_path"`
	PubDate   time.Time `json:"pub_date"`
}

// FeedPost is a post joined with its author and optional group, the shape
// every feed view returns.
type FeedPost struct {
	Post   Post       `json:"post"`
	Author UserAuthor `json:"author"`
	Group  *Group     `json:"group"`
}
