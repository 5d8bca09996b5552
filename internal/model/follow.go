package model

import "github.com/google/uuid"

// Follow is a directed edge: UserID receives AuthorID's posts in their feed.
type Follow struct {
	ID       int64     `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	AuthorID uuid.UUID `json:"author_id"`
}
