package dto

import "github.com/BloggingApp/feed-service/internal/model"

// PostsPage is one page of a feed view plus paginator state.
type PostsPage struct {
	Items      []*model.FeedPost `json:"items"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	NumPages   int               `json:"num_pages"`
}

type GetPost struct {
	Post     model.FeedPost       `json:"post"`
	Comments []*model.FullComment `json:"comments"`
}

// ProfilePage is the profile feed plus the viewer's follow state and the
// author's counters.
type ProfilePage struct {
	PostsPage
	Author         model.UserAuthor `json:"author"`
	Following      bool             `json:"following"`
	FollowerCount  int64            `json:"follower_count"`
	FollowingCount int64            `json:"following_count"`
}
