package postgres

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
)

type commentRepo struct {
	db Querier
}

func newCommentRepo(db Querier) Comment {
	return &commentRepo{
		db: db,
	}
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO comments(post_id, author_id, text) VALUES($1, $2, $3) RETURNING id, created",
		comment.PostID,
		comment.AuthorID,
		comment.Text,
	).Scan(&comment.ID, &comment.Created); err != nil {
		return nil, err
	}

	return &comment, nil
}

// FindPostComments returns the full thread, oldest first.
func (r *commentRepo) FindPostComments(ctx context.Context, postID int64) ([]*model.FullComment, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT
		c.id, c.post_id, c.author_id, c.text, c.created, u.username, u.display_name, u.avatar_url
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.created ASC`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.FullComment
	for rows.Next() {
		var comment model.FullComment
		if err := rows.Scan(
			&comment.Comment.ID,
			&comment.Comment.PostID,
			&comment.Comment.AuthorID,
			&comment.Comment.Text,
			&comment.Comment.Created,
			&comment.Author.Username,
			&comment.Author.DisplayName,
			&comment.Author.AvatarURL,
		); err != nil {
			return nil, err
		}

		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
