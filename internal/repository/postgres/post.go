package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const feedPostColumns = `p.id, p.author_id, p.group_id, p.text, p.image_path, p.pub_date,
	u.username, u.display_name, u.avatar_url,
	g.id, g.title, g.slug, g.description`

const feedPostJoins = `FROM posts p
	JOIN users u ON p.author_id = u.id
	LEFT JOIN groups g ON p.group_id = g.id`

type postRepo struct {
	db Querier
}

func newPostRepo(db Querier) Post {
	return &postRepo{
		db: db,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO posts(author_id, group_id, text, image_path) VALUES($1, $2, $3, $4) RETURNING id, pub_date",
		post.AuthorID,
		post.GroupID,
		post.Text,
		post.ImagePath,
	).Scan(&post.ID, &post.PubDate); err != nil {
		return nil, err
	}

	return &post, nil
}

// Update never touches author_id or pub_date; both are fixed at creation.
func (r *postRepo) Update(ctx context.Context, postID int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	allowedFields := []string{"text", "group_id", "image_path"}
	allowedFieldsSet := make(map[string]struct{}, len(allowedFields))
	for _, field := range allowedFields {
		allowedFieldsSet[field] = struct{}{}
	}

	for field := range updates {
		if _, ok := allowedFieldsSet[field]; !ok {
			return ErrFieldsNotAllowedToUpdate
		}
	}

	query := "UPDATE posts SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(i)
	args = append(args, postID)

	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *postRepo) FindByAuthorAndID(ctx context.Context, username string, postID int64) (*model.FeedPost, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+feedPostColumns+`
		`+feedPostJoins+`
		WHERE p.id = $1 AND u.username = $2`,
		postID,
		username,
	)

	post, err := scanFeedPost(row)
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (r *postRepo) FindAll(ctx context.Context, limit int, offset int) ([]*model.FeedPost, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+feedPostColumns+`
		`+feedPostJoins+`
		ORDER BY p.pub_date DESC
		LIMIT $1
		OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}

	return scanFeedPosts(rows)
}

func (r *postRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	return count, err
}

func (r *postRepo) FindByGroupID(ctx context.Context, groupID int64, limit int, offset int) ([]*model.FeedPost, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+feedPostColumns+`
		`+feedPostJoins+`
		WHERE p.group_id = $1
		ORDER BY p.pub_date DESC
		LIMIT $2
		OFFSET $3`,
		groupID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}

	return scanFeedPosts(rows)
}

func (r *postRepo) CountByGroupID(ctx context.Context, groupID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM posts WHERE group_id = $1", groupID).Scan(&count)
	return count, err
}

func (r *postRepo) FindByAuthorID(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.FeedPost, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+feedPostColumns+`
		`+feedPostJoins+`
		WHERE p.author_id = $1
		ORDER BY p.pub_date DESC
		LIMIT $2
		OFFSET $3`,
		authorID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}

	return scanFeedPosts(rows)
}

func (r *postRepo) CountByAuthorID(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM posts WHERE author_id = $1", authorID).Scan(&count)
	return count, err
}

// FindFollowed resolves the followed-author set in a single subquery so feed
// generation stays linear in post count.
func (r *postRepo) FindFollowed(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FeedPost, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+feedPostColumns+`
		`+feedPostJoins+`
		WHERE p.author_id IN (SELECT f.author_id FROM follows f WHERE f.user_id = $1)
		ORDER BY p.pub_date DESC
		LIMIT $2
		OFFSET $3`,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}

	return scanFeedPosts(rows)
}

func (r *postRepo) CountFollowed(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		ctx,
		"SELECT COUNT(*) FROM posts p WHERE p.author_id IN (SELECT f.author_id FROM follows f WHERE f.user_id = $1)",
		userID,
	).Scan(&count)
	return count, err
}

func scanFeedPost(row pgx.Row) (*model.FeedPost, error) {
	var (
		id          int64
		authorID    uuid.UUID
		groupID     *int64
		text        string
		imagePath   *string
		pubDate     time.Time
		username    string
		displayName *string
		avatarURL   *string
		gID         *int64
		gTitle      *string
		gSlug       *string
		gDesc       *string
	)
	if err := row.Scan(
		&id,
		&authorID,
		&groupID,
		&text,
		&imagePath,
		&pubDate,
		&username,
		&displayName,
		&avatarURL,
		&gID,
		&gTitle,
		&gSlug,
		&gDesc,
	); err != nil {
		return nil, err
	}

	post := &model.FeedPost{
		Post: model.Post{
			ID:        id,
			AuthorID:  authorID,
			GroupID:   groupID,
			Text:      text,
			ImagePath: imagePath,
			PubDate:   pubDate,
		},
		Author: model.UserAuthor{
			Username:    username,
			DisplayName: displayName,
			AvatarURL:   avatarURL,
		},
	}

	if gID != nil {
		post.Group = &model.Group{
			ID:          *gID,
			Title:       *gTitle,
			Slug:        *gSlug,
			Description: *gDesc,
		}
	}

	return post, nil
}

func scanFeedPosts(rows pgx.Rows) ([]*model.FeedPost, error) {
	defer rows.Close()

	var posts []*model.FeedPost
	for rows.Next() {
		post, err := scanFeedPost(rows)
		if err != nil {
			return nil, err
		}

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}
