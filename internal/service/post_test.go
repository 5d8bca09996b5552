package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPostService(t *testing.T, deps *testDeps) (Post, string) {
	t.Helper()
	mediaDir := t.TempDir()
	return newPostService(zap.NewNop(), deps.repo, nil, newMediaStore(mediaDir)), mediaDir
}

func TestCreatePost(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)
	authorID := uuid.New()

	require.NoError(t, deps.mr.Set(redisrepo.GlobalFeedKey(1), "cached-page"))

	deps.mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(authorID, pgxmock.AnyArg(), "T1", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "pub_date"}).AddRow(int64(1), time.Now()))

	post, err := svc.Create(context.Background(), authorID, dto.CreatePostRequest{Text: "T1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.ID)
	assert.Equal(t, authorID, post.AuthorID)
	assert.False(t, post.PubDate.IsZero())

	assert.False(t, deps.mr.Exists(redisrepo.GlobalFeedKey(1)), "post creation must invalidate cached feed pages")

	deps.expectationsWereMet(t)
}

func TestCreatePost_EmptyText(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreatePostRequest{Text: "   "}, nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "text", validationErr.Field)

	deps.expectationsWereMet(t)
}

func TestCreatePost_WithImage(t *testing.T) {
	deps := newTestDeps(t)
	svc, mediaDir := newTestPostService(t, deps)
	authorID := uuid.New()

	deps.mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(authorID, pgxmock.AnyArg(), "with picture", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "pub_date"}).AddRow(int64(2), time.Now()))

	post, err := svc.Create(context.Background(), authorID, dto.CreatePostRequest{Text: "with picture"}, makeFileHeader(t, gif1x1))
	require.NoError(t, err)
	require.NotNil(t, post.ImagePath)
	assert.True(t, strings.HasSuffix(*post.ImagePath, ".gif"))

	entries, err := os.ReadDir(mediaDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	deps.expectationsWereMet(t)
}

func TestCreatePost_RejectsNonImagePayload(t *testing.T) {
	deps := newTestDeps(t)
	svc, mediaDir := newTestPostService(t, deps)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreatePostRequest{Text: "looks fine"}, makeFileHeader(t, []byte("definitely not an image")))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "image", validationErr.Field)

	entries, readErr := os.ReadDir(mediaDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "rejected upload must not be persisted")

	// no INSERT was expected: the record must not reach the store either
	deps.expectationsWereMet(t)
}

func TestGlobalFeed_CacheAside(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)
	authorID := uuid.New()

	deps.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	deps.mock.ExpectQuery(`ORDER BY p.pub_date DESC`).
		WithArgs(PAGE_SIZE, 0).
		WillReturnRows(feedPostRow(pgxmock.NewRows(feedPostColumnNames), 1, authorID, "alice", "T1", time.Now()))

	feed, err := svc.GetGlobalFeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), feed.TotalCount)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "T1", feed.Items[0].Post.Text)

	ttl := deps.mr.TTL(redisrepo.GlobalFeedKey(1))
	assert.Equal(t, DEFAULT_FEED_TTL, ttl)

	// second read is served from the cache: no further query expectations
	cached, err := svc.GetGlobalFeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, feed.TotalCount, cached.TotalCount)
	require.Len(t, cached.Items, 1)
	assert.Equal(t, "T1", cached.Items[0].Post.Text)

	deps.expectationsWereMet(t)
}

func TestUpdatePost(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)
	authorID := uuid.New()

	require.NoError(t, deps.mr.Set(redisrepo.GlobalFeedKey(1), "stale-page"))

	deps.mock.ExpectQuery(`WHERE p.id = \$1 AND u.username = \$2`).
		WithArgs(int64(1), "alice").
		WillReturnRows(feedPostRow(pgxmock.NewRows(feedPostColumnNames), 1, authorID, "alice", "T1", time.Now()))
	deps.mock.ExpectExec(`UPDATE posts SET text`).
		WithArgs("T2", int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	newText := "T2"
	updated, err := svc.Update(context.Background(), "alice", 1, authorID, dto.EditPostRequest{Text: &newText}, nil)
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Post.Text)
	assert.Equal(t, authorID, updated.Post.AuthorID)

	assert.False(t, deps.mr.Exists(redisrepo.GlobalFeedKey(1)), "post edit must invalidate cached feed pages")

	deps.expectationsWereMet(t)
}

func TestUpdatePost_NotAuthor(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)

	deps.mock.ExpectQuery(`WHERE p.id = \$1 AND u.username = \$2`).
		WithArgs(int64(1), "alice").
		WillReturnRows(feedPostRow(pgxmock.NewRows(feedPostColumnNames), 1, uuid.New(), "alice", "T1", time.Now()))

	newText := "hijacked"
	_, err := svc.Update(context.Background(), "alice", 1, uuid.New(), dto.EditPostRequest{Text: &newText}, nil)
	assert.ErrorIs(t, err, ErrNotPostAuthor)

	deps.expectationsWereMet(t)
}

func TestUpdatePost_NotFound(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)

	deps.mock.ExpectQuery(`WHERE p.id = \$1 AND u.username = \$2`).
		WithArgs(int64(404), "ghost").
		WillReturnError(pgx.ErrNoRows)

	newText := "T2"
	_, err := svc.Update(context.Background(), "ghost", 404, uuid.New(), dto.EditPostRequest{Text: &newText}, nil)
	assert.ErrorIs(t, err, ErrPostNotFound)

	deps.expectationsWereMet(t)
}

func TestGetPost_WithComments(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)
	authorID := uuid.New()
	commenterID := uuid.New()
	now := time.Now()

	deps.mock.ExpectQuery(`WHERE p.id = \$1 AND u.username = \$2`).
		WithArgs(int64(1), "alice").
		WillReturnRows(feedPostRow(pgxmock.NewRows(feedPostColumnNames), 1, authorID, "alice", "T1", now))
	deps.mock.ExpectQuery(`ORDER BY c.created ASC`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "post_id", "author_id", "text", "created", "username", "display_name", "avatar_url"}).
			AddRow(int64(10), int64(1), commenterID, "first", now.Add(-time.Minute), "bob", nil, nil).
			AddRow(int64(11), int64(1), commenterID, "second", now, "bob", nil, nil))

	post, err := svc.GetPost(context.Background(), "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, "T1", post.Post.Post.Text)
	require.Len(t, post.Comments, 2)
	assert.Equal(t, "first", post.Comments[0].Comment.Text)
	assert.Equal(t, "second", post.Comments[1].Comment.Text)
	assert.True(t, post.Comments[0].Comment.Created.Before(post.Comments[1].Comment.Created))

	deps.expectationsWereMet(t)
}

func TestGetPost_NotFound(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)

	deps.mock.ExpectQuery(`WHERE p.id = \$1 AND u.username = \$2`).
		WithArgs(int64(99), "nobody").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetPost(context.Background(), "nobody", 99)
	assert.ErrorIs(t, err, ErrPostNotFound)

	deps.expectationsWereMet(t)
}

func TestGroupFeed_UnknownSlug(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)

	deps.mock.ExpectQuery(`FROM groups g WHERE g.slug = \$1`).
		WithArgs("unknown").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetGroupFeed(context.Background(), "unknown", 1)
	assert.ErrorIs(t, err, ErrGroupNotFound)

	deps.expectationsWereMet(t)
}

func TestGroupFeed(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)
	authorID := uuid.New()

	deps.mock.ExpectQuery(`FROM groups g WHERE g.slug = \$1`).
		WithArgs("golang").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "slug", "description"}).
			AddRow(int64(5), "Golang", "golang", "all things go"))
	deps.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE group_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	deps.mock.ExpectQuery(`WHERE p.group_id = \$1`).
		WithArgs(int64(5), PAGE_SIZE, 0).
		WillReturnRows(pgxmock.NewRows(feedPostColumnNames).
			AddRow(int64(1), authorID, ptrInt64(5), "grouped", nil, time.Now(), "alice", nil, nil, ptrInt64(5), ptrString("Golang"), ptrString("golang"), ptrString("all things go")))

	feed, err := svc.GetGroupFeed(context.Background(), "golang", 1)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	require.NotNil(t, feed.Items[0].Group)
	assert.Equal(t, "golang", feed.Items[0].Group.Slug)

	deps.expectationsWereMet(t)
}

func TestProfileFeed(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)
	authorID := uuid.New()
	viewerID := uuid.New()

	deps.mock.ExpectQuery(`FROM users u WHERE u.username = \$1`).
		WithArgs("bob").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "display_name", "avatar_url"}).
			AddRow(authorID, "bob", nil, nil))
	deps.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE author_id = \$1`).
		WithArgs(authorID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	deps.mock.ExpectQuery(`WHERE p.author_id = \$1`).
		WithArgs(authorID, PAGE_SIZE, 0).
		WillReturnRows(feedPostRow(pgxmock.NewRows(feedPostColumnNames), 1, authorID, "bob", "T3", time.Now()))
	deps.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(viewerID, authorID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	deps.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM follows WHERE author_id = \$1`).
		WithArgs(authorID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	deps.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM follows WHERE user_id = \$1`).
		WithArgs(authorID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	profile, err := svc.GetProfileFeed(context.Background(), "bob", &viewerID, 1)
	require.NoError(t, err)
	assert.True(t, profile.Following)
	assert.Equal(t, int64(2), profile.FollowerCount)
	assert.Equal(t, int64(3), profile.FollowingCount)
	require.Len(t, profile.Items, 1)
	assert.Equal(t, "T3", profile.Items[0].Post.Text)

	deps.expectationsWereMet(t)
}

func TestProfileFeed_UnknownUsername(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)

	deps.mock.ExpectQuery(`FROM users u WHERE u.username = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetProfileFeed(context.Background(), "ghost", nil, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)

	deps.expectationsWereMet(t)
}

func TestProfileFeed_AnonymousViewerNeverFollows(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)
	authorID := uuid.New()

	deps.mock.ExpectQuery(`FROM users u WHERE u.username = \$1`).
		WithArgs("bob").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "display_name", "avatar_url"}).
			AddRow(authorID, "bob", nil, nil))
	deps.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE author_id = \$1`).
		WithArgs(authorID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	deps.mock.ExpectQuery(`WHERE p.author_id = \$1`).
		WithArgs(authorID, PAGE_SIZE, 0).
		WillReturnRows(pgxmock.NewRows(feedPostColumnNames))
	deps.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM follows WHERE author_id = \$1`).
		WithArgs(authorID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	deps.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM follows WHERE user_id = \$1`).
		WithArgs(authorID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	profile, err := svc.GetProfileFeed(context.Background(), "bob", nil, 1)
	require.NoError(t, err)
	assert.False(t, profile.Following)

	deps.expectationsWereMet(t)
}

func TestFollowFeed_ClampsPagePastEnd(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)
	userID := uuid.New()

	deps.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts p WHERE p.author_id IN`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(25)))
	deps.mock.ExpectQuery(`WHERE p.author_id IN \(SELECT f.author_id FROM follows f WHERE f.user_id = \$1\)`).
		WithArgs(userID, PAGE_SIZE, 20).
		WillReturnRows(pgxmock.NewRows(feedPostColumnNames))

	feed, err := svc.GetFollowFeed(context.Background(), userID, 99)
	require.NoError(t, err)
	assert.Equal(t, 3, feed.Page)
	assert.Equal(t, 3, feed.NumPages)
	assert.Equal(t, int64(25), feed.TotalCount)

	deps.expectationsWereMet(t)
}

func TestFollowFeed_EmptyWhenFollowingNobody(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)
	userID := uuid.New()

	deps.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts p WHERE p.author_id IN`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	deps.mock.ExpectQuery(`WHERE p.author_id IN \(SELECT f.author_id FROM follows f WHERE f.user_id = \$1\)`).
		WithArgs(userID, PAGE_SIZE, 0).
		WillReturnRows(pgxmock.NewRows(feedPostColumnNames))

	feed, err := svc.GetFollowFeed(context.Background(), userID, 1)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
	assert.Equal(t, int64(0), feed.TotalCount)

	deps.expectationsWereMet(t)
}

func TestErrorIsInternalOnStoreFailure(t *testing.T) {
	deps := newTestDeps(t)
	svc, _ := newTestPostService(t, deps)

	deps.mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "T1", pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreatePostRequest{Text: "T1"}, nil)
	assert.ErrorIs(t, err, ErrInternal)

	deps.expectationsWereMet(t)
}

func ptrInt64(v int64) *int64 {
	return &v
}

func ptrString(v string) *string {
	return &v
}
