package service

import (
	"bytes"
	"mime/multipart"
	"testing"
	"time"

	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var feedPostColumnNames = []string{
	"id", "author_id", "group_id", "text", "image_path", "pub_date",
	"username", "display_name", "avatar_url",
	"g_id", "g_title", "g_slug", "g_description",
}

// gif1x1 is a complete, valid 1x1 GIF payload.
var gif1x1 = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

type testDeps struct {
	mock pgxmock.PgxPoolIface
	mr   *miniredis.Miniredis
	repo *repository.Repository
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return &testDeps{
		mock: mock,
		mr:   mr,
		repo: repository.New(mock, rdb),
	}
}

func (d *testDeps) expectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, d.mock.ExpectationsWereMet())
}

func feedPostRow(rows *pgxmock.Rows, postID int64, authorID uuid.UUID, username string, text string, pubDate time.Time) *pgxmock.Rows {
	return rows.AddRow(postID, authorID, nil, text, nil, pubDate, username, nil, nil, nil, nil, nil, nil)
}

func makeFileHeader(t *testing.T, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", "upload.bin")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["image"][0]
}
