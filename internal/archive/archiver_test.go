package archive_test

import (
	"context"
	"errors"
	"io"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tknemuru/kindergarten-collecting/internal/archive"
	"github.com/tknemuru/kindergarten-collecting/internal/config/minio"
	"github.com/tknemuru/kindergarten-collecting/internal/logger"
)

type putCall struct {
	bucket, key string
	body        string
	opts        miniogo.PutObjectOptions
}

type fakeStore struct {
	puts   []putCall
	putErr error
	exists bool
}

func (f *fakeStore) PutObject(
	_ context.Context,
	bucket, key string,
	r io.Reader,
	_ int64,
	opts miniogo.PutObjectOptions,
) (miniogo.UploadInfo, error) {
	if f.putErr != nil {
		return miniogo.UploadInfo{}, f.putErr
	}
	data, _ := io.ReadAll(r)
	f.puts = append(f.puts, putCall{bucket: bucket, key: key, body: string(data), opts: opts})
	return miniogo.UploadInfo{Bucket: bucket, Key: key}, nil
}

func (f *fakeStore) BucketExists(context.Context, string) (bool, error) {
	return f.exists, nil
}

func enabledConfig() minio.Config {
	cfg := minio.New()
	cfg.Enabled = true
	cfg.Prefix = "runs"
	return cfg
}

func TestArchive_UploadsUnderMirroredKey(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	a := archive.NewWithClient(store, enabledConfig(), logger.NewNoOp())

	err := a.Archive(context.Background(), "https://x.test/spdesc.php?id=1", "resources/htmls/kinders/curr/1.html", []byte("<html/>"))
	require.NoError(t, err)

	require.Len(t, store.puts, 1)
	put := store.puts[0]
	assert.Equal(t, "kinder-pages", put.bucket)
	assert.Equal(t, "runs/resources/htmls/kinders/curr/1.html", put.key)
	assert.Equal(t, "<html/>", put.body)
	assert.Equal(t, "https://x.test/spdesc.php?id=1", put.opts.UserMetadata["url"])
}

func TestArchive_Disabled(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	cfg := minio.New()
	a := archive.NewWithClient(store, cfg, logger.NewNoOp())

	require.NoError(t, a.Archive(context.Background(), "u", "p.html", []byte("x")))
	assert.Empty(t, store.puts)
	assert.False(t, a.Enabled())

	disabled, err := archive.NewArchiver(cfg, logger.NewNoOp())
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())
}

func TestArchive_FailureHandling(t *testing.T) {
	t.Parallel()

	store := &fakeStore{putErr: errors.New("access denied")}

	cfg := enabledConfig()
	cfg.FailSilently = true
	require.NoError(t, archive.NewWithClient(store, cfg, logger.NewNoOp()).
		Archive(context.Background(), "u", "p.html", []byte("x")))

	cfg.FailSilently = false
	err := archive.NewWithClient(store, cfg, logger.NewNoOp()).
		Archive(context.Background(), "u", "p.html", []byte("x"))
	require.ErrorContains(t, err, "access denied")
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	require.NoError(t, archive.NewWithClient(&fakeStore{exists: true}, enabledConfig(), logger.NewNoOp()).
		HealthCheck(context.Background()))
	require.Error(t, archive.NewWithClient(&fakeStore{}, enabledConfig(), logger.NewNoOp()).
		HealthCheck(context.Background()))
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a/b.html", archive.ObjectKey("", "a/b.html"))
	assert.Equal(t, "p/a/b.html", archive.ObjectKey("p/", "./a/b.html"))
	assert.Equal(t, "p/etc/x.html", archive.ObjectKey("p", "../../etc/x.html"))
	assert.Equal(t, "p/abs/x.html", archive.ObjectKey("p", "/abs/x.html"))
}
