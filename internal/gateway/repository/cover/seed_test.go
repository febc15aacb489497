package cover

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUploader struct {
	names []string
	err   error
}

func (u *recordingUploader) Upload(_ context.Context, name, contentType string, content []byte) error {
	if u.err != nil {
		return u.err
	}
	u.names = append(u.names, name)
	return nil
}

func TestSeedUploadsPresentCovers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "adobe.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yahoo.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	up := &recordingUploader{}
	n, err := Seed(context.Background(), up, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"/adobe.png", "/yahoo.png"}, up.names)
}

func TestSeedStopsOnUploadError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "adobe.png"), []byte("png"), 0o644))

	_, err := Seed(context.Background(), &recordingUploader{err: errors.New("denied")}, dir)
	require.Error(t, err)
}
