package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-audio/pkg/simpleaudio"
)

func TestFilesystemBackend(t *testing.T) {
	baseDir := t.TempDir()
	backend, err := New(Config{BaseDir: baseDir})
	require.NoError(t, err)

	ctx := context.Background()
	key := "0123_track.mp3"

	err = backend.Upload(ctx, key, strings.NewReader("audio"), simpleaudio.UploadParams{})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(baseDir, key))
	require.NoError(t, err)
	assert.Equal(t, "audio", string(data))

	rc, err := backend.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "audio", string(got))

	assert.True(t, strings.HasPrefix(backend.ObjectURL(key), "file://"))
	assert.True(t, strings.HasSuffix(backend.ObjectURL(key), "/"+key))
}

func TestFilesystemBackend_URLPrefix(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir(), URLPrefix: "http://localhost:5000/files/"})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/files/k.ogg", backend.ObjectURL("k.ogg"))
}

func TestFilesystemBackend_RejectsEscapingKeys(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	err = backend.Upload(context.Background(), "../outside.mp3", strings.NewReader("x"), simpleaudio.UploadParams{})
	assert.Error(t, err)
}

func TestFilesystemBackend_MissingBaseDir(t *testing.T) {
	_, err := New(Config{})
	assert.EqualError(t, err, "base directory is required")
}

func TestFilesystemBackend_DownloadMissing(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	_, err = backend.Download(context.Background(), "nope.mp3")
	assert.EqualError(t, err, "object not found")
}
