package simpleaudio_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-audio/pkg/simpleaudio"
	"github.com/tendant/simple-audio/pkg/simpleaudio/objectkey"
	"github.com/tendant/simple-audio/pkg/simpleaudio/repo/memory"
	memorystorage "github.com/tendant/simple-audio/pkg/simpleaudio/storage/memory"
)

type failingBlobStore struct {
	err   error
	calls int
}

func (f *failingBlobStore) Upload(ctx context.Context, objectKey string, reader io.Reader, params simpleaudio.UploadParams) error {
	f.calls++
	return f.err
}

func (f *failingBlobStore) ObjectURL(objectKey string) string {
	return "failing://" + objectKey
}

type failingRepository struct {
	err error
}

func (f *failingRepository) InsertSong(ctx context.Context, song *simpleaudio.Song) error {
	return f.err
}

func (f *failingRepository) ListSongs(ctx context.Context) ([]*simpleaudio.Song, error) {
	return nil, f.err
}

type nilListRepository struct {
	failingRepository
}

func (*nilListRepository) ListSongs(ctx context.Context) ([]*simpleaudio.Song, error) {
	return nil, nil
}

func fixedKeys() simpleaudio.KeyGenerator {
	return objectkey.NewCustomFuncGenerator(func(fileName string) string {
		return "0123456789abcdef0123456789abcdef_" + objectkey.SanitizeFilename(fileName)
	})
}

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []simpleaudio.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []simpleaudio.Option{},
			expectError: true,
		},
		{
			name: "without blob store should fail",
			options: []simpleaudio.Option{
				simpleaudio.WithRepository(memory.New()),
			},
			expectError: true,
		},
		{
			name: "empty extension list should fail",
			options: []simpleaudio.Option{
				simpleaudio.WithRepository(memory.New()),
				simpleaudio.WithBlobStore(memorystorage.New("songs")),
				simpleaudio.WithAllowedExtensions(),
			},
			expectError: true,
		},
		{
			name: "with repository and blob store should succeed",
			options: []simpleaudio.Option{
				simpleaudio.WithRepository(memory.New()),
				simpleaudio.WithBlobStore(memorystorage.New("songs")),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := simpleaudio.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupService(t *testing.T, opts ...simpleaudio.Option) (simpleaudio.Service, *memory.Repository, *memorystorage.Backend) {
	t.Helper()
	repo := memory.New()
	store := memorystorage.New("songs")
	options := append([]simpleaudio.Option{
		simpleaudio.WithRepository(repo),
		simpleaudio.WithBlobStore(store),
	}, opts...)
	svc, err := simpleaudio.New(options...)
	require.NoError(t, err)
	return svc, repo, store
}

func TestUploadSong(t *testing.T) {
	svc, _, store := setupService(t, simpleaudio.WithKeyGenerator(fixedKeys()))
	ctx := context.Background()

	song, err := svc.UploadSong(ctx, simpleaudio.UploadSongRequest{
		Reader:   strings.NewReader("ID3 audio bytes"),
		FileName: "track.mp3",
		Name:     "Song A",
		MimeType: "audio/mpeg",
	})
	require.NoError(t, err)

	key := "0123456789abcdef0123456789abcdef_track.mp3"
	assert.NotEmpty(t, song.ID)
	assert.Equal(t, "Song A", song.Name)
	assert.Equal(t, "memory://songs/"+key, song.URL)
	assert.Equal(t, "track.mp3", song.OriginalFilename)

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "ID3 audio bytes", string(data))

	mimeType, ok := store.MimeType(key)
	require.True(t, ok)
	assert.Equal(t, "audio/mpeg", mimeType)

	songs, err := svc.ListSongs(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, song.ID, songs[0].ID)
}

func TestUploadSong_DefaultNameIsKey(t *testing.T) {
	svc, _, _ := setupService(t)

	song, err := svc.UploadSong(context.Background(), simpleaudio.UploadSongRequest{
		Reader:   strings.NewReader("RIFF"),
		FileName: "Loop.WAV",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^[0-9a-f]{32}_Loop\.WAV$`, song.Name)
	assert.True(t, strings.HasSuffix(song.URL, "/"+song.Name))
}

func TestUploadSong_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		req      simpleaudio.UploadSongRequest
		expected error
	}{
		{
			name:     "missing reader",
			req:      simpleaudio.UploadSongRequest{FileName: "track.mp3"},
			expected: simpleaudio.ErrMissingFile,
		},
		{
			name:     "empty filename",
			req:      simpleaudio.UploadSongRequest{Reader: strings.NewReader("x")},
			expected: simpleaudio.ErrMissingFile,
		},
		{
			name:     "disallowed extension",
			req:      simpleaudio.UploadSongRequest{Reader: strings.NewReader("x"), FileName: "image.png"},
			expected: simpleaudio.ErrInvalidFileType,
		},
		{
			name:     "no extension",
			req:      simpleaudio.UploadSongRequest{Reader: strings.NewReader("x"), FileName: "track"},
			expected: simpleaudio.ErrInvalidFileType,
		},
		{
			name:     "trailing dot",
			req:      simpleaudio.UploadSongRequest{Reader: strings.NewReader("x"), FileName: "track."},
			expected: simpleaudio.ErrInvalidFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, store := setupService(t)
			ctx := context.Background()

			song, err := svc.UploadSong(ctx, tt.req)
			assert.Nil(t, song)
			assert.ErrorIs(t, err, tt.expected)
			assert.True(t, simpleaudio.IsBadInput(err))

			var songErr *simpleaudio.SongError
			require.ErrorAs(t, err, &songErr)
			assert.Equal(t, "upload", songErr.Op)

			assert.Empty(t, store.Keys())
			songs, err := repo.ListSongs(ctx)
			require.NoError(t, err)
			assert.Empty(t, songs)
		})
	}
}

func TestUploadSong_AcceptsExtensionsCaseInsensitively(t *testing.T) {
	svc, _, _ := setupService(t)

	for _, name := range []string{"a.mp3", "b.MP3", "c.wav", "d.Ogg", "archive.tar.ogg"} {
		_, err := svc.UploadSong(context.Background(), simpleaudio.UploadSongRequest{
			Reader:   strings.NewReader("x"),
			FileName: name,
		})
		assert.NoError(t, err, name)
	}
}

func TestUploadSong_StoreFailure(t *testing.T) {
	cause := errors.New("bucket unreachable")
	blob := &failingBlobStore{err: cause}
	repo := memory.New()
	svc, err := simpleaudio.New(
		simpleaudio.WithRepository(repo),
		simpleaudio.WithBlobStore(blob),
	)
	require.NoError(t, err)

	_, err = svc.UploadSong(context.Background(), simpleaudio.UploadSongRequest{
		Reader:   strings.NewReader("x"),
		FileName: "track.mp3",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, simpleaudio.ErrUploadFailed)
	assert.ErrorIs(t, err, cause)
	assert.False(t, simpleaudio.IsBadInput(err))
	assert.Equal(t, 1, blob.calls)

	songs, err := repo.ListSongs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, songs)
}

func TestUploadSong_MetadataFailureLeavesBlob(t *testing.T) {
	cause := errors.New("db down")
	store := memorystorage.New("songs")
	svc, err := simpleaudio.New(
		simpleaudio.WithRepository(&failingRepository{err: cause}),
		simpleaudio.WithBlobStore(store),
	)
	require.NoError(t, err)

	_, err = svc.UploadSong(context.Background(), simpleaudio.UploadSongRequest{
		Reader:   strings.NewReader("x"),
		FileName: "track.mp3",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, simpleaudio.ErrMetadataFailed)
	assert.ErrorIs(t, err, cause)
	assert.False(t, simpleaudio.IsBadInput(err))

	var songErr *simpleaudio.SongError
	require.ErrorAs(t, err, &songErr)
	assert.Equal(t, "insert", songErr.Op)
	assert.NotEmpty(t, songErr.Key)

	assert.Equal(t, []string{songErr.Key}, store.Keys())
}

func TestListSongs(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	songs, err := svc.ListSongs(ctx)
	require.NoError(t, err)
	assert.NotNil(t, songs)
	assert.Empty(t, songs)

	for i := 0; i < 5; i++ {
		_, err := svc.UploadSong(ctx, simpleaudio.UploadSongRequest{
			Reader:   strings.NewReader(fmt.Sprintf("song %d", i)),
			FileName: fmt.Sprintf("track%d.ogg", i),
		})
		require.NoError(t, err)
	}

	songs, err = svc.ListSongs(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 5)
	ids := make(map[string]bool)
	for _, song := range songs {
		assert.NotEmpty(t, song.ID)
		ids[song.ID] = true
	}
	assert.Len(t, ids, 5)
}

func TestListSongs_Failure(t *testing.T) {
	cause := errors.New("db down")
	svc, err := simpleaudio.New(
		simpleaudio.WithRepository(&failingRepository{err: cause}),
		simpleaudio.WithBlobStore(memorystorage.New("songs")),
	)
	require.NoError(t, err)

	songs, err := svc.ListSongs(context.Background())
	assert.Nil(t, songs)
	assert.ErrorIs(t, err, simpleaudio.ErrListFailed)
	assert.ErrorIs(t, err, cause)
}

func TestListSongs_NilBecomesEmpty(t *testing.T) {
	svc, err := simpleaudio.New(
		simpleaudio.WithRepository(&nilListRepository{}),
		simpleaudio.WithBlobStore(memorystorage.New("songs")),
	)
	require.NoError(t, err)

	songs, err := svc.ListSongs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, songs)
	assert.Empty(t, songs)
}

func TestAllowedExtensions(t *testing.T) {
	svc, _, _ := setupService(t)
	assert.Equal(t, []string{"mp3", "ogg", "wav"}, svc.AllowedExtensions())

	custom, _, _ := setupService(t, simpleaudio.WithAllowedExtensions(".FLAC", " mp3 ", ""))
	assert.Equal(t, []string{"flac", "mp3"}, custom.AllowedExtensions())
}

func TestHooks(t *testing.T) {
	var uploaded []string
	var uploadedBytes int64
	var created []*simpleaudio.Song
	var failures []string

	hooks := &simpleaudio.Hooks{
		AfterUpload: []simpleaudio.AfterUploadHook{
			func(ctx context.Context, objectKey string, n int64) {
				uploaded = append(uploaded, objectKey)
				uploadedBytes += n
			},
		},
		AfterSongCreate: []simpleaudio.AfterSongCreateHook{
			func(ctx context.Context, song *simpleaudio.Song) {
				created = append(created, song)
			},
		},
		OnError: []simpleaudio.ErrorHook{
			func(ctx context.Context, operation string, err error) {
				failures = append(failures, operation)
			},
		},
	}

	svc, _, _ := setupService(t, simpleaudio.WithHooks(hooks))
	ctx := context.Background()

	song, err := svc.UploadSong(ctx, simpleaudio.UploadSongRequest{
		Reader:   strings.NewReader("12345"),
		FileName: "track.mp3",
	})
	require.NoError(t, err)

	_, err = svc.UploadSong(ctx, simpleaudio.UploadSongRequest{
		Reader:   strings.NewReader("x"),
		FileName: "image.png",
	})
	require.Error(t, err)

	require.Len(t, uploaded, 1)
	assert.Equal(t, song.Name, uploaded[0])
	assert.Equal(t, int64(5), uploadedBytes)
	require.Len(t, created, 1)
	assert.Equal(t, song.ID, created[0].ID)
	assert.Equal(t, []string{"upload"}, failures)
}
