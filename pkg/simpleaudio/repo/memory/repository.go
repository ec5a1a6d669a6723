package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-audio/pkg/simpleaudio"
)

// Repository implements simpleaudio.Repository using in-memory storage.
// Songs are kept in insertion order.
type Repository struct {
	mu    sync.RWMutex
	songs []*simpleaudio.Song
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{}
}

func (r *Repository) InsertSong(ctx context.Context, song *simpleaudio.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	song.ID = uuid.NewString()

	// Create a copy to avoid external modifications
	songCopy := *song
	r.songs = append(r.songs, &songCopy)

	return nil
}

func (r *Repository) ListSongs(ctx context.Context) ([]*simpleaudio.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*simpleaudio.Song, 0, len(r.songs))
	for _, song := range r.songs {
		songCopy := *song
		result = append(result, &songCopy)
	}

	return result, nil
}
