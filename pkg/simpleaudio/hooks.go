package simpleaudio

import "context"

// Hooks lets callers observe the upload lifecycle without modifying the
// service. Hooks run synchronously on the request goroutine and cannot fail
// the operation.
type Hooks struct {
	// AfterUpload runs once the blob has been written to the object store
	AfterUpload []AfterUploadHook

	// AfterSongCreate runs once the metadata record has been inserted
	AfterSongCreate []AfterSongCreateHook

	// OnError runs when an operation fails, including rejected input
	OnError []ErrorHook
}

// AfterUploadHook is called after song bytes are uploaded
type AfterUploadHook func(ctx context.Context, objectKey string, bytesWritten int64)

// AfterSongCreateHook is called after a song record is persisted
type AfterSongCreateHook func(ctx context.Context, song *Song)

// ErrorHook is called when an operation fails
type ErrorHook func(ctx context.Context, operation string, err error)

func (h *Hooks) executeAfterUpload(ctx context.Context, objectKey string, n int64) {
	if h == nil {
		return
	}
	for _, hook := range h.AfterUpload {
		hook(ctx, objectKey, n)
	}
}

func (h *Hooks) executeAfterSongCreate(ctx context.Context, song *Song) {
	if h == nil {
		return
	}
	for _, hook := range h.AfterSongCreate {
		hook(ctx, song)
	}
}

func (h *Hooks) executeOnError(ctx context.Context, operation string, err error) {
	if h == nil {
		return
	}
	for _, hook := range h.OnError {
		hook(ctx, operation, err)
	}
}
