package simpleaudio

import "io"

// UploadSongRequest contains parameters for uploading a song
type UploadSongRequest struct {
	// Reader is the audio stream. A nil Reader is treated as a missing file.
	Reader io.Reader
	// FileName is the file name declared by the client. Its extension decides
	// whether the upload is accepted.
	FileName string
	// Name is the display name. When empty the generated object key is used.
	Name string
	// MimeType is passed through to the blob store when set.
	MimeType string
}
