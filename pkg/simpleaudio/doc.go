// Package simpleaudio stores uploaded audio files in an object store and keeps
// a metadata record for each of them in a document store.
//
// The library is organised around two pluggable backends:
//
//   - BlobStore holds the raw audio bytes (S3, filesystem, memory).
//   - Repository holds the Song records (MongoDB, PostgreSQL, memory).
//
// A Service ties them together. UploadSong validates the file name, generates
// an object key, uploads the bytes and then inserts the metadata record.
// There is no rollback: when the insert fails after a successful upload the
// blob is left in the bucket.
//
// Basic usage:
//
//	svc, err := simpleaudio.New(
//		simpleaudio.WithRepository(memory.New()),
//		simpleaudio.WithBlobStore(memorystorage.New("songs")),
//	)
//	song, err := svc.UploadSong(ctx, simpleaudio.UploadSongRequest{
//		Reader:   file,
//		FileName: "track.mp3",
//		Name:     "Song A",
//	})
package simpleaudio
