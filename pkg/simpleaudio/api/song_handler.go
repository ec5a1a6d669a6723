package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/tendant/simple-audio/pkg/simpleaudio"
)

// DefaultMaxUploadMemory bounds the part of a multipart body held in memory;
// the remainder is spilled to temporary files.
const DefaultMaxUploadMemory = 64 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// UploadResponse is the body of a successful upload
type UploadResponse struct {
	Message string `json:"message"`
	SongID  string `json:"song_id"`
}

// SongHandler handles HTTP requests for songs using pkg/simpleaudio
type SongHandler struct {
	service         simpleaudio.Service
	maxUploadMemory int64
}

// NewSongHandler creates a new song handler. maxUploadMemory <= 0 selects
// DefaultMaxUploadMemory.
func NewSongHandler(service simpleaudio.Service, maxUploadMemory int64) *SongHandler {
	if maxUploadMemory <= 0 {
		maxUploadMemory = DefaultMaxUploadMemory
	}
	return &SongHandler{
		service:         service,
		maxUploadMemory: maxUploadMemory,
	}
}

// Routes returns the routes for songs. Cross-origin requests are allowed
// from any origin.
func (h *SongHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/", h.HealthCheck)
	r.Get("/songs", h.ListSongs)
	r.Post("/upload", h.UploadSong)

	return r
}

// HealthCheck reports liveness without touching any dependency
func (h *SongHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "healthy"})
}

// ListSongs returns every song record
func (h *SongHandler) ListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.service.ListSongs(r.Context())
	if err != nil {
		slog.Error("Failed to fetch songs", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "Failed to fetch songs: " + err.Error()})
		return
	}

	render.JSON(w, r, songs)
}

// UploadSong stores the multipart "file" part and records its metadata
func (h *SongHandler) UploadSong(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadMemory); err != nil {
		slog.Info("Upload without multipart file", "err", err)
		h.renderUploadError(w, r, simpleaudio.ErrMissingFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderUploadError(w, r, simpleaudio.ErrMissingFile)
		return
	}
	defer file.Close()

	song, err := h.service.UploadSong(r.Context(), simpleaudio.UploadSongRequest{
		Reader:   file,
		FileName: header.Filename,
		Name:     r.PostFormValue("name"),
		MimeType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		h.renderUploadError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, UploadResponse{
		Message: "Song uploaded successfully!",
		SongID:  song.ID,
	})
}

func (h *SongHandler) renderUploadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, simpleaudio.ErrMissingFile):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "No file part"})
	case errors.Is(err, simpleaudio.ErrInvalidFileType):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid file type"})
	default:
		slog.Error("Upload failed", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "Upload failed: " + uploadFailureReason(err)})
	}
}

// uploadFailureReason strips the SongError envelope and the sentinel prefix
// so clients see the store's own message.
func uploadFailureReason(err error) string {
	var songErr *simpleaudio.SongError
	if errors.As(err, &songErr) && songErr.Err != nil {
		err = songErr.Err
	}
	msg := err.Error()
	for _, sentinel := range []error{simpleaudio.ErrUploadFailed, simpleaudio.ErrMetadataFailed} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	return msg
}
