// Package metrics provides Prometheus metrics for the simple-audio server.
package metrics

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/simple-audio/pkg/simpleaudio"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simpleaudio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "simpleaudio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Upload metrics
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simpleaudio_uploads_total",
			Help: "Total number of song uploads by outcome",
		},
		[]string{"status"},
	)

	uploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simpleaudio_upload_bytes_total",
			Help: "Total bytes written to the object store",
		},
	)

	// Store metrics
	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "simpleaudio_store_operation_duration_seconds",
			Help:    "Object and metadata store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "operation"},
	)

	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simpleaudio_store_operations_total",
			Help: "Total object and metadata store operations",
		},
		[]string{"store", "operation", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordUpload records the outcome of an upload: success, rejected or error.
func RecordUpload(status string) {
	uploadsTotal.WithLabelValues(status).Inc()
}

// RecordUploadBytes adds to the uploaded byte counter.
func RecordUploadBytes(n int64) {
	uploadBytesTotal.Add(float64(n))
}

// RecordStoreOperation records a store call.
func RecordStoreOperation(store, operation string, duration time.Duration, err error) {
	storeOperationDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	storeOperationsTotal.WithLabelValues(store, operation, status).Inc()
}

// Hooks returns service hooks that feed the upload metrics.
func Hooks() *simpleaudio.Hooks {
	return &simpleaudio.Hooks{
		AfterUpload: []simpleaudio.AfterUploadHook{
			func(ctx context.Context, objectKey string, n int64) {
				RecordUploadBytes(n)
			},
		},
		AfterSongCreate: []simpleaudio.AfterSongCreateHook{
			func(ctx context.Context, song *simpleaudio.Song) {
				RecordUpload("success")
			},
		},
		OnError: []simpleaudio.ErrorHook{
			func(ctx context.Context, operation string, err error) {
				if operation == "list" {
					return
				}
				if simpleaudio.IsBadInput(err) {
					RecordUpload("rejected")
					return
				}
				RecordUpload("error")
			},
		},
	}
}

// InstrumentBlobStore times every upload made through store.
func InstrumentBlobStore(name string, store simpleaudio.BlobStore) simpleaudio.BlobStore {
	return &instrumentedBlobStore{name: name, next: store}
}

type instrumentedBlobStore struct {
	name string
	next simpleaudio.BlobStore
}

func (s *instrumentedBlobStore) Upload(ctx context.Context, objectKey string, reader io.Reader, params simpleaudio.UploadParams) error {
	start := time.Now()
	err := s.next.Upload(ctx, objectKey, reader, params)
	RecordStoreOperation(s.name, "upload", time.Since(start), err)
	return err
}

func (s *instrumentedBlobStore) ObjectURL(objectKey string) string {
	return s.next.ObjectURL(objectKey)
}

// InstrumentRepository times every call made through repo.
func InstrumentRepository(name string, repo simpleaudio.Repository) simpleaudio.Repository {
	return &instrumentedRepository{name: name, next: repo}
}

type instrumentedRepository struct {
	name string
	next simpleaudio.Repository
}

func (r *instrumentedRepository) InsertSong(ctx context.Context, song *simpleaudio.Song) error {
	start := time.Now()
	err := r.next.InsertSong(ctx, song)
	RecordStoreOperation(r.name, "insert", time.Since(start), err)
	return err
}

func (r *instrumentedRepository) ListSongs(ctx context.Context) ([]*simpleaudio.Song, error) {
	start := time.Now()
	songs, err := r.next.ListSongs(ctx)
	RecordStoreOperation(r.name, "list", time.Since(start), err)
	return songs, err
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns HTTP middleware that records request metrics. Paths are
// labelled with the matched chi route pattern to bound cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		RecordHTTPRequest(r.Method, routePattern(r), rw.statusCode, time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
