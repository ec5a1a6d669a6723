// Package postgres stores song metadata as JSONB documents in PostgreSQL.
// It serves deployments whose connection string is postgres:// instead of
// mongodb://; records keep the same document shape.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-audio/pkg/simpleaudio"
)

// DefaultTable is used when no collection name is configured
const DefaultTable = "songs"

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simpleaudio.Repository using PostgreSQL
type Repository struct {
	db    DBTX
	table string
}

// New creates a new PostgreSQL repository on table
func New(db DBTX, table string) *Repository {
	if table == "" {
		table = DefaultTable
	}
	return &Repository{db: db, table: pgx.Identifier{table}.Sanitize()}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool, table string) *Repository {
	return New(pool, table)
}

// songDocument is the JSONB shape stored in the doc column
type songDocument struct {
	Name             string `json:"name"`
	URL              string `json:"url"`
	OriginalFilename string `json:"original_filename,omitempty"`
}

// EnsureSchema creates the songs table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq BIGSERIAL PRIMARY KEY,
			doc JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, r.table)

	if _, err := r.db.Exec(ctx, query); err != nil {
		return r.handlePostgresError("ensure schema", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) InsertSong(ctx context.Context, song *simpleaudio.Song) error {
	doc, err := json.Marshal(songDocument{
		Name:             song.Name,
		URL:              song.URL,
		OriginalFilename: song.OriginalFilename,
	})
	if err != nil {
		return fmt.Errorf("encode song: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (doc) VALUES ($1) RETURNING seq`, r.table)

	var seq int64
	if err := r.db.QueryRow(ctx, query, doc).Scan(&seq); err != nil {
		return r.handlePostgresError("insert song", err)
	}

	song.ID = strconv.FormatInt(seq, 10)
	return nil
}

func (r *Repository) ListSongs(ctx context.Context) ([]*simpleaudio.Song, error) {
	query := fmt.Sprintf(`SELECT seq, doc FROM %s ORDER BY seq`, r.table)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list songs", err)
	}
	defer rows.Close()

	songs := []*simpleaudio.Song{}
	for rows.Next() {
		var seq int64
		var raw []byte
		if err := rows.Scan(&seq, &raw); err != nil {
			return nil, r.handlePostgresError("scan song", err)
		}

		var doc songDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode song %d: %w", seq, err)
		}

		songs = append(songs, &simpleaudio.Song{
			ID:               strconv.FormatInt(seq, 10),
			Name:             doc.Name,
			URL:              doc.URL,
			OriginalFilename: doc.OriginalFilename,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list songs", err)
	}

	return songs, nil
}
