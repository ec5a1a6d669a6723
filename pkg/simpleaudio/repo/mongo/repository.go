// Package mongo stores song metadata in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tendant/simple-audio/pkg/simpleaudio"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default database and collection names
const (
	DefaultDatabase   = "saregama"
	DefaultCollection = "songs"
)

// songDocument is the stored shape of a song
type songDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	URL              string             `bson:"url"`
	OriginalFilename string             `bson:"original_filename,omitempty"`
}

// Repository implements simpleaudio.Repository on a MongoDB collection
type Repository struct {
	collection *mongo.Collection
}

// New creates a repository on an existing collection
func New(collection *mongo.Collection) *Repository {
	return &Repository{collection: collection}
}

// Connect dials uri, verifies the connection and returns the client together
// with a repository on database.collection. The caller owns the client and
// must Disconnect it.
func Connect(ctx context.Context, uri, database, collection string) (*mongo.Client, *Repository, error) {
	if uri == "" {
		return nil, nil, errors.New("mongo uri is required")
	}
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return client, New(client.Database(database).Collection(collection)), nil
}

func (r *Repository) InsertSong(ctx context.Context, song *simpleaudio.Song) error {
	doc := songDocument{
		Name:             song.Name,
		URL:              song.URL,
		OriginalFilename: song.OriginalFilename,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert song: %w", err)
	}

	song.ID = idString(result.InsertedID)
	return nil
}

func (r *Repository) ListSongs(ctx context.Context) ([]*simpleaudio.Song, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find songs: %w", err)
	}
	defer cursor.Close(ctx)

	songs := []*simpleaudio.Song{}
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode song: %w", err)
		}
		songs = append(songs, songFromDocument(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}

	return songs, nil
}

// songFromDocument reads a loosely typed document so that records written by
// other tools, with non-ObjectID ids or missing fields, still list.
func songFromDocument(raw bson.M) *simpleaudio.Song {
	song := &simpleaudio.Song{ID: idString(raw["_id"])}
	song.Name, _ = raw["name"].(string)
	song.URL, _ = raw["url"].(string)
	song.OriginalFilename, _ = raw["original_filename"].(string)
	return song
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
