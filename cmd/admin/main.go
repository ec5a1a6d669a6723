package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/simple-audio/pkg/simpleaudio"
	"github.com/tendant/simple-audio/pkg/simpleaudio/config"
)

const usage = `Simple Audio Admin CLI

A lightweight admin tool for song metadata that only requires database access.

USAGE:
  admin <command> [options]

COMMANDS:
  list      List every song record
  count     Count song records

ENVIRONMENT VARIABLES:
  MONGO_URI         mongodb://, mongodb+srv:// or postgres:// connection string (required)
  MONGO_DATABASE    Mongo database name (default: saregama)
  MONGO_COLLECTION  Mongo collection or Postgres table (default: songs)

  Configuration can be loaded from a .env file in the current directory.
  Command line environment variables override .env file values.

EXAMPLES:
  # List all songs
  admin list

  # Output as JSON
  admin list --json
  admin count --json

OPTIONS:
  --json    Output as JSON
`

// DBConfig is the subset of the server environment the admin tool needs
type DBConfig struct {
	URI        string `env:"MONGO_URI" env-required:"true"`
	Database   string `env:"MONGO_DATABASE" env-default:"saregama"`
	Collection string `env:"MONGO_COLLECTION" env-default:"songs"`
}

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	// Check for help
	if command == "help" || command == "--help" || command == "-h" {
		fmt.Print(usage)
		os.Exit(0)
	}

	if command != "list" && command != "count" {
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}

	var dbConfig DBConfig
	if err := cleanenv.ReadEnv(&dbConfig); err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	ctx := context.Background()
	repo, closeRepo, err := createRepository(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to metadata store: %v", err)
	}
	defer closeRepo(ctx)

	useJSON := parseJSONFlag(os.Args[2:])

	songs, err := repo.ListSongs(ctx)
	if err != nil {
		log.Fatalf("Failed to list songs: %v", err)
	}

	switch command {
	case "list":
		err = printSongs(os.Stdout, songs, useJSON)
	case "count":
		err = printCount(os.Stdout, len(songs), useJSON)
	}
	if err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

func createRepository(ctx context.Context, dbConfig DBConfig) (simpleaudio.Repository, config.CloseFunc, error) {
	cfg, err := config.Load(
		config.WithDatabaseURL(dbConfig.URI),
		config.WithCollection(dbConfig.Database, dbConfig.Collection),
	)
	if err != nil {
		return nil, nil, err
	}
	return cfg.BuildRepository(ctx)
}

func parseJSONFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--json" {
			return true
		}
	}
	return false
}

func printSongs(out io.Writer, songs []*simpleaudio.Song, useJSON bool) error {
	if useJSON {
		data, err := json.MarshalIndent(songs, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	// Table output
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tFILENAME\tURL\n")
	for _, song := range songs {
		filename := song.OriginalFilename
		if filename == "" {
			filename = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", song.ID, truncate(song.Name, 30), truncate(filename, 30), song.URL)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "\nTotal: %d\n", len(songs))
	return err
}

func printCount(out io.Writer, count int, useJSON bool) error {
	if useJSON {
		data, err := json.Marshal(map[string]int{"count": count})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	_, err := fmt.Fprintf(out, "Total songs: %d\n", count)
	return err
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
