package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"booksapi/internal/book"
	"booksapi/internal/calendar"
	"booksapi/internal/config"
	"booksapi/internal/platform/logger"

	"github.com/rs/zerolog/log"
)

type options struct {
	count     int
	batchSize int
	reset     bool
	seed      int64
}

func main() {
	var opts options
	flag.IntVar(&opts.count, "count", 10000, "Number of books to generate")
	flag.IntVar(&opts.batchSize, "batch", 500, "Books stored per bulk ingest")
	flag.BoolVar(&opts.reset, "reset", false, "Delete every stored book first")
	flag.Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	if err := run(context.Background(), cfg, opts); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

// run seeds the configured store and closes it before returning.
func run(ctx context.Context, cfg *config.Config, opts options) error {
	store, closeStore, err := book.OpenStore(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	if opts.reset {
		if err := store.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete books: %w", err)
		}
		log.Info().Msg("existing books deleted")
	}

	loc := cfg.App.Location
	now := func() time.Time { return time.Now().In(loc) }
	service := book.NewService(store, now)

	subs := generate(opts.count, rand.New(rand.NewSource(opts.seed)), now())
	log.Info().Int("count", len(subs)).Msg("generated books")

	stored, err := ingest(ctx, service, subs, opts.batchSize)
	if err != nil {
		return fmt.Errorf("ingest books (%d stored): %w", stored, err)
	}

	all, err := service.All(ctx, book.PageRequest{Size: 1})
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	log.Info().Int("stored", stored).Int64("total", all.TotalElements).Msg("seed complete")
	return nil
}

// ingest stores subs in batches of batchSize and returns how many were
// stored before any failure.
func ingest(ctx context.Context, service *book.Service, subs []book.Submission, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = len(subs)
	}
	stored := 0
	for start := 0; start < len(subs); start += batchSize {
		end := min(start+batchSize, len(subs))
		ids, err := service.IngestMany(ctx, subs[start:end])
		if err != nil {
			return stored, fmt.Errorf("batch starting at %d: %w", start, err)
		}
		stored += len(ids)
		log.Debug().Int("stored", stored).Int("total", len(subs)).Msg("batch stored")
	}
	return stored, nil
}

var (
	authors = []string{
		"Alice Walker", "Bob Dylan", "Chanida Srisuk", "Somchai Jaidee", "Haruki Murakami",
		"Ursula Le Guin", "Kukrit Pramoj", "Sidaoruang", "Toni Morrison", "Steve Krug",
	}
	words = []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
)

// generate builds n valid submissions dated between 1950 AD and today,
// written with Buddhist Era years.
func generate(n int, rng *rand.Rand, today time.Time) []book.Submission {
	first := time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	span := int(last.Sub(first).Hours()/24) + 1

	subs := make([]book.Submission, n)
	for i := range subs {
		published := calendar.FromTime(first.AddDate(0, 0, rng.Intn(span)))
		subs[i] = book.Submission{
			Title:         fmt.Sprintf("Book Title %d - %s", i+1, words[rng.Intn(len(words))]),
			Author:        authors[rng.Intn(len(authors))],
			PublishedDate: published.BuddhistEra(),
		}
	}
	return subs
}
