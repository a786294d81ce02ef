package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Clock returns the current time. The calendar year of its result bounds
// accepted publication dates.
type Clock func() time.Time

// Service provides book ingestion and retrieval.
type Service struct {
	repo Repository
	now  Clock
}

// NewService creates a new book service. A nil clock means time.Now.
func NewService(repo Repository, now Clock) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

// IngestOne validates a submission and stores it, returning the new ID.
// Nothing is stored when validation fails.
func (s *Service) IngestOne(ctx context.Context, sub Submission) (int64, error) {
	v, err := Validate(sub, s.now())
	if err != nil {
		return 0, err
	}

	b := v.Book()
	if err := s.repo.Insert(ctx, b); err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	return b.ID, nil
}

// IngestMany validates every submission before storing any of them, then
// stores them all in one batch. IDs are returned in input order. Field names
// in the returned ValidationErrors are prefixed with the item index.
func (s *Service) IngestMany(ctx context.Context, subs []Submission) ([]int64, error) {
	today := s.now()

	var errs ValidationErrors
	books := make([]*Book, 0, len(subs))
	for i, sub := range subs {
		v, err := Validate(sub, today)
		if err != nil {
			var itemErrs ValidationErrors
			if !errors.As(err, &itemErrs) {
				return nil, err
			}
			for _, fe := range itemErrs {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("[%d].%s", i, fe.Field),
					Message: fe.Message,
				})
			}
			continue
		}
		books = append(books, v.Book())
	}
	if len(errs) > 0 {
		return nil, errs
	}

	ids := make([]int64, 0, len(books))
	if len(books) == 0 {
		return ids, nil
	}
	if err := s.repo.InsertBatch(ctx, books); err != nil {
		return nil, fmt.Errorf("insert %d books: %w", len(books), err)
	}
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	log.Debug().Int("count", len(ids)).Msg("bulk ingest stored")
	return ids, nil
}

// ByAuthor returns one page of the author's books, matched ignoring case.
// Without an explicit sort, books are ordered by publication date.
func (s *Service) ByAuthor(ctx context.Context, author string, p PageRequest) (Page[Book], error) {
	if strings.TrimSpace(author) == "" {
		return Page[Book]{}, &MissingParameterError{Name: "author"}
	}
	p, err := p.withDefaults(sortByPublishedDate)
	if err != nil {
		return Page[Book]{}, err
	}

	books, total, err := s.repo.FindByAuthor(ctx, author, p)
	if err != nil {
		return Page[Book]{}, fmt.Errorf("find books by author: %w", err)
	}
	return NewPage(books, total, p), nil
}

// All returns one page of every stored book, by default ordered by ID.
func (s *Service) All(ctx context.Context, p PageRequest) (Page[Book], error) {
	p, err := p.withDefaults(sortByID)
	if err != nil {
		return Page[Book]{}, err
	}

	books, total, err := s.repo.FindAll(ctx, p)
	if err != nil {
		return Page[Book]{}, fmt.Errorf("find all books: %w", err)
	}
	return NewPage(books, total, p), nil
}
