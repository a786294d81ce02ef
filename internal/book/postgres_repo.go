package book

import (
	"context"
	"fmt"
	"time"

	"booksapi/internal/calendar"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgInsertSQL = `
	INSERT INTO books (title, author, published_date)
	VALUES ($1, $2, $3)
	RETURNING id`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresRepo) Insert(ctx context.Context, b *Book) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, pgInsertSQL, b.Title, b.Author, b.PublishedDate.Time()).Scan(&b.ID)
}

func (r *PostgresRepo) InsertBatch(ctx context.Context, books []*Book) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	batch := &pgx.Batch{}
	for _, b := range books {
		batch.Queue(pgInsertSQL, b.Title, b.Author, b.PublishedDate.Time())
	}

	results := tx.SendBatch(timeoutCtx, batch)
	for i, b := range books {
		if err := results.QueryRow().Scan(&b.ID); err != nil {
			results.Close()
			return fmt.Errorf("insert item %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return err
	}
	return tx.Commit(timeoutCtx)
}

// FindByAuthor compares lower(author), which idx_books_author indexes.
func (r *PostgresRepo) FindByAuthor(ctx context.Context, author string, p PageRequest) ([]Book, int64, error) {
	return r.list(ctx, "WHERE lower(author) = lower($1::text)", []any{author}, p)
}

func (r *PostgresRepo) FindAll(ctx context.Context, p PageRequest) ([]Book, int64, error) {
	return r.list(ctx, "", nil, p)
}

func (r *PostgresRepo) list(ctx context.Context, where string, args []any, p PageRequest) ([]Book, int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	countSQL := "SELECT COUNT(*) FROM books " + where
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []Book{}, 0, nil
	}

	argn := len(args) + 1
	dataSQL := fmt.Sprintf(`
		SELECT id, title, author, published_date
		FROM books
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		where, p.OrderBy(), argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, p.Size, p.Offset())
	rows, err := r.db.Query(timeoutCtx, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}

	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Book, error) {
		var (
			b         Book
			published time.Time
		)
		if err := row.Scan(&b.ID, &b.Title, &b.Author, &published); err != nil {
			return Book{}, err
		}
		b.PublishedDate = calendar.FromTime(published)
		return b, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *PostgresRepo) DeleteAll(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, "DELETE FROM books")
	return err
}
