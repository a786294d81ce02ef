package book

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"booksapi/internal/calendar"
)

const (
	sqliteInsertSQL = `INSERT INTO books (title, author, author_key, published_date) VALUES (?, ?, ?, ?)`

	// author_key is indexed by idx_books_author.
	sqliteAuthorWhere = "WHERE author_key = ?"
)

// authorKey folds an author for case-insensitive matching. SQLite's own
// lower() and NOCASE only fold ASCII letters.
func authorKey(author string) string {
	return strings.ToLower(author)
}

// SQLiteRepo stores books in an embedded SQLite database opened with the
// modernc.org/sqlite driver. Dates are kept as yyyy-MM-dd text, which sorts
// chronologically.
type SQLiteRepo struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLiteRepo(db *sql.DB, timeout time.Duration) *SQLiteRepo {
	return &SQLiteRepo{db: db, timeout: timeout}
}

func (r *SQLiteRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *SQLiteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepo) Insert(ctx context.Context, b *Book) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(timeoutCtx, sqliteInsertSQL, b.Title, b.Author, authorKey(b.Author), b.PublishedDate.String())
	if err != nil {
		return err
	}
	b.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteRepo) InsertBatch(ctx context.Context, books []*Book) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(timeoutCtx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(timeoutCtx, sqliteInsertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, b := range books {
		res, err := stmt.ExecContext(timeoutCtx, b.Title, b.Author, authorKey(b.Author), b.PublishedDate.String())
		if err != nil {
			return fmt.Errorf("insert item %d: %w", i, err)
		}
		if b.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepo) FindByAuthor(ctx context.Context, author string, p PageRequest) ([]Book, int64, error) {
	return r.list(ctx, sqliteAuthorWhere, []any{authorKey(author)}, p)
}

func (r *SQLiteRepo) FindAll(ctx context.Context, p PageRequest) ([]Book, int64, error) {
	return r.list(ctx, "", nil, p)
}

func (r *SQLiteRepo) list(ctx context.Context, where string, args []any, p PageRequest) ([]Book, int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(timeoutCtx, "SELECT COUNT(*) FROM books "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []Book{}, 0, nil
	}

	dataSQL := fmt.Sprintf(`
		SELECT id, title, author, published_date
		FROM books
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?`,
		where, p.OrderBy())

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, p.Size, p.Offset())
	rows, err := r.db.QueryContext(timeoutCtx, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var (
			b         Book
			published string
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &published); err != nil {
			return nil, 0, err
		}
		if b.PublishedDate, err = calendar.ParseISO(published); err != nil {
			return nil, 0, fmt.Errorf("book %d published_date %q: %w", b.ID, published, err)
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *SQLiteRepo) DeleteAll(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.ExecContext(timeoutCtx, "DELETE FROM books")
	return err
}
