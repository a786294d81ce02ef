package book

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"booksapi/internal/calendar"
	"booksapi/internal/platform/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteTestDB(t *testing.T) (*SQLiteRepo, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, database.DriverSQLite, db))

	return NewSQLiteRepo(db, 3*time.Second), db
}

func day(y int, m time.Month, d int) calendar.Date {
	return calendar.Date{Year: y, Month: m, Day: d}
}

func TestSQLiteRepo_InsertAndFind(t *testing.T) {
	repo, _ := setupSQLiteTestDB(t)
	ctx := context.Background()

	b := &Book{Title: "Spring in Action", Author: "Steve", PublishedDate: day(2025, time.September, 14)}
	require.NoError(t, repo.Insert(ctx, b))
	assert.NotZero(t, b.ID)

	got, total, err := repo.FindByAuthor(ctx, "Steve", mustDefaults(t, PageRequest{}, sortByPublishedDate))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, *b, got[0])
}

func TestSQLiteRepo_FindByAuthor_IgnoresCase(t *testing.T) {
	repo, _ := setupSQLiteTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &Book{Title: "A", Author: "Alice", PublishedDate: day(2000, time.January, 1)}))
	require.NoError(t, repo.Insert(ctx, &Book{Title: "B", Author: "ALICE", PublishedDate: day(2001, time.January, 1)}))
	require.NoError(t, repo.Insert(ctx, &Book{Title: "C", Author: "Alicia", PublishedDate: day(2002, time.January, 1)}))

	got, total, err := repo.FindByAuthor(ctx, "alice", mustDefaults(t, PageRequest{}, sortByPublishedDate))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"A", "B"}, titles(got))
}

func TestSQLiteRepo_FindByAuthor_FoldsNonASCII(t *testing.T) {
	repo, _ := setupSQLiteTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertBatch(ctx, []*Book{
		{Title: "Germinal", Author: "Émile Zola", PublishedDate: day(1885, time.March, 1)},
		{Title: "Nana", Author: "ÉMILE ZOLA", PublishedDate: day(1880, time.March, 1)},
		{Title: "Other", Author: "Emile Zola", PublishedDate: day(1890, time.March, 1)},
	}))

	got, total, err := repo.FindByAuthor(ctx, "émile zola", mustDefaults(t, PageRequest{}, sortByPublishedDate))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"Nana", "Germinal"}, titles(got))
	assert.Equal(t, "Émile Zola", got[1].Author)
}

func TestSQLiteRepo_MostRecentFirst(t *testing.T) {
	repo, _ := setupSQLiteTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertBatch(ctx, []*Book{
		{Title: "Old", Author: "Alice", PublishedDate: day(2010, time.March, 1)},
		{Title: "New", Author: "Alice", PublishedDate: day(2020, time.March, 1)},
		{Title: "Other", Author: "Bob", PublishedDate: day(2021, time.March, 1)},
	}))

	p := mustDefaults(t, PageRequest{Page: 0, Size: 1, Sort: []SortOrder{{"publishedDate", Desc}}}, sortByPublishedDate)
	got, total, err := repo.FindByAuthor(ctx, "Alice", p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"New"}, titles(got))
}

func TestSQLiteRepo_PagesDoNotOverlap(t *testing.T) {
	repo, _ := setupSQLiteTestDB(t)
	ctx := context.Background()

	// Every book shares one date so only the id tiebreaker orders them.
	books := make([]*Book, 7)
	for i := range books {
		books[i] = &Book{Title: fmt.Sprintf("Vol %d", i), Author: "Alice", PublishedDate: day(2000, time.June, 1)}
	}
	require.NoError(t, repo.InsertBatch(ctx, books))

	seen := map[int64]bool{}
	for page := 0; page < 3; page++ {
		p := mustDefaults(t, PageRequest{Page: page, Size: 3}, sortByPublishedDate)
		got, total, err := repo.FindByAuthor(ctx, "Alice", p)
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		for _, b := range got {
			assert.False(t, seen[b.ID], "book %d returned twice", b.ID)
			seen[b.ID] = true
		}
	}
	assert.Len(t, seen, 7)
}

func TestSQLiteRepo_FindAll(t *testing.T) {
	repo, _ := setupSQLiteTestDB(t)
	ctx := context.Background()

	empty, total, err := repo.FindAll(ctx, mustDefaults(t, PageRequest{}, sortByID))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, empty)

	require.NoError(t, repo.InsertBatch(ctx, []*Book{
		{Title: "b", Author: "Bob", PublishedDate: day(2001, time.January, 1)},
		{Title: "a", Author: "Alice", PublishedDate: day(2002, time.January, 1)},
	}))

	got, total, err := repo.FindAll(ctx, mustDefaults(t, PageRequest{Sort: []SortOrder{{"title", Asc}}}, sortByID))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"a", "b"}, titles(got))
}

func TestSQLiteRepo_FindAll_HugePageIsEmpty(t *testing.T) {
	repo, _ := setupSQLiteTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertBatch(ctx, []*Book{
		{Title: "a", Author: "Alice", PublishedDate: day(2001, time.January, 1)},
		{Title: "b", Author: "Bob", PublishedDate: day(2002, time.January, 1)},
		{Title: "c", Author: "Carol", PublishedDate: day(2003, time.January, 1)},
	}))

	got, total, err := repo.FindAll(ctx, mustDefaults(t, PageRequest{Page: 92233720368547759, Size: 100}, sortByID))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, got)
}

func TestSQLiteRepo_InsertBatch_RollsBack(t *testing.T) {
	repo, _ := setupSQLiteTestDB(t)
	ctx := context.Background()

	err := repo.InsertBatch(ctx, []*Book{
		{Title: "fine", Author: "Alice", PublishedDate: day(2001, time.January, 1)},
		{Title: strings.Repeat("x", 300), Author: "Alice", PublishedDate: day(2001, time.January, 1)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert item 1")

	_, total, err := repo.FindAll(ctx, mustDefaults(t, PageRequest{}, sortByID))
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSQLiteRepo_DeleteAll(t *testing.T) {
	repo, _ := setupSQLiteTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &Book{Title: "A", Author: "Alice", PublishedDate: day(2001, time.January, 1)}))
	require.NoError(t, repo.DeleteAll(ctx))

	_, total, err := repo.FindAll(ctx, mustDefaults(t, PageRequest{}, sortByID))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, repo.Ping(ctx))
}

func TestSQLiteRepo_AuthorLookupUsesIndex(t *testing.T) {
	_, db := setupSQLiteTestDB(t)
	ctx := context.Background()

	var indexSQL string
	err := db.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'index' AND name = 'idx_books_author'`).Scan(&indexSQL)
	require.NoError(t, err)
	assert.Contains(t, indexSQL, "author")

	p := mustDefaults(t, PageRequest{}, sortByPublishedDate)
	rows, err := db.QueryContext(ctx,
		"EXPLAIN QUERY PLAN SELECT id FROM books "+sqliteAuthorWhere+" ORDER BY "+p.OrderBy(), "alice")
	require.NoError(t, err)
	defer rows.Close()

	var plan []string
	for rows.Next() {
		var (
			id, parent, notUsed int
			detail              string
		)
		require.NoError(t, rows.Scan(&id, &parent, &notUsed, &detail))
		plan = append(plan, detail)
	}
	require.NoError(t, rows.Err())
	assert.Contains(t, strings.Join(plan, "\n"), "idx_books_author")
}

func mustDefaults(t *testing.T, p PageRequest, def SortOrder) PageRequest {
	t.Helper()
	p, err := p.withDefaults(def)
	require.NoError(t, err)
	return p
}

func titles(books []Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}
