package book

import (
	"strings"
	"testing"
	"time"

	"booksapi/internal/calendar"
	"booksapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	today := testutil.FixedNow

	tests := []struct {
		name       string
		sub        Submission
		wantFields []string
		wantMsg    string
	}{
		{
			name: "valid",
			sub:  Submission{Title: "Go", Author: "Alice", PublishedDate: "2560-05-01"},
		},
		{
			name:       "blank title",
			sub:        Submission{Title: " \t", Author: "Alice", PublishedDate: "2560-05-01"},
			wantFields: []string{"title"},
			wantMsg:    "title must not be empty",
		},
		{
			name:       "missing author",
			sub:        Submission{Title: "Go", PublishedDate: "2560-05-01"},
			wantFields: []string{"author"},
			wantMsg:    "author must not be empty",
		},
		{
			name:       "title too long",
			sub:        Submission{Title: strings.Repeat("x", 256), Author: "Alice", PublishedDate: "2560-05-01"},
			wantFields: []string{"title"},
			wantMsg:    "title must be at most 255 characters",
		},
		{
			name:       "missing date",
			sub:        Submission{Title: "Go", Author: "Alice"},
			wantFields: []string{"publishedDate"},
			wantMsg:    "publishedDate must not be empty",
		},
		{
			name:       "wrong date layout",
			sub:        Submission{Title: "Go", Author: "Alice", PublishedDate: "01-05-2560"},
			wantFields: []string{"publishedDate"},
			wantMsg:    "publishedDate must match yyyy-MM-dd",
		},
		{
			name:       "year not after 1000 AD",
			sub:        Submission{Title: "Go", Author: "Alice", PublishedDate: "1543-12-31"},
			wantFields: []string{"publishedDate"},
			wantMsg:    "publishedDate year must be after 1000 AD",
		},
		{
			name:       "next year",
			sub:        Submission{Title: "Go", Author: "Alice", PublishedDate: "2570-01-01"},
			wantFields: []string{"publishedDate"},
			wantMsg:    "publishedDate must not be in the future",
		},
		{
			name:       "no such day",
			sub:        Submission{Title: "Go", Author: "Alice", PublishedDate: "2566-02-29"},
			wantFields: []string{"publishedDate"},
			wantMsg:    "publishedDate is not a valid calendar date",
		},
		{
			name:       "every field at once",
			sub:        Submission{Title: "", Author: "", PublishedDate: "nope"},
			wantFields: []string{"title", "author", "publishedDate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Validate(tt.sub, today)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.sub.Title, v.Title)
				return
			}

			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			fields := make([]string, len(errs))
			for i, fe := range errs {
				fields[i] = fe.Field
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, errs[0].Message)
			}
		})
	}
}

func TestValidate_ConvertsDate(t *testing.T) {
	v, err := Validate(Submission{Title: "Go", Author: "Alice", PublishedDate: "2567-02-29"}, testutil.FixedNow)
	require.NoError(t, err)
	assert.Equal(t, calendar.Date{Year: 2024, Month: time.February, Day: 29}, v.PublishedDate)

	b := v.Book()
	assert.Zero(t, b.ID)
	assert.Equal(t, "Alice", b.Author)
	assert.Equal(t, "2024-02-29", b.PublishedDate.String())
}

func TestValidate_AuthorKeptAsSubmitted(t *testing.T) {
	v, err := Validate(Submission{Title: "Go", Author: "  Alice  ", PublishedDate: "2560-05-01"}, testutil.FixedNow)
	require.NoError(t, err)
	assert.Equal(t, "  Alice  ", v.Author)
}

func TestValidate_MultibyteTitleLength(t *testing.T) {
	title := strings.Repeat("ก", 255)
	_, err := Validate(Submission{Title: title, Author: "Alice", PublishedDate: "2560-05-01"}, testutil.FixedNow)
	assert.NoError(t, err)
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "title", Message: "title must not be empty"},
		{Field: "author", Message: "author must not be empty"},
	}
	assert.Equal(t, "validation failed: title must not be empty; author must not be empty", errs.Error())
}
