package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

func TestFromBuddhistEra(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr error
	}{
		{name: "spring in action", in: "2568-09-14", want: Date{2025, time.September, 14}},
		{name: "first accepted year", in: "1544-01-01", want: Date{1001, time.January, 1}},
		{name: "current year", in: "2569-12-31", want: Date{2026, time.December, 31}},
		{name: "leap day in AD leap year", in: "2567-02-29", want: Date{2024, time.February, 29}},
		{name: "year 1000 AD", in: "1543-12-31", wantErr: ErrYearTooEarly},
		{name: "year 999 AD", in: "1542-01-01", wantErr: ErrYearTooEarly},
		{name: "next year", in: "2570-01-01", wantErr: ErrYearInFuture},
		{name: "february 30", in: "2568-02-30", wantErr: ErrNotCalendarDate},
		{name: "leap day in AD common year", in: "2568-02-29", wantErr: ErrNotCalendarDate},
		{name: "month 13", in: "2568-13-01", wantErr: ErrNotCalendarDate},
		{name: "day zero", in: "2568-01-00", wantErr: ErrNotCalendarDate},
		{name: "two digit year", in: "25-09-14", wantErr: ErrMalformed},
		{name: "slashes", in: "2568/09/14", wantErr: ErrMalformed},
		{name: "empty", in: "", wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromBuddhistEra(tt.in, today)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromBuddhistEra_ShiftsYearKeepsMonthDay(t *testing.T) {
	for beYear := 1544; beYear <= today.Year()+BuddhistEraOffset; beYear += 37 {
		in := Date{Year: beYear, Month: time.June, Day: 15}.String()
		got, err := FromBuddhistEra(in, today)
		require.NoError(t, err, in)
		assert.Equal(t, beYear-BuddhistEraOffset, got.Year)
		assert.Equal(t, time.June, got.Month)
		assert.Equal(t, 15, got.Day)
	}
}

func TestFromBuddhistEra_FutureBoundaryFollowsToday(t *testing.T) {
	_, err := FromBuddhistEra("2570-01-01", today)
	assert.ErrorIs(t, err, ErrYearInFuture)

	nextYear := today.AddDate(1, 0, 0)
	got, err := FromBuddhistEra("2570-01-01", nextYear)
	require.NoError(t, err)
	assert.Equal(t, 2027, got.Year)
}

func TestParseISO(t *testing.T) {
	d, err := ParseISO("0999-03-01")
	require.NoError(t, err)
	assert.Equal(t, Date{999, time.March, 1}, d)

	_, err = ParseISO("2023-02-29")
	assert.ErrorIs(t, err, ErrNotCalendarDate)
}

func TestDate_Formatting(t *testing.T) {
	d := Date{2025, time.September, 14}

	assert.Equal(t, "2025-09-14", d.String())
	assert.Equal(t, "2568-09-14", d.BuddhistEra())
	assert.Equal(t, time.Date(2025, time.September, 14, 0, 0, 0, 0, time.UTC), d.Time())
	assert.Equal(t, d, FromTime(d.Time()))
	assert.False(t, d.IsZero())
	assert.True(t, Date{}.IsZero())
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		PublishedDate Date `json:"publishedDate"`
	}{Date{2025, time.September, 14}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"publishedDate":"2025-09-14"}`, string(b))

	var out Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-02-29"`), &out))
	assert.Equal(t, Date{2024, time.February, 29}, out)

	assert.Error(t, json.Unmarshal([]byte(`"2024-02-30"`), &out))
	assert.Error(t, json.Unmarshal([]byte(`20240229`), &out))
}
