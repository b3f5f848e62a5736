package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/timetable-generator/internal/calendar"
	"github.com/username/timetable-generator/internal/timetable"
	"github.com/username/timetable-generator/pkg/dateutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveWeek(t *testing.T) {
	dates, err := ResolveWeek("35-2023")
	require.NoError(t, err)

	want := DateRange{
		day(2023, 8, 28), day(2023, 8, 29), day(2023, 8, 30), day(2023, 8, 31), day(2023, 9, 1),
	}
	assert.Equal(t, want, dates)
}

func TestResolveWeekProperties(t *testing.T) {
	for year := 2019; year <= 2027; year++ {
		for week := 1; week <= dateutil.WeeksInYear(year); week++ {
			token := FormatWeekToken(year, week)
			dates, err := ResolveWeek(token)
			require.NoError(t, err, token)
			require.Len(t, dates, 5, token)

			assert.Equal(t, time.Monday, dates[0].Weekday(), token)
			for i := 1; i < len(dates); i++ {
				assert.Equal(t, dates[i-1].AddDate(0, 0, 1), dates[i], "%s: day %d not consecutive", token, i)
			}
			for _, d := range dates {
				y, w := d.ISOWeek()
				assert.Equal(t, year, y, token)
				assert.Equal(t, week, w, token)
			}
		}
	}
}

func TestResolveWeekErrors(t *testing.T) {
	tests := []struct {
		token string
		want  error
	}{
		{"", ErrInvalidWeekToken},
		{"35", ErrInvalidWeekToken},
		{"35-2023-1", ErrInvalidWeekToken},
		{"ab-2023", ErrInvalidWeekToken},
		{"35-year", ErrInvalidWeekToken},
		{"0-2023", ErrInvalidWeekNumber},
		{"53-2023", ErrInvalidWeekNumber},
		{"54-2020", ErrInvalidWeekNumber},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			_, err := ResolveWeek(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	dates, err := ResolveWeek("53-2020")
	require.NoError(t, err)
	assert.Equal(t, day(2020, 12, 28), dates[0])
}

func TestWeekString(t *testing.T) {
	w, err := ParseWeekToken("01-2024")
	require.NoError(t, err)
	assert.Equal(t, Week{Year: 2024, Number: 1}, w)
	assert.Equal(t, "1-2024", w.String())
}

func filledGrid(p timetable.Period) timetable.Grid {
	g := make(timetable.Grid, timetable.PeriodsPerDay)
	for i := range g {
		g[i] = make([]timetable.Period, timetable.DaysPerWeek)
		for j := range g[i] {
			g[i][j] = p
		}
	}
	return g
}

func week35(t *testing.T) DateRange {
	t.Helper()
	dates, err := ResolveWeek("35-2023")
	require.NoError(t, err)
	return dates
}

func TestMergeWithoutHolidays(t *testing.T) {
	grid := filledGrid(timetable.Single("m"))
	for d := 0; d < timetable.DaysPerWeek; d++ {
		grid[d][d] = timetable.Double("n", "rom")
	}

	days, err := Merge(grid, week35(t), calendar.HolidayMap{})
	require.NoError(t, err)
	require.Len(t, days, 5)

	for i, d := range days {
		assert.False(t, d.IsOff)
		assert.Equal(t, "", d.Marker())
		assert.Equal(t, grid.Column(i), d.Periods, "day %d must equal the grid column", i)
	}
}

func TestMergeNilHolidayLookup(t *testing.T) {
	grid := filledGrid(timetable.Single("m"))

	days, err := Merge(grid, week35(t), nil)
	require.NoError(t, err)
	require.Len(t, days, 5)
	for i, d := range days {
		assert.False(t, d.IsOff, "day %d", i)
		assert.Equal(t, grid.Column(i), d.Periods, "day %d", i)
	}
}

func TestMergeHolidayReplacesDay(t *testing.T) {
	grid := filledGrid(timetable.Single("m"))
	holidays := calendar.NewHolidayMap(map[time.Time]string{day(2023, 8, 30): "Inneklemt dag"})

	days, err := Merge(grid, week35(t), holidays)
	require.NoError(t, err)

	assert.Equal(t, "3:Inneklemt dag", days[2].Marker())
	assert.True(t, days[2].IsOff)
	assert.Nil(t, days[2].Periods)

	for _, i := range []int{0, 1, 3, 4} {
		assert.False(t, days[i].IsOff, "day %d", i)
		assert.Equal(t, grid.Column(i), days[i].Periods, "day %d", i)
	}

	assert.True(t, grid[0][2].Equal(timetable.Single("m")), "grid must not be mutated")
}

func TestMergeHolidayOverridesScheduledPeriods(t *testing.T) {
	grid := filledGrid(timetable.Double("pt"))
	holidays := calendar.NewHolidayMap(map[time.Time]string{day(2023, 8, 28): "Planleggingsdag"})

	days, err := Merge(grid, week35(t), holidays)
	require.NoError(t, err)
	assert.Equal(t, "3:Planleggingsdag", days[0].Marker())
}

func TestMergeMalformedInput(t *testing.T) {
	dates := week35(t)
	holidays := calendar.HolidayMap{}

	t.Run("four dates", func(t *testing.T) {
		_, err := Merge(filledGrid(timetable.Single("m")), dates[:4], holidays)
		assert.ErrorIs(t, err, ErrMalformedDateRange)
	})

	t.Run("six dates", func(t *testing.T) {
		_, err := Merge(filledGrid(timetable.Single("m")), append(DateRange{}, append(dates, day(2023, 9, 2))...), holidays)
		assert.ErrorIs(t, err, ErrMalformedDateRange)
	})

	t.Run("seven rows", func(t *testing.T) {
		_, err := Merge(filledGrid(timetable.Single("m"))[:7], dates, holidays)
		assert.ErrorIs(t, err, ErrMalformedGrid)
	})

	t.Run("nine rows", func(t *testing.T) {
		grid := append(filledGrid(timetable.Single("m")), make([]timetable.Period, 5))
		_, err := Merge(grid, dates, holidays)
		assert.ErrorIs(t, err, ErrMalformedGrid)
	})

	t.Run("unequal rows", func(t *testing.T) {
		grid := filledGrid(timetable.Single("m"))
		grid[5] = append(grid[5], timetable.Single("e"))
		_, err := Merge(grid, dates, holidays)
		assert.ErrorIs(t, err, ErrMalformedGrid)
	})

	t.Run("too wide", func(t *testing.T) {
		grid := filledGrid(timetable.Single("m"))
		for i := range grid {
			grid[i] = append(grid[i], timetable.Single("e"))
		}
		days, err := Merge(grid, dates, holidays)
		assert.ErrorIs(t, err, ErrMalformedGrid)
		assert.Nil(t, days)
	})
}
