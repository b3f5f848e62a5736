package dateutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	input := time.Date(2023, 8, 28, 14, 30, 45, 123456789, time.UTC)
	expected := time.Date(2023, 8, 28, 0, 0, 0, 0, time.UTC)

	result := StartOfDay(input)

	if !result.Equal(expected) {
		t.Errorf("StartOfDay(%v) = %v, want %v", input, result, expected)
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "Wednesday returns Monday",
			input:    time.Date(2023, 8, 30, 12, 0, 0, 0, time.UTC), // Wednesday
			expected: time.Date(2023, 8, 28, 0, 0, 0, 0, time.UTC),  // Monday
		},
		{
			name:     "Monday returns same Monday",
			input:    time.Date(2023, 8, 28, 12, 0, 0, 0, time.UTC),
			expected: time.Date(2023, 8, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Sunday returns previous Monday",
			input:    time.Date(2023, 9, 3, 12, 0, 0, 0, time.UTC), // Sunday
			expected: time.Date(2023, 8, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StartOfWeek(tt.input)

			if !result.Equal(tt.expected) {
				t.Errorf("StartOfWeek(%v) = %v, want %v",
					tt.input.Format("2006-01-02 Mon"),
					result.Format("2006-01-02 Mon"),
					tt.expected.Format("2006-01-02 Mon"))
			}
		})
	}
}

func TestWeeksInYear(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{2015, 53},
		{2020, 53},
		{2023, 52},
		{2024, 52},
		{2026, 53},
	}

	for _, tt := range tests {
		if got := WeeksInYear(tt.year); got != tt.want {
			t.Errorf("WeeksInYear(%d) = %d, want %d", tt.year, got, tt.want)
		}
	}
}

func TestISOWeekStart(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		week    int
		want    time.Time
		wantErr bool
	}{
		{"Week 35 2023", 2023, 35, time.Date(2023, 8, 28, 0, 0, 0, 0, time.UTC), false},
		{"Week 1 2024 starts in 2024", 2024, 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"Week 1 2021 starts January 4", 2021, 1, time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC), false},
		{"Week 1 2025 starts in December", 2025, 1, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), false},
		{"Week 53 2020 exists", 2020, 53, time.Date(2020, 12, 28, 0, 0, 0, 0, time.UTC), false},
		{"Week 53 2023 does not exist", 2023, 53, time.Time{}, true},
		{"Week 0", 2023, 0, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ISOWeekStart(tt.year, tt.week)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ISOWeekStart(%d, %d) error = %v, wantErr %v", tt.year, tt.week, err, tt.wantErr)
			}

			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ISOWeekStart(%d, %d) = %v, want %v", tt.year, tt.week, got, tt.want)
			}
		})
	}
}

func TestISOWeekStartRoundTrip(t *testing.T) {
	for year := 2015; year <= 2030; year++ {
		for week := 1; week <= WeeksInYear(year); week++ {
			monday, err := ISOWeekStart(year, week)
			if err != nil {
				t.Fatalf("ISOWeekStart(%d, %d) error = %v", year, week, err)
			}
			if monday.Weekday() != time.Monday {
				t.Fatalf("ISOWeekStart(%d, %d) = %v, not a Monday", year, week, monday)
			}
			if y, w := GetWeekNumber(monday); y != year || w != week {
				t.Fatalf("GetWeekNumber(%v) = (%d, %d), want (%d, %d)", monday, y, w, year, week)
			}
		}
	}
}

func TestNextISOWeek(t *testing.T) {
	tests := []struct {
		year, week         int
		wantYear, wantWeek int
	}{
		{2023, 35, 2023, 36},
		{2023, 52, 2024, 1},
		{2020, 52, 2020, 53},
		{2020, 53, 2021, 1},
	}

	for _, tt := range tests {
		y, w := NextISOWeek(tt.year, tt.week)
		if y != tt.wantYear || w != tt.wantWeek {
			t.Errorf("NextISOWeek(%d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.week, y, w, tt.wantYear, tt.wantWeek)
		}
	}
}

func TestIsWeekday(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  bool
	}{
		{"Monday is weekday", time.Date(2023, 8, 28, 0, 0, 0, 0, time.UTC), true},
		{"Friday is weekday", time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), true},
		{"Saturday is not weekday", time.Date(2023, 9, 2, 0, 0, 0, 0, time.UTC), false},
		{"Sunday is not weekday", time.Date(2023, 9, 3, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsWeekday(tt.input)

			if result != tt.want {
				t.Errorf("IsWeekday(%v) = %v, want %v",
					tt.input.Format("2006-01-02 Mon"), result, tt.want)
			}
		})
	}
}

func TestIsSameDay(t *testing.T) {
	a := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)
	b := time.Date(2024, 5, 17, 20, 0, 0, 0, time.UTC)
	c := time.Date(2024, 5, 18, 10, 0, 0, 0, time.UTC)

	if !IsSameDay(a, b) {
		t.Errorf("IsSameDay(%v, %v) = false, want true", a, b)
	}
	if IsSameDay(a, c) {
		t.Errorf("IsSameDay(%v, %v) = true, want false", a, c)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"ISO format YYYY-MM-DD", "2024-05-17", time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), false},
		{"Norwegian format DD.MM.YYYY", "17.05.2024", time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), false},
		{"School data format DD-MM-YY", "17-05-24", time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), false},
		{"Garbage", "tomorrow", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}

			if !tt.wantErr && !result.Equal(tt.want) {
				t.Errorf("ParseDate(%v) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}
