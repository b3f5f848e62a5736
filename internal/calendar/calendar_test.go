package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHolidayMap(t *testing.T) {
	m := NewHolidayMap(map[time.Time]string{
		date(2023, 8, 30): "Inneklemt dag",
	})

	// Time of day must not matter
	name, ok := m.HolidayName(time.Date(2023, 8, 30, 14, 0, 0, 0, time.UTC))
	if !ok || name != "Inneklemt dag" {
		t.Errorf("HolidayName(2023-08-30) = (%q, %v), want (\"Inneklemt dag\", true)", name, ok)
	}

	if _, ok := m.HolidayName(date(2023, 8, 31)); ok {
		t.Errorf("HolidayName(2023-08-31) found a holiday, want none")
	}
}

func TestSchoolCalendar_GetDayInfo(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	cal := NewSchoolCalendar(
		map[string]string{"2024-05-17": "Grunnlovsdagen"},
		[]WeekKey{{Year: 2023, Week: 40}},
		logger,
	)

	tests := []struct {
		name     string
		date     time.Time
		wantType DayType
		wantNote string
	}{
		{"Constitution day", date(2024, 5, 17), DayTypeHoliday, "Grunnlovsdagen"},
		{"Ordinary Monday", date(2024, 5, 13), DayTypeSchoolday, ""},
		{"Saturday", date(2024, 5, 18), DayTypeWeekend, ""},
		{"Autumn break Wednesday", date(2023, 10, 4), DayTypeVacation, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := cal.GetDayInfo(tt.date)
			if err != nil {
				t.Fatalf("GetDayInfo() error = %v", err)
			}
			if info.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", info.Type, tt.wantType)
			}
			if info.Note != tt.wantNote {
				t.Errorf("Note = %q, want %q", info.Note, tt.wantNote)
			}
			if info.IsSchoolday != (tt.wantType == DayTypeSchoolday) {
				t.Errorf("IsSchoolday = %v for %v", info.IsSchoolday, tt.wantType)
			}
		})
	}

	if !cal.IsVacationWeek(2023, 40) {
		t.Errorf("IsVacationWeek(2023, 40) = false, want true")
	}
	if cal.IsVacationWeek(2023, 41) {
		t.Errorf("IsVacationWeek(2023, 41) = true, want false")
	}
}

func writeCalendarFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calendar.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write calendar file: %v", err)
	}
	return path
}

func TestFileCalendar_Load(t *testing.T) {
	path := writeCalendarFile(t, `# extra days off
2024-05-10 holiday Inneklemt dag
2024-02-19 vacation
2024-03-01 holiday
not-a-date holiday Broken
2024-03-04 birthday Cake
2024-03-05
`)

	logger, _ := zap.NewDevelopment()
	cal := NewFileCalendar(path, logger)
	if err := cal.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if name, ok := cal.HolidayName(date(2024, 5, 10)); !ok || name != "Inneklemt dag" {
		t.Errorf("HolidayName(2024-05-10) = (%q, %v)", name, ok)
	}
	if name, ok := cal.HolidayName(date(2024, 3, 1)); !ok || name != "Fri" {
		t.Errorf("HolidayName(2024-03-01) = (%q, %v), want default note", name, ok)
	}
	if _, ok := cal.HolidayName(date(2024, 3, 4)); ok {
		t.Errorf("unknown day type must be skipped")
	}
	if !cal.IsVacationWeek(2024, 8) {
		t.Errorf("IsVacationWeek(2024, 8) = false, want true")
	}
}

func TestFileCalendar_LoadMissing(t *testing.T) {
	cal := NewFileCalendar(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop())
	if err := cal.Load(); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestCompositeCalendar(t *testing.T) {
	logger := zap.NewNop()
	primary := NewSchoolCalendar(map[string]string{"2024-05-17": "Grunnlovsdagen"}, nil, logger)
	fallback := NewFileCalendar(writeCalendarFile(t, "2024-05-17 holiday Other\n2024-05-10 holiday Inneklemt dag\n2024-02-19 vacation\n"), logger)

	cal := NewCompositeCalendar(primary, fallback, logger)
	if err := cal.LoadFallback(); err != nil {
		t.Fatalf("LoadFallback() error = %v", err)
	}

	if name, _ := cal.HolidayName(date(2024, 5, 17)); name != "Grunnlovsdagen" {
		t.Errorf("primary must win, got %q", name)
	}
	if name, _ := cal.HolidayName(date(2024, 5, 10)); name != "Inneklemt dag" {
		t.Errorf("fallback holiday missing, got %q", name)
	}
	if !cal.IsVacationWeek(2024, 8) {
		t.Errorf("fallback vacation week missing")
	}

	info, err := cal.GetDayInfo(date(2024, 5, 10))
	if err != nil {
		t.Fatalf("GetDayInfo() error = %v", err)
	}
	if info.Type != DayTypeHoliday || info.Note != "Inneklemt dag" {
		t.Errorf("GetDayInfo(2024-05-10) = %+v", info)
	}
}
