package model

import "testing"

func TestWeekStart(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2026-01-05", "2026-01-05"}, // 周一
		{"2026-01-07", "2026-01-05"}, // 周三
		{"2026-01-11", "2026-01-05"}, // 周日归属上周一
		{"2026-01-12", "2026-01-12"},
	}

	for _, c := range cases {
		if got := WeekStart(c.date); got != c.want {
			t.Errorf("WeekStart(%s) = %s, want %s", c.date, got, c.want)
		}
	}
}

func TestWeekDates(t *testing.T) {
	dates := WeekDates("2026-01-05")
	if len(dates) != 7 {
		t.Fatalf("Expected 7 dates, got %d", len(dates))
	}
	if dates[0] != "2026-01-05" || dates[6] != "2026-01-11" {
		t.Errorf("Unexpected week range: %s ~ %s", dates[0], dates[6])
	}
}

func TestPrevNextDate(t *testing.T) {
	if got := PrevDate("2026-01-01"); got != "2025-12-31" {
		t.Errorf("PrevDate = %s", got)
	}
	if got := NextDate("2026-01-31"); got != "2026-02-01" {
		t.Errorf("NextDate = %s", got)
	}
}

func TestIsWeekend(t *testing.T) {
	if !IsWeekend("2026-01-10") { // 周六
		t.Error("2026-01-10 should be weekend")
	}
	if !IsWeekend("2026-01-11") { // 周日
		t.Error("2026-01-11 should be weekend")
	}
	if IsWeekend("2026-01-12") { // 周一
		t.Error("2026-01-12 should not be weekend")
	}
	if IsWeekend("bad-date") {
		t.Error("Invalid date should not be weekend")
	}
}

func TestFormatWeekday(t *testing.T) {
	if got := FormatWeekday("2026-01-10"); got != "周六" {
		t.Errorf("FormatWeekday = %s", got)
	}
}
