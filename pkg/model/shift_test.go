package model

import "testing"

func TestSlotDuration(t *testing.T) {
	cases := []struct {
		start string
		end   string
		want  float64
	}{
		{"08:00", "12:00", 4},
		{"09:30", "18:00", 8.5},
		{"22:00", "06:00", 8},  // 跨日班次
		{"00:00", "00:00", 24}, // 整日
	}

	for _, c := range cases {
		if got := SlotDuration(c.start, c.end); got != c.want {
			t.Errorf("SlotDuration(%s, %s) = %v, want %v", c.start, c.end, got, c.want)
		}
	}
}

func TestSlotDurationInvalid(t *testing.T) {
	if got := SlotDuration("8点", "12:00"); got != 0 {
		t.Errorf("Invalid time should yield 0, got %v", got)
	}
}

func TestAvailability(t *testing.T) {
	avail := make(Availability)

	// 缺失条目视为不可用
	if avail.Available("s1", "2026-01-05", "morning") {
		t.Error("Missing entry should be unavailable")
	}

	avail.Set("s1", "2026-01-05", "morning", true)
	if !avail.Available("s1", "2026-01-05", "morning") {
		t.Error("Entry should be available after Set")
	}

	avail.Set("s1", "2026-01-05", "morning", false)
	if avail.Available("s1", "2026-01-05", "morning") {
		t.Error("Entry should be unavailable after Set false")
	}
}

func TestAssignments(t *testing.T) {
	asgn := Assignments{
		"s1": {"2026-01-05": {"morning", "evening"}},
		"s2": {"2026-01-05": {"morning"}},
	}

	if !asgn.Has("s1", "2026-01-05", "evening") {
		t.Error("Has should find assigned shift")
	}
	if asgn.Has("s2", "2026-01-05", "evening") {
		t.Error("Has should not find unassigned shift")
	}
	if got := asgn.CountOn("s1", "2026-01-05"); got != 2 {
		t.Errorf("CountOn = %d, want 2", got)
	}
	if got := asgn.Total(); got != 3 {
		t.Errorf("Total = %d, want 3", got)
	}
}

func TestNewUnderstaffedWarningSeverity(t *testing.T) {
	slot := NewShiftSlot("2026-01-10", "morning", "早班", "08:00", "12:00", 3)

	if w := NewUnderstaffedWarning(slot, 2); w.Severity != SeverityWarning {
		t.Errorf("Shortfall 1 should be warning, got %s", w.Severity)
	}
	if w := NewUnderstaffedWarning(slot, 1); w.Severity != SeverityCritical {
		t.Errorf("Shortfall 2 should be critical, got %s", w.Severity)
	}
	if w := NewUnderstaffedWarning(slot, 0); w.Assigned != 0 || w.Required != 3 {
		t.Error("Warning should carry assigned/required counts")
	}
}

func TestLocationDistanceMeters(t *testing.T) {
	store := Location{Latitude: 31.2304, Longitude: 121.4737}

	// 同点距离为0
	if d := store.DistanceMeters(store); d > 0.01 {
		t.Errorf("Same point distance = %v", d)
	}

	// 约1个纬度差 ≈ 111km
	far := Location{Latitude: 32.2304, Longitude: 121.4737}
	d := store.DistanceMeters(far)
	if d < 110000 || d > 112000 {
		t.Errorf("1 degree latitude distance = %v, want ~111km", d)
	}
}
