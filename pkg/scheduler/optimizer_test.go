package scheduler

import (
	"testing"

	"github.com/paigong/paigong/pkg/logger"
	"github.com/paigong/paigong/pkg/model"
)

func newTestOptimizer(maxIterations int) *optimizer {
	return &optimizer{maxIterations: maxIterations, log: logger.NewRosterLogger()}
}

func TestOptimizerMovesDoubleShiftToIdleStaff(t *testing.T) {
	staff := []string{"busy", "idle"}
	morning := model.NewShiftSlot("2026-01-05", "morning", "早班", "08:00", "12:00", 1)
	evening := model.NewShiftSlot("2026-01-05", "evening", "晚班", "17:00", "22:00", 1)
	slots := []model.ShiftSlot{morning, evening}

	st := newState(staff)
	st.assign("busy", morning)
	st.assign("busy", evening)

	avail := fullAvailability(staff, slots)
	hoursBefore := st.hours["busy"] + st.hours["idle"]
	countsBefore := st.shiftCounts["busy"] + st.shiftCounts["idle"]

	moves := newTestOptimizer(DefaultOptimizerIterations).run(slots, avail, st)

	if moves != 1 {
		t.Errorf("Expected 1 move, got %d", moves)
	}
	if got := st.assignments.CountOn("busy", "2026-01-05"); got != 1 {
		t.Errorf("Busy staff should keep 1 shift, got %d", got)
	}
	if got := st.assignments.CountOn("idle", "2026-01-05"); got != 1 {
		t.Errorf("Idle staff should receive 1 shift, got %d", got)
	}
	if !st.workedOn("idle", "2026-01-05") {
		t.Error("Working days not synced for receiving staff")
	}
	// 转移不改变累计量，总和守恒
	if got := st.hours["busy"] + st.hours["idle"]; got != hoursBefore {
		t.Errorf("Total hours changed: %v -> %v", hoursBefore, got)
	}
	if got := st.shiftCounts["busy"] + st.shiftCounts["idle"]; got != countsBefore {
		t.Errorf("Total shift counts changed: %d -> %d", countsBefore, got)
	}
	// 总分配数不变
	if got := st.assignments.Total(); got != 2 {
		t.Errorf("Total assignments = %d, want 2", got)
	}
}

func TestOptimizerSkipsUnavailableStaff(t *testing.T) {
	staff := []string{"busy", "idle"}
	morning := model.NewShiftSlot("2026-01-05", "morning", "早班", "08:00", "12:00", 1)
	evening := model.NewShiftSlot("2026-01-05", "evening", "晚班", "17:00", "22:00", 1)
	slots := []model.ShiftSlot{morning, evening}

	st := newState(staff)
	st.assign("busy", morning)
	st.assign("busy", evening)

	// idle 对两个班都不可用
	avail := make(model.Availability)
	for _, slot := range slots {
		avail.Set("busy", slot.Date, slot.ShiftID, true)
	}

	moves := newTestOptimizer(DefaultOptimizerIterations).run(slots, avail, st)

	if moves != 0 {
		t.Errorf("Expected no moves, got %d", moves)
	}
	if got := st.assignments.CountOn("busy", "2026-01-05"); got != 2 {
		t.Errorf("Assignments should be untouched, got %d", got)
	}
}

func TestOptimizerSkipsStaffAlreadyBusyThatDay(t *testing.T) {
	// 两人各有一天两班：互相转移只会交换问题，不应触发
	staff := []string{"s1", "s2"}
	morning := model.NewShiftSlot("2026-01-05", "morning", "早班", "08:00", "12:00", 1)
	noon := model.NewShiftSlot("2026-01-05", "noon", "午班", "12:00", "17:00", 1)
	evening := model.NewShiftSlot("2026-01-05", "evening", "晚班", "17:00", "22:00", 1)
	night := model.NewShiftSlot("2026-01-05", "night", "夜班", "22:00", "02:00", 1)
	slots := []model.ShiftSlot{morning, noon, evening, night}

	st := newState(staff)
	st.assign("s1", morning)
	st.assign("s1", noon)
	st.assign("s2", evening)
	st.assign("s2", night)

	moves := newTestOptimizer(DefaultOptimizerIterations).run(slots, fullAvailability(staff, slots), st)

	if moves != 0 {
		t.Errorf("Expected no moves between two busy staff, got %d", moves)
	}
}

func TestOptimizerRespectsIterationCap(t *testing.T) {
	// 3个双班员工但上限为1：只允许一次转移
	staff := []string{"a", "b", "c", "x", "y", "z"}
	var slots []model.ShiftSlot
	dates := []string{"2026-01-05", "2026-01-06", "2026-01-07"}
	for _, d := range dates {
		slots = append(slots,
			model.NewShiftSlot(d, "morning", "早班", "08:00", "12:00", 1),
			model.NewShiftSlot(d, "evening", "晚班", "17:00", "22:00", 1),
		)
	}

	st := newState(staff)
	st.assign("a", slots[0])
	st.assign("a", slots[1])
	st.assign("b", slots[2])
	st.assign("b", slots[3])
	st.assign("c", slots[4])
	st.assign("c", slots[5])

	moves := newTestOptimizer(1).run(slots, fullAvailability(staff, slots), st)

	if moves != 1 {
		t.Errorf("Expected exactly 1 move with iteration cap 1, got %d", moves)
	}
}

func TestOptimizerConvergesWithinCap(t *testing.T) {
	staff := []string{"a", "b", "c", "x", "y", "z"}
	var slots []model.ShiftSlot
	dates := []string{"2026-01-05", "2026-01-06", "2026-01-07"}
	for _, d := range dates {
		slots = append(slots,
			model.NewShiftSlot(d, "morning", "早班", "08:00", "12:00", 1),
			model.NewShiftSlot(d, "evening", "晚班", "17:00", "22:00", 1),
		)
	}

	st := newState(staff)
	st.assign("a", slots[0])
	st.assign("a", slots[1])
	st.assign("b", slots[2])
	st.assign("b", slots[3])
	st.assign("c", slots[4])
	st.assign("c", slots[5])

	moves := newTestOptimizer(DefaultOptimizerIterations).run(slots, fullAvailability(staff, slots), st)

	if moves != 3 {
		t.Errorf("Expected 3 moves to clear all double shifts, got %d", moves)
	}
	for _, id := range staff {
		for _, d := range dates {
			if st.assignments.CountOn(id, d) > 1 {
				t.Errorf("Staff %s still has double shift on %s", id, d)
			}
		}
	}
}
