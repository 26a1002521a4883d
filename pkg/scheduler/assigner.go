// Package scheduler 提供周排班引擎
package scheduler

import (
	"math/rand"
	"sort"

	"github.com/paigong/paigong/pkg/logger"
	"github.com/paigong/paigong/pkg/model"
)

// 评分权重
const (
	weightWorkingDays = 500.0 // 工作天数均衡（主导项）
	weightHours       = 10.0  // 工时均衡
	weightShiftCount  = 5.0   // 班次数均衡
	weightWeekend     = 20.0  // 周末轮换
	weightSameDay     = 50.0  // 第二轮同日加班惩罚

	fatigueBothNeighbors = -15.0 // 前后两天都有班
	fatigueOneNeighbor   = -5.0  // 前后只有一天有班
	fatigueRested        = 10.0  // 前后都休息

	tieBreakRange = 0.1 // 随机扰动上限，仅用于打破完全平分
)

// assigner 两轮贪心分配器
type assigner struct {
	rng *rand.Rand
	log *logger.RosterLogger
}

// candidate 候选员工及其得分
type candidate struct {
	staffID string
	score   float64
}

// run 按序处理槽位，返回人手不足警告（槽位顺序）
func (a *assigner) run(slots []model.ShiftSlot, avail model.Availability, st *state) []model.Warning {
	var warnings []model.Warning

	for _, slot := range slots {
		if slot.Required <= 0 {
			continue
		}

		assigned := a.assignPassOne(slot, avail, st)

		// 第一轮没排满时才允许同日第二班
		if assigned < slot.Required {
			assigned += a.assignPassTwo(slot, avail, st, assigned)
		}

		if assigned < slot.Required {
			a.log.Understaffed(slot.Date, slot.Name, slot.Required, assigned)
			warnings = append(warnings, model.NewUnderstaffedWarning(slot, assigned))
		}
	}

	return warnings
}

// assignPassOne 第一轮：只考虑当天还没有班的员工
func (a *assigner) assignPassOne(slot model.ShiftSlot, avail model.Availability, st *state) int {
	avgDays, avgHours, avgShifts := st.averages()

	var candidates []candidate
	for _, id := range st.staff {
		if !avail.Available(id, slot.Date, slot.ShiftID) {
			continue
		}
		if st.assignments.Has(id, slot.Date, slot.ShiftID) {
			continue
		}
		if st.assignments.CountOn(id, slot.Date) > 0 {
			continue
		}
		candidates = append(candidates, candidate{
			staffID: id,
			score:   a.scorePassOne(id, slot, st, avgDays, avgHours, avgShifts),
		})
	}

	return a.assignTop(slot, st, candidates, slot.Required)
}

// scorePassOne 第一轮评分，分数越高越优先
func (a *assigner) scorePassOne(staffID string, slot model.ShiftSlot, st *state, avgDays, avgHours, avgShifts float64) float64 {
	score := -weightWorkingDays * (float64(len(st.workingDays[staffID])) - avgDays)
	score += -weightHours * (st.hours[staffID] - avgHours)
	score += -weightShiftCount * (float64(st.shiftCounts[staffID]) - avgShifts)

	// 疲劳规避：看前后两天是否有班
	workedBefore := st.workedOn(staffID, model.PrevDate(slot.Date))
	workedAfter := st.workedOn(staffID, model.NextDate(slot.Date))
	switch {
	case workedBefore && workedAfter:
		score += fatigueBothNeighbors
	case workedBefore || workedAfter:
		score += fatigueOneNeighbor
	default:
		score += fatigueRested
	}

	// 周末轮换：已排过周末班的员工在周末槽位上降权
	if slot.IsWeekend() {
		score += -weightWeekend * float64(st.weekendShifts[staffID])
	}

	return score + a.rng.Float64()*tieBreakRange
}

// assignPassTwo 第二轮：放开同日限制，允许一人一天两班
func (a *assigner) assignPassTwo(slot model.ShiftSlot, avail model.Availability, st *state, alreadyAssigned int) int {
	avgDays, avgHours, _ := st.averages()

	var candidates []candidate
	for _, id := range st.staff {
		if !avail.Available(id, slot.Date, slot.ShiftID) {
			continue
		}
		if st.assignments.Has(id, slot.Date, slot.ShiftID) {
			continue
		}
		candidates = append(candidates, candidate{
			staffID: id,
			score:   a.scorePassTwo(id, slot, st, avgDays, avgHours),
		})
	}

	return a.assignTop(slot, st, candidates, slot.Required-alreadyAssigned)
}

// scorePassTwo 第二轮评分：保留天数/工时均衡项，叠加同日班次惩罚
func (a *assigner) scorePassTwo(staffID string, slot model.ShiftSlot, st *state, avgDays, avgHours float64) float64 {
	score := -weightWorkingDays * (float64(len(st.workingDays[staffID])) - avgDays)
	score += -weightHours * (st.hours[staffID] - avgHours)
	score += -weightSameDay * float64(st.assignments.CountOn(staffID, slot.Date))
	return score + a.rng.Float64()*tieBreakRange
}

// assignTop 按得分降序取前 n 名并记录分配
func (a *assigner) assignTop(slot model.ShiftSlot, st *state, candidates []candidate, n int) int {
	if n <= 0 || len(candidates) == 0 {
		return 0
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	for i := 0; i < n; i++ {
		st.assign(candidates[i].staffID, slot)
	}
	return n
}
