// Package scheduler 提供周排班引擎
package scheduler

import "github.com/paigong/paigong/pkg/model"

// state 单次排班运行的工作状态
// 所有映射在每次运行时新建，不跨调用共享
type state struct {
	staff         []string
	assignments   model.Assignments
	workingDays   map[string]map[string]struct{} // 员工 → 有班日期集合
	hours         map[string]float64             // 员工 → 累计工时
	shiftCounts   map[string]int                 // 员工 → 累计班次数
	weekendShifts map[string]int                 // 员工 → 本次运行已分配的周末班次数
}

// newState 创建工作状态，为每个员工预置零值条目
func newState(staff []string) *state {
	s := &state{
		staff:         staff,
		assignments:   make(model.Assignments),
		workingDays:   make(map[string]map[string]struct{}),
		hours:         make(map[string]float64),
		shiftCounts:   make(map[string]int),
		weekendShifts: make(map[string]int),
	}
	for _, id := range staff {
		s.hours[id] = 0
		s.shiftCounts[id] = 0
	}
	return s
}

// assign 记录一次分配并同步所有累计量
func (s *state) assign(staffID string, slot model.ShiftSlot) {
	byDate, ok := s.assignments[staffID]
	if !ok {
		byDate = make(map[string][]string)
		s.assignments[staffID] = byDate
	}
	byDate[slot.Date] = append(byDate[slot.Date], slot.ShiftID)

	days, ok := s.workingDays[staffID]
	if !ok {
		days = make(map[string]struct{})
		s.workingDays[staffID] = days
	}
	days[slot.Date] = struct{}{}

	s.hours[staffID] += slot.DurationHours
	s.shiftCounts[staffID]++
	if slot.IsWeekend() {
		s.weekendShifts[staffID]++
	}
}

// move 把一次分配从 from 转移给 to（优化器专用）
// 纯转移：不改变任何员工的累计工时和班次数
func (s *state) move(from, to string, slot model.ShiftSlot) {
	list := s.assignments[from][slot.Date]
	for i, id := range list {
		if id == slot.ShiftID {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(s.assignments[from], slot.Date)
		delete(s.workingDays[from], slot.Date)
	} else {
		s.assignments[from][slot.Date] = list
	}

	byDate, ok := s.assignments[to]
	if !ok {
		byDate = make(map[string][]string)
		s.assignments[to] = byDate
	}
	byDate[slot.Date] = append(byDate[slot.Date], slot.ShiftID)

	days, ok := s.workingDays[to]
	if !ok {
		days = make(map[string]struct{})
		s.workingDays[to] = days
	}
	days[slot.Date] = struct{}{}
}

// workedOn 检查员工某天是否有班
func (s *state) workedOn(staffID, date string) bool {
	_, ok := s.workingDays[staffID][date]
	return ok
}

// averages 返回当前全员的工作天数/工时/班次数均值
func (s *state) averages() (avgDays, avgHours, avgShifts float64) {
	n := len(s.staff)
	if n == 0 {
		return 0, 0, 0
	}
	for _, id := range s.staff {
		avgDays += float64(len(s.workingDays[id]))
		avgHours += s.hours[id]
		avgShifts += float64(s.shiftCounts[id])
	}
	avgDays /= float64(n)
	avgHours /= float64(n)
	avgShifts /= float64(n)
	return
}
