// Package model 定义排班考勤引擎的核心数据模型
package model

// Assignments 排班结果：员工 → 日期 → 班次模板ID列表（按分配顺序）
type Assignments map[string]map[string][]string

// Has 检查员工在某天是否已分配某班次
func (a Assignments) Has(staffID, date, shiftID string) bool {
	for _, id := range a[staffID][date] {
		if id == shiftID {
			return true
		}
	}
	return false
}

// CountOn 返回员工某天的班次数
func (a Assignments) CountOn(staffID, date string) int {
	return len(a[staffID][date])
}

// Total 返回全部分配条目数
func (a Assignments) Total() int {
	total := 0
	for _, byDate := range a {
		for _, shifts := range byDate {
			total += len(shifts)
		}
	}
	return total
}

// Stats 排班统计
type Stats struct {
	RequiredSlots   int     `json:"required_slots"`   // 需求总人次
	AssignedSlots   int     `json:"assigned_slots"`   // 已分配人次
	CoveragePercent float64 `json:"coverage_percent"` // 覆盖率 (%)
	AvgHours        float64 `json:"avg_hours"`        // 人均工时
	MinHours        float64 `json:"min_hours"`        // 最小工时
	MaxHours        float64 `json:"max_hours"`        // 最大工时
	HoursSpread     float64 `json:"hours_spread"`     // 工时极差
	AvgShifts       float64 `json:"avg_shifts"`       // 人均班次数
	MinShifts       int     `json:"min_shifts"`       // 最少班次数
	MaxShifts       int     `json:"max_shifts"`       // 最多班次数
	ShiftSpread     int     `json:"shift_spread"`     // 班次数极差
	FairnessScore   float64 `json:"fairness_score"`   // 公平性得分 (0-100)
}

// Result 一次排班运行的完整结果
type Result struct {
	Assignments      Assignments        `json:"assignments"`
	Warnings         []Warning          `json:"warnings"`
	Stats            *Stats             `json:"stats"`
	StaffHours       map[string]float64 `json:"staff_hours"`
	StaffShiftCounts map[string]int     `json:"staff_shift_counts"`
}
