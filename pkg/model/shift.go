// Package model 定义排班考勤引擎的核心数据模型
package model

import "time"

// ShiftSlot 班次槽位：某天某个班次模板的用人需求
type ShiftSlot struct {
	Date          string  `json:"date"`           // YYYY-MM-DD
	ShiftID       string  `json:"shift_id"`       // 班次模板ID
	Name          string  `json:"name"`           // 班次名称
	StartTime     string  `json:"start_time"`     // HH:mm
	EndTime       string  `json:"end_time"`       // HH:mm
	DurationHours float64 `json:"duration_hours"` // 班次时长（小时）
	Required      int     `json:"required"`       // 需要人数
}

// NewShiftSlot 创建班次槽位并计算时长
func NewShiftSlot(date, shiftID, name, startTime, endTime string, required int) ShiftSlot {
	return ShiftSlot{
		Date:          date,
		ShiftID:       shiftID,
		Name:          name,
		StartTime:     startTime,
		EndTime:       endTime,
		DurationHours: SlotDuration(startTime, endTime),
		Required:      required,
	}
}

// SlotDuration 计算班次时长（小时），结束时间早于开始时间视为跨日
func SlotDuration(startTime, endTime string) float64 {
	start, err1 := time.Parse(TimeLayout, startTime)
	end, err2 := time.Parse(TimeLayout, endTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return end.Sub(start).Hours()
}

// Weekday 返回槽位日期对应的星期
func (s ShiftSlot) Weekday() time.Weekday {
	return ParseDate(s.Date).Weekday()
}

// IsWeekend 判断槽位是否落在周末
func (s ShiftSlot) IsWeekend() bool {
	return IsWeekend(s.Date)
}

// Availability 员工可用性索引：员工 → 日期 → 班次模板 → 是否可用
// 缺失的条目视为不可用
type Availability map[string]map[string]map[string]bool

// Available 查询员工在某天某班次是否可用
func (a Availability) Available(staffID, date, shiftID string) bool {
	byDate, ok := a[staffID]
	if !ok {
		return false
	}
	byShift, ok := byDate[date]
	if !ok {
		return false
	}
	return byShift[shiftID]
}

// Set 标记员工在某天某班次的可用性
func (a Availability) Set(staffID, date, shiftID string, available bool) {
	byDate, ok := a[staffID]
	if !ok {
		byDate = make(map[string]map[string]bool)
		a[staffID] = byDate
	}
	byShift, ok := byDate[date]
	if !ok {
		byShift = make(map[string]bool)
		byDate[date] = byShift
	}
	byShift[shiftID] = available
}
