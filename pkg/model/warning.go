// Package model 定义排班考勤引擎的核心数据模型
package model

import "fmt"

// WarningType 警告类型
type WarningType string

const (
	WarningUnderstaffed WarningType = "understaffed" // 人手不足
	WarningOverstaffed  WarningType = "overstaffed"  // 人手过剩（保留，暂不产生）
	WarningNoShifts     WarningType = "no_shifts"    // 员工零班次
	WarningOverwork     WarningType = "overwork"     // 过度排班（保留，暂不产生）
)

// Severity 警告级别
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Warning 排班警告：引擎的所有异常信号都以警告形式返回，不中断排班
type Warning struct {
	Type      WarningType `json:"type"`
	Severity  Severity    `json:"severity"`
	Date      string      `json:"date,omitempty"`
	ShiftID   string      `json:"shift_id,omitempty"`
	ShiftName string      `json:"shift_name,omitempty"`
	StaffID   string      `json:"staff_id,omitempty"`
	Required  int         `json:"required,omitempty"`
	Assigned  int         `json:"assigned,omitempty"`
	Message   string      `json:"message"`
}

// NewUnderstaffedWarning 创建人手不足警告
// 缺口达到2人及以上时级别为 critical
func NewUnderstaffedWarning(slot ShiftSlot, assigned int) Warning {
	severity := SeverityWarning
	if slot.Required-assigned >= 2 {
		severity = SeverityCritical
	}
	return Warning{
		Type:      WarningUnderstaffed,
		Severity:  severity,
		Date:      slot.Date,
		ShiftID:   slot.ShiftID,
		ShiftName: slot.Name,
		Required:  slot.Required,
		Assigned:  assigned,
		Message: fmt.Sprintf("%s %s %s 人手不足: 需要%d人, 实际%d人",
			FormatWeekday(slot.Date), slot.Date, slot.Name, slot.Required, assigned),
	}
}

// NewNoShiftsWarning 创建员工零班次警告
func NewNoShiftsWarning(staffID string) Warning {
	return Warning{
		Type:     WarningNoShifts,
		Severity: SeverityInfo,
		StaffID:  staffID,
		Message:  fmt.Sprintf("员工 %s 本周未分配任何班次, 请检查可用性设置", staffID),
	}
}
