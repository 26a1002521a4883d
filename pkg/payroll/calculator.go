// Package payroll 提供打卡工时与薪酬计算
//
// 计算器消费打卡流水，对照班次模板得出应出勤工时、实际工时、
// 加班与迟到。与排班引擎无耦合：引擎产出计划，这里结算实际。
package payroll

import (
	"fmt"
	"time"

	"github.com/paigong/paigong/pkg/model"
)

// DefaultOvertimeMultiplier 默认加班费倍率
const DefaultOvertimeMultiplier = 1.5

// TimesheetEntry 一条打卡流水：一个员工一天一个班次的上下班打卡
type TimesheetEntry struct {
	StaffID  string    `json:"staff_id"`
	Date     string    `json:"date"`
	ShiftID  string    `json:"shift_id"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// EntryResult 单条流水的结算结果
type EntryResult struct {
	StaffID        string  `json:"staff_id"`
	Date           string  `json:"date"`
	ShiftID        string  `json:"shift_id"`
	ScheduledHours float64 `json:"scheduled_hours"`
	WorkedHours    float64 `json:"worked_hours"`
	RegularHours   float64 `json:"regular_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	Late           bool    `json:"late"`
	Pay            float64 `json:"pay"`
}

// StaffSummary 员工周期汇总
type StaffSummary struct {
	StaffID        string  `json:"staff_id"`
	Entries        int     `json:"entries"`
	ScheduledHours float64 `json:"scheduled_hours"`
	WorkedHours    float64 `json:"worked_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	LateCount      int     `json:"late_count"`
	TotalPay       float64 `json:"total_pay"`
}

// Calculator 薪酬计算器
type Calculator struct {
	OvertimeMultiplier float64        // 加班费倍率，0 使用默认值
	Grace              time.Duration  // 迟到宽限
	Zone               *time.Location // 门店所在时区，nil 按UTC解释班次时间
}

// Evaluate 结算一条流水
// 应出勤工时取自班次模板，实际工时取自打卡时间，两者都支持跨日
func (c *Calculator) Evaluate(entry TimesheetEntry, slot model.ShiftSlot, hourlyRate float64) (EntryResult, error) {
	if entry.CheckOut.Before(entry.CheckIn) {
		return EntryResult{}, fmt.Errorf("员工 %s 在 %s 的下班打卡早于上班打卡", entry.StaffID, entry.Date)
	}

	scheduled := slot.DurationHours
	worked := entry.CheckOut.Sub(entry.CheckIn).Hours()

	multiplier := c.OvertimeMultiplier
	if multiplier <= 0 {
		multiplier = DefaultOvertimeMultiplier
	}

	regular := worked
	if regular > scheduled {
		regular = scheduled
	}
	overtime := worked - scheduled
	if overtime < 0 {
		overtime = 0
	}

	return EntryResult{
		StaffID:        entry.StaffID,
		Date:           entry.Date,
		ShiftID:        entry.ShiftID,
		ScheduledHours: scheduled,
		WorkedHours:    worked,
		RegularHours:   regular,
		OvertimeHours:  overtime,
		Late:           c.isLate(entry, slot),
		Pay:            hourlyRate*regular + hourlyRate*multiplier*overtime,
	}, nil
}

// Summarize 按员工汇总一个周期内的所有流水
// 返回顺序跟随流水中员工首次出现的顺序
func (c *Calculator) Summarize(entries []TimesheetEntry, slots map[string]model.ShiftSlot, hourlyRate float64) ([]StaffSummary, error) {
	index := make(map[string]int)
	var summaries []StaffSummary

	for _, entry := range entries {
		slot, ok := slots[entry.ShiftID]
		if !ok {
			return nil, fmt.Errorf("未知班次模板: %s", entry.ShiftID)
		}
		result, err := c.Evaluate(entry, slot, hourlyRate)
		if err != nil {
			return nil, err
		}

		i, ok := index[entry.StaffID]
		if !ok {
			i = len(summaries)
			index[entry.StaffID] = i
			summaries = append(summaries, StaffSummary{StaffID: entry.StaffID})
		}

		summaries[i].Entries++
		summaries[i].ScheduledHours += result.ScheduledHours
		summaries[i].WorkedHours += result.WorkedHours
		summaries[i].OvertimeHours += result.OvertimeHours
		summaries[i].TotalPay += result.Pay
		if result.Late {
			summaries[i].LateCount++
		}
	}

	return summaries, nil
}

// isLate 对照班次开始时间加宽限判断迟到
// 班次时间按门店时区解释，打卡时间戳可以带任意时区
func (c *Calculator) isLate(entry TimesheetEntry, slot model.ShiftSlot) bool {
	zone := c.Zone
	if zone == nil {
		zone = time.UTC
	}
	start, err := time.ParseInLocation(model.DateLayout+" "+model.TimeLayout,
		entry.Date+" "+slot.StartTime, zone)
	if err != nil {
		return false
	}
	return entry.CheckIn.After(start.Add(c.Grace))
}
