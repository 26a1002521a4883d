// Package stats 提供排班统计与校验
package stats

import (
	"math"

	"github.com/paigong/paigong/pkg/model"
)

// 公平性评分的极差惩罚系数
const (
	hoursSpreadPenalty = 2.0
	shiftSpreadPenalty = 5.0
)

// Report 统计与校验结果
type Report struct {
	Stats    *model.Stats    `json:"stats"`
	Warnings []model.Warning `json:"warnings"`
}

// Build 根据排班结果计算统计指标并产生校验警告
// 警告仅包含零班次员工提示，按员工列表顺序排列
func Build(slots []model.ShiftSlot, staff []string, asgn model.Assignments, hours map[string]float64, counts map[string]int) *Report {
	s := &model.Stats{}

	for _, slot := range slots {
		s.RequiredSlots += slot.Required
	}
	s.AssignedSlots = asgn.Total()

	if s.RequiredSlots > 0 {
		s.CoveragePercent = float64(s.AssignedSlots) / float64(s.RequiredSlots) * 100
	}

	var warnings []model.Warning
	if len(staff) > 0 {
		s.MinHours = math.MaxFloat64
		s.MinShifts = math.MaxInt

		var totalHours, totalShifts float64
		for _, id := range staff {
			h := hours[id]
			c := counts[id]
			totalHours += h
			totalShifts += float64(c)

			if h < s.MinHours {
				s.MinHours = h
			}
			if h > s.MaxHours {
				s.MaxHours = h
			}
			if c < s.MinShifts {
				s.MinShifts = c
			}
			if c > s.MaxShifts {
				s.MaxShifts = c
			}

			if c == 0 {
				warnings = append(warnings, model.NewNoShiftsWarning(id))
			}
		}

		n := float64(len(staff))
		s.AvgHours = totalHours / n
		s.AvgShifts = totalShifts / n
		s.HoursSpread = s.MaxHours - s.MinHours
		s.ShiftSpread = s.MaxShifts - s.MinShifts
	}

	s.FairnessScore = fairnessScore(s.HoursSpread, float64(s.ShiftSpread))

	return &Report{Stats: s, Warnings: warnings}
}

// fairnessScore 计算公平性得分并截断到 [0, 100]
func fairnessScore(hoursSpread, shiftSpread float64) float64 {
	score := 100 - hoursSpreadPenalty*hoursSpread - shiftSpreadPenalty*shiftSpread
	return math.Max(0, math.Min(100, score))
}
