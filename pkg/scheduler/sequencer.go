// Package scheduler 提供周排班引擎
package scheduler

import (
	"sort"

	"github.com/paigong/paigong/pkg/model"
)

// InterleaveSlots 生成槽位处理顺序：按天轮转交错
// 避免先排满前几天耗尽可用性最高的员工，再处理后几天
func InterleaveSlots(slots []model.ShiftSlot) []model.ShiftSlot {
	if len(slots) == 0 {
		return nil
	}

	// 按日期分组
	byDate := make(map[string][]model.ShiftSlot)
	for _, slot := range slots {
		byDate[slot.Date] = append(byDate[slot.Date], slot)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	// 每天内按开始时间排序，并记录单日最大槽位数
	maxPerDay := 0
	for _, date := range dates {
		group := byDate[date]
		sort.Slice(group, func(i, j int) bool {
			if group[i].StartTime != group[j].StartTime {
				return group[i].StartTime < group[j].StartTime
			}
			return group[i].ShiftID < group[j].ShiftID
		})
		byDate[date] = group
		if len(group) > maxPerDay {
			maxPerDay = len(group)
		}
	}

	// 轮转发射：第 round 轮取每天的第 round 个槽位
	result := make([]model.ShiftSlot, 0, len(slots))
	for round := 0; round < maxPerDay; round++ {
		for _, date := range dates {
			group := byDate[date]
			if round < len(group) {
				result = append(result, group[round])
			}
		}
	}

	return result
}
