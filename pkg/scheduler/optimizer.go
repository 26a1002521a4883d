// Package scheduler 提供周排班引擎
package scheduler

import (
	"github.com/paigong/paigong/pkg/logger"
	"github.com/paigong/paigong/pkg/model"
)

// DefaultOptimizerIterations 局部优化的默认最大迭代轮数
// 启发式上限：到达后直接停止，不保证收敛
const DefaultOptimizerIterations = 20

// optimizer 局部搜索优化器
// 把一天两班员工的班次转移给当天空闲且可用的员工，
// 降低连班数量和工作天数方差，不改变覆盖率
type optimizer struct {
	maxIterations int
	log           *logger.RosterLogger
}

// run 执行有界局部搜索，返回总转移次数
// 采用首次改进策略：每轮找到一次可行转移就重新扫描
func (o *optimizer) run(slots []model.ShiftSlot, avail model.Availability, st *state) int {
	moves := 0
	for iter := 0; iter < o.maxIterations; iter++ {
		if !o.pass(slots, avail, st) {
			break
		}
		moves++
		o.log.OptimizerPass(iter, moves)
	}
	return moves
}

// pass 扫描所有槽位，执行第一个可行的转移
func (o *optimizer) pass(slots []model.ShiftSlot, avail model.Availability, st *state) bool {
	for _, slot := range slots {
		for _, from := range st.staff {
			// 只处理一天两班及以上的员工持有的槽位
			if st.assignments.CountOn(from, slot.Date) < 2 {
				continue
			}
			if !st.assignments.Has(from, slot.Date, slot.ShiftID) {
				continue
			}

			for _, to := range st.staff {
				if to == from {
					continue
				}
				if !avail.Available(to, slot.Date, slot.ShiftID) {
					continue
				}
				if st.assignments.CountOn(to, slot.Date) > 0 {
					continue
				}

				st.move(from, to, slot)
				return true
			}
		}
	}
	return false
}
