// Package scheduler 提供周排班引擎
//
// 引擎是单遍启发式流水线：交错排序 → 两轮贪心分配 → 有界局部搜索 → 统计校验。
// 一次调用处理一周，所有工作状态按调用新建，不同门店可并发调用。
package scheduler

import (
	"math/rand"
	"time"

	"github.com/paigong/paigong/pkg/logger"
	"github.com/paigong/paigong/pkg/model"
	"github.com/paigong/paigong/pkg/stats"
)

// Options 引擎选项
type Options struct {
	// AllowMultipleShiftsPerDay 是否允许一人一天多班
	// 当前算法不把它作为硬过滤：第二轮仍可产生同日双班，仅靠评分惩罚抑制
	AllowMultipleShiftsPerDay bool

	// OptimizerMaxIterations 局部优化最大迭代轮数，0 表示使用默认值
	OptimizerMaxIterations int

	// Rand 评分扰动使用的随机源，为 nil 时按当前时间播种
	// 测试中注入固定种子可获得完全确定的结果
	Rand *rand.Rand
}

// Engine 周排班引擎
type Engine struct {
	opts Options
	log  *logger.RosterLogger
}

// New 创建引擎
func New(opts Options) *Engine {
	if opts.OptimizerMaxIterations <= 0 {
		opts.OptimizerMaxIterations = DefaultOptimizerIterations
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		opts: opts,
		log:  logger.NewRosterLogger(),
	}
}

// Generate 生成一周排班
// 对任何输入都不返回错误：空需求产生空结果，缺失的可用性视为不可用，
// 排不满的槽位以警告形式返回
func (e *Engine) Generate(slots []model.ShiftSlot, avail model.Availability, staffIDs []string) *model.Result {
	start := time.Now()

	weekStart := ""
	if len(slots) > 0 {
		weekStart = model.WeekStart(slots[0].Date)
	}
	e.log.StartGenerate(weekStart, len(staffIDs), len(slots))

	sequence := InterleaveSlots(slots)
	st := newState(staffIDs)

	asgn := &assigner{rng: e.opts.Rand, log: e.log}
	warnings := asgn.run(sequence, avail, st)

	opt := &optimizer{maxIterations: e.opts.OptimizerMaxIterations, log: e.log}
	opt.run(sequence, avail, st)

	report := stats.Build(slots, staffIDs, st.assignments, st.hours, st.shiftCounts)
	warnings = append(warnings, report.Warnings...)

	e.log.GenerateComplete(time.Since(start), report.Stats.CoveragePercent, report.Stats.FairnessScore)

	return &model.Result{
		Assignments:      st.assignments,
		Warnings:         warnings,
		Stats:            report.Stats,
		StaffHours:       st.hours,
		StaffShiftCounts: st.shiftCounts,
	}
}
