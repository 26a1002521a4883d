// Package attendance 提供GPS打卡校验
//
// 校验器只做判定不做落库：距离、自拍、迟到各自独立评估，
// 拒绝原因以列表返回给调用方展示。迟到仅记录，不影响打卡是否通过。
package attendance

import (
	"fmt"
	"time"

	"github.com/paigong/paigong/pkg/model"
)

// DefaultMaxDistanceMeters 默认打卡半径（米）
const DefaultMaxDistanceMeters = 200.0

// 拒绝原因
const (
	ReasonOutOfRange    = "out_of_range"
	ReasonSelfieMissing = "selfie_missing"
)

// CheckIn 一次打卡请求
type CheckIn struct {
	StaffID   string         `json:"staff_id"`
	Location  model.Location `json:"location"`
	SelfieURL string         `json:"selfie_url,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// CheckInResult 打卡判定结果
type CheckInResult struct {
	Accepted       bool     `json:"accepted"`
	DistanceMeters float64  `json:"distance_meters"`
	Late           bool     `json:"late"`
	LateBy         string   `json:"late_by,omitempty"`
	Reasons        []string `json:"reasons,omitempty"`
}

// Verifier 打卡校验器
type Verifier struct {
	MaxDistanceMeters float64        // 门店打卡半径（米），0 使用默认值
	RequireSelfie     bool           // 是否必须附带自拍
	LateGrace         time.Duration  // 迟到宽限
	Zone              *time.Location // 门店所在时区，nil 按UTC解释班次时间
}

// Verify 对照门店位置和当天班次判定一次打卡
// 超出半径或缺少必需自拍时拒绝，迟到不拒绝只标记
func (v *Verifier) Verify(c CheckIn, store model.Location, slot model.ShiftSlot) CheckInResult {
	maxDist := v.MaxDistanceMeters
	if maxDist <= 0 {
		maxDist = DefaultMaxDistanceMeters
	}

	result := CheckInResult{
		DistanceMeters: store.DistanceMeters(c.Location),
	}

	if result.DistanceMeters > maxDist {
		result.Reasons = append(result.Reasons, ReasonOutOfRange)
	}
	if v.RequireSelfie && c.SelfieURL == "" {
		result.Reasons = append(result.Reasons, ReasonSelfieMissing)
	}
	result.Accepted = len(result.Reasons) == 0

	if lateBy := v.lateBy(c.Timestamp, slot); lateBy > 0 {
		result.Late = true
		result.LateBy = lateBy.String()
	}

	return result
}

// lateBy 计算打卡时间超出班次开始时间加宽限后的时长
// 班次时间不可解析时视为不迟到
func (v *Verifier) lateBy(ts time.Time, slot model.ShiftSlot) time.Duration {
	start, err := shiftStart(slot, v.Zone)
	if err != nil {
		return 0
	}
	deadline := start.Add(v.LateGrace)
	if ts.After(deadline) {
		return ts.Sub(deadline)
	}
	return 0
}

// shiftStart 把槽位的日期和开始时间按门店时区拼成时间点
// 打卡时间戳可能带任意时区，比较发生在绝对时间轴上
func shiftStart(slot model.ShiftSlot, zone *time.Location) (time.Time, error) {
	if zone == nil {
		zone = time.UTC
	}
	return time.ParseInLocation(model.DateLayout+" "+model.TimeLayout,
		fmt.Sprintf("%s %s", slot.Date, slot.StartTime), zone)
}
