package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/paigong/paigong/internal/metrics"
	"github.com/paigong/paigong/internal/repository"
	apperrors "github.com/paigong/paigong/pkg/errors"
	"github.com/paigong/paigong/pkg/model"
	"github.com/paigong/paigong/pkg/scheduler"
)

// ScheduleHandler 排班处理器
type ScheduleHandler struct {
	engine    *scheduler.Engine
	schedules repository.ScheduleStore
	metrics   *metrics.Metrics
}

// NewScheduleHandler 创建排班处理器
func NewScheduleHandler(engine *scheduler.Engine, schedules repository.ScheduleStore, m *metrics.Metrics) *ScheduleHandler {
	return &ScheduleHandler{engine: engine, schedules: schedules, metrics: m}
}

// ShiftInput 班次模板输入
type ShiftInput struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"start_time" validate:"required"` // HH:mm
	EndTime   string `json:"end_time" validate:"required"`   // HH:mm
}

// RequirementInput 某天某班次的用人需求
type RequirementInput struct {
	Date     string `json:"date" validate:"required"`
	ShiftID  string `json:"shift_id" validate:"required"`
	Required int    `json:"required" validate:"gte=0"`
}

// GenerateRequest 排班生成请求
type GenerateRequest struct {
	StoreID      string             `json:"store_id" validate:"required,uuid"`
	WeekStart    string             `json:"week_start" validate:"required"` // YYYY-MM-DD
	StaffIDs     []string           `json:"staff_ids" validate:"required,min=1"`
	Shifts       []ShiftInput       `json:"shifts" validate:"required,min=1,dive"`
	Requirements []RequirementInput `json:"requirements" validate:"required,min=1,dive"`
	// 员工 → 日期 → 班次模板 → 是否可用，缺失视为不可用
	Availability model.Availability `json:"availability"`
}

// GenerateResponse 排班生成响应
type GenerateResponse struct {
	ScheduleID  string            `json:"schedule_id"`
	WeekStart   string            `json:"week_start"`
	Assignments model.Assignments `json:"assignments"`
	Warnings    []model.Warning   `json:"warnings"`
	Stats       *model.Stats      `json:"stats"`
	Duration    string            `json:"duration"`
}

// Generate 生成一周排班并持久化
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req GenerateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		respondError(w, apperrors.InvalidInput("store_id", "不是合法的UUID"))
		return
	}
	if model.ParseDate(req.WeekStart).IsZero() {
		respondError(w, apperrors.New(apperrors.CodeInvalidWeek, "周起始日期格式无效"))
		return
	}
	weekStart := model.WeekStart(req.WeekStart)

	slots, err := buildSlots(req, weekStart)
	if err != nil {
		respondError(w, err)
		return
	}

	start := time.Now()
	result := h.engine.Generate(slots, req.Availability, req.StaffIDs)
	duration := time.Since(start)

	schedule := &repository.Schedule{
		StoreID:     storeID,
		WeekStart:   weekStart,
		Assignments: result.Assignments,
		Warnings:    result.Warnings,
		Stats:       result.Stats,
	}
	if err := h.schedules.Save(r.Context(), schedule); err != nil {
		if h.metrics != nil {
			h.metrics.RecordGenerate("error", duration, 0, 0)
		}
		respondError(w, apperrors.Wrap(err, apperrors.CodeDatabaseError, "保存排班失败"))
		return
	}

	if h.metrics != nil {
		h.metrics.RecordGenerate("ok", duration,
			result.Stats.CoveragePercent, result.Stats.FairnessScore)
	}

	respondJSON(w, http.StatusOK, GenerateResponse{
		ScheduleID:  schedule.ID.String(),
		WeekStart:   weekStart,
		Assignments: result.Assignments,
		Warnings:    result.Warnings,
		Stats:       result.Stats,
		Duration:    duration.String(),
	})
}

// buildSlots 把班次模板和需求展开为槽位列表
func buildSlots(req GenerateRequest, weekStart string) ([]model.ShiftSlot, error) {
	templates := make(map[string]ShiftInput, len(req.Shifts))
	for _, s := range req.Shifts {
		templates[s.ID] = s
	}

	weekDates := make(map[string]bool, 7)
	for _, d := range model.WeekDates(weekStart) {
		weekDates[d] = true
	}

	var slots []model.ShiftSlot
	for _, item := range req.Requirements {
		tpl, ok := templates[item.ShiftID]
		if !ok {
			return nil, apperrors.InvalidInput("requirements", "未知班次模板: "+item.ShiftID)
		}
		if !weekDates[item.Date] {
			return nil, apperrors.New(apperrors.CodeInvalidWeek,
				"需求日期不在目标周内: "+item.Date)
		}
		slots = append(slots, model.NewShiftSlot(
			item.Date, tpl.ID, tpl.Name, tpl.StartTime, tpl.EndTime, item.Required))
	}
	return slots, nil
}

// GetByWeek 查询门店某周的排班
func (h *ScheduleHandler) GetByWeek(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	storeID, err := uuid.Parse(r.URL.Query().Get("store_id"))
	if err != nil {
		respondError(w, apperrors.InvalidInput("store_id", "不是合法的UUID"))
		return
	}
	week := r.URL.Query().Get("week_start")
	if model.ParseDate(week).IsZero() {
		respondError(w, apperrors.New(apperrors.CodeInvalidWeek, "周起始日期格式无效"))
		return
	}

	schedule, err := h.schedules.GetByWeek(r.Context(), storeID, model.WeekStart(week))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, schedule)
}
