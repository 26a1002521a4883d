package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/paigong/paigong/pkg/attendance"
	apperrors "github.com/paigong/paigong/pkg/errors"
	"github.com/paigong/paigong/pkg/logger"
	"github.com/paigong/paigong/pkg/model"
)

// AttendanceHandler 打卡处理器
type AttendanceHandler struct {
	verifier *attendance.Verifier

	mu       sync.Mutex
	accepted map[string]bool // staffID|date|shiftID → 已打卡
}

// NewAttendanceHandler 创建打卡处理器
func NewAttendanceHandler(verifier *attendance.Verifier) *AttendanceHandler {
	return &AttendanceHandler{
		verifier: verifier,
		accepted: make(map[string]bool),
	}
}

// CheckInRequest 打卡请求
type CheckInRequest struct {
	StaffID   string         `json:"staff_id" validate:"required"`
	SelfieURL string         `json:"selfie_url"`
	Location  model.Location `json:"location" validate:"required"`
	Store     model.Location `json:"store" validate:"required"`
	Shift     struct {
		Date      string `json:"date" validate:"required"`
		ShiftID   string `json:"shift_id" validate:"required"`
		Name      string `json:"name"`
		StartTime string `json:"start_time" validate:"required"`
		EndTime   string `json:"end_time" validate:"required"`
	} `json:"shift" validate:"required"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckIn 处理一次GPS打卡
func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req CheckInRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}

	key := req.StaffID + "|" + req.Shift.Date + "|" + req.Shift.ShiftID
	h.mu.Lock()
	duplicate := h.accepted[key]
	h.mu.Unlock()
	if duplicate {
		respondError(w, apperrors.New(apperrors.CodeDuplicateCheckIn, "该班次已打卡"))
		return
	}

	slot := model.NewShiftSlot(req.Shift.Date, req.Shift.ShiftID, req.Shift.Name,
		req.Shift.StartTime, req.Shift.EndTime, 0)

	result := h.verifier.Verify(attendance.CheckIn{
		StaffID:   req.StaffID,
		Location:  req.Location,
		SelfieURL: req.SelfieURL,
		Timestamp: req.Timestamp,
	}, req.Store, slot)

	logger.WithContext(r.Context()).Info().
		Str("staff_id", req.StaffID).
		Str("date", req.Shift.Date).
		Str("shift_id", req.Shift.ShiftID).
		Bool("accepted", result.Accepted).
		Bool("late", result.Late).
		Float64("distance_m", result.DistanceMeters).
		Msg("打卡")

	if !result.Accepted {
		respondJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	h.mu.Lock()
	h.accepted[key] = true
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, result)
}
