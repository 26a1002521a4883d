package handler

import (
	"net/http"

	apperrors "github.com/paigong/paigong/pkg/errors"
	"github.com/paigong/paigong/pkg/model"
	"github.com/paigong/paigong/pkg/payroll"
)

// PayrollHandler 薪酬结算处理器
type PayrollHandler struct {
	calculator *payroll.Calculator
}

// NewPayrollHandler 创建薪酬处理器
func NewPayrollHandler(calculator *payroll.Calculator) *PayrollHandler {
	return &PayrollHandler{calculator: calculator}
}

// PayrollRequest 薪酬结算请求
type PayrollRequest struct {
	HourlyRate float64                  `json:"hourly_rate" validate:"required,gt=0"`
	Shifts     []ShiftInput             `json:"shifts" validate:"required,min=1,dive"`
	Entries    []payroll.TimesheetEntry `json:"entries" validate:"required,min=1"`
}

// PayrollResponse 薪酬结算响应
type PayrollResponse struct {
	Summaries []payroll.StaffSummary `json:"summaries"`
}

// Summarize 结算一个周期的打卡流水
func (h *PayrollHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req PayrollRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	slots := make(map[string]model.ShiftSlot, len(req.Shifts))
	for _, s := range req.Shifts {
		slots[s.ID] = model.NewShiftSlot("", s.ID, s.Name, s.StartTime, s.EndTime, 0)
	}

	summaries, err := h.calculator.Summarize(req.Entries, slots, req.HourlyRate)
	if err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "结算失败"))
		return
	}

	respondJSON(w, http.StatusOK, PayrollResponse{Summaries: summaries})
}
