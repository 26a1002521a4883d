package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paigong/paigong/internal/repository"
	apperrors "github.com/paigong/paigong/pkg/errors"
)

// ShareLinkHandler 排班分享处理器
type ShareLinkHandler struct {
	schedules repository.ScheduleStore
	links     repository.ShareLinkStore
	ttl       time.Duration
}

// NewShareLinkHandler 创建分享处理器
func NewShareLinkHandler(schedules repository.ScheduleStore, links repository.ShareLinkStore, ttl time.Duration) *ShareLinkHandler {
	return &ShareLinkHandler{schedules: schedules, links: links, ttl: ttl}
}

// CreateShareRequest 创建分享请求
type CreateShareRequest struct {
	ScheduleID string `json:"schedule_id" validate:"required,uuid"`
}

// CreateShareResponse 创建分享响应
type CreateShareResponse struct {
	Code      string    `json:"code"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Create 为已有排班创建分享链接
// 链接内容是创建时刻的冻结快照，之后重新生成排班不影响已分享内容
func (h *ShareLinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req CreateShareRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		respondError(w, apperrors.InvalidInput("schedule_id", "不是合法的UUID"))
		return
	}

	schedule, err := h.schedules.GetByID(r.Context(), scheduleID)
	if err != nil {
		respondError(w, err)
		return
	}

	snapshot, err := json.Marshal(schedule)
	if err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInternal, "序列化排班快照失败"))
		return
	}

	link, err := h.links.Create(r.Context(), scheduleID, snapshot, h.ttl)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CreateShareResponse{
		Code:      link.Code,
		URL:       "/api/v1/share/" + link.Code,
		ExpiresAt: link.ExpiresAt,
	})
}

// Resolve 按分享码取回排班快照，无需认证
func (h *ShareLinkHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	code := strings.TrimPrefix(r.URL.Path, "/api/v1/share/")
	if code == "" || strings.Contains(code, "/") {
		respondError(w, apperrors.ErrShareLinkNotFound)
		return
	}

	link, err := h.links.Resolve(r.Context(), code)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(link.Snapshot)
}
