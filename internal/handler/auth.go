package handler

import (
	"net/http"

	"github.com/paigong/paigong/internal/auth"
	"github.com/paigong/paigong/internal/repository"
	apperrors "github.com/paigong/paigong/pkg/errors"
	"github.com/paigong/paigong/pkg/logger"
)

// AuthHandler 登录处理器
type AuthHandler struct {
	staff  repository.StaffStore
	tokens *auth.Manager
}

// NewAuthHandler 创建登录处理器
func NewAuthHandler(staff repository.StaffStore, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{staff: staff, tokens: tokens}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token   string `json:"token"`
	StaffID string `json:"staff_id"`
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
}

// Login 手机号加口令登录，签发会话令牌
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	staff, err := h.staff.GetByPhone(r.Context(), req.Phone)
	if err != nil || !auth.CheckPassword(staff.PasswordHash, req.Password) {
		// 不区分账号不存在和口令错误
		respondError(w, apperrors.New(apperrors.CodeUnauthorized, "手机号或口令错误"))
		return
	}

	token, err := h.tokens.Issue(staff.ID, staff.StoreID)
	if err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInternal, "签发令牌失败"))
		return
	}

	logger.WithContext(r.Context()).Info().
		Str("staff_id", staff.ID.String()).
		Msg("员工登录")

	respondJSON(w, http.StatusOK, LoginResponse{
		Token:   token,
		StaffID: staff.ID.String(),
		StoreID: staff.StoreID.String(),
		Name:    staff.Name,
	})
}
