// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/paigong/paigong/pkg/errors"
)

// validate 共享的请求校验器
var validate = validator.New()

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperrors.GetHTTPStatus(err))

	body := map[string]interface{}{
		"error":   true,
		"code":    apperrors.GetCode(err),
		"message": err.Error(),
	}
	if appErr, ok := err.(*apperrors.AppError); ok {
		body["message"] = appErr.Message
		if appErr.Details != "" {
			body["details"] = appErr.Details
		}
	}
	json.NewEncoder(w).Encode(body)
}

// decodeAndValidate 解析请求体并执行结构体校验
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败")
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.Wrap(err, apperrors.CodeValidationFail, "请求参数校验失败")
	}
	return nil
}

// requirePost 检查请求方法
func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持POST方法"))
		return false
	}
	return true
}

// requireGet 检查请求方法
func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持GET方法"))
		return false
	}
	return true
}
