package api

import (
	"net"
	"net/http"
	"time"

	"shop-admin/internal/apperr"
	"shop-admin/internal/service"
)

// 认证接口限流参数：按客户端 IP 固定窗口计数
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute

	forgotRateLimit  = 5
	forgotRateWindow = 15 * time.Minute
)

// Login 用户登录
//
// 路由: POST /api/v1/auth/login
//
// 凭证无效时统一返回 401 "Invalid credentials"，不区分
// 用户不存在和密码错误。
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "login:"+clientIP(r), loginRateLimit, loginRateWindow) {
		return
	}

	var req service.LoginInput
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.metrics.RecordLogin("failure")
		writeErr(w, r, err)
		return
	}

	h.metrics.RecordLogin("success")
	writeJSON(w, http.StatusOK, result)
}

// ForgotPassword 找回密码
//
// 路由: POST /api/v1/auth/forgot-password
//
// 为指定邮箱生成一次性验证码并发送。响应不包含验证码。
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "forgot:"+clientIP(r), forgotRateLimit, forgotRateWindow) {
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if _, err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		writeErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "A reset code has been sent to your email.",
	})
}

// ResetPassword 重置密码
//
// 路由: POST /api/v1/auth/reset-password
//
// 校验一次性验证码后写入新密码。新密码不得与当前密码相同。
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "reset:"+clientIP(r), forgotRateLimit, forgotRateWindow) {
		return
	}

	var req service.ResetPasswordInput
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.OTP == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email, OTP and password are required")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	user, err := h.auth.ResetPassword(r.Context(), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	h.metrics.PasswordResets.Inc()
	writeJSON(w, http.StatusOK, user)
}

// allow 执行限流检查，超限时写出 429 并返回 false
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, key string, limit int64, window time.Duration) bool {
	if err := h.limiter.Allow(r.Context(), key, limit, window); err != nil {
		if apperr.IsStatus(err, http.StatusTooManyRequests) {
			h.metrics.RateLimitedTotal.Inc()
		}
		writeErr(w, r, err)
		return false
	}
	return true
}

// clientIP 提取客户端 IP，优先使用反向代理传递的头
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
