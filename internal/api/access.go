package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"shop-admin/internal/auth"
	"shop-admin/pkg/logging"
)

// accessLog 记录每个请求的结构化访问日志
//
// 需要挂在认证中间件之后，日志中才能带上当前用户 ID。
func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := context.WithValue(r.Context(), logging.RequestIDKey, newRequestID())
		r = r.WithContext(ctx)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		entry := h.logger.WithContext(r.Context()).WithDuration(time.Since(start))
		if u := auth.GetAuthUser(r.Context()); u != nil {
			entry = entry.WithUserID(u.ID)
		}
		entry.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
		)
	})
}

// newRequestID 生成随机请求 ID
func newRequestID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}
