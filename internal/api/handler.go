package api

import (
	"net/http"

	"shop-admin/internal/auth"
)

// Router 构建完整的 HTTP 路由
//
// 中间件链：指标采集 → JWT 认证 → 访问日志 → 业务处理器。
// 写接口在注册处用 AdminOnly 显式守卫，读接口的公开性由
// 认证中间件的白名单决定。
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 健康检查与指标
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", MetricsHandler())

	// 认证接口
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("POST /api/v1/auth/forgot-password", h.ForgotPassword)
	mux.HandleFunc("POST /api/v1/auth/reset-password", h.ResetPassword)

	// 当前用户接口
	mux.HandleFunc("GET /api/v1/me", h.Me)
	mux.HandleFunc("PUT /api/v1/me", h.UpdateMe)
	mux.HandleFunc("DELETE /api/v1/me", h.DeleteMe)
	mux.HandleFunc("PATCH /api/v1/me/change-password", h.ChangeMyPassword)

	// 用户管理接口（仅管理员）
	mux.HandleFunc("GET /api/v1/users", auth.AdminOnly(h.ListUsers))
	mux.HandleFunc("POST /api/v1/users", auth.AdminOnly(h.CreateUser))
	mux.HandleFunc("GET /api/v1/users/{id}", auth.AdminOnly(h.GetUser))
	mux.HandleFunc("PATCH /api/v1/users/{id}/toggle-active", auth.AdminOnly(h.ToggleUserActive))

	// 分类接口（读公开，写仅管理员）
	mux.HandleFunc("GET /api/v1/categories", h.ListCategories)
	mux.HandleFunc("POST /api/v1/categories", auth.AdminOnly(h.CreateCategory))
	mux.HandleFunc("GET /api/v1/categories/{id}", h.GetCategory)
	mux.HandleFunc("PUT /api/v1/categories/{id}", auth.AdminOnly(h.UpdateCategory))
	mux.HandleFunc("DELETE /api/v1/categories/{id}", auth.AdminOnly(h.DeleteCategory))
	mux.HandleFunc("PATCH /api/v1/categories/{id}/toggle-status", auth.AdminOnly(h.ToggleCategoryStatus))
	mux.HandleFunc("GET /api/v1/categories/{id}/products", h.ListCategoryProducts)

	// 商品接口（读公开，写仅管理员）
	mux.HandleFunc("GET /api/v1/products", h.ListProducts)
	mux.HandleFunc("POST /api/v1/products", auth.AdminOnly(h.CreateProduct))
	mux.HandleFunc("GET /api/v1/products/{id}", h.GetProduct)
	mux.HandleFunc("PUT /api/v1/products/{id}", auth.AdminOnly(h.UpdateProduct))
	mux.HandleFunc("DELETE /api/v1/products/{id}", auth.AdminOnly(h.DeleteProduct))
	mux.HandleFunc("PATCH /api/v1/products/{id}/toggle-stock", auth.AdminOnly(h.ToggleProductStock))
	mux.HandleFunc("POST /api/v1/products/{id}/image", auth.AdminOnly(h.UploadProductImage))
	mux.HandleFunc("GET /api/v1/products/{id}/image", h.DownloadProductImage)

	var handler http.Handler = mux
	handler = h.accessLog(handler)
	handler = auth.Middleware(h.cfg.Auth)(handler)
	handler = h.metrics.MetricsMiddleware(handler)
	return handler
}
