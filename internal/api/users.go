package api

import (
	"net/http"

	"shop-admin/internal/service"
)

// ListUsers 分页列出用户
//
// 路由: GET /api/v1/users
//
// 支持 role / is_active 过滤和 search 搜索（姓名、邮箱）。
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.users.GetAll(r.Context(), parsePage(r), parseQuery(r))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// CreateUser 创建用户
//
// 路由: POST /api/v1/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserInput
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "Full name, email and password are required")
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.metrics.RecordEntityWrite("user", "create")
	writeJSON(w, http.StatusCreated, user)
}

// GetUser 获取用户详情
//
// 路由: GET /api/v1/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ToggleUserActive 翻转用户激活状态
//
// 路由: PATCH /api/v1/users/{id}/toggle-active
func (h *Handler) ToggleUserActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.users.ToggleActive(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.metrics.RecordEntityWrite("user", "toggle_active")
	writeJSON(w, http.StatusOK, user)
}
