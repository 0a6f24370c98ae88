package api

import (
	"net/http"

	"shop-admin/internal/auth"
	"shop-admin/internal/service"
)

// ListCategories 分页列出分类
//
// 路由: GET /api/v1/categories
//
// 每个分类附带创建者、前 5 个商品预览和商品总数。
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, err := h.categories.GetAll(r.Context(), parsePage(r), parseQuery(r))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// CreateCategory 创建分类
//
// 路由: POST /api/v1/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCategoryInput
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	category, err := h.categories.Create(r.Context(), auth.GetAuthUser(r.Context()), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.metrics.RecordEntityWrite("category", "create")
	writeJSON(w, http.StatusCreated, category)
}

// GetCategory 获取分类详情
//
// 路由: GET /api/v1/categories/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	category, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// UpdateCategory 更新分类
//
// 路由: PUT /api/v1/categories/{id}
//
// 名称变更时重新派生 label 并检查唯一性。
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.CreateCategoryInput
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.categories.Update(r.Context(), id, req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.metrics.RecordEntityWrite("category", "update")
	writeJSON(w, http.StatusOK, category)
}

// DeleteCategory 删除分类
//
// 路由: DELETE /api/v1/categories/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	category, err := h.categories.Delete(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.metrics.RecordEntityWrite("category", "delete")
	writeJSON(w, http.StatusOK, category)
}

// ToggleCategoryStatus 翻转分类激活状态
//
// 路由: PATCH /api/v1/categories/{id}/toggle-status
func (h *Handler) ToggleCategoryStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	category, err := h.categories.ToggleStatus(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.metrics.RecordEntityWrite("category", "toggle_status")
	writeJSON(w, http.StatusOK, category)
}

// ListCategoryProducts 分页列出分类下的商品
//
// 路由: GET /api/v1/categories/{id}/products
func (h *Handler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	// 确认分类存在，否则返回统一的 404 消息
	if _, err := h.categories.GetByID(r.Context(), id); err != nil {
		writeErr(w, r, err)
		return
	}

	q := parseQuery(r)
	q.Category = id.Hex()
	page, err := h.products.GetAll(r.Context(), parsePage(r), q)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
