package api

import (
	"net/http"

	"shop-admin/internal/service"
)

// Me 获取当前用户信息
//
// 路由: GET /api/v1/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateMe 更新当前用户资料
//
// 路由: PUT /api/v1/me
//
// 只更新请求中提供的字段，邮箱和角色不可自助修改。
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req service.UpdateProfileInput
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteMe 删除当前用户账户
//
// 路由: DELETE /api/v1/me
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.users.DeleteAccount(r.Context(), userID); err != nil {
		writeErr(w, r, err)
		return
	}
	h.metrics.RecordEntityWrite("user", "delete")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

// ChangeMyPassword 修改当前用户密码
//
// 路由: PATCH /api/v1/me/change-password
func (h *Handler) ChangeMyPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req service.ChangePasswordInput
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Current password and new password are required")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	if err := h.users.ChangePassword(r.Context(), userID, req); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
