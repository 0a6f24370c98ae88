// Package api 提供 HTTP API 处理器
//
// 本包实现了后台管理系统的 RESTful API，包括：
//   - 认证（登录 / 找回密码 / 重置密码）接口
//   - 当前用户（Me）接口
//   - 用户管理（User）接口
//   - 分类管理（Category）接口
//   - 商品管理（Product）接口
//
// 文件组织：
//   - common.go: 通用工具函数和 Handler 定义
//   - handler.go: 路由注册
//   - auth.go: 认证相关接口
//   - me.go: 当前用户接口
//   - users.go: 用户管理接口
//   - categories.go: 分类管理接口
//   - products.go: 商品管理接口
//   - metrics.go: Prometheus 指标
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"shop-admin/internal/apperr"
	"shop-admin/internal/auth"
	"shop-admin/internal/config"
	"shop-admin/internal/model"
	"shop-admin/internal/objstore"
	"shop-admin/internal/ratelimit"
	"shop-admin/internal/service"
	"shop-admin/internal/storage/mongostore"
	"shop-admin/pkg/logging"
)

// Handler API 处理器
//
// Handler 是所有 HTTP API 的入口，负责：
//   - 路由请求到对应的处理函数
//   - 将查询参数解析为服务层输入
//   - 将业务错误映射为 HTTP 状态码
type Handler struct {
	cfg        *config.Config
	auth       *service.AuthService
	users      *service.UserService
	categories *service.CategoryService
	products   *service.ProductService
	objects    *objstore.Client   // 对象存储，可为 nil（图片上传关闭）
	limiter    *ratelimit.Limiter // 限流器，可为 nil（限流关闭）
	metrics    *Metrics
	logger     *logging.Logger
}

// NewHandler 创建 Handler 实例
func NewHandler(cfg *config.Config, store *mongostore.Store, objects *objstore.Client, limiter *ratelimit.Limiter) *Handler {
	users := service.NewUserService(store, cfg.Auth)
	categories := service.NewCategoryService(store)
	return &Handler{
		cfg:        cfg,
		auth:       service.NewAuthService(store, users, cfg.Auth),
		users:      users,
		categories: categories,
		products:   service.NewProductService(store, categories),
		objects:    objects,
		limiter:    limiter,
		metrics:    NewMetrics("shop_admin"),
		logger:     logging.Default("api"),
	}
}

// Health 健康检查接口
//
// 路由: GET /health
//
// 用于负载均衡器和监控系统检查服务状态。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON 将数据以 JSON 格式写入 HTTP 响应
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError 将错误信息以 JSON 格式写入 HTTP 响应
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeErr 将业务错误映射为 HTTP 响应
//
// *apperr.Error 按其状态码和消息输出；其余错误视为内部错误，
// 细节仅记录日志，响应固定为 500 + 通用消息。
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Printf("[api] %s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}

// decodeBody 解析 JSON 请求体
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pathID 解析路径中的 {id} 为 ObjectID
func pathID(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return bson.ObjectID{}, false
	}
	return id, true
}

// currentUserID 从认证上下文取当前用户 ObjectID
func currentUserID(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	user := auth.GetAuthUser(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return bson.ObjectID{}, false
	}
	id, err := bson.ObjectIDFromHex(user.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return bson.ObjectID{}, false
	}
	return id, true
}

// parsePage 解析 limit / offset 查询参数，缺省为每页 10 条从头开始
func parsePage(r *http.Request) mongostore.PageOptions {
	page := mongostore.DefaultPage()
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			page.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			page.Offset = n
		}
	}
	return page
}

// parseQuery 解析列表过滤与排序查询参数
func parseQuery(r *http.Request) service.QueryOptions {
	q := r.URL.Query()
	opts := service.QueryOptions{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Role:     model.UserRole(q.Get("role")),
		SortBy:   q.Get("sort_by"),
	}
	if v := q.Get("in_stock"); v != "" {
		b := v == "true" || v == "1"
		opts.InStock = &b
	}
	if v := q.Get("is_active"); v != "" {
		b := v == "true" || v == "1"
		opts.IsActive = &b
	}
	if strings.EqualFold(q.Get("sort_order"), "asc") {
		opts.SortOrder = mongostore.SortAsc
	} else {
		opts.SortOrder = mongostore.SortDesc
	}
	return opts
}
