package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"shop-admin/internal/model"
)

// 免认证路由白名单（前缀匹配）
var publicPrefixes = []string{
	"/api/v1/auth/",
	"/health",
	"/metrics",
}

// 免认证路由精确匹配（目录读取接口开放给店面）
var publicExact = map[string]bool{
	"GET /api/v1/categories": true,
	"GET /api/v1/products":   true,
}

func isPublicRoute(method, path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	if publicExact[method+" "+path] {
		return true
	}
	// 目录详情接口：GET /categories/{id}、/categories/{id}/products、/products/{id}
	if method == "GET" &&
		(strings.HasPrefix(path, "/api/v1/categories/") || strings.HasPrefix(path, "/api/v1/products/")) {
		return true
	}
	return false
}

// Middleware 创建 JWT 认证中间件
//
// 公开路由直接放行；其余请求要求 Bearer 令牌，解析后将
// AuthUser 注入 context。未激活账户的令牌视为无效。
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicRoute(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"message":"no token provided"}`, http.StatusBadRequest)
				return
			}
			token := authHeader
			if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = parts[1]
			}
			if token == "" {
				http.Error(w, `{"message":"no token provided"}`, http.StatusBadRequest)
				return
			}

			claims, err := ParseToken(cfg, token)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					http.Error(w, `{"message":"please provide a valid token"}`, http.StatusUnauthorized)
					return
				}
				log.Printf("[auth] token parse error: %v", err)
				http.Error(w, `{"message":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			if !claims.IsActive {
				http.Error(w, `{"message":"account is currently not active"}`, http.StatusUnauthorized)
				return
			}

			user := &AuthUser{
				ID:       claims.Subject,
				Email:    claims.Email,
				IsActive: claims.IsActive,
				Role:     claims.Role,
			}
			next.ServeHTTP(w, r.WithContext(WithAuthUser(r.Context(), user)))
		})
	}
}

// RequireRole 角色许可列表守卫
//
// 角色检查用显式 allow-list，不做任何继承或层级推断。
func RequireRole(allowed ...model.UserRole) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user := GetAuthUser(r.Context())
			if user == nil {
				http.Error(w, `{"message":"no token provided"}`, http.StatusBadRequest)
				return
			}
			for _, role := range allowed {
				if user.Role == role {
					next(w, r)
					return
				}
			}
			http.Error(w, `{"message":"access denied for `+string(user.Role)+`"}`, http.StatusForbidden)
		}
	}
}

// AdminOnly 管理员专属路由中间件
func AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return RequireRole(model.UserRoleAdmin)(next)
}
