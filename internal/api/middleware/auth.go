package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/jwt"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/response"
)

// 上下文键
const (
	CtxTab       = "tab"
	CtxTabID     = "tab_id"
	CtxJTI       = "token_jti"
	CtxTokenExp  = "token_exp"
	tokenQuery   = "token"
	bearerPrefix = "Bearer"
)

// TabAuth 标签页令牌中间件
// 从 Authorization: Bearer <token> 提取令牌；EventSource 无法设置请求头，允许 ?token= 兜底。
// blacklist 为 nil 时不检查黑名单。
func TabAuth(jwtMgr *jwt.Manager, tabs service.TabService, blacklist service.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			response.Unauthorized(c, response.CodeUnauthenticated, "缺少标签页令牌")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, response.CodeUnauthenticated, "令牌无效或已过期")
			c.Abort()
			return
		}
		if claims.TokenType != "tab" {
			response.Unauthorized(c, response.CodeUnauthenticated, "令牌类型无效")
			c.Abort()
			return
		}

		if blacklist != nil {
			// Redis 出错时降级放行
			if revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
				response.Unauthorized(c, response.CodeUnauthenticated, "标签页已关闭")
				c.Abort()
				return
			}
		}

		tab, err := tabs.Get(claims.TabID)
		if err != nil {
			response.Unauthorized(c, response.CodeUnauthenticated, "标签页已关闭")
			c.Abort()
			return
		}

		c.Set(CtxTab, tab)
		c.Set(CtxTabID, claims.TabID)
		c.Set(CtxJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if q := c.Query(tokenQuery); q != "" {
		return q, true
	}
	return "", false
}

// RequireLogin 要求标签页已登录
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tab, ok := tabFrom(c)
		if !ok || tab.CurrentUser() == nil {
			response.Unauthorized(c, response.CodeUnauthenticated, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleAuth 部门角色中间件：当前用户拥有任一角色即可；admin 总是放行
// 对应界面上按角色显示的页面。
func RoleAuth(allowed ...model.DepartmentRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		tab, ok := tabFrom(c)
		if !ok {
			response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
			c.Abort()
			return
		}
		u := tab.CurrentUser()
		if u == nil {
			response.Unauthorized(c, response.CodeUnauthenticated, "请先登录")
			c.Abort()
			return
		}

		if u.HasRole(model.RoleAdmin) {
			c.Next()
			return
		}
		for _, r := range allowed {
			if u.HasRole(r) {
				c.Next()
				return
			}
		}

		response.Forbidden(c, response.CodeForbidden, "无权限访问")
		c.Abort()
	}
}

func tabFrom(c *gin.Context) (*service.Tab, bool) {
	v, exists := c.Get(CtxTab)
	if !exists {
		return nil, false
	}
	tab, ok := v.(*service.Tab)
	return tab, ok && tab != nil
}
