package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/api/middleware"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/response"
)

// MustGetTab 从 Gin 上下文中安全提取标签页。
// 如果 TabAuth 中间件未注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetTab(c *gin.Context) (*service.Tab, bool) {
	v, exists := c.Get(middleware.CtxTab)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
		return nil, false
	}
	tab, ok := v.(*service.Tab)
	if !ok || tab == nil {
		response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
		return nil, false
	}
	return tab, true
}

// tokenInfo 当前令牌的 jti 与过期时间
func tokenInfo(c *gin.Context) (string, time.Time) {
	exp, _ := c.Get(middleware.CtxTokenExp)
	t, _ := exp.(time.Time)
	return c.GetString(middleware.CtxJTI), t
}
