package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 在当前标签页登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	officer, err := h.authSvc.Login(c.Request.Context(), tab, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, officer)
}

// Logout 退出登录
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), tab); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// Me 当前登录警员及其位置
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	me, err := h.authSvc.Me(tab)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, me)
}
