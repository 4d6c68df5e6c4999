package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/response"
)

// ViewHandler 只读视图与全局警报
type ViewHandler struct {
	viewSvc service.ViewService
}

// NewViewHandler 创建 ViewHandler
func NewViewHandler(viewSvc service.ViewService) *ViewHandler {
	return &ViewHandler{viewSvc: viewSvc}
}

// Availability 可用警员与按等级过滤的车辆
// GET /api/v1/views/availability
func (h *ViewHandler) Availability(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	response.OK(c, h.viewSvc.Availability(tab))
}

// Counts 页眉计数
// GET /api/v1/views/counts
func (h *ViewHandler) Counts(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	response.OK(c, h.viewSvc.Counts(tab))
}

// Progress 警员培训进度
// GET /api/v1/views/progress/:officerId
func (h *ViewHandler) Progress(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	resp, err := h.viewSvc.Progress(tab, c.Param("officerId"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Alert 当前用户视角下的全局警报
// GET /api/v1/alert
func (h *ViewHandler) Alert(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	response.OK(c, h.viewSvc.Alert(tab))
}

// IgnoreAlert 忽略警报（需在确认窗口内点击两次）
// POST /api/v1/alert/ignore
func (h *ViewHandler) IgnoreAlert(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	resp, err := h.viewSvc.IgnoreAlert(tab)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}
