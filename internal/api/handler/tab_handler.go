package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/response"
)

// TabHandler 标签页生命周期与快照读取
type TabHandler struct {
	tabSvc service.TabService
}

// NewTabHandler 创建 TabHandler
func NewTabHandler(tabSvc service.TabService) *TabHandler {
	return &TabHandler{tabSvc: tabSvc}
}

// Open 打开标签页；请求体可带刷新前的令牌以恢复原标签页
// POST /api/v1/tabs
func (h *TabHandler) Open(c *gin.Context) {
	var req dto.OpenTabRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	opened, err := h.tabSvc.Open(c.Request.Context(), req.ResumeToken)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, &dto.OpenTabResponse{
		TabID:     opened.Tab.ID(),
		Token:     opened.Token,
		ExpiresIn: int(opened.ExpiresIn.Seconds()),
		Resumed:   opened.Resumed,
		State:     service.StateResponse(opened.Tab),
	})
}

// Close 关闭当前标签页
// DELETE /api/v1/tabs/current
func (h *TabHandler) Close(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	jti, exp := tokenInfo(c)
	if err := h.tabSvc.Close(c.Request.Context(), tab.ID(), jti, exp); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// State 当前快照
// GET /api/v1/state
func (h *TabHandler) State(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	response.OK(c, service.StateResponse(tab))
}

// Stream 以 SSE 推送快照变化；连接建立时先推送一次
// GET /api/v1/state/stream
func (h *TabHandler) Stream(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	changes, cancel := tab.Watch()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("state", service.StateResponse(tab))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case _, open := <-changes:
			if !open {
				return false
			}
			c.SSEvent("state", service.StateResponse(tab))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
