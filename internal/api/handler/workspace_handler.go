package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/response"
)

// WorkspaceHandler 个人工作区：打卡、清单、邮箱
type WorkspaceHandler struct {
	workspaceSvc service.WorkspaceService
}

// NewWorkspaceHandler 创建 WorkspaceHandler
func NewWorkspaceHandler(workspaceSvc service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceSvc: workspaceSvc}
}

// ClockIn 上班打卡
// POST /api/v1/workspace/clock-in
func (h *WorkspaceHandler) ClockIn(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	state, err := h.workspaceSvc.ClockIn(c.Request.Context(), tab)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, state.TimeClockState)
}

// ClockOut 下班打卡
// POST /api/v1/workspace/clock-out
func (h *WorkspaceHandler) ClockOut(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	state, err := h.workspaceSvc.ClockOut(c.Request.Context(), tab)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, state.TimeClockState)
}

// SetChecklist 保存警员入职清单
// PUT /api/v1/officers/:id/checklist
func (h *WorkspaceHandler) SetChecklist(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.SetChecklistRequest
	if !bindJSON(c, &req) {
		return
	}
	items, err := h.workspaceSvc.SetChecklist(c.Request.Context(), tab, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, items)
}

// Inbox 当前用户收件箱
// GET /api/v1/mail
func (h *WorkspaceHandler) Inbox(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	msgs, err := h.workspaceSvc.Inbox(tab)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, msgs)
}

// SendMail 发送站内信
// POST /api/v1/mail
func (h *WorkspaceHandler) SendMail(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.SendMailRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.workspaceSvc.SendMail(c.Request.Context(), tab, &req); err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, nil)
}

// MarkRead 标记已读
// POST /api/v1/mail/:id/read
func (h *WorkspaceHandler) MarkRead(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	if err := h.workspaceSvc.MarkRead(c.Request.Context(), tab, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// DeleteMail 删除站内信
// DELETE /api/v1/mail/:id
func (h *WorkspaceHandler) DeleteMail(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	if err := h.workspaceSvc.DeleteMail(c.Request.Context(), tab, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
