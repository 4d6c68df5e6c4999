package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/response"
)

// DispatchHandler 调度面板 HTTP 处理器
// 所有变更返回变更后的完整快照。
type DispatchHandler struct {
	dispatchSvc service.DispatchService
}

// NewDispatchHandler 创建 DispatchHandler
func NewDispatchHandler(dispatchSvc service.DispatchService) *DispatchHandler {
	return &DispatchHandler{dispatchSvc: dispatchSvc}
}

func (h *DispatchHandler) reply(c *gin.Context, state *model.AppState, err error) {
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, state)
}

// AssignSeat 分配座位（覆盖原有乘员）
// POST /api/v1/dispatch/seats
func (h *DispatchHandler) AssignSeat(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.AssignSeatRequest
	if !bindJSON(c, &req) {
		return
	}
	state, err := h.dispatchSvc.AssignSeat(c.Request.Context(), tab, &req)
	h.reply(c, state, err)
}

// AssignHeader 分配指挥席位
// POST /api/v1/dispatch/header
func (h *DispatchHandler) AssignHeader(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.AssignHeaderRequest
	if !bindJSON(c, &req) {
		return
	}
	state, err := h.dispatchSvc.AssignHeader(c.Request.Context(), tab, &req)
	h.reply(c, state, err)
}

// Unassign 将警员移出所有座位与席位
// POST /api/v1/dispatch/unassign
func (h *DispatchHandler) Unassign(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.UnassignRequest
	if !bindJSON(c, &req) {
		return
	}
	state, err := h.dispatchSvc.Unassign(c.Request.Context(), tab, req.OfficerID)
	h.reply(c, state, err)
}

// ClearVehicle 清空车辆座位
// DELETE /api/v1/dispatch/vehicles/:id/seats
func (h *DispatchHandler) ClearVehicle(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	state, err := h.dispatchSvc.ClearVehicle(c.Request.Context(), tab, c.Param("id"))
	h.reply(c, state, err)
}

// ClearHeader 清空指挥席位
// DELETE /api/v1/dispatch/header/:role
func (h *DispatchHandler) ClearHeader(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	state, err := h.dispatchSvc.ClearHeader(c.Request.Context(), tab, c.Param("role"))
	h.reply(c, state, err)
}

// SetStatus 设置车辆状态码
// PUT /api/v1/dispatch/vehicles/:id/status
func (h *DispatchHandler) SetStatus(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.SetStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	state, err := h.dispatchSvc.SetStatus(c.Request.Context(), tab, c.Param("id"), &req)
	h.reply(c, state, err)
}

// SetFunk 设置车辆无线电频道
// PUT /api/v1/dispatch/vehicles/:id/funk
func (h *DispatchHandler) SetFunk(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.SetFunkRequest
	if !bindJSON(c, &req) {
		return
	}
	state, err := h.dispatchSvc.SetFunk(c.Request.Context(), tab, c.Param("id"), &req)
	h.reply(c, state, err)
}

// SetCallsign 设置车辆呼号
// PUT /api/v1/dispatch/vehicles/:id/callsign
func (h *DispatchHandler) SetCallsign(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.SetCallsignRequest
	if !bindJSON(c, &req) {
		return
	}
	state, err := h.dispatchSvc.SetCallsign(c.Request.Context(), tab, c.Param("id"), &req)
	h.reply(c, state, err)
}

// AddToGrid 将车队车辆放上面板
// POST /api/v1/dispatch/grid
func (h *DispatchHandler) AddToGrid(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.AddToGridRequest
	if !bindJSON(c, &req) {
		return
	}
	state, err := h.dispatchSvc.AddToGrid(c.Request.Context(), tab, req.VehicleID)
	h.reply(c, state, err)
}

// RemoveFromGrid 将车辆移出面板
// DELETE /api/v1/dispatch/grid/:id
func (h *DispatchHandler) RemoveFromGrid(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	state, err := h.dispatchSvc.RemoveFromGrid(c.Request.Context(), tab, c.Param("id"))
	h.reply(c, state, err)
}

// TogglePin 切换车辆置顶
// POST /api/v1/dispatch/vehicles/:id/pin
func (h *DispatchHandler) TogglePin(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	state, err := h.dispatchSvc.TogglePin(c.Request.Context(), tab, c.Param("id"))
	h.reply(c, state, err)
}
