package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/response"
)

// FleetHandler 车队管理 HTTP 处理器
type FleetHandler struct {
	fleetSvc service.FleetService
}

// NewFleetHandler 创建 FleetHandler
func NewFleetHandler(fleetSvc service.FleetService) *FleetHandler {
	return &FleetHandler{fleetSvc: fleetSvc}
}

// List 车队列表
// GET /api/v1/fleet
func (h *FleetHandler) List(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	response.OK(c, h.fleetSvc.List(tab))
}

// Create 新增车辆
// POST /api/v1/fleet
func (h *FleetHandler) Create(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.VehicleRequest
	if !bindJSON(c, &req) {
		return
	}
	vehicle, err := h.fleetSvc.Create(c.Request.Context(), tab, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, vehicle)
}

// Update 更新车辆
// PUT /api/v1/fleet/:id
func (h *FleetHandler) Update(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.VehicleRequest
	if !bindJSON(c, &req) {
		return
	}
	vehicle, err := h.fleetSvc.Update(c.Request.Context(), tab, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, vehicle)
}

// Delete 删除车辆（同时移出面板）
// DELETE /api/v1/fleet/:id
func (h *FleetHandler) Delete(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	if err := h.fleetSvc.Delete(c.Request.Context(), tab, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
