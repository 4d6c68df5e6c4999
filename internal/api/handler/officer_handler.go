package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/response"
)

// OfficerHandler 警员档案 HTTP 处理器
type OfficerHandler struct {
	officerSvc service.OfficerService
}

// NewOfficerHandler 创建 OfficerHandler
func NewOfficerHandler(officerSvc service.OfficerService) *OfficerHandler {
	return &OfficerHandler{officerSvc: officerSvc}
}

// List 警员列表
// GET /api/v1/officers
func (h *OfficerHandler) List(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	response.OK(c, h.officerSvc.List(tab))
}

// Get 警员详情
// GET /api/v1/officers/:id
func (h *OfficerHandler) Get(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	officer, err := h.officerSvc.Get(tab, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, officer)
}

// Create 新增警员
// POST /api/v1/officers
func (h *OfficerHandler) Create(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.OfficerRequest
	if !bindJSON(c, &req) {
		return
	}
	officer, err := h.officerSvc.Create(c.Request.Context(), tab, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, officer)
}

// Update 更新警员档案
// PUT /api/v1/officers/:id
func (h *OfficerHandler) Update(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.OfficerRequest
	if !bindJSON(c, &req) {
		return
	}
	officer, err := h.officerSvc.Update(c.Request.Context(), tab, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, officer)
}

// Terminate 解职：移出所有位置并删除档案
// DELETE /api/v1/officers/:id
func (h *OfficerHandler) Terminate(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	if err := h.officerSvc.Terminate(c.Request.Context(), tab, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// AddSanction 登记处分
// POST /api/v1/officers/:id/sanctions
func (h *OfficerHandler) AddSanction(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.SanctionRequest
	if !bindJSON(c, &req) {
		return
	}
	state, err := h.officerSvc.AddSanction(c.Request.Context(), tab, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, state.Sanctions)
}

// CompleteTraining 标记培训模块完成
// POST /api/v1/trainings/:id/complete
func (h *OfficerHandler) CompleteTraining(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	var req dto.CompleteTrainingRequest
	if !bindJSON(c, &req) {
		return
	}
	state, err := h.officerSvc.CompleteTraining(c.Request.Context(), tab, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, state.TrainingModules)
}

// Import 从 Excel 导入花名册
// POST /api/v1/officers/import (multipart/form-data, field="file")
func (h *OfficerHandler) Import(c *gin.Context) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, response.CodeBadRequest, "请上传 Excel 文件")
		return
	}
	defer file.Close()

	rows, err := h.officerSvc.ParseImportFile(file)
	if err != nil {
		handleError(c, err)
		return
	}
	resp, err := h.officerSvc.ImportRoster(c.Request.Context(), tab, rows)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, resp)
}
