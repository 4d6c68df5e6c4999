package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportLogs 导出 IT 日志
// GET /api/v1/export/logs.xlsx
func (h *ExportHandler) ExportLogs(c *gin.Context) {
	h.download(c, h.exportSvc.ExportLogs, contentTypeXLSX)
}

// ExportRoster 导出花名册
// GET /api/v1/export/roster.xlsx
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	h.download(c, h.exportSvc.ExportRoster, contentTypeXLSX)
}

// ExportCalendar 导出检修与证照到期日历
// GET /api/v1/export/checkups.ics
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	h.download(c, h.exportSvc.ExportCalendar, contentTypeICS)
}

func (h *ExportHandler) download(c *gin.Context, export func(*model.AppState) (*bytes.Buffer, string, error), contentType string) {
	tab, ok := MustGetTab(c)
	if !ok {
		return
	}
	buf, filename, err := export(tab.State())
	if err != nil {
		handleError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
