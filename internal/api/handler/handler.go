package handler

import "github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Tab       *TabHandler
	Auth      *AuthHandler
	Dispatch  *DispatchHandler
	View      *ViewHandler
	Officer   *OfficerHandler
	Fleet     *FleetHandler
	Workspace *WorkspaceHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Tab:       NewTabHandler(svc.Tabs),
		Auth:      NewAuthHandler(svc.Auth),
		Dispatch:  NewDispatchHandler(svc.Dispatch),
		View:      NewViewHandler(svc.View),
		Officer:   NewOfficerHandler(svc.Officer),
		Fleet:     NewFleetHandler(svc.Fleet),
		Workspace: NewWorkspaceHandler(svc.Workspace),
		Export:    NewExportHandler(svc.Export),
	}
}
