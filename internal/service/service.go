package service

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/config"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/repository"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/jwt"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/metrics"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/pubsub"
)

// Deps Service 层依赖；Blacklist 与 Audit 可为 nil
type Deps struct {
	Config    *config.Config
	Repo      *repository.Repository
	Bus       pubsub.Bus
	JWT       *jwt.Manager
	Blacklist TokenBlacklist
	Audit     AuditSink
	Clock     clock.Clock
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Service 所有 Service 的聚合入口
type Service struct {
	Tabs      TabService
	Auth      AuthService
	Dispatch  DispatchService
	Officer   OfficerService
	Fleet     FleetService
	Workspace WorkspaceService
	View      ViewService
	Export    ExportService
}

// NewService 创建 Service 聚合
func NewService(deps Deps) *Service {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	return &Service{
		Tabs:      NewTabService(deps),
		Auth:      NewAuthService(deps.Repo, deps.Logger),
		Dispatch:  NewDispatchService(deps.Logger),
		Officer:   NewOfficerService(deps.Logger),
		Fleet:     NewFleetService(deps.Logger),
		Workspace: NewWorkspaceService(deps.Logger),
		View:      NewViewService(deps.Clock),
		Export:    NewExportService(deps.Clock, deps.Logger),
	}
}
