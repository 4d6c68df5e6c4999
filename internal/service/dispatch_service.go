package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// DispatchService 调度面板业务接口
// 每个操作都是 Tab.Update 上的一次引擎调用；前置条件不满足时快照保持不变。
type DispatchService interface {
	AssignSeat(ctx context.Context, tab *Tab, req *dto.AssignSeatRequest) (*model.AppState, error)
	AssignHeader(ctx context.Context, tab *Tab, req *dto.AssignHeaderRequest) (*model.AppState, error)
	Unassign(ctx context.Context, tab *Tab, officerID string) (*model.AppState, error)
	ClearVehicle(ctx context.Context, tab *Tab, vehicleID string) (*model.AppState, error)
	ClearHeader(ctx context.Context, tab *Tab, role string) (*model.AppState, error)
	SetStatus(ctx context.Context, tab *Tab, vehicleID string, req *dto.SetStatusRequest) (*model.AppState, error)
	SetFunk(ctx context.Context, tab *Tab, vehicleID string, req *dto.SetFunkRequest) (*model.AppState, error)
	SetCallsign(ctx context.Context, tab *Tab, vehicleID string, req *dto.SetCallsignRequest) (*model.AppState, error)
	AddToGrid(ctx context.Context, tab *Tab, vehicleID string) (*model.AppState, error)
	RemoveFromGrid(ctx context.Context, tab *Tab, vehicleID string) (*model.AppState, error)
	TogglePin(ctx context.Context, tab *Tab, vehicleID string) (*model.AppState, error)
}

type dispatchService struct {
	logger *zap.Logger
}

// NewDispatchService 创建 DispatchService 实例
func NewDispatchService(logger *zap.Logger) DispatchService {
	return &dispatchService{logger: logger}
}

// apply 执行一次面板变更；前置条件错误按调试级别记录
func (s *dispatchService) apply(ctx context.Context, tab *Tab, op string, fn Mutator) (*model.AppState, error) {
	state, err := tab.Update(ctx, fn)
	if err != nil {
		s.logger.Debug("调度操作被拒绝", zap.String("tab_id", tab.ID()), zap.String("op", op), zap.Error(err))
		return nil, err
	}
	return state, nil
}

func (s *dispatchService) AssignSeat(ctx context.Context, tab *Tab, req *dto.AssignSeatRequest) (*model.AppState, error) {
	return s.apply(ctx, tab, "assign_seat", func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.AssignToSeat(st, env, req.VehicleID, *req.SeatIndex, req.OfficerID)
	})
}

func (s *dispatchService) AssignHeader(ctx context.Context, tab *Tab, req *dto.AssignHeaderRequest) (*model.AppState, error) {
	return s.apply(ctx, tab, "assign_header", func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.AssignToHeaderRole(st, env, model.HeaderRole(req.Role), req.OfficerID)
	})
}

func (s *dispatchService) Unassign(ctx context.Context, tab *Tab, officerID string) (*model.AppState, error) {
	return s.apply(ctx, tab, "unassign", func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.UnassignOfficer(st, env, officerID)
	})
}

func (s *dispatchService) ClearVehicle(ctx context.Context, tab *Tab, vehicleID string) (*model.AppState, error) {
	return s.apply(ctx, tab, "clear_vehicle", func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.ClearVehicle(st, env, vehicleID)
	})
}

func (s *dispatchService) ClearHeader(ctx context.Context, tab *Tab, role string) (*model.AppState, error) {
	return s.apply(ctx, tab, "clear_header", func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.ClearHeaderRole(st, env, model.HeaderRole(role))
	})
}

func (s *dispatchService) SetStatus(ctx context.Context, tab *Tab, vehicleID string, req *dto.SetStatusRequest) (*model.AppState, error) {
	state, err := s.apply(ctx, tab, "set_status", func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.SetVehicleStatus(st, env, vehicleID, model.VehicleStatus(req.Status))
	})
	if err == nil && model.VehicleStatus(req.Status) == model.StatusShotsFired && state.ShotsFiredAlert != nil {
		s.logger.Warn("开枪警报",
			zap.String("vehicle_id", vehicleID),
			zap.String("alert_id", state.ShotsFiredAlert.ID),
			zap.Strings("occupants", state.ShotsFiredAlert.Occupants),
		)
	}
	return state, err
}

func (s *dispatchService) SetFunk(ctx context.Context, tab *Tab, vehicleID string, req *dto.SetFunkRequest) (*model.AppState, error) {
	return s.apply(ctx, tab, "set_funk", func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.SetVehicleFunk(st, env, vehicleID, req.Funk)
	})
}

func (s *dispatchService) SetCallsign(ctx context.Context, tab *Tab, vehicleID string, req *dto.SetCallsignRequest) (*model.AppState, error) {
	return s.apply(ctx, tab, "set_callsign", func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.SetVehicleCallsign(st, env, vehicleID, req.Callsign)
	})
}

func (s *dispatchService) AddToGrid(ctx context.Context, tab *Tab, vehicleID string) (*model.AppState, error) {
	return s.apply(ctx, tab, "add_to_grid", func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.AddVehicleToGrid(st, env, vehicleID)
	})
}

func (s *dispatchService) RemoveFromGrid(ctx context.Context, tab *Tab, vehicleID string) (*model.AppState, error) {
	return s.apply(ctx, tab, "remove_from_grid", func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.RemoveVehicleFromGrid(st, env, vehicleID)
	})
}

func (s *dispatchService) TogglePin(ctx context.Context, tab *Tab, vehicleID string) (*model.AppState, error) {
	return s.apply(ctx, tab, "toggle_pin", func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.TogglePinned(st, env, vehicleID)
	})
}
