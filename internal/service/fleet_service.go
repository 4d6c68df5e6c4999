package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// FleetService 车队主档业务接口
type FleetService interface {
	List(tab *Tab) []model.Vehicle
	Create(ctx context.Context, tab *Tab, req *dto.VehicleRequest) (*model.Vehicle, error)
	Update(ctx context.Context, tab *Tab, vehicleID string, req *dto.VehicleRequest) (*model.Vehicle, error)
	Delete(ctx context.Context, tab *Tab, vehicleID string) error
}

type fleetService struct {
	logger *zap.Logger
}

// NewFleetService 创建 FleetService 实例
func NewFleetService(logger *zap.Logger) FleetService {
	return &fleetService{logger: logger}
}

func (s *fleetService) List(tab *Tab) []model.Vehicle {
	return tab.State().MasterFleet
}

func (s *fleetService) Create(ctx context.Context, tab *Tab, req *dto.VehicleRequest) (*model.Vehicle, error) {
	v := vehicleFromRequest(req)
	state, err := tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		v.ID = env.NewID()
		fillCheckupIDs(&v, env)
		return dispatch.AddFleetVehicle(st, env, v)
	})
	if err != nil {
		return nil, err
	}
	created := state.MasterFleet[state.FleetIndex(v.ID)]
	s.logger.Info("车辆已加入车队", zap.String("vehicle_id", created.ID), zap.String("name", created.Name))
	return &created, nil
}

func (s *fleetService) Update(ctx context.Context, tab *Tab, vehicleID string, req *dto.VehicleRequest) (*model.Vehicle, error) {
	v := vehicleFromRequest(req)
	v.ID = vehicleID
	state, err := tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		fillCheckupIDs(&v, env)
		return dispatch.UpdateFleetVehicle(st, env, v)
	})
	if err != nil {
		return nil, err
	}
	updated := state.MasterFleet[state.FleetIndex(vehicleID)]
	return &updated, nil
}

func (s *fleetService) Delete(ctx context.Context, tab *Tab, vehicleID string) error {
	if _, err := tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.DeleteFleetVehicle(st, env, vehicleID)
	}); err != nil {
		return err
	}
	s.logger.Info("车辆已从车队删除", zap.String("vehicle_id", vehicleID))
	return nil
}

func vehicleFromRequest(req *dto.VehicleRequest) model.Vehicle {
	v := model.Vehicle{
		Name:         strings.TrimSpace(req.Name),
		Category:     model.VehicleCategory(req.Category),
		LicensePlate: strings.ToUpper(strings.TrimSpace(req.LicensePlate)),
		Capacity:     req.Capacity,
		Mileage:      req.Mileage,
		LastCheckup:  req.LastCheckup,
		NextCheckup:  req.NextCheckup,
	}
	for _, it := range req.CheckupItems {
		v.CheckupItems = append(v.CheckupItems, model.CheckupItem{ID: it.ID, Label: it.Label, Done: it.Done})
	}
	return v
}

func fillCheckupIDs(v *model.Vehicle, env dispatch.Env) {
	for i := range v.CheckupItems {
		if v.CheckupItems[i].ID == "" {
			v.CheckupItems[i].ID = env.NewID()
		}
	}
}
