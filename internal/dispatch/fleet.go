package dispatch

import (
	"fmt"
	"strings"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

func validateVehicle(v model.Vehicle) error {
	if strings.TrimSpace(v.Name) == "" {
		return ErrInvalidVehicle
	}
	if v.Capacity != 2 && v.Capacity != 4 {
		return ErrInvalidCapacity
	}
	switch v.Category {
	case model.CategoryStreife, model.CategoryZivil, model.CategorySUV,
		model.CategoryMotorrad, model.CategoryAir, model.CategorySpezial:
		return nil
	}
	return ErrUnknownCategory
}

// AddFleetVehicle 新增车队主档车辆（不自动放上面板）
func AddFleetVehicle(s *model.AppState, env Env, v model.Vehicle) (*model.AppState, error) {
	if err := validateVehicle(v); err != nil {
		return s, err
	}
	if v.ID == "" {
		v.ID = env.id()
	}
	if s.FleetIndex(v.ID) >= 0 {
		return s, ErrVehicleExists
	}
	out := s.Clone()
	out.MasterFleet = append(out.MasterFleet, v.Clone())
	env.record(out, LogEntry{
		Category:  model.LogCategoryFleet,
		EventType: model.EventVehicleCreated,
		Details:   fmt.Sprintf("%s (%s) added to fleet", v.Name, v.LicensePlate),
		Metadata:  map[string]any{"vehicleId": v.ID},
	})
	return out, nil
}

// UpdateFleetVehicle 更新主档；身份与维护字段同步到面板副本，面板字段保留
// 容量缩小时超出的座位被丢弃。
func UpdateFleetVehicle(s *model.AppState, env Env, v model.Vehicle) (*model.AppState, error) {
	fi := s.FleetIndex(v.ID)
	if fi < 0 {
		return s, ErrVehicleNotInFleet
	}
	if err := validateVehicle(v); err != nil {
		return s, err
	}
	out := s.Clone()
	out.MasterFleet[fi] = v.Clone()
	if gi := out.GridIndex(v.ID); gi >= 0 {
		gv := &out.Vehicles[gi]
		gv.Vehicle = v.Clone()
		gv.Seats = fitSeats(gv.Seats, v.Capacity)
	}
	env.record(out, LogEntry{
		Category:  model.LogCategoryFleet,
		EventType: model.EventVehicleUpdated,
		Details:   fmt.Sprintf("%s updated", v.Name),
		Metadata:  map[string]any{"vehicleId": v.ID},
	})
	return out, nil
}

// DeleteFleetVehicle 删除主档车辆，同时移出面板
func DeleteFleetVehicle(s *model.AppState, env Env, vehicleID string) (*model.AppState, error) {
	fi := s.FleetIndex(vehicleID)
	if fi < 0 {
		return s, ErrVehicleNotInFleet
	}
	out := s.Clone()
	name := out.MasterFleet[fi].Name
	dropFromGrid(out, vehicleID)
	out.MasterFleet = append(out.MasterFleet[:fi], out.MasterFleet[fi+1:]...)
	env.record(out, LogEntry{
		Category:  model.LogCategoryFleet,
		EventType: model.EventVehicleDeleted,
		Details:   fmt.Sprintf("%s removed from fleet", name),
		Metadata:  map[string]any{"vehicleId": vehicleID},
	})
	return out, nil
}
