package dispatch

import (
	"fmt"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// SetVehicleStatus 更新车辆状态码
// 在有人的车辆上设置开枪状态会触发全局警报；报警车辆改为其他状态时警报解除。
func SetVehicleStatus(s *model.AppState, env Env, vehicleID string, status model.VehicleStatus) (*model.AppState, error) {
	if !status.Valid() {
		return s, ErrUnknownStatus
	}
	gi := s.GridIndex(vehicleID)
	if gi < 0 {
		return s, ErrVehicleNotOnGrid
	}

	out := s.Clone()
	v := &out.Vehicles[gi]
	previous := v.Status
	v.Status = status

	alerting := out.ShotsFiredAlert != nil && out.ShotsFiredAlert.VehicleID == vehicleID
	switch {
	case status == model.StatusShotsFired && alerting && previous == model.StatusShotsFired:
		// 重复设置同一状态不重新计时
	case status == model.StatusShotsFired && v.Occupied():
		out.ShotsFiredAlert = &model.ShotsFiredAlert{
			ID:          env.id(),
			VehicleID:   v.ID,
			VehicleName: v.Name,
			FunkChannel: v.FunkChannel,
			Occupants:   occupantNames(out, *v),
			StartedAt:   env.Now,
		}
	case status != model.StatusShotsFired && alerting:
		out.ShotsFiredAlert = nil
	}

	env.record(out, LogEntry{
		Category:  model.LogCategoryDispatch,
		EventType: model.EventVehicleStatusUpdated,
		Details:   fmt.Sprintf("%s status changed from %s to %s", v.Name, statusLabel(previous), statusLabel(status)),
		Metadata: map[string]any{
			"vehicleId": vehicleID,
			"from":      string(previous),
			"to":        string(status),
		},
	})
	return out, nil
}

// SetVehicleFunk 设置面板车辆的无线电频道
func SetVehicleFunk(s *model.AppState, env Env, vehicleID, channel string) (*model.AppState, error) {
	gi := s.GridIndex(vehicleID)
	if gi < 0 {
		return s, ErrVehicleNotOnGrid
	}
	out := s.Clone()
	v := &out.Vehicles[gi]
	v.FunkChannel = channel
	env.record(out, LogEntry{
		Category:  model.LogCategoryDispatch,
		EventType: model.EventVehicleFunkUpdated,
		Details:   fmt.Sprintf("%s switched to %s", v.Name, channel),
		Metadata:  map[string]any{"vehicleId": vehicleID, "funk": channel},
	})
	return out, nil
}

// SetVehicleCallsign 设置面板车辆的呼号
func SetVehicleCallsign(s *model.AppState, env Env, vehicleID, callsign string) (*model.AppState, error) {
	gi := s.GridIndex(vehicleID)
	if gi < 0 {
		return s, ErrVehicleNotOnGrid
	}
	out := s.Clone()
	v := &out.Vehicles[gi]
	v.Callsign = callsign
	env.record(out, LogEntry{
		Category:  model.LogCategoryDispatch,
		EventType: model.EventVehicleCallsignUpdated,
		Details:   fmt.Sprintf("%s callsign set to %q", v.Name, callsign),
		Metadata:  map[string]any{"vehicleId": vehicleID, "callsign": callsign},
	})
	return out, nil
}

// AddVehicleToGrid 把车队主档中的车辆放上面板，座位清空并使用默认状态、频道与呼号
func AddVehicleToGrid(s *model.AppState, env Env, vehicleID string) (*model.AppState, error) {
	fi := s.FleetIndex(vehicleID)
	if fi < 0 {
		return s, ErrVehicleNotInFleet
	}
	if s.GridIndex(vehicleID) >= 0 {
		return s, ErrVehicleAlreadyOnGrid
	}
	out := s.Clone()
	gv := NewGridVehicle(out.MasterFleet[fi], out.RadioChannels)
	out.Vehicles = append(out.Vehicles, gv)
	env.record(out, LogEntry{
		Category:  model.LogCategoryFleet,
		EventType: model.EventVehicleAddedToGrid,
		Details:   fmt.Sprintf("%s added to dispatch board", gv.Name),
		Metadata:  map[string]any{"vehicleId": vehicleID},
	})
	return out, nil
}

// RemoveVehicleFromGrid 把车辆移出面板，丢弃座位、状态、频道、呼号与置顶标记
func RemoveVehicleFromGrid(s *model.AppState, env Env, vehicleID string) (*model.AppState, error) {
	gi := s.GridIndex(vehicleID)
	if gi < 0 {
		return s, ErrVehicleNotOnGrid
	}
	out := s.Clone()
	name := out.Vehicles[gi].Name
	dropFromGrid(out, vehicleID)
	env.record(out, LogEntry{
		Category:  model.LogCategoryFleet,
		EventType: model.EventVehicleRemovedFromGrid,
		Details:   fmt.Sprintf("%s removed from dispatch board", name),
		Metadata:  map[string]any{"vehicleId": vehicleID},
	})
	return out, nil
}

// TogglePinned 切换面板车辆的置顶标记
func TogglePinned(s *model.AppState, env Env, vehicleID string) (*model.AppState, error) {
	gi := s.GridIndex(vehicleID)
	if gi < 0 {
		return s, ErrVehicleNotOnGrid
	}
	out := s.Clone()
	pinned := !out.IsPinned(vehicleID)
	if pinned {
		out.PinnedVehicleIDs = append(out.PinnedVehicleIDs, vehicleID)
	} else {
		out.PinnedVehicleIDs = removeString(out.PinnedVehicleIDs, vehicleID)
	}
	env.record(out, LogEntry{
		Category:  model.LogCategoryDispatch,
		EventType: model.EventVehiclePinToggled,
		Details:   fmt.Sprintf("%s pinned=%t", out.Vehicles[gi].Name, pinned),
		Metadata:  map[string]any{"vehicleId": vehicleID, "pinned": pinned},
	})
	return out, nil
}

// NewGridVehicle 由主档生成面板车辆：空座位、无状态、第一个频道、空呼号
func NewGridVehicle(v model.Vehicle, channels []model.RadioChannel) model.GridVehicle {
	gv := model.GridVehicle{
		Vehicle: v.Clone(),
		Status:  model.StatusNone,
	}
	gv.Seats = make([]string, seatCount(gv))
	if len(channels) > 0 {
		gv.FunkChannel = channels[0].Name
	}
	return gv
}

func dropFromGrid(s *model.AppState, vehicleID string) {
	gi := s.GridIndex(vehicleID)
	if gi < 0 {
		return
	}
	s.Vehicles = append(s.Vehicles[:gi], s.Vehicles[gi+1:]...)
	s.PinnedVehicleIDs = removeString(s.PinnedVehicleIDs, vehicleID)
	if s.ShotsFiredAlert != nil && s.ShotsFiredAlert.VehicleID == vehicleID {
		s.ShotsFiredAlert = nil
	}
}

func occupantNames(s *model.AppState, v model.GridVehicle) []string {
	ids := v.OccupantIDs()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if o, ok := s.FindOfficer(id); ok {
			names = append(names, o.DisplayName())
		}
	}
	return names
}

func statusLabel(s model.VehicleStatus) string {
	if s == model.StatusNone {
		return "none"
	}
	return string(s)
}

func removeString(list []string, v string) []string {
	out := list[:0:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
