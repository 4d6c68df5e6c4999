package dispatch

import (
	"fmt"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// RemoveOptions 控制从哪些位置移除警员
type RemoveOptions struct {
	ClearVehicles bool
	ClearHeader   bool
}

// AssignToSeat 将警员放入面板车辆的指定座位
// 警员总是先离开其他所有座位；低于阈值时同时离开指挥席位。
// 目标座位上的原占用者被直接覆盖（不交换）。
func AssignToSeat(s *model.AppState, env Env, vehicleID string, seatIndex int, officerID string) (*model.AppState, error) {
	gi := s.GridIndex(vehicleID)
	if gi < 0 {
		return s, ErrVehicleNotOnGrid
	}
	if seatIndex < 0 || seatIndex >= seatCount(s.Vehicles[gi]) {
		return s, ErrSeatOutOfRange
	}
	officer, ok := s.FindOfficer(officerID)
	if !ok {
		return s, ErrOfficerNotFound
	}

	out := s.Clone()
	removeFromAll(out, officerID, RemoveOptions{
		ClearVehicles: true,
		ClearHeader:   IsExclusiveAcrossSeatsAndRoles(officer.Rank),
	})

	v := &out.Vehicles[gi]
	v.Seats = fitSeats(v.Seats, seatCount(*v))
	previous := v.Seats[seatIndex]
	v.Seats[seatIndex] = officerID

	meta := map[string]any{
		"officerId": officerID,
		"vehicleId": vehicleID,
		"seat":      seatIndex + 1,
	}
	if previous != "" {
		meta["replacedOfficerId"] = previous
	}
	env.record(out, LogEntry{
		Category:  model.LogCategoryDispatch,
		EventType: model.EventOfficerAssignedVehicle,
		Details:   fmt.Sprintf("%s assigned to %s (seat %d)", officer.DisplayName(), v.Name, seatIndex+1),
		Metadata:  meta,
	})
	return out, nil
}

// AssignToHeaderRole 将警员放入指挥席位
// 警员总是先离开其他所有席位；低于阈值时同时离开车辆座位。
func AssignToHeaderRole(s *model.AppState, env Env, role model.HeaderRole, officerID string) (*model.AppState, error) {
	if !role.Valid() {
		return s, ErrUnknownHeaderRole
	}
	officer, ok := s.FindOfficer(officerID)
	if !ok {
		return s, ErrOfficerNotFound
	}

	out := s.Clone()
	removeFromAll(out, officerID, RemoveOptions{
		ClearVehicles: IsExclusiveAcrossSeatsAndRoles(officer.Rank),
		ClearHeader:   true,
	})
	previous := out.HeaderRoles[role]
	out.HeaderRoles[role] = officerID

	meta := map[string]any{"officerId": officerID, "role": string(role)}
	if previous != "" {
		meta["replacedOfficerId"] = previous
	}
	env.record(out, LogEntry{
		Category:  model.LogCategoryDispatch,
		EventType: model.EventOfficerAssignedHeader,
		Details:   fmt.Sprintf("%s assigned to %s", officer.DisplayName(), role),
		Metadata:  meta,
	})
	return out, nil
}

// RemoveFromAllPositions 按选项把警员从车辆座位和/或指挥席位移除，与警衔无关
func RemoveFromAllPositions(s *model.AppState, officerID string, opts RemoveOptions) *model.AppState {
	out := s.Clone()
	removeFromAll(out, officerID, opts)
	return out
}

// UnassignOfficer 拖回侧栏：从所有位置移除并记录日志
func UnassignOfficer(s *model.AppState, env Env, officerID string) (*model.AppState, error) {
	officer, ok := s.FindOfficer(officerID)
	if !ok {
		return s, ErrOfficerNotFound
	}
	out := s.Clone()
	removeFromAll(out, officerID, RemoveOptions{ClearVehicles: true, ClearHeader: true})
	env.record(out, LogEntry{
		Category:  model.LogCategoryDispatch,
		EventType: model.EventOfficerUnassigned,
		Details:   fmt.Sprintf("%s returned to roster", officer.DisplayName()),
		Metadata:  map[string]any{"officerId": officerID},
	})
	return out, nil
}

// ClearVehicle 清空车辆所有座位，状态保持不变
func ClearVehicle(s *model.AppState, env Env, vehicleID string) (*model.AppState, error) {
	gi := s.GridIndex(vehicleID)
	if gi < 0 {
		return s, ErrVehicleNotOnGrid
	}
	out := s.Clone()
	v := &out.Vehicles[gi]
	v.Seats = make([]string, seatCount(*v))
	env.record(out, LogEntry{
		Category:  model.LogCategoryDispatch,
		EventType: model.EventVehicleCleared,
		Details:   fmt.Sprintf("%s cleared", v.Name),
		Metadata:  map[string]any{"vehicleId": vehicleID},
	})
	return out, nil
}

// ClearHeaderRole 置空一个指挥席位
func ClearHeaderRole(s *model.AppState, env Env, role model.HeaderRole) (*model.AppState, error) {
	if !role.Valid() {
		return s, ErrUnknownHeaderRole
	}
	out := s.Clone()
	out.HeaderRoles[role] = ""
	env.record(out, LogEntry{
		Category:  model.LogCategoryDispatch,
		EventType: model.EventHeaderCleared,
		Details:   fmt.Sprintf("%s cleared", role),
		Metadata:  map[string]any{"role": string(role)},
	})
	return out, nil
}

func removeFromAll(s *model.AppState, officerID string, opts RemoveOptions) {
	if officerID == "" {
		return
	}
	if opts.ClearVehicles {
		for i := range s.Vehicles {
			for j, id := range s.Vehicles[i].Seats {
				if id == officerID {
					s.Vehicles[i].Seats[j] = ""
				}
			}
		}
	}
	if opts.ClearHeader {
		for role, id := range s.HeaderRoles {
			if id == officerID {
				s.HeaderRoles[role] = ""
			}
		}
	}
}

// seatCount 座位数以容量为准，容量缺失时退回现有座位长度
func seatCount(v model.GridVehicle) int {
	if v.Capacity > 0 {
		return v.Capacity
	}
	return len(v.Seats)
}

// fitSeats 把座位数组补齐或截断到 n
func fitSeats(seats []string, n int) []string {
	if len(seats) == n {
		return seats
	}
	out := make([]string, n)
	copy(out, seats)
	return out
}
