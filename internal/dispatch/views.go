package dispatch

import (
	"time"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// LicenseExpiryWarning 证照到期预警窗口
const LicenseExpiryWarning = 30 * 24 * time.Hour

// Position 警员当前所在位置
type Position struct {
	VehicleID  string           `json:"vehicleId,omitempty"`
	Seat       int              `json:"seat"` // 从 0 开始；不在车上时为 -1
	HeaderRole model.HeaderRole `json:"headerRole,omitempty"`
}

// InVehicle 是否在车辆座位上
func (p Position) InVehicle() bool { return p.VehicleID != "" }

// InHeader 是否占据指挥席位
func (p Position) InHeader() bool { return p.HeaderRole != "" }

// PositionOf 查找警员所在的座位与席位
func PositionOf(s *model.AppState, officerID string) Position {
	p := Position{Seat: -1}
	if officerID == "" {
		return p
	}
	for _, v := range s.Vehicles {
		for j, id := range v.Seats {
			if id == officerID {
				p.VehicleID, p.Seat = v.ID, j
				break
			}
		}
		if p.InVehicle() {
			break
		}
	}
	if role, ok := s.HeaderRoles.RoleOf(officerID); ok {
		p.HeaderRole = role
	}
	return p
}

// IsAvailable 警员能否从名册中继续分配
// 高警衔警员仅在座位与席位都被占用时不可用；其余警员在任一被占用时即不可用。
func IsAvailable(s *model.AppState, officer model.Officer) bool {
	p := PositionOf(s, officer.ID)
	if IsExclusiveAcrossSeatsAndRoles(officer.Rank) {
		return !p.InVehicle() && !p.InHeader()
	}
	return !(p.InVehicle() && p.InHeader())
}

// AvailableOfficers 名册中可分配的警员（保持原顺序）
func AvailableOfficers(s *model.AppState) []model.Officer {
	var out []model.Officer
	for _, o := range s.Officers {
		if IsAvailable(s, o) {
			out = append(out, o)
		}
	}
	return out
}

// Occupants 车辆上的警员，按座位顺序；无法解析的 ID 跳过
func Occupants(s *model.AppState, vehicleID string) []model.Officer {
	gi := s.GridIndex(vehicleID)
	if gi < 0 {
		return nil
	}
	var out []model.Officer
	for _, id := range s.Vehicles[gi].OccupantIDs() {
		if o, ok := s.FindOfficer(id); ok {
			out = append(out, o)
		}
	}
	return out
}

// Counts 面板统计
type Counts struct {
	Officers         int                         `json:"officers"`
	Available        int                         `json:"available"`
	OnDuty           int                         `json:"onDuty"`
	VehiclesOnGrid   int                         `json:"vehiclesOnGrid"`
	VehiclesOccupied int                         `json:"vehiclesOccupied"`
	SeatsTotal       int                         `json:"seatsTotal"`
	SeatsFilled      int                         `json:"seatsFilled"`
	HeaderFilled     int                         `json:"headerFilled"`
	ByStatus         map[model.VehicleStatus]int `json:"byStatus"`
}

// BoardCounts 计算面板统计
func BoardCounts(s *model.AppState) Counts {
	c := Counts{
		Officers:       len(s.Officers),
		VehiclesOnGrid: len(s.Vehicles),
		ByStatus:       make(map[model.VehicleStatus]int),
	}
	for _, o := range s.Officers {
		if IsAvailable(s, o) {
			c.Available++
		}
		if s.TimeClockState[o.ID].OnDuty() {
			c.OnDuty++
		}
	}
	for _, v := range s.Vehicles {
		c.SeatsTotal += seatCount(v)
		filled := len(v.OccupantIDs())
		c.SeatsFilled += filled
		if filled > 0 {
			c.VehiclesOccupied++
		}
		c.ByStatus[v.Status]++
	}
	for _, id := range s.HeaderRoles {
		if id != "" {
			c.HeaderFilled++
		}
	}
	return c
}

// Progress 完成进度
type Progress struct {
	Done    int `json:"done"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

func newProgress(done, total int) Progress {
	p := Progress{Done: done, Total: total}
	if total > 0 {
		p.Percent = done * 100 / total
	}
	return p
}

// ChecklistProgress 警员入职清单进度
func ChecklistProgress(s *model.AppState, officerID string) Progress {
	items := s.OfficerChecklists[officerID]
	done := 0
	for _, it := range items {
		if it.Done {
			done++
		}
	}
	return newProgress(done, len(items))
}

// TrainingProgress 分配给警员的培训模块完成进度
func TrainingProgress(s *model.AppState, officerID string) Progress {
	total, done := 0, 0
	for _, m := range s.TrainingModules {
		if !containsString(m.AssignedOfficerIDs, officerID) {
			continue
		}
		total++
		if containsString(m.CompletedOfficerIDs, officerID) {
			done++
		}
	}
	return newProgress(done, total)
}

// LicenseState 证照有效状态
type LicenseState string

const (
	LicenseValid    LicenseState = "valid"
	LicenseExpiring LicenseState = "expiring"
	LicenseExpired  LicenseState = "expired"
)

// LicenseStatus 按到期日判断证照状态
func LicenseStatus(l model.License, now time.Time) LicenseState {
	switch {
	case !l.ExpiryDate.After(now):
		return LicenseExpired
	case l.ExpiryDate.Sub(now) <= LicenseExpiryWarning:
		return LicenseExpiring
	}
	return LicenseValid
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
