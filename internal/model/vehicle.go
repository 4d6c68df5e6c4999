package model

import "time"

// VehicleCategory 车辆类别（固定枚举）
type VehicleCategory string

const (
	CategoryStreife  VehicleCategory = "Streife"
	CategoryZivil    VehicleCategory = "Zivil"
	CategorySUV      VehicleCategory = "SUV"
	CategoryMotorrad VehicleCategory = "Motorrad"
	CategoryAir      VehicleCategory = "Air"
	CategorySpezial  VehicleCategory = "Spezial"
)

// VehicleStatus 车辆无线电状态码；空值表示无状态
type VehicleStatus string

const (
	StatusNone  VehicleStatus = ""
	StatusCode1 VehicleStatus = "Code 1"
	StatusCode2 VehicleStatus = "Code 2"
	StatusCode3 VehicleStatus = "Code 3"
	StatusCode4 VehicleStatus = "Code 4"
	StatusCode5 VehicleStatus = "Code 5"
	StatusCode6 VehicleStatus = "Code 6"
	StatusCode7 VehicleStatus = "Code 7"

	// StatusShotsFired 开枪警报状态码
	StatusShotsFired = StatusCode7
)

// Valid 是否为已知状态码
func (s VehicleStatus) Valid() bool {
	switch s {
	case StatusNone, StatusCode1, StatusCode2, StatusCode3, StatusCode4, StatusCode5, StatusCode6, StatusCode7:
		return true
	}
	return false
}

// CheckupItem 检修清单项
type CheckupItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// Vehicle 车队主档：身份与维护字段
type Vehicle struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     VehicleCategory `json:"category"`
	LicensePlate string          `json:"licensePlate"`
	Capacity     int             `json:"capacity"`
	Mileage      int             `json:"mileage"`
	LastCheckup  *time.Time      `json:"lastCheckup"`
	NextCheckup  *time.Time      `json:"nextCheckup"`
	CheckupItems []CheckupItem   `json:"checkupList"`
}

// Clone 深拷贝
func (v Vehicle) Clone() Vehicle {
	out := v
	if v.LastCheckup != nil {
		t := *v.LastCheckup
		out.LastCheckup = &t
	}
	if v.NextCheckup != nil {
		t := *v.NextCheckup
		out.NextCheckup = &t
	}
	if v.CheckupItems != nil {
		out.CheckupItems = append([]CheckupItem(nil), v.CheckupItems...)
	}
	return out
}

// GridVehicle 调度面板上的车辆：主档字段 + 仅在面板上存在的座位、状态、频道、呼号
type GridVehicle struct {
	Vehicle
	Seats       []string      `json:"seats"` // 警员 ID，空字符串表示空座
	Status      VehicleStatus `json:"status"`
	FunkChannel string        `json:"funk"`
	Callsign    string        `json:"callsign"`
}

// Clone 深拷贝
func (g GridVehicle) Clone() GridVehicle {
	out := g
	out.Vehicle = g.Vehicle.Clone()
	out.Seats = append([]string(nil), g.Seats...)
	return out
}

// Occupied 是否至少有一个座位有人
func (g GridVehicle) Occupied() bool {
	for _, id := range g.Seats {
		if id != "" {
			return true
		}
	}
	return false
}

// OccupantIDs 按座位顺序返回在座警员 ID
func (g GridVehicle) OccupantIDs() []string {
	var ids []string
	for _, id := range g.Seats {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
