package model

import "time"

// ShotsFiredAlert 全局开枪警报载荷
type ShotsFiredAlert struct {
	ID          string    `json:"id"`
	VehicleID   string    `json:"vehicleId"`
	VehicleName string    `json:"vehicleName"`
	FunkChannel string    `json:"funk"`
	Occupants   []string  `json:"occupants"` // 在座警员显示名，按座位顺序
	StartedAt   time.Time `json:"startedAt"`
}

// Clone 深拷贝
func (a *ShotsFiredAlert) Clone() *ShotsFiredAlert {
	if a == nil {
		return nil
	}
	out := *a
	out.Occupants = append([]string(nil), a.Occupants...)
	return &out
}
