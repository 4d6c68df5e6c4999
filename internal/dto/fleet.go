package dto

import "time"

// ── 车队模块 DTO ──

// CheckupItemRequest 检修清单项
type CheckupItemRequest struct {
	ID    string `json:"id"`
	Label string `json:"label" binding:"required"`
	Done  bool   `json:"done"`
}

// VehicleRequest 新增或更新车队车辆
type VehicleRequest struct {
	Name         string               `json:"name"          binding:"required,max=64"`
	Category     string               `json:"category"      binding:"required"`
	LicensePlate string               `json:"license_plate" binding:"max=16"`
	Capacity     int                  `json:"capacity"      binding:"required,oneof=2 4"`
	Mileage      int                  `json:"mileage"       binding:"min=0"`
	LastCheckup  *time.Time           `json:"last_checkup"`
	NextCheckup  *time.Time           `json:"next_checkup"`
	CheckupItems []CheckupItemRequest `json:"checkup_list"  binding:"dive"`
}
