package dto

// ── 调度面板 DTO ──

// AssignSeatRequest 分配座位
type AssignSeatRequest struct {
	VehicleID string `json:"vehicle_id" binding:"required"`
	SeatIndex *int   `json:"seat_index" binding:"required,min=0"`
	OfficerID string `json:"officer_id" binding:"required"`
}

// AssignHeaderRequest 分配指挥席位
type AssignHeaderRequest struct {
	Role      string `json:"role"       binding:"required,oneof=dispatch co-dispatch air1 air2"`
	OfficerID string `json:"officer_id" binding:"required"`
}

// UnassignRequest 将警员移出所有位置
type UnassignRequest struct {
	OfficerID string `json:"officer_id" binding:"required"`
}

// SetStatusRequest 设置车辆状态码；空字符串清除状态
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetFunkRequest 设置车辆无线电频道
type SetFunkRequest struct {
	Funk string `json:"funk" binding:"required"`
}

// SetCallsignRequest 设置车辆呼号；允许为空
type SetCallsignRequest struct {
	Callsign string `json:"callsign" binding:"max=32"`
}

// AddToGridRequest 将车队车辆放上面板
type AddToGridRequest struct {
	VehicleID string `json:"vehicle_id" binding:"required"`
}
