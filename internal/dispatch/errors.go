package dispatch

import "errors"

// ── 调度引擎前置条件错误 ──
// 返回这些错误时快照保持不变，调用方不得广播

var (
	ErrVehicleNotOnGrid     = errors.New("车辆不在调度面板上")
	ErrSeatOutOfRange       = errors.New("座位序号超出车辆容量")
	ErrOfficerNotFound      = errors.New("警员不存在")
	ErrOfficerExists        = errors.New("警员 ID 已存在")
	ErrInvalidOfficer       = errors.New("警员姓名不能为空")
	ErrUnknownRank          = errors.New("未知的警衔")
	ErrUnknownHeaderRole    = errors.New("未知的指挥席位")
	ErrVehicleNotInFleet    = errors.New("车辆不在车队主档中")
	ErrVehicleAlreadyOnGrid = errors.New("车辆已在调度面板上")
	ErrVehicleExists        = errors.New("车辆 ID 已存在")
	ErrInvalidVehicle       = errors.New("车辆名称不能为空")
	ErrInvalidCapacity      = errors.New("车辆容量只能为 2 或 4")
	ErrUnknownCategory      = errors.New("未知的车辆类别")
	ErrUnknownStatus        = errors.New("未知的车辆状态码")
	ErrAlreadyClockedIn     = errors.New("警员已处于上岗状态")
	ErrNotClockedIn         = errors.New("警员未上岗")
	ErrMailNotFound         = errors.New("信件不存在")
	ErrTrainingNotFound     = errors.New("培训模块不存在")
	ErrUsernameTaken        = errors.New("用户名已被占用")
	ErrInvalidCredential    = errors.New("用户名和密码不能为空")
)
