package model

import "time"

// LogCategory 审计日志分类
type LogCategory string

const (
	LogCategoryDispatch LogCategory = "dispatch"
	LogCategoryFleet    LogCategory = "fleet"
	LogCategoryHR       LogCategory = "hr"
	LogCategoryAuth     LogCategory = "auth"
	LogCategoryDuty     LogCategory = "duty"
	LogCategoryMailbox  LogCategory = "mailbox"
	LogCategoryTraining LogCategory = "training"
)

// 审计事件类型
const (
	EventOfficerAssignedVehicle = "officer_assigned_vehicle"
	EventOfficerAssignedHeader  = "officer_assigned_header"
	EventOfficerUnassigned      = "officer_unassigned"
	EventVehicleCleared         = "vehicle_cleared"
	EventHeaderCleared          = "header_cleared"
	EventVehicleStatusUpdated   = "vehicle_status_updated"
	EventVehicleFunkUpdated     = "vehicle_funk_updated"
	EventVehicleCallsignUpdated = "vehicle_callsign_updated"
	EventVehicleAddedToGrid     = "vehicle_added_to_grid"
	EventVehicleRemovedFromGrid = "vehicle_removed_from_grid"
	EventVehiclePinToggled      = "vehicle_pin_toggled"
	EventVehicleCreated         = "vehicle_created"
	EventVehicleUpdated         = "vehicle_updated"
	EventVehicleDeleted         = "vehicle_deleted"
	EventOfficerCreated         = "officer_created"
	EventOfficerUpdated         = "officer_updated"
	EventOfficerTerminated      = "officer_terminated"
	EventSanctionIssued         = "sanction_issued"
	EventUserLogin              = "user_login"
	EventUserLogout             = "user_logout"
	EventClockIn                = "clock_in"
	EventClockOut               = "clock_out"
	EventChecklistUpdated       = "checklist_updated"
	EventMailSent               = "mail_sent"
	EventTrainingCompleted      = "training_completed"
)

// ITLog 审计日志条目，创建后不再修改
type ITLog struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Actor     string         `json:"user"`
	Category  LogCategory    `json:"category"`
	EventType string         `json:"eventType"`
	Details   string         `json:"details"`
	Metadata  map[string]any `json:"meta,omitempty"`
}
