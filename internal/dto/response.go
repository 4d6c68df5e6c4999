package dto

import (
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// ── 标签页 ──

// OpenTabRequest 打开标签页请求（可选）
type OpenTabRequest struct {
	ResumeToken string `json:"resume_token"`
}

// OpenTabResponse 新开标签页响应
type OpenTabResponse struct {
	TabID     string         `json:"tab_id"`
	Token     string         `json:"token"`
	ExpiresIn int            `json:"expires_in"` // 令牌有效期（秒）
	Resumed   bool           `json:"resumed"`
	State     *StateResponse `json:"state"`
}

// StateResponse 标签页快照
type StateResponse struct {
	State  *model.AppState `json:"state"`
	Synced bool            `json:"synced"` // "已同步" 提示是否显示
	Alert  AlertResponse   `json:"alert"`
}

// AlertResponse 当前用户看到的全局警报
type AlertResponse struct {
	Phase      string                 `json:"phase"`
	Alert      *model.ShotsFiredAlert `json:"alert,omitempty"`
	Visible    bool                   `json:"visible"`
	Confirming bool                   `json:"confirming"`
}

// ── 认证 ──

// MeResponse 当前登录警员
type MeResponse struct {
	Officer  model.Officer     `json:"officer"`
	Position dispatch.Position `json:"position"`
}

// ── 视图 ──

// AvailabilityResponse 可调度警员
type AvailabilityResponse struct {
	Available []model.Officer `json:"available"`
	Total     int             `json:"total"`
}

// LicenseStatusResponse 证照及其有效状态
type LicenseStatusResponse struct {
	License model.License         `json:"license"`
	Status  dispatch.LicenseState `json:"status"`
}

// ProgressResponse 警员个人进度
type ProgressResponse struct {
	OfficerID string                  `json:"officer_id"`
	Checklist dispatch.Progress       `json:"checklist"`
	Training  dispatch.Progress       `json:"training"`
	Licenses  []LicenseStatusResponse `json:"licenses"`
	OnDuty    bool                    `json:"on_duty"`
}

// ── 导入 ──

// ImportRosterResponse 花名册导入结果
type ImportRosterResponse struct {
	Total   int                 `json:"total"`
	Success int                 `json:"success"`
	Failed  int                 `json:"failed"`
	Errors  []ImportRosterError `json:"errors,omitempty"`
}

// ImportRosterError 导入错误详情
type ImportRosterError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// AddError 记录一行导入失败
func (r *ImportRosterResponse) AddError(row int, reason string) {
	r.Failed++
	r.Errors = append(r.Errors, ImportRosterError{Row: row, Reason: reason})
}
