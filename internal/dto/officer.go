package dto

import "time"

// ── 人事模块 DTO ──

// LicenseRequest 证照
type LicenseRequest struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"        binding:"required"`
	Issuer     string    `json:"issued_by"`
	IssueDate  time.Time `json:"issue_date"  binding:"required"`
	ExpiryDate time.Time `json:"expiry_date" binding:"required"`
}

// OfficerRequest 新增或更新警员档案
type OfficerRequest struct {
	BadgeNumber     string           `json:"badge_number"     binding:"required,max=16"`
	FirstName       string           `json:"first_name"       binding:"required,max=50"`
	LastName        string           `json:"last_name"        binding:"required,max=50"`
	Phone           string           `json:"phone_number"     binding:"omitempty,max=32"`
	Gender          string           `json:"gender"           binding:"omitempty,oneof=male female other"`
	Rank            string           `json:"rank"`
	DepartmentRoles []string         `json:"department_roles"`
	Licenses        []LicenseRequest `json:"licenses"         binding:"dive"`
	AssignedFTOID   string           `json:"assigned_fto_id"`
	// 仅新增时使用：同时创建登录凭据
	Username string `json:"username"`
	Password string `json:"password"`
}

// SanctionRequest 登记处分
type SanctionRequest struct {
	Type   string `json:"sanction_type" binding:"required,max=50"`
	Reason string `json:"reason"        binding:"required,max=500"`
}

// CompleteTrainingRequest 标记培训完成
type CompleteTrainingRequest struct {
	OfficerID string `json:"officer_id" binding:"required"`
}
