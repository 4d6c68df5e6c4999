package model

import "time"

// License 证照记录
type License struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Issuer     string    `json:"issuedBy"`
	IssueDate  time.Time `json:"issueDate"`
	ExpiryDate time.Time `json:"expiryDate"`
}

// Officer 警员档案
type Officer struct {
	ID               string           `json:"id"`
	BadgeNumber      string           `json:"badgeNumber"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Phone            string           `json:"phoneNumber"`
	Gender           Gender           `json:"gender"`
	Rank             Rank             `json:"rank"`
	DepartmentRoles  []DepartmentRole `json:"departmentRoles"`
	TotalDutySeconds int64            `json:"totalDutySeconds"`
	Licenses         []License        `json:"licenses"`
	AssignedFTOID    string           `json:"assignedFtoId,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// DisplayName 显示名（审计日志中的操作人）
func (o Officer) DisplayName() string {
	switch {
	case o.FirstName == "":
		return o.LastName
	case o.LastName == "":
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}

// HasRole 是否拥有部门角色
func (o Officer) HasRole(role DepartmentRole) bool {
	for _, r := range o.DepartmentRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Clone 深拷贝
func (o Officer) Clone() Officer {
	out := o
	if o.DepartmentRoles != nil {
		out.DepartmentRoles = append([]DepartmentRole(nil), o.DepartmentRoles...)
	}
	if o.Licenses != nil {
		out.Licenses = append([]License(nil), o.Licenses...)
	}
	return out
}
