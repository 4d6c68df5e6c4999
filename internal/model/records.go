package model

import "time"

// Sanction 纪律处分记录
type Sanction struct {
	ID        string    `json:"id"`
	OfficerID string    `json:"officerId"`
	Type      string    `json:"sanctionType"`
	Reason    string    `json:"reason"`
	IssuedBy  string    `json:"issuedBy"`
	Timestamp time.Time `json:"timestamp"`
}

// Credential 登录凭据（明文）
type Credential struct {
	ID        string    `json:"id"`
	OfficerID string    `json:"officerId"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// Document 内部文档
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// TrainingModule 培训模块
type TrainingModule struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	AssignedOfficerIDs  []string `json:"assignedOfficerIds"`
	CompletedOfficerIDs []string `json:"completedOfficerIds"`
}

// ChecklistItem 入职清单项
type ChecklistItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// MailboxMessage 内部信箱消息
type MailboxMessage struct {
	ID            string    `json:"id"`
	FromOfficerID string    `json:"fromOfficerId"`
	ToOfficerID   string    `json:"toOfficerId"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	Timestamp     time.Time `json:"timestamp"`
	Read          bool      `json:"read"`
}

// Email 外部邮件
type Email struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// HomepageContent 首页内容
type HomepageContent struct {
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	Announcements []string `json:"announcements"`
}

// RadioChannel 无线电频道定义
type RadioChannel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CallsignEntry 呼号词汇表条目
type CallsignEntry struct {
	Callsign string `json:"callsign"`
	Meaning  string `json:"meaning"`
}

// TimeClockEntry 打卡状态；ClockInTime 为 epoch 毫秒，nil 表示未上岗
type TimeClockEntry struct {
	ClockInTime *int64 `json:"clockInTime"`
}

// OnDuty 是否处于上岗状态
func (e TimeClockEntry) OnDuty() bool {
	return e.ClockInTime != nil
}
