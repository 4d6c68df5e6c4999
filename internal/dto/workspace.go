package dto

// ── 个人工作区 DTO ──

// ChecklistItemRequest 入职清单项
type ChecklistItemRequest struct {
	ID    string `json:"id"`
	Label string `json:"label" binding:"required"`
	Done  bool   `json:"done"`
}

// SetChecklistRequest 整体替换入职清单
type SetChecklistRequest struct {
	Items []ChecklistItemRequest `json:"items" binding:"dive"`
}

// SendMailRequest 发送信箱消息
type SendMailRequest struct {
	ToOfficerID string `json:"to_officer_id" binding:"required"`
	Subject     string `json:"subject"       binding:"required,max=200"`
	Body        string `json:"body"          binding:"max=5000"`
}
