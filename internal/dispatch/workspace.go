package dispatch

import (
	"fmt"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// ClockIn 警员上岗打卡
func ClockIn(s *model.AppState, env Env, officerID string) (*model.AppState, error) {
	officer, ok := s.FindOfficer(officerID)
	if !ok {
		return s, ErrOfficerNotFound
	}
	if s.TimeClockState[officerID].OnDuty() {
		return s, ErrAlreadyClockedIn
	}
	out := s.Clone()
	if out.TimeClockState == nil {
		out.TimeClockState = make(map[string]model.TimeClockEntry)
	}
	ms := env.Now.UnixMilli()
	out.TimeClockState[officerID] = model.TimeClockEntry{ClockInTime: &ms}
	env.record(out, LogEntry{
		Category:  model.LogCategoryDuty,
		EventType: model.EventClockIn,
		Details:   fmt.Sprintf("%s clocked in", officer.DisplayName()),
		Metadata:  map[string]any{"officerId": officerID},
	})
	return out, nil
}

// ClockOut 警员下岗打卡，本次在岗秒数累加到 TotalDutySeconds
func ClockOut(s *model.AppState, env Env, officerID string) (*model.AppState, error) {
	idx := s.OfficerIndex(officerID)
	if idx < 0 {
		return s, ErrOfficerNotFound
	}
	entry := s.TimeClockState[officerID]
	if !entry.OnDuty() {
		return s, ErrNotClockedIn
	}
	elapsed := (env.Now.UnixMilli() - *entry.ClockInTime) / 1000
	if elapsed < 0 {
		elapsed = 0
	}

	out := s.Clone()
	o := &out.Officers[idx]
	o.TotalDutySeconds += elapsed
	out.TimeClockState[officerID] = model.TimeClockEntry{}
	if out.CurrentUser != nil && out.CurrentUser.ID == officerID {
		u := o.Clone()
		out.CurrentUser = &u
	}
	env.record(out, LogEntry{
		Category:  model.LogCategoryDuty,
		EventType: model.EventClockOut,
		Details:   fmt.Sprintf("%s clocked out after %ds", o.DisplayName(), elapsed),
		Metadata:  map[string]any{"officerId": officerID, "seconds": elapsed},
	})
	return out, nil
}

// SetChecklist 替换警员的入职清单；缺少 ID 的条目自动生成
func SetChecklist(s *model.AppState, env Env, officerID string, items []model.ChecklistItem) (*model.AppState, error) {
	officer, ok := s.FindOfficer(officerID)
	if !ok {
		return s, ErrOfficerNotFound
	}
	list := make([]model.ChecklistItem, len(items))
	for i, it := range items {
		if it.ID == "" {
			it.ID = env.id()
		}
		list[i] = it
	}
	out := s.Clone()
	if out.OfficerChecklists == nil {
		out.OfficerChecklists = make(map[string][]model.ChecklistItem)
	}
	out.OfficerChecklists[officerID] = list
	p := ChecklistProgress(out, officerID)
	env.record(out, LogEntry{
		Category:  model.LogCategoryHR,
		EventType: model.EventChecklistUpdated,
		Details:   fmt.Sprintf("%s checklist %d/%d", officer.DisplayName(), p.Done, p.Total),
		Metadata:  map[string]any{"officerId": officerID},
	})
	return out, nil
}

// SendMail 投递信箱消息；发件人缺省为当前操作人
func SendMail(s *model.AppState, env Env, msg model.MailboxMessage) (*model.AppState, error) {
	if s.OfficerIndex(msg.ToOfficerID) < 0 {
		return s, ErrOfficerNotFound
	}
	if msg.FromOfficerID == "" && env.Actor != nil {
		msg.FromOfficerID = env.Actor.ID
	}
	msg.ID = env.id()
	msg.Timestamp = env.Now
	msg.Read = false

	out := s.Clone()
	out.MailboxMessages = append(out.MailboxMessages, msg)
	env.record(out, LogEntry{
		Category:  model.LogCategoryMailbox,
		EventType: model.EventMailSent,
		Details:   fmt.Sprintf("mail %q sent", msg.Subject),
		Metadata:  map[string]any{"messageId": msg.ID, "to": msg.ToOfficerID},
	})
	return out, nil
}

// MarkMailRead 标记消息已读
func MarkMailRead(s *model.AppState, messageID string) (*model.AppState, error) {
	idx := mailIndex(s, messageID)
	if idx < 0 {
		return s, ErrMailNotFound
	}
	out := s.Clone()
	out.MailboxMessages[idx].Read = true
	return out, nil
}

// DeleteMail 删除消息
func DeleteMail(s *model.AppState, messageID string) (*model.AppState, error) {
	idx := mailIndex(s, messageID)
	if idx < 0 {
		return s, ErrMailNotFound
	}
	out := s.Clone()
	out.MailboxMessages = append(out.MailboxMessages[:idx], out.MailboxMessages[idx+1:]...)
	return out, nil
}

// Inbox 收件箱，按时间倒序
func Inbox(s *model.AppState, officerID string) []model.MailboxMessage {
	var out []model.MailboxMessage
	for i := len(s.MailboxMessages) - 1; i >= 0; i-- {
		if m := s.MailboxMessages[i]; m.ToOfficerID == officerID {
			out = append(out, m)
		}
	}
	return out
}

func mailIndex(s *model.AppState, id string) int {
	for i := range s.MailboxMessages {
		if s.MailboxMessages[i].ID == id {
			return i
		}
	}
	return -1
}
