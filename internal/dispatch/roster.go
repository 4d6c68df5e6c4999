package dispatch

import (
	"fmt"
	"strings"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// DefaultChecklistLabels 新警员的入职清单
var DefaultChecklistLabels = []string{
	"Dienstausweis ausgehändigt",
	"Funkgerät ausgegeben",
	"Einweisung Leitstelle",
	"Fahrzeugeinweisung",
	"Waffenschein geprüft",
}

// DefaultChecklist 生成默认入职清单
func DefaultChecklist(env Env) []model.ChecklistItem {
	items := make([]model.ChecklistItem, len(DefaultChecklistLabels))
	for i, label := range DefaultChecklistLabels {
		items[i] = model.ChecklistItem{ID: env.id(), Label: label}
	}
	return items
}

// AddOfficer 新增警员，并生成默认入职清单
func AddOfficer(s *model.AppState, env Env, o model.Officer) (*model.AppState, error) {
	if strings.TrimSpace(o.FirstName) == "" || strings.TrimSpace(o.LastName) == "" {
		return s, ErrInvalidOfficer
	}
	if o.Rank == "" {
		o.Rank = model.RankPoliceOfficerI
	}
	if !o.Rank.Valid() {
		return s, ErrUnknownRank
	}
	if o.ID == "" {
		o.ID = env.id()
	}
	if s.OfficerIndex(o.ID) >= 0 {
		return s, ErrOfficerExists
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = env.Now
	}

	out := s.Clone()
	out.Officers = append(out.Officers, o.Clone())
	if out.OfficerChecklists == nil {
		out.OfficerChecklists = make(map[string][]model.ChecklistItem)
	}
	out.OfficerChecklists[o.ID] = DefaultChecklist(env)
	env.record(out, LogEntry{
		Category:  model.LogCategoryHR,
		EventType: model.EventOfficerCreated,
		Details:   fmt.Sprintf("%s hired as %s", o.DisplayName(), o.Rank),
		Metadata:  map[string]any{"officerId": o.ID},
	})
	return out, nil
}

// UpdateOfficer 整体替换警员档案
// 降衔到阈值以下且同时占据座位与席位时，警员离开指挥席位。
func UpdateOfficer(s *model.AppState, env Env, o model.Officer) (*model.AppState, error) {
	idx := s.OfficerIndex(o.ID)
	if idx < 0 {
		return s, ErrOfficerNotFound
	}
	if strings.TrimSpace(o.FirstName) == "" || strings.TrimSpace(o.LastName) == "" {
		return s, ErrInvalidOfficer
	}
	if !o.Rank.Valid() {
		return s, ErrUnknownRank
	}

	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.Officers[idx].CreatedAt
	}

	out := s.Clone()
	out.Officers[idx] = o.Clone()
	if IsExclusiveAcrossSeatsAndRoles(o.Rank) {
		if p := PositionOf(out, o.ID); p.InVehicle() && p.InHeader() {
			removeFromAll(out, o.ID, RemoveOptions{ClearHeader: true})
		}
	}
	if out.CurrentUser != nil && out.CurrentUser.ID == o.ID {
		u := o.Clone()
		out.CurrentUser = &u
	}
	env.record(out, LogEntry{
		Category:  model.LogCategoryHR,
		EventType: model.EventOfficerUpdated,
		Details:   fmt.Sprintf("%s updated", o.DisplayName()),
		Metadata:  map[string]any{"officerId": o.ID},
	})
	return out, nil
}

// TerminateOfficer 解雇警员：移出所有位置，删除档案、凭据、清单与打卡记录
func TerminateOfficer(s *model.AppState, env Env, officerID string) (*model.AppState, error) {
	idx := s.OfficerIndex(officerID)
	if idx < 0 {
		return s, ErrOfficerNotFound
	}
	name := s.Officers[idx].DisplayName()

	out := s.Clone()
	removeFromAll(out, officerID, RemoveOptions{ClearVehicles: true, ClearHeader: true})
	out.Officers = append(out.Officers[:idx], out.Officers[idx+1:]...)

	creds := out.Credentials[:0]
	for _, c := range out.Credentials {
		if c.OfficerID != officerID {
			creds = append(creds, c)
		}
	}
	out.Credentials = creds
	delete(out.OfficerChecklists, officerID)
	delete(out.TimeClockState, officerID)

	env.record(out, LogEntry{
		Category:  model.LogCategoryHR,
		EventType: model.EventOfficerTerminated,
		Details:   fmt.Sprintf("%s terminated", name),
		Metadata:  map[string]any{"officerId": officerID},
	})
	return out, nil
}

// AddSanction 为警员登记处分，签发人为当前操作人
func AddSanction(s *model.AppState, env Env, sanction model.Sanction) (*model.AppState, error) {
	officer, ok := s.FindOfficer(sanction.OfficerID)
	if !ok {
		return s, ErrOfficerNotFound
	}
	sanction.ID = env.id()
	sanction.Timestamp = env.Now
	if env.Actor != nil {
		sanction.IssuedBy = env.Actor.DisplayName()
	}

	out := s.Clone()
	out.Sanctions = append(out.Sanctions, sanction)
	env.record(out, LogEntry{
		Category:  model.LogCategoryHR,
		EventType: model.EventSanctionIssued,
		Details:   fmt.Sprintf("%s sanctioned: %s", officer.DisplayName(), sanction.Type),
		Metadata:  map[string]any{"officerId": officer.ID, "sanctionId": sanction.ID},
	})
	return out, nil
}

// CompleteTraining 标记警员完成培训模块
func CompleteTraining(s *model.AppState, env Env, moduleID, officerID string) (*model.AppState, error) {
	officer, ok := s.FindOfficer(officerID)
	if !ok {
		return s, ErrOfficerNotFound
	}
	mi := -1
	for i := range s.TrainingModules {
		if s.TrainingModules[i].ID == moduleID {
			mi = i
			break
		}
	}
	if mi < 0 {
		return s, ErrTrainingNotFound
	}

	out := s.Clone()
	m := &out.TrainingModules[mi]
	if !containsString(m.AssignedOfficerIDs, officerID) {
		m.AssignedOfficerIDs = append(m.AssignedOfficerIDs, officerID)
	}
	if !containsString(m.CompletedOfficerIDs, officerID) {
		m.CompletedOfficerIDs = append(m.CompletedOfficerIDs, officerID)
	}
	env.record(out, LogEntry{
		Category:  model.LogCategoryTraining,
		EventType: model.EventTrainingCompleted,
		Details:   fmt.Sprintf("%s completed %s", officer.DisplayName(), m.Title),
		Metadata:  map[string]any{"officerId": officerID, "moduleId": moduleID},
	})
	return out, nil
}
