package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// WorkspaceService 个人工作区：打卡、入职清单与内部信箱
// 打卡与信箱作用于当前登录警员。
type WorkspaceService interface {
	ClockIn(ctx context.Context, tab *Tab) (*model.AppState, error)
	ClockOut(ctx context.Context, tab *Tab) (*model.AppState, error)
	SetChecklist(ctx context.Context, tab *Tab, officerID string, req *dto.SetChecklistRequest) ([]model.ChecklistItem, error)
	Inbox(tab *Tab) ([]model.MailboxMessage, error)
	SendMail(ctx context.Context, tab *Tab, req *dto.SendMailRequest) (*model.AppState, error)
	MarkRead(ctx context.Context, tab *Tab, messageID string) error
	DeleteMail(ctx context.Context, tab *Tab, messageID string) error
}

type workspaceService struct {
	logger *zap.Logger
}

// NewWorkspaceService 创建 WorkspaceService 实例
func NewWorkspaceService(logger *zap.Logger) WorkspaceService {
	return &workspaceService{logger: logger}
}

func (s *workspaceService) ClockIn(ctx context.Context, tab *Tab) (*model.AppState, error) {
	u := tab.CurrentUser()
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	return tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.ClockIn(st, env, u.ID)
	})
}

func (s *workspaceService) ClockOut(ctx context.Context, tab *Tab) (*model.AppState, error) {
	u := tab.CurrentUser()
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	state, err := tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.ClockOut(st, env, u.ID)
	})
	if err != nil {
		return nil, err
	}
	if o, ok := state.FindOfficer(u.ID); ok {
		s.logger.Info("警员下岗", zap.String("officer_id", u.ID), zap.Int64("total_duty_seconds", o.TotalDutySeconds))
	}
	return state, nil
}

func (s *workspaceService) SetChecklist(ctx context.Context, tab *Tab, officerID string, req *dto.SetChecklistRequest) ([]model.ChecklistItem, error) {
	items := make([]model.ChecklistItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = model.ChecklistItem{ID: it.ID, Label: strings.TrimSpace(it.Label), Done: it.Done}
	}
	state, err := tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.SetChecklist(st, env, officerID, items)
	})
	if err != nil {
		return nil, err
	}
	return state.OfficerChecklists[officerID], nil
}

func (s *workspaceService) Inbox(tab *Tab) ([]model.MailboxMessage, error) {
	state := tab.State()
	if state.CurrentUser == nil {
		return nil, ErrNotLoggedIn
	}
	return dispatch.Inbox(state, state.CurrentUser.ID), nil
}

func (s *workspaceService) SendMail(ctx context.Context, tab *Tab, req *dto.SendMailRequest) (*model.AppState, error) {
	if tab.CurrentUser() == nil {
		return nil, ErrNotLoggedIn
	}
	return tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.SendMail(st, env, model.MailboxMessage{
			ToOfficerID: req.ToOfficerID,
			Subject:     strings.TrimSpace(req.Subject),
			Body:        req.Body,
		})
	})
}

func (s *workspaceService) MarkRead(ctx context.Context, tab *Tab, messageID string) error {
	_, err := tab.Update(ctx, func(st *model.AppState, _ dispatch.Env) (*model.AppState, error) {
		return dispatch.MarkMailRead(st, messageID)
	})
	return err
}

func (s *workspaceService) DeleteMail(ctx context.Context, tab *Tab, messageID string) error {
	_, err := tab.Update(ctx, func(st *model.AppState, _ dispatch.Env) (*model.AppState, error) {
		return dispatch.DeleteMail(st, messageID)
	})
	return err
}
