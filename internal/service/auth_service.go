package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/persistence"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrNotLoggedIn        = errors.New("未登录")
)

// AuthService 认证业务接口
// 登录身份只属于标签页：写入本地当前用户与会话标记，不进入共享快照。
type AuthService interface {
	Login(ctx context.Context, tab *Tab, req *dto.LoginRequest) (*model.Officer, error)
	Logout(ctx context.Context, tab *Tab) error
	Me(tab *Tab) (*dto.MeResponse, error)
}

type authService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(repo *repository.Repository, logger *zap.Logger) AuthService {
	return &authService{repo: repo, logger: logger}
}

func (s *authService) Login(ctx context.Context, tab *Tab, req *dto.LoginRequest) (*model.Officer, error) {
	// 1. 明文比对凭据
	officer, ok := dispatch.Authenticate(tab.State(), req.Username, req.Password)
	if !ok {
		s.logger.Info("登录失败", zap.String("tab_id", tab.ID()), zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	// 2. 设置本地当前用户与会话标记
	tab.SetCurrentUser(&officer)
	if err := s.repo.Session.Set(ctx, tab.ID(), repository.SessionKeyOfficerID, officer.ID); err != nil {
		s.logger.Warn("写入会话标记失败", zap.String("tab_id", tab.ID()), zap.Error(err))
	}

	// 3. 记住登录
	if req.RememberMe {
		raw, err := json.Marshal(persistence.RememberedCredentials{Username: req.Username, Password: req.Password})
		if err == nil {
			err = s.repo.Storage.SetItem(ctx, persistence.KeyRememberedCredentials, string(raw))
		}
		if err != nil {
			s.logger.Warn("保存记住的凭据失败", zap.Error(err))
		}
	}

	// 4. 审计日志
	if _, err := tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.AppendLog(st, env.Actor, dispatch.LogEntry{
			Category:  model.LogCategoryAuth,
			EventType: model.EventUserLogin,
			Details:   fmt.Sprintf("%s logged in", officer.DisplayName()),
			Metadata:  map[string]any{"officerId": officer.ID},
		}, env.Now, env.NewID()), nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("登录成功", zap.String("tab_id", tab.ID()), zap.String("officer_id", officer.ID))
	return &officer, nil
}

func (s *authService) Logout(ctx context.Context, tab *Tab) error {
	u := tab.CurrentUser()
	if u == nil {
		return ErrNotLoggedIn
	}

	if _, err := tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.AppendLog(st, env.Actor, dispatch.LogEntry{
			Category:  model.LogCategoryAuth,
			EventType: model.EventUserLogout,
			Details:   fmt.Sprintf("%s logged out", u.DisplayName()),
			Metadata:  map[string]any{"officerId": u.ID},
		}, env.Now, env.NewID()), nil
	}); err != nil {
		return err
	}

	tab.SetCurrentUser(nil)
	if err := s.repo.Session.Delete(ctx, tab.ID(), repository.SessionKeyOfficerID); err != nil {
		s.logger.Warn("清除会话标记失败", zap.String("tab_id", tab.ID()), zap.Error(err))
	}
	if err := s.repo.Storage.RemoveItem(ctx, persistence.KeyRememberedCredentials); err != nil {
		s.logger.Warn("清除记住的凭据失败", zap.Error(err))
	}
	s.logger.Info("已退出登录", zap.String("tab_id", tab.ID()), zap.String("officer_id", u.ID))
	return nil
}

func (s *authService) Me(tab *Tab) (*dto.MeResponse, error) {
	state := tab.State()
	if state.CurrentUser == nil {
		return nil, ErrNotLoggedIn
	}
	return &dto.MeResponse{
		Officer:  *state.CurrentUser,
		Position: dispatch.PositionOf(state, state.CurrentUser.ID),
	}, nil
}
