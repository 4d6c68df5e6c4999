package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/config"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/persistence"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/repository"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/jwt"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/metrics"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/pubsub"
)

// ErrTabNotFound 标签页不存在或已关闭
var ErrTabNotFound = errors.New("标签页不存在或已关闭")

// TokenBlacklist 令牌黑名单（Redis 实现，可选）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// OpenedTab 新开标签页
type OpenedTab struct {
	Tab       *Tab
	Token     string
	ExpiresIn time.Duration
	Resumed   bool // 沿用了旧令牌中的标签页 ID
}

// TabService 标签页生命周期
type TabService interface {
	// Open 加载快照并创建标签页，签发标签页令牌
	// resumeToken 为页面刷新前持有的令牌；有效时沿用原标签页 ID，会话标记随之恢复。
	Open(ctx context.Context, resumeToken string) (*OpenedTab, error)
	// Get 按 ID 获取已打开且未过期的标签页
	Get(tabID string) (*Tab, error)
	// Close 关闭标签页，清除会话标记，并将令牌加入黑名单
	Close(ctx context.Context, tabID, jti string, expiresAt time.Time) error
	// Reap 关闭令牌已过期的标签页，返回关闭数量
	Reap(ctx context.Context) int
	// RunReaper 按 interval 周期执行 Reap，直到 ctx 取消
	RunReaper(ctx context.Context, interval time.Duration)
	// CloseAll 进程退出时关闭全部标签页
	CloseAll()
}

// openTab 已打开的标签页及其令牌到期时间
type openTab struct {
	tab       *Tab
	expiresAt time.Time
}

type tabService struct {
	cfg       *config.Config
	repo      *repository.Repository
	loader    *persistence.Loader
	bus       pubsub.Bus
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	audit     AuditSink
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    *zap.Logger

	mu   sync.RWMutex
	tabs map[string]*openTab
}

// NewTabService 创建 TabService 实例
func NewTabService(deps Deps) TabService {
	return &tabService{
		cfg:       deps.Config,
		repo:      deps.Repo,
		loader:    persistence.NewLoader(deps.Repo, deps.Clock, deps.Logger),
		bus:       deps.Bus,
		jwtMgr:    deps.JWT,
		blacklist: deps.Blacklist,
		audit:     deps.Audit,
		clock:     deps.Clock,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		tabs:      make(map[string]*openTab),
	}
}

func (s *tabService) Open(ctx context.Context, resumeToken string) (*OpenedTab, error) {
	s.Reap(ctx)

	tabID, resumed := s.resumeID(ctx, resumeToken)
	state := s.loader.Load(ctx, tabID)

	tab, err := NewTab(context.WithoutCancel(ctx), tabID, state, TabDeps{
		Storage:       s.repo.Storage,
		Bus:           s.bus,
		Clock:         s.clock,
		Logger:        s.logger,
		Metrics:       s.metrics,
		Audit:         s.audit,
		Indicator:     s.cfg.Sync.IndicatorDuration,
		AlertTimeout:  s.cfg.Alert.Timeout,
		ConfirmWindow: s.cfg.Alert.ConfirmWindow,
	})
	if err != nil {
		s.logger.Error("订阅存储变更事件失败", zap.Error(err))
		return nil, err
	}

	token, err := s.jwtMgr.GenerateTabToken(tabID)
	if err != nil {
		tab.Close()
		s.logger.Error("签发标签页令牌失败", zap.Error(err))
		return nil, err
	}

	ttl := s.jwtMgr.TTL()
	s.mu.Lock()
	prev := s.tabs[tabID]
	s.tabs[tabID] = &openTab{tab: tab, expiresAt: s.clock.Now().Add(ttl)}
	s.mu.Unlock()
	// 刷新前的标签页实例由新实例取代，会话标记保留
	if prev != nil {
		prev.tab.Close()
	} else if s.metrics != nil {
		s.metrics.OpenTabs.Inc()
	}

	s.logger.Info("标签页已打开",
		zap.String("tab_id", tabID),
		zap.Bool("resumed", resumed),
		zap.Bool("logged_in", state.CurrentUser != nil))
	return &OpenedTab{Tab: tab, Token: token, ExpiresIn: ttl, Resumed: resumed}, nil
}

// resumeID 旧令牌有效且未吊销时沿用其标签页 ID，并吊销旧令牌；否则生成新 ID
func (s *tabService) resumeID(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return uuid.NewString(), false
	}
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil || claims.TokenType != "tab" {
		s.logger.Info("旧令牌无效，打开新标签页", zap.Error(err))
		return uuid.NewString(), false
	}
	if s.blacklist != nil {
		if revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID); err == nil && revoked {
			return uuid.NewString(), false
		}
		if claims.ExpiresAt != nil {
			if err := s.blacklist.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
				s.logger.Warn("旧令牌加入黑名单失败", zap.String("tab_id", claims.TabID), zap.Error(err))
			}
		}
	}
	return claims.TabID, true
}

func (s *tabService) Get(tabID string) (*Tab, error) {
	s.mu.RLock()
	entry, ok := s.tabs[tabID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrTabNotFound
	}
	if !s.clock.Now().Before(entry.expiresAt) {
		s.Reap(context.Background())
		return nil, ErrTabNotFound
	}
	return entry.tab, nil
}

func (s *tabService) Close(ctx context.Context, tabID, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	entry, ok := s.tabs[tabID]
	delete(s.tabs, tabID)
	s.mu.Unlock()
	if !ok {
		return ErrTabNotFound
	}
	s.release(ctx, tabID, entry.tab)

	if s.blacklist != nil && jti != "" {
		if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
			s.logger.Warn("令牌加入黑名单失败", zap.String("tab_id", tabID), zap.Error(err))
		}
	}
	s.logger.Info("标签页已关闭", zap.String("tab_id", tabID))
	return nil
}

func (s *tabService) Reap(ctx context.Context) int {
	now := s.clock.Now()
	expired := make(map[string]*Tab)
	s.mu.Lock()
	for id, entry := range s.tabs {
		if !now.Before(entry.expiresAt) {
			expired[id] = entry.tab
			delete(s.tabs, id)
		}
	}
	s.mu.Unlock()

	for id, tab := range expired {
		s.release(ctx, id, tab)
	}
	if len(expired) > 0 {
		s.logger.Info("已回收过期标签页", zap.Int("count", len(expired)))
	}
	return len(expired)
}

func (s *tabService) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Reap(ctx)
		}
	}
}

// release 停止标签页并清除其会话标记
func (s *tabService) release(ctx context.Context, tabID string, tab *Tab) {
	tab.Close()
	if s.metrics != nil {
		s.metrics.OpenTabs.Dec()
	}
	if err := s.repo.Session.Clear(ctx, tabID); err != nil {
		s.logger.Warn("清除会话标记失败", zap.String("tab_id", tabID), zap.Error(err))
	}
}

func (s *tabService) CloseAll() {
	s.mu.Lock()
	tabs := s.tabs
	s.tabs = make(map[string]*openTab)
	s.mu.Unlock()
	for _, entry := range tabs {
		entry.tab.Close()
	}
}
