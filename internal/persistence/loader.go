package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/repository"
)

// Loader 启动时加载快照
type Loader struct {
	storage  repository.StorageRepository
	sessions repository.SessionRepository
	clock    clock.Clock
	logger   *zap.Logger
}

// NewLoader 创建 Loader
func NewLoader(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) *Loader {
	return &Loader{
		storage:  repo.Storage,
		sessions: repo.Session,
		clock:    clk,
		logger:   logger,
	}
}

// Load 加载共享快照并恢复标签页当前用户，任何读取或解析失败都退回默认快照
func (l *Loader) Load(ctx context.Context, tabID string) *model.AppState {
	state := l.LoadShared(ctx)
	l.restoreUser(ctx, state, tabID)
	return state
}

// LoadShared 按 当前键 → 旧版键 → 默认快照 的顺序加载，并合并旧版打卡记录
func (l *Loader) LoadShared(ctx context.Context) *model.AppState {
	now := l.clock.Now()
	var res *Result
	dirty := false

	raw, ok, err := l.storage.GetItem(ctx, KeyState)
	if err != nil {
		// 读取失败时当前键可能仍有数据，不迁移、不写回
		l.logger.Error("读取快照失败，使用默认快照", zap.String("key", KeyState), zap.Error(err))
		return DefaultState(now)
	}
	if ok {
		res = l.decode(raw, KeyState, now)
	} else {
		res = l.migrateLegacy(ctx, now)
		dirty = res != nil
	}
	// 当前键内容损坏时不做任何写入，保留现场
	corrupt := ok && res == nil

	if !corrupt && (res == nil || res.Missing("timeClockState")) {
		var state *model.AppState
		if res != nil {
			state = res.State
		}
		if l.mergeLegacyTimeClock(ctx, &state, now) {
			res = &Result{State: state}
			dirty = true
		}
	}

	if res == nil {
		return DefaultState(now)
	}
	if dirty {
		l.persist(ctx, res.State)
	}
	return res.State
}

// migrateLegacy 读取旧版快照，删除旧键
func (l *Loader) migrateLegacy(ctx context.Context, now time.Time) *Result {
	raw, ok, err := l.storage.GetItem(ctx, KeyLegacyState)
	if err != nil {
		l.logger.Error("读取旧版快照失败", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	res := l.decode(raw, KeyLegacyState, now)
	if err := l.storage.RemoveItem(ctx, KeyLegacyState); err != nil {
		l.logger.Warn("删除旧版快照失败", zap.Error(err))
	}
	if res != nil {
		l.logger.Info("旧版快照已迁移", zap.Int("officers", len(res.State.Officers)))
	}
	return res
}

// mergeLegacyTimeClock 合并旧版独立打卡记录；无快照时在默认快照上合并
func (l *Loader) mergeLegacyTimeClock(ctx context.Context, state **model.AppState, now time.Time) bool {
	raw, ok, err := l.storage.GetItem(ctx, KeyTimeClock)
	if err != nil {
		l.logger.Error("读取旧版打卡记录失败", zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	entries, err := DecodeTimeClock([]byte(raw))
	if err != nil {
		l.logger.Warn("旧版打卡记录无法解析，已忽略", zap.Error(err))
		return false
	}
	if *state == nil {
		*state = DefaultState(now)
	}
	(*state).TimeClockState = entries
	if err := l.storage.RemoveItem(ctx, KeyTimeClock); err != nil {
		l.logger.Warn("删除旧版打卡记录失败", zap.Error(err))
	}
	l.logger.Info("旧版打卡记录已合并", zap.Int("entries", len(entries)))
	return true
}

func (l *Loader) decode(raw, key string, now time.Time) *Result {
	res, err := DecodeContainer([]byte(raw), now)
	if err != nil {
		l.logger.Error("快照解析失败，使用默认快照", zap.String("key", key), zap.Error(err))
		return nil
	}
	if res.Warnings != nil {
		l.logger.Warn("快照部分字段无法还原", zap.String("key", key), zap.Error(res.Warnings))
	}
	return res
}

func (l *Loader) persist(ctx context.Context, state *model.AppState) {
	data, err := EncodeContainer(state)
	if err != nil {
		l.logger.Error("序列化快照失败", zap.Error(err))
		return
	}
	if err := l.storage.SetItem(ctx, KeyState, string(data)); err != nil {
		l.logger.Error("写入快照失败", zap.Error(err))
	}
}

// restoreUser 解析会话标记；无标记时尝试记住的凭据
func (l *Loader) restoreUser(ctx context.Context, state *model.AppState, tabID string) {
	id, ok, err := l.sessions.Get(ctx, tabID, repository.SessionKeyOfficerID)
	if err != nil {
		l.logger.Warn("读取会话标记失败", zap.String("tab_id", tabID), zap.Error(err))
	}
	if ok {
		if o, found := state.FindOfficer(id); found {
			u := o.Clone()
			state.CurrentUser = &u
		}
		return
	}

	raw, ok, err := l.storage.GetItem(ctx, KeyRememberedCredentials)
	if err != nil || !ok {
		return
	}
	var rc RememberedCredentials
	if err := json.Unmarshal([]byte(raw), &rc); err != nil {
		l.logger.Warn("记住的凭据无法解析", zap.Error(err))
		return
	}
	o, found := dispatch.Authenticate(state, rc.Username, rc.Password)
	if !found {
		return
	}
	u := o.Clone()
	state.CurrentUser = &u
	if err := l.sessions.Set(ctx, tabID, repository.SessionKeyOfficerID, o.ID); err != nil {
		l.logger.Warn("写入会话标记失败", zap.Error(err))
	}
}
