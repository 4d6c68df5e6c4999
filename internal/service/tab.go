package service

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/persistence"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/repository"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/metrics"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/pubsub"
)

// Mutator 在快照上计算新快照；返回错误时不写入、不广播
type Mutator func(s *model.AppState, env dispatch.Env) (*model.AppState, error)

// AuditSink 接收新增审计条目（Kafka 生产者实现，可选）
type AuditSink interface {
	PublishLogs(ctx context.Context, logs []model.ITLog)
}

// Tab 控制台标签页：持有本地快照副本与本地当前用户
// 所有共享状态的变更都必须经过 Update。
type Tab struct {
	id        string
	storage   repository.StorageRepository
	bus       pubsub.Bus
	clock     clock.Clock
	logger    *zap.Logger
	metrics   *metrics.Metrics
	audit     AuditSink
	indicator time.Duration
	alert     *AlertMachine

	mu          sync.Mutex
	state       *model.AppState
	syncedUntil time.Time

	watchMu   sync.Mutex
	watchers  map[int]chan struct{}
	nextWatch int

	cancelSub func()
	closeOnce sync.Once
}

// TabDeps 标签页依赖
type TabDeps struct {
	Storage       repository.StorageRepository
	Bus           pubsub.Bus
	Clock         clock.Clock
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	Audit         AuditSink
	Indicator     time.Duration
	AlertTimeout  time.Duration
	ConfirmWindow time.Duration
}

// NewTab 创建标签页并订阅存储变更事件
func NewTab(ctx context.Context, id string, initial *model.AppState, deps TabDeps) (*Tab, error) {
	t := &Tab{
		id:        id,
		storage:   deps.Storage,
		bus:       deps.Bus,
		clock:     deps.Clock,
		logger:    deps.Logger.With(zap.String("tab_id", id)),
		metrics:   deps.Metrics,
		audit:     deps.Audit,
		indicator: deps.Indicator,
		state:     initial,
		watchers:  make(map[int]chan struct{}),
	}
	t.alert = NewAlertMachine(deps.Clock, deps.AlertTimeout, deps.ConfirmWindow, t.notify)
	t.alert.Observe(initial.ShotsFiredAlert)

	events, cancel, err := deps.Bus.Subscribe(ctx)
	if err != nil {
		t.alert.Stop()
		return nil, err
	}
	t.cancelSub = cancel
	go t.listen(events)
	return t, nil
}

// ID 标签页 ID
func (t *Tab) ID() string { return t.id }

// State 当前快照副本（含本地当前用户）
func (t *Tab) State() *model.AppState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// CurrentUser 本地当前用户；匿名时返回 nil
func (t *Tab) CurrentUser() *model.Officer {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.CurrentUser == nil {
		return nil
	}
	u := t.state.CurrentUser.Clone()
	return &u
}

// Synced 同步提示是否仍在显示
func (t *Tab) Synced() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clock.Now().Before(t.syncedUntil)
}

// Alert 标签页的警报状态机
func (t *Tab) Alert() *AlertMachine { return t.alert }

// AlertView 以本地当前用户与当前指挥席位计算警报可见性
func (t *Tab) AlertView() AlertView {
	t.mu.Lock()
	officerID := ""
	if t.state.CurrentUser != nil {
		officerID = t.state.CurrentUser.ID
	}
	roles := t.state.HeaderRoles.Clone()
	t.mu.Unlock()
	return t.alert.View(officerID, roles)
}

// Env 以当前快照的用户为操作人构造引擎上下文
func (t *Tab) env(s *model.AppState) dispatch.Env {
	return dispatch.Env{Actor: s.CurrentUser, Now: t.clock.Now(), NewID: uuid.NewString}
}

// Update 变更的唯一入口：计算 → 剥离当前用户 → 写存储 → 广播 → 同步提示 → 安装新快照
// 写入或广播失败只记录日志，本标签页仍使用新快照（降级模式）。
func (t *Tab) Update(ctx context.Context, fn Mutator) (*model.AppState, error) {
	t.mu.Lock()
	prev := t.state
	next, err := fn(prev, t.env(prev))
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	if next == prev {
		out := prev.Clone()
		t.mu.Unlock()
		return out, nil
	}

	t.resolveCurrentUser(next)
	t.broadcastLocked(ctx, next)
	t.syncedUntil = t.clock.Now().Add(t.indicator)
	t.state = next
	t.observeAlertLocked(prev, next)
	fresh := newLogs(prev, next)
	out := next.Clone()
	t.mu.Unlock()

	if t.audit != nil && len(fresh) > 0 {
		t.audit.PublishLogs(context.WithoutCancel(ctx), fresh)
	}
	t.notify()
	return out, nil
}

// SetCurrentUser 仅修改本地当前用户，不写存储、不广播
func (t *Tab) SetCurrentUser(u *model.Officer) {
	t.mu.Lock()
	next := t.state.Clone()
	if u != nil {
		c := u.Clone()
		next.CurrentUser = &c
	} else {
		next.CurrentUser = nil
	}
	t.state = next
	t.mu.Unlock()
	t.notify()
}

func (t *Tab) broadcastLocked(ctx context.Context, next *model.AppState) {
	data, err := persistence.EncodeContainer(next)
	if err != nil {
		t.logger.Error("序列化快照失败，变更仅在本标签页生效", zap.Error(err))
		t.countWrite("failed")
		return
	}
	payload := string(data)
	if err := t.storage.SetItem(ctx, persistence.KeyState, payload); err != nil {
		t.logger.Error("写入快照失败，变更仅在本标签页生效", zap.Error(err))
		t.countWrite("failed")
		return
	}
	t.countWrite("ok")

	evt := pubsub.Event{Key: persistence.KeyState, NewValue: payload, Origin: t.id}
	if err := t.bus.Publish(ctx, evt); err != nil {
		t.logger.Error("发布存储变更事件失败", zap.Error(err))
	}
}

func (t *Tab) observeAlertLocked(prev, next *model.AppState) {
	if a := next.ShotsFiredAlert; a != nil && t.metrics != nil {
		if prev.ShotsFiredAlert == nil || prev.ShotsFiredAlert.ID != a.ID {
			t.metrics.AlertsRaised.Inc()
		}
	}
	t.alert.Observe(next.ShotsFiredAlert)
}

// listen 合并其他标签页的写入；自己发出的事件与其他键被忽略
func (t *Tab) listen(events <-chan pubsub.Event) {
	for evt := range events {
		if evt.Origin == t.id || evt.Key != persistence.KeyState {
			continue
		}
		if t.metrics != nil {
			t.metrics.BroadcastsReceived.Inc()
		}
		res, err := persistence.DecodeContainer([]byte(evt.NewValue), t.clock.Now())
		if err != nil {
			t.logger.Warn("无法解析其他标签页的快照，已忽略", zap.String("origin", evt.Origin), zap.Error(err))
			continue
		}
		t.applyRemote(res.State)
	}
}

// applyRemote 除当前用户外全部替换为传入值；当前用户按 ID 从新名册刷新
func (t *Tab) applyRemote(incoming *model.AppState) {
	t.mu.Lock()
	incoming.CurrentUser = t.state.CurrentUser
	t.resolveCurrentUser(incoming)
	t.state = incoming
	t.alert.Observe(incoming.ShotsFiredAlert)
	t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.BroadcastsApplied.Inc()
	}
	t.notify()
}

// resolveCurrentUser 以名册中的记录替换当前用户；已不在名册中则转为匿名
func (t *Tab) resolveCurrentUser(s *model.AppState) {
	if s.CurrentUser == nil {
		return
	}
	o, ok := s.FindOfficer(s.CurrentUser.ID)
	if !ok {
		t.logger.Info("当前用户已不在名册中，转为匿名", zap.String("officer_id", s.CurrentUser.ID))
		s.CurrentUser = nil
		return
	}
	u := o.Clone()
	s.CurrentUser = &u
}

// Watch 订阅本标签页的状态变化通知；返回的取消函数必须调用
func (t *Tab) Watch() (<-chan struct{}, func()) {
	t.watchMu.Lock()
	defer t.watchMu.Unlock()
	id := t.nextWatch
	t.nextWatch++
	ch := make(chan struct{}, 1)
	t.watchers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.watchMu.Lock()
			defer t.watchMu.Unlock()
			if _, ok := t.watchers[id]; ok {
				delete(t.watchers, id)
				close(ch)
			}
		})
	}
}

func (t *Tab) notify() {
	t.watchMu.Lock()
	defer t.watchMu.Unlock()
	for _, ch := range t.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close 取消订阅、停止计时器并关闭所有观察者
func (t *Tab) Close() {
	t.closeOnce.Do(func() {
		if t.cancelSub != nil {
			t.cancelSub()
		}
		t.alert.Stop()
		t.watchMu.Lock()
		for id, ch := range t.watchers {
			delete(t.watchers, id)
			close(ch)
		}
		t.watchMu.Unlock()
	})
}

func (t *Tab) countWrite(result string) {
	if t.metrics != nil {
		t.metrics.StorageWrites.WithLabelValues(result).Inc()
	}
}

// newLogs 本次变更新增的审计条目（日志总是插入头部）
func newLogs(prev, next *model.AppState) []model.ITLog {
	n := len(next.ITLogs) - len(prev.ITLogs)
	if n <= 0 {
		return nil
	}
	return append([]model.ITLog(nil), next.ITLogs[:n]...)
}
