package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/config"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/persistence"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/repository"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/jwt"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/metrics"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/pubsub"
)

// ── 测试辅助 ──

var testNow = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

const (
	testAlertTimeout  = 10 * time.Second
	testConfirmWindow = 3 * time.Second
	testIndicator     = 2 * time.Second
)

// recordingSink 记录转发到审计流的日志
type recordingSink struct {
	mu   sync.Mutex
	logs []model.ITLog
}

func (r *recordingSink) PublishLogs(_ context.Context, logs []model.ITLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, logs...)
}

func (r *recordingSink) all() []model.ITLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ITLog(nil), r.logs...)
}

// memoryBlacklist 记录被拉黑的令牌
type memoryBlacklist struct {
	mu   sync.Mutex
	jtis map[string]time.Duration
}

func (b *memoryBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.jtis == nil {
		b.jtis = make(map[string]time.Duration)
	}
	b.jtis[jti] = ttl
	return nil
}

func (b *memoryBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.jtis[jti]
	return ok, nil
}

// fixture 共享同一存储与事件总线的多标签页环境
type fixture struct {
	clk     *clock.Mock
	repo    *repository.Repository
	bus     *pubsub.MemoryBus
	metrics *metrics.Metrics
	audit   *recordingSink
}

func newFixture() *fixture {
	return &fixture{
		clk:     newMockClock(testNow),
		repo:    repository.NewMemoryRepository(),
		bus:     pubsub.NewMemoryBus(),
		metrics: metrics.New(nil),
		audit:   &recordingSink{},
	}
}

func (f *fixture) tabDeps() TabDeps {
	return TabDeps{
		Storage:       f.repo.Storage,
		Bus:           f.bus,
		Clock:         f.clk,
		Logger:        zap.NewNop(),
		Metrics:       f.metrics,
		Audit:         f.audit,
		Indicator:     testIndicator,
		AlertTimeout:  testAlertTimeout,
		ConfirmWindow: testConfirmWindow,
	}
}

// openTab 以默认快照打开标签页；测试结束时关闭
func (f *fixture) openTab(t *testing.T, id string) *Tab {
	t.Helper()
	tab, err := NewTab(context.Background(), id, persistence.DefaultState(testNow), f.tabDeps())
	if err != nil {
		t.Fatalf("NewTab 失败: %v", err)
	}
	t.Cleanup(tab.Close)
	return tab
}

func (f *fixture) deps() Deps {
	return Deps{
		Config: &config.Config{
			Sync:  config.SyncConfig{IndicatorDuration: testIndicator},
			Alert: config.AlertConfig{Timeout: testAlertTimeout, ConfirmWindow: testConfirmWindow},
		},
		Repo:    f.repo,
		Bus:     f.bus,
		JWT:     jwt.NewManager(&config.AuthConfig{TabTokenSecret: "test-secret-0123456789", TabTokenTTL: time.Hour}),
		Audit:   f.audit,
		Clock:   f.clk,
		Metrics: f.metrics,
		Logger:  zap.NewNop(),
	}
}

// newMockClock 创建停在 at 的手动时钟
func newMockClock(at time.Time) *clock.Mock {
	clk := clock.NewMock()
	clk.Set(at)
	return clk
}

// eventually 轮询等待条件成立（计时器回调可能在其他 goroutine 中执行）
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal(msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// waitFor 等待标签页状态满足条件（跨标签页事件异步送达）
func waitFor(t *testing.T, tab *Tab, cond func(*model.AppState) bool) {
	t.Helper()
	ch, cancel := tab.Watch()
	defer cancel()
	deadline := time.After(2 * time.Second)
	for !cond(tab.State()) {
		select {
		case <-ch:
		case <-deadline:
			t.Fatal("等待标签页状态变化超时")
		}
	}
}

func login(t *testing.T, tab *Tab, officerID string) {
	t.Helper()
	o, ok := tab.State().FindOfficer(officerID)
	if !ok {
		t.Fatalf("种子数据中没有警员 %s", officerID)
	}
	tab.SetCurrentUser(&o)
}
