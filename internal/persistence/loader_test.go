package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/repository"
)

// ── 测试辅助 ──

// newMockClock 创建停在 at 的手动时钟
func newMockClock(at time.Time) *clock.Mock {
	clk := clock.NewMock()
	clk.Set(at)
	return clk
}

func setupTestLoader() (*Loader, *repository.Repository) {
	repo := repository.NewMemoryRepository()
	return NewLoader(repo, newMockClock(testNow), zap.NewNop()), repo
}

func seedItem(t *testing.T, repo *repository.Repository, key string, v any) {
	t.Helper()
	var raw string
	switch x := v.(type) {
	case string:
		raw = x
	default:
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("json.Marshal 失败: %v", err)
		}
		raw = string(b)
	}
	if err := repo.Storage.SetItem(context.Background(), key, raw); err != nil {
		t.Fatalf("SetItem 失败: %v", err)
	}
}

func hasItem(repo *repository.Repository, key string) bool {
	_, ok, _ := repo.Storage.GetItem(context.Background(), key)
	return ok
}

// failingStorage 读取总是失败
type failingStorage struct{ repository.StorageRepository }

func (failingStorage) GetItem(context.Context, string) (string, bool, error) {
	return "", false, errors.New("磁盘不可用")
}

// ── 测试用例 ──

func TestLoader_EmptyStorageUsesDefaults(t *testing.T) {
	loader, repo := setupTestLoader()
	s := loader.Load(context.Background(), "tab-1")

	if len(s.Officers) != 6 || len(s.MasterFleet) != 6 || len(s.Vehicles) != 4 {
		t.Errorf("默认快照规模不符: %d 警员 %d 主档 %d 面板", len(s.Officers), len(s.MasterFleet), len(s.Vehicles))
	}
	if s.CurrentUser != nil {
		t.Error("无会话标记时应为匿名")
	}
	if hasItem(repo, KeyState) {
		t.Error("仅使用默认快照时不应写入存储")
	}
}

func TestLoader_CurrentKey(t *testing.T) {
	loader, repo := setupTestLoader()
	s := DefaultState(testNow)
	s.Officers = s.Officers[:2]
	raw, _ := EncodeContainer(s)
	seedItem(t, repo, KeyState, string(raw))
	seedItem(t, repo, KeyLegacyState, legacySnapshot)

	got := loader.Load(context.Background(), "tab-1")
	if len(got.Officers) != 2 {
		t.Errorf("应加载当前键，实际 %d 名警员", len(got.Officers))
	}
	if !hasItem(repo, KeyLegacyState) {
		t.Error("当前键存在时不应触碰旧版键")
	}
}

func TestLoader_CorruptCurrentKeyFallsBack(t *testing.T) {
	loader, repo := setupTestLoader()
	seedItem(t, repo, KeyState, "{not json")
	seedItem(t, repo, KeyTimeClock, `{"o1": 1767225600000}`)

	s := loader.Load(context.Background(), "tab-1")
	if len(s.Officers) != 6 {
		t.Error("损坏的快照应退回默认快照")
	}
	raw, _, _ := repo.Storage.GetItem(context.Background(), KeyState)
	if raw != "{not json" {
		t.Error("损坏的快照不应被覆盖")
	}
	if !hasItem(repo, KeyTimeClock) {
		t.Error("损坏时不应消费旧版打卡记录")
	}
}

func TestLoader_ReadFailureFallsBack(t *testing.T) {
	repo := repository.NewMemoryRepository()
	repo.Storage = failingStorage{repo.Storage}
	loader := NewLoader(repo, newMockClock(testNow), zap.NewNop())

	s := loader.Load(context.Background(), "tab-1")
	if s == nil || len(s.Officers) != 6 {
		t.Error("读取失败应退回默认快照")
	}
}

// stateReadFailure 仅当前键读取失败，其余键正常
type stateReadFailure struct{ repository.StorageRepository }

func (s stateReadFailure) GetItem(ctx context.Context, key string) (string, bool, error) {
	if key == KeyState {
		return "", false, errors.New("连接超时")
	}
	return s.StorageRepository.GetItem(ctx, key)
}

func TestLoader_StateReadFailureLeavesStorageUntouched(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	stored := DefaultState(testNow)
	stored.Officers = []model.Officer{{ID: "x1", FirstName: "Ada", LastName: "Stone"}}
	raw, err := EncodeContainer(stored)
	if err != nil {
		t.Fatalf("EncodeContainer 失败: %v", err)
	}
	seedItem(t, repo, KeyState, string(raw))
	seedItem(t, repo, KeyTimeClock, `{"x1": 1767225600000}`)

	inner := repo.Storage
	repo.Storage = stateReadFailure{inner}
	loader := NewLoader(repo, newMockClock(testNow), zap.NewNop())

	s := loader.Load(ctx, "tab-1")
	if len(s.Officers) != 6 {
		t.Error("读取失败应退回默认快照")
	}
	got, _, _ := inner.GetItem(ctx, KeyState)
	if got != string(raw) {
		t.Error("读取失败时不应覆盖当前键")
	}
	if !hasItem(repo, KeyTimeClock) {
		t.Error("读取失败时不应消费旧版打卡记录")
	}
}

// 序列化 → 清空内存 → 经旧版键迁移重新加载，内容一致且日期为真实时间值
func TestLoader_LegacyRoundTrip(t *testing.T) {
	ctx := context.Background()
	loader, repo := setupTestLoader()

	env := dispatch.Env{Actor: &model.Officer{FirstName: "John", LastName: "Smith"}, Now: testNow}
	orig := DefaultState(testNow)
	orig, _ = dispatch.AssignToSeat(orig, env, "v4", 0, "o3")
	orig, _ = dispatch.AssignToSeat(orig, env, "v4", 1, "o4")
	orig, _ = dispatch.AddSanction(orig, env, model.Sanction{OfficerID: "o4", Type: "Verwarnung"})
	u := orig.Officers[0]
	orig.CurrentUser = &u

	// 旧版键保存的是未包裹且带 currentUser 的完整快照
	seedItem(t, repo, KeyLegacyState, orig)

	got := loader.Load(ctx, "tab-1")

	if hasItem(repo, KeyLegacyState) {
		t.Error("旧版键应在迁移后删除")
	}
	if !hasItem(repo, KeyState) {
		t.Error("迁移后应写入当前键")
	}
	if got.CurrentUser != nil {
		t.Error("旧快照中的 currentUser 不应被恢复")
	}
	if a, b := mustJSON(t, orig.Officers), mustJSON(t, got.Officers); a != b {
		t.Errorf("警员内容不一致:\n%s\n%s", a, b)
	}
	if a, b := mustJSON(t, orig.Vehicles), mustJSON(t, got.Vehicles); a != b {
		t.Errorf("车辆内容不一致:\n%s\n%s", a, b)
	}
	if a, b := mustJSON(t, orig.ITLogs), mustJSON(t, got.ITLogs); a != b {
		t.Errorf("日志内容不一致:\n%s\n%s", a, b)
	}
	if !got.ITLogs[0].Timestamp.Equal(testNow) {
		t.Errorf("日志时间应还原为时间值，实际 %v", got.ITLogs[0].Timestamp)
	}
	if !got.Sanctions[0].Timestamp.Equal(testNow) {
		t.Errorf("处分时间应还原，实际 %v", got.Sanctions[0].Timestamp)
	}
	if lc := got.MasterFleet[0].LastCheckup; lc == nil || !lc.Equal(*orig.MasterFleet[0].LastCheckup) {
		t.Errorf("检修日期应还原，实际 %v", lc)
	}

	// 再次加载走当前键，结果相同
	again := loader.Load(ctx, "tab-2")
	if a, b := mustJSON(t, got.Shared()), mustJSON(t, again.Shared()); a != b {
		t.Error("迁移写回后再次加载结果应一致")
	}
}

func TestLoader_LegacyTimeClockMerge(t *testing.T) {
	loader, repo := setupTestLoader()
	seedItem(t, repo, KeyLegacyState, `{"officers": [{"id": "o1", "firstName": "John", "lastName": "Smith"}]}`)
	seedItem(t, repo, KeyTimeClock, `{"o1": 1767225600000}`)

	s := loader.Load(context.Background(), "tab-1")
	if e := s.TimeClockState["o1"]; e.ClockInTime == nil || *e.ClockInTime != 1767225600000 {
		t.Errorf("旧版打卡记录应被合并，实际 %+v", s.TimeClockState)
	}
	if hasItem(repo, KeyTimeClock) {
		t.Error("合并后应删除旧版打卡键")
	}

	// 写回的当前键中包含合并结果
	again := loader.Load(context.Background(), "tab-2")
	if !again.TimeClockState["o1"].OnDuty() {
		t.Error("合并结果应已持久化")
	}
}

func TestLoader_TimeClockNotMergedWhenPresent(t *testing.T) {
	loader, repo := setupTestLoader()
	seedItem(t, repo, KeyLegacyState, `{"officers": [], "timeClockState": {}}`)
	seedItem(t, repo, KeyTimeClock, `{"o1": 1767225600000}`)

	s := loader.Load(context.Background(), "tab-1")
	if len(s.TimeClockState) != 0 {
		t.Errorf("快照已有 timeClockState 时不应合并，实际 %+v", s.TimeClockState)
	}
	if !hasItem(repo, KeyTimeClock) {
		t.Error("未合并时不应删除旧版打卡键")
	}
}

func TestLoader_SessionMarker(t *testing.T) {
	ctx := context.Background()
	loader, repo := setupTestLoader()

	_ = repo.Session.Set(ctx, "tab-1", repository.SessionKeyOfficerID, "o3")
	_ = repo.Session.Set(ctx, "tab-2", repository.SessionKeyOfficerID, "o99")

	if s := loader.Load(ctx, "tab-1"); s.CurrentUser == nil || s.CurrentUser.ID != "o3" {
		t.Errorf("会话标记应恢复当前用户，实际 %+v", s.CurrentUser)
	}
	if s := loader.Load(ctx, "tab-2"); s.CurrentUser != nil {
		t.Error("无法解析的会话标记应视为匿名")
	}
	if s := loader.Load(ctx, "tab-3"); s.CurrentUser != nil {
		t.Error("无会话标记应为匿名")
	}
}

func TestLoader_RememberedCredentials(t *testing.T) {
	ctx := context.Background()
	loader, repo := setupTestLoader()
	seedItem(t, repo, KeyRememberedCredentials, RememberedCredentials{Username: "1004", Password: "lspd1004"})

	s := loader.Load(ctx, "tab-1")
	if s.CurrentUser == nil || s.CurrentUser.ID != "o4" {
		t.Fatalf("记住的凭据应自动登录，实际 %+v", s.CurrentUser)
	}
	if id, ok, _ := repo.Session.Get(ctx, "tab-1", repository.SessionKeyOfficerID); !ok || id != "o4" {
		t.Error("自动登录应写入会话标记")
	}

	seedItem(t, repo, KeyRememberedCredentials, RememberedCredentials{Username: "1004", Password: "falsch"})
	if s := loader.Load(ctx, "tab-2"); s.CurrentUser != nil {
		t.Error("错误的记住凭据不应登录")
	}
}
