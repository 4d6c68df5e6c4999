package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/persistence"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/repository"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/pubsub"
)

func assignSeat(vehicleID string, seat int, officerID string) Mutator {
	return func(s *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.AssignToSeat(s, env, vehicleID, seat, officerID)
	}
}

func setStatus(vehicleID string, status model.VehicleStatus) Mutator {
	return func(s *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.SetVehicleStatus(s, env, vehicleID, status)
	}
}

func TestTabUpdate_WritesAndBroadcasts(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")
	b := f.openTab(t, "tab-b")
	login(t, a, "o1")
	login(t, b, "o2")

	state, err := a.Update(context.Background(), assignSeat("v1", 0, "o3"))
	if err != nil {
		t.Fatalf("Update 失败: %v", err)
	}
	if state.Vehicles[0].Seats[0] != "o3" || state.CurrentUser == nil || state.CurrentUser.ID != "o1" {
		t.Fatalf("返回的快照应包含变更与本地用户: %+v", state.Vehicles[0].Seats)
	}

	// 存储中的快照不含当前用户
	raw, ok, _ := f.repo.Storage.GetItem(context.Background(), persistence.KeyState)
	if !ok {
		t.Fatal("Update 应写入当前键")
	}
	res, err := persistence.DecodeContainer([]byte(raw), testNow)
	if err != nil {
		t.Fatalf("存储中的快照无法解析: %v", err)
	}
	if res.State.CurrentUser != nil {
		t.Error("存储中的快照不应包含当前用户")
	}
	if res.State.Vehicles[0].Seats[0] != "o3" {
		t.Error("存储中的快照应包含变更")
	}

	// 另一标签页合并变更，保留自己的当前用户
	waitFor(t, b, func(s *model.AppState) bool { return s.Vehicles[0].Seats[0] == "o3" })
	if u := b.CurrentUser(); u == nil || u.ID != "o2" {
		t.Errorf("合并后应保留本地当前用户，实际 %+v", u)
	}
	if got := testutil.ToFloat64(f.metrics.StorageWrites.WithLabelValues("ok")); got != 1 {
		t.Errorf("storage_writes_total{ok} = %v, 期望 1", got)
	}
}

func TestTabListen_CatchesUpAfterBurst(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")
	b := f.openTab(t, "tab-b")
	ctx := context.Background()

	// b 忙于自己的写入时，a 连续写入超过订阅缓冲区的次数
	b.mu.Lock()
	const writes = 80
	for i := 0; i < writes; i++ {
		callsign := fmt.Sprintf("c%d", i)
		_, err := a.Update(ctx, func(s *model.AppState, env dispatch.Env) (*model.AppState, error) {
			return dispatch.SetVehicleCallsign(s, env, "v1", callsign)
		})
		if err != nil {
			t.Fatalf("设置呼号失败: %v", err)
		}
	}
	b.mu.Unlock()

	want := fmt.Sprintf("c%d", writes-1)
	waitFor(t, b, func(s *model.AppState) bool {
		return s.Vehicles[s.GridIndex("v1")].Callsign == want
	})
}

func TestTabUpdate_IgnoresOwnEvents(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")

	if _, err := a.Update(context.Background(), assignSeat("v1", 0, "o3")); err != nil {
		t.Fatalf("Update 失败: %v", err)
	}

	// 其他来源的事件按顺序排在自己的事件之后
	other := persistence.DefaultState(testNow)
	other.HomepageContent.Title = "Remote"
	data, _ := persistence.EncodeContainer(other)
	f.bus.Publish(context.Background(), pubsub.Event{Key: persistence.KeyState, NewValue: string(data), Origin: "tab-x"})

	waitFor(t, a, func(s *model.AppState) bool { return s.HomepageContent.Title == "Remote" })
	if got := testutil.ToFloat64(f.metrics.BroadcastsReceived); got != 1 {
		t.Errorf("自己的事件不应计入 broadcasts_received，实际 %v", got)
	}
}

func TestTabListen_IgnoresOtherKeysAndGarbage(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")
	ctx := context.Background()

	f.bus.Publish(ctx, pubsub.Event{Key: persistence.KeyTimeClock, NewValue: "{}", Origin: "tab-x"})
	f.bus.Publish(ctx, pubsub.Event{Key: persistence.KeyState, NewValue: "not json", Origin: "tab-x"})

	marker := persistence.DefaultState(testNow)
	marker.HomepageContent.Subtitle = "marker"
	data, _ := persistence.EncodeContainer(marker)
	f.bus.Publish(ctx, pubsub.Event{Key: persistence.KeyState, NewValue: string(data), Origin: "tab-x"})

	waitFor(t, a, func(s *model.AppState) bool { return s.HomepageContent.Subtitle == "marker" })
	if got := testutil.ToFloat64(f.metrics.BroadcastsApplied); got != 1 {
		t.Errorf("只有合法快照应被合并，实际 %v", got)
	}
}

func TestTabUpdate_PreconditionFailureIsSilent(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")
	before := a.State()

	_, err := a.Update(context.Background(), assignSeat("v9", 0, "o3"))
	if !errors.Is(err, dispatch.ErrVehicleNotOnGrid) {
		t.Fatalf("期望 ErrVehicleNotOnGrid，实际 %v", err)
	}
	if _, ok, _ := f.repo.Storage.GetItem(context.Background(), persistence.KeyState); ok {
		t.Error("前置条件失败时不应写入存储")
	}
	if a.Synced() {
		t.Error("前置条件失败时不应显示同步提示")
	}
	if len(a.State().Vehicles) != len(before.Vehicles) {
		t.Error("前置条件失败时快照应保持不变")
	}
}

func TestTabUpdate_UnchangedStateIsNotWritten(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")
	_, err := a.Update(context.Background(), func(s *model.AppState, _ dispatch.Env) (*model.AppState, error) {
		return s, nil
	})
	if err != nil {
		t.Fatalf("Update 失败: %v", err)
	}
	if _, ok, _ := f.repo.Storage.GetItem(context.Background(), persistence.KeyState); ok {
		t.Error("未变化的快照不应写入")
	}
}

// brokenStorage 写入总是失败
type brokenStorage struct{ repository.StorageRepository }

func (brokenStorage) SetItem(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func TestTabUpdate_DegradedWhenWriteFails(t *testing.T) {
	f := newFixture()
	deps := f.tabDeps()
	deps.Storage = brokenStorage{f.repo.Storage}
	a, err := NewTab(context.Background(), "tab-a", persistence.DefaultState(testNow), deps)
	if err != nil {
		t.Fatalf("NewTab 失败: %v", err)
	}
	defer a.Close()

	state, err := a.Update(context.Background(), assignSeat("v1", 0, "o3"))
	if err != nil {
		t.Fatalf("写入失败不应向调用方报错: %v", err)
	}
	if state.Vehicles[0].Seats[0] != "o3" || a.State().Vehicles[0].Seats[0] != "o3" {
		t.Error("写入失败时本地快照仍应更新")
	}
	if got := testutil.ToFloat64(f.metrics.StorageWrites.WithLabelValues("failed")); got != 1 {
		t.Errorf("storage_writes_total{failed} = %v, 期望 1", got)
	}
}

func TestTabUpdate_SyncIndicator(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")
	if a.Synced() {
		t.Fatal("初始不应显示同步提示")
	}
	a.Update(context.Background(), assignSeat("v1", 0, "o3"))
	if !a.Synced() {
		t.Fatal("写入后应显示同步提示")
	}
	f.clk.Add(testIndicator - time.Millisecond)
	if !a.Synced() {
		t.Fatal("提示时长内应保持显示")
	}
	f.clk.Add(time.Millisecond)
	if a.Synced() {
		t.Error("提示应在 2 秒后消失")
	}
}

func TestTabUpdate_ForwardsNewLogs(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")
	login(t, a, "o1")

	a.Update(context.Background(), assignSeat("v1", 0, "o3"))
	a.Update(context.Background(), assignSeat("v1", 1, "o4"))

	logs := f.audit.all()
	if len(logs) != 2 {
		t.Fatalf("期望转发 2 条日志，实际 %d", len(logs))
	}
	if logs[0].EventType != model.EventOfficerAssignedVehicle || logs[0].Actor != "John Smith" {
		t.Errorf("日志内容不符: %+v", logs[0])
	}
}

func TestTabUpdate_AnonymousWritesNoLogs(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")
	state, _ := a.Update(context.Background(), assignSeat("v1", 0, "o3"))
	if len(state.ITLogs) != 0 || len(f.audit.all()) != 0 {
		t.Error("匿名标签页的操作不应产生审计日志")
	}
}

func TestShotsFired_PropagatesToAllTabs(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")
	b := f.openTab(t, "tab-b")
	c := f.openTab(t, "tab-c")
	login(t, a, "o1")
	login(t, c, "o6")
	ctx := context.Background()

	a.Update(ctx, assignSeat("v1", 0, "o3"))
	a.Update(ctx, func(s *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.AssignToHeaderRole(s, env, model.HeaderDispatch, "o6")
	})
	state, err := a.Update(ctx, setStatus("v1", model.StatusShotsFired))
	if err != nil {
		t.Fatalf("设置 Code 7 失败: %v", err)
	}
	if state.ShotsFiredAlert == nil {
		t.Fatal("有人的车辆设置 Code 7 应产生警报")
	}
	if got := testutil.ToFloat64(f.metrics.AlertsRaised); got != 1 {
		t.Errorf("shots_fired_alerts_total = %v, 期望 1", got)
	}

	waitFor(t, b, func(s *model.AppState) bool { return s.ShotsFiredAlert != nil })
	waitFor(t, c, func(s *model.AppState) bool { return s.ShotsFiredAlert != nil })
	for name, tab := range map[string]*Tab{"a": a, "b": b} {
		if v := tab.AlertView(); v.Phase != AlertAlerting || !v.Visible {
			t.Errorf("标签页 %s 应显示警报: %+v", name, v)
		}
	}
	if v := c.AlertView(); v.Phase != AlertAlerting || v.Visible {
		t.Errorf("dispatch 席位上的警员不应看到覆盖层: %+v", v)
	}

	// 所有标签页各自计时，10 秒后结束
	f.clk.Add(testAlertTimeout)
	for name, tab := range map[string]*Tab{"a": a, "b": b, "c": c} {
		eventually(t, func() bool { return tab.Alert().Phase() == AlertQuiet }, "标签页 "+name+" 应在超时后回到 quiet")
	}
}

func TestShotsFired_ClearedWhenStatusChanges(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")
	b := f.openTab(t, "tab-b")
	ctx := context.Background()

	a.Update(ctx, assignSeat("v1", 0, "o3"))
	a.Update(ctx, setStatus("v1", model.StatusShotsFired))
	waitFor(t, b, func(s *model.AppState) bool { return s.ShotsFiredAlert != nil })

	a.Update(ctx, setStatus("v1", model.StatusCode4))
	waitFor(t, b, func(s *model.AppState) bool { return s.ShotsFiredAlert == nil })
	if a.Alert().Phase() != AlertQuiet || b.Alert().Phase() != AlertQuiet {
		t.Error("状态改变后所有标签页应回到 quiet")
	}
}

func TestTabSetCurrentUser_IsLocal(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")
	login(t, a, "o1")
	if _, ok, _ := f.repo.Storage.GetItem(context.Background(), persistence.KeyState); ok {
		t.Error("设置当前用户不应写入存储")
	}
	a.SetCurrentUser(nil)
	if a.CurrentUser() != nil {
		t.Error("当前用户应被清除")
	}
}

func TestTabWatch_CloseReleasesWatchers(t *testing.T) {
	f := newFixture()
	tab, err := NewTab(context.Background(), "tab-a", persistence.DefaultState(testNow), f.tabDeps())
	if err != nil {
		t.Fatalf("NewTab 失败: %v", err)
	}
	ch, cancel := tab.Watch()
	defer cancel()
	tab.Close()
	if _, open := <-ch; open {
		t.Error("关闭标签页后观察通道应关闭")
	}
}

func TestTabListen_RefreshesCurrentUser(t *testing.T) {
	f := newFixture()
	a := f.openTab(t, "tab-a")
	b := f.openTab(t, "tab-b")
	login(t, b, "o3")
	ctx := context.Background()

	// 其他标签页给当前用户加上 HR 角色
	o3, _ := a.State().FindOfficer("o3")
	o3.DepartmentRoles = append(o3.DepartmentRoles, model.RoleHR)
	if _, err := a.Update(ctx, func(s *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.UpdateOfficer(s, env, o3)
	}); err != nil {
		t.Fatalf("更新警员失败: %v", err)
	}
	waitFor(t, b, func(s *model.AppState) bool {
		return s.CurrentUser != nil && s.CurrentUser.HasRole(model.RoleHR)
	})

	// 解雇后当前用户转为匿名
	if _, err := a.Update(ctx, func(s *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.TerminateOfficer(s, env, "o3")
	}); err != nil {
		t.Fatalf("解雇警员失败: %v", err)
	}
	waitFor(t, b, func(s *model.AppState) bool { return s.CurrentUser == nil })
	if b.CurrentUser() != nil {
		t.Error("已解雇的当前用户应转为匿名")
	}
}
