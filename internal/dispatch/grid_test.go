package dispatch

import (
	"errors"
	"reflect"
	"testing"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

func TestSetVehicleStatus_ShotsFiredScenario(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s = mustState(t)(AssignToSeat(s, env, "v4", 0, "o3"))
	s = mustState(t)(AssignToSeat(s, env, "v4", 1, "o4"))
	s = mustState(t)(SetVehicleStatus(s, env, "v4", model.StatusCode1))
	if s.ShotsFiredAlert != nil {
		t.Fatal("Code 1 不应触发警报")
	}

	s = mustState(t)(SetVehicleStatus(s, env, "v4", model.StatusShotsFired))
	alert := s.ShotsFiredAlert
	if alert == nil {
		t.Fatal("期望触发开枪警报")
	}
	if alert.VehicleName != "Cruiser 1" {
		t.Errorf("期望 VehicleName=Cruiser 1，实际=%s", alert.VehicleName)
	}
	if alert.FunkChannel != "Funk 1" {
		t.Errorf("期望 FunkChannel=Funk 1，实际=%s", alert.FunkChannel)
	}
	if want := []string{"Peter Jones", "Mary Williams"}; !reflect.DeepEqual(alert.Occupants, want) {
		t.Errorf("期望 Occupants=%v，实际=%v", want, alert.Occupants)
	}
	if !alert.StartedAt.Equal(testNow) {
		t.Errorf("StartedAt 应为调用方时间，实际=%v", alert.StartedAt)
	}

	// 拖回侧栏后清空车辆：座位全空，状态不变
	s = mustState(t)(UnassignOfficer(s, env, "o4"))
	s = mustState(t)(ClearVehicle(s, env, "v4"))
	v := s.Vehicles[s.GridIndex("v4")]
	if v.Seats[0] != "" || v.Seats[1] != "" {
		t.Errorf("期望座位全空，实际 %v", v.Seats)
	}
	if v.Status != model.StatusShotsFired {
		t.Errorf("清空车辆不应改变状态，实际=%q", v.Status)
	}
}

func TestSetVehicleStatus_ChangingAwayClearsAlert(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s = mustState(t)(AssignToSeat(s, env, "v1", 0, "o3"))
	s = mustState(t)(SetVehicleStatus(s, env, "v1", model.StatusShotsFired))
	if s.ShotsFiredAlert == nil {
		t.Fatal("期望触发警报")
	}

	// 其他车辆变更状态不影响警报
	s = mustState(t)(SetVehicleStatus(s, env, "v2", model.StatusCode4))
	if s.ShotsFiredAlert == nil {
		t.Fatal("其他车辆的状态变更不应解除警报")
	}

	s = mustState(t)(SetVehicleStatus(s, env, "v1", model.StatusCode4))
	if s.ShotsFiredAlert != nil {
		t.Error("报警车辆改为其他状态后警报应解除")
	}
}

func TestSetVehicleStatus_RepeatedShotsFiredKeepsAlert(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s = mustState(t)(AssignToSeat(s, env, "v1", 0, "o3"))
	s = mustState(t)(SetVehicleStatus(s, env, "v1", model.StatusShotsFired))
	first := s.ShotsFiredAlert.ID

	s = mustState(t)(SetVehicleStatus(s, env, "v1", model.StatusShotsFired))
	if s.ShotsFiredAlert == nil || s.ShotsFiredAlert.ID != first {
		t.Error("重复设置开枪状态不应生成新警报")
	}
}

func TestSetVehicleStatus_EmptyVehicleNoAlert(t *testing.T) {
	s := newTestState()
	s = mustState(t)(SetVehicleStatus(s, testEnv(), "v2", model.StatusShotsFired))
	if s.ShotsFiredAlert != nil {
		t.Error("空车设置开枪状态不应触发警报")
	}
	if s.Vehicles[1].Status != model.StatusShotsFired {
		t.Error("状态仍应更新")
	}
}

func TestSetVehicleStatus_UnknownStatus(t *testing.T) {
	s := newTestState()
	out, err := SetVehicleStatus(s, testEnv(), "v1", model.VehicleStatus("Code 9"))
	if !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("期望 ErrUnknownStatus，实际 %v", err)
	}
	if out != s {
		t.Error("失败时应原样返回")
	}
}

func TestAddVehicleToGrid_Defaults(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s = mustState(t)(AddVehicleToGrid(s, env, "v5"))

	gi := s.GridIndex("v5")
	if gi < 0 {
		t.Fatal("v5 应在面板上")
	}
	v := s.Vehicles[gi]
	if len(v.Seats) != 2 || v.Seats[0] != "" || v.Seats[1] != "" {
		t.Errorf("期望两个空座位，实际 %v", v.Seats)
	}
	if v.Status != model.StatusNone {
		t.Errorf("期望默认无状态，实际=%q", v.Status)
	}
	if v.FunkChannel != "Funk 1" {
		t.Errorf("期望默认频道 Funk 1，实际=%q", v.FunkChannel)
	}
	if v.Callsign != "" {
		t.Errorf("期望默认呼号为空，实际=%q", v.Callsign)
	}

	if _, err := AddVehicleToGrid(s, env, "v5"); !errors.Is(err, ErrVehicleAlreadyOnGrid) {
		t.Errorf("期望 ErrVehicleAlreadyOnGrid，实际 %v", err)
	}
	if _, err := AddVehicleToGrid(s, env, "v99"); !errors.Is(err, ErrVehicleNotInFleet) {
		t.Errorf("期望 ErrVehicleNotInFleet，实际 %v", err)
	}
}

func TestRemoveVehicleFromGrid_DropsBoardFields(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s = mustState(t)(AssignToSeat(s, env, "v3", 0, "o3"))
	s = mustState(t)(SetVehicleCallsign(s, env, "v3", "1-L-20"))
	s = mustState(t)(SetVehicleFunk(s, env, "v3", "Funk 2"))
	s = mustState(t)(TogglePinned(s, env, "v3"))
	s = mustState(t)(SetVehicleStatus(s, env, "v3", model.StatusShotsFired))
	if !s.IsPinned("v3") || s.ShotsFiredAlert == nil {
		t.Fatal("前置状态不符")
	}

	s = mustState(t)(RemoveVehicleFromGrid(s, env, "v3"))
	if s.GridIndex("v3") >= 0 {
		t.Error("v3 应已移出面板")
	}
	if s.IsPinned("v3") {
		t.Error("移出面板应丢弃置顶标记")
	}
	if s.ShotsFiredAlert != nil {
		t.Error("移出报警车辆应解除警报")
	}

	// 重新放上面板时面板字段全部重置
	s = mustState(t)(AddVehicleToGrid(s, env, "v3"))
	v := s.Vehicles[s.GridIndex("v3")]
	if v.Callsign != "" || v.FunkChannel != "Funk 1" || v.Status != model.StatusNone || v.Occupied() {
		t.Errorf("重新上板后面板字段应为默认值，实际 %+v", v)
	}
}

func TestTogglePinned(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s = mustState(t)(TogglePinned(s, env, "v2"))
	if !s.IsPinned("v2") {
		t.Error("期望 v2 被置顶")
	}
	s = mustState(t)(TogglePinned(s, env, "v2"))
	if s.IsPinned("v2") {
		t.Error("期望 v2 取消置顶")
	}
}

func TestAppendLog(t *testing.T) {
	s := newTestState()
	entry := LogEntry{Category: model.LogCategoryDispatch, EventType: "test_event", Details: "first"}

	if out := AppendLog(s, nil, entry, testNow, "l1"); out != s || len(out.ITLogs) != 0 {
		t.Error("没有操作人时应原样返回")
	}

	actor := s.Officers[0]
	s = AppendLog(s, &actor, entry, testNow, "l1")
	entry.Details = "second"
	s = AppendLog(s, &actor, entry, testNow, "l2")

	if len(s.ITLogs) != 2 {
		t.Fatalf("期望 2 条日志，实际 %d", len(s.ITLogs))
	}
	if s.ITLogs[0].ID != "l2" || s.ITLogs[1].ID != "l1" {
		t.Error("新日志应插入头部")
	}
	if s.ITLogs[0].Actor != "John Smith" || !s.ITLogs[0].Timestamp.Equal(testNow) {
		t.Errorf("日志操作人或时间不符: %+v", s.ITLogs[0])
	}
}

func TestEnvWithoutActorSkipsLog(t *testing.T) {
	env := testEnv()
	env.Actor = nil
	s := mustState(t)(AssignToSeat(newTestState(), env, "v1", 0, "o3"))
	if len(s.ITLogs) != 0 {
		t.Errorf("匿名操作不应写日志，实际 %d 条", len(s.ITLogs))
	}
}
