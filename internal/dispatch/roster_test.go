package dispatch

import (
	"errors"
	"testing"
	"time"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

func TestAddOfficer(t *testing.T) {
	env := testEnv()
	s := newTestState()

	s = mustState(t)(AddOfficer(s, env, model.Officer{FirstName: "Tom", LastName: "Baker"}))
	o := s.Officers[len(s.Officers)-1]
	if o.ID == "" || o.Rank != model.RankPoliceOfficerI {
		t.Errorf("期望生成 ID 且默认警衔 PO I，实际 %+v", o)
	}
	if !o.CreatedAt.Equal(env.Now) {
		t.Errorf("新警员 CreatedAt 应为当前时间，实际 %v", o.CreatedAt)
	}
	if len(s.OfficerChecklists[o.ID]) != len(DefaultChecklistLabels) {
		t.Error("新警员应获得默认入职清单")
	}

	if _, err := AddOfficer(s, env, model.Officer{FirstName: "", LastName: "X"}); !errors.Is(err, ErrInvalidOfficer) {
		t.Errorf("期望 ErrInvalidOfficer，实际 %v", err)
	}
	if _, err := AddOfficer(s, env, model.Officer{ID: "o1", FirstName: "A", LastName: "B"}); !errors.Is(err, ErrOfficerExists) {
		t.Errorf("期望 ErrOfficerExists，实际 %v", err)
	}
	if _, err := AddOfficer(s, env, model.Officer{FirstName: "A", LastName: "B", Rank: "Kadett"}); !errors.Is(err, ErrUnknownRank) {
		t.Errorf("期望 ErrUnknownRank，实际 %v", err)
	}
}

func TestUpdateOfficer_DemotionRestoresExclusivity(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s = mustState(t)(AssignToSeat(s, env, "v1", 0, "o2"))
	s = mustState(t)(AssignToHeaderRole(s, env, model.HeaderAir1, "o2"))

	o2, _ := s.FindOfficer("o2")
	o2.Rank = model.RankSergeant
	s = mustState(t)(UpdateOfficer(s, env, o2))

	if s.HeaderRoles[model.HeaderAir1] != "" {
		t.Error("降衔后应离开指挥席位")
	}
	if s.Vehicles[0].Seats[0] != "o2" {
		t.Error("降衔后应保留车辆座位")
	}
}

func TestUpdateOfficer_RefreshesCurrentUser(t *testing.T) {
	env := testEnv()
	s := newTestState()
	cur := s.Officers[2]
	s.CurrentUser = &cur

	u := s.Officers[2]
	u.Phone = "555-0199"
	s = mustState(t)(UpdateOfficer(s, env, u))
	if s.CurrentUser.Phone != "555-0199" {
		t.Error("更新当前用户档案后 CurrentUser 应同步")
	}

	// 请求中未带 createdAt 时保留原值
	created := testNow.AddDate(-1, 0, 0)
	s.Officers[2].CreatedAt = created
	u.CreatedAt = time.Time{}
	s = mustState(t)(UpdateOfficer(s, env, u))
	if !s.Officers[2].CreatedAt.Equal(created) {
		t.Errorf("更新不应清空 CreatedAt，实际 %v", s.Officers[2].CreatedAt)
	}
}

func TestTerminateOfficer(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s.Credentials = []model.Credential{
		{ID: "c3", OfficerID: "o3", Username: "pjones", Password: "pw"},
		{ID: "c4", OfficerID: "o4", Username: "mwilliams", Password: "pw"},
	}
	s = mustState(t)(SetChecklist(s, env, "o3", []model.ChecklistItem{{Label: "a"}}))
	s = mustState(t)(ClockIn(s, env, "o3"))
	s = mustState(t)(AssignToSeat(s, env, "v2", 3, "o3"))

	s = mustState(t)(TerminateOfficer(s, env, "o3"))

	if _, ok := s.FindOfficer("o3"); ok {
		t.Error("警员档案应被删除")
	}
	if s.Vehicles[1].Seats[3] != "" {
		t.Error("被解雇警员应离开车辆")
	}
	if len(s.Credentials) != 1 || s.Credentials[0].OfficerID != "o4" {
		t.Errorf("只应删除 o3 的凭据，实际 %+v", s.Credentials)
	}
	if _, ok := s.OfficerChecklists["o3"]; ok {
		t.Error("入职清单应被删除")
	}
	if _, ok := s.TimeClockState["o3"]; ok {
		t.Error("打卡记录应被删除")
	}
	if s.ITLogs[0].EventType != model.EventOfficerTerminated {
		t.Errorf("期望 officer_terminated 日志，实际=%s", s.ITLogs[0].EventType)
	}
}

func TestClockInOut_AccumulatesDuty(t *testing.T) {
	env := testEnv()
	s := newTestState()

	s = mustState(t)(ClockIn(s, env, "o4"))
	if _, err := ClockIn(s, env, "o4"); !errors.Is(err, ErrAlreadyClockedIn) {
		t.Errorf("期望 ErrAlreadyClockedIn，实际 %v", err)
	}

	env.Now = testNow.Add(90 * time.Minute)
	s = mustState(t)(ClockOut(s, env, "o4"))
	o4, _ := s.FindOfficer("o4")
	if o4.TotalDutySeconds != 5400 {
		t.Errorf("期望累计 5400 秒，实际 %d", o4.TotalDutySeconds)
	}
	if s.TimeClockState["o4"].OnDuty() {
		t.Error("下岗后不应处于上岗状态")
	}
	if _, err := ClockOut(s, env, "o4"); !errors.Is(err, ErrNotClockedIn) {
		t.Errorf("期望 ErrNotClockedIn，实际 %v", err)
	}
}

func TestFleetVehicleLifecycle(t *testing.T) {
	env := testEnv()
	s := newTestState()

	s = mustState(t)(AddFleetVehicle(s, env, model.Vehicle{
		ID: "v7", Name: "Adam 7", Category: model.CategorySUV, Capacity: 4, LicensePlate: "LS-707",
	}))
	if s.FleetIndex("v7") < 0 || s.GridIndex("v7") >= 0 {
		t.Fatal("新车辆应只在主档中")
	}
	if _, err := AddFleetVehicle(s, env, model.Vehicle{Name: "X", Category: model.CategorySUV, Capacity: 3}); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("期望 ErrInvalidCapacity，实际 %v", err)
	}

	s = mustState(t)(AddVehicleToGrid(s, env, "v7"))
	s = mustState(t)(AssignToSeat(s, env, "v7", 3, "o6"))
	s = mustState(t)(SetVehicleCallsign(s, env, "v7", "7-A-1"))

	upd := s.MasterFleet[s.FleetIndex("v7")]
	upd.Capacity = 2
	upd.Mileage = 1200
	s = mustState(t)(UpdateFleetVehicle(s, env, upd))
	gv := s.Vehicles[s.GridIndex("v7")]
	if gv.Mileage != 1200 || len(gv.Seats) != 2 {
		t.Errorf("主档变更应同步到面板，实际 %+v", gv)
	}
	if gv.Callsign != "7-A-1" {
		t.Error("面板字段应保留")
	}

	s = mustState(t)(DeleteFleetVehicle(s, env, "v7"))
	if s.FleetIndex("v7") >= 0 || s.GridIndex("v7") >= 0 {
		t.Error("删除后主档与面板都不应包含 v7")
	}
}

func TestMailbox(t *testing.T) {
	env := testEnv()
	s := newTestState()

	s = mustState(t)(SendMail(s, env, model.MailboxMessage{ToOfficerID: "o3", Subject: "Dienstplan", Body: "..."}))
	env.Now = testNow.Add(time.Minute)
	s = mustState(t)(SendMail(s, env, model.MailboxMessage{ToOfficerID: "o3", Subject: "Briefing"}))

	inbox := Inbox(s, "o3")
	if len(inbox) != 2 || inbox[0].Subject != "Briefing" {
		t.Fatalf("收件箱应按时间倒序，实际 %+v", inbox)
	}
	if inbox[0].FromOfficerID != "o1" {
		t.Errorf("发件人缺省为操作人，实际=%s", inbox[0].FromOfficerID)
	}

	s = mustState(t)(MarkMailRead(s, inbox[0].ID))
	if !Inbox(s, "o3")[0].Read {
		t.Error("期望已读")
	}
	s = mustState(t)(DeleteMail(s, inbox[1].ID))
	if len(Inbox(s, "o3")) != 1 {
		t.Error("期望剩余 1 封")
	}
	if _, err := DeleteMail(s, "missing"); !errors.Is(err, ErrMailNotFound) {
		t.Errorf("期望 ErrMailNotFound，实际 %v", err)
	}
	if _, err := SendMail(s, env, model.MailboxMessage{ToOfficerID: "o99"}); !errors.Is(err, ErrOfficerNotFound) {
		t.Errorf("期望 ErrOfficerNotFound，实际 %v", err)
	}
}

func TestAddSanction(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s = mustState(t)(AddSanction(s, env, model.Sanction{OfficerID: "o6", Type: "Verwarnung", Reason: "Funkdisziplin"}))
	if len(s.Sanctions) != 1 {
		t.Fatal("期望 1 条处分")
	}
	got := s.Sanctions[0]
	if got.IssuedBy != "John Smith" || !got.Timestamp.Equal(testNow) || got.ID == "" {
		t.Errorf("处分字段不符: %+v", got)
	}
}

func TestAddCredentialAndAuthenticate(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s = mustState(t)(AddCredential(s, env, "o4", "1004", "secret"))

	o, ok := Authenticate(s, "1004", "secret")
	if !ok || o.ID != "o4" {
		t.Fatalf("凭据应能登录 o4，得到 %+v, %v", o, ok)
	}
	if _, ok := Authenticate(s, "1004", "wrong"); ok {
		t.Error("错误密码不应登录成功")
	}

	if _, err := AddCredential(s, env, "o5", "1004", "x"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("重复用户名应返回 ErrUsernameTaken，得到 %v", err)
	}
	if _, err := AddCredential(s, env, "ghost", "9999", "x"); !errors.Is(err, ErrOfficerNotFound) {
		t.Errorf("未知警员应返回 ErrOfficerNotFound，得到 %v", err)
	}

	s = mustState(t)(TerminateOfficer(s, env, "o4"))
	if _, ok := Authenticate(s, "1004", "secret"); ok {
		t.Error("解雇后凭据应失效")
	}
}
