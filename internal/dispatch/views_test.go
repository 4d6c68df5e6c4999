package dispatch

import (
	"testing"
	"time"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

func TestIsAvailable(t *testing.T) {
	env := testEnv()
	s := newTestState()
	o2, _ := s.FindOfficer("o2") // Sr. Sergeant
	o3, _ := s.FindOfficer("o3") // Police Officer II

	if !IsAvailable(s, o2) || !IsAvailable(s, o3) {
		t.Fatal("未分配的警员应可用")
	}

	s = mustState(t)(AssignToSeat(s, env, "v1", 0, "o2"))
	s = mustState(t)(AssignToSeat(s, env, "v1", 1, "o3"))
	if !IsAvailable(s, o2) {
		t.Error("高警衔警员只在车上时仍可用")
	}
	if IsAvailable(s, o3) {
		t.Error("低警衔警员在车上时不可用")
	}

	s = mustState(t)(AssignToHeaderRole(s, env, model.HeaderDispatch, "o2"))
	if IsAvailable(s, o2) {
		t.Error("高警衔警员同时在车上和席位上时不可用")
	}

	avail := AvailableOfficers(s)
	for _, o := range avail {
		if o.ID == "o2" || o.ID == "o3" {
			t.Errorf("%s 不应出现在可用名单中", o.ID)
		}
	}
	if len(avail) != 4 {
		t.Errorf("期望 4 名可用警员，实际 %d", len(avail))
	}
}

func TestPositionOfAndOccupants(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s = mustState(t)(AssignToSeat(s, env, "v4", 1, "o4"))
	s = mustState(t)(AssignToSeat(s, env, "v4", 0, "o3"))

	p := PositionOf(s, "o4")
	if p.VehicleID != "v4" || p.Seat != 1 || p.InHeader() {
		t.Errorf("位置不符: %+v", p)
	}
	if p := PositionOf(s, "o6"); p.InVehicle() || p.Seat != -1 {
		t.Errorf("未分配警员位置应为空: %+v", p)
	}

	occ := Occupants(s, "v4")
	if len(occ) != 2 || occ[0].ID != "o3" || occ[1].ID != "o4" {
		t.Errorf("乘员应按座位顺序，实际 %+v", occ)
	}
}

func TestBoardCounts(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s = mustState(t)(AssignToSeat(s, env, "v1", 0, "o3"))
	s = mustState(t)(AssignToSeat(s, env, "v1", 1, "o4"))
	s = mustState(t)(AssignToHeaderRole(s, env, model.HeaderDispatch, "o1"))
	s = mustState(t)(SetVehicleStatus(s, env, "v1", model.StatusCode2))
	s = mustState(t)(ClockIn(s, env, "o3"))

	c := BoardCounts(s)
	if c.VehiclesOnGrid != 4 || c.VehiclesOccupied != 1 {
		t.Errorf("车辆统计不符: %+v", c)
	}
	if c.SeatsTotal != 12 || c.SeatsFilled != 2 {
		t.Errorf("座位统计不符: %+v", c)
	}
	if c.HeaderFilled != 1 || c.OnDuty != 1 || c.Available != 4 {
		t.Errorf("席位/在岗/可用统计不符: %+v", c)
	}
	if c.ByStatus[model.StatusCode2] != 1 || c.ByStatus[model.StatusNone] != 3 {
		t.Errorf("状态统计不符: %+v", c.ByStatus)
	}
}

func TestChecklistAndTrainingProgress(t *testing.T) {
	env := testEnv()
	s := newTestState()
	s = mustState(t)(SetChecklist(s, env, "o3", []model.ChecklistItem{
		{Label: "a", Done: true},
		{Label: "b", Done: true},
		{Label: "c"},
		{Label: "d"},
	}))
	if p := ChecklistProgress(s, "o3"); p.Done != 2 || p.Total != 4 || p.Percent != 50 {
		t.Errorf("清单进度不符: %+v", p)
	}
	if p := ChecklistProgress(s, "o6"); p.Total != 0 || p.Percent != 0 {
		t.Errorf("无清单时进度应为 0: %+v", p)
	}

	s.TrainingModules = []model.TrainingModule{
		{ID: "t1", Title: "Funk", AssignedOfficerIDs: []string{"o3"}},
		{ID: "t2", Title: "Erste Hilfe", AssignedOfficerIDs: []string{"o3", "o4"}},
		{ID: "t3", Title: "Taktik", AssignedOfficerIDs: []string{"o4"}},
	}
	s = mustState(t)(CompleteTraining(s, env, "t2", "o3"))
	if p := TrainingProgress(s, "o3"); p.Done != 1 || p.Total != 2 || p.Percent != 50 {
		t.Errorf("培训进度不符: %+v", p)
	}
}

func TestLicenseStatus(t *testing.T) {
	now := testNow
	tests := []struct {
		name   string
		expiry time.Time
		want   LicenseState
	}{
		{"已过期", now.Add(-time.Hour), LicenseExpired},
		{"恰好到期", now, LicenseExpired},
		{"即将到期", now.Add(10 * 24 * time.Hour), LicenseExpiring},
		{"有效", now.Add(90 * 24 * time.Hour), LicenseValid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LicenseStatus(model.License{ExpiryDate: tt.expiry}, now); got != tt.want {
				t.Errorf("期望 %s，实际 %s", tt.want, got)
			}
		})
	}
}
