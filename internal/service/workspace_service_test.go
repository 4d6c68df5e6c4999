package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

func TestWorkspace_ClockInOut(t *testing.T) {
	f := newFixture()
	tab := f.openTab(t, "tab-a")
	svc := NewWorkspaceService(zap.NewNop())
	ctx := context.Background()

	if _, err := svc.ClockIn(ctx, tab); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("匿名打卡应返回 ErrNotLoggedIn，实际 %v", err)
	}

	login(t, tab, "o3")
	if _, err := svc.ClockIn(ctx, tab); err != nil {
		t.Fatalf("上岗失败: %v", err)
	}
	if _, err := svc.ClockIn(ctx, tab); !errors.Is(err, dispatch.ErrAlreadyClockedIn) {
		t.Errorf("重复上岗应返回 ErrAlreadyClockedIn，实际 %v", err)
	}

	f.clk.Add(90 * time.Minute)
	state, err := svc.ClockOut(ctx, tab)
	if err != nil {
		t.Fatalf("下岗失败: %v", err)
	}
	o, _ := state.FindOfficer("o3")
	if o.TotalDutySeconds != 5400 {
		t.Errorf("累计在岗秒数 = %d, 期望 5400", o.TotalDutySeconds)
	}
	if tab.CurrentUser().TotalDutySeconds != 5400 {
		t.Error("当前用户的在岗时长应同步刷新")
	}
}

func TestWorkspace_Mailbox(t *testing.T) {
	f := newFixture()
	sender := f.openTab(t, "tab-a")
	receiver := f.openTab(t, "tab-b")
	login(t, sender, "o1")
	login(t, receiver, "o4")
	svc := NewWorkspaceService(zap.NewNop())
	ctx := context.Background()

	if _, err := svc.SendMail(ctx, sender, &dto.SendMailRequest{ToOfficerID: "o4", Subject: "Schicht", Body: "Heute 20 Uhr"}); err != nil {
		t.Fatalf("发信失败: %v", err)
	}
	waitFor(t, receiver, func(s *model.AppState) bool { return len(s.MailboxMessages) == 1 })

	inbox, err := svc.Inbox(receiver)
	if err != nil || len(inbox) != 1 {
		t.Fatalf("收件箱应有 1 封信: %v, %v", inbox, err)
	}
	if inbox[0].FromOfficerID != "o1" || inbox[0].Read {
		t.Errorf("信件字段不符: %+v", inbox[0])
	}

	if err := svc.MarkRead(ctx, receiver, inbox[0].ID); err != nil {
		t.Fatalf("标记已读失败: %v", err)
	}
	if err := svc.DeleteMail(ctx, receiver, inbox[0].ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if err := svc.DeleteMail(ctx, receiver, inbox[0].ID); !errors.Is(err, dispatch.ErrMailNotFound) {
		t.Errorf("重复删除应返回 ErrMailNotFound，实际 %v", err)
	}
}

func TestWorkspace_SetChecklist(t *testing.T) {
	f := newFixture()
	tab := f.openTab(t, "tab-a")
	svc := NewWorkspaceService(zap.NewNop())

	items, err := svc.SetChecklist(context.Background(), tab, "o4", &dto.SetChecklistRequest{Items: []dto.ChecklistItemRequest{
		{Label: "Dienstausweis", Done: true},
		{Label: "Funkgerät"},
	}})
	if err != nil {
		t.Fatalf("设置清单失败: %v", err)
	}
	if len(items) != 2 || items[0].ID == "" {
		t.Errorf("清单条目应生成 ID: %+v", items)
	}
	if p := dispatch.ChecklistProgress(tab.State(), "o4"); p.Percent != 50 {
		t.Errorf("清单进度 = %d%%, 期望 50%%", p.Percent)
	}
}
