package service

import (
	"github.com/benbjohnson/clock"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
)

// ViewService 只读派生视图
type ViewService interface {
	Availability(tab *Tab) *dto.AvailabilityResponse
	Counts(tab *Tab) dispatch.Counts
	Progress(tab *Tab, officerID string) (*dto.ProgressResponse, error)
	Alert(tab *Tab) dto.AlertResponse
	IgnoreAlert(tab *Tab) (dto.AlertResponse, error)
}

type viewService struct {
	clock clock.Clock
}

// NewViewService 创建 ViewService 实例
func NewViewService(clk clock.Clock) ViewService {
	return &viewService{clock: clk}
}

func (s *viewService) Availability(tab *Tab) *dto.AvailabilityResponse {
	state := tab.State()
	available := dispatch.AvailableOfficers(state)
	return &dto.AvailabilityResponse{Available: available, Total: len(state.Officers)}
}

func (s *viewService) Counts(tab *Tab) dispatch.Counts {
	return dispatch.BoardCounts(tab.State())
}

func (s *viewService) Progress(tab *Tab, officerID string) (*dto.ProgressResponse, error) {
	state := tab.State()
	officer, ok := state.FindOfficer(officerID)
	if !ok {
		return nil, dispatch.ErrOfficerNotFound
	}
	now := s.clock.Now()
	resp := &dto.ProgressResponse{
		OfficerID: officerID,
		Checklist: dispatch.ChecklistProgress(state, officerID),
		Training:  dispatch.TrainingProgress(state, officerID),
		Licenses:  make([]dto.LicenseStatusResponse, 0, len(officer.Licenses)),
		OnDuty:    state.TimeClockState[officerID].OnDuty(),
	}
	for _, l := range officer.Licenses {
		resp.Licenses = append(resp.Licenses, dto.LicenseStatusResponse{License: l, Status: dispatch.LicenseStatus(l, now)})
	}
	return resp, nil
}

// Alert 当前登录警员看到的警报；匿名标签页总是显示覆盖层
func (s *viewService) Alert(tab *Tab) dto.AlertResponse {
	return AlertResponse(tab)
}

// IgnoreAlert 两步忽略，只影响本标签页
func (s *viewService) IgnoreAlert(tab *Tab) (dto.AlertResponse, error) {
	if _, err := tab.Alert().Ignore(); err != nil {
		return AlertResponse(tab), err
	}
	return AlertResponse(tab), nil
}

// StateResponse 组装标签页快照响应
func StateResponse(tab *Tab) *dto.StateResponse {
	return &dto.StateResponse{
		State:  tab.State(),
		Synced: tab.Synced(),
		Alert:  AlertResponse(tab),
	}
}

// AlertResponse 标签页当前用户看到的警报
func AlertResponse(tab *Tab) dto.AlertResponse {
	v := tab.AlertView()
	return dto.AlertResponse{
		Phase:      string(v.Phase),
		Alert:      v.Alert,
		Visible:    v.Visible,
		Confirming: v.Confirming,
	}
}
