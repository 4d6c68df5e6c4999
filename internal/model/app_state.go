package model

// AppState 应用快照：跨标签页同步与持久化的单位
// CurrentUser 只属于当前标签页，写入共享存储前必须剥离
type AppState struct {
	Officers          []Officer                  `json:"officers"`
	MasterFleet       []Vehicle                  `json:"masterFleet"`
	Vehicles          []GridVehicle              `json:"vehicles"`
	PinnedVehicleIDs  []string                   `json:"pinnedVehicleIds"`
	HeaderRoles       HeaderRoles                `json:"headerRoles"`
	ITLogs            []ITLog                    `json:"itLogs"`
	Sanctions         []Sanction                 `json:"sanctions"`
	Credentials       []Credential               `json:"credentials"`
	Documents         []Document                 `json:"documents"`
	TrainingModules   []TrainingModule           `json:"trainingModules"`
	OfficerChecklists map[string][]ChecklistItem `json:"officerChecklists"`
	MailboxMessages   []MailboxMessage           `json:"mailboxMessages"`
	HomepageContent   HomepageContent            `json:"homepageContent"`
	Emails            []Email                    `json:"emails"`
	RadioChannels     []RadioChannel             `json:"radioChannels"`
	CallsignGlossary  []CallsignEntry            `json:"callsignGlossary"`
	TimeClockState    map[string]TimeClockEntry  `json:"timeClockState"`
	ShotsFiredAlert   *ShotsFiredAlert           `json:"shotsFiredAlert"`
	CurrentUser       *Officer                   `json:"currentUser,omitempty"`
}

// Clone 深拷贝整个快照，保证修改副本不影响原值
func (s *AppState) Clone() *AppState {
	if s == nil {
		return nil
	}
	out := &AppState{
		PinnedVehicleIDs: cloneStrings(s.PinnedVehicleIDs),
		HeaderRoles:      s.HeaderRoles.Clone(),
		ITLogs:           append([]ITLog(nil), s.ITLogs...),
		Sanctions:        append([]Sanction(nil), s.Sanctions...),
		Credentials:      append([]Credential(nil), s.Credentials...),
		Documents:        append([]Document(nil), s.Documents...),
		MailboxMessages:  append([]MailboxMessage(nil), s.MailboxMessages...),
		Emails:           append([]Email(nil), s.Emails...),
		RadioChannels:    append([]RadioChannel(nil), s.RadioChannels...),
		CallsignGlossary: append([]CallsignEntry(nil), s.CallsignGlossary...),
		ShotsFiredAlert:  s.ShotsFiredAlert.Clone(),
	}

	if s.Officers != nil {
		out.Officers = make([]Officer, len(s.Officers))
		for i, o := range s.Officers {
			out.Officers[i] = o.Clone()
		}
	}
	if s.MasterFleet != nil {
		out.MasterFleet = make([]Vehicle, len(s.MasterFleet))
		for i, v := range s.MasterFleet {
			out.MasterFleet[i] = v.Clone()
		}
	}
	if s.Vehicles != nil {
		out.Vehicles = make([]GridVehicle, len(s.Vehicles))
		for i, v := range s.Vehicles {
			out.Vehicles[i] = v.Clone()
		}
	}
	if s.TrainingModules != nil {
		out.TrainingModules = make([]TrainingModule, len(s.TrainingModules))
		for i, m := range s.TrainingModules {
			m.AssignedOfficerIDs = cloneStrings(m.AssignedOfficerIDs)
			m.CompletedOfficerIDs = cloneStrings(m.CompletedOfficerIDs)
			out.TrainingModules[i] = m
		}
	}
	if s.OfficerChecklists != nil {
		out.OfficerChecklists = make(map[string][]ChecklistItem, len(s.OfficerChecklists))
		for k, items := range s.OfficerChecklists {
			out.OfficerChecklists[k] = append([]ChecklistItem(nil), items...)
		}
	}
	if s.TimeClockState != nil {
		out.TimeClockState = make(map[string]TimeClockEntry, len(s.TimeClockState))
		for k, e := range s.TimeClockState {
			if e.ClockInTime != nil {
				ms := *e.ClockInTime
				e.ClockInTime = &ms
			}
			out.TimeClockState[k] = e
		}
	}
	out.HomepageContent = s.HomepageContent
	out.HomepageContent.Announcements = cloneStrings(s.HomepageContent.Announcements)
	if s.CurrentUser != nil {
		u := s.CurrentUser.Clone()
		out.CurrentUser = &u
	}
	return out
}

// Shared 返回剥离 CurrentUser 的副本（用于写入共享存储）
func (s *AppState) Shared() *AppState {
	out := s.Clone()
	out.CurrentUser = nil
	return out
}

// OfficerIndex 按 ID 查找警员下标，未找到返回 -1
func (s *AppState) OfficerIndex(id string) int {
	for i := range s.Officers {
		if s.Officers[i].ID == id {
			return i
		}
	}
	return -1
}

// FindOfficer 按 ID 查找警员
func (s *AppState) FindOfficer(id string) (Officer, bool) {
	if i := s.OfficerIndex(id); i >= 0 {
		return s.Officers[i], true
	}
	return Officer{}, false
}

// GridIndex 按 ID 查找面板车辆下标
func (s *AppState) GridIndex(vehicleID string) int {
	for i := range s.Vehicles {
		if s.Vehicles[i].ID == vehicleID {
			return i
		}
	}
	return -1
}

// FleetIndex 按 ID 查找车队主档下标
func (s *AppState) FleetIndex(vehicleID string) int {
	for i := range s.MasterFleet {
		if s.MasterFleet[i].ID == vehicleID {
			return i
		}
	}
	return -1
}

// IsPinned 车辆是否被置顶
func (s *AppState) IsPinned(vehicleID string) bool {
	for _, id := range s.PinnedVehicleIDs {
		if id == vehicleID {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
