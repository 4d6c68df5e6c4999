package persistence

import (
	"fmt"
	"time"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// licenseValidity 新签发证照的默认有效期
const licenseValidity = 10

// DefaultState 构造默认快照：种子警员、车队、面板、频道、呼号词汇表与首页内容
func DefaultState(now time.Time) *model.AppState {
	now = now.UTC()
	officers := []model.Officer{
		seedOfficer("o1", "1001", "John", "Smith", model.RankCaptain, model.GenderMale, now,
			model.RoleLSPD, model.RoleAdmin),
		seedOfficer("o2", "1002", "Jane", "Doe", model.RankSrSergeant, model.GenderFemale, now,
			model.RoleLSPD, model.RoleHR),
		seedOfficer("o3", "1003", "Peter", "Jones", model.RankPoliceOfficerII, model.GenderMale, now,
			model.RoleLSPD),
		seedOfficer("o4", "1004", "Mary", "Williams", model.RankPoliceOfficerI, model.GenderFemale, now,
			model.RoleLSPD),
		seedOfficer("o5", "1005", "David", "Brown", model.RankSergeant, model.GenderMale, now,
			model.RoleLSPD, model.RoleFuhrparkmanager, model.RoleAusbilder),
		seedOfficer("o6", "1006", "Linda", "Miller", model.RankPoliceOfficerIII, model.GenderFemale, now,
			model.RoleLSPD, model.RoleDispatch),
	}
	officers[3].AssignedFTOID = "o5"

	fleet := []model.Vehicle{
		seedVehicle("v1", "Adam 1", model.CategoryStreife, "LSPD-101", 4, 48210, now),
		seedVehicle("v2", "Adam 2", model.CategoryStreife, "LSPD-102", 4, 31877, now),
		seedVehicle("v3", "Lincoln 1", model.CategoryZivil, "LSPD-201", 2, 12950, now),
		seedVehicle("v4", "Cruiser 1", model.CategoryStreife, "LSPD-103", 2, 64002, now),
		seedVehicle("v5", "Air 1", model.CategoryAir, "N-LSPD1", 2, 910, now),
		seedVehicle("v6", "Mary 1", model.CategoryMotorrad, "LSPD-301", 2, 8420, now),
	}

	channels := []model.RadioChannel{
		{ID: "funk-1", Name: "Funk 1", Description: "Hauptkanal Streifendienst"},
		{ID: "funk-2", Name: "Funk 2", Description: "Einsatzkanal"},
		{ID: "funk-3", Name: "Funk 3", Description: "Verfolgungen"},
		{ID: "funk-4", Name: "Funk 4", Description: "Luftunterstützung"},
	}

	grid := make([]model.GridVehicle, 0, 4)
	for _, v := range fleet[:4] {
		grid = append(grid, dispatch.NewGridVehicle(v, channels))
	}

	creds := make([]model.Credential, 0, len(officers))
	checklists := make(map[string][]model.ChecklistItem, len(officers))
	for _, o := range officers {
		creds = append(creds, model.Credential{
			ID:        "cred-" + o.ID,
			OfficerID: o.ID,
			Username:  o.BadgeNumber,
			Password:  "lspd" + o.BadgeNumber,
			CreatedAt: now,
		})
		items := make([]model.ChecklistItem, len(dispatch.DefaultChecklistLabels))
		for i, label := range dispatch.DefaultChecklistLabels {
			items[i] = model.ChecklistItem{ID: fmt.Sprintf("chk-%s-%d", o.ID, i+1), Label: label}
		}
		checklists[o.ID] = items
	}

	return &model.AppState{
		Officers:          officers,
		MasterFleet:       fleet,
		Vehicles:          grid,
		PinnedVehicleIDs:  []string{},
		HeaderRoles:       model.NewHeaderRoles(),
		ITLogs:            []model.ITLog{},
		Sanctions:         []model.Sanction{},
		Credentials:       creds,
		Documents:         []model.Document{},
		TrainingModules:   seedTrainingModules(),
		OfficerChecklists: checklists,
		MailboxMessages:   []model.MailboxMessage{},
		HomepageContent: model.HomepageContent{
			Title:    "Los Santos Police Department",
			Subtitle: "To Protect and to Serve",
			Announcements: []string{
				"Dienstbesprechung jeden Sonntag 20:00 Uhr im Briefing-Raum.",
				"Fahrzeugcheck vor jeder Schicht durchführen.",
			},
		},
		Emails:        []model.Email{},
		RadioChannels: channels,
		CallsignGlossary: []model.CallsignEntry{
			{Callsign: "Adam", Meaning: "Streifenwagen, zwei Beamte"},
			{Callsign: "Lincoln", Meaning: "Streifenwagen, ein Beamter"},
			{Callsign: "Mary", Meaning: "Motorradstreife"},
			{Callsign: "Air", Meaning: "Luftunterstützung"},
			{Callsign: "Zivil", Meaning: "Ziviles Fahrzeug"},
			{Callsign: "Supervisor", Meaning: "Dienstgruppenleitung"},
		},
		TimeClockState: map[string]model.TimeClockEntry{},
	}
}

func seedOfficer(id, badge, first, last string, rank model.Rank, gender model.Gender, now time.Time, roles ...model.DepartmentRole) model.Officer {
	return model.Officer{
		ID:              id,
		BadgeNumber:     badge,
		FirstName:       first,
		LastName:        last,
		Phone:           "555-" + badge,
		Gender:          gender,
		Rank:            rank,
		DepartmentRoles: roles,
		CreatedAt:       now,
		Licenses: []model.License{{
			ID:         "lic-" + id + "-1",
			Name:       "Führerschein",
			Issuer:     "LSPD",
			IssueDate:  now,
			ExpiryDate: now.AddDate(licenseValidity, 0, 0),
		}},
	}
}

func seedVehicle(id, name string, cat model.VehicleCategory, plate string, capacity, mileage int, now time.Time) model.Vehicle {
	last := now.AddDate(0, 0, -30)
	next := now.AddDate(0, 0, 60)
	return model.Vehicle{
		ID:           id,
		Name:         name,
		Category:     cat,
		LicensePlate: plate,
		Capacity:     capacity,
		Mileage:      mileage,
		LastCheckup:  &last,
		NextCheckup:  &next,
		CheckupItems: []model.CheckupItem{
			{ID: id + "-chk-1", Label: "Reifen"},
			{ID: id + "-chk-2", Label: "Bremsen"},
			{ID: id + "-chk-3", Label: "Beleuchtung"},
			{ID: id + "-chk-4", Label: "Funkgerät"},
		},
	}
}

func seedTrainingModules() []model.TrainingModule {
	return []model.TrainingModule{
		{ID: "train-1", Title: "Funkdisziplin", Description: "Funkverkehr und Statuscodes", AssignedOfficerIDs: []string{"o3", "o4"}, CompletedOfficerIDs: []string{}},
		{ID: "train-2", Title: "Verkehrskontrolle", Description: "Ablauf einer Verkehrskontrolle", AssignedOfficerIDs: []string{"o4"}, CompletedOfficerIDs: []string{}},
		{ID: "train-3", Title: "Einsatztaktik", Description: "Vorgehen bei Code 7", AssignedOfficerIDs: []string{"o3", "o6"}, CompletedOfficerIDs: []string{}},
	}
}
