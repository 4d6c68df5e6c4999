package persistence

import (
	"github.com/tidwall/gjson"
)

// Report 快照形态探测结果（不做任何修改）
type Report struct {
	Wrapped          bool  `json:"wrapped"`
	HasCurrentUser   bool  `json:"hasCurrentUser"`
	HasTimeClock     bool  `json:"hasTimeClock"`
	Officers         int64 `json:"officers"`
	FleetVehicles    int64 `json:"fleetVehicles"`
	GridVehicles     int64 `json:"gridVehicles"`
	Logs             int64 `json:"logs"`
	LegacyLicenses   int   `json:"legacyLicenses"`   // 仍为字符串的证照
	ObjectReferences int   `json:"objectReferences"` // 座位/席位中内嵌的警员对象
	ShotsFiredAlert  bool  `json:"shotsFiredAlert"`
}

// NeedsMigration 是否存在需要迁移链处理的旧形态
func (r Report) NeedsMigration() bool {
	return !r.Wrapped || r.HasCurrentUser || r.LegacyLicenses > 0 || r.ObjectReferences > 0
}

// Inspect 探测原始快照的形态
func Inspect(raw []byte) (Report, error) {
	if !gjson.ValidBytes(raw) {
		return Report{}, ErrInvalidSnapshot
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return Report{}, ErrInvalidSnapshot
	}

	var r Report
	body := root
	if inner := root.Get("appState"); inner.IsObject() {
		r.Wrapped = true
		body = inner
	}

	cu := body.Get("currentUser")
	r.HasCurrentUser = cu.Exists() && cu.Type != gjson.Null
	r.HasTimeClock = body.Get("timeClockState").IsObject()
	r.Officers = body.Get("officers.#").Int()
	r.FleetVehicles = body.Get("masterFleet.#").Int()
	r.GridVehicles = body.Get("vehicles.#").Int()
	r.Logs = body.Get("itLogs.#").Int()
	r.ShotsFiredAlert = body.Get("shotsFiredAlert").IsObject()

	body.Get("officers").ForEach(func(_, o gjson.Result) bool {
		lic := o.Get("licenses")
		switch {
		case lic.Type == gjson.String:
			r.LegacyLicenses++
		case lic.IsArray():
			lic.ForEach(func(_, l gjson.Result) bool {
				if l.Type == gjson.String {
					r.LegacyLicenses++
				}
				return true
			})
		}
		return true
	})

	body.Get("vehicles.#.seats").ForEach(func(_, seats gjson.Result) bool {
		seats.ForEach(func(_, seat gjson.Result) bool {
			if seat.IsObject() {
				r.ObjectReferences++
			}
			return true
		})
		return true
	})
	body.Get("headerRoles").ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			r.ObjectReferences++
		}
		return true
	})
	return r, nil
}
