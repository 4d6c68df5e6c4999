package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/tidwall/gjson"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// ErrInvalidSnapshot 存储内容不是 JSON 对象
var ErrInvalidSnapshot = errors.New("快照不是有效的 JSON 对象")

// 旧版证照升级时使用的占位签发方
const placeholderIssuer = "Unbekannt"

// maxContainerDepth 容器最多解包的层数
const maxContainerDepth = 4

// Step 迁移步骤，必须幂等：对已升级的输入不做任何改动
type Step struct {
	Name  string
	Apply func(doc map[string]any, m *migration)
}

type migration struct {
	now      time.Time
	warnings *multierror.Error
	missing  []string
}

func (m *migration) warn(format string, args ...any) {
	m.warnings = multierror.Append(m.warnings, fmt.Errorf(format, args...))
}

// steps 解析后的迁移链；unwrap-container 在解析前作用于原始 JSON
var steps = []Step{
	{Name: "strip-current-user", Apply: stripCurrentUser},
	{Name: "upgrade-licenses", Apply: upgradeLicenses},
	{Name: "normalize-references", Apply: normalizeReferences},
	{Name: "normalize-dates", Apply: normalizeDates},
	{Name: "fill-defaults", Apply: fillDefaults},
}

// StepNames 按执行顺序返回迁移链
func StepNames() []string {
	names := []string{"unwrap-container"}
	for _, s := range steps {
		names = append(names, s.Name)
	}
	return names
}

// Result 迁移结果
type Result struct {
	State *model.AppState
	// MissingKeys 由默认快照补齐的顶层键
	MissingKeys []string
	// Warnings 不影响加载的数据问题（无法解析的日期等），为 *multierror.Error
	Warnings error
}

// Missing 顶层键是否由默认值补齐
func (r *Result) Missing(key string) bool {
	for _, k := range r.MissingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Migrate 把任意历史形态的快照升级为当前形态并还原日期
func Migrate(raw []byte, now time.Time) (*Result, error) {
	body, err := unwrapContainer(raw)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("解析快照失败: %w", err)
	}

	m := &migration{now: now.UTC()}
	for _, s := range steps {
		s.Apply(doc, m)
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("序列化迁移结果失败: %w", err)
	}
	var state model.AppState
	if err := json.Unmarshal(normalized, &state); err != nil {
		return nil, fmt.Errorf("还原快照失败: %w", err)
	}
	state.HeaderRoles = state.HeaderRoles.Clone()
	state.CurrentUser = nil

	return &Result{
		State:       &state,
		MissingKeys: m.missing,
		Warnings:    m.warnings.ErrorOrNil(),
	}, nil
}

// ── unwrap-container ──

func unwrapContainer(raw []byte) ([]byte, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidSnapshot
	}
	res := gjson.ParseBytes(raw)
	if !res.IsObject() {
		return nil, ErrInvalidSnapshot
	}
	for i := 0; i < maxContainerDepth; i++ {
		inner := res.Get("appState")
		if !inner.IsObject() {
			break
		}
		res = inner
	}
	return []byte(res.Raw), nil
}

// ── strip-current-user ──

func stripCurrentUser(doc map[string]any, _ *migration) {
	delete(doc, "currentUser")
}

// ── upgrade-licenses ──

func upgradeLicenses(doc map[string]any, m *migration) {
	for _, o := range asSlice(doc["officers"]) {
		om := asMap(o)
		if om == nil {
			continue
		}
		id, _ := om["id"].(string)
		switch lv := om["licenses"].(type) {
		case nil:
			om["licenses"] = []any{}
		case string:
			if strings.TrimSpace(lv) == "" {
				om["licenses"] = []any{}
			} else {
				om["licenses"] = []any{m.licenseRecord(id, 0, lv)}
			}
		case []any:
			for i, item := range lv {
				if name, ok := item.(string); ok {
					lv[i] = m.licenseRecord(id, i, name)
				}
			}
		default:
			m.warn("officers[%s].licenses: 无法识别的证照格式 %T", id, lv)
			om["licenses"] = []any{}
		}
	}
}

func (m *migration) licenseRecord(officerID string, i int, name string) map[string]any {
	return map[string]any{
		"id":         fmt.Sprintf("lic-%s-%d", officerID, i+1),
		"name":       name,
		"issuedBy":   placeholderIssuer,
		"issueDate":  m.now.Format(time.RFC3339Nano),
		"expiryDate": m.now.AddDate(licenseValidity, 0, 0).Format(time.RFC3339Nano),
	}
}

// ── normalize-references ──

func normalizeReferences(doc map[string]any, _ *migration) {
	for _, v := range asSlice(doc["vehicles"]) {
		vm := asMap(v)
		if vm == nil {
			continue
		}
		seats := asSlice(vm["seats"])
		for i, seat := range seats {
			seats[i] = refID(seat)
		}
		if n := intOf(vm["capacity"]); n > 0 && len(seats) != n {
			fitted := make([]any, n)
			for i := range fitted {
				fitted[i] = ""
			}
			copy(fitted, seats)
			seats = fitted
		}
		if seats == nil {
			seats = []any{}
		}
		vm["seats"] = seats
	}

	if hm := asMap(doc["headerRoles"]); hm != nil {
		for k, v := range hm {
			hm[k] = refID(v)
		}
		for _, role := range model.AllHeaderRoles() {
			if _, ok := hm[string(role)]; !ok {
				hm[string(role)] = ""
			}
		}
	}

	if pinned := asSlice(doc["pinnedVehicleIds"]); pinned != nil {
		ids := make([]any, 0, len(pinned))
		for _, p := range pinned {
			if id := refID(p); id != "" {
				ids = append(ids, id)
			}
		}
		doc["pinnedVehicleIds"] = ids
	}

	if tm := asMap(doc["timeClockState"]); tm != nil {
		normalizeTimeClock(tm)
	}
}

// normalizeTimeClock 旧版打卡记录直接存放 epoch 毫秒，统一为 {clockInTime: ...}
func normalizeTimeClock(tm map[string]any) {
	for k, v := range tm {
		switch v.(type) {
		case map[string]any:
		case float64, string:
			tm[k] = map[string]any{"clockInTime": v}
		default:
			tm[k] = map[string]any{"clockInTime": nil}
		}
		entry := tm[k].(map[string]any)
		if s, ok := entry["clockInTime"].(string); ok {
			if t, err := parseDate(s); err == nil && t != nil {
				entry["clockInTime"] = float64(t.UnixMilli())
			} else {
				entry["clockInTime"] = nil
			}
		}
	}
}

func refID(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case map[string]any:
		id, _ := x["id"].(string)
		return id
	}
	return ""
}

// ── normalize-dates ──

var dateFields = []struct {
	collection string
	fields     []string
}{
	{"vehicles", []string{"lastCheckup", "nextCheckup"}},
	{"masterFleet", []string{"lastCheckup", "nextCheckup"}},
	{"sanctions", []string{"timestamp"}},
	{"itLogs", []string{"timestamp"}},
	{"credentials", []string{"createdAt"}},
	{"mailboxMessages", []string{"timestamp"}},
	{"emails", []string{"timestamp"}},
	{"documents", []string{"createdAt"}},
}

func normalizeDates(doc map[string]any, m *migration) {
	for _, df := range dateFields {
		for i, item := range asSlice(doc[df.collection]) {
			im := asMap(item)
			if im == nil {
				continue
			}
			for _, f := range df.fields {
				m.normalizeField(im, f, fmt.Sprintf("%s[%d].%s", df.collection, i, f))
			}
		}
	}
	for i, o := range asSlice(doc["officers"]) {
		om := asMap(o)
		if om == nil {
			continue
		}
		m.normalizeField(om, "createdAt", fmt.Sprintf("officers[%d].createdAt", i))
		for j, l := range asSlice(om["licenses"]) {
			lm := asMap(l)
			if lm == nil {
				continue
			}
			m.normalizeField(lm, "issueDate", fmt.Sprintf("officers[%d].licenses[%d].issueDate", i, j))
			m.normalizeField(lm, "expiryDate", fmt.Sprintf("officers[%d].licenses[%d].expiryDate", i, j))
		}
	}
	if am := asMap(doc["shotsFiredAlert"]); am != nil {
		m.normalizeField(am, "startedAt", "shotsFiredAlert.startedAt")
	}
}

func (m *migration) normalizeField(obj map[string]any, field, path string) {
	v, ok := obj[field]
	if !ok {
		return
	}
	t, err := parseDate(v)
	if err != nil {
		m.warn("%s: %v", path, err)
		obj[field] = nil
		return
	}
	if t == nil {
		obj[field] = nil
		return
	}
	obj[field] = t.Format(time.RFC3339Nano)
}

// 按顺序尝试的日期格式；无时区的格式按 UTC 解释
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDate 接受 RFC3339、纯日期、datetime-local 与 epoch 毫秒；空值返回 nil
func parseDate(v any) (*time.Time, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case float64:
		t := time.UnixMilli(int64(x)).UTC()
		return &t, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return &t, nil
			}
		}
		return nil, fmt.Errorf("无法解析日期 %q", s)
	}
	return nil, fmt.Errorf("无法解析日期类型 %T", v)
}

// ── fill-defaults ──

func fillDefaults(doc map[string]any, m *migration) {
	defaults, err := defaultDocument(m.now)
	if err != nil {
		m.warn("生成默认快照失败: %v", err)
		return
	}
	for key, def := range defaults {
		if v, ok := doc[key]; !ok || (v == nil && def != nil) {
			doc[key] = def
			m.missing = append(m.missing, key)
		}
	}
	sort.Strings(m.missing)
}

func defaultDocument(now time.Time) (map[string]any, error) {
	raw, err := json.Marshal(DefaultState(now).Shared())
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ── helpers ──

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func intOf(v any) int {
	f, _ := v.(float64)
	return int(f)
}
