package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

type container struct {
	AppState *model.AppState `json:"appState"`
}

// EncodeContainer 序列化为当前格式容器；CurrentUser 被剥离
func EncodeContainer(s *model.AppState) ([]byte, error) {
	return json.Marshal(container{AppState: s.Shared()})
}

// DecodeContainer 解析任意格式的快照并执行完整迁移链
func DecodeContainer(raw []byte, now time.Time) (*Result, error) {
	return Migrate(raw, now)
}

// RememberedCredentials 记住登录的凭据条目
type RememberedCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DecodeTimeClock 解析旧版独立打卡记录
// 支持 {id: {clockInTime: ms}}、{id: ms} 以及包在 timeClockState 下的形态
func DecodeTimeClock(raw []byte) (map[string]model.TimeClockEntry, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidSnapshot
	}
	res := gjson.ParseBytes(raw)
	if inner := res.Get("timeClockState"); inner.IsObject() {
		res = inner
	}
	if !res.IsObject() {
		return nil, ErrInvalidSnapshot
	}
	var tm map[string]any
	if err := json.Unmarshal([]byte(res.Raw), &tm); err != nil {
		return nil, fmt.Errorf("解析打卡记录失败: %w", err)
	}
	normalizeTimeClock(tm)

	normalized, err := json.Marshal(tm)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.TimeClockEntry, len(tm))
	if err := json.Unmarshal(normalized, &out); err != nil {
		return nil, fmt.Errorf("解析打卡记录失败: %w", err)
	}
	return out, nil
}
