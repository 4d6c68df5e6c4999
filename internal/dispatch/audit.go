package dispatch

import (
	"time"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// LogEntry 审计日志的调用方部分；ID、时间与操作人由写入方补齐
type LogEntry struct {
	Category  model.LogCategory
	EventType string
	Details   string
	Metadata  map[string]any
}

// AppendLog 在日志列表头部插入一条记录
// 没有操作人时原样返回快照
func AppendLog(s *model.AppState, actor *model.Officer, entry LogEntry, now time.Time, id string) *model.AppState {
	if actor == nil {
		return s
	}
	out := s.Clone()
	prependLog(out, actor, entry, now, id)
	return out
}

func prependLog(s *model.AppState, actor *model.Officer, entry LogEntry, now time.Time, id string) {
	rec := model.ITLog{
		ID:        id,
		Timestamp: now,
		Actor:     actor.DisplayName(),
		Category:  entry.Category,
		EventType: entry.EventType,
		Details:   entry.Details,
		Metadata:  entry.Metadata,
	}
	logs := make([]model.ITLog, 0, len(s.ITLogs)+1)
	logs = append(logs, rec)
	s.ITLogs = append(logs, s.ITLogs...)
}

// record 在已克隆的快照上追加日志
func (e Env) record(s *model.AppState, entry LogEntry) {
	if e.Actor == nil {
		return
	}
	prependLog(s, e.Actor, entry, e.Now, e.id())
}
