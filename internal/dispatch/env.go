// Package dispatch 调度引擎：所有操作都是快照上的纯函数，输入快照从不被修改
package dispatch

import (
	"time"

	"github.com/google/uuid"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// Env 一次操作的调用上下文
// Actor 为空时不写审计日志；Now 由调用方的时钟提供
type Env struct {
	Actor *model.Officer
	Now   time.Time
	NewID func() string
}

func (e Env) id() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}
