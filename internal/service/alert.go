package service

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// ErrAlertNotActive 当前没有正在显示的警报
var ErrAlertNotActive = errors.New("当前没有正在显示的警报")

// AlertPhase 警报状态
type AlertPhase string

const (
	AlertQuiet    AlertPhase = "quiet"
	AlertAlerting AlertPhase = "alerting"
)

// AlertView 某位警员看到的警报
type AlertView struct {
	Phase      AlertPhase             `json:"phase"`
	Alert      *model.ShotsFiredAlert `json:"alert,omitempty"`
	Visible    bool                   `json:"visible"`    // 是否显示全屏覆盖层
	Confirming bool                   `json:"confirming"` // 忽略按钮处于"确认"状态
}

// AlertMachine 单个标签页的全局警报状态机
// 快照中的 shotsFiredAlert 驱动 quiet → alerting；超时、警报消失或两步忽略回到 quiet。
type AlertMachine struct {
	mu            sync.Mutex
	clock         clock.Clock
	timeout       time.Duration
	confirmWindow time.Duration
	onChange      func()

	phase        AlertPhase
	current      *model.ShotsFiredAlert
	confirming   bool
	ended        map[string]bool // 已超时或被忽略的警报 ID
	timeoutTimer *clock.Timer
	confirmTimer *clock.Timer
}

// NewAlertMachine 创建警报状态机；onChange 在计时器改变状态后调用（可为 nil）
func NewAlertMachine(clk clock.Clock, timeout, confirmWindow time.Duration, onChange func()) *AlertMachine {
	return &AlertMachine{
		clock:         clk,
		timeout:       timeout,
		confirmWindow: confirmWindow,
		onChange:      onChange,
		phase:         AlertQuiet,
		ended:         make(map[string]bool),
	}
}

// Observe 根据最新快照中的警报更新状态
func (m *AlertMachine) Observe(a *model.ShotsFiredAlert) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a == nil {
		if m.phase == AlertAlerting {
			m.quietLocked(false)
		}
		return
	}
	if m.phase == AlertAlerting && m.current.ID == a.ID {
		m.current = a.Clone()
		return
	}
	if m.ended[a.ID] {
		return
	}
	age := m.clock.Now().Sub(a.StartedAt)
	if age >= m.timeout {
		m.ended[a.ID] = true
		return
	}

	m.stopTimersLocked()
	m.phase = AlertAlerting
	m.current = a.Clone()
	m.confirming = false
	id := a.ID
	m.timeoutTimer = m.clock.AfterFunc(m.timeout-age, func() { m.expire(id) })
}

// Ignore 两步忽略：第一次进入确认窗口，窗口内第二次解除警报
func (m *AlertMachine) Ignore() (AlertView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != AlertAlerting {
		return m.viewLocked("", nil), ErrAlertNotActive
	}
	if m.confirming {
		m.quietLocked(true)
		return m.viewLocked("", nil), nil
	}
	m.confirming = true
	id := m.current.ID
	m.confirmTimer = m.clock.AfterFunc(m.confirmWindow, func() { m.revertConfirm(id) })
	return m.viewLocked("", nil), nil
}

// View 指定警员看到的警报；dispatch 与 co-dispatch 席位上的警员不显示覆盖层
func (m *AlertMachine) View(officerID string, roles model.HeaderRoles) AlertView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked(officerID, roles)
}

// Phase 当前状态
func (m *AlertMachine) Phase() AlertPhase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Stop 停止所有计时器
func (m *AlertMachine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimersLocked()
}

func (m *AlertMachine) viewLocked(officerID string, roles model.HeaderRoles) AlertView {
	v := AlertView{Phase: m.phase, Confirming: m.confirming}
	if m.phase != AlertAlerting {
		return v
	}
	v.Alert = m.current.Clone()
	v.Visible = true
	if officerID != "" && (roles[model.HeaderDispatch] == officerID || roles[model.HeaderCoDispatch] == officerID) {
		v.Visible = false
	}
	return v
}

func (m *AlertMachine) expire(id string) {
	m.mu.Lock()
	if m.phase != AlertAlerting || m.current.ID != id {
		m.mu.Unlock()
		return
	}
	m.quietLocked(true)
	m.mu.Unlock()
	m.changed()
}

func (m *AlertMachine) revertConfirm(id string) {
	m.mu.Lock()
	if m.phase != AlertAlerting || m.current.ID != id || !m.confirming {
		m.mu.Unlock()
		return
	}
	m.confirming = false
	m.confirmTimer = nil
	m.mu.Unlock()
	m.changed()
}

// quietLocked 回到 quiet；remember 为 true 时该警报不会再次显示
func (m *AlertMachine) quietLocked(remember bool) {
	if remember && m.current != nil {
		m.ended[m.current.ID] = true
	}
	m.stopTimersLocked()
	m.phase = AlertQuiet
	m.current = nil
	m.confirming = false
}

func (m *AlertMachine) stopTimersLocked() {
	if m.timeoutTimer != nil {
		m.timeoutTimer.Stop()
		m.timeoutTimer = nil
	}
	if m.confirmTimer != nil {
		m.confirmTimer.Stop()
		m.confirmTimer = nil
	}
}

func (m *AlertMachine) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}
