// Package metrics 暴露同步链路与警报的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 同步链路指标集合
type Metrics struct {
	StorageWrites      *prometheus.CounterVec
	BroadcastsReceived prometheus.Counter
	BroadcastsApplied  prometheus.Counter
	AlertsRaised       prometheus.Counter
	OpenTabs           prometheus.Gauge
}

// New 创建指标并注册到 reg；reg 为 nil 时只创建不注册（测试用）
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StorageWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dispatch_console",
			Name:      "storage_writes_total",
			Help:      "Snapshot writes to durable storage by result.",
		}, []string{"result"}),
		BroadcastsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dispatch_console",
			Name:      "broadcasts_received_total",
			Help:      "Storage change events received from other tabs.",
		}),
		BroadcastsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dispatch_console",
			Name:      "broadcasts_applied_total",
			Help:      "Storage change events merged into local tab state.",
		}),
		AlertsRaised: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dispatch_console",
			Name:      "shots_fired_alerts_total",
			Help:      "Department-wide shots fired alerts raised.",
		}),
		OpenTabs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dispatch_console",
			Name:      "open_tabs",
			Help:      "Console tabs currently open on this process.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.StorageWrites, m.BroadcastsReceived, m.BroadcastsApplied, m.AlertsRaised, m.OpenTabs)
	}
	return m
}
