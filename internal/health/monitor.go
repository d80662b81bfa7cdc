package health

import (
	"context"
	"sync"
	"time"
)

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Critical marks a checker whose failure takes the whole system
// critical instead of degraded.
type Critical interface {
	Critical() bool
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc struct {
	ComponentName string
	IsCritical    bool
	Fn            func(ctx context.Context) error
}

func (c CheckerFunc) Name() string { return c.ComponentName }

func (c CheckerFunc) Critical() bool { return c.IsCritical }

func (c CheckerFunc) Check(ctx context.Context) error { return c.Fn(ctx) }

// Monitor aggregates health status from registered checkers.
type Monitor struct {
	checkers []Checker

	mu         sync.Mutex
	lastCheck  time.Time
	lastReport *Report
}

// NewMonitor creates a new health monitor.
func NewMonitor(checkers ...Checker) *Monitor {
	return &Monitor{checkers: checkers}
}

// CheckHealth probes every dependency. Checks are rate limited to once
// per 10s so health polling cannot hammer the backing services.
func (m *Monitor) CheckHealth(ctx context.Context) *Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.lastCheck) < 10*time.Second && m.lastReport != nil {
		return m.lastReport
	}

	report := &Report{
		SystemStatus: StatusHealthy,
		Components:   make(map[string]ComponentHealth, len(m.checkers)),
	}

	for _, checker := range m.checkers {
		ch := ComponentHealth{Name: checker.Name(), Status: StatusHealthy}
		if err := checker.Check(ctx); err != nil {
			ch.Error = err.Error()
			ch.Status = StatusDegraded

			critical := false
			if c, hasFlag := checker.(Critical); hasFlag {
				critical = c.Critical()
			}
			if critical {
				ch.Status = StatusCritical
				report.SystemStatus = StatusCritical
			} else if report.SystemStatus == StatusHealthy {
				report.SystemStatus = StatusDegraded
			}
		}
		report.Components[checker.Name()] = ch
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}
