package service

import (
	"context"
	"sync"
	"time"

	wc "window_comfort"
)

// StatusRecorder keeps the latest tick observations for state reporting.
// It is written by the watcher goroutine and read by the HTTP layer.
type StatusRecorder struct {
	mu    sync.Mutex
	state wc.RuleState
}

func NewStatusRecorder() *StatusRecorder {
	return &StatusRecorder{}
}

// RecordTick stores the readings of a completed evaluation tick.
func (r *StatusRecorder) RecordTick(at time.Time, temperature *float64, windowState string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.LastTickAt = at
	r.state.LastTemperature = temperature
	r.state.LastWindowState = windowState
	r.state.UpdatedAt = at
}

// RecordAlert stores the most recent due alert.
func (r *StatusRecorder) RecordAlert(alert wc.Alert, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := alert
	r.state.LastAlert = &a
	r.state.LastAlertAt = at
	r.state.UpdatedAt = at
}

func (r *StatusRecorder) snapshot() wc.RuleState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// MonitoringService assembles the observable rule state from the recorder
// and the cooldown store.
type MonitoringService struct {
	cfg    wc.RuleConfig
	status *StatusRecorder
	store  *CooldownStore
}

func NewMonitoringService(cfg wc.RuleConfig, status *StatusRecorder, store *CooldownStore) *MonitoringService {
	return &MonitoringService{cfg: cfg, status: status, store: store}
}

// GetState returns the current rule snapshot. The error return keeps the
// Monitoring seam uniform for the HTTP layer.
func (s *MonitoringService) GetState(ctx context.Context) (wc.RuleState, error) {
	st := s.status.snapshot()
	st.Rule = s.cfg.Name
	st.Cooldowns = s.store.Snapshot()
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now().UTC()
	}
	return st, nil
}
