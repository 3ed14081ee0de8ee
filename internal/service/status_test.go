package service

import (
	"context"
	"testing"
	"time"

	wc "window_comfort"
)

func TestMonitoring_GetState(t *testing.T) {
	t.Parallel()

	cfg := testRule()
	status := NewStatusRecorder()
	store := NewCooldownStore()
	m := NewMonitoringService(cfg, status, store)

	tick := time.Date(2026, 8, 23, 16, 0, 0, 0, time.UTC)
	temp := 21.0
	status.RecordTick(tick, &temp, "off")

	alert := wc.Alert{Kind: wc.AlertAbove, Message: "Open bedroom window", Temperature: 21}
	alertAt := tick.Add(time.Second)
	status.RecordAlert(alert, alertAt)

	store.Set("mobile_app_iphone_28", alertAt)

	st, err := m.GetState(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Rule != cfg.Name {
		t.Errorf("Rule: got %q", st.Rule)
	}
	if !st.LastTickAt.Equal(tick) {
		t.Errorf("LastTickAt: want %v, got %v", tick, st.LastTickAt)
	}
	if st.LastTemperature == nil || *st.LastTemperature != 21 {
		t.Errorf("LastTemperature: got %v", st.LastTemperature)
	}
	if st.LastWindowState != "off" {
		t.Errorf("LastWindowState: got %q", st.LastWindowState)
	}
	if st.LastAlert == nil || st.LastAlert.Kind != wc.AlertAbove {
		t.Errorf("LastAlert: got %+v", st.LastAlert)
	}
	if !st.LastAlertAt.Equal(alertAt) {
		t.Errorf("LastAlertAt: want %v, got %v", alertAt, st.LastAlertAt)
	}
	if got := st.Cooldowns["mobile_app_iphone_28"]; !got.Equal(alertAt) {
		t.Errorf("Cooldowns: got %v", st.Cooldowns)
	}
	if !st.UpdatedAt.Equal(alertAt) {
		t.Errorf("UpdatedAt: want %v, got %v", alertAt, st.UpdatedAt)
	}
}

func TestMonitoring_GetStateBeforeFirstTick(t *testing.T) {
	t.Parallel()

	m := NewMonitoringService(testRule(), NewStatusRecorder(), NewCooldownStore())

	st, err := m.GetState(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.UpdatedAt.IsZero() {
		t.Error("UpdatedAt must never be zero")
	}
	if st.LastTemperature != nil || st.LastAlert != nil {
		t.Errorf("fresh state must be empty: %+v", st)
	}
}

func TestStatusRecorder_InvalidReadingClearsTemperature(t *testing.T) {
	t.Parallel()

	status := NewStatusRecorder()
	tick := time.Date(2026, 8, 23, 16, 0, 0, 0, time.UTC)
	temp := 18.5
	status.RecordTick(tick, &temp, "on")
	status.RecordTick(tick.Add(time.Minute), nil, "")

	st := status.snapshot()
	if st.LastTemperature != nil {
		t.Errorf("LastTemperature: want nil after an invalid reading, got %v", *st.LastTemperature)
	}
	if !st.LastTickAt.Equal(tick.Add(time.Minute)) {
		t.Errorf("LastTickAt: got %v", st.LastTickAt)
	}
}
