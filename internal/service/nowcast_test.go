package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"window_comfort/internal/logger"
)

// nowcastStatesStub serves a canned state and forecast attribute.
type nowcastStatesStub struct {
	state      string
	stateErr   error
	attr       any
	attrErr    error
	stateCalls int
}

func (s *nowcastStatesStub) State(ctx context.Context, entityID string) (string, error) {
	s.stateCalls++
	return s.state, s.stateErr
}

func (s *nowcastStatesStub) Attribute(ctx context.Context, entityID, attribute string) (any, error) {
	return s.attr, s.attrErr
}

func forecastEntry(at time.Time, precipitation any) map[string]any {
	return map[string]any{
		"datetime":      at.Format(time.RFC3339),
		"precipitation": precipitation,
	}
}

func TestNowcastGate_Expected(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 23, 16, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		sensor string
		stub   *nowcastStatesStub
		want   bool
	}{
		{
			name:   "no sensor configured",
			sensor: "",
			stub:   &nowcastStatesStub{state: "2.5"},
			want:   false,
		},
		{
			name:   "raining now",
			sensor: "sensor.nowcast",
			stub:   &nowcastStatesStub{state: "0.8"},
			want:   true,
		},
		{
			name:   "dry now and no forecast",
			sensor: "sensor.nowcast",
			stub:   &nowcastStatesStub{state: "0", attr: []any{}},
			want:   false,
		},
		{
			name:   "rain inside the horizon",
			sensor: "sensor.nowcast",
			stub: &nowcastStatesStub{state: "0", attr: []any{
				forecastEntry(now.Add(10*time.Minute), 0.0),
				forecastEntry(now.Add(20*time.Minute), 1.2),
			}},
			want: true,
		},
		{
			name:   "rain only beyond the horizon",
			sensor: "sensor.nowcast",
			stub: &nowcastStatesStub{state: "0", attr: []any{
				forecastEntry(now.Add(45*time.Minute), 3.0),
			}},
			want: false,
		},
		{
			name:   "past entries do not count",
			sensor: "sensor.nowcast",
			stub: &nowcastStatesStub{state: "0", attr: []any{
				forecastEntry(now.Add(-10*time.Minute), 3.0),
			}},
			want: false,
		},
		{
			name:   "state error fails open",
			sensor: "sensor.nowcast",
			stub:   &nowcastStatesStub{stateErr: errors.New("unreachable")},
			want:   false,
		},
		{
			name:   "forecast error fails open",
			sensor: "sensor.nowcast",
			stub:   &nowcastStatesStub{state: "0", attrErr: errors.New("no attribute")},
			want:   false,
		},
		{
			name:   "malformed forecast fails open",
			sensor: "sensor.nowcast",
			stub: &nowcastStatesStub{state: "unknown", attr: []any{
				"garbage",
				map[string]any{"datetime": 12345, "precipitation": 2.0},
				map[string]any{"datetime": "not-a-time", "precipitation": 2.0},
				map[string]any{"datetime": now.Add(5 * time.Minute).Format(time.RFC3339), "precipitation": "wet"},
			}},
			want: false,
		},
		{
			name:   "malformed entries do not hide a valid one",
			sensor: "sensor.nowcast",
			stub: &nowcastStatesStub{state: "unavailable", attr: []any{
				"garbage",
				forecastEntry(now.Add(5*time.Minute), 1),
			}},
			want: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gate := NewNowcastGate(tc.sensor, tc.stub, logger.Get(logger.ErrorLevel))
			gate.now = func() time.Time { return now }

			if got := gate.Expected(context.Background()); got != tc.want {
				t.Errorf("Expected() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNowcastGate_CachesResult(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 23, 16, 0, 0, 0, time.UTC)
	stub := &nowcastStatesStub{state: "1.0"}
	gate := NewNowcastGate("sensor.nowcast", stub, logger.Get(logger.ErrorLevel))
	gate.now = func() time.Time { return now }

	if !gate.Expected(context.Background()) {
		t.Fatal("first query: want true")
	}

	// The sensor dries up, but within the cache window the stale answer
	// stands and the sensor is not asked again.
	stub.state = "0"
	now = now.Add(4 * time.Minute)
	if !gate.Expected(context.Background()) {
		t.Error("cached result must be served inside the TTL")
	}
	if stub.stateCalls != 1 {
		t.Errorf("state calls inside TTL: want 1, got %d", stub.stateCalls)
	}

	// Past the TTL the gate re-queries and sees the dry reading.
	now = now.Add(2 * time.Minute)
	if gate.Expected(context.Background()) {
		t.Error("expired cache must trigger a fresh query")
	}
	if stub.stateCalls != 2 {
		t.Errorf("state calls after TTL: want 2, got %d", stub.stateCalls)
	}
}
