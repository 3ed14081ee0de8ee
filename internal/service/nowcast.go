package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"window_comfort/internal/logger"
)

var errNotANumber = errors.New("not a number")

const (
	// nowcastCacheTTL bounds how often the forecast sensor is queried.
	nowcastCacheTTL = 300 * time.Second
	// forecastHorizon is how far ahead precipitation suppresses an alert.
	forecastHorizon = 30 * time.Minute

	forecastAttribute = "forecast"
)

// NowcastGate suppresses "open the window" alerts when precipitation is
// detected or forecast within the horizon. Malformed or missing forecast
// data fails open: the notification is sent.
type NowcastGate struct {
	states AttributeReader
	sensor string
	log    *logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	cached   bool
	cachedAt time.Time
}

func NewNowcastGate(sensor string, states AttributeReader, log *logger.Logger) *NowcastGate {
	return &NowcastGate{
		states: states,
		sensor: sensor,
		log:    log,
		now:    time.Now,
	}
}

// Expected reports whether precipitation is currently detected or forecast
// within the next 30 minutes. The result is cached for 300 seconds.
func (g *NowcastGate) Expected(ctx context.Context) bool {
	if g.sensor == "" {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now.Sub(g.cachedAt) < nowcastCacheTTL {
		return g.cached
	}
	g.cached = g.query(ctx, now)
	g.cachedAt = now
	return g.cached
}

func (g *NowcastGate) query(ctx context.Context, now time.Time) bool {
	state, err := g.states.State(ctx, g.sensor)
	if err != nil {
		g.log.Infow("nowcast_state_unavailable", "sensor", g.sensor, "err", err)
		return false
	}

	// Current precipitation value, if the state is numeric.
	if v, ok := ParseTemperature(state); ok && v > 0 {
		return true
	}

	raw, err := g.states.Attribute(ctx, g.sensor, forecastAttribute)
	if err != nil {
		g.log.Infow("nowcast_forecast_unavailable", "sensor", g.sensor, "err", err)
		return false
	}
	entries, ok := raw.([]any)
	if !ok {
		return false
	}

	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		ts, ok := entry["datetime"].(string)
		if !ok {
			continue
		}
		precip, err := toForecastValue(entry["precipitation"])
		if err != nil {
			continue
		}
		at, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			continue
		}
		offset := at.Sub(now)
		if offset >= 0 && offset <= forecastHorizon && precip > 0 {
			return true
		}
	}
	return false
}

func toForecastValue(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, errNotANumber
	}
}
