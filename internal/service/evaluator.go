package service

import (
	"strconv"
	"strings"

	wc "window_comfort"
)

// Sentinel states the host reports for entities it cannot read.
const (
	StateUnavailable = "unavailable"
	StateUnknown     = "unknown"
	StateHome        = "home"
	StateOn          = "on"
)

// ParseTemperature converts a raw sensor state into a temperature reading.
// Sentinel and non-numeric states yield ok=false: the tick is skipped
// silently, it is not an error.
func ParseTemperature(state string) (float64, bool) {
	switch state {
	case "", StateUnavailable, StateUnknown:
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(state), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Evaluator decides whether the current readings violate the comfort policy.
type Evaluator struct {
	cfg wc.RuleConfig
}

func NewEvaluator(cfg wc.RuleConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate returns the due alert for one tick, if any. At most one alert is
// due per tick; the above-check has priority. Outside the [after, before)
// active window nothing is evaluated.
func (e *Evaluator) Evaluate(temperature float64, windowState string, hour int) (wc.Alert, bool) {
	if hour < e.cfg.When.After || hour >= e.cfg.When.Before {
		return wc.Alert{}, false
	}

	windowOpen := windowState == StateOn
	expectOpenAbove := e.cfg.Window.Above == StateOn
	expectOpenBelow := e.cfg.Window.Below == StateOn

	// Too warm and the window is not in the state the policy expects.
	if temperature >= e.cfg.Temperature.Above && windowOpen != expectOpenAbove {
		return wc.Alert{Kind: wc.AlertAbove, Message: e.cfg.Messages.Above, Temperature: temperature}, true
	}

	// Too cold and the window is not in the state the policy expects.
	if temperature < e.cfg.Temperature.Below && windowOpen != expectOpenBelow {
		return wc.Alert{Kind: wc.AlertBelow, Message: e.cfg.Messages.Below, Temperature: temperature}, true
	}

	return wc.Alert{}, false
}

// GateApplies reports whether the precipitation gate should be consulted for
// the given alert: only the above path, and only when the policy expects the
// window to be opened.
func (e *Evaluator) GateApplies(alert wc.Alert) bool {
	return alert.Kind == wc.AlertAbove && e.cfg.Window.Above == StateOn
}
