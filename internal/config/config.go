package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	wc "window_comfort"
)

// FieldError names the first configuration rule that failed validation.
// The rule never starts with a partially valid configuration.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("rule config: %s: %s", e.Field, e.Reason)
}

func fieldErr(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// Binary states accepted for window expectations.
const (
	StateOn  = "on"
	StateOff = "off"
)

// ParseRule validates and normalizes a loosely-typed rule configuration
// record (as produced by viper's GetStringMap) into an immutable RuleConfig.
// It fails on the first violated rule, naming the offending field.
func ParseRule(raw map[string]any) (wc.RuleConfig, error) {
	var cfg wc.RuleConfig

	name, _ := raw["name"].(string)
	if strings.TrimSpace(name) == "" {
		return cfg, fieldErr("name", "must be a non-empty string")
	}
	cfg.Name = name

	loc, err := parseLocation(raw["timezone"])
	if err != nil {
		return cfg, err
	}
	cfg.Location = loc

	if cfg.Temperature, err = parseTemperature(raw["temperature"]); err != nil {
		return cfg, err
	}
	if cfg.Window, err = parseWindow(raw["window"]); err != nil {
		return cfg, err
	}
	if cfg.Messages, err = parseMessages(raw["messages"]); err != nil {
		return cfg, err
	}
	if cfg.When, err = parseWhen(raw["when"]); err != nil {
		return cfg, err
	}
	if cfg.Persons, err = parsePersons(raw["persons"]); err != nil {
		return cfg, err
	}

	if v, ok := raw["nowcast_sensor"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return cfg, fieldErr("nowcast_sensor", "must be a string if provided")
		}
		cfg.NowcastSensor = s
	}

	return cfg, nil
}

func parseLocation(v any) (*time.Location, error) {
	if v == nil {
		return time.Local, nil
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil, fieldErr("timezone", "must be an IANA timezone name")
	}
	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, fieldErr("timezone", fmt.Sprintf("unknown timezone %q", s))
	}
	return loc, nil
}

func parseTemperature(v any) (wc.TemperatureRange, error) {
	var t wc.TemperatureRange
	sec, ok := section(v)
	if !ok {
		return t, fieldErr("temperature", "section is required")
	}
	sensor, ok := sec["sensor"].(string)
	if !ok || sensor == "" {
		return t, fieldErr("temperature.sensor", "must be a non-empty string")
	}
	below, err := toFloat(sec["below"])
	if err != nil {
		return t, fieldErr("temperature.below", "must be a number")
	}
	above, err := toFloat(sec["above"])
	if err != nil {
		return t, fieldErr("temperature.above", "must be a number")
	}
	if below >= above {
		return t, fieldErr("temperature.below", "must be less than temperature.above")
	}
	t.Sensor, t.Below, t.Above = sensor, below, above
	return t, nil
}

func parseWindow(v any) (wc.WindowExpectation, error) {
	var w wc.WindowExpectation
	sec, ok := section(v)
	if !ok {
		return w, fieldErr("window", "section is required")
	}
	sensor, ok := sec["sensor"].(string)
	if !ok || sensor == "" {
		return w, fieldErr("window.sensor", "must be a non-empty string")
	}
	below, err := binaryState(sec["below"])
	if err != nil {
		return w, fieldErr("window.below", err.Error())
	}
	above, err := binaryState(sec["above"])
	if err != nil {
		return w, fieldErr("window.above", err.Error())
	}
	w.Sensor, w.Below, w.Above = sensor, below, above
	return w, nil
}

func parseMessages(v any) (wc.AlertMessages, error) {
	var m wc.AlertMessages
	sec, ok := section(v)
	if !ok {
		return m, fieldErr("messages", "section is required")
	}
	for _, field := range []string{"below", "above", "title"} {
		s, ok := sec[field].(string)
		if !ok || strings.TrimSpace(s) == "" {
			return m, fieldErr("messages."+field, "must be a non-empty string")
		}
	}
	m.Below = sec["below"].(string)
	m.Above = sec["above"].(string)
	m.Title = sec["title"].(string)

	cooldown, err := toInt(sec["cooldown"])
	if err != nil || cooldown <= 0 {
		return m, fieldErr("messages.cooldown", "must be a positive integer (seconds)")
	}
	m.Cooldown = time.Duration(cooldown) * time.Second
	return m, nil
}

func parseWhen(v any) (wc.ActiveHours, error) {
	var h wc.ActiveHours
	sec, ok := section(v)
	if !ok {
		return h, fieldErr("when", "section is required")
	}
	after, err := toInt(sec["after"])
	if err != nil {
		return h, fieldErr("when.after", "must be an integer")
	}
	before, err := toInt(sec["before"])
	if err != nil {
		return h, fieldErr("when.before", "must be an integer")
	}
	if after < 0 || after > 23 || before < 0 || before > 23 {
		return h, fieldErr("when", "after and before must be between 0 and 23")
	}
	if after == before {
		return h, fieldErr("when", "after and before cannot be the same")
	}
	if after > before {
		return h, fieldErr("when", "after must be before when.before; wrapping past midnight is not supported")
	}
	h.After, h.Before = after, before
	return h, nil
}

func parsePersons(v any) ([]wc.Recipient, error) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, fieldErr("persons", "must be a non-empty list")
	}
	out := make([]wc.Recipient, 0, len(list))
	for i, entry := range list {
		sec, ok := section(entry)
		if !ok {
			return nil, fieldErr(fmt.Sprintf("persons[%d]", i), "must be a record with a 'notify' field")
		}
		notify, ok := sec["notify"].(string)
		if !ok || strings.TrimSpace(notify) == "" {
			return nil, fieldErr(fmt.Sprintf("persons[%d].notify", i), "must be a non-empty string")
		}
		r := wc.Recipient{Notify: notify}
		if nv, ok := sec["name"]; ok && nv != nil {
			s, ok := nv.(string)
			if !ok {
				return nil, fieldErr(fmt.Sprintf("persons[%d].name", i), "must be a string")
			}
			r.Name = s
		}
		if tv, ok := sec["tracker"]; ok && tv != nil {
			s, ok := tv.(string)
			if !ok {
				return nil, fieldErr(fmt.Sprintf("persons[%d].tracker", i), "must be a string")
			}
			r.Tracker = s
		}
		out = append(out, r)
	}
	return out, nil
}

// section coerces a nested config value to a lowercase string-keyed map.
// Viper yields map[string]any; YAML decoded by other means may yield
// map[any]any. Keys are lowercased either way so both decoders validate
// the same document identically.
func section(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[strings.ToLower(k)] = val
		}
		return out, len(out) > 0
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[strings.ToLower(ks)] = val
		}
		return out, len(out) > 0
	default:
		return nil, false
	}
}

func binaryState(v any) (string, error) {
	s, _ := v.(string)
	if s != StateOn && s != StateOff {
		return "", fmt.Errorf("must be %q or %q", StateOn, StateOff)
	}
	return s, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("not an integer: %v", n)
		}
		return int(n), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}
