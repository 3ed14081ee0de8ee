package service

import (
	"context"
	"time"

	wc "window_comfort"
	"window_comfort/internal/logger"
	"window_comfort/internal/metrics"
	"window_comfort/internal/repository"
)

// Tick skip reasons reported as metrics labels.
const (
	skipSensorError = "sensor_error"
	skipTempInvalid = "temperature_invalid"
	skipNowcast     = "nowcast"
)

// Dispatcher delivers a due alert to the recipients.
type Dispatcher interface {
	Dispatch(ctx context.Context, alert wc.Alert)
}

// WatcherService drives the rule: every tick it reads the sensors, evaluates
// the policy, consults the precipitation gate, and dispatches. Runtime
// failures skip the tick; recovery happens naturally on the next one.
type WatcherService struct {
	cfg       wc.RuleConfig
	states    AttributeReader
	evaluator *Evaluator
	gate      *NowcastGate
	notifier  Dispatcher
	status    *StatusRecorder
	events    repository.EventRepo
	log       *logger.Logger
	now       func() time.Time
}

func NewWatcherService(cfg wc.RuleConfig, states AttributeReader, notifier Dispatcher, status *StatusRecorder, events repository.EventRepo, log *logger.Logger) *WatcherService {
	return &WatcherService{
		cfg:       cfg,
		states:    states,
		evaluator: NewEvaluator(cfg),
		gate:      NewNowcastGate(cfg.NowcastSensor, states, log),
		notifier:  notifier,
		status:    status,
		events:    events,
		log:       log,
		now:       time.Now,
	}
}

// Run ticks at the given interval until ctx is canceled. Each tick runs to
// completion before the next is taken, so ticks never overlap.
func (s *WatcherService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.check(ctx, now)
		}
	}
}

func (s *WatcherService) check(ctx context.Context, now time.Time) {
	metrics.TicksTotal.Inc()

	tempState, err := s.states.State(ctx, s.cfg.Temperature.Sensor)
	if err != nil {
		s.log.Infow("temperature_read_failed", "sensor", s.cfg.Temperature.Sensor, "err", err)
		metrics.TickSkips.WithLabelValues(skipSensorError).Inc()
		return
	}
	temperature, ok := ParseTemperature(tempState)
	if !ok {
		metrics.TickSkips.WithLabelValues(skipTempInvalid).Inc()
		s.status.RecordTick(now, nil, "")
		return
	}

	windowState, err := s.states.State(ctx, s.cfg.Window.Sensor)
	if err != nil {
		s.log.Infow("window_read_failed", "sensor", s.cfg.Window.Sensor, "err", err)
		metrics.TickSkips.WithLabelValues(skipSensorError).Inc()
		s.status.RecordTick(now, &temperature, "")
		return
	}

	s.status.RecordTick(now, &temperature, windowState)

	hour := now.In(s.cfg.Location).Hour()
	alert, due := s.evaluator.Evaluate(temperature, windowState, hour)
	if !due {
		return
	}

	if s.evaluator.GateApplies(alert) && s.gate.Expected(ctx) {
		s.log.Infow("alert_suppressed_by_nowcast", "kind", alert.Kind)
		metrics.TickSkips.WithLabelValues(skipNowcast).Inc()
		return
	}

	s.log.Infow("alert_due", "kind", alert.Kind, "message", alert.Message, "temperature", temperature)
	metrics.AlertsTotal.WithLabelValues(alert.Kind).Inc()
	s.status.RecordAlert(alert, now)
	s.appendAlertEvent(ctx, alert, now)
	s.notifier.Dispatch(ctx, alert)
}

// appendAlertEvent records the due alert in the event log. Best effort, a
// failed append never blocks delivery.
func (s *WatcherService) appendAlertEvent(ctx context.Context, alert wc.Alert, now time.Time) {
	err := s.events.Append(ctx, wc.NotificationEvent{
		OccurredAt:  now.UTC(),
		Type:        wc.EventAlert,
		Description: alert.Message,
		Metadata: map[string]any{
			"kind":        alert.Kind,
			"temperature": alert.Temperature,
		},
	})
	if err != nil {
		s.log.Errorw("event_append_failed", "type", wc.EventAlert, "err", err)
	}
}
