package service

import (
	"context"
	"fmt"
	"time"

	wc "window_comfort"
	"window_comfort/internal/logger"
	"window_comfort/internal/metrics"
	"window_comfort/internal/repository"
)

const (
	ignoreAction      = "ignore"
	ignoreActionTitle = "Ignore today"
)

// Skip reasons reported as metrics labels.
const (
	skipCooldown = "cooldown"
	skipAway     = "away"
	skipNoTarget = "no_target"
)

// NotifierService fans a due alert out to the configured recipients,
// respecting presence and per-recipient cooldowns. A dispatch failure for
// one recipient never blocks the remaining recipients.
type NotifierService struct {
	cfg      wc.RuleConfig
	store    *CooldownStore
	sender   NotificationSender
	presence StateReader
	events   repository.EventRepo
	log      *logger.Logger
	now      func() time.Time
}

func NewNotifierService(
	cfg wc.RuleConfig,
	store *CooldownStore,
	sender NotificationSender,
	presence StateReader,
	events repository.EventRepo,
	log *logger.Logger,
) *NotifierService {
	return &NotifierService{
		cfg:      cfg,
		store:    store,
		sender:   sender,
		presence: presence,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// Dispatch notifies every eligible recipient, in list order.
func (s *NotifierService) Dispatch(ctx context.Context, alert wc.Alert) {
	now := s.now()
	message := fmt.Sprintf("%s (%.1f°C)", alert.Message, alert.Temperature)

	for _, p := range s.cfg.Persons {
		if p.Notify == "" {
			metrics.NotificationsSkipped.WithLabelValues(skipNoTarget).Inc()
			continue
		}
		if s.store.Suppressed(p.Notify, now, s.cfg.Messages.Cooldown) {
			metrics.NotificationsSkipped.WithLabelValues(skipCooldown).Inc()
			continue
		}
		if p.Tracker != "" && !s.isHome(ctx, p.Tracker) {
			metrics.NotificationsSkipped.WithLabelValues(skipAway).Inc()
			continue
		}

		actions := []wc.NotifyAction{{
			Action: fmt.Sprintf("%s.%s.%s", s.cfg.Name, ignoreAction, p.Notify),
			Title:  ignoreActionTitle,
		}}
		if err := s.sender.Notify(ctx, p.Notify, message, s.cfg.Messages.Title, actions); err != nil {
			s.log.Errorw("notification_send_failed", "target", p.Notify, "err", err)
			metrics.NotificationFailures.Inc()
			s.appendEvent(ctx, wc.EventNotifyFailed, "Notification to "+p.Notify+" failed", map[string]any{
				"target": p.Notify,
				"error":  err.Error(),
			})
			continue
		}

		s.store.Set(p.Notify, now)
		metrics.NotificationsSent.Inc()
		s.log.Infow("notification_sent", "target", p.Notify, "kind", alert.Kind)
		s.appendEvent(ctx, wc.EventNotify, "Notification sent to "+p.Notify, map[string]any{
			"target":      p.Notify,
			"kind":        alert.Kind,
			"temperature": alert.Temperature,
		})
	}
}

// isHome treats lookup errors as "not home": the recipient is skipped and
// picked up again on a later tick.
func (s *NotifierService) isHome(ctx context.Context, tracker string) bool {
	state, err := s.presence.State(ctx, tracker)
	if err != nil {
		s.log.Infow("presence_lookup_failed", "tracker", tracker, "err", err)
		return false
	}
	return state == StateHome
}

// appendEvent records to the event log best-effort; log persistence failures
// must not interfere with dispatching.
func (s *NotifierService) appendEvent(ctx context.Context, typ, desc string, meta map[string]any) {
	err := s.events.Append(ctx, wc.NotificationEvent{
		OccurredAt:  s.now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Errorw("event_append_failed", "type", typ, "err", err)
	}
}
