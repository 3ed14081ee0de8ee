package service

import (
	"context"
	"strings"
	"time"

	wc "window_comfort"
	"window_comfort/internal/logger"
	"window_comfort/internal/metrics"
	"window_comfort/internal/repository"
)

// FeedbackService handles "ignore today" responses carried by notification
// action events. Action identifiers have exactly three dot-separated
// components: "<rule>.<action>.<target>".
type FeedbackService struct {
	cfg    wc.RuleConfig
	store  *CooldownStore
	events repository.EventRepo
	log    *logger.Logger
	now    func() time.Time
}

func NewFeedbackService(cfg wc.RuleConfig, store *CooldownStore, events repository.EventRepo, log *logger.Logger) *FeedbackService {
	return &FeedbackService{
		cfg:    cfg,
		store:  store,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// HandleAction parses an inbound action identifier and applies the ignore
// override when it addresses this rule. Events for other rules or other
// action types are ignored; the return value reports whether the event was
// handled.
func (s *FeedbackService) HandleAction(ctx context.Context, action string) bool {
	parts := strings.Split(action, ".")
	if len(parts) != 3 || parts[0] != s.cfg.Name || parts[1] != ignoreAction {
		return false
	}
	s.IgnoreToday(ctx, parts[2])
	return true
}

// IgnoreToday suppresses further notifications to target until the start of
// the next calendar day in the rule's timezone. This is an explicit
// override: any shorter remaining cooldown is replaced.
func (s *FeedbackService) IgnoreToday(ctx context.Context, target string) time.Time {
	now := s.now().In(s.cfg.Location)
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, s.cfg.Location)

	s.store.Set(target, midnight)
	metrics.ActionsHandled.Inc()
	s.log.Infow("ignore_until_tomorrow", "target", target, "until", midnight)

	err := s.events.Append(ctx, wc.NotificationEvent{
		OccurredAt:  s.now().UTC(),
		Type:        wc.EventIgnore,
		Description: "Ignore set for " + target + " until tomorrow",
		Metadata:    map[string]any{"target": target, "until": midnight},
	})
	if err != nil {
		s.log.Errorw("event_append_failed", "type", wc.EventIgnore, "err", err)
	}
	return midnight
}
