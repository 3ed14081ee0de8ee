package service

import (
	"context"
	"time"

	wc "window_comfort"
	"window_comfort/internal/logger"
	"window_comfort/internal/repository"
)

// Host platform capabilities, injected so the rule runs (and tests) without
// the platform itself.

// StateReader reads the current state string of a host entity.
type StateReader interface {
	State(ctx context.Context, entityID string) (string, error)
}

// AttributeReader additionally reads a named attribute of an entity
// (structured sensor data such as forecast lists).
type AttributeReader interface {
	StateReader
	Attribute(ctx context.Context, entityID, attribute string) (any, error)
}

// NotificationSender dispatches a notification to a notify target.
type NotificationSender interface {
	Notify(ctx context.Context, target, message, title string, actions []wc.NotifyAction) error
}

// Service-layer seams consumed by the HTTP handlers and main.

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Watcher runs the periodic condition check until the context is canceled.
type Watcher interface {
	Run(ctx context.Context, tick time.Duration)
}

// Monitoring exposes the rule's observable state snapshot.
type Monitoring interface {
	GetState(ctx context.Context) (wc.RuleState, error)
}

// EventLog exposes the append-only notification log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]wc.NotificationEvent, error)
}

// Feedback processes "ignore today" responses, from the host event stream
// or from the admin API.
type Feedback interface {
	HandleAction(ctx context.Context, action string) bool
	IgnoreToday(ctx context.Context, target string) time.Time
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "ALERT", "NOTIFY", "NOTIFY_FAILED", "IGNORE"
}

// Service aggregates all sub-services.
type Service struct {
	Watcher
	Monitoring
	EventLog
	Feedback
	Authorization
}

// Deps carries everything the service layer is wired with.
type Deps struct {
	Rule       wc.RuleConfig
	Repos      *repository.Repository
	States     AttributeReader
	Sender     NotificationSender
	Log        *logger.Logger
	SigningKey string
}

// NewService wires the rule's sub-services around one shared cooldown store
// and one shared status recorder.
func NewService(d Deps) *Service {
	store := NewCooldownStore()
	status := NewStatusRecorder()
	notifier := NewNotifierService(d.Rule, store, d.Sender, d.States, d.Repos.EventRepo, d.Log)
	return &Service{
		Watcher:       NewWatcherService(d.Rule, d.States, notifier, status, d.Repos.EventRepo, d.Log),
		Monitoring:    NewMonitoringService(d.Rule, status, store),
		EventLog:      NewEventLogService(d.Repos.EventRepo),
		Feedback:      NewFeedbackService(d.Rule, store, d.Repos.EventRepo, d.Log),
		Authorization: NewAuthService(d.Repos.Auth, d.SigningKey),
	}
}
