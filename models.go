package window_comfort

import "time"

// Recipient is a notification target. Notify is the host notify service
// name; Tracker optionally points at a presence entity.
type Recipient struct {
	Name    string `json:"name,omitempty"`
	Notify  string `json:"notify"`
	Tracker string `json:"tracker,omitempty"`
}

// TemperatureRange holds the sensor and the comfort band thresholds.
// Below is always strictly less than Above.
type TemperatureRange struct {
	Sensor string  `json:"sensor"`
	Below  float64 `json:"below"`
	Above  float64 `json:"above"`
}

// WindowExpectation holds the window sensor and the binary state ("on" or
// "off") the window is expected to be in at each temperature extreme.
type WindowExpectation struct {
	Sensor string `json:"sensor"`
	Below  string `json:"below"`
	Above  string `json:"above"`
}

// AlertMessages carries the notification texts and the per-recipient
// cooldown between consecutive notifications.
type AlertMessages struct {
	Below    string        `json:"below"`
	Above    string        `json:"above"`
	Title    string        `json:"title"`
	Cooldown time.Duration `json:"cooldown"`
}

// ActiveHours is the [After, Before) daily window, in local hours.
// After < Before; wrapping past midnight is not supported.
type ActiveHours struct {
	After  int `json:"after"`
	Before int `json:"before"`
}

// RuleConfig is the validated, immutable configuration of one rule instance.
type RuleConfig struct {
	Name          string            `json:"name"`
	Temperature   TemperatureRange  `json:"temperature"`
	Window        WindowExpectation `json:"window"`
	Messages      AlertMessages     `json:"messages"`
	When          ActiveHours       `json:"when"`
	Persons       []Recipient       `json:"persons"`
	NowcastSensor string            `json:"nowcast_sensor,omitempty"`
	Location      *time.Location    `json:"-"`
}

// Alert kinds.
const (
	AlertAbove = "ABOVE"
	AlertBelow = "BELOW"
)

// Alert is a determination that the current temperature/window combination
// violates policy and a notification is warranted.
type Alert struct {
	Kind        string  `json:"kind"` // ABOVE | BELOW
	Message     string  `json:"message"`
	Temperature float64 `json:"temperature"`
}

// NotifyAction is an interactive action attached to a dispatched
// notification. ID is opaque to the host: "<rule>.<action>.<target>".
type NotifyAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// RuleState is the observable snapshot of the running rule.
type RuleState struct {
	Rule            string               `json:"rule"`
	LastTickAt      time.Time            `json:"last_tick_at,omitempty"`
	LastTemperature *float64             `json:"last_temperature,omitempty"`
	LastWindowState string               `json:"last_window_state,omitempty"`
	LastAlert       *Alert               `json:"last_alert,omitempty"`
	LastAlertAt     time.Time            `json:"last_alert_at,omitempty"`
	Cooldowns       map[string]time.Time `json:"cooldowns,omitempty"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// Notification event types recorded in the event log.
const (
	EventAlert        = "ALERT"
	EventNotify       = "NOTIFY"
	EventNotifyFailed = "NOTIFY_FAILED"
	EventIgnore       = "IGNORE"
)

// NotificationEvent is a single event-log entry.
type NotificationEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // ALERT | NOTIFY | NOTIFY_FAILED | IGNORE
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

// User is an admin API account.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never exposed
}
