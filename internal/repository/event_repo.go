package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	wc "window_comfort"

	"github.com/google/uuid"
)

// sqliteTimeLayout is the TIMESTAMP format SQLite sorts lexicographically.
const sqliteTimeLayout = "2006-01-02 15:04:05"

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

// Append inserts one event. A missing EventID or OccurredAt is generated;
// timestamps are stored in UTC and types uppercased.
func (r *EventSQLite) Append(ctx context.Context, e wc.NotificationEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notification_events (id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?)
	`,
		e.EventID,
		e.OccurredAt.UTC().Format(sqliteTimeLayout),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Description,
		marshalMeta(e.Metadata),
	)
	return err
}

// marshalMeta renders optional metadata as a JSON column value, nil if absent
// or unmarshalable.
func marshalMeta(meta any) *string {
	if meta == nil {
		return nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// List returns events inside [from, to] (either bound may be zero) and/or of
// one type, oldest first.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]wc.NotificationEvent, error) {
	q, args := buildListQuery(from, to, typ)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]wc.NotificationEvent, 0, 64)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildListQuery(from, to time.Time, typ string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := `SELECT id, occurred_at, type, message, meta FROM notification_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	return q + " ORDER BY occurred_at ASC", args
}

func scanEvent(rows *sql.Rows) (wc.NotificationEvent, error) {
	var (
		ev      wc.NotificationEvent
		metaStr sql.NullString
	)
	if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Description, &metaStr); err != nil {
		return ev, err
	}
	ev.OccurredAt = ev.OccurredAt.UTC()

	if metaStr.Valid && metaStr.String != "" {
		var v any
		if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
			ev.Metadata = v
		} else {
			ev.Metadata = metaStr.String // keep raw if malformed
		}
	}
	return ev, nil
}
