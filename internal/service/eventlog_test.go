package service

import (
	"context"
	"errors"
	"testing"
	"time"

	wc "window_comfort"
)

// eventListStub records List arguments for assertion.
type eventListStub struct {
	from, to time.Time
	typ      string
	out      []wc.NotificationEvent
	err      error
}

func (s *eventListStub) Append(ctx context.Context, e wc.NotificationEvent) error { return nil }

func (s *eventListStub) List(ctx context.Context, from, to time.Time, typ string) ([]wc.NotificationEvent, error) {
	s.from, s.to, s.typ = from, to, typ
	return s.out, s.err
}

func TestEventLog_ListNormalizesFilter(t *testing.T) {
	t.Parallel()

	repo := &eventListStub{out: []wc.NotificationEvent{{EventID: "e1"}}}
	svc := NewEventLogService(repo)

	oslo := time.FixedZone("CEST", 2*60*60)
	from := time.Date(2026, 8, 1, 2, 0, 0, 0, oslo)
	to := time.Date(2026, 8, 31, 2, 0, 0, 0, oslo)

	got, err := svc.List(context.Background(), LogFilter{From: from, To: to, Type: " notify "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "e1" {
		t.Errorf("result: got %+v", got)
	}

	if repo.from.Location() != time.UTC || !repo.from.Equal(from) {
		t.Errorf("from: want %v in UTC, got %v", from, repo.from)
	}
	if repo.to.Location() != time.UTC || !repo.to.Equal(to) {
		t.Errorf("to: want %v in UTC, got %v", to, repo.to)
	}
	if repo.typ != "NOTIFY" {
		t.Errorf("type: want NOTIFY, got %q", repo.typ)
	}
}

func TestEventLog_ListKeepsZeroBounds(t *testing.T) {
	t.Parallel()

	repo := &eventListStub{}
	svc := NewEventLogService(repo)

	if _, err := svc.List(context.Background(), LogFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.from.IsZero() || !repo.to.IsZero() || repo.typ != "" {
		t.Errorf("unbounded filter must pass through untouched: from=%v to=%v typ=%q", repo.from, repo.to, repo.typ)
	}
}

func TestEventLog_ListRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	svc := NewEventLogService(&eventListStub{})

	from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.List(context.Background(), LogFilter{From: from, To: to}); err == nil {
		t.Fatal("expected error for From after To")
	}
}

func TestEventLog_ListPropagatesRepoError(t *testing.T) {
	t.Parallel()

	want := errors.New("db closed")
	svc := NewEventLogService(&eventListStub{err: want})

	if _, err := svc.List(context.Background(), LogFilter{}); !errors.Is(err, want) {
		t.Errorf("error: want %v, got %v", want, err)
	}
}
