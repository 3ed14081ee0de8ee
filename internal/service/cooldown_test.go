package service

import (
	"testing"
	"time"
)

func TestCooldownStore_Suppressed(t *testing.T) {
	t.Parallel()

	store := NewCooldownStore()
	now := time.Date(2026, 8, 23, 16, 0, 0, 0, time.UTC)
	cooldown := 30 * time.Minute

	if store.Suppressed("mobile_app_iphone_28", now, cooldown) {
		t.Error("a never-notified target must not be suppressed")
	}

	store.Set("mobile_app_iphone_28", now)
	if !store.Suppressed("mobile_app_iphone_28", now.Add(10*time.Minute), cooldown) {
		t.Error("target must be suppressed inside the cooldown")
	}
	if store.Suppressed("mobile_app_iphone_28", now.Add(30*time.Minute), cooldown) {
		t.Error("target must be released exactly at the cooldown boundary")
	}
	if store.Suppressed("mobile_app_pixel", now.Add(time.Minute), cooldown) {
		t.Error("cooldowns are per target")
	}
}

func TestCooldownStore_FutureMarkerSuppresses(t *testing.T) {
	t.Parallel()

	store := NewCooldownStore()
	now := time.Date(2026, 8, 23, 21, 0, 0, 0, time.UTC)
	midnight := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	// The ignore override plants a marker in the future; it wins over the
	// plain cooldown arithmetic until that time passes.
	store.Set("mobile_app_iphone_28", midnight)
	if !store.Suppressed("mobile_app_iphone_28", now, 30*time.Minute) {
		t.Error("future marker must suppress before midnight")
	}
	if !store.Suppressed("mobile_app_iphone_28", midnight.Add(20*time.Minute), 30*time.Minute) {
		t.Error("a fresh marker still honors the cooldown after it passes")
	}
	if store.Suppressed("mobile_app_iphone_28", midnight.Add(time.Hour), 30*time.Minute) {
		t.Error("suppression must end once the cooldown after midnight elapses")
	}
}

func TestCooldownStore_SetOverwrites(t *testing.T) {
	t.Parallel()

	store := NewCooldownStore()
	first := time.Date(2026, 8, 23, 16, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	store.Set("mobile_app_iphone_28", first)
	store.Set("mobile_app_iphone_28", second)
	if got := store.Marker("mobile_app_iphone_28"); !got.Equal(second) {
		t.Errorf("Marker: want %v, got %v", second, got)
	}
}

func TestCooldownStore_SnapshotIsACopy(t *testing.T) {
	t.Parallel()

	store := NewCooldownStore()
	at := time.Date(2026, 8, 23, 16, 0, 0, 0, time.UTC)
	store.Set("mobile_app_iphone_28", at)

	snap := store.Snapshot()
	if len(snap) != 1 || !snap["mobile_app_iphone_28"].Equal(at) {
		t.Fatalf("Snapshot: got %v", snap)
	}

	snap["mobile_app_iphone_28"] = at.Add(time.Hour)
	if got := store.Marker("mobile_app_iphone_28"); !got.Equal(at) {
		t.Errorf("mutating the snapshot must not touch the store: got %v", got)
	}
}
