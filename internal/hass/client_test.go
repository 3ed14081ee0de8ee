package hass

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	wc "window_comfort"
)

func TestClient_State(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method: got %s", r.Method)
		}
		if r.URL.Path != "/api/states/sensor.bedroom_temperature" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("auth header: got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"state":      "21.3",
			"attributes": map[string]any{"unit_of_measurement": "°C"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "test-token") // trailing slash must be tolerated
	got, err := c.State(context.Background(), "sensor.bedroom_temperature")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if got != "21.3" {
		t.Errorf("state: want 21.3, got %q", got)
	}
}

func TestClient_StateNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	_, err := c.State(context.Background(), "sensor.missing")
	if !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("error: want ErrEntityNotFound, got %v", err)
	}
}

func TestClient_StateServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	if _, err := c.State(context.Background(), "sensor.bedroom_temperature"); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestClient_Attribute(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"state": "0",
			"attributes": map[string]any{
				"forecast": []any{
					map[string]any{"datetime": "2026-08-23T16:10:00Z", "precipitation": 1.2},
				},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")

	raw, err := c.Attribute(context.Background(), "sensor.nowcast", "forecast")
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	entries, ok := raw.([]any)
	if !ok || len(entries) != 1 {
		t.Fatalf("forecast: got %#v", raw)
	}

	missing, err := c.Attribute(context.Background(), "sensor.nowcast", "no_such_attribute")
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	if missing != nil {
		t.Errorf("absent attribute must be nil, got %#v", missing)
	}
}

func TestClient_Notify(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type: got %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	actions := []wc.NotifyAction{{Action: "open_window_notification.ignore.mobile_app_iphone_28", Title: "Ignore today"}}
	err := c.Notify(context.Background(), "mobile_app_iphone_28", "Open bedroom window (21.0°C)", "Bedroom temp", actions)
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if gotPath != "/api/services/notify/mobile_app_iphone_28" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotBody["message"] != "Open bedroom window (21.0°C)" || gotBody["title"] != "Bedroom temp" {
		t.Errorf("payload: got %v", gotBody)
	}
	data, ok := gotBody["data"].(map[string]any)
	if !ok {
		t.Fatalf("payload data: got %v", gotBody["data"])
	}
	sent, ok := data["actions"].([]any)
	if !ok || len(sent) != 1 {
		t.Fatalf("actions: got %#v", data["actions"])
	}
	first, _ := sent[0].(map[string]any)
	if first["action"] != "open_window_notification.ignore.mobile_app_iphone_28" || first["title"] != "Ignore today" {
		t.Errorf("action payload: got %v", first)
	}
}

func TestClient_NotifyWithoutActionsOmitsData(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	if err := c.Notify(context.Background(), "mobile_app_pixel", "msg", "title", nil); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if _, ok := gotBody["data"]; ok {
		t.Errorf("data must be omitted without actions: %v", gotBody)
	}
}

func TestClient_NotifyErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token")
	if err := c.Notify(context.Background(), "mobile_app_pixel", "msg", "title", nil); err == nil {
		t.Fatal("expected error for 401 response")
	}
}
