// Package hass talks to a Home Assistant instance: entity state reads over
// its REST API and notification dispatch via notify services. It is the
// concrete implementation of the host capabilities the rule is wired with.
package hass

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	wc "window_comfort"
)

// ErrEntityNotFound is returned when the host does not know the entity.
var ErrEntityNotFound = errors.New("entity not found")

const requestTimeout = 10 * time.Second

// Client is a minimal Home Assistant REST API client.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// entityState mirrors the /api/states/<entity> response.
type entityState struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// State returns the current state string of an entity.
func (c *Client) State(ctx context.Context, entityID string) (string, error) {
	st, err := c.getState(ctx, entityID)
	if err != nil {
		return "", err
	}
	return st.State, nil
}

// Attribute returns a named attribute of an entity; nil if absent.
func (c *Client) Attribute(ctx context.Context, entityID, attribute string) (any, error) {
	st, err := c.getState(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return st.Attributes[attribute], nil
}

// Notify calls the notify service for target with an optional action list.
func (c *Client) Notify(ctx context.Context, target, message, title string, actions []wc.NotifyAction) error {
	payload := map[string]any{
		"message": message,
		"title":   title,
	}
	if len(actions) > 0 {
		payload["data"] = map[string]any{"actions": actions}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notify payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/services/notify/%s", c.baseURL, target)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notify %s: %w", target, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify %s: unexpected status %s", target, resp.Status)
	}
	return nil
}

func (c *Client) getState(ctx context.Context, entityID string) (entityState, error) {
	var st entityState

	url := fmt.Sprintf("%s/api/states/%s", c.baseURL, entityID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return st, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return st, fmt.Errorf("get state %s: %w", entityID, err)
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return st, fmt.Errorf("get state %s: %w", entityID, ErrEntityNotFound)
	case resp.StatusCode != http.StatusOK:
		return st, fmt.Errorf("get state %s: unexpected status %s", entityID, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("decode state %s: %w", entityID, err)
	}
	return st, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
