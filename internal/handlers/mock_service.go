package handlers

import (
	"context"
	"net/http"
	"time"

	wc "window_comfort"
	"window_comfort/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockWatcher struct {
	runCalled int
}

func (m *mockWatcher) Run(ctx context.Context, tick time.Duration) {
	m.runCalled++
}

type mockMonitoring struct {
	state wc.RuleState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (wc.RuleState, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp     []wc.NotificationEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]wc.NotificationEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockFeedback struct {
	handled    bool
	until      time.Time
	lastAction string
	lastTarget string
}

func (m *mockFeedback) HandleAction(ctx context.Context, action string) bool {
	m.lastAction = action
	return m.handled
}
func (m *mockFeedback) IgnoreToday(ctx context.Context, target string) time.Time {
	m.lastTarget = target
	return m.until
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
