package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dutycal/src/auth"
	"dutycal/src/calendar"
	"dutycal/src/mocks"
	"dutycal/src/models"
	"dutycal/src/planner"
)

func setupEventsHandler(t *testing.T) (*EventsHandler, *mocks.MockEventCreator, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := auth.NewSessionStore(client, time.Hour)

	creator := new(mocks.MockEventCreator)
	coordinator := planner.NewCoordinator(creator, 5)

	handler := NewEventsHandler(coordinator, calendar.NewCredentialStore(), sessions)
	return handler, creator, mr
}

func authenticatedSession() *auth.Session {
	return &auth.Session{
		ID: "test-session",
		Credentials: &models.CredentialBundle{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			TokenURI:     "https://oauth2.googleapis.com/token",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Scopes:       auth.GoogleScopes,
		},
		UserEmail: "user@example.com",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func postAddEvents(t *testing.T, handler *EventsHandler, session *auth.Session, body any) *httptest.ResponseRecorder {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/add-events", bytes.NewBuffer(jsonBody))
	c.Request.Header.Set("Content-Type", "application/json")
	if session != nil {
		c.Set("session", session)
	}

	handler.AddEvents(c)
	return w
}

func TestAddEvents_Unauthenticated(t *testing.T) {
	handler, creator, mr := setupEventsHandler(t)
	defer mr.Close()

	w := postAddEvents(t, handler, nil, models.BatchEventRequest{
		Events: []models.EventItem{{Date: "2025-03-10", Type: "duty"}},
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No authorization.")
	creator.AssertNumberOfCalls(t, "CreateEvent", 0)
}

func TestAddEvents_NoValidEvents(t *testing.T) {
	handler, creator, mr := setupEventsHandler(t)
	defer mr.Close()

	w := postAddEvents(t, handler, authenticatedSession(), models.BatchEventRequest{
		Events: []models.EventItem{
			{Date: "2025-03-10", Type: "unknown"},
			{Date: "2025-03-11", Type: "vacation"},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No valid events to add.")
	creator.AssertNumberOfCalls(t, "CreateEvent", 0)
}

func TestAddEvents_Success(t *testing.T) {
	handler, creator, mr := setupEventsHandler(t)
	defer mr.Close()

	creator.On("CreateEvent", mock.Anything, mock.Anything, "2025-03-10", "Służba", "5").Return(nil)
	creator.On("CreateEvent", mock.Anything, mock.Anything, "2025-03-11", "Szkolenie", "2").Return(nil)

	w := postAddEvents(t, handler, authenticatedSession(), models.BatchEventRequest{
		Events: []models.EventItem{
			{Date: "2025-03-10", Type: "duty"},
			{Date: "2025-03-11", Type: "training"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BatchEventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "Pomyślnie dodano 2 wydarzeń.", resp.Message)
	assert.Equal(t, []models.AddedEvent{
		{Summary: "Służba", Date: "2025-03-10"},
		{Summary: "Szkolenie", Date: "2025-03-11"},
	}, resp.AddedEvents)
	assert.Equal(t, "https://calendar.google.com/calendar/u/user@example.com/r", resp.RedirectURL)

	creator.AssertExpectations(t)
}

func TestAddEvents_RedirectWithoutEmail(t *testing.T) {
	handler, creator, mr := setupEventsHandler(t)
	defer mr.Close()

	creator.On("CreateEvent", mock.Anything, mock.Anything, "2025-03-10", "Służba", "5").Return(nil)

	session := authenticatedSession()
	session.UserEmail = ""

	w := postAddEvents(t, handler, session, models.BatchEventRequest{
		Events: []models.EventItem{{Date: "2025-03-10", Type: "duty"}},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BatchEventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://calendar.google.com/", resp.RedirectURL)
}

func TestAddEvents_SingleFailureFailsBatch(t *testing.T) {
	handler, creator, mr := setupEventsHandler(t)
	defer mr.Close()

	creator.On("CreateEvent", mock.Anything, mock.Anything, "2025-03-10", "Służba", "5").Return(nil)
	creator.On("CreateEvent", mock.Anything, mock.Anything, "2025-03-11", "Szkolenie", "2").
		Return(&calendar.EventError{Date: "2025-03-11", Err: errors.New("rateLimitExceeded")})

	w := postAddEvents(t, handler, authenticatedSession(), models.BatchEventRequest{
		Events: []models.EventItem{
			{Date: "2025-03-10", Type: "duty"},
			{Date: "2025-03-11", Type: "training"},
		},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "2025-03-11")
	assert.Contains(t, w.Body.String(), "rateLimitExceeded")

	// Both calls settled even though one failed.
	creator.AssertNumberOfCalls(t, "CreateEvent", 2)
}

func TestAddEvents_MalformedBody(t *testing.T) {
	handler, _, mr := setupEventsHandler(t)
	defer mr.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/add-events", bytes.NewBufferString(`{"events": "nope"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("session", authenticatedSession())

	handler.AddEvents(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	handler, _, mr := setupEventsHandler(t)
	defer mr.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/health", nil)

	handler.HealthCheck(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
