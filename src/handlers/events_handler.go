package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"dutycal/src/auth"
	"dutycal/src/calendar"
	"dutycal/src/middleware"
	"dutycal/src/models"
	"dutycal/src/planner"
)

type EventsHandler struct {
	coordinator *planner.Coordinator
	credStore   *calendar.CredentialStore
	sessions    *auth.SessionStore
}

func NewEventsHandler(
	coordinator *planner.Coordinator,
	credStore *calendar.CredentialStore,
	sessions *auth.SessionStore,
) *EventsHandler {
	return &EventsHandler{
		coordinator: coordinator,
		credStore:   credStore,
		sessions:    sessions,
	}
}

// AddEvents creates one calendar event per valid batch item. The batch
// either succeeds as a whole or is reported failed; events created
// before a sibling's failure stay on the upstream calendar.
func (h *EventsHandler) AddEvents(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if !session.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization."})
		return
	}

	var req models.BatchEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	creds, err := h.credStore.Load(c.Request.Context(), session.Credentials)
	if err != nil {
		log.Printf("events: failed to reconstruct credentials: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization."})
		return
	}

	result, err := h.coordinator.AddEvents(c.Request.Context(), creds, req.Events)
	if err != nil {
		if errors.Is(err, planner.ErrNoValidEvents) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid events to add."})
			return
		}
		log.Printf("events: batch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.persistRefreshedToken(c, session, creds)

	c.JSON(http.StatusOK, models.BatchEventResponse{
		Message:     fmt.Sprintf("Pomyślnie dodano %d wydarzeń.", result.Count),
		AddedEvents: result.Added,
		RedirectURL: calendarRedirectURL(session.UserEmail),
	})
}

func (h *EventsHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// persistRefreshedToken writes the bundle back to the session when the
// shared token source minted a new access token during the batch.
func (h *EventsHandler) persistRefreshedToken(c *gin.Context, session *auth.Session, creds *models.Credentials) {
	token, err := creds.CurrentToken()
	if err != nil || token.AccessToken == session.Credentials.AccessToken {
		return
	}

	creds.Token = token
	session.Credentials = h.credStore.Save(creds)
	if err := h.sessions.SaveSession(c.Request.Context(), session); err != nil {
		log.Printf("events: failed to persist refreshed token: %v", err)
	}
}

func calendarRedirectURL(email string) string {
	if email == "" {
		return "https://calendar.google.com/"
	}
	return fmt.Sprintf("https://calendar.google.com/calendar/u/%s/r", email)
}
