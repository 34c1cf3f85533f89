package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"dutycal/src/calendar"
	"dutycal/src/config"
	"dutycal/src/models"
)

// MarkerCookieName is a non-sensitive, client-visible flag telling the
// frontend the user is logged in. It carries no token material.
const MarkerCookieName = "google_token_present"

type Handler struct {
	flow      *FlowFactory
	sessions  *SessionStore
	credStore *calendar.CredentialStore
	config    *config.SessionConfig
}

func NewHandler(
	flow *FlowFactory,
	sessions *SessionStore,
	credStore *calendar.CredentialStore,
	config *config.SessionConfig,
) *Handler {
	return &Handler{
		flow:      flow,
		sessions:  sessions,
		credStore: credStore,
		config:    config,
	}
}

// Login starts the authorization-code flow: store a fresh CSRF state in
// the session and send the browser to the consent screen. Offline access
// and forced consent guarantee a refresh token even on re-authorization.
func (h *Handler) Login(c *gin.Context) {
	session := h.sessionFromRequest(c)
	if session == nil {
		var err error
		session, err = h.sessions.CreateSession(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
	}

	state, err := generateState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate state"})
		return
	}

	session.State = state
	if err := h.sessions.SaveSession(c.Request.Context(), session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}

	h.setCookie(c, SessionCookieName, session.ID, int(h.config.Duration.Seconds()), true)

	url := h.flow.ConfigForRequest(c.Request).AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	c.Redirect(http.StatusFound, url)
}

// Callback verifies the returned state against the session, exchanges the
// code, and stores the credential bundle and user email in the session.
// On mismatch the stored state stays untouched and nothing transitions.
func (h *Handler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	session := h.sessionFromRequest(c)
	if session == nil || state == "" || session.State == "" || session.State != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "State mismatch."})
		return
	}

	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch authorization token."})
		return
	}

	flowCfg := h.flow.ConfigForRequest(c.Request)

	token, err := flowCfg.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Printf("auth: token exchange failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch authorization token."})
		return
	}

	email, err := h.fetchUserEmail(c.Request.Context(), flowCfg, token)
	if err != nil {
		log.Printf("auth: userinfo lookup failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch authorization token."})
		return
	}

	creds := models.NewCredentials(c.Request.Context(), flowCfg, token)

	session.State = ""
	session.Credentials = h.credStore.Save(creds)
	session.UserEmail = email
	if err := h.sessions.SaveSession(c.Request.Context(), session); err != nil {
		log.Printf("auth: failed to save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}

	h.setCookie(c, MarkerCookieName, "true", int(h.config.Duration.Seconds()), false)
	c.Redirect(http.StatusFound, "/")
}

// Logout clears all session data and both cookies. A no-op success when
// already anonymous.
func (h *Handler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(SessionCookieName); err == nil && sessionID != "" {
		h.sessions.DeleteSession(c.Request.Context(), sessionID)
	}

	h.setCookie(c, SessionCookieName, "", -1, true)
	h.setCookie(c, MarkerCookieName, "", -1, false)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) sessionFromRequest(c *gin.Context) *Session {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || sessionID == "" {
		return nil
	}
	session, err := h.sessions.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		return nil
	}
	return session
}

func (h *Handler) fetchUserEmail(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (string, error) {
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx, token)))
	if err != nil {
		return "", fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return "", fmt.Errorf("failed to fetch user info: %w", err)
	}

	return info.Email, nil
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int, httpOnly bool) {
	sameSite := http.SameSiteLaxMode
	if h.config.CookieSameSite == "strict" {
		sameSite = http.SameSiteStrictMode
	} else if h.config.CookieSameSite == "none" {
		sameSite = http.SameSiteNoneMode
	}

	c.SetSameSite(sameSite)

	cookieDomain := h.config.CookieDomain
	if cookieDomain == "localhost" {
		cookieDomain = ""
	}

	c.SetCookie(name, value, maxAge, "/", cookieDomain, h.config.CookieSecure, httpOnly)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
