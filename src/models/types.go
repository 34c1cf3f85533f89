package models

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

type EventItem struct {
	Date string `json:"date" binding:"required"`
	Type string `json:"type" binding:"required"`
}

type BatchEventRequest struct {
	Events []EventItem `json:"events" binding:"required"`
}

type AddedEvent struct {
	Summary string `json:"summary"`
	Date    string `json:"date"`
}

type BatchEventResponse struct {
	Message     string       `json:"message"`
	AddedEvents []AddedEvent `json:"added_events"`
	RedirectURL string       `json:"redirect_url"`
}

type BatchResult struct {
	Count int
	Added []AddedEvent
}

// EventTemplate is the static configuration for one event type.
type EventTemplate struct {
	Summary string `json:"summary"`
	ColorID string `json:"color_id"`
}

// CredentialBundle is the serializable form of delegated Google access.
// It lives in the user's session and nowhere else.
type CredentialBundle struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenExpiry  time.Time `json:"token_expiry,omitempty"`
	TokenURI     string    `json:"token_uri"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	Scopes       []string  `json:"scopes"`
}

// Credentials is the live reconstruction of a CredentialBundle. The token
// source is shared so that a silent refresh happens at most once per batch
// and the refreshed token can be read back afterwards.
type Credentials struct {
	Token  *oauth2.Token
	Config *oauth2.Config

	source oauth2.TokenSource
}

func NewCredentials(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) *Credentials {
	return &Credentials{
		Token:  tok,
		Config: cfg,
		source: cfg.TokenSource(ctx, tok),
	}
}

// TokenSource returns the shared reusing source for this credential set.
func (c *Credentials) TokenSource() oauth2.TokenSource {
	return c.source
}

// CurrentToken reports the token the shared source currently holds,
// including any refresh that happened since reconstruction.
func (c *Credentials) CurrentToken() (*oauth2.Token, error) {
	tok, err := c.source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read current token: %w", err)
	}
	return tok, nil
}
