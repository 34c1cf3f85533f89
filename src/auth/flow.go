package auth

import (
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleScopes is the fixed, ordered scope list requested at every login.
var GoogleScopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/userinfo.email",
	"openid",
}

// FlowFactory derives per-request oauth2 configurations from a parsed
// client-secrets file. The callback URL depends on whichever host and
// scheme served the request, so configs are never reused across requests.
type FlowFactory struct {
	base *oauth2.Config
}

func NewFlowFactory(credJSON []byte) (*FlowFactory, error) {
	base, err := google.ConfigFromJSON(credJSON, GoogleScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client credentials: %w", err)
	}
	return &FlowFactory{base: base}, nil
}

// ConfigForRequest clones the base config with the callback URL rebuilt
// from the incoming request.
func (f *FlowFactory) ConfigForRequest(r *http.Request) *oauth2.Config {
	cfg := *f.base
	cfg.RedirectURL = f.CallbackURL(r)
	return &cfg
}

// CallbackURL computes the redirect target the provider will send the
// browser back to. Must match between login and the code exchange.
func (f *FlowFactory) CallbackURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s/auth/callback", scheme, r.Host)
}
