package calendar

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"dutycal/src/models"
)

// CredentialStore converts between the serializable session bundle and
// live oauth2 credentials. Both directions are pure, no network calls.
type CredentialStore struct{}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Load reconstructs live credentials from a session bundle. Fails only
// when the bundle is structurally unusable.
func (s *CredentialStore) Load(ctx context.Context, bundle *models.CredentialBundle) (*models.Credentials, error) {
	if bundle == nil {
		return nil, fmt.Errorf("credential bundle is empty")
	}
	if bundle.ClientID == "" || bundle.TokenURI == "" {
		return nil, fmt.Errorf("credential bundle is missing client configuration")
	}
	if bundle.AccessToken == "" && bundle.RefreshToken == "" {
		return nil, fmt.Errorf("credential bundle holds no tokens")
	}

	cfg := &oauth2.Config{
		ClientID:     bundle.ClientID,
		ClientSecret: bundle.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: bundle.TokenURI},
		Scopes:       bundle.Scopes,
	}
	token := &oauth2.Token{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		Expiry:       bundle.TokenExpiry,
		TokenType:    "Bearer",
	}

	return models.NewCredentials(ctx, cfg, token), nil
}

// Save serializes live credentials into a session bundle.
func (s *CredentialStore) Save(creds *models.Credentials) *models.CredentialBundle {
	return &models.CredentialBundle{
		AccessToken:  creds.Token.AccessToken,
		RefreshToken: creds.Token.RefreshToken,
		TokenExpiry:  creds.Token.Expiry,
		TokenURI:     creds.Config.Endpoint.TokenURL,
		ClientID:     creds.Config.ClientID,
		ClientSecret: creds.Config.ClientSecret,
		Scopes:       creds.Config.Scopes,
	}
}
