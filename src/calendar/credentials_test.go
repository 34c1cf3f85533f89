package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dutycal/src/models"
)

func TestCredentialStore_RoundTrip(t *testing.T) {
	store := NewCredentialStore()

	bundle := &models.CredentialBundle{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenExpiry:  time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC),
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Scopes: []string{
			"https://www.googleapis.com/auth/calendar",
			"https://www.googleapis.com/auth/userinfo.email",
			"openid",
		},
	}

	creds, err := store.Load(context.Background(), bundle)
	require.NoError(t, err)
	assert.Equal(t, "access-token", creds.Token.AccessToken)
	assert.Equal(t, "refresh-token", creds.Token.RefreshToken)
	assert.Equal(t, "client-id", creds.Config.ClientID)

	assert.Equal(t, bundle, store.Save(creds))
}

func TestCredentialStore_Load_InvalidBundle(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	_, err := store.Load(ctx, nil)
	assert.Error(t, err)

	_, err = store.Load(ctx, &models.CredentialBundle{
		AccessToken: "access-token",
		TokenURI:    "https://oauth2.googleapis.com/token",
	})
	assert.Error(t, err, "missing client id")

	_, err = store.Load(ctx, &models.CredentialBundle{
		TokenURI: "https://oauth2.googleapis.com/token",
		ClientID: "client-id",
	})
	assert.Error(t, err, "no tokens")
}
