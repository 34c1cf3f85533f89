package models

import (
	"context"
)

// EventCreator defines the interface for calendar event clients
type EventCreator interface {
	CreateEvent(ctx context.Context, creds *Credentials, date, summary, colorID string) error
}
