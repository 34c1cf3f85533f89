package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"dutycal/src/config"
	"dutycal/src/models"
)

const primaryCalendarID = "primary"

// Every event starts at 07:30 local time and runs one hour. Product
// policy, not configuration.
const (
	eventStartHour   = 7
	eventStartMinute = 30
	eventDuration    = time.Hour
)

// EventError carries the date whose creation failed along with the
// upstream cause.
type EventError struct {
	Date string
	Err  error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("calendar event for %s: %v", e.Date, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}

// Client inserts events into the user's primary Google calendar, one
// event per call. It holds only stateless configuration and is safe for
// concurrent use.
type Client struct {
	location *time.Location
	tzName   string
	opts     []option.ClientOption
}

func NewClient(cfg *config.CalendarConfig, opts ...option.ClientOption) (*Client, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}

	return &Client{
		location: loc,
		tzName:   cfg.Timezone,
		opts:     opts,
	}, nil
}

// CreateEvent inserts one event on the given YYYY-MM-DD date.
func (c *Client) CreateEvent(ctx context.Context, creds *models.Credentials, date, summary, colorID string) error {
	day, err := time.ParseInLocation("2006-01-02", date, c.location)
	if err != nil {
		return &EventError{Date: date, Err: fmt.Errorf("invalid date: %w", err)}
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), eventStartHour, eventStartMinute, 0, 0, c.location)
	end := start.Add(eventDuration)

	svcOpts := append([]option.ClientOption{option.WithTokenSource(creds.TokenSource())}, c.opts...)
	svc, err := gcal.NewService(ctx, svcOpts...)
	if err != nil {
		return &EventError{Date: date, Err: fmt.Errorf("failed to create calendar service: %w", err)}
	}

	event := &gcal.Event{
		Summary: summary,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: c.tzName,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: c.tzName,
		},
		ColorId: colorID,
	}

	if _, err := svc.Events.Insert(primaryCalendarID, event).Context(ctx).Do(); err != nil {
		return &EventError{Date: date, Err: err}
	}

	return nil
}
