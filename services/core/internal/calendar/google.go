// Package calendar syncs bookings into the booker's Google Calendar.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	PrimaryCalendar = "primary"
	DefaultDuration = 2 * time.Hour
)

// Entry is a calendar event created for a booking.
type Entry struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
}

type Client interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Insert(ctx context.Context, token *oauth2.Token, entry Entry) error
	Delete(ctx context.Context, token *oauth2.Token, entryID string) error
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint defaults to Google's OAuth endpoint.
	Endpoint oauth2.Endpoint
	// Options are appended when building the Calendar API client.
	Options []option.ClientOption
}

type GoogleClient struct {
	oauth   *oauth2.Config
	options []option.ClientOption
}

func NewGoogleClient(cfg GoogleConfig) *GoogleClient {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	return &GoogleClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{gcal.CalendarEventsScope},
		},
		options: cfg.Options,
	}
}

// EntryID derives a Google-compatible event id (base32hex) from a uuid.
func EntryID(id string) string {
	return strings.Split(id, "-")[0]
}

func (g *GoogleClient) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (g *GoogleClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}
	return token, nil
}

func (g *GoogleClient) Insert(ctx context.Context, token *oauth2.Token, entry Entry) error {
	srv, err := g.service(ctx, token)
	if err != nil {
		return err
	}

	start := entry.Start.UTC()
	event := &gcal.Event{
		Id:          entry.ID,
		Summary:     entry.Summary,
		Description: entry.Description,
		Location:    entry.Location,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: "UTC"},
		End:         &gcal.EventDateTime{DateTime: start.Add(DefaultDuration).Format(time.RFC3339), TimeZone: "UTC"},
	}

	if _, err := srv.Events.Insert(PrimaryCalendar, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return nil
}

// Delete removes entryID. An entry that is already gone is not an error.
func (g *GoogleClient) Delete(ctx context.Context, token *oauth2.Token, entryID string) error {
	srv, err := g.service(ctx, token)
	if err != nil {
		return err
	}

	err = srv.Events.Delete(PrimaryCalendar, entryID).Context(ctx).Do()
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

func (g *GoogleClient) service(ctx context.Context, token *oauth2.Token) (*gcal.Service, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(g.oauth.TokenSource(ctx, token))}, g.options...)
	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	return srv, nil
}
