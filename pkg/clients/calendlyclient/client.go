package calendlyclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/pkg/core/fieldparse"
	"github.com/energiefixers071/fixerdesk/pkg/utils"
)

const (
	DefaultBaseURL   = "https://api.calendly.com"
	DefaultDaysAhead = 30

	pageSize = 100
	maxPages = 100
)

var (
	ErrNotConfigured = errors.New("calendly api token not configured")
	ErrUnauthorized  = errors.New("calendly rejected the api token")
)

// Config holds the Calendly connection settings
type Config struct {
	BaseURL   string
	APIToken  string
	UserURI   string // resolved through /users/me when empty
	DaysAhead int
}

// Client wraps the Calendly v2 REST API
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a client authenticating with a personal access token
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.DaysAhead <= 0 {
		cfg.DaysAhead = DefaultDaysAhead
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   utils.NewTokenClient(ctx, utils.SchemeBearer, cfg.APIToken),
		logger: logger,
	}
}

// IsConfigured reports whether an API token is set
func (c *Client) IsConfigured() bool {
	return c.cfg.APIToken != ""
}

// DaysAhead returns the size of the sync window
func (c *Client) DaysAhead() int {
	return c.cfg.DaysAhead
}

type userResponse struct {
	Resource struct {
		URI  string `json:"uri"`
		Name string `json:"name"`
	} `json:"resource"`
}

type collectionPage struct {
	Collection []fieldparse.Payload `json:"collection"`
	Pagination struct {
		NextPage *string `json:"next_page"`
	} `json:"pagination"`
}

// CurrentUser returns the URI of the user owning the token
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}
	var user userResponse
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/users/me", &user); err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	return user.Resource.URI, nil
}

// TestConnection checks that the API is reachable with the configured token
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.CurrentUser(ctx)
	return err
}

// FetchEvents returns the scheduled events starting between from and to.
// The first invitee of each event is merged into its payload under "invitee".
func (c *Client) FetchEvents(ctx context.Context, from, to time.Time) ([]fieldparse.Payload, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	user := c.cfg.UserURI
	if user == "" {
		var err error
		if user, err = c.CurrentUser(ctx); err != nil {
			return nil, err
		}
	}

	query := url.Values{}
	query.Set("user", user)
	query.Set("min_start_time", from.UTC().Format(time.RFC3339))
	query.Set("max_start_time", to.UTC().Format(time.RFC3339))
	query.Set("count", fmt.Sprint(pageSize))
	next := c.cfg.BaseURL + "/scheduled_events?" + query.Encode()

	events := []fieldparse.Payload{}
	for pages := 0; next != ""; pages++ {
		if pages == maxPages {
			return nil, fmt.Errorf("failed to fetch scheduled events: more than %d pages", maxPages)
		}

		var page collectionPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch scheduled events: %w", err)
		}
		events = append(events, page.Collection...)

		next = ""
		if page.Pagination.NextPage != nil {
			next = *page.Pagination.NextPage
		}
	}

	for _, event := range events {
		c.attachInvitee(ctx, event)
	}

	c.logger.Info("Retrieved scheduled events from Calendly", zap.Int("count", len(events)))
	return events, nil
}

// attachInvitee merges the first invitee into the event. Invitee lookup
// failures leave the event without one.
func (c *Client) attachInvitee(ctx context.Context, event fieldparse.Payload) {
	uuid := EventUUID(event)
	if uuid == "" {
		return
	}
	var page collectionPage
	endpoint := fmt.Sprintf("%s/scheduled_events/%s/invitees", c.cfg.BaseURL, url.PathEscape(uuid))
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		c.logger.Warn("Failed to fetch event invitees", zap.String("event", uuid), zap.Error(err))
		return
	}
	if len(page.Collection) > 0 {
		event["invitee"] = map[string]any(page.Collection[0])
	}
}

// EventUUID returns the event's uuid field, or the last path segment of its uri
func EventUUID(event fieldparse.Payload) string {
	if id, ok := fieldparse.String(event, "uuid"); ok && id != "" {
		return id
	}
	uri, ok := fieldparse.String(event, "uri")
	if !ok {
		return ""
	}
	uri = strings.TrimRight(uri, "/")
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
