package koboclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/pkg/core/fieldparse"
	"github.com/energiefixers071/fixerdesk/pkg/utils"
)

const (
	DefaultBaseURL  = "https://kf.kobotoolbox.org"
	DefaultPageSize = 1000

	// maxPages bounds pagination in case the API keeps returning next links
	maxPages = 500
)

var (
	ErrNotConfigured = errors.New("kobotoolbox api token or form id not configured")
	ErrUnauthorized  = errors.New("kobotoolbox rejected the api token")
)

// Config holds the KoboToolbox connection settings
type Config struct {
	BaseURL  string
	FormID   string
	APIToken string
	PageSize int
}

// Client wraps the KoboToolbox v2 REST API
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a client authenticating with the API token
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   utils.NewTokenClient(ctx, utils.SchemeToken, cfg.APIToken),
		logger: logger,
	}
}

// IsConfigured reports whether both the API token and form id are set
func (c *Client) IsConfigured() bool {
	return c.cfg.APIToken != "" && c.cfg.FormID != ""
}

// FormInfo describes the deployed form asset
type FormInfo struct {
	UID              string `json:"uid"`
	Name             string `json:"name"`
	SubmissionCount  int    `json:"deployment__submission_count"`
	DeploymentActive bool   `json:"deployment__active"`
	DateModified     string `json:"date_modified"`
}

type dataPage struct {
	Count   int                  `json:"count"`
	Next    *string              `json:"next"`
	Results []fieldparse.Payload `json:"results"`
}

// TestConnection checks that the API is reachable with the configured token
func (c *Client) TestConnection(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	var page dataPage
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/api/v2/assets/?format=json&limit=1", &page); err != nil {
		return fmt.Errorf("failed to reach kobotoolbox: %w", err)
	}
	return nil
}

// FormInfo fetches metadata about the configured form
func (c *Client) FormInfo(ctx context.Context) (*FormInfo, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	var info FormInfo
	endpoint := fmt.Sprintf("%s/api/v2/assets/%s/?format=json", c.cfg.BaseURL, url.PathEscape(c.cfg.FormID))
	if err := c.getJSON(ctx, endpoint, &info); err != nil {
		return nil, fmt.Errorf("failed to get form info: %w", err)
	}
	return &info, nil
}

// FetchSubmissions returns every submission of the form, following the
// API's pagination links
func (c *Client) FetchSubmissions(ctx context.Context) ([]fieldparse.Payload, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	query := url.Values{}
	query.Set("format", "json")
	query.Set("limit", strconv.Itoa(c.cfg.PageSize))
	next := fmt.Sprintf("%s/api/v2/assets/%s/data/?%s", c.cfg.BaseURL, url.PathEscape(c.cfg.FormID), query.Encode())

	submissions := []fieldparse.Payload{}
	for pages := 0; next != ""; pages++ {
		if pages == maxPages {
			return nil, fmt.Errorf("failed to fetch submissions: more than %d pages", maxPages)
		}

		var page dataPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch submissions: %w", err)
		}
		submissions = append(submissions, page.Results...)

		c.logger.Debug("Fetched submissions page",
			zap.Int("page", pages+1),
			zap.Int("results", len(page.Results)),
			zap.Int("total", page.Count))

		next = ""
		if page.Next != nil && *page.Next != "" {
			resolved, err := c.resolve(*page.Next)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve next page link: %w", err)
			}
			next = resolved
		}
	}

	c.logger.Info("Retrieved submissions from KoboToolbox", zap.Int("count", len(submissions)))
	return submissions, nil
}

// resolve makes relative pagination links absolute against the base URL
func (c *Client) resolve(link string) (string, error) {
	base, err := url.Parse(c.cfg.BaseURL + "/")
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
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
