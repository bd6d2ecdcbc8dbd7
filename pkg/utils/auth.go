package utils

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Authorization schemes used by the external APIs
const (
	SchemeToken  = "Token"  // KoboToolbox
	SchemeBearer = "Bearer" // Calendly
)

const defaultHTTPTimeout = 30 * time.Second

// NewTokenClient returns an HTTP client that sends a static API token in the
// Authorization header as "<scheme> <token>". A base client may be supplied
// through ctx with oauth2.HTTPClient.
func NewTokenClient(ctx context.Context, scheme, token string) *http.Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   scheme,
	})
	client := oauth2.NewClient(ctx, source)
	if client.Timeout == 0 {
		client.Timeout = defaultHTTPTimeout
	}
	return client
}
