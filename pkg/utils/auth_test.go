package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenClient_SetsAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name     string
		scheme   string
		expected string
	}{
		{"kobo token scheme", SchemeToken, "Token abc123"},
		{"calendly bearer scheme", SchemeBearer, "Bearer abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
			}))
			defer server.Close()

			client := NewTokenClient(context.Background(), tt.scheme, "abc123")
			resp, err := client.Get(server.URL)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tt.expected, got)
			assert.Equal(t, defaultHTTPTimeout, client.Timeout)
		})
	}
}
