package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckConnections(t *testing.T) {
	kobo := &mockTester{configured: true}
	calendly := &mockTester{configured: true, err: errors.New("401 Unauthorized")}
	unused := &mockTester{}

	statuses := CheckConnections(context.Background(), zap.NewNop(),
		Probe{Source: "kobo", Client: kobo},
		Probe{Source: "calendly", Client: calendly},
		Probe{Source: "other", Client: unused},
	)
	require.Len(t, statuses, 3)

	assert.Equal(t, "kobo", statuses[0].Source)
	assert.True(t, statuses[0].OK())

	assert.Equal(t, "calendly", statuses[1].Source)
	assert.False(t, statuses[1].OK())
	assert.EqualError(t, statuses[1].Err, "401 Unauthorized")

	assert.False(t, statuses[2].Configured)
	assert.False(t, statuses[2].OK())
	assert.NoError(t, statuses[2].Err)
	assert.Equal(t, 0, unused.calls, "unconfigured client is not contacted")
	assert.Equal(t, 1, kobo.calls)
}
