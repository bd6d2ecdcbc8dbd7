package services

import (
	"context"

	"go.uber.org/zap"
)

// Probe names an external API client to check
type Probe struct {
	Source string
	Client ConnectionTester
}

// ConnectionStatus is the result of probing one external API
type ConnectionStatus struct {
	Source     string
	Configured bool
	Err        error
}

// OK reports whether the source is configured and reachable
func (s ConnectionStatus) OK() bool {
	return s.Configured && s.Err == nil
}

// CheckConnections tests each configured client in order. Unconfigured
// clients are reported without contacting the API.
func CheckConnections(ctx context.Context, logger *zap.Logger, probes ...Probe) []ConnectionStatus {
	statuses := make([]ConnectionStatus, 0, len(probes))
	for _, p := range probes {
		status := ConnectionStatus{Source: p.Source, Configured: p.Client.IsConfigured()}
		if status.Configured {
			status.Err = p.Client.TestConnection(ctx)
		}

		if status.Err != nil {
			logger.Warn("Connection check failed", zap.String("source", p.Source), zap.Error(status.Err))
		} else {
			logger.Debug("Connection checked", zap.String("source", p.Source), zap.Bool("configured", status.Configured))
		}
		statuses = append(statuses, status)
	}
	return statuses
}
