package provider

import (
	"time"

	"go.uber.org/zap"
)

// ModeMock selects the mock provider via PROVIDER_MODE.
const ModeMock = "mock"

// New creates a Provider. PROVIDER_MODE=mock (or a missing API key) selects
// the mock backend so the server stays usable without credentials.
func New(mode, baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) Provider {
	if mode == ModeMock {
		logger.Info("using mock completion provider")
		return NewMockProvider()
	}
	if apiKey == "" {
		logger.Warn("no provider API key configured, falling back to mock provider")
		return NewMockProvider()
	}
	return NewClient(baseURL, apiKey, model, timeout)
}
