// Package service implements the application logic over the store, the
// completion provider and the request policy.
package service

import (
	"go.uber.org/zap"

	"github.com/convohq/convo/internal/policy"
	"github.com/convohq/convo/internal/provider"
	"github.com/convohq/convo/internal/store"
)

// Service coordinates the chat store and the completion provider.
type Service struct {
	store        store.Store
	provider     provider.Provider
	policy       *policy.Engine
	logger       *zap.Logger
	systemPrompt string
}

// New creates a new service.
func New(st store.Store, pr provider.Provider, pol *policy.Engine, logger *zap.Logger, systemPrompt string) *Service {
	return &Service{
		store:        st,
		provider:     pr,
		policy:       pol,
		logger:       logger,
		systemPrompt: systemPrompt,
	}
}
