package v1

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/convohq/convo/internal/policy"
	"github.com/convohq/convo/internal/provider"
	"github.com/convohq/convo/internal/service"
	"github.com/convohq/convo/internal/store"
)

// scriptedProvider streams a fixed chunk sequence and then either completes
// or fails, depending on err.
type scriptedProvider struct {
	chunks []string
	err    error
}

func (p *scriptedProvider) StreamCompletion(ctx context.Context, req *provider.CompletionRequest, cb provider.StreamCallback) (*provider.Completion, error) {
	var content string
	for _, c := range p.chunks {
		if err := cb(&provider.Chunk{Text: c}); err != nil {
			return nil, err
		}
		content += c
	}
	if p.err != nil {
		return nil, p.err
	}
	return &provider.Completion{Content: content, Model: "scripted"}, nil
}

func newTestHandler(t *testing.T, p provider.Provider) (*Handler, store.Store) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	pol, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}

	svc := service.New(st, p, pol, zap.NewNop(), "You are a helpful AI assistant.")
	return NewHandler(svc, zap.NewNop()), st
}
