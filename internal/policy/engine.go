// Package policy evaluates request policies for the chat send endpoint.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"

	"github.com/convohq/convo/internal/domain"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.deny"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// CheckSend evaluates the policy over an incoming message batch. A non-nil
// error wrapping domain.ErrValidation means the request is denied.
func (e *Engine) CheckSend(ctx context.Context, msgs []domain.Message) error {
	roles := make([]string, len(msgs))
	contents := make([]string, len(msgs))
	for i, m := range msgs {
		roles[i] = m.Role
		contents[i] = m.Content
	}
	input := map[string]interface{}{
		"message_count": len(msgs),
		"roles":         roles,
		"contents":      contents,
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return nil
	}

	denials, ok := results[0].Expressions[0].Value.([]interface{})
	if !ok || len(denials) == 0 {
		return nil
	}
	reason, _ := denials[0].(string)
	if reason == "" {
		reason = "request denied by policy"
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, reason)
}

// DefaultPolicy is the compiled-in send policy.
const DefaultPolicy = `
package chat_policy

import rego.v1

deny contains msg if {
	input.message_count == 0
	msg := "messages must not be empty"
}

deny contains msg if {
	input.message_count > 200
	msg := "message history too long"
}

deny contains msg if {
	some role in input.roles
	not valid_role(role)
	msg := sprintf("unsupported role %q", [role])
}

deny contains msg if {
	some content in input.contents
	content == ""
	msg := "message content must not be empty"
}

valid_role(role) if role in {"user", "assistant", "system"}
`
