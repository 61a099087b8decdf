package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Request describes one chat command awaiting authorization
type Request struct {
	Command      string `json:"command"`
	Phase        string `json:"phase"`
	IsHost       bool   `json:"is_host"`
	IsQuestioner bool   `json:"is_questioner"`
	Setting      bool   `json:"setting"` // command is a numeric setting name
}

// Engine decides which participant may issue which command
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine prepares the command policy. An empty policy uses DefaultPolicy.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	if policyContent == "" {
		policyContent = DefaultPolicy
	}
	r := rego.New(
		rego.Query("data.witness.commands.allow"),
		rego.Module("commands.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Allow evaluates the policy for req. Anything but a boolean true denies.
func (e *Engine) Allow(ctx context.Context, req Request) (bool, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(req))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}
	allowed, _ := results[0].Expressions[0].Value.(bool)
	return allowed, nil
}

// DefaultPolicy restricts lobby management to the host and the oracle to the current questioner.
const DefaultPolicy = `
package witness.commands

default allow = false

host_only = {"start", "role", "resetdefaultsettings", "restartgame"}

creation_only = {"start", "role"}

questioner_only = {"ask", "readytoguess", "guess"}

restricted {
	host_only[input.command]
}

restricted {
	questioner_only[input.command]
}

restricted {
	input.setting
}

allow {
	not restricted
}

allow {
	host_only[input.command]
	not creation_only[input.command]
	input.is_host
}

allow {
	creation_only[input.command]
	input.is_host
	input.phase == "creation"
}

allow {
	input.setting
	input.is_host
	input.phase == "creation"
}

allow {
	questioner_only[input.command]
	input.is_questioner
}
`
