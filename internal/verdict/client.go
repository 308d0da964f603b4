package verdict

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Client sends a moderation prompt to a language model and returns its raw
// text response. Implementations handle transport only; parsing and fallback
// behavior live in the Engine.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type agentClient struct {
	cfg gaconfig.AgentConfig
}

// NewAgentClient creates a Client backed by a go-agents chat agent.
// A fresh agent is created per call so concurrent moderation runs do not
// share conversation state.
func NewAgentClient(cfg gaconfig.AgentConfig) Client {
	return &agentClient{cfg: cfg}
}

func (c *agentClient) Complete(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&c.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	return resp.Content(), nil
}
