package chat

import (
	"context"
	"fmt"

	"github.com/finlens/finlens/internal/llm"
)

// analystPrompt frames the one-shot commentary request
const analystPrompt = "You are a professional financial analyst. Based on the following " +
	"financial indicators, give an objective, concise assessment (about 3-4 paragraphs) " +
	"of the company's financial position. Focus on growth rates, the shift in asset " +
	"composition, and current liquidity.\n\nRaw data and indicators:\n%s"

// Analyst produces the one-shot AI commentary on a derived statement.
// Unlike a Session it keeps no conversation state.
type Analyst struct {
	provider llm.Provider
	limiter  *Limiter
}

// NewAnalyst creates an analyst over the given provider. limiter may be nil.
func NewAnalyst(provider llm.Provider, limiter *Limiter) *Analyst {
	return &Analyst{provider: provider, limiter: limiter}
}

// Comment generates the commentary for a formatted context block
// (table + key metrics).
func (a *Analyst) Comment(ctx context.Context, contextBlock string) (string, error) {
	if a.provider == nil {
		return "", fmt.Errorf("no language-model provider configured")
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, a.provider.Name()); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := a.provider.Generate(ctx, llm.GenerateRequest{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(analystPrompt, contextBlock)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("analysis failed: %w", err)
	}

	return resp.Text, nil
}
