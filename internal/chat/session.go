// Package chat owns the conversational boundary around a derived
// statement: a per-session conversation object and a one-shot analyst
// commentary. Sessions are caller-owned; nothing here is global.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/finlens/finlens/internal/llm"
)

// systemInstruction is the standing role prompt for chat turns
const systemInstruction = "You are an experienced financial analyst. " +
	"Answer the user's questions based on the analyzed financial data provided. " +
	"Use only the data from the table to answer. If something cannot be computed " +
	"or is not in the data, say that you could not find the required information."

// Session is one conversation over a single derived statement. It is
// created per upload, appended to per turn, and dropped with the
// session. The provider is stateless, so every call resends the full
// financial context and history.
type Session struct {
	provider llm.Provider
	limiter  *Limiter
	context  string // formatted financial context block
	history  []llm.Message
}

// NewSession creates a conversation over the given financial context
// block (the formatter's table + key metrics). limiter may be nil.
func NewSession(provider llm.Provider, limiter *Limiter, contextBlock string) *Session {
	return &Session{
		provider: provider,
		limiter:  limiter,
		context:  contextBlock,
	}
}

// Ask sends a question and returns the reply. The user turn and the
// reply are committed to the history only on success, so a failed call
// can be retried without duplicating turns.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("no language-model provider configured")
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("empty question")
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.provider.Name()); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	userTurn := llm.Message{Role: llm.RoleUser, Content: question}

	// The history stores plain turns; the financial context is folded
	// into the first user turn of the outgoing conversation on every
	// call, since the provider is stateless
	messages := make([]llm.Message, 0, len(s.history)+1)
	messages = append(messages, s.history...)
	messages = append(messages, userTurn)

	for i := range messages {
		if messages[i].Role == llm.RoleUser {
			messages[i].Content = fmt.Sprintf("ANALYZED FINANCIAL DATA:\n%s\n\nUSER QUESTION: %s",
				s.context, messages[i].Content)
			break
		}
	}

	resp, err := s.provider.Generate(ctx, llm.GenerateRequest{
		System:   systemInstruction,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat turn failed: %w", err)
	}

	s.history = append(s.history, userTurn, llm.Message{Role: llm.RoleAssistant, Content: resp.Text})
	return resp.Text, nil
}

// History returns a copy of the conversation so far
func (s *Session) History() []llm.Message {
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Restore replaces the history, for callers (like the HTTP API) that
// hold the conversation on the client side.
func (s *Session) Restore(history []llm.Message) {
	s.history = make([]llm.Message, len(history))
	copy(s.history, history)
}

// Reset drops the conversation but keeps the financial context
func (s *Session) Reset() {
	s.history = nil
}
