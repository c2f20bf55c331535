// Package llm abstracts the language-model collaborator behind a narrow
// generate interface so the derivation engine and formatter stay
// independent of any specific provider.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Role tags a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the running conversation
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a reply for the given conversation. The caller
	// is responsible for resending the full financial context with the
	// history on every call; providers are stateless.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for a generation call
type GenerateRequest struct {
	// System is the role instruction prepended to the conversation
	System string

	// Messages is the ordered conversation, ending with the user turn
	// to answer. The first user turn carries the financial context.
	Messages []Message

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the provider's reply
type GenerateResponse struct {
	// Text is the generated reply
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for Gemini/OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// ErrorKind classifies a failed provider call so callers can tell a bad
// key from an exhausted quota from a flaky network.
type ErrorKind string

const (
	KindAuth    ErrorKind = "auth"    // invalid or rejected API key
	KindQuota   ErrorKind = "quota"   // rate limit or quota exhausted
	KindNetwork ErrorKind = "network" // transport-level failure
	KindService ErrorKind = "service" // anything else from the provider
)

// Error wraps a provider failure with its classification
type Error struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of a provider error, or KindService
// when the error did not come from a provider call.
func KindOf(err error) ErrorKind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindService
}

// classify wraps err with an ErrorKind derived from the HTTP status
// when known, falling back to message sniffing. Status 0 means the
// request never reached the provider.
func classify(provider string, status int, err error) *Error {
	kind := KindService
	msg := strings.ToLower(err.Error())
	switch {
	case status == 401 || status == 403:
		kind = KindAuth
	case status == 429:
		kind = KindQuota
	case strings.Contains(msg, "api key") || strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "permission"):
		kind = KindAuth
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted"):
		kind = KindQuota
	case strings.Contains(msg, "connection") || strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline"):
		kind = KindNetwork
	case status == 0:
		// Request never got a status; treat as transport failure
		kind = KindNetwork
	}

	return &Error{Kind: kind, Provider: provider, Err: err}
}
