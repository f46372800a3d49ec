// Package llmtest provides a scriptable llm.Client for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/resume-scorer/internal/llm"
)

// Call records one generation request
type Call struct {
	Prompt string
	Tier   llm.ModelTier
	JSON   bool
}

// MockClient implements llm.Client. GenerateJSONFunc and GenerateContentFunc
// take precedence; otherwise Responses are returned in order.
type MockClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	Responses           []string
	Model               string

	mu    sync.Mutex
	calls []Call
}

// GenerateContent implements llm.Client
func (m *MockClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.record(Call{Prompt: prompt, Tier: tier})
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return m.next()
}

// GenerateJSON implements llm.Client
func (m *MockClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.record(Call{Prompt: prompt, Tier: tier, JSON: true})
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	out, err := m.next()
	if err != nil {
		return "", err
	}
	return llm.CleanJSONBlock(out), nil
}

// GetModel implements llm.Client
func (m *MockClient) GetModel(llm.ModelTier) string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// Close implements llm.Client
func (m *MockClient) Close() error { return nil }

// Calls returns a copy of the recorded calls.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockClient) record(c Call) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
}

func (m *MockClient) next() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Responses) == 0 {
		return "", fmt.Errorf("mock: no response scripted for call %d", len(m.calls))
	}
	out := m.Responses[0]
	m.Responses = m.Responses[1:]
	return out, nil
}
