package testutils

import (
	"context"
	"errors"

	"github.com/inkloomco/inkloom/pkg/llm"
)

// MockLLM is a test chat client that returns configurable completions.
type MockLLM struct {
	// Response is returned for every Invoke call unless Responses has an
	// entry keyed by profile.
	Response string

	// Responses maps a sampling profile to its canned completion.
	Responses map[llm.Profile]string

	// Err causes Invoke to fail when set.
	Err error

	// Prompts accumulates every prompt passed to Invoke.
	Prompts []string

	// Profiles accumulates the profile of every Invoke call.
	Profiles []llm.Profile
}

func NewMockLLM(response string) *MockLLM {
	return &MockLLM{
		Response:  response,
		Responses: make(map[llm.Profile]string),
	}
}

func (m *MockLLM) Invoke(_ context.Context, prompt string, profile llm.Profile) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	m.Profiles = append(m.Profiles, profile)

	if m.Err != nil {
		return "", m.Err
	}

	if resp, ok := m.Responses[profile]; ok {
		return resp, nil
	}

	return m.Response, nil
}

func (m *MockLLM) Close() error {
	return nil
}

// FailingLLM returns a MockLLM whose Invoke always fails.
func FailingLLM() *MockLLM {
	return &MockLLM{Err: errors.New("mock llm failure")}
}
