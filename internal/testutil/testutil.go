// Package testutil provides testing utilities and helpers for package tests.
package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Boo15mario/linutil-gui/internal/providers/terminal"
	"github.com/Boo15mario/linutil-gui/internal/types"
)

// MockSink is a mock implementation of terminal.Sink for testing.
// It records every Output call so tests can inspect the joined text.
type MockSink struct {
	mock.Mock

	mu     sync.Mutex
	chunks []string
}

// Output mocks the Output method.
func (m *MockSink) Output(text string) {
	m.mu.Lock()
	m.chunks = append(m.chunks, text)
	m.mu.Unlock()
	m.Called(text)
}

// Finished mocks the Finished method.
func (m *MockSink) Finished(status terminal.Status) {
	m.Called(status)
}

// Text returns all output received so far.
func (m *MockSink) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.Join(m.chunks, "")
}

// NewMockSink creates a mock sink accepting any output.
func NewMockSink(t *testing.T) *MockSink {
	t.Helper()
	m := new(MockSink)

	// Default behavior: accept any output
	m.On("Output", mock.Anything).Return().Maybe()

	return m
}

// MockServiceProvider is a mock implementation of service.Provider for testing.
type MockServiceProvider struct {
	mock.Mock
}

// Definition mocks the Definition method.
func (m *MockServiceProvider) Definition() types.Service {
	args := m.Called()
	return args.Get(0).(types.Service)
}

// Execute mocks the Execute method.
func (m *MockServiceProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := m.Called(ctx, toolID, params, appCtx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Result), args.Error(1)
}

// NewMockServiceProvider creates a new mock service provider with default behaviors.
func NewMockServiceProvider(t *testing.T, serviceID string) *MockServiceProvider {
	t.Helper()
	m := new(MockServiceProvider)

	// Default behavior: return a simple service definition
	m.On("Definition").Return(types.Service{
		ID:          serviceID,
		Name:        "Mock Service",
		Description: "Mock service for testing",
		Category:    types.CategoryTerminal,
		Tools: []types.Tool{
			{
				ID:          serviceID + ".test",
				Name:        "Test Tool",
				Description: "A test tool",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}).Maybe()

	return m
}

// WaitForCompletion blocks until the session has an outcome or timeout passes.
func WaitForCompletion(t *testing.T, s *terminal.Session, timeout time.Duration) terminal.Outcome {
	t.Helper()

	select {
	case <-s.Exited():
	case <-time.After(timeout):
		t.Fatalf("session %s did not finish within %s", s.ID, timeout)
	}
	return s.Completion()
}

// WaitForOutput polls the session until its output contains want.
func WaitForOutput(t *testing.T, s *terminal.Session, want string, timeout time.Duration) string {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		text, _, err := s.ReadSince(0)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if strings.Contains(text, want) {
			return text
		}
		if time.Now().After(deadline) {
			t.Fatalf("output %q does not contain %q after %s", text, want, timeout)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// AssertSuccess is a helper to assert a successful result.
func AssertSuccess(t *testing.T, result *types.Result) {
	t.Helper()
	if result == nil {
		t.Fatal("Result is nil")
	}
	if !result.Success {
		msg := "<nil>"
		if result.Error != nil {
			msg = *result.Error
		}
		t.Fatalf("Expected success, got error: %s", msg)
	}
}

// AssertError is a helper to assert an error result.
func AssertError(t *testing.T, result *types.Result) {
	t.Helper()
	if result == nil {
		t.Fatal("Result is nil")
	}
	if result.Success {
		t.Fatal("Expected error, got success")
	}
	if result.Error == nil {
		t.Fatal("Expected error message, got nil")
	}
}

// AssertDataField is a helper to assert a data field exists and matches expected value.
func AssertDataField(t *testing.T, result *types.Result, field string, expected interface{}) {
	t.Helper()
	AssertSuccess(t, result)

	if result.Data == nil {
		t.Fatal("Result data is nil")
	}

	actual, ok := result.Data[field]
	if !ok {
		t.Fatalf("Field %s not found in result data", field)
	}

	if actual != expected {
		t.Fatalf("Field %s: expected %v, got %v", field, expected, actual)
	}
}
