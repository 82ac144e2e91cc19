package convo

import (
	"context"
	"sync"
)

// Mock implements Responder, Speaker and Transcriber for testing and
// for running the robot without any AI backend attached. Behavior is
// customized via function fields; calls are recorded.
type Mock struct {
	// RespondFunc handles Respond. If nil, the input is echoed back.
	RespondFunc func(ctx context.Context, userInput string) (string, error)

	// SayFunc handles Say. If nil, Say is a silent no-op.
	SayFunc func(ctx context.Context, text string) error

	// ListenFunc handles Listen. If nil, Listen returns "".
	ListenFunc func(ctx context.Context) (string, error)

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records one method invocation.
type MockCall struct {
	Method string
	Text   string
}

// Respond calls RespondFunc and records the call.
func (m *Mock) Respond(ctx context.Context, userInput string) (string, error) {
	m.record("Respond", userInput)
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, userInput)
	}
	return userInput, nil
}

// Say calls SayFunc and records the call.
func (m *Mock) Say(ctx context.Context, text string) error {
	m.record("Say", text)
	if m.SayFunc != nil {
		return m.SayFunc(ctx, text)
	}
	return nil
}

// Listen calls ListenFunc and records the call.
func (m *Mock) Listen(ctx context.Context) (string, error) {
	m.record("Listen", "")
	if m.ListenFunc != nil {
		return m.ListenFunc(ctx)
	}
	return "", nil
}

// Calls returns a copy of the recorded calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Mock) record(method, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Text: text})
}
