package oracle

import (
	"context"
	"errors"
	"sync"
)

// ErrResponsesExhausted is returned by Mock when its queue runs out and
// looping is off.
var ErrResponsesExhausted = errors.New("mock responses exhausted")

// Call is one recorded Mock invocation.
type Call struct {
	SystemPrompt string
	UserInput    string
}

// Mock is a scripted Oracle for tests. Precedence: error, handler, queue,
// default response.
type Mock struct {
	mu            sync.Mutex
	response      string
	responses     []string
	currentIndex  int
	loopResponses bool
	err           error
	handler       func(systemPrompt, userInput string) (string, error)
	calls         []Call
}

func NewMock() *Mock {
	return &Mock{response: "This is a mock response"}
}

// SetResponse sets the reply used when no queue or handler is configured.
func (m *Mock) SetResponse(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = response
}

// SetResponses configures replies returned in sequence.
func (m *Mock) SetResponses(responses []string, loop bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = responses
	m.currentIndex = 0
	m.loopResponses = loop
}

// SetError makes every call fail with err. nil clears it.
func (m *Mock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetHandler routes calls through fn.
func (m *Mock) SetHandler(fn func(systemPrompt, userInput string) (string, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = fn
}

// Calls returns a copy of the recorded invocations.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

func (m *Mock) Complete(ctx context.Context, systemPrompt, userInput string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{SystemPrompt: systemPrompt, UserInput: userInput})
	err, handler := m.err, m.handler
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err != nil {
		return "", err
	}
	if handler != nil {
		return handler(systemPrompt, userInput)
	}
	return m.next()
}

func (m *Mock) next() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.responses) == 0 {
		return m.response, nil
	}
	if m.currentIndex >= len(m.responses) {
		if !m.loopResponses {
			return "", ErrResponsesExhausted
		}
		m.currentIndex = 0
	}
	response := m.responses[m.currentIndex]
	m.currentIndex++
	return response, nil
}
