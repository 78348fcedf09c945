package utils

import "github.com/stretchr/testify/mock"

// MockLogger records log calls for assertions. Set expectations with On, or
// use NewPermissiveMockLogger to accept every call.
type MockLogger struct {
	mock.Mock
	ErrorCallCount   int
	WarnCallCount    int
	LastErrorMessage string
	LastWarnMessage  string
}

// NewPermissiveMockLogger returns a MockLogger that accepts any call while
// still counting warnings and errors.
func NewPermissiveMockLogger() *MockLogger {
	m := &MockLogger{}
	m.On("Debug", mock.Anything, mock.Anything).Maybe()
	m.On("Info", mock.Anything, mock.Anything).Maybe()
	m.On("Warn", mock.Anything, mock.Anything).Maybe()
	m.On("Error", mock.Anything, mock.Anything).Maybe()
	m.On("SetLevel", mock.Anything).Maybe()
	return m
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.WarnCallCount++
	m.LastWarnMessage = msg
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.ErrorCallCount++
	m.LastErrorMessage = msg
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) SetLevel(level LogLevel) {
	m.Called(level)
}
