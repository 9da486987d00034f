package transport

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockTransport is a testify mock implementation of Transport for use in
// tests. Use the Run callback on Recv expectations to fill the read buffer.
type MockTransport struct {
	mock.Mock
}

var _ Transport = (*MockTransport)(nil)

func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

func (m *MockTransport) Recv(buf []byte, timeout time.Duration) (int, error) {
	args := m.Called(buf, timeout)
	return args.Int(0), args.Error(1)
}

func (m *MockTransport) Send(p []byte) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockTransport) Timeout() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *MockTransport) SetTimeout(d time.Duration) {
	m.Called(d)
}

func (m *MockTransport) Kind() Kind {
	args := m.Called()
	return args.Get(0).(Kind)
}

func (m *MockTransport) Close() error {
	args := m.Called()
	return args.Error(0)
}
