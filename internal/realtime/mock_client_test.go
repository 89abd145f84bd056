package realtime_test

import (
	"sync"

	"collabgo/backend/internal/models"
)

// MockClient is an in-memory transport. Events the hub sends land in
// RecvChannel for the test to inspect.
type MockClient struct {
	RecvChannel chan models.Event
	closeOnce   sync.Once
	closed      bool
}

func newMockClient() *MockClient {
	return &MockClient{
		RecvChannel: make(chan models.Event, 32),
	}
}

func (c *MockClient) GetSendChannel() chan<- models.Event {
	return c.RecvChannel
}

func (c *MockClient) Close() {
	c.closeOnce.Do(func() { c.closed = true })
}
