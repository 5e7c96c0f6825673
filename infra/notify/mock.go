package notify

import (
	"context"
	"fmt"
	"sync"
)

// MockNotifier records notifications for tests. FailIDs makes delivery
// fail for specific jobs.
type MockNotifier struct {
	mu      sync.Mutex
	Sent    []string
	FailIDs map[string]bool
}

// NewMockNotifier creates an empty MockNotifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{FailIDs: make(map[string]bool)}
}

func (m *MockNotifier) OnMyWay(ctx context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[jobID] {
		return fmt.Errorf("delivery failed")
	}
	m.Sent = append(m.Sent, jobID)
	return nil
}

// SentTo reports whether a notification was recorded for the job.
func (m *MockNotifier) SentTo(jobID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.Sent {
		if id == jobID {
			return true
		}
	}
	return false
}
