package monitoring

import (
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Service records operational events (device churn, data deletions) with an
// in-process counter per event name.
type Service struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewService creates a new monitoring service
func NewService() *Service {
	return &Service{counts: make(map[string]int64)}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.mu.Lock()
	s.counts[eventName]++
	s.mu.Unlock()

	nuts.L.Infof("[Monitoring] Event %s recorded at %v with labels: %v", eventName, time.Now(), labels)
}

// EventCount returns how often an event was recorded since startup.
func (s *Service) EventCount(eventName string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[eventName]
}
