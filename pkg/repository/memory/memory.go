package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
)

// Slot is a process-local session slot
type Slot struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ interfaces.SessionSlot = &Slot{}

func New() *Slot {
	return &Slot{
		data: make(map[string][]byte),
	}
}

func (s *Slot) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(data), nil
}

func (s *Slot) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = bytes.Clone(data)
	return nil
}

func (s *Slot) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
