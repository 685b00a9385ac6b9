package draft

import (
	"sync"

	"github.com/pkg/errors"
)

// MemoryStore keeps encoded snapshots in process memory. Values are stored
// encoded so that a later mutation of the saved value can't leak in.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Save(key string, value any) error {
	data, err := encode(value)
	if err != nil {
		return errors.Wrapf(err, "draft.memory.encode %s", key)
	}
	s.mu.Lock()
	s.data[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(key string, value any) (bool, error) {
	s.mu.RLock()
	data, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, errors.Wrapf(decode(data, value), "draft.memory.load %s", key)
}

func (s *MemoryStore) Clear(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
