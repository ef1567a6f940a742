package booking

import "sync"

// Slot is durable storage for one serialized session, written before a
// login round-trip and read back exactly once afterwards.
type Slot interface {
	Save(blob string) error
	// Take returns the stored blob and empties the slot.
	Take() (string, bool, error)
}

// MemorySlot is a Slot that lives for the process only.
type MemorySlot struct {
	mu   sync.Mutex
	blob string
	set  bool
}

func (m *MemorySlot) Save(blob string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = blob
	m.set = true
	return nil
}

func (m *MemorySlot) Take() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", false, nil
	}
	blob := m.blob
	m.blob, m.set = "", false
	return blob, true, nil
}
