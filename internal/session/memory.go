package session

import (
    "context"
    "sync"
    "time"
)

// MemoryStore is the single-process session store: a mutex-guarded map
// with per-entry expiry checked lazily on Get. It is the default
// backend; hosts running more than one process should configure the
// Redis store instead so a user's dialogue survives being routed to a
// different process.
type MemoryStore struct {
    mu      sync.Mutex
    ttl     time.Duration
    now     func() time.Time
    entries map[uint64]memoryEntry
}

type memoryEntry struct {
    s        Session
    deadline time.Time
}

// NewMemoryStore returns a MemoryStore whose entries expire ttl after
// their last Put.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
    return &MemoryStore{
        ttl:     clampTTL(ttl),
        now:     time.Now,
        entries: make(map[uint64]memoryEntry),
    }
}

// Get returns the user's session when present and unexpired. Expired
// entries are removed on the way out.
func (m *MemoryStore) Get(_ context.Context, userID uint64) (Session, bool, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    e, ok := m.entries[userID]
    if !ok {
        return New(), false, nil
    }
    if m.now().After(e.deadline) {
        delete(m.entries, userID)
        return New(), false, nil
    }
    return e.s, true, nil
}

// Put stores the session and refreshes its expiry.
func (m *MemoryStore) Put(_ context.Context, userID uint64, s Session) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.entries[userID] = memoryEntry{s: s, deadline: m.now().Add(m.ttl)}
    return nil
}

// Delete clears the user's session; missing entries are fine.
func (m *MemoryStore) Delete(_ context.Context, userID uint64) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    delete(m.entries, userID)
    return nil
}
