package session

import (
	"context"
	"sync"
	"time"

	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
)

// Store is the interface for frame storage backends.
type Store interface {
	// Get retrieves the latest frame of a session. Missing or expired frames
	// return a SESSION_NOT_FOUND error.
	Get(ctx context.Context, sessionID string) (*Frame, error)

	// Set stores a frame under its Session ID for ttl (DefaultTTL when <= 0).
	Set(ctx context.Context, frame *Frame, ttl time.Duration) error

	// Delete removes a session's frame.
	Delete(ctx context.Context, sessionID string) error

	Close() error
}

func notFound(sessionID string) error {
	return errs.New(errs.ErrCodeSessionNotFound, "session %q not found", sessionID)
}

func validateFrame(f *Frame) error {
	if f == nil || f.Session == "" {
		return errs.New(errs.ErrCodeInvalidInput, "frame has no session ID")
	}
	return nil
}

// MemoryStore keeps frames in a map. Expired frames are dropped on read.
type MemoryStore struct {
	mu     sync.RWMutex
	frames map[string]memoryEntry
	now    func() time.Time
}

type memoryEntry struct {
	frame     Frame
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{frames: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Frame, error) {
	m.mu.RLock()
	e, ok := m.frames[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, notFound(sessionID)
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.frames, sessionID)
		m.mu.Unlock()
		return nil, notFound(sessionID)
	}
	f := e.frame
	return &f, nil
}

func (m *MemoryStore) Set(_ context.Context, frame *Frame, ttl time.Duration) error {
	if err := validateFrame(frame); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames[frame.Session] = memoryEntry{frame: *frame, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.frames, sessionID)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
