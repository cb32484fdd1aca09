package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

const (
	codeDigits  = 6
	expiry      = 5 * time.Minute
	maxAttempts = 3
)

// Store keeps one-time password-reset codes keyed by email. Implementations
// must be safe for concurrent use; this flow sits beside the booking core and
// shares none of its state.
type Store interface {
	Generate(email string) (string, error)
	Verify(email, code string) bool
	Clear(email string)
}

type entry struct {
	code     string
	expires  time.Time
	attempts int
}

// MemoryStore is the in-process implementation: a mutex-guarded map. A
// cache-backed implementation can replace it behind the Store interface.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Generate creates a fresh 6-digit code for email, replacing any previous one.
func (s *MemoryStore) Generate(email string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = &entry{
		code:    code,
		expires: s.now().Add(expiry),
	}
	return code, nil
}

// Verify reports whether code matches the one stored for email. Expired or
// attempt-exhausted entries are evicted; a mismatch burns one attempt. A
// successful match keeps the entry so the final reset step can consume it.
func (s *MemoryStore) Verify(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[email]
	if !ok {
		return false
	}

	if s.now().After(e.expires) {
		delete(s.entries, email)
		return false
	}

	if e.attempts >= maxAttempts {
		delete(s.entries, email)
		return false
	}

	if e.code != code {
		e.attempts++
		return false
	}
	return true
}

func (s *MemoryStore) Clear(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
}

func randomCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
