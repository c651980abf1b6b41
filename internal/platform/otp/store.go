// Package otp holds the pending one-time passcodes of the signup and
// password-reset flows.
//
// Each pending code is bound to a purpose and an email address, expires after
// a fixed TTL and is burned after too many wrong guesses. Codes are HOTP
// values derived from a per-entry random secret, so the store never keeps the
// code itself.
package otp

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

type Purpose string

const (
	PurposeSignup        Purpose = "signup"
	PurposePasswordReset Purpose = "password_reset"
)

var (
	ErrNotFound        = errors.New("otp: no pending code")
	ErrExpired         = errors.New("otp: code expired")
	ErrMismatch        = errors.New("otp: code mismatch")
	ErrTooManyAttempts = errors.New("otp: too many attempts")
)

var validateOpts = hotp.ValidateOpts{
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

type entry struct {
	secret    string
	counter   uint64
	expiresAt time.Time
	attempts  int
}

type key struct {
	purpose Purpose
	email   string
}

// Store is safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	entries     map[key]*entry
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewStore(ttl time.Duration, maxAttempts int) *Store {
	return &Store{
		entries:     make(map[key]*entry),
		ttl:         ttl,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

func newKey(p Purpose, email string) key {
	return key{purpose: p, email: strings.ToLower(strings.TrimSpace(email))}
}

// Issue creates a fresh code for (purpose, email), replacing any pending one.
func (s *Store) Issue(p Purpose, email string) (string, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("otp secret: %w", err)
	}
	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw)

	e := &entry{secret: secret, expiresAt: s.now().Add(s.ttl)}

	code, err := hotp.GenerateCodeCustom(e.secret, e.counter, validateOpts)
	if err != nil {
		return "", fmt.Errorf("otp generate: %w", err)
	}

	s.mu.Lock()
	s.entries[newKey(p, email)] = e
	s.mu.Unlock()
	return code, nil
}

// Check verifies code without consuming it. Wrong guesses count toward the
// attempt limit; the guess that reaches it burns the entry.
func (s *Store) Check(p Purpose, email, code string) error {
	k := newKey(p, email)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[k]
	if !ok {
		return ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, k)
		return ErrExpired
	}
	if e.attempts >= s.maxAttempts {
		delete(s.entries, k)
		return ErrTooManyAttempts
	}

	valid, err := hotp.ValidateCustom(strings.TrimSpace(code), e.counter, e.secret, validateOpts)
	if err == nil && valid {
		return nil
	}

	e.attempts++
	if e.attempts >= s.maxAttempts {
		delete(s.entries, k)
		return ErrTooManyAttempts
	}
	return ErrMismatch
}

// Consume removes the pending code for (purpose, email).
func (s *Store) Consume(p Purpose, email string) {
	s.mu.Lock()
	delete(s.entries, newKey(p, email))
	s.mu.Unlock()
}

// Pending reports whether a live code exists for (purpose, email).
func (s *Store) Pending(p Purpose, email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[newKey(p, email)]
	return ok && !s.now().After(e.expiresAt)
}

// Len returns the number of stored entries, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}

// StartCleanup runs a background goroutine that periodically removes expired
// entries. It stops when the context is cancelled.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}
