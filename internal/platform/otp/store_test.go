package otp

import (
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestStore(ttl time.Duration, attempts int) (*Store, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(ttl, attempts)
	s.now = clk.now
	return s, clk
}

func wrongCode(code string) string {
	if code == "000000" {
		return "000001"
	}
	return "000000"
}

func TestIssue_SixDigitCode(t *testing.T) {
	s, _ := newTestStore(time.Minute, 5)
	code, err := s.Issue(PurposeSignup, "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sixDigits.MatchString(code) {
		t.Errorf("expected 6-digit code, got %q", code)
	}
	if !s.Pending(PurposeSignup, "a@example.com") {
		t.Error("expected pending code")
	}
}

func TestCheck_RoundTrip(t *testing.T) {
	s, _ := newTestStore(time.Minute, 5)
	code, _ := s.Issue(PurposeSignup, "a@example.com")

	if err := s.Check(PurposeSignup, "a@example.com", code); err != nil {
		t.Fatalf("expected valid code, got %v", err)
	}
	// Check does not consume.
	if err := s.Check(PurposeSignup, "a@example.com", code); err != nil {
		t.Fatalf("expected code to survive Check, got %v", err)
	}

	s.Consume(PurposeSignup, "a@example.com")
	if err := s.Check(PurposeSignup, "a@example.com", code); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Consume, got %v", err)
	}
}

func TestCheck_NormalizesEmail(t *testing.T) {
	s, _ := newTestStore(time.Minute, 5)
	code, _ := s.Issue(PurposeSignup, "  Alice@Example.COM ")
	if err := s.Check(PurposeSignup, "alice@example.com", code); err != nil {
		t.Errorf("expected normalized email to match, got %v", err)
	}
}

func TestCheck_Mismatch(t *testing.T) {
	s, _ := newTestStore(time.Minute, 5)
	code, _ := s.Issue(PurposeSignup, "a@example.com")
	if err := s.Check(PurposeSignup, "a@example.com", wrongCode(code)); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestCheck_Expired(t *testing.T) {
	s, clk := newTestStore(time.Minute, 5)
	code, _ := s.Issue(PurposeSignup, "a@example.com")
	clk.advance(61 * time.Second)

	if err := s.Check(PurposeSignup, "a@example.com", code); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
	if s.Len() != 0 {
		t.Error("expected expired entry to be dropped")
	}
}

func TestCheck_TooManyAttemptsBurnsCode(t *testing.T) {
	s, _ := newTestStore(time.Minute, 3)
	code, _ := s.Issue(PurposeSignup, "a@example.com")
	bad := wrongCode(code)

	for i := 0; i < 2; i++ {
		if err := s.Check(PurposeSignup, "a@example.com", bad); !errors.Is(err, ErrMismatch) {
			t.Fatalf("attempt %d: expected ErrMismatch, got %v", i+1, err)
		}
	}
	if err := s.Check(PurposeSignup, "a@example.com", bad); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if err := s.Check(PurposeSignup, "a@example.com", code); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected burned code to be gone, got %v", err)
	}
}

func TestIssue_ReplacesPending(t *testing.T) {
	s, _ := newTestStore(time.Minute, 5)
	first, _ := s.Issue(PurposeSignup, "a@example.com")
	var second string
	for {
		second, _ = s.Issue(PurposeSignup, "a@example.com")
		if second != first {
			break
		}
	}

	if err := s.Check(PurposeSignup, "a@example.com", first); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected replaced code to fail, got %v", err)
	}
	if err := s.Check(PurposeSignup, "a@example.com", second); err != nil {
		t.Errorf("expected new code to pass, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("expected one entry, got %d", s.Len())
	}
}

func TestPurposesAreIsolated(t *testing.T) {
	s, _ := newTestStore(time.Minute, 5)
	code, _ := s.Issue(PurposeSignup, "a@example.com")

	if err := s.Check(PurposePasswordReset, "a@example.com", code); !errors.Is(err, ErrNotFound) {
		t.Errorf("signup code must not satisfy password reset, got %v", err)
	}
}

func TestSweep_RemovesExpired(t *testing.T) {
	s, clk := newTestStore(time.Minute, 5)
	s.Issue(PurposeSignup, "old@example.com")
	clk.advance(2 * time.Minute)
	s.Issue(PurposeSignup, "new@example.com")

	s.sweep()

	if s.Len() != 1 {
		t.Errorf("expected 1 entry after sweep, got %d", s.Len())
	}
	if !s.Pending(PurposeSignup, "new@example.com") {
		t.Error("expected live entry to survive sweep")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore(time.Minute, 5)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := "user@example.com"
			code, err := s.Issue(PurposeSignup, email)
			if err != nil {
				t.Error(err)
				return
			}
			_ = s.Check(PurposeSignup, email, code)
		}(i)
	}
	wg.Wait()
	if s.Len() > 1 {
		t.Errorf("expected at most one entry for one email, got %d", s.Len())
	}
}
