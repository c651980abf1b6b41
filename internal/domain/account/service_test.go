package account

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/thyrotrack/thyrotrack/internal/platform/auth"
	"github.com/thyrotrack/thyrotrack/internal/platform/notification"
	"github.com/thyrotrack/thyrotrack/internal/platform/otp"
)

// -- Mock Repository --

type mockAccountRepo struct {
	users     map[string]*NewUser
	ids       map[string]int64
	signupErr error
	resets    map[string]string
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{
		users:  make(map[string]*NewUser),
		ids:    make(map[string]int64),
		resets: make(map[string]string),
	}
}

func (m *mockAccountRepo) SignupUser(_ context.Context, u *NewUser) error {
	if m.signupErr != nil {
		return m.signupErr
	}
	m.users[u.Username] = u
	m.ids[u.Username] = int64(len(m.ids) + 1)
	return nil
}

func (m *mockAccountRepo) LoginUser(_ context.Context, username, password string) (*User, error) {
	u, ok := m.users[username]
	if !ok || u.Password != password {
		return nil, ErrInvalidCredentials
	}
	return &User{PatientID: m.ids[username], Username: username}, nil
}

func (m *mockAccountRepo) ResetPassword(_ context.Context, email, password string) error {
	m.resets[email] = password
	for _, u := range m.users {
		if u.Email == email {
			u.Password = password
		}
	}
	return nil
}

type testDeps struct {
	repo   *mockAccountRepo
	sender *notification.MockEmailSender
	otps   *otp.Store
	tokens *auth.TokenIssuer
}

func newTestService() (*Service, *testDeps) {
	d := &testDeps{
		repo:   newMockAccountRepo(),
		sender: &notification.MockEmailSender{},
		otps:   otp.NewStore(10*time.Minute, 3),
		tokens: auth.NewTokenIssuer([]byte(strings.Repeat("k", 32)), time.Hour),
	}
	mailer := notification.NewMailer(d.sender, nil, zerolog.Nop())
	return NewService(d.repo, d.otps, mailer, d.tokens, nil, zerolog.Nop()), d
}

// lastCode pulls the six-digit code off the end of the most recent mail body.
func lastCode(t *testing.T, sender *notification.MockEmailSender) string {
	t.Helper()
	msg, ok := sender.Last()
	if !ok {
		t.Fatal("expected a mail to be sent")
	}
	body := strings.TrimSpace(msg.Body)
	if len(body) < 6 {
		t.Fatalf("mail body too short: %q", body)
	}
	return body[len(body)-6:]
}

func signupReq() *SignupRequest {
	return &SignupRequest{
		FirstName: "Nimal",
		LastName:  "Perera",
		Username:  "nimal",
		Email:     "nimal@example.com",
		Password:  "secret",
	}
}

func TestService_Signup_SendsCode(t *testing.T) {
	svc, d := newTestService()

	if err := svc.Signup(context.Background(), signupReq()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg, _ := d.sender.Last()
	if msg.To != "nimal@example.com" {
		t.Errorf("expected mail to nimal@example.com, got %s", msg.To)
	}
	if msg.Subject != "Your OTP for Signup" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	code := lastCode(t, d.sender)
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("expected numeric code, got %q", code)
		}
	}
	if !d.otps.Pending(otp.PurposeSignup, "nimal@example.com") {
		t.Error("expected a pending signup code")
	}
}

func TestService_Signup_MailFailureWithdrawsCode(t *testing.T) {
	svc, d := newTestService()
	d.sender.ShouldFail = true
	d.sender.FailError = "relay down"

	if err := svc.Signup(context.Background(), signupReq()); err == nil {
		t.Fatal("expected error when mail fails")
	}
	if d.otps.Pending(otp.PurposeSignup, "nimal@example.com") {
		t.Error("expected undelivered code to be withdrawn")
	}
}

func TestService_VerifySignup_RoundTrip(t *testing.T) {
	svc, d := newTestService()
	ctx := context.Background()
	svc.Signup(ctx, signupReq())
	code := lastCode(t, d.sender)

	req := &VerifyOTPRequest{SignupRequest: *signupReq(), OTP: Code(code)}
	if err := svc.VerifySignup(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := d.repo.users["nimal"]; !ok {
		t.Error("expected user to be created")
	}

	err := svc.VerifySignup(ctx, req)
	if !errors.Is(err, otp.ErrNotFound) {
		t.Errorf("expected ErrNotFound on reuse, got %v", err)
	}
}

func TestService_VerifySignup_WrongCode(t *testing.T) {
	svc, d := newTestService()
	ctx := context.Background()
	svc.Signup(ctx, signupReq())
	code := lastCode(t, d.sender)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err := svc.VerifySignup(ctx, &VerifyOTPRequest{SignupRequest: *signupReq(), OTP: Code(wrong)})
	if !errors.Is(err, otp.ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
	if len(d.repo.users) != 0 {
		t.Error("expected no user on wrong code")
	}
}

func TestService_VerifySignup_RepoFailureKeepsCode(t *testing.T) {
	svc, d := newTestService()
	ctx := context.Background()
	svc.Signup(ctx, signupReq())
	code := lastCode(t, d.sender)
	d.repo.signupErr = errors.New("duplicate username")

	req := &VerifyOTPRequest{SignupRequest: *signupReq(), OTP: Code(code)}
	if err := svc.VerifySignup(ctx, req); err == nil {
		t.Fatal("expected repo error")
	}
	if !d.otps.Pending(otp.PurposeSignup, "nimal@example.com") {
		t.Error("expected code to remain usable after a failed signup")
	}

	d.repo.signupErr = nil
	if err := svc.VerifySignup(ctx, req); err != nil {
		t.Errorf("expected retry to succeed, got %v", err)
	}
}

func TestService_ResendOTP_ReplacesCode(t *testing.T) {
	svc, d := newTestService()
	ctx := context.Background()
	svc.Signup(ctx, signupReq())
	first := lastCode(t, d.sender)

	if err := svc.ResendOTP(ctx, "nimal@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := lastCode(t, d.sender)
	msg, _ := d.sender.Last()
	if !strings.HasPrefix(msg.Body, "Your new OTP is:") {
		t.Errorf("unexpected resend body %q", msg.Body)
	}
	if first != second {
		err := svc.VerifySignup(ctx, &VerifyOTPRequest{SignupRequest: *signupReq(), OTP: Code(first)})
		if err == nil {
			t.Error("expected the replaced code to be rejected")
		}
	}
	if err := svc.VerifySignup(ctx, &VerifyOTPRequest{SignupRequest: *signupReq(), OTP: Code(second)}); err != nil {
		t.Errorf("expected new code to verify, got %v", err)
	}
}

func TestService_Login(t *testing.T) {
	svc, d := newTestService()
	d.repo.users["nimal"] = &NewUser{Username: "nimal", Password: "secret"}
	d.repo.ids["nimal"] = 42

	res, err := svc.Login(context.Background(), "nimal", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.User.PatientID != 42 || res.User.Username != "nimal" {
		t.Errorf("unexpected user %+v", res.User)
	}
	claims, err := d.tokens.Parse(res.Token)
	if err != nil {
		t.Fatalf("expected a valid token: %v", err)
	}
	if id, _ := claims.PatientID(); id != 42 {
		t.Errorf("expected patient 42 in token, got %d", id)
	}

	if _, err := svc.Login(context.Background(), "nimal", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestService_PasswordReset(t *testing.T) {
	svc, d := newTestService()
	ctx := context.Background()

	if err := svc.ForgotPassword(ctx, "nimal@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg, _ := d.sender.Last()
	if msg.Subject != "Your OTP for Password Reset" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	code := lastCode(t, d.sender)

	// A signup code never unlocks a password reset.
	if d.otps.Pending(otp.PurposeSignup, "nimal@example.com") {
		t.Error("expected no signup code")
	}

	err := svc.ResetPassword(ctx, &ResetPasswordRequest{Email: "nimal@example.com", OTP: Code(code), Password: "new"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.repo.resets["nimal@example.com"] != "new" {
		t.Error("expected password to be reset")
	}
	if d.otps.Pending(otp.PurposePasswordReset, "nimal@example.com") {
		t.Error("expected reset code to be consumed")
	}
}
