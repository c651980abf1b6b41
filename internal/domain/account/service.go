package account

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/thyrotrack/thyrotrack/internal/platform/auth"
	"github.com/thyrotrack/thyrotrack/internal/platform/notification"
	"github.com/thyrotrack/thyrotrack/internal/platform/otp"
	"github.com/thyrotrack/thyrotrack/internal/platform/telemetry"
)

type Service struct {
	repo    Repository
	otps    *otp.Store
	mailer  *notification.Mailer
	tokens  *auth.TokenIssuer
	metrics *telemetry.Collector
	logger  zerolog.Logger
}

func NewService(repo Repository, otps *otp.Store, mailer *notification.Mailer, tokens *auth.TokenIssuer, metrics *telemetry.Collector, logger zerolog.Logger) *Service {
	return &Service{repo: repo, otps: otps, mailer: mailer, tokens: tokens, metrics: metrics, logger: logger}
}

// sendCode issues a passcode and mails it. A code that could not be
// delivered is withdrawn.
func (s *Service) sendCode(ctx context.Context, purpose otp.Purpose, templateID, email string) error {
	code, err := s.otps.Issue(purpose, email)
	if err != nil {
		return err
	}
	s.metrics.OTPIssued(string(purpose))

	if err := s.mailer.SendTemplate(ctx, templateID, email, map[string]string{"otp": code}); err != nil {
		s.otps.Consume(purpose, email)
		return err
	}
	s.logger.Info().Str("purpose", string(purpose)).Msg("otp issued")
	return nil
}

// Signup starts account creation by mailing a signup passcode.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) error {
	return s.sendCode(ctx, otp.PurposeSignup, notification.TemplateSignupOTP, req.Email)
}

// ResendOTP replaces the pending signup passcode with a new one.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	return s.sendCode(ctx, otp.PurposeSignup, notification.TemplateResendOTP, email)
}

// VerifySignup checks the passcode and creates the account. The passcode is
// consumed only once the account exists, so a failed insert can be retried.
func (s *Service) VerifySignup(ctx context.Context, req *VerifyOTPRequest) error {
	if err := s.otps.Check(otp.PurposeSignup, req.Email, string(req.OTP)); err != nil {
		return err
	}
	err := s.repo.SignupUser(ctx, &NewUser{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return fmt.Errorf("signup user: %w", err)
	}
	s.otps.Consume(otp.PurposeSignup, req.Email)
	return nil
}

// Login checks credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.repo.LoginUser(ctx, username, password)
	if err != nil {
		return nil, err
	}
	res := &LoginResult{Message: "Login successful", User: *u}
	if s.tokens != nil {
		tok, err := s.tokens.Issue(u.PatientID, u.Username)
		if err != nil {
			return nil, err
		}
		res.Token = tok
	}
	return res, nil
}

// ForgotPassword mails a password-reset passcode.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	return s.sendCode(ctx, otp.PurposePasswordReset, notification.TemplatePasswordResetOTP, email)
}

// ResetPassword checks the reset passcode and stores the new password.
func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if err := s.otps.Check(otp.PurposePasswordReset, req.Email, string(req.OTP)); err != nil {
		return err
	}
	if err := s.repo.ResetPassword(ctx, req.Email, req.Password); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.otps.Consume(otp.PurposePasswordReset, req.Email)
	return nil
}
