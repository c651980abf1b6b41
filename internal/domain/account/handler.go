package account

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/thyrotrack/thyrotrack/internal/platform/otp"
	"github.com/thyrotrack/thyrotrack/pkg/params"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/verify-otp", h.VerifyOTP)
	g.POST("/resend-otp", h.ResendOTP)
	g.POST("/login", h.Login)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password", h.ResetPassword)
	g.POST("/logout", h.Logout)
}

func message(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"message": msg})
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == strings.TrimSpace(email)
}

func otpError(err error) error {
	switch {
	case errors.Is(err, otp.ErrTooManyAttempts):
		return echo.NewHTTPError(http.StatusBadRequest, "Too many attempts, request a new OTP")
	case errors.Is(err, otp.ErrNotFound), errors.Is(err, otp.ErrExpired), errors.Is(err, otp.ErrMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid OTP")
	}
	return err
}

func (h *Handler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := params.Bind(c, &req); err != nil {
		return err
	}
	if blank(req.FirstName, req.LastName, req.Username, req.Email, req.Password) {
		return echo.NewHTTPError(http.StatusBadRequest, "First name, last name, username, email, and password are required")
	}
	if !validEmail(req.Email) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid email address")
	}
	if err := h.svc.Signup(c.Request().Context(), &req); err != nil {
		return err
	}
	return message(c, http.StatusOK, "OTP sent to your email")
}

func (h *Handler) VerifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := params.Bind(c, &req); err != nil {
		return err
	}
	if blank(req.Email, string(req.OTP), req.Username, req.Password) {
		return echo.NewHTTPError(http.StatusBadRequest, "Email, OTP, username, and password are required")
	}
	if err := h.svc.VerifySignup(c.Request().Context(), &req); err != nil {
		return otpError(err)
	}
	return message(c, http.StatusCreated, "Signup successful")
}

func (h *Handler) ResendOTP(c echo.Context) error {
	var req EmailRequest
	if err := params.Bind(c, &req); err != nil {
		return err
	}
	if blank(req.Email) {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}
	if !validEmail(req.Email) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid email address")
	}
	if err := h.svc.ResendOTP(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return message(c, http.StatusOK, "OTP sent successfully")
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := params.Bind(c, &req); err != nil {
		return err
	}
	if blank(req.Username, req.Password) {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}
	res, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ForgotPassword(c echo.Context) error {
	var req EmailRequest
	if err := params.Bind(c, &req); err != nil {
		return err
	}
	if blank(req.Email) {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}
	if !validEmail(req.Email) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid email address")
	}
	if err := h.svc.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return message(c, http.StatusOK, "OTP sent to your email")
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := params.Bind(c, &req); err != nil {
		return err
	}
	if blank(req.Email, string(req.OTP), req.Password) {
		return echo.NewHTTPError(http.StatusBadRequest, "Email, OTP, and password are required")
	}
	if err := h.svc.ResetPassword(c.Request().Context(), &req); err != nil {
		return otpError(err)
	}
	return message(c, http.StatusOK, "Password reset successful")
}

// Logout is stateless: session tokens expire on their own.
func (h *Handler) Logout(c echo.Context) error {
	return message(c, http.StatusOK, "Logout successful")
}
