package account

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Code is a passcode sent either as a JSON string or a JSON number.
type Code string

func (c *Code) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Code(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = Code(n.String())
	return nil
}

type SignupRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type VerifyOTPRequest struct {
	SignupRequest
	OTP Code `json:"otp"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email"`
	OTP      Code   `json:"otp"`
	Password string `json:"password"`
}

// NewUser is the argument list of the account-creation procedure.
type NewUser struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// User is the row returned by a successful login.
type User struct {
	PatientID int64  `json:"patientID"`
	Username  string `json:"username"`
}

type LoginResult struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token,omitempty"`
}
