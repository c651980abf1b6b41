package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/thyrotrack/thyrotrack/internal/platform/auth"
	"github.com/thyrotrack/thyrotrack/pkg/params"
)

// AuditEntry records one access to patient data.
type AuditEntry struct {
	Timestamp   time.Time
	RequestID   string
	Actor       int64 // authenticated patient, 0 when auth is off
	PatientID   string
	Action      string // read, write
	Route       string
	Method      string
	Path        string
	IPAddress   string
	UserAgent   string
	StatusCode  int
	CrossAccess bool
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// patientIDKeys are the parameter names the API uses for the patient.
var patientIDKeys = []string{"patient_id", "patientID"}

// Audit logs every request that touches patient data. Infrastructure and
// /auth routes are skipped. An entry is flagged as cross access when the
// token's patient differs from the patient named in the request.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !isAuditablePath(req.URL.Path) {
				return next(c)
			}

			err := next(c)

			entry := AuditEntry{
				Timestamp:  time.Now().UTC(),
				RequestID:  requestID(c),
				PatientID:  patientParam(c),
				Action:     methodToAction(req.Method),
				Route:      c.Path(),
				Method:     req.Method,
				Path:       req.URL.Path,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				StatusCode: c.Response().Status,
			}
			if err != nil {
				entry.StatusCode = StatusOf(err)
			}
			if actor, ok := auth.PatientIDFromContext(req.Context()); ok {
				entry.Actor = actor
				entry.CrossAccess = isCrossAccess(entry.PatientID, actor)
			}

			for _, r := range recorders {
				if r == nil {
					continue
				}
				if recErr := r.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			evt := logger.Info()
			if entry.CrossAccess {
				evt = logger.Warn()
			}
			evt.
				Str("type", "patient_audit").
				Str("request_id", entry.RequestID).
				Int64("actor", entry.Actor).
				Str("patient_id", entry.PatientID).
				Str("action", entry.Action).
				Str("route", entry.Route).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Bool("cross_access", entry.CrossAccess).
				Msg("patient_data_access")

			return err
		}
	}
}

// isCrossAccess compares numerically so "007" names patient 7. A value that
// is not a patient id is rejected by the handler and never counts.
func isCrossAccess(requested string, actor int64) bool {
	id, err := params.ParsePatientID(requested)
	return err == nil && id != actor
}

func isAuditablePath(path string) bool {
	switch {
	case path == "/health", path == "/health/db", path == "/metrics":
		return false
	case path == "/auth", strings.HasPrefix(path, "/auth/"):
		return false
	}
	return true
}

func methodToAction(method string) string {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return "write"
	default:
		return "read"
	}
}

// patientParam finds the patient named by the path or query string. Body
// parameters are not inspected since the handler has already consumed them.
func patientParam(c echo.Context) string {
	for _, k := range patientIDKeys {
		if v := c.Param(k); v != "" {
			return v
		}
	}
	for _, k := range patientIDKeys {
		if v := c.QueryParam(k); v != "" {
			return v
		}
	}
	return ""
}
