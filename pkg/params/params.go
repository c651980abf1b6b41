// Package params extracts patient identifiers and JSON bodies from requests.
package params

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thyrotrack/thyrotrack/pkg/flexnum"
)

const (
	MsgPatientIDRequired = "Patient ID is required"
	MsgPatientIDInvalid  = "Invalid patient ID"
	MsgInvalidBody       = "Invalid request body"
)

// Bind decodes the request into v. See BindError for the failure mapping.
func Bind(c echo.Context, v any) error {
	return BindError(c.Bind(v), MsgInvalidBody)
}

// BindError maps a binder failure to the response the API sends. A body cut
// off by the size limit keeps its 413; any other failure becomes a 400
// carrying msg. A nil err yields nil.
func BindError(err error, msg string) error {
	if err == nil {
		return nil
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if he, ok := e.(*echo.HTTPError); ok && he.Code == http.StatusRequestEntityTooLarge {
			return he
		}
	}
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// Lookup returns the first non-empty value among the named path params and
// query params, path params first.
func Lookup(c echo.Context, names ...string) string {
	for _, n := range names {
		if v := c.Param(n); v != "" {
			return v
		}
	}
	for _, n := range names {
		if v := c.QueryParam(n); v != "" {
			return v
		}
	}
	return ""
}

// PatientID resolves a patient identifier from the request. A missing value
// and a non-integer value both produce a 400.
func PatientID(c echo.Context, names ...string) (int64, error) {
	return ParsePatientID(Lookup(c, names...))
}

// ParsePatientID validates a raw identifier taken from any part of a request.
func ParsePatientID(raw string) (int64, error) {
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, MsgPatientIDRequired)
	}
	id, ok := flexnum.ParseInt(raw)
	if !ok || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, MsgPatientIDInvalid)
	}
	return id, nil
}

// FromBody validates a patient identifier decoded from a JSON body.
func FromBody(v flexnum.Int) (int64, error) {
	if !v.Present {
		return 0, echo.NewHTTPError(http.StatusBadRequest, MsgPatientIDRequired)
	}
	if !v.Valid || v.Value <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, MsgPatientIDInvalid)
	}
	return v.Value, nil
}
