package report

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/thyrotrack/thyrotrack/pkg/flexnum"
)

var (
	ErrEmailNotFound = errors.New("email not found for patient")
	ErrInvalidPDF    = errors.New("invalid pdf data")
)

const (
	attachmentName = "report.pdf"
	attachmentType = "application/pdf"
)

type SendRequest struct {
	PatientID flexnum.Int `json:"patientID"`
	PDFBase64 string      `json:"pdfBase64"`
	Email     string      `json:"email"`
}

// DecodePDF strips an optional data-URL prefix and decodes the payload.
// Padded and unpadded base64 are both accepted; embedded whitespace is
// ignored.
func DecodePDF(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		i := strings.IndexByte(s, ',')
		if i < 0 {
			return nil, fmt.Errorf("%w: data URL has no payload", ErrInvalidPDF)
		}
		s = s[i+1:]
	}
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidPDF)
	}

	enc := base64.StdEncoding
	if len(s)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	data, err := enc.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidPDF)
	}
	return data, nil
}
