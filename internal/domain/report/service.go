package report

import (
	"context"
	"fmt"

	"github.com/thyrotrack/thyrotrack/internal/platform/notification"
)

type Service struct {
	repo   Repository
	mailer *notification.Mailer
}

func NewService(repo Repository, mailer *notification.Mailer) *Service {
	return &Service{repo: repo, mailer: mailer}
}

// ResolveEmail prefers the address supplied with the request.
func (s *Service) ResolveEmail(ctx context.Context, patientID int64, email string) (string, error) {
	if email != "" {
		return email, nil
	}
	found, err := s.repo.PatientEmail(ctx, patientID)
	if err != nil {
		return "", fmt.Errorf("get patient email: %w", err)
	}
	return found, nil
}

// SendPDF mails pdf to the recipient as report.pdf.
func (s *Service) SendPDF(ctx context.Context, to string, pdf []byte) error {
	return s.mailer.SendTemplate(ctx, notification.TemplatePregnancyReport, to, nil, notification.Attachment{
		Filename:    attachmentName,
		ContentType: attachmentType,
		Data:        pdf,
	})
}
