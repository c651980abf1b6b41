package report

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/thyrotrack/thyrotrack/pkg/params"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/send-email", h.SendEmail)
}

func (h *Handler) SendEmail(c echo.Context) error {
	var req SendRequest
	if err := c.Bind(&req); err != nil {
		return params.BindError(err, "No JSON data received")
	}
	if !req.PatientID.Present || strings.TrimSpace(req.PDFBase64) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}
	patientID, err := params.FromBody(req.PatientID)
	if err != nil {
		return err
	}

	email := strings.TrimSpace(req.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid email address")
		}
	}

	ctx := c.Request().Context()
	to, err := h.svc.ResolveEmail(ctx, patientID, email)
	if errors.Is(err, ErrEmailNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Email not found for patient")
	}
	if err != nil {
		return err
	}

	pdf, err := DecodePDF(req.PDFBase64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid PDF data: "+strings.TrimPrefix(err.Error(), ErrInvalidPDF.Error()+": "))
	}

	if err := h.svc.SendPDF(ctx, to, pdf); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Email sent to %s successfully!", to),
	})
}
