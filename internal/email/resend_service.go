package email

import (
	"context"
	"fmt"
	"html"

	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// emailSender es la parte del cliente de Resend que se usa
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendService maneja el envío de correos electrónicos usando Resend API
type ResendService struct {
	emails    emailSender
	fromEmail string
	logger    *logrus.Logger
}

// NewResendService crea una nueva instancia de ResendService
func NewResendService(apiKey, fromEmail string, logger *logrus.Logger) *ResendService {
	return &ResendService{
		emails:    resend.NewClient(apiKey).Emails,
		fromEmail: fromEmail,
		logger:    logger,
	}
}

// SendReclamoRespuesta avisa al autor del reclamo la respuesta del administrador
func (s *ResendService) SendReclamoRespuesta(ctx context.Context, reclamo *models.Reclamo) error {
	if reclamo.Email == "" {
		return fmt.Errorf("reclamo %s has no email", reclamo.ID)
	}

	respuesta := ""
	if reclamo.Respuesta != nil {
		respuesta = *reclamo.Respuesta
	}

	subject := "Respuesta a tu reclamo"
	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .quote { border-left: 4px solid #ccc; padding-left: 12px; color: #666; }
        .footer { margin-top: 30px; font-size: 14px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h2>Hola %s,</h2>
        <p>Recibimos tu reclamo del %s:</p>
        <p class="quote">%s</p>
        <p><strong>Respuesta:</strong></p>
        <p>%s</p>
        <p>Estado actual: <strong>%s</strong></p>
        <div class="footer">Este es un mensaje automático, por favor no respondas a este correo.</div>
    </div>
</body>
</html>`,
		subject,
		html.EscapeString(reclamo.Nombre),
		reclamo.Fecha.Format("02/01/2006"),
		html.EscapeString(reclamo.Mensaje),
		html.EscapeString(respuesta),
		html.EscapeString(string(reclamo.Estado)),
	)

	request := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{reclamo.Email},
		Subject: subject,
		Html:    htmlContent,
	}

	result, err := s.emails.SendWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("error sending email via Resend: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"email_id":   result.Id,
		"to":         reclamo.Email,
		"reclamo_id": reclamo.ID,
	}).Info("Email sent successfully via Resend")

	return nil
}
