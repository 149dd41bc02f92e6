package service

import (
	"context"
	"fmt"
	"strings"

	"motorent-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
	currency  string
}

func NewEmailService(apiKey, fromEmail, fromName, currency string) EmailService {
	return &sendGridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		currency:  currency,
	}
}

func (s *sendGridEmailService) SendPaymentReceipt(ctx context.Context, toEmail, toName string, rt *domain.Rental) error {
	amount := formatAmount(*rt.TotalCostCents, s.currency)
	subject := fmt.Sprintf("Payment receipt for rental #%d", rt.ID)
	plainText := fmt.Sprintf(
		"Hi %s,\n\nWe received your payment of %s for rental #%d (%d day(s)).\n\nThanks for riding with us!",
		toName, amount, rt.ID, *rt.RentalDays)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Payment received</h2>
				<p>Hi %s,</p>
				<p>We received your payment of <strong>%s</strong> for rental <strong>#%d</strong> (%d day(s)).</p>
				<p>Thanks for riding with us!</p>
			</body>
		</html>
	`, toName, amount, rt.ID, *rt.RentalDays)

	return s.send(ctx, toEmail, toName, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendPaymentReminder(ctx context.Context, toEmail, toName string, rt *domain.Rental) error {
	amount := formatAmount(*rt.TotalCostCents, s.currency)
	subject := fmt.Sprintf("Payment reminder for rental #%d", rt.ID)
	plainText := fmt.Sprintf(
		"Hi %s,\n\nRental #%d still has an outstanding payment of %s. Please complete the checkout to settle it.",
		toName, rt.ID, amount)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Payment reminder</h2>
				<p>Hi %s,</p>
				<p>Rental <strong>#%d</strong> still has an outstanding payment of <strong>%s</strong>.</p>
				<p>Please complete the checkout to settle it.</p>
			</body>
		</html>
	`, toName, rt.ID, amount)

	return s.send(ctx, toEmail, toName, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func formatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, strings.ToUpper(currency))
}
