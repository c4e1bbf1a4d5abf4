package services

import (
	"context"
	"fmt"
	"html"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

// EmailService delivers transactional mail through Resend
type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	es := &EmailService{
		logger: logger,
		cfg:    cfg,
	}
	if cfg.Email.ApiKey != "" {
		es.client = resend.NewClient(cfg.Email.ApiKey)
	} else {
		logger.Warn("RESEND_API_KEY is not set, outgoing mail will only be logged")
	}
	return es
}

func (es *EmailService) SendEmail(ctx context.Context, to []string, subject string, body string) error {
	if es.client == nil {
		es.logger.Info("Mail delivery disabled, dropping email", gecho.Field("to", to), gecho.Field("subject", subject))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	_, err := es.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	return nil
}

// SendRegistrationLink mails the activation link of a pending account to its owner
func (es *EmailService) SendRegistrationLink(ctx context.Context, email, link string) error {
	escaped := html.EscapeString(link)
	minutes := es.cfg.Auth.RegistrationTokenExpiry.Minutes()

	emailBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.header { background-color: #222; color: white; padding: 20px; text-align: center; }
				.content { padding: 20px; background-color: #f9f9f9; }
				.button { display: inline-block; padding: 15px 30px; background-color: #222; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
				.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
			</style>
		</head>
		<body>
			<div class="container">
				<div class="header">
					<h1>Activate your account</h1>
				</div>
				<div class="content">
					<p>Thanks for registering at %s. Click the button below to activate your account:</p>
					<p style="text-align: center;">
						<a href="%s" class="button">Activate account</a>
					</p>
					<p>This link will expire in %.0f minutes.</p>
					<p>If you did not create an account, please ignore this email.</p>

					<p>Link not working? Copy and paste the following URL into your browser:</p>
					<p style="word-break: break-all;">%s</p>
				</div>
				<div class="footer">
					<p>%s</p>
				</div>
			</div>
		</body>
		</html>
	`, html.EscapeString(es.cfg.Server.AppName), escaped, minutes, escaped, html.EscapeString(es.cfg.Server.AppName))

	return es.SendEmail(ctx, []string{email}, "Activate your account", emailBody)
}

// SendOrderDetails mails the shipping contact and the item list of an order to the support address
func (es *EmailService) SendOrderDetails(ctx context.Context, details *tables.OrderDetails) error {
	if es.cfg.Email.SupportEmail == "" {
		es.logger.Warn("EMAIL_SUPPORT is not set, skipping order notification", gecho.Field("order_id", details.OrderID))
		return nil
	}

	var shipping string
	if s := details.Shipping; s != nil {
		shipping = fmt.Sprintf(`
			<p>Address: %s</p>
			<p>City: %s</p>
			<p>Branch: %s</p>
			<p>Name: %s %s</p>
			<p>Phone: %s</p>
			<p>Email: %s</p>`,
			html.EscapeString(s.Address),
			escapeOptional(s.City),
			escapeOptional(s.Branch),
			html.EscapeString(s.FirstName), html.EscapeString(s.LastName),
			html.EscapeString(s.PhoneNumber),
			html.EscapeString(s.Email))
	} else {
		shipping = "<p>No shipping address was provided.</p>"
	}

	var rows strings.Builder
	for _, item := range details.Items {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>",
			escapeOptional(item.ProductName), item.Quantity, escapeOptional(item.Size), formatCents(item.TotalPrice))
	}

	emailBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.order-details { background-color: white; padding: 15px; margin: 15px 0; border-radius: 5px; }
				table { width: 100%%; border-collapse: collapse; }
				th, td { padding: 5px; border-bottom: 1px solid #eee; text-align: left; }
			</style>
		</head>
		<body>
			<div class="container">
				<h1>New order #%d</h1>
				<div class="order-details">
					<h3>Shipping information</h3>
					%s
				</div>
				<div class="order-details">
					<h3>Items</h3>
					<table>
						<tr><th>Name</th><th>Quantity</th><th>Size</th><th>Total</th></tr>
						%s
					</table>
				</div>
			</div>
		</body>
		</html>
	`, details.OrderID, shipping, rows.String())

	subject := fmt.Sprintf("New order #%d", details.OrderID)
	return es.SendEmail(ctx, []string{es.cfg.Email.SupportEmail}, subject, emailBody)
}

func escapeOptional(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return html.EscapeString(*s)
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
