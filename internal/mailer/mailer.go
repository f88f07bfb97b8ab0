// Package mailer sends transactional mail through SendGrid. A nil Mailer is
// a no-op so local development and tests work without an API key.
package mailer

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

func New(apiKey, fromName, fromAddr string) *Mailer {
	if apiKey == "" || fromAddr == "" {
		return nil
	}
	return &Mailer{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		fromAddr: fromAddr,
	}
}

func (m *Mailer) Send(toName, toAddr, subject, body string) error {
	if m == nil {
		return nil
	}
	if toAddr == "" {
		return nil
	}

	from := mail.NewEmail(m.fromName, m.fromAddr)
	to := mail.NewEmail(toName, toAddr)
	msg := mail.NewSingleEmail(from, subject, to, body, "")

	resp, err := m.client.Send(msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (m *Mailer) OrderConfirmation(toName, toAddr, orderNumber string, total float64) error {
	subject := fmt.Sprintf("Order %s received", orderNumber)
	body := fmt.Sprintf(
		"Hi %s,\n\nThank you for your order %s. Your total is R%.2f. We will be in touch once payment is confirmed.\n\nMon Bijou",
		toName, orderNumber, total,
	)
	return m.Send(toName, toAddr, subject, body)
}

func (m *Mailer) HireRequestReceived(toName, toAddr, eventDate string, estimatedTotal float64) error {
	subject := "Your hire quote request"
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your hire request for %s. The estimated total is R%.2f; we will send a firm quote shortly.\n\nMon Bijou",
		toName, eventDate, estimatedTotal,
	)
	return m.Send(toName, toAddr, subject, body)
}
