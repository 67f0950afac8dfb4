// Package mail sends operational notifications. Every send is best
// effort from the caller's point of view: services log failures and
// never let a mail error fail the request that triggered it.
package mail

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"

	"consignparts/internal/model"
)

// Mailer is the outbound mail dependency injected into services.
type Mailer interface {
	SendWelcome(user *model.User, tempPassword string) error
	SendPasswordReset(email, resetURL string) error
	SendPartSold(consigner *model.User, part *model.Part) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	dialer          *gomail.Dialer
	sender          string
	salesNotifyAddr string
	baseURL         string
}

// NewSMTPMailer creates a mailer for the given relay.
func NewSMTPMailer(host string, port int, username, password, sender, salesNotifyAddr, baseURL string) *SMTPMailer {
	return &SMTPMailer{
		dialer:          gomail.NewDialer(host, port, username, password),
		sender:          sender,
		salesNotifyAddr: salesNotifyAddr,
		baseURL:         baseURL,
	}
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// SendWelcome mails a newly created consigner their temporary password
// and the password-reset entry point.
func (m *SMTPMailer) SendWelcome(user *model.User, tempPassword string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Welcome aboard! Your consigner account has been created with the email: %s\n"+
			"Your account currently has a temporary password which must be changed.\n\n"+
			"Temporary password: %s\n\n"+
			"To reset your password, visit:\n%s/forgot-password\n"+
			"Enter your account email to be sent a link to reset your password.\n\n"+
			"Once completed, you can log in with your account email and new password.\n",
		user.Name, user.Email, tempPassword, m.baseURL,
	)
	return m.send(user.Email, "Welcome!", body)
}

// SendPasswordReset mails a reset link.
func (m *SMTPMailer) SendPasswordReset(email, resetURL string) error {
	body := fmt.Sprintf(
		"A password reset was requested for this address.\n\n"+
			"Reset your password here (link expires in one hour):\n%s\n\n"+
			"If you did not request this, you can ignore this message.\n",
		resetURL,
	)
	return m.send(email, "Password Reset", body)
}

// SendPartSold notifies the operations address that a part was marked sold.
func (m *SMTPMailer) SendPartSold(consigner *model.User, part *model.Part) error {
	price := part.Price.Round(2)
	body := fmt.Sprintf(
		"A part has been marked as sold.\n\n"+
			"Consigner Code: %s\n"+
			"Part Number: %s\n"+
			"Serial Number: %s\n"+
			"Description: %s\n"+
			"Condition: %s\n"+
			"Price: $%s",
		consigner.Code, part.PartNumber, part.SerialNumber,
		part.Description, part.Condition, formatMoney(price),
	)
	subject := fmt.Sprintf("Part Sold - %s", consigner.Code)
	return m.send(m.salesNotifyAddr, subject, body)
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
