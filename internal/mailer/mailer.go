package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/SPMS-2025/progress-service/internal/config"
)

// Mailer is the mail-sending collaborator. Implementations deliver or fail;
// they never retry.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer builds a Mailer from injected SMTP credentials.
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// ReminderSubject and ReminderBody render the fixed inactivity template.
const ReminderSubject = "Time to Practice on Codeforces!"

func ReminderBody(name string, windowDays int) string {
	return fmt.Sprintf(
		"<p>Hey %s,</p>"+
			"<p>We noticed you haven't made any submissions in the past %d days.</p>"+
			"<p>Let's get back to solving problems and improving your skills!</p>"+
			"<p>- Student Progress Tracker</p>", name, windowDays)
}
