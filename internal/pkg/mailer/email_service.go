package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// IEmailService is the outbound mail sink. Delivery is fire-and-forget from
// the caller's perspective: a failure is logged by the caller and never
// rolls back state.
type IEmailService interface {
	SendAccessCode(toEmail, channelName, code string, codeExpiresAt time.Time) error
	SendReminder(toEmail, templateKind, channelName string, periodEnd time.Time, renewalLink string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail, frontendURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendAccessCode(toEmail, channelName, code string, codeExpiresAt time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your access code for %s", channelName))

	redeemLink := fmt.Sprintf("%s/access?code=%s", s.frontendURL, code)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Payment confirmed!</h2>
			<p>Use this code to unlock <strong>%s</strong>:</p>
			<h1 style="color: #4CAF50; letter-spacing: 3px;">%s</h1>
			<p><a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Redeem Access</a></p>
			<p>This code expires at %s and can be used once.</p>
		</div>
	`, channelName, code, redeemLink, codeExpiresAt.Format("15:04 MST, Jan 2"))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send access code to %s: %w", toEmail, err)
	}
	return nil
}

func (s *emailService) SendReminder(toEmail, templateKind, channelName string, periodEnd time.Time, renewalLink string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)

	expiry := periodEnd.Format("January 2, 2006")

	var subject, headline, lead string
	switch templateKind {
	case "expiring_tomorrow":
		subject = fmt.Sprintf("%s access expires tomorrow", channelName)
		headline = "Your access expires tomorrow"
		lead = fmt.Sprintf("Your subscription to <strong>%s</strong> ends on %s.", channelName, expiry)
	case "grace_period":
		subject = fmt.Sprintf("Your %s subscription has expired", channelName)
		headline = "Your subscription has expired"
		lead = fmt.Sprintf("Access to <strong>%s</strong> ended on %s. Renew now to get back in.", channelName, expiry)
	default: // expiring_soon
		subject = fmt.Sprintf("%s renews in 7 days", channelName)
		headline = "Renewal coming up"
		lead = fmt.Sprintf("Your subscription to <strong>%s</strong> runs until %s.", channelName, expiry)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<p>%s</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Renew Now</a>
			<p>If you have already renewed, you can ignore this email.</p>
		</div>
	`, headline, lead, renewalLink)

	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %s reminder to %s: %w", templateKind, toEmail, err)
	}
	return nil
}
