package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// IEmailService delivers operator alerts. Defects in the intake flow
// (invariant violations) page the ops inbox through here.
type IEmailService interface {
	SendOpsAlert(subject, detail string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	opsEmail    string
}

func NewEmailService(host string, port int, username, password, senderEmail, opsEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		opsEmail:    opsEmail,
	}
}

func (s *emailService) SendOpsAlert(subject, detail string) error {
	if s.opsEmail == "" {
		// Alerting not configured; callers already log the defect.
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.opsEmail)
	m.SetHeader("Subject", "[LoanAssist Ops] "+subject)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Intake defect detected</h2>
			<p>%s</p>
			<p>Check the application logs for the full context.</p>
		</div>
	`, detail)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send ops alert: %v\n", err)
		return err
	}

	fmt.Printf("[MAILER] Ops alert sent to %s\n", s.opsEmail)
	return nil
}
