package services

import (
	"context"
	"fmt"
	"time"

	"github.com/creative2/guest-feedback-server/models"
	mail "github.com/wneessen/go-mail"
)

// smtpTimeout chặn trên cho mỗi lượt dial/gửi. SMTP chết thì dòng log
// chuyển failed thay vì treo request.
const smtpTimeout = 10 * time.Second

// SMTPMailer là Mailer thật, dựng client go-mail từ SmtpProfile của hotel.
type SMTPMailer struct {
	timeout time.Duration
}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{timeout: smtpTimeout}
}

func (m *SMTPMailer) client(p *models.SmtpProfile) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(p.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(p.Username),
		mail.WithPassword(p.Password),
		mail.WithTimeout(m.timeout),
	}
	if p.UseTLS {
		// TLS ngầm định (thường port 465)
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}
	return mail.NewClient(p.Host, opts...)
}

// Verify thử dial tới SMTP server rồi đóng — tương đương transporter
// verify trước khi gửi thật.
func (m *SMTPMailer) Verify(p *models.SmtpProfile) error {
	c, err := m.client(p)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if err := c.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp verify: %w", err)
	}
	return c.Close()
}

func (m *SMTPMailer) Send(p *models.SmtpProfile, om *OutgoingMail) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(p.FromName, p.FromEmail); err != nil {
		return fmt.Errorf("địa chỉ from: %w", err)
	}
	if err := msg.To(om.To); err != nil {
		return fmt.Errorf("địa chỉ to: %w", err)
	}
	msg.Subject(om.Subject)
	if om.BodyText != "" {
		msg.SetBodyString(mail.TypeTextPlain, om.BodyText)
		msg.AddAlternativeString(mail.TypeTextHTML, om.BodyHTML)
	} else {
		msg.SetBodyString(mail.TypeTextHTML, om.BodyHTML)
	}

	c, err := m.client(p)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
