package mailer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"

	"github.com/lnuais/member_service/internal/dto"
	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// MailService consumes mail events from the topic and delivers them over
// SMTP. It implements interfaces.ConsumerHandler.
type MailService struct {
	cfg    SMTPConfig
	client *mail.Client
}

func New(cfg SMTPConfig) (*MailService, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}

	return &MailService{cfg: cfg, client: client}, nil
}

func (s *MailService) HandleMessage(message string) error {
	var ev dto.MailEvent
	if err := json.Unmarshal([]byte(message), &ev); err != nil {
		return fmt.Errorf("bad mail event payload: %w", err)
	}
	if ev.Email == "" {
		return errors.New("mail event without recipient")
	}

	subject, body, err := renderEvent(ev)
	if err != nil {
		return err
	}

	return s.send(ev.Email, subject, body)
}

func (s *MailService) send(to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	log.Printf("[MAIL] sending to=%s subject=%q", to, subject)
	if err := s.client.DialAndSend(msg); err != nil {
		return err
	}
	log.Printf("[MAIL] sent to=%s", to)
	return nil
}

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(
		`<p>Hi {{.FullName}},</p>
<p>Welcome to LNU AIS! We are excited to have you on board.</p>
<p>Best regards,<br>The LNU AIS Team</p>`))

	verifyTmpl = template.Must(template.New("verify").Parse(
		`<p>Hi {{.FullName}},</p>
<p>Your verification code is <b>{{.Code}}</b>. It expires at {{.ExpiresAt}}.</p>
<p>If you did not request this, you can ignore this email.</p>`))

	resetTmpl = template.Must(template.New("reset").Parse(
		`<p>Hi {{.FullName}},</p>
<p>Your password reset code is <b>{{.Code}}</b>. It expires at {{.ExpiresAt}}.</p>
<p>If you did not request a reset, you can ignore this email.</p>`))
)

func renderEvent(ev dto.MailEvent) (string, string, error) {
	var (
		subject string
		tmpl    *template.Template
	)

	switch ev.Kind {
	case dto.EventWelcome:
		subject = "Welcome to LNU AIS!"
		tmpl = welcomeTmpl
	case dto.EventVerifyEmail:
		subject = "Verify your LNU AIS email"
		tmpl = verifyTmpl
	case dto.EventResetPassword:
		subject = "Your LNU AIS password reset code"
		tmpl = resetTmpl
	default:
		return "", "", fmt.Errorf("unknown mail event kind %q", ev.Kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ev); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
