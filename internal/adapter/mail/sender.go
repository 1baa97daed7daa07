package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// ErrNoRecipient is returned for messages without a destination address.
var ErrNoRecipient = errors.New("mail recipient must be provided")

// Attachment is a file sent along with a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is a plain text email with optional attachments.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPOptions configures the SMTP relay.
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPSender delivers messages through an authenticated SMTP relay.
type SMTPSender struct {
	opts    SMTPOptions
	logger  *slog.Logger
	deliver func(ctx context.Context, msg *gomail.Msg) error
}

// NewSMTPSender builds a sender that opens one connection per message.
func NewSMTPSender(opts SMTPOptions, logger *slog.Logger) *SMTPSender {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	s := &SMTPSender{opts: opts, logger: logger}
	s.deliver = s.dialAndSend
	return s
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMessage(s.opts.From, msg)
	if err != nil {
		return err
	}
	if err := s.deliver(ctx, m); err != nil {
		return fmt.Errorf("send mail %q: %w", msg.Subject, err)
	}
	s.logger.Info("mail sent", slog.String("to", msg.To), slog.String("subject", msg.Subject))
	return nil
}

func (s *SMTPSender) dialAndSend(ctx context.Context, m *gomail.Msg) error {
	client, err := gomail.NewClient(s.opts.Host,
		gomail.WithPort(s.opts.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.opts.Username),
		gomail.WithPassword(s.opts.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(s.opts.Timeout),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, m)
}

func buildMessage(from string, msg Message) (*gomail.Msg, error) {
	if msg.To == "" {
		return nil, ErrNoRecipient
	}
	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	for _, a := range msg.Attachments {
		opts := []gomail.FileOption{}
		if a.ContentType != "" {
			opts = append(opts, gomail.WithFileContentType(gomail.ContentType(a.ContentType)))
		}
		if err := m.AttachReader(a.Name, bytes.NewReader(a.Data), opts...); err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Name, err)
		}
	}
	return m, nil
}

// LogSender drops messages after logging them. Used when SMTP is not configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	s.logger.Warn("smtp is not configured, mail dropped",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("attachments", len(msg.Attachments)),
	)
	return nil
}
