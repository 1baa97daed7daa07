package mail

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/edukar/edukar-store/internal/config"
)

// Module exposes mail sender to fx graph.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSender(p senderParams) Sender {
	cfg := p.Config.SMTP
	if cfg.Host == "" || cfg.Username == "" {
		return NewLogSender(p.Logger)
	}
	return NewSMTPSender(SMTPOptions{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	}, p.Logger)
}
