package queue

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/edukar/edukar-store/internal/config"
)

// Module provides the task queue, broker backed when brokers are configured.
var Module = fx.Options(
	fx.Provide(newQueue),
	fx.Provide(func(q Queue) Publisher { return q }),
)

type queueParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newQueue(p queueParams) (Queue, error) {
	cfg := p.Config.Queue
	if len(cfg.Brokers) == 0 {
		p.Logger.Info("kafka brokers not configured, using in-process task queue")
		return NewMemoryQueue(0, cfg.Workers, p.Logger), nil
	}
	return NewKafkaQueue(KafkaOptions{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		Group:   cfg.Group,
	}, p.Logger)
}
