package r2

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/edukar/edukar-store/internal/config"
	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
)

// Module exposes document store to fx graph.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newStore(p storeParams) (Store, error) {
	cfg := p.Config.R2
	if cfg.R2Endpoint() == "" {
		p.Logger.Warn("r2 is not configured, document downloads are disabled")
		return unavailableStore{}, nil
	}
	return NewClient(Options{
		Endpoint:        cfg.R2Endpoint(),
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		Bucket:          cfg.Bucket,
	}, p.Logger)
}

type unavailableStore struct{}

func (unavailableStore) Open(context.Context, string) (*Object, error) {
	return nil, domainErrors.ErrStorageUnavailable
}
