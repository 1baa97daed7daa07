package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/edukar/edukar-store/internal/config"
	"github.com/edukar/edukar-store/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(
		newStorage,
		func(s *Storage) repository.Factory { return s },
	),
	fx.Provide(
		func(f repository.Factory) repository.UserRepository { return f.Users() },
		func(f repository.Factory) repository.ProductRepository { return f.Products() },
		func(f repository.Factory) repository.SellRepository { return f.Sells() },
		func(f repository.Factory) repository.OwnershipRepository { return f.Ownership() },
		func(f repository.Factory) repository.WebhookEventRepository { return f.WebhookEvents() },
		func(f repository.Factory) repository.ClaimRepository { return f.Claims() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
