package di

import (
	"go.uber.org/fx"

	"github.com/edukar/edukar-store/internal/adapter/culqi"
	"github.com/edukar/edukar-store/internal/adapter/mail"
	"github.com/edukar/edukar-store/internal/adapter/r2"
	"github.com/edukar/edukar-store/internal/app"
	"github.com/edukar/edukar-store/internal/config"
	"github.com/edukar/edukar-store/internal/logger"
	"github.com/edukar/edukar-store/internal/pkg/auth"
	"github.com/edukar/edukar-store/internal/queue"
	"github.com/edukar/edukar-store/internal/server/http/router"
	"github.com/edukar/edukar-store/internal/storage/postgres"
	"github.com/edukar/edukar-store/internal/usecase"
)

// Module assembles the store. Extra options are applied last so callers can replace adapters.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		culqi.Module,
		r2.Module,
		mail.Module,
		queue.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
