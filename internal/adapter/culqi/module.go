package culqi

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/edukar/edukar-store/internal/config"
)

// Module exposes gateway client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.Culqi.BaseURL, p.Config.Culqi.SecretKey, p.Config.Culqi.Timeout, p.Logger)
}
