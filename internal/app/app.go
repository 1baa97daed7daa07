package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/edukar/edukar-store/internal/config"
	"github.com/edukar/edukar-store/internal/queue"
	"github.com/edukar/edukar-store/internal/server/http/handlers"
	"github.com/edukar/edukar-store/internal/usecase"
	"github.com/edukar/edukar-store/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewStoreFacade,
		func(f *StoreFacade) handlers.StoreFacade { return f },
		newHTTPServer,
		newReconciler,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *StoreFacade
	Config *config.Config
	Logger *slog.Logger
}

func newReconciler(p workerParams) *worker.Reconciler {
	return worker.NewReconciler(
		p.Facade,
		p.Config.Reconcile.Interval,
		p.Config.Reconcile.BatchSize,
		p.Config.Reconcile.Workers,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle     fx.Lifecycle
	Shutdowner    fx.Shutdowner
	Logger        *slog.Logger
	Server        *http.Server
	Worker        *worker.Reconciler
	Queue         queue.Queue
	Notifications *usecase.NotificationUseCase
	Config        *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting edukar store", slog.String("addr", p.Server.Addr))
			// Workers outlive the start context.
			if err := p.Queue.Start(context.Background(), p.Notifications.Handle); err != nil {
				return err
			}
			p.Worker.Start(context.Background())
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			p.Worker.Stop()
			p.Queue.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("edukar store stopped")
			return nil
		},
	})
}
