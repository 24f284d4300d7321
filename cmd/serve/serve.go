package serve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/emilythestrangee/bugai/backend/internal/app"
	"github.com/emilythestrangee/bugai/backend/internal/server"
)

// Command creates the serve command
func Command(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), *configPath)
		},
	}
}

func run(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Open(ctx, configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger.Error("shutdown cleanup failed", slog.Any("error", err))
		}
	}()

	gin.SetMode(a.Config.Server.Mode)

	srv, err := server.NewServer(server.Deps{
		Config:   a.Config,
		DB:       a.DB,
		Services: a.Services,
		Metrics:  a.Metrics,
		Reporter: a.Reporter,
		Logger:   a.Logger,
	})
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", slog.String("addr", srv.Addr), slog.String("version", app.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		return err
	case <-sigCtx.Done():
	}

	a.Logger.Info("shutting down", slog.Duration("timeout", a.Config.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.Logger.Info("server stopped")
	return nil
}
