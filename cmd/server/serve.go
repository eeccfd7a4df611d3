package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	httpapi "github.com/artem13815/portfolio/api/http"
	"github.com/artem13815/portfolio/api/http/handlers"
	"github.com/artem13815/portfolio/pkg/storage/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply migrations and start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := postgres.Migrate(ctx, a.pool); err != nil {
		return err
	}
	svc, err := a.portfolios()
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		AppName: "portfolio",
		// multipart overhead on top of the file itself
		BodyLimit:             int(a.cfg.MaxUploadBytes) + 1<<20,
		ReadTimeout:           30 * time.Second,
		DisableStartupMessage: true,
	})
	httpapi.Register(app, httpapi.Handlers{
		Health:    handlers.NewHealthHandler(a.readiness()),
		Identity:  handlers.NewIdentityHandler(a.identities(), a.log),
		Resume:    handlers.NewResumeHandler(svc, a.log, a.cfg.MaxUploadBytes),
		Portfolio: handlers.NewPortfolioHandler(svc, a.log),
	})

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("HTTP server listening on :%s", a.cfg.Port)
		errCh <- app.Listen(":" + a.cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
