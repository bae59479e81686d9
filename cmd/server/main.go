package main

import (
	"campus-route-service/internal/api"
	"campus-route-service/internal/app"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "server",
		Usage: "campus walking route HTTP API",
		Commands: []*cli.Command{
			serveCommand(),
		},
		Action: func(c *cli.Context) error {
			return serve(c.Context, "")
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the web api server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "listen address, defaults to :$PORT",
			},
		},
		Action: func(c *cli.Context) error {
			return serve(c.Context, c.String("listen"))
		},
	}
}

func serve(parent context.Context, listen string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	if listen == "" {
		listen = ":" + cfg.Port
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	go sweepSessions(ctx, a, cfg.SessionIdleTimeout)

	// Write timeout covers a cold directions call plus geocoding retries.
	srv := &http.Server{
		Addr:              listen,
		Handler:           api.NewRouter(a.Places, a.Sessions),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", listen).Msg("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func sweepSessions(ctx context.Context, a *app.App, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}

	ticker := time.NewTicker(maxIdle / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Sessions.Sweep(maxIdle)
		}
	}
}
