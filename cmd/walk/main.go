package main

import (
	"campus-route-service/internal/adapters/geolocation"
	"campus-route-service/internal/app"
	"campus-route-service/internal/domain"
	"campus-route-service/internal/ports"
	"campus-route-service/internal/walk"
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "walk",
		Usage: "build a campus walking route in the terminal",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "lat",
				Usage: "latitude reported by the gps command",
			},
			&cli.Float64Flag{
				Name:  "lng",
				Usage: "longitude reported by the gps command",
			},
		},
		Action: func(c *cli.Context) error {
			var gps ports.GeolocationSource = geolocation.Unavailable{}
			if c.IsSet("lat") && c.IsSet("lng") {
				gps = geolocation.Fixed{Position: domain.Coordinates{Lat: c.Float64("lat"), Lng: c.Float64("lng")}}
			}
			return run(c.Context, gps)
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func run(parent context.Context, gps ports.GeolocationSource) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	orch, _, err := a.NewSession()
	if err != nil {
		return err
	}

	sh := &walk.Shell{Orchestrator: orch, GPS: gps, Out: os.Stdout}
	return sh.Run(ctx, os.Stdin)
}
