package main

import (
	"campus-route-service/internal/adapters/repositories"
	"campus-route-service/internal/app"
	"campus-route-service/internal/config"
	"campus-route-service/internal/platform/db"
	"database/sql"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "dbtool",
		Usage: "manage the campus place catalogue",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create the catalogue and cache tables",
				Action: func(c *cli.Context) error {
					return withDB(c, func(conn *sql.DB, dialect db.Dialect, _ *config.Config) error {
						log.Info().Str("driver", string(dialect)).Msg("Initializing database schema...")
						if err := repositories.InitSchema(c.Context, conn, dialect); err != nil {
							return err
						}
						log.Info().Msg("Schema ready.")
						return nil
					})
				},
			},
			{
				Name:  "seed",
				Usage: "load places from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "seed file, defaults to $SEED_PATH",
					},
				},
				Action: func(c *cli.Context) error {
					return withDB(c, func(conn *sql.DB, dialect db.Dialect, cfg *config.Config) error {
						path := c.String("file")
						if path == "" {
							path = cfg.SeedPath
						}

						if err := repositories.InitSchema(c.Context, conn, dialect); err != nil {
							return err
						}
						n, err := repositories.SeedFromJSON(c.Context, conn, dialect, path)
						if err != nil {
							return err
						}
						log.Info().Int("places", n).Str("path", path).Msg("Seeding complete.")
						return nil
					})
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func withDB(c *cli.Context, fn func(*sql.DB, db.Dialect, *config.Config) error) error {
	cfg, err := app.LoadStorageConfig()
	if err != nil {
		return err
	}

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}

	conn, err := db.Open(c.Context, dialect, cfg.DSN())
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn, dialect, cfg)
}
