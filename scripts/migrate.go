package main

import (
	"context"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/urfave/cli/v2"

	"github.com/johnquangdev/earnings-transcripts/internal/infrastructure/database"
	"github.com/johnquangdev/earnings-transcripts/pkg/config"
)

// Usage: go run ./scripts/migrate.go [--down] [--max N] [--dir migrations]
func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "Apply or roll back the transcript metadata migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "down",
				Usage: "Roll back instead of applying",
			},
			&cli.IntFlag{
				Name:  "max",
				Usage: "Maximum number of migrations to run (0 = all)",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Migrations directory",
				Value: database.MigrationsDir,
			},
		},
		Action: func(c *cli.Context) error {
			// Load configuration
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := database.NewPostgresDB(context.Background(), cfg)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			direction := migrate.Up
			if c.Bool("down") {
				direction = migrate.Down
			}

			_, err = database.Migrate(db, c.String("dir"), direction, c.Int("max"))
			return err
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
}
