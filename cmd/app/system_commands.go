package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/useradmin/cmd/app/commands"
	"github.com/allisson/useradmin/internal/app"
	"github.com/allisson/useradmin/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "path",
					Aliases: []string{"p"},
					Value:   "migrations",
					Usage:   "Directory holding the postgresql and mysql migration folders",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(
					container.Logger(),
					cfg.DBDriver,
					cfg.DBConnectionString,
					cmd.String("path"),
				)
			},
		},
		{
			Name:  "seal-secret",
			Usage: "Encrypt a configuration secret with a KMS key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "kms-key-uri",
					Sources: cli.EnvVars("KMS_KEY_URI"),
					Usage:   "KMS key URI (gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://)",
				},
				&cli.StringFlag{
					Name:  "value",
					Usage: "Secret to seal; read from stdin when omitted",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunSealSecret(
					ctx,
					cmd.String("kms-key-uri"),
					cmd.String("value"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
