package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/useradmin/cmd/app/commands"
	"github.com/allisson/useradmin/internal/app"
	"github.com/allisson/useradmin/internal/config"
)

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"f"},
	Value:   "text",
	Usage:   "Output format: 'text' or 'json'",
}

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Create a user locally and in Keycloak with the default temporary password",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true, Usage: "Login name"},
				&cli.StringFlag{Name: "first-name", Required: true, Usage: "Given name"},
				&cli.StringFlag{Name: "last-name", Required: true, Usage: "Family name"},
				&cli.StringFlag{
					Name:     "group",
					Aliases:  []string{"g"},
					Required: true,
					Usage:    "Group: 'administrators' or 'operators'",
				},
				&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Optional email address"},
				formatFlag,
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newUserContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				m, err := container.Mediator()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(ctx, m, container.Logger(), commands.CreateUserInput{
					Username:  cmd.String("username"),
					FirstName: cmd.String("first-name"),
					LastName:  cmd.String("last-name"),
					Group:     cmd.String("group"),
					Email:     cmd.String("email"),
				}, cmd.String("format"), commands.DefaultIO().Writer)
			},
		},
		{
			Name:  "list-users",
			Usage: "List users with optional group and username filters",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "page", Value: 1, Usage: "Page number, starting at 1"},
				&cli.IntFlag{Name: "page-size", Value: 10, Usage: "Users per page"},
				&cli.StringSliceFlag{Name: "group", Aliases: []string{"g"}, Usage: "Filter by group (repeatable)"},
				&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Filter by username substring"},
				formatFlag,
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newUserContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				m, err := container.Mediator()
				if err != nil {
					return err
				}

				return commands.RunListUsers(ctx, m, commands.ListUsersInput{
					Page:     int(cmd.Int("page")),
					PageSize: int(cmd.Int("page-size")),
					Groups:   cmd.StringSlice("group"),
					Username: cmd.String("username"),
				}, cmd.String("format"), commands.DefaultIO().Writer)
			},
		},
		{
			Name:  "reset-user-password",
			Usage: "Reset a user's Keycloak password to the default temporary password",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "id", Aliases: []string{"i"}, Required: true, Usage: "Local user id"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newUserContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				m, err := container.Mediator()
				if err != nil {
					return err
				}

				return commands.RunResetUserPassword(
					ctx, m, container.Logger(), cmd.Int64("id"), commands.DefaultIO().Writer,
				)
			},
		},
	}
}

// newUserContainer loads and validates the configuration for commands that
// reach the database and Keycloak.
func newUserContainer() (*app.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.NewContainer(cfg), nil
}
