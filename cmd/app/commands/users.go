package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/allisson/useradmin/internal/mediator"
	"github.com/allisson/useradmin/internal/pagination"
	"github.com/allisson/useradmin/internal/user/usecase"
)

// CreateUserInput carries the create-user flags. An empty Email means none.
type CreateUserInput struct {
	Username  string
	FirstName string
	LastName  string
	Group     string
	Email     string
}

// ListUsersInput carries the list-users flags.
type ListUsersInput struct {
	Page     int
	PageSize int
	Groups   []string
	Username string
}

// RunCreateUser dispatches a CreateUserCommand and prints the created user.
//
// Requirements: Database must be migrated and Keycloak reachable.
func RunCreateUser(
	ctx context.Context,
	m *mediator.Mediator,
	logger *slog.Logger,
	input CreateUserInput,
	format string,
	w io.Writer,
) error {
	logger.Info("creating user", slog.String("username", input.Username))

	cmd := usecase.CreateUserCommand{
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Group:     input.Group,
	}
	if input.Email != "" {
		cmd.Email = &input.Email
	}

	user, err := mediator.Send[usecase.CreateUserCommand, usecase.UserDTO](ctx, m, cmd)
	if err != nil {
		return commandError("create user", err)
	}

	logger.Info("user created", slog.Int64("id", user.ID), slog.String("username", user.Username))

	if format == "json" {
		return writeJSON(w, user)
	}
	_, _ = fmt.Fprintln(w, "User created successfully")
	writeUserText(w, user)
	_, _ = fmt.Fprintln(w, "\nThe user must change the temporary password at first login.")
	return nil
}

// RunListUsers dispatches a GetUsersQuery and prints one page of users.
func RunListUsers(ctx context.Context, m *mediator.Mediator, input ListUsersInput, format string, w io.Writer) error {
	page, err := mediator.Send[usecase.GetUsersQuery, pagination.PagedResult[usecase.UserDTO]](
		ctx, m, usecase.GetUsersQuery{
			Page:     input.Page,
			PageSize: input.PageSize,
			Groups:   input.Groups,
			Username: input.Username,
		},
	)
	if err != nil {
		return commandError("list users", err)
	}

	if format == "json" {
		return writeJSON(w, page)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tGROUP\tEMAIL")
	for _, u := range page.Items {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, strings.TrimSpace(u.FirstName+" "+u.LastName), u.Group, emailText(u.Email))
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintf(w, "\nPage %d of %d (%d users)\n", page.Page, page.TotalPages, page.TotalCount)
	return nil
}

// RunResetUserPassword dispatches a ResetUserPasswordCommand.
func RunResetUserPassword(
	ctx context.Context,
	m *mediator.Mediator,
	logger *slog.Logger,
	id int64,
	w io.Writer,
) error {
	logger.Info("resetting user password", slog.Int64("id", id))

	_, err := mediator.Send[usecase.ResetUserPasswordCommand, mediator.Unit](
		ctx, m, usecase.ResetUserPasswordCommand{ID: id},
	)
	if err != nil {
		return commandError("reset user password", err)
	}

	_, _ = fmt.Fprintf(w, "Password of user %d reset to the default temporary password\n", id)
	return nil
}

func writeUserText(w io.Writer, u usecase.UserDTO) {
	_, _ = fmt.Fprintf(w, "ID:         %d\n", u.ID)
	_, _ = fmt.Fprintf(w, "Username:   %s\n", u.Username)
	_, _ = fmt.Fprintf(w, "First name: %s\n", u.FirstName)
	_, _ = fmt.Fprintf(w, "Last name:  %s\n", u.LastName)
	_, _ = fmt.Fprintf(w, "Group:      %s\n", u.Group)
	_, _ = fmt.Fprintf(w, "Email:      %s\n", emailText(u.Email))
}

func emailText(email *string) string {
	if email == nil {
		return "-"
	}
	return *email
}
