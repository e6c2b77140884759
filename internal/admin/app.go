// Package admin implements the operator command line: creating admin
// accounts and blocking or listing users directly against the store.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/storefront/internal/server/services"
)

var ErrUnknownCommand = errors.New("unknown command")

const usage = `usage: storefront-admin <command> [arguments]

commands:
  create-admin [-email e] [-first name] [-last name]   create an admin account
  block <user-id>                                       block a user and end the session
  unblock <user-id>                                     unblock a user
  list-users                                            print all accounts
`

type App struct {
	sessions *services.SessionService
	users    *services.UserService
	in       *bufio.Reader
	out      io.Writer
}

func NewApp(sessions *services.SessionService, users *services.UserService, in io.Reader, out io.Writer) *App {
	return &App{sessions: sessions, users: users, in: bufio.NewReader(in), out: out}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUnknownCommand
	}

	switch args[0] {
	case "create-admin":
		return a.createAdmin(ctx, args[1:])
	case "block":
		return a.setBlocked(ctx, args[1:], true)
	case "unblock":
		return a.setBlocked(ctx, args[1:], false)
	case "list-users":
		return a.listUsers(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
}

func (a *App) createAdmin(ctx context.Context, args []string) error {
	var in services.RegisterInput

	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&in.Email, "email", "", "admin email")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if in.Email == "" {
		if in.Email, err = GetSimpleText(a.in, "Enter email", a.out); err != nil {
			return err
		}
	}
	if in.FirstName == "" {
		if in.FirstName, err = GetSimpleText(a.in, "Enter first name", a.out); err != nil {
			return err
		}
	}
	if in.Password, err = GetPassword(a.out); err != nil {
		return err
	}

	u, err := a.sessions.CreateAdmin(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "admin %s created with id %s\n", u.Email, u.ID)
	return nil
}

func (a *App) setBlocked(ctx context.Context, args []string, blocked bool) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected exactly one user id", ErrUnknownCommand)
	}
	id := args[0]

	var err error
	if blocked {
		err = a.users.Block(ctx, id)
	} else {
		err = a.users.Unblock(ctx, id)
	}
	if err != nil {
		return err
	}

	state := "unblocked"
	if blocked {
		state = "blocked"
	}
	fmt.Fprintf(a.out, "user %s %s\n", id, state)
	return nil
}

func (a *App) listUsers(ctx context.Context) error {
	list, err := a.users.ListUsers(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tROLE\tBLOCKED")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", u.ID, u.Email, u.Role, u.IsBlocked)
	}
	return tw.Flush()
}
