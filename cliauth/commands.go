package cliauth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

// ErrPasswordTooShort is returned by signup before any network call is made.
var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

const minPasswordLength = 8

// Config assembles the auth command suite's collaborators.
type Config struct {
	Auth  Authenticator
	Guard *Guard

	// Stdin is the source for interactive prompts. Defaults to os.Stdin.
	Stdin io.Reader
}

func (c *Config) stdin() io.Reader {
	if c.Stdin != nil {
		return c.Stdin
	}
	return os.Stdin
}

// Commands builds the "auth" parent command with login, signup, logout,
// status, and whoami subcommands.
func Commands(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "manage authentication",
		Commands: []*cli.Command{
			loginCommand(cfg),
			signupCommand(cfg),
			logoutCommand(cfg),
			statusCommand(cfg),
			whoamiCommand(cfg),
		},
	}
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "email",
			Usage: "account email address",
		},
		&cli.StringFlag{
			Name:  "password",
			Usage: "account password (prompted when omitted)",
		},
	}
}

// loginCommand builds the "auth login" subcommand. Missing flags are
// prompted for, so `stockctl auth login` with no arguments is interactive.
func loginCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store the session",
		Flags: credentialFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			email, password, err := resolveCredentials(cmd, cfg.stdin())
			if err != nil {
				return err
			}

			sess, err := cfg.Auth.SignIn(ctx, email, password)
			if err != nil {
				return err
			}
			if err := cfg.Guard.SetSession(ctx, sess); err != nil {
				return fmt.Errorf("failed to store session: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.Writer, "Logged in as %s.\n", email)
			return nil
		},
	}
}

// signupCommand builds the "auth signup" subcommand. The password length rule
// is enforced before dispatch; a short password never reaches the network.
func signupCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "register a new account",
		Flags: credentialFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			email, password, err := resolveCredentials(cmd, cfg.stdin())
			if err != nil {
				return err
			}
			if len(password) < minPasswordLength {
				return ErrPasswordTooShort
			}

			if err := cfg.Auth.SignUp(ctx, email, password); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.Writer, "Account created. Run `stockctl auth login` to sign in.")
			return nil
		},
	}
}

// logoutCommand builds the "auth logout" subcommand.
func logoutCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "remove the stored session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := cfg.Guard.Logout(ctx); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.Writer, "Logged out successfully.")
			return nil
		},
	}
}

// statusCommand builds the "auth status" subcommand, reporting on the stored
// session without contacting the backend.
func statusCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "show local authentication status",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sess, err := cfg.Guard.CurrentSession(ctx)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					_, _ = fmt.Fprintln(cmd.Writer, "Not authenticated.")
					return nil
				}
				if errors.Is(err, ErrCorruptSession) {
					_, _ = fmt.Fprintln(cmd.Writer, "Stored credentials are corrupted. Run `stockctl auth login`.")
					return nil
				}
				return err
			}

			var lines []string
			lines = append(lines, "Status: Authenticated")
			if !sess.SavedAt.IsZero() {
				lines = append(lines, fmt.Sprintf("Logged in at: %s", sess.SavedAt.Format("2006-01-02 15:04:05")))
			}
			if sess.RefreshToken != "" {
				lines = append(lines, "Refresh token: Available")
			}
			_, _ = fmt.Fprintln(cmd.Writer, strings.Join(lines, "\n"))
			return nil
		},
	}
}

// whoamiCommand builds the "auth whoami" subcommand. This is the bootstrap
// profile fetch: a 401 (or an absent token) has already invalidated the
// session by the time the error surfaces here.
func whoamiCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "fetch the profile behind the current session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ident, err := cfg.Auth.Profile(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.Writer, "User ID: %s\nEmail: %s\nRole: %s\n",
				ident.UserID, ident.Email, ident.Role)
			return nil
		},
	}
}

// resolveCredentials takes email and password from flags, prompting on stdin
// for whichever is missing.
func resolveCredentials(cmd *cli.Command, in io.Reader) (string, string, error) {
	reader := bufio.NewReader(in)

	email := cmd.String("email")
	if email == "" {
		_, _ = fmt.Fprint(cmd.Writer, "Email: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return "", "", errors.New("email is required")
	}

	password := cmd.String("password")
	if password == "" {
		_, _ = fmt.Fprint(cmd.Writer, "Password: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimSpace(line)
	}
	if password == "" {
		return "", "", errors.New("password is required")
	}

	return email, password, nil
}
