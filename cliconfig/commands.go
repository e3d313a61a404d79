package cliconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
)

var (
	// ErrInvalidArgument is returned when a command line argument is invalid.
	ErrInvalidArgument = errors.New("invalid argument format")

	// ErrKeyValueRequired is returned when at least one key=value pair is required.
	ErrKeyValueRequired = errors.New("at least one key=value pair required")

	// ErrExactlyOneKey is returned when exactly one key is required.
	ErrExactlyOneKey = errors.New("exactly one key required")
)

// Commands creates the config command suite with init, set, get, and list
// subcommands.
func Commands(manager *Manager) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "manage configuration",
		Commands: []*cli.Command{
			initCommand(manager),
			setCommand(manager),
			getCommand(manager),
			listCommand(manager),
		},
	}
}

func globalFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "global",
		Usage: "operate on the global config (~/.config/stockctl/config.yaml)",
	}
}

// initCommand creates the 'config init' command.
func initCommand(manager *Manager) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "initialize or edit a configuration file",
		Flags: []cli.Flag{
			globalFlag(),
			&cli.BoolFlag{
				Name:  "replace",
				Usage: "replace an existing config file with the stub template",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := manager.LocalPath()
			if cmd.Bool("global") {
				path = manager.GlobalPath()
			}

			fileExists := false
			if _, err := os.Stat(path); err == nil {
				fileExists = true
			}

			if fileExists && !cmd.Bool("replace") {
				return openEditor(ctx, path)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(Stub()), 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}
			return openEditor(ctx, path)
		},
	}
}

// setCommand creates the 'config set' command.
func setCommand(manager *Manager) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "set configuration values",
		ArgsUsage: "<key=value> [key=value...]",
		Flags:     []cli.Flag{globalFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return ErrKeyValueRequired
			}

			path := manager.LocalPath()
			if cmd.Bool("global") {
				path = manager.GlobalPath()
			}

			keyValues := make(map[string]string)
			for i := 0; i < cmd.Args().Len(); i++ {
				arg := cmd.Args().Get(i)
				parts := strings.SplitN(arg, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("%w: %s (expected key=value)", ErrInvalidArgument, arg)
				}
				keyValues[parts[0]] = parts[1]
			}

			if err := manager.SetValues(path, keyValues); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.Writer, "Set %d value(s) in %s\n", len(keyValues), path)
			return nil
		},
	}
}

// getCommand creates the 'config get' command.
func getCommand(manager *Manager) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "get a configuration value",
		ArgsUsage: "<key>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return ErrExactlyOneKey
			}

			val, err := manager.GetValue(cmd.Args().First())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.Writer, val)
			return nil
		},
	}
}

// listCommand creates the 'config list' command.
func listCommand(manager *Manager) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list all configuration values",
		Action: func(_ context.Context, cmd *cli.Command) error {
			values, err := manager.ListAll()
			if err != nil {
				return err
			}
			for _, kv := range values {
				_, _ = fmt.Fprintf(cmd.Writer, "%s: %s\n", kv[0], kv[1])
			}
			return nil
		},
	}
}

// openEditor opens the specified file in the user's preferred editor.
func openEditor(ctx context.Context, path string) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
