// Command stockctl is a command-line client for an inventory-management API:
// sign in once, then list, inspect, create, update, and delete catalog
// products, including multi-image upload and color tags.
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/stockctl/stockctl/api"
	"github.com/stockctl/stockctl/cliauth"
	"github.com/stockctl/stockctl/cliconfig"
	"github.com/stockctl/stockctl/clilog"
	"github.com/stockctl/stockctl/cliproduct"
	"github.com/stockctl/stockctl/tui"
)

const appName = "stockctl"

// app carries the dependencies assembled in the root Before hook, after
// global flags and config files have been resolved.
type app struct {
	client            *api.Client
	guard             *cliauth.Guard
	heartbeatInterval time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCommand() *cli.Command {
	a := &app{}
	manager := cliconfig.NewManager(appName)

	authCfg := &cliauth.Config{}
	productCfg := &cliproduct.Config{RunForm: tui.Run}

	return &cli.Command{
		Name:  appName,
		Usage: "inventory-management API client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "API base address (overrides config and " + cliconfig.EnvAPIURL + ")",
			},
			&cli.IntFlag{
				Name:  "verbosity",
				Usage: "log verbosity: 0 warnings, 1 info, 2 debug",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "emit logs as JSON",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := manager.Load()
			if err != nil {
				return ctx, err
			}
			if cmd.IsSet("api-url") {
				cfg.APIURL = cmd.String("api-url")
			}

			logger := clilog.New(clilog.LevelFromVerbosity(int(cmd.Int("verbosity"))), cmd.Bool("log-json"))

			store, err := buildStore(cfg)
			if err != nil {
				return ctx, err
			}

			a.guard = cliauth.NewGuard(ctx, store)
			a.client = api.NewClient(a.guard,
				api.WithBaseURL(cfg.APIURL),
				api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
				api.WithLogger(logger),
			)
			a.heartbeatInterval = time.Duration(cfg.HeartbeatSeconds) * time.Second

			authCfg.Auth = a.client
			authCfg.Guard = a.guard
			productCfg.Client = a.client
			return ctx, nil
		},
		Commands: []*cli.Command{
			cliauth.Commands(authCfg),
			cliproduct.Commands(productCfg),
			cliconfig.Commands(manager),
			statusCommand(a),
		},
	}
}

// buildStore selects session persistence per configuration. Keychain entries
// are scoped by API host so sessions against different backends coexist.
func buildStore(cfg cliconfig.Config) (cliauth.Store, error) {
	if path := os.Getenv("STOCKCTL_SESSION_FILE"); path != "" {
		return cliauth.NewFileStoreAt(path), nil
	}

	switch cfg.CredentialStore {
	case "file":
		return cliauth.NewFileStore(appName), nil
	case "keychain", "":
		account := ""
		if u, err := url.Parse(cfg.APIURL); err == nil {
			account = u.Host
		}
		return cliauth.NewKeychainStore(appName, account), nil
	default:
		return nil, fmt.Errorf("unknown credential_store %q", cfg.CredentialStore)
	}
}

// statusCommand probes backend reachability: once by default, continuously
// with --watch until interrupted.
func statusCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "check backend reachability",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "poll at the configured heartbeat interval until interrupted",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			report := func(reachable bool) {
				if reachable {
					_, _ = fmt.Fprintf(cmd.Writer, "%s backend online (%s)\n",
						time.Now().Format("15:04:05"), a.client.BaseURL())
				} else {
					_, _ = fmt.Fprintf(cmd.Writer, "%s backend unreachable (%s)\n",
						time.Now().Format("15:04:05"), a.client.BaseURL())
				}
			}

			if !cmd.Bool("watch") {
				report(a.client.Ping(ctx) == nil)
				return nil
			}

			hb := api.NewHeartbeat(a.client, a.heartbeatInterval, report)
			hb.Start(ctx)
			<-ctx.Done()
			hb.Stop()
			return nil
		},
	}
}
