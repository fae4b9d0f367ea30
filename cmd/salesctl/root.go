package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/totegamma/salesdesk"
	"github.com/totegamma/salesdesk/client"
	"github.com/totegamma/salesdesk/credential"
	"github.com/totegamma/salesdesk/environment"
	"github.com/totegamma/salesdesk/internal/infra/database"
	"github.com/totegamma/salesdesk/internal/utils/logger"
)

// salesctl embeds the client the way a browser extension does, so it
// identifies as an extension unless told otherwise.
const defaultExtensionID = "salesctl"

type options struct {
	backendURL    string
	origin        string
	extensionID   string
	web           bool
	store         string
	storePath     string
	redisAddr     string
	redisDB       int
	memcachedAddr string
	timeout       time.Duration
	verbose       bool
}

type app struct {
	client  *client.Client
	session *client.Session
	closers []func()
}

func (a *app) print(cmd *cobra.Command, v any) {
	salesdesk.JsonPrint(cmd.OutOrStdout(), v)
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	a := &app{}

	cmd := &cobra.Command{
		Use:   "salesctl",
		Short: "Command line client for the salesdesk API",
		Long: `salesctl talks to the salesdesk backend the same way the browser
extension does: it logs in directly against the backend and keeps the bearer
token in a local store.

Example usage:
  salesctl login --email ana@example.com --password secret
  salesctl me
  salesctl clientes list --limit 20
  salesctl logout`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context(), opts, cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			for _, fn := range a.closers {
				fn()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.backendURL, "backend", envOr("BACKEND_API_URL", "http://localhost:8000"), "backend API base url")
	flags.StringVar(&opts.origin, "origin", os.Getenv("SALESDESK_ORIGIN"), "web application origin (web mode)")
	flags.StringVar(&opts.extensionID, "extension-id", envOr(environment.ExtensionIDEnv, defaultExtensionID), "extension identifier reported by the host")
	flags.BoolVar(&opts.web, "web", false, "act as a web page: cookie session through the origin's proxy")
	flags.StringVar(&opts.store, "store", "file", "token store: file, memory, redis or memcache")
	flags.StringVar(&opts.storePath, "store-path", "", "token file (default $XDG_CONFIG_HOME/salesdesk/storage.json)")
	flags.StringVar(&opts.redisAddr, "redis-addr", "localhost:6379", "redis address for --store redis")
	flags.IntVar(&opts.redisDB, "redis-db", 0, "redis database for --store redis")
	flags.StringVar(&opts.memcachedAddr, "memcached-addr", "localhost:11211", "memcached address for --store memcache")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newMeCmd(a),
		newDashboardCmd(a),
		newClientesCmd(a),
		newChamadasCmd(a),
		newVendasCmd(a),
		newHistoricoCmd(a),
		newSugestoesCmd(a),
	)
	return cmd
}

func (a *app) setup(ctx context.Context, opts *options, logOut io.Writer) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger.Init(logOut, level)

	var host environment.Host = environment.StaticHost(opts.extensionID)
	if opts.web {
		host = nil
	}
	mode := environment.Detect(host)

	var store credential.Store
	if mode == environment.ModeExtension {
		var err error
		store, err = a.openStore(ctx, opts)
		if err != nil {
			return err
		}
	} else if opts.origin == "" {
		return errors.New("--origin is required in web mode")
	}

	c, err := client.New(client.Config{
		BaseURL:   opts.backendURL,
		Origin:    opts.origin,
		Timeout:   opts.timeout,
		UserAgent: "salesctl",
	}, mode, credential.New(mode, store))
	if err != nil {
		return err
	}
	a.client = c
	a.session = client.NewSession(a.client)

	slog.DebugContext(
		ctx, "salesctl ready",
		slog.String("mode", mode.String()),
		slog.String("store", opts.store),
		slog.String("module", "salesctl"),
	)
	return nil
}

func (a *app) openStore(ctx context.Context, opts *options) (credential.Store, error) {
	switch opts.store {
	case "file":
		path := opts.storePath
		if path == "" {
			path = credential.DefaultFilePath()
		}
		return credential.NewFileStore(path), nil
	case "memory":
		return credential.NewMemoryStore(), nil
	case "redis":
		rdb, err := database.NewRedis(ctx, opts.redisAddr, os.Getenv("REDIS_PASSWORD"), opts.redisDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { rdb.Close() })
		return credential.NewRedisStore(rdb, "salesctl:"), nil
	case "memcache":
		mc, err := database.NewMemcached(opts.memcachedAddr)
		if err != nil {
			return nil, err
		}
		return credential.NewMemcacheStore(mc, "salesctl:"), nil
	default:
		return nil, errors.Errorf("unknown store %q", opts.store)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
