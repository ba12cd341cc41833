package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/a1-lessons/internal/adapter/contentfs"
	"github.com/heartmarshall/a1-lessons/internal/adapter/postgres"
	modulerepo "github.com/heartmarshall/a1-lessons/internal/adapter/postgres/module"
	"github.com/heartmarshall/a1-lessons/internal/app"
	"github.com/heartmarshall/a1-lessons/internal/config"
	"github.com/heartmarshall/a1-lessons/internal/content"
	"github.com/heartmarshall/a1-lessons/internal/domain"
	"github.com/heartmarshall/a1-lessons/internal/service/modules"
	"github.com/heartmarshall/a1-lessons/pkg/ctxutil"
)

// cli holds state shared by all subcommands after the root pre-run.
type cli struct {
	configPath string
	contentDir string

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "lessonctl",
		Short:         "Manage the A1 English lesson module store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := app.Bootstrap(c.configPath)
			if err != nil {
				return err
			}
			if c.contentDir != "" {
				cfg.Content.Dir = c.contentDir
			}
			c.cfg, c.log = cfg, logger

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(ctxutil.WithCommand(ctx, cmd.Name()))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $CONFIG_PATH or ./config.yaml)")
	root.PersistentFlags().StringVar(&c.contentDir, "content-dir", "", "read module_NN.yaml files from this directory instead of the embedded content")

	root.AddCommand(
		c.validateCmd(),
		c.listCmd(),
		c.showCmd(),
		c.importLegacyCmd(),
		c.exportCmd(),
		c.dbUpCmd(),
		c.publishCmd(),
		c.statusCmd(),
		versionCmd(),
	)
	return root
}

// logger returns the command logger carrying the command name.
func (c *cli) logger(ctx context.Context) *slog.Logger {
	return ctxutil.Logger(ctx, c.log)
}

type moduleSource interface {
	LoadModules(ctx context.Context) ([]domain.Module, error)
}

// store loads the module store from the configured content location.
func (c *cli) store(ctx context.Context) (*modules.Service, error) {
	return modules.NewService(ctx, c.logger(ctx), c.contentSource(ctx))
}

func (c *cli) contentSource(ctx context.Context) *contentfs.Loader {
	log := c.logger(ctx)
	if c.cfg.Content.Dir != "" {
		return contentfs.NewLoader(log, os.DirFS(c.cfg.Content.Dir), ".")
	}
	return contentfs.NewLoader(log, content.FS, content.Dir)
}

// source hands fn either the content files or, with fromDB, the published
// modules.
func (c *cli) source(ctx context.Context, fromDB bool, fn func(src moduleSource) error) error {
	if !fromDB {
		return fn(c.contentSource(ctx))
	}
	return c.withRepo(ctx, func(repo *modulerepo.Repo) error {
		return fn(repo)
	})
}

// withRepo connects to PostgreSQL for the duration of fn.
func (c *cli) withRepo(ctx context.Context, fn func(repo *modulerepo.Repo) error) error {
	pool, err := postgres.NewPool(ctx, c.logger(ctx), c.cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(modulerepo.New(pool))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), "lessonctl "+app.BuildVersion()+"\n")
			return err
		},
	}
}
