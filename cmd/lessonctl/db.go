package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/a1-lessons/internal/adapter/postgres"
	modulerepo "github.com/heartmarshall/a1-lessons/internal/adapter/postgres/module"
	"github.com/heartmarshall/a1-lessons/internal/domain"
	"github.com/heartmarshall/a1-lessons/internal/service/publish"
)

func (c *cli) dbUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db-up",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.Database.RequireDSN(); err != nil {
				return err
			}
			ctx := cmd.Context()
			n, err := postgres.MigrateUp(ctx, c.logger(ctx), c.cfg.Database.DSN)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migrations applied\n", n)
			return nil
		},
	}
}

func (c *cli) publishCmd() *cobra.Command {
	var (
		dryRun bool
		prune  bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upsert changed modules into PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), c.cfg.Publish.Timeout)
			defer cancel()

			svc, err := c.store(ctx)
			if err != nil {
				return err
			}

			pool, err := postgres.NewPool(ctx, c.logger(ctx), c.cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			pub := publish.NewService(c.logger(ctx), modulerepo.New(pool), postgres.NewSerializableTxManager(pool))
			res, err := pub.Run(ctx, svc.Modules(), publish.Options{
				DryRun:       dryRun || c.cfg.Publish.DryRun,
				PruneMissing: prune || c.cfg.Publish.PruneMissing,
				Strict:       strict || c.cfg.Content.Strict,
			})

			out := cmd.OutOrStdout()
			if res != nil {
				for _, i := range res.Issues {
					fmt.Fprintf(out, "%-7s %s\n", i.Severity, i)
				}
			}
			if err != nil {
				return err
			}

			mode := ""
			if res.Run.DryRun {
				mode = " (dry run)"
			}
			fmt.Fprintf(out, "run %s%s: %d modules, %d upserted, %d unchanged, %d deleted\n",
				res.Run.ID, mode, res.Run.ModuleCount, res.Run.Upserted, res.Run.Unchanged, res.Run.Deleted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing")
	cmd.Flags().BoolVar(&prune, "prune", false, "delete published modules missing from the store")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on validation warnings too")
	return cmd
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Compare the content store with what is published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.store(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return c.withRepo(ctx, func(repo *modulerepo.Repo) error {
				run, err := repo.LastPublishRun(ctx)
				switch {
				case errors.Is(err, domain.ErrNotFound):
					fmt.Fprintln(out, "never published")
				case err != nil:
					return err
				default:
					fmt.Fprintf(out, "last run %s at %s: %d upserted, %d unchanged, %d deleted (dry run: %t)\n",
						run.ID, run.FinishedAt.Format(time.RFC3339), run.Upserted, run.Unchanged, run.Deleted, run.DryRun)
				}

				stored, err := repo.Fingerprints(ctx)
				if err != nil {
					return err
				}

				var pending []int
				for _, m := range svc.Modules() {
					rec, err := publish.NewRecord(m)
					if err != nil {
						return err
					}
					if stored[m.ID] != rec.Fingerprint {
						pending = append(pending, m.ID)
					}
				}
				fmt.Fprintf(out, "%d modules, %d published, %d pending %v\n", svc.Len(), len(stored), len(pending), pending)
				return nil
			})
		},
	}
}
