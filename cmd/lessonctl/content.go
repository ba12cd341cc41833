package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	modulerepo "github.com/heartmarshall/a1-lessons/internal/adapter/postgres/module"
	"github.com/heartmarshall/a1-lessons/internal/domain"
	"github.com/heartmarshall/a1-lessons/internal/service/modules"
)

func (c *cli) validateCmd() *cobra.Command {
	var (
		strict bool
		fromDB bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every module against the content rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var svc *modules.Service
			err := c.source(ctx, fromDB, func(src moduleSource) error {
				var err error
				svc, err = modules.NewService(ctx, c.logger(ctx), src)
				return err
			})
			if err != nil {
				return err
			}

			issues := svc.ValidateAll()
			out := cmd.OutOrStdout()
			for _, i := range issues {
				fmt.Fprintf(out, "%-7s %s\n", i.Severity, i)
			}

			st := svc.Stats()
			c.logger(ctx).Info("validation finished",
				slog.Int("modules", st.Modules),
				slog.Int("issues", len(issues)),
			)
			if err := domain.IssuesError(issues, strict || c.cfg.Content.Strict); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d modules OK\n", st.Modules)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on warnings too")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "validate published modules in PostgreSQL")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var fromDB bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List module ids and titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var summaries []domain.ModuleSummary
			if fromDB {
				err := c.withRepo(ctx, func(repo *modulerepo.Repo) error {
					var err error
					summaries, err = repo.ListSummaries(ctx)
					return err
				})
				if err != nil {
					return err
				}
			} else {
				svc, err := c.store(ctx)
				if err != nil {
					return err
				}
				summaries = svc.ListModules()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tDESCRIPTION")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.Title, s.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&fromDB, "from-db", false, "list published modules from PostgreSQL")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	var fromDB bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one module as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return domain.NewValidationError("id", fmt.Sprintf("%q is not a module number", args[0]))
			}

			ctx := cmd.Context()
			var m *domain.Module
			if fromDB {
				err = c.withRepo(ctx, func(repo *modulerepo.Repo) error {
					m, err = repo.GetByID(ctx, id)
					return err
				})
			} else {
				var svc *modules.Service
				if svc, err = c.store(ctx); err == nil {
					m, err = svc.GetModule(id)
				}
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		},
	}

	cmd.Flags().BoolVar(&fromDB, "from-db", false, "read the published module from PostgreSQL")
	return cmd
}
