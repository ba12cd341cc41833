package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/a1-lessons/internal/app"
	"github.com/heartmarshall/a1-lessons/internal/domain"
	"github.com/heartmarshall/a1-lessons/internal/service/export"
	"github.com/heartmarshall/a1-lessons/internal/service/migrate"
)

func (c *cli) importLegacyCmd() *cobra.Command {
	var (
		in     string
		outDir string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import-legacy",
		Short: "Convert a legacy MODULE_<N>_DATA export into module_NN.yaml files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := migrate.NewService(c.logger(ctx)).RunFile(ctx, in, migrate.Options{OutDir: outDir, DryRun: dryRun})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "exports: %d, migrated: %d, written: %d, unchanged: %d\n",
				res.Exports, res.Migrated, res.Written, res.Unchanged)
			for _, name := range res.Skipped {
				fmt.Fprintf(out, "skipped %s\n", name)
			}
			for _, m := range res.Mismatches {
				fmt.Fprintf(out, "MISMATCH %s (module %d)\n  legacy:   %s\n  migrated: %s\n",
					m.Export, m.ModuleID, m.Legacy, m.Migrated)
			}
			if !res.OK() {
				return fmt.Errorf("import-legacy: %d modules did not round-trip: %w", len(res.Mismatches), domain.ErrConflict)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "legacy export JSON file")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for module_NN.yaml files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "verify without writing files")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		outPath  string
		compress bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all modules as one JSON bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.store(ctx)
			if err != nil {
				return err
			}
			if err := domain.IssuesError(svc.ValidateAll(), c.cfg.Content.Strict); err != nil {
				return err
			}

			st, err := export.NewService(c.logger(ctx)).WriteFile(outPath, svc.Modules(), export.Options{
				Version:  app.Version,
				Compress: compress,
				Quality:  c.cfg.Export.BrotliQuality,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d modules, %d bytes\n", outPath, st.Modules, st.WrittenBytes)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "bundle file to write")
	cmd.Flags().BoolVar(&compress, "brotli", false, "brotli-compress the bundle")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
