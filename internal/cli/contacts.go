package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"voxdesk/internal/csvfile"
	"voxdesk/internal/service"
)

func newImportCommand(a *app) *cobra.Command {
	var tenant, user string
	var skip bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import contacts from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			db, repo, err := a.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := service.NewImportService(repo, a.log, nil).Import(cmd.Context(), service.ImportRequest{
				SubAccountID:   tenant,
				CreatedBy:      user,
				CSV:            string(data),
				SkipDuplicates: skip,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported: %d\nskipped: %d\nerrors: %d\n", res.ImportedCount, res.SkippedCount, res.ErrorCount)
			for _, e := range res.Errors {
				fmt.Fprintln(out, "  "+e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "sub-account id to import into")
	cmd.Flags().StringVar(&user, "user", "", "id recorded as the contacts' creator")
	cmd.Flags().BoolVar(&skip, "skip-duplicates", true, "skip rows whose email already exists")
	cmd.MarkFlagRequired("tenant")
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	var tenant, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export contacts to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				outPath = csvfile.ExportFilename(time.Now())
			}

			db, repo, err := a.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			if err := service.NewContactService(repo, a.log).Export(cmd.Context(), tenant, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", outPath, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "sub-account id to export")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default contacts_export_<date>.csv)")
	cmd.MarkFlagRequired("tenant")
	return cmd
}
