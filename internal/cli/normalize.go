package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"voxdesk/internal/models"
	"voxdesk/internal/service"
)

func newNormalizeCommand(_ *app) *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "normalize <phone>",
		Short: "Normalize and validate a phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := service.Normalize(models.NormalizeRequest{Phone: args[0], Country: country})
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "value: %s\n", res.Value)
			if res.Region != "" {
				fmt.Fprintf(out, "region: %s\n", res.Region)
			}
			fmt.Fprintf(out, "dialable: %t\n", res.Dialable)
			if res.Error != "" {
				fmt.Fprintf(out, "error: %s\n", res.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&country, "country", "us", "two-letter country hint")
	return cmd
}
