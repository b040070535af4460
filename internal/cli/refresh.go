package cli

import (
	"fmt"
	"time"

	"github.com/agentx-labs/modreg/internal/controller"
	"github.com/spf13/cobra"
)

var refreshJSON bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rescan the project and rebuild the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := newController()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		return emit(out, ctrl.Refresh(), refreshJSON, func(s *controller.RefreshSummary) error {
			c := s.Summary
			fmt.Fprintf(out, "Scanned %d modules (%d added, %d removed, %d unchanged) at %s\n",
				c.Total, c.Added, c.Removed, c.Unchanged, s.LastScan.Format(time.RFC3339))
			for _, name := range s.AddedModules {
				fmt.Fprintf(out, "  + %s\n", name)
			}
			for _, name := range s.RemovedModules {
				fmt.Fprintf(out, "  - %s\n", name)
			}
			for _, d := range s.Degraded {
				fmt.Fprintf(out, "  ! %s: %s\n", d.Module, d.Reason)
			}
			for _, sk := range s.Skipped {
				fmt.Fprintf(out, "  ? %s: %s\n", sk.Entry, sk.Reason)
			}
			return nil
		})
	},
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(refreshCmd)
}
