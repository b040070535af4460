package cli

import (
	"fmt"
	"os"

	"github.com/agentx-labs/modreg/internal/controller"
	"github.com/agentx-labs/modreg/internal/report"
	"github.com/spf13/cobra"
)

var (
	reportRender bool
	reportOutput string
	reportWidth  int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a markdown report of the registry",
	Long: `Generate a markdown report listing every module by type with its version,
descriptor status, dependency and dependent counts, followed by any
dependency entries that name no cataloged module.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, logger, err := newController()
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), ctrl.Report(), false, func(d *controller.ReportDoc) error {
			if reportOutput != "" {
				if err := os.WriteFile(reportOutput, []byte(d.Markdown), 0644); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				logger.Info("report written", "file", reportOutput)
				return nil
			}
			text := d.Markdown
			if reportRender {
				rendered, err := report.Render(d.Markdown, reportWidth)
				if err != nil {
					return err
				}
				text = rendered
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		})
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportRender, "render", false, "Style the report for the terminal")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write the markdown report to a file")
	reportCmd.Flags().IntVar(&reportWidth, "width", 100, "Wrap width for --render (0 disables wrapping)")
	rootCmd.AddCommand(reportCmd)
}
