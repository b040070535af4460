package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/agentx-labs/modreg/internal/controller"
	"github.com/agentx-labs/modreg/internal/registry"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show registry statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := newController()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		return emit(out, ctrl.Status(), statusJSON, func(s *controller.RegistryStatus) error {
			renderStatus(out, s)
			return nil
		})
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

func renderStatus(out io.Writer, s *controller.RegistryStatus) {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("214")).
		Width(16)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	warnStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	row := func(label, value string) {
		fmt.Fprintln(out, labelStyle.Render(label)+valueStyle.Render(value))
	}

	fmt.Fprintln(out, headerStyle.Render("Module registry"))
	row("Project", s.ProjectRoot)
	row("Registry file", s.RegistryFile)
	lastScan := "never"
	if s.LastScan != nil {
		lastScan = s.LastScan.Format(time.RFC3339)
	}
	row("Last scan", lastScan)
	row("Modules", fmt.Sprintf("%d (%d with descriptor)", s.TotalModules, s.WithDescriptor))

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("By type"))
	for _, cat := range registry.CategoryNames() {
		row(cat, fmt.Sprintf("%d", s.ByType[cat]))
	}

	if len(s.InvalidVersions) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, warnStyle.Render("Non-semver versions"))
		for _, iv := range s.InvalidVersions {
			row(iv.Module, iv.Version)
		}
	}
}
