package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/agentx-labs/modreg/internal/controller"
	"github.com/agentx-labs/modreg/internal/registry"
	"github.com/spf13/cobra"
)

var (
	listTypes []string
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged modules",
	Long: `List the modules in the persisted registry, optionally restricted to one or
more module types. Run 'refresh' first to rescan the project.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringSliceVar(&listTypes, "types", nil, "Filter by module type (core, manager, shared, feature, level, thirdparty, extension)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctrl, _, err := newController()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	return emit(out, ctrl.ListModules(listTypes), listJSON, func(l *controller.ModuleList) error {
		if l.Count == 0 {
			fmt.Fprintln(out, "No modules cataloged.")
			return nil
		}
		return printModuleTable(out, l.Modules)
	})
}

func printModuleTable(out io.Writer, modules []registry.Module) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TYPE\tNAME\tVERSION\tDEPS\tPATH")
	for _, m := range modules {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", m.Type, m.Name, dash(m.Version), len(m.Dependencies), m.Path)
	}
	return w.Flush()
}
