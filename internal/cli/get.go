package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/agentx-labs/modreg/internal/controller"
	"github.com/spf13/cobra"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show one module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := newController()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		return emit(out, ctrl.GetModule(args[0]), getJSON, func(l *controller.ModuleLookup) error {
			if !l.Found {
				fmt.Fprintf(out, "Module %q not found.\n", l.Name)
				return nil
			}
			m := l.Module
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", m.Name)
			fmt.Fprintf(w, "Type:\t%s\n", m.Type)
			fmt.Fprintf(w, "Path:\t%s\n", m.Path)
			fmt.Fprintf(w, "Descriptor:\t%t\n", m.HasDescriptor)
			fmt.Fprintf(w, "Version:\t%s\n", dash(m.Version))
			fmt.Fprintf(w, "Description:\t%s\n", dash(m.Description))
			fmt.Fprintf(w, "Assembly:\t%s\n", dash(m.Assembly))
			deps := "-"
			if len(m.Dependencies) > 0 {
				deps = strings.Join(m.Dependencies, ", ")
			}
			fmt.Fprintf(w, "Dependencies:\t%s\n", deps)
			return w.Flush()
		})
	},
}

func init() {
	getCmd.Flags().BoolVar(&getJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(getCmd)
}
