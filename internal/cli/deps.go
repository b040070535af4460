package cli

import (
	"fmt"

	"github.com/agentx-labs/modreg/internal/controller"
	"github.com/spf13/cobra"
)

var (
	depsJSON       bool
	dependentsJSON bool
)

var depsCmd = &cobra.Command{
	Use:   "deps <name>",
	Short: "List the dependencies a module declares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := newController()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		return emit(out, ctrl.GetDependencies(args[0]), depsJSON, func(d *controller.DependencyList) error {
			switch {
			case !d.Found:
				fmt.Fprintf(out, "Module %q not found.\n", d.Module)
			case d.Count == 0:
				fmt.Fprintf(out, "%s declares no dependencies.\n", d.Module)
			default:
				for _, dep := range d.Dependencies {
					fmt.Fprintln(out, dep)
				}
			}
			return nil
		})
	},
}

var dependentsCmd = &cobra.Command{
	Use:   "dependents <reference>",
	Short: "List modules that depend on a module name or path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := newController()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		return emit(out, ctrl.FindDependents(args[0]), dependentsJSON, func(d *controller.DependentList) error {
			if d.Count == 0 {
				fmt.Fprintf(out, "No modules depend on %q.\n", d.Reference)
				return nil
			}
			return printModuleTable(out, d.Dependents)
		})
	},
}

func init() {
	depsCmd.Flags().BoolVar(&depsJSON, "json", false, "Output in JSON format")
	dependentsCmd.Flags().BoolVar(&dependentsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(dependentsCmd)
}
