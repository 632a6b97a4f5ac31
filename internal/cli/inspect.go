package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <recipe>",
	Short: "Show detailed info about a recipe",
	Args:  exactArgs(1, "cook inspect <recipe> [-f cookbook]"),
	RunE: func(cmd *cobra.Command, args []string) error {
		cb, g, err := loadCookbook()
		if err != nil {
			return err
		}

		r, ok := g.Lookup(args[0])
		if !ok {
			return fmt.Errorf("recipe %q not found in cookbook %q", args[0], cookbookPath)
		}

		fmt.Printf("Name:       %s\n", r.Name)
		fmt.Printf("Cookbook:   %s\n", cb.Name)
		if len(r.Deps.Names) > 0 {
			fmt.Printf("Depends on: %s\n", strings.Join(r.Deps.Names, ", "))
		}
		if deps := g.Dependents[r.Name]; len(deps) > 0 {
			var names []string
			for _, d := range deps {
				names = append(names, d.Name)
			}
			fmt.Printf("Needed by:  %s\n", strings.Join(names, ", "))
		}
		fmt.Printf("Tasks:      %d\n", len(r.Tasks))
		for i, t := range r.Tasks {
			fmt.Printf("  %d. %s\n", i+1, t)
		}
		return nil
	},
}
