package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the recipes in a cookbook",
	Args:  noArgs("cook list [-f cookbook]"),
	RunE: func(cmd *cobra.Command, args []string) error {
		cb, _, err := loadCookbook()
		if err != nil {
			return err
		}

		maxName := len("NAME")
		for _, r := range cb.Recipes {
			if len(r.Name) > maxName {
				maxName = len(r.Name)
			}
		}

		fmt.Printf("%-*s  %5s  %s\n", maxName, "NAME", "TASKS", "DEPS")
		for _, r := range cb.Recipes {
			deps := "-"
			if len(r.Deps.Names) > 0 {
				deps = strings.Join(r.Deps.Names, ", ")
			}
			fmt.Printf("%-*s  %5d  %s\n", maxName, r.Name, len(r.Tasks), deps)
		}
		return nil
	},
}
