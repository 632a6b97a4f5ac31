package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a cookbook",
	Args:  noArgs("cook validate [-f cookbook]"),
	RunE: func(cmd *cobra.Command, args []string) error {
		cb, _, err := loadCookbook()
		if err != nil {
			return err
		}
		fmt.Printf("cookbook %q is valid (%d recipes)\n", cb.Name, len(cb.Recipes))
		return nil
	},
}
