package cli

import (
	"fmt"

	"github.com/getcook-dev/cook/internal/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs of a cookbook",
	Args:  noArgs("cook history [-f cookbook]"),
	RunE: func(cmd *cobra.Command, args []string) error {
		cb, _, err := loadCookbook()
		if err != nil {
			return err
		}

		records, err := history.List(cb.Name)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Printf("no runs recorded for cookbook %q\n", cb.Name)
			return nil
		}

		fmt.Printf("%-8s  %-20s  %-6s  %-19s  %s\n", "RUN", "RECIPE", "STATUS", "STARTED", "COOKS")
		for _, rr := range records {
			fmt.Printf("%-8s  %-20s  %-6s  %-19s  %d/%d\n",
				short(rr.RunID, 8),
				short(rr.MainRecipe, 20),
				rr.Status,
				rr.StartedAt.Format("2006-01-02 15:04:05"),
				rr.PeakWorkers,
				rr.Cap,
			)
		}
		return nil
	},
}
