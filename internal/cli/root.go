package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const rootUsage = "cook [-f cookbook] [-c max_cooks] [main_recipe]"

var (
	cookbookPath string
	maxCooks     int
	verbosity    int
)

var rootCmd = &cobra.Command{
	Use:   rootUsage,
	Short: "A parallel recipe builder",
	Long: "cook prepares a recipe and everything it depends on from a cookbook,\n" +
		"running independent recipes in parallel up to the configured cap.",
	Args: maxArgs(1, rootUsage),
	RunE: func(cmd *cobra.Command, args []string) error {
		mainName := ""
		if len(args) == 1 {
			mainName = args[0]
		}
		return prepare(mainName)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	log.SetReportTimestamp(true)
	log.SetTimeFormat("15:04:05 01/02/2006")
	styles := log.DefaultStyles()
	styles.Levels[log.ErrorLevel] = styles.Levels[log.ErrorLevel].SetString("ERROR").MaxWidth(5)
	log.SetStyles(styles)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase output verbosity (-v verbose, -vv debug)")
	rootCmd.PersistentFlags().StringVarP(&cookbookPath, "file", "f", "cookbook.ckb", "cookbook file to read")
	rootCmd.Flags().IntVarP(&maxCooks, "cooks", "c", 1, "maximum number of concurrent cooks")
	rootCmd.SetVersionTemplate("cook-{{.Version}}\n")

	// SilenceUsage keeps cobra from dumping usage after execution errors,
	// but unknown options and missing flag arguments must still print the
	// usage synopsis to stderr before the failing exit.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprint(os.Stderr, cmd.UsageString())
		return err
	})

	cobra.EnableCommandSorting = false
	cobra.OnInitialize(initVerbosity)

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(historyCmd)
}

func initVerbosity() {
	if verbosity >= 2 {
		log.SetLevel(log.DebugLevel)
		log.Debug("debug logging enabled")
	}
}

// SetVersion sets the version string displayed by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
