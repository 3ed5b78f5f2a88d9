// Package main implements reasoner-demo, a command-line front end for the
// KIF forward-chaining reasoner. It never parses KIF text: every scenario
// is built through the Term constructors in pkg/reasoner, exactly as an
// embedding Go program would.
//
// # File Index
//
//   - main.go      - entry point, rootCmd, global flags
//   - scenario.go  - the six worked scenarios
//   - run.go       - runScenarioCmd, serveEventsCmd
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose   bool
	maxKBSize int
	workers   int
	queueCap  int
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reasoner-demo",
	Short: "Drive the KIF forward-chaining reasoner from the command line",
	Long: `reasoner-demo exercises a running reasoner engine the same way an
embedding application would: through SubmitPotentialAssertion, SubmitRule,
RetractByID/RetractByNoteID, Pause/Status, and an EventSink. It carries no
textual KIF parser; scenarios are assembled in Go.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewDevelopmentConfig()
		if !verbose {
			cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&maxKBSize, "max-kb-size", 65536, "maximum number of assertions the knowledge base retains")
	rootCmd.PersistentFlags().IntVar(&workers, "inference-workers", 0, "number of inference workers (0 = max(2, ncpu/2))")
	rootCmd.PersistentFlags().IntVar(&queueCap, "commit-queue-capacity", 10000, "commit queue buffer size")

	rootCmd.AddCommand(runScenarioCmd, serveEventsCmd, listScenariosCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the reasoner-demo version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("reasoner-demo (kifreasoner)")
	},
}

var listScenariosCmd = &cobra.Command{
	Use:   "list-scenarios",
	Short: "List the available scenario names",
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range scenarios {
			fmt.Printf("%-16s %s\n", s.Name, s.Description)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
