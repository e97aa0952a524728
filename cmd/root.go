package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/factory-sim/factory-sim/sim"
)

var (
	scenarioPath string // Path to the YAML scenario file
	logLevel     string // Log verbosity level
	timeDelta    int64  // Override for the scenario's time_delta
	strict       bool   // Wrap the store in the strict validating decorator
	debugMode    bool   // Enable scheduler invariant assertions
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "factory-sim",
	Short: "Step-wise simulator for production lines over a shared item store",
}

// runCmd loads a scenario, advances the simulation, and prints the
// resulting store and line states.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a production scenario",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if scenarioPath == "" {
			logrus.Fatalf("Scenario file not provided. Exiting simulation.")
		}
		scenario, err := sim.LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Unable to load scenario: %v", err)
		}
		_, itemStore, lines, err := scenario.Build()
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		delta := scenario.TimeDelta
		if timeDelta > 0 {
			delta = timeDelta
		}
		if delta <= 0 {
			logrus.Fatalf("Time delta must be positive (scenario or --time-delta)")
		}

		var store sim.Store[sim.ItemID] = itemStore
		if strict {
			store, err = sim.NewStrictItemStore[sim.ItemID](itemStore)
			if err != nil {
				logrus.Fatalf("Unable to wrap store: %v", err)
			}
		}

		logrus.Infof("Advancing %d lines by %d time units", len(lines), delta)
		remaining, err := sim.Update(lines, store, delta, debugMode)
		if err != nil {
			logrus.Fatalf("Update failed with %d units unconsumed: %v", remaining, err)
		}

		printSummary(scenario, store, lines)
	},
}

// printSummary reports stored amounts and line states in scenario
// declaration order.
func printSummary(scenario *sim.Scenario, store sim.Store[sim.ItemID], lines []*sim.ProductionLine[sim.ItemID]) {
	fmt.Println("Store:")
	for _, item := range scenario.Items {
		fmt.Printf("  %-24s %6d / %d\n", item.Name,
			store.GetStoredAmount(sim.ItemID(item.Name)), item.Capacity)
	}
	fmt.Println("Lines:")
	for i, line := range lines {
		fmt.Printf("  %-24s active=%d/%d progress=%d/%d\n", scenario.Lines[i].Recipe,
			line.ActiveProducers, line.TotalProducers,
			line.ProductionProgress, line.Recipe.Duration)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to YAML scenario file")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().Int64Var(&timeDelta, "time-delta", 0, "Time units to advance (overrides scenario time_delta)")
	runCmd.Flags().BoolVar(&strict, "strict", false, "Run against the strict validating store")
	runCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable scheduler invariant assertions")

	rootCmd.AddCommand(runCmd)
}
