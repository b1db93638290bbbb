package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clinicsim/clinicsim/sim"
	"github.com/clinicsim/clinicsim/sim/api"
	"github.com/clinicsim/clinicsim/sim/scenario"
)

var (
	// CLI flags
	seed         int64  // Seed for deterministic simulation runs
	days         int    // Number of business days to simulate
	logLevel     string // Log verbosity level
	scenarioPath string // Path to the scenario YAML (empty = built-in demo)
	tickMinutes  int    // Simulated minutes advanced per tick
	autoBook     bool   // Book top suggestions at the start of every day
	listenAddr   string // serve: HTTP listen address
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "clinicsim",
	Short: "Discrete-time simulator for a day-structured therapy practice",
}

// buildPractice loads the scenario (or the built-in demo) and wires the
// practice.
func buildPractice() (*sim.Practice, *scenario.Spec, error) {
	var spec *scenario.Spec
	var err error
	if scenarioPath != "" {
		spec, err = scenario.Load(scenarioPath)
		if err != nil {
			return nil, nil, err
		}
	} else {
		spec = DefaultScenario()
	}

	// flag overrides win over the spec
	if seed != 0 {
		spec.Seed = seed
	}
	if days != 0 {
		spec.Days = days
	}

	cfg := spec.Config()
	if tickMinutes > 0 {
		cfg.Clock.MinutesPerTick = tickMinutes
	}
	state, err := spec.BuildState(cfg)
	if err != nil {
		return nil, nil, err
	}
	return sim.NewPractice(cfg, state, spec.Seed), spec, nil
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the practice simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		practice, spec, err := buildPractice()
		if err != nil {
			logrus.Fatalf("unable to build scenario: %v", err)
		}

		logrus.Infof("Starting simulation: seed=%d days=%d therapists=%d clients=%d",
			spec.Seed, spec.Days, len(spec.Therapists), len(spec.Clients))
		startTime := time.Now()

		for day := 0; day < spec.Days; day++ {
			if autoBook {
				booked := practice.AutoBook()
				logrus.Infof("day %d: auto-booked %d sessions", practice.Now().Day, booked)
			}
			practice.RunDays(1)
		}

		practice.Metrics().Print(spec.Days)
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// serveCmd runs the simulation behind a read-only HTTP surface.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve practice state and suggestions over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		practice, spec, err := buildPractice()
		if err != nil {
			logrus.Fatalf("unable to build scenario: %v", err)
		}
		practice.RunDays(spec.Days)

		srv := api.NewServer(practice)
		if err := srv.ListenAndServe(listenAddr); err != nil {
			logrus.Fatalf("server error: %v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, serveCmd} {
		c.Flags().Int64Var(&seed, "seed", 0, "Seed for deterministic runs (0 = scenario seed)")
		c.Flags().IntVar(&days, "days", 0, "Business days to simulate (0 = scenario days)")
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().StringVar(&scenarioPath, "scenario", "", "Path to scenario YAML (empty = built-in demo)")
		c.Flags().IntVar(&tickMinutes, "tick-minutes", 0, "Simulated minutes per tick (0 = config default)")
	}
	runCmd.Flags().BoolVar(&autoBook, "auto-book", true, "Book top suggestions at the start of every day")
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "HTTP listen address")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}
