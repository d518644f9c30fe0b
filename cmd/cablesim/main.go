package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	dataDir    string
	logLevel   string
	logFormat  string

	// model
	alpha     float64
	diffusion float64
	rateK     float64
	length    float64
	duration  float64
	dx        float64
	dt        float64

	// run
	stimulus    int
	sampleEvery int
	multiFront  string
	profiles    int
	kymograph   bool
	saveRun     bool
	svgPath     string

	// sweep
	points   int
	alphaMin float64
	alphaMax float64
	workers  int

	outputPath string
	benchNodes int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "cablesim",
		Short:        "travelling waves on an excitable cable",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "text or json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate one threshold and estimate the wave speed",
		Args:  cobra.NoArgs,
		RunE:  runSingle,
	}
	addModelFlags(runCmd)
	runCmd.Flags().Float64Var(&alpha, "alpha", 0.15, "excitation threshold")
	runCmd.Flags().IntVar(&profiles, "profiles", 0, "print this many voltage profiles")
	runCmd.Flags().BoolVar(&kymograph, "kymograph", false, "print a space-time picture of the excited region")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "store the run")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the front trajectory as SVG")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare simulated and theoretical speed over a threshold range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&points, "points", 15, "number of thresholds")
	sweepCmd.Flags().Float64Var(&alphaMin, "alpha-min", 0.0, "first threshold")
	sweepCmd.Flags().Float64Var(&alphaMax, "alpha-max", 0.5, "last threshold")
	sweepCmd.Flags().IntVar(&workers, "workers", 1, "thresholds simulated concurrently")
	sweepCmd.Flags().BoolVar(&saveRun, "save", false, "store the sweep")
	sweepCmd.Flags().StringVar(&svgPath, "svg", "", "write the comparison plot as SVG")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs and sweeps",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a stored run or sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a stored run or sweep as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored table to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the stepper serially and in parallel",
		Args:  cobra.NoArgs,
		RunE:  benchStepper,
	}
	benchCmd.Flags().IntVar(&benchNodes, "nodes", 20001, "cable nodes")

	rootCmd.AddCommand(runCmd, sweepCmd, listCmd, showCmd, exportSVGCmd, exportCSVCmd, exportJSONCmd, presetsCmd, benchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&diffusion, "diffusion", 1.0, "diffusion coefficient D (cm^2/ms)")
	cmd.Flags().Float64Var(&rateK, "k", 8.0, "reaction rate scale (1/ms)")
	cmd.Flags().Float64Var(&length, "length", 10.0, "cable length (cm)")
	cmd.Flags().Float64Var(&duration, "time", 40.0, "simulated time (ms)")
	cmd.Flags().Float64Var(&dx, "dx", 0.05, "spatial step (cm)")
	cmd.Flags().Float64Var(&dt, "dt", 1e-4, "time step (ms)")
	cmd.Flags().IntVar(&stimulus, "stimulus", 10, "stimulated nodes at the left end")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 500, "steps between front samples")
	cmd.Flags().StringVar(&multiFront, "multi-front", "skip", "skip, fail or ignore samples with several fronts")
}
