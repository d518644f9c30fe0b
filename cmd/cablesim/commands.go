package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/cablesim/internal/analysis"
	"github.com/san-kum/cablesim/internal/config"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/export"
	"github.com/san-kum/cablesim/internal/logger"
	"github.com/san-kum/cablesim/internal/metrics"
	"github.com/san-kum/cablesim/internal/physics"
	"github.com/san-kum/cablesim/internal/sim"
	"github.com/san-kum/cablesim/internal/storage"
	"github.com/san-kum/cablesim/internal/sweep"
	"github.com/san-kum/cablesim/internal/viz"
)

const (
	plotWidth     = 70
	kymographRows = 160
	svgWidth      = 800
	svgHeight     = 500
	trajectoryHue = "#00ff88"
)

type snapshot struct {
	t float64
	u dynamo.Field
}

func runSingle(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	model := cfg.Simulation()
	opts := cfg.RunOptions()

	grid, err := dynamo.NewGrid(model)
	if err != nil {
		return err
	}

	s := sim.New(model, opts)
	s.SetLogger(logger.Default)
	s.AddMetric(metrics.NewCharge(grid.Dx()))
	s.AddMetric(metrics.NewBounds(0, 1))
	s.AddMetric(metrics.NewActivation(grid.X(), grid.Length(), opts.FrontLevel, opts.Margin))

	var snaps []snapshot
	if profiles > 0 || kymograph {
		s.AddObserver(sim.ObserverFunc(func(t float64, u dynamo.Field) {
			snaps = append(snaps, snapshot{t: t, u: u.Clone()})
		}))
	}

	result, err := s.Run(cmd.Context(), model.Alpha)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Println(viz.RunSummary(result))
	fmt.Println(viz.PlotFronts(result.Samples, plotWidth, 10))

	if profiles > 0 && len(snaps) > 0 {
		n := min(profiles, len(snaps))
		for i := 0; i < n; i++ {
			snap := snaps[(len(snaps)-1)*(i+1)/n]
			fmt.Println(viz.PlotProfile(snap.u, plotWidth, 6, fmt.Sprintf("u(x) at t=%.2f ms", snap.t)))
			fmt.Println()
		}
	}

	if kymograph && len(snaps) > 0 {
		stride := (len(snaps) + kymographRows - 1) / kymographRows
		rows := make([]dynamo.Field, 0, kymographRows)
		for i := 0; i < len(snaps); i += stride {
			rows = append(rows, snaps[i].u)
		}
		fmt.Println(viz.Title.Render("space (right) vs time (down), u > front level"))
		fmt.Print(viz.Kymograph(rows, plotWidth, opts.FrontLevel))
	}

	if svgPath != "" {
		svg := export.FrontsToSVG(result.Samples, svgWidth, svgHeight, trajectoryHue)
		if svg == "" {
			return fmt.Errorf("not enough front samples for an SVG")
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	if saveRun {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.SaveRun(storage.NewMetadata(model, opts, preset), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	model := cfg.Simulation()
	opts := cfg.RunOptions()

	sw := sweep.New(model, opts).WithWorkers(cfg.Sweep.Workers)
	sw.SetLogger(logger.Default)

	alphas := cfg.Alphas()
	fmt.Printf("sweeping %d thresholds in [%.3f, %.3f] with %d worker(s)...\n",
		len(alphas), cfg.Sweep.AlphaMin, cfg.Sweep.AlphaMax, cfg.Sweep.Workers)
	start := time.Now()

	results, err := sw.Run(cmd.Context(), alphas)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("completed in %v\n\n", time.Since(start).Round(time.Millisecond))
	fmt.Println(viz.SweepTable(results))
	fmt.Println(viz.PlotSweep(results, plotWidth, 15))
	fmt.Printf("\nmax relative error (propagating, alpha < %.1f): %.2f%%\n",
		analysis.CriticalThreshold, 100*sweep.MaxRelativeError(results, 0, analysis.CriticalThreshold))

	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.SweepToSVG(results, svgWidth, svgHeight)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	if saveRun {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta := storage.NewMetadata(model, opts, preset)
		runID, err := st.Save(meta, results)
		if err != nil {
			return err
		}
		fmt.Printf("sweep id: %s\n", runID)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := openStore(cmd)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tALPHA\tDX\tDT\tSTIM\tRESULT")

	for _, run := range runs {
		alphaCol := fmt.Sprintf("%.4f", run.Alpha)
		resultCol := fmt.Sprintf("v=%.4f", run.Metrics["velocity"])
		if run.Kind == storage.KindSweep {
			alphaCol = "-"
			resultCol = fmt.Sprintf("%d pts, max err %.2f%%", int(run.Metrics["points"]), 100*run.Metrics["max_rel_error"])
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%g\t%d\t%s\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			alphaCol,
			run.Dx,
			run.Dt,
			run.StimulusPoints,
			resultCol,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := openStore(cmd)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	c := meta.Config()
	fmt.Println(viz.Title.Render(meta.ID))
	fmt.Printf("D=%g k=%g L=%g T=%g dx=%g dt=%g stimulus=%d sigma=%.3f\n\n",
		c.D, c.K, c.Length, c.Duration, c.Dx, c.Dt, meta.StimulusPoints, c.Sigma())

	switch meta.Kind {
	case storage.KindSweep:
		results, err := st.LoadSweep(runID)
		if err != nil {
			return err
		}
		fmt.Println(viz.SweepTable(results))
		fmt.Println(viz.PlotSweep(results, plotWidth, 15))
	case storage.KindRun:
		samples, err := st.LoadFronts(runID)
		if err != nil {
			return err
		}
		fmt.Printf("alpha=%.4f velocity=%.5f theory=%.5f R^2=%.6f\n\n",
			meta.Alpha, meta.Metrics["velocity"], meta.Metrics["theoretical"], meta.Metrics["r_squared"])
		fmt.Println(viz.PlotFronts(samples, plotWidth, 10))
	default:
		return fmt.Errorf("unknown run kind %q", meta.Kind)
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	data, err := openStore(cmd).Export(args[0])
	if err != nil {
		return err
	}

	var svg string
	if data.Metadata.Kind == storage.KindSweep {
		svg = export.SweepToSVG(data.Sweep, svgWidth, svgHeight)
	} else {
		svg = export.FrontsToSVG(data.Fronts, svgWidth, svgHeight, trajectoryHue)
	}
	if svg == "" {
		return fmt.Errorf("no data to export")
	}
	return writeOutput(outputPath, svg)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	data, err := openStore(cmd).Export(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

	if data.Metadata.Kind == storage.KindSweep {
		if err := w.Write([]string{"alpha", "simulated", "theoretical", "samples", "propagated"}); err != nil {
			return err
		}
		for _, r := range data.Sweep {
			row := []string{format(r.Alpha), format(r.Simulated), format(r.Theoretical), strconv.Itoa(r.Samples), strconv.FormatBool(r.Propagated)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}

	if err := w.Write([]string{"time", "position"}); err != nil {
		return err
	}
	for _, s := range data.Fronts {
		if err := w.Write([]string{format(s.Time), format(s.Position)}); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	data, err := openStore(cmd).Export(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, data)
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("available presets:")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Printf("  %-14s dx=%g dt=%g stimulus=%d alpha=[%g, %g]\n",
			name, p.Dx, p.Dt, p.Run.StimulusPoints, p.Sweep.AlphaMin, p.Sweep.AlphaMax)
	}
	return nil
}

func benchStepper(cmd *cobra.Command, args []string) error {
	if benchNodes < 3 {
		return fmt.Errorf("need at least 3 nodes, got %d", benchNodes)
	}

	model := dynamo.DefaultConfig()
	model.Length = float64(benchNodes-1) * model.Dx
	model.Duration = 200 * model.Dt

	grid, err := dynamo.NewGrid(model)
	if err != nil {
		return err
	}
	kin := physics.NewCubic(model.K, model.Alpha)

	fmt.Printf("stepping %d nodes for %d steps\n\n", grid.Nx(), grid.Nt())
	fmt.Printf("%-10s  %12s  %14s\n", "mode", "time_ms", "node-steps/s")

	for _, mode := range []struct {
		name      string
		threshold int
	}{
		{"serial", 0},
		{"parallel", 1},
	} {
		cable := physics.NewCable(grid, model.D, kin)
		cable.SetParallelThreshold(mode.threshold)
		cable.Stimulate(benchNodes/20, 1.0)

		start := time.Now()
		for n := 0; n < grid.Nt(); n++ {
			cable.Step()
		}
		elapsed := time.Since(start)

		rate := float64(grid.Nx()*grid.Nt()) / elapsed.Seconds()
		fmt.Printf("%-10s  %12.2f  %14.3e\n", mode.name, float64(elapsed.Microseconds())/1000, rate)
	}

	return nil
}
