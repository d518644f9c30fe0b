package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cablesim/internal/analysis"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sim"
	"github.com/san-kum/cablesim/internal/sweep"
)

// PlotSweep draws theoretical and simulated velocity against the sweep index.
func PlotSweep(results []sweep.Result, width, height int) string {
	if len(results) == 0 {
		return Subtle.Render("(empty sweep)")
	}

	alphas, simulated, theoretical := sweep.Series(results)
	caption := fmt.Sprintf("velocity vs alpha (%.3g .. %.3g)", alphas[0], alphas[len(alphas)-1])

	return asciigraph.PlotMany([][]float64{theoretical, simulated},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.SeriesLegends("theory", "simulation"),
		asciigraph.Caption(caption),
	)
}

// PlotProfile draws one voltage snapshot along the cable.
func PlotProfile(u dynamo.Field, width, height int, caption string) string {
	if len(u) == 0 {
		return Subtle.Render("(empty profile)")
	}
	return asciigraph.Plot(u,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Caption(caption),
	)
}

// PlotFronts draws front position per sample.
func PlotFronts(samples []dynamo.FrontSample, width, height int) string {
	if len(samples) == 0 {
		return Subtle.Render("(no front samples)")
	}
	pos := make([]float64, len(samples))
	for i, s := range samples {
		pos[i] = s.Position
	}
	caption := fmt.Sprintf("front position, t=%.2f .. %.2f", samples[0].Time, samples[len(samples)-1].Time)
	return asciigraph.Plot(pos,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// SweepTable lists every sweep point with its relative error.
func SweepTable(results []sweep.Result) string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%8s  %10s  %10s  %8s  %7s", "alpha", "simulated", "theory", "rel.err", "samples")))
	b.WriteString("\n")

	for _, r := range results {
		status := StatusOK
		rel := "-"
		switch {
		case r.Alpha >= analysis.CriticalThreshold:
			status = Subtle
		case !r.Propagated:
			status = StatusFail
		default:
			e := analysis.RelativeError(r.Simulated, r.Theoretical)
			rel = fmt.Sprintf("%.2f%%", 100*e)
			if e > 0.1 {
				status = StatusWarn
			}
		}
		row := fmt.Sprintf("%8.4f  %10.5f  %10.5f  %8s  %7d", r.Alpha, r.Simulated, r.Theoretical, rel, r.Samples)
		b.WriteString(status.Render(row))
		b.WriteString("\n")
	}

	return b.String()
}

// RunSummary renders the headline numbers of one run in a panel.
func RunSummary(r *sim.Result) string {
	metric := func(label, value string) string {
		return MetricLabel.Render(fmt.Sprintf("%-14s", label)) + MetricValue.Render(value)
	}

	status := StatusOK.Render("propagated")
	if !r.Propagated {
		status = StatusFail.Render("no propagation")
	}

	lines := []string{
		Title.Render(fmt.Sprintf("alpha = %.4f", r.Alpha)) + "  " + status,
		metric("velocity", fmt.Sprintf("%.5f cm/ms", r.Velocity)),
		metric("theory", fmt.Sprintf("%.5f cm/ms", r.Theoretical)),
	}
	if r.Propagated {
		lines = append(lines,
			metric("rel. error", fmt.Sprintf("%.2f%%", 100*r.RelativeError())),
			metric("fit R^2", fmt.Sprintf("%.6f", r.Fit.RSquared)))
	}
	lines = append(lines,
		metric("samples", fmt.Sprintf("%d", len(r.Samples))),
		metric("steps", fmt.Sprintf("%d", r.StepsTaken)),
		metric("elapsed", r.Elapsed.Round(time.Millisecond).String()))
	names := make([]string, 0, len(r.Metrics))
	for name := range r.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, metric(name, fmt.Sprintf("%.5g", r.Metrics[name])))
	}
	if r.MultiFront > 0 {
		lines = append(lines, StatusWarn.Render(fmt.Sprintf("%d samples skipped (several fronts)", r.MultiFront)))
	}
	if len(r.Final) > 0 {
		lines = append(lines, metric("final u", Sparkline(r.Final, 40, 0, 1)))
	}

	return Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
