package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/cablesim/internal/analysis"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sweep"
	"github.com/san-kum/cablesim/internal/viz"
)

const (
	background  = "#0a0a0a"
	theoryColor = "#00ccff"
	simColor    = "#ff4444"
	guideColor  = "#666688"
	textColor   = "#cccccc"
)

type point struct{ X, Y float64 }

// frame maps data coordinates onto an SVG viewport with 10% padding.
type frame struct {
	minX, maxX, minY, maxY float64
	width, height          int
}

func newFrame(points []point, width, height int) frame {
	f := frame{
		minX:   math.Inf(1),
		maxX:   math.Inf(-1),
		minY:   math.Inf(1),
		maxY:   math.Inf(-1),
		width:  width,
		height: height,
	}
	for _, p := range points {
		f.minX, f.maxX = math.Min(f.minX, p.X), math.Max(f.maxX, p.X)
		f.minY, f.maxY = math.Min(f.minY, p.Y), math.Max(f.maxY, p.Y)
	}

	rangeX, rangeY := f.maxX-f.minX, f.maxY-f.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	f.minX -= rangeX * 0.1
	f.maxX += rangeX * 0.1
	f.minY -= rangeY * 0.1
	f.maxY += rangeY * 0.1
	return f
}

func (f frame) project(p point) (x, y float64) {
	x = (p.X - f.minX) / (f.maxX - f.minX) * float64(f.width)
	y = float64(f.height) - (p.Y-f.minY)/(f.maxY-f.minY)*float64(f.height)
	return x, y
}

func (f frame) path(points []point, stroke string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
	for i, p := range points {
		x, y := f.project(p)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>` + "\n")
	return sb.String()
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// SweepToSVG plots the theoretical curve as a line and the simulated
// velocities as markers, with a dashed guide at the critical threshold.
// Failed runs are drawn hollow.
func SweepToSVG(results []sweep.Result, width, height int) string {
	if len(results) == 0 {
		return ""
	}

	theory := make([]point, len(results))
	all := make([]point, 0, 2*len(results)+2)
	for i, r := range results {
		theory[i] = point{r.Alpha, r.Theoretical}
		all = append(all, theory[i], point{r.Alpha, r.Simulated})
	}
	all = append(all, point{results[0].Alpha, 0})
	f := newFrame(all, width, height)

	var sb strings.Builder
	header(&sb, width, height)

	if ac := analysis.CriticalThreshold; ac >= f.minX && ac <= f.maxX {
		x, _ := f.project(point{ac, 0})
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="0" x2="%.1f" y2="%d" stroke="%s" stroke-dasharray="4,4"/>`+"\n",
			x, x, height, guideColor)
	}
	x0, y0 := f.project(point{f.minX, 0})
	x1, _ := f.project(point{f.maxX, 0})
	fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n", x0, y0, x1, y0, guideColor)

	if len(theory) > 1 {
		sb.WriteString(f.path(theory, theoryColor))
	}

	for _, r := range results {
		x, y := f.project(point{r.Alpha, r.Simulated})
		fill := simColor
		if !r.Propagated {
			fill = "none"
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s" stroke="%s"/>`+"\n", x, y, fill, simColor)
	}

	fmt.Fprintf(&sb, `<text x="8" y="16" fill="%s" font-family="monospace" font-size="12">velocity vs alpha: theory (line), simulation (dots)</text>`+"\n", textColor)
	sb.WriteString("</svg>")
	return sb.String()
}

// FrontsToSVG draws a front trajectory, position against time.
func FrontsToSVG(samples []dynamo.FrontSample, width, height int, strokeColor string) string {
	if len(samples) < 2 {
		return ""
	}

	points := make([]point, len(samples))
	for i, s := range samples {
		points[i] = point{s.Time, s.Position}
	}
	f := newFrame(points, width, height)

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(f.path(points, strokeColor))
	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := int(float64(canvas.Width) * scale * 2)
	height := int(float64(canvas.Height) * scale * 4)

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", simColor)

	bits := [4][2]rune{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	radius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&bits[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, radius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
