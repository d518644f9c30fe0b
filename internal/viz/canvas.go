package viz

import (
	"strings"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a Braille dot matrix of Width x Height cells, that is
// 2*Width x 4*Height dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set turns on the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine connects two dots with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Kymograph draws snapshots as rows of dots, time running down and space
// running right. A dot is set wherever u exceeds level, so a travelling
// front shows up as a slanted edge whose slope is the inverse speed.
func Kymograph(snapshots []dynamo.Field, width int, level float64) string {
	c := KymographCanvas(snapshots, width, level)
	if c == nil {
		return ""
	}
	return c.String()
}

// KymographCanvas is Kymograph without the final rendering. It returns nil
// when there is nothing to draw.
func KymographCanvas(snapshots []dynamo.Field, width int, level float64) *Canvas {
	if len(snapshots) == 0 || width < 1 {
		return nil
	}

	c := NewCanvas(width, (len(snapshots)+3)/4)
	dotsX := 2 * width

	for row, u := range snapshots {
		n := len(u)
		if n == 0 {
			continue
		}
		for x := 0; x < dotsX; x++ {
			i := x * (n - 1) / max(dotsX-1, 1)
			if u[i] > level {
				c.Set(x, row)
			}
		}
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
