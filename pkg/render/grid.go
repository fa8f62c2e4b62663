package render

import (
	"strings"

	"github.com/matzehuels/floatplace/pkg/geom"
)

// Cell is what a grid cell shows. Later layers paint over earlier ones.
type Cell rune

const (
	CellEmpty     Cell = '.'
	CellElement   Cell = ':'
	CellClip      Cell = '#'
	CellReference Cell = 'R'
	CellFloating  Cell = 'F'
	CellHidden    Cell = 'f'
	CellArrow     Cell = 'A'
)

// MaxGridSize is the largest number of columns or rows a grid has.
const MaxGridSize = 1000

// Grid is a character rendering of a frame's viewport.
type Grid struct {
	Cols, Rows int
	cells      []Cell
}

// NewGrid samples the frame on a cols x rows grid. A cell takes the colour
// of the topmost rect containing its centre; rects smaller than a cell
// still mark the cell under their centre. cols and rows are clamped to
// [1, MaxGridSize].
func NewGrid(f Frame, cols, rows int) *Grid {
	cols = min(max(1, cols), MaxGridSize)
	rows = min(max(1, rows), MaxGridSize)
	g := &Grid{Cols: cols, Rows: rows, cells: make([]Cell, cols*rows)}
	for i := range g.cells {
		g.cells[i] = CellEmpty
	}

	cw := f.Viewport.Width / float64(cols)
	ch := f.Viewport.Height / float64(rows)
	paint := func(r geom.Rect, c Cell, outline bool) {
		if cw <= 0 || ch <= 0 {
			return
		}
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				x := f.Viewport.X + (float64(col)+0.5)*cw
				y := f.Viewport.Y + (float64(row)+0.5)*ch
				if !r.Contains(x, y) {
					continue
				}
				if outline && !onEdge(r, x, y, cw, ch) {
					continue
				}
				g.cells[row*cols+col] = c
			}
		}
		// keep small rects visible
		col := int((r.X + r.Width/2 - f.Viewport.X) / cw)
		row := int((r.Y + r.Height/2 - f.Viewport.Y) / ch)
		if col >= 0 && col < cols && row >= 0 && row < rows && !outline {
			g.cells[row*cols+col] = c
		}
	}

	for _, n := range f.Elements {
		if n.Rect == f.Reference {
			continue
		}
		if n.Clip {
			paint(n.Rect, CellClip, true)
		} else {
			paint(n.Rect, CellElement, false)
		}
	}
	paint(f.Reference, CellReference, false)
	if f.Hidden {
		paint(f.Floating, CellHidden, false)
	} else {
		paint(f.Floating, CellFloating, false)
	}
	if f.Arrow != nil {
		paint(*f.Arrow, CellArrow, false)
	}
	return g
}

// onEdge reports whether the cell centred at (x, y) touches r's border.
func onEdge(r geom.Rect, x, y, cw, ch float64) bool {
	return x-cw < r.X || x+cw > r.X+r.Width || y-ch < r.Y || y+ch > r.Y+r.Height
}

// At returns the cell at col, row.
func (g *Grid) At(col, row int) Cell {
	return g.cells[row*g.Cols+col]
}

// Lines returns one string per row.
func (g *Grid) Lines() []string {
	lines := make([]string, g.Rows)
	for row := 0; row < g.Rows; row++ {
		var sb strings.Builder
		for col := 0; col < g.Cols; col++ {
			sb.WriteRune(rune(g.At(col, row)))
		}
		lines[row] = sb.String()
	}
	return lines
}

func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n") + "\n"
}
