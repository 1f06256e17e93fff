package models

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"gridworld/astar"
)

// Renderer prints grids and paths to a console.
type Renderer struct {
	// Headers adds column letters and 1-based row numbers, and switches
	// positions to the same notation.
	Headers bool
	au      aurora.Aurora
}

func NewRenderer(headers, color bool) *Renderer {
	return &Renderer{Headers: headers, au: aurora.NewAurora(color)}
}

// FormatPoint renders p as "(row, col)", or "(row, Letter)" with headers.
func (r *Renderer) FormatPoint(p astar.Point) string {
	if r.Headers {
		return fmt.Sprintf("(%d, %c)", p.Row+1, 'A'+p.Col)
	}
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

func (r *Renderer) cell(snap astar.Snapshot, row, col int) interface{} {
	c := snap.Terrain[row][col]
	ch := string(rune(c))
	switch c {
	case astar.BLOCKED:
		if !snap.Visible[row][col] {
			return r.au.Magenta(ch)
		}
		return r.au.Red(ch)
	case astar.TRAVERSED:
		return r.au.Green(ch)
	case astar.START, astar.GOAL:
		return r.au.Bold(r.au.Cyan(ch))
	}
	if !snap.Visible[row][col] {
		return r.au.Gray(ch)
	}
	return ch
}

// RenderGrid writes one line per row with each cell followed by a space.
func (r *Renderer) RenderGrid(w io.Writer, snap astar.Snapshot) error {
	if len(snap.Terrain) == 0 {
		return nil
	}
	cols := len(snap.Terrain[0])
	if r.Headers {
		fmt.Fprint(w, "       ")
		for c := 0; c < cols; c++ {
			fmt.Fprintf(w, "%c ", 'A'+c)
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, "       ")
		for c := 0; c < cols; c++ {
			fmt.Fprint(w, "# ")
		}
		fmt.Fprintln(w)
	}
	for row := range snap.Terrain {
		if r.Headers {
			fmt.Fprintf(w, "%4d # ", row+1)
		}
		for col := range snap.Terrain[row] {
			fmt.Fprintf(w, "%v ", r.cell(snap, row, col))
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// RenderPath writes one position per line.
func (r *Renderer) RenderPath(w io.Writer, path []astar.Point) error {
	for _, p := range path {
		if _, err := fmt.Fprintln(w, r.FormatPoint(p)); err != nil {
			return err
		}
	}
	return nil
}

// RenderResult prints the final grid followed by the path, or "No path".
func (r *Renderer) RenderResult(w io.Writer, snap astar.Snapshot, res *astar.Result) error {
	if res == nil {
		_, err := fmt.Fprintln(w, "No path")
		return err
	}
	if err := r.RenderGrid(w, snap); err != nil {
		return err
	}
	return r.RenderPath(w, res.Path)
}

// RenderOptions prints the banner describing how a run is configured.
func RenderOptions(w io.Writer, headers, omniscient bool, tb astar.TieBreak, filename string) {
	onOff := func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	}
	fmt.Fprintln(w, "\n=== OPTIONS ===")
	fmt.Fprintf(w, "pretty print = %s\n", onOff(headers))
	fmt.Fprintf(w, "omniscient = %s\n", onOff(omniscient))
	if tb == astar.PreferH {
		fmt.Fprintln(w, "breaks ties with h-values, then g-values")
	} else {
		fmt.Fprintln(w, "breaks ties with g-values, then h-values")
	}
	fmt.Fprintf(w, "map filename = %s\n", filename)
	fmt.Fprint(w, "===============\n\n")
}
