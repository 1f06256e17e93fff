package models

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"gridworld/astar"
)

// ErrMalformedMap is the cause of every map parsing failure.
var ErrMalformedMap = errors.New("malformed map")

// LoadMap reads a map file from disk.
func LoadMap(path string) (*astar.Gridworld, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open map %s", path)
	}
	defer f.Close()

	gw, err := ParseMap(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load map %s", path)
	}
	return gw, nil
}

// ParseMap reads the text map format: the row count, the column count, then
// one line per row of space separated cell tokens drawn from x _ s g.
// Blank lines are ignored.
func ParseMap(r io.Reader) (*astar.Gridworld, error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	next := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				return line, true
			}
		}
		return "", false
	}

	var header []int
	for len(header) < 2 {
		line, ok := next()
		if !ok {
			return nil, errors.Wrap(ErrMalformedMap, "missing row and column counts")
		}
		for _, tok := range strings.Fields(line) {
			n, err := strconv.Atoi(tok)
			if err != nil || n <= 0 {
				return nil, errors.Wrapf(ErrMalformedMap, "line %d: %q is not a positive count", lineNo, tok)
			}
			header = append(header, n)
		}
	}
	if len(header) != 2 {
		return nil, errors.Wrapf(ErrMalformedMap, "line %d: expected row and column counts, got %d numbers", lineNo, len(header))
	}
	rows, cols := header[0], header[1]

	terrain := make([][]astar.Cell, 0, rows)
	starts, goals := 0, 0
	for len(terrain) < rows {
		line, ok := next()
		if !ok {
			return nil, errors.Wrapf(ErrMalformedMap, "expected %d rows, got %d", rows, len(terrain))
		}
		tokens := strings.Fields(line)
		if len(tokens) != cols {
			return nil, errors.Wrapf(ErrMalformedMap, "line %d: expected %d cells, got %d", lineNo, cols, len(tokens))
		}
		row := make([]astar.Cell, cols)
		for c, tok := range tokens {
			cell, err := parseCell(tok)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d column %d", lineNo, c+1)
			}
			switch cell {
			case astar.START:
				starts++
			case astar.GOAL:
				goals++
			}
			row[c] = cell
		}
		terrain = append(terrain, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read map")
	}
	if _, extra := next(); extra {
		return nil, errors.Wrapf(ErrMalformedMap, "line %d: more than %d rows", lineNo, rows)
	}
	if starts != 1 || goals != 1 {
		return nil, errors.Wrapf(ErrMalformedMap, "need exactly one s and one g, found %d and %d", starts, goals)
	}

	gw, err := astar.NewGridworld(terrain)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedMap, err.Error())
	}
	return gw, nil
}

func parseCell(tok string) (astar.Cell, error) {
	if len(tok) == 1 {
		switch c := astar.Cell(tok[0]); c {
		case astar.BLOCKED, astar.UNBLOCKED, astar.START, astar.GOAL:
			return c, nil
		}
	}
	return 0, errors.Wrapf(ErrMalformedMap, "unknown cell %q", tok)
}

// FormatMap writes a grid back out in the format ParseMap reads.
func FormatMap(w io.Writer, snap astar.Snapshot) error {
	bw := bufio.NewWriter(w)
	rows := len(snap.Terrain)
	cols := 0
	if rows > 0 {
		cols = len(snap.Terrain[0])
	}
	bw.WriteString(strconv.Itoa(rows) + "\n" + strconv.Itoa(cols) + "\n")
	for _, row := range snap.Terrain {
		for c, cell := range row {
			if c > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteByte(byte(cell))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
