package models

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridworld/astar"
)

const wallRowMap = `3
3
s _ _
x x _
_ _ g
`

func TestParseMap(t *testing.T) {
	gw, err := ParseMap(strings.NewReader(wallRowMap))
	require.NoError(t, err)
	assert.Equal(t, 3, gw.Rows())
	assert.Equal(t, 3, gw.Cols())
	assert.Equal(t, astar.Point{Row: 0, Col: 0}, gw.Start())
	assert.Equal(t, astar.Point{Row: 2, Col: 2}, gw.Goal())
	assert.Equal(t, astar.BLOCKED, gw.At(astar.Point{Row: 1, Col: 1}))
	assert.True(t, gw.Visible(astar.Point{Row: 1, Col: 0}))
	assert.False(t, gw.Visible(astar.Point{Row: 1, Col: 1}))
}

func TestParseMapToleratesLayout(t *testing.T) {
	in := "\n2 4\n\ns _ _ _\n\n_ x _ g\n\n"
	gw, err := ParseMap(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, gw.Rows())
	assert.Equal(t, 4, gw.Cols())
}

func TestParseMapErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantMsg string
	}{
		{"empty", "", "missing row and column counts"},
		{"bad count", "3\nthree\n", "line 2"},
		{"zero rows", "0\n3\n", "not a positive count"},
		{"too many header numbers", "1 3 4\n", "expected row and column counts"},
		{"short row", "2\n3\ns _ _\n_ g\n", "line 4: expected 3 cells, got 2"},
		{"missing rows", "3\n3\ns _ _\n_ _ g\n", "expected 3 rows, got 2"},
		{"extra rows", "1\n3\ns _ g\n_ _ _\n", "more than 1 rows"},
		{"unknown token", "1\n3\ns ? g\n", "line 3 column 2"},
		{"long token", "1\n3\ns __ g\n", "unknown cell"},
		{"traversed not allowed", "1\n3\ns 0 g\n", "unknown cell"},
		{"no goal", "1\n3\ns _ _\n", "exactly one s and one g"},
		{"two starts", "1\n4\ns s _ g\n", "exactly one s and one g"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMap(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedMap)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall.map")
	require.NoError(t, os.WriteFile(path, []byte(wallRowMap), 0o644))

	gw, err := LoadMap(path)
	require.NoError(t, err)
	assert.Equal(t, astar.Point{Row: 2, Col: 2}, gw.Goal())

	_, err = LoadMap(filepath.Join(dir, "missing.map"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open map")
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestFormatMapRoundTrips(t *testing.T) {
	gw, err := ParseMap(strings.NewReader(wallRowMap))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, FormatMap(&buf, gw.Snapshot()))
	assert.Equal(t, wallRowMap, buf.String())
}
