package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-gantt/internal/testing/e2e"
	"github.com/penwyp/go-gantt/internal/util"
)

func TestTableFormatter_FormatRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).FormatRows(NewRowViews(sampleRows())))

	lines := e2e.VisibleLines(buf.String())
	require.Len(t, lines, 8) // 3 borders + header + 3 rows + summary

	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.True(t, strings.HasPrefix(lines[2], "├"))
	assert.True(t, strings.HasPrefix(lines[6], "└"))
	assert.Contains(t, lines[1], "Label")
	assert.Contains(t, lines[3], "2020-07-05")
	assert.Contains(t, lines[5], "[Controller]")
	assert.Equal(t, "3 rows, 2 data rows", lines[7])

	// All framed lines share one display width
	width := util.GetDisplayWidth(lines[0])
	for _, line := range lines[:7] {
		assert.Equal(t, width, util.GetDisplayWidth(line), line)
	}
}

func TestTableFormatter_WideRunes(t *testing.T) {
	var buf bytes.Buffer
	views := []RowView{{Index: 0, Kind: RowKindData, Label: "感知模块", Group: "G", Color: "m", Start: "2020-07-01", End: "2020-07-02", Days: 1}}
	require.NoError(t, NewTableFormatter(&buf).FormatRows(views))

	lines := e2e.VisibleLines(buf.String())
	assert.Equal(t, util.GetDisplayWidth(lines[0]), util.GetDisplayWidth(lines[3]))
}
