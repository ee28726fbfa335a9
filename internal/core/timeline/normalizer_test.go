package timeline

import (
	"testing"

	"github.com/penwyp/go-gantt/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(label, start, end, group string, color model.ColorToken) model.TimelineRecord {
	return model.TimelineRecord{
		Label: label,
		Start: model.MustParseDate(start),
		End:   model.MustParseDate(end),
		Group: group,
		Color: color,
	}
}

func labels(rows []model.Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		switch r := row.(type) {
		case model.DataRow:
			out = append(out, r.Label)
		case model.HeaderRow:
			out = append(out, "#"+r.Group)
		}
	}
	return out
}

func TestNormalize_LaterStartFirst(t *testing.T) {
	sources := []model.Source{{
		Name:  "g1",
		Group: "G1",
		Color: "c",
		Records: []model.TimelineRecord{
			rec("A", "2020-07-01", "2020-07-11", "G1", "c"),
			rec("B", "2020-07-05", "2020-07-20", "G1", "c"),
		},
	}}

	rows, err := Normalize(sources, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, labels(rows))
}

func TestNormalize_StableTies(t *testing.T) {
	records := []model.TimelineRecord{
		rec("first", "2020-08-01", "2020-08-02", "G", "c"),
		rec("second", "2020-08-01", "2020-08-03", "G", "c"),
		rec("later", "2020-09-01", "2020-09-02", "G", "c"),
		rec("third", "2020-08-01", "2020-08-04", "G", "c"),
	}
	sources := []model.Source{{Name: "g", Group: "G", Color: "c", Records: records}}

	want := []string{"later", "first", "second", "third"}
	for i := 0; i < 5; i++ {
		rows, err := Normalize(sources, Options{})
		require.NoError(t, err)
		assert.Equal(t, want, labels(rows))
	}
	assert.Equal(t, "first", records[0].Label, "input must not be reordered")
}

func TestNormalize_Grouped(t *testing.T) {
	sources := []model.Source{
		{Name: "a", Group: "Controller", Color: "c", Records: []model.TimelineRecord{
			rec("c1", "2020-07-01", "2020-07-05", "Controller", "c"),
			rec("c2", "2020-08-01", "2020-08-05", "Controller", "c"),
		}},
		{Name: "b", Group: "Perception", Color: "m", Records: []model.TimelineRecord{
			rec("p1", "2020-07-10", "2020-07-15", "Perception", "m"),
		}},
	}

	rows, err := Normalize(sources, Options{Grouped: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c1", "#Controller", "p1", "#Perception"}, labels(rows))

	header, ok := rows[2].(model.HeaderRow)
	require.True(t, ok)
	assert.Equal(t, model.ColorToken("c"), header.Color)
}

func TestNormalize_UngroupedKeepsSourceOrder(t *testing.T) {
	sources := []model.Source{
		{Name: "a", Group: "A", Color: "c", Records: []model.TimelineRecord{
			rec("old", "2020-07-01", "2020-07-05", "A", "c"),
		}},
		{Name: "b", Group: "B", Color: "m", Records: []model.TimelineRecord{
			rec("new", "2021-01-01", "2021-01-05", "B", "m"),
		}},
	}

	rows, err := Normalize(sources, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "new"}, labels(rows))
}

func TestNormalize_GlobalScope(t *testing.T) {
	sources := []model.Source{
		{Name: "a", Group: "A", Color: "c", Records: []model.TimelineRecord{
			rec("a1", "2020-07-01", "2020-07-05", "A", "c"),
			rec("a2", "2020-09-01", "2020-09-05", "A", "c"),
		}},
		{Name: "b", Group: "B", Color: "m", Records: []model.TimelineRecord{
			rec("b1", "2020-08-01", "2020-08-05", "B", "m"),
		}},
	}

	rows, err := Normalize(sources, Options{Scope: ScopeGlobal, Grouped: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "b1", "a1"}, labels(rows))
}

func TestNormalize_RowsTakeSourceGroupAndColor(t *testing.T) {
	sources := []model.Source{
		{Name: "a", Group: "G1", Color: "c", Records: []model.TimelineRecord{
			rec("A", "2020-07-01", "2020-07-11", "", ""),
		}},
		{Name: "b", Group: "G2", Color: "m", Records: []model.TimelineRecord{
			rec("B", "2020-07-05", "2020-07-20", "stale", "y"),
		}},
	}

	tests := []struct {
		name string
		opts Options
		want []model.Row
	}{
		{
			name: "grouped per source",
			opts: Options{Grouped: true},
			want: []model.Row{
				model.DataRow{Label: "A", Start: model.MustParseDate("2020-07-01"), End: model.MustParseDate("2020-07-11"), Group: "G1", Color: "c"},
				model.HeaderRow{Group: "G1", Color: "c"},
				model.DataRow{Label: "B", Start: model.MustParseDate("2020-07-05"), End: model.MustParseDate("2020-07-20"), Group: "G2", Color: "m"},
				model.HeaderRow{Group: "G2", Color: "m"},
			},
		},
		{
			name: "global scope",
			opts: Options{Scope: ScopeGlobal},
			want: []model.Row{
				model.DataRow{Label: "B", Start: model.MustParseDate("2020-07-05"), End: model.MustParseDate("2020-07-20"), Group: "G2", Color: "m"},
				model.DataRow{Label: "A", Start: model.MustParseDate("2020-07-01"), End: model.MustParseDate("2020-07-11"), Group: "G1", Color: "c"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Normalize(sources, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
	assert.Equal(t, model.ColorToken("y"), sources[1].Records[0].Color, "input must not be modified")
}

func TestNormalize_Malformed(t *testing.T) {
	sources := []model.Source{{Name: "bad", Records: []model.TimelineRecord{
		rec("oops", "2020-07-10", "2020-07-01", "G", "c"),
	}}}

	rows, err := Normalize(sources, Options{})
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, model.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "source bad")
}

func TestNormalize_Empty(t *testing.T) {
	rows, err := Normalize(nil, Options{Grouped: true})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseSortScope(t *testing.T) {
	scope, err := ParseSortScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeSource, scope)

	scope, err = ParseSortScope("global")
	require.NoError(t, err)
	assert.Equal(t, ScopeGlobal, scope)

	_, err = ParseSortScope("weekly")
	assert.Error(t, err)
}
