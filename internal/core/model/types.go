package model

// TimelineRecord is one parsed task. Start and End are inclusive and Start must
// not be after End.
type TimelineRecord struct {
	Label string
	Start Date
	End   Date
	Group string
	Color ColorToken
}

// Validate checks the Start <= End invariant.
func (r TimelineRecord) Validate() error {
	if r.Start.After(r.End) {
		return &MalformedRecordError{Label: r.Label, Start: r.Start, End: r.End}
	}
	return nil
}

// Source is one ordered input of records sharing a group and a color.
type Source struct {
	Name    string
	Group   string
	Color   ColorToken
	Records []TimelineRecord
}

// Row is one horizontal slot of the chart: either a DataRow or a HeaderRow.
type Row interface {
	isRow()
}

// DataRow is a drawable task bar.
type DataRow struct {
	Label string
	Start Date
	End   Date
	Group string
	Color ColorToken
}

// HeaderRow separates groups. It has no date range.
type HeaderRow struct {
	Group string
	Color ColorToken
}

func (DataRow) isRow()   {}
func (HeaderRow) isRow() {}

// NewDataRow converts a record into its row.
func NewDataRow(r TimelineRecord) DataRow {
	return DataRow{
		Label: r.Label,
		Start: r.Start,
		End:   r.End,
		Group: r.Group,
		Color: r.Color,
	}
}

// Record converts the row back into a record.
func (r DataRow) Record() TimelineRecord {
	return TimelineRecord{
		Label: r.Label,
		Start: r.Start,
		End:   r.End,
		Group: r.Group,
		Color: r.Color,
	}
}

// RowGroup returns the group and color carried by any row.
func RowGroup(row Row) (group string, color ColorToken) {
	switch r := row.(type) {
	case DataRow:
		return r.Group, r.Color
	case HeaderRow:
		return r.Group, r.Color
	}
	return "", ""
}

// CountDataRows returns how many rows are DataRows.
func CountDataRows(rows []Row) int {
	n := 0
	for _, row := range rows {
		if _, ok := row.(DataRow); ok {
			n++
		}
	}
	return n
}
