package formatter

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-gantt/internal/presentation/layout"
)

// jsonAPI sorts map keys so plan output is byte-stable.
var jsonAPI = sonic.ConfigStd

type planDocument struct {
	Geometry   layout.Geometry          `json:"geometry"`
	Primitives []map[string]interface{} `json:"primitives"`
}

type JSONFormatter struct {
	w io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

// FormatPlan writes {geometry, primitives:[{kind, ...}]}.
func (f *JSONFormatter) FormatPlan(plan *layout.DrawPlan) error {
	doc := planDocument{
		Geometry:   plan.Geometry,
		Primitives: make([]map[string]interface{}, 0, len(plan.Primitives)),
	}

	for i, prim := range plan.Primitives {
		fields, err := primitiveFields(prim)
		if err != nil {
			return fmt.Errorf("primitive %d: %w", i, err)
		}
		doc.Primitives = append(doc.Primitives, fields)
	}

	return f.write(doc)
}

// FormatRows writes normalized rows as a JSON array.
func (f *JSONFormatter) FormatRows(rows []RowView) error {
	if rows == nil {
		rows = []RowView{}
	}
	return f.write(rows)
}

func (f *JSONFormatter) write(v interface{}) error {
	data, err := jsonAPI.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}

func primitiveFields(prim layout.Primitive) (map[string]interface{}, error) {
	raw, err := jsonAPI.Marshal(prim)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if err := jsonAPI.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["kind"] = string(prim.Kind())
	return fields, nil
}
