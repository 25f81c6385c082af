// Package tabulate renders rows of values as plain-text, Markdown, HTML or
// LaTeX tables.
//
// Columns are typed by their contents: a column where every present value is
// an integer or a float (including numeric strings) is numeric and is
// right-aligned, anything else is text and is left-aligned. Widths are
// measured in terminal cells, so wide characters and ANSI colors line up.
//
// # Example
//
//	out := tabulate.Tabulate(
//		[][]any{{"spam", 42}, {"eggs", 451}},
//		tabulate.WithHeaders([]string{"item", "qty"}),
//		tabulate.WithFormat("github"),
//	)
package tabulate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Align is a column alignment.
type Align int

const (
	AlignDefault Align = iota
	AlignLeft
	AlignRight
	AlignCenter
	AlignDecimal
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	case AlignDecimal:
		return "decimal"
	}
	return "default"
}

// ParseAlign maps "left", "right", "center" and "decimal" to an Align.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(s) {
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	case "center", "centre":
		return AlignCenter, nil
	case "decimal":
		return AlignDecimal, nil
	case "", "default":
		return AlignDefault, nil
	}
	return AlignDefault, fmt.Errorf("unknown alignment: %s", s)
}

// minPadding is the space kept around header text in most formats.
const minPadding = 2

type options struct {
	headers         []string
	firstRowHeaders bool
	format          string
	floatFmt        string
	missing         string
	colAlign        []Align
	numAlign        Align
	strAlign        Align
	showIndex       bool
}

// Option configures Tabulate.
type Option func(*options)

// WithHeaders sets column names. When there are fewer names than columns
// they label the rightmost columns.
func WithHeaders(headers []string) Option {
	return func(o *options) { o.headers = headers }
}

// WithFirstRowHeaders uses the first row as column names.
func WithFirstRowHeaders() Option {
	return func(o *options) { o.firstRowHeaders = true }
}

// WithFormat selects a table style by name; see Formats.
func WithFormat(name string) Option {
	return func(o *options) { o.format = name }
}

// WithFloatFmt sets the fmt verb used for floats without the leading %,
// such as "g", ".2f" or ".3e".
func WithFloatFmt(verb string) Option {
	return func(o *options) { o.floatFmt = verb }
}

// WithMissing sets the text for nil cells.
func WithMissing(s string) Option {
	return func(o *options) { o.missing = s }
}

// WithColAlign fixes the alignment of individual columns. AlignDefault
// entries fall back to the numeric or text alignment.
func WithColAlign(aligns []Align) Option {
	return func(o *options) { o.colAlign = aligns }
}

func WithNumAlign(a Align) Option {
	return func(o *options) { o.numAlign = a }
}

func WithStrAlign(a Align) Option {
	return func(o *options) { o.strAlign = a }
}

// WithShowIndex prepends a column holding the row number.
func WithShowIndex() Option {
	return func(o *options) { o.showIndex = true }
}

// Formats lists the supported style names.
func Formats() []string {
	names := lo.Keys(formats)
	slices.Sort(names)
	return names
}

// FromMaps turns records into rows, using the sorted union of their keys as
// headers.
func FromMaps(records []map[string]any) ([][]any, []string) {
	keys := lo.Uniq(lo.FlatMap(records, func(m map[string]any, _ int) []string {
		return lo.Keys(m)
	}))
	slices.Sort(keys)
	rows := make([][]any, len(records))
	for i, m := range records {
		rows[i] = lo.Map(keys, func(k string, _ int) any { return m[k] })
	}
	return rows, keys
}

// Tabulate renders rows. An unknown format name falls back to "simple".
func Tabulate(rows [][]any, opts ...Option) string {
	o := options{format: "simple", floatFmt: "g"}
	for _, opt := range opts {
		opt(&o)
	}
	f, ok := formats[o.format]
	if !ok {
		o.format = "simple"
		f = formats["simple"]
	}
	if o.format == "pretty" {
		if o.numAlign == AlignDefault {
			o.numAlign = AlignCenter
		}
		if o.strAlign == AlignDefault {
			o.strAlign = AlignCenter
		}
	}

	t := build(rows, o)
	if t.ncols == 0 {
		return ""
	}
	if f.render != nil {
		return f.render(t)
	}
	return t.layout(f)
}

// table holds aligned cell text ready for layout.
type table struct {
	headers []string
	rows    [][]string
	widths  []int
	aligns  []Align
	ncols   int
}

func build(data [][]any, o options) *table {
	headers := o.headers
	if o.firstRowHeaders && len(data) > 0 {
		headers = lo.Map(data[0], func(v any, _ int) string {
			if v == nil {
				return ""
			}
			return fmt.Sprint(v)
		})
		data = data[1:]
	}
	if o.showIndex {
		indexed := make([][]any, len(data))
		for i, r := range data {
			indexed[i] = append([]any{i}, r...)
		}
		data = indexed
		if headers != nil {
			headers = append([]string{""}, headers...)
		}
	}

	ncols := len(headers)
	for _, r := range data {
		ncols = max(ncols, len(r))
	}
	if len(headers) > 0 && len(headers) < ncols {
		headers = append(make([]string, ncols-len(headers)), headers...)
	}

	t := &table{ncols: ncols, aligns: make([]Align, ncols), widths: make([]int, ncols)}
	cols := make([][]string, ncols)
	pretty := o.format == "pretty"
	for c := 0; c < ncols; c++ {
		values := make([]any, len(data))
		for i, r := range data {
			if c < len(r) {
				values[i] = r[c]
			}
		}
		typ := columnType(values)
		cells := lo.Map(values, func(v any, _ int) string {
			return formatCell(v, typ, o.floatFmt, o.missing)
		})

		align := o.strAlign
		if typ == typeInt || typ == typeFloat {
			align = o.numAlign
		}
		if c < len(o.colAlign) && o.colAlign[c] != AlignDefault {
			align = o.colAlign[c]
		}
		if align == AlignDefault {
			align = AlignLeft
			if typ == typeInt || typ == typeFloat {
				align = AlignRight
			}
		}
		t.aligns[c] = align

		minWidth := 0
		if len(headers) > 0 {
			minWidth = cellWidth(headers[c])
			if !pretty {
				minWidth += minPadding
			}
		}
		cols[c], t.widths[c] = alignColumn(cells, align, minWidth)
	}

	t.rows = make([][]string, len(data))
	for i := range data {
		t.rows[i] = make([]string, ncols)
		for c := range cols {
			t.rows[i][c] = cols[c][i]
		}
	}
	if len(headers) > 0 {
		t.headers = make([]string, ncols)
		for c, h := range headers {
			t.headers[c] = alignHeader(h, t.aligns[c], t.widths[c])
		}
	}
	return t
}

func (t *table) layout(f tableFormat) string {
	pad := strings.Repeat(" ", f.padding)
	padded := make([]int, len(t.widths))
	for i, w := range t.widths {
		padded[i] = w + 2*f.padding
	}

	var lines []string
	rule := func(k ruleKind) {
		if f.rules != nil {
			if s, ok := f.rules(k, padded, t.aligns); ok {
				lines = append(lines, s)
			}
			return
		}
		if l := f.line(k); l != nil {
			lines = append(lines, buildLine(padded, l))
		}
	}
	emit := func(cells []string, r row) {
		for _, cs := range splitMultiline(cells, t.widths) {
			for i := range cs {
				cs[i] = pad + cs[i] + pad
				if f.escape != nil {
					cs[i] = f.escape(cs[i])
				}
			}
			lines = append(lines, strings.TrimRight(r.begin+strings.Join(cs, r.sep)+r.end, " \t"))
		}
	}

	hasHeaders := t.headers != nil
	if !(hasHeaders && f.hideAboveWithHeader) {
		rule(ruleAbove)
	}
	if hasHeaders {
		emit(t.headers, f.headerRow)
		rule(ruleBelowHeader)
	}
	for i, r := range t.rows {
		emit(r, f.dataRow)
		if i < len(t.rows)-1 {
			rule(ruleBetweenRows)
		}
	}
	if !(hasHeaders && f.hideBelowWithHeader) {
		rule(ruleBelow)
	}
	return strings.Join(lines, "\n")
}

func buildLine(widths []int, l *line) string {
	parts := lo.Map(widths, func(w int, _ int) string { return strings.Repeat(l.fill, w) })
	return strings.TrimRight(l.begin+strings.Join(parts, l.sep)+l.end, " \t")
}

// splitMultiline expands a row whose cells contain newlines into several
// physical rows, filling short cells with blanks.
func splitMultiline(cells []string, widths []int) [][]string {
	height := 1
	split := make([][]string, len(cells))
	for i, c := range cells {
		split[i] = strings.Split(c, "\n")
		height = max(height, len(split[i]))
	}
	out := make([][]string, height)
	for h := range out {
		out[h] = make([]string, len(cells))
		for i := range cells {
			if h < len(split[i]) {
				out[h][i] = split[i][h]
			} else {
				out[h][i] = strings.Repeat(" ", widths[i])
			}
		}
	}
	return out
}
