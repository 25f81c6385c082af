package tabulate

// line describes a horizontal rule: begin + fill*width + sep ... + end.
type line struct {
	begin, fill, sep, end string
}

// row describes how cells of a header or data row are joined.
type row struct {
	begin, sep, end string
}

// tableFormat is the layout of one named output style. nil lines are not
// drawn; the hide flags drop the outer rules when the table has headers.
type tableFormat struct {
	lineAbove       *line
	lineBelowHeader *line
	lineBetweenRows *line
	lineBelow       *line
	headerRow       row
	dataRow         row
	padding         int

	hideAboveWithHeader bool
	hideBelowWithHeader bool

	// rules replaces the fixed lines for styles whose rules depend on
	// column alignment.
	rules func(k ruleKind, widths []int, aligns []Align) (string, bool)
	// escape rewrites each padded cell before it is joined.
	escape func(string) string
	// render replaces line-based layout entirely.
	render func(t *table) string
}

type ruleKind int

const (
	ruleAbove ruleKind = iota
	ruleBelowHeader
	ruleBetweenRows
	ruleBelow
)

func (f tableFormat) line(k ruleKind) *line {
	switch k {
	case ruleAbove:
		return f.lineAbove
	case ruleBelowHeader:
		return f.lineBelowHeader
	case ruleBetweenRows:
		return f.lineBetweenRows
	}
	return f.lineBelow
}

func boxRule(begin, fill, sep, end string) *line {
	return &line{begin: begin, fill: fill, sep: sep, end: end}
}

func gridFormat(top, mid, bottom [4]string, bar string, between bool) tableFormat {
	f := tableFormat{
		lineAbove:       boxRule(top[0], top[1], top[2], top[3]),
		lineBelowHeader: boxRule(mid[0], mid[1], mid[2], mid[3]),
		lineBelow:       boxRule(bottom[0], bottom[1], bottom[2], bottom[3]),
		headerRow:       row{bar, bar, bar},
		dataRow:         row{bar, bar, bar},
		padding:         1,
	}
	if between {
		f.lineBetweenRows = f.lineBelowHeader
	}
	return f
}

var formats = map[string]tableFormat{
	"plain": {
		headerRow: row{"", "  ", ""},
		dataRow:   row{"", "  ", ""},
	},
	"simple": {
		lineAbove:           boxRule("", "-", "  ", ""),
		lineBelowHeader:     boxRule("", "-", "  ", ""),
		lineBelow:           boxRule("", "-", "  ", ""),
		headerRow:           row{"", "  ", ""},
		dataRow:             row{"", "  ", ""},
		hideAboveWithHeader: true,
		hideBelowWithHeader: true,
	},
	"github": {
		lineAbove:           boxRule("|", "-", "|", "|"),
		lineBelowHeader:     boxRule("|", "-", "|", "|"),
		headerRow:           row{"|", "|", "|"},
		dataRow:             row{"|", "|", "|"},
		padding:             1,
		hideAboveWithHeader: true,
	},
	"grid": {
		lineAbove:       boxRule("+", "-", "+", "+"),
		lineBelowHeader: boxRule("+", "=", "+", "+"),
		lineBetweenRows: boxRule("+", "-", "+", "+"),
		lineBelow:       boxRule("+", "-", "+", "+"),
		headerRow:       row{"|", "|", "|"},
		dataRow:         row{"|", "|", "|"},
		padding:         1,
	},
	"simple_grid":    gridFormat([4]string{"┌", "─", "┬", "┐"}, [4]string{"├", "─", "┼", "┤"}, [4]string{"└", "─", "┴", "┘"}, "│", true),
	"rounded_grid":   gridFormat([4]string{"╭", "─", "┬", "╮"}, [4]string{"├", "─", "┼", "┤"}, [4]string{"╰", "─", "┴", "╯"}, "│", true),
	"heavy_grid":     gridFormat([4]string{"┏", "━", "┳", "┓"}, [4]string{"┣", "━", "╋", "┫"}, [4]string{"┗", "━", "┻", "┛"}, "┃", true),
	"double_grid":    gridFormat([4]string{"╔", "═", "╦", "╗"}, [4]string{"╠", "═", "╬", "╣"}, [4]string{"╚", "═", "╩", "╝"}, "║", true),
	"simple_outline": gridFormat([4]string{"┌", "─", "┬", "┐"}, [4]string{"├", "─", "┼", "┤"}, [4]string{"└", "─", "┴", "┘"}, "│", false),
	"pipe": {
		headerRow:           row{"|", "|", "|"},
		dataRow:             row{"|", "|", "|"},
		padding:             1,
		hideAboveWithHeader: true,
		rules:               pipeRules,
	},
	"orgtbl": {
		lineBelowHeader: boxRule("|", "-", "+", "|"),
		headerRow:       row{"|", "|", "|"},
		dataRow:         row{"|", "|", "|"},
		padding:         1,
	},
	"psql": {
		lineAbove:       boxRule("+", "-", "+", "+"),
		lineBelowHeader: boxRule("|", "-", "+", "|"),
		lineBelow:       boxRule("+", "-", "+", "+"),
		headerRow:       row{"|", "|", "|"},
		dataRow:         row{"|", "|", "|"},
		padding:         1,
	},
	"rst": {
		lineAbove:       boxRule("", "=", "  ", ""),
		lineBelowHeader: boxRule("", "=", "  ", ""),
		lineBelow:       boxRule("", "=", "  ", ""),
		headerRow:       row{"", "  ", ""},
		dataRow:         row{"", "  ", ""},
	},
	"pretty": {
		lineAbove:       boxRule("+", "-", "+", "+"),
		lineBelowHeader: boxRule("+", "-", "+", "+"),
		lineBelow:       boxRule("+", "-", "+", "+"),
		headerRow:       row{"|", "|", "|"},
		dataRow:         row{"|", "|", "|"},
		padding:         1,
	},
	"presto": {
		lineBelowHeader: boxRule("", "-", "+", ""),
		headerRow:       row{"", "|", ""},
		dataRow:         row{"", "|", ""},
		padding:         1,
	},
	"tsv": {
		headerRow: row{"", "\t", ""},
		dataRow:   row{"", "\t", ""},
	},
	"html":       {render: renderHTML(true)},
	"unsafehtml": {render: renderHTML(false)},
	"latex": {
		headerRow: row{"", "&", `\\`},
		dataRow:   row{"", "&", `\\`},
		padding:   1,
		rules:     latexRules,
		escape:    latexEscaper.Replace,
	},
}
