package tabulate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/san-kum/speedlab/internal/colorize"
)

type colType int

// Ordered by generality; a column takes the most general
// type of its values.
const (
	typeNone colType = iota
	typeBool
	typeInt
	typeFloat
	typeString
)

var (
	intRe   = regexp.MustCompile(`^\s*[-+]?\d+\s*$`)
	floatRe = regexp.MustCompile(`^\s*[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?\s*$`)
)

func valueType(v any) colType {
	switch x := v.(type) {
	case nil:
		return typeNone
	case bool:
		return typeBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return typeInt
	case float32, float64:
		return typeFloat
	case string:
		switch {
		case intRe.MatchString(x):
			return typeInt
		case floatRe.MatchString(x):
			return typeFloat
		}
	}
	return typeString
}

func columnType(values []any) colType {
	t := typeNone
	for _, v := range values {
		t = max(t, valueType(v))
	}
	return t
}

func formatCell(v any, typ colType, floatFmt, missing string) string {
	if v == nil {
		return missing
	}
	switch typ {
	case typeInt:
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	case typeFloat:
		if f, ok := toFloat(v); ok {
			return formatFloat(f, floatFmt)
		}
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// formatFloat applies a fmt verb. A bare "g" keeps six significant digits
// rather than Go's shortest representation.
func formatFloat(f float64, verb string) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if verb == "g" || verb == "G" {
		verb = ".6" + verb
	}
	return fmt.Sprintf("%"+verb, f)
}

func cellWidth(s string) int {
	if strings.Contains(s, "\x1b") {
		s = colorize.StripANSI(s)
	}
	w := 0
	for _, l := range strings.Split(s, "\n") {
		w = max(w, runewidth.StringWidth(l))
	}
	return w
}

func padLeft(s string, width int) string {
	return strings.Repeat(" ", max(0, width-cellWidth(s))) + s
}

func padRight(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-cellWidth(s)))
}

func padBoth(s string, width int) string {
	gap := max(0, width-cellWidth(s))
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

// alignLines applies pad to every line of a multi-line cell.
func alignLines(s string, width int, pad func(string, int) string) string {
	if !strings.Contains(s, "\n") {
		return pad(s, width)
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad(l, width)
	}
	return strings.Join(lines, "\n")
}

// afterPoint counts the characters after the decimal point, or -1 for an
// integer.
func afterPoint(s string) int {
	if intRe.MatchString(s) {
		return -1
	}
	pos := strings.LastIndexByte(s, '.')
	if pos < 0 {
		pos = strings.LastIndexAny(s, "eE")
	}
	if pos < 0 {
		return -1
	}
	return len(s) - pos - 1
}

// alignColumn pads every cell to the column width and returns the width.
func alignColumn(cells []string, align Align, minWidth int) ([]string, int) {
	out := make([]string, len(cells))
	for i, c := range cells {
		if strings.Contains(c, "\n") {
			lines := strings.Split(c, "\n")
			for j, l := range lines {
				lines[j] = strings.TrimSpace(l)
			}
			out[i] = strings.Join(lines, "\n")
		} else {
			out[i] = strings.TrimSpace(c)
		}
	}

	pad := padRight
	switch align {
	case AlignRight:
		pad = padLeft
	case AlignCenter:
		pad = padBoth
	case AlignDecimal:
		decimals := make([]int, len(out))
		most := -1
		for i, c := range out {
			decimals[i] = afterPoint(c)
			most = max(most, decimals[i])
		}
		for i := range out {
			out[i] += strings.Repeat(" ", most-decimals[i])
		}
		pad = padLeft
	}

	width := minWidth
	for _, c := range out {
		width = max(width, cellWidth(c))
	}
	for i, c := range out {
		out[i] = alignLines(c, width, pad)
	}
	return out, width
}

func alignHeader(h string, align Align, width int) string {
	switch align {
	case AlignLeft:
		return alignLines(h, width, padRight)
	case AlignCenter:
		return alignLines(h, width, padBoth)
	}
	return alignLines(h, width, padLeft)
}
