package tabulate

import (
	"strings"

	"github.com/san-kum/speedlab/internal/markup"
)

func pipeSegment(a Align, w int) string {
	switch a {
	case AlignRight, AlignDecimal:
		return strings.Repeat("-", w-1) + ":"
	case AlignCenter:
		return ":" + strings.Repeat("-", w-2) + ":"
	case AlignLeft:
		return ":" + strings.Repeat("-", w-1)
	}
	return strings.Repeat("-", w)
}

func pipeRules(k ruleKind, widths []int, aligns []Align) (string, bool) {
	if k != ruleAbove && k != ruleBelowHeader {
		return "", false
	}
	segs := make([]string, len(widths))
	for i, w := range widths {
		segs[i] = pipeSegment(aligns[i], w)
	}
	return "|" + strings.Join(segs, "|") + "|", true
}

func latexRules(k ruleKind, _ []int, aligns []Align) (string, bool) {
	switch k {
	case ruleAbove:
		var spec strings.Builder
		for _, a := range aligns {
			switch a {
			case AlignRight, AlignDecimal:
				spec.WriteByte('r')
			case AlignCenter:
				spec.WriteByte('c')
			default:
				spec.WriteByte('l')
			}
		}
		return `\begin{tabular}{` + spec.String() + "}\n" + `\hline`, true
	case ruleBelowHeader:
		return `\hline`, true
	case ruleBelow:
		return `\hline` + "\n" + `\end{tabular}`, true
	}
	return "", false
}

var latexEscaper = strings.NewReplacer(
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`^`, `\^{}`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`\`, `\textbackslash{}`,
	`<`, `\ensuremath{<}`,
	`>`, `\ensuremath{>}`,
)

func htmlAlign(a Align) string {
	switch a {
	case AlignRight, AlignDecimal:
		return ` style="text-align: right;"`
	case AlignCenter:
		return ` style="text-align: center;"`
	}
	return ""
}

func renderHTML(escape bool) func(t *table) string {
	cell := func(tag string, a Align, s string) string {
		if escape {
			s = string(markup.EscapeString(s))
		}
		return "<" + tag + htmlAlign(a) + ">" + s + "</" + tag + ">"
	}
	htmlRow := func(tag string, cells []string, aligns []Align) string {
		var sb strings.Builder
		for i, c := range cells {
			sb.WriteString(cell(tag, aligns[i], c))
		}
		return "<tr>" + strings.TrimRight(sb.String(), " ") + "</tr>"
	}

	return func(t *table) string {
		lines := []string{"<table>"}
		if t.headers != nil {
			lines = append(lines, "<thead>", htmlRow("th", t.headers, t.aligns), "</thead>")
		}
		lines = append(lines, "<tbody>")
		for _, r := range t.rows {
			lines = append(lines, htmlRow("td", r, t.aligns))
		}
		lines = append(lines, "</tbody>", "</table>")
		return strings.Join(lines, "\n")
	}
}
