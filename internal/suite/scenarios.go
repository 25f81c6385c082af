package suite

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	refdate "github.com/araddon/dateparse"
	refhumanize "github.com/dustin/go-humanize"
	xcharset "golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"

	"github.com/san-kum/speedlab/internal/charset"
	"github.com/san-kum/speedlab/internal/dateparse"
	"github.com/san-kum/speedlab/internal/humanize"
	"github.com/san-kum/speedlab/internal/markup"
	"github.com/san-kum/speedlab/internal/tabulate"
	"github.com/san-kum/speedlab/internal/tomlparse"
	"github.com/san-kum/speedlab/internal/version"
)

const scrapedPage = `<html><head><title>Café menu</title></head><body>
<ul>
<li>Crème brûlée <special>|1250|May 8, 2009 5:57:51 PM</li>
<li>Café & croissant|98765|oct 7, 1970</li>
<li>Thé 'vert'|3|2006-01-02 15:04:05</li>
</ul>
</body></html>
`

type ScrapedItem struct {
	Name  string
	Views string
	Date  string
}

type ScrapeResult struct {
	Encoding string
	Items    []ScrapedItem
	Table    string
}

type rawItem struct {
	name, date string
	views      int64
}

func extractItems(page string) ([]rawItem, error) {
	var items []rawItem
	for _, line := range strings.Split(page, "\n") {
		body, ok := strings.CutPrefix(line, "<li>")
		if !ok {
			continue
		}
		body = strings.TrimSuffix(body, "</li>")
		parts := strings.Split(body, "|")
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed item: %q", body)
		}
		var views int64
		if _, err := fmt.Sscan(parts[1], &views); err != nil {
			return nil, fmt.Errorf("bad view count %q: %w", parts[1], err)
		}
		items = append(items, rawItem{name: parts[0], views: views, date: parts[2]})
	}
	return items, nil
}

// dropTable ignores the rendered table, which has no byte-exact reference.
func dropTable(v any) any {
	r, ok := v.(ScrapeResult)
	if !ok {
		return v
	}
	r.Table = ""
	return r
}

func webScrapingSuite() Suite {
	raw := mustEncode(charmap.Windows1252, scrapedPage)
	def := time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)

	fast := func() (any, error) {
		res := ScrapeResult{Encoding: charset.Detect(raw).Encoding}
		page, err := charset.Normalize(raw)
		if err != nil {
			return nil, err
		}
		items, err := extractItems(page)
		if err != nil {
			return nil, err
		}
		rows := make([][]any, 0, len(items))
		for _, it := range items {
			t, err := dateparse.Parse(it.date, dateparse.Default(def))
			if err != nil {
				return nil, err
			}
			item := ScrapedItem{
				Name:  markup.EscapeString(it.name).String(),
				Views: humanize.Intcomma(it.views, 0),
				Date:  t.UTC().Format(time.RFC3339),
			}
			res.Items = append(res.Items, item)
			rows = append(rows, []any{item.Name, item.Views, item.Date})
		}
		res.Table = tabulate.Tabulate(rows, tabulate.WithHeaders([]string{"name", "views", "date"}))
		return res, nil
	}

	reference := func() (any, error) {
		enc, name, _ := xcharset.DetermineEncoding(raw, "")
		res := ScrapeResult{Encoding: name}
		decoded, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, err
		}
		items, err := extractItems(string(decoded))
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "name\tviews\tdate")
		for _, it := range items {
			t, err := refdate.ParseIn(it.date, time.UTC)
			if err != nil {
				return nil, err
			}
			item := ScrapedItem{
				Name:  html.EscapeString(it.name),
				Views: refhumanize.Comma(it.views),
				Date:  t.UTC().Format(time.RFC3339),
			}
			res.Items = append(res.Items, item)
			fmt.Fprintf(w, "%s\t%s\t%s\n", item.Name, item.Views, item.Date)
		}
		w.Flush()
		res.Table = buf.String()
		return res, nil
	}

	return Suite{
		Name:        "web-scraping",
		Library:     "charset+markup+humanize+dateparse+tabulate",
		Description: "decode a legacy-encoded page, escape, humanize and date-parse its items",
		Cases: []Case{{
			Name:       "pipeline",
			Iterations: 300,
			Fast:       fast,
			Reference:  reference,
			Normalize:  dropTable,
		}},
	}
}

const manifest = `[project]
name = "speedlab-demo"

[dependencies]
requests = ">=2.20, <3"
urllib3 = ">=1.26, <2"
certifi = ">=2022.12.7"

[available]
requests = ["2.19.1", "2.25.1", "2.31.0", "3.0.0"]
urllib3 = ["1.25.11", "1.26.18", "2.0.7"]
certifi = ["2021.10.8", "2022.12.7", "2023.7.22"]
`

func resolveFast() (any, error) {
	doc, err := tomlparse.Loads(manifest)
	if err != nil {
		return nil, err
	}
	deps, _ := doc["dependencies"].(map[string]any)
	avail, _ := doc["available"].(map[string]any)

	pins := make(map[string]string, len(deps))
	for name, spec := range deps {
		set, err := version.ParseSpecifier(fmt.Sprint(spec))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		list, _ := avail[name].([]any)
		vs := make([]*version.Version, 0, len(list))
		for _, s := range list {
			v, err := version.Parse(fmt.Sprint(s))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			vs = append(vs, v)
		}
		ok := set.Filter(vs, false)
		if len(ok) == 0 {
			return nil, fmt.Errorf("%s: no version satisfies %s", name, set)
		}
		version.Sort(ok)
		pins[name] = ok[len(ok)-1].String()
	}
	return pins, nil
}

func resolveReference() (any, error) {
	var doc struct {
		Dependencies map[string]string   `toml:"dependencies"`
		Available    map[string][]string `toml:"available"`
	}
	if _, err := toml.Decode(manifest, &doc); err != nil {
		return nil, err
	}

	pins := make(map[string]string, len(doc.Dependencies))
	for name, spec := range doc.Dependencies {
		c, err := semver.NewConstraint(spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		var best *semver.Version
		for _, s := range doc.Available[name] {
			v, err := semver.NewVersion(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if c.Check(v) && (best == nil || v.GreaterThan(best)) {
				best = v
			}
		}
		if best == nil {
			return nil, fmt.Errorf("%s: no version satisfies %s", name, spec)
		}
		pins[name] = best.Original()
	}
	return pins, nil
}

func packageVersionsSuite() Suite {
	return Suite{
		Name:        "package-versions",
		Library:     "tomlparse+version",
		Description: "resolve the newest allowed version of each pinned dependency",
		Cases: []Case{{
			Name:       "resolve",
			Iterations: 1000,
			Fast:       resolveFast,
			Reference:  resolveReference,
		}},
	}
}
