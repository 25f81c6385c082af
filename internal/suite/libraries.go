package suite

import (
	"fmt"
	"html"
	"net/netip"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	refdate "github.com/araddon/dateparse"
	refhumanize "github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"github.com/samber/lo"
	refschema "github.com/santhosh-tekuri/jsonschema/v5"
	xcharset "golang.org/x/net/html/charset"

	"github.com/san-kum/speedlab/internal/charset"
	"github.com/san-kum/speedlab/internal/colorize"
	"github.com/san-kum/speedlab/internal/dateparse"
	"github.com/san-kum/speedlab/internal/dotenv"
	"github.com/san-kum/speedlab/internal/humanize"
	"github.com/san-kum/speedlab/internal/iterx"
	"github.com/san-kum/speedlab/internal/jsonschema"
	"github.com/san-kum/speedlab/internal/markup"
	"github.com/san-kum/speedlab/internal/tabulate"
	"github.com/san-kum/speedlab/internal/tomlparse"
	"github.com/san-kum/speedlab/internal/validators"
	"github.com/san-kum/speedlab/internal/version"
)

// normalizeTOML maps both decoders onto one shape: arrays of tables become
// []any and date-times become UTC RFC 3339 strings.
func normalizeTOML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeTOML(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeTOML(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeTOML(e)
		}
		return out
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	}
	return v
}

func tomlSuite() Suite {
	return Suite{
		Name:        "toml",
		Library:     "tomlparse",
		Description: "TOML documents decoded to nested maps",
		Cases: []Case{
			{
				Name:       "loads",
				Iterations: 2000,
				Fast:       func() (any, error) { return tomlparse.Loads(tomlDoc) },
				Reference: func() (any, error) {
					var m map[string]any
					_, err := toml.Decode(tomlDoc, &m)
					return m, err
				},
				Normalize: normalizeTOML,
			},
			{
				Name:        "invalid",
				Iterations:  2000,
				Fast:        func() (any, error) { return tomlparse.Loads(tomlInvalid) },
				Reference: func() (any, error) {
					var m map[string]any
					_, err := toml.Decode(tomlInvalid, &m)
					return m, err
				},
				ExpectError: true,
			},
		},
	}
}

func dotenvSuite() Suite {
	return Suite{
		Name:        "dotenv",
		Library:     "dotenv",
		Description: ".env files parsed to key/value maps",
		Cases: []Case{{
			Name:       "values",
			Iterations: 5000,
			Fast:       func() (any, error) { return dotenv.Values(envDoc), nil },
			Reference:  func() (any, error) { return godotenv.Unmarshal(envDoc) },
		}},
	}
}

func jsonschemaSuite() Suite {
	instances := make([]any, len(schemaInstances))
	for i, s := range schemaInstances {
		instances[i] = decodeJSON(s)
	}
	fast, fastErr := jsonschema.CompileBytes([]byte(schemaDoc))
	ref, refErr := refschema.CompileString("schema.json", schemaDoc)

	return Suite{
		Name:        "jsonschema",
		Library:     "jsonschema",
		Description: "instance validation against a compiled schema",
		Cases: []Case{
			{
				Name:       "validate",
				Iterations: 2000,
				Fast: func() (any, error) {
					if fastErr != nil {
						return nil, fastErr
					}
					return lo.Map(instances, func(v any, _ int) bool { return fast.IsValid(v) }), nil
				},
				Reference: func() (any, error) {
					if refErr != nil {
						return nil, refErr
					}
					return lo.Map(instances, func(v any, _ int) bool { return ref.Validate(v) == nil }), nil
				},
			},
			{
				Name:       "compile",
				Iterations: 500,
				Fast: func() (any, error) {
					_, err := jsonschema.CompileBytes([]byte(schemaDoc))
					return err == nil, nil
				},
				Reference: func() (any, error) {
					_, err := refschema.CompileString("schema.json", schemaDoc)
					return err == nil, nil
				},
			},
		},
	}
}

func markupSuite() Suite {
	return Suite{
		Name:        "markup",
		Library:     "markup",
		Description: "HTML escaping of untrusted text",
		Cases: []Case{
			{
				Name:       "escape",
				Iterations: 20000,
				Fast: func() (any, error) {
					return lo.Map(markupInputs, func(s string, _ int) string { return markup.EscapeString(s).String() }), nil
				},
				Reference: func() (any, error) {
					return lo.Map(markupInputs, func(s string, _ int) string { return html.EscapeString(s) }), nil
				},
			},
			{
				Name:       "escape-silent-nil",
				Iterations: 20000,
				Fast: func() (any, error) {
					return markup.EscapeSilent(nil).String(), nil
				},
				Reference: func() (any, error) { return "", nil },
			},
		},
	}
}

func versionSuite() Suite {
	return Suite{
		Name:        "version",
		Library:     "version",
		Description: "version parsing and ordering",
		Cases: []Case{
			{
				Name:       "sort",
				Iterations: 2000,
				Fast: func() (any, error) {
					vs := make([]*version.Version, 0, len(versionInputs))
					for _, s := range versionInputs {
						v, err := version.Parse(s)
						if err != nil {
							return nil, err
						}
						vs = append(vs, v)
					}
					version.Sort(vs)
					return lo.Map(vs, func(v *version.Version, _ int) string { return v.String() }), nil
				},
				Reference: func() (any, error) {
					vs := make([]*semver.Version, 0, len(versionInputs))
					for _, s := range versionInputs {
						v, err := semver.NewVersion(s)
						if err != nil {
							return nil, err
						}
						vs = append(vs, v)
					}
					sort.Sort(semver.Collection(vs))
					return lo.Map(vs, func(v *semver.Version, _ int) string { return v.Original() }), nil
				},
			},
			{
				Name:       "constraint",
				Iterations: 2000,
				Fast: func() (any, error) {
					set, err := version.ParseSpecifier(">=1.2, <2")
					if err != nil {
						return nil, err
					}
					return lo.Filter(versionInputs, func(s string, _ int) bool {
						return set.Contains(version.MustParse(s), false)
					}), nil
				},
				Reference: func() (any, error) {
					c, err := semver.NewConstraint(">=1.2, <2")
					if err != nil {
						return nil, err
					}
					return lo.Filter(versionInputs, func(s string, _ int) bool {
						return c.Check(semver.MustParse(s))
					}), nil
				},
			},
		},
	}
}

var tabulateRows = [][]any{
	{"toml", 2000, 1.75},
	{"dotenv", 5000, 12.5},
	{"markup", 20000, 0.9},
	{"charset", 300, nil},
}

func tabulateSuite() Suite {
	headers := []string{"suite", "iterations", "speedup"}
	cases := make([]Case, 0, 3)
	for _, format := range []string{"simple", "grid", "github"} {
		cases = append(cases, Case{
			Name:       format,
			Iterations: 5000,
			Fast: func() (any, error) {
				return tabulate.Tabulate(tabulateRows, tabulate.WithHeaders(headers), tabulate.WithFormat(format)), nil
			},
		})
	}
	return Suite{
		Name:        "tabulate",
		Library:     "tabulate",
		Description: "plain-text table rendering",
		Cases:       cases,
	}
}

func humanizeSuite() Suite {
	return Suite{
		Name:        "humanize",
		Library:     "humanize",
		Description: "human-readable numbers",
		Cases: []Case{
			{
				Name:       "intcomma",
				Iterations: 10000,
				Fast: func() (any, error) {
					return lo.Map(humanizeInputs, func(n int64, _ int) string { return humanize.Intcomma(n, 0) }), nil
				},
				Reference: func() (any, error) {
					return lo.Map(humanizeInputs, func(n int64, _ int) string { return refhumanize.Comma(n) }), nil
				},
			},
			{
				Name:       "ordinal",
				Iterations: 10000,
				Fast: func() (any, error) {
					return lo.Map(humanizeInputs, func(n int64, _ int) string { return humanize.Ordinal(n) }), nil
				},
				Reference: func() (any, error) {
					return lo.Map(humanizeInputs, func(n int64, _ int) string { return refhumanize.Ordinal(int(n)) }), nil
				},
			},
			{
				Name:       "naturalsize",
				Iterations: 10000,
				Fast: func() (any, error) {
					return lo.Map(humanizeInputs, func(n int64, _ int) string { return humanize.NaturalSize(float64(n), false, false) }), nil
				},
			},
		},
	}
}

func colorizeSuite() Suite {
	type pair struct {
		ours string
		ref  termenv.Color
		bg   bool
	}
	pairs := []pair{
		{colorize.Fore.Red, termenv.ANSIRed, false},
		{colorize.Fore.LightBlueEx, termenv.ANSIBrightBlue, false},
		{colorize.Back.Green, termenv.ANSIGreen, true},
		{colorize.Back.LightWhiteEx, termenv.ANSIBrightWhite, true},
		{colorize.Fore256(208), termenv.ANSI256Color(208), false},
		{colorize.ForeRGB(10, 20, 30), termenv.RGBColor("#0a141e"), false},
		{colorize.BackRGB(255, 128, 0), termenv.RGBColor("#ff8000"), true},
	}
	return Suite{
		Name:        "colorize",
		Library:     "colorize",
		Description: "ANSI escape sequences",
		Cases: []Case{
			{
				Name:       "sequences",
				Iterations: 20000,
				Fast: func() (any, error) {
					return lo.Map(pairs, func(p pair, _ int) string { return p.ours }), nil
				},
				Reference: func() (any, error) {
					return lo.Map(pairs, func(p pair, _ int) string { return termenv.CSI + p.ref.Sequence(p.bg) + "m" }), nil
				},
			},
			{
				Name:       "strip",
				Iterations: 20000,
				Fast: func() (any, error) {
					s := colorize.Colorize("speedlab", colorize.Fore.Green, colorize.Back.Black, colorize.Style.Bright)
					return colorize.StripANSI(s), nil
				},
				Reference: func() (any, error) {
					return "speedlab", nil
				},
			},
		},
	}
}

func utcString(v any) any {
	ts, ok := v.([]time.Time)
	if !ok {
		return v
	}
	return lo.Map(ts, func(t time.Time, _ int) string { return t.UTC().Format(time.RFC3339Nano) })
}

func dateparseSuite() Suite {
	def := time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)
	return Suite{
		Name:        "dateparse",
		Library:     "dateparse",
		Description: "free-form date strings",
		Cases: []Case{{
			Name:       "parse",
			Iterations: 2000,
			Fast: func() (any, error) {
				out := make([]time.Time, 0, len(dateInputs))
				for _, s := range dateInputs {
					t, err := dateparse.Parse(s, dateparse.Default(def))
					if err != nil {
						return nil, err
					}
					out = append(out, t)
				}
				return out, nil
			},
			Reference: func() (any, error) {
				out := make([]time.Time, 0, len(dateInputs))
				for _, s := range dateInputs {
					t, err := refdate.ParseIn(s, time.UTC)
					if err != nil {
						return nil, err
					}
					out = append(out, t)
				}
				return out, nil
			},
			Normalize: utcString,
		}},
	}
}

func charsetSuite() Suite {
	inputs := charsetInputs()
	return Suite{
		Name:        "charset",
		Library:     "charset",
		Description: "encoding detection of raw bytes",
		Cases: []Case{{
			Name:       "detect",
			Iterations: 300,
			Fast: func() (any, error) {
				return lo.Map(inputs, func(b []byte, _ int) string { return charset.Detect(b).Encoding }), nil
			},
			Reference: func() (any, error) {
				return lo.Map(inputs, func(b []byte, _ int) string {
					_, name, _ := xcharset.DetermineEncoding(b, "")
					return name
				}), nil
			},
		}},
	}
}

func iterxSuite() Suite {
	data := intRange(5000)
	nested := lo.Chunk(data, 13)
	return Suite{
		Name:        "iterx",
		Library:     "iterx",
		Description: "slice grouping and deduplication",
		Cases: []Case{
			{
				Name:       "chunked",
				Iterations: 2000,
				Fast:       func() (any, error) { return iterx.Chunked(data, 7, false) },
				Reference:  func() (any, error) { return lo.Chunk(data, 7), nil },
			},
			{
				Name:       "unique",
				Iterations: 2000,
				Fast:       func() (any, error) { return iterx.UniqueEverseen(data), nil },
				Reference:  func() (any, error) { return lo.Uniq(data), nil },
			},
			{
				Name:       "flatten",
				Iterations: 2000,
				Fast:       func() (any, error) { return iterx.Flatten(nested), nil },
				Reference:  func() (any, error) { return lo.Flatten(nested), nil },
			},
		},
	}
}

func validatorsSuite() Suite {
	return Suite{
		Name:        "validators",
		Library:     "validators",
		Description: "string validation predicates",
		Cases: []Case{
			{
				Name:       "ip",
				Iterations: 10000,
				Fast: func() (any, error) {
					return lo.Map(ipInputs, func(s string, _ int) string {
						return fmt.Sprintf("%t/%t/%t", validators.IPv4(s), validators.IPv6(s), validators.IPAddress(s))
					}), nil
				},
				Reference: func() (any, error) {
					return lo.Map(ipInputs, func(s string, _ int) string {
						a, err := netip.ParseAddr(s)
						ok := err == nil
						return fmt.Sprintf("%t/%t/%t", ok && a.Is4(), ok && a.Is6(), ok)
					}), nil
				},
			},
			{
				Name:       "mixed",
				Iterations: 10000,
				Fast: func() (any, error) {
					return []bool{
						validators.Email("someone@example.com"),
						validators.URL("https://example.com/path?q=1", false),
						validators.UUID(strings.Repeat("a", 8) + "-aaaa-4aaa-8aaa-" + strings.Repeat("a", 12)),
						validators.CardNumber("4242424242424242"),
						validators.IBAN("GB82WEST12345698765432"),
						validators.Slug("not a slug"),
					}, nil
				},
				Reference: func() (any, error) {
					return []bool{true, true, true, true, true, false}, nil
				},
			},
		},
	}
}
