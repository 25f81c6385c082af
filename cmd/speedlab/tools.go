package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/speedlab/internal/charset"
	"github.com/san-kum/speedlab/internal/dateparse"
	"github.com/san-kum/speedlab/internal/dotenv"
	"github.com/san-kum/speedlab/internal/humanize"
	"github.com/san-kum/speedlab/internal/jsonschema"
	"github.com/san-kum/speedlab/internal/markup"
	"github.com/san-kum/speedlab/internal/tabulate"
	"github.com/san-kum/speedlab/internal/tomlparse"
	"github.com/san-kum/speedlab/internal/validators"
	"github.com/san-kum/speedlab/internal/version"
)

var (
	normalizeText bool

	dayFirst  bool
	yearFirst bool
	fuzzy     bool
	isoOnly   bool

	versionSpec string
	preRelease  bool

	tableFormat string
	showIndex   bool
)

// toolCommands exposes the accelerated libraries directly, one command per
// library.
func toolCommands() []*cobra.Command {
	tomlCmd := &cobra.Command{
		Use:   "toml [file]",
		Short: "parse TOML and print it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTOML,
	}

	dotenvCmd := &cobra.Command{
		Use:   "dotenv [file]",
		Short: "parse a .env file and print its keys",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDotenv,
	}

	schemaCmd := &cobra.Command{
		Use:   "schema [schema] [instance]",
		Short: "validate a JSON document against a JSON Schema",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runSchema,
	}

	versionsCmd := &cobra.Command{
		Use:   "versions [version...]",
		Short: "sort version strings, optionally filtered by a specifier",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runVersions,
	}
	versionsCmd.Flags().StringVar(&versionSpec, "spec", "", "keep versions matching this specifier set, e.g. \">=1.0,<2\"")
	versionsCmd.Flags().BoolVar(&preRelease, "pre", false, "let the specifier match pre-releases")

	escapeCmd := &cobra.Command{
		Use:   "escape [text...]",
		Short: "escape text for HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				args = []string{string(data)}
			}
			for _, a := range args {
				fmt.Println(markup.EscapeString(a))
			}
			return nil
		},
	}

	detectCmd := &cobra.Command{
		Use:   "detect [file...]",
		Short: "guess the character encoding of files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDetect,
	}
	detectCmd.Flags().BoolVar(&normalizeText, "decode", false, "print the decoded text instead of the guess")

	tableCmd := &cobra.Command{
		Use:   "table [file]",
		Short: "render a JSON array of objects as a table",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTable,
	}
	tableCmd.Flags().StringVar(&tableFormat, "format", "simple", "table format")
	tableCmd.Flags().BoolVar(&showIndex, "index", false, "show row numbers")

	datesCmd := &cobra.Command{
		Use:   "dates [text...]",
		Short: "parse free-form dates",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDates,
	}
	datesCmd.Flags().BoolVar(&dayFirst, "dayfirst", false, "read 01/02 as the first of February")
	datesCmd.Flags().BoolVar(&yearFirst, "yearfirst", false, "read a leading two-digit number as the year")
	datesCmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "skip words that are not part of a date")
	datesCmd.Flags().BoolVar(&isoOnly, "iso", false, "accept ISO 8601 only")

	validateCmd := &cobra.Command{
		Use:   "validate [validator] [value...]",
		Short: "check values with a named validator",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidate,
	}

	humanizeCmd := &cobra.Command{
		Use:   "humanize [number...]",
		Short: "print numbers in human-friendly forms",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runHumanize,
	}

	return []*cobra.Command{tomlCmd, dotenvCmd, schemaCmd, versionsCmd, escapeCmd,
		detectCmd, tableCmd, datesCmd, validateCmd, humanizeCmd}
}

// readInput reads the named file, or stdin when path is empty or "-".
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runTOML(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}
	doc, err := tomlparse.Loads(string(data))
	if err != nil {
		return err
	}
	return printJSON(doc)
}

func runDotenv(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		found, err := dotenv.Find("")
		if err != nil {
			return err
		}
		path = found
	}
	env, err := dotenv.Read(path)
	if err != nil {
		return err
	}
	for _, k := range slices.Sorted(maps.Keys(env)) {
		fmt.Printf("%s=%s\n", k, strconv.Quote(env[k]))
	}
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	schema, err := jsonschema.CompileBytes(raw)
	if err != nil {
		return err
	}
	instance, err := readInput(args[1:])
	if err != nil {
		return err
	}

	err = schema.ValidateJSON(instance)
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		for _, c := range verr.Causes {
			fmt.Println(c)
		}
		return fmt.Errorf("%d validation errors", len(verr.Causes))
	}
	if err != nil {
		return err
	}
	fmt.Println("valid")
	return nil
}

func runVersions(cmd *cobra.Command, args []string) error {
	vs := make([]*version.Version, 0, len(args))
	for _, a := range args {
		v, err := version.Parse(a)
		if err != nil {
			return err
		}
		vs = append(vs, v)
	}
	if versionSpec != "" {
		set, err := version.ParseSpecifier(versionSpec)
		if err != nil {
			return err
		}
		vs = set.Filter(vs, preRelease)
	}
	version.Sort(vs)
	for _, v := range vs {
		fmt.Println(v)
	}
	return nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	w := newTabWriter()
	if !normalizeText {
		fmt.Fprintln(w, "FILE\tENCODING\tCONFIDENCE\tLANGUAGE")
	}
	for _, path := range args {
		ms, err := charset.FromPath(path)
		if err != nil {
			return err
		}
		best, ok := ms.Best()
		if !ok {
			return fmt.Errorf("%s: %w", path, charset.ErrUndetectable)
		}
		if normalizeText {
			fmt.Print(best.String())
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", path, best.Encoding, best.Confidence, best.Language)
	}
	return w.Flush()
}

func runTable(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("expected a JSON array of objects: %w", err)
	}
	if !slices.Contains(tabulate.Formats(), tableFormat) {
		return fmt.Errorf("unknown format: %s (available: %v)", tableFormat, tabulate.Formats())
	}

	rows, headers := tabulate.FromMaps(records)
	opts := []tabulate.Option{tabulate.WithHeaders(headers), tabulate.WithFormat(tableFormat)}
	if showIndex {
		opts = append(opts, tabulate.WithShowIndex())
	}
	fmt.Println(tabulate.Tabulate(rows, opts...))
	return nil
}

func runDates(cmd *cobra.Command, args []string) error {
	var opts []dateparse.Option
	if dayFirst {
		opts = append(opts, dateparse.DayFirst())
	}
	if yearFirst {
		opts = append(opts, dateparse.YearFirst())
	}
	if fuzzy {
		opts = append(opts, dateparse.Fuzzy())
	}

	parse := func(s string) (time.Time, error) { return dateparse.Parse(s, opts...) }
	if isoOnly {
		parse = dateparse.ISOParse
	}

	failed := 0
	for _, in := range args {
		t, err := parse(in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%q: %v\n", in, err)
			failed++
			continue
		}
		fmt.Printf("%s\t%s\n", in, t.Format(time.RFC3339Nano))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs did not parse", failed, len(args))
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	name, values := args[0], args[1:]
	if name == "list" {
		for _, n := range validators.Names() {
			fmt.Println(n)
		}
		return nil
	}
	failed := 0
	for _, v := range values {
		if err := validators.Check(name, v); err != nil {
			var verr *validators.ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			fmt.Printf("invalid\t%s\n", v)
			failed++
			continue
		}
		fmt.Printf("valid\t%s\n", v)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d values failed %s", failed, len(values), name)
	}
	return nil
}

func runHumanize(cmd *cobra.Command, args []string) error {
	w := newTabWriter()
	fmt.Fprintln(w, "VALUE\tCOMMA\tWORDS\tSIZE")
	for _, a := range args {
		n, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("not a number: %s", a)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a, humanize.Intcomma(n, 0), humanize.Intword(n), humanize.NaturalSize(n, false, false))
	}
	return w.Flush()
}
