// Package charset guesses the character encoding of raw bytes and decodes
// them to UTF-8.
//
// Detection checks for a byte order mark, then for valid UTF-8, then decodes
// the input with each candidate code page and scores the result. Scores
// penalize replacement and control characters, letters from mixed scripts
// inside one word, case flips and implausible runs of accented letters.
// Matches below the threshold (0.2 by default) are dropped and the rest are
// sorted by confidence.
package charset

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// DefaultThreshold is the minimum confidence a match needs.
const DefaultThreshold = 0.2

// ErrUndetectable is returned when no candidate decodes the input.
var ErrUndetectable = errors.New("charset: unable to detect encoding")

// Match is one plausible decoding of the input.
type Match struct {
	Encoding   string
	Confidence float64
	Language   string
	text       string
	raw        []byte
}

// String returns the decoded text.
func (m Match) String() string { return m.text }

// Output returns the decoded text as UTF-8 bytes.
func (m Match) Output() []byte { return []byte(m.text) }

// Raw returns the original bytes.
func (m Match) Raw() []byte { return m.raw }

// Matches is sorted by descending confidence.
type Matches []Match

// Best returns the most confident match.
func (ms Matches) Best() (Match, bool) {
	if len(ms) == 0 {
		return Match{}, false
	}
	return ms[0], true
}

// First is an alias of Best.
func (ms Matches) First() (Match, bool) { return ms.Best() }

// Result is the short form returned by Detect.
type Result struct {
	Encoding   string
	Confidence float64
	Language   string
}

type options struct {
	threshold float64
	isolation []string
	exclusion []string
}

type Option func(*options)

func WithThreshold(t float64) Option {
	return func(o *options) { o.threshold = t }
}

// WithIsolation restricts detection to the given encoding labels.
func WithIsolation(labels ...string) Option {
	return func(o *options) { o.isolation = labels }
}

// WithExclusion removes encoding labels from consideration.
func WithExclusion(labels ...string) Option {
	return func(o *options) { o.exclusion = labels }
}

func (o options) pool() []candidate {
	pool := candidates
	if len(o.isolation) > 0 {
		pool = nil
		for _, label := range o.isolation {
			if name, enc, ok := lookup(label); ok {
				pool = append(pool, candidate{name: name, enc: enc})
			}
		}
	}
	if len(o.exclusion) == 0 {
		return pool
	}
	excluded := map[string]bool{}
	for _, label := range o.exclusion {
		if name, _, ok := lookup(label); ok {
			excluded[name] = true
		}
	}
	return slices.DeleteFunc(slices.Clone(pool), func(c candidate) bool { return excluded[c.name] })
}

func decode(enc encoding.Encoding, b []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// FromBytes returns every plausible decoding of b.
func FromBytes(b []byte, opts ...Option) Matches {
	o := options{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&o)
	}
	if len(b) == 0 {
		return nil
	}

	for _, m := range boms {
		if len(b) < len(m.prefix) || string(b[:len(m.prefix)]) != string(m.prefix) {
			continue
		}
		if text, ok := decode(m.enc, b[len(m.prefix):]); ok {
			return Matches{{Encoding: m.name, Confidence: 1, Language: guessLanguage(text), text: text, raw: b}}
		}
	}

	var matches Matches
	allowUTF8 := len(o.isolation) == 0
	for _, label := range o.isolation {
		if name, _, ok := lookup(label); ok && name == "utf-8" {
			allowUTF8 = true
		}
	}
	if allowUTF8 && utf8.Valid(b) {
		text := string(b)
		if c := confidence(b, text); c >= o.threshold {
			matches = append(matches, Match{Encoding: "utf-8", Confidence: c, Language: guessLanguage(text), text: text, raw: b})
			if c > 0.9 {
				return matches
			}
		}
	}

	for _, cand := range o.pool() {
		if cand.name == "utf-8" {
			continue
		}
		text, ok := decode(cand.enc, b)
		if !ok {
			continue
		}
		if c := confidence(b, text); c >= o.threshold {
			matches = append(matches, Match{Encoding: cand.name, Confidence: c, Language: guessLanguage(text), text: text, raw: b})
		}
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})
	return matches
}

// FromPath reads a file and detects its encoding.
func FromPath(path string, opts ...Option) (Matches, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("charset: %w", err)
	}
	return FromBytes(b, opts...), nil
}

// Detect returns the best guess, or a zero Result when nothing fits.
func Detect(b []byte) Result {
	best, ok := FromBytes(b).Best()
	if !ok {
		return Result{}
	}
	return Result{Encoding: best.Encoding, Confidence: best.Confidence, Language: best.Language}
}

// Normalize decodes b with the best guess.
func Normalize(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	best, ok := FromBytes(b).Best()
	if !ok {
		return "", ErrUndetectable
	}
	return best.String(), nil
}

// IsValid reports whether b decodes cleanly with the labeled encoding.
func IsValid(b []byte, label string) bool {
	name, enc, ok := lookup(label)
	if !ok {
		return false
	}
	if name == "utf-8" {
		return utf8.Valid(b)
	}
	text, ok := decode(enc, b)
	if !ok {
		return false
	}
	for _, r := range text {
		if r == utf8.RuneError {
			return false
		}
	}
	return true
}
