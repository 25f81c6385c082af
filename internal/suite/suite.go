// Package suite declares the benchmark cases that pit each accelerated
// library against an established Go implementation of the same behavior.
//
// A [Case] pairs an accelerated thunk with a reference thunk. Both return
// values that are compared after the optional Normalize step, so a case
// doubles as a compatibility check. A nil Reference marks a timing-only case.
package suite

import (
	"fmt"
	"sort"
)

type Case struct {
	Name        string
	Iterations  int
	Fast        func() (any, error)
	Reference   func() (any, error)
	Normalize   func(any) any
	ExpectError bool
}

type Suite struct {
	Name        string
	Library     string
	Description string
	Cases       []Case
}

// Filter returns a copy of s holding only the named cases.
func (s Suite) Filter(names ...string) Suite {
	if len(names) == 0 {
		return s
	}
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	out := s
	out.Cases = nil
	for _, c := range s.Cases {
		if keep[c.Name] {
			out.Cases = append(out.Cases, c)
		}
	}
	return out
}

type Registry struct {
	suites map[string]func() Suite
}

func NewRegistry() *Registry {
	return &Registry{suites: make(map[string]func() Suite)}
}

// Default returns a registry holding every library suite and the scenario
// suites that chain several libraries together.
func Default() *Registry {
	r := NewRegistry()

	r.Register("toml", tomlSuite)
	r.Register("dotenv", dotenvSuite)
	r.Register("jsonschema", jsonschemaSuite)
	r.Register("markup", markupSuite)
	r.Register("version", versionSuite)
	r.Register("tabulate", tabulateSuite)
	r.Register("humanize", humanizeSuite)
	r.Register("colorize", colorizeSuite)
	r.Register("dateparse", dateparseSuite)
	r.Register("charset", charsetSuite)
	r.Register("iterx", iterxSuite)
	r.Register("validators", validatorsSuite)

	r.Register("web-scraping", webScrapingSuite)
	r.Register("package-versions", packageVersionsSuite)

	return r
}

func (r *Registry) Register(name string, fn func() Suite) {
	r.suites[name] = fn
}

func (r *Registry) Get(name string) (Suite, error) {
	fn, ok := r.suites[name]
	if !ok {
		return Suite{}, fmt.Errorf("unknown suite: %s", name)
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.suites))
	for name := range r.suites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up each name, or every registered suite when names is empty.
func (r *Registry) Resolve(names []string) ([]Suite, error) {
	if len(names) == 0 {
		names = r.List()
	}
	suites := make([]Suite, 0, len(names))
	for _, name := range names {
		s, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}
