package version

import (
	"fmt"
	"slices"
	"strings"
)

// Specifier is a single version clause such as ">=1.0" or "==2.1.*".
type Specifier struct {
	Op       string
	Version  string
	wildcard bool
	v        *Version
}

// SpecifierSet is a comma-separated conjunction of specifiers.
type SpecifierSet []Specifier

var operators = []string{"===", "~=", "==", "!=", "<=", ">=", "<", ">"}

// ParseSpecifier parses a set like ">=1.0, <2.0, !=1.5.*".
func ParseSpecifier(s string) (SpecifierSet, error) {
	var set SpecifierSet
	for _, clause := range strings.Split(s, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		spec, err := parseClause(clause)
		if err != nil {
			return nil, err
		}
		set = append(set, spec)
	}
	return set, nil
}

func parseClause(clause string) (Specifier, error) {
	for _, op := range operators {
		rest, ok := strings.CutPrefix(clause, op)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		spec := Specifier{Op: op, Version: rest}
		if op == "===" {
			return spec, nil
		}
		if base, found := strings.CutSuffix(rest, ".*"); found {
			if op != "==" && op != "!=" {
				return Specifier{}, fmt.Errorf("invalid specifier %q: wildcard only allowed with == and !=", clause)
			}
			spec.wildcard = true
			rest = base
		}
		v, err := Parse(rest)
		if err != nil {
			return Specifier{}, fmt.Errorf("invalid specifier %q: %w", clause, err)
		}
		if op == "~=" && len(v.release) < 2 {
			return Specifier{}, fmt.Errorf("invalid specifier %q: ~= needs at least two release segments", clause)
		}
		spec.v = v
		return spec, nil
	}
	return Specifier{}, fmt.Errorf("invalid specifier %q: missing operator", clause)
}

func (s Specifier) String() string { return s.Op + s.Version }

// Contains reports whether v satisfies the specifier.
func (s Specifier) Contains(v *Version) bool {
	switch s.Op {
	case "===":
		return strings.EqualFold(v.String(), s.Version)
	case "==":
		if s.wildcard {
			return prefixMatch(v, s.v)
		}
		return equalIgnoringLocal(v, s.v)
	case "!=":
		if s.wildcard {
			return !prefixMatch(v, s.v)
		}
		return !equalIgnoringLocal(v, s.v)
	case "<=":
		return publicOf(v).Compare(s.v) <= 0
	case ">=":
		return publicOf(v).Compare(s.v) >= 0
	case "<":
		if v.Compare(s.v) >= 0 {
			return false
		}
		return s.v.IsPrerelease() || !v.IsPrerelease() || !sameRelease(v, s.v)
	case ">":
		if v.Compare(s.v) <= 0 {
			return false
		}
		if !s.v.IsPostrelease() && v.IsPostrelease() && sameRelease(v, s.v) {
			return false
		}
		return len(v.local) == 0 || publicOf(v).Compare(s.v) != 0
	case "~=":
		prefix := &Version{epoch: s.v.epoch, release: s.v.release[:len(s.v.release)-1]}
		return publicOf(v).Compare(s.v) >= 0 && prefixMatch(v, prefix)
	}
	return false
}

// Contains reports whether v satisfies every specifier. Pre-releases are
// excluded unless prereleases is set or a specifier names one explicitly.
func (set SpecifierSet) Contains(v *Version, prereleases bool) bool {
	if v.IsPrerelease() && !prereleases {
		allowed := false
		for _, s := range set {
			if s.v != nil && s.v.IsPrerelease() {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}
	for _, s := range set {
		if !s.Contains(v) {
			return false
		}
	}
	return true
}

// Filter returns the versions contained in the set, preserving order.
func (set SpecifierSet) Filter(vs []*Version, prereleases bool) []*Version {
	var out []*Version
	for _, v := range vs {
		if set.Contains(v, prereleases) {
			out = append(out, v)
		}
	}
	return out
}

func (set SpecifierSet) String() string {
	parts := make([]string, len(set))
	for i, s := range set {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

// sameRelease compares epoch and release numerically, so 1.0 and 1.0.0 agree.
func sameRelease(v, o *Version) bool {
	return v.epoch == o.epoch && slices.Equal(trimZeros(v.release), trimZeros(o.release))
}

func publicOf(v *Version) *Version {
	if len(v.local) == 0 {
		return v
	}
	c := *v
	c.local = nil
	return &c
}

func equalIgnoringLocal(v, spec *Version) bool {
	if len(spec.local) == 0 {
		return publicOf(v).Compare(spec) == 0
	}
	return v.Compare(spec) == 0
}

// prefixMatch compares the release of v against the release of spec,
// padding v with zeros, as in "==1.4.*".
func prefixMatch(v, spec *Version) bool {
	if v.epoch != spec.epoch {
		return false
	}
	for i, n := range spec.release {
		if v.segment(i) != n {
			return false
		}
	}
	return true
}
