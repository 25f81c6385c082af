// Package version parses and orders PEP 440 version strings.
//
// Versions carry an epoch, a dotted release, and optional pre-release,
// post-release, development and local segments:
//
//	v, _ := version.Parse("1!2.0.0rc1.post2.dev3+ubuntu.1")
//	v.String()       // "1!2.0.0rc1.post2.dev3+ubuntu.1"
//	v.BaseVersion()  // "1!2.0.0"
//
// Ordering follows the packaging reference: 1.0.dev0 < 1.0a1 < 1.0 <
// 1.0.post1, and trailing zero release segments are ignored (1.0 == 1.0.0).
package version

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var versionRe = regexp.MustCompile(`(?i)^\s*v?` +
	`(?:(?P<epoch>[0-9]+)!)?` +
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` +
	`(?P<pre>[-_.]?(?P<pre_l>a|b|c|rc|alpha|beta|pre|preview)[-_.]?(?P<pre_n>[0-9]+)?)?` +
	`(?P<post>(?:-(?P<post_n1>[0-9]+))|(?:[-_.]?(?P<post_l>post|rev|r)[-_.]?(?P<post_n2>[0-9]+)?))?` +
	`(?P<dev>[-_.]?(?P<dev_l>dev)[-_.]?(?P<dev_n>[0-9]+)?)?` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_.][a-z0-9]+)*))?\s*$`)

var groups = func() map[string]int {
	m := make(map[string]int)
	for i, name := range versionRe.SubexpNames() {
		if name != "" {
			m[name] = i
		}
	}
	return m
}()

// InvalidVersionError reports a string that is not a PEP 440 version.
type InvalidVersionError struct {
	Input string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version: %q", e.Input)
}

// Pre is a pre-release tag: "a", "b" or "rc" with a number.
type Pre struct {
	Label string
	N     int
}

// Version is a parsed PEP 440 version.
type Version struct {
	epoch   int
	release []int
	pre     *Pre
	post    *int
	dev     *int
	local   []string
}

// Parse parses s into a Version.
func Parse(s string) (*Version, error) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return nil, &InvalidVersionError{Input: s}
	}
	get := func(name string) string { return m[groups[name]] }

	invalid := &InvalidVersionError{Input: s}
	v := &Version{}
	var err error
	if v.epoch, err = atoi(get("epoch")); err != nil {
		return nil, invalid
	}
	for _, part := range strings.Split(get("release"), ".") {
		n, err := atoi(part)
		if err != nil {
			return nil, invalid
		}
		v.release = append(v.release, n)
	}
	if get("pre") != "" {
		n, err := atoi(get("pre_n"))
		if err != nil {
			return nil, invalid
		}
		v.pre = &Pre{Label: normalizePre(get("pre_l")), N: n}
	}
	if get("post") != "" {
		digits := get("post_n1")
		if digits == "" {
			digits = get("post_n2")
		}
		n, err := atoi(digits)
		if err != nil {
			return nil, invalid
		}
		v.post = &n
	}
	if get("dev") != "" {
		n, err := atoi(get("dev_n"))
		if err != nil {
			return nil, invalid
		}
		v.dev = &n
	}
	if l := get("local"); l != "" {
		v.local = strings.FieldsFunc(strings.ToLower(l), func(r rune) bool {
			return r == '-' || r == '_' || r == '.'
		})
	}
	return v, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsValid reports whether s parses as a version. Numbers that overflow an
// int make the version invalid.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Canonicalize returns the normalized form of s with trailing zero release
// segments removed. Strings that are not versions are returned unchanged.
func Canonicalize(s string) string {
	v, err := Parse(s)
	if err != nil {
		return s
	}
	var sb strings.Builder
	if v.epoch != 0 {
		fmt.Fprintf(&sb, "%d!", v.epoch)
	}
	rel := trimZeros(v.release)
	if len(rel) == 0 {
		rel = []int{0}
	}
	sb.WriteString(joinInts(rel))
	v.writeSuffix(&sb, true)
	return sb.String()
}

func normalizePre(l string) string {
	switch strings.ToLower(l) {
	case "a", "alpha":
		return "a"
	case "b", "beta":
		return "b"
	default:
		return "rc"
	}
}

// atoi reads an optional number; an empty string is 0.
func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (v *Version) Epoch() int     { return v.epoch }
func (v *Version) Release() []int { return slices.Clone(v.release) }

func (v *Version) segment(i int) int {
	if i < len(v.release) {
		return v.release[i]
	}
	return 0
}

func (v *Version) Major() int { return v.segment(0) }
func (v *Version) Minor() int { return v.segment(1) }
func (v *Version) Micro() int { return v.segment(2) }

// Pre returns the pre-release tag, if any.
func (v *Version) Pre() (Pre, bool) {
	if v.pre == nil {
		return Pre{}, false
	}
	return *v.pre, true
}

// Post returns the post-release number, if any.
func (v *Version) Post() (int, bool) {
	if v.post == nil {
		return 0, false
	}
	return *v.post, true
}

// Dev returns the development release number, if any.
func (v *Version) Dev() (int, bool) {
	if v.dev == nil {
		return 0, false
	}
	return *v.dev, true
}

// Local returns the local label, e.g. "ubuntu.1", or "".
func (v *Version) Local() string { return strings.Join(v.local, ".") }

func (v *Version) IsPrerelease() bool  { return v.pre != nil || v.dev != nil }
func (v *Version) IsPostrelease() bool { return v.post != nil }
func (v *Version) IsDevrelease() bool  { return v.dev != nil }

// BaseVersion is the epoch and release only.
func (v *Version) BaseVersion() string {
	var sb strings.Builder
	if v.epoch != 0 {
		fmt.Fprintf(&sb, "%d!", v.epoch)
	}
	sb.WriteString(joinInts(v.release))
	return sb.String()
}

// Public is the normalized version without its local label.
func (v *Version) Public() string {
	var sb strings.Builder
	sb.WriteString(v.BaseVersion())
	v.writeSuffix(&sb, false)
	return sb.String()
}

func (v *Version) String() string {
	var sb strings.Builder
	sb.WriteString(v.BaseVersion())
	v.writeSuffix(&sb, true)
	return sb.String()
}

func (v *Version) writeSuffix(sb *strings.Builder, withLocal bool) {
	if v.pre != nil {
		fmt.Fprintf(sb, "%s%d", v.pre.Label, v.pre.N)
	}
	if v.post != nil {
		fmt.Fprintf(sb, ".post%d", *v.post)
	}
	if v.dev != nil {
		fmt.Fprintf(sb, ".dev%d", *v.dev)
	}
	if withLocal && len(v.local) > 0 {
		sb.WriteString("+" + v.Local())
	}
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ".")
}

func trimZeros(xs []int) []int {
	n := len(xs)
	for n > 0 && xs[n-1] == 0 {
		n--
	}
	return xs[:n]
}
