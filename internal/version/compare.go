package version

import (
	"cmp"
	"slices"
	"strconv"
)

// rank orders the absent/present states of an optional segment.
const (
	rankNegInf = -1
	rankValue  = 0
	rankPosInf = 1
)

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to
// or after o.
func (v *Version) Compare(o *Version) int {
	if c := cmp.Compare(v.epoch, o.epoch); c != 0 {
		return c
	}
	if c := slices.Compare(trimZeros(v.release), trimZeros(o.release)); c != 0 {
		return c
	}
	if c := comparePre(v, o); c != 0 {
		return c
	}
	if c := compareOptional(v.post, o.post, rankNegInf); c != 0 {
		return c
	}
	if c := compareOptional(v.dev, o.dev, rankPosInf); c != 0 {
		return c
	}
	return compareLocal(v.local, o.local)
}

func (v *Version) Less(o *Version) bool  { return v.Compare(o) < 0 }
func (v *Version) Equal(o *Version) bool { return v.Compare(o) == 0 }

// Sort orders versions ascending.
func Sort(vs []*Version) {
	slices.SortStableFunc(vs, func(a, b *Version) int { return a.Compare(b) })
}

// preKey places a dev-only release before all of its pre-releases and a
// final release after them.
func preKey(v *Version) (int, string, int) {
	switch {
	case v.pre == nil && v.post == nil && v.dev != nil:
		return rankNegInf, "", 0
	case v.pre == nil:
		return rankPosInf, "", 0
	}
	return rankValue, v.pre.Label, v.pre.N
}

func comparePre(a, b *Version) int {
	ar, al, an := preKey(a)
	br, bl, bn := preKey(b)
	if c := cmp.Compare(ar, br); c != 0 || ar != rankValue {
		return c
	}
	if c := cmp.Compare(al, bl); c != 0 {
		return c
	}
	return cmp.Compare(an, bn)
}

func compareOptional(a, b *int, absent int) int {
	ra, rb := absent, absent
	if a != nil {
		ra = rankValue
	}
	if b != nil {
		rb = rankValue
	}
	if c := cmp.Compare(ra, rb); c != 0 || ra != rankValue {
		return c
	}
	return cmp.Compare(*a, *b)
}

// compareLocal: no label sorts lowest; numeric segments sort above
// alphanumeric ones; a shorter label that is a prefix sorts first.
func compareLocal(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return cmp.Compare(len(a), len(b))
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		an, aerr := strconv.Atoi(a[i])
		bn, berr := strconv.Atoi(b[i])
		aNum, bNum := aerr == nil, berr == nil
		var c int
		switch {
		case aNum && bNum:
			c = cmp.Compare(an, bn)
		case aNum:
			c = 1
		case bNum:
			c = -1
		default:
			c = cmp.Compare(a[i], b[i])
		}
		if c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}
