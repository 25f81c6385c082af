package humanize

import (
	"fmt"
	"math"
)

var (
	decimalSuffixes = []string{" kB", " MB", " GB", " TB", " PB", " EB", " ZB", " YB", " RB", " QB"}
	binarySuffixes  = []string{" KiB", " MiB", " GiB", " TiB", " PiB", " EiB", " ZiB", " YiB"}
	gnuSuffixes     = []string{"K", "M", "G", "T", "P", "E", "Z", "Y"}
)

// NaturalSize formats a byte count. Decimal units (kB, MB) are used by
// default, binary units (KiB, MiB) when binary is set, and the compact GNU
// style (1.0K) when gnu is set.
func NaturalSize(bytes float64, binary, gnu bool) string {
	suffixes := decimalSuffixes
	base := 1000.0
	switch {
	case gnu:
		suffixes, base = gnuSuffixes, 1024
	case binary:
		suffixes, base = binarySuffixes, 1024
	}

	abs := math.Abs(bytes)
	switch {
	case abs == 1 && !gnu:
		return fmt.Sprintf("%d Byte", int64(bytes))
	case abs < base && !gnu:
		return fmt.Sprintf("%d Bytes", int64(bytes))
	case abs < base:
		return fmt.Sprintf("%dB", int64(bytes))
	}

	var unit float64
	var suffix string
	for i, s := range suffixes {
		unit = math.Pow(base, float64(i+2))
		suffix = s
		if abs < unit {
			break
		}
	}
	return fmt.Sprintf("%.1f%s", base*bytes/unit, suffix)
}
