// Package humanize renders numbers, sizes and durations for people:
// "1,234,567", "3rd", "1.2 million", "4.5 MB", "1 1/3", "a minute ago".
package humanize

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Intcomma groups the integer part of v with commas. v may be any integer
// or float type or a numeric string. ndigits >= 0 rounds floats to that many
// decimals first. Values that are not numbers are returned as text.
func Intcomma(v any, ndigits int) string {
	var s string
	switch x := v.(type) {
	case int:
		s = strconv.Itoa(x)
	case int32:
		s = strconv.FormatInt(int64(x), 10)
	case int64:
		s = strconv.FormatInt(x, 10)
	case uint:
		s = strconv.FormatUint(uint64(x), 10)
	case uint64:
		s = strconv.FormatUint(x, 10)
	case float32:
		s = formatFloat(float64(x), ndigits)
	case float64:
		s = formatFloat(x, ndigits)
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			s = strconv.FormatInt(n, 10)
		} else if f, err := strconv.ParseFloat(x, 64); err == nil {
			s = formatFloat(f, ndigits)
		} else {
			return x
		}
	default:
		return fmt.Sprint(v)
	}
	return groupThousands(s)
}

func formatFloat(f float64, ndigits int) string {
	if ndigits >= 0 {
		return strconv.FormatFloat(f, 'f', ndigits, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return sign + s
	}
	var sb strings.Builder
	head := len(intPart) % 3
	if head > 0 {
		sb.WriteString(intPart[:head])
	}
	for i := head; i < len(intPart); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(intPart[i : i+3])
	}
	out := sign + sb.String()
	if hasFrac {
		out += "." + frac
	}
	return out
}

// Ordinal returns n with its English ordinal suffix.
func Ordinal(n int64) string {
	m := n % 100
	if m < 0 {
		m = -m
	}
	suffix := "th"
	if m < 11 || m > 13 {
		switch m % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.FormatInt(n, 10) + suffix
}

var wordPowers = []struct {
	value float64
	name  string
}{
	{1e6, "million"},
	{1e9, "billion"},
	{1e12, "trillion"},
	{1e15, "quadrillion"},
	{1e18, "quintillion"},
	{1e21, "sextillion"},
	{1e24, "septillion"},
	{1e27, "octillion"},
	{1e30, "nonillion"},
	{1e33, "decillion"},
	{1e100, "googol"},
}

// Intword spells large numbers as "1.2 million". Values below one million
// are rendered with Intcomma.
func Intword(n float64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	if n < wordPowers[0].value {
		return sign + Intcomma(int64(n), -1)
	}
	for i := 1; i < len(wordPowers); i++ {
		if n >= wordPowers[i].value {
			continue
		}
		prev := wordPowers[i-1]
		chopped := n / prev.value
		s := fmt.Sprintf("%.1f", chopped)
		// 999,999,999 rounds to "1000.0 million"; promote it to the next word.
		if f, _ := strconv.ParseFloat(s, 64); f == wordPowers[i].value/prev.value {
			return sign + fmt.Sprintf("%.1f %s", n/wordPowers[i].value, wordPowers[i].name)
		}
		return sign + s + " " + prev.name
	}
	return sign + Intcomma(n, 0)
}

var apWords = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}

// Apnumber spells 0 through 9 as words, Associated Press style.
func Apnumber(n int64) string {
	if n < 0 || n > 9 {
		return strconv.FormatInt(n, 10)
	}
	return apWords[n]
}

// Fractional renders x as a whole number and a fraction with a denominator
// of at most 1000: 1.3 -> "1 3/10", 0.25 -> "1/4", 2.0 -> "2".
func Fractional(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	whole := math.Trunc(x)
	num, den := limitDenominator(x-whole, 1000)
	switch {
	case whole != 0 && num == 0 && den == 1:
		return fmt.Sprintf("%.0f", whole)
	case whole == 0:
		return fmt.Sprintf("%d/%d", num, den)
	}
	return fmt.Sprintf("%.0f %d/%d", whole, num, den)
}

// limitDenominator finds the closest fraction to f with a denominator no
// larger than max, using continued fractions on the exact value of f.
func limitDenominator(f float64, max int64) (int64, int64) {
	r := new(big.Rat).SetFloat64(f)
	if r.Denom().IsInt64() && r.Denom().Int64() <= max {
		return r.Num().Int64(), r.Denom().Int64()
	}

	n := new(big.Int).Set(r.Num())
	d := new(big.Int).Set(r.Denom())
	p0, q0, p1, q1 := big.NewInt(0), big.NewInt(1), big.NewInt(1), big.NewInt(0)
	bigMax := big.NewInt(max)
	for d.Sign() != 0 {
		// d stays positive, so Euclidean division is floor division.
		a := new(big.Int).Div(n, d)
		q2 := new(big.Int).Add(q0, new(big.Int).Mul(a, q1))
		if q2.Cmp(bigMax) > 0 {
			break
		}
		p0, q0, p1, q1 = p1, q1, new(big.Int).Add(p0, new(big.Int).Mul(a, p1)), q2
		n, d = d, new(big.Int).Sub(n, new(big.Int).Mul(a, d))
	}

	k := new(big.Int).Div(new(big.Int).Sub(bigMax, q0), q1)
	bound1 := new(big.Rat).SetFrac(new(big.Int).Add(p0, new(big.Int).Mul(k, p1)), new(big.Int).Add(q0, new(big.Int).Mul(k, q1)))
	bound2 := new(big.Rat).SetFrac(p1, q1)

	diff1 := new(big.Rat).Abs(new(big.Rat).Sub(bound2, r))
	diff2 := new(big.Rat).Abs(new(big.Rat).Sub(bound1, r))
	if diff1.Cmp(diff2) <= 0 {
		return bound2.Num().Int64(), bound2.Denom().Int64()
	}
	return bound1.Num().Int64(), bound1.Denom().Int64()
}

var superscripts = map[rune]string{
	'0': "⁰", '1': "¹", '2': "²", '3': "³", '4': "⁴",
	'5': "⁵", '6': "⁶", '7': "⁷", '8': "⁸", '9': "⁹", '-': "⁻",
}

// Scientific renders x as "1.00 x 10³" with precision mantissa decimals.
func Scientific(x float64, precision int) string {
	s := strconv.FormatFloat(x, 'e', precision, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	n, _ := strconv.Atoi(exp)
	var sb strings.Builder
	sb.WriteString(mantissa)
	sb.WriteString(" x 10")
	for _, r := range strconv.Itoa(n) {
		sb.WriteString(superscripts[r])
	}
	return sb.String()
}
