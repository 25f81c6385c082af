// Package validators provides predicates for common string formats:
// e-mail addresses, URLs, domains, IP addresses, hashes, card numbers and
// more. Every predicate returns false rather than an error; [Check] wraps a
// named predicate into an error for callers that need one.
package validators

import (
	"cmp"
	"encoding/base64"
	"fmt"
	"maps"
	"math/big"
	"net/netip"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

var (
	emailUserRe = regexp.MustCompile("^[a-zA-Z0-9!#$%&'*+/=?^_`{|}~-]+(\\.[a-zA-Z0-9!#$%&'*+/=?^_`{|}~-]+)*$")
	labelRe     = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)
	tldRe       = regexp.MustCompile(`^([a-zA-Z]{2,63}|xn--[a-zA-Z0-9-]{1,59})$`)
	slugRe      = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	uuidRe      = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	macColonRe  = regexp.MustCompile(`^([0-9a-fA-F]{2}:){5}[0-9a-fA-F]{2}$`)
	macDashRe   = regexp.MustCompile(`^([0-9a-fA-F]{2}-){5}[0-9a-fA-F]{2}$`)
	ibanRe      = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`)
	hexRe       = regexp.MustCompile(`^[0-9a-fA-F]+$`)
)

// Email reports whether s is a syntactically valid e-mail address.
func Email(s string) bool {
	if s == "" || len(s) > 254 {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	user, domain := s[:at], s[at+1:]
	if len(user) > 64 || !emailUserRe.MatchString(user) {
		return false
	}
	if strings.HasPrefix(domain, "[") && strings.HasSuffix(domain, "]") {
		return IPAddress(domain[1 : len(domain)-1])
	}
	return Domain(domain)
}

// Domain reports whether s is a fully qualified domain name. Internationalized
// names are checked in their punycode form.
func Domain(s string) bool {
	if s == "" || strings.HasSuffix(s, ".") || strings.ContainsAny(s, " \t") {
		return false
	}
	ascii, err := idna.ToASCII(s)
	if err != nil || len(ascii) > 253 {
		return false
	}
	labels := strings.Split(ascii, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels[:len(labels)-1] {
		if !labelRe.MatchString(l) {
			return false
		}
	}
	return tldRe.MatchString(labels[len(labels)-1])
}

// Hostname accepts domains, single labels such as "localhost" and IP addresses.
func Hostname(s string) bool {
	if IPAddress(s) || Domain(s) {
		return true
	}
	return labelRe.MatchString(s)
}

// URL reports whether s is an http, https, ftp or ftps URL with a valid host.
// With public set, loopback, private and link-local hosts are rejected.
func URL(s string, public bool) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp", "ftps":
	default:
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return false
		}
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		if public && !publicAddr(addr) {
			return false
		}
		return addr.Zone() == ""
	}
	if strings.EqualFold(host, "localhost") {
		return !public
	}
	return Domain(host)
}

func publicAddr(a netip.Addr) bool {
	return !(a.IsLoopback() || a.IsPrivate() || a.IsLinkLocalUnicast() ||
		a.IsLinkLocalMulticast() || a.IsUnspecified() || a.IsMulticast())
}

// IPv4 reports whether s is a dotted-quad IPv4 address.
func IPv4(s string) bool {
	a, err := netip.ParseAddr(s)
	return err == nil && a.Is4()
}

// IPv6 reports whether s is an IPv6 address without a zone.
func IPv6(s string) bool {
	a, err := netip.ParseAddr(s)
	return err == nil && a.Is6() && a.Zone() == ""
}

// IPAddress reports whether s is an IPv4 or IPv6 address.
func IPAddress(s string) bool { return IPv4(s) || IPv6(s) }

// IPv4CIDR reports whether s is an IPv4 network in CIDR notation.
func IPv4CIDR(s string) bool {
	p, err := netip.ParsePrefix(s)
	return err == nil && p.Addr().Is4()
}

// Slug reports whether s consists of letters, digits, hyphens and underscores.
func Slug(s string) bool { return slugRe.MatchString(s) }

// UUID reports whether s is a hyphenated UUID of any version.
func UUID(s string) bool { return uuidRe.MatchString(s) }

func hexOfLen(s string, n int) bool { return len(s) == n && hexRe.MatchString(s) }

func MD5(s string) bool    { return hexOfLen(s, 32) }
func SHA1(s string) bool   { return hexOfLen(s, 40) }
func SHA224(s string) bool { return hexOfLen(s, 56) }
func SHA256(s string) bool { return hexOfLen(s, 64) }
func SHA512(s string) bool { return hexOfLen(s, 128) }

// MACAddress accepts six colon- or hyphen-separated hex pairs.
func MACAddress(s string) bool {
	return macColonRe.MatchString(s) || macDashRe.MatchString(s)
}

// Between reports whether lo <= v <= hi. An inverted range never matches.
func Between[T cmp.Ordered](v, lo, hi T) bool {
	if lo > hi {
		return false
	}
	return v >= lo && v <= hi
}

// Length reports whether s has between min and max characters inclusive.
// A negative max means no upper bound.
func Length(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	if n < min {
		return false
	}
	return max < 0 || n <= max
}

// CardNumber reports whether s is 12 to 19 digits passing the Luhn check.
func CardNumber(s string) bool {
	if len(s) < 12 || len(s) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func Visa(s string) bool {
	return CardNumber(s) && s[0] == '4' && (len(s) == 13 || len(s) == 16 || len(s) == 19)
}

func Mastercard(s string) bool {
	if !CardNumber(s) || len(s) != 16 {
		return false
	}
	p2, _ := strconv.Atoi(s[:2])
	p4, _ := strconv.Atoi(s[:4])
	return (p2 >= 51 && p2 <= 55) || (p4 >= 2221 && p4 <= 2720)
}

func Amex(s string) bool {
	return CardNumber(s) && len(s) == 15 && (strings.HasPrefix(s, "34") || strings.HasPrefix(s, "37"))
}

// IBAN checks the structure and the mod-97 check digits of an account number.
func IBAN(s string) bool {
	if !ibanRe.MatchString(s) {
		return false
	}
	rearranged := s[4:] + s[:4]
	var digits strings.Builder
	for _, r := range rearranged {
		if r >= 'A' && r <= 'Z' {
			digits.WriteString(strconv.Itoa(int(r-'A') + 10))
		} else {
			digits.WriteRune(r)
		}
	}
	n, ok := new(big.Int).SetString(digits.String(), 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(n, big.NewInt(97)).Int64() == 1
}

// Base64 reports whether s is padded standard base64.
func Base64(s string) bool {
	if s == "" || len(s)%4 != 0 {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}

// CountryCode reports whether s is an ISO 3166-1 alpha-2 code.
func CountryCode(s string) bool {
	return len(s) == 2 && countryCodes[strings.ToUpper(s)]
}

// ValidationError is returned by Check for a value that fails a validator.
type ValidationError struct {
	Func  string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s(%q)", e.Func, e.Value)
}

var registry = map[string]func(string) bool{
	"email":        Email,
	"domain":       Domain,
	"hostname":     Hostname,
	"url":          func(s string) bool { return URL(s, false) },
	"public_url":   func(s string) bool { return URL(s, true) },
	"ipv4":         IPv4,
	"ipv6":         IPv6,
	"ip_address":   IPAddress,
	"ipv4_cidr":    IPv4CIDR,
	"slug":         Slug,
	"uuid":         UUID,
	"md5":          MD5,
	"sha1":         SHA1,
	"sha224":       SHA224,
	"sha256":       SHA256,
	"sha512":       SHA512,
	"mac_address":  MACAddress,
	"card_number":  CardNumber,
	"visa":         Visa,
	"mastercard":   Mastercard,
	"amex":         Amex,
	"iban":         IBAN,
	"base64":       Base64,
	"country_code": CountryCode,
}

// Check runs the named validator against value.
func Check(name, value string) error {
	fn, ok := registry[name]
	if !ok {
		return fmt.Errorf("unknown validator: %s", name)
	}
	if !fn(value) {
		return &ValidationError{Func: name, Value: value}
	}
	return nil
}

// Names lists the validators available to Check.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}
