package jsonschema

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/san-kum/speedlab/internal/validators"
)

// checkFormat reports whether s satisfies a known format. Unknown formats
// are annotations only and always pass.
func checkFormat(format, s string) bool {
	switch format {
	case "email", "idn-email":
		return validators.Email(s)
	case "ipv4":
		return validators.IPv4(s)
	case "ipv6":
		return validators.IPv6(s)
	case "hostname", "idn-hostname":
		return validators.Hostname(s)
	case "uri", "iri":
		u, err := url.Parse(s)
		return err == nil && u.Scheme != ""
	case "uri-reference", "iri-reference":
		_, err := url.Parse(s)
		return err == nil
	case "date":
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	case "time":
		_, err := time.Parse("15:04:05Z07:00", strings.ToUpper(s))
		return err == nil
	case "date-time":
		// RFC 3339 allows lowercase t and z; time.Parse does not.
		_, err := time.Parse(time.RFC3339Nano, strings.ToUpper(s))
		return err == nil
	case "uuid":
		return validators.UUID(s)
	case "regex":
		_, err := regexp.Compile(s)
		return err == nil
	}
	return true
}
