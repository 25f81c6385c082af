// Package tomlparse decodes TOML v1.0 documents into plain Go values.
//
// Decoded documents use the following representation:
//
//   - tables: map[string]any
//   - arrays and arrays of tables: []any
//   - strings, booleans: string, bool
//   - integers: int64, floats: float64
//   - offset date-times: time.Time
//   - local date-times, dates and times: [LocalDateTime], [LocalDate], [LocalTime]
//
// # Example
//
//	doc, err := tomlparse.Loads("[server]\nport = 8080\n")
//	if err != nil {
//		var derr *tomlparse.DecodeError
//		errors.As(err, &derr)
//	}
//	port := doc["server"].(map[string]any)["port"].(int64)
package tomlparse
