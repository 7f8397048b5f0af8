package utils

import "time"

// NowTimestamp returns the current UTC time in the wire format used for
// memo and message timestamps (RFC3339 with nanoseconds).
func NowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp parses a wire-format timestamp. Returns the zero time on
// failure; ordering treats unparsable timestamps as epoch-zero.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
