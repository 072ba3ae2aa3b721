package app

import (
	"fmt"
	"strings"
	"time"
)

// GameTimeFormat is the compact timestamp layout used by the game API (e.g. war log end times)
const GameTimeFormat = "20060102T150405.000Z"

// Timestamp is a time.Time that accepts both RFC 3339 and the game API's compact layout
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t as a Timestamp
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses an RFC 3339 or compact game API timestamp.
// Anything else fails with ErrParse.
func ParseTimestamp(value string) (Timestamp, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return Timestamp{Time: t}, nil
	}
	if t, err := time.Parse(GameTimeFormat, value); err == nil {
		return Timestamp{Time: t.UTC()}, nil
	}
	return Timestamp{}, fmt.Errorf("%w: timestamp %q is neither RFC 3339 nor %s", ErrParse, value, GameTimeFormat)
}

// UnmarshalJSON implements json.Unmarshaler
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	raw := string(data)
	// null leaves the zero value; validation rejects the record later
	if raw == "null" {
		return nil
	}
	parsed, err := ParseTimestamp(strings.Trim(raw, `"`))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalJSON implements json.Marshaler, always emitting RFC 3339
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.Time.UTC().Format(time.RFC3339) + `"`), nil
}
