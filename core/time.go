package core

import (
	"bytes"
	"fmt"
	"time"
)

// galaxyTimeLayout is the zone-less timestamp format the server emits, e.g.
// "2015-10-31T22:00:22". Timestamps are UTC.
const galaxyTimeLayout = "2006-01-02T15:04:05"

// Time wraps time.Time to accept both RFC 3339 timestamps and the zone-less
// format the server uses for update_time fields.
type Time struct {
	time.Time
}

var null = []byte("null")

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, null) {
		t.Time = time.Time{}
		return nil
	}

	s := string(bytes.Trim(data, `"`))
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}

	parsed, err := time.Parse(galaxyTimeLayout, s)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", s, err)
	}

	t.Time = parsed.UTC()
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return null, nil
	}

	return []byte(`"` + t.UTC().Format(galaxyTimeLayout) + `"`), nil
}
