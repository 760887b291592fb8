package codespec

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Spec describes how one entity type's human-readable code is shaped:
// a prefix (fixed literal or derived from the current date) followed by a
// zero-padded sequence number of fixed width.
type Spec struct {
	Entity string
	Prefix string
	Width  int

	// YearPrefix derives the prefix from the two-digit year instead of the
	// literal Prefix. Sequences reset their scope per computed prefix, so
	// employee 260001 and 250001 can coexist.
	YearPrefix bool

	// TimestampFallback allows a timestamp-derived code when the max-scan
	// fails transiently. The fallback is still unique-checked on insert.
	TimestampFallback bool
}

// PrefixAt returns the effective prefix for codes allocated at the given time.
func (s Spec) PrefixAt(now time.Time) string {
	if s.YearPrefix {
		return fmt.Sprintf("%02d", now.Year()%100)
	}
	return s.Prefix
}

// Format renders sequence number n as a full code. Numbers that do not fit the
// fixed width are rejected: silently truncating or widening would break every
// consumer of the fixed-format codes.
func (s Spec) Format(prefix string, n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("codespec %s: sequence number must be positive, got %d", s.Entity, n)
	}
	digits := strconv.Itoa(n)
	if len(digits) > s.Width {
		return "", fmt.Errorf("codespec %s: sequence %d overflows width %d", s.Entity, n, s.Width)
	}
	return prefix + strings.Repeat("0", s.Width-len(digits)) + digits, nil
}

// Parse extracts the sequence number from an existing code under the given
// prefix. Malformed codes (wrong prefix, non-numeric or wrongly sized suffix)
// report ok=false and are skipped by the allocator's max-scan.
func (s Spec) Parse(code, prefix string) (int, bool) {
	suffix, found := strings.CutPrefix(code, prefix)
	if !found || len(suffix) != s.Width {
		return 0, false
	}
	// Atoi alone is too lenient: it accepts a leading sign.
	for i := 0; i < len(suffix); i++ {
		if suffix[i] < '0' || suffix[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Fallback derives a timestamp-based code for the given time. It reports
// ok=false for specs that do not opt in to the fallback.
func (s Spec) Fallback(now time.Time) (string, bool) {
	if !s.TimestampFallback {
		return "", false
	}
	prefix := s.PrefixAt(now)
	stamp := strconv.FormatInt(now.UnixNano(), 10)
	if len(stamp) > s.Width {
		stamp = stamp[len(stamp)-s.Width:]
	} else {
		stamp = strings.Repeat("0", s.Width-len(stamp)) + stamp
	}
	return prefix + stamp, true
}
