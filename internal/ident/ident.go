// Package ident parses and sanitizes identifiers used by region diagrams.
package ident

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedHitID is returned when a search-hit identifier cannot be parsed.
var ErrMalformedHitID = errors.New("malformed search hit identifier")

// Sanitize replaces every character outside [A-Za-z0-9] with an underscore,
// producing a token safe for file names and contig keys.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// HitLocation is the contig and span encoded in a search-hit identifier.
// Start > Stop indicates a hit on the reverse strand.
type HitLocation struct {
	Contig string
	Start  int64
	Stop   int64
}

// SplitSearchHitID parses an identifier of the form contig_start_stop.
// The contig may itself contain underscores.
func SplitSearchHitID(id string) (HitLocation, error) {
	stopIdx := strings.LastIndex(id, "_")
	if stopIdx <= 0 {
		return HitLocation{}, fmt.Errorf("%w: %q", ErrMalformedHitID, id)
	}
	startIdx := strings.LastIndex(id[:stopIdx], "_")
	if startIdx <= 0 {
		return HitLocation{}, fmt.Errorf("%w: %q", ErrMalformedHitID, id)
	}

	start, err := strconv.ParseInt(id[startIdx+1:stopIdx], 10, 64)
	if err != nil {
		return HitLocation{}, fmt.Errorf("%w: %q: start: %v", ErrMalformedHitID, id, err)
	}
	stop, err := strconv.ParseInt(id[stopIdx+1:], 10, 64)
	if err != nil {
		return HitLocation{}, fmt.Errorf("%w: %q: stop: %v", ErrMalformedHitID, id, err)
	}

	return HitLocation{Contig: id[:startIdx], Start: start, Stop: stop}, nil
}
