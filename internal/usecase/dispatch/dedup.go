package dispatch

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
)

// Dedup controls whether query results drop repeated document ids.
type Dedup int

const (
	// DedupAuto deduplicates unless the field's engine declares unique postings.
	DedupAuto Dedup = iota
	// DedupAlways deduplicates every result.
	DedupAlways
	// DedupNever returns one id per posting, repeats included.
	DedupNever
)

func (d Dedup) String() string {
	switch d {
	case DedupAlways:
		return "always"
	case DedupNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseDedup parses "auto", "always" or "never". Empty means auto.
func ParseDedup(s string) (Dedup, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DedupAuto, nil
	case "always":
		return DedupAlways, nil
	case "never":
		return DedupNever, nil
	default:
		return DedupAuto, fmt.Errorf("unknown dedup policy %q (want auto, always or never)", s)
	}
}

// project turns postings into document ids, keeping engine order.
func (d Dedup) project(ps []posting.Posting, caps engine.Capabilities) []posting.DocID {
	switch {
	case d == DedupNever, d == DedupAuto && caps.Unique:
		return posting.DocIDs(ps)
	default:
		return posting.UniqueDocIDs(ps)
	}
}
