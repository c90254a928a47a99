package posting

// DocID is a caller-assigned document identifier. It is opaque to the core.
type DocID string

// Posting associates a matched value with a document. Engines may attach
// a frequency; the core only ever reads DocID.
type Posting struct {
	DocID     DocID
	Frequency int
}

// New creates a posting with frequency 1.
func New(doc DocID) Posting { return Posting{DocID: doc, Frequency: 1} }

// DocIDs projects postings to their document ids, preserving order.
func DocIDs(ps []Posting) []DocID {
	out := make([]DocID, len(ps))
	for i, p := range ps {
		out[i] = p.DocID
	}
	return out
}

// UniqueDocIDs projects postings to document ids, keeping only the first
// occurrence of each id. Order of first occurrences is preserved.
func UniqueDocIDs(ps []Posting) []DocID {
	out := make([]DocID, 0, len(ps))
	seen := make(map[DocID]struct{}, len(ps))
	for _, p := range ps {
		if _, ok := seen[p.DocID]; ok {
			continue
		}
		seen[p.DocID] = struct{}{}
		out = append(out, p.DocID)
	}
	return out
}
