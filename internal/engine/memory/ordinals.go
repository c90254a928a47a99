package memory

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/kailas-cloud/fieldex/internal/domain/posting"
)

// ordinals maps document ids to dense uint32 ordinals in first-seen order,
// so bitmaps iterate documents in insertion order. Caller holds the lock.
type ordinals struct {
	byDoc map[posting.DocID]uint32
	docs  []posting.DocID
}

func newOrdinals() ordinals {
	return ordinals{byDoc: make(map[posting.DocID]uint32)}
}

func (o *ordinals) assign(doc posting.DocID) uint32 {
	if ord, ok := o.byDoc[doc]; ok {
		return ord
	}
	ord := uint32(len(o.docs)) //nolint:gosec // bounded by the bitmap domain
	o.byDoc[doc] = ord
	o.docs = append(o.docs, doc)
	return ord
}

func (o *ordinals) postings(bm *roaring.Bitmap, freq func(ord uint32) int) []posting.Posting {
	if bm == nil {
		return []posting.Posting{}
	}
	out := make([]posting.Posting, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		ord := it.Next()
		p := posting.New(o.docs[ord])
		if freq != nil {
			p.Frequency = freq(ord)
		}
		out = append(out, p)
	}
	return out
}
