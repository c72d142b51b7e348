package buffer

import (
	"github.com/pkg/errors"

	"github.com/kianmercer/diskbuf/internal/dbtypes"
	"github.com/kianmercer/diskbuf/internal/storage/page"
)

// clockEngine implements the second-chance replacement policy over a
// frameTable it does not own. It holds only the rotating hand — all
// frame state lives in the table and index passed to sweep.
type clockEngine struct {
	hand      int
	numFrames int
}

func newClockEngine(numFrames int) *clockEngine {
	return &clockEngine{hand: numFrames - 1, numFrames: numFrames}
}

// advance moves the hand one step, wrapping at numFrames.
func (c *clockEngine) advance() {
	c.hand++
	if c.hand == c.numFrames {
		c.hand = 0
	}
}

// sweep selects a free frame id, evicting if necessary. It is bounded to
// 2*numFrames steps: one full sweep clears any stale refbits, a second
// then finds a victim if one exists. If every frame is pinned, it fails
// with dbtypes.ErrBufferFull.
//
// On success for an eviction (as opposed to a never-valid frame), the
// victim's dirty content has already been written back and its index
// entry removed; the caller must still re-populate the descriptor via
// set() and re-insert the new index entry.
func (c *clockEngine) sweep(frames frameTable, idx *residentIndex, pool []*page.Page) (int, error) {
	limit := 2 * c.numFrames
	for step := 0; step < limit; step++ {
		c.advance()
		f := c.hand
		d := &frames[f]

		switch {
		case !d.valid:
			return f, nil

		case d.pinCnt == 0 && !d.refbit:
			if d.dirty {
				if err := d.fileRef.WritePage(pool[f]); err != nil {
					return -1, errors.Wrapf(err, "clock: writeback frame %d page %d", f, d.pageNo)
				}
			}
			idx.remove(d.residentKey())
			return f, nil

		case d.pinCnt == 0 && d.refbit:
			d.refbit = false
			// hand already advanced; loop continues

		default:
			// pinned: refbit is left untouched, hand already advanced
		}
	}
	return -1, dbtypes.ErrBufferFull
}
