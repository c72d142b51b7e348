package page

import (
	"github.com/kianmercer/diskbuf/internal/dbtypes"
)

// NewTestPage builds a page stamped with pageID and filled with data,
// truncating data that overflows the body. Used by the page package's
// tests that need a page with known contents without going through a
// File.
func NewTestPage(pageID dbtypes.PageID, data []byte) *Page {
	p := New(pageID)
	if len(data) > len(p.data) {
		data = data[:len(p.data)]
	}
	copy(p.data[:], data)
	return p
}
