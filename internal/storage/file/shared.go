package file

import (
	"github.com/kianmercer/diskbuf/internal/dbtypes"
	"github.com/kianmercer/diskbuf/internal/storage/page"
)

// File is the only external contract the buffer pool manager depends on.
// Implementations are expected to be comparable (e.g. a pointer type) so
// that two handles to the same underlying on-disk file compare equal with
// Go's native == — the resident-page index relies on that identity.
type File interface {
	// AllocatePage allocates a new page within the file and returns it
	// stamped with its freshly assigned page number.
	AllocatePage() (*page.Page, error)

	// ReadPage reads the bytes of the indicated page into a fresh page
	// value.
	ReadPage(pageNo dbtypes.PageID) (*page.Page, error)

	// WritePage persists the bytes of p to the slot identified by its
	// page number.
	WritePage(p *page.Page) error

	// DeletePage releases a page number back to the file for reuse.
	DeletePage(pageNo dbtypes.PageID) error

	// Filename returns an identifier used in error diagnostics.
	Filename() string
}
