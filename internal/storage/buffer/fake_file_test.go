package buffer

import (
	"github.com/kianmercer/diskbuf/internal/dbtypes"
	"github.com/kianmercer/diskbuf/internal/storage/page"
)

// fakeFile is an in-memory File double used to make the manager's tests
// independent of real disk I/O and able to assert exactly how many times
// WritePage/DeletePage were called.
type fakeFile struct {
	name    string
	pages   map[dbtypes.PageID]*page.Page
	next    dbtypes.PageID
	writes  map[dbtypes.PageID]int
	deleted map[dbtypes.PageID]bool
}

func newFakeFile(name string) *fakeFile {
	return &fakeFile{
		name:    name,
		pages:   make(map[dbtypes.PageID]*page.Page),
		next:    1,
		writes:  make(map[dbtypes.PageID]int),
		deleted: make(map[dbtypes.PageID]bool),
	}
}

func (f *fakeFile) AllocatePage() (*page.Page, error) {
	p := page.New(f.next)
	f.pages[f.next] = p
	f.next++
	return p, nil
}

func (f *fakeFile) ReadPage(pageNo dbtypes.PageID) (*page.Page, error) {
	stored, ok := f.pages[pageNo]
	if !ok {
		return nil, dbtypes.ErrPageOutOfBounds
	}
	cp := page.New(pageNo)
	copy(cp.Data(), stored.Data())
	return cp, nil
}

func (f *fakeFile) WritePage(p *page.Page) error {
	f.writes[p.PageNumber()]++
	cp := page.New(p.PageNumber())
	copy(cp.Data(), p.Data())
	f.pages[p.PageNumber()] = cp
	return nil
}

func (f *fakeFile) DeletePage(pageNo dbtypes.PageID) error {
	f.deleted[pageNo] = true
	delete(f.pages, pageNo)
	return nil
}

func (f *fakeFile) Filename() string {
	return f.name
}
