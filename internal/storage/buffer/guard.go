package buffer

import (
	"github.com/kianmercer/diskbuf/internal/dbtypes"
	"github.com/kianmercer/diskbuf/internal/storage/file"
	"github.com/kianmercer/diskbuf/internal/storage/page"
)

// PinGuard is sugar over the raw ReadPage/AllocPage + UnpinPage contract:
// a value whose Unpin call is the only thing standing between a client
// and forgetting to release a pin. It does not replace the public
// surface below it — Manager.ReadPage and Manager.AllocPage are
// unaffected and remain the primitive operations.
type PinGuard struct {
	m      *Manager
	f      file.File
	pageNo dbtypes.PageID
	p      *page.Page
}

// Pin reads (f, pageNo), returning a guard around the resulting pin.
func (m *Manager) Pin(f file.File, pageNo dbtypes.PageID) (*PinGuard, error) {
	p, err := m.ReadPage(f, pageNo)
	if err != nil {
		return nil, err
	}
	return &PinGuard{m: m, f: f, pageNo: pageNo, p: p}, nil
}

// PinNew allocates a new page on f, returning a guard around its pin.
func (m *Manager) PinNew(f file.File) (*PinGuard, error) {
	pageNo, p, err := m.AllocPage(f)
	if err != nil {
		return nil, err
	}
	return &PinGuard{m: m, f: f, pageNo: pageNo, p: p}, nil
}

// PageNumber returns the guarded page's identity.
func (g *PinGuard) PageNumber() dbtypes.PageID {
	return g.pageNo
}

// Bytes returns the guarded page's mutable body.
func (g *PinGuard) Bytes() []byte {
	return g.p.Data()
}

// Unpin releases the pin, applying dirty if true. Calling Unpin a second
// time on the same guard behaves exactly as a direct second UnpinPage
// call would: PageNotPinned if the page is still resident with no pin
// left, otherwise another holder's pin is released, or nothing happens if
// the page is no longer resident.
func (g *PinGuard) Unpin(dirty bool) error {
	return g.m.UnpinPage(g.f, g.pageNo, dirty)
}
