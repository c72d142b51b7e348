// Package buffer implements the buffer pool manager: the frame pool,
// frame descriptor table, resident-page index, clock replacement engine,
// and the pin/flush protocol that wires them together.
//
// A Manager is single-threaded by design — it holds no locks of its own
// and assumes it has no concurrent callers, per its specification. Do not
// share a Manager across goroutines without external synchronization.
package buffer

import (
	"github.com/pkg/errors"

	"github.com/kianmercer/diskbuf/internal/dbtypes"
	"github.com/kianmercer/diskbuf/internal/logging"
	"github.com/kianmercer/diskbuf/internal/storage/file"
	"github.com/kianmercer/diskbuf/internal/storage/page"
)

// Manager is the buffer pool manager. It owns the frame pool, the frame
// descriptor table, the resident-page index, and the clock hand
// exclusively; no other code mutates them.
type Manager struct {
	pool   []*page.Page
	frames frameTable
	index  *residentIndex
	clock  *clockEngine
}

// NewManager allocates a Manager with numFrames frames, all initially
// invalid, with the clock hand starting at numFrames-1 so the first
// sweep inspects frame 0 after one advance.
func NewManager(numFrames int) *Manager {
	if numFrames <= 0 {
		panic(dbtypes.ErrInvalidFrameCount)
	}
	return &Manager{
		pool:   make([]*page.Page, numFrames),
		frames: newFrameTable(numFrames),
		index:  newResidentIndex(numFrames),
		clock:  newClockEngine(numFrames),
	}
}

// ReadPage returns a reference to the resident copy of (f, pageNo),
// reading it from f if it is not already resident. The reference is
// valid until the caller unpins it with the same key via UnpinPage.
func (m *Manager) ReadPage(f file.File, pageNo dbtypes.PageID) (*page.Page, error) {
	key := residentKey{file: f, pageNo: pageNo}

	if frameID, ok := m.index.lookup(key); ok {
		d := &m.frames[frameID]
		d.refbit = true
		d.pinCnt++
		return m.pool[frameID], nil
	}

	frameID, err := m.clock.sweep(m.frames, m.index, m.pool)
	if err != nil {
		return nil, errors.Wrapf(err, "read_page: file %s page %d", f.Filename(), pageNo)
	}

	p, err := f.ReadPage(pageNo)
	if err != nil {
		m.frames[frameID].clear()
		return nil, errors.Wrapf(err, "read_page: file %s page %d", f.Filename(), pageNo)
	}

	m.pool[frameID] = p
	m.index.insert(key, frameID)
	m.frames[frameID].set(f, pageNo)
	logging.Debugf("read_page: miss, frame %d now holds %s/%d", frameID, f.Filename(), pageNo)
	return p, nil
}

// AllocPage allocates a new page on f, stages it resident, and returns
// its page number and a reference to its resident copy, pinned once.
func (m *Manager) AllocPage(f file.File) (dbtypes.PageID, *page.Page, error) {
	frameID, err := m.clock.sweep(m.frames, m.index, m.pool)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "alloc_page: file %s", f.Filename())
	}

	p, err := f.AllocatePage()
	if err != nil {
		m.frames[frameID].clear()
		return 0, nil, errors.Wrapf(err, "alloc_page: file %s", f.Filename())
	}

	pageNo := p.PageNumber()
	m.pool[frameID] = p
	m.index.insert(residentKey{file: f, pageNo: pageNo}, frameID)
	m.frames[frameID].set(f, pageNo)
	logging.Debugf("alloc_page: frame %d now holds %s/%d", frameID, f.Filename(), pageNo)
	return pageNo, p, nil
}

// UnpinPage decrements the pin count on (f, pageNo). If the page is not
// resident the call is a silent no-op. dirtyHint, once true, is sticky
// for the frame's remaining lifetime as a resident page.
func (m *Manager) UnpinPage(f file.File, pageNo dbtypes.PageID, dirtyHint bool) error {
	key := residentKey{file: f, pageNo: pageNo}
	frameID, ok := m.index.lookup(key)
	if !ok {
		return nil
	}

	d := &m.frames[frameID]
	if d.pinCnt == 0 {
		return errors.Wrapf(dbtypes.ErrPageNotPinned, "unpin_page: file %s page %d", f.Filename(), pageNo)
	}
	d.pinCnt--
	if dirtyHint {
		d.dirty = true
	}
	return nil
}

// FlushFile writes back every dirty frame belonging to f and removes it
// from residency. It aborts on the first pinned or inconsistent frame it
// finds; frames already cleared by that point stay cleared.
func (m *Manager) FlushFile(f file.File) error {
	for frameID := range m.frames {
		d := &m.frames[frameID]
		if d.fileRef != f {
			continue
		}
		if !d.valid {
			return errors.Wrapf(dbtypes.ErrBadBuffer, "flush_file: file %s frame %d", f.Filename(), frameID)
		}
		if d.pinCnt > 0 {
			return errors.Wrapf(dbtypes.ErrPagePinned, "flush_file: file %s page %d", f.Filename(), d.pageNo)
		}
		if d.dirty {
			if err := f.WritePage(m.pool[frameID]); err != nil {
				return errors.Wrapf(err, "flush_file: file %s page %d", f.Filename(), d.pageNo)
			}
		}
		m.index.remove(d.residentKey())
		d.clear()
	}
	return nil
}

// DisposePage discards any resident copy of (f, pageNo) without writing
// it back, then asks f to delete the page. Absence from the index is not
// an error.
func (m *Manager) DisposePage(f file.File, pageNo dbtypes.PageID) error {
	key := residentKey{file: f, pageNo: pageNo}
	if frameID, ok := m.index.lookup(key); ok {
		m.index.remove(key)
		m.frames[frameID].clear()
	}
	if err := f.DeletePage(pageNo); err != nil {
		return errors.Wrapf(err, "dispose_page: file %s page %d", f.Filename(), pageNo)
	}
	return nil
}

// PrintSelf logs each frame's descriptor state and a final valid-frame
// count. It has no effect on manager state.
func (m *Manager) PrintSelf() {
	valid := 0
	for frameID := range m.frames {
		d := &m.frames[frameID]
		fields := logging.Fields{
			"frame": frameID,
			"valid": d.valid,
		}
		if d.valid {
			fields["file"] = d.fileRef.Filename()
			fields["page_no"] = d.pageNo
			fields["pin_count"] = d.pinCnt
			fields["dirty"] = d.dirty
			fields["refbit"] = d.refbit
			valid++
		}
		logging.WithFields(fields, "frame state")
	}
	logging.Infof("total valid frames: %d", valid)
}
