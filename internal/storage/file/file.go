// Package file implements the on-disk File collaborator the buffer pool
// manager reads and writes through. The manager never touches an *os.File
// directly — it only ever sees the five methods of the File interface.
package file

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/kianmercer/diskbuf/internal/dbtypes"
	"github.com/kianmercer/diskbuf/internal/storage/page"
)

// Page 0 is reserved for file-level bookkeeping and is never handed out by
// AllocatePage. Its body holds the next unallocated page number and the
// head of a free list threaded through the bodies of deleted pages — the
// free-space map the top-level specification explicitly leaves out of
// scope, kept here as the smallest implementation that makes DeletePage
// mean something.
const headerPageNo dbtypes.PageID = 0

// firstDataPageNo is the first page number AllocatePage can hand out.
const firstDataPageNo dbtypes.PageID = 1

// DiskFile is a File backed by a single OS file, addressed by
// fixed-size page slots. Values are comparable by pointer, which is the
// file identity the resident-page index keys on: each Open returns a new
// *DiskFile, so two handles opened separately on the same path compare
// unequal and are treated as different files.
type DiskFile struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// header is the decoded contents of page 0.
type header struct {
	nextPageNo dbtypes.PageID
	freeHead   dbtypes.PageID // dbtypes.InvalidPageID when the free list is empty
}

// Open opens or creates path as a disk-backed File. initialPages, if
// greater than zero, pre-extends the file to that many pages when it is
// newly created; it has no effect on an existing file.
func Open(path string, initialPages int) (*DiskFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, errors.Wrapf(err, "file: open %s", path)
	}

	df := &DiskFile{path: path, f: f}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "file: stat %s", path)
	}

	if info.Size() == 0 {
		h := header{nextPageNo: firstDataPageNo, freeHead: dbtypes.InvalidPageID}
		if err := df.writeHeader(h); err != nil {
			f.Close()
			return nil, err
		}
		for i := 0; i < initialPages; i++ {
			if err := df.extendWithZeroPage(firstDataPageNo + dbtypes.PageID(i)); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return df, nil
}

// Filename returns the path this File was opened with.
func (df *DiskFile) Filename() string {
	return df.path
}

// Close releases the underlying OS file handle.
func (df *DiskFile) Close() error {
	df.mu.Lock()
	defer df.mu.Unlock()
	if df.f == nil {
		return nil
	}
	err := df.f.Close()
	df.f = nil
	return errors.Wrap(err, "file: close")
}

// AllocatePage allocates a new page, preferring a reclaimed page number
// from the free list before extending the file, and returns it stamped
// with its freshly assigned page number.
func (df *DiskFile) AllocatePage() (*page.Page, error) {
	df.mu.Lock()
	defer df.mu.Unlock()

	h, err := df.readHeader()
	if err != nil {
		return nil, err
	}

	var pageNo dbtypes.PageID
	if h.freeHead != dbtypes.InvalidPageID {
		pageNo = h.freeHead
		nextFree, err := df.readFreeListLink(pageNo)
		if err != nil {
			return nil, err
		}
		h.freeHead = nextFree
		if err := df.extendWithZeroPage(pageNo); err != nil {
			return nil, err
		}
	} else {
		pageNo = h.nextPageNo
		h.nextPageNo++
		if err := df.extendWithZeroPage(pageNo); err != nil {
			return nil, err
		}
	}

	if err := df.writeHeader(h); err != nil {
		return nil, err
	}

	return page.New(pageNo), nil
}

// ReadPage reads the bytes of the indicated page into a fresh page value.
func (df *DiskFile) ReadPage(pageNo dbtypes.PageID) (*page.Page, error) {
	df.mu.Lock()
	defer df.mu.Unlock()

	if pageNo == headerPageNo {
		return nil, errors.Wrapf(dbtypes.ErrPageOutOfBounds, "file %s: page 0 is reserved", df.path)
	}

	h, err := df.readHeader()
	if err != nil {
		return nil, err
	}
	if pageNo >= h.nextPageNo {
		return nil, errors.Wrapf(dbtypes.ErrPageOutOfBounds, "file %s: page %d", df.path, pageNo)
	}

	image := make([]byte, dbtypes.PageSize)
	if _, err := df.f.ReadAt(image, offsetOf(pageNo)); err != nil {
		return nil, errors.Wrapf(err, "file %s: read page %d", df.path, pageNo)
	}

	p, err := page.Deserialize(image)
	if err != nil {
		return nil, errors.Wrapf(err, "file %s: deserialize page %d", df.path, pageNo)
	}
	return p, nil
}

// WritePage persists the bytes of p to the slot identified by its page
// number.
func (df *DiskFile) WritePage(p *page.Page) error {
	df.mu.Lock()
	defer df.mu.Unlock()

	pageNo := p.PageNumber()
	if pageNo == headerPageNo {
		return errors.Wrapf(dbtypes.ErrPageOutOfBounds, "file %s: page 0 is reserved", df.path)
	}

	h, err := df.readHeader()
	if err != nil {
		return err
	}
	if pageNo >= h.nextPageNo {
		return errors.Wrapf(dbtypes.ErrPageOutOfBounds, "file %s: page %d", df.path, pageNo)
	}

	if _, err := df.f.WriteAt(p.Serialize(), offsetOf(pageNo)); err != nil {
		return errors.Wrapf(err, "file %s: write page %d", df.path, pageNo)
	}
	return nil
}

// DeletePage releases a page number back to the file, threading it onto
// the head of the free list so a later AllocatePage can reuse it.
func (df *DiskFile) DeletePage(pageNo dbtypes.PageID) error {
	df.mu.Lock()
	defer df.mu.Unlock()

	if pageNo == headerPageNo {
		return errors.Wrapf(dbtypes.ErrPageOutOfBounds, "file %s: page 0 is reserved", df.path)
	}

	h, err := df.readHeader()
	if err != nil {
		return err
	}
	if pageNo >= h.nextPageNo {
		return errors.Wrapf(dbtypes.ErrPageNotAllocated, "file %s: page %d", df.path, pageNo)
	}

	if err := df.writeFreeListLink(pageNo, h.freeHead); err != nil {
		return err
	}
	h.freeHead = pageNo
	return df.writeHeader(h)
}

// offsetOf returns the byte offset of pageNo's slot within the file.
func offsetOf(pageNo dbtypes.PageID) int64 {
	return int64(pageNo) * int64(dbtypes.PageSize)
}

// readHeader decodes page 0.
func (df *DiskFile) readHeader() (header, error) {
	buf := make([]byte, dbtypes.PageSize)
	if _, err := df.f.ReadAt(buf, offsetOf(headerPageNo)); err != nil {
		return header{}, errors.Wrapf(err, "file %s: read header", df.path)
	}
	return header{
		nextPageNo: dbtypes.PageID(binary.LittleEndian.Uint64(buf[0:8])),
		freeHead:   dbtypes.PageID(binary.LittleEndian.Uint64(buf[8:16])),
	}, nil
}

// writeHeader encodes and persists page 0.
func (df *DiskFile) writeHeader(h header) error {
	buf := make([]byte, dbtypes.PageSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(h.nextPageNo))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(h.freeHead))
	if _, err := df.f.WriteAt(buf, offsetOf(headerPageNo)); err != nil {
		return errors.Wrapf(err, "file %s: write header", df.path)
	}
	return nil
}

// readFreeListLink reads the "next free page" pointer threaded through a
// deleted page's body.
func (df *DiskFile) readFreeListLink(pageNo dbtypes.PageID) (dbtypes.PageID, error) {
	buf := make([]byte, 8)
	if _, err := df.f.ReadAt(buf, offsetOf(pageNo)); err != nil {
		return 0, errors.Wrapf(err, "file %s: read free list link at %d", df.path, pageNo)
	}
	return dbtypes.PageID(binary.LittleEndian.Uint64(buf)), nil
}

// writeFreeListLink overwrites the leading bytes of a deleted page's body
// with the "next free page" pointer.
func (df *DiskFile) writeFreeListLink(pageNo, next dbtypes.PageID) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(next))
	if _, err := df.f.WriteAt(buf, offsetOf(pageNo)); err != nil {
		return errors.Wrapf(err, "file %s: write free list link at %d", df.path, pageNo)
	}
	return nil
}

// extendWithZeroPage ensures pageNo's slot exists on disk, zeroed.
func (df *DiskFile) extendWithZeroPage(pageNo dbtypes.PageID) error {
	zero := page.New(pageNo)
	if _, err := df.f.WriteAt(zero.Serialize(), offsetOf(pageNo)); err != nil {
		return fmt.Errorf("file %s: extend for page %d: %w", df.path, pageNo, err)
	}
	return nil
}
