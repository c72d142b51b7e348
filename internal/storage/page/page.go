// Package page defines the fixed-size byte container the buffer pool
// manager caches and the file layer persists.
package page

import (
	"encoding/binary"
	"fmt"

	"github.com/kianmercer/diskbuf/internal/dbtypes"
)

// headerSize is the width of the page number prefix written ahead of the
// page body on the wire/disk image.
const headerSize = 8

// bodySize is the number of bytes of client data a page can hold.
const bodySize = dbtypes.PageSize - headerSize

// Page is a fixed-size, page-numbered byte container. It carries no dirty
// or pinned state of its own — that bookkeeping belongs entirely to the
// frame descriptor that owns a resident copy; a Page is just bytes.
type Page struct {
	number dbtypes.PageID
	data   [bodySize]byte
}

// New creates a page stamped with the given number and zeroed data.
func New(number dbtypes.PageID) *Page {
	return &Page{number: number}
}

// PageNumber returns the page's identity within its owning file.
func (p *Page) PageNumber() dbtypes.PageID {
	return p.number
}

// SetPageNumber restamps the page with number, leaving its data as is.
func (p *Page) SetPageNumber(number dbtypes.PageID) {
	p.number = number
}

// Data returns the mutable body of the page, excluding the page number
// header. Clients read and write through this slice; the buffer pool
// manager never inspects its contents.
func (p *Page) Data() []byte {
	return p.data[:]
}

// Serialize packs the page into a fixed-size byte image suitable for
// writing to disk.
func (p *Page) Serialize() []byte {
	buf := make([]byte, dbtypes.PageSize)
	binary.LittleEndian.PutUint64(buf[0:headerSize], uint64(p.number))
	copy(buf[headerSize:], p.data[:])
	return buf
}

// Deserialize unpacks a fixed-size byte image produced by Serialize.
func Deserialize(image []byte) (*Page, error) {
	if len(image) != dbtypes.PageSize {
		return nil, fmt.Errorf("page: image is %d bytes, want %d", len(image), dbtypes.PageSize)
	}
	p := &Page{number: dbtypes.PageID(binary.LittleEndian.Uint64(image[0:headerSize]))}
	copy(p.data[:], image[headerSize:])
	return p, nil
}
