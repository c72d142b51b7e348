package buffer

import (
	"github.com/kianmercer/diskbuf/internal/dbtypes"
	"github.com/kianmercer/diskbuf/internal/storage/file"
)

// frameDescriptor holds the metadata the clock engine and pin/flush
// protocol need for one frame. pool[f] and descriptor[f] share a
// lifetime: both are meaningless unless valid is true.
type frameDescriptor struct {
	fileRef file.File
	pageNo  dbtypes.PageID
	pinCnt  int32
	dirty   bool
	refbit  bool
	valid   bool
}

// residentKey identifies a descriptor's current residency when valid.
func (d *frameDescriptor) residentKey() residentKey {
	return residentKey{file: d.fileRef, pageNo: d.pageNo}
}

// set stamps a descriptor with a freshly resident page, pinned once, not
// dirty, refbit cleared — the shared initialization of read_page's miss
// path and alloc_page.
func (d *frameDescriptor) set(f file.File, pageNo dbtypes.PageID) {
	d.fileRef = f
	d.pageNo = pageNo
	d.pinCnt = 1
	d.dirty = false
	d.refbit = false
	d.valid = true
}

// clear resets a descriptor to the invalid state every eviction path
// (clock eviction, flush_file, dispose_page) ends in.
func (d *frameDescriptor) clear() {
	d.fileRef = nil
	d.pageNo = 0
	d.pinCnt = 0
	d.dirty = false
	d.refbit = false
	d.valid = false
}

// evictable reports whether the clock engine may select this frame as a
// victim without violating pin safety.
func (d *frameDescriptor) evictable() bool {
	return d.valid && d.pinCnt == 0
}

// frameTable is the per-frame metadata array, indexed by frame id.
type frameTable []frameDescriptor

func newFrameTable(numFrames int) frameTable {
	return make(frameTable, numFrames)
}
