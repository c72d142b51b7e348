package buffer

import (
	"reflect"

	"github.com/OneOfOne/xxhash"

	"github.com/kianmercer/diskbuf/internal/dbtypes"
	"github.com/kianmercer/diskbuf/internal/storage/file"
)

// residentKey is the composite key the resident-page index is keyed on.
// file.File values handed to a Manager are expected to be backed by a
// comparable concrete type (a pointer), so two keys compare equal iff
// they hold the same File handle and page number, with no separate Equal
// method. Two distinct handles opened on the same on-disk file are
// different keys.
type residentKey struct {
	file   file.File
	pageNo dbtypes.PageID
}

// hashTableSize mirrors the original buffer manager's HASHTABLE_SZ:
// roughly 1.2x the frame count, truncated and then made odd (an even value
// gains one), to
// keep chain lengths short without the bucket count being a power of two
// (which would correlate badly with sequential page numbers).
func hashTableSize(numFrames int) int {
	n := int(float64(numFrames) * 1.2)
	n &^= 1 // clear the low bit
	return n + 1
}

type indexEntry struct {
	key     residentKey
	frameID int
	next    *indexEntry
}

// residentIndex is a chained hash table mapping (file, page_no) to frame
// id, sized at construction per hashTableSize. A plain Go map would do
// the job, but the specification calls out the hash table as a distinct
// component with its own bucket-count hint, so it is built as one.
type residentIndex struct {
	buckets []*indexEntry
	count   int
}

func newResidentIndex(numFrames int) *residentIndex {
	return &residentIndex{buckets: make([]*indexEntry, hashTableSize(numFrames))}
}

func (idx *residentIndex) bucketFor(key residentKey) int {
	var buf [16]byte
	putUint64(buf[0:8], uint64(filePointer(key.file)))
	putUint64(buf[8:16], uint64(key.pageNo))
	sum := xxhash.Checksum64(buf[:])
	return int(sum % uint64(len(idx.buckets)))
}

// lookup returns the frame id resident for key, or false if the index has
// no entry for it.
func (idx *residentIndex) lookup(key residentKey) (int, bool) {
	for e := idx.buckets[idx.bucketFor(key)]; e != nil; e = e.next {
		if e.key == key {
			return e.frameID, true
		}
	}
	return 0, false
}

// insert adds key -> frameID. Callers are responsible for ensuring key is
// not already present — ReadPage inserts only after a failed lookup, and
// AllocPage inserts the page number the file has just assigned.
func (idx *residentIndex) insert(key residentKey, frameID int) {
	b := idx.bucketFor(key)
	idx.buckets[b] = &indexEntry{key: key, frameID: frameID, next: idx.buckets[b]}
	idx.count++
}

// remove deletes key's entry if present. Removing an absent key is a
// no-op: the manager's specification treats "not found" on removal as
// recoverable internally, never an error a caller observes.
func (idx *residentIndex) remove(key residentKey) {
	b := idx.bucketFor(key)
	var prev *indexEntry
	for e := idx.buckets[b]; e != nil; e = e.next {
		if e.key == key {
			if prev == nil {
				idx.buckets[b] = e.next
			} else {
				prev.next = e.next
			}
			idx.count--
			return
		}
		prev = e
	}
}

// filePointer extracts a stable integer identity from a pointer-backed
// File implementation for hashing purposes only; equality never relies
// on this value.
func filePointer(f file.File) uintptr {
	if f == nil {
		return 0
	}
	v := reflect.ValueOf(f)
	if v.Kind() != reflect.Ptr {
		return 0
	}
	return v.Pointer()
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
