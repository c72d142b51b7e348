package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kianmercer/diskbuf/internal/dbtypes"
	"github.com/kianmercer/diskbuf/internal/storage/page"
)

// Scenario 1: single-page read.
func TestReadPageSingle(t *testing.T) {
	m := NewManager(5)
	f := newFakeFile("F")
	f.pages[10] = newSeededPage(10, "seed")

	p, err := m.ReadPage(f, 10)
	require.NoError(t, err)
	require.NotNil(t, p)

	d := &m.frames[0]
	assert.True(t, d.valid)
	assert.Equal(t, dbtypes.PageID(10), d.pageNo)
	assert.Equal(t, int32(1), d.pinCnt)
	assert.False(t, d.refbit)
	assert.False(t, d.dirty)
	assert.Equal(t, 1, m.index.count)

	require.NoError(t, m.UnpinPage(f, 10, false))
	assert.Equal(t, int32(0), d.pinCnt)
	assert.True(t, d.valid)
}

// Scenario 2: cache hit.
func TestReadPageCacheHit(t *testing.T) {
	m := NewManager(5)
	f := newFakeFile("F")
	f.pages[10] = newSeededPage(10, "seed")

	p1, err := m.ReadPage(f, 10)
	require.NoError(t, err)
	p2, err := m.ReadPage(f, 10)
	require.NoError(t, err)

	assert.Same(t, p1, p2)
	d := &m.frames[0]
	assert.Equal(t, int32(2), d.pinCnt)
	assert.True(t, d.refbit)
}

// Scenario 3: eviction with writeback.
func TestEvictionWritesBackDirtyPage(t *testing.T) {
	m := NewManager(1)
	f := newFakeFile("F")

	pageNo, p, err := m.AllocPage(f)
	require.NoError(t, err)
	copy(p.Data(), []byte("dirty bytes"))
	require.NoError(t, m.UnpinPage(f, pageNo, true))

	f.pages[99] = newSeededPage(99, "other")
	_, err = m.ReadPage(f, dbtypes.PageID(99))
	require.NoError(t, err)

	assert.Equal(t, 1, f.writes[pageNo])
	d := &m.frames[0]
	assert.True(t, d.valid)
	assert.Equal(t, dbtypes.PageID(99), d.pageNo)
}

// Scenario 4: buffer exhaustion.
func TestBufferExhaustion(t *testing.T) {
	m := NewManager(3)
	f := newFakeFile("F")
	for i := dbtypes.PageID(1); i <= 3; i++ {
		f.pages[i] = newSeededPage(i, "x")
		_, err := m.ReadPage(f, i)
		require.NoError(t, err)
	}

	f.pages[4] = newSeededPage(4, "x")
	_, err := m.ReadPage(f, 4)
	assert.ErrorIs(t, err, dbtypes.ErrBufferFull)
}

// Single-frame boundary: B=1, a second distinct page without unpinning
// the first fails; with it unpinned, succeeds.
func TestSingleFrameBoundary(t *testing.T) {
	m := NewManager(1)
	f := newFakeFile("F")
	f.pages[1] = newSeededPage(1, "a")
	f.pages[2] = newSeededPage(2, "b")

	_, err := m.ReadPage(f, 1)
	require.NoError(t, err)

	_, err = m.ReadPage(f, 2)
	assert.ErrorIs(t, err, dbtypes.ErrBufferFull)

	require.NoError(t, m.UnpinPage(f, 1, false))
	_, err = m.ReadPage(f, 2)
	assert.NoError(t, err)
}

// Scenario 5: flush with pinned page.
func TestFlushFileRejectsPinnedPage(t *testing.T) {
	m := NewManager(3)
	f := newFakeFile("F")
	f.pages[7] = newSeededPage(7, "x")

	_, err := m.ReadPage(f, 7)
	require.NoError(t, err)

	err = m.FlushFile(f)
	assert.ErrorIs(t, err, dbtypes.ErrPagePinned)

	require.NoError(t, m.UnpinPage(f, 7, false))
	require.NoError(t, m.FlushFile(f))
	assert.Equal(t, 0, m.index.count)
	assert.False(t, m.frames[0].valid)
}

// Flush idempotence: a second flush after the first is a no-op success.
func TestFlushFileIdempotent(t *testing.T) {
	m := NewManager(3)
	f := newFakeFile("F")
	f.pages[7] = newSeededPage(7, "x")

	_, err := m.ReadPage(f, 7)
	require.NoError(t, err)
	require.NoError(t, m.UnpinPage(f, 7, false))

	require.NoError(t, m.FlushFile(f))
	require.NoError(t, m.FlushFile(f))
}

// Scenario 6: dispose discards dirt.
func TestDisposeDiscardsDirtyContent(t *testing.T) {
	m := NewManager(3)
	f := newFakeFile("F")

	pageNo, p, err := m.AllocPage(f)
	require.NoError(t, err)
	copy(p.Data(), []byte("scratch"))
	require.NoError(t, m.UnpinPage(f, pageNo, true))

	require.NoError(t, m.DisposePage(f, pageNo))

	assert.Equal(t, 0, f.writes[pageNo])
	assert.True(t, f.deleted[pageNo])
	assert.Equal(t, 0, m.index.count)
}

// Alloc-dispose round trip.
func TestAllocDisposeRoundTrip(t *testing.T) {
	m := NewManager(3)
	f := newFakeFile("F")

	pageNo, _, err := m.AllocPage(f)
	require.NoError(t, err)
	require.NoError(t, m.UnpinPage(f, pageNo, false))
	require.NoError(t, m.DisposePage(f, pageNo))

	_, ok := m.index.lookup(residentKey{file: f, pageNo: pageNo})
	assert.False(t, ok)
	assert.True(t, f.deleted[pageNo])
}

func TestUnpinOnAbsentPageIsNoop(t *testing.T) {
	m := NewManager(3)
	f := newFakeFile("F")
	assert.NoError(t, m.UnpinPage(f, 42, false))
}

func TestUnpinOnZeroPinCountFails(t *testing.T) {
	m := NewManager(3)
	f := newFakeFile("F")
	f.pages[1] = newSeededPage(1, "a")

	_, err := m.ReadPage(f, 1)
	require.NoError(t, err)
	require.NoError(t, m.UnpinPage(f, 1, false))

	err = m.UnpinPage(f, 1, false)
	assert.ErrorIs(t, err, dbtypes.ErrPageNotPinned)
}

func TestDirtyBitIsSticky(t *testing.T) {
	m := NewManager(3)
	f := newFakeFile("F")
	f.pages[1] = newSeededPage(1, "a")

	_, err := m.ReadPage(f, 1)
	require.NoError(t, err)
	require.NoError(t, m.UnpinPage(f, 1, true))

	_, err = m.ReadPage(f, 1)
	require.NoError(t, err)
	require.NoError(t, m.UnpinPage(f, 1, false))

	assert.True(t, m.frames[0].dirty)
}

func TestFlushFileOnlyTouchesOwnFrames(t *testing.T) {
	m := NewManager(4)
	fa := newFakeFile("A")
	fb := newFakeFile("B")
	fa.pages[1] = newSeededPage(1, "a")
	fb.pages[1] = newSeededPage(1, "b")

	_, err := m.ReadPage(fa, 1)
	require.NoError(t, err)
	_, err = m.ReadPage(fb, 1)
	require.NoError(t, err)
	require.NoError(t, m.UnpinPage(fa, 1, false))
	require.NoError(t, m.UnpinPage(fb, 1, false))

	require.NoError(t, m.FlushFile(fa))

	_, ok := m.index.lookup(residentKey{file: fa, pageNo: 1})
	assert.False(t, ok)
	_, ok = m.index.lookup(residentKey{file: fb, pageNo: 1})
	assert.True(t, ok)
}

func newSeededPage(pageNo dbtypes.PageID, seed string) *page.Page {
	p := page.New(pageNo)
	copy(p.Data(), []byte(seed))
	return p
}
