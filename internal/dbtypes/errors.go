package dbtypes

import "errors"

// Sentinel errors raised by the buffer pool manager. Kinds match the error
// taxonomy of the manager's specification: BufferFull, PageNotPinned,
// PagePinned, and BadBuffer propagate to callers unchanged; HashNotFound is
// caught internally by the manager and never observed outside it.
var (
	// ErrBufferFull is raised when alloc_buf sweeps every frame twice
	// without finding a victim — every frame is pinned.
	ErrBufferFull = errors.New("buffer pool: all frames pinned, no victim available")

	// ErrPageNotPinned is raised when unpin_page is called on a resident
	// frame whose pin count is already zero.
	ErrPageNotPinned = errors.New("buffer pool: page is not pinned")

	// ErrPagePinned is raised when flush_file encounters a frame belonging
	// to the target file with a non-zero pin count.
	ErrPagePinned = errors.New("buffer pool: page is pinned, cannot flush")

	// ErrBadBuffer is raised when flush_file encounters a frame tagged with
	// the target file but marked invalid — an internal inconsistency.
	ErrBadBuffer = errors.New("buffer pool: frame tagged with file but invalid")
)

// Argument and file-level sentinel errors. ErrInvalidFrameCount is the
// panic value of buffer.NewManager for a non-positive frame count; the
// rest belong to the File/DiskFile implementation, which sits outside the
// buffer manager's core but still needs a stable error vocabulary.
var (
	ErrInvalidFrameCount  = errors.New("buffer pool: frame count must be positive")
	ErrInvalidInitialSize = errors.New("file: initial page count must be positive")
	ErrPageOutOfBounds    = errors.New("file: page number out of bounds")
	ErrPageNotAllocated   = errors.New("file: page was never allocated or has been deleted")
	ErrFileClosed         = errors.New("file: operation on closed file")
)
