package dbtypes

// PageID identifies a page within a single file. It has no meaning across
// files — the same PageID in two different files refers to two different
// pages.
type PageID uint64

// PageSize is the fixed number of bytes in every page's byte image.
const PageSize = 4096

// InvalidPageID is never assigned by a File and can be used as a sentinel
// by callers that need one.
const InvalidPageID PageID = ^PageID(0)
