package blobstore

import (
	"context"
	"fmt"
)

// Store is an abstraction for accessing opaque blobs addressed by raw byte
// keys. Implementations must be safe for concurrent use.
type Store interface {
	// Get fetches the blob stored under key, or the byte range rng of it.
	// A missing blob yields (nil, nil), not an error.
	Get(ctx context.Context, key []byte, rng Range) ([]byte, error)

	// Put durably writes data under key, replacing any previous value.
	Put(ctx context.Context, key []byte, data []byte) error

	// Delete removes the blob stored under key. It reports whether a blob
	// was deleted; deleting a missing blob is not an error.
	Delete(ctx context.Context, key []byte) (bool, error)
}

// Range selects a half-open byte interval [Start, End) of a blob.
//
// The zero value selects the whole blob. End == 0 means "to the end of the
// object", so explicit empty ranges cannot be expressed; there is no blob
// operation that would want one.
type Range struct {
	Start uint64
	End   uint64
}

// FullRange returns the whole-object sentinel range.
func FullRange() Range {
	return Range{}
}

// NewRange returns the half-open byte range [start, end).
func NewRange(start, end uint64) Range {
	return Range{Start: start, End: end}
}

// IsFull reports whether r selects the whole object.
func (r Range) IsFull() bool {
	return r.Start == 0 && r.End == 0
}

// Header renders r as an HTTP Range header value. The HTTP form is
// inclusive, so End is decremented.
func (r Range) Header() string {
	if r.End == 0 {
		return fmt.Sprintf("bytes=%d-", r.Start)
	}
	return fmt.Sprintf("bytes=%d-%d", r.Start, r.End-1)
}
