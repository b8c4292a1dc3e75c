package resutils

import "github.com/pkg/errors"

// ErrPowerOfTwo is the error returned from CheckPow2 if the number being tested is not a power of two
var ErrPowerOfTwo error = errors.New("number must be a power of two")

// ErrInvalidRange is returned when an interval is built with bounds that are out of order or
// fall outside the resource kind's integer domain
var ErrInvalidRange error = errors.New("invalid resource range")

// ErrInvalidRequest is returned when an allocation request is malformed, e.g. a prefix request
// whose amount is not a power of two
var ErrInvalidRequest error = errors.New("invalid allocation request")

// ErrAllocationExhausted is returned when no free entry can satisfy a request under the
// current conflict and adjacency constraints
var ErrAllocationExhausted error = errors.New("allocation exhausted")

// ErrInvariantViolation is returned when a free list operation would break the canonical
// form of the list: overlapping entries, removal of space that is not free, and the like
var ErrInvariantViolation error = errors.New("free list invariant violation")

// ErrKindMismatch is returned when intervals of different resource kinds are mixed
var ErrKindMismatch error = errors.New("resource kind mismatch")
