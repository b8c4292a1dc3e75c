package alloc

import (
	"fmt"

	"github.com/rpkitools/resalloc/resutils/freelist"
	"github.com/rpkitools/resalloc/resutils/interval"
)

// BatchFlags adjust how a batch of requests is committed to its free list
type BatchFlags uint32

const (
	// BatchKeepPartial leaves the blocks carved by earlier requests removed from the free list
	// when a later request in the same batch fails. Without it, a failing batch leaves the free
	// list exactly as it was before the call.
	BatchKeepPartial BatchFlags = 1 << iota
)

var batchFlagsMapping = map[BatchFlags]string{
	BatchKeepPartial: "BatchKeepPartial",
}

func (f BatchFlags) String() string {
	if f == 0 {
		return "None"
	}
	return batchFlagsMapping[f]
}

// BatchOptions holds the settings for AllocateWithOptions
type BatchOptions struct {
	// NonPrefixRequired rejects range results that are expressible as a prefix
	NonPrefixRequired bool
	Flags             BatchFlags
}

// RequestError identifies the request of a batch that could not be satisfied. It unwraps to
// the underlying sentinel, e.g. resutils.ErrAllocationExhausted.
type RequestError struct {
	Index   int
	Request Request
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request %d (%s): %v", e.Index, e.Request, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Allocate satisfies requests in order from store and returns one block per request, in request
// order. Blocks issued within the batch are never adjacent to one another. The issued blocks are
// removed from store.
//
// Every request is validated before any search. If any request cannot be satisfied, store is
// left unchanged and a *RequestError is returned.
func Allocate(store *freelist.Store, requests []Request, nonPrefixRequired bool) ([]interval.Interval, error) {
	return AllocateWithOptions(store, requests, BatchOptions{NonPrefixRequired: nonPrefixRequired})
}

// AllocateWithOptions is Allocate with explicit BatchOptions. With BatchKeepPartial, a failing
// batch returns the blocks issued before the failing request alongside the error, and those
// blocks stay removed from store.
func AllocateWithOptions(store *freelist.Store, requests []Request, options BatchOptions) ([]interval.Interval, error) {
	for index, request := range requests {
		err := request.Validate()
		if err != nil {
			return nil, &RequestError{Index: index, Request: request, Err: err}
		}
	}

	if options.Flags&BatchKeepPartial != 0 {
		return AllocateBatch(store, requests, options.NonPrefixRequired)
	}

	scratch := store.Clone()
	issued, err := AllocateBatch(scratch, requests, options.NonPrefixRequired)
	if err != nil {
		return nil, err
	}

	err = store.ReplaceWith(scratch)
	if err != nil {
		return nil, err
	}
	return issued, nil
}

// AllocateBatch runs requests in order directly against fl, with no rollback. Each request is
// searched against the free list as modified by the requests before it, and against the blocks
// those requests were issued. On failure the blocks issued so far are returned with the error.
func AllocateBatch(fl freelist.FreeList, requests []Request, nonPrefixRequired bool) ([]interval.Interval, error) {
	issued := make([]interval.Interval, 0, len(requests))

	for index, request := range requests {
		allocRequest, err := CreateAllocationRequest(fl, request, issued, nonPrefixRequired)
		if err != nil {
			return issued, &RequestError{Index: index, Request: request, Err: err}
		}

		err = Commit(fl, allocRequest)
		if err != nil {
			return issued, &RequestError{Index: index, Request: request, Err: err}
		}

		issued = append(issued, allocRequest.Item)
	}

	return issued, nil
}
