package alloc

import (
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/rpkitools/resalloc/resutils"
	"github.com/rpkitools/resalloc/resutils/freelist"
	"github.com/rpkitools/resalloc/resutils/interval"
)

// AllocationRequest is returned from CreateAllocationRequest and indicates where the engine
// intends to carve a request from. It can be passed to Commit to apply the carve.
type AllocationRequest struct {
	// EntryIndex is the position of the free entry the block is carved from
	EntryIndex int
	// Item is the block that will be allocated
	Item interval.Interval
	// Request is the request this allocation satisfies
	Request Request
}

// CreateAllocationRequest searches the free list for the first position that can satisfy req
// without overlapping or touching any block in issued. It does not modify the free list.
//
// nonPrefixRequired rejects range candidates that are expressible as a prefix. It should be
// true for address space and false for AS numbers: any block that could be a prefix must be
// requested, and encoded, as a prefix.
//
// resutils.ErrAllocationExhausted is returned when no free entry admits a candidate.
func CreateAllocationRequest(fl freelist.FreeList, req Request, issued []interval.Interval, nonPrefixRequired bool) (AllocationRequest, error) {
	err := req.Validate()
	if err != nil {
		return AllocationRequest{}, err
	}

	for index := 0; index < fl.Len(); index++ {
		entry := fl.At(index)

		var candidate interval.Interval
		var found bool
		switch req.Type {
		case RequestPrefix:
			candidate, found = firstFitPrefix(entry, req.Amount, issued)
		case RequestRange:
			candidate, found = firstFitRange(entry, req.Amount, issued, nonPrefixRequired)
		}

		if found {
			return AllocationRequest{
				EntryIndex: index,
				Item:       candidate,
				Request:    req,
			}, nil
		}
	}

	return AllocationRequest{}, errors.Wrapf(resutils.ErrAllocationExhausted, "unable to fulfill request for %s of size %s", req.Type, req.Amount)
}

// Commit carves an AllocationRequest out of the free list it was created from. The free list
// must not have been modified since CreateAllocationRequest was called.
func Commit(fl freelist.FreeList, request AllocationRequest) error {
	return fl.Perforate(request.EntryIndex, request.Item)
}

// DetectConflict returns the first block of issued that overlaps candidate or is numerically
// adjacent to it. Adjacent issued blocks would be indistinguishable from a single merged block.
func DetectConflict(candidate interval.Interval, issued []interval.Interval) (interval.Interval, bool) {
	expanded := candidate.Expand(1)
	for _, block := range issued {
		if block.Overlaps(expanded) {
			return block, true
		}
	}
	return interval.Interval{}, false
}

// nextPrefix returns the prefix of size amount starting at the first multiple of amount at or
// after position. The second return value is false if the prefix leaves the kind's domain.
func nextPrefix(kind interval.Kind, position, amount *big.Int) (interval.Interval, bool) {
	resutils.DebugCheckPow2(amount, "prefix amount")

	candidate, err := interval.NewSized(resutils.AlignUp(position, amount), amount, kind, true)
	if err != nil {
		return interval.Interval{}, false
	}
	return candidate, true
}

func firstFitPrefix(entry interval.Interval, amount *big.Int, issued []interval.Interval) (interval.Interval, bool) {
	search := entry.Min()
	for {
		candidate, ok := nextPrefix(entry.Kind(), search, amount)
		if !ok || !entry.Contains(candidate) {
			return interval.Interval{}, false
		}

		conflict, found := DetectConflict(candidate, issued)
		if !found {
			return candidate, true
		}

		// skip past the conflicting block and the one-unit gap after it
		search = resutils.AddInt64(conflict.Max(), 2)
	}
}

func firstFitRange(entry interval.Interval, amount *big.Int, issued []interval.Interval, nonPrefixRequired bool) (interval.Interval, bool) {
	if nonPrefixRequired && amount.IsInt64() && amount.Int64() == 1 {
		// every single resource number is a prefix
		return interval.Interval{}, false
	}

	search := entry.Min()
	for {
		candidate, err := interval.NewSized(search, amount, entry.Kind(), false)
		if err != nil || !entry.Contains(candidate) {
			return interval.Interval{}, false
		}

		if nonPrefixRequired && candidate.IsPowerOfTwoAligned() {
			search = resutils.AddInt64(search, 1)
			continue
		}

		conflict, found := DetectConflict(candidate, issued)
		if !found {
			return candidate, true
		}

		search = resutils.AddInt64(conflict.Max(), 2)
	}
}
