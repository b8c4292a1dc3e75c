package freelist

import (
	"math/big"

	"github.com/rpkitools/resalloc/resutils/interval"
)

//go:generate mockgen -source freelist.go -destination ./mocks/freelist.go

// FreeList is an ordered view over the unallocated intervals of a single resource kind. Entries
// are strictly ascending, never overlap, and are never adjacent to one another. The allocation
// engine searches a FreeList and carves allocations out of it with Perforate.
type FreeList interface {
	// Validate performs internal consistency checks on the free list. When the implementation
	// is functioning correctly, it should not be possible for this method to return an error.
	Validate() error

	// Kind returns the resource kind every entry belongs to
	Kind() interval.Kind
	// Len returns the number of free entries
	Len() int
	// At returns the free entry at the provided position. index must be in [0, Len())
	At(index int) interval.Interval
	// IsEmpty returns true if there is no free space at all
	IsEmpty() bool
	// SumFreeSize returns the number of free resource numbers across all entries
	SumFreeSize() *big.Int

	// Perforate removes carved from the entry at index, replacing the entry with zero, one, or
	// two residual entries. carved must be contained in the entry.
	Perforate(index int, carved interval.Interval) error
}
