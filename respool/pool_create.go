package respool

import (
	"github.com/dolthub/swiss"
	"github.com/rpkitools/resalloc/resutils/alloc"
	"github.com/rpkitools/resalloc/resutils/freelist"
	"github.com/rpkitools/resalloc/resutils/interval"
	"github.com/rpkitools/resalloc/respool/internal/utils"
	"golang.org/x/exp/slog"
)

// CreateOptions contains optional settings when creating a pool
type CreateOptions struct {
	// Flags indicates specific pool behaviors to activate or deactivate. Pools created by
	// SubAllocate carry the flags of their parent.
	Flags CreateFlags
}

// KindRequests describes what a child pool receives for one resource kind
type KindRequests struct {
	// Inherit marks the child as holding the parent's resources of this kind without carving
	// anything from the parent. The child cannot allocate an inherited kind, but its own children
	// may inherit it again. Requests must be empty when Inherit is set.
	Inherit bool
	// Requests are allocated from the parent in order and become the child's free list
	Requests []alloc.Request
}

// ChildRequests maps each resource kind to the resources a child pool receives. Kinds that
// are absent leave the child with an empty free list for that kind.
type ChildRequests map[interval.Kind]KindRequests

// New creates an empty Pool with one free list per resource kind
//
// logger - The logger that pool operations are reported to. If nil, slog.Default() is used
//
// name - The name of the object this pool tracks resources for, e.g. a certificate subject
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, name string, options CreateOptions) *Pool {
	if logger == nil {
		logger = slog.Default()
	}

	pool := &Pool{
		logger: logger,
		name:   name,
		flags:  options.Flags,
		mutex: utils.OptionalRWMutex{
			UseMutex: options.Flags&CreateExternallySynchronized == 0,
		},
		stores: swiss.NewMap[interval.Kind, *freelist.Store](uint32(len(interval.Kinds))),
		issued: swiss.NewMap[interval.Kind, []interval.Interval](uint32(len(interval.Kinds))),
		held:   swiss.NewMap[interval.Kind, []interval.Interval](uint32(len(interval.Kinds))),
	}

	for _, kind := range interval.Kinds {
		pool.stores.Put(kind, freelist.New(kind))
	}

	return pool
}
