package respool

import (
	"context"

	cerrors "github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/pkg/errors"
	"github.com/rpkitools/resalloc/resutils"
	"github.com/rpkitools/resalloc/resutils/alloc"
	"github.com/rpkitools/resalloc/resutils/freelist"
	"github.com/rpkitools/resalloc/resutils/interval"
	"github.com/rpkitools/resalloc/respool/internal/utils"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

// Pool tracks the Internet number resources held by one object, such as a certificate
// authority. It keeps one free list per resource kind along with the blocks it has issued,
// and hands out resources to child pools with SubAllocate.
//
// A kind a pool inherits from its parent is held by reference: the pool keeps no free list for
// it and cannot allocate it, so the space is only ever carved from the holder that owns it.
//
// Unless the pool was created with CreateExternallySynchronized, every method is safe for
// concurrent use. Child pools are independent of their parent once created.
type Pool struct {
	logger *slog.Logger
	name   string
	flags  CreateFlags
	parent *Pool

	mutex     utils.OptionalRWMutex
	stores    *swiss.Map[interval.Kind, *freelist.Store]
	issued    *swiss.Map[interval.Kind, []interval.Interval]
	held      *swiss.Map[interval.Kind, []interval.Interval]
	inherited uint32
}

// Name returns the name the pool was created with
func (p *Pool) Name() string { return p.name }

// Parent returns the pool this pool was sub-allocated from, or nil for a root pool
func (p *Pool) Parent() *Pool { return p.parent }

// Inherits returns true if this pool received kind from its parent by inheritance
func (p *Pool) Inherits(kind interval.Kind) bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.inherits(kind)
}

func (p *Pool) inherits(kind interval.Kind) bool {
	return p.inherited&(1<<kind) != 0
}

func (p *Pool) store(kind interval.Kind) (*freelist.Store, error) {
	store, ok := p.stores.Get(kind)
	if !ok {
		return nil, cerrors.Wrapf(resutils.ErrKindMismatch, "pool %s has no free list for resource kind %s", p.name, kind)
	}
	return store, nil
}

func (p *Pool) checkOwned(kind interval.Kind) error {
	if p.inherits(kind) {
		return cerrors.Wrapf(resutils.ErrInvalidRequest, "pool %s inherits its %s resources and cannot allocate them", p.name, kind)
	}
	return nil
}

// recordHeld adds blocks to the resources this pool was given, which ConfigLines reports
func (p *Pool) recordHeld(kind interval.Kind, blocks []interval.Interval) {
	if len(blocks) == 0 {
		return
	}
	held, _ := p.held.Get(kind)
	held = append(held, blocks...)
	slices.SortFunc(held, interval.Interval.Compare)
	p.held.Put(kind, held)
}

func (p *Pool) recordIssued(kind interval.Kind, blocks []interval.Interval) {
	if len(blocks) == 0 {
		return
	}
	issued, _ := p.issued.Get(kind)
	p.issued.Put(kind, append(issued, blocks...))
}

// Seed adds free resources to the pool. Either every interval is added or, if any of them
// overlaps the current free list or one another, none are.
func (p *Pool) Seed(kind interval.Kind, intervals ...interval.Interval) error {
	p.logger.Debug("Pool::Seed", slog.String("Kind", kind.String()), slog.Int("Count", len(intervals)))

	p.mutex.Lock()
	defer p.mutex.Unlock()

	err := p.checkOwned(kind)
	if err != nil {
		return err
	}
	store, err := p.store(kind)
	if err != nil {
		return err
	}

	scratch := store.Clone()
	for _, iv := range intervals {
		err = scratch.Add(iv)
		if err != nil {
			return cerrors.Wrapf(err, "failed to seed pool %s", p.name)
		}
	}

	err = store.ReplaceWith(scratch)
	if err != nil {
		return err
	}
	p.recordHeld(kind, intervals)
	return nil
}

// SeedText parses a comma-separated resource list such as "10.0.0.0/8,172.16.0.0-172.16.4.255"
// or "1-16,40,60-156" and seeds the pool with it
func (p *Pool) SeedText(kind interval.Kind, text string) error {
	intervals, err := interval.ParseList(kind, text)
	if err != nil {
		return err
	}
	return p.Seed(kind, intervals...)
}

// Store returns a copy of the pool's current free list for kind, or nil if kind is unknown
func (p *Pool) Store(kind interval.Kind) *freelist.Store {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	store, err := p.store(kind)
	if err != nil {
		return nil
	}
	return store.Clone()
}

// Issued returns the blocks this pool has handed out for kind and not reclaimed, in the order
// they were issued
func (p *Pool) Issued(kind interval.Kind) []interval.Interval {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	issued, _ := p.issued.Get(kind)
	return append([]interval.Interval(nil), issued...)
}

// Allocate satisfies requests in order from the pool's free list for kind. Address kinds
// require range requests to produce blocks that are not expressible as a prefix; AS numbers
// do not.
//
// If a request cannot be satisfied, the pool is left unchanged unless it was created with
// CreateKeepPartialBatches, in which case the blocks issued before the failing request are
// returned alongside the error and stay issued.
func (p *Pool) Allocate(kind interval.Kind, requests []alloc.Request) ([]interval.Interval, error) {
	p.logger.Debug("Pool::Allocate", slog.String("Kind", kind.String()), slog.Int("RequestCount", len(requests)))

	p.mutex.Lock()
	defer p.mutex.Unlock()

	err := p.checkOwned(kind)
	if err != nil {
		return nil, err
	}
	store, err := p.store(kind)
	if err != nil {
		return nil, err
	}

	options := alloc.BatchOptions{NonPrefixRequired: kind.IsAddress()}
	if p.flags&CreateKeepPartialBatches != 0 {
		options.Flags |= alloc.BatchKeepPartial
	}

	issued, err := alloc.AllocateWithOptions(store, requests, options)
	p.recordIssued(kind, issued)
	if err != nil {
		p.logger.LogAttrs(context.Background(), slog.LevelDebug, "  Allocate FAILED",
			slog.String("Pool", p.name),
			slog.Int("IssuedCount", len(issued)),
			slog.Any("error", err))
		return issued, cerrors.Wrapf(err, "pool %s could not allocate %s resources", p.name, kind)
	}

	return issued, nil
}

type pendingCarve struct {
	kind    interval.Kind
	scratch *freelist.Store
	issued  []interval.Interval
}

// SubAllocate creates a child pool named name from this pool's resources. Each kind's requests
// are allocated from this pool and the issued blocks become the child's free list. Either every
// kind is committed or, if any request fails, the pool is left unchanged and no child is created.
//
// A child may inherit any kind, including one this pool inherits itself, but requests for a kind
// this pool inherits fail with resutils.ErrInvalidRequest.
func (p *Pool) SubAllocate(name string, requests ChildRequests) (*Pool, error) {
	p.logger.Debug("Pool::SubAllocate", slog.String("Pool", p.name), slog.String("Child", name))

	p.mutex.Lock()
	defer p.mutex.Unlock()

	child := New(p.logger, name, CreateOptions{Flags: p.flags})
	child.parent = p

	var pending []pendingCarve
	for _, kind := range interval.Kinds {
		kindRequests, ok := requests[kind]
		if !ok {
			continue
		}

		if kindRequests.Inherit {
			if len(kindRequests.Requests) > 0 {
				return nil, cerrors.Wrapf(resutils.ErrInvalidRequest, "child %s cannot both inherit and request %s resources", name, kind)
			}
			child.inherited |= 1 << kind
			continue
		}

		err := p.checkOwned(kind)
		if err != nil {
			return nil, err
		}
		store, err := p.store(kind)
		if err != nil {
			return nil, err
		}

		// the scratch copy is discarded on failure, so it does not need its own rollback
		scratch := store.Clone()
		issued, err := alloc.AllocateWithOptions(scratch, kindRequests.Requests, alloc.BatchOptions{
			NonPrefixRequired: kind.IsAddress(),
			Flags:             alloc.BatchKeepPartial,
		})
		if err != nil {
			p.logger.LogAttrs(context.Background(), slog.LevelDebug, "  SubAllocate FAILED",
				slog.String("Pool", p.name),
				slog.String("Child", name),
				slog.String("Kind", kind.String()),
				slog.Any("error", err))
			return nil, cerrors.Wrapf(err, "failed to sub-allocate %s resources from %s to %s", kind, p.name, name)
		}

		childStore, err := freelist.NewWithEntries(kind, issued...)
		if err != nil {
			return nil, err
		}
		child.stores.Put(kind, childStore)
		child.recordHeld(kind, issued)

		pending = append(pending, pendingCarve{kind: kind, scratch: scratch, issued: issued})
	}

	for _, carve := range pending {
		store, err := p.store(carve.kind)
		if err != nil {
			return nil, err
		}
		err = store.ReplaceWith(carve.scratch)
		if err != nil {
			return nil, err
		}
		p.recordIssued(carve.kind, carve.issued)
	}

	return child, nil
}

// Reclaim returns previously issued blocks to the free list, e.g. when the child they were
// issued to is revoked. Every interval must match a block issued by this pool exactly;
// otherwise resutils.ErrInvariantViolation is returned and the pool is left unchanged.
func (p *Pool) Reclaim(kind interval.Kind, intervals ...interval.Interval) error {
	p.logger.Debug("Pool::Reclaim", slog.String("Kind", kind.String()), slog.Int("Count", len(intervals)))

	p.mutex.Lock()
	defer p.mutex.Unlock()

	store, err := p.store(kind)
	if err != nil {
		return err
	}

	current, _ := p.issued.Get(kind)
	remaining := append([]interval.Interval(nil), current...)
	scratch := store.Clone()

	for _, iv := range intervals {
		index := -1
		for i, block := range remaining {
			if block.Equal(iv) {
				index = i
				break
			}
		}
		if index < 0 {
			return cerrors.Wrapf(resutils.ErrInvariantViolation, "%s was not issued by pool %s", iv, p.name)
		}
		remaining = append(remaining[:index], remaining[index+1:]...)

		err = scratch.Add(iv)
		if err != nil {
			return err
		}
	}

	err = store.ReplaceWith(scratch)
	if err != nil {
		return err
	}
	p.issued.Put(kind, remaining)
	return nil
}

// Restrict shrinks the free list and the held resources for kind to the portion that lies
// within iv
func (p *Pool) Restrict(kind interval.Kind, iv interval.Interval) error {
	p.logger.Debug("Pool::Restrict", slog.String("Kind", kind.String()), slog.String("Interval", iv.String()))

	p.mutex.Lock()
	defer p.mutex.Unlock()

	store, err := p.store(kind)
	if err != nil {
		return err
	}
	err = store.Restrict(iv)
	if err != nil {
		return err
	}

	held, _ := p.held.Get(kind)
	restricted := make([]interval.Interval, 0, len(held))
	for _, block := range held {
		if intersection, ok := block.Intersect(iv); ok {
			restricted = append(restricted, intersection)
		}
	}
	p.held.Put(kind, restricted)
	return nil
}

// Validate checks every free list of the pool and verifies that no issued block is still free
// or overlaps another issued block
func (p *Pool) Validate() error {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	for _, kind := range interval.Kinds {
		store, err := p.store(kind)
		if err != nil {
			return err
		}

		err = store.Validate()
		if err != nil {
			return errors.Wrapf(err, "pool %s has an invalid %s free list", p.name, kind)
		}

		issued, _ := p.issued.Get(kind)
		for i, block := range issued {
			for entry := 0; entry < store.Len(); entry++ {
				if store.At(entry).Overlaps(block) {
					return errors.Errorf("pool %s issued %s but it overlaps free entry %s", p.name, block, store.At(entry))
				}
			}
			for _, other := range issued[i+1:] {
				if other.Overlaps(block) {
					return errors.Errorf("pool %s issued overlapping blocks %s and %s", p.name, block, other)
				}
			}
		}
	}

	return nil
}

// Held returns the resources this pool was given for kind, by Seed or by the parent it was
// sub-allocated from, in ascending order. Blocks it has issued since are still included.
func (p *Pool) Held(kind interval.Kind) []interval.Interval {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	held, _ := p.held.Get(kind)
	return append([]interval.Interval(nil), held...)
}

// ConfigLines returns the resource lines of the object's configuration file, one per kind,
// e.g. "ipv4=10.0.0.0/24,10.0.2.0-10.0.2.4". The lines list the resources the pool holds, not
// what is still free. Inherited kinds are written as "inherit".
func (p *Pool) ConfigLines() []string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	lines := make([]string, 0, len(interval.Kinds))
	for _, kind := range interval.Kinds {
		if p.inherits(kind) {
			lines = append(lines, kind.String()+"=inherit")
			continue
		}

		held, _ := p.held.Get(kind)
		lines = append(lines, kind.String()+"="+interval.FormatList(held))
	}

	return lines
}
