package freelist

import (
	"math/big"

	cerrors "github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/rpkitools/resalloc/resutils"
	"github.com/rpkitools/resalloc/resutils/interval"
	"golang.org/x/exp/slices"
)

// Store is the canonical free list for one resource kind. Entries are kept strictly ascending,
// pairwise non-overlapping and pairwise non-adjacent: adjacent free space is always merged into
// a single entry.
//
// A Store is not safe for concurrent use. Every mutation happens in place.
type Store struct {
	kind    interval.Kind
	entries []interval.Interval
}

var _ FreeList = &Store{}

// New creates an empty Store for the provided resource kind
func New(kind interval.Kind) *Store {
	return &Store{
		kind:    kind,
		entries: []interval.Interval{},
	}
}

// NewWithEntries creates a Store seeded with the provided intervals. They may be supplied in
// any order, but must not overlap one another.
func NewWithEntries(kind interval.Kind, intervals ...interval.Interval) (*Store, error) {
	store := New(kind)
	for _, iv := range intervals {
		err := store.Add(iv)
		if err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Copy creates a new Store holding the same entries as other
func Copy(other FreeList) *Store {
	store := &Store{
		kind:    other.Kind(),
		entries: make([]interval.Interval, other.Len()),
	}
	for i := range store.entries {
		store.entries[i] = other.At(i)
	}
	return store
}

// Clone creates a deep copy of this Store
func (s *Store) Clone() *Store {
	return &Store{
		kind:    s.kind,
		entries: slices.Clone(s.entries),
	}
}

// Kind returns the resource kind of this Store
func (s *Store) Kind() interval.Kind { return s.kind }

// Len returns the number of free entries
func (s *Store) Len() int { return len(s.entries) }

// At returns the free entry at index
func (s *Store) At(index int) interval.Interval { return s.entries[index] }

// IsEmpty returns true if the Store holds no free space
func (s *Store) IsEmpty() bool { return len(s.entries) == 0 }

// Entries returns a copy of the free entries in ascending order
func (s *Store) Entries() []interval.Interval {
	return slices.Clone(s.entries)
}

// VisitEntries calls visit once for each free entry in ascending order, stopping at the first error
func (s *Store) VisitEntries(visit func(index int, entry interval.Interval) error) error {
	for index, entry := range s.entries {
		err := visit(index, entry)
		if err != nil {
			return err
		}
	}
	return nil
}

// SumFreeSize returns the number of free resource numbers in the Store
func (s *Store) SumFreeSize() *big.Int {
	sum := new(big.Int)
	for _, entry := range s.entries {
		sum.Add(sum, entry.Size())
	}
	return sum
}

// LargestEntry returns the biggest contiguous free entry, or false if the Store is empty
func (s *Store) LargestEntry() (interval.Interval, bool) {
	var largest interval.Interval
	var largestSize *big.Int
	for _, entry := range s.entries {
		size := entry.Size()
		if largestSize == nil || size.Cmp(largestSize) > 0 {
			largest = entry
			largestSize = size
		}
	}
	return largest, largestSize != nil
}

func (s *Store) checkKind(iv interval.Interval) error {
	if iv.IsZero() {
		return cerrors.Wrap(resutils.ErrInvalidRange, "cannot use an empty interval")
	}
	if iv.Kind() != s.kind {
		return cerrors.Wrapf(resutils.ErrKindMismatch, "%s interval %s used with a %s free list", iv.Kind(), iv, s.kind)
	}
	return nil
}

// search returns the position of the first entry whose min is greater than or equal to the
// min of iv, and whether an entry with exactly that min exists
func (s *Store) search(iv interval.Interval) (int, bool) {
	return slices.BinarySearchFunc(s.entries, iv, func(entry interval.Interval, target interval.Interval) int {
		return entry.Compare(target)
	})
}

// Add returns a free interval to the Store, merging it with any neighbors it is adjacent to.
// The interval must not overlap space that is already free.
func (s *Store) Add(iv interval.Interval) error {
	err := s.checkKind(iv)
	if err != nil {
		return err
	}

	index, found := s.search(iv)
	if found {
		return cerrors.Wrapf(resutils.ErrInvariantViolation, "%s overlaps free entry %s", iv, s.entries[index])
	}

	var prev, next *interval.Interval
	if index > 0 {
		prev = &s.entries[index-1]
		if prev.Overlaps(iv) {
			return cerrors.Wrapf(resutils.ErrInvariantViolation, "%s overlaps free entry %s", iv, *prev)
		}
	}
	if index < len(s.entries) {
		next = &s.entries[index]
		if next.Overlaps(iv) {
			return cerrors.Wrapf(resutils.ErrInvariantViolation, "%s overlaps free entry %s", iv, *next)
		}
	}

	switch classifyAdjacency(prev, iv, next) {
	case adjacencyNone:
		s.entries = slices.Insert(s.entries, index, iv)
	case adjacencyNext:
		s.entries[index], err = next.Merge(iv)
	case adjacencyPrev:
		s.entries[index-1], err = prev.Merge(iv)
	case adjacencyBoth:
		var merged interval.Interval
		merged, err = prev.Merge(iv)
		if err == nil {
			merged, err = merged.Merge(*next)
		}
		if err == nil {
			s.entries[index-1] = merged
			s.entries = slices.Delete(s.entries, index, index+1)
		}
	}
	if err != nil {
		return err
	}

	resutils.DebugValidate(s)
	return nil
}

// AddAll calls Add for every entry of other, in ascending order
func (s *Store) AddAll(other FreeList) error {
	for i := 0; i < other.Len(); i++ {
		err := s.Add(other.At(i))
		if err != nil {
			return err
		}
	}
	return nil
}

// Remove takes iv out of the free space. Because free space is maximally merged, any block
// that is entirely free lies within a single entry; that entry is perforated around iv.
// Removing space that is not entirely free returns resutils.ErrInvariantViolation.
func (s *Store) Remove(iv interval.Interval) error {
	err := s.checkKind(iv)
	if err != nil {
		return err
	}

	index, found := s.search(iv)
	if !found {
		index--
	}
	if index < 0 || !s.entries[index].Contains(iv) {
		return cerrors.Wrapf(resutils.ErrInvariantViolation, "%s is not entirely free", iv)
	}

	return s.Perforate(index, iv)
}

// Restrict clips the free space to iv: entries are replaced by their intersection with iv, and
// entries that do not intersect iv at all are dropped. This differs from an intersect-only
// operation, which would leave the non-intersecting entries in place.
func (s *Store) Restrict(iv interval.Interval) error {
	err := s.checkKind(iv)
	if err != nil {
		return err
	}

	restricted := make([]interval.Interval, 0, len(s.entries))
	for _, entry := range s.entries {
		if entry.Compare(iv) > 0 && !entry.Overlaps(iv) {
			break
		}

		intersection, ok := entry.Intersect(iv)
		if ok {
			restricted = append(restricted, intersection)
		}
	}
	s.entries = restricted

	resutils.DebugValidate(s)
	return nil
}

// Perforate carves an interval out of the entry at index, splicing the residuals into its place
func (s *Store) Perforate(index int, carved interval.Interval) error {
	err := s.checkKind(carved)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(s.entries) {
		return cerrors.Wrapf(resutils.ErrInvariantViolation, "free entry index %d is out of range for a list of %d entries", index, len(s.entries))
	}

	residuals, err := s.entries[index].Perforate(carved)
	if err != nil {
		return err
	}

	s.entries = slices.Delete(s.entries, index, index+1)
	s.entries = slices.Insert(s.entries, index, residuals...)

	resutils.DebugValidate(s)
	return nil
}

// ReplaceWith overwrites this Store's entries with a copy of other's
func (s *Store) ReplaceWith(other FreeList) error {
	if other.Kind() != s.kind {
		return cerrors.Wrapf(resutils.ErrKindMismatch, "cannot replace a %s free list with a %s free list", s.kind, other.Kind())
	}

	s.entries = Copy(other).entries
	return nil
}

// Clear drops all free space
func (s *Store) Clear() {
	s.entries = s.entries[:0]
}

// Validate checks the canonical form of the Store: entries share the Store's kind, and are
// strictly ascending, non-overlapping and non-adjacent.
func (s *Store) Validate() error {
	for index, entry := range s.entries {
		if entry.IsZero() {
			return errors.Errorf("free entry %d is empty", index)
		}
		if entry.Kind() != s.kind {
			return errors.Errorf("free entry %d (%s) has kind %s, but the free list has kind %s", index, entry, entry.Kind(), s.kind)
		}
		if index == 0 {
			continue
		}

		prev := s.entries[index-1]
		if prev.Compare(entry) >= 0 {
			return errors.Errorf("free entry %d (%s) does not sort after free entry %d (%s)", index, entry, index-1, prev)
		}
		if prev.Overlaps(entry) {
			return errors.Errorf("free entry %d (%s) overlaps free entry %d (%s)", index, entry, index-1, prev)
		}
		if prev.AdjacentTo(entry) {
			return errors.Errorf("free entry %d (%s) is adjacent to free entry %d (%s) but they were not merged", index, entry, index-1, prev)
		}
	}

	return nil
}

// AddStatistics sums this Store's free space into the provided resutils.Statistics object
func (s *Store) AddStatistics(stats *resutils.Statistics) {
	stats.StoreCount++
	stats.FreeRangeCount += len(s.entries)
	stats.FreeSize.Add(&stats.FreeSize, s.SumFreeSize())
}

// AddDetailedStatistics sums this Store's free space into the provided resutils.DetailedStatistics object
func (s *Store) AddDetailedStatistics(stats *resutils.DetailedStatistics) {
	stats.StoreCount++
	for _, entry := range s.entries {
		stats.AddFreeRange(entry.Size())
	}
}

// WriteJSON populates a json object with information about this Store
func (s *Store) WriteJSON(json jwriter.ObjectState) {
	json.Name("Kind").String(s.kind.String())
	json.Name("FreeSize").String(s.SumFreeSize().String())
	json.Name("FreeRanges").Int(len(s.entries))

	entries := json.Name("Entries").Array()
	defer entries.End()

	for _, entry := range s.entries {
		entries.String(entry.String())
	}
}

func (s *Store) String() string {
	return interval.FormatList(s.entries)
}
