package interval

import (
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/rpkitools/resalloc/resutils"
)

var bigOne = big.NewInt(1)

// Interval is a closed range [min, max] of resource numbers of a single Kind. Intervals are
// values: the bounds are never modified after construction, and methods that change a bound
// return a new Interval.
//
// displayAsPrefix only affects String. It never changes allocation behavior.
//
// The zero Interval holds no values. Min and Max return nil for it, Size returns zero, and it
// never overlaps, contains, or touches another interval.
type Interval struct {
	min             *big.Int
	max             *big.Int
	kind            Kind
	displayAsPrefix bool
}

// New builds an Interval, returning resutils.ErrInvalidRange if min is greater than max or
// either bound falls outside the domain of kind.
func New(min, max *big.Int, kind Kind, displayAsPrefix bool) (Interval, error) {
	if min == nil || max == nil {
		return Interval{}, errors.Wrap(resutils.ErrInvalidRange, "interval bounds must not be nil")
	}
	if min.Cmp(max) > 0 {
		return Interval{}, errors.Wrapf(resutils.ErrInvalidRange, "min %s is greater than max %s", min, max)
	}
	if min.Sign() < 0 {
		return Interval{}, errors.Wrapf(resutils.ErrInvalidRange, "min %s is negative", min)
	}
	if max.Cmp(kind.MaxValue()) > 0 {
		return Interval{}, errors.Wrapf(resutils.ErrInvalidRange, "max %s exceeds the %s domain", max, kind)
	}

	return span(min, max, kind, displayAsPrefix), nil
}

// NewInt64 is New for bounds that fit in an int64
func NewInt64(min, max int64, kind Kind, displayAsPrefix bool) (Interval, error) {
	return New(big.NewInt(min), big.NewInt(max), kind, displayAsPrefix)
}

// NewSized builds the interval [min, min+size-1]
func NewSized(min, size *big.Int, kind Kind, displayAsPrefix bool) (Interval, error) {
	if size.Sign() <= 0 {
		return Interval{}, errors.Wrapf(resutils.ErrInvalidRange, "size %s must be positive", size)
	}
	max := new(big.Int).Add(min, size)
	return New(min, max.Sub(max, bigOne), kind, displayAsPrefix)
}

// span builds an Interval without domain checks. The caller guarantees min <= max.
func span(min, max *big.Int, kind Kind, displayAsPrefix bool) Interval {
	return Interval{
		min:             new(big.Int).Set(min),
		max:             new(big.Int).Set(max),
		kind:            kind,
		displayAsPrefix: displayAsPrefix,
	}
}

// IsZero returns true for the zero Interval, which holds no bounds
func (iv Interval) IsZero() bool { return iv.min == nil }

// Min returns a copy of the lower bound
func (iv Interval) Min() *big.Int {
	if iv.IsZero() {
		return nil
	}
	return new(big.Int).Set(iv.min)
}

// Max returns a copy of the upper bound
func (iv Interval) Max() *big.Int {
	if iv.IsZero() {
		return nil
	}
	return new(big.Int).Set(iv.max)
}

// Kind returns the resource kind of the interval
func (iv Interval) Kind() Kind { return iv.kind }

// DisplayAsPrefix reports whether String prefers CIDR notation
func (iv Interval) DisplayAsPrefix() bool { return iv.displayAsPrefix }

// WithDisplayAsPrefix returns a copy of the interval with the display flag replaced
func (iv Interval) WithDisplayAsPrefix(displayAsPrefix bool) Interval {
	iv.displayAsPrefix = displayAsPrefix
	return iv
}

// Size returns the number of resource numbers in the interval
func (iv Interval) Size() *big.Int {
	if iv.IsZero() {
		return new(big.Int)
	}
	return resutils.SpanSize(iv.min, iv.max)
}

// Compare orders intervals by their lower bound only. Free lists never hold overlapping
// entries, so two distinct entries always compare unequal.
func (iv Interval) Compare(other Interval) int {
	return iv.min.Cmp(other.min)
}

// Equal returns true if both intervals cover the same numbers of the same kind
func (iv Interval) Equal(other Interval) bool {
	if iv.IsZero() || other.IsZero() {
		return iv.IsZero() == other.IsZero()
	}
	return iv.kind == other.kind && iv.min.Cmp(other.min) == 0 && iv.max.Cmp(other.max) == 0
}

// Overlaps returns true if the two intervals share at least one value
func (iv Interval) Overlaps(other Interval) bool {
	if iv.IsZero() || other.IsZero() {
		return false
	}
	return iv.min.Cmp(other.max) <= 0 && other.min.Cmp(iv.max) <= 0
}

// Contains returns true if every value of other lies within iv
func (iv Interval) Contains(other Interval) bool {
	if iv.IsZero() || other.IsZero() {
		return false
	}
	return iv.min.Cmp(other.min) <= 0 && other.max.Cmp(iv.max) <= 0
}

// ContainsValue returns true if value lies within iv
func (iv Interval) ContainsValue(value *big.Int) bool {
	if iv.IsZero() || value == nil {
		return false
	}
	return iv.min.Cmp(value) <= 0 && value.Cmp(iv.max) <= 0
}

// AdjacentTo returns true if one interval ends exactly one before the other begins
func (iv Interval) AdjacentTo(other Interval) bool {
	if iv.IsZero() || other.IsZero() {
		return false
	}

	var next big.Int
	if next.Add(iv.max, bigOne).Cmp(other.min) == 0 {
		return true
	}
	return next.Add(other.max, bigOne).Cmp(iv.min) == 0
}

// Intersect returns the values shared by both intervals. The second return value is false
// when they do not overlap. The result keeps the receiver's kind and display flag.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	if !iv.Overlaps(other) {
		return Interval{}, false
	}

	lower := iv.min
	if other.min.Cmp(lower) > 0 {
		lower = other.min
	}
	upper := iv.max
	if other.max.Cmp(upper) < 0 {
		upper = other.max
	}

	return span(lower, upper, iv.kind, iv.displayAsPrefix), true
}

// IsPowerOfTwoAligned returns true if the interval is expressible as a single CIDR prefix:
// its size is a power of two and min is a multiple of that size.
func (iv Interval) IsPowerOfTwoAligned() bool {
	size := iv.Size()
	return resutils.IsPow2(size) && resutils.IsAligned(iv.min, size)
}

// PrefixLength returns the CIDR prefix length of an aligned interval. The second return value
// is false if the interval is not prefix-aligned.
func (iv Interval) PrefixLength() (int, bool) {
	if !iv.IsPowerOfTwoAligned() {
		return 0, false
	}
	return iv.kind.Bits() - resutils.Log2(iv.Size()), true
}

// Expand widens the interval by amount on each side. The result is not checked against the
// kind's domain and may have a negative lower bound; it is meant for overlap tests only.
func (iv Interval) Expand(amount int64) Interval {
	return span(resutils.AddInt64(iv.min, -amount), resutils.AddInt64(iv.max, amount), iv.kind, iv.displayAsPrefix)
}

// Perforate returns what remains of iv once carved is taken out of it: a left residual
// [iv.min, carved.min-1] and a right residual [carved.max+1, iv.max], each only if non-empty.
// carved must be contained in iv.
func (iv Interval) Perforate(carved Interval) ([]Interval, error) {
	if !iv.Contains(carved) {
		return nil, errors.Wrapf(resutils.ErrInvariantViolation, "cannot perforate %s from %s", carved, iv)
	}

	residuals := make([]Interval, 0, 2)
	if iv.min.Cmp(carved.min) < 0 {
		residuals = append(residuals, span(iv.min, resutils.AddInt64(carved.min, -1), iv.kind, iv.displayAsPrefix))
	}
	if iv.max.Cmp(carved.max) > 0 {
		residuals = append(residuals, span(resutils.AddInt64(carved.max, 1), iv.max, iv.kind, iv.displayAsPrefix))
	}

	return residuals, nil
}

// Merge returns the single interval covering two overlapping or adjacent intervals
func (iv Interval) Merge(other Interval) (Interval, error) {
	if !iv.Overlaps(other) && !iv.AdjacentTo(other) {
		return Interval{}, errors.Wrapf(resutils.ErrInvariantViolation, "cannot merge disjoint intervals %s and %s", iv, other)
	}

	lower := iv.min
	if other.min.Cmp(lower) < 0 {
		lower = other.min
	}
	upper := iv.max
	if other.max.Cmp(upper) > 0 {
		upper = other.max
	}

	return span(lower, upper, iv.kind, iv.displayAsPrefix), nil
}
