package interval_test

import (
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/rpkitools/resalloc/resutils"
	"github.com/rpkitools/resalloc/resutils/interval"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, min, max int64, kind interval.Kind) interval.Interval {
	iv, err := interval.NewInt64(min, max, kind, true)
	require.NoError(t, err)
	return iv
}

func TestNewRejectsInvalidBounds(t *testing.T) {
	_, err := interval.NewInt64(10, 9, interval.KindIPv4, true)
	require.True(t, errors.Is(err, resutils.ErrInvalidRange))

	_, err = interval.NewInt64(-1, 9, interval.KindAS, false)
	require.True(t, errors.Is(err, resutils.ErrInvalidRange))

	_, err = interval.New(big.NewInt(0), resutils.Pow2(32), interval.KindIPv4, true)
	require.True(t, errors.Is(err, resutils.ErrInvalidRange))

	iv, err := interval.New(big.NewInt(0), interval.KindIPv6.MaxValue(), interval.KindIPv6, true)
	require.NoError(t, err)
	require.Equal(t, 0, resutils.Pow2(128).Cmp(iv.Size()))
}

func TestBoundsAreCopied(t *testing.T) {
	min := big.NewInt(5)
	iv, err := interval.New(min, big.NewInt(9), interval.KindAS, false)
	require.NoError(t, err)

	min.SetInt64(100)
	require.Equal(t, int64(5), iv.Min().Int64())

	iv.Max().SetInt64(1000)
	require.Equal(t, int64(9), iv.Max().Int64())
}

func TestZeroInterval(t *testing.T) {
	var zero interval.Interval
	iv := mustInterval(t, 0, 9, interval.KindIPv4)

	require.True(t, zero.IsZero())
	require.Nil(t, zero.Min())
	require.Nil(t, zero.Max())
	require.Equal(t, 0, zero.Size().Sign())
	require.Equal(t, "<empty>", zero.String())

	require.False(t, zero.Overlaps(iv))
	require.False(t, iv.Overlaps(zero))
	require.False(t, iv.Contains(zero))
	require.False(t, zero.ContainsValue(big.NewInt(0)))
	require.False(t, zero.AdjacentTo(iv))

	_, ok := iv.Intersect(zero)
	require.False(t, ok)
	require.True(t, zero.Equal(interval.Interval{}))
	require.False(t, zero.Equal(iv))
}

func TestOverlapContainAdjacent(t *testing.T) {
	a := mustInterval(t, 0, 9, interval.KindAS)
	b := mustInterval(t, 5, 14, interval.KindAS)
	c := mustInterval(t, 10, 19, interval.KindAS)
	d := mustInterval(t, 2, 3, interval.KindAS)

	require.True(t, a.Overlaps(b))
	require.False(t, a.Overlaps(c))
	require.True(t, a.AdjacentTo(c))
	require.True(t, c.AdjacentTo(a))
	require.False(t, a.AdjacentTo(b))

	require.True(t, a.Contains(d))
	require.False(t, d.Contains(a))
	require.True(t, a.Contains(a))

	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 1, c.Compare(b))
}

func TestIntersect(t *testing.T) {
	a := mustInterval(t, 0, 9, interval.KindIPv4)
	b := mustInterval(t, 5, 14, interval.KindIPv4)

	intersection, ok := a.Intersect(b)
	require.True(t, ok)
	require.True(t, intersection.Equal(mustInterval(t, 5, 9, interval.KindIPv4)))

	_, ok = a.Intersect(mustInterval(t, 10, 12, interval.KindIPv4))
	require.False(t, ok)
}

func TestIsPowerOfTwoAligned(t *testing.T) {
	require.True(t, mustInterval(t, 0, 63, interval.KindIPv4).IsPowerOfTwoAligned())
	require.True(t, mustInterval(t, 64, 127, interval.KindIPv4).IsPowerOfTwoAligned())
	require.True(t, mustInterval(t, 7, 7, interval.KindIPv4).IsPowerOfTwoAligned())
	require.False(t, mustInterval(t, 32, 95, interval.KindIPv4).IsPowerOfTwoAligned())
	require.False(t, mustInterval(t, 0, 4, interval.KindIPv4).IsPowerOfTwoAligned())

	length, ok := mustInterval(t, 256, 511, interval.KindIPv4).PrefixLength()
	require.True(t, ok)
	require.Equal(t, 24, length)

	_, ok = mustInterval(t, 1, 2, interval.KindIPv4).PrefixLength()
	require.False(t, ok)
}

func TestPerforate(t *testing.T) {
	entry := mustInterval(t, 0, 15, interval.KindIPv4)

	residuals, err := entry.Perforate(mustInterval(t, 4, 7, interval.KindIPv4))
	require.NoError(t, err)
	require.Len(t, residuals, 2)
	require.True(t, residuals[0].Equal(mustInterval(t, 0, 3, interval.KindIPv4)))
	require.True(t, residuals[1].Equal(mustInterval(t, 8, 15, interval.KindIPv4)))

	residuals, err = entry.Perforate(mustInterval(t, 0, 7, interval.KindIPv4))
	require.NoError(t, err)
	require.Len(t, residuals, 1)
	require.True(t, residuals[0].Equal(mustInterval(t, 8, 15, interval.KindIPv4)))

	residuals, err = entry.Perforate(entry)
	require.NoError(t, err)
	require.Empty(t, residuals)

	_, err = entry.Perforate(mustInterval(t, 10, 20, interval.KindIPv4))
	require.True(t, errors.Is(err, resutils.ErrInvariantViolation))
}

func TestMergeAndExpand(t *testing.T) {
	merged, err := mustInterval(t, 0, 9, interval.KindAS).Merge(mustInterval(t, 10, 19, interval.KindAS))
	require.NoError(t, err)
	require.True(t, merged.Equal(mustInterval(t, 0, 19, interval.KindAS)))

	_, err = mustInterval(t, 0, 9, interval.KindAS).Merge(mustInterval(t, 11, 19, interval.KindAS))
	require.True(t, errors.Is(err, resutils.ErrInvariantViolation))

	expanded := mustInterval(t, 0, 9, interval.KindAS).Expand(1)
	require.Equal(t, int64(-1), expanded.Min().Int64())
	require.Equal(t, int64(10), expanded.Max().Int64())
}

func TestParseKind(t *testing.T) {
	kind, err := interval.ParseKind("IPv6")
	require.NoError(t, err)
	require.Equal(t, interval.KindIPv6, kind)
	require.Equal(t, 128, kind.Bits())

	_, err = interval.ParseKind("ipx")
	require.Error(t, err)
}
