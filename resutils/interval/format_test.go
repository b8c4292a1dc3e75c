package interval_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/rpkitools/resalloc/resutils"
	"github.com/rpkitools/resalloc/resutils/interval"
	"github.com/stretchr/testify/require"
)

func TestStringIPv4(t *testing.T) {
	iv := mustInterval(t, 0x0A000500, 0x0A0005FF, interval.KindIPv4)
	require.Equal(t, "10.0.5.0/24", iv.String())
	require.Equal(t, "10.0.5.0-10.0.5.255", iv.WithDisplayAsPrefix(false).String())

	unaligned := mustInterval(t, 0x01020304, 0x010205FF, interval.KindIPv4)
	require.Equal(t, "1.2.3.4-1.2.5.255", unaligned.String())
}

func TestStringAS(t *testing.T) {
	require.Equal(t, "60-156", mustInterval(t, 60, 156, interval.KindAS).String())
	require.Equal(t, "40", mustInterval(t, 40, 40, interval.KindAS).String())
	require.Equal(t, "<empty>", interval.Interval{}.String())
}

func TestParseRoundTrip(t *testing.T) {
	testCases := []struct {
		kind interval.Kind
		text string
	}{
		{interval.KindIPv4, "10.0.5.0/24"},
		{interval.KindIPv4, "1.2.3.4-1.2.5.255"},
		{interval.KindIPv4, "192.0.2.1/32"},
		{interval.KindIPv6, "2220::/13"},
		{interval.KindIPv6, "2222::-2223::"},
		{interval.KindIPv6, "1111:1111::/32"},
		{interval.KindAS, "60-156"},
		{interval.KindAS, "40"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.text, func(t *testing.T) {
			iv, err := interval.Parse(testCase.kind, testCase.text)
			require.NoError(t, err)
			require.Equal(t, testCase.kind, iv.Kind())
			require.Equal(t, testCase.text, iv.String())
		})
	}
}

func TestParseSingleAddress(t *testing.T) {
	iv, err := interval.Parse(interval.KindIPv4, "192.0.2.7")
	require.NoError(t, err)
	require.Equal(t, "192.0.2.7/32", iv.String())
	require.Equal(t, int64(1), iv.Size().Int64())
}

func TestParseErrors(t *testing.T) {
	_, err := interval.Parse(interval.KindIPv4, "10.0.0.1/24")
	require.True(t, errors.Is(err, resutils.ErrInvalidRange))

	_, err = interval.Parse(interval.KindIPv4, "2001:db8::/32")
	require.True(t, errors.Is(err, resutils.ErrKindMismatch))

	_, err = interval.Parse(interval.KindIPv4, "10.0.0.9-10.0.0.1")
	require.True(t, errors.Is(err, resutils.ErrInvalidRange))

	_, err = interval.Parse(interval.KindAS, "AS65000")
	require.True(t, errors.Is(err, resutils.ErrInvalidRange))

	_, err = interval.Parse(interval.KindAS, "")
	require.True(t, errors.Is(err, resutils.ErrInvalidRange))
}

func TestParseList(t *testing.T) {
	intervals, err := interval.ParseList(interval.KindAS, "1-16, 40,33,60-156,")
	require.NoError(t, err)
	require.Len(t, intervals, 4)
	require.Equal(t, "1-16,40,33,60-156", interval.FormatList(intervals))

	_, err = interval.ParseList(interval.KindAS, "1-16,x")
	require.Error(t, err)
}
