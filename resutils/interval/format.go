package interval

import (
	"fmt"
	"math/big"
	"net/netip"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rpkitools/resalloc/resutils"
)

// String renders the interval in its canonical text form. Address intervals flagged
// displayAsPrefix that are prefix-aligned render in CIDR notation (10.0.0.0/24); all other
// address intervals render as first-last (1.2.3.4-1.2.5.255). AS intervals render as decimal
// min-max, or a single number when min equals max.
func (iv Interval) String() string {
	if iv.IsZero() {
		return "<empty>"
	}

	if !iv.kind.IsAddress() {
		if iv.min.Cmp(iv.max) == 0 {
			return iv.min.String()
		}
		return iv.min.String() + "-" + iv.max.String()
	}

	if iv.displayAsPrefix {
		if length, ok := iv.PrefixLength(); ok {
			return fmt.Sprintf("%s/%d", formatAddress(iv.kind, iv.min), length)
		}
	}

	return formatAddress(iv.kind, iv.min) + "-" + formatAddress(iv.kind, iv.max)
}

func formatAddress(kind Kind, value *big.Int) string {
	if value.Sign() < 0 || value.BitLen() > kind.Bits() {
		return value.String()
	}

	addr, ok := netip.AddrFromSlice(value.FillBytes(make([]byte, kind.Bits()/8)))
	if !ok {
		return value.String()
	}
	return addr.String()
}

// FormatList renders intervals as a comma-separated list, the format used by object
// configuration files
func FormatList(intervals []Interval) string {
	parts := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		parts = append(parts, iv.String())
	}
	return strings.Join(parts, ",")
}

// Parse reads one interval in any of the forms produced by String: a CIDR prefix, a
// first-last range, or a single value.
func Parse(kind Kind, text string) (Interval, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Interval{}, errors.Wrap(resutils.ErrInvalidRange, "empty resource text")
	}

	if !kind.IsAddress() {
		return parseAS(text)
	}

	if strings.Contains(text, "/") {
		return parsePrefix(kind, text)
	}

	if first, last, found := strings.Cut(text, "-"); found {
		min, err := parseAddress(kind, first)
		if err != nil {
			return Interval{}, err
		}
		max, err := parseAddress(kind, last)
		if err != nil {
			return Interval{}, err
		}
		return New(min, max, kind, false)
	}

	value, err := parseAddress(kind, text)
	if err != nil {
		return Interval{}, err
	}
	return New(value, value, kind, true)
}

// ParseList reads a comma-separated list of intervals, e.g. "1-16,40,60-156"
func ParseList(kind Kind, text string) ([]Interval, error) {
	var intervals []Interval
	for _, part := range strings.Split(text, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}

		iv, err := Parse(kind, part)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}

	return intervals, nil
}

func parseAS(text string) (Interval, error) {
	first, last, found := strings.Cut(text, "-")
	min, ok := new(big.Int).SetString(strings.TrimSpace(first), 10)
	if !ok {
		return Interval{}, errors.Wrapf(resutils.ErrInvalidRange, "invalid AS number %q", first)
	}
	if !found {
		return New(min, min, KindAS, false)
	}

	max, ok := new(big.Int).SetString(strings.TrimSpace(last), 10)
	if !ok {
		return Interval{}, errors.Wrapf(resutils.ErrInvalidRange, "invalid AS number %q", last)
	}
	return New(min, max, KindAS, false)
}

func parsePrefix(kind Kind, text string) (Interval, error) {
	prefix, err := netip.ParsePrefix(text)
	if err != nil {
		return Interval{}, errors.Wrapf(resutils.ErrInvalidRange, "invalid prefix %q: %v", text, err)
	}
	if err := checkFamily(kind, prefix.Addr(), text); err != nil {
		return Interval{}, err
	}
	if prefix.Masked() != prefix {
		return Interval{}, errors.Wrapf(resutils.ErrInvalidRange, "%s: host bits must be zero", text)
	}

	min := new(big.Int).SetBytes(prefix.Addr().AsSlice())
	return NewSized(min, resutils.Pow2(kind.Bits()-prefix.Bits()), kind, true)
}

func parseAddress(kind Kind, text string) (*big.Int, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(text))
	if err != nil {
		return nil, errors.Wrapf(resutils.ErrInvalidRange, "invalid address %q: %v", text, err)
	}
	if err := checkFamily(kind, addr, text); err != nil {
		return nil, err
	}

	return new(big.Int).SetBytes(addr.AsSlice()), nil
}

func checkFamily(kind Kind, addr netip.Addr, text string) error {
	if (kind == KindIPv4 && !addr.Is4()) || (kind == KindIPv6 && !addr.Is6()) {
		return errors.Wrapf(resutils.ErrKindMismatch, "%q is not an %s address", text, kind)
	}
	return nil
}
