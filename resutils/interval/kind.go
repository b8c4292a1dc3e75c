package interval

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rpkitools/resalloc/resutils"
)

// Kind identifies the family of Internet number resource an Interval describes. The kind fixes
// the width of the integer domain, but allocation arithmetic is identical across kinds.
type Kind uint32

const (
	// KindIPv4 covers the 32-bit IPv4 address space
	KindIPv4 Kind = iota
	// KindIPv6 covers the 128-bit IPv6 address space
	KindIPv6
	// KindAS covers 32-bit autonomous system numbers
	KindAS
)

// Kinds lists every resource kind in a stable order
var Kinds = []Kind{KindIPv4, KindIPv6, KindAS}

var kindMapping = map[Kind]string{
	KindIPv4: "ipv4",
	KindIPv6: "ipv6",
	KindAS:   "as",
}

var kindBits = map[Kind]int{
	KindIPv4: 32,
	KindIPv6: 128,
	KindAS:   32,
}

func (k Kind) String() string {
	return kindMapping[k]
}

// Bits returns the width in bits of the kind's integer domain
func (k Kind) Bits() int {
	return kindBits[k]
}

// MaxValue returns the largest resource number of this kind
func (k Kind) MaxValue() *big.Int {
	maxValue := resutils.Pow2(k.Bits())
	return maxValue.Sub(maxValue, big.NewInt(1))
}

// IsAddress returns true for the IP address kinds
func (k Kind) IsAddress() bool {
	return k == KindIPv4 || k == KindIPv6
}

// ParseKind accepts the names returned by Kind.String, case-insensitively
func ParseKind(name string) (Kind, error) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for kind, kindName := range kindMapping {
		if kindName == lowered {
			return kind, nil
		}
	}

	return 0, errors.Newf("unknown resource kind %q", name)
}
