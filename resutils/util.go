package resutils

import (
	"math/big"

	cerrors "github.com/cockroachdb/errors"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// IsPow2 returns true if number is a positive power of two
func IsPow2(number *big.Int) bool {
	if number.Sign() <= 0 {
		return false
	}

	var minusOne big.Int
	minusOne.Sub(number, bigOne)
	var masked big.Int
	return masked.And(number, &minusOne).Sign() == 0
}

func CheckPow2(number *big.Int, name string) error {
	if !IsPow2(number) {
		return cerrors.Wrapf(ErrPowerOfTwo, "%s is %s", name, number.String())
	}
	return nil
}

// AlignUp rounds value up to the next multiple of alignment. alignment must be positive; it
// does not need to be a power of two.
func AlignUp(value, alignment *big.Int) *big.Int {
	var quotient, remainder big.Int
	quotient.QuoRem(value, alignment, &remainder)
	if remainder.Sign() == 0 {
		return new(big.Int).Set(value)
	}

	quotient.Add(&quotient, bigOne)
	return quotient.Mul(&quotient, alignment)
}

// AlignDown rounds value down to the previous multiple of alignment
func AlignDown(value, alignment *big.Int) *big.Int {
	var remainder big.Int
	remainder.Rem(value, alignment)
	return new(big.Int).Sub(value, &remainder)
}

// IsAligned returns true if value is a multiple of alignment
func IsAligned(value, alignment *big.Int) bool {
	var remainder big.Int
	return remainder.Rem(value, alignment).Sign() == 0
}

// Log2 returns the base-2 logarithm of a power of two
func Log2(number *big.Int) int {
	return number.BitLen() - 1
}

// Pow2 returns 2^exponent
func Pow2(exponent int) *big.Int {
	return new(big.Int).Lsh(bigOne, uint(exponent))
}

// Add returns a+b as a new value
func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

// AddInt64 returns a+delta as a new value
func AddInt64(a *big.Int, delta int64) *big.Int {
	return new(big.Int).Add(a, big.NewInt(delta))
}

// SpanSize returns the number of integers in the closed range [min, max]
func SpanSize(min, max *big.Int) *big.Int {
	size := new(big.Int).Sub(max, min)
	return size.Add(size, bigOne)
}

// IsZero returns true if number is zero
func IsZero(number *big.Int) bool {
	return number.Cmp(bigZero) == 0
}
