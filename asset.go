package antelope

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

// MaxAmount is the largest magnitude an asset amount can have.
// It leaves two bits of headroom below the int64 limits.
const MaxAmount = 1<<62 - 1

// maxPow10Exp is the largest power of 10 that fits into an int64.
// Digit extraction never divides by more than 10^maxPow10Exp, even if the
// precision of the symbol is larger.
const maxPow10Exp = 18

// pow10 is a cache of powers of 10, where pow10[x] = 10^x.
var pow10 = [maxPow10Exp + 1]uint64{
	1,                         // 10^0
	10,                        // 10^1
	100,                       // 10^2
	1_000,                     // 10^3
	10_000,                    // 10^4
	100_000,                   // 10^5
	1_000_000,                 // 10^6
	10_000_000,                // 10^7
	100_000_000,               // 10^8
	1_000_000_000,             // 10^9
	10_000_000_000,            // 10^10
	100_000_000_000,           // 10^11
	1_000_000_000_000,         // 10^12
	10_000_000_000_000,        // 10^13
	100_000_000_000_000,       // 10^14
	1_000_000_000_000_000,     // 10^15
	10_000_000_000_000_000,    // 10^16
	100_000_000_000_000_000,   // 10^17
	1_000_000_000_000_000_000, // 10^18
}

// Decoding errors.
var (
	ErrBadFormat = errors.New("bad format")
	ErrBadAmount = errors.New("bad amount")
)

// Invariant violations. Operations on assets panic with an error wrapping one
// of these values.
var (
	ErrSymbolMismatch          = errors.New("symbol mismatch")
	ErrAmountOutOfRange        = errors.New("magnitude of asset amount must be less than 2^62")
	ErrAdditionOverflow        = errors.New("addition overflow")
	ErrAdditionUnderflow       = errors.New("addition underflow")
	ErrSubtractionOverflow     = errors.New("subtraction overflow")
	ErrSubtractionUnderflow    = errors.New("subtraction underflow")
	ErrMultiplicationOverflow  = errors.New("multiplication overflow")
	ErrMultiplicationUnderflow = errors.New("multiplication underflow")
	ErrDivisionByZero          = errors.New("divide by zero")
	ErrSignedDivisionOverflow  = errors.New("signed division overflow")
)

// ParseError is returned when a string cannot be converted to an asset,
// a symbol or a symbol code.
// Input holds the offending part of the string.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Asset type represents a quantity of a token.
// Its zero value corresponds to "0 " with an empty, invalid symbol.
//
// The amount is a signed integer scaled by 10^precision of the symbol,
// so "1.0000 SYS" is stored as amount 10000 with symbol "4,SYS".
// Assets can be compared and combined only if their symbols are equal,
// otherwise the operation panics.
// Asset is designed to be safe for concurrent use by multiple goroutines,
// the methods with pointer receivers excepted.
type Asset struct {
	amount int64  // scaled amount
	symbol Symbol // unit of account
}

// NewAsset returns an asset with the given scaled amount and symbol.
// The amount is not checked, see [Asset.IsAmountWithinRange] and [Asset.IsValid].
func NewAsset(amount int64, symbol Symbol) Asset {
	return Asset{amount: amount, symbol: symbol}
}

// NewAssetFromDecimal converts a decimal to an asset with the given symbol.
// Trailing zeros beyond the precision of the symbol are removed, and the
// result is zero-padded to the right if the decimal has fewer digits.
//
// NewAssetFromDecimal returns an error if:
//   - the precision of the symbol is greater than [decimal.MaxScale];
//   - the decimal has more significant digits after the decimal point than the precision;
//   - the magnitude of the scaled amount is greater than [MaxAmount].
func NewAssetFromDecimal(symbol Symbol, d decimal.Decimal) (Asset, error) {
	a, err := newAssetFromDecimal(symbol, d)
	if err != nil {
		return Asset{}, fmt.Errorf("converting %v to %v: %w", d, symbol, err)
	}
	return a, nil
}

func newAssetFromDecimal(symbol Symbol, d decimal.Decimal) (Asset, error) {
	prec := int(symbol.Precision())
	if prec > decimal.MaxScale {
		return Asset{}, fmt.Errorf("precision %v is greater than %v", prec, decimal.MaxScale)
	}
	if d.MinScale() > prec {
		return Asset{}, fmt.Errorf("%v significant digits after the decimal point, at most %v allowed", d.MinScale(), prec)
	}
	d = d.Trim(prec).Pad(prec)
	if d.Scale() != prec {
		return Asset{}, ErrAmountOutOfRange
	}
	coef := d.Coef()
	if coef > MaxAmount {
		return Asset{}, ErrAmountOutOfRange
	}
	amount := int64(coef)
	if d.IsNeg() {
		amount = -amount
	}
	return NewAsset(amount, symbol), nil
}

// ParseAsset converts a string in the form "1.0000 SYS" to an asset.
// The precision of the symbol is the number of digits after the decimal point,
// and the amount is the number with the decimal point removed.
// The amount is not checked, see [Asset.IsAmountWithinRange].
//
// ParseAsset returns a [*ParseError] wrapping:
//   - [ErrBadFormat] if the string is not two tokens separated by a single space;
//   - [ErrBadAmount] if the first token is not a number;
//   - [ErrBadSymbolCode] if the second token is not a valid symbol code.
func ParseAsset(asset string) (Asset, error) {
	parts := strings.Split(asset, " ")
	if len(parts) != 2 {
		return Asset{}, &ParseError{Input: asset, Err: ErrBadFormat}
	}
	num, code := parts[0], parts[1]

	// Precision
	prec, digits := 0, num
	if pos := strings.IndexByte(num, '.'); pos >= 0 {
		prec = len(num) - pos - 1
		digits = num[:pos] + num[pos+1:]
		// Antelope nodes strip every dot, so "1.2.3" would be 123 with precision 3; here it is rejected.
		if prec > math.MaxUint8 || strings.IndexByte(digits, '.') >= 0 {
			return Asset{}, &ParseError{Input: num, Err: ErrBadAmount}
		}
	}

	// Amount
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Asset{}, &ParseError{Input: num, Err: ErrBadAmount}
	}

	// Symbol
	c, err := ParseSymbolCode(code)
	if err != nil {
		return Asset{}, &ParseError{Input: code, Err: ErrBadSymbolCode}
	}

	return NewAsset(amount, NewSymbol(c, uint8(prec))), nil
}

// MustParseAsset is like [ParseAsset] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding assets.
func MustParseAsset(asset string) Asset {
	a, err := ParseAsset(asset)
	if err != nil {
		panic(fmt.Sprintf("ParseAsset(%q) failed: %v", asset, err))
	}
	return a
}

// Amount returns the scaled amount of the asset.
func (a Asset) Amount() int64 {
	return a.amount
}

// Symbol returns the symbol of the asset.
func (a Asset) Symbol() Symbol {
	return a.symbol
}

// SetAmount replaces the scaled amount of the asset.
//
// SetAmount panics with [ErrAmountOutOfRange] if the magnitude of the new
// amount is greater than [MaxAmount].
func (a *Asset) SetAmount(amount int64) {
	a.amount = amount
	if !a.IsAmountWithinRange() {
		panic(fmt.Errorf("setting amount %v: %w", amount, ErrAmountOutOfRange))
	}
}

// IsAmountWithinRange returns true if the magnitude of the amount does not
// exceed [MaxAmount].
func (a Asset) IsAmountWithinRange() bool {
	return -MaxAmount <= a.amount && a.amount <= MaxAmount
}

// IsValid returns true if the amount is within range and the symbol is valid.
func (a Asset) IsValid() bool {
	return a.IsAmountWithinRange() && a.symbol.IsValid()
}

// Float64 returns the amount as a floating-point number, amount / 10^precision.
// This conversion may lose data, the result must not be used for further
// calculations.
// See also method [Asset.Decimal].
func (a Asset) Float64() float64 {
	if d, err := a.Decimal(); err == nil {
		if f, ok := d.Float64(); ok {
			return f
		}
	}
	return float64(a.amount) / math.Pow10(int(a.symbol.Precision()))
}

// Decimal returns the exact decimal representation of the asset.
//
// Decimal returns an error if the precision of the symbol is greater than
// [decimal.MaxScale].
func (a Asset) Decimal() (decimal.Decimal, error) {
	d, err := decimal.New(a.amount, int(a.symbol.Precision()))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v: %w", a, err)
	}
	return d, nil
}

// Sign returns:
//
//	-1 if a < 0
//	 0 if a = 0
//	+1 if a > 0
func (a Asset) Sign() int {
	switch {
	case a.amount < 0:
		return -1
	case a.amount > 0:
		return 1
	}
	return 0
}

// IsZero returns true if the amount is 0.
func (a Asset) IsZero() bool {
	return a.amount == 0
}

// IsNeg returns true if the amount is negative.
func (a Asset) IsNeg() bool {
	return a.amount < 0
}

// IsPos returns true if the amount is positive.
func (a Asset) IsPos() bool {
	return a.amount > 0
}

// Abs returns the absolute value of the asset.
func (a Asset) Abs() Asset {
	if a.amount < 0 {
		return a.Neg()
	}
	return a
}

// Neg returns an asset with the opposite sign.
func (a Asset) Neg() Asset {
	return NewAsset(-a.amount, a.symbol)
}

// SameSymbol returns true if assets have equal symbols.
// Use it to avoid panics in arithmetic and comparison methods.
func (a Asset) SameSymbol(b Asset) bool {
	return a.symbol == b.symbol
}

// AddAssign adds asset b to asset a.
//
// AddAssign panics if:
//   - assets have different symbols ([ErrSymbolMismatch]);
//   - the magnitude of the result exceeds [MaxAmount] ([ErrAdditionOverflow],
//     [ErrAdditionUnderflow]).
func (a *Asset) AddAssign(b Asset) {
	if !a.SameSymbol(b) {
		panic(fmt.Errorf("computing [%v + %v]: %w", *a, b, ErrSymbolMismatch))
	}
	amount, dir := add64(a.amount, b.amount)
	switch {
	case dir < 0:
		panic(fmt.Errorf("computing [%v + %v]: %w", *a, b, ErrAdditionUnderflow))
	case dir > 0:
		panic(fmt.Errorf("computing [%v + %v]: %w", *a, b, ErrAdditionOverflow))
	}
	a.amount = amount
}

// SubAssign subtracts asset b from asset a.
//
// SubAssign panics if:
//   - assets have different symbols ([ErrSymbolMismatch]);
//   - the magnitude of the result exceeds [MaxAmount] ([ErrSubtractionOverflow],
//     [ErrSubtractionUnderflow]).
func (a *Asset) SubAssign(b Asset) {
	if !a.SameSymbol(b) {
		panic(fmt.Errorf("computing [%v - %v]: %w", *a, b, ErrSymbolMismatch))
	}
	amount, dir := sub64(a.amount, b.amount)
	switch {
	case dir < 0:
		panic(fmt.Errorf("computing [%v - %v]: %w", *a, b, ErrSubtractionUnderflow))
	case dir > 0:
		panic(fmt.Errorf("computing [%v - %v]: %w", *a, b, ErrSubtractionOverflow))
	}
	a.amount = amount
}

// MulAssign multiplies the amount of asset a by factor e.
// The product is computed with 128 bits, so overflow is detected before the
// result is stored.
//
// MulAssign panics if the magnitude of the result exceeds [MaxAmount]
// ([ErrMultiplicationOverflow], [ErrMultiplicationUnderflow]).
func (a *Asset) MulAssign(e int64) {
	amount, dir := mul64(a.amount, e)
	switch {
	case dir < 0:
		panic(fmt.Errorf("computing [%v * %v]: %w", *a, e, ErrMultiplicationUnderflow))
	case dir > 0:
		panic(fmt.Errorf("computing [%v * %v]: %w", *a, e, ErrMultiplicationOverflow))
	}
	a.amount = amount
}

// QuoAssign divides the amount of asset a by divisor e, truncating toward zero.
//
// QuoAssign panics if:
//   - the divisor is 0 ([ErrDivisionByZero]);
//   - the amount is [math.MinInt64] and the divisor is -1 ([ErrSignedDivisionOverflow]).
func (a *Asset) QuoAssign(e int64) {
	switch {
	case e == 0:
		panic(fmt.Errorf("computing [%v / %v]: %w", *a, e, ErrDivisionByZero))
	case a.amount == math.MinInt64 && e == -1:
		panic(fmt.Errorf("computing [%v / %v]: %w", *a, e, ErrSignedDivisionOverflow))
	}
	a.amount /= e
}

// Add returns the sum of assets a and b.
// See [Asset.AddAssign] for the panics.
func (a Asset) Add(b Asset) Asset {
	a.AddAssign(b)
	return a
}

// Sub returns the difference between assets a and b.
// See [Asset.SubAssign] for the panics.
func (a Asset) Sub(b Asset) Asset {
	a.SubAssign(b)
	return a
}

// Mul returns asset a with the amount multiplied by factor e.
// See [Asset.MulAssign] for the panics.
func (a Asset) Mul(e int64) Asset {
	a.MulAssign(e)
	return a
}

// Quo returns asset a with the amount divided by divisor e, truncating toward zero.
// See [Asset.QuoAssign] for the panics.
func (a Asset) Quo(e int64) Asset {
	a.QuoAssign(e)
	return a
}

// Rat returns the integer ratio of the amounts of assets a and b,
// truncated toward zero.
//
// Rat panics if:
//   - the amount of asset b is 0 ([ErrDivisionByZero]);
//   - assets have different symbols ([ErrSymbolMismatch]);
//   - the amount of asset a is [math.MinInt64] and the amount of asset b is -1
//     ([ErrSignedDivisionOverflow]).
func (a Asset) Rat(b Asset) int64 {
	switch {
	case b.amount == 0:
		panic(fmt.Errorf("computing [%v / %v]: %w", a, b, ErrDivisionByZero))
	case !a.SameSymbol(b):
		panic(fmt.Errorf("computing [%v / %v]: %w", a, b, ErrSymbolMismatch))
	case a.amount == math.MinInt64 && b.amount == -1:
		panic(fmt.Errorf("computing [%v / %v]: %w", a, b, ErrSignedDivisionOverflow))
	}
	return a.amount / b.amount
}

// Cmp compares assets and returns:
//
//	-1 if a < b
//	 0 if a = b
//	+1 if a > b
//
// Cmp panics with [ErrSymbolMismatch] if assets have different symbols.
func (a Asset) Cmp(b Asset) int {
	if !a.SameSymbol(b) {
		panic(fmt.Errorf("comparing [%v] and [%v]: %w", a, b, ErrSymbolMismatch))
	}
	switch {
	case a.amount < b.amount:
		return -1
	case a.amount > b.amount:
		return 1
	}
	return 0
}

// Equal returns true if assets have equal amounts.
// Unlike the == operator, Equal panics with [ErrSymbolMismatch] if assets
// have different symbols.
func (a Asset) Equal(b Asset) bool {
	return a.Cmp(b) == 0
}

// Less returns true if the amount of asset a is less than the amount of asset b.
// Less panics with [ErrSymbolMismatch] if assets have different symbols.
func (a Asset) Less(b Asset) bool {
	return a.Cmp(b) < 0
}

// String implements the [fmt.Stringer] interface and returns a string
// in the form "1.0000 SYS".
// No decimal point is written if the precision of the symbol is 0.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (a Asset) String() string {
	return string(a.appendText(make([]byte, 0, 32)))
}

func (a Asset) appendText(buf []byte) []byte {
	prec := int(a.symbol.Precision())
	whole := a.amount / int64(pow10[min(prec, maxPow10Exp)])

	// Whole part
	if whole == 0 && a.amount < 0 {
		buf = append(buf, '-')
	}
	buf = strconv.AppendInt(buf, whole, 10)

	// Fractional part
	if prec > 0 {
		buf = append(buf, '.')
		abs := abs64(a.amount)
		for i := prec - 1; i >= 0; i-- {
			buf = append(buf, byte(abs/pow10[min(i, maxPow10Exp)]%10)+'0')
		}
	}

	// Symbol code
	buf = append(buf, ' ')
	return append(buf, a.symbol.Code().String()...)
}

// add64 calculates x + y.
// dir is +1 or -1 if the result is above [MaxAmount] or below -[MaxAmount].
func add64(x, y int64) (z int64, dir int) {
	z = x + y
	switch {
	case y > 0 && z < x:
		return 0, 1
	case y < 0 && z > x:
		return 0, -1
	case z > MaxAmount:
		return 0, 1
	case z < -MaxAmount:
		return 0, -1
	}
	return z, 0
}

// sub64 calculates x - y.
// dir is +1 or -1 if the result is above [MaxAmount] or below -[MaxAmount].
func sub64(x, y int64) (z int64, dir int) {
	z = x - y
	switch {
	case y < 0 && z < x:
		return 0, 1
	case y > 0 && z > x:
		return 0, -1
	case z > MaxAmount:
		return 0, 1
	case z < -MaxAmount:
		return 0, -1
	}
	return z, 0
}

// mul64 calculates x * y using a 128-bit intermediate product.
// dir is +1 or -1 if the result is above [MaxAmount] or below -[MaxAmount].
func mul64(x, y int64) (z int64, dir int) {
	if x == 0 || y == 0 {
		return 0, 0
	}
	neg := (x < 0) != (y < 0)
	hi, lo := bits.Mul64(abs64(x), abs64(y))
	if hi != 0 || lo > MaxAmount {
		if neg {
			return 0, -1
		}
		return 0, 1
	}
	z = int64(lo)
	if neg {
		z = -z
	}
	return z, 0
}

// abs64 returns |x| without overflowing on [math.MinInt64].
func abs64(x int64) uint64 {
	if x < 0 {
		return -uint64(x)
	}
	return uint64(x)
}
