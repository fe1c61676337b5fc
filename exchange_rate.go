package antelope

import (
	"fmt"
	"math/bits"

	"github.com/govalues/decimal"
)

// ExchangeRate represents a unidirectional exchange rate between two symbols.
// The zero value corresponds to an exchange rate of "0,/0, 0", which cannot
// convert anything.
// This type is designed to be safe for concurrent use by multiple goroutines.
type ExchangeRate struct {
	base  Symbol          // symbol being exchanged
	quote Symbol          // symbol being obtained in exchange for the base symbol
	value decimal.Decimal // how many units of quote are needed to exchange for 1 unit of base
}

// NewExchRate returns a new exchange rate between the base and quote symbols.
//
// NewExchRate returns an error if:
//   - the rate is not positive;
//   - the symbols are equal and the rate is not 1;
//   - the precision of either symbol is greater than [decimal.MaxScale].
func NewExchRate(base, quote Symbol, rate decimal.Decimal) (ExchangeRate, error) {
	switch {
	case !rate.IsPos():
		return ExchangeRate{}, fmt.Errorf("exchange rate must be positive")
	case base == quote && !rate.IsOne():
		return ExchangeRate{}, fmt.Errorf("exchange rate must be equal to 1")
	case int(base.Precision()) > decimal.MaxScale:
		return ExchangeRate{}, fmt.Errorf("base precision %v is greater than %v", base.Precision(), decimal.MaxScale)
	case int(quote.Precision()) > decimal.MaxScale:
		return ExchangeRate{}, fmt.Errorf("quote precision %v is greater than %v", quote.Precision(), decimal.MaxScale)
	}
	return ExchangeRate{base: base, quote: quote, value: rate}, nil
}

func mustNewExchRate(base, quote Symbol, rate decimal.Decimal) ExchangeRate {
	r, err := NewExchRate(base, quote, rate)
	if err != nil {
		panic(fmt.Sprintf("NewExchRate(%v, %v, %v) failed: %v", base, quote, rate, err))
	}
	return r
}

// ParseExchRate converts symbol and decimal strings to an exchange rate.
// See also constructors [ParseSymbol] and [decimal.Parse].
func ParseExchRate(base, quote, rate string) (ExchangeRate, error) {
	b, err := ParseSymbol(base)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("parsing base symbol: %w", err)
	}
	q, err := ParseSymbol(quote)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("parsing quote symbol: %w", err)
	}
	d, err := decimal.Parse(rate)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("parsing rate: %w", err)
	}
	r, err := NewExchRate(b, q, d)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("constructing rate: %w", err)
	}
	return r, nil
}

// MustParseExchRate is like [ParseExchRate] but panics if any of the strings cannot be parsed.
// It simplifies safe initialization of global variables holding exchange rates.
func MustParseExchRate(base, quote, rate string) ExchangeRate {
	r, err := ParseExchRate(base, quote, rate)
	if err != nil {
		panic(fmt.Sprintf("ParseExchRate(%q, %q, %q) failed: %v", base, quote, rate, err))
	}
	return r
}

// Base returns the symbol being exchanged.
func (r ExchangeRate) Base() Symbol {
	return r.base
}

// Quote returns the symbol being obtained in exchange for the base symbol.
func (r ExchangeRate) Quote() Symbol {
	return r.quote
}

// Decimal returns the rate.
func (r ExchangeRate) Decimal() decimal.Decimal {
	return r.value
}

// CanConv returns true if [ExchangeRate.Conv] can be used to convert the given asset.
func (r ExchangeRate) CanConv(b Asset) bool {
	return b.Symbol() == r.Base() &&
		r.Base().IsValid() &&
		r.Quote().IsValid() &&
		r.value.IsPos()
}

// Conv returns the asset converted from the base symbol to the quote symbol.
// The result is truncated toward zero to the precision of the quote symbol.
//
// Conv panics if:
//   - the symbol of the asset is not the base symbol ([ErrSymbolMismatch]),
//     use [ExchangeRate.CanConv] to avoid it;
//   - the magnitude of the result exceeds [MaxAmount] ([ErrAmountOutOfRange]).
func (r ExchangeRate) Conv(b Asset) Asset {
	if !r.CanConv(b) {
		panic(fmt.Errorf("computing [%v * %v]: %w", b, r, ErrSymbolMismatch))
	}
	c, err := r.conv(b)
	if err != nil {
		panic(fmt.Errorf("computing [%v * %v]: %w", b, r, err))
	}
	return c
}

func (r ExchangeRate) conv(b Asset) (Asset, error) {
	amount, ok := mulPow10(b.Amount(), r.value.Coef(), int(r.Quote().Precision())-int(b.Symbol().Precision())-r.value.Scale())
	if !ok {
		return Asset{}, ErrAmountOutOfRange
	}
	return NewAsset(amount, r.Quote()), nil
}

// mulPow10 calculates x * y * 10^exp, truncating toward zero.
// The product is kept in 128 bits, so no digits are lost before truncation.
// ok is false if the magnitude of the result exceeds [MaxAmount].
func mulPow10(x int64, y uint64, exp int) (z int64, ok bool) {
	hi, lo := bits.Mul64(abs64(x), y)
	for ; exp < 0; exp += min(-exp, maxPow10Exp) {
		d := pow10[min(-exp, maxPow10Exp)]
		var r uint64
		hi, r = hi/d, hi%d
		lo, _ = bits.Div64(r, lo, d)
	}
	for ; exp > 0; exp -= min(exp, maxPow10Exp) {
		if hi != 0 {
			return 0, false
		}
		hi, lo = bits.Mul64(lo, pow10[min(exp, maxPow10Exp)])
	}
	if hi != 0 || lo > MaxAmount {
		return 0, false
	}
	z = int64(lo) //nolint:gosec
	if x < 0 {
		z = -z
	}
	return z, true
}

// Inv returns the inverse of the exchange rate.
func (r ExchangeRate) Inv() ExchangeRate {
	d := r.value
	if d.IsZero() {
		panic(fmt.Errorf("%v.Inv() failed: zero rate does not have an inverse: %w", r, ErrDivisionByZero))
	}
	e, err := d.One().Quo(d)
	if err != nil {
		panic(fmt.Sprintf("%v.Inv() failed: %v", r, err))
	}
	return mustNewExchRate(r.Quote(), r.Base(), e)
}

// String method implements the [fmt.Stringer] interface and returns a string
// representation of the exchange rate, such as "4,EOS/2,USD 3.14".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (r ExchangeRate) String() string {
	return r.Base().String() + "/" + r.Quote().String() + " " + r.value.String()
}
