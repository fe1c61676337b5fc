package antelope

import (
	"errors"
	"fmt"
)

// SymbolCode type represents the alphabetic code of a token, such as "EOS" or "SYS".
// The zero value is an empty code, which is not valid.
//
// SymbolCode is implemented as an unsigned integer that packs up to 7 upper-case
// ASCII letters, with the first letter stored in the least significant byte.
// This layout matches the on-chain encoding, so the value can be persisted
// either as text (see [SymbolCode.String]) or as an integer (see [SymbolCode.Raw]).
type SymbolCode uint64

// maxSymbolCodeLen is the maximum number of letters in a symbol code.
const maxSymbolCodeLen = 7

// ErrBadSymbolCode is returned when a string does not represent a valid symbol code.
var ErrBadSymbolCode = errors.New("bad symbol code")

// ParseSymbolCode converts a string to a symbol code.
// The input string must consist of 1 to 7 letters in the range A-Z.
//
// ParseSymbolCode returns a [*ParseError] wrapping [ErrBadSymbolCode] if the
// string does not represent a valid symbol code.
func ParseSymbolCode(code string) (SymbolCode, error) {
	switch {
	case len(code) == 0:
		return 0, &ParseError{Input: code, Err: fmt.Errorf("%w: empty", ErrBadSymbolCode)}
	case len(code) > maxSymbolCodeLen:
		return 0, &ParseError{Input: code, Err: fmt.Errorf("%w: at most %v letters are allowed", ErrBadSymbolCode, maxSymbolCodeLen)}
	}
	var raw uint64
	for i := len(code) - 1; i >= 0; i-- {
		c := code[i]
		if c < 'A' || c > 'Z' {
			return 0, &ParseError{Input: code, Err: fmt.Errorf("%w: invalid character %q", ErrBadSymbolCode, c)}
		}
		raw <<= 8
		raw |= uint64(c)
	}
	return SymbolCode(raw), nil
}

// MustParseSymbolCode is like [ParseSymbolCode] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding symbol codes.
func MustParseSymbolCode(code string) SymbolCode {
	c, err := ParseSymbolCode(code)
	if err != nil {
		panic(fmt.Sprintf("ParseSymbolCode(%q) failed: %v", code, err))
	}
	return c
}

// NewSymbolCodeFromRaw returns the symbol code packed into the integer.
// The result is not validated, use [SymbolCode.IsValid] for that.
func NewSymbolCodeFromRaw(raw uint64) SymbolCode {
	return SymbolCode(raw)
}

// Raw returns the packed integer representation of the symbol code.
func (c SymbolCode) Raw() uint64 {
	return uint64(c)
}

// IsValid returns true if the code has between 1 and 7 letters in the
// range A-Z and no gaps between them.
func (c SymbolCode) IsValid() bool {
	v := uint64(c)
	for range maxSymbolCodeLen {
		b := byte(v)
		if b < 'A' || b > 'Z' {
			return false
		}
		v >>= 8
		if v&0xFF == 0 {
			return v == 0
		}
	}
	return v == 0
}

// Len returns the number of letters before the first zero byte.
func (c SymbolCode) Len() int {
	n := 0
	for v := uint64(c); v&0xFF != 0; v >>= 8 {
		n++
	}
	return n
}

// String method implements the [fmt.Stringer] interface and returns
// the letters of the symbol code.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (c SymbolCode) String() string {
	var buf [8]byte
	n := 0
	for v := uint64(c); v&0xFF != 0; v >>= 8 {
		buf[n] = byte(v)
		n++
	}
	return string(buf[:n])
}

// UnmarshalText implements [encoding.TextUnmarshaler] interface.
// See also constructor [ParseSymbolCode].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (c *SymbolCode) UnmarshalText(text []byte) error {
	var err error
	*c, err = ParseSymbolCode(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", SymbolCode(0), err)
	}
	return nil
}

// MarshalText implements [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (c SymbolCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
