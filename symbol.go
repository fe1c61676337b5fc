package antelope

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

// Symbol type represents the unit of account of an [Asset]: a [SymbolCode]
// together with the number of digits after the decimal point.
// The zero value has an empty code and precision 0, it is not valid.
//
// Symbol is implemented as an unsigned integer, the code is stored in the
// upper 56 bits and the precision in the lowest 8 bits.
// Two symbols are equal only if both their codes and their precisions are equal.
type Symbol uint64

// ErrBadPrecision is returned when a string does not represent a valid precision.
var ErrBadPrecision = errors.New("bad precision")

var (
	_ msgpack.CustomEncoder = Symbol(0)
	_ msgpack.CustomDecoder = (*Symbol)(nil)
)

// NewSymbol returns a symbol with the given code and precision.
func NewSymbol(code SymbolCode, precision uint8) Symbol {
	return Symbol(uint64(code)<<8 | uint64(precision))
}

// NewSymbolFromRaw returns the symbol packed into the integer.
// The result is not validated, use [Symbol.IsValid] for that.
func NewSymbolFromRaw(raw uint64) Symbol {
	return Symbol(raw)
}

// ParseSymbol converts a string to a symbol.
// The input string must be in the form "4,SYS", where 4 is the precision.
//
// ParseSymbol returns a [*ParseError] if the string does not represent a valid symbol.
func ParseSymbol(sym string) (Symbol, error) {
	prec, code, ok := strings.Cut(sym, ",")
	if !ok {
		return 0, &ParseError{Input: sym, Err: ErrBadFormat}
	}
	p, err := strconv.ParseUint(prec, 10, 8)
	if err != nil {
		return 0, &ParseError{Input: prec, Err: ErrBadPrecision}
	}
	c, err := ParseSymbolCode(code)
	if err != nil {
		return 0, err
	}
	return NewSymbol(c, uint8(p)), nil
}

// MustParseSymbol is like [ParseSymbol] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding symbols.
func MustParseSymbol(sym string) Symbol {
	s, err := ParseSymbol(sym)
	if err != nil {
		panic(fmt.Sprintf("ParseSymbol(%q) failed: %v", sym, err))
	}
	return s
}

// Precision returns the number of digits after the decimal point.
func (s Symbol) Precision() uint8 {
	return uint8(s)
}

// Code returns the symbol code.
func (s Symbol) Code() SymbolCode {
	return SymbolCode(uint64(s) >> 8)
}

// Raw returns the packed integer representation of the symbol.
func (s Symbol) Raw() uint64 {
	return uint64(s)
}

// IsValid returns true if the symbol code is valid.
func (s Symbol) IsValid() bool {
	return s.Code().IsValid()
}

// String method implements the [fmt.Stringer] interface and returns
// a string in the form "4,SYS".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (s Symbol) String() string {
	buf := make([]byte, 0, 3+1+maxSymbolCodeLen)
	buf = strconv.AppendUint(buf, uint64(s.Precision()), 10)
	buf = append(buf, ',')
	buf = append(buf, s.Code().String()...)
	return string(buf)
}

// UnmarshalText implements [encoding.TextUnmarshaler] interface.
// See also constructor [ParseSymbol].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (s *Symbol) UnmarshalText(text []byte) error {
	var err error
	*s, err = ParseSymbol(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Symbol(0), err)
	}
	return nil
}

// MarshalText implements [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (s *Symbol) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	var str string
	if err := json.Unmarshal(text, &str); err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Symbol(0), err)
	}
	return s.UnmarshalText([]byte(str))
}

// MarshalJSON implements the [json.Marshaler] interface.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (s Symbol) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// EncodeMsgpack implements the [msgpack.CustomEncoder] interface.
// The symbol is encoded as a string in the form "4,SYS".
func (s Symbol) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(s.String())
}

// DecodeMsgpack implements the [msgpack.CustomDecoder] interface.
func (s *Symbol) DecodeMsgpack(dec *msgpack.Decoder) error {
	text, err := dec.DecodeString()
	if err != nil {
		return fmt.Errorf("decoding %T: %w", Symbol(0), err)
	}
	return s.UnmarshalText([]byte(text))
}
