package antelope

import (
	"database/sql"
	"database/sql/driver"
	"encoding/binary"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

// packedAssetLen is the length of an asset in the binary format:
// 8 bytes of amount followed by 8 bytes of symbol, both little-endian.
const packedAssetLen = 16

var (
	_ msgpack.CustomEncoder = Asset{}
	_ msgpack.CustomDecoder = (*Asset)(nil)
	_ sql.Scanner           = (*Asset)(nil)
	_ driver.Valuer         = Asset{}
	_ fmt.Formatter         = Asset{}
	_ sql.Scanner           = (*NullAsset)(nil)
	_ driver.Valuer         = NullAsset{}
)

// UnmarshalText implements [encoding.TextUnmarshaler] interface.
// See also constructor [ParseAsset].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (a *Asset) UnmarshalText(text []byte) error {
	var err error
	*a, err = ParseAsset(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Asset{}, err)
	}
	return nil
}

// AppendText implements the [encoding.TextAppender] interface.
// See also method [Asset.String].
//
// [encoding.TextAppender]: https://pkg.go.dev/encoding#TextAppender
func (a Asset) AppendText(text []byte) ([]byte, error) {
	return a.appendText(text), nil
}

// MarshalText implements [encoding.TextMarshaler] interface.
// See also method [Asset.String].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (a Asset) MarshalText() ([]byte, error) {
	return a.appendText(make([]byte, 0, 32)), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also constructor [ParseAsset].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (a *Asset) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(text, &s); err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Asset{}, err)
	}
	return a.UnmarshalText([]byte(s))
}

// MarshalJSON implements the [json.Marshaler] interface.
// The asset is written as a JSON string, such as "1.0000 SYS".
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (a Asset) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalBinary implements the [encoding.BinaryUnmarshaler] interface.
// See also method [Asset.MarshalBinary].
//
// [encoding.BinaryUnmarshaler]: https://pkg.go.dev/encoding#BinaryUnmarshaler
func (a *Asset) UnmarshalBinary(data []byte) error {
	if len(data) != packedAssetLen {
		return fmt.Errorf("unmarshaling %T: invalid data length %v, want %v", Asset{}, len(data), packedAssetLen)
	}
	amount := int64(binary.LittleEndian.Uint64(data[:8])) //nolint:gosec
	symbol := NewSymbolFromRaw(binary.LittleEndian.Uint64(data[8:]))
	*a = NewAsset(amount, symbol)
	return nil
}

// AppendBinary implements the [encoding.BinaryAppender] interface.
// See also method [Asset.MarshalBinary].
//
// [encoding.BinaryAppender]: https://pkg.go.dev/encoding#BinaryAppender
func (a Asset) AppendBinary(data []byte) ([]byte, error) {
	data = binary.LittleEndian.AppendUint64(data, uint64(a.amount)) //nolint:gosec
	data = binary.LittleEndian.AppendUint64(data, a.symbol.Raw())
	return data, nil
}

// MarshalBinary implements the [encoding.BinaryMarshaler] interface.
// The asset is packed the way the chain serializes it: the amount as
// a little-endian int64 followed by the raw symbol as a little-endian uint64.
//
// [encoding.BinaryMarshaler]: https://pkg.go.dev/encoding#BinaryMarshaler
func (a Asset) MarshalBinary() ([]byte, error) {
	return a.AppendBinary(make([]byte, 0, packedAssetLen))
}

// EncodeMsgpack implements the [msgpack.CustomEncoder] interface.
// The asset is encoded as a string, such as "1.0000 SYS".
func (a Asset) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(a.String())
}

// DecodeMsgpack implements the [msgpack.CustomDecoder] interface.
// See also constructor [ParseAsset].
func (a *Asset) DecodeMsgpack(dec *msgpack.Decoder) error {
	text, err := dec.DecodeString()
	if err != nil {
		return fmt.Errorf("decoding %T: %w", Asset{}, err)
	}
	return a.UnmarshalText([]byte(text))
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
// See also constructor [ParseAsset].
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (a *Asset) UnmarshalBSONValue(typ byte, data []byte) error {
	// constants are from https://bsonspec.org/spec.html
	var err error
	switch typ {
	case 2:
		*a, err = parseBSONString(data)
	case 10:
		// null, do nothing
	default:
		err = fmt.Errorf("BSON type %d is not supported", typ)
	}
	if err != nil {
		err = fmt.Errorf("converting from BSON type %d to %T: %w", typ, Asset{}, err)
	}
	return err
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
// The asset is written as a BSON string, such as "1.0000 SYS".
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (a Asset) MarshalBSONValue() (typ byte, data []byte, err error) {
	return 2, a.bsonString(), nil
}

// parseBSONString parses a BSON string to an asset.
// The byte order of the input data must be little-endian.
func parseBSONString(data []byte) (Asset, error) {
	if len(data) < 4 {
		return Asset{}, fmt.Errorf("%w: invalid data length %v", ErrBadFormat, len(data))
	}
	l := int(int32(binary.LittleEndian.Uint32(data))) //nolint:gosec
	if l < 1 || len(data) < l+4 {
		return Asset{}, fmt.Errorf("%w: invalid string length %v", ErrBadFormat, l)
	}
	if data[l+4-1] != 0 {
		return Asset{}, fmt.Errorf("%w: invalid null terminator %v", ErrBadFormat, data[l+4-1])
	}
	return ParseAsset(string(data[4 : l+4-1]))
}

// bsonString returns the BSON string representation of the asset.
// The byte order of the result is little-endian.
func (a Asset) bsonString() []byte {
	data := make([]byte, 4, 4+32)
	data = a.appendText(data)
	data = append(data, 0)
	binary.LittleEndian.PutUint32(data, uint32(len(data)-4)) //nolint:gosec
	return data
}

// Scan implements the [sql.Scanner] interface.
// See also constructor [ParseAsset].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (a *Asset) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case string:
		*a, err = ParseAsset(value)
	case []byte:
		*a, err = ParseAsset(string(value))
	case nil:
		err = fmt.Errorf("%T does not support null values, use %T or *%T", Asset{}, NullAsset{}, Asset{})
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, Asset{}, err)
	}
	return err
}

// Value implements the [driver.Valuer] interface.
// The asset is stored as text, such as "1.0000 SYS".
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (a Asset) Value() (driver.Value, error) {
	return a.String(), nil
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb   | Example      | Description  |
//	| ------ | ------------ | ------------ |
//	| %s, %v | 1.0000 SYS   | Asset        |
//	| %q     | "1.0000 SYS" | Quoted asset |
//
// The '-' format flag can be used with all verbs.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (a Asset) Format(state fmt.State, verb rune) {
	text := a.appendText(make([]byte, 0, 32))

	// Opening and closing quotes
	lquote, tquote := 0, 0
	if verb == 'q' || verb == 'Q' {
		lquote, tquote = 1, 1
	}

	// Calculating padding
	width := lquote + len(text) + tquote
	lspaces, tspaces := 0, 0
	if w, ok := state.Width(); ok && w > width {
		switch {
		case state.Flag('-'):
			tspaces = w - width
		default:
			lspaces = w - width
		}
		width = w
	}

	buf := make([]byte, 0, width)
	for range lspaces {
		buf = append(buf, ' ')
	}
	for range lquote {
		buf = append(buf, '"')
	}
	buf = append(buf, text...)
	for range tquote {
		buf = append(buf, '"')
	}
	for range tspaces {
		buf = append(buf, ' ')
	}

	// Writing result
	//nolint:errcheck
	switch verb {
	case 'q', 'Q', 's', 'S', 'v', 'V':
		state.Write(buf)
	default:
		state.Write([]byte("%!"))
		state.Write([]byte{byte(verb)})
		state.Write([]byte("(antelope.Asset="))
		state.Write(buf)
		state.Write([]byte(")"))
	}
}

// NullAsset represents an asset that can be null.
// Its zero value is null.
// NullAsset is not thread-safe.
type NullAsset struct {
	Asset Asset
	Valid bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [Asset.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullAsset) Scan(value any) error {
	if value == nil {
		n.Asset = Asset{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Asset.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// See also method [Asset.Value].
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullAsset) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Asset.Value()
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also method [Asset.UnmarshalJSON].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullAsset) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		n.Asset = Asset{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Asset.UnmarshalJSON(text)
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [Asset.MarshalJSON].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullAsset) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Asset.MarshalJSON()
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
// See also method [Asset.UnmarshalBSONValue].
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (n *NullAsset) UnmarshalBSONValue(typ byte, data []byte) error {
	if typ == 10 {
		n.Asset = Asset{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Asset.UnmarshalBSONValue(typ, data)
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
// See also method [Asset.MarshalBSONValue].
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (n NullAsset) MarshalBSONValue() (typ byte, data []byte, err error) {
	if !n.Valid {
		return 10, nil, nil
	}
	return n.Asset.MarshalBSONValue()
}
