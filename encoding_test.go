package antelope

import (
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestAsset_Text(t *testing.T) {
	tests := []string{
		"1.0000 SYS",
		"-100.0001 SYM",
		"0 A",
		"0.000000000000000000 SYMBOLL",
	}
	for _, tt := range tests {
		a := MustParseAsset(tt)
		text, err := a.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, tt, string(text))

		text, err = a.AppendText([]byte("qty: "))
		require.NoError(t, err)
		assert.Equal(t, "qty: "+tt, string(text))

		var got Asset
		require.NoError(t, got.UnmarshalText([]byte(tt)))
		assert.Equal(t, a, got)
	}

	var got Asset
	err := got.UnmarshalText([]byte("1.0000"))
	assert.ErrorIs(t, err, ErrBadFormat)
}

type transfer struct {
	From     string `json:"from"     msgpack:"from"`
	Quantity Asset  `json:"quantity" msgpack:"quantity"`
	Symbol   Symbol `json:"symbol"   msgpack:"symbol"`
}

func TestAsset_JSON(t *testing.T) {
	t.Run("struct", func(t *testing.T) {
		want := transfer{
			From:     "alice",
			Quantity: MustParseAsset("1.0000 SYS"),
			Symbol:   MustParseSymbol("4,SYS"),
		}
		data, err := json.Marshal(want)
		require.NoError(t, err)
		assert.JSONEq(t, `{"from":"alice","quantity":"1.0000 SYS","symbol":"4,SYS"}`, string(data))

		var got transfer
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, want, got)
	})

	t.Run("error", func(t *testing.T) {
		var got transfer
		err := json.Unmarshal([]byte(`{"quantity":"1.0000"}`), &got)
		assert.Error(t, err)
		err = json.Unmarshal([]byte(`{"quantity":10000}`), &got)
		assert.Error(t, err)
	})

	t.Run("methods", func(t *testing.T) {
		a := MustParseAsset("-0.0005 SYS")
		data, err := a.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, `"-0.0005 SYS"`, string(data))

		var got Asset
		require.NoError(t, got.UnmarshalJSON(data))
		assert.Equal(t, a, got)

		require.NoError(t, got.UnmarshalJSON([]byte("null")))
		assert.Equal(t, a, got)

		err = got.UnmarshalJSON([]byte(`"1.0000"`))
		assert.ErrorIs(t, err, ErrBadFormat)
		err = got.UnmarshalJSON([]byte(`1.0000`))
		assert.Error(t, err)
	})
}

func TestAsset_JSONEscaping(t *testing.T) {
	codes := []uint64{'"', '\\', 0x01, 0x7f, '<'}
	for _, raw := range codes {
		sym := NewSymbol(NewSymbolCodeFromRaw(raw), 0)
		a := NewAsset(1, sym)

		data, err := a.MarshalJSON()
		require.NoError(t, err)
		assert.True(t, json.Valid(data), "%#x: %s is not valid JSON", raw, data)
		var text string
		require.NoError(t, json.Unmarshal(data, &text))
		assert.Equal(t, a.String(), text)

		data, err = sym.MarshalJSON()
		require.NoError(t, err)
		assert.True(t, json.Valid(data), "%#x: %s is not valid JSON", raw, data)
		require.NoError(t, json.Unmarshal(data, &text))
		assert.Equal(t, sym.String(), text)

		data, err = json.Marshal(transfer{Quantity: a, Symbol: sym})
		require.NoError(t, err)
		assert.True(t, json.Valid(data), "%#x: %s is not valid JSON", raw, data)
	}
}

func TestAsset_Format(t *testing.T) {
	tests := []struct {
		asset, format, want string
	}{
		{"1.0000 SYS", "%v", "1.0000 SYS"},
		{"1.0000 SYS", "%s", "1.0000 SYS"},
		{"1.0000 SYS", "%q", `"1.0000 SYS"`},
		{"-0.0005 SYS", "%v", "-0.0005 SYS"},
		{"1.0000 SYS", "%12v", "  1.0000 SYS"},
		{"1.0000 SYS", "%-12v", "1.0000 SYS  "},
		{"1.0000 SYS", "%8v", "1.0000 SYS"},
		{"1.0000 SYS", "%14q", `  "1.0000 SYS"`},
		{"1.0000 SYS", "%-14q", `"1.0000 SYS"  `},
		{"1.0000 SYS", "%T", "antelope.Asset"},
		{"1.0000 SYS", "%d", "%!d(antelope.Asset=1.0000 SYS)"},
		{"1.0000 SYS", "%f", "%!f(antelope.Asset=1.0000 SYS)"},
	}
	for _, tt := range tests {
		a := MustParseAsset(tt.asset)
		got := fmt.Sprintf(tt.format, a)
		assert.Equal(t, tt.want, got, "fmt.Sprintf(%q, %q)", tt.format, tt.asset)
	}
}

func TestNullAsset(t *testing.T) {
	t.Run("sql", func(t *testing.T) {
		var n NullAsset
		require.NoError(t, n.Scan("123.45 SYM"))
		assert.True(t, n.Valid)
		assert.Equal(t, MustParseAsset("123.45 SYM"), n.Asset)

		v, err := n.Value()
		require.NoError(t, err)
		assert.Equal(t, "123.45 SYM", v)

		require.NoError(t, n.Scan(nil))
		assert.False(t, n.Valid)
		assert.Equal(t, Asset{}, n.Asset)

		v, err = n.Value()
		require.NoError(t, err)
		assert.Nil(t, v)

		assert.Error(t, n.Scan(int64(12345)))
	})

	t.Run("json", func(t *testing.T) {
		type row struct {
			Quantity NullAsset `json:"quantity"`
		}
		data, err := json.Marshal(row{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"quantity":null}`, string(data))

		want := row{Quantity: NullAsset{Asset: MustParseAsset("1.0000 SYS"), Valid: true}}
		data, err = json.Marshal(want)
		require.NoError(t, err)
		assert.JSONEq(t, `{"quantity":"1.0000 SYS"}`, string(data))

		var got row
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, want, got)

		var n NullAsset
		require.NoError(t, n.UnmarshalJSON([]byte("null")))
		assert.False(t, n.Valid)
	})

	t.Run("bson", func(t *testing.T) {
		typ, data, err := NullAsset{}.MarshalBSONValue()
		require.NoError(t, err)
		assert.Equal(t, byte(10), typ)
		assert.Nil(t, data)

		want := NullAsset{Asset: MustParseAsset("1.0000 SYS"), Valid: true}
		typ, data, err = want.MarshalBSONValue()
		require.NoError(t, err)
		assert.Equal(t, byte(2), typ)

		var got NullAsset
		require.NoError(t, got.UnmarshalBSONValue(typ, data))
		assert.Equal(t, want, got)

		require.NoError(t, got.UnmarshalBSONValue(10, nil))
		assert.Equal(t, NullAsset{}, got)
	})
}

func TestAsset_Msgpack(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		a := MustParseAsset("1.0000 SYS")
		data, err := msgpack.Marshal(a)
		require.NoError(t, err)
		assert.Equal(t, append([]byte{0xaa}, "1.0000 SYS"...), data)

		var got Asset
		require.NoError(t, msgpack.Unmarshal(data, &got))
		assert.Equal(t, a, got)
	})

	t.Run("struct", func(t *testing.T) {
		want := transfer{
			From:     "bob",
			Quantity: MustParseAsset("-100.0001 SYM"),
			Symbol:   MustParseSymbol("4,SYM"),
		}
		data, err := msgpack.Marshal(want)
		require.NoError(t, err)

		var got transfer
		require.NoError(t, msgpack.Unmarshal(data, &got))
		assert.Equal(t, want, got)
	})

	t.Run("error", func(t *testing.T) {
		data, err := msgpack.Marshal("10000 LONGSYMBOL")
		require.NoError(t, err)
		var got Asset
		err = msgpack.Unmarshal(data, &got)
		assert.Error(t, err)

		data, err = msgpack.Marshal(10000)
		require.NoError(t, err)
		err = msgpack.Unmarshal(data, &got)
		assert.Error(t, err)
	})
}

func TestAsset_Binary(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			asset string
			want  []byte
		}{
			{
				"1.0000 SYS",
				[]byte{0x10, 0x27, 0, 0, 0, 0, 0, 0, 0x04, 0x53, 0x59, 0x53, 0, 0, 0, 0},
			},
			{
				"-0.0001 SYS",
				[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x04, 0x53, 0x59, 0x53, 0, 0, 0, 0},
			},
			{
				"0 A",
				[]byte{0, 0, 0, 0, 0, 0, 0, 0, 0x00, 0x41, 0, 0, 0, 0, 0, 0},
			},
		}
		for _, tt := range tests {
			a := MustParseAsset(tt.asset)
			got, err := a.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "%q.MarshalBinary()", tt.asset)

			var b Asset
			require.NoError(t, b.UnmarshalBinary(got))
			assert.Equal(t, a, b)
		}
	})

	t.Run("append", func(t *testing.T) {
		a := MustParseAsset("1.0000 SYS")
		got, err := a.AppendBinary([]byte{0xde, 0xad})
		require.NoError(t, err)
		assert.Len(t, got, 2+packedAssetLen)
		assert.Equal(t, []byte{0xde, 0xad, 0x10, 0x27}, got[:4])
	})

	t.Run("error", func(t *testing.T) {
		var a Asset
		assert.Error(t, a.UnmarshalBinary(nil))
		assert.Error(t, a.UnmarshalBinary(make([]byte, packedAssetLen-1)))
		assert.Error(t, a.UnmarshalBinary(make([]byte, packedAssetLen+1)))
	})
}

func TestAsset_BSON(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		a := MustParseAsset("1.0000 SYS")
		typ, data, err := a.MarshalBSONValue()
		require.NoError(t, err)
		assert.Equal(t, byte(2), typ)
		want := append([]byte{11, 0, 0, 0}, "1.0000 SYS\x00"...)
		assert.Equal(t, want, data)

		var got Asset
		require.NoError(t, got.UnmarshalBSONValue(typ, data))
		assert.Equal(t, a, got)

		require.NoError(t, got.UnmarshalBSONValue(10, nil))
		assert.Equal(t, a, got)
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			typ  byte
			data []byte
		}{
			"type 1":       {1, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
			"short 1":      {2, []byte{1, 0}},
			"length 1":     {2, []byte{0, 0, 0, 0}},
			"length 2":     {2, []byte{5, 0, 0, 0, 'A', 0}},
			"terminator 1": {2, []byte{2, 0, 0, 0, '1', 'A'}},
			"format 1":     {2, append([]byte{7, 0, 0, 0}, "1.0000\x00"...)},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				var got Asset
				assert.Error(t, got.UnmarshalBSONValue(tt.typ, tt.data))
			})
		}
	})
}

func TestAsset_SQL(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		v, err := MustParseAsset("123.45 SYM").Value()
		require.NoError(t, err)
		assert.Equal(t, "123.45 SYM", v)
	})

	t.Run("scan", func(t *testing.T) {
		want := MustParseAsset("123.45 SYM")
		for _, v := range []any{"123.45 SYM", []byte("123.45 SYM")} {
			var got Asset
			require.NoError(t, got.Scan(v))
			assert.Equal(t, want, got)
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]any{
			"null 1":   nil,
			"int 1":    int64(12345),
			"float 1":  123.45,
			"format 1": "123.45",
			"code 1":   []byte("123.45 sym"),
		}
		for name, v := range tests {
			t.Run(name, func(t *testing.T) {
				var got Asset
				assert.Error(t, got.Scan(v))
			})
		}
	})
}
