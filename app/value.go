package main

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/text/encoding/unicode"
)

// ValueType tags the kind of a decoded column value.
type ValueType int

const (
	ValueTypeNull ValueType = iota
	ValueTypeInteger
	ValueTypeFloat
	ValueTypeText
	ValueTypeBlob
)

// Value is a decoded column value, tagged by the serial type it came
// from. It mirrors the teacher's SQLiteValue union but collapses all
// integer widths into a single int64 field, since this engine never
// re-serializes a value.
type Value struct {
	Type ValueType
	Int  int64
	Flt  float64
	Str  string
	Blob []byte
}

// String renders a Value the way the CLI prints a row: NULL columns
// are empty, everything else is its natural text form.
func (v Value) String() string {
	switch v.Type {
	case ValueTypeNull:
		return ""
	case ValueTypeInteger:
		return fmt.Sprintf("%d", v.Int)
	case ValueTypeFloat:
		return fmt.Sprintf("%v", v.Flt)
	case ValueTypeText:
		return v.Str
	case ValueTypeBlob:
		return string(v.Blob)
	default:
		return ""
	}
}

// serialTypeBodySize returns the number of body bytes a serial type
// occupies, and false as its second result when the serial type is
// one of the two reserved codes (10, 11) that never appear in a
// well-formed record, or is otherwise not a valid code.
func serialTypeBodySize(serial int64) (int, bool) {
	switch {
	case serial == 0, serial == 8, serial == 9:
		return 0, true
	case serial == 1:
		return 1, true
	case serial == 2:
		return 2, true
	case serial == 3:
		return 3, true
	case serial == 4:
		return 4, true
	case serial == 5:
		return 6, true
	case serial == 6, serial == 7:
		return 8, true
	case serial == 10, serial == 11:
		return 0, false
	case serial >= 12 && serial%2 == 0:
		return int((serial - 12) / 2), true
	case serial >= 13 && serial%2 == 1:
		return int((serial - 13) / 2), true
	default:
		return 0, false
	}
}

// decodeValue interprets body (exactly serialTypeBodySize(serial)
// bytes) according to serial, decoding TEXT columns through the given
// encoding.
func decodeValue(serial int64, body []byte, enc TextEncoding) (Value, error) {
	switch {
	case serial == 0:
		return Value{Type: ValueTypeNull}, nil
	case serial == 8:
		return Value{Type: ValueTypeInteger, Int: 0}, nil
	case serial == 9:
		return Value{Type: ValueTypeInteger, Int: 1}, nil
	case serial == 1:
		return Value{Type: ValueTypeInteger, Int: int64(int8(body[0]))}, nil
	case serial == 2:
		return Value{Type: ValueTypeInteger, Int: int64(int16(binary.BigEndian.Uint16(body)))}, nil
	case serial == 3:
		return Value{Type: ValueTypeInteger, Int: decodeBigEndianInt(body, 3)}, nil
	case serial == 4:
		return Value{Type: ValueTypeInteger, Int: int64(int32(binary.BigEndian.Uint32(body)))}, nil
	case serial == 5:
		return Value{Type: ValueTypeInteger, Int: decodeBigEndianInt(body, 6)}, nil
	case serial == 6:
		return Value{Type: ValueTypeInteger, Int: int64(binary.BigEndian.Uint64(body))}, nil
	case serial == 7:
		bits := binary.BigEndian.Uint64(body)
		return Value{Type: ValueTypeFloat, Flt: math.Float64frombits(bits)}, nil
	case serial >= 12 && serial%2 == 0:
		return Value{Type: ValueTypeBlob, Blob: append([]byte(nil), body...)}, nil
	case serial >= 13 && serial%2 == 1:
		s, err := decodeText(body, enc)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: ValueTypeText, Str: s}, nil
	default:
		return Value{}, malformedErr("decode_value", errReservedSerial, map[string]interface{}{"serial": serial})
	}
}

// decodeBigEndianInt sign-extends an n-byte (3 or 6) big-endian
// two's-complement integer into an int64. Neither 3-byte nor 6-byte
// widths have a native Go type.
func decodeBigEndianInt(body []byte, n int) int64 {
	var v int64
	for i := 0; i < n; i++ {
		v = (v << 8) | int64(body[i])
	}
	signBit := int64(1) << (uint(n)*8 - 1)
	if v&signBit != 0 {
		v -= signBit << 1
	}
	return v
}

// decodeText converts raw TEXT column bytes to a Go string according
// to the file's declared text encoding. In UTF-16 text, malformed
// sequences degrade to the Unicode replacement character; if the
// UTF-16 decoder returns an error, the raw bytes are returned as they
// are. UTF-8 text is passed through byte for byte, malformed
// sequences included. No input fails the whole query.
func decodeText(raw []byte, enc TextEncoding) (string, error) {
	switch enc {
	case TextEncodingUTF16LE:
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, err := dec.Bytes(raw)
		if err != nil {
			return string(raw), nil
		}
		return string(out), nil
	case TextEncodingUTF16BE:
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		out, err := dec.Bytes(raw)
		if err != nil {
			return string(raw), nil
		}
		return string(out), nil
	default:
		return string(raw), nil
	}
}
