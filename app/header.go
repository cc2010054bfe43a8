package main

import "encoding/binary"

const fileHeaderSize = 100
const sqliteMagic = "SQLite format 3\x00"

// TextEncoding identifies how TEXT column bytes are laid out, per the
// file header's declared encoding.
type TextEncoding uint32

const (
	TextEncodingUTF8    TextEncoding = 1
	TextEncodingUTF16LE TextEncoding = 2
	TextEncodingUTF16BE TextEncoding = 3
)

// DatabaseHeader is the decoded form of the fixed 100-byte file
// header present at offset 0 of every well-formed database file.
type DatabaseHeader struct {
	PageSize          uint32
	FileFormatWrite   uint8
	FileFormatRead    uint8
	ReservedSpace     uint8
	DatabaseSizePages uint32
	TextEncoding      TextEncoding
	SchemaCookie      uint32
}

// parseDatabaseHeader decodes the 100-byte file header. buf must
// contain at least fileHeaderSize bytes.
func parseDatabaseHeader(buf []byte) (*DatabaseHeader, error) {
	if len(buf) < fileHeaderSize {
		return nil, malformedErr("parse_header", errHeaderOverrun, map[string]interface{}{"got": len(buf), "want": fileHeaderSize})
	}
	if string(buf[0:16]) != sqliteMagic {
		return nil, malformedErr("parse_header", errBadPageKind, map[string]interface{}{"reason": "bad magic string"})
	}

	rawPageSize := binary.BigEndian.Uint16(buf[16:18])
	var pageSize uint32
	switch {
	case rawPageSize == 1:
		pageSize = 65536
	default:
		pageSize = uint32(rawPageSize)
	}

	h := &DatabaseHeader{
		PageSize:          pageSize,
		FileFormatWrite:   buf[18],
		FileFormatRead:    buf[19],
		ReservedSpace:     buf[20],
		DatabaseSizePages: binary.BigEndian.Uint32(buf[28:32]),
		SchemaCookie:      binary.BigEndian.Uint32(buf[40:44]),
		TextEncoding:      TextEncoding(binary.BigEndian.Uint32(buf[56:60])),
	}
	if h.TextEncoding == 0 {
		h.TextEncoding = TextEncodingUTF8
	}
	return h, nil
}
