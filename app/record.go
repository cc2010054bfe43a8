package main

// Record is a fully decoded table-leaf cell: the rowid (absent for
// WITHOUT ROWID tables, which this engine does not support) and the
// ordered column values.
type Record struct {
	RowID  int64
	Values []Value
}

// decodeRecord parses a record body (the bytes following the rowid
// and payload-length varints of a table-leaf cell, or following the
// payload-length varint of an index-leaf cell) into ordered values.
//
// The record format is: a varint header_size, followed by one varint
// serial type per column filling out header_size bytes total,
// followed by the column bodies back-to-back.
func decodeRecord(buf []byte, enc TextEncoding) ([]Value, error) {
	headerSize, n, err := readVarint(buf)
	if err != nil {
		return nil, malformedErr("decode_record", err, nil)
	}
	if int(headerSize) > len(buf) {
		return nil, malformedErr("decode_record", errHeaderOverrun, map[string]interface{}{"headerSize": headerSize, "bufLen": len(buf)})
	}

	var serials []int64
	pos := n
	for pos < int(headerSize) {
		serial, sn, err := readVarint(buf[pos:])
		if err != nil {
			return nil, malformedErr("decode_record", err, nil)
		}
		if _, ok := serialTypeBodySize(serial); !ok {
			return nil, malformedErr("decode_record", errReservedSerial, map[string]interface{}{"serial": serial})
		}
		serials = append(serials, serial)
		pos += sn
	}
	if pos != int(headerSize) {
		return nil, malformedErr("decode_record", errHeaderOverrun, map[string]interface{}{"pos": pos, "headerSize": headerSize})
	}

	values := make([]Value, len(serials))
	bodyPos := int(headerSize)
	for i, serial := range serials {
		size, _ := serialTypeBodySize(serial)
		if bodyPos+size > len(buf) {
			return nil, malformedErr("decode_record", errCellOutOfBounds, map[string]interface{}{"column": i})
		}
		v, err := decodeValue(serial, buf[bodyPos:bodyPos+size], enc)
		if err != nil {
			return nil, err
		}
		values[i] = v
		bodyPos += size
	}
	return values, nil
}
