package main

import "encoding/binary"

// The helpers in this file synthesize minimal well-formed database
// byte images entirely in memory, so tests never depend on an
// external .db fixture.

// memReaderAt adapts a byte slice to io.ReaderAt.
type memReaderAt []byte

func (m memReaderAt) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, m[off:])
	return n, nil
}

func appendVarint(buf []byte, v int64) []byte {
	if v < 0 {
		panic("appendVarint: negative values are not used by this format")
	}
	var raw [9]byte
	bits := uint64(v)
	if bits>>56 != 0 {
		raw[8] = byte(bits)
		bits >>= 8
		for i := 7; i >= 0; i-- {
			raw[i] = byte(bits&0x7f) | 0x80
			bits >>= 7
		}
		raw[7] &^= 0x80
		return append(buf, raw[:]...)
	}

	var groups []byte
	for {
		groups = append([]byte{byte(bits & 0x7f)}, groups...)
		bits >>= 7
		if bits == 0 {
			break
		}
	}
	for i := 0; i < len(groups)-1; i++ {
		buf = append(buf, groups[i]|0x80)
	}
	buf = append(buf, groups[len(groups)-1])
	return buf
}

type testColumn struct {
	isNullRowid bool // serial type 0, value comes from the cell's rowid
	intVal      int64
	isInt       bool
	text        string
	isText      bool
}

func intCol(v int64) testColumn   { return testColumn{isInt: true, intVal: v} }
func textCol(s string) testColumn { return testColumn{isText: true, text: s} }
func nullRowidCol() testColumn    { return testColumn{isNullRowid: true} }

// encodeRecord builds a record payload (header_size + serials + bodies).
func encodeRecord(cols []testColumn) []byte {
	var serials []int64
	var bodies []byte
	for _, c := range cols {
		switch {
		case c.isNullRowid:
			serials = append(serials, 0)
		case c.isInt:
			serials = append(serials, 4)
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], uint32(c.intVal))
			bodies = append(bodies, b[:]...)
		case c.isText:
			serials = append(serials, int64(13+2*len(c.text)))
			bodies = append(bodies, []byte(c.text)...)
		}
	}

	var header []byte
	for _, s := range serials {
		header = appendVarint(header, s)
	}
	// header_size is itself a varint counting its own byte(s) plus the
	// serial-type bytes; every fixture built in this file keeps that
	// total under 128, so it always fits in a single header_size byte.
	if len(header)+1 >= 128 {
		panic("encodeRecord: fixture record header too large for a 1-byte header_size")
	}
	headerSizeField := appendVarint(nil, int64(len(header)+1))

	out := append([]byte{}, headerSizeField...)
	out = append(out, header...)
	out = append(out, bodies...)
	return out
}

// tableLeafCell builds a table-leaf cell: varint payload_size, varint
// rowid, record bytes.
func tableLeafCell(rowid int64, cols []testColumn) []byte {
	record := encodeRecord(cols)
	cell := appendVarint(nil, int64(len(record)))
	cell = appendVarint(cell, rowid)
	cell = append(cell, record...)
	return cell
}

// indexLeafCell builds an index-leaf cell whose record is (key,
// rowid).
func indexLeafCell(key string, rowid int64) []byte {
	record := encodeRecord([]testColumn{textCol(key), intCol(rowid)})
	cell := appendVarint(nil, int64(len(record)))
	cell = append(cell, record...)
	return cell
}

// buildLeafPage lays out a single table-leaf or index-leaf page of
// size pageSize, with headerOffset bytes reserved before the page
// header (100 for page 1, 0 otherwise). Cells are placed back to
// front from the end of the page, in the order given, and the cell
// pointer array stores their offsets in that same order (ascending
// key/rowid order is the caller's responsibility).
func buildLeafPage(pageSize int, headerOffset int, kind PageKind, cells [][]byte) []byte {
	page := make([]byte, pageSize)
	cellEnd := pageSize
	ptrs := make([]uint16, len(cells))
	for i, cell := range cells {
		cellEnd -= len(cell)
		copy(page[cellEnd:], cell)
		ptrs[i] = uint16(cellEnd)
	}

	page[headerOffset] = byte(kind)
	binary.BigEndian.PutUint16(page[headerOffset+1:], 0)
	binary.BigEndian.PutUint16(page[headerOffset+3:], uint16(len(cells)))
	binary.BigEndian.PutUint16(page[headerOffset+5:], uint16(cellEnd))
	page[headerOffset+7] = 0

	ptrStart := headerOffset + 8
	for i, p := range ptrs {
		binary.BigEndian.PutUint16(page[ptrStart+i*2:], p)
	}
	return page
}

// buildFileHeader constructs the 100-byte file header.
func buildFileHeader(pageSize uint16, textEncoding uint32) []byte {
	h := make([]byte, fileHeaderSize)
	copy(h, sqliteMagic)
	binary.BigEndian.PutUint16(h[16:], pageSize)
	h[18] = 1
	h[19] = 1
	binary.BigEndian.PutUint32(h[28:], 1)
	binary.BigEndian.PutUint32(h[40:], 1)
	binary.BigEndian.PutUint32(h[56:], textEncoding)
	return h
}

type schemaEntrySpec struct {
	typ      string
	name     string
	tblName  string
	rootPage int64
	sql      string
}

// buildSchemaDB assembles a full database image: page 1 holds the
// file header plus a schema leaf page built from entries, and every
// page in pages (keyed by 1-based page number, 2 and up) is placed
// verbatim at its offset.
func buildSchemaDB(pageSize int, entries []schemaEntrySpec, pages map[int][]byte) []byte {
	var schemaCells [][]byte
	for i, e := range entries {
		cols := []testColumn{
			textCol(e.typ),
			textCol(e.name),
			textCol(e.tblName),
			intCol(e.rootPage),
			textCol(e.sql),
		}
		schemaCells = append(schemaCells, tableLeafCell(int64(i+1), cols))
	}

	page1Body := buildLeafPage(pageSize, fileHeaderSize, PageKindTableLeaf, schemaCells)
	fileHeader := buildFileHeader(uint16(pageSize), uint32(TextEncodingUTF8))
	page1 := make([]byte, pageSize)
	copy(page1, fileHeader)
	copy(page1[fileHeaderSize:], page1Body[fileHeaderSize:])

	maxPage := 1
	for num := range pages {
		if num > maxPage {
			maxPage = num
		}
	}

	buf := make([]byte, maxPage*pageSize)
	copy(buf, page1)
	for num, data := range pages {
		copy(buf[(num-1)*pageSize:], data)
	}
	return buf
}

// singlePageSchemaDB builds a complete two-page database: page 1 is
// the file header followed by the schema table (one CREATE TABLE
// entry), page 2 is the named table's leaf page holding rows.
func singlePageSchemaDB(pageSize int, createSQL, tableName string, rowCells [][]byte) []byte {
	schemaRecord := []testColumn{
		textCol("table"),
		textCol(tableName),
		textCol(tableName),
		intCol(2),
		textCol(createSQL),
	}
	schemaCell := tableLeafCell(1, schemaRecord)

	page1Body := buildLeafPage(pageSize, fileHeaderSize, PageKindTableLeaf, [][]byte{schemaCell})
	fileHeader := buildFileHeader(uint16(pageSize), uint32(TextEncodingUTF8))
	page1 := make([]byte, pageSize)
	copy(page1, fileHeader)
	copy(page1[fileHeaderSize:], page1Body[fileHeaderSize:])

	page2 := buildLeafPage(pageSize, 0, PageKindTableLeaf, rowCells)

	buf := append([]byte{}, page1...)
	buf = append(buf, page2...)
	return buf
}
