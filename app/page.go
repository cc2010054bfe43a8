package main

import (
	"encoding/binary"
	"io"
)

// PageKind identifies which of the four B-tree page layouts a page
// uses, per byte 0 of its page header.
type PageKind byte

const (
	PageKindIndexInterior PageKind = 0x02
	PageKindTableInterior PageKind = 0x05
	PageKindIndexLeaf     PageKind = 0x0a
	PageKindTableLeaf     PageKind = 0x0d
)

func (k PageKind) IsInterior() bool {
	return k == PageKindIndexInterior || k == PageKindTableInterior
}

func (k PageKind) IsTable() bool {
	return k == PageKindTableInterior || k == PageKindTableLeaf
}

func (k PageKind) valid() bool {
	switch k {
	case PageKindIndexInterior, PageKindTableInterior, PageKindIndexLeaf, PageKindTableLeaf:
		return true
	default:
		return false
	}
}

// PageHeader is the decoded per-page B-tree header. RightMostPointer
// is only meaningful for interior pages.
type PageHeader struct {
	Kind             PageKind
	FreeBlockStart   uint16
	CellCount        uint16
	CellContentStart uint32
	FragmentedBytes  uint8
	RightMostPointer uint32
	HeaderSize       int
}

// PageReader reads fixed-size pages from a database file using
// io.ReaderAt, so callers never rely on a shared seek position. This
// is what lets the rowid-filter fetch path in the table B-tree
// scanner run several goroutines against the same handle safely.
type PageReader struct {
	ra       io.ReaderAt
	pageSize uint32
}

// NewPageReader builds a PageReader over ra with the given page size
// from the file header.
func NewPageReader(ra io.ReaderAt, pageSize uint32) *PageReader {
	return &PageReader{ra: ra, pageSize: pageSize}
}

// ReadPage returns the raw bytes of page number pageNum (1-based, as
// SQLite numbers pages).
func (pr *PageReader) ReadPage(pageNum uint32) ([]byte, error) {
	if pageNum == 0 {
		return nil, malformedErr("read_page", errBadPageKind, map[string]interface{}{"reason": "page numbers are 1-based"})
	}
	buf := make([]byte, pr.pageSize)
	offset := int64(pageNum-1) * int64(pr.pageSize)
	n, err := pr.ra.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, ioErr("read_page", err, map[string]interface{}{"page": pageNum, "offset": offset})
	}
	if n < len(buf) {
		return nil, ioErr("read_page", io.ErrUnexpectedEOF, map[string]interface{}{"page": pageNum, "got": n, "want": len(buf)})
	}
	return buf, nil
}

// parsePageHeader decodes the B-tree page header starting at
// headerOffset within page (0 for every page except page 1, where the
// 100-byte file header precedes it).
func parsePageHeader(page []byte, headerOffset int) (*PageHeader, error) {
	if headerOffset+8 > len(page) {
		return nil, malformedErr("parse_page_header", errHeaderOverrun, nil)
	}
	kind := PageKind(page[headerOffset])
	if !kind.valid() {
		return nil, malformedErr("parse_page_header", errBadPageKind, map[string]interface{}{"byte": page[headerOffset]})
	}

	h := &PageHeader{
		Kind:             kind,
		FreeBlockStart:   binary.BigEndian.Uint16(page[headerOffset+1 : headerOffset+3]),
		CellCount:        binary.BigEndian.Uint16(page[headerOffset+3 : headerOffset+5]),
		CellContentStart: uint32(binary.BigEndian.Uint16(page[headerOffset+5 : headerOffset+7])),
		FragmentedBytes:  page[headerOffset+7],
		HeaderSize:       8,
	}
	if h.CellContentStart == 0 {
		h.CellContentStart = 65536
	}

	if kind.IsInterior() {
		if headerOffset+12 > len(page) {
			return nil, malformedErr("parse_page_header", errHeaderOverrun, nil)
		}
		h.RightMostPointer = binary.BigEndian.Uint32(page[headerOffset+8 : headerOffset+12])
		h.HeaderSize = 12
	}
	return h, nil
}

// cellPointers returns the CellCount big-endian u16 cell offsets that
// follow the page header, each relative to the start of the page
// (not the header).
func cellPointers(page []byte, headerOffset int, h *PageHeader) ([]uint16, error) {
	start := headerOffset + h.HeaderSize
	end := start + int(h.CellCount)*2
	if end > len(page) {
		return nil, malformedErr("parse_cell_pointers", errCellOutOfBounds, map[string]interface{}{"end": end, "pageLen": len(page)})
	}
	ptrs := make([]uint16, h.CellCount)
	for i := 0; i < int(h.CellCount); i++ {
		ptrs[i] = binary.BigEndian.Uint16(page[start+i*2 : start+i*2+2])
	}
	return ptrs, nil
}
