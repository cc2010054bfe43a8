package main

// searchIndex walks the index B-tree rooted at rootPage looking for
// every entry whose indexed key equals target, returning the rowids
// of the matching entries.
//
// Interior descent is corrected relative to the legacy behavior this
// engine's predecessor shipped: at each interior cell, the indexed
// key on that cell is compared against target. When target <= the
// cell's key, the left child subtree is descended (it may still hold
// a match, since index B-trees keep keys in ascending order and the
// left subtree holds everything less-than-or-equal-to the cell's
// key). When target > the cell's key, the scan continues rightward to
// the next cell instead of returning immediately — an interior page
// can hold several cells whose keys are all less than target before
// reaching the one that bounds it.
func searchIndex(pr *PageReader, rootPage int64, enc TextEncoding, target Value) ([]int64, error) {
	var out []int64
	if err := walkIndexPage(pr, uint32(rootPage), enc, target, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walkIndexPage(pr *PageReader, pageNum uint32, enc TextEncoding, target Value, out *[]int64) error {
	page, err := pr.ReadPage(pageNum)
	if err != nil {
		return err
	}
	headerOffset := 0
	if pageNum == 1 {
		headerOffset = fileHeaderSize
	}
	h, err := parsePageHeader(page, headerOffset)
	if err != nil {
		return err
	}
	ptrs, err := cellPointers(page, headerOffset, h)
	if err != nil {
		return err
	}

	if h.Kind == PageKindIndexInterior {
		for _, ptr := range ptrs {
			child, key, rowid, err := parseIndexInteriorCell(page, int(ptr), enc)
			if err != nil {
				return err
			}
			cmp := compareValues(key, target)
			if cmp >= 0 {
				if err := walkIndexPage(pr, child, enc, target, out); err != nil {
					return err
				}
			}
			if cmp == 0 {
				*out = append(*out, rowid)
			}
			// cmp < 0: this cell's key is below target, so its left
			// subtree holds no match; continue rightward without
			// descending it.
		}
		if h.RightMostPointer != 0 {
			if err := walkIndexPage(pr, h.RightMostPointer, enc, target, out); err != nil {
				return err
			}
		}
		return nil
	}

	for _, ptr := range ptrs {
		key, rowid, err := parseIndexLeafCell(page, int(ptr), enc)
		if err != nil {
			return err
		}
		if compareValues(key, target) == 0 {
			*out = append(*out, rowid)
		}
	}
	return nil
}

// parseIndexInteriorCell decodes a 4-byte left-child pointer followed
// by an index-record payload whose last column is the rowid.
func parseIndexInteriorCell(page []byte, offset int, enc TextEncoding) (uint32, Value, int64, error) {
	if offset+4 > len(page) {
		return 0, Value{}, 0, malformedErr("parse_index_interior_cell", errCellOutOfBounds, nil)
	}
	child := beUint32(page[offset : offset+4])
	payloadLen, n, err := readVarint(page[offset+4:])
	if err != nil {
		return 0, Value{}, 0, malformedErr("parse_index_interior_cell", err, nil)
	}
	bodyStart := offset + 4 + n
	bodyEnd := bodyStart + int(payloadLen)
	if bodyEnd > len(page) {
		return 0, Value{}, 0, malformedErr("parse_index_interior_cell", errCellOutOfBounds, nil)
	}
	key, rowid, err := decodeIndexRecord(page[bodyStart:bodyEnd], enc)
	if err != nil {
		return 0, Value{}, 0, err
	}
	return child, key, rowid, nil
}

// parseIndexLeafCell decodes a varint payload-length-prefixed
// index-record payload whose last column is the rowid.
func parseIndexLeafCell(page []byte, offset int, enc TextEncoding) (Value, int64, error) {
	payloadLen, n, err := readVarint(page[offset:])
	if err != nil {
		return Value{}, 0, malformedErr("parse_index_leaf_cell", err, nil)
	}
	bodyStart := offset + n
	bodyEnd := bodyStart + int(payloadLen)
	if bodyEnd > len(page) {
		return Value{}, 0, malformedErr("parse_index_leaf_cell", errCellOutOfBounds, nil)
	}
	return decodeIndexRecord(page[bodyStart:bodyEnd], enc)
}

// decodeIndexRecord decodes an index record and splits it into the
// indexed key (its first column, the only one this engine's
// single-column index lookups use) and the rowid (its last column,
// per the index record layout).
func decodeIndexRecord(buf []byte, enc TextEncoding) (Value, int64, error) {
	values, err := decodeRecord(buf, enc)
	if err != nil {
		return Value{}, 0, err
	}
	if len(values) < 2 {
		return Value{}, 0, malformedErr("decode_index_record", errHeaderOverrun, map[string]interface{}{"reason": "index record needs at least a key and a rowid column"})
	}
	key := values[0]
	rowid := values[len(values)-1]
	return key, rowid.Int, nil
}

// compareValues implements byte-wise collation only, per this
// engine's scope: NOCASE and RTRIM are not implemented. Integers and
// floats compare numerically; everything else compares as raw bytes.
func compareValues(a, b Value) int {
	if a.Type == ValueTypeInteger && b.Type == ValueTypeInteger {
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		default:
			return 0
		}
	}
	if (a.Type == ValueTypeInteger || a.Type == ValueTypeFloat) && (b.Type == ValueTypeInteger || b.Type == ValueTypeFloat) {
		af, bf := a.Flt, b.Flt
		if a.Type == ValueTypeInteger {
			af = float64(a.Int)
		}
		if b.Type == ValueTypeInteger {
			bf = float64(b.Int)
		}
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	ab := valueBytes(a)
	bb := valueBytes(b)
	n := len(ab)
	if len(bb) < n {
		n = len(bb)
	}
	for i := 0; i < n; i++ {
		if ab[i] != bb[i] {
			if ab[i] < bb[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ab) < len(bb):
		return -1
	case len(ab) > len(bb):
		return 1
	default:
		return 0
	}
}

func valueBytes(v Value) []byte {
	switch v.Type {
	case ValueTypeText:
		return []byte(v.Str)
	case ValueTypeBlob:
		return v.Blob
	default:
		return []byte(v.String())
	}
}
