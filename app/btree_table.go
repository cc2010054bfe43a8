package main

import (
	"context"
	"sync"
	"time"
)

// RowPredicate filters decoded rows during a table scan. A nil
// predicate matches every row.
type RowPredicate func(*Record) bool

// scanTable walks the full table B-tree rooted at rootPage, in rowid
// order, decoding every leaf cell and keeping the ones for which
// predicate returns true (or every row, if predicate is nil).
func scanTable(pr *PageReader, rootPage int64, enc TextEncoding, predicate RowPredicate) ([]*Record, error) {
	var out []*Record
	if err := walkTablePage(pr, uint32(rootPage), enc, predicate, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// countTableRows sums leaf cell counts across the whole subtree
// rooted at rootPage, per the spec's corrected mandate: the count is
// not limited to the root page alone.
func countTableRows(pr *PageReader, rootPage int64) (int, error) {
	return walkTableCount(pr, uint32(rootPage))
}

func walkTablePage(pr *PageReader, pageNum uint32, enc TextEncoding, predicate RowPredicate, out *[]*Record) error {
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
	if !h.Kind.IsTable() {
		return malformedErr("walk_table_page", errBadPageKind, map[string]interface{}{"page": pageNum, "kind": h.Kind})
	}
	ptrs, err := cellPointers(page, headerOffset, h)
	if err != nil {
		return err
	}

	if h.Kind == PageKindTableInterior {
		for _, ptr := range ptrs {
			child, _, err := parseTableInteriorCell(page, int(ptr))
			if err != nil {
				return err
			}
			if err := walkTablePage(pr, child, enc, predicate, out); err != nil {
				return err
			}
		}
		if h.RightMostPointer != 0 {
			if err := walkTablePage(pr, h.RightMostPointer, enc, predicate, out); err != nil {
				return err
			}
		}
		return nil
	}

	for _, ptr := range ptrs {
		rec, err := parseTableLeafCell(page, int(ptr), enc)
		if err != nil {
			return err
		}
		if predicate == nil || predicate(rec) {
			*out = append(*out, rec)
		}
	}
	return nil
}

func walkTableCount(pr *PageReader, pageNum uint32) (int, error) {
	page, err := pr.ReadPage(pageNum)
	if err != nil {
		return 0, err
	}
	headerOffset := 0
	if pageNum == 1 {
		headerOffset = fileHeaderSize
	}
	h, err := parsePageHeader(page, headerOffset)
	if err != nil {
		return 0, err
	}
	ptrs, err := cellPointers(page, headerOffset, h)
	if err != nil {
		return 0, err
	}

	if h.Kind == PageKindTableInterior {
		total := 0
		for _, ptr := range ptrs {
			child, _, err := parseTableInteriorCell(page, int(ptr))
			if err != nil {
				return 0, err
			}
			n, err := walkTableCount(pr, child)
			if err != nil {
				return 0, err
			}
			total += n
		}
		if h.RightMostPointer != 0 {
			n, err := walkTableCount(pr, h.RightMostPointer)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	}
	return int(h.CellCount), nil
}

// parseTableInteriorCell decodes a table-interior cell: a 4-byte
// big-endian left-child page number followed by a varint key (the
// largest rowid in that subtree). The full scan ignores the key;
// fetchRowByRowid uses it to choose which child to descend.
func parseTableInteriorCell(page []byte, offset int) (uint32, int64, error) {
	if offset+4 > len(page) {
		return 0, 0, malformedErr("parse_table_interior_cell", errCellOutOfBounds, nil)
	}
	child := beUint32(page[offset : offset+4])
	key, n, err := readVarint(page[offset+4:])
	if err != nil {
		return 0, 0, malformedErr("parse_table_interior_cell", err, nil)
	}
	_ = n
	return child, key, nil
}

// parseTableLeafCell decodes a table-leaf cell: varint payload
// length, varint rowid, then the record body (overflow pages are not
// supported, matching the spec's scope).
func parseTableLeafCell(page []byte, offset int, enc TextEncoding) (*Record, error) {
	payloadLen, n1, err := readVarint(page[offset:])
	if err != nil {
		return nil, malformedErr("parse_table_leaf_cell", err, nil)
	}
	rowid, n2, err := readVarint(page[offset+n1:])
	if err != nil {
		return nil, malformedErr("parse_table_leaf_cell", err, nil)
	}
	bodyStart := offset + n1 + n2
	bodyEnd := bodyStart + int(payloadLen)
	if bodyEnd > len(page) {
		return nil, malformedErr("parse_table_leaf_cell", errCellOutOfBounds, map[string]interface{}{"reason": "payload overflow pages are not supported"})
	}
	values, err := decodeRecord(page[bodyStart:bodyEnd], enc)
	if err != nil {
		return nil, err
	}
	return &Record{RowID: rowid, Values: values}, nil
}

// fetchRowsByRowidsParallel fetches the table-leaf records for a set
// of rowids using a bounded worker pool, descending the table B-tree
// independently for each rowid. The query evaluator uses it for every
// index lookup that has narrowed a WHERE clause down to a set of
// candidate rowids, so the fetches overlap instead of running strictly
// sequentially; it passes a single worker when there is at most one
// rowid.
func fetchRowsByRowidsParallel(ctx context.Context, pr *PageReader, rootPage int64, enc TextEncoding, rowids []int64, maxWorkers int) ([]*Record, error) {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if maxWorkers > len(rowids) {
		maxWorkers = len(rowids)
	}
	if maxWorkers == 0 {
		return nil, nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	type job struct {
		rowid int64
		index int
	}
	type result struct {
		rec   *Record
		err   error
		index int
	}

	jobs := make(chan job, len(rowids))
	results := make(chan result, len(rowids))

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				select {
				case <-timeoutCtx.Done():
					results <- result{err: timeoutCtx.Err(), index: j.index}
					continue
				default:
				}
				rec, err := fetchRowByRowid(pr, rootPage, enc, j.rowid)
				results <- result{rec: rec, err: err, index: j.index}
			}
		}()
	}

	for i, rowid := range rowids {
		jobs <- job{rowid: rowid, index: i}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]*Record, len(rowids))
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		ordered[r.index] = r.rec
	}
	if firstErr != nil {
		return nil, ioErr("fetch_rows_parallel", firstErr, nil)
	}

	out := make([]*Record, 0, len(ordered))
	for _, rec := range ordered {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

// fetchRowByRowid descends the table B-tree rooted at rootPage
// looking for the leaf cell with the given rowid, using the same
// left-to-right ordering guarantee table B-trees provide.
func fetchRowByRowid(pr *PageReader, rootPage int64, enc TextEncoding, rowid int64) (*Record, error) {
	pageNum := uint32(rootPage)
	for {
		page, err := pr.ReadPage(pageNum)
		if err != nil {
			return nil, err
		}
		headerOffset := 0
		if pageNum == 1 {
			headerOffset = fileHeaderSize
		}
		h, err := parsePageHeader(page, headerOffset)
		if err != nil {
			return nil, err
		}
		ptrs, err := cellPointers(page, headerOffset, h)
		if err != nil {
			return nil, err
		}

		if h.Kind == PageKindTableInterior {
			next := h.RightMostPointer
			found := false
			for _, ptr := range ptrs {
				child, key, err := parseTableInteriorCell(page, int(ptr))
				if err != nil {
					return nil, err
				}
				if rowid <= key {
					next = child
					found = true
					break
				}
			}
			_ = found
			pageNum = next
			continue
		}

		for _, ptr := range ptrs {
			rec, err := parseTableLeafCell(page, int(ptr), enc)
			if err != nil {
				return nil, err
			}
			if rec.RowID == rowid {
				return rec, nil
			}
		}
		return nil, notFoundErr("fetch_row_by_rowid", errTableNotFound, map[string]interface{}{"rowid": rowid})
	}
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
