package bintab

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Table is a fully loaded, immutable binary table. Safe for concurrent
// readers.
type Table struct {
	hdr  Header
	data []byte // record region only
}

// ReadHeader reads and validates just the header of a table file.
func ReadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	h, err := decodeHeader(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// Open loads a table and verifies the magic and size invariants.
func Open(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	h, err := decodeHeader(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	want := int64(HeaderSize) + int64(h.RecordCount)*int64(h.RecordLen)
	if int64(len(data)) != want {
		return nil, fmt.Errorf("%s: %w: file is %d bytes, header implies %d",
			path, ErrSizeMismatch, len(data), want)
	}
	return &Table{hdr: *h, data: data[HeaderSize:]}, nil
}

// Count returns the number of records.
func (t *Table) Count() int { return int(t.hdr.RecordCount) }

// RecordLen returns the fixed record length in bytes.
func (t *Table) RecordLen() int { return int(t.hdr.RecordLen) }

// Created returns the table's creation time.
func (t *Table) Created() time.Time { return time.Unix(t.hdr.Created, 0) }

// Record returns record i. The returned slice aliases the table's backing
// buffer and must not be modified.
func (t *Table) Record(i int) []byte {
	off := i * int(t.hdr.RecordLen)
	return t.data[off : off+int(t.hdr.RecordLen)]
}
