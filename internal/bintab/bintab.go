// Package bintab reads and writes the fixed-record binary tables produced
// by the standing-data compiler.
//
// File layout (all integers little-endian):
//
//	offset 0:  magic        [12]byte ASCII tag
//	offset 12: created      int64    epoch seconds
//	offset 20: record_count uint32
//	offset 24: record_len   uint32
//	offset 28: records, record_len bytes each, tightly packed
//
// A table is valid only when the magic matches and the file size equals
// HeaderSize + record_count*record_len. Open enforces both; a file that
// fails either check must be treated as garbage, not as a short table.
package bintab

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Magic identifies a table produced by this compiler.
	Magic      = "BIN-standing"
	MagicSize  = 12
	HeaderSize = 28
)

var (
	ErrBadMagic     = errors.New("bad table magic")
	ErrSizeMismatch = errors.New("table size does not match header")
)

// Header is the self-describing table header.
type Header struct {
	Magic       [MagicSize]byte
	Created     int64 // epoch seconds
	RecordCount uint32
	RecordLen   uint32
}

func encodeHeader(h *Header) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:12], h.Magic[:])
	binary.LittleEndian.PutUint64(buf[12:20], uint64(h.Created))
	binary.LittleEndian.PutUint32(buf[20:24], h.RecordCount)
	binary.LittleEndian.PutUint32(buf[24:28], h.RecordLen)
	return buf
}

func decodeHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: %d header bytes", ErrSizeMismatch, len(buf))
	}
	h := &Header{}
	copy(h.Magic[:], buf[0:12])
	if string(h.Magic[:]) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, h.Magic)
	}
	h.Created = int64(binary.LittleEndian.Uint64(buf[12:20]))
	h.RecordCount = binary.LittleEndian.Uint32(buf[20:24])
	h.RecordLen = binary.LittleEndian.Uint32(buf[24:28])
	return h, nil
}
