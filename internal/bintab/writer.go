package bintab

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Writer streams fixed-length records into a table file.
//
// The record count is unknown until the stream ends, so the header region
// is reserved up front and patched on Close. A table is valid only after
// Close returns nil; on any failure the caller must Abort so no partial
// file survives claiming success.
type Writer struct {
	f         *os.File
	path      string
	recordLen int
	count     uint32
}

// NewWriter creates the table file and reserves the header region.
func NewWriter(path string, recordLen int) (*Writer, error) {
	if recordLen <= 0 {
		return nil, fmt.Errorf("record length %d", recordLen)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(make([]byte, HeaderSize)); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	return &Writer{f: f, path: path, recordLen: recordLen}, nil
}

// Write appends one record. The record must be exactly recordLen bytes.
func (w *Writer) Write(rec []byte) error {
	if len(rec) != w.recordLen {
		return fmt.Errorf("record is %d bytes, table wants %d", len(rec), w.recordLen)
	}
	if _, err := w.f.Write(rec); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int { return int(w.count) }

// Close seeks back, patches the header with the final record count, and
// closes the file. On error the partial file is removed.
func (w *Writer) Close() error {
	if _, err := w.f.Seek(0, io.SeekStart); err != nil {
		w.discard()
		return err
	}
	h := Header{
		Created:     time.Now().Unix(),
		RecordCount: w.count,
		RecordLen:   uint32(w.recordLen),
	}
	copy(h.Magic[:], Magic)
	if _, err := w.f.Write(encodeHeader(&h)); err != nil {
		w.discard()
		return err
	}
	if err := w.f.Close(); err != nil {
		os.Remove(w.path)
		return err
	}
	return nil
}

// Abort discards the partially written table; no file remains.
func (w *Writer) Abort() {
	w.discard()
}

func (w *Writer) discard() {
	w.f.Close()
	os.Remove(w.path)
}
