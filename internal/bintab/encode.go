package bintab

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/adsbtools/standingdata/internal/layout"
)

// EncodeCSV streams the merged dataset at csvPath into a binary table at
// binPath using lay. Row 0 is the merged header and is skipped.
//
// Any row failure aborts the encode and removes the output file: a table
// either encodes completely or does not exist.
func EncodeCSV(csvPath string, lay *layout.Layout, binPath string) (int, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // arity is the layout's concern, not the reader's

	w, err := NewWriter(binPath, lay.RecordLen())
	if err != nil {
		return 0, err
	}

	row := 0
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			w.Abort()
			return 0, fmt.Errorf("%s row %d: %w", csvPath, row+1, err)
		}
		row++
		if row == 1 {
			continue // merged CSV header
		}
		rec, err := lay.Encode(fields)
		if err != nil {
			w.Abort()
			return 0, fmt.Errorf("%s row %d: %w", csvPath, row, err)
		}
		if err := w.Write(rec); err != nil {
			w.Abort()
			return 0, fmt.Errorf("%s row %d: %w", csvPath, row, err)
		}
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return w.Count(), nil
}
