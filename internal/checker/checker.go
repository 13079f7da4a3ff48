// Package checker verifies binary tables and generates the standalone
// per-domain checker programs.
//
// Check performs the verification in-process; Generate emits a
// self-contained, stdlib-only Go program with the same semantics, one per
// domain, for consumers who want to validate a table without this module
// on their import path. Both check the header invariants and the
// ascending order of the domain's key field: lexicographic
// (case-insensitive, empty keys skipped) for the string-keyed domains,
// numeric start order for code-blocks.
package checker

import (
	"fmt"
	"strings"

	"github.com/adsbtools/standingdata/internal/bintab"
	"github.com/adsbtools/standingdata/internal/layout"
)

// Report is the outcome of checking one table.
type Report struct {
	Records    int
	Violations int
	Military   int // code-blocks only; 0 elsewhere
}

// Check opens the table at path, verifies the magic and size invariants,
// and counts key-ordering violations.
func Check(path string, lay *layout.Layout) (Report, error) {
	t, err := bintab.Open(path)
	if err != nil {
		return Report{}, err
	}
	if t.RecordLen() != lay.RecordLen() {
		return Report{}, fmt.Errorf("%s: record length %d, layout %s wants %d",
			path, t.RecordLen(), lay.Domain, lay.RecordLen())
	}

	rep := Report{Records: t.Count()}
	milIdx := fieldIndex(lay, "is_military")
	var prev []byte
	for i := 0; i < t.Count(); i++ {
		rec := t.Record(i)
		if i > 0 && keyLess(lay, rec, prev) {
			rep.Violations++
		}
		if milIdx >= 0 && lay.U8(rec, milIdx) != 0 {
			rep.Military++
		}
		prev = rec
	}
	return rep, nil
}

// keyLess reports whether rec's key sorts before prev's key. Records with
// an empty string key are never violations.
func keyLess(lay *layout.Layout, rec, prev []byte) bool {
	if lay.NumericKey {
		return lay.U32(rec, lay.KeyField) < lay.U32(prev, lay.KeyField)
	}
	key := strings.ToUpper(lay.String(rec, lay.KeyField))
	if key == "" {
		return false
	}
	return key < strings.ToUpper(lay.String(prev, lay.KeyField))
}

func fieldIndex(lay *layout.Layout, name string) int {
	for i, f := range lay.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
