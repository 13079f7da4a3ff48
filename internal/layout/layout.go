// Package layout declares the fixed binary record layout for each
// standing-data domain and the CSV column extraction rules that feed it.
//
// A layout maps zero-indexed CSV source columns onto fixed-width,
// little-endian wire fields. Records are packed with no alignment padding;
// the record length is the sum of the field widths.
package layout

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the wire encoding of a field.
type Kind uint8

const (
	// Chars is a fixed-width byte string, right-padded with zero bytes.
	// Values longer than the field are silently truncated to fit; values
	// that fill the field exactly are not NUL-terminated.
	Chars Kind = iota
	// U32Hex is a 32-bit unsigned integer parsed from hexadecimal.
	U32Hex
	// U32Dec is a 32-bit unsigned integer parsed from decimal.
	U32Dec
	// U8Dec is a single byte parsed from decimal.
	U8Dec
	// F32 is a 32-bit IEEE-754 float.
	F32
)

// Field maps one CSV source column to one wire field.
type Field struct {
	Name  string
	Col   int // zero-indexed column in the merged CSV
	Width int // bytes on the wire
	Kind  Kind
}

// Layout describes one domain's record format and fragment location.
type Layout struct {
	Domain     string
	Glob       string // fragment file pattern under the domain's tree
	SingleFile string // set when the domain ships as one upstream CSV
	Fields     []Field
	KeyField   int  // index into Fields of the designated sort key
	NumericKey bool // numeric u32 comparison instead of lexicographic
}

// SchemaError reports a row with fewer columns than the layout requires.
type SchemaError struct {
	Domain string
	Cols   int
	Need   int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: row has %d columns, layout needs %d", e.Domain, e.Cols, e.Need)
}

// FormatError reports a numeric column that could not be parsed.
type FormatError struct {
	Domain string
	Field  string
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: field %s: cannot parse %q: %v", e.Domain, e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// RecordLen returns the fixed record length in bytes.
func (l *Layout) RecordLen() int {
	n := 0
	for _, f := range l.Fields {
		n += f.Width
	}
	return n
}

// FieldOffset returns the byte offset of field i within a record.
func (l *Layout) FieldOffset(i int) int {
	off := 0
	for _, f := range l.Fields[:i] {
		off += f.Width
	}
	return off
}

// maxCol returns the highest CSV column the layout reads.
func (l *Layout) maxCol() int {
	max := 0
	for _, f := range l.Fields {
		if f.Col > max {
			max = f.Col
		}
	}
	return max
}

// Encode packs one CSV row into a fixed-length record buffer.
//
// It returns a SchemaError if the row has fewer columns than the layout
// references, and a FormatError if a numeric column does not parse.
// Over-width string values are truncated, never rejected.
func (l *Layout) Encode(row []string) ([]byte, error) {
	if need := l.maxCol() + 1; len(row) < need {
		return nil, &SchemaError{Domain: l.Domain, Cols: len(row), Need: need}
	}

	buf := make([]byte, l.RecordLen())
	off := 0
	for _, f := range l.Fields {
		val := row[f.Col]
		switch f.Kind {
		case Chars:
			b := []byte(val)
			if len(b) > f.Width {
				b = b[:f.Width]
			}
			copy(buf[off:off+f.Width], b)

		case U32Hex:
			u, err := strconv.ParseUint(strings.TrimSpace(val), 16, 32)
			if err != nil {
				return nil, &FormatError{Domain: l.Domain, Field: f.Name, Value: val, Err: err}
			}
			binary.LittleEndian.PutUint32(buf[off:off+4], uint32(u))

		case U32Dec:
			u, err := strconv.ParseUint(strings.TrimSpace(val), 10, 32)
			if err != nil {
				return nil, &FormatError{Domain: l.Domain, Field: f.Name, Value: val, Err: err}
			}
			binary.LittleEndian.PutUint32(buf[off:off+4], uint32(u))

		case U8Dec:
			u, err := strconv.ParseUint(strings.TrimSpace(val), 10, 8)
			if err != nil {
				return nil, &FormatError{Domain: l.Domain, Field: f.Name, Value: val, Err: err}
			}
			buf[off] = byte(u)

		case F32:
			fl, err := strconv.ParseFloat(strings.TrimSpace(val), 32)
			if err != nil {
				return nil, &FormatError{Domain: l.Domain, Field: f.Name, Value: val, Err: err}
			}
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(fl)))
		}
		off += f.Width
	}
	return buf, nil
}

// String decodes field i of a record as a string, trailing zero padding
// trimmed.
func (l *Layout) String(rec []byte, i int) string {
	off := l.FieldOffset(i)
	return strings.TrimRight(string(rec[off:off+l.Fields[i].Width]), "\x00")
}

// U32 decodes field i of a record as a little-endian uint32.
func (l *Layout) U32(rec []byte, i int) uint32 {
	off := l.FieldOffset(i)
	return binary.LittleEndian.Uint32(rec[off : off+4])
}

// U8 decodes field i of a record as a single byte.
func (l *Layout) U8(rec []byte, i int) uint8 {
	return rec[l.FieldOffset(i)]
}

// F32 decodes field i of a record as a little-endian IEEE-754 float.
func (l *Layout) F32(rec []byte, i int) float32 {
	return math.Float32frombits(l.U32(rec, i))
}

// KeyBytes returns the raw bytes of the designated key field.
func (l *Layout) KeyBytes(rec []byte) []byte {
	off := l.FieldOffset(l.KeyField)
	return rec[off : off+l.Fields[l.KeyField].Width]
}
