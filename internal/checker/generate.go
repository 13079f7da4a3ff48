package checker

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/adsbtools/standingdata/internal/bintab"
	"github.com/adsbtools/standingdata/internal/layout"
)

// variantData parameterizes the checker template for one domain: key
// extraction, comparison rule and row formatter.
type variantData struct {
	Domain         string
	BinPath        string
	Magic          string
	RecordLen      int
	RecordCount    int
	KeyName        string
	KeyOffset      int
	KeyWidth       int
	NumericKey     bool
	Military       bool
	MilitaryOffset int
	HasFloat       bool
	HeaderLine     string
	RuleWidth      int
	RowFormat      string
	RowArgs        string
}

// Generate emits a self-contained Go checker program for the table at
// binPath. recordCount is the count the encoder reported; the generated
// program cross-checks it against the table header.
func Generate(lay *layout.Layout, binPath string, recordCount int) (string, error) {
	v := variantFor(lay, binPath, recordCount)
	var buf bytes.Buffer
	if err := checkerTmpl.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func variantFor(lay *layout.Layout, binPath string, recordCount int) variantData {
	v := variantData{
		Domain:      lay.Domain,
		BinPath:     binPath,
		Magic:       bintab.Magic,
		RecordLen:   lay.RecordLen(),
		RecordCount: recordCount,
		KeyName:     lay.Fields[lay.KeyField].Name,
		KeyOffset:   lay.FieldOffset(lay.KeyField),
		KeyWidth:    lay.Fields[lay.KeyField].Width,
		NumericKey:  lay.NumericKey,
	}

	if i := fieldIndex(lay, "is_military"); i >= 0 {
		v.Military = true
		v.MilitaryOffset = lay.FieldOffset(i)
	}

	var verbs, args, heads []string
	for i, f := range lay.Fields {
		off := lay.FieldOffset(i)
		switch f.Kind {
		case layout.Chars:
			verbs = append(verbs, fmt.Sprintf("%%-%ds", f.Width))
			args = append(args, fmt.Sprintf("str(rec, %d, %d)", off, f.Width))
			heads = append(heads, pad(f.Name, f.Width))
		case layout.U32Hex:
			verbs = append(verbs, "0x%06X")
			args = append(args, fmt.Sprintf("u32(rec, %d)", off))
			heads = append(heads, pad(f.Name, 8))
		case layout.U32Dec:
			verbs = append(verbs, "%8d")
			args = append(args, fmt.Sprintf("u32(rec, %d)", off))
			heads = append(heads, pad(f.Name, 8))
		case layout.U8Dec:
			verbs = append(verbs, "%3d")
			args = append(args, fmt.Sprintf("rec[%d]", off))
			heads = append(heads, pad(f.Name, 3))
		case layout.F32:
			v.HasFloat = true
			verbs = append(verbs, "%+8.2f")
			args = append(args, fmt.Sprintf("f32(rec, %d)", off))
			heads = append(heads, pad(f.Name, 8))
		}
	}
	v.RowFormat = strings.Join(verbs, "  ") + "%s\n"
	v.RowArgs = strings.Join(args, ", ") + ", note"
	v.HeaderLine = strings.TrimRight(strings.Join(heads, "  "), " ")
	v.RuleWidth = len(v.HeaderLine)
	return v
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

var checkerTmpl = template.Must(template.New("checker").Parse(`// Code generated by the standing-data compiler. DO NOT EDIT.
//
// Self-contained checker for the {{.Domain}} table. Verifies the header
// invariants of {{.BinPath}} and the ascending {{.KeyName}} order; exits
// non-zero if the table is malformed or out of order.
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	{{if .HasFloat}}"math"
	{{end}}"os"
	"strings"
	"time"
)

const (
	binFile     = {{printf "%q" .BinPath}}
	magic       = {{printf "%q" .Magic}}
	headerSize  = 28
	recordLen   = {{.RecordLen}}
	recordCount = {{.RecordCount}}
)

func str(rec []byte, off, n int) string {
	return strings.TrimRight(string(rec[off:off+n]), "\x00")
}

func u32(rec []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(rec[off : off+4])
}
{{if .HasFloat}}
func f32(rec []byte, off int) float32 {
	return math.Float32frombits(u32(rec, off))
}
{{end}}
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	f, err := os.Open(binFile)
	if err != nil {
		fail("%v", err)
	}
	defer f.Close()

	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(f, hdr); err != nil {
		fail("%s: %v", binFile, err)
	}
	if string(hdr[:12]) != magic {
		fail("%s: bad magic %q", binFile, hdr[:12])
	}
	created := int64(binary.LittleEndian.Uint64(hdr[12:20]))
	count := binary.LittleEndian.Uint32(hdr[20:24])
	rlen := binary.LittleEndian.Uint32(hdr[24:28])

	st, err := os.Stat(binFile)
	if err != nil {
		fail("%v", err)
	}
	if want := int64(headerSize) + int64(count)*int64(rlen); st.Size() != want {
		fail("%s: file is %d bytes, header implies %d", binFile, st.Size(), want)
	}
	if rlen != recordLen {
		fail("%s: record length %d, expected %d", binFile, rlen, recordLen)
	}
	if count != recordCount {
		fail("%s: %d records, expected %d", binFile, count, recordCount)
	}

	fmt.Printf("created: %s\n", time.Unix(created, 0).Format(time.RFC3339))
	fmt.Printf("records: %d, record_len: %d\n\n", count, rlen)
	fmt.Println({{printf "%q" .HeaderLine}})
	fmt.Println(strings.Repeat("-", {{.RuleWidth}}))

	rec := make([]byte, recordLen)
	prev := make([]byte, recordLen)
	violations := 0
{{if .Military}}	military := 0
{{end}}	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(f, rec); err != nil {
			fail("record %d: %v", i, err)
		}
		note := ""
{{if .NumericKey}}		if i > 0 && u32(rec, {{.KeyOffset}}) < u32(prev, {{.KeyOffset}}) {
			note = fmt.Sprintf("  ** 0x%06X sorts before 0x%06X", u32(rec, {{.KeyOffset}}), u32(prev, {{.KeyOffset}}))
			violations++
		}
{{else}}		key := strings.ToUpper(str(rec, {{.KeyOffset}}, {{.KeyWidth}}))
		if i > 0 && key != "" && key < strings.ToUpper(str(prev, {{.KeyOffset}}, {{.KeyWidth}})) {
			note = fmt.Sprintf("  ** %q sorts before %q", key, strings.ToUpper(str(prev, {{.KeyOffset}}, {{.KeyWidth}})))
			violations++
		}
{{end}}{{if .Military}}		if rec[{{.MilitaryOffset}}] != 0 {
			military++
		}
{{end}}		fmt.Printf({{printf "%q" .RowFormat}}, {{.RowArgs}})
		copy(prev, rec)
	}

{{if .Military}}	fmt.Printf("\nmilitary: %d, violations: %d\n", military, violations)
{{else}}	fmt.Printf("\nviolations: %d\n", violations)
{{end}}	if violations != 0 {
		os.Exit(1)
	}
}
`))
