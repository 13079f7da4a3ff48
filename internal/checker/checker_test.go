package checker_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adsbtools/standingdata/internal/bintab"
	"github.com/adsbtools/standingdata/internal/checker"
	"github.com/adsbtools/standingdata/internal/layout"
)

func encodeTable(t *testing.T, lay *layout.Layout, csv string) string {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, lay.Domain+".csv")
	binPath := filepath.Join(dir, lay.Domain+".bin")
	if err := os.WriteFile(csvPath, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := bintab.EncodeCSV(csvPath, lay, binPath); err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	return binPath
}

func TestCheckSortedAircraft(t *testing.T) {
	csv := "icao,reg,manufacturer,c3,c4,model\n" +
		"A00001,N1,Boeing,x,x,737\n" +
		"A00002,N2,Airbus,x,x,A320\n" +
		"B00001,N3,Cessna,x,x,172\n"
	path := encodeTable(t, layout.Aircraft, csv)

	rep, err := checker.Check(path, layout.Aircraft)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rep.Records != 3 {
		t.Errorf("records %d, want 3", rep.Records)
	}
	if rep.Violations != 0 {
		t.Errorf("violations %d, want 0", rep.Violations)
	}
}

func TestCheckShuffledAircraft(t *testing.T) {
	csv := "icao,reg,manufacturer,c3,c4,model\n" +
		"B00001,N3,Cessna,x,x,172\n" +
		"A00001,N1,Boeing,x,x,737\n" +
		"A00002,N2,Airbus,x,x,A320\n"
	path := encodeTable(t, layout.Aircraft, csv)

	rep, err := checker.Check(path, layout.Aircraft)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rep.Violations == 0 {
		t.Error("shuffled input reported zero violations")
	}
}

func TestCheckIsCaseInsensitiveAndSkipsEmptyKeys(t *testing.T) {
	// Mixed case in the key must not count as a violation, and records
	// with an empty key are skipped entirely.
	csv := "call_sign,c1,c2,c3,airports\n" +
		"abc1,x,x,x,EIDW-EGSS\n" +
		"ABC2,x,x,x,EGSS-EIDW\n" +
		",x,x,x,NOWHERE\n" +
		"ABD1,x,x,x,EIDW-LFPG\n"
	path := encodeTable(t, layout.Routes, csv)

	rep, err := checker.Check(path, layout.Routes)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rep.Violations != 0 {
		t.Errorf("violations %d, want 0", rep.Violations)
	}
}

func TestCheckDuplicateKeysAreNotViolations(t *testing.T) {
	csv := "call_sign,c1,c2,c3,airports\n" +
		"ABC1,x,x,x,EIDW-EGSS\n" +
		"ABC1,x,x,x,EIDW-EGSS\n"
	path := encodeTable(t, layout.Routes, csv)

	rep, err := checker.Check(path, layout.Routes)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rep.Violations != 0 {
		t.Errorf("violations %d, want 0", rep.Violations)
	}
}

func TestCheckNumericKeyCodeBlocks(t *testing.T) {
	sorted := "start,finish,count,bitmask,sign_bitmask,is_military,country\n" +
		"100000,1FFFFF,1,100000,F00000,0,AA\n" +
		"200000,2FFFFF,1,200000,F00000,1,BB\n" +
		"300000,3FFFFF,1,300000,F00000,0,CC\n"
	path := encodeTable(t, layout.CodeBlocks, sorted)

	rep, err := checker.Check(path, layout.CodeBlocks)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rep.Violations != 0 {
		t.Errorf("violations %d, want 0", rep.Violations)
	}
	if rep.Military != 1 {
		t.Errorf("military %d, want 1", rep.Military)
	}

	// The numeric comparison must not be fooled by lexicographic order:
	// 0x0FFFFF sorts after 0x300000 as a string field would not.
	shuffled := "start,finish,count,bitmask,sign_bitmask,is_military,country\n" +
		"300000,3FFFFF,1,300000,F00000,0,CC\n" +
		"0FFFFF,1FFFFF,1,100000,F00000,0,AA\n"
	path = encodeTable(t, layout.CodeBlocks, shuffled)

	rep, err = checker.Check(path, layout.CodeBlocks)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rep.Violations != 1 {
		t.Errorf("violations %d, want 1", rep.Violations)
	}
}

func TestCheckRejectsWrongLayout(t *testing.T) {
	csv := "call_sign,c1,c2,c3,airports\nABC1,x,x,x,EIDW-EGSS\n"
	path := encodeTable(t, layout.Routes, csv)

	if _, err := checker.Check(path, layout.Aircraft); err == nil {
		t.Error("expected a record-length mismatch error")
	}
}

func TestCheckRejectsTruncatedTable(t *testing.T) {
	csv := "call_sign,c1,c2,c3,airports\nABC1,x,x,x,EIDW-EGSS\n"
	path := encodeTable(t, layout.Routes, csv)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-5], 0644); err != nil {
		t.Fatal(err)
	}

	_, err = checker.Check(path, layout.Routes)
	if !errors.Is(err, bintab.ErrSizeMismatch) {
		t.Fatalf("error %v, want ErrSizeMismatch", err)
	}
}

func TestGenerateAircraftChecker(t *testing.T) {
	src, err := checker.Generate(layout.Aircraft, "results/aircraft.bin", 1234)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, want := range []string{
		"package main",
		`binFile     = "results/aircraft.bin"`,
		`magic       = "BIN-standing"`,
		"recordLen   = 66",
		"recordCount = 1234",
		"strings.ToUpper", // lexicographic comparator
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source is missing %q", want)
		}
	}
	if strings.Contains(src, "{{") {
		t.Error("generated source contains template residue")
	}
	if strings.Contains(src, "military") {
		t.Error("aircraft checker should not count military records")
	}
}

func TestGenerateCodeBlocksChecker(t *testing.T) {
	src, err := checker.Generate(layout.CodeBlocks, "results/code-blocks.bin", 42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, want := range []string{
		"recordLen   = 23",
		"military++",
		"u32(rec, 0) < u32(prev, 0)", // numeric start comparator
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source is missing %q", want)
		}
	}
	if strings.Contains(src, "strings.ToUpper") {
		t.Error("code-blocks checker should compare numerically, not lexicographically")
	}
}

func TestGenerateAirportsCheckerHasFloatFormatter(t *testing.T) {
	src, err := checker.Generate(layout.Airports, "results/airports.bin", 7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{`"math"`, "f32(rec, 69)", "f32(rec, 73)"} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source is missing %q", want)
		}
	}
}
