package blocks_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adsbtools/standingdata/internal/bintab"
	"github.com/adsbtools/standingdata/internal/blocks"
	"github.com/adsbtools/standingdata/internal/layout"
)

func TestSpecificityOrdering(t *testing.T) {
	// A matches everything; B matches a narrow range. Sorted descending by
	// sign bitmask, B must come first and win for addresses in its range.
	a := blocks.Block{Bitmask: 0x000000, SignBitmask: 0x000000, Country: "ZZ"}
	b := blocks.Block{Bitmask: 0xABCD00, SignBitmask: 0xFFFF00, Country: "NN"}
	tab := blocks.New([]blocks.Block{a, b})

	if got := tab.Block(0); got.Country != "NN" {
		t.Fatalf("most specific block first, got %+v", got)
	}

	got, ok := tab.Classify(0xABCD12)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Country != "NN" {
		t.Errorf("classified as %s, want the narrow block NN", got.Country)
	}

	// Outside B's range, the catch-all wins.
	got, ok = tab.Classify(0x123456)
	if !ok || got.Country != "ZZ" {
		t.Errorf("classified as %+v, want the catch-all ZZ", got)
	}
}

func TestClassifyMiss(t *testing.T) {
	b := blocks.Block{Bitmask: 0x400000, SignBitmask: 0xFFC000, Country: "US"}
	tab := blocks.New([]blocks.Block{b})

	if _, ok := tab.Classify(0x100000); ok {
		t.Error("expected no match")
	}
}

func TestStableTieBreak(t *testing.T) {
	// Equal sign bitmasks keep their original relative order.
	first := blocks.Block{Bitmask: 0x100000, SignBitmask: 0xF00000, Country: "AA"}
	second := blocks.Block{Bitmask: 0x200000, SignBitmask: 0xF00000, Country: "BB"}
	narrow := blocks.Block{Bitmask: 0x300000, SignBitmask: 0xFF0000, Country: "CC"}
	tab := blocks.New([]blocks.Block{first, second, narrow})

	if tab.Block(0).Country != "CC" {
		t.Errorf("block 0: %s, want CC", tab.Block(0).Country)
	}
	if tab.Block(1).Country != "AA" || tab.Block(2).Country != "BB" {
		t.Errorf("tied blocks reordered: %s, %s", tab.Block(1).Country, tab.Block(2).Country)
	}
}

// TestClassifyThroughPipeline encodes three allocation blocks through the
// real CSV-to-table pipeline and checks the military block wins over both
// the broader country block and the catch-all.
func TestClassifyThroughPipeline(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "code-blocks.csv")
	binPath := filepath.Join(dir, "code-blocks.bin")

	csv := "start,finish,count,bitmask,sign_bitmask,is_military,country\n" +
		"400000,43FFFF,1,400000,FFC000,0,US\n" +
		"000000,7FFFFF,1,000000,000000,0,ZZ\n" +
		"43F000,43FFFF,1,43F000,FFFFF0,1,US\n"
	if err := os.WriteFile(csvPath, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := bintab.EncodeCSV(csvPath, layout.CodeBlocks, binPath); err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}

	tab, err := blocks.Load(binPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tab.Len() != 3 {
		t.Fatalf("loaded %d blocks, want 3", tab.Len())
	}

	wantOrder := []uint32{0xFFFFF0, 0xFFC000, 0x000000}
	for i, want := range wantOrder {
		if got := tab.Block(i).SignBitmask; got != want {
			t.Errorf("block %d sign_bitmask 0x%06X, want 0x%06X", i, got, want)
		}
	}
	if tab.NumMilitary() != 1 {
		t.Errorf("military blocks %d, want 1", tab.NumMilitary())
	}

	// 0x43F005 is inside all three blocks; the military one is the most
	// specific and must win.
	b, ok := tab.Classify(0x43F005)
	if !ok {
		t.Fatal("expected a match")
	}
	if !b.Military || b.SignBitmask != 0xFFFFF0 {
		t.Errorf("classified as %+v, want the military block", b)
	}

	// 0x400005 is outside the military block but inside the US block.
	b, ok = tab.Classify(0x400005)
	if !ok || b.Military || b.Country != "US" {
		t.Errorf("classified as %+v, want the civilian US block", b)
	}

	// 0x700000 only matches the catch-all.
	b, ok = tab.Classify(0x700000)
	if !ok || b.Country != "ZZ" {
		t.Errorf("classified as %+v, want the catch-all", b)
	}
}

func TestGenerateSource(t *testing.T) {
	tab := blocks.New([]blocks.Block{
		{Start: 0x400000, Finish: 0x43FFFF, Count: 1, Bitmask: 0x400000, SignBitmask: 0xFFC000, Country: "US"},
		{Start: 0, Finish: 0x7FFFFF, Count: 1, Country: "ZZ"},
	})
	src := blocks.GenerateSource(tab, "aircraft")

	for _, want := range []string{
		"package aircraft",
		"var sortedBlocks",
		"{0x400000, 0x43FFFF,       1, 0x400000, 0xFFC000, false, \"US\"},",
		"func findBlock(addr uint32) (codeBlock, bool)",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source is missing %q", want)
		}
	}

	// The narrow US block must be emitted before the catch-all.
	if strings.Index(src, `"US"`) > strings.Index(src, `"ZZ"`) {
		t.Error("blocks emitted out of specificity order")
	}
}
