// Package blocks classifies 24-bit ICAO aircraft addresses against the
// allocation-block table.
//
// Blocks are bit-pattern ranges, not prefixes: a block matches an address
// when (addr & SignBitmask) == Bitmask. Blocks overlap in address space,
// so the list is kept in descending SignBitmask order (most significant
// bits first) and the first match wins, which makes the first match also
// the most specific one. A 4-address country block therefore takes
// precedence over a 16-million-address catch-all.
package blocks

import (
	"fmt"
	"sort"

	"github.com/adsbtools/standingdata/internal/bintab"
	"github.com/adsbtools/standingdata/internal/layout"
)

// Block is one allocation block.
type Block struct {
	Start       uint32
	Finish      uint32
	Count       uint32
	Bitmask     uint32
	SignBitmask uint32
	Military    bool
	Country     string // ISO 3166-1 alpha-2
}

// Table is an immutable, specificity-sorted block list. Safe for
// concurrent readers.
type Table struct {
	blocks []Block
}

// New copies bs and stable-sorts it descending by SignBitmask. Ties keep
// their original relative order. The sort happens on every construction;
// upstream order is never trusted.
func New(bs []Block) *Table {
	sorted := make([]Block, len(bs))
	copy(sorted, bs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SignBitmask > sorted[j].SignBitmask
	})
	return &Table{blocks: sorted}
}

// Load reads the code-blocks binary table at path and returns the sorted
// classifier table.
func Load(path string) (*Table, error) {
	lay := layout.CodeBlocks
	t, err := bintab.Open(path)
	if err != nil {
		return nil, err
	}
	if t.RecordLen() != lay.RecordLen() {
		return nil, fmt.Errorf("%s: record length %d, code-blocks wants %d",
			path, t.RecordLen(), lay.RecordLen())
	}

	bs := make([]Block, t.Count())
	for i := range bs {
		rec := t.Record(i)
		bs[i] = Block{
			Start:       lay.U32(rec, 0),
			Finish:      lay.U32(rec, 1),
			Count:       lay.U32(rec, 2),
			Bitmask:     lay.U32(rec, 3),
			SignBitmask: lay.U32(rec, 4),
			Military:    lay.U8(rec, 5) != 0,
			Country:     lay.String(rec, 6),
		}
	}
	return New(bs), nil
}

// Classify returns the most specific block owning addr. The scan is
// first-match-wins over the descending-specificity list; a miss returns
// ok=false.
func (t *Table) Classify(addr uint32) (Block, bool) {
	for i := range t.blocks {
		b := &t.blocks[i]
		if addr&b.SignBitmask == b.Bitmask {
			return *b, true
		}
	}
	return Block{}, false
}

// Len returns the number of blocks.
func (t *Table) Len() int { return len(t.blocks) }

// Block returns block i in specificity order.
func (t *Table) Block(i int) Block { return t.blocks[i] }

// NumMilitary returns the number of military blocks.
func (t *Table) NumMilitary() int {
	n := 0
	for i := range t.blocks {
		if t.blocks[i].Military {
			n++
		}
	}
	return n
}
