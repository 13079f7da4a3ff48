package blocks

import (
	"fmt"
	"strings"
)

// GenerateSource renders the sorted block list as a static Go array with a
// linear first-match lookup, for baking into a decoder that must not pay
// a table-load at startup.
func GenerateSource(t *Table, pkg string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `// Code generated by the standing-data compiler. DO NOT EDIT.
package %s

type codeBlock struct {
	start, finish, count uint32
	bitmask, signBitmask uint32
	military             bool
	country              string
}

// sortedBlocks is ordered by descending significant bitmask; the first
// match is the most specific.
var sortedBlocks = [...]codeBlock{
`, pkg)
	for i := 0; i < t.Len(); i++ {
		blk := t.Block(i)
		fmt.Fprintf(&b, "\t{0x%06X, 0x%06X, %7d, 0x%06X, 0x%06X, %t, %q},\n",
			blk.Start, blk.Finish, blk.Count, blk.Bitmask, blk.SignBitmask,
			blk.Military, blk.Country)
	}
	b.WriteString(`}

func findBlock(addr uint32) (codeBlock, bool) {
	for _, b := range sortedBlocks {
		if addr&b.signBitmask == b.bitmask {
			return b, true
		}
	}
	return codeBlock{}, false
}
`)
	return b.String()
}
