package layout

import "fmt"

// The four standing-data domains. Column indices are positions in the
// upstream CSV schema; field order is the wire contract.
var (
	// Aircraft is 66 bytes: icao_addr[6] registration[10] manufacturer[10] model[40].
	Aircraft = &Layout{
		Domain: "aircraft",
		Glob:   "*.csv",
		Fields: []Field{
			{Name: "icao_addr", Col: 0, Width: 6, Kind: Chars},
			{Name: "registration", Col: 1, Width: 10, Kind: Chars},
			{Name: "manufacturer", Col: 2, Width: 10, Kind: Chars},
			{Name: "model", Col: 5, Width: 40, Kind: Chars},
		},
		KeyField: 0,
	}

	// Airports is 77 bytes: icao[4] iata[3] full_name[40] location[20]
	// country[2] latitude[4] longitude[4].
	Airports = &Layout{
		Domain: "airports",
		Glob:   "*.csv",
		Fields: []Field{
			{Name: "icao", Col: 2, Width: 4, Kind: Chars},
			{Name: "iata", Col: 3, Width: 3, Kind: Chars},
			{Name: "full_name", Col: 1, Width: 40, Kind: Chars},
			{Name: "location", Col: 4, Width: 20, Kind: Chars},
			{Name: "country", Col: 5, Width: 2, Kind: Chars},
			{Name: "latitude", Col: 6, Width: 4, Kind: F32},
			{Name: "longitude", Col: 7, Width: 4, Kind: F32},
		},
		KeyField: 0,
	}

	// Routes is 28 bytes: call_sign[8] airports[20].
	Routes = &Layout{
		Domain: "routes",
		Glob:   "*.csv",
		Fields: []Field{
			{Name: "call_sign", Col: 0, Width: 8, Kind: Chars},
			{Name: "airports", Col: 4, Width: 20, Kind: Chars},
		},
		KeyField: 0,
	}

	// CodeBlocks is 23 bytes: start finish count bitmask sign_bitmask
	// is_military country_iso[2]. The upstream dataset ships it as a single
	// CSV rather than a fragment tree.
	CodeBlocks = &Layout{
		Domain:     "code-blocks",
		SingleFile: "code-blocks/schema-01/code-blocks.csv",
		Fields: []Field{
			{Name: "start", Col: 0, Width: 4, Kind: U32Hex},
			{Name: "finish", Col: 1, Width: 4, Kind: U32Hex},
			{Name: "count", Col: 2, Width: 4, Kind: U32Dec},
			{Name: "bitmask", Col: 3, Width: 4, Kind: U32Hex},
			{Name: "sign_bitmask", Col: 4, Width: 4, Kind: U32Hex},
			{Name: "is_military", Col: 5, Width: 1, Kind: U8Dec},
			{Name: "country_iso", Col: 6, Width: 2, Kind: Chars},
		},
		KeyField:   0,
		NumericKey: true,
	}
)

// Registry returns the domains in compile order.
func Registry() []*Layout {
	return []*Layout{Aircraft, Airports, Routes, CodeBlocks}
}

// ByDomain looks a layout up by domain name.
func ByDomain(name string) (*Layout, error) {
	for _, l := range Registry() {
		if l.Domain == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("unknown domain %q", name)
}
