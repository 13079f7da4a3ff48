package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/adsbtools/standingdata/internal/blocks"
	"github.com/adsbtools/standingdata/internal/logx"
)

func main() {
	var (
		blocksPath = flag.String("blocks", "./results/code-blocks.bin", "Code-blocks binary table")
		random     = flag.Int("random", 0, "Also classify N random addresses")
	)
	flag.Parse()

	if flag.NArg() == 0 && *random == 0 {
		fmt.Fprintln(os.Stderr, "Usage: lookup [options] <hex-address>...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logx.NewLogger()

	t, err := blocks.Load(*blocksPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load code-blocks table")
	}
	logger.Info().
		Int("blocks", t.Len()).
		Int("military", t.NumMilitary()).
		Str("path", *blocksPath).
		Msg("table loaded")

	ok := true
	for _, arg := range flag.Args() {
		addr, err := parseAddr(arg)
		if err != nil {
			logger.Error().Err(err).Str("addr", arg).Msg("bad address")
			ok = false
			continue
		}
		classify(t, addr)
	}

	for i := 0; i < *random; i++ {
		classify(t, rand.Uint32N(0x800000))
	}

	if !ok {
		os.Exit(1)
	}
}

func classify(t *blocks.Table, addr uint32) {
	b, found := t.Classify(addr)
	if !found {
		fmt.Printf("%06X: unclassified\n", addr)
		return
	}
	fmt.Printf("%06X: country=%s military=%v range=0x%06X-0x%06X\n",
		addr, b.Country, b.Military, b.Start, b.Finish)
}

func parseAddr(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	u, err := strconv.ParseUint(s, 16, 32)
	return uint32(u), err
}
