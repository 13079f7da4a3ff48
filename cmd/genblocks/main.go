package main

import (
	"flag"
	"os"

	"github.com/adsbtools/standingdata/internal/blocks"
	"github.com/adsbtools/standingdata/internal/logx"
)

func main() {
	var (
		blocksPath = flag.String("blocks", "./results/code-blocks.bin", "Code-blocks binary table")
		outPath    = flag.String("out", "code_blocks_gen.go", "Output Go source file")
		pkg        = flag.String("pkg", "main", "Package name for the generated source")
	)
	flag.Parse()

	logger := logx.NewLogger()

	t, err := blocks.Load(*blocksPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load code-blocks table")
	}

	src := blocks.GenerateSource(t, *pkg)
	if err := os.WriteFile(*outPath, []byte(src), 0644); err != nil {
		logger.Fatal().Err(err).Str("path", *outPath).Msg("write generated source")
	}

	logger.Info().
		Int("blocks", t.Len()).
		Int("military", t.NumMilitary()).
		Str("path", *outPath).
		Msg("wrote static block array")
}
