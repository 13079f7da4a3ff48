package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/adsbtools/standingdata/internal/bintab"
	"github.com/adsbtools/standingdata/internal/blocks"
	"github.com/adsbtools/standingdata/internal/checker"
	"github.com/adsbtools/standingdata/internal/layout"
	"github.com/adsbtools/standingdata/internal/logx"
	"github.com/adsbtools/standingdata/internal/merge"
)

func main() {
	defaultData := "./standing-data"
	if env := os.Getenv("STANDINGDATA_DATA"); env != "" {
		defaultData = env
	}
	defaultOut := "./results"
	if env := os.Getenv("STANDINGDATA_OUT"); env != "" {
		defaultOut = env
	}

	var (
		dataDir  = flag.String("data", defaultData, "Root of the standing-data fragment tree")
		outDir   = flag.String("out", defaultOut, "Output directory for merged CSVs, tables and checkers")
		checkers = flag.Bool("checkers", true, "Emit a standalone checker program per domain")
		blocksGo = flag.String("blocks-go", "", "Also emit the sorted static block array to this Go file")
		list     = flag.Bool("list", false, "List fragments per domain and exit")
	)
	flag.Parse()

	logger := logx.NewLogger()

	if *list {
		if err := listFragments(*dataDir); err != nil {
			logger.Fatal().Err(err).Msg("list fragments")
		}
		return
	}

	startTime := time.Now()
	failed := 0
	for _, lay := range layout.Registry() {
		if err := compileDomain(logger, lay, *dataDir, *outDir, *checkers); err != nil {
			logger.Error().Err(err).Str("domain", lay.Domain).Msg("domain failed")
			failed++
		}
	}

	if *blocksGo != "" && failed == 0 {
		if err := emitBlocksSource(*blocksGo, filepath.Join(*outDir, "code-blocks.bin")); err != nil {
			logger.Error().Err(err).Str("path", *blocksGo).Msg("emit block array failed")
			failed++
		} else {
			logger.Info().Str("path", *blocksGo).Msg("wrote static block array")
		}
	}

	if failed > 0 {
		logger.Error().
			Int("failed", failed).
			Dur("elapsed", time.Since(startTime)).
			Msg("compile finished with failures")
		os.Exit(1)
	}
	logger.Info().Dur("elapsed", time.Since(startTime)).Msg("compile complete")
}

// compileDomain runs the whole pipeline for one domain: merge fragments,
// encode the binary table, verify it, and emit the checker source. Each
// domain fails independently; a failure here never stops the others.
func compileDomain(logger zerolog.Logger, lay *layout.Layout, dataDir, outDir string, genCheckers bool) error {
	start := time.Now()

	var csvPath string
	if lay.SingleFile != "" {
		// Single upstream CSV, no fragment tree to merge.
		csvPath = filepath.Join(dataDir, filepath.FromSlash(lay.SingleFile))
	} else {
		csvPath = filepath.Join(outDir, lay.Domain+".csv")
		n, err := merge.MergeFile(filepath.Join(dataDir, lay.Domain), lay.Glob, csvPath)
		if err != nil {
			return err
		}
		logger.Info().Str("domain", lay.Domain).Int("fragments", n).Str("csv", csvPath).Msg("merged")
	}

	binPath := filepath.Join(outDir, lay.Domain+".bin")
	count, err := bintab.EncodeCSV(csvPath, lay, binPath)
	if err != nil {
		return err
	}

	rep, err := checker.Check(binPath, lay)
	if err != nil {
		return err
	}
	if rep.Violations > 0 {
		logger.Warn().
			Str("domain", lay.Domain).
			Int("violations", rep.Violations).
			Msg("key field is not sorted ascending")
	}

	if genCheckers {
		src, err := checker.Generate(lay, binPath, count)
		if err != nil {
			return err
		}
		checkDir := filepath.Join(outDir, "check-"+lay.Domain)
		if err := os.MkdirAll(checkDir, 0755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(checkDir, "main.go"), []byte(src), 0644); err != nil {
			return err
		}
	}

	logger.Info().
		Str("domain", lay.Domain).
		Int("records", count).
		Int("record_len", lay.RecordLen()).
		Int("violations", rep.Violations).
		Dur("elapsed", time.Since(start)).
		Str("bin", binPath).
		Msg("domain compiled")
	return nil
}

func emitBlocksSource(outPath, binPath string) error {
	t, err := blocks.Load(binPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte(blocks.GenerateSource(t, "main")), 0644)
}

// listFragments prints every discovered fragment per fragment-tree domain
// with a cumulative size, the quick sanity view of the dataset.
func listFragments(dataDir string) error {
	for _, lay := range layout.Registry() {
		if lay.SingleFile != "" {
			continue
		}
		frags, err := merge.Find(filepath.Join(dataDir, lay.Domain), lay.Glob)
		if err != nil {
			return err
		}
		var total int64
		fmt.Printf("%s:\n", lay.Domain)
		for _, fr := range frags {
			fmt.Printf("  %s\n", fr.Path)
			total += fr.Size
		}
		fmt.Printf("  %d fragments, %s\n\n", len(frags), niceSize(total))
	}
	return nil
}

func niceSize(n int64) string {
	const (
		oneKB = 1024
		oneMB = 1024 * 1024
	)
	switch {
	case n > oneMB:
		return fmt.Sprintf("%.2f MB", float64(n)/oneMB)
	case n > oneKB:
		return fmt.Sprintf("%.2f kB", float64(n)/oneKB)
	}
	return fmt.Sprintf("%d B", n)
}
