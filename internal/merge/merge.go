// Package merge locates same-schema CSV fragments under a dataset tree and
// concatenates them behind one shared header line.
//
// The header of the lexicographically-first fragment is kept; headers of
// later fragments are discarded without comparison. Schema consistency
// across fragments is an upstream guarantee, not something this package
// validates.
package merge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrNoFragments means a domain tree contained no matching fragment files.
var ErrNoFragments = errors.New("no csv fragments found")

// Fragment is one discovered source file.
type Fragment struct {
	Path string
	Size int64
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Find walks root recursively and returns every regular file whose base
// name matches glob, in lexicographic path order. Fragments compressed
// with zstd or gzip match with their compression suffix ignored.
func Find(root, glob string) ([]Fragment, error) {
	var frags []Fragment
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		name := d.Name()
		name = strings.TrimSuffix(name, ".zst")
		name = strings.TrimSuffix(name, ".gz")
		ok, err := filepath.Match(glob, name)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		frags = append(frags, Fragment{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(frags) == 0 {
		return nil, fmt.Errorf("%w: %s under %s", ErrNoFragments, glob, root)
	}
	// WalkDir is lexical per directory; make the overall order explicit.
	sort.Slice(frags, func(i, j int) bool { return frags[i].Path < frags[j].Path })
	return frags, nil
}

// readFragment reads a whole fragment, decompressing .zst and .gz
// transparently. Fragments are small by construction.
func readFragment(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".zst":
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		plain, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		return plain, nil
	case ".gz":
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		defer gr.Close()
		plain, err := io.ReadAll(gr)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		return plain, nil
	}
	return data, nil
}

// splitHeader strips a UTF-8 BOM and splits a fragment into its header
// line (newline included) and the remaining data rows.
func splitHeader(data []byte) (header, rest []byte) {
	data = bytes.TrimPrefix(data, utf8BOM)
	idx := bytes.IndexByte(data, '\n')
	if idx < 0 {
		return data, nil
	}
	return data[:idx+1], data[idx+1:]
}

// WriteMerged concatenates the fragments' data rows behind the first
// fragment's header line.
func WriteMerged(w io.Writer, frags []Fragment) error {
	for i, fr := range frags {
		data, err := readFragment(fr.Path)
		if err != nil {
			return err
		}
		header, rest := splitHeader(data)
		if i == 0 {
			if _, err := w.Write(header); err != nil {
				return err
			}
			if len(header) > 0 && header[len(header)-1] != '\n' {
				if _, err := w.Write([]byte{'\n'}); err != nil {
					return err
				}
			}
		}
		if len(rest) == 0 {
			continue
		}
		if _, err := w.Write(rest); err != nil {
			return err
		}
		// A fragment without a trailing newline must not fuse its last
		// row with the next fragment's first row.
		if rest[len(rest)-1] != '\n' {
			if _, err := w.Write([]byte{'\n'}); err != nil {
				return err
			}
		}
	}
	return nil
}

// MergeFile merges all fragments under root matching glob into outPath and
// returns the fragment count.
func MergeFile(root, glob, outPath string) (int, error) {
	frags, err := Find(root, glob)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return 0, err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	if err := WriteMerged(f, frags); err != nil {
		f.Close()
		os.Remove(outPath)
		return 0, err
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		return 0, err
	}
	return len(frags), nil
}
