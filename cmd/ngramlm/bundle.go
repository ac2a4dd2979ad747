package main

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

// readBundle gob-decodes the file at path into dst (a pointer).
func readBundle(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeBundle gob-encodes src and writes it to path, creating or
// truncating the file.
func writeBundle(path string, src any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(src); err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// searchFiles expands a list of paths, recursing into directories, and
// returns the flattened list of regular files. Grounded on the original
// Rust CLI's search_files helper (cli/mod.rs).
func searchFiles(paths []string) ([]string, error) {
	var out []string
	stack := append([]string(nil), paths...)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			entries, err := os.ReadDir(p)
			if err != nil {
				return nil, fmt.Errorf("read dir %s: %w", p, err)
			}
			for _, e := range entries {
				stack = append(stack, p+string(os.PathSeparator)+e.Name())
			}
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
