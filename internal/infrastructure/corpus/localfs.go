// Package corpus discovers source documents on the local filesystem.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source lists the PDF files of a corpus directory. Listing order is stable
// so repeated ingestion runs see documents in the same order.
type Source struct {
	dir string
}

func New(dir string) (*Source, error) {
	if dir == "" {
		dir = "./corpus"
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat corpus dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path %s is not a directory", dir)
	}
	return &Source{dir: dir}, nil
}

func (s *Source) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(s.dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
