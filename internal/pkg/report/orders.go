package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/project-ambr/ambr/internal/pkg/logger"
)

const ordersExt = ".txt"

// ErrNoOrdersFile is returned when the upload directory holds no orders export.
var ErrNoOrdersFile = errors.New("no .txt file found in the upload folder")

// FindOrdersFile returns the first .txt file of dir in lexical order.
func FindOrdersFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ordersExt) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoOrdersFile, dir)
	}
	sort.Strings(names)

	return filepath.Join(dir, names[0]), nil
}

// LoadOrders reads a tab-separated orders export.
func LoadOrders(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open orders file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse orders file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("orders file %s is empty", path)
	}

	t := FromRecords(records)
	for _, col := range []string{colSKU, colOrderID} {
		if !t.Has(col) {
			return nil, fmt.Errorf("orders file %s has no %q column", path, col)
		}
	}
	logger.Infof("Loaded %d order line(s) from %s\n", t.Len(), filepath.Base(path), logger.VerbosityLevelDebug)

	return t, nil
}
