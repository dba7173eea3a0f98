package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/aneurisk/internal/common"
)

// Format is a flat-file encoding for record sets.
type Format string

// Supported file formats.
const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
	FormatJSON  Format = "json"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatExcel, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unsupported file extension %q", common.ErrInvalidConfig, filepath.Ext(path))
	}
}

// Open reads a CSV or Excel file according to its extension.
func Open(path string, schema Schema) (*Table, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatExcel:
		return ReadExcel(path, "", schema)
	case FormatJSON:
		return nil, fmt.Errorf("%w: json is an output-only format", common.ErrInvalidConfig)
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(f, schema)
}

// Save writes a CSV, Excel or JSON file according to its extension, creating
// the parent directory if needed.
func Save(path string, t *Table) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if format == FormatExcel {
		return WriteExcel(path, DefaultSheet, t)
	}

	f, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	write := WriteCSV
	if format == FormatJSON {
		write = WriteJSON
	}
	if err := write(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
