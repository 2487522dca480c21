package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a file input format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat guesses the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// ParseFormat validates a --format value. Empty means detect.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatCSV, FormatTSV, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Read decodes r in the given format. cs applies to CSV and TSV; JSON
// and YAML are UTF-8 by definition.
func Read(r io.Reader, f Format, cs Charset) (*Table, error) {
	switch f {
	case FormatCSV:
		return ReadCSV(r, ',', cs)
	case FormatTSV:
		return ReadCSV(r, '\t', cs)
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Load reads a file. An empty format is detected from the extension; the
// path "-" reads standard input and then requires a format.
func Load(path string, f Format, cs Charset) (*Table, error) {
	if f == "" {
		if path == "-" {
			return nil, fmt.Errorf("%w: --format is required for stdin", ErrUnknownFormat)
		}
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		f = detected
	}

	var r io.Reader = os.Stdin
	name := "stdin"
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	t, err := Read(r, f, cs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Name = name
	return t, nil
}
