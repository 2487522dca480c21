package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/imgajeed76/datagrid/internal/source"
	"github.com/imgajeed76/datagrid/internal/ui"
	"github.com/imgajeed76/datagrid/internal/util"
	"github.com/spf13/cobra"
)

func newViewCmd() *cobra.Command {
	var f viewFlags
	var format, charset string

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Show a CSV, TSV, JSON or YAML file as a table",
		Long: `Load a file and show it as a table.

The format follows the file extension unless --format is given. Use - to
read standard input (requires --format). JSON and YAML inputs must be a
list of objects; CSV and TSV inputs start with a header row.

Examples:
  datagrid view people.csv
  datagrid view people.csv --sort age:desc --filter city=oslo
  datagrid view people.json --key id --hide notes --page 3
  cat data.tsv | datagrid view - --format tsv --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(args[0], format, charset, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: csv, tsv, json, yaml (default: from extension)")
	cmd.Flags().StringVar(&charset, "charset", "", "Charset for CSV/TSV bytes that are not UTF-8 (default: input.charset)")
	addViewFlags(cmd, &f)

	return cmd
}

func runView(path, format, charset string, f viewFlags) error {
	ff, err := source.ParseFormat(format)
	if err != nil {
		return util.InvalidArgumentError("--format", format, "datagrid view --format csv "+path)
	}
	cs, err := parseCharset(charset, path)
	if err != nil {
		return err
	}

	tbl, err := loadTable(path, ff, cs)
	if err != nil {
		return err
	}
	return showTable(tbl.Name, tbl, f)
}

// parseCharset resolves --charset, falling back to input.charset.
func parseCharset(flag, path string) (source.Charset, error) {
	name := flag
	if name == "" {
		name = cfg.Input.Charset
	}
	cs, err := source.ParseCharset(name)
	if err != nil {
		return "", util.InvalidArgumentError("--charset", name, "datagrid view --charset iso-8859-15 "+path).Wrap(err)
	}
	return cs, nil
}

// loadTable reads a file behind a spinner.
func loadTable(path string, format source.Format, cs source.Charset) (*source.Table, error) {
	sp := ui.NewSpinner("Loading " + filepath.Base(path))
	sp.Start()

	tbl, err := source.Load(path, format, cs)
	if err != nil {
		sp.Error("Failed to load " + path)
		return nil, util.LoadError(path, err)
	}

	sp.Success(fmt.Sprintf("Loaded %d rows", len(tbl.Records)))
	slog.Debug("table loaded", "path", path, "columns", len(tbl.Columns), "rows", len(tbl.Records))
	return tbl, nil
}
