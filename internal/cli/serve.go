package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imgajeed76/datagrid/internal/config"
	"github.com/imgajeed76/datagrid/internal/source"
	"github.com/imgajeed76/datagrid/internal/ui/styles"
	"github.com/imgajeed76/datagrid/internal/util"
	"github.com/imgajeed76/datagrid/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var format, charset, key, addr string

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve a file as a JSON table API",
		Long: `Load a file and serve it over HTTP.

Every request carries the whole view state in its query string:

  GET /api/model?filter.city=oslo&sort=age:desc&page=0&page_size=25
  GET /api/model?viewport=600&scroll=3500     # virtual window
  GET /api/columns
  GET /api/columns/{id}/options
  GET /healthz

Examples:
  datagrid serve people.csv
  datagrid serve people.json --key id --addr :9000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}
			return runServe(args[0], format, charset, key, addr)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: csv, tsv, json, yaml (default: from extension)")
	cmd.Flags().StringVar(&charset, "charset", "", "Charset for CSV/TSV bytes that are not UTF-8 (default: input.charset)")
	cmd.Flags().StringVar(&key, "key", "", "Column whose values identify rows (default: row number)")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")

	return cmd
}

func runServe(path, format, charset, key, addr string) error {
	ff, err := source.ParseFormat(format)
	if err != nil {
		return util.InvalidArgumentError("--format", format, "datagrid serve --format csv "+path)
	}
	cs, err := parseCharset(charset, path)
	if err != nil {
		return err
	}
	tbl, err := loadTable(path, ff, cs)
	if err != nil {
		return err
	}
	rows, err := gridRows(tbl, key)
	if err != nil {
		return err
	}

	opts := config.GridOptions[source.Record](cfg.Grid)
	opts.Styles = source.ValueStyles()
	srv, err := web.NewServer(tbl.Name, rows, tbl.GridColumns(source.ColumnOptions{}), opts, slog.Default())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(addr) }()

	fmt.Println(styles.SuccessMsg(fmt.Sprintf("Serving %s on http://%s", tbl.Name, addr)))
	fmt.Println(styles.Mute("  Press Ctrl+C to stop"))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return util.NewError("Server stopped").WithContext(addr).Wrap(err)
	case <-ctx.Done():
	}

	slog.Info("shutting down", "addr", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
