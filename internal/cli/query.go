package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/imgajeed76/datagrid/internal/source"
	"github.com/imgajeed76/datagrid/internal/ui"
	"github.com/imgajeed76/datagrid/internal/util"
	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	var f viewFlags
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "query <database> <sql>",
		Short: "Show the result of a SQL query as a table",
		Long: `Run a read-only SQL query and show the result as a table.

The database is a PostgreSQL URL (postgres:// or postgresql://) or the
path of a SQLite database file. The query runs on a read-only connection
(a read-only transaction on PostgreSQL), so statements that modify data
fail, including ones after the first in a multi-statement query.

Examples:
  datagrid query postgres://localhost/shop "SELECT * FROM orders"
  datagrid query app.db "SELECT id, name FROM users" --key id --sort name
  datagrid query app.db "SELECT * FROM events" --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(args[0], args[1], timeout, f)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Query timeout")
	addViewFlags(cmd, &f)

	return cmd
}

func runQuery(dsn, query string, timeout time.Duration, f viewFlags) error {
	if isWriteStatement(query) {
		return util.NewError("Only read queries are allowed").
			WithContext(query).
			WithMessage("datagrid shows query results and never modifies the database.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sp := ui.NewSpinner("Running query")
	sp.Start()

	start := time.Now()
	tbl, err := source.Query(ctx, dsn, query)
	if err != nil {
		sp.Error("Query failed")
		if errors.Is(err, source.ErrConnect) {
			return util.DatabaseConnectionError(dsn, err)
		}
		return util.QueryError(query, err)
	}

	sp.Success(fmt.Sprintf("%d rows in %s", len(tbl.Records), time.Since(start).Round(time.Millisecond)))
	slog.Debug("query done", "postgres", source.IsPostgresURL(dsn), "columns", len(tbl.Columns), "rows", len(tbl.Records))

	tbl.Name = "query"
	return showTable(queryTitle(query), tbl, f)
}

var writeKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "CREATE", "ALTER", "TRUNCATE", "REPLACE", "ATTACH", "VACUUM",
}

// isWriteStatement reports whether any statement in query starts with a
// data or schema modifying keyword. Comments are skipped. The database
// connection is read-only as well; this only gives the clearer error.
func isWriteStatement(query string) bool {
	for _, stmt := range sqlStatements(query) {
		fields := strings.Fields(stmt)
		if len(fields) == 0 {
			continue
		}
		first := strings.ToUpper(strings.TrimLeft(fields[0], "("))
		if slices.Contains(writeKeywords, first) {
			return true
		}
	}
	return false
}

// sqlStatements splits query on semicolons outside quotes, replacing
// -- and /* */ comments with a space.
func sqlStatements(query string) []string {
	var (
		stmts []string
		cur   strings.Builder
		quote byte
	)
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			cur.WriteByte(c)
		case strings.HasPrefix(query[i:], "--"):
			for i < len(query) && query[i] != '\n' {
				i++
			}
			cur.WriteByte(' ')
		case strings.HasPrefix(query[i:], "/*"):
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				i = len(query)
			} else {
				i += end + 3
			}
			cur.WriteByte(' ')
		case c == ';':
			stmts = append(stmts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(stmts, cur.String())
}

// queryTitle squeezes query onto one short line for the table header.
func queryTitle(query string) string {
	const maxLen = 60
	title := strings.Join(strings.Fields(query), " ")
	if r := []rune(title); len(r) > maxLen {
		title = string(r[:maxLen-1]) + "…"
	}
	return title
}
