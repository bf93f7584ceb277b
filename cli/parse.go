package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sqldom/sqldom/display"
	"github.com/sqldom/sqldom/pkg/errors"
	"github.com/sqldom/sqldom/sql/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [sql]",
	Short: "Parse SQL statements and report their structure",
	Long: `Parse one or more semicolon-separated SQL statements and list what was
recognized. Parsing stops at the first malformed statement; everything
before it is still reported.

Examples:
  sqldom parse "SELECT name FROM users WHERE age > 21"
  sqldom parse "CREATE TABLE t (id INTEGER PRIMARY KEY); INSERT INTO t VALUES (1)"`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

type parseOptions struct {
	json bool
}

var parseOpts = &parseOptions{}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseOpts.json, "json", false, "emit statements as JSON")
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d := getDisplayFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	if logger != nil {
		logger.Info().Str("cmd", "parse").Str("sql", args[0]).Msg("Parsing input")
	}

	if err := checkInputSize(loadToolConfig(), args[0]); err != nil {
		d.Error("%v", err)
		return err
	}

	stmts, err := parser.Parse(args[0])

	if parseOpts.json {
		data := display.TableData{Headers: []string{"kind", "sql"}}
		for _, stmt := range stmts {
			data.Rows = append(data.Rows, []interface{}{statementKind(stmt), parser.Format(stmt)})
		}
		if rerr := d.Table(data).WithFormat(display.FormatJSON).Render(); rerr != nil {
			return rerr
		}
	} else {
		for i, stmt := range stmts {
			d.Success("statement %d: %s", i+1, statementKind(stmt))
		}
	}

	if err != nil {
		if logger != nil {
			logger.Error().Str("cmd", "parse").Err(err).Msg("Parse failed")
		}
		d.Error("parse error [%s]: %v", errors.GetCode(err), err)
		return err
	}

	if !parseOpts.json {
		d.Info("%d statement(s) parsed", len(stmts))
	}
	return nil
}

func statementKind(stmt parser.Statement) string {
	switch s := stmt.(type) {
	case *parser.SelectStmt:
		return "SELECT"
	case *parser.InsertStmt:
		return fmt.Sprintf("INSERT INTO %s", s.Table)
	case *parser.UpdateStmt:
		return fmt.Sprintf("UPDATE %s", s.Table)
	case *parser.DeleteStmt:
		return fmt.Sprintf("DELETE FROM %s", s.Table)
	case *parser.CreateTableStmt:
		return fmt.Sprintf("CREATE TABLE %s", s.Name)
	case *parser.CreateIndexStmt:
		return fmt.Sprintf("CREATE INDEX %s", s.Name)
	case *parser.CreateViewStmt:
		return fmt.Sprintf("CREATE VIEW %s", s.Name)
	case *parser.CreateTriggerStmt:
		return fmt.Sprintf("CREATE TRIGGER %s", s.Name)
	case *parser.AlterTableStmt:
		return fmt.Sprintf("ALTER TABLE %s", s.Table)
	case *parser.DropStmt:
		return fmt.Sprintf("DROP %s", s.Name)
	case *parser.TransactionStmt:
		return "TRANSACTION"
	}
	return fmt.Sprintf("%T", stmt)
}
