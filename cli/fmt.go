package cli

import (
	"github.com/spf13/cobra"
	"github.com/sqldom/sqldom/pkg/errors"
	"github.com/sqldom/sqldom/sql/parser"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [sql]",
	Short: "Reprint SQL statements in canonical form",
	Long: `Parse SQL statements and print them back from the document object model:
canonical keyword casing, normalized whitespace, explicit grouping.

Examples:
  sqldom fmt "select a,b from t where a>1 order by b"
  sqldom fmt "insert into t (a) values (1); update t set a = 2"`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d := getDisplayFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	if err := checkInputSize(loadToolConfig(), args[0]); err != nil {
		d.Error("%v", err)
		return err
	}

	stmts, err := parser.Parse(args[0])
	if err != nil {
		if logger != nil {
			logger.Error().Str("cmd", "fmt").Err(err).Msg("Parse failed")
		}
		d.Error("parse error [%s]: %v", errors.GetCode(err), err)
		return err
	}

	for _, stmt := range stmts {
		cmd.Println(parser.Format(stmt) + ";")
	}
	return nil
}
