package cli

import (
	"github.com/spf13/cobra"
	"github.com/sqldom/sqldom/pkg/errors"
	"github.com/sqldom/sqldom/sql/eval"
	"github.com/sqldom/sqldom/sql/parser"
	"github.com/tidwall/gjson"
)

var evalCmd = &cobra.Command{
	Use:   "eval [expression]",
	Short: "Evaluate an expression against a record",
	Long: `Parse a single expression and evaluate it. The record is supplied as a
flat JSON object mapping field names to scalar values; fields absent
from the record evaluate to NULL.

Examples:
  sqldom eval "1 + 2 * 3"
  sqldom eval "age BETWEEN 18 AND 65" --record '{"age": 30}'
  sqldom eval "upper(name) LIKE 'A%'" --record '{"name": "alice"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

type evalOptions struct {
	record string
}

var evalOpts = &evalOptions{}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&evalOpts.record, "record", "", "record as a flat JSON object")
}

func runEval(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d := getDisplayFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	if err := checkInputSize(loadToolConfig(), args[0]); err != nil {
		d.Error("%v", err)
		return err
	}

	expr, err := parser.ParseExpression(args[0])
	if err != nil {
		if logger != nil {
			logger.Error().Str("cmd", "eval").Err(err).Msg("Parse failed")
		}
		d.Error("parse error [%s]: %v", errors.GetCode(err), err)
		return err
	}

	rec, err := recordFromJSON(evalOpts.record)
	if err != nil {
		d.Error("invalid record: %v", err)
		return err
	}

	result, err := eval.Evaluate(expr, rec)
	if err != nil {
		if logger != nil {
			logger.Error().Str("cmd", "eval").Err(err).Msg("Evaluation failed")
		}
		d.Error("eval error [%s]: %v", errors.GetCode(err), err)
		return err
	}

	cmd.Println(result.String())
	return nil
}

// recordFromJSON converts a flat JSON object into an evaluation record
func recordFromJSON(raw string) (eval.Record, error) {
	if raw == "" {
		return nil, nil
	}
	if !gjson.Valid(raw) {
		return nil, errors.New(errors.CommonInvalidInput, "record is not valid JSON", nil)
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return nil, errors.New(errors.CommonInvalidInput, "record must be a JSON object", nil)
	}

	rec := make(eval.Record)
	var convErr error
	parsed.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.Null:
			rec[key.String()] = eval.Null()
		case gjson.True, gjson.False:
			rec[key.String()] = eval.Bool(value.Bool())
		case gjson.Number:
			// keep integers integral so arithmetic stays exact
			if f := value.Float(); f == float64(int64(f)) {
				rec[key.String()] = eval.Int(value.Int())
			} else {
				rec[key.String()] = eval.Float(f)
			}
		case gjson.String:
			rec[key.String()] = eval.Text(value.String())
		default:
			convErr = errors.Newf(errors.CommonInvalidInput,
				"record field %q must be a scalar", key.String())
			return false
		}
		return true
	})
	return rec, convErr
}
