package eval

import "github.com/sqldom/sqldom/pkg/errors"

// Evaluation error codes, distinct from the parser taxonomy. The evaluator
// never logs; errors surface to the caller.
var (
	ErrCoercion              = errors.MustNewCode("eval.value.coercion_failed")
	ErrWrongArgCount         = errors.MustNewCode("eval.function.wrong_arg_count")
	ErrUnknownFunction       = errors.MustNewCode("eval.function.unknown")
	ErrAggregateWithoutGroup = errors.MustNewCode("eval.function.aggregate_without_group")
	ErrInvalidPattern        = errors.MustNewCode("eval.pattern.invalid")
)
