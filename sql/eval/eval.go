package eval

import (
	"math"
	"regexp"
	"strings"

	"github.com/sqldom/sqldom/pkg/errors"
	"github.com/sqldom/sqldom/sql/parser"
)

// Record is the evaluation context: a flat, externally supplied mapping
// from case-sensitive field name to scalar value. The evaluator never
// mutates it. A field absent from the record and a field stored as Null
// behave identically: both evaluate to Null.
type Record map[string]Value

func (r Record) lookup(name string) Value {
	if r == nil {
		return Null()
	}
	return r[name]
}

// Evaluate walks the expression against the record and returns a single
// scalar. A nil record is legal and resolves every field lookup to Null,
// which supports static evaluation of constant expressions such as
// DEFAULT clauses. Aggregate functions are rejected here; grouped
// evaluation goes through EvaluateGrouped.
func Evaluate(expr parser.Expression, rec Record) (Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return evalLiteral(e, rec), nil
	case *parser.Unary:
		return evalUnary(e, rec)
	case *parser.Binary:
		return evalBinary(e, rec)
	case *parser.FunctionCall:
		if e.Fn.IsAggregate() {
			return Null(), errors.Newf(ErrAggregateWithoutGroup,
				"aggregate function %s requires a grouping context", e.Fn)
		}
		return evalFunctionCall(e, rec)
	case *parser.Between:
		return evalBetween(e, rec)
	case *parser.In:
		return evalIn(e, rec)
	case *parser.Case:
		return evalCase(e, rec)
	case *parser.ForeignKeyRef:
		// records are flat; try the qualified name first, then the bare
		// column
		if rec != nil {
			if v, ok := rec[e.Table+"."+e.Column]; ok {
				return v, nil
			}
		}
		return rec.lookup(e.Column), nil
	}
	return Null(), errors.Newf(errors.CommonInternal, "unsupported expression node %T", expr)
}

func evalLiteral(e *parser.Literal, rec Record) Value {
	switch e.Kind {
	case parser.LiteralNull:
		return Null()
	case parser.LiteralInt:
		return Int(e.Int)
	case parser.LiteralFloat:
		return Float(e.Float)
	case parser.LiteralText:
		return Text(e.Text)
	case parser.LiteralIdent:
		return rec.lookup(e.Text)
	}
	return Null()
}

func evalUnary(e *parser.Unary, rec Record) (Value, error) {
	operand, err := Evaluate(e.Operand, rec)
	if err != nil {
		return Null(), err
	}
	if operand.IsNull() {
		return Null(), nil
	}

	switch e.Op {
	case parser.UnaryNot:
		b, err := operand.AsBool()
		if err != nil {
			return Null(), err
		}
		return Bool(!b), nil
	case parser.UnaryMinus:
		if operand.isIntegral() {
			i, err := operand.AsInt()
			if err != nil {
				return Null(), err
			}
			return Int(-i), nil
		}
		f, err := operand.AsFloat()
		if err != nil {
			return Null(), err
		}
		return Float(-f), nil
	case parser.UnaryPlus:
		return operand, nil
	}
	return Null(), errors.Newf(errors.CommonInternal, "unsupported unary operator")
}

func evalBinary(e *parser.Binary, rec Record) (Value, error) {
	// AND and OR short-circuit left to right with three-valued logic so a
	// right operand that would error on a null field is never touched
	switch e.Op {
	case parser.OpAnd:
		return evalAnd(e, rec)
	case parser.OpOr:
		return evalOr(e, rec)
	}

	left, err := Evaluate(e.Left, rec)
	if err != nil {
		return Null(), err
	}
	right, err := Evaluate(e.Right, rec)
	if err != nil {
		return Null(), err
	}

	switch e.Op {
	case parser.OpIs:
		return evalIs(left, right), nil
	case parser.OpIsNot:
		v := evalIs(left, right)
		b, _ := v.AsBool()
		return Bool(!b), nil
	}

	// every remaining operator propagates null
	if left.IsNull() || right.IsNull() {
		return Null(), nil
	}

	switch e.Op {
	case parser.OpAdd, parser.OpSub, parser.OpMul, parser.OpDiv, parser.OpMod:
		return evalArithmetic(e.Op, left, right)
	case parser.OpConcat:
		return Text(left.AsText() + right.AsText()), nil
	case parser.OpEq, parser.OpNe, parser.OpLt, parser.OpGt, parser.OpLe, parser.OpGe:
		cmp, err := left.Compare(right)
		if err != nil {
			return Null(), err
		}
		switch e.Op {
		case parser.OpEq:
			return Bool(cmp == 0), nil
		case parser.OpNe:
			return Bool(cmp != 0), nil
		case parser.OpLt:
			return Bool(cmp < 0), nil
		case parser.OpGt:
			return Bool(cmp > 0), nil
		case parser.OpLe:
			return Bool(cmp <= 0), nil
		default:
			return Bool(cmp >= 0), nil
		}
	case parser.OpLike:
		return evalLike(left, right, false)
	case parser.OpNotLike:
		return evalLike(left, right, true)
	case parser.OpGlob:
		return evalGlob(left, right)
	case parser.OpRegexp:
		re, err := regexp.Compile(right.AsText())
		if err != nil {
			return Null(), errors.Wrapf(ErrInvalidPattern, err, "invalid REGEXP pattern %q", right.AsText())
		}
		return Bool(re.MatchString(left.AsText())), nil
	case parser.OpMatch:
		// MATCH without a full-text index degrades to plain equality
		return Bool(left.Equal(right)), nil
	}
	return Null(), errors.Newf(errors.CommonInternal, "unsupported binary operator")
}

func evalAnd(e *parser.Binary, rec Record) (Value, error) {
	left, err := Evaluate(e.Left, rec)
	if err != nil {
		return Null(), err
	}
	if !left.IsNull() {
		if b, err := left.AsBool(); err != nil {
			return Null(), err
		} else if !b {
			return Bool(false), nil
		}
	}
	right, err := Evaluate(e.Right, rec)
	if err != nil {
		return Null(), err
	}
	if !right.IsNull() {
		if b, err := right.AsBool(); err != nil {
			return Null(), err
		} else if !b {
			return Bool(false), nil
		}
	}
	if left.IsNull() || right.IsNull() {
		return Null(), nil
	}
	return Bool(true), nil
}

func evalOr(e *parser.Binary, rec Record) (Value, error) {
	left, err := Evaluate(e.Left, rec)
	if err != nil {
		return Null(), err
	}
	if !left.IsNull() {
		if b, err := left.AsBool(); err != nil {
			return Null(), err
		} else if b {
			return Bool(true), nil
		}
	}
	right, err := Evaluate(e.Right, rec)
	if err != nil {
		return Null(), err
	}
	if !right.IsNull() {
		if b, err := right.AsBool(); err != nil {
			return Null(), err
		} else if b {
			return Bool(true), nil
		}
	}
	if left.IsNull() || right.IsNull() {
		return Null(), nil
	}
	return Bool(false), nil
}

// evalIs is null-safe equality: NULL IS NULL is true, NULL IS x is false
func evalIs(left, right Value) Value {
	if left.IsNull() && right.IsNull() {
		return Bool(true)
	}
	if left.IsNull() || right.IsNull() {
		return Bool(false)
	}
	return Bool(left.Equal(right))
}

func evalArithmetic(op parser.BinaryOp, left, right Value) (Value, error) {
	// + on two text operands is string concatenation
	if op == parser.OpAdd && left.Kind() == KindText && right.Kind() == KindText &&
		!(left.isNumeric() && right.isNumeric()) {
		return Text(left.AsText() + right.AsText()), nil
	}

	if left.isIntegral() && right.isIntegral() {
		a, err := left.AsInt()
		if err != nil {
			return Null(), err
		}
		b, err := right.AsInt()
		if err != nil {
			return Null(), err
		}
		switch op {
		case parser.OpAdd:
			return Int(a + b), nil
		case parser.OpSub:
			return Int(a - b), nil
		case parser.OpMul:
			return Int(a * b), nil
		case parser.OpDiv:
			if b == 0 {
				return Null(), nil
			}
			return Int(a / b), nil
		case parser.OpMod:
			if b == 0 {
				return Null(), nil
			}
			return Int(a % b), nil
		}
	}

	a, err := left.AsFloat()
	if err != nil {
		return Null(), err
	}
	b, err := right.AsFloat()
	if err != nil {
		return Null(), err
	}
	switch op {
	case parser.OpAdd:
		return Float(a + b), nil
	case parser.OpSub:
		return Float(a - b), nil
	case parser.OpMul:
		return Float(a * b), nil
	case parser.OpDiv:
		if b == 0 {
			return Null(), nil
		}
		return Float(a / b), nil
	case parser.OpMod:
		if b == 0 {
			return Null(), nil
		}
		return Float(math.Mod(a, b)), nil
	}
	return Null(), errors.Newf(errors.CommonInternal, "unsupported arithmetic operator")
}

// evalLike compiles the pattern into a case-insensitive regular expression
// with % matching any run and _ matching a single character
func evalLike(left, right Value, negate bool) (Value, error) {
	pattern := likeToRegexp(right.AsText())
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Null(), errors.Wrapf(ErrInvalidPattern, err, "invalid LIKE pattern %q", right.AsText())
	}
	matched := re.MatchString(left.AsText())
	if negate {
		matched = !matched
	}
	return Bool(matched), nil
}

func likeToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}

// evalGlob matches shell-style globs: * and ? wildcards plus [...] classes,
// case-sensitive
func evalGlob(left, right Value) (Value, error) {
	pattern := globToRegexp(right.AsText())
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Null(), errors.Wrapf(ErrInvalidPattern, err, "invalid GLOB pattern %q", right.AsText())
	}
	return Bool(re.MatchString(left.AsText())), nil
}

func globToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString("(?s)^")
	inClass := false
	for _, r := range pattern {
		switch {
		case inClass:
			if r == ']' {
				inClass = false
			}
			b.WriteRune(r)
		case r == '*':
			b.WriteString(".*")
		case r == '?':
			b.WriteString(".")
		case r == '[':
			inClass = true
			b.WriteRune(r)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}

// evalBetween evaluates the test value once and compares it inclusively
// against both bounds. A null test value or bound stays null; Negate flips
// only a non-null result.
func evalBetween(e *parser.Between, rec Record) (Value, error) {
	test, err := Evaluate(e.Test, rec)
	if err != nil {
		return Null(), err
	}
	low, err := Evaluate(e.Low, rec)
	if err != nil {
		return Null(), err
	}
	high, err := Evaluate(e.High, rec)
	if err != nil {
		return Null(), err
	}
	if test.IsNull() || low.IsNull() || high.IsNull() {
		return Null(), nil
	}

	cmpLow, err := test.Compare(low)
	if err != nil {
		return Null(), err
	}
	cmpHigh, err := test.Compare(high)
	if err != nil {
		return Null(), err
	}
	result := cmpLow >= 0 && cmpHigh <= 0
	if e.Negate {
		result = !result
	}
	return Bool(result), nil
}

// evalIn evaluates the test value once and scans the list. Per SQL
// three-valued logic, a non-matching list that contained a null yields
// null rather than false.
func evalIn(e *parser.In, rec Record) (Value, error) {
	test, err := Evaluate(e.Test, rec)
	if err != nil {
		return Null(), err
	}
	if test.IsNull() {
		return Null(), nil
	}

	sawNull := false
	for _, item := range e.List {
		v, err := Evaluate(item, rec)
		if err != nil {
			return Null(), err
		}
		if v.IsNull() {
			sawNull = true
			continue
		}
		if test.Equal(v) {
			return Bool(!e.Negate), nil
		}
	}
	if sawNull {
		return Null(), nil
	}
	return Bool(e.Negate), nil
}

// evalCase returns the first matching THEN in declaration order, then the
// ELSE value, then null. A null subject matches no WHEN.
func evalCase(e *parser.Case, rec Record) (Value, error) {
	var subject Value
	if e.Subject != nil {
		v, err := Evaluate(e.Subject, rec)
		if err != nil {
			return Null(), err
		}
		subject = v
	}

	for _, arm := range e.Whens {
		when, err := Evaluate(arm.When, rec)
		if err != nil {
			return Null(), err
		}
		matched := false
		if e.Subject != nil {
			matched = subject.Equal(when)
		} else if !when.IsNull() {
			b, err := when.AsBool()
			if err != nil {
				return Null(), err
			}
			matched = b
		}
		if matched {
			return Evaluate(arm.Then, rec)
		}
	}

	if e.Else != nil {
		return Evaluate(e.Else, rec)
	}
	return Null(), nil
}

func evalFunctionCall(e *parser.FunctionCall, rec Record) (Value, error) {
	min, max := e.Fn.ArgRange()
	if len(e.Args) < min || (max >= 0 && len(e.Args) > max) {
		return Null(), errors.Newf(ErrWrongArgCount,
			"wrong number of arguments for %s: got %d", e.Fn, len(e.Args))
	}

	// arguments evaluate eagerly, left to right
	args := make([]Value, len(e.Args))
	for i, arg := range e.Args {
		v, err := Evaluate(arg, rec)
		if err != nil {
			return Null(), err
		}
		args[i] = v
	}
	return dispatchFunction(e.Fn, args)
}
