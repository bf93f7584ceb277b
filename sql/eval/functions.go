package eval

import (
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sqldom/sqldom/pkg/errors"
	"github.com/sqldom/sqldom/sql/parser"
)

// builtins maps each non-aggregate function to its implementation.
// Arity is validated before dispatch; implementations may assume the
// argument count is within the declared range.
var builtins = map[parser.Function]func(args []Value) (Value, error){
	parser.FnUpper:     fnUpper,
	parser.FnLower:     fnLower,
	parser.FnLength:    fnLength,
	parser.FnSubstr:    fnSubstr,
	parser.FnReplace:   fnReplace,
	parser.FnTrim:      fnTrim,
	parser.FnLTrim:     fnLTrim,
	parser.FnRTrim:     fnRTrim,
	parser.FnInstr:     fnInstr,
	parser.FnHex:       fnHex,
	parser.FnQuote:     fnQuote,
	parser.FnAbs:       fnAbs,
	parser.FnRound:     fnRound,
	parser.FnRandom:    fnRandom,
	parser.FnCoalesce:  fnCoalesce,
	parser.FnIfNull:    fnCoalesce,
	parser.FnNullIf:    fnNullIf,
	parser.FnTypeOf:    fnTypeOf,
	parser.FnDate:      fnDate,
	parser.FnTime:      fnTime,
	parser.FnDateTime:  fnDateTime,
	parser.FnJulianDay: fnJulianDay,
	parser.FnStrfTime:  fnStrfTime,
	parser.FnUUID:      fnUUID,
	parser.FnCompare:   fnCompare,
}

func dispatchFunction(fn parser.Function, args []Value) (Value, error) {
	impl, ok := builtins[fn]
	if !ok {
		return Null(), errors.Newf(ErrUnknownFunction, "no implementation for function %s", fn)
	}
	return impl(args)
}

func fnUpper(args []Value) (Value, error) {
	if args[0].IsNull() {
		return Null(), nil
	}
	return Text(strings.ToUpper(args[0].AsText())), nil
}

func fnLower(args []Value) (Value, error) {
	if args[0].IsNull() {
		return Null(), nil
	}
	return Text(strings.ToLower(args[0].AsText())), nil
}

func fnLength(args []Value) (Value, error) {
	if args[0].IsNull() {
		return Null(), nil
	}
	return Int(int64(len([]rune(args[0].AsText())))), nil
}

// fnSubstr uses SQL's 1-based indexing. A negative start counts back from
// the end of the string.
func fnSubstr(args []Value) (Value, error) {
	if args[0].IsNull() || args[1].IsNull() {
		return Null(), nil
	}
	runes := []rune(args[0].AsText())
	start, err := args[1].AsInt()
	if err != nil {
		return Null(), err
	}

	length := int64(len(runes))
	if len(args) == 3 {
		if args[2].IsNull() {
			return Null(), nil
		}
		length, err = args[2].AsInt()
		if err != nil {
			return Null(), err
		}
	}

	switch {
	case start > 0:
		start--
	case start < 0:
		start += int64(len(runes))
		if start < 0 {
			length += start
			start = 0
		}
	}
	if start >= int64(len(runes)) || length <= 0 {
		return Text(""), nil
	}
	end := start + length
	if end > int64(len(runes)) {
		end = int64(len(runes))
	}
	return Text(string(runes[start:end])), nil
}

func fnReplace(args []Value) (Value, error) {
	if args[0].IsNull() || args[1].IsNull() || args[2].IsNull() {
		return Null(), nil
	}
	return Text(strings.ReplaceAll(args[0].AsText(), args[1].AsText(), args[2].AsText())), nil
}

func trimWith(args []Value, trim func(s, cutset string) string) (Value, error) {
	if args[0].IsNull() {
		return Null(), nil
	}
	cutset := " "
	if len(args) == 2 {
		if args[1].IsNull() {
			return Null(), nil
		}
		cutset = args[1].AsText()
	}
	return Text(trim(args[0].AsText(), cutset)), nil
}

func fnTrim(args []Value) (Value, error)  { return trimWith(args, strings.Trim) }
func fnLTrim(args []Value) (Value, error) { return trimWith(args, strings.TrimLeft) }
func fnRTrim(args []Value) (Value, error) { return trimWith(args, strings.TrimRight) }

// fnInstr returns the 1-based position of the first occurrence, 0 when
// absent
func fnInstr(args []Value) (Value, error) {
	if args[0].IsNull() || args[1].IsNull() {
		return Null(), nil
	}
	haystack := args[0].AsText()
	idx := strings.Index(haystack, args[1].AsText())
	if idx < 0 {
		return Int(0), nil
	}
	return Int(int64(len([]rune(haystack[:idx])) + 1)), nil
}

func fnHex(args []Value) (Value, error) {
	if args[0].IsNull() {
		return Null(), nil
	}
	return Text(strings.ToUpper(hex.EncodeToString([]byte(args[0].AsText())))), nil
}

// fnQuote renders the value as a SQL literal, doubling embedded quotes
func fnQuote(args []Value) (Value, error) {
	v := args[0]
	if v.IsNull() {
		return Text("NULL"), nil
	}
	if v.isNumeric() && v.Kind() != KindText {
		return Text(v.AsText()), nil
	}
	return Text("'" + strings.ReplaceAll(v.AsText(), "'", "''") + "'"), nil
}

func fnAbs(args []Value) (Value, error) {
	v := args[0]
	if v.IsNull() {
		return Null(), nil
	}
	if v.isIntegral() {
		i, err := v.AsInt()
		if err != nil {
			return Null(), err
		}
		if i < 0 {
			i = -i
		}
		return Int(i), nil
	}
	f, err := v.AsFloat()
	if err != nil {
		return Null(), err
	}
	if f < 0 {
		f = -f
	}
	return Float(f), nil
}

// fnRound rounds half away from zero, through decimal so results like
// round(2.675, 2) come out as 2.68 rather than a binary-float artifact
func fnRound(args []Value) (Value, error) {
	if args[0].IsNull() {
		return Null(), nil
	}
	f, err := args[0].AsFloat()
	if err != nil {
		return Null(), err
	}
	var places int64
	if len(args) == 2 {
		if args[1].IsNull() {
			return Null(), nil
		}
		places, err = args[1].AsInt()
		if err != nil {
			return Null(), err
		}
	}
	rounded, _ := decimal.NewFromFloat(f).Round(int32(places)).Float64()
	return Float(rounded), nil
}

func fnRandom(_ []Value) (Value, error) {
	return Int(rand.Int63()), nil
}

func fnCoalesce(args []Value) (Value, error) {
	for _, v := range args {
		if !v.IsNull() {
			return v, nil
		}
	}
	return Null(), nil
}

func fnNullIf(args []Value) (Value, error) {
	if args[0].Equal(args[1]) {
		return Null(), nil
	}
	return args[0], nil
}

func fnTypeOf(args []Value) (Value, error) {
	return Text(args[0].Kind().String()), nil
}

func dateArg(args []Value) (time.Time, bool, error) {
	if len(args) == 0 {
		return time.Now().UTC(), false, nil
	}
	if args[0].IsNull() {
		return time.Time{}, true, nil
	}
	if args[0].Kind() == KindText && strings.EqualFold(args[0].AsText(), "now") {
		return time.Now().UTC(), false, nil
	}
	t, err := args[0].AsTime()
	return t, false, err
}

func fnDate(args []Value) (Value, error) {
	t, null, err := dateArg(args)
	if null || err != nil {
		return Null(), err
	}
	return Text(t.Format("2006-01-02")), nil
}

func fnTime(args []Value) (Value, error) {
	t, null, err := dateArg(args)
	if null || err != nil {
		return Null(), err
	}
	return Text(t.Format("15:04:05")), nil
}

func fnDateTime(args []Value) (Value, error) {
	t, null, err := dateArg(args)
	if null || err != nil {
		return Null(), err
	}
	return Text(t.Format("2006-01-02 15:04:05")), nil
}

// fnJulianDay converts the instant to a fractional Julian day number
func fnJulianDay(args []Value) (Value, error) {
	t, null, err := dateArg(args)
	if null || err != nil {
		return Null(), err
	}
	return Float(float64(t.Unix())/86400.0 + 2440587.5), nil
}

// strftime verbs supported: %Y %m %d %H %M %S %s %%
func fnStrfTime(args []Value) (Value, error) {
	if args[0].IsNull() {
		return Null(), nil
	}
	format := args[0].AsText()
	t, null, err := dateArg(args[1:])
	if null || err != nil {
		return Null(), err
	}

	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 == len(format) {
			b.WriteByte(format[i])
			continue
		}
		i++
		switch format[i] {
		case 'Y':
			fmt.Fprintf(&b, "%04d", t.Year())
		case 'm':
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case 'd':
			fmt.Fprintf(&b, "%02d", t.Day())
		case 'H':
			fmt.Fprintf(&b, "%02d", t.Hour())
		case 'M':
			fmt.Fprintf(&b, "%02d", t.Minute())
		case 'S':
			fmt.Fprintf(&b, "%02d", t.Second())
		case 's':
			fmt.Fprintf(&b, "%d", t.Unix())
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(format[i])
		}
	}
	return Text(b.String()), nil
}

func fnUUID(_ []Value) (Value, error) {
	return Text(uuid.NewString()), nil
}

// fnCompare is a ternary conditional: compare(cond, a, b) returns a when
// cond is true and b otherwise. A null condition selects b.
func fnCompare(args []Value) (Value, error) {
	if args[0].IsNull() {
		return args[2], nil
	}
	cond, err := args[0].AsBool()
	if err != nil {
		return Null(), err
	}
	if cond {
		return args[1], nil
	}
	return args[2], nil
}

// EvaluateGrouped evaluates an expression against a group of records,
// giving aggregate functions their operand set. Aggregates fold over the
// whole group; any other sub-expression evaluates against the first
// record, or against a nil record when the group is empty.
func EvaluateGrouped(expr parser.Expression, group []Record) (Value, error) {
	switch e := expr.(type) {
	case *parser.FunctionCall:
		if e.Fn.IsAggregate() {
			return evalAggregate(e, group)
		}
	case *parser.Binary:
		left, err := EvaluateGrouped(e.Left, group)
		if err != nil {
			return Null(), err
		}
		right, err := EvaluateGrouped(e.Right, group)
		if err != nil {
			return Null(), err
		}
		return evalBinary(&parser.Binary{Op: e.Op, Left: liftValue(left), Right: liftValue(right)}, nil)
	case *parser.Unary:
		operand, err := EvaluateGrouped(e.Operand, group)
		if err != nil {
			return Null(), err
		}
		return evalUnary(&parser.Unary{Op: e.Op, Operand: liftValue(operand)}, nil)
	}

	var first Record
	if len(group) > 0 {
		first = group[0]
	}
	return Evaluate(expr, first)
}

// liftValue re-wraps a computed value as a literal node so the scalar
// operator paths can combine aggregate results
func liftValue(v Value) parser.Expression {
	switch v.Kind() {
	case KindNull:
		return &parser.Literal{Kind: parser.LiteralNull}
	case KindInt, KindBool:
		i, _ := v.AsInt()
		return &parser.Literal{Kind: parser.LiteralInt, Int: i}
	case KindFloat:
		f, _ := v.AsFloat()
		return &parser.Literal{Kind: parser.LiteralFloat, Float: f}
	}
	return &parser.Literal{Kind: parser.LiteralText, Text: v.AsText()}
}

func evalAggregate(e *parser.FunctionCall, group []Record) (Value, error) {
	// COUNT(*) counts records; COUNT(expr) and the rest skip nulls
	if e.Star {
		if e.Fn != parser.FnCount {
			return Null(), errors.Newf(ErrWrongArgCount, "%s does not accept *", e.Fn)
		}
		return Int(int64(len(group))), nil
	}
	if len(e.Args) != 1 {
		return Null(), errors.Newf(ErrWrongArgCount, "wrong number of arguments for %s: got %d", e.Fn, len(e.Args))
	}

	var (
		count int64
		sum   float64
		sumI  int64
		exact = true
		best  Value
	)
	for _, rec := range group {
		v, err := Evaluate(e.Args[0], rec)
		if err != nil {
			return Null(), err
		}
		if v.IsNull() {
			continue
		}
		count++

		switch e.Fn {
		case parser.FnSum, parser.FnAvg:
			f, err := v.AsFloat()
			if err != nil {
				return Null(), err
			}
			sum += f
			if v.isIntegral() {
				i, _ := v.AsInt()
				sumI += i
			} else {
				exact = false
			}
		case parser.FnMin:
			if best.IsNull() {
				best = v
			} else if cmp, err := v.Compare(best); err != nil {
				return Null(), err
			} else if cmp < 0 {
				best = v
			}
		case parser.FnMax:
			if best.IsNull() {
				best = v
			} else if cmp, err := v.Compare(best); err != nil {
				return Null(), err
			} else if cmp > 0 {
				best = v
			}
		}
	}

	switch e.Fn {
	case parser.FnCount:
		return Int(count), nil
	case parser.FnSum:
		if count == 0 {
			return Null(), nil
		}
		if exact {
			return Int(sumI), nil
		}
		return Float(sum), nil
	case parser.FnAvg:
		if count == 0 {
			return Null(), nil
		}
		return Float(sum / float64(count)), nil
	case parser.FnMin, parser.FnMax:
		return best, nil
	}
	return Null(), errors.Newf(ErrUnknownFunction, "no implementation for aggregate %s", e.Fn)
}
