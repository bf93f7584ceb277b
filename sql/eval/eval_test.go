package eval

import (
	"testing"

	"github.com/sqldom/sqldom/pkg/errors"
	"github.com/sqldom/sqldom/sql/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalStr is a test helper that parses and evaluates in one step
func evalStr(t *testing.T, sql string, rec Record) Value {
	t.Helper()
	expr, err := parser.ParseExpression(sql)
	require.NoError(t, err)
	v, err := Evaluate(expr, rec)
	require.NoError(t, err)
	return v
}

func evalErr(t *testing.T, sql string, rec Record) error {
	t.Helper()
	expr, err := parser.ParseExpression(sql)
	require.NoError(t, err)
	_, err = Evaluate(expr, rec)
	require.Error(t, err)
	return err
}

func assertBool(t *testing.T, want bool, sql string, rec Record) {
	t.Helper()
	v := evalStr(t, sql, rec)
	b, err := v.AsBool()
	require.NoError(t, err, "expression %q", sql)
	assert.Equal(t, want, b, "expression %q", sql)
}

func assertNull(t *testing.T, sql string, rec Record) {
	t.Helper()
	assert.True(t, evalStr(t, sql, rec).IsNull(), "expected %q to be null", sql)
}

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		sql  string
		want Value
	}{
		{"1 + 2", Int(3)},
		{"7 - 10", Int(-3)},
		{"6 * 7", Int(42)},
		{"7 / 2", Int(3)},     // integer division truncates
		{"7.0 / 2", Float(3.5)},
		{"7 % 3", Int(1)},
		{"1 + 2 * 3", Int(7)},
		{"(1 + 2) * 3", Int(9)},
		{"-5 + 3", Int(-2)},
		{"'5' + 1", Int(6)}, // numeric text promotes
		{"'2.5' * 2", Float(5)},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			got := evalStr(t, tt.sql, nil)
			assert.True(t, tt.want.Equal(got) || (tt.want.IsNull() && got.IsNull()),
				"expected %s, got %s", tt.want, got)
		})
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	assertNull(t, "1 / 0", nil)
	assertNull(t, "1 % 0", nil)
	assertNull(t, "1.5 / 0", nil)
}

func TestEvaluateTextConcatenation(t *testing.T) {
	assert.Equal(t, "ab", evalStr(t, "'a' || 'b'", nil).AsText())
	assert.Equal(t, "ab", evalStr(t, "'a' + 'b'", nil).AsText())
	// || coerces numbers to text
	assert.Equal(t, "x1", evalStr(t, "'x' || 1", nil).AsText())
}

func TestEvaluateComparisons(t *testing.T) {
	assertBool(t, true, "5 > 3", nil)
	assertBool(t, false, "5 < 3", nil)
	assertBool(t, true, "5 >= 5", nil)
	assertBool(t, true, "5 = 5", nil)
	assertBool(t, true, "5 != 6", nil)
	assertBool(t, true, "5 <> 6", nil)
	// numeric text compares numerically
	assertBool(t, true, "'5' > 3", nil)
	assertBool(t, true, "'10' > '9'", nil)
	// plain text compares lexically
	assertBool(t, true, "'apple' < 'banana'", nil)
}

func TestEvaluateFieldLookup(t *testing.T) {
	rec := Record{"age": Int(30), "name": Text("alice")}

	assertBool(t, true, "age > 21", rec)
	assert.Equal(t, "alice", evalStr(t, "name", rec).AsText())

	// absent field behaves exactly like a null field
	assertNull(t, "missing", rec)
	assertNull(t, "missing + 1", rec)
	assertBool(t, true, "missing IS NULL", rec)

	// nil record resolves every lookup to null
	assertNull(t, "anything", nil)
}

func TestEvaluateQualifiedLookup(t *testing.T) {
	rec := Record{"users.id": Int(7), "age": Int(30)}

	v := evalStr(t, "users.id", rec)
	i, err := v.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(7), i)

	// falls back to the bare column when no qualified entry exists
	v = evalStr(t, "t.age", rec)
	i, err = v.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(30), i)
}

func TestEvaluateThreeValuedLogic(t *testing.T) {
	rec := Record{"x": Null()}

	// null propagates through comparisons and arithmetic
	assertNull(t, "x = 1", rec)
	assertNull(t, "x + 1", rec)
	assertNull(t, "NOT x", rec)

	// AND: false dominates null
	assertBool(t, false, "x AND 0", rec)
	assertNull(t, "x AND 1", rec)
	// OR: true dominates null
	assertBool(t, true, "x OR 1", rec)
	assertNull(t, "x OR 0", rec)

	// IS is null-safe
	assertBool(t, true, "x IS NULL", rec)
	assertBool(t, false, "x IS NOT NULL", rec)
	assertBool(t, true, "NULL IS NULL", nil)
}

func TestEvaluateShortCircuit(t *testing.T) {
	// the right side would error on coercion, but is never evaluated
	assertBool(t, false, "0 AND ('abc' > 1 AND 'abc' < 2)", nil)
	assertBool(t, true, "1 OR ('abc' > 1 AND 'abc' < 2)", nil)
}

func TestEvaluateBetween(t *testing.T) {
	rec := Record{"v": Int(5)}

	assertBool(t, true, "v BETWEEN 1 AND 10", rec)
	assertBool(t, true, "v BETWEEN 5 AND 5", rec) // bounds are inclusive
	assertBool(t, false, "v BETWEEN 6 AND 10", rec)
	assertBool(t, true, "v NOT BETWEEN 6 AND 10", rec)
	assertNull(t, "missing BETWEEN 1 AND 10", rec)
	assertNull(t, "v BETWEEN missing AND 10", rec)

	rec15 := Record{"v": Int(15)}
	assertBool(t, false, "v BETWEEN 1 AND 10", rec15)
}

func TestEvaluateIn(t *testing.T) {
	rec := Record{"v": Int(2)}

	assertBool(t, true, "v IN (1, 2, 3)", rec)
	assertBool(t, false, "v IN (4, 5)", rec)
	assertBool(t, true, "v NOT IN (4, 5)", rec)
	assertNull(t, "missing IN (1, 2)", rec)

	// a null list member turns a miss into null, but not a hit
	assertNull(t, "v IN (4, NULL)", rec)
	assertBool(t, true, "v IN (2, NULL)", rec)
}

func TestEvaluateLike(t *testing.T) {
	rec := Record{"s": Text("Hello")}

	assertBool(t, true, "s LIKE 'H%'", rec)
	assertBool(t, true, "s LIKE '%lo'", rec)
	assertBool(t, false, "s LIKE 'z%'", rec)
	assertBool(t, true, "s LIKE 'h_llo'", rec) // case-insensitive, _ is one char
	assertBool(t, false, "s NOT LIKE 'H%'", rec)
	assertNull(t, "missing LIKE 'x'", rec)
}

func TestEvaluateGlob(t *testing.T) {
	rec := Record{"s": Text("Hello")}

	assertBool(t, true, "s GLOB 'H*'", rec)
	assertBool(t, false, "s GLOB 'h*'", rec) // glob is case-sensitive
	assertBool(t, true, "s GLOB 'H?llo'", rec)
	assertBool(t, true, "s GLOB '[GH]ello'", rec)
}

func TestEvaluateRegexpAndMatch(t *testing.T) {
	rec := Record{"s": Text("Hello")}

	assertBool(t, true, "s REGEXP '^H.*o$'", rec)
	assertBool(t, false, "s REGEXP '^x'", rec)

	// MATCH degrades to plain equality
	assertBool(t, true, "s MATCH 'Hello'", rec)
	assertBool(t, false, "s MATCH 'hello'", rec)

	err := evalErr(t, "s REGEXP '('", rec)
	assert.True(t, errors.Is(err, ErrInvalidPattern))
}

func TestEvaluateCase(t *testing.T) {
	caseExpr := "CASE x WHEN 1 THEN 'one' WHEN 2 THEN 'two' ELSE 'many' END"

	assert.Equal(t, "two", evalStr(t, caseExpr, Record{"x": Int(2)}).AsText())
	assert.Equal(t, "many", evalStr(t, caseExpr, Record{"x": Int(9)}).AsText())
	// null subject matches no WHEN, falls to ELSE
	assert.Equal(t, "many", evalStr(t, caseExpr, Record{}).AsText())

	// first match wins
	v := evalStr(t, "CASE 1 WHEN 1 THEN 'a' WHEN 1 THEN 'b' END", nil)
	assert.Equal(t, "a", v.AsText())

	// no ELSE and no match yields null
	assertNull(t, "CASE 9 WHEN 1 THEN 'a' END", nil)

	// condition form
	assert.Equal(t, "pos", evalStr(t, "CASE WHEN x > 0 THEN 'pos' ELSE 'neg' END", Record{"x": Int(5)}).AsText())
}

func TestEvaluateUnary(t *testing.T) {
	v := evalStr(t, "-x", Record{"x": Int(5)})
	i, err := v.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(-5), i)

	assertBool(t, false, "NOT 1", nil)
	assertBool(t, true, "NOT 0", nil)
	assertNull(t, "-missing", nil)
}

func TestEvaluateAggregateRejected(t *testing.T) {
	err := evalErr(t, "count(*)", nil)
	assert.True(t, errors.Is(err, ErrAggregateWithoutGroup))

	err = evalErr(t, "sum(x) + 1", Record{"x": Int(1)})
	assert.True(t, errors.Is(err, ErrAggregateWithoutGroup))
}

func TestEvaluateCoercionErrors(t *testing.T) {
	err := evalErr(t, "'abc' + 1", nil)
	assert.True(t, errors.Is(err, ErrCoercion))

	err = evalErr(t, "NOT 'maybe'", nil)
	assert.True(t, errors.Is(err, ErrCoercion))
}
