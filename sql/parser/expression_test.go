package parser

import (
	"testing"
)

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string // canonical reprint
	}{
		{"MulBeforeAdd", "1 + 2 * 3", "(1 + (2 * 3))"},
		{"ParensOverride", "(1 + 2) * 3", "((1 + 2) * 3)"},
		{"DivMod", "10 / 3 % 2", "((10 / 3) % 2)"},
		{"ComparisonOverArithmetic", "a + 1 > b * 2", "((a + 1) > (b * 2))"},
		{"AndOverOr", "a OR b AND c", "(a OR (b AND c))"},
		{"ComparisonOverAnd", "a = 1 AND b = 2", "((a = 1) AND (b = 2))"},
		{"ConcatIsAdditive", "a || b || c", "((a || b) || c)"},
		{"UnaryMinus", "-a * b", "(-a * b)"},
		{"NotOverComparison", "NOT a = 1", "NOT (a = 1)"},
		{"NotUnderAnd", "NOT a AND b", "(NOT a AND b)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseExpression(tt.sql)
			if err != nil {
				t.Fatal(err)
			}
			if got := FormatExpr(expr); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseExpressionLiterals(t *testing.T) {
	t.Run("Integer", func(t *testing.T) {
		expr, err := ParseExpression("42")
		if err != nil {
			t.Fatal(err)
		}
		lit, ok := expr.(*Literal)
		if !ok || lit.Kind != LiteralInt || lit.Int != 42 {
			t.Errorf("expected integer literal 42, got %#v", expr)
		}
	})

	t.Run("Float", func(t *testing.T) {
		expr, err := ParseExpression("3.14")
		if err != nil {
			t.Fatal(err)
		}
		lit, ok := expr.(*Literal)
		if !ok || lit.Kind != LiteralFloat || lit.Float != 3.14 {
			t.Errorf("expected float literal 3.14, got %#v", expr)
		}
	})

	t.Run("SingleQuotedIsText", func(t *testing.T) {
		expr, err := ParseExpression("'hello'")
		if err != nil {
			t.Fatal(err)
		}
		lit, ok := expr.(*Literal)
		if !ok || lit.Kind != LiteralText || lit.Text != "hello" {
			t.Errorf("expected text literal, got %#v", expr)
		}
	})

	t.Run("DoubleQuotedIsIdent", func(t *testing.T) {
		expr, err := ParseExpression(`"column name"`)
		if err != nil {
			t.Fatal(err)
		}
		lit, ok := expr.(*Literal)
		if !ok || lit.Kind != LiteralIdent || lit.Text != "column name" {
			t.Errorf("expected identifier literal, got %#v", expr)
		}
	})

	t.Run("Null", func(t *testing.T) {
		expr, err := ParseExpression("NULL")
		if err != nil {
			t.Fatal(err)
		}
		lit, ok := expr.(*Literal)
		if !ok || lit.Kind != LiteralNull {
			t.Errorf("expected null literal, got %#v", expr)
		}
	})

	t.Run("QualifiedColumn", func(t *testing.T) {
		expr, err := ParseExpression("users.id")
		if err != nil {
			t.Fatal(err)
		}
		ref, ok := expr.(*ForeignKeyRef)
		if !ok || ref.Table != "users" || ref.Column != "id" {
			t.Errorf("expected qualified column ref, got %#v", expr)
		}
	})
}

func TestParseExpressionRangeForms(t *testing.T) {
	t.Run("Between", func(t *testing.T) {
		expr, err := ParseExpression("x BETWEEN 1 AND 10")
		if err != nil {
			t.Fatal(err)
		}
		b, ok := expr.(*Between)
		if !ok || b.Negate {
			t.Fatalf("expected BETWEEN, got %#v", expr)
		}
	})

	t.Run("NotBetween", func(t *testing.T) {
		expr, err := ParseExpression("x NOT BETWEEN 1 AND 10")
		if err != nil {
			t.Fatal(err)
		}
		b, ok := expr.(*Between)
		if !ok || !b.Negate {
			t.Fatalf("expected negated BETWEEN, got %#v", expr)
		}
	})

	t.Run("BetweenInsideAnd", func(t *testing.T) {
		// the AND of the range must not swallow the conjunction
		expr, err := ParseExpression("x BETWEEN 1 AND 10 AND y = 2")
		if err != nil {
			t.Fatal(err)
		}
		bin, ok := expr.(*Binary)
		if !ok || bin.Op != OpAnd {
			t.Fatalf("expected top-level AND, got %#v", expr)
		}
		if _, ok := bin.Left.(*Between); !ok {
			t.Errorf("expected BETWEEN on the left, got %#v", bin.Left)
		}
	})

	t.Run("In", func(t *testing.T) {
		expr, err := ParseExpression("x IN (1, 2, 3)")
		if err != nil {
			t.Fatal(err)
		}
		in, ok := expr.(*In)
		if !ok || in.Negate || len(in.List) != 3 {
			t.Fatalf("expected 3-item IN, got %#v", expr)
		}
	})

	t.Run("NotIn", func(t *testing.T) {
		expr, err := ParseExpression("x NOT IN (1, 2)")
		if err != nil {
			t.Fatal(err)
		}
		in, ok := expr.(*In)
		if !ok || !in.Negate {
			t.Fatalf("expected negated IN, got %#v", expr)
		}
	})
}

func TestParseExpressionNullTests(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		op   BinaryOp
	}{
		{"IsNull", "x IS NULL", OpIs},
		{"IsNotNull", "x IS NOT NULL", OpIsNot},
		{"IsnullShorthand", "x ISNULL", OpIs},
		{"NotnullShorthand", "x NOTNULL", OpIsNot},
		{"NotNullPostfix", "x NOT NULL", OpIsNot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseExpression(tt.sql)
			if err != nil {
				t.Fatal(err)
			}
			bin, ok := expr.(*Binary)
			if !ok || bin.Op != tt.op {
				t.Fatalf("expected op %v, got %#v", tt.op, expr)
			}
			lit, ok := bin.Right.(*Literal)
			if !ok || lit.Kind != LiteralNull {
				t.Errorf("expected NULL on the right, got %#v", bin.Right)
			}
		})
	}
}

func TestParseExpressionPatternOps(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		op   BinaryOp
	}{
		{"Like", "name LIKE 'A%'", OpLike},
		{"NotLike", "name NOT LIKE 'A%'", OpNotLike},
		{"Glob", "name GLOB 'A*'", OpGlob},
		{"Regexp", "name REGEXP '^A'", OpRegexp},
		{"Match", "name MATCH 'abc'", OpMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseExpression(tt.sql)
			if err != nil {
				t.Fatal(err)
			}
			bin, ok := expr.(*Binary)
			if !ok || bin.Op != tt.op {
				t.Fatalf("expected op %v, got %#v", tt.op, expr)
			}
		})
	}
}

func TestParseFunctionCall(t *testing.T) {
	t.Run("Simple", func(t *testing.T) {
		expr, err := ParseExpression("upper(name)")
		if err != nil {
			t.Fatal(err)
		}
		call, ok := expr.(*FunctionCall)
		if !ok || call.Fn != FnUpper || len(call.Args) != 1 {
			t.Fatalf("expected UPPER call, got %#v", expr)
		}
	})

	t.Run("CountStar", func(t *testing.T) {
		expr, err := ParseExpression("count(*)")
		if err != nil {
			t.Fatal(err)
		}
		call, ok := expr.(*FunctionCall)
		if !ok || call.Fn != FnCount || !call.Star {
			t.Fatalf("expected COUNT(*), got %#v", expr)
		}
	})

	t.Run("ZeroArgs", func(t *testing.T) {
		expr, err := ParseExpression("random()")
		if err != nil {
			t.Fatal(err)
		}
		call, ok := expr.(*FunctionCall)
		if !ok || call.Fn != FnRandom || len(call.Args) != 0 {
			t.Fatalf("expected RANDOM(), got %#v", expr)
		}
	})

	t.Run("CurrentTimestampDesugars", func(t *testing.T) {
		expr, err := ParseExpression("CURRENT_TIMESTAMP")
		if err != nil {
			t.Fatal(err)
		}
		call, ok := expr.(*FunctionCall)
		if !ok || call.Fn != FnDateTime {
			t.Fatalf("expected DATETIME call, got %#v", expr)
		}
	})

	t.Run("UnknownFunction", func(t *testing.T) {
		_, err := ParseExpression("nosuchfn(1)")
		if err == nil {
			t.Fatal("expected error")
		}
		perr := err.(*ParseError)
		if !perr.Code.Equals(ErrUnknownFunction) {
			t.Errorf("expected unknown function code, got %s", perr.Code)
		}
	})

	t.Run("WrongArity", func(t *testing.T) {
		_, err := ParseExpression("substr('abc')")
		if err == nil {
			t.Fatal("expected arity error for 1-arg SUBSTR")
		}
	})
}

func TestParseCaseExpression(t *testing.T) {
	t.Run("WithSubject", func(t *testing.T) {
		expr, err := ParseExpression("CASE x WHEN 1 THEN 'one' WHEN 2 THEN 'two' ELSE 'many' END")
		if err != nil {
			t.Fatal(err)
		}
		c, ok := expr.(*Case)
		if !ok {
			t.Fatalf("expected CASE, got %#v", expr)
		}
		if c.Subject == nil || len(c.Whens) != 2 || c.Else == nil {
			t.Errorf("unexpected CASE shape: %#v", c)
		}
	})

	t.Run("ConditionForm", func(t *testing.T) {
		expr, err := ParseExpression("CASE WHEN x > 0 THEN 'pos' END")
		if err != nil {
			t.Fatal(err)
		}
		c := expr.(*Case)
		if c.Subject != nil || len(c.Whens) != 1 || c.Else != nil {
			t.Errorf("unexpected CASE shape: %#v", c)
		}
	})

	t.Run("RequiresWhen", func(t *testing.T) {
		if _, err := ParseExpression("CASE x ELSE 1 END"); err == nil {
			t.Error("expected error for CASE without WHEN")
		}
	})

	t.Run("RequiresEnd", func(t *testing.T) {
		if _, err := ParseExpression("CASE WHEN 1 THEN 2"); err == nil {
			t.Error("expected error for unterminated CASE")
		}
	})
}

func TestParseExpressionErrors(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"Empty", ""},
		{"TrailingOperator", "1 +"},
		{"TrailingInput", "1 2"},
		{"KeywordAsOperand", "SELECT + 1"},
		{"BetweenWithoutAnd", "x BETWEEN 1 10"},
		{"InWithoutParens", "x IN 1, 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseExpression(tt.sql); err == nil {
				t.Errorf("expected error for %q", tt.sql)
			}
		})
	}
}
