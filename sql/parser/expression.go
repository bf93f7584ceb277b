package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Operator binding powers, loosest to tightest. Parenthesis grouping
// overrides all of them.
const (
	bpOr         = 1
	bpAnd        = 2
	bpRange      = 3 // BETWEEN, IN
	bpComparison = 4
	bpAdditive   = 5 // + - ||
	bpFactor     = 6 // * / %
	bpUnary      = 7
)

// ParseExpression parses a standalone expression from source text,
// requiring the whole input to be consumed
func ParseExpression(sql string) (Expression, error) {
	q, err := Tokenize(sql)
	if err != nil {
		return nil, err
	}
	expr, err := parseExpr(q, 0)
	if err != nil {
		return nil, err
	}
	if tok := q.LookAhead(); tok.Type != EOF_TOK {
		return nil, newSyntaxError(ErrMalformedCommand,
			"unexpected input after expression", tok.Text)
	}
	return expr, nil
}

// parseExpr is the precedence-climbing core. It consumes operators whose
// binding power is at least minBP and recurses with the next tighter level
// for right operands.
func parseExpr(q *TokenQueue, minBP int) (Expression, error) {
	left, err := parsePrefix(q)
	if err != nil {
		return nil, err
	}

	for {
		tok := q.LookAhead()

		// NOT in operand position negates the following BETWEEN / IN /
		// LIKE / NULL test rather than starting a fresh expression
		if tok.Is(KwNot) {
			if kw, ok := q.LookAheadAt(1).Keyword(); ok {
				switch kw {
				case KwBetween:
					if bpRange < minBP {
						return left, nil
					}
					q.Pop()
					q.Pop()
					left, err = parseBetween(q, left, true)
				case KwIn:
					if bpRange < minBP {
						return left, nil
					}
					q.Pop()
					q.Pop()
					left, err = parseIn(q, left, true)
				case KwLike:
					if bpComparison < minBP {
						return left, nil
					}
					q.Pop()
					q.Pop()
					left, err = parseBinaryRHS(q, left, OpNotLike, bpComparison)
				case KwNull:
					if bpComparison < minBP {
						return left, nil
					}
					q.Pop()
					q.Pop()
					left = &Binary{Op: OpIsNot, Left: left, Right: &Literal{Kind: LiteralNull}}
				default:
					return left, nil
				}
				if err != nil {
					return nil, err
				}
				continue
			}
			return left, nil
		}

		op, bp, ok := infixOp(tok)
		if !ok || bp < minBP {
			return left, nil
		}
		q.Pop()

		switch op.infix {
		case opBetween:
			left, err = parseBetween(q, left, false)
		case opIn:
			left, err = parseIn(q, left, false)
		case opIsNull:
			left = &Binary{Op: OpIs, Left: left, Right: &Literal{Kind: LiteralNull}}
		case opNotNull:
			left = &Binary{Op: OpIsNot, Left: left, Right: &Literal{Kind: LiteralNull}}
		case opIs:
			binOp := OpIs
			if q.LookAhead().Is(KwNot) {
				q.Pop()
				binOp = OpIsNot
			}
			left, err = parseBinaryRHS(q, left, binOp, bp)
		default:
			left, err = parseBinaryRHS(q, left, op.binaryOp(), bp)
		}
		if err != nil {
			return nil, err
		}
	}
}

func parseBinaryRHS(q *TokenQueue, left Expression, op BinaryOp, bp int) (Expression, error) {
	right, err := parseExpr(q, bp+1)
	if err != nil {
		return nil, err
	}
	return &Binary{Op: op, Left: left, Right: right}, nil
}

// infix is an internal operator tag covering forms that need their own
// parse handling on top of the plain Binary ops
type infix int

const (
	opBinary infix = iota
	opBetween
	opIn
	opIs
	opIsNull
	opNotNull
)

var comparisonOps = map[string]BinaryOp{
	"=": OpEq, "==": OpEq, "!=": OpNe, "<>": OpNe,
	"<": OpLt, ">": OpGt, "<=": OpLe, ">=": OpGe,
}

// infixTag carries the resolved operator out of infixOp; plain binary
// operators stash their BinaryOp
type infixTag struct {
	infix
	bin BinaryOp
}

func (t infixTag) binaryOp() BinaryOp { return t.bin }

func infixOp(tok Token) (infixTag, int, bool) {
	bin := func(op BinaryOp, bp int) (infixTag, int, bool) {
		return infixTag{opBinary, op}, bp, true
	}
	switch tok.Type {
	case COMPARISON_TOK:
		return bin(comparisonOps[tok.Text], bpComparison)
	case PLUS_TOK:
		return bin(OpAdd, bpAdditive)
	case MINUS_TOK:
		return bin(OpSub, bpAdditive)
	case CONCAT_TOK:
		return bin(OpConcat, bpAdditive)
	case ASTERISK_TOK:
		return bin(OpMul, bpFactor)
	case DIVIDE_TOK:
		return bin(OpDiv, bpFactor)
	case MODULUS_TOK:
		return bin(OpMod, bpFactor)
	case KEYWORD_TOK:
		kw, _ := tok.Keyword()
		switch kw {
		case KwOr:
			return bin(OpOr, bpOr)
		case KwAnd:
			return bin(OpAnd, bpAnd)
		case KwLike:
			return bin(OpLike, bpComparison)
		case KwGlob:
			return bin(OpGlob, bpComparison)
		case KwRegexp:
			return bin(OpRegexp, bpComparison)
		case KwMatch:
			return bin(OpMatch, bpComparison)
		case KwIs:
			return infixTag{infix: opIs}, bpComparison, true
		case KwIsnull:
			return infixTag{infix: opIsNull}, bpComparison, true
		case KwNotnull:
			return infixTag{infix: opNotNull}, bpComparison, true
		case KwBetween:
			return infixTag{infix: opBetween}, bpRange, true
		case KwIn:
			return infixTag{infix: opIn}, bpRange, true
		}
	}
	return infixTag{}, 0, false
}

func parseBetween(q *TokenQueue, test Expression, negate bool) (Expression, error) {
	// the range bounds sit tighter than AND, so parse each side one level up
	low, err := parseExpr(q, bpComparison)
	if err != nil {
		return nil, err
	}
	if tok := q.Pop(); !tok.Is(KwAnd) {
		return nil, newSyntaxError(ErrMalformedCommand,
			"BETWEEN requires AND between its bounds", tok.Text, "AND")
	}
	high, err := parseExpr(q, bpComparison)
	if err != nil {
		return nil, err
	}
	return &Between{Test: test, Low: low, High: high, Negate: negate}, nil
}

func parseIn(q *TokenQueue, test Expression, negate bool) (Expression, error) {
	if tok := q.Pop(); tok.Type != LPAREN_TOK {
		return nil, newSyntaxError(ErrMalformedCommand,
			"IN requires a parenthesized value list", tok.Text, "(")
	}
	var list []Expression
	for {
		item, err := parseExpr(q, 0)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
		tok := q.Pop()
		if tok.Type == RPAREN_TOK {
			break
		}
		if tok.Type != COMMA_TOK {
			return nil, newSyntaxError(ErrMalformedCommand,
				"malformed IN list", tok.Text, ",", ")")
		}
	}
	return &In{Test: test, List: list, Negate: negate}, nil
}

func parsePrefix(q *TokenQueue) (Expression, error) {
	tok := q.Pop()
	switch tok.Type {
	case PLUS_TOK, MINUS_TOK:
		op := UnaryPlus
		if tok.Type == MINUS_TOK {
			op = UnaryMinus
		}
		operand, err := parseExpr(q, bpUnary)
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil

	case LPAREN_TOK:
		expr, err := parseExpr(q, 0)
		if err != nil {
			return nil, err
		}
		if next := q.Pop(); next.Type != RPAREN_TOK {
			return nil, newSyntaxError(ErrMalformedCommand,
				"unclosed parenthesized expression", next.Text, ")")
		}
		return expr, nil

	case NUMBER_TOK:
		return parseNumber(tok)

	case STRING_TOK:
		if tok.Quote == '"' {
			// double quotes delimit identifiers
			return &Literal{Kind: LiteralIdent, Text: tok.Text}, nil
		}
		return &Literal{Kind: LiteralText, Text: tok.Text}, nil

	case IDENT_TOK:
		next := q.LookAhead()
		if next.Type == LPAREN_TOK {
			return parseFunctionCall(q, tok)
		}
		if next.Type == DOT_TOK {
			q.Pop()
			col := q.Pop()
			if col.Type != IDENT_TOK {
				return nil, newSyntaxError(ErrMalformedCommand,
					"expected column name after '.'", col.Text)
			}
			return &ForeignKeyRef{Table: tok.Text, Column: col.Text}, nil
		}
		return &Literal{Kind: LiteralIdent, Text: tok.Text}, nil

	case KEYWORD_TOK:
		kw, _ := tok.Keyword()
		switch kw {
		case KwNull:
			return &Literal{Kind: LiteralNull}, nil
		case KwNot:
			operand, err := parseExpr(q, bpRange+1)
			if err != nil {
				return nil, err
			}
			return &Unary{Op: UnaryNot, Operand: operand}, nil
		case KwCase:
			return parseCase(q)
		case KwCurrentDate:
			return &FunctionCall{Fn: FnDate}, nil
		case KwCurrentTime:
			return &FunctionCall{Fn: FnTime}, nil
		case KwCurrentTimestamp:
			return &FunctionCall{Fn: FnDateTime}, nil
		}
		return nil, newSyntaxError(ErrInvalidKeywordPlacement,
			fmt.Sprintf("keyword %s cannot start an expression", strings.ToUpper(tok.Text)), tok.Text)

	case EOF_TOK:
		return nil, newSyntaxError(ErrMalformedCommand, "unexpected end of expression", "")
	}
	return nil, newSyntaxError(ErrMalformedCommand, "unexpected token in expression", tok.Text)
}

func parseNumber(tok Token) (Expression, error) {
	if strings.ContainsAny(tok.Text, ".eE") {
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, newSyntaxError(ErrMalformedCommand, "malformed numeric literal", tok.Text)
		}
		return &Literal{Kind: LiteralFloat, Float: f}, nil
	}
	i, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		return nil, newSyntaxError(ErrMalformedCommand, "malformed numeric literal", tok.Text)
	}
	return &Literal{Kind: LiteralInt, Int: i}, nil
}

func parseFunctionCall(q *TokenQueue, name Token) (Expression, error) {
	fn, ok := FunctionOf(name.Text)
	if !ok {
		return nil, newSyntaxError(ErrUnknownFunction,
			fmt.Sprintf("unknown function %q", name.Text), name.Text)
	}
	q.Pop() // (

	call := &FunctionCall{Fn: fn}
	if q.LookAhead().Type == ASTERISK_TOK && fn == FnCount {
		q.Pop()
		call.Star = true
		if tok := q.Pop(); tok.Type != RPAREN_TOK {
			return nil, newSyntaxError(ErrMalformedCommand,
				"unclosed function call", tok.Text, ")")
		}
		return call, nil
	}

	if q.LookAhead().Type == RPAREN_TOK {
		q.Pop()
	} else {
		for {
			arg, err := parseExpr(q, 0)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			tok := q.Pop()
			if tok.Type == RPAREN_TOK {
				break
			}
			if tok.Type != COMMA_TOK {
				return nil, newSyntaxError(ErrMalformedCommand,
					"unclosed function call", tok.Text, ",", ")")
			}
		}
	}

	min, max := fn.ArgRange()
	if len(call.Args) < min || (max >= 0 && len(call.Args) > max) {
		return nil, newSyntaxError(ErrMalformedCommand,
			fmt.Sprintf("%s takes %s arguments, got %d", fn, arityText(min, max), len(call.Args)),
			name.Text)
	}
	return call, nil
}

func arityText(min, max int) string {
	switch {
	case max < 0:
		return fmt.Sprintf("at least %d", min)
	case min == max:
		return strconv.Itoa(min)
	default:
		return fmt.Sprintf("%d to %d", min, max)
	}
}

func parseCase(q *TokenQueue) (Expression, error) {
	c := &Case{}

	if !q.LookAhead().Is(KwWhen) {
		subject, err := parseExpr(q, 0)
		if err != nil {
			return nil, err
		}
		c.Subject = subject
	}

	for q.LookAhead().Is(KwWhen) {
		q.Pop()
		when, err := parseExpr(q, 0)
		if err != nil {
			return nil, err
		}
		if tok := q.Pop(); !tok.Is(KwThen) {
			return nil, newSyntaxError(ErrMalformedCommand,
				"WHEN requires a THEN branch", tok.Text, "THEN")
		}
		then, err := parseExpr(q, 0)
		if err != nil {
			return nil, err
		}
		c.Whens = append(c.Whens, WhenClause{When: when, Then: then})
	}
	if len(c.Whens) == 0 {
		return nil, newSyntaxError(ErrMalformedCommand,
			"CASE requires at least one WHEN branch", q.LookAhead().Text, "WHEN")
	}

	if q.LookAhead().Is(KwElse) {
		q.Pop()
		els, err := parseExpr(q, 0)
		if err != nil {
			return nil, err
		}
		c.Else = els
	}

	if tok := q.Pop(); !tok.Is(KwEnd) {
		return nil, newSyntaxError(ErrMalformedCommand,
			"CASE must be closed with END", tok.Text, "END")
	}
	return c, nil
}
