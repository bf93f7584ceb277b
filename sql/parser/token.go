package parser

import "strings"

// TokenType classifies a lexical fragment
type TokenType int

const (
	EOF_TOK        TokenType = iota // End of input
	KEYWORD_TOK                     // Reserved words: SELECT, FROM, WHERE, ...
	IDENT_TOK                       // Identifiers: table names, column names
	STRING_TOK                      // Quoted string literals, quotes stripped
	NUMBER_TOK                      // Numeric literals
	LPAREN_TOK                      // (
	RPAREN_TOK                      // )
	SEMICOLON_TOK                   // ;
	COMMA_TOK                       // ,
	ASTERISK_TOK                    // *
	COMPARISON_TOK                  // =, ==, !=, <>, <, >, <=, >=
	PLUS_TOK                        // +
	MINUS_TOK                       // -
	DIVIDE_TOK                      // /
	MODULUS_TOK                     // %
	CONCAT_TOK                      // ||
	DOT_TOK                         // .
)

// Token is a normalized lexical fragment of the input text. String tokens
// carry their unquoted value; Quote records which quote character delimited
// them so double-quoted identifiers can be told apart downstream.
type Token struct {
	Type  TokenType
	Text  string
	Quote byte // ' or " for STRING_TOK, 0 otherwise
	Pos   int  // byte offset into the original input
}

// Keyword resolves the token against the keyword table
func (t Token) Keyword() (Keyword, bool) {
	if t.Type != KEYWORD_TOK {
		return 0, false
	}
	return KeywordOf(t.Text)
}

// Is reports whether the token is the given keyword
func (t Token) Is(kw Keyword) bool {
	k, ok := t.Keyword()
	return ok && k == kw
}

// IsComparison reports whether the token is the given comparison operator
func (t Token) IsComparison(op string) bool {
	return t.Type == COMPARISON_TOK && t.Text == op
}

var eofToken = Token{Type: EOF_TOK}

// TokenQueue is an ordered FIFO of tokens owned by a single parse. It is
// not safe for concurrent use; each Parse call builds its own queue.
type TokenQueue struct {
	tokens []Token
	head   int
}

// NewTokenQueue wraps an already tokenized slice
func NewTokenQueue(tokens []Token) *TokenQueue {
	return &TokenQueue{tokens: tokens}
}

// Pop dequeues and returns the next token, or an EOF token when drained
func (q *TokenQueue) Pop() Token {
	if q.head >= len(q.tokens) {
		return eofToken
	}
	t := q.tokens[q.head]
	q.head++
	return t
}

// LookAhead peeks at the next token without consuming it
func (q *TokenQueue) LookAhead() Token {
	return q.LookAheadAt(0)
}

// LookAheadAt peeks n tokens past the head without consuming anything
func (q *TokenQueue) LookAheadAt(n int) Token {
	if q.head+n >= len(q.tokens) {
		return eofToken
	}
	return q.tokens[q.head+n]
}

// Push puts a token back at the head of the queue, undoing a Pop or
// injecting a replacement produced by splitting an oversized token
func (q *TokenQueue) Push(t Token) {
	if q.head > 0 {
		q.head--
		q.tokens[q.head] = t
		return
	}
	q.tokens = append([]Token{t}, q.tokens...)
}

// ReplaceLast overwrites the most recently appended token
func (q *TokenQueue) ReplaceLast(t Token) {
	if len(q.tokens) > 0 {
		q.tokens[len(q.tokens)-1] = t
	}
}

// RemoveLast drops the most recently appended token
func (q *TokenQueue) RemoveLast() {
	if len(q.tokens) > q.head {
		q.tokens = q.tokens[:len(q.tokens)-1]
	}
}

// Len returns the number of unconsumed tokens
func (q *TokenQueue) Len() int {
	return len(q.tokens) - q.head
}

// Reset re-tokenizes the given input into this queue, making reuse of an
// allocation explicit rather than implied by a shared instance
func (q *TokenQueue) Reset(sql string) error {
	tokens, err := tokenize(sql, q.tokens[:0])
	if err != nil {
		return err
	}
	q.tokens = tokens
	q.head = 0
	return nil
}

// Tokenize scans the input into an ordered token queue. It fails with a
// lexical error on unterminated string literals or unbalanced parentheses;
// comments are discarded.
func Tokenize(sql string) (*TokenQueue, error) {
	tokens, err := tokenize(sql, nil)
	if err != nil {
		return nil, err
	}
	return NewTokenQueue(tokens), nil
}

func isIdentStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func tokenize(sql string, tokens []Token) ([]Token, error) {
	pos := 0
	parenDepth := 0

	for pos < len(sql) {
		c := sql[pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			pos++

		case c == '-' && pos+1 < len(sql) && sql[pos+1] == '-':
			// line comment, discard to end of line
			for pos < len(sql) && sql[pos] != '\n' {
				pos++
			}

		case c == '/' && pos+1 < len(sql) && sql[pos+1] == '*':
			end := strings.Index(sql[pos+2:], "*/")
			if end < 0 {
				pos = len(sql)
				break
			}
			pos += 2 + end + 2

		case c == '\'' || c == '"':
			text, next, ok := scanString(sql, pos)
			if !ok {
				if c == '\'' {
					return nil, newLexicalError(ErrMismatchedSingleQuotes,
						"unterminated string literal", sql[pos:])
				}
				return nil, newLexicalError(ErrMismatchedDoubleQuotes,
					"unterminated quoted identifier", sql[pos:])
			}
			tokens = append(tokens, Token{Type: STRING_TOK, Text: text, Quote: c, Pos: pos})
			pos = next

		case isDigit(c) || (c == '.' && pos+1 < len(sql) && isDigit(sql[pos+1])):
			start := pos
			seenDot := false
			for pos < len(sql) && (isDigit(sql[pos]) || (sql[pos] == '.' && !seenDot)) {
				if sql[pos] == '.' {
					seenDot = true
				}
				pos++
			}
			tokens = append(tokens, Token{Type: NUMBER_TOK, Text: sql[start:pos], Pos: start})

		case isIdentStart(c):
			start := pos
			for pos < len(sql) && isIdentPart(sql[pos]) {
				pos++
			}
			word := sql[start:pos]
			tt := IDENT_TOK
			if _, ok := KeywordOf(word); ok {
				tt = KEYWORD_TOK
			}
			tokens = append(tokens, Token{Type: tt, Text: word, Pos: start})

		case c == '<' || c == '>' || c == '=' || c == '!':
			start := pos
			op := string(c)
			pos++
			if pos < len(sql) {
				two := op + string(sql[pos])
				switch two {
				case "<=", ">=", "<>", "!=", "==":
					op = two
					pos++
				}
			}
			if op == "!" {
				return nil, newSyntaxError(ErrMalformedCommand,
					"unexpected character '!'", sql[start:])
			}
			tokens = append(tokens, Token{Type: COMPARISON_TOK, Text: op, Pos: start})

		case c == '|' && pos+1 < len(sql) && sql[pos+1] == '|':
			tokens = append(tokens, Token{Type: CONCAT_TOK, Text: "||", Pos: pos})
			pos += 2

		default:
			var tt TokenType
			switch c {
			case '(':
				tt = LPAREN_TOK
				parenDepth++
			case ')':
				tt = RPAREN_TOK
				parenDepth--
				if parenDepth < 0 {
					return nil, newLexicalError(ErrMismatchedParenthesis,
						"unbalanced closing parenthesis", sql[pos:])
				}
			case ';':
				tt = SEMICOLON_TOK
			case ',':
				tt = COMMA_TOK
			case '*':
				tt = ASTERISK_TOK
			case '+':
				tt = PLUS_TOK
			case '-':
				tt = MINUS_TOK
			case '/':
				tt = DIVIDE_TOK
			case '%':
				tt = MODULUS_TOK
			case '.':
				tt = DOT_TOK
			default:
				return nil, newSyntaxError(ErrMalformedCommand,
					"unexpected character", string(c))
			}
			tokens = append(tokens, Token{Type: tt, Text: string(c), Pos: pos})
			pos++
		}
	}

	if parenDepth != 0 {
		return nil, newLexicalError(ErrMismatchedParenthesis,
			"unbalanced opening parenthesis", "")
	}
	return tokens, nil
}

// scanString consumes a quoted literal starting at pos. A doubled quote or a
// backslash-escaped quote is kept as a single literal quote character.
func scanString(sql string, pos int) (text string, next int, ok bool) {
	quote := sql[pos]
	var b strings.Builder
	i := pos + 1
	for i < len(sql) {
		c := sql[i]
		switch {
		case c == '\\' && i+1 < len(sql) && sql[i+1] == quote:
			b.WriteByte(quote)
			i += 2
		case c == quote && i+1 < len(sql) && sql[i+1] == quote:
			b.WriteByte(quote)
			i += 2
		case c == quote:
			return b.String(), i + 1, true
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, false
}
