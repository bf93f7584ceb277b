// Package parser tokenizes a constrained subset of SQLite syntax and builds
// an instruction/expression DOM. Parsing and execution are decoupled:
// recognized constructs (triggers, views, indexes) parse fully into DOM form
// regardless of whether a caller chooses to execute them.
package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser consumes a token queue and produces instruction nodes. Each parse
// call owns its queue; a Parser must not be shared across concurrent parses.
type Parser struct {
	q *TokenQueue
}

// NewParser wraps an existing token queue
func NewParser(q *TokenQueue) *Parser {
	return &Parser{q: q}
}

// Parse tokenizes the input and parses every `;`-separated statement in
// order. On a malformed statement it returns the statements parsed so far
// together with the error; there is no partial AST for the failing one.
func Parse(sql string) ([]Statement, error) {
	q, err := Tokenize(sql)
	if err != nil {
		return nil, err
	}
	return NewParser(q).Parse()
}

// Parse drains the queue into an ordered statement sequence
func (p *Parser) Parse() ([]Statement, error) {
	var stmts []Statement
	for {
		for p.q.LookAhead().Type == SEMICOLON_TOK {
			p.q.Pop()
		}
		if p.q.LookAhead().Type == EOF_TOK {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return stmts, err
		}
		stmts = append(stmts, stmt)
		if tok := p.q.LookAhead(); tok.Type != SEMICOLON_TOK && tok.Type != EOF_TOK {
			return stmts, newSyntaxError(ErrMalformedCommand,
				"unexpected input after statement", tok.Text, ";")
		}
	}
}

func (p *Parser) parseStatement() (Statement, error) {
	tok := p.q.LookAhead()
	kw, ok := tok.Keyword()
	if !ok {
		if tok.Type == IDENT_TOK {
			return nil, newSyntaxError(ErrUnknownKeyword,
				fmt.Sprintf("unknown keyword %q", tok.Text), tok.Text)
		}
		return nil, newSyntaxError(ErrMalformedCommand,
			"statement must start with a keyword", tok.Text)
	}

	switch kw {
	case KwCreate:
		return p.parseCreateStmt()
	case KwAlter:
		return p.parseAlterTableStmt()
	case KwSelect:
		return p.parseSelectStmt()
	case KwInsert:
		return p.parseInsertStmt()
	case KwUpdate:
		return p.parseUpdateStmt()
	case KwDelete:
		return p.parseDeleteStmt()
	case KwDrop:
		return p.parseDropStmt()
	case KwBegin, KwCommit, KwEnd, KwRollback, KwSavepoint, KwRelease:
		return p.parseTransactionStmt()
	}
	return nil, newSyntaxError(ErrInvalidKeywordPlacement,
		fmt.Sprintf("keyword %s cannot start a statement", strings.ToUpper(tok.Text)), tok.Text)
}

// ---------------------------------------------------------------------------
// Shared helpers

func (p *Parser) accept(kw Keyword) bool {
	if p.q.LookAhead().Is(kw) {
		p.q.Pop()
		return true
	}
	return false
}

func (p *Parser) expectKeyword(kw Keyword) error {
	tok := p.q.Pop()
	if !tok.Is(kw) {
		return newSyntaxError(ErrMalformedCommand,
			fmt.Sprintf("expected %s", kw), tok.Text, kw.String())
	}
	return nil
}

// expectIdent consumes an identifier, accepting double-quoted spellings
func (p *Parser) expectIdent() (string, error) {
	tok := p.q.Pop()
	if tok.Type == IDENT_TOK || (tok.Type == STRING_TOK && tok.Quote == '"') {
		return tok.Text, nil
	}
	return "", newSyntaxError(ErrMalformedCommand,
		"expected identifier", tok.Text, "identifier")
}

func (p *Parser) expectPunct(tt TokenType, spelling string) error {
	tok := p.q.Pop()
	if tok.Type != tt {
		return newSyntaxError(ErrMalformedCommand,
			fmt.Sprintf("expected %q", spelling), tok.Text, spelling)
	}
	return nil
}

// expectInt consumes a plain integer literal, with an optional leading minus
func (p *Parser) expectInt() (int64, error) {
	neg := false
	tok := p.q.Pop()
	if tok.Type == MINUS_TOK {
		neg = true
		tok = p.q.Pop()
	}
	if tok.Type != NUMBER_TOK || strings.Contains(tok.Text, ".") {
		return 0, newSyntaxError(ErrExpectedInteger,
			"expected an integer value", tok.Text, "integer")
	}
	n, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		return 0, newSyntaxError(ErrExpectedInteger,
			"integer value out of range", tok.Text)
	}
	if neg {
		n = -n
	}
	return n, nil
}

// acceptIfNotExists consumes an optional IF NOT EXISTS
func (p *Parser) acceptIfNotExists() (bool, error) {
	if !p.accept(KwIf) {
		return false, nil
	}
	if err := p.expectKeyword(KwNot); err != nil {
		return false, err
	}
	if err := p.expectKeyword(KwExists); err != nil {
		return false, err
	}
	return true, nil
}

// acceptConflictPolicy consumes an optional ON CONFLICT clause
func (p *Parser) acceptConflictPolicy() (ConflictPolicy, error) {
	if !p.q.LookAhead().Is(KwOn) || !p.q.LookAheadAt(1).Is(KwConflict) {
		return ConflictNone, nil
	}
	p.q.Pop()
	p.q.Pop()
	return p.expectConflictPolicy()
}

func (p *Parser) expectConflictPolicy() (ConflictPolicy, error) {
	tok := p.q.Pop()
	kw, _ := tok.Keyword()
	switch kw {
	case KwRollback:
		return ConflictRollback, nil
	case KwAbort:
		return ConflictAbort, nil
	case KwFail:
		return ConflictFail, nil
	case KwIgnore:
		return ConflictIgnore, nil
	case KwReplace:
		return ConflictReplace, nil
	}
	return ConflictNone, newSyntaxError(ErrMalformedCommand,
		"expected conflict resolution policy", tok.Text,
		"ROLLBACK", "ABORT", "FAIL", "IGNORE", "REPLACE")
}

// ---------------------------------------------------------------------------
// CREATE family

func (p *Parser) parseCreateStmt() (Statement, error) {
	p.q.Pop() // CREATE

	temp := p.accept(KwTemp) || p.accept(KwTemporary)
	unique := p.accept(KwUnique)

	tok := p.q.LookAhead()
	kw, _ := tok.Keyword()
	switch {
	case kw == KwTable && !unique:
		return p.parseCreateTableStmt(temp)
	case kw == KwIndex:
		return p.parseCreateIndexStmt(unique)
	case kw == KwView && !unique:
		return p.parseCreateViewStmt(temp)
	case kw == KwTrigger && !unique:
		return p.parseCreateTriggerStmt(temp)
	}
	return nil, newSyntaxError(ErrMalformedCommand,
		"expected TABLE, INDEX, VIEW or TRIGGER after CREATE", tok.Text,
		"TABLE", "INDEX", "VIEW", "TRIGGER")
}

func (p *Parser) parseCreateTableStmt(temp bool) (Statement, error) {
	p.q.Pop() // TABLE
	ifNotExists, err := p.acceptIfNotExists()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	stmt := &CreateTableStmt{Name: name, Temp: temp, IfNotExists: ifNotExists}

	if p.accept(KwAs) {
		sel, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		stmt.AsSelect = sel.(*SelectStmt)
		return stmt, nil
	}

	if err := p.expectPunct(LPAREN_TOK, "("); err != nil {
		return nil, err
	}
	for {
		if kw, ok := p.q.LookAhead().Keyword(); ok && isTableConstraintStart(kw) {
			tc, err := p.parseTableConstraint()
			if err != nil {
				return nil, err
			}
			stmt.Constraints = append(stmt.Constraints, tc)
		} else {
			col, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
		}
		tok := p.q.Pop()
		if tok.Type == RPAREN_TOK {
			break
		}
		if tok.Type != COMMA_TOK {
			return nil, newSyntaxError(ErrMalformedCommand,
				"malformed column definition list", tok.Text, ",", ")")
		}
	}
	if len(stmt.Columns) == 0 {
		return nil, newSyntaxError(ErrMalformedCommand,
			"CREATE TABLE requires at least one column", "")
	}

	if p.accept(KwWithout) {
		tok := p.q.Pop()
		if !tok.Is(KwRowid) {
			return nil, newSyntaxError(ErrMalformedCommand,
				"expected ROWID after WITHOUT", tok.Text, "ROWID")
		}
		stmt.WithoutRowID = true
	}
	return stmt, nil
}

func isTableConstraintStart(kw Keyword) bool {
	switch kw {
	case KwConstraint, KwPrimary, KwUnique, KwCheck, KwForeign:
		return true
	}
	return false
}

func (p *Parser) parseColumnDef() (*ColumnDef, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	col := &ColumnDef{Name: name}

	// the declared type is any run of identifiers, optionally followed by
	// a parenthesized length/precision, e.g. VARCHAR(30) or DECIMAL(10, 5)
	var typeParts []string
	for p.q.LookAhead().Type == IDENT_TOK {
		typeParts = append(typeParts, p.q.Pop().Text)
	}
	if len(typeParts) > 0 && p.q.LookAhead().Type == LPAREN_TOK {
		p.q.Pop()
		args := "("
		for {
			tok := p.q.Pop()
			if tok.Type == RPAREN_TOK {
				args += ")"
				break
			}
			if tok.Type == EOF_TOK {
				return nil, newSyntaxError(ErrMalformedCommand,
					"unclosed type argument list", "")
			}
			if args != "(" {
				args += " "
			}
			args += tok.Text
		}
		typeParts[len(typeParts)-1] += args
	}
	col.Type = strings.Join(typeParts, " ")

	for {
		c, done, err := p.parseColumnConstraint()
		if err != nil {
			return nil, err
		}
		if done {
			return col, nil
		}
		col.Constraints = append(col.Constraints, c)
	}
}

func (p *Parser) parseColumnConstraint() (*ColumnConstraint, bool, error) {
	var name string
	if p.accept(KwConstraint) {
		n, err := p.expectIdent()
		if err != nil {
			return nil, false, err
		}
		name = n
	}

	kw, ok := p.q.LookAhead().Keyword()
	if !ok {
		if name != "" {
			return nil, false, newSyntaxError(ErrMalformedCommand,
				"dangling CONSTRAINT name", p.q.LookAhead().Text)
		}
		return nil, true, nil
	}

	c := &ColumnConstraint{Name: name}
	switch kw {
	case KwPrimary:
		p.q.Pop()
		if err := p.expectKeyword(KwKey); err != nil {
			return nil, false, err
		}
		c.Kind = ConstraintPrimaryKey
		if p.accept(KwDesc) {
			c.Desc = true
		} else {
			p.accept(KwAsc)
		}
		policy, err := p.acceptConflictPolicy()
		if err != nil {
			return nil, false, err
		}
		c.Conflict = policy
		c.Autoincrement = p.accept(KwAutoincrement)

	case KwNot:
		p.q.Pop()
		if err := p.expectKeyword(KwNull); err != nil {
			return nil, false, err
		}
		c.Kind = ConstraintNotNull
		policy, err := p.acceptConflictPolicy()
		if err != nil {
			return nil, false, err
		}
		c.Conflict = policy

	case KwUnique:
		p.q.Pop()
		c.Kind = ConstraintUnique
		policy, err := p.acceptConflictPolicy()
		if err != nil {
			return nil, false, err
		}
		c.Conflict = policy

	case KwCheck:
		p.q.Pop()
		expr, err := p.parseParenExpr()
		if err != nil {
			return nil, false, err
		}
		c.Kind = ConstraintCheck
		c.Check = expr

	case KwDefault:
		p.q.Pop()
		c.Kind = ConstraintDefault
		if p.q.LookAhead().Type == LPAREN_TOK {
			expr, err := p.parseParenExpr()
			if err != nil {
				return nil, false, err
			}
			c.Default = expr
		} else {
			expr, err := parseExpr(p.q, bpUnary)
			if err != nil {
				return nil, false, err
			}
			c.Default = expr
		}

	case KwCollate:
		p.q.Pop()
		coll, err := p.expectIdent()
		if err != nil {
			return nil, false, err
		}
		c.Kind = ConstraintCollate
		c.Collate = coll

	case KwReferences:
		p.q.Pop()
		fk, err := p.parseForeignKeyClause()
		if err != nil {
			return nil, false, err
		}
		c.Kind = ConstraintForeignKey
		c.ForeignKey = fk

	default:
		if name != "" {
			return nil, false, newSyntaxError(ErrMalformedCommand,
				"dangling CONSTRAINT name", p.q.LookAhead().Text)
		}
		return nil, true, nil
	}
	return c, false, nil
}

func (p *Parser) parseTableConstraint() (*TableConstraint, error) {
	var name string
	if p.accept(KwConstraint) {
		n, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		name = n
	}

	tc := &TableConstraint{Name: name}
	tok := p.q.Pop()
	kw, _ := tok.Keyword()
	switch kw {
	case KwPrimary:
		if err := p.expectKeyword(KwKey); err != nil {
			return nil, err
		}
		tc.Kind = ConstraintPrimaryKey
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		tc.Columns = cols

	case KwUnique:
		tc.Kind = ConstraintUnique
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		tc.Columns = cols

	case KwCheck:
		expr, err := p.parseParenExpr()
		if err != nil {
			return nil, err
		}
		tc.Kind = ConstraintCheck
		tc.Check = expr
		return tc, nil

	case KwForeign:
		if err := p.expectKeyword(KwKey); err != nil {
			return nil, err
		}
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword(KwReferences); err != nil {
			return nil, err
		}
		fk, err := p.parseForeignKeyClause()
		if err != nil {
			return nil, err
		}
		tc.Kind = ConstraintForeignKey
		tc.Columns = cols
		tc.ForeignKey = fk
		return tc, nil

	default:
		return nil, newSyntaxError(ErrMalformedCommand,
			"expected table constraint", tok.Text,
			"PRIMARY KEY", "UNIQUE", "CHECK", "FOREIGN KEY")
	}

	policy, err := p.acceptConflictPolicy()
	if err != nil {
		return nil, err
	}
	tc.Conflict = policy
	return tc, nil
}

func (p *Parser) parseForeignKeyClause() (*ForeignKeyClause, error) {
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	fk := &ForeignKeyClause{Table: table}

	if p.q.LookAhead().Type == LPAREN_TOK {
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		fk.Columns = cols
	}

	for p.q.LookAhead().Is(KwOn) {
		p.q.Pop()
		tok := p.q.Pop()
		var target *FKAction
		switch {
		case tok.Is(KwDelete):
			target = &fk.OnDelete
		case tok.Is(KwUpdate):
			target = &fk.OnUpdate
		default:
			return nil, newSyntaxError(ErrMalformedCommand,
				"expected DELETE or UPDATE after ON", tok.Text, "DELETE", "UPDATE")
		}
		action, err := p.parseFKAction()
		if err != nil {
			return nil, err
		}
		*target = action
	}
	return fk, nil
}

func (p *Parser) parseFKAction() (FKAction, error) {
	tok := p.q.Pop()
	kw, _ := tok.Keyword()
	switch kw {
	case KwSet:
		next := p.q.Pop()
		if next.Is(KwNull) {
			return FKSetNull, nil
		}
		if next.Is(KwDefault) {
			return FKSetDefault, nil
		}
		return 0, newSyntaxError(ErrMalformedCommand,
			"expected NULL or DEFAULT after SET", next.Text, "NULL", "DEFAULT")
	case KwCascade:
		return FKCascade, nil
	case KwRestrict:
		return FKRestrict, nil
	case KwNo:
		if err := p.expectKeyword(KwAction); err != nil {
			return 0, err
		}
		return FKNoAction, nil
	}
	return 0, newSyntaxError(ErrMalformedCommand,
		"expected referential action", tok.Text,
		"SET NULL", "SET DEFAULT", "CASCADE", "RESTRICT", "NO ACTION")
}

func (p *Parser) parseParenExpr() (Expression, error) {
	if err := p.expectPunct(LPAREN_TOK, "("); err != nil {
		return nil, err
	}
	expr, err := parseExpr(p.q, 0)
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(RPAREN_TOK, ")"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseParenIdentList() ([]string, error) {
	if err := p.expectPunct(LPAREN_TOK, "("); err != nil {
		return nil, err
	}
	var names []string
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		tok := p.q.Pop()
		if tok.Type == RPAREN_TOK {
			return names, nil
		}
		if tok.Type != COMMA_TOK {
			return nil, newSyntaxError(ErrMalformedCommand,
				"malformed identifier list", tok.Text, ",", ")")
		}
	}
}

func (p *Parser) parseCreateIndexStmt(unique bool) (Statement, error) {
	p.q.Pop() // INDEX
	ifNotExists, err := p.acceptIfNotExists()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(KwOn); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	stmt := &CreateIndexStmt{
		Name: name, Table: table,
		Unique: unique, IfNotExists: ifNotExists,
	}

	if err := p.expectPunct(LPAREN_TOK, "("); err != nil {
		return nil, err
	}
	for {
		col, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		ic := IndexedColumn{Name: col}
		if p.accept(KwCollate) {
			coll, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			ic.Collate = coll
		}
		if p.accept(KwDesc) {
			ic.Desc = true
		} else {
			p.accept(KwAsc)
		}
		stmt.Columns = append(stmt.Columns, ic)
		tok := p.q.Pop()
		if tok.Type == RPAREN_TOK {
			break
		}
		if tok.Type != COMMA_TOK {
			return nil, newSyntaxError(ErrMalformedCommand,
				"malformed index column list", tok.Text, ",", ")")
		}
	}

	if p.accept(KwWhere) {
		expr, err := parseExpr(p.q, 0)
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}
	return stmt, nil
}

func (p *Parser) parseCreateViewStmt(temp bool) (Statement, error) {
	p.q.Pop() // VIEW
	ifNotExists, err := p.acceptIfNotExists()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	stmt := &CreateViewStmt{Name: name, Temp: temp, IfNotExists: ifNotExists}
	if p.q.LookAhead().Type == LPAREN_TOK {
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		stmt.Columns = cols
	}

	if err := p.expectKeyword(KwAs); err != nil {
		return nil, err
	}
	sel, err := p.parseSelectStmt()
	if err != nil {
		return nil, err
	}
	stmt.Select = sel.(*SelectStmt)
	return stmt, nil
}

func (p *Parser) parseCreateTriggerStmt(temp bool) (Statement, error) {
	p.q.Pop() // TRIGGER
	ifNotExists, err := p.acceptIfNotExists()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	stmt := &CreateTriggerStmt{Name: name, Temp: temp, IfNotExists: ifNotExists}

	switch {
	case p.accept(KwBefore):
		stmt.Timing = TriggerBefore
	case p.accept(KwAfter):
		stmt.Timing = TriggerAfter
	case p.q.LookAhead().Is(KwInstead):
		p.q.Pop()
		if err := p.expectKeyword(KwOf); err != nil {
			return nil, err
		}
		stmt.Timing = TriggerInsteadOf
	default:
		stmt.Timing = TriggerBefore
	}

	tok := p.q.Pop()
	switch {
	case tok.Is(KwDelete):
		stmt.Event = TriggerDelete
	case tok.Is(KwInsert):
		stmt.Event = TriggerInsert
	case tok.Is(KwUpdate):
		stmt.Event = TriggerUpdate
		if p.accept(KwOf) {
			for {
				col, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				stmt.UpdateColumns = append(stmt.UpdateColumns, col)
				if p.q.LookAhead().Type != COMMA_TOK {
					break
				}
				p.q.Pop()
			}
		}
	default:
		return nil, newSyntaxError(ErrMalformedCommand,
			"expected trigger event", tok.Text, "DELETE", "INSERT", "UPDATE")
	}

	if err := p.expectKeyword(KwOn); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	if p.accept(KwFor) {
		if err := p.expectKeyword(KwEach); err != nil {
			return nil, err
		}
		if err := p.expectKeyword(KwRow); err != nil {
			return nil, err
		}
		stmt.ForEachRow = true
	}

	if p.accept(KwWhen) {
		expr, err := parseExpr(p.q, 0)
		if err != nil {
			return nil, err
		}
		stmt.When = expr
	}

	if err := p.expectKeyword(KwBegin); err != nil {
		return nil, err
	}
	for {
		if p.accept(KwEnd) {
			if len(stmt.Body) == 0 {
				return nil, newSyntaxError(ErrMalformedCommand,
					"trigger body requires at least one statement", "END")
			}
			return stmt, nil
		}
		if p.q.LookAhead().Type == EOF_TOK {
			return nil, newSyntaxError(ErrMalformedCommand,
				"trigger body must be closed with END", "", "END")
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Body = append(stmt.Body, body)
		if err := p.expectPunct(SEMICOLON_TOK, ";"); err != nil {
			return nil, err
		}
	}
}

// ---------------------------------------------------------------------------
// ALTER TABLE

func (p *Parser) parseAlterTableStmt() (Statement, error) {
	p.q.Pop() // ALTER
	if err := p.expectKeyword(KwTable); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	stmt := &AlterTableStmt{Table: table}

	tok := p.q.Pop()
	switch {
	case tok.Is(KwRename):
		if p.accept(KwTo) {
			stmt.Action = AlterRenameTable
			newName, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			stmt.NewName = newName
			return stmt, nil
		}
		p.accept(KwColumn)
		stmt.Action = AlterRenameColumn
		col, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword(KwTo); err != nil {
			return nil, err
		}
		newName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		stmt.ColumnName = col
		stmt.NewName = newName
		return stmt, nil

	case tok.Is(KwAdd):
		p.accept(KwColumn)
		stmt.Action = AlterAddColumn
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Column = col
		return stmt, nil

	case tok.Is(KwDrop):
		p.accept(KwColumn)
		stmt.Action = AlterDropColumn
		col, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		stmt.ColumnName = col
		return stmt, nil
	}
	return nil, newSyntaxError(ErrMalformedCommand,
		"expected RENAME, ADD or DROP", tok.Text, "RENAME", "ADD", "DROP")
}

// ---------------------------------------------------------------------------
// SELECT

func (p *Parser) parseSelectStmt() (Statement, error) {
	if err := p.expectKeyword(KwSelect); err != nil {
		return nil, err
	}
	stmt := &SelectStmt{}

	if p.accept(KwDistinct) {
		stmt.Distinct = true
	} else {
		p.accept(KwAll)
	}

	for {
		col, err := p.parseResultColumn()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)
		if p.q.LookAhead().Type != COMMA_TOK {
			break
		}
		p.q.Pop()
	}
	if len(stmt.Columns) == 0 {
		return nil, newSyntaxError(ErrMalformedCommand,
			"SELECT requires a result column list", p.q.LookAhead().Text)
	}

	if p.accept(KwFrom) {
		from, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		stmt.From = from
		joins, err := p.parseJoins()
		if err != nil {
			return nil, err
		}
		stmt.Joins = joins
	}

	if p.accept(KwWhere) {
		expr, err := parseExpr(p.q, 0)
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}

	if p.q.LookAhead().Is(KwGroup) {
		p.q.Pop()
		if err := p.expectKeyword(KwBy); err != nil {
			return nil, err
		}
		for {
			expr, err := parseExpr(p.q, 0)
			if err != nil {
				return nil, err
			}
			stmt.GroupBy = append(stmt.GroupBy, expr)
			if p.q.LookAhead().Type != COMMA_TOK {
				break
			}
			p.q.Pop()
		}
	}

	if p.accept(KwHaving) {
		expr, err := parseExpr(p.q, 0)
		if err != nil {
			return nil, err
		}
		stmt.Having = expr
	}

	if p.q.LookAhead().Is(KwOrder) {
		p.q.Pop()
		if err := p.expectKeyword(KwBy); err != nil {
			return nil, err
		}
		for {
			term, err := p.parseOrderingTerm()
			if err != nil {
				return nil, err
			}
			stmt.OrderBy = append(stmt.OrderBy, term)
			if p.q.LookAhead().Type != COMMA_TOK {
				break
			}
			p.q.Pop()
		}
	}

	if p.accept(KwLimit) {
		limit, err := p.parseLimitClause()
		if err != nil {
			return nil, err
		}
		stmt.Limit = limit
	}
	return stmt, nil
}

func (p *Parser) parseResultColumn() (ResultColumn, error) {
	tok := p.q.LookAhead()
	if tok.Type == ASTERISK_TOK {
		p.q.Pop()
		return ResultColumn{Star: true}, nil
	}
	// table.* needs two tokens of look-ahead before falling back to an
	// expression, which also starts with an identifier
	if tok.Type == IDENT_TOK && p.q.LookAheadAt(1).Type == DOT_TOK &&
		p.q.LookAheadAt(2).Type == ASTERISK_TOK {
		p.q.Pop()
		p.q.Pop()
		p.q.Pop()
		return ResultColumn{Star: true, Table: tok.Text}, nil
	}

	expr, err := parseExpr(p.q, 0)
	if err != nil {
		return ResultColumn{}, err
	}
	col := ResultColumn{Expr: expr}
	if p.accept(KwAs) {
		alias, err := p.expectIdent()
		if err != nil {
			return ResultColumn{}, err
		}
		col.Alias = alias
	} else if p.q.LookAhead().Type == IDENT_TOK {
		col.Alias = p.q.Pop().Text
	}
	return col, nil
}

func (p *Parser) parseTableRef() (*TableRef, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	ref := &TableRef{Name: name}
	if p.accept(KwAs) {
		alias, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		ref.Alias = alias
	} else if p.q.LookAhead().Type == IDENT_TOK {
		ref.Alias = p.q.Pop().Text
	}
	return ref, nil
}

func (p *Parser) parseJoins() ([]*JoinClause, error) {
	var joins []*JoinClause
	for {
		join := &JoinClause{}
		natural := p.accept(KwNatural)
		join.Natural = natural

		switch {
		case p.accept(KwLeft):
			p.accept(KwOuter)
			join.Type = JoinLeftOuter
			if err := p.expectKeyword(KwJoin); err != nil {
				return nil, err
			}
		case p.accept(KwInner):
			join.Type = JoinInner
			if err := p.expectKeyword(KwJoin); err != nil {
				return nil, err
			}
		case p.accept(KwCross):
			join.Type = JoinCross
			if err := p.expectKeyword(KwJoin); err != nil {
				return nil, err
			}
		case p.accept(KwJoin):
			join.Type = JoinInner
		default:
			if natural {
				return nil, newSyntaxError(ErrMalformedCommand,
					"expected JOIN after NATURAL", p.q.LookAhead().Text, "JOIN")
			}
			return joins, nil
		}

		table, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		join.Table = table

		if p.accept(KwOn) {
			expr, err := parseExpr(p.q, 0)
			if err != nil {
				return nil, err
			}
			join.On = expr
		} else if p.accept(KwUsing) {
			cols, err := p.parseParenIdentList()
			if err != nil {
				return nil, err
			}
			join.Using = cols
		}
		joins = append(joins, join)
	}
}

func (p *Parser) parseOrderingTerm() (*OrderingTerm, error) {
	expr, err := parseExpr(p.q, 0)
	if err != nil {
		return nil, err
	}
	term := &OrderingTerm{Expr: expr}
	if p.accept(KwCollate) {
		coll, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		term.Collate = coll
	}
	if p.accept(KwDesc) {
		term.Desc = true
	} else {
		p.accept(KwAsc)
	}
	return term, nil
}

func (p *Parser) parseLimitClause() (*LimitClause, error) {
	first, err := p.expectInt()
	if err != nil {
		return nil, err
	}
	limit := &LimitClause{Count: first}

	switch {
	case p.accept(KwOffset):
		offset, err := p.expectInt()
		if err != nil {
			return nil, err
		}
		limit.HasOffset = true
		limit.Offset = offset
	case p.q.LookAhead().Type == COMMA_TOK:
		// LIMIT offset, count
		p.q.Pop()
		count, err := p.expectInt()
		if err != nil {
			return nil, err
		}
		limit.HasOffset = true
		limit.Offset = first
		limit.Count = count
	}
	return limit, nil
}

// ---------------------------------------------------------------------------
// INSERT / UPDATE / DELETE

func (p *Parser) parseInsertStmt() (Statement, error) {
	p.q.Pop() // INSERT
	stmt := &InsertStmt{}

	if p.accept(KwOr) {
		policy, err := p.expectConflictPolicy()
		if err != nil {
			return nil, err
		}
		stmt.Policy = policy
	}
	if err := p.expectKeyword(KwInto); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	if p.q.LookAhead().Type == LPAREN_TOK {
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		stmt.Columns = cols
	}

	tok := p.q.LookAhead()
	switch {
	case tok.Is(KwValues):
		p.q.Pop()
		for {
			if err := p.expectPunct(LPAREN_TOK, "("); err != nil {
				return nil, err
			}
			var row []Expression
			for {
				expr, err := parseExpr(p.q, 0)
				if err != nil {
					return nil, err
				}
				row = append(row, expr)
				t := p.q.Pop()
				if t.Type == RPAREN_TOK {
					break
				}
				if t.Type != COMMA_TOK {
					return nil, newSyntaxError(ErrMalformedCommand,
						"malformed VALUES row", t.Text, ",", ")")
				}
			}
			if len(stmt.Columns) > 0 && len(row) != len(stmt.Columns) {
				return nil, newSyntaxError(ErrMalformedCommand,
					fmt.Sprintf("VALUES row has %d values for %d columns",
						len(row), len(stmt.Columns)), "")
			}
			stmt.Rows = append(stmt.Rows, row)
			if p.q.LookAhead().Type != COMMA_TOK {
				break
			}
			p.q.Pop()
		}

	case tok.Is(KwSelect):
		sel, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		stmt.Select = sel.(*SelectStmt)

	case tok.Is(KwDefault):
		p.q.Pop()
		if err := p.expectKeyword(KwValues); err != nil {
			return nil, err
		}
		stmt.DefaultValues = true

	default:
		return nil, newSyntaxError(ErrMalformedCommand,
			"expected VALUES, SELECT or DEFAULT VALUES", tok.Text,
			"VALUES", "SELECT", "DEFAULT VALUES")
	}
	return stmt, nil
}

func (p *Parser) parseUpdateStmt() (Statement, error) {
	p.q.Pop() // UPDATE
	stmt := &UpdateStmt{}

	if p.accept(KwOr) {
		policy, err := p.expectConflictPolicy()
		if err != nil {
			return nil, err
		}
		stmt.Policy = policy
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	if err := p.expectKeyword(KwSet); err != nil {
		return nil, err
	}
	for {
		col, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		tok := p.q.Pop()
		if !tok.IsComparison("=") {
			return nil, newSyntaxError(ErrMalformedCommand,
				"SET requires column = expression", tok.Text, "=")
		}
		expr, err := parseExpr(p.q, 0)
		if err != nil {
			return nil, err
		}
		stmt.Sets = append(stmt.Sets, SetClause{Column: col, Value: expr})
		if p.q.LookAhead().Type != COMMA_TOK {
			break
		}
		p.q.Pop()
	}

	if p.accept(KwWhere) {
		expr, err := parseExpr(p.q, 0)
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}
	return stmt, nil
}

func (p *Parser) parseDeleteStmt() (Statement, error) {
	p.q.Pop() // DELETE
	if err := p.expectKeyword(KwFrom); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	stmt := &DeleteStmt{Table: table}

	if p.accept(KwWhere) {
		expr, err := parseExpr(p.q, 0)
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}
	return stmt, nil
}

// ---------------------------------------------------------------------------
// DROP / transactions

func (p *Parser) parseDropStmt() (Statement, error) {
	p.q.Pop() // DROP
	tok := p.q.Pop()
	var kind DropKind
	switch {
	case tok.Is(KwTable):
		kind = DropTable
	case tok.Is(KwIndex):
		kind = DropIndex
	case tok.Is(KwView):
		kind = DropView
	case tok.Is(KwTrigger):
		kind = DropTrigger
	default:
		return nil, newSyntaxError(ErrMalformedCommand,
			"expected TABLE, INDEX, VIEW or TRIGGER after DROP", tok.Text,
			"TABLE", "INDEX", "VIEW", "TRIGGER")
	}

	ifExists := false
	if p.accept(KwIf) {
		if err := p.expectKeyword(KwExists); err != nil {
			return nil, err
		}
		ifExists = true
	}

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	return &DropStmt{Kind: kind, Name: name, IfExists: ifExists}, nil
}

func (p *Parser) parseTransactionStmt() (Statement, error) {
	tok := p.q.Pop()
	kw, _ := tok.Keyword()
	stmt := &TransactionStmt{}

	switch kw {
	case KwBegin:
		stmt.Op = TxBegin
		switch {
		case p.accept(KwDeferred):
			stmt.Mode = TxDeferred
		case p.accept(KwImmediate):
			stmt.Mode = TxImmediate
		case p.accept(KwExclusive):
			stmt.Mode = TxExclusive
		}
		p.accept(KwTransaction)

	case KwCommit, KwEnd:
		stmt.Op = TxCommit
		p.accept(KwTransaction)

	case KwRollback:
		stmt.Op = TxRollback
		p.accept(KwTransaction)
		if p.accept(KwTo) {
			p.accept(KwSavepoint)
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			stmt.Savepoint = name
		}

	case KwSavepoint:
		stmt.Op = TxSavepoint
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		stmt.Savepoint = name

	case KwRelease:
		stmt.Op = TxRelease
		p.accept(KwSavepoint)
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		stmt.Savepoint = name
	}
	return stmt, nil
}
