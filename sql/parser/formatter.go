package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Format serializes a statement DOM back into canonical SQL with uppercase
// keywords and consistent spacing. Parsing the result yields an equivalent
// DOM (structural round-trip).
func Format(stmt Statement) string {
	switch s := stmt.(type) {
	case *CreateTableStmt:
		return formatCreateTableStmt(s)
	case *AlterTableStmt:
		return formatAlterTableStmt(s)
	case *CreateIndexStmt:
		return formatCreateIndexStmt(s)
	case *CreateViewStmt:
		return formatCreateViewStmt(s)
	case *CreateTriggerStmt:
		return formatCreateTriggerStmt(s)
	case *SelectStmt:
		return formatSelectStmt(s)
	case *InsertStmt:
		return formatInsertStmt(s)
	case *UpdateStmt:
		return formatUpdateStmt(s)
	case *DeleteStmt:
		return formatDeleteStmt(s)
	case *DropStmt:
		return formatDropStmt(s)
	case *TransactionStmt:
		return formatTransactionStmt(s)
	default:
		return fmt.Sprintf("-- unsupported statement type: %T", stmt)
	}
}

// FormatExpr serializes an expression sub-tree
func FormatExpr(expr Expression) string {
	switch e := expr.(type) {
	case *Literal:
		return formatLiteral(e)
	case *Unary:
		return formatUnary(e)
	case *Binary:
		return formatBinary(e)
	case *FunctionCall:
		return formatFunctionCall(e)
	case *Between:
		return formatBetween(e)
	case *In:
		return formatIn(e)
	case *Case:
		return formatCase(e)
	case *ForeignKeyRef:
		return e.Table + "." + e.Column
	default:
		return fmt.Sprintf("-- unsupported expression type: %T", expr)
	}
}

func formatLiteral(e *Literal) string {
	switch e.Kind {
	case LiteralNull:
		return "NULL"
	case LiteralInt:
		return strconv.FormatInt(e.Int, 10)
	case LiteralFloat:
		return strconv.FormatFloat(e.Float, 'g', -1, 64)
	case LiteralText:
		return "'" + strings.ReplaceAll(e.Text, "'", "''") + "'"
	case LiteralIdent:
		return e.Text
	}
	return ""
}

func formatUnary(e *Unary) string {
	operand := FormatExpr(e.Operand)
	switch e.Op {
	case UnaryPlus:
		return "+" + operand
	case UnaryMinus:
		return "-" + operand
	case UnaryNot:
		return "NOT " + operand
	}
	return operand
}

func formatBinary(e *Binary) string {
	return fmt.Sprintf("(%s %s %s)", FormatExpr(e.Left), e.Op, FormatExpr(e.Right))
}

func formatFunctionCall(e *FunctionCall) string {
	if e.Star {
		return e.Fn.String() + "(*)"
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = FormatExpr(a)
	}
	return e.Fn.String() + "(" + strings.Join(args, ", ") + ")"
}

func formatBetween(e *Between) string {
	op := "BETWEEN"
	if e.Negate {
		op = "NOT BETWEEN"
	}
	return fmt.Sprintf("(%s %s %s AND %s)",
		FormatExpr(e.Test), op, FormatExpr(e.Low), FormatExpr(e.High))
}

func formatIn(e *In) string {
	op := "IN"
	if e.Negate {
		op = "NOT IN"
	}
	items := make([]string, len(e.List))
	for i, item := range e.List {
		items[i] = FormatExpr(item)
	}
	return fmt.Sprintf("(%s %s (%s))", FormatExpr(e.Test), op, strings.Join(items, ", "))
}

func formatCase(e *Case) string {
	var parts []string
	parts = append(parts, "CASE")
	if e.Subject != nil {
		parts = append(parts, FormatExpr(e.Subject))
	}
	for _, w := range e.Whens {
		parts = append(parts, "WHEN", FormatExpr(w.When), "THEN", FormatExpr(w.Then))
	}
	if e.Else != nil {
		parts = append(parts, "ELSE", FormatExpr(e.Else))
	}
	parts = append(parts, "END")
	return strings.Join(parts, " ")
}

func formatCreateTableStmt(s *CreateTableStmt) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if s.Temp {
		b.WriteString("TEMP ")
	}
	b.WriteString("TABLE ")
	if s.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(s.Name)

	if s.AsSelect != nil {
		b.WriteString(" AS ")
		b.WriteString(formatSelectStmt(s.AsSelect))
		return b.String()
	}

	b.WriteString(" (")
	var defs []string
	for _, col := range s.Columns {
		defs = append(defs, formatColumnDef(col))
	}
	for _, tc := range s.Constraints {
		defs = append(defs, formatTableConstraint(tc))
	}
	b.WriteString(strings.Join(defs, ", "))
	b.WriteString(")")
	if s.WithoutRowID {
		b.WriteString(" WITHOUT ROWID")
	}
	return b.String()
}

func formatColumnDef(col *ColumnDef) string {
	parts := []string{col.Name}
	if col.Type != "" {
		parts = append(parts, col.Type)
	}
	for _, c := range col.Constraints {
		parts = append(parts, formatColumnConstraint(c))
	}
	return strings.Join(parts, " ")
}

func formatColumnConstraint(c *ColumnConstraint) string {
	var parts []string
	if c.Name != "" {
		parts = append(parts, "CONSTRAINT", c.Name)
	}
	switch c.Kind {
	case ConstraintPrimaryKey:
		parts = append(parts, "PRIMARY KEY")
		if c.Desc {
			parts = append(parts, "DESC")
		}
		if c.Conflict != ConflictNone {
			parts = append(parts, "ON CONFLICT", c.Conflict.String())
		}
		if c.Autoincrement {
			parts = append(parts, "AUTOINCREMENT")
		}
	case ConstraintNotNull:
		parts = append(parts, "NOT NULL")
		if c.Conflict != ConflictNone {
			parts = append(parts, "ON CONFLICT", c.Conflict.String())
		}
	case ConstraintUnique:
		parts = append(parts, "UNIQUE")
		if c.Conflict != ConflictNone {
			parts = append(parts, "ON CONFLICT", c.Conflict.String())
		}
	case ConstraintCheck:
		parts = append(parts, "CHECK ("+FormatExpr(c.Check)+")")
	case ConstraintDefault:
		parts = append(parts, "DEFAULT", FormatExpr(c.Default))
	case ConstraintCollate:
		parts = append(parts, "COLLATE", c.Collate)
	case ConstraintForeignKey:
		parts = append(parts, formatForeignKeyClause(c.ForeignKey))
	}
	return strings.Join(parts, " ")
}

func formatTableConstraint(tc *TableConstraint) string {
	var parts []string
	if tc.Name != "" {
		parts = append(parts, "CONSTRAINT", tc.Name)
	}
	switch tc.Kind {
	case ConstraintPrimaryKey:
		parts = append(parts, "PRIMARY KEY ("+strings.Join(tc.Columns, ", ")+")")
	case ConstraintUnique:
		parts = append(parts, "UNIQUE ("+strings.Join(tc.Columns, ", ")+")")
	case ConstraintCheck:
		parts = append(parts, "CHECK ("+FormatExpr(tc.Check)+")")
	case ConstraintForeignKey:
		parts = append(parts, "FOREIGN KEY ("+strings.Join(tc.Columns, ", ")+")",
			formatForeignKeyClause(tc.ForeignKey))
	}
	if tc.Conflict != ConflictNone {
		parts = append(parts, "ON CONFLICT", tc.Conflict.String())
	}
	return strings.Join(parts, " ")
}

func formatForeignKeyClause(fk *ForeignKeyClause) string {
	var b strings.Builder
	b.WriteString("REFERENCES ")
	b.WriteString(fk.Table)
	if len(fk.Columns) > 0 {
		b.WriteString(" (" + strings.Join(fk.Columns, ", ") + ")")
	}
	if fk.OnDelete != FKNoAction {
		b.WriteString(" ON DELETE " + fk.OnDelete.String())
	}
	if fk.OnUpdate != FKNoAction {
		b.WriteString(" ON UPDATE " + fk.OnUpdate.String())
	}
	return b.String()
}

func formatAlterTableStmt(s *AlterTableStmt) string {
	prefix := "ALTER TABLE " + s.Table + " "
	switch s.Action {
	case AlterRenameTable:
		return prefix + "RENAME TO " + s.NewName
	case AlterRenameColumn:
		return prefix + "RENAME COLUMN " + s.ColumnName + " TO " + s.NewName
	case AlterAddColumn:
		return prefix + "ADD COLUMN " + formatColumnDef(s.Column)
	case AlterDropColumn:
		return prefix + "DROP COLUMN " + s.ColumnName
	}
	return prefix
}

func formatCreateIndexStmt(s *CreateIndexStmt) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if s.Unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")
	if s.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(s.Name + " ON " + s.Table + " (")
	var cols []string
	for _, ic := range s.Columns {
		col := ic.Name
		if ic.Collate != "" {
			col += " COLLATE " + ic.Collate
		}
		if ic.Desc {
			col += " DESC"
		}
		cols = append(cols, col)
	}
	b.WriteString(strings.Join(cols, ", ") + ")")
	if s.Where != nil {
		b.WriteString(" WHERE " + FormatExpr(s.Where))
	}
	return b.String()
}

func formatCreateViewStmt(s *CreateViewStmt) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if s.Temp {
		b.WriteString("TEMP ")
	}
	b.WriteString("VIEW ")
	if s.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(s.Name)
	if len(s.Columns) > 0 {
		b.WriteString(" (" + strings.Join(s.Columns, ", ") + ")")
	}
	b.WriteString(" AS " + formatSelectStmt(s.Select))
	return b.String()
}

func formatCreateTriggerStmt(s *CreateTriggerStmt) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if s.Temp {
		b.WriteString("TEMP ")
	}
	b.WriteString("TRIGGER ")
	if s.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(s.Name + " ")
	switch s.Timing {
	case TriggerBefore:
		b.WriteString("BEFORE ")
	case TriggerAfter:
		b.WriteString("AFTER ")
	case TriggerInsteadOf:
		b.WriteString("INSTEAD OF ")
	}
	switch s.Event {
	case TriggerDelete:
		b.WriteString("DELETE")
	case TriggerInsert:
		b.WriteString("INSERT")
	case TriggerUpdate:
		b.WriteString("UPDATE")
		if len(s.UpdateColumns) > 0 {
			b.WriteString(" OF " + strings.Join(s.UpdateColumns, ", "))
		}
	}
	b.WriteString(" ON " + s.Table)
	if s.ForEachRow {
		b.WriteString(" FOR EACH ROW")
	}
	if s.When != nil {
		b.WriteString(" WHEN " + FormatExpr(s.When))
	}
	b.WriteString(" BEGIN ")
	for _, body := range s.Body {
		b.WriteString(Format(body) + "; ")
	}
	b.WriteString("END")
	return b.String()
}

func formatSelectStmt(s *SelectStmt) string {
	var parts []string
	parts = append(parts, "SELECT")
	if s.Distinct {
		parts = append(parts, "DISTINCT")
	}

	var cols []string
	for _, col := range s.Columns {
		cols = append(cols, formatResultColumn(col))
	}
	parts = append(parts, strings.Join(cols, ", "))

	if s.From != nil {
		parts = append(parts, "FROM", formatTableRef(s.From))
		for _, join := range s.Joins {
			parts = append(parts, formatJoinClause(join))
		}
	}
	if s.Where != nil {
		parts = append(parts, "WHERE", FormatExpr(s.Where))
	}
	if len(s.GroupBy) > 0 {
		var exprs []string
		for _, g := range s.GroupBy {
			exprs = append(exprs, FormatExpr(g))
		}
		parts = append(parts, "GROUP BY", strings.Join(exprs, ", "))
	}
	if s.Having != nil {
		parts = append(parts, "HAVING", FormatExpr(s.Having))
	}
	if len(s.OrderBy) > 0 {
		var terms []string
		for _, t := range s.OrderBy {
			term := FormatExpr(t.Expr)
			if t.Collate != "" {
				term += " COLLATE " + t.Collate
			}
			if t.Desc {
				term += " DESC"
			}
			terms = append(terms, term)
		}
		parts = append(parts, "ORDER BY", strings.Join(terms, ", "))
	}
	if s.Limit != nil {
		parts = append(parts, "LIMIT", strconv.FormatInt(s.Limit.Count, 10))
		if s.Limit.HasOffset {
			parts = append(parts, "OFFSET", strconv.FormatInt(s.Limit.Offset, 10))
		}
	}
	return strings.Join(parts, " ")
}

func formatResultColumn(col ResultColumn) string {
	if col.Star {
		if col.Table != "" {
			return col.Table + ".*"
		}
		return "*"
	}
	out := FormatExpr(col.Expr)
	if col.Alias != "" {
		out += " AS " + col.Alias
	}
	return out
}

func formatTableRef(ref *TableRef) string {
	if ref.Alias != "" {
		return ref.Name + " AS " + ref.Alias
	}
	return ref.Name
}

func formatJoinClause(join *JoinClause) string {
	var parts []string
	if join.Natural {
		parts = append(parts, "NATURAL")
	}
	switch join.Type {
	case JoinLeftOuter:
		parts = append(parts, "LEFT OUTER JOIN")
	case JoinCross:
		parts = append(parts, "CROSS JOIN")
	default:
		parts = append(parts, "INNER JOIN")
	}
	parts = append(parts, formatTableRef(join.Table))
	if join.On != nil {
		parts = append(parts, "ON", FormatExpr(join.On))
	}
	if len(join.Using) > 0 {
		parts = append(parts, "USING ("+strings.Join(join.Using, ", ")+")")
	}
	return strings.Join(parts, " ")
}

func formatInsertStmt(s *InsertStmt) string {
	var b strings.Builder
	b.WriteString("INSERT ")
	if s.Policy != ConflictNone {
		b.WriteString("OR " + s.Policy.String() + " ")
	}
	b.WriteString("INTO " + s.Table)
	if len(s.Columns) > 0 {
		b.WriteString(" (" + strings.Join(s.Columns, ", ") + ")")
	}
	switch {
	case s.DefaultValues:
		b.WriteString(" DEFAULT VALUES")
	case s.Select != nil:
		b.WriteString(" " + formatSelectStmt(s.Select))
	default:
		b.WriteString(" VALUES ")
		var rows []string
		for _, row := range s.Rows {
			var vals []string
			for _, v := range row {
				vals = append(vals, FormatExpr(v))
			}
			rows = append(rows, "("+strings.Join(vals, ", ")+")")
		}
		b.WriteString(strings.Join(rows, ", "))
	}
	return b.String()
}

func formatUpdateStmt(s *UpdateStmt) string {
	var b strings.Builder
	b.WriteString("UPDATE ")
	if s.Policy != ConflictNone {
		b.WriteString("OR " + s.Policy.String() + " ")
	}
	b.WriteString(s.Table + " SET ")
	var sets []string
	for _, set := range s.Sets {
		sets = append(sets, set.Column+" = "+FormatExpr(set.Value))
	}
	b.WriteString(strings.Join(sets, ", "))
	if s.Where != nil {
		b.WriteString(" WHERE " + FormatExpr(s.Where))
	}
	return b.String()
}

func formatDeleteStmt(s *DeleteStmt) string {
	out := "DELETE FROM " + s.Table
	if s.Where != nil {
		out += " WHERE " + FormatExpr(s.Where)
	}
	return out
}

func formatDropStmt(s *DropStmt) string {
	out := "DROP " + s.Kind.String() + " "
	if s.IfExists {
		out += "IF EXISTS "
	}
	return out + s.Name
}

func formatTransactionStmt(s *TransactionStmt) string {
	switch s.Op {
	case TxBegin:
		out := "BEGIN"
		switch s.Mode {
		case TxDeferred:
			out += " DEFERRED"
		case TxImmediate:
			out += " IMMEDIATE"
		case TxExclusive:
			out += " EXCLUSIVE"
		}
		return out + " TRANSACTION"
	case TxCommit:
		return "COMMIT"
	case TxRollback:
		if s.Savepoint != "" {
			return "ROLLBACK TO SAVEPOINT " + s.Savepoint
		}
		return "ROLLBACK"
	case TxSavepoint:
		return "SAVEPOINT " + s.Savepoint
	case TxRelease:
		return "RELEASE SAVEPOINT " + s.Savepoint
	}
	return ""
}
