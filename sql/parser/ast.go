package parser

// Statement is a parsed top-level instruction. The variant set is closed:
// CreateTableStmt, AlterTableStmt, CreateIndexStmt, CreateViewStmt,
// CreateTriggerStmt, SelectStmt, InsertStmt, UpdateStmt, DeleteStmt,
// DropStmt, TransactionStmt.
type Statement interface {
	statementNode()
}

// Expression is a parsed value or condition sub-tree. The variant set is
// closed: Literal, Unary, Binary, FunctionCall, Between, In, Case,
// ForeignKeyRef. Nodes are immutable once constructed and own their
// children exclusively.
type Expression interface {
	expressionNode()
}

// ---------------------------------------------------------------------------
// Expressions

// LiteralKind tags the value carried by a Literal node
type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralText
	LiteralIdent // bare identifier, resolved against the record at eval time
)

// Literal is a constant value or a bare column-name identifier. Identifier
// literals resolve to a record lookup at evaluation time; a name absent
// from the record evaluates to null, not an error.
type Literal struct {
	Kind  LiteralKind
	Text  string // text value or identifier name
	Int   int64
	Float float64
}

// Unary applies +, - or NOT to a single operand
type Unary struct {
	Op      UnaryOp
	Operand Expression
}

type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
)

// Binary combines two operands with an arithmetic, comparison, logical or
// pattern-match operator
type Binary struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpConcat
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpLike
	OpNotLike
	OpGlob
	OpRegexp
	OpMatch
	OpIs
	OpIsNot
	OpAnd
	OpOr
)

var binaryOpNames = map[BinaryOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpConcat: "||",
	OpEq:     "=", OpNe: "!=", OpLt: "<", OpGt: ">", OpLe: "<=", OpGe: ">=",
	OpLike: "LIKE", OpNotLike: "NOT LIKE", OpGlob: "GLOB", OpRegexp: "REGEXP",
	OpMatch: "MATCH", OpIs: "IS", OpIsNot: "IS NOT",
	OpAnd: "AND", OpOr: "OR",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

// FunctionCall invokes a builtin function over zero or more argument
// expressions. Star marks COUNT(*).
type FunctionCall struct {
	Fn   Function
	Args []Expression
	Star bool
}

// Between tests whether Test falls inclusively between Low and High.
// Negate flips the result (NOT BETWEEN); a null test value stays null.
type Between struct {
	Test   Expression
	Low    Expression
	High   Expression
	Negate bool
}

// In tests membership of Test in List, with an optional NOT
type In struct {
	Test   Expression
	List   []Expression
	Negate bool
}

// WhenClause is one WHEN/THEN arm of a CASE expression
type WhenClause struct {
	When Expression
	Then Expression
}

// Case is a CASE expression in either form: with a Subject
// (CASE x WHEN v THEN r ...) or without (CASE WHEN cond THEN r ...).
// Arms match first-wins in declaration order; Else may be nil.
type Case struct {
	Subject Expression
	Whens   []WhenClause
	Else    Expression
}

// ForeignKeyRef references a column of another table (table.column)
type ForeignKeyRef struct {
	Table  string
	Column string
}

func (*Literal) expressionNode()       {}
func (*Unary) expressionNode()         {}
func (*Binary) expressionNode()        {}
func (*FunctionCall) expressionNode()  {}
func (*Between) expressionNode()       {}
func (*In) expressionNode()            {}
func (*Case) expressionNode()          {}
func (*ForeignKeyRef) expressionNode() {}

// ---------------------------------------------------------------------------
// Column and constraint records

// ConflictPolicy is the ON CONFLICT resolution attached to a constraint or
// to an INSERT/UPDATE (INSERT OR REPLACE, UPDATE OR ROLLBACK, ...)
type ConflictPolicy int

const (
	ConflictNone ConflictPolicy = iota
	ConflictRollback
	ConflictAbort
	ConflictFail
	ConflictIgnore
	ConflictReplace
)

var conflictNames = map[ConflictPolicy]string{
	ConflictRollback: "ROLLBACK",
	ConflictAbort:    "ABORT",
	ConflictFail:     "FAIL",
	ConflictIgnore:   "IGNORE",
	ConflictReplace:  "REPLACE",
}

func (p ConflictPolicy) String() string { return conflictNames[p] }

type ConstraintKind int

const (
	ConstraintPrimaryKey ConstraintKind = iota
	ConstraintNotNull
	ConstraintUnique
	ConstraintCheck
	ConstraintDefault
	ConstraintCollate
	ConstraintForeignKey
)

// ColumnConstraint is one constraint attached to a column definition
type ColumnConstraint struct {
	Kind          ConstraintKind
	Name          string // optional CONSTRAINT name
	Desc          bool   // PRIMARY KEY DESC
	Autoincrement bool
	Check         Expression
	Default       Expression
	Collate       string
	ForeignKey    *ForeignKeyClause
	Conflict      ConflictPolicy
}

// TableConstraint is a table-level constraint in a CREATE TABLE body
type TableConstraint struct {
	Kind       ConstraintKind // primary key, unique, check or foreign key
	Name       string
	Columns    []string
	Check      Expression
	ForeignKey *ForeignKeyClause
	Conflict   ConflictPolicy
}

// FKAction is a referential action for ON DELETE / ON UPDATE
type FKAction int

const (
	FKNoAction FKAction = iota
	FKSetNull
	FKSetDefault
	FKCascade
	FKRestrict
)

var fkActionNames = map[FKAction]string{
	FKNoAction:   "NO ACTION",
	FKSetNull:    "SET NULL",
	FKSetDefault: "SET DEFAULT",
	FKCascade:    "CASCADE",
	FKRestrict:   "RESTRICT",
}

func (a FKAction) String() string { return fkActionNames[a] }

// ForeignKeyClause is the REFERENCES target of a foreign-key constraint
type ForeignKeyClause struct {
	Table    string
	Columns  []string
	OnDelete FKAction
	OnUpdate FKAction
}

// ColumnDef is one column definition in a CREATE TABLE or ADD COLUMN
type ColumnDef struct {
	Name        string
	Type        string // declared type name as written, may be empty
	Constraints []*ColumnConstraint
}

// Constraint returns the first constraint of the given kind, or nil
func (cd *ColumnDef) Constraint(kind ConstraintKind) *ColumnConstraint {
	for _, c := range cd.Constraints {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Statements

// CreateTableStmt is CREATE [TEMP] TABLE [IF NOT EXISTS] name
// (columns, constraints) [WITHOUT ROWID], or the AS SELECT form.
type CreateTableStmt struct {
	Name         string
	Temp         bool
	IfNotExists  bool
	WithoutRowID bool
	Columns      []*ColumnDef
	Constraints  []*TableConstraint
	AsSelect     *SelectStmt
}

// Column returns the named column definition, or nil
func (s *CreateTableStmt) Column(name string) *ColumnDef {
	for _, c := range s.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type AlterAction int

const (
	AlterRenameTable AlterAction = iota
	AlterRenameColumn
	AlterAddColumn
	AlterDropColumn
)

// AlterTableStmt is ALTER TABLE name RENAME TO / RENAME COLUMN /
// ADD COLUMN / DROP COLUMN
type AlterTableStmt struct {
	Table      string
	Action     AlterAction
	NewName    string     // RENAME TO target or RENAME COLUMN target
	ColumnName string     // RENAME COLUMN / DROP COLUMN subject
	Column     *ColumnDef // ADD COLUMN definition
}

// IndexedColumn is one column of an index key
type IndexedColumn struct {
	Name    string
	Collate string
	Desc    bool
}

// CreateIndexStmt is CREATE [UNIQUE] INDEX [IF NOT EXISTS] name ON table
// (columns) [WHERE expr]
type CreateIndexStmt struct {
	Name        string
	Table       string
	Unique      bool
	IfNotExists bool
	Columns     []IndexedColumn
	Where       Expression
}

// CreateViewStmt is CREATE [TEMP] VIEW [IF NOT EXISTS] name
// [(columns)] AS select
type CreateViewStmt struct {
	Name        string
	Temp        bool
	IfNotExists bool
	Columns     []string
	Select      *SelectStmt
}

type TriggerTiming int

const (
	TriggerBefore TriggerTiming = iota
	TriggerAfter
	TriggerInsteadOf
)

type TriggerEvent int

const (
	TriggerDelete TriggerEvent = iota
	TriggerInsert
	TriggerUpdate
)

// CreateTriggerStmt parses fully into DOM form even though execution of
// triggers is a caller concern
type CreateTriggerStmt struct {
	Name          string
	Temp          bool
	IfNotExists   bool
	Timing        TriggerTiming
	Event         TriggerEvent
	UpdateColumns []string // UPDATE OF col, ...
	Table         string
	ForEachRow    bool
	When          Expression
	Body          []Statement
}

// ResultColumn is one entry of a SELECT column list: *, table.*, an
// expression, or an aliased expression
type ResultColumn struct {
	Star  bool
	Table string // qualifier for table.*
	Expr  Expression
	Alias string
}

// TableRef names a table with an optional alias
type TableRef struct {
	Name  string
	Alias string
}

type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeftOuter
	JoinCross
)

// JoinClause chains one joined table onto the FROM clause
type JoinClause struct {
	Type    JoinType
	Natural bool
	Table   *TableRef
	On      Expression
	Using   []string
}

// OrderingTerm is one ORDER BY entry
type OrderingTerm struct {
	Expr    Expression
	Collate string
	Desc    bool
}

// LimitClause carries LIMIT and the optional OFFSET
type LimitClause struct {
	Count     int64
	HasOffset bool
	Offset    int64
}

// SelectStmt is a full SELECT query
type SelectStmt struct {
	Distinct bool
	Columns  []ResultColumn
	From     *TableRef
	Joins    []*JoinClause
	Where    Expression
	GroupBy  []Expression
	Having   Expression
	OrderBy  []*OrderingTerm
	Limit    *LimitClause
}

// InsertStmt is INSERT [OR policy] INTO table [(columns)] followed by
// VALUES rows, a SELECT, or DEFAULT VALUES
type InsertStmt struct {
	Table         string
	Policy        ConflictPolicy
	Columns       []string
	Rows          [][]Expression
	Select        *SelectStmt
	DefaultValues bool
}

// SetClause is one column = expr assignment of an UPDATE
type SetClause struct {
	Column string
	Value  Expression
}

// UpdateStmt is UPDATE [OR policy] table SET assignments [WHERE expr]
type UpdateStmt struct {
	Table  string
	Policy ConflictPolicy
	Sets   []SetClause
	Where  Expression
}

// DeleteStmt is DELETE FROM table [WHERE expr]
type DeleteStmt struct {
	Table string
	Where Expression
}

type DropKind int

const (
	DropTable DropKind = iota
	DropIndex
	DropView
	DropTrigger
)

var dropKindNames = map[DropKind]string{
	DropTable:   "TABLE",
	DropIndex:   "INDEX",
	DropView:    "VIEW",
	DropTrigger: "TRIGGER",
}

func (k DropKind) String() string { return dropKindNames[k] }

// DropStmt is DROP TABLE/INDEX/VIEW/TRIGGER [IF EXISTS] name
type DropStmt struct {
	Kind     DropKind
	Name     string
	IfExists bool
}

type TxOp int

const (
	TxBegin TxOp = iota
	TxCommit
	TxRollback
	TxSavepoint
	TxRelease
)

type TxMode int

const (
	TxModeNone TxMode = iota
	TxDeferred
	TxImmediate
	TxExclusive
)

// TransactionStmt covers BEGIN/COMMIT/ROLLBACK/SAVEPOINT/RELEASE
type TransactionStmt struct {
	Op        TxOp
	Mode      TxMode
	Savepoint string // ROLLBACK TO / SAVEPOINT / RELEASE target
}

func (*CreateTableStmt) statementNode()   {}
func (*AlterTableStmt) statementNode()    {}
func (*CreateIndexStmt) statementNode()   {}
func (*CreateViewStmt) statementNode()    {}
func (*CreateTriggerStmt) statementNode() {}
func (*SelectStmt) statementNode()        {}
func (*InsertStmt) statementNode()        {}
func (*UpdateStmt) statementNode()        {}
func (*DeleteStmt) statementNode()        {}
func (*DropStmt) statementNode()          {}
func (*TransactionStmt) statementNode()   {}
