package parser

import "strings"

// Keyword identifies a reserved word of the supported SQL subset.
// The set is closed; identifiers that collide with a keyword must be quoted.
type Keyword int

const (
	KwAbort Keyword = iota
	KwAction
	KwAdd
	KwAfter
	KwAll
	KwAlter
	KwAnalyze
	KwAnd
	KwAs
	KwAsc
	KwAttach
	KwAutoincrement
	KwBefore
	KwBegin
	KwBetween
	KwBy
	KwCascade
	KwCase
	KwCast
	KwCheck
	KwCollate
	KwColumn
	KwCommit
	KwConflict
	KwConstraint
	KwCreate
	KwCross
	KwCurrentDate
	KwCurrentTime
	KwCurrentTimestamp
	KwDatabase
	KwDefault
	KwDeferrable
	KwDeferred
	KwDelete
	KwDesc
	KwDetach
	KwDistinct
	KwDrop
	KwEach
	KwElse
	KwEnd
	KwEscape
	KwExcept
	KwExclusive
	KwExists
	KwExplain
	KwFail
	KwFor
	KwForeign
	KwFrom
	KwFull
	KwGlob
	KwGroup
	KwHaving
	KwIf
	KwIgnore
	KwImmediate
	KwIn
	KwIndex
	KwIndexed
	KwInitially
	KwInner
	KwInsert
	KwInstead
	KwIntersect
	KwInto
	KwIs
	KwIsnull
	KwJoin
	KwKey
	KwLeft
	KwLike
	KwLimit
	KwMatch
	KwNatural
	KwNo
	KwNot
	KwNotnull
	KwNull
	KwOf
	KwOffset
	KwOn
	KwOr
	KwOrder
	KwOuter
	KwPlan
	KwPragma
	KwPrimary
	KwQuery
	KwRaise
	KwRecursive
	KwReferences
	KwRegexp
	KwReindex
	KwRelease
	KwRename
	KwReplace
	KwRestrict
	KwRight
	KwRollback
	KwRow
	KwRowid
	KwSavepoint
	KwSelect
	KwSet
	KwTable
	KwTemp
	KwTemporary
	KwThen
	KwTo
	KwTransaction
	KwTrigger
	KwUnion
	KwUnique
	KwUpdate
	KwUsing
	KwVacuum
	KwValues
	KwView
	KwVirtual
	KwWhen
	KwWhere
	KwWith
	KwWithout
)

var keywordTable = map[string]Keyword{
	"ABORT":             KwAbort,
	"ACTION":            KwAction,
	"ADD":               KwAdd,
	"AFTER":             KwAfter,
	"ALL":               KwAll,
	"ALTER":             KwAlter,
	"ANALYZE":           KwAnalyze,
	"AND":               KwAnd,
	"AS":                KwAs,
	"ASC":               KwAsc,
	"ATTACH":            KwAttach,
	"AUTOINCREMENT":     KwAutoincrement,
	"BEFORE":            KwBefore,
	"BEGIN":             KwBegin,
	"BETWEEN":           KwBetween,
	"BY":                KwBy,
	"CASCADE":           KwCascade,
	"CASE":              KwCase,
	"CAST":              KwCast,
	"CHECK":             KwCheck,
	"COLLATE":           KwCollate,
	"COLUMN":            KwColumn,
	"COMMIT":            KwCommit,
	"CONFLICT":          KwConflict,
	"CONSTRAINT":        KwConstraint,
	"CREATE":            KwCreate,
	"CROSS":             KwCross,
	"CURRENT_DATE":      KwCurrentDate,
	"CURRENT_TIME":      KwCurrentTime,
	"CURRENT_TIMESTAMP": KwCurrentTimestamp,
	"DATABASE":          KwDatabase,
	"DEFAULT":           KwDefault,
	"DEFERRABLE":        KwDeferrable,
	"DEFERRED":          KwDeferred,
	"DELETE":            KwDelete,
	"DESC":              KwDesc,
	"DETACH":            KwDetach,
	"DISTINCT":          KwDistinct,
	"DROP":              KwDrop,
	"EACH":              KwEach,
	"ELSE":              KwElse,
	"END":               KwEnd,
	"ESCAPE":            KwEscape,
	"EXCEPT":            KwExcept,
	"EXCLUSIVE":         KwExclusive,
	"EXISTS":            KwExists,
	"EXPLAIN":           KwExplain,
	"FAIL":              KwFail,
	"FOR":               KwFor,
	"FOREIGN":           KwForeign,
	"FROM":              KwFrom,
	"FULL":              KwFull,
	"GLOB":              KwGlob,
	"GROUP":             KwGroup,
	"HAVING":            KwHaving,
	"IF":                KwIf,
	"IGNORE":            KwIgnore,
	"IMMEDIATE":         KwImmediate,
	"IN":                KwIn,
	"INDEX":             KwIndex,
	"INDEXED":           KwIndexed,
	"INITIALLY":         KwInitially,
	"INNER":             KwInner,
	"INSERT":            KwInsert,
	"INSTEAD":           KwInstead,
	"INTERSECT":         KwIntersect,
	"INTO":              KwInto,
	"IS":                KwIs,
	"ISNULL":            KwIsnull,
	"JOIN":              KwJoin,
	"KEY":               KwKey,
	"LEFT":              KwLeft,
	"LIKE":              KwLike,
	"LIMIT":             KwLimit,
	"MATCH":             KwMatch,
	"NATURAL":           KwNatural,
	"NO":                KwNo,
	"NOT":               KwNot,
	"NOTNULL":           KwNotnull,
	"NULL":              KwNull,
	"OF":                KwOf,
	"OFFSET":            KwOffset,
	"ON":                KwOn,
	"OR":                KwOr,
	"ORDER":             KwOrder,
	"OUTER":             KwOuter,
	"PLAN":              KwPlan,
	"PRAGMA":            KwPragma,
	"PRIMARY":           KwPrimary,
	"QUERY":             KwQuery,
	"RAISE":             KwRaise,
	"RECURSIVE":         KwRecursive,
	"REFERENCES":        KwReferences,
	"REGEXP":            KwRegexp,
	"REINDEX":           KwReindex,
	"RELEASE":           KwRelease,
	"RENAME":            KwRename,
	"REPLACE":           KwReplace,
	"RESTRICT":          KwRestrict,
	"RIGHT":             KwRight,
	"ROLLBACK":          KwRollback,
	"ROW":               KwRow,
	"ROWID":             KwRowid,
	"SAVEPOINT":         KwSavepoint,
	"SELECT":            KwSelect,
	"SET":               KwSet,
	"TABLE":             KwTable,
	"TEMP":              KwTemp,
	"TEMPORARY":         KwTemporary,
	"THEN":              KwThen,
	"TO":                KwTo,
	"TRANSACTION":       KwTransaction,
	"TRIGGER":           KwTrigger,
	"UNION":             KwUnion,
	"UNIQUE":            KwUnique,
	"UPDATE":            KwUpdate,
	"USING":             KwUsing,
	"VACUUM":            KwVacuum,
	"VALUES":            KwValues,
	"VIEW":              KwView,
	"VIRTUAL":           KwVirtual,
	"WHEN":              KwWhen,
	"WHERE":             KwWhere,
	"WITH":              KwWith,
	"WITHOUT":           KwWithout,
}

var keywordNames = func() map[Keyword]string {
	m := make(map[Keyword]string, len(keywordTable))
	for name, kw := range keywordTable {
		m[kw] = name
	}
	return m
}()

// KeywordOf looks up a keyword by its case-insensitive spelling
func KeywordOf(text string) (Keyword, bool) {
	kw, ok := keywordTable[strings.ToUpper(text)]
	return kw, ok
}

// String returns the canonical uppercase spelling of the keyword
func (k Keyword) String() string {
	return keywordNames[k]
}

// Function identifies a builtin SQL function
type Function int

const (
	FnUpper Function = iota
	FnLower
	FnLength
	FnSubstr
	FnReplace
	FnTrim
	FnLTrim
	FnRTrim
	FnInstr
	FnHex
	FnQuote
	FnAbs
	FnRound
	FnRandom
	FnCoalesce
	FnIfNull
	FnNullIf
	FnTypeOf
	FnDate
	FnTime
	FnDateTime
	FnJulianDay
	FnStrfTime
	FnUUID
	FnCompare
	FnCount
	FnSum
	FnAvg
	FnMin
	FnMax
)

// funcSpec fixes the canonical name and accepted argument count per function.
// maxArgs of -1 means unbounded (variadic).
type funcSpec struct {
	name      string
	minArgs   int
	maxArgs   int
	aggregate bool
}

var funcSpecs = map[Function]funcSpec{
	FnUpper:     {"UPPER", 1, 1, false},
	FnLower:     {"LOWER", 1, 1, false},
	FnLength:    {"LENGTH", 1, 1, false},
	FnSubstr:    {"SUBSTR", 2, 3, false},
	FnReplace:   {"REPLACE", 3, 3, false},
	FnTrim:      {"TRIM", 1, 2, false},
	FnLTrim:     {"LTRIM", 1, 2, false},
	FnRTrim:     {"RTRIM", 1, 2, false},
	FnInstr:     {"INSTR", 2, 2, false},
	FnHex:       {"HEX", 1, 1, false},
	FnQuote:     {"QUOTE", 1, 1, false},
	FnAbs:       {"ABS", 1, 1, false},
	FnRound:     {"ROUND", 1, 2, false},
	FnRandom:    {"RANDOM", 0, 0, false},
	FnCoalesce:  {"COALESCE", 2, -1, false},
	FnIfNull:    {"IFNULL", 2, 2, false},
	FnNullIf:    {"NULLIF", 2, 2, false},
	FnTypeOf:    {"TYPEOF", 1, 1, false},
	FnDate:      {"DATE", 0, 1, false},
	FnTime:      {"TIME", 0, 1, false},
	FnDateTime:  {"DATETIME", 0, 1, false},
	FnJulianDay: {"JULIANDAY", 0, 1, false},
	FnStrfTime:  {"STRFTIME", 1, 2, false},
	FnUUID:      {"UUID", 0, 0, false},
	FnCompare:   {"COMPARE", 3, 3, false},
	FnCount:     {"COUNT", 1, 1, true},
	FnSum:       {"SUM", 1, 1, true},
	FnAvg:       {"AVG", 1, 1, true},
	FnMin:       {"MIN", 1, 1, true},
	FnMax:       {"MAX", 1, 1, true},
}

var funcTable = func() map[string]Function {
	m := make(map[string]Function, len(funcSpecs))
	for fn, spec := range funcSpecs {
		m[spec.name] = fn
	}
	return m
}()

// FunctionOf looks up a builtin function by its case-insensitive name
func FunctionOf(text string) (Function, bool) {
	fn, ok := funcTable[strings.ToUpper(text)]
	return fn, ok
}

// String returns the canonical uppercase function name
func (f Function) String() string {
	return funcSpecs[f].name
}

// IsAggregate reports whether the function only makes sense over a group
// of records (COUNT, SUM, AVG, MIN, MAX)
func (f Function) IsAggregate() bool {
	return funcSpecs[f].aggregate
}

// ArgRange returns the accepted argument count; max is -1 for variadic
func (f Function) ArgRange() (min, max int) {
	spec := funcSpecs[f]
	return spec.minArgs, spec.maxArgs
}
