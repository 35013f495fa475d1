package ast

// Vocabulary identifies the version of the node kind enumeration. Bump it
// whenever a kind is added or its fields change meaning.
const Vocabulary = "python-3.12/2"

// Kind tags every node with its syntactic category.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindModule

	// Statements
	KindFunctionDef
	KindClassDef
	KindReturn
	KindDelete
	KindAssign
	KindAugAssign
	KindAnnAssign
	KindFor
	KindWhile
	KindIf
	KindWith
	KindMatch
	KindRaise
	KindTry
	KindAssert
	KindImport
	KindImportFrom
	KindGlobal
	KindNonlocal
	KindExprStmt
	KindPass
	KindBreak
	KindContinue

	// Expressions
	KindBoolOp
	KindNamedExpr
	KindBinOp
	KindUnaryOp
	KindLambda
	KindIfExp
	KindDict
	KindSet
	KindListComp
	KindSetComp
	KindDictComp
	KindGeneratorExp
	KindAwait
	KindYield
	KindYieldFrom
	KindCompare
	KindCall
	KindJoinedStr
	KindConstant
	KindAttribute
	KindSubscript
	KindStarred
	KindName
	KindList
	KindTuple
	KindSlice

	// Helper nodes
	KindComprehension
	KindExceptHandler
	KindArguments
	KindArg
	KindKeyword
	KindAlias
	KindWithItem
	KindMatchCase
	KindMatchAs
	KindMatchPattern

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:       "Unknown",
	KindModule:        "Module",
	KindFunctionDef:   "FunctionDef",
	KindClassDef:      "ClassDef",
	KindReturn:        "Return",
	KindDelete:        "Delete",
	KindAssign:        "Assign",
	KindAugAssign:     "AugAssign",
	KindAnnAssign:     "AnnAssign",
	KindFor:           "For",
	KindWhile:         "While",
	KindIf:            "If",
	KindWith:          "With",
	KindMatch:         "Match",
	KindRaise:         "Raise",
	KindTry:           "Try",
	KindAssert:        "Assert",
	KindImport:        "Import",
	KindImportFrom:    "ImportFrom",
	KindGlobal:        "Global",
	KindNonlocal:      "Nonlocal",
	KindExprStmt:      "Expr",
	KindPass:          "Pass",
	KindBreak:         "Break",
	KindContinue:      "Continue",
	KindBoolOp:        "BoolOp",
	KindNamedExpr:     "NamedExpr",
	KindBinOp:         "BinOp",
	KindUnaryOp:       "UnaryOp",
	KindLambda:        "Lambda",
	KindIfExp:         "IfExp",
	KindDict:          "Dict",
	KindSet:           "Set",
	KindListComp:      "ListComp",
	KindSetComp:       "SetComp",
	KindDictComp:      "DictComp",
	KindGeneratorExp:  "GeneratorExp",
	KindAwait:         "Await",
	KindYield:         "Yield",
	KindYieldFrom:     "YieldFrom",
	KindCompare:       "Compare",
	KindCall:          "Call",
	KindJoinedStr:     "JoinedStr",
	KindConstant:      "Constant",
	KindAttribute:     "Attribute",
	KindSubscript:     "Subscript",
	KindStarred:       "Starred",
	KindName:          "Name",
	KindList:          "List",
	KindTuple:         "Tuple",
	KindSlice:         "Slice",
	KindComprehension: "comprehension",
	KindExceptHandler: "ExceptHandler",
	KindArguments:     "arguments",
	KindArg:           "arg",
	KindKeyword:       "keyword",
	KindAlias:         "alias",
	KindWithItem:      "withitem",
	KindMatchCase:     "match_case",
	KindMatchAs:       "MatchAs",
	KindMatchPattern:  "MatchPattern",
}

// String returns the grammar name of the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// Span is the source range of a node. Lines are 1-based, columns are
// 0-based byte offsets.
type Span struct {
	Line    int
	Col     int
	EndLine int
	EndCol  int
}

// Pos returns the span itself so that embedding Span satisfies Node.Pos.
func (s Span) Pos() Span { return s }

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() Kind
	Pos() Span
	// Children returns the direct child nodes in source order.
	Children() []Node
}

// Op names an operator by its grammar identifier (Add, Eq, And, ...).
type Op string

const (
	Add      Op = "Add"
	Sub      Op = "Sub"
	Mult     Op = "Mult"
	MatMult  Op = "MatMult"
	Div      Op = "Div"
	Mod      Op = "Mod"
	Pow      Op = "Pow"
	LShift   Op = "LShift"
	RShift   Op = "RShift"
	BitOr    Op = "BitOr"
	BitXor   Op = "BitXor"
	BitAnd   Op = "BitAnd"
	FloorDiv Op = "FloorDiv"

	Invert Op = "Invert"
	Not    Op = "Not"
	UAdd   Op = "UAdd"
	USub   Op = "USub"

	And Op = "And"
	Or  Op = "Or"

	Eq    Op = "Eq"
	NotEq Op = "NotEq"
	Lt    Op = "Lt"
	LtE   Op = "LtE"
	Gt    Op = "Gt"
	GtE   Op = "GtE"
	Is    Op = "Is"
	IsNot Op = "IsNot"
	In    Op = "In"
	NotIn Op = "NotIn"
)

// Bytes is the value of a bytes literal. It is distinct from string so that
// b"x" and "x" are different constants.
type Bytes string

// BigInt is the decimal text of an integer literal too large for int64. It
// is distinct from string so that the literal 100000000000000000000 and the
// string "100000000000000000000" are different constants.
type BigInt string

// Ellipsis is the value of the ... literal.
type Ellipsis struct{}

// nodes drops nil entries so Children never yields a nil node.
func nodes(in ...Node) []Node {
	out := make([]Node, 0, len(in))
	for _, n := range in {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func appendAll[T Node](dst []Node, src []T) []Node {
	for _, n := range src {
		dst = append(dst, n)
	}
	return dst
}

// Module is the root of a parsed file.
type Module struct {
	Span
	Body []Node
}

func (*Module) Kind() Kind          { return KindModule }
func (n *Module) Children() []Node { return nodes(n.Body...) }

// Unknown wraps a construct outside the vocabulary. Type is the parser's
// own name for it.
type Unknown struct {
	Span
	Type  string
	Nodes []Node
}

func (*Unknown) Kind() Kind          { return KindUnknown }
func (n *Unknown) Children() []Node { return nodes(n.Nodes...) }
