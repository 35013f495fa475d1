package ast

// FunctionDef is a def or async def statement.
type FunctionDef struct {
	Span
	Name       string
	Args       *Arguments
	Body       []Node
	Decorators []Node
	Returns    Node
	Async      bool
}

func (*FunctionDef) Kind() Kind { return KindFunctionDef }
func (n *FunctionDef) Children() []Node {
	out := nodes(n.Decorators...)
	if n.Args != nil {
		out = append(out, n.Args)
	}
	if n.Returns != nil {
		out = append(out, n.Returns)
	}
	return append(out, nodes(n.Body...)...)
}

// ClassDef is a class statement. Bases holds the positional arguments of the
// header, Keywords the keyword ones (metaclass=...).
type ClassDef struct {
	Span
	Name       string
	Bases      []Node
	Keywords   []*Keyword
	Body       []Node
	Decorators []Node
}

func (*ClassDef) Kind() Kind { return KindClassDef }
func (n *ClassDef) Children() []Node {
	out := nodes(n.Decorators...)
	out = append(out, nodes(n.Bases...)...)
	out = appendAll(out, n.Keywords)
	return append(out, nodes(n.Body...)...)
}

type Return struct {
	Span
	Value Node
}

func (*Return) Kind() Kind          { return KindReturn }
func (n *Return) Children() []Node { return nodes(n.Value) }

type Delete struct {
	Span
	Targets []Node
}

func (*Delete) Kind() Kind          { return KindDelete }
func (n *Delete) Children() []Node { return nodes(n.Targets...) }

// Assign is a plain assignment. Chained assignments (a = b = c) produce a
// single Assign with several targets.
type Assign struct {
	Span
	Targets []Node
	Value   Node
}

func (*Assign) Kind() Kind          { return KindAssign }
func (n *Assign) Children() []Node { return append(nodes(n.Targets...), nodes(n.Value)...) }

type AugAssign struct {
	Span
	Target Node
	Op     Op
	Value  Node
}

func (*AugAssign) Kind() Kind          { return KindAugAssign }
func (n *AugAssign) Children() []Node { return nodes(n.Target, n.Value) }

// AnnAssign is an annotated assignment; Value is nil for a bare annotation.
type AnnAssign struct {
	Span
	Target     Node
	Annotation Node
	Value      Node
}

func (*AnnAssign) Kind() Kind          { return KindAnnAssign }
func (n *AnnAssign) Children() []Node { return nodes(n.Target, n.Annotation, n.Value) }

type For struct {
	Span
	Target Node
	Iter   Node
	Body   []Node
	Orelse []Node
	Async  bool
}

func (*For) Kind() Kind { return KindFor }
func (n *For) Children() []Node {
	out := nodes(n.Target, n.Iter)
	out = append(out, nodes(n.Body...)...)
	return append(out, nodes(n.Orelse...)...)
}

type While struct {
	Span
	Test   Node
	Body   []Node
	Orelse []Node
}

func (*While) Kind() Kind { return KindWhile }
func (n *While) Children() []Node {
	out := nodes(n.Test)
	out = append(out, nodes(n.Body...)...)
	return append(out, nodes(n.Orelse...)...)
}

// If is an if statement. An elif chain is a nested If as the sole Orelse
// statement.
type If struct {
	Span
	Test   Node
	Body   []Node
	Orelse []Node
}

func (*If) Kind() Kind { return KindIf }
func (n *If) Children() []Node {
	out := nodes(n.Test)
	out = append(out, nodes(n.Body...)...)
	return append(out, nodes(n.Orelse...)...)
}

type With struct {
	Span
	Items []*WithItem
	Body  []Node
	Async bool
}

func (*With) Kind() Kind { return KindWith }
func (n *With) Children() []Node {
	out := appendAll(make([]Node, 0, len(n.Items)+len(n.Body)), n.Items)
	return append(out, nodes(n.Body...)...)
}

type WithItem struct {
	Span
	ContextExpr  Node
	OptionalVars Node
}

func (*WithItem) Kind() Kind          { return KindWithItem }
func (n *WithItem) Children() []Node { return nodes(n.ContextExpr, n.OptionalVars) }

type Match struct {
	Span
	Subject Node
	Cases   []*MatchCase
}

func (*Match) Kind() Kind { return KindMatch }
func (n *Match) Children() []Node {
	return appendAll(nodes(n.Subject), n.Cases)
}

type MatchCase struct {
	Span
	Pattern Node
	Guard   Node
	Body    []Node
}

func (*MatchCase) Kind() Kind { return KindMatchCase }
func (n *MatchCase) Children() []Node {
	return append(nodes(n.Pattern, n.Guard), nodes(n.Body...)...)
}

// MatchAs is a capture pattern. With a nil Pattern it is irrefutable:
// Name is empty for the wildcard "_" and set for "case name:".
type MatchAs struct {
	Span
	Pattern Node
	Name    string
}

func (*MatchAs) Kind() Kind          { return KindMatchAs }
func (n *MatchAs) Children() []Node { return nodes(n.Pattern) }

// MatchPattern is any refutable pattern (value, sequence, mapping, class,
// or pattern). Nodes holds its sub-patterns and expressions.
type MatchPattern struct {
	Span
	Nodes []Node
}

func (*MatchPattern) Kind() Kind          { return KindMatchPattern }
func (n *MatchPattern) Children() []Node { return nodes(n.Nodes...) }

type Raise struct {
	Span
	Exc   Node
	Cause Node
}

func (*Raise) Kind() Kind          { return KindRaise }
func (n *Raise) Children() []Node { return nodes(n.Exc, n.Cause) }

// Try is a try statement. Star marks try/except* groups.
type Try struct {
	Span
	Body      []Node
	Handlers  []*ExceptHandler
	Orelse    []Node
	Finalbody []Node
	Star      bool
}

func (*Try) Kind() Kind { return KindTry }
func (n *Try) Children() []Node {
	out := nodes(n.Body...)
	out = appendAll(out, n.Handlers)
	out = append(out, nodes(n.Orelse...)...)
	return append(out, nodes(n.Finalbody...)...)
}

type ExceptHandler struct {
	Span
	Type Node
	Name string
	Body []Node
}

func (*ExceptHandler) Kind() Kind { return KindExceptHandler }
func (n *ExceptHandler) Children() []Node {
	return append(nodes(n.Type), nodes(n.Body...)...)
}

type Assert struct {
	Span
	Test Node
	Msg  Node
}

func (*Assert) Kind() Kind          { return KindAssert }
func (n *Assert) Children() []Node { return nodes(n.Test, n.Msg) }

type Import struct {
	Span
	Names []*Alias
}

func (*Import) Kind() Kind          { return KindImport }
func (n *Import) Children() []Node { return appendAll(nil, n.Names) }

// ImportFrom is a from-import. Module excludes the leading dots, which
// are counted in Level.
type ImportFrom struct {
	Span
	Module string
	Names  []*Alias
	Level  int
}

func (*ImportFrom) Kind() Kind          { return KindImportFrom }
func (n *ImportFrom) Children() []Node { return appendAll(nil, n.Names) }

// Alias is one imported name; AsName is empty without an "as" clause.
type Alias struct {
	Span
	Name   string
	AsName string
}

func (*Alias) Kind() Kind        { return KindAlias }
func (*Alias) Children() []Node { return nil }

type Global struct {
	Span
	Names []string
}

func (*Global) Kind() Kind        { return KindGlobal }
func (*Global) Children() []Node { return nil }

type Nonlocal struct {
	Span
	Names []string
}

func (*Nonlocal) Kind() Kind        { return KindNonlocal }
func (*Nonlocal) Children() []Node { return nil }

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Span
	Value Node
}

func (*ExprStmt) Kind() Kind          { return KindExprStmt }
func (n *ExprStmt) Children() []Node { return nodes(n.Value) }

type Pass struct{ Span }

func (*Pass) Kind() Kind        { return KindPass }
func (*Pass) Children() []Node { return nil }

type Break struct{ Span }

func (*Break) Kind() Kind        { return KindBreak }
func (*Break) Children() []Node { return nil }

type Continue struct{ Span }

func (*Continue) Kind() Kind        { return KindContinue }
func (*Continue) Children() []Node { return nil }
